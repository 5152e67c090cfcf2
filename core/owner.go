// Copyright (c) 2022-2026 Vexel Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package core

import "fmt"

// OwnerID identifies the dialog a file belongs to. Zero means ownerless.
type OwnerID int64

// IsZero returns whether o carries no owner.
func (o OwnerID) IsZero() bool { return o == 0 }

func (o OwnerID) String() string { return fmt.Sprintf("owner(%d)", int64(o)) }

// EncryptionKey holds the symmetric key material of an end-to-end
// encrypted file. An empty key means the file is not encrypted.
type EncryptionKey []byte

// Empty returns whether no key material is present.
func (k EncryptionKey) Empty() bool { return len(k) == 0 }

// Equal compares key material byte for byte.
func (k EncryptionKey) Equal(o EncryptionKey) bool {
	if len(k) != len(o) {
		return false
	}
	for i := range k {
		if k[i] != o[i] {
			return false
		}
	}
	return true
}
