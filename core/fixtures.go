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

import (
	"fmt"

	"github.com/vexel-im/courier/utils/randutil"
)

// FullRemoteFixture returns a random full remote reference of the given type.
func FullRemoteFixture(t FileType) FullRemote {
	return FullRemote{
		FileType:   t,
		DC:         int32(randutil.Int63n(5) + 1),
		ID:         randutil.Int63(),
		AccessHash: randutil.Int63(),
	}
}

// FullLocalFixture returns a full local location with a unique fake path.
func FullLocalFixture(t FileType) FullLocal {
	return FullLocal{
		FileType: t,
		Path:     fmt.Sprintf("/tmp/files/%s", randutil.Text(16)),
		MTimeNS:  randutil.Int63(),
	}
}

// FullGenerateFixture returns a random generate recipe.
func FullGenerateFixture(t FileType) FullGenerate {
	return FullGenerate{
		FileType:     t,
		OriginalPath: fmt.Sprintf("/tmp/files/%s.src", randutil.Text(16)),
		Conversion:   fmt.Sprintf("conv_%s", randutil.Text(8)),
	}
}

// OwnerIDFixture returns a random non-zero owner.
func OwnerIDFixture() OwnerID {
	return OwnerID(randutil.Int63() | 1)
}

// EncryptionKeyFixture returns random 32-byte key material.
func EncryptionKeyFixture() EncryptionKey {
	return EncryptionKey(randutil.Bytes(32))
}
