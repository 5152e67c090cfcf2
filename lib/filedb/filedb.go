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

// Package filedb defines persistent storage for file records. A record is
// the durable image of one logical file; it can be found either by its
// numeric id or by any full location it contains.
package filedb

import (
	"errors"
	"fmt"

	"github.com/vexel-im/courier/core"
)

// RecordID is the durable identifier of a persisted file record. Zero
// means "not persisted yet".
type RecordID int64

// KeyKind namespaces record keys by location side.
type KeyKind int

// Key kinds, one per location side.
const (
	KeyLocal KeyKind = iota
	KeyRemote
	KeyGenerate
)

func (k KeyKind) String() string {
	switch k {
	case KeyLocal:
		return "local"
	case KeyRemote:
		return "remote"
	case KeyGenerate:
		return "generate"
	}
	return "invalid"
}

// Key locates a record by one of its full locations.
type Key struct {
	Kind KeyKind
	Raw  string
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%s", k.Kind, k.Raw)
}

// LocalKey returns the lookup key for a full local path.
func LocalKey(path string) Key {
	return Key{Kind: KeyLocal, Raw: path}
}

// RemoteKey returns the lookup key for a full remote reference.
func RemoteKey(r core.FullRemote) Key {
	return Key{Kind: KeyRemote, Raw: r.Key()}
}

// GenerateKey returns the lookup key for a generate recipe.
func GenerateKey(g core.FullGenerate) Key {
	return Key{Kind: KeyGenerate, Raw: g.Key()}
}

// ErrRecordNotFound is returned when no record exists for an id or key.
var ErrRecordNotFound = errors.New("file record not found")

// Store persists file records. Implementations must be safe for
// concurrent use.
type Store interface {
	// Get returns the record stored under id.
	Get(id RecordID) (*Record, error)

	// GetByKey returns the record indexed by k along with its id.
	GetByKey(k Key) (RecordID, *Record, error)

	// Put writes r under id and reindexes it by r.Keys(). Index entries
	// of a previous version of the record that are no longer claimed are
	// removed.
	Put(id RecordID, r *Record) error

	// Delete removes the record and its index entries. Deleting a
	// missing record is not an error.
	Delete(id RecordID) error

	// NextID allocates a fresh record id. Allocated ids are never reused
	// even if the record is later deleted.
	NextID() (RecordID, error)

	// Close releases underlying resources.
	Close() error
}
