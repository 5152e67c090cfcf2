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
	"github.com/willf/bitset"
)

// LocationKind tiers how complete a location is. Empty is distinct from
// unknown: an Empty location states that no data exists on that side.
type LocationKind int

// Location tiers, ordered by completeness.
const (
	LocationEmpty LocationKind = iota
	LocationPartial
	LocationFull
)

func (k LocationKind) String() string {
	switch k {
	case LocationEmpty:
		return "empty"
	case LocationPartial:
		return "partial"
	case LocationFull:
		return "full"
	}
	return "invalid"
}

// FullLocal identifies a file fully present on local disk. MTimeNS guards
// against the file being swapped out from under us between runs.
type FullLocal struct {
	FileType FileType `json:"file_type"`
	Path     string   `json:"path"`
	MTimeNS  int64    `json:"mtime_ns"`
}

// PartialLocal describes a local file whose prefix or part set is still
// being written. Parts indexes PartSize-sized chunks; ReadySize is the
// total number of bytes already on disk.
type PartialLocal struct {
	FileType  FileType       `json:"file_type"`
	Path      string         `json:"path"`
	PartSize  int64          `json:"part_size"`
	Parts     *bitset.BitSet `json:"parts,omitempty"`
	ReadySize int64          `json:"ready_size"`
}

// LocalLocation is the local side of a file: Empty, Partial or Full.
type LocalLocation struct {
	Kind    LocationKind  `json:"kind"`
	Partial *PartialLocal `json:"partial,omitempty"`
	Full    *FullLocal    `json:"full,omitempty"`
}

// EmptyLocal returns an empty local location.
func EmptyLocal() LocalLocation {
	return LocalLocation{Kind: LocationEmpty}
}

// NewPartialLocal returns a partial local location.
func NewPartialLocal(p PartialLocal) LocalLocation {
	return LocalLocation{Kind: LocationPartial, Partial: &p}
}

// NewFullLocal returns a full local location.
func NewFullLocal(f FullLocal) LocalLocation {
	return LocalLocation{Kind: LocationFull, Full: &f}
}

// IsEmpty returns whether no local data exists.
func (l LocalLocation) IsEmpty() bool { return l.Kind == LocationEmpty }

// IsPartial returns whether local data is incomplete.
func (l LocalLocation) IsPartial() bool { return l.Kind == LocationPartial }

// IsFull returns whether the file is fully present locally.
func (l LocalLocation) IsFull() bool { return l.Kind == LocationFull }

// Path returns the on-disk path for partial and full locations, else "".
func (l LocalLocation) Path() string {
	switch l.Kind {
	case LocationPartial:
		return l.Partial.Path
	case LocationFull:
		return l.Full.Path
	}
	return ""
}

// FileType returns the file type carried by the location, or FileTypeNone
// for empty locations.
func (l LocalLocation) FileType() FileType {
	switch l.Kind {
	case LocationPartial:
		return l.Partial.FileType
	case LocationFull:
		return l.Full.FileType
	}
	return FileTypeNone
}

// ReadySize returns the number of locally available bytes. For full
// locations the caller must consult the node size instead.
func (l LocalLocation) ReadySize() int64 {
	if l.Kind == LocationPartial {
		return l.Partial.ReadySize
	}
	return 0
}

// Clone returns a deep copy of l. Partial part sets are copied so the
// clone may be handed across goroutines.
func (l LocalLocation) Clone() LocalLocation {
	switch l.Kind {
	case LocationPartial:
		p := *l.Partial
		if p.Parts != nil {
			p.Parts = p.Parts.Clone()
		}
		return LocalLocation{Kind: LocationPartial, Partial: &p}
	case LocationFull:
		f := *l.Full
		return LocalLocation{Kind: LocationFull, Full: &f}
	}
	return EmptyLocal()
}
