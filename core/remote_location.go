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

// FullRemote is a server file reference. Identity is (FileType, DC, ID);
// AccessHash authorizes access but two references with different hashes
// still name the same file.
type FullRemote struct {
	FileType   FileType `json:"file_type"`
	DC         int32    `json:"dc"`
	ID         int64    `json:"id"`
	AccessHash int64    `json:"access_hash"`
}

// Key returns the identity key used to unify files by remote location.
func (r FullRemote) Key() string {
	return fmt.Sprintf("%d:%d:%d", r.FileType, r.DC, r.ID)
}

func (r FullRemote) String() string {
	return fmt.Sprintf("remote[%s dc=%d id=%d]", r.FileType, r.DC, r.ID)
}

// PartialRemote describes an upload session in progress. ID is the
// server-side session identifier and becomes the input-file id once all
// parts are sent.
type PartialRemote struct {
	ID             int64 `json:"id"`
	PartCount      int32 `json:"part_count"`
	PartSize       int32 `json:"part_size"`
	ReadyPartCount int32 `json:"ready_part_count"`
	IsBig          bool  `json:"is_big"`
}

// RemoteLocation is the server side of a file: Empty, Partial or Full.
type RemoteLocation struct {
	Kind    LocationKind   `json:"kind"`
	Partial *PartialRemote `json:"partial,omitempty"`
	Full    *FullRemote    `json:"full,omitempty"`
}

// EmptyRemote returns an empty remote location.
func EmptyRemote() RemoteLocation {
	return RemoteLocation{Kind: LocationEmpty}
}

// NewPartialRemote returns a partial remote location.
func NewPartialRemote(p PartialRemote) RemoteLocation {
	return RemoteLocation{Kind: LocationPartial, Partial: &p}
}

// NewFullRemote returns a full remote location.
func NewFullRemote(f FullRemote) RemoteLocation {
	return RemoteLocation{Kind: LocationFull, Full: &f}
}

// IsEmpty returns whether no remote data exists.
func (r RemoteLocation) IsEmpty() bool { return r.Kind == LocationEmpty }

// IsPartial returns whether an upload is in progress.
func (r RemoteLocation) IsPartial() bool { return r.Kind == LocationPartial }

// IsFull returns whether the file is fully uploaded.
func (r RemoteLocation) IsFull() bool { return r.Kind == LocationFull }

// ReadySize returns the number of remotely stored bytes for partial
// locations. Full locations defer to the node size.
func (r RemoteLocation) ReadySize() int64 {
	if r.Kind == LocationPartial {
		return int64(r.Partial.ReadyPartCount) * int64(r.Partial.PartSize)
	}
	return 0
}

// Clone returns a deep copy of r.
func (r RemoteLocation) Clone() RemoteLocation {
	switch r.Kind {
	case LocationPartial:
		p := *r.Partial
		return RemoteLocation{Kind: LocationPartial, Partial: &p}
	case LocationFull:
		f := *r.Full
		return RemoteLocation{Kind: LocationFull, Full: &f}
	}
	return EmptyRemote()
}
