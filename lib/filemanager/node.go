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
package filemanager

import (
	"github.com/vexel-im/courier/core"
	"github.com/vexel-im/courier/lib/filedb"
	"github.com/vexel-im/courier/lib/fileloader"
)

// fileNode is the authoritative in-memory record of one logical file. It
// is mutated only on the event loop.
type fileNode struct {
	id int64

	local    core.LocalLocation
	remote   core.RemoteLocation
	generate core.GenerateLocation

	// remoteSource ranks how trustworthy the current remote location is
	// when merges present a competing one.
	remoteSource core.LocationSource

	// size is the authoritative total byte size, 0 while unknown.
	// expectedSize is a best-effort estimate used until size is learned.
	size         int64
	expectedSize int64

	name  string
	url   string
	owner core.OwnerID
	key   core.EncryptionKey

	// typeHint carries the declared type of a file registered empty,
	// before any location exists to derive the type from.
	typeHint core.FileType

	getByHash bool

	recordID filedb.RecordID

	handles      []*fileIDInfo
	main         *fileIDInfo
	mainPriority int8

	// Per-kind worker state. A zero query id means no query in flight.
	downloadQuery fileloader.QueryID
	uploadQuery   fileloader.QueryID
	generateQuery fileloader.QueryID

	// Priorities last handed to the workers, used to avoid churning a
	// running query when the effective priority is unchanged.
	sentDownloadPriority int8
	sentUploadPriority   int8
	sentGeneratePriority int8

	downloadReadySize int64
	uploadReadySize   int64
	isDownloadStarted bool

	// uploadPause holds the handle whose upload completed. While set, no
	// new upload starts and the finished query stays live awaiting its
	// final server reference.
	uploadPause FileID

	// uploadBadParts is consumed by the next upload start after a
	// resume with server-rejected parts.
	uploadBadParts []int32

	// generateFailed suppresses generation retries for the rest of the
	// session once the generator reported a terminal error.
	generateFailed bool

	// loadPending is set while a store lookup keyed to this node is in
	// flight; loadWaiters are signalled when it completes.
	loadPending bool
	loadWaiters []chan struct{}

	infoDirty bool
	pmcDirty  bool

	// dirtySeq increments on every pmc-dirtying change. A flush snapshot
	// carries the seq it saw; the dirty flag clears only if no newer
	// change happened while the write was in flight.
	dirtySeq int64
	flushing bool
}

// mainID returns the canonical external id of the node.
func (n *fileNode) mainID() FileID {
	if n.main == nil {
		return FileID{}
	}
	return n.main.id
}

// fileType derives the node's type, preferring local over remote over
// generate knowledge.
func (n *fileNode) fileType() core.FileType {
	if t := n.local.FileType(); t != core.FileTypeNone {
		return t
	}
	if n.remote.IsFull() {
		return n.remote.Full.FileType
	}
	if n.remote.IsEmpty() && n.generate.IsFull() {
		return n.generate.Full.FileType
	}
	if n.typeHint != core.FileTypeNone {
		return n.typeHint
	}
	return core.FileTypeTemp
}

// localReadySize returns how many bytes are usable on disk.
func (n *fileNode) localReadySize() int64 {
	if n.local.IsFull() {
		if n.size != 0 {
			return n.size
		}
		return n.expectedSize
	}
	return n.local.ReadySize()
}

// remoteReadySize returns how many bytes the server acknowledged.
func (n *fileNode) remoteReadySize() int64 {
	if n.remote.IsFull() {
		if n.size != 0 {
			return n.size
		}
		return n.expectedSize
	}
	return n.remote.ReadySize()
}

// effectiveDownloadPriority is the max download demand across handles.
func (n *fileNode) effectiveDownloadPriority() int8 {
	var p int8
	for _, h := range n.handles {
		if h.downloadPriority > p {
			p = h.downloadPriority
		}
	}
	return p
}

// effectiveUploadPriority is the max upload demand across handles.
func (n *fileNode) effectiveUploadPriority() int8 {
	var p int8
	for _, h := range n.handles {
		if h.uploadPriority > p {
			p = h.uploadPriority
		}
	}
	return p
}

// effectiveUploadOrder is the earliest ordering token among uploading
// handles, so concurrent uploads at equal priority stay FIFO.
func (n *fileNode) effectiveUploadOrder() int64 {
	var order int64
	for _, h := range n.handles {
		if h.uploadPriority == 0 {
			continue
		}
		if order == 0 || (h.uploadOrder != 0 && h.uploadOrder < order) {
			order = h.uploadOrder
		}
	}
	return order
}

// markPMCDirty flags the node for a durable flush.
func (n *fileNode) markPMCDirty() {
	n.pmcDirty = true
	n.dirtySeq++
}

// record snapshots the node's durable image for the store.
func (n *fileNode) record() *filedb.Record {
	return &filedb.Record{
		Local:        n.local.Clone(),
		Remote:       n.remote.Clone(),
		Generate:     n.generate.Clone(),
		RemoteSource: n.remoteSource,
		Size:         n.size,
		ExpectedSize: n.expectedSize,
		Name:         n.name,
		URL:          n.url,
		Owner:        n.owner,
		Key:          append(core.EncryptionKey(nil), n.key...),
		GetByHash:    n.getByHash,
	}
}

// applyRecord adopts fields of a persisted record into a fresh node.
func (n *fileNode) applyRecord(r *filedb.Record) {
	n.local = r.Local.Clone()
	n.remote = r.Remote.Clone()
	n.generate = r.Generate.Clone()
	n.remoteSource = r.RemoteSource
	if n.remoteSource == core.SourceNone && n.remote.IsFull() {
		n.remoteSource = core.SourceDB
	}
	n.size = r.Size
	n.expectedSize = r.ExpectedSize
	n.name = r.Name
	n.url = r.URL
	n.owner = r.Owner
	n.key = append(core.EncryptionKey(nil), r.Key...)
	n.getByHash = r.GetByHash
}
