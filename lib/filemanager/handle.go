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

import "fmt"

// FileID is the stable, externally visible identifier of a file. A FileID
// issued once stays valid for the life of the file, even when the file is
// later unified with another one. The zero FileID is invalid.
type FileID struct {
	index int32
	gen   int32
}

// IsZero returns whether f is the invalid zero id.
func (f FileID) IsZero() bool { return f == FileID{} }

func (f FileID) String() string {
	return fmt.Sprintf("file(%d:%d)", f.index, f.gen)
}

// fileIDInfo is the per-handle state behind one issued FileID. It survives
// merges: only nodeID is rewritten when the underlying file is unified.
type fileIDInfo struct {
	id     FileID
	nodeID int64

	// seq orders handles by issue time for main election tie-breaks.
	seq int64

	sendUpdates bool
	pinned      bool

	downloadPriority int8
	uploadPriority   int8
	uploadOrder      int64

	downloadCallback DownloadCallback
	uploadCallback   UploadCallback
}

// priority returns the priority this handle would elect main with.
func (i *fileIDInfo) priority() int8 {
	if i.downloadPriority > i.uploadPriority {
		return i.downloadPriority
	}
	return i.uploadPriority
}

// idle returns whether nothing keeps this handle alive.
func (i *fileIDInfo) idle() bool {
	return !i.pinned &&
		i.downloadPriority == 0 && i.uploadPriority == 0 &&
		i.downloadCallback == nil && i.uploadCallback == nil
}

// handleSlot is one entry of the handle table. gen disambiguates reuse of
// freed slots so stale FileIDs never resolve.
type handleSlot struct {
	gen  int32
	info *fileIDInfo
}

// newHandle issues a fresh FileID pointing at n and attaches it to n's
// handle list.
func (m *Manager) newHandle(n *fileNode) FileID {
	var index int32
	if k := len(m.freeSlots); k > 0 {
		index = m.freeSlots[k-1]
		m.freeSlots = m.freeSlots[:k-1]
	} else {
		m.slots = append(m.slots, handleSlot{gen: 1})
		index = int32(len(m.slots) - 1)
	}
	slot := &m.slots[index]

	m.handleSeq++
	info := &fileIDInfo{
		id:     FileID{index: index, gen: slot.gen},
		nodeID: n.id,
		seq:    m.handleSeq,
	}
	slot.info = info
	n.handles = append(n.handles, info)
	if n.main == nil {
		n.main = info
		n.mainPriority = 0
	}
	return info.id
}

// resolve maps a FileID to its per-handle state and node.
func (m *Manager) resolve(f FileID) (*fileIDInfo, *fileNode, error) {
	if f.index < 0 || int(f.index) >= len(m.slots) {
		return nil, nil, ErrUnknownFile
	}
	slot := m.slots[f.index]
	if slot.info == nil || slot.gen != f.gen {
		return nil, nil, ErrUnknownFile
	}
	n, ok := m.nodes[slot.info.nodeID]
	if !ok {
		return nil, nil, ErrUnknownFile
	}
	return slot.info, n, nil
}

// forgetHandle frees an idle handle. The main handle is never forgotten,
// which keeps every live node resolvable through at least one FileID.
func (m *Manager) forgetHandle(info *fileIDInfo, n *fileNode) {
	if !info.idle() || n.main == info {
		return
	}
	for i, h := range n.handles {
		if h == info {
			n.handles = append(n.handles[:i], n.handles[i+1:]...)
			break
		}
	}
	slot := &m.slots[info.id.index]
	slot.info = nil
	slot.gen++
	m.freeSlots = append(m.freeSlots, info.id.index)
}

// electMain recomputes the main handle of n: the handle holding the
// highest priority wins, ties break toward the earliest-issued handle.
// Returns whether the elected handle changed.
func (m *Manager) electMain(n *fileNode) bool {
	var best *fileIDInfo
	for _, h := range n.handles {
		if best == nil ||
			h.priority() > best.priority() ||
			(h.priority() == best.priority() && h.seq < best.seq) {
			best = h
		}
	}
	if best == nil || best == n.main {
		if best != nil {
			n.mainPriority = best.priority()
		}
		return false
	}
	n.main = best
	n.mainPriority = best.priority()
	n.infoDirty = true
	m.reindexNode(n)
	return true
}
