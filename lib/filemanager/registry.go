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
	"fmt"

	"github.com/vexel-im/courier/core"
	"github.com/vexel-im/courier/lib/filedb"
)

// newNode creates an empty live node and reports it to the host.
func (m *Manager) newNode(expectedSize int64) *fileNode {
	m.nextNodeID++
	n := &fileNode{
		id:           m.nextNodeID,
		local:        core.EmptyLocal(),
		remote:       core.EmptyRemote(),
		generate:     core.EmptyGenerate(),
		expectedSize: expectedSize,
	}
	m.nodes[n.id] = n
	m.stats.Counter("new_files").Inc(1)
	m.dispatch.post(func() { m.host.OnNewFile(expectedSize) })
	return n
}

func (m *Manager) registerEmpty(t core.FileType) FileID {
	m.stats.Tagged(map[string]string{"source": "empty"}).Counter("registrations").Inc(1)
	n := m.newNode(0)
	n.typeHint = t
	return m.newHandle(n)
}

// checkLocal verifies the path exists and matches the expected size and
// mtime. Known-missing paths short-circuit through badPaths.
func (m *Manager) checkLocal(l *core.FullLocal, size int64) error {
	if m.badPaths.Has(l.Path) {
		return fmt.Errorf("%w: %s", ErrLocalFileGone, l.Path)
	}
	fi, err := m.fs.Stat(l.Path)
	if err != nil {
		m.badPaths.Add(l.Path)
		return fmt.Errorf("%w: %s", ErrLocalFileGone, l.Path)
	}
	if size != 0 && fi.Size() != size {
		m.badPaths.Add(l.Path)
		return fmt.Errorf("%w: %s changed size (%d != %d)",
			ErrLocalFileGone, l.Path, fi.Size(), size)
	}
	if m.config.MaxFileSize != 0 && fi.Size() > int64(m.config.MaxFileSize) {
		return fmt.Errorf("%w: %s is %d bytes", ErrFileTooLarge, l.Path, fi.Size())
	}
	mtime := fi.ModTime().UnixNano()
	if l.MTimeNS != 0 && l.MTimeNS != mtime {
		m.badPaths.Add(l.Path)
		return fmt.Errorf("%w: %s changed mtime", ErrLocalFileGone, l.Path)
	}
	l.MTimeNS = mtime
	return nil
}

func (m *Manager) registerLocal(
	local core.FullLocal, owner core.OwnerID, size int64,
	getByHash, force bool) (FileID, error) {

	if !force {
		if err := m.checkLocal(&local, size); err != nil {
			return FileID{}, err
		}
	}
	m.stats.Tagged(map[string]string{"source": "local"}).Counter("registrations").Inc(1)

	if f, ok := m.byLocal[local.Path]; ok {
		_, n, err := m.resolve(f)
		if err == nil {
			if size != 0 && n.size == 0 {
				n.size = size
				n.markPMCDirty()
			}
			if n.owner.IsZero() {
				n.owner = owner
			}
			n.getByHash = n.getByHash || getByHash
			m.flushNode(n)
			return m.newHandle(n), nil
		}
	}

	n := m.newNode(size)
	n.local = core.NewFullLocal(local)
	n.size = size
	n.owner = owner
	n.getByHash = getByHash
	f := m.newHandle(n)
	m.byLocal[local.Path] = f
	m.loadFromStore(n, filedb.LocalKey(local.Path))
	return f, nil
}

func (m *Manager) registerRemote(
	remote core.FullRemote, source core.LocationSource, owner core.OwnerID,
	size, expectedSize int64, name string) FileID {

	m.stats.Tagged(map[string]string{"source": "remote"}).Counter("registrations").Inc(1)

	if f, ok := m.byRemote[remote.Key()]; ok {
		_, n, err := m.resolve(f)
		if err == nil {
			m.refreshRemote(n, remote, source)
			if size != 0 && n.size == 0 {
				n.size = size
				n.markPMCDirty()
			}
			if expectedSize > n.expectedSize && n.size == 0 {
				n.expectedSize = expectedSize
			}
			if n.name == "" {
				n.name = name
			}
			if n.owner.IsZero() {
				n.owner = owner
			}
			m.flushNode(n)
			return m.newHandle(n)
		}
	}

	n := m.newNode(expectedSize)
	n.remote = core.NewFullRemote(remote)
	n.remoteSource = source
	n.size = size
	n.expectedSize = expectedSize
	n.name = name
	n.owner = owner
	f := m.newHandle(n)
	m.byRemote[remote.Key()] = f
	m.loadFromStore(n, filedb.RemoteKey(remote))
	return f
}

// refreshRemote adopts a newly learned remote reference for an already
// known remote identity when the new source outranks the recorded one.
// The identity key is unchanged; only the access hash and trust move.
func (m *Manager) refreshRemote(n *fileNode, remote core.FullRemote, source core.LocationSource) {
	if !n.remote.IsFull() {
		return
	}
	if source.TrustsOver(n.remoteSource) {
		*n.remote.Full = remote
		n.remoteSource = source
		n.markPMCDirty()
	}
}

func (m *Manager) registerGenerate(
	gen core.FullGenerate, owner core.OwnerID, expectedSize int64) FileID {

	m.stats.Tagged(map[string]string{"source": "generate"}).Counter("registrations").Inc(1)

	if f, ok := m.byGenerate[gen.Key()]; ok {
		_, n, err := m.resolve(f)
		if err == nil {
			if expectedSize > n.expectedSize && n.size == 0 {
				n.expectedSize = expectedSize
			}
			if n.owner.IsZero() {
				n.owner = owner
			}
			return m.newHandle(n)
		}
	}

	n := m.newNode(expectedSize)
	n.generate = core.NewFullGenerate(gen)
	n.owner = owner
	f := m.newHandle(n)
	m.byGenerate[gen.Key()] = f
	m.loadFromStore(n, filedb.GenerateKey(gen))
	return f
}

func (m *Manager) registerURL(url string, t core.FileType, owner core.OwnerID) FileID {
	gen := core.FullGenerate{
		FileType:     t,
		OriginalPath: url,
		Conversion:   core.URLConversion,
	}
	f := m.registerGenerate(gen, owner, 0)
	if _, n, err := m.resolve(f); err == nil && n.url == "" {
		n.url = url
	}
	return f
}

// registerFromRecord turns a persisted record into a live node. When any
// of the record's full locations already belongs to a live file, the new
// node is unified with it.
func (m *Manager) registerFromRecord(
	r *filedb.Record, recordID filedb.RecordID,
	source core.LocationSource) (FileID, error) {

	m.stats.Tagged(map[string]string{"source": "record"}).Counter("registrations").Inc(1)

	if r.Local.IsFull() {
		// Persisted paths are replayed as-is; liveness is re-checked the
		// first time the content is actually needed.
		if err := m.checkLocal(r.Local.Full, r.Size); err != nil {
			r.Local = core.EmptyLocal()
		}
	}

	n := m.newNode(r.ExpectedSize)
	n.applyRecord(r)
	if source != core.SourceNone && n.remote.IsFull() {
		n.remoteSource = source
	}
	n.recordID = recordID
	if recordID != 0 {
		m.byRecord[recordID] = n.id
	}
	f := m.newHandle(n)

	// Claim indices, merging with any live file already holding one of
	// this record's identities.
	for _, k := range r.Keys() {
		var idx map[string]FileID
		switch k.Kind {
		case filedb.KeyLocal:
			idx = m.byLocal
		case filedb.KeyRemote:
			idx = m.byRemote
		case filedb.KeyGenerate:
			idx = m.byGenerate
		}
		existing, ok := idx[k.Raw]
		if !ok {
			idx[k.Raw] = f
			continue
		}
		merged, err := m.merge(existing, f, true)
		if err != nil {
			m.log("file", f, "key", k).Errorf("Cannot merge persisted record: %s", err)
			continue
		}
		f = merged
	}
	if recordID == 0 {
		if _, node, err := m.resolve(f); err == nil {
			node.markPMCDirty()
			m.flushNode(node)
		}
	}
	return f, nil
}

// download registers a download demand of one handle and reschedules.
func (m *Manager) download(f FileID, cb DownloadCallback, priority int8) error {
	info, n, err := m.resolve(f)
	if err != nil {
		return err
	}
	info.downloadPriority = priority
	info.downloadCallback = cb
	if cb != nil {
		info.sendUpdates = true
	}
	if priority > n.mainPriority {
		m.electMain(n)
	}

	if n.local.IsFull() {
		// Already satisfied; complete immediately.
		m.notifyDownloadOK(n)
		return nil
	}
	if priority == 0 && cb == nil {
		m.forgetHandle(info, n)
	}
	m.runScheduler(n)
	return nil
}

// upload registers an upload demand of one handle and reschedules.
func (m *Manager) upload(
	f FileID, cb UploadCallback, priority int8, order int64, badParts []int32) error {

	info, n, err := m.resolve(f)
	if err != nil {
		return err
	}
	if order == 0 && priority > 0 {
		m.uploadOrderSeq++
		order = m.uploadOrderSeq
	}
	info.uploadPriority = priority
	info.uploadOrder = order
	info.uploadCallback = cb
	if cb != nil {
		info.sendUpdates = true
	}
	if len(badParts) > 0 {
		n.uploadBadParts = append([]int32(nil), badParts...)
	}
	if priority > n.mainPriority {
		m.electMain(n)
	}
	if priority == 0 && cb == nil {
		m.forgetHandle(info, n)
	}
	m.runScheduler(n)
	return nil
}

// setContent materializes caller-supplied bytes as the file's local
// content and queues the file for upload at the from-bytes priority.
func (m *Manager) setContent(f FileID, data []byte) error {
	info, n, err := m.resolve(f)
	if err != nil {
		return err
	}
	if m.config.MaxFileSize != 0 && int64(len(data)) > int64(m.config.MaxFileSize) {
		return fmt.Errorf("%w: %d bytes", ErrFileTooLarge, len(data))
	}
	if n.uploadQuery != 0 {
		m.cancelQuery(n.uploadQuery)
	}
	info.uploadPriority = core.FromBytesPriority
	m.uploadOrderSeq++
	info.uploadOrder = m.uploadOrderSeq

	qid := m.startQuery(n, querySetContent)
	n.uploadQuery = qid
	n.size = int64(len(data))
	n.markPMCDirty()
	m.loader.FromBytes(qid, n.fileType(), data, n.name)
	return nil
}

// deleteFile removes the file's local content from disk and demotes the
// local location.
func (m *Manager) deleteFile(f FileID) error {
	_, n, err := m.resolve(f)
	if err != nil {
		return err
	}
	path := n.local.Path()
	if path != "" {
		if err := m.fs.Remove(path); err != nil {
			m.log("file", f).Infof("Cannot remove local file %s: %s", path, err)
		}
	}
	m.demoteLocal(n)
	m.runScheduler(n)
	m.flushNode(n)
	return nil
}

// demoteLocal drops the node's local location and its index entry.
func (m *Manager) demoteLocal(n *fileNode) {
	if p := n.local.Path(); p != "" {
		if f, ok := m.byLocal[p]; ok && f == n.mainID() {
			delete(m.byLocal, p)
		}
	}
	if !n.local.IsEmpty() {
		n.local = core.EmptyLocal()
		n.downloadReadySize = 0
		n.isDownloadStarted = false
		n.infoDirty = true
		n.markPMCDirty()
	}
}
