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
	"github.com/vexel-im/courier/lib/filegen"
	"github.com/vexel-im/courier/lib/fileloader"
)

// Manager implements the worker callback interfaces. Callbacks arriving
// for queries the manager no longer tracks are dropped.
var (
	_ fileloader.Callback = (*Manager)(nil)
	_ filegen.Callback    = (*Manager)(nil)
)

type queryType int

const (
	queryDownload queryType = iota + 1
	queryUpload
	queryUploadByHash
	querySetContent
	queryGenerate
)

func (t queryType) String() string {
	switch t {
	case queryDownload:
		return "download"
	case queryUpload:
		return "upload"
	case queryUploadByHash:
		return "upload_by_hash"
	case querySetContent:
		return "set_content"
	case queryGenerate:
		return "generate"
	}
	return "invalid"
}

// query correlates a worker query id back to its owning node.
type query struct {
	nodeID int64
	typ    queryType
}

func (m *Manager) startQuery(n *fileNode, t queryType) fileloader.QueryID {
	m.nextQueryID++
	m.queries[m.nextQueryID] = &query{nodeID: n.id, typ: t}
	return m.nextQueryID
}

// finishQuery removes the query from the table. wasActive is false when
// the id is unknown, which makes every late or duplicate worker callback
// a no-op.
func (m *Manager) finishQuery(qid fileloader.QueryID) (*query, bool) {
	q, ok := m.queries[qid]
	if !ok {
		return nil, false
	}
	delete(m.queries, qid)
	return q, true
}

// cancelQuery stops a query fire-and-forget and forgets it immediately.
func (m *Manager) cancelQuery(qid fileloader.QueryID) {
	q, ok := m.finishQuery(qid)
	if !ok {
		return
	}
	if q.typ == queryGenerate {
		m.generator.Cancel(qid)
	} else {
		m.loader.Cancel(qid)
	}
	if n, ok := m.nodes[q.nodeID]; ok {
		m.clearQueryRef(n, qid)
	}
}

// clearQueryRef zeroes whichever per-kind slot holds qid.
func (m *Manager) clearQueryRef(n *fileNode, qid fileloader.QueryID) {
	switch qid {
	case n.downloadQuery:
		n.downloadQuery = 0
		n.sentDownloadPriority = 0
	case n.uploadQuery:
		n.uploadQuery = 0
		n.sentUploadPriority = 0
	case n.generateQuery:
		n.generateQuery = 0
		n.sentGeneratePriority = 0
	}
}

// queryNode resolves a live (unfinished) query to its node.
func (m *Manager) queryNode(qid fileloader.QueryID) (*query, *fileNode) {
	q, ok := m.queries[qid]
	if !ok {
		return nil, nil
	}
	n, ok := m.nodes[q.nodeID]
	if !ok {
		return nil, nil
	}
	return q, n
}

// OnStartDownload implements fileloader.Callback.
func (m *Manager) OnStartDownload(id fileloader.QueryID) {
	m.events.send(startDownloadEvent{id})
}

// OnPartialDownload implements fileloader.Callback.
func (m *Manager) OnPartialDownload(
	id fileloader.QueryID, partial core.PartialLocal, readySize int64) {

	m.events.send(partialDownloadEvent{id, partial, readySize})
}

// OnPartialUpload implements fileloader.Callback.
func (m *Manager) OnPartialUpload(
	id fileloader.QueryID, partial core.PartialRemote, readySize int64) {

	m.events.send(partialUploadEvent{id, partial, readySize})
}

// OnDownloadOK implements fileloader.Callback.
func (m *Manager) OnDownloadOK(id fileloader.QueryID, local core.FullLocal, size int64) {
	m.events.send(downloadOKEvent{id, local, size})
}

// OnUploadOK implements fileloader.Callback.
func (m *Manager) OnUploadOK(
	id fileloader.QueryID, t core.FileType, partial core.PartialRemote, size int64) {

	m.events.send(uploadOKEvent{id, t, partial, size})
}

// OnUploadFullOK implements fileloader.Callback.
func (m *Manager) OnUploadFullOK(id fileloader.QueryID, remote core.FullRemote) {
	m.events.send(uploadFullOKEvent{id, remote})
}

// OnError implements fileloader.Callback.
func (m *Manager) OnError(id fileloader.QueryID, status core.Status) {
	m.events.send(queryErrorEvent{id, status})
}

// OnPartialGenerate implements filegen.Callback.
func (m *Manager) OnPartialGenerate(
	id fileloader.QueryID, partial core.PartialLocal, expectedSize int64) {

	m.events.send(partialGenerateEvent{id, partial, expectedSize})
}

// OnGenerateOK implements filegen.Callback.
func (m *Manager) OnGenerateOK(id fileloader.QueryID, local core.FullLocal) {
	m.events.send(generateOKEvent{id, local})
}

// OnGenerateError implements filegen.Callback.
func (m *Manager) OnGenerateError(id fileloader.QueryID, status core.Status) {
	m.events.send(generateErrorEvent{id, status})
}

type startDownloadEvent struct {
	id fileloader.QueryID
}

func (e startDownloadEvent) apply(m *Manager) {
	_, n := m.queryNode(e.id)
	if n == nil {
		return
	}
	if !n.isDownloadStarted {
		n.isDownloadStarted = true
		n.infoDirty = true
		m.infoFlush(n)
	}
}

type partialDownloadEvent struct {
	id        fileloader.QueryID
	partial   core.PartialLocal
	readySize int64
}

func (e partialDownloadEvent) apply(m *Manager) {
	_, n := m.queryNode(e.id)
	if n == nil || n.local.IsFull() {
		return
	}
	if e.readySize < n.downloadReadySize {
		// Progress never rewinds for subscribers.
		return
	}
	n.local = core.NewPartialLocal(e.partial)
	n.downloadReadySize = e.readySize
	n.infoDirty = true
	m.notifyDownloadProgress(n)
	m.infoFlush(n)
}

type downloadOKEvent struct {
	id    fileloader.QueryID
	local core.FullLocal
	size  int64
}

func (e downloadOKEvent) apply(m *Manager) {
	q, active := m.finishQuery(e.id)
	if !active {
		return
	}
	n, ok := m.nodes[q.nodeID]
	if !ok {
		return
	}
	m.clearQueryRef(n, e.id)
	m.stats.Counter("downloads_ok").Inc(1)
	m.setLocalFull(n, e.local, e.size)
	m.runScheduler(n)
	m.flushNode(n)
	m.infoFlush(n)
}

// setLocalFull installs a completed local file, reconciling its size with
// whatever the node believed before.
func (m *Manager) setLocalFull(n *fileNode, local core.FullLocal, size int64) {
	if n.size != 0 && size != 0 && n.size != size {
		// Observed bytes beat a remembered size.
		m.log("file", n.mainID()).Warnf(
			"Size mismatch on completion: had %d, got %d", n.size, size)
	}
	if size != 0 {
		n.size = size
		n.expectedSize = size
	}
	if p := n.local.Path(); p != "" && p != local.Path {
		if f, ok := m.byLocal[p]; ok && f == n.mainID() {
			delete(m.byLocal, p)
		}
	}
	n.local = core.NewFullLocal(local)
	n.downloadReadySize = n.localReadySize()
	m.byLocal[local.Path] = n.mainID()
	n.infoDirty = true
	n.markPMCDirty()
	m.notifyDownloadOK(n)
}

type partialUploadEvent struct {
	id        fileloader.QueryID
	partial   core.PartialRemote
	readySize int64
}

func (e partialUploadEvent) apply(m *Manager) {
	_, n := m.queryNode(e.id)
	if n == nil || n.remote.IsFull() {
		return
	}
	if e.readySize < n.uploadReadySize {
		return
	}
	n.remote = core.NewPartialRemote(e.partial)
	n.uploadReadySize = e.readySize
	n.infoDirty = true
	n.markPMCDirty()
	m.notifyUploadProgress(n)
	m.infoFlush(n)
}

type uploadOKEvent struct {
	id       fileloader.QueryID
	fileType core.FileType
	partial  core.PartialRemote
	size     int64
}

// apply completes the byte-transfer half of an upload. The query stays
// in the table: the server reference arrives later through
// OnUploadFullOK, once the uploaded parts were attached to a message.
// Until then the upload is paused.
func (e uploadOKEvent) apply(m *Manager) {
	q, n := m.queryNode(e.id)
	if n == nil || q.typ == queryDownload || q.typ == queryGenerate {
		return
	}
	m.stats.Counter("uploads_ok").Inc(1)
	if !n.remote.IsFull() {
		n.remote = core.NewPartialRemote(e.partial)
	}
	if n.size == 0 && e.size != 0 {
		n.size = e.size
	}
	n.uploadReadySize = n.remoteReadySize()
	n.infoDirty = true
	n.markPMCDirty()

	pauseOn := n.mainID()
	for _, h := range n.handles {
		if h.uploadPriority > 0 || h.uploadCallback != nil {
			pauseOn = h.id
			break
		}
	}
	n.uploadPause = pauseOn

	if n.key.Empty() {
		input := fileloader.InputFile{
			ID:    e.partial.ID,
			Parts: e.partial.PartCount,
			Name:  n.name,
			IsBig: e.partial.IsBig,
		}
		m.notifyUploadOK(n, func(cb UploadCallback, f FileID) {
			cb.OnUploadOK(f, input)
		})
	} else {
		input := fileloader.InputEncryptedFile{
			ID:    e.partial.ID,
			Parts: e.partial.PartCount,
		}
		m.notifyUploadOK(n, func(cb UploadCallback, f FileID) {
			cb.OnUploadEncryptedOK(f, input)
		})
	}
	m.flushNode(n)
	m.infoFlush(n)
}

type uploadFullOKEvent struct {
	id     fileloader.QueryID
	remote core.FullRemote
}

func (e uploadFullOKEvent) apply(m *Manager) {
	q, active := m.finishQuery(e.id)
	if !active {
		return
	}
	n, ok := m.nodes[q.nodeID]
	if !ok {
		return
	}
	m.clearQueryRef(n, e.id)

	if n.remote.IsFull() && n.remote.Full.Key() != e.remote.Key() {
		delete(m.byRemote, n.remote.Full.Key())
	}
	n.remote = core.NewFullRemote(e.remote)
	n.remoteSource = core.SourceServer
	m.byRemote[e.remote.Key()] = n.mainID()
	n.uploadPause = FileID{}
	n.uploadReadySize = n.remoteReadySize()
	n.infoDirty = true
	n.markPMCDirty()

	if q.typ == queryUploadByHash {
		// The hash shortcut skips OnUploadOK; subscribers still expect a
		// terminal completion.
		input := fileloader.InputFile{ID: e.remote.ID, Name: n.name}
		m.notifyUploadOK(n, func(cb UploadCallback, f FileID) {
			cb.OnUploadOK(f, input)
		})
	}
	m.runScheduler(n)
	m.flushNode(n)
	m.infoFlush(n)
}

type queryErrorEvent struct {
	id     fileloader.QueryID
	status core.Status
}

func (e queryErrorEvent) apply(m *Manager) {
	q, active := m.finishQuery(e.id)
	if !active {
		return
	}
	n, ok := m.nodes[q.nodeID]
	if !ok {
		return
	}
	m.clearQueryRef(n, e.id)
	m.onErrorImpl(n, q.typ, active, e.status)
}

// onErrorImpl triages a worker failure: recoverable conditions demote the
// affected location and reschedule, terminal ones surface to the
// matching subscriber set.
func (m *Manager) onErrorImpl(n *fileNode, typ queryType, wasActive bool, status core.Status) {
	if !wasActive || status.Code == core.StatusCancelled {
		return
	}
	m.stats.Tagged(map[string]string{"code": status.Code.String()}).
		Counter("query_errors").Inc(1)
	m.log("file", n.mainID(), "type", typ).Infof("Query failed: %s", status.Error())

	switch status.Code {
	case core.StatusLocalFileGone:
		if p := n.local.Path(); p != "" {
			m.badPaths.Add(p)
		}
		m.demoteLocal(n)
		switch typ {
		case queryUpload, queryUploadByHash:
			if !n.generate.IsFull() || n.generateFailed {
				m.notifyUploadError(n, status)
			}
		default:
			// The download restarts from scratch.
		}

	case core.StatusPartialRemoteLost:
		if n.remote.IsPartial() {
			n.remote = core.EmptyRemote()
			n.uploadReadySize = 0
			n.markPMCDirty()
		}

	case core.StatusRemoteNotFound, core.StatusForbidden, core.StatusRemoteUnavailable:
		m.notifyDownloadError(n, status)

	case core.StatusGenerateFailed:
		n.generateFailed = true
		m.surfaceDownloadError(n, status, true)
		if !n.remote.IsFull() && !n.local.IsFull() {
			m.notifyUploadError(n, status)
		}

	default:
		switch typ {
		case queryDownload:
			m.notifyDownloadError(n, status)
		case queryGenerate:
			n.generateFailed = true
			m.surfaceDownloadError(n, status, true)
		default:
			m.notifyUploadError(n, status)
		}
	}
	m.runScheduler(n)
	m.flushNode(n)
	m.infoFlush(n)
}

type partialGenerateEvent struct {
	id           fileloader.QueryID
	partial      core.PartialLocal
	expectedSize int64
}

func (e partialGenerateEvent) apply(m *Manager) {
	_, n := m.queryNode(e.id)
	if n == nil {
		return
	}
	m.applyGenerateProgress(n, e.partial, e.expectedSize)
}

// applyGenerateProgress feeds produced-so-far generation state into the
// node, surfacing it the same way download progress is surfaced.
func (m *Manager) applyGenerateProgress(
	n *fileNode, partial core.PartialLocal, expectedSize int64) {

	if n.local.IsFull() {
		return
	}
	if partial.ReadySize < n.downloadReadySize {
		return
	}
	n.local = core.NewPartialLocal(partial)
	n.downloadReadySize = partial.ReadySize
	if n.size == 0 && expectedSize > n.expectedSize {
		n.expectedSize = expectedSize
	}
	n.infoDirty = true
	m.notifyDownloadProgress(n)
	m.infoFlush(n)
}

type generateOKEvent struct {
	id    fileloader.QueryID
	local core.FullLocal
}

func (e generateOKEvent) apply(m *Manager) {
	q, active := m.finishQuery(e.id)
	if !active {
		return
	}
	n, ok := m.nodes[q.nodeID]
	if !ok {
		return
	}
	m.clearQueryRef(n, e.id)
	m.stats.Counter("generations_ok").Inc(1)
	m.applyGenerateOK(n, e.local)
}

// applyGenerateOK installs generated content as the local location.
func (m *Manager) applyGenerateOK(n *fileNode, local core.FullLocal) {
	size := n.size
	if size == 0 {
		if fi, err := m.fs.Stat(local.Path); err == nil {
			size = fi.Size()
		}
	}
	m.setLocalFull(n, local, size)
	m.runScheduler(n)
	m.flushNode(n)
	m.infoFlush(n)
}

type generateErrorEvent struct {
	id     fileloader.QueryID
	status core.Status
}

func (e generateErrorEvent) apply(m *Manager) {
	q, active := m.finishQuery(e.id)
	if !active {
		return
	}
	n, ok := m.nodes[q.nodeID]
	if !ok {
		return
	}
	m.clearQueryRef(n, e.id)
	m.onErrorImpl(n, queryGenerate, active, e.status)
}
