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

// Package filemanager tracks every file a messaging client knows about
// and drives each one through download, upload and generation.
//
// A file may be discovered through many independent paths: a local path,
// a server reference, a URL, a generation recipe, or a persisted record.
// The manager collapses such discoveries into one logical file, keeps a
// stable FileID for every discovery even across unifications, and runs at
// most one transfer of each kind per file, at the highest priority any
// subscriber demands.
//
// All state lives behind a single-threaded event loop. Byte transfers,
// generation and durable storage happen in external collaborators which
// communicate with the loop through queued events.
package filemanager

import (
	"sync"

	"github.com/andres-erbsen/clock"
	"github.com/spf13/afero"
	"github.com/uber-go/tally"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/vexel-im/courier/core"
	"github.com/vexel-im/courier/lib/filedb"
	"github.com/vexel-im/courier/lib/filegen"
	"github.com/vexel-im/courier/lib/fileloader"
	"github.com/vexel-im/courier/utils/log"
	"github.com/vexel-im/courier/utils/stringset"
)

// Manager coordinates the client's files. All exported methods are safe
// for concurrent use and may be called from subscriber callbacks.
type Manager struct {
	config Config
	clk    clock.Clock
	fs     afero.Fs
	stats  tally.Scope

	store     filedb.Store
	loader    fileloader.Loader
	generator filegen.Generator
	host      Context

	events   *eventLoop
	dispatch *dispatcher

	// All fields below are owned by the event loop.

	nodes      map[int64]*fileNode
	nextNodeID int64

	slots     []handleSlot
	freeSlots []int32
	handleSeq int64

	byLocal    map[string]FileID
	byRemote   map[string]FileID
	byGenerate map[string]FileID
	byRecord   map[filedb.RecordID]int64

	queries     map[fileloader.QueryID]*query
	nextQueryID fileloader.QueryID

	// badPaths short-circuits repeated existence checks of paths known
	// to be missing within this session.
	badPaths stringset.Set

	uploadOrderSeq int64

	// deadRecords are store rows orphaned by merges, deleted at the next
	// flush boundary.
	deadRecords []filedb.RecordID

	closed *atomic.Bool
	done   chan struct{}
	wg     sync.WaitGroup
}

// New creates a Manager wired to its external collaborators. host may be
// nil when the embedding application needs no file lifecycle hooks.
func New(
	config Config,
	stats tally.Scope,
	clk clock.Clock,
	fs afero.Fs,
	store filedb.Store,
	loader fileloader.Loader,
	generator filegen.Generator,
	host Context) *Manager {

	config = config.applyDefaults()
	if host == nil {
		host = noopContext{}
	}
	m := &Manager{
		config:     config,
		clk:        clk,
		fs:         fs,
		stats:      stats.Tagged(map[string]string{"module": "filemanager"}),
		store:      store,
		loader:     loader,
		generator:  generator,
		host:       host,
		events:     newEventLoop(),
		dispatch:   newDispatcher(),
		nodes:      make(map[int64]*fileNode),
		byLocal:    make(map[string]FileID),
		byRemote:   make(map[string]FileID),
		byGenerate: make(map[string]FileID),
		byRecord:   make(map[filedb.RecordID]int64),
		queries:    make(map[fileloader.QueryID]*query),
		badPaths:   make(stringset.Set),
		closed:     atomic.NewBool(false),
		done:       make(chan struct{}),
	}
	m.wg.Add(3)
	go func() {
		defer m.wg.Done()
		m.events.run(m)
	}()
	go func() {
		defer m.wg.Done()
		m.dispatch.run()
	}()
	go func() {
		defer m.wg.Done()
		m.flushSweepLoop()
	}()
	return m
}

// Close stops the event loop and the callback dispatcher. Pending user
// callbacks are drained; in-flight store writes finish on their own.
func (m *Manager) Close() {
	if !m.closed.CAS(false, true) {
		return
	}
	close(m.done)
	m.events.stop()
	m.dispatch.stop()
	m.wg.Wait()
}

func (m *Manager) log(args ...interface{}) *zap.SugaredLogger {
	return log.With(args...)
}

// RegisterEmpty creates a file of the given type with no locations at
// all. Content arrives later through SetContent or a merge.
func (m *Manager) RegisterEmpty(t core.FileType) (FileID, error) {
	var f FileID
	err := m.call(func(m *Manager) {
		f = m.registerEmpty(t)
	})
	return f, err
}

// RegisterLocal registers a file fully present on local disk. Unless
// force is set, the path is checked for existence and, when size is
// nonzero, for a matching size. getByHash allows the server to
// deduplicate a later upload by content hash.
func (m *Manager) RegisterLocal(
	local core.FullLocal, owner core.OwnerID, size int64,
	getByHash, force bool) (FileID, error) {

	var f FileID
	var rerr error
	err := m.call(func(m *Manager) {
		f, rerr = m.registerLocal(local, owner, size, getByHash, force)
	})
	if err != nil {
		return FileID{}, err
	}
	return f, rerr
}

// RegisterRemote registers a file addressable on the server. source
// states where the reference was learned from and decides conflicts with
// competing references.
func (m *Manager) RegisterRemote(
	remote core.FullRemote, source core.LocationSource, owner core.OwnerID,
	size, expectedSize int64, name string) (FileID, error) {

	var f FileID
	err := m.call(func(m *Manager) {
		f = m.registerRemote(remote, source, owner, size, expectedSize, name)
	})
	return f, err
}

// RegisterGenerate registers a file producible on demand by applying
// conversion to originalPath.
func (m *Manager) RegisterGenerate(
	t core.FileType, originalPath, conversion string, owner core.OwnerID,
	expectedSize int64) (FileID, error) {

	var f FileID
	err := m.call(func(m *Manager) {
		f = m.registerGenerate(core.FullGenerate{
			FileType:     t,
			OriginalPath: originalPath,
			Conversion:   conversion,
		}, owner, expectedSize)
	})
	return f, err
}

// RegisterURL registers a file obtainable by fetching url.
func (m *Manager) RegisterURL(url string, t core.FileType, owner core.OwnerID) (FileID, error) {
	var f FileID
	err := m.call(func(m *Manager) {
		f = m.registerURL(url, t, owner)
	})
	return f, err
}

// RegisterFromRecord replays a persisted record, typically one exported
// from another device or an older installation.
func (m *Manager) RegisterFromRecord(r *filedb.Record, source core.LocationSource) (FileID, error) {
	var f FileID
	var rerr error
	err := m.call(func(m *Manager) {
		f, rerr = m.registerFromRecord(r.Clone(), 0, source)
	})
	if err != nil {
		return FileID{}, err
	}
	return f, rerr
}

// Dup issues a fresh FileID for the file behind f.
func (m *Manager) Dup(f FileID) (FileID, error) {
	var d FileID
	var rerr error
	err := m.call(func(m *Manager) {
		_, n, err := m.resolve(f)
		if err != nil {
			rerr = err
			return
		}
		d = m.newHandle(n)
	})
	if err != nil {
		return FileID{}, err
	}
	return d, rerr
}

// Merge unifies the files behind x and y after the host learned they are
// the same underlying file. Both ids stay valid and resolve to the
// unified file afterwards.
func (m *Manager) Merge(x, y FileID) (FileID, error) {
	var f FileID
	var rerr error
	err := m.call(func(m *Manager) {
		f, rerr = m.merge(x, y, false)
	})
	if err != nil {
		return FileID{}, err
	}
	return f, rerr
}

// Download requests the file's content locally at the given priority.
// Priority 0 withdraws this handle's demand; the transfer keeps running
// while any other handle still wants it. cb may be nil.
func (m *Manager) Download(f FileID, cb DownloadCallback, priority int8) error {
	priority = core.ClampPriority(priority)
	var rerr error
	err := m.call(func(m *Manager) {
		rerr = m.download(f, cb, priority)
	})
	if err != nil {
		return err
	}
	return rerr
}

// Upload requests the file's content on the server at the given
// priority. order breaks ties between uploads of equal priority, lower
// first; 0 lets the manager assign the next token.
func (m *Manager) Upload(f FileID, cb UploadCallback, priority int8, order int64) error {
	priority = core.ClampPriority(priority)
	var rerr error
	err := m.call(func(m *Manager) {
		rerr = m.upload(f, cb, priority, order, nil)
	})
	if err != nil {
		return err
	}
	return rerr
}

// ResumeUpload restarts uploading after a completed upload was paused or
// after the server rejected parts listed in badParts.
func (m *Manager) ResumeUpload(
	f FileID, badParts []int32, cb UploadCallback, priority int8, order int64) error {

	priority = core.ClampPriority(priority)
	var rerr error
	err := m.call(func(m *Manager) {
		_, n, err := m.resolve(f)
		if err != nil {
			rerr = err
			return
		}
		if len(badParts) > 0 && n.uploadQuery != 0 {
			// Rejected parts must ship with a fresh upload query. The open
			// query already delivered its parts and will never resend them.
			m.cancelQuery(n.uploadQuery)
		}
		n.uploadPause = FileID{}
		rerr = m.upload(f, cb, priority, order, badParts)
	})
	if err != nil {
		return err
	}
	return rerr
}

// DeletePartialRemoteLocation drops a half-finished upload session so the
// next upload starts from scratch. Returns false if the file is already
// fully uploaded.
func (m *Manager) DeletePartialRemoteLocation(f FileID) (bool, error) {
	var ok bool
	var rerr error
	err := m.call(func(m *Manager) {
		_, n, err := m.resolve(f)
		if err != nil {
			rerr = err
			return
		}
		if n.remote.IsFull() {
			return
		}
		if n.uploadQuery != 0 {
			m.cancelQuery(n.uploadQuery)
		}
		n.remote = core.EmptyRemote()
		n.remoteSource = core.SourceNone
		n.uploadReadySize = 0
		n.uploadPause = FileID{}
		n.markPMCDirty()
		m.runScheduler(n)
		m.flushNode(n)
		ok = true
	})
	if err != nil {
		return false, err
	}
	return ok, rerr
}

// GetContent returns the file's bytes. The file must be fully present
// locally.
func (m *Manager) GetContent(f FileID) ([]byte, error) {
	var path string
	var rerr error
	err := m.call(func(m *Manager) {
		_, n, err := m.resolve(f)
		if err != nil {
			rerr = err
			return
		}
		if !n.local.IsFull() {
			rerr = ErrNoLocalContent
			return
		}
		path = n.local.Full.Path
	})
	if err != nil {
		return nil, err
	}
	if rerr != nil {
		return nil, rerr
	}
	// Read off-loop so a slow disk never stalls event processing.
	return afero.ReadFile(m.fs, path)
}

// SetContent supplies the file's bytes directly. The content is
// materialized as a local file and queued for upload at the reserved
// from-bytes priority.
func (m *Manager) SetContent(f FileID, data []byte) error {
	var rerr error
	err := m.call(func(m *Manager) {
		rerr = m.setContent(f, data)
	})
	if err != nil {
		return err
	}
	return rerr
}

// DeleteFile removes the file's local content from disk. Remote and
// generate locations are untouched, so the content stays recoverable.
func (m *Manager) DeleteFile(f FileID) error {
	var rerr error
	err := m.call(func(m *Manager) {
		rerr = m.deleteFile(f)
	})
	if err != nil {
		return err
	}
	return rerr
}

// SetEncryptionKey attaches key material to the file. Returns false when
// a different key is already present.
func (m *Manager) SetEncryptionKey(f FileID, key core.EncryptionKey) (bool, error) {
	var ok bool
	var rerr error
	err := m.call(func(m *Manager) {
		_, n, err := m.resolve(f)
		if err != nil {
			rerr = err
			return
		}
		switch {
		case n.key.Empty():
			n.key = append(core.EncryptionKey(nil), key...)
			n.markPMCDirty()
			m.flushNode(n)
			ok = true
		case n.key.Equal(key):
			ok = true
		}
	})
	if err != nil {
		return false, err
	}
	return ok, rerr
}

// Pin marks f so it survives losing all callbacks and priorities.
func (m *Manager) Pin(f FileID, pinned bool) error {
	var rerr error
	err := m.call(func(m *Manager) {
		info, n, err := m.resolve(f)
		if err != nil {
			rerr = err
			return
		}
		info.pinned = pinned
		if !pinned {
			m.forgetHandle(info, n)
		}
	})
	if err != nil {
		return err
	}
	return rerr
}

// GetFileView returns a read-only snapshot of the file behind f.
func (m *Manager) GetFileView(f FileID) (FileView, error) {
	var v FileView
	var rerr error
	err := m.call(func(m *Manager) {
		v, rerr = m.fileView(f)
	})
	if err != nil {
		return FileView{}, err
	}
	return v, rerr
}

// GetSyncFileView returns a snapshot like GetFileView, but first waits
// for any pending persistence load keyed to the file, so a record that
// was persisted in an earlier session is already merged in.
func (m *Manager) GetSyncFileView(f FileID) (FileView, error) {
	for {
		var wait chan struct{}
		var v FileView
		var rerr error
		err := m.call(func(m *Manager) {
			_, n, err := m.resolve(f)
			if err != nil {
				rerr = err
				return
			}
			if n.loadPending {
				wait = make(chan struct{})
				n.loadWaiters = append(n.loadWaiters, wait)
				return
			}
			v, rerr = m.fileView(f)
		})
		if err != nil {
			return FileView{}, err
		}
		if rerr != nil {
			return FileView{}, rerr
		}
		if wait == nil {
			return v, nil
		}
		select {
		case <-wait:
		case <-m.done:
			return FileView{}, ErrManagerClosed
		}
	}
}

// GetFileObject returns the public record of the file. With withMain the
// id field is the file's canonical main id, otherwise f itself.
func (m *Manager) GetFileObject(f FileID, withMain bool) (FileObject, error) {
	var o FileObject
	var rerr error
	err := m.call(func(m *Manager) {
		info, n, err := m.resolve(f)
		if err != nil {
			rerr = err
			return
		}
		info.sendUpdates = true
		o = m.fileObject(n, f, withMain)
	})
	if err != nil {
		return FileObject{}, err
	}
	return o, rerr
}

// ToPersistentID encodes the file's remote reference into a token that
// survives restarts and may be passed between clients.
func (m *Manager) ToPersistentID(f FileID) (string, error) {
	var token string
	var rerr error
	err := m.call(func(m *Manager) {
		_, n, err := m.resolve(f)
		if err != nil {
			rerr = err
			return
		}
		if !n.remote.IsFull() {
			rerr = ErrNoRemoteLocation
			return
		}
		token = core.EncodePersistentID(*n.remote.Full)
	})
	if err != nil {
		return "", err
	}
	return token, rerr
}

// FromPersistentID decodes a token produced by ToPersistentID and
// registers the remote reference it carries.
func (m *Manager) FromPersistentID(token string, expected core.FileType) (FileID, error) {
	remote, err := core.DecodePersistentID(token, expected)
	if err != nil {
		return FileID{}, err
	}
	return m.RegisterRemote(remote, core.SourceUser, 0, 0, 0, "")
}

// OnFileUnlink tells the manager the host observed deletion of a local
// path. The matching file, if any, loses its local location.
func (m *Manager) OnFileUnlink(path string) error {
	return m.call(func(m *Manager) {
		f, ok := m.byLocal[path]
		if !ok {
			return
		}
		_, n, err := m.resolve(f)
		if err != nil {
			return
		}
		m.badPaths.Add(path)
		m.demoteLocal(n)
		m.runScheduler(n)
		m.flushNode(n)
	})
}

// ExternalGenerateProgress routes host-driven generation progress into
// the file, as if an internal generation query produced it.
func (m *Manager) ExternalGenerateProgress(
	f FileID, partial core.PartialLocal, expectedSize int64) error {

	var rerr error
	err := m.call(func(m *Manager) {
		_, n, err := m.resolve(f)
		if err != nil {
			rerr = err
			return
		}
		m.applyGenerateProgress(n, partial, expectedSize)
	})
	if err != nil {
		return err
	}
	return rerr
}

// ExternalGenerateFinish completes host-driven generation. A nil genErr
// reports success with the produced local file; otherwise the failure is
// surfaced like an internal generation error.
func (m *Manager) ExternalGenerateFinish(f FileID, local core.FullLocal, genErr error) error {
	var rerr error
	err := m.call(func(m *Manager) {
		_, n, err := m.resolve(f)
		if err != nil {
			rerr = err
			return
		}
		if genErr != nil {
			n.generateFailed = true
			m.surfaceDownloadError(n, genErr, true)
			m.runScheduler(n)
			return
		}
		m.applyGenerateOK(n, local)
	})
	if err != nil {
		return err
	}
	return rerr
}
