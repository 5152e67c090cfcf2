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
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/vexel-im/courier/core"
	"github.com/vexel-im/courier/lib/filedb"
)

// flakyStore fails Put while failing is set.
type flakyStore struct {
	filedb.Store
	failing *atomic.Bool
}

func newFlakyStore(inner filedb.Store) *flakyStore {
	return &flakyStore{Store: inner, failing: atomic.NewBool(false)}
}

func (s *flakyStore) Put(id filedb.RecordID, r *filedb.Record) error {
	if s.failing.Load() {
		return errStoreDown
	}
	return s.Store.Put(id, r)
}

func TestFlushPersistsCompletedDownload(t *testing.T) {
	require := require.New(t)

	m, mocks, cleanup := managerFixture()
	defer cleanup()

	remote := core.FullRemoteFixture(core.FileTypeDocument)
	h, err := m.RegisterRemote(remote, core.SourceServer, 0, 1000, 0, "doc.bin")
	require.NoError(err)
	require.NoError(m.Download(h, &downloadRecorder{}, 5))

	qid := mocks.loader.LastQuery()
	local := mocks.writeFile("/dl/doc.bin", 1000)
	m.OnDownloadOK(qid, local, 1000)

	require.NoError(waitTrue(func() bool { return mocks.memStore.Len() == 1 }))

	_, r, err := mocks.store.GetByKey(filedb.RemoteKey(remote))
	require.NoError(err)
	require.True(r.Local.IsFull())
	require.Equal("/dl/doc.bin", r.Local.Full.Path)
	require.Equal(int64(1000), r.Size)

	// The local path indexes the same record.
	_, r2, err := mocks.store.GetByKey(filedb.LocalKey("/dl/doc.bin"))
	require.NoError(err)
	require.Equal(r.Remote, r2.Remote)
}

func TestFlushRetriesThroughSweep(t *testing.T) {
	require := require.New(t)

	mocks := newManagerMocks()
	flaky := newFlakyStore(mocks.store)
	mocks.store = flaky
	m, cleanup := mocks.newManager(Config{FlushSweepInterval: time.Second})
	defer cleanup()

	flaky.failing.Store(true)

	local := mocks.writeFile("/files/a.bin", 100)
	h, err := m.RegisterLocal(local, 0, 100, false, false)
	require.NoError(err)
	ok, err := m.SetEncryptionKey(h, core.EncryptionKeyFixture())
	require.NoError(err)
	require.True(ok)

	// The write cannot land while the store is down.
	settle(m)
	require.Equal(0, mocks.memStore.Len())

	// Once the store recovers, the periodic sweep re-flushes the node.
	flaky.failing.Store(false)
	require.NoError(waitTrue(func() bool {
		mocks.clk.Add(time.Second)
		return mocks.memStore.Len() == 1
	}))
}

func TestReloadAfterRestart(t *testing.T) {
	require := require.New(t)

	mocks := newManagerMocks()
	m1, _ := mocks.newManager(Config{})

	remote := core.FullRemoteFixture(core.FileTypeDocument)
	h, err := m1.RegisterRemote(remote, core.SourceServer, 0, 1000, 0, "doc.bin")
	require.NoError(err)
	require.NoError(m1.Download(h, &downloadRecorder{}, 5))
	local := mocks.writeFile("/dl/doc.bin", 1000)
	m1.OnDownloadOK(mocks.loader.LastQuery(), local, 1000)

	require.NoError(waitTrue(func() bool { return mocks.memStore.Len() == 1 }))
	m1.Close()

	// A fresh manager over the same store and filesystem rediscovers the
	// remote reference from the local path alone, without loader traffic.
	m2, cleanup2 := mocks.newManager(Config{})
	defer cleanup2()

	queriesBefore := mocks.loader.QueryCount()
	h2, err := m2.RegisterLocal(local, 0, 1000, false, false)
	require.NoError(err)

	v, err := m2.GetSyncFileView(h2)
	require.NoError(err)
	require.True(v.RemoteLocation().IsFull())
	require.Equal(remote, *v.RemoteLocation().Full)
	require.True(v.LocalLocation().IsFull())
	require.Equal(queriesBefore, mocks.loader.QueryCount())

	token, err := m2.ToPersistentID(h2)
	require.NoError(err)
	require.Equal(core.EncodePersistentID(remote), token)
}

func TestReloadDropsStaleLocalPath(t *testing.T) {
	require := require.New(t)

	mocks := newManagerMocks()
	m1, _ := mocks.newManager(Config{})

	remote := core.FullRemoteFixture(core.FileTypeDocument)
	h, err := m1.RegisterRemote(remote, core.SourceServer, 0, 1000, 0, "doc.bin")
	require.NoError(err)
	require.NoError(m1.Download(h, &downloadRecorder{}, 5))
	local := mocks.writeFile("/dl/doc.bin", 1000)
	m1.OnDownloadOK(mocks.loader.LastQuery(), local, 1000)
	require.NoError(waitTrue(func() bool { return mocks.memStore.Len() == 1 }))
	m1.Close()

	// The file vanished between sessions; the replayed record must not
	// resurrect the dead path.
	require.NoError(mocks.fs.Remove("/dl/doc.bin"))

	m2, cleanup2 := mocks.newManager(Config{})
	defer cleanup2()

	h2, err := m2.RegisterRemote(remote, core.SourceServer, 0, 1000, 0, "doc.bin")
	require.NoError(err)
	v, err := m2.GetSyncFileView(h2)
	require.NoError(err)
	require.True(v.LocalLocation().IsEmpty())
	require.True(v.RemoteLocation().IsFull())
}

func TestMergeDeletesOrphanedRecord(t *testing.T) {
	require := require.New(t)

	m, mocks, cleanup := managerFixture()
	defer cleanup()

	key := core.EncryptionKeyFixture()

	r1 := core.FullRemoteFixture(core.FileTypeEncrypted)
	a, err := m.RegisterRemote(r1, core.SourceServer, 0, 100, 0, "")
	require.NoError(err)
	ok, err := m.SetEncryptionKey(a, key)
	require.NoError(err)
	require.True(ok)

	r2 := core.FullRemoteFixture(core.FileTypeEncrypted)
	b, err := m.RegisterRemote(r2, core.SourceServer, 0, 100, 0, "")
	require.NoError(err)
	ok, err = m.SetEncryptionKey(b, key)
	require.NoError(err)
	require.True(ok)

	require.NoError(waitTrue(func() bool { return mocks.memStore.Len() == 2 }))

	_, err = m.Merge(a, b)
	require.NoError(err)

	require.NoError(waitTrue(func() bool { return mocks.memStore.Len() == 1 }))
}

func TestFlushCoalescesBursts(t *testing.T) {
	require := require.New(t)

	m, mocks, cleanup := managerFixture()
	defer cleanup()

	local := mocks.writeFile("/files/burst.bin", 640)
	h, err := m.RegisterLocal(local, 0, 640, false, false)
	require.NoError(err)
	require.NoError(m.Upload(h, &uploadRecorder{}, 5, 0))
	qid := mocks.loader.LastQuery()

	// A burst of durable changes while writes may be in flight must
	// settle to one record holding the latest state.
	for i := int32(1); i <= 8; i++ {
		m.OnPartialUpload(qid, core.PartialRemote{
			ID: 31, PartCount: 8, PartSize: 80, ReadyPartCount: i,
		}, int64(i)*80)
	}
	m.OnUploadOK(qid, core.FileTypeDocument, core.PartialRemote{
		ID: 31, PartCount: 8, PartSize: 80, ReadyPartCount: 8,
	}, 640)
	remote := core.FullRemoteFixture(core.FileTypeDocument)
	m.OnUploadFullOK(qid, remote)

	require.NoError(waitTrue(func() bool {
		if mocks.memStore.Len() != 1 {
			return false
		}
		_, r, err := mocks.store.GetByKey(filedb.RemoteKey(remote))
		return err == nil && r.Remote.IsFull() && r.Size == 640
	}))
	require.Equal(1, mocks.memStore.Len())
}

func TestGetSyncFileViewWaitsForLoad(t *testing.T) {
	require := require.New(t)

	mocks := newManagerMocks()
	slow := &slowStore{Store: mocks.store, gate: make(chan struct{})}
	mocks.store = slow
	m, cleanup := mocks.newManager(Config{})
	defer cleanup()

	remote := core.FullRemoteFixture(core.FileTypeDocument)
	h, err := m.RegisterRemote(remote, core.SourceServer, 0, 100, 0, "")
	require.NoError(err)

	done := make(chan FileView, 1)
	go func() {
		v, err := m.GetSyncFileView(h)
		if err == nil {
			done <- v
		}
	}()

	select {
	case <-done:
		t.Fatal("view returned before the pending load completed")
	case <-time.After(50 * time.Millisecond):
	}

	close(slow.gate)
	select {
	case v := <-done:
		require.True(v.RemoteLocation().IsFull())
	case <-time.After(testTimeout):
		t.Fatal("view never returned")
	}
}

// slowStore blocks GetByKey until gate closes.
type slowStore struct {
	filedb.Store
	gate chan struct{}
}

func (s *slowStore) GetByKey(k filedb.Key) (filedb.RecordID, *filedb.Record, error) {
	<-s.gate
	return s.Store.GetByKey(k)
}
