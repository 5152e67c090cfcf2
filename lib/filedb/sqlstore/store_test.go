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
package sqlstore

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vexel-im/courier/lib/filedb"
)

func TestStorePutGet(t *testing.T) {
	require := require.New(t)

	s, cleanup := Fixture()
	defer cleanup()

	id, err := s.NextID()
	require.NoError(err)

	r := filedb.RecordFixture()
	require.NoError(s.Put(id, r))

	got, err := s.Get(id)
	require.NoError(err)
	require.Equal(r.Remote, got.Remote)
	require.Equal(r.Size, got.Size)
	require.Equal(r.Owner, got.Owner)

	gotID, byKey, err := s.GetByKey(filedb.RemoteKey(*r.Remote.Full))
	require.NoError(err)
	require.Equal(id, gotID)
	require.Equal(r.Remote, byKey.Remote)
}

func TestStoreGetMissing(t *testing.T) {
	require := require.New(t)

	s, cleanup := Fixture()
	defer cleanup()

	_, err := s.Get(4242)
	require.Equal(filedb.ErrRecordNotFound, err)

	_, _, err = s.GetByKey(filedb.LocalKey("/nope"))
	require.Equal(filedb.ErrRecordNotFound, err)
}

func TestStorePutReindexes(t *testing.T) {
	require := require.New(t)

	s, cleanup := Fixture()
	defer cleanup()

	id, err := s.NextID()
	require.NoError(err)

	r := filedb.LocalRecordFixture()
	oldPath := r.Local.Full.Path
	require.NoError(s.Put(id, r))

	moved := r.Clone()
	moved.Local.Full.Path = oldPath + ".moved"
	require.NoError(s.Put(id, moved))

	_, _, err = s.GetByKey(filedb.LocalKey(oldPath))
	require.Equal(filedb.ErrRecordNotFound, err)

	gotID, _, err := s.GetByKey(filedb.LocalKey(moved.Local.Full.Path))
	require.NoError(err)
	require.Equal(id, gotID)
}

func TestStoreKeyStealing(t *testing.T) {
	require := require.New(t)

	s, cleanup := Fixture()
	defer cleanup()

	// Two records claiming the same key: last writer owns it.
	r := filedb.RecordFixture()

	id1, err := s.NextID()
	require.NoError(err)
	require.NoError(s.Put(id1, r))

	id2, err := s.NextID()
	require.NoError(err)
	require.NoError(s.Put(id2, r))

	gotID, _, err := s.GetByKey(filedb.RemoteKey(*r.Remote.Full))
	require.NoError(err)
	require.Equal(id2, gotID)
}

func TestStoreDelete(t *testing.T) {
	require := require.New(t)

	s, cleanup := Fixture()
	defer cleanup()

	id, err := s.NextID()
	require.NoError(err)

	r := filedb.RecordFixture()
	require.NoError(s.Put(id, r))
	require.NoError(s.Delete(id))

	_, err = s.Get(id)
	require.Equal(filedb.ErrRecordNotFound, err)

	_, _, err = s.GetByKey(filedb.RemoteKey(*r.Remote.Full))
	require.Equal(filedb.ErrRecordNotFound, err)

	require.NoError(s.Delete(id))
}

func TestStoreRange(t *testing.T) {
	require := require.New(t)

	s, cleanup := Fixture()
	defer cleanup()

	var want []filedb.RecordID
	for i := 0; i < 3; i++ {
		id, err := s.NextID()
		require.NoError(err)
		require.NoError(s.Put(id, filedb.RecordFixture()))
		want = append(want, id)
	}

	var got []filedb.RecordID
	require.NoError(s.Range(func(id filedb.RecordID, r *filedb.Record) error {
		require.NotNil(r)
		got = append(got, id)
		return nil
	}))
	require.Equal(want, got)
}

func TestStoreNextIDMonotonic(t *testing.T) {
	require := require.New(t)

	s, cleanup := Fixture()
	defer cleanup()

	prev, err := s.NextID()
	require.NoError(err)
	for i := 0; i < 10; i++ {
		id, err := s.NextID()
		require.NoError(err)
		require.True(id > prev)
		prev = id
	}
}

func TestStoreSurvivesReopen(t *testing.T) {
	require := require.New(t)

	tmpdir, err := ioutil.TempDir(".", "test-filedb-")
	require.NoError(err)
	defer os.RemoveAll(tmpdir)

	source := filepath.Join(tmpdir, "files.db")

	s, err := New(Config{Source: source})
	require.NoError(err)

	id, err := s.NextID()
	require.NoError(err)

	r := filedb.RecordFixture()
	require.NoError(s.Put(id, r))
	require.NoError(s.Close())

	s2, err := New(Config{Source: source})
	require.NoError(err)
	defer s2.Close()

	got, err := s2.Get(id)
	require.NoError(err)
	require.Equal(r.Remote, got.Remote)

	next, err := s2.NextID()
	require.NoError(err)
	require.True(next > id)
}
