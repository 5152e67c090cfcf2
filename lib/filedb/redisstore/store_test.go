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
package redisstore

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vexel-im/courier/core"
	"github.com/vexel-im/courier/lib/filedb"
)

func TestNewRequiresAddr(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}

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
	require.Equal(r.Name, got.Name)

	gotID, byKey, err := s.GetByKey(filedb.RemoteKey(*r.Remote.Full))
	require.NoError(err)
	require.Equal(id, gotID)
	require.Equal(r.Remote, byKey.Remote)
}

func TestStoreGetMissing(t *testing.T) {
	require := require.New(t)

	s, cleanup := Fixture()
	defer cleanup()

	_, err := s.Get(1234)
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

func TestStoreReindexSparesStolenKeys(t *testing.T) {
	require := require.New(t)

	s, cleanup := Fixture()
	defer cleanup()

	r := filedb.LocalRecordFixture()
	path := r.Local.Full.Path

	id1, err := s.NextID()
	require.NoError(err)
	require.NoError(s.Put(id1, r))

	// A second record steals the key.
	id2, err := s.NextID()
	require.NoError(err)
	require.NoError(s.Put(id2, r))

	// The first record dropping the location must not clobber the
	// second record's index entry.
	dropped := r.Clone()
	dropped.Local = core.EmptyLocal()
	require.NoError(s.Put(id1, dropped))

	gotID, _, err := s.GetByKey(filedb.LocalKey(path))
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
