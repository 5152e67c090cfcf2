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
package filedb

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vexel-im/courier/core"
)

func TestMemStorePutGet(t *testing.T) {
	require := require.New(t)

	s := NewMemStore()

	id, err := s.NextID()
	require.NoError(err)

	r := RecordFixture()
	require.NoError(s.Put(id, r))

	got, err := s.Get(id)
	require.NoError(err)
	require.Equal(r.Remote, got.Remote)

	gotID, byKey, err := s.GetByKey(RemoteKey(*r.Remote.Full))
	require.NoError(err)
	require.Equal(id, gotID)
	require.Equal(r.Remote, byKey.Remote)
}

func TestMemStoreGetMissing(t *testing.T) {
	require := require.New(t)

	s := NewMemStore()

	_, err := s.Get(99)
	require.Equal(ErrRecordNotFound, err)

	_, _, err = s.GetByKey(LocalKey("/nope"))
	require.Equal(ErrRecordNotFound, err)
}

func TestMemStorePutReindexes(t *testing.T) {
	require := require.New(t)

	s := NewMemStore()

	id, err := s.NextID()
	require.NoError(err)

	r := LocalRecordFixture()
	oldPath := r.Local.Full.Path
	require.NoError(s.Put(id, r))

	// Move the file: old key must be dropped, new key must resolve.
	moved := r.Clone()
	moved.Local.Full.Path = oldPath + ".moved"
	require.NoError(s.Put(id, moved))

	_, _, err = s.GetByKey(LocalKey(oldPath))
	require.Equal(ErrRecordNotFound, err)

	gotID, _, err := s.GetByKey(LocalKey(moved.Local.Full.Path))
	require.NoError(err)
	require.Equal(id, gotID)
}

func TestMemStoreDelete(t *testing.T) {
	require := require.New(t)

	s := NewMemStore()

	id, err := s.NextID()
	require.NoError(err)

	r := RecordFixture()
	require.NoError(s.Put(id, r))
	require.NoError(s.Delete(id))

	_, err = s.Get(id)
	require.Equal(ErrRecordNotFound, err)

	_, _, err = s.GetByKey(RemoteKey(*r.Remote.Full))
	require.Equal(ErrRecordNotFound, err)

	// Deleting twice is fine.
	require.NoError(s.Delete(id))
}

func TestMemStoreNextIDNeverReuses(t *testing.T) {
	require := require.New(t)

	s := NewMemStore()

	seen := make(map[RecordID]bool)
	for i := 0; i < 100; i++ {
		id, err := s.NextID()
		require.NoError(err)
		require.False(seen[id])
		seen[id] = true
	}
}

func TestMemStorePutIsolatesCaller(t *testing.T) {
	require := require.New(t)

	s := NewMemStore()

	id, err := s.NextID()
	require.NoError(err)

	r := RecordFixture()
	require.NoError(s.Put(id, r))

	// Mutating the caller's copy must not affect the stored record.
	r.Size++
	r.Remote.Full.ID++

	got, err := s.Get(id)
	require.NoError(err)
	require.NotEqual(r.Size, got.Size)
	require.NotEqual(r.Remote.Full.ID, got.Remote.Full.ID)
	require.True(got.Remote.IsFull())
	require.Equal(core.SourceServer, got.RemoteSource)
}
