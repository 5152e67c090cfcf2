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
	"github.com/willf/bitset"

	"github.com/vexel-im/courier/core"
)

func TestRecordKeys(t *testing.T) {
	require := require.New(t)

	r := &Record{
		Local:    core.EmptyLocal(),
		Remote:   core.EmptyRemote(),
		Generate: core.EmptyGenerate(),
	}
	require.Empty(r.Keys())

	remote := core.FullRemoteFixture(core.FileTypePhoto)
	local := core.FullLocalFixture(core.FileTypePhoto)
	gen := core.FullGenerateFixture(core.FileTypePhoto)

	r = &Record{
		Local:    core.NewFullLocal(local),
		Remote:   core.NewFullRemote(remote),
		Generate: core.NewFullGenerate(gen),
	}
	keys := r.Keys()
	require.Len(keys, 3)
	require.Contains(keys, LocalKey(local.Path))
	require.Contains(keys, RemoteKey(remote))
	require.Contains(keys, GenerateKey(gen))
}

func TestRecordCodecRoundTrip(t *testing.T) {
	require := require.New(t)

	parts := bitset.New(64)
	parts.Set(0)
	parts.Set(3)
	parts.Set(63)

	r := &Record{
		Local: core.NewPartialLocal(core.PartialLocal{
			FileType:  core.FileTypeVideo,
			Path:      "/cache/video.mp4.part",
			PartSize:  1 << 17,
			Parts:     parts,
			ReadySize: 3 << 17,
		}),
		Remote:       core.NewFullRemote(core.FullRemoteFixture(core.FileTypeVideo)),
		Generate:     core.EmptyGenerate(),
		RemoteSource: core.SourceServer,
		Size:         1 << 20,
		ExpectedSize: 1 << 20,
		Name:         "video.mp4",
		Owner:        42,
		Key:          core.EncryptionKeyFixture(),
		GetByHash:    true,
	}

	b, err := MarshalRecord(r)
	require.NoError(err)

	decoded, err := UnmarshalRecord(b)
	require.NoError(err)

	require.Equal(r.Remote, decoded.Remote)
	require.Equal(r.Size, decoded.Size)
	require.Equal(r.Name, decoded.Name)
	require.Equal(r.Owner, decoded.Owner)
	require.True(r.Key.Equal(decoded.Key))
	require.True(decoded.GetByHash)

	require.True(decoded.Local.IsPartial())
	require.Equal(r.Local.Partial.Path, decoded.Local.Partial.Path)
	require.Equal(r.Local.Partial.ReadySize, decoded.Local.Partial.ReadySize)
	require.True(decoded.Local.Partial.Parts.Test(3))
	require.False(decoded.Local.Partial.Parts.Test(4))
}

func TestRecordCloneIsDeep(t *testing.T) {
	require := require.New(t)

	r := RecordFixture()
	c := r.Clone()

	c.Remote.Full.ID++
	require.NotEqual(r.Remote.Full.ID, c.Remote.Full.ID)

	c.Key = append(c.Key, 0xFF)
	require.False(r.Key.Equal(c.Key))
}

func TestUnmarshalRecordRejectsGarbage(t *testing.T) {
	_, err := UnmarshalRecord([]byte("{not json"))
	require.Error(t, err)
}
