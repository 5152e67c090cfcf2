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
package core

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/willf/bitset"
)

func TestLocalLocationTiers(t *testing.T) {
	require := require.New(t)

	empty := EmptyLocal()
	require.True(empty.IsEmpty())
	require.Equal("", empty.Path())
	require.Equal(FileTypeNone, empty.FileType())

	partial := NewPartialLocal(PartialLocal{
		FileType:  FileTypeVideo,
		Path:      "/cache/video.mp4.part",
		PartSize:  1 << 17,
		Parts:     bitset.New(8),
		ReadySize: 3 << 17,
	})
	require.True(partial.IsPartial())
	require.Equal("/cache/video.mp4.part", partial.Path())
	require.Equal(int64(3<<17), partial.ReadySize())

	full := NewFullLocal(FullLocal{FileType: FileTypeVideo, Path: "/cache/video.mp4", MTimeNS: 42})
	require.True(full.IsFull())
	require.Equal("/cache/video.mp4", full.Path())
	require.Equal(FileTypeVideo, full.FileType())
}

func TestLocalLocationCloneIsDeep(t *testing.T) {
	require := require.New(t)

	parts := bitset.New(16)
	parts.Set(1)
	orig := NewPartialLocal(PartialLocal{
		FileType: FileTypeDocument,
		Path:     "/cache/doc.bin.part",
		PartSize: 1024,
		Parts:    parts,
	})

	clone := orig.Clone()
	clone.Partial.Parts.Set(5)

	require.True(clone.Partial.Parts.Test(5))
	require.False(orig.Partial.Parts.Test(5), "clone must not share the part set")
}

func TestFullRemoteKeyIgnoresAccessHash(t *testing.T) {
	require := require.New(t)

	a := FullRemoteFixture(FileTypePhoto)
	b := a
	b.AccessHash++

	require.Equal(a.Key(), b.Key())

	c := a
	c.ID++
	require.NotEqual(a.Key(), c.Key())

	d := a
	d.FileType = FileTypeVideo
	require.NotEqual(a.Key(), d.Key())
}

func TestPartialRemoteReadySize(t *testing.T) {
	require := require.New(t)

	r := NewPartialRemote(PartialRemote{
		ID:             77,
		PartCount:      10,
		PartSize:       1 << 9,
		ReadyPartCount: 4,
	})
	require.Equal(int64(4<<9), r.ReadySize())
	require.Equal(int64(0), EmptyRemote().ReadySize())
}

func TestGenerateLocationKey(t *testing.T) {
	require := require.New(t)

	g := FullGenerateFixture(FileTypeThumbnail)
	same := g
	require.Equal(g.Key(), same.Key())

	other := g
	other.Conversion = "other"
	require.NotEqual(g.Key(), other.Key())

	url := FullGenerate{FileType: FileTypePhoto, OriginalPath: "https://x/y.jpg", Conversion: URLConversion}
	require.True(url.IsURL())
	require.False(g.IsURL())
}
