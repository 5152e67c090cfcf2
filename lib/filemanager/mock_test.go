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

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/vexel-im/courier/core"
	"github.com/vexel-im/courier/lib/filedb"
	"github.com/vexel-im/courier/mocks/lib/filedb"
	"github.com/vexel-im/courier/mocks/lib/filegen"
	"github.com/vexel-im/courier/mocks/lib/fileloader"
)

func TestDownloadPriorityClamped(t *testing.T) {
	require := require.New(t)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mocks := newManagerMocks()
	loader := mockfileloader.NewMockLoader(ctrl)
	m, cleanup := mocks.newManagerWithLoader(loader)
	defer cleanup()

	remote := core.FullRemoteFixture(core.FileTypeDocument)
	h, err := m.RegisterRemote(remote, core.SourceServer, 0, 1000, 0, "")
	require.NoError(err)

	loader.EXPECT().Download(
		gomock.Any(), remote, gomock.Any(), int64(1000), gomock.Any(),
		gomock.Any(), core.MaxPriority)

	require.NoError(m.Download(h, nil, 99))
}

func TestWithdrawnGenerationIsCancelled(t *testing.T) {
	require := require.New(t)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mocks := newManagerMocks()
	generator := mockfilegen.NewMockGenerator(ctrl)
	m, cleanup := mocks.newManagerWithGenerator(generator)
	defer cleanup()

	h, err := m.RegisterGenerate(core.FileTypeThumbnail, "/orig.jpg", "scale", 0, 0)
	require.NoError(err)

	gen := core.FullGenerate{
		FileType: core.FileTypeThumbnail, OriginalPath: "/orig.jpg", Conversion: "scale",
	}
	gomock.InOrder(
		generator.EXPECT().Generate(gomock.Any(), gen, gomock.Any()),
		generator.EXPECT().Cancel(gomock.Any()),
	)

	require.NoError(m.Download(h, nil, 5))
	require.NoError(m.Download(h, nil, 0))
}

func TestFlushAllocatesRecordIDOnce(t *testing.T) {
	require := require.New(t)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mocks := newManagerMocks()
	store := mockfiledb.NewMockStore(ctrl)
	mocks.store = store
	m, cleanup := mocks.newManager(Config{})
	defer cleanup()

	store.EXPECT().GetByKey(gomock.Any()).
		Return(filedb.RecordID(0), nil, filedb.ErrRecordNotFound).AnyTimes()
	store.EXPECT().NextID().Return(filedb.RecordID(7), nil).Times(1)

	puts := make(chan filedb.RecordID, 16)
	store.EXPECT().Put(filedb.RecordID(7), gomock.Any()).
		DoAndReturn(func(id filedb.RecordID, r *filedb.Record) error {
			puts <- id
			return nil
		}).AnyTimes()

	local := mocks.writeFile("/files/x.bin", 64)
	h, err := m.RegisterLocal(local, 0, 64, false, false)
	require.NoError(err)

	ok, err := m.SetEncryptionKey(h, core.EncryptionKeyFixture())
	require.NoError(err)
	require.True(ok)

	select {
	case <-puts:
	case <-time.After(testTimeout):
		t.Fatal("first flush never landed")
	}

	// Wait until the allocated id is adopted; the next flush must reuse it.
	require.NoError(waitTrue(func() bool {
		var id filedb.RecordID
		require.NoError(m.call(func(m *Manager) {
			if _, n, err := m.resolve(h); err == nil {
				id = n.recordID
			}
		}))
		return id == 7
	}))

	require.NoError(m.DeleteFile(h))
	select {
	case id := <-puts:
		require.Equal(filedb.RecordID(7), id)
	case <-time.After(testTimeout):
		t.Fatal("second flush never landed")
	}
}
