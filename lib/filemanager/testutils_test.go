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
	"sync"
	"time"

	"github.com/andres-erbsen/clock"
	"github.com/spf13/afero"
	"github.com/uber-go/tally"

	"github.com/vexel-im/courier/core"
	"github.com/vexel-im/courier/lib/filedb"
	"github.com/vexel-im/courier/lib/filegen"
	"github.com/vexel-im/courier/lib/fileloader"
	"github.com/vexel-im/courier/utils/backoff"
	"github.com/vexel-im/courier/utils/testutil"
)

const testTimeout = 5 * time.Second

type managerMocks struct {
	loader    *fileloader.TestLoader
	generator *filegen.TestGenerator
	store     filedb.Store
	memStore  *filedb.MemStore
	fs        afero.Fs
	clk       *clock.Mock
}

func newManagerMocks() *managerMocks {
	mem := filedb.NewMemStore()
	return &managerMocks{
		loader:    fileloader.NewTestLoader(),
		generator: filegen.NewTestGenerator(),
		store:     mem,
		memStore:  mem,
		fs:        afero.NewMemMapFs(),
		clk:       clock.NewMock(),
	}
}

func (mm *managerMocks) newManager(config Config) (*Manager, func()) {
	if config.FlushBackoff.MaxElapsedTime == 0 {
		config.FlushBackoff = backoff.Config{
			InitialInterval: time.Millisecond,
			MaxInterval:     5 * time.Millisecond,
			MaxElapsedTime:  100 * time.Millisecond,
		}
	}
	m := New(config, tally.NoopScope, mm.clk, mm.fs, mm.store,
		mm.loader, mm.generator, nil)
	return m, m.Close
}

func (mm *managerMocks) newManagerWithLoader(loader fileloader.Loader) (*Manager, func()) {
	m := New(Config{
		FlushBackoff: backoff.Config{
			InitialInterval: time.Millisecond,
			MaxInterval:     5 * time.Millisecond,
			MaxElapsedTime:  100 * time.Millisecond,
		},
	}, tally.NoopScope, mm.clk, mm.fs, mm.store, loader, mm.generator, nil)
	return m, m.Close
}

func (mm *managerMocks) newManagerWithGenerator(generator filegen.Generator) (*Manager, func()) {
	m := New(Config{
		FlushBackoff: backoff.Config{
			InitialInterval: time.Millisecond,
			MaxInterval:     5 * time.Millisecond,
			MaxElapsedTime:  100 * time.Millisecond,
		},
	}, tally.NoopScope, mm.clk, mm.fs, mm.store, mm.loader, generator, nil)
	return m, m.Close
}

func managerFixture() (*Manager, *managerMocks, func()) {
	mocks := newManagerMocks()
	m, cleanup := mocks.newManager(Config{})
	return m, mocks, cleanup
}

// settle waits until every event queued before it was applied.
func settle(m *Manager) {
	_ = m.call(func(*Manager) {})
}

// writeFile materializes path in the fixture filesystem and returns its
// full local location.
func (mm *managerMocks) writeFile(path string, size int) core.FullLocal {
	data := make([]byte, size)
	if err := afero.WriteFile(mm.fs, path, data, 0755); err != nil {
		panic(err)
	}
	fi, err := mm.fs.Stat(path)
	if err != nil {
		panic(err)
	}
	return core.FullLocal{
		FileType: core.FileTypeDocument,
		Path:     path,
		MTimeNS:  fi.ModTime().UnixNano(),
	}
}

func waitTrue(f func() bool) error {
	return testutil.PollUntilTrue(testTimeout, f)
}

type downloadRecorder struct {
	sync.Mutex
	progress []int64
	oks      []core.FullLocal
	errs     []error
}

func (r *downloadRecorder) OnProgress(f FileID, readySize int64) {
	r.Lock()
	defer r.Unlock()
	r.progress = append(r.progress, readySize)
}

func (r *downloadRecorder) OnDownloadOK(f FileID, local core.FullLocal) {
	r.Lock()
	defer r.Unlock()
	r.oks = append(r.oks, local)
}

func (r *downloadRecorder) OnDownloadError(f FileID, err error) {
	r.Lock()
	defer r.Unlock()
	r.errs = append(r.errs, err)
}

func (r *downloadRecorder) okCount() int {
	r.Lock()
	defer r.Unlock()
	return len(r.oks)
}

func (r *downloadRecorder) errCount() int {
	r.Lock()
	defer r.Unlock()
	return len(r.errs)
}

func (r *downloadRecorder) progressSnapshot() []int64 {
	r.Lock()
	defer r.Unlock()
	return append([]int64(nil), r.progress...)
}

type uploadRecorder struct {
	sync.Mutex
	progress  []int64
	oks       []fileloader.InputFile
	encrypted []fileloader.InputEncryptedFile
	errs      []error
}

func (r *uploadRecorder) OnProgress(f FileID, readySize int64) {
	r.Lock()
	defer r.Unlock()
	r.progress = append(r.progress, readySize)
}

func (r *uploadRecorder) OnUploadOK(f FileID, input fileloader.InputFile) {
	r.Lock()
	defer r.Unlock()
	r.oks = append(r.oks, input)
}

func (r *uploadRecorder) OnUploadEncryptedOK(f FileID, input fileloader.InputEncryptedFile) {
	r.Lock()
	defer r.Unlock()
	r.encrypted = append(r.encrypted, input)
}

func (r *uploadRecorder) OnUploadError(f FileID, err error) {
	r.Lock()
	defer r.Unlock()
	r.errs = append(r.errs, err)
}

func (r *uploadRecorder) okCount() int {
	r.Lock()
	defer r.Unlock()
	return len(r.oks)
}

func (r *uploadRecorder) encryptedCount() int {
	r.Lock()
	defer r.Unlock()
	return len(r.encrypted)
}

func (r *uploadRecorder) errCount() int {
	r.Lock()
	defer r.Unlock()
	return len(r.errs)
}
