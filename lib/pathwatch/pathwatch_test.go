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
package pathwatch

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally"

	"github.com/vexel-im/courier/utils/testutil"
)

type recordingSink struct {
	sync.Mutex
	unlinks []string
}

func (s *recordingSink) OnFileUnlink(path string) error {
	s.Lock()
	defer s.Unlock()
	s.unlinks = append(s.unlinks, path)
	return nil
}

func (s *recordingSink) snapshot() []string {
	s.Lock()
	defer s.Unlock()
	return append([]string(nil), s.unlinks...)
}

func watcherFixture(t *testing.T) (*Watcher, *recordingSink, string) {
	dir := t.TempDir()
	sink := &recordingSink{}
	w, err := New(Config{Debounce: 20 * time.Millisecond}, tally.NoopScope, sink)
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })
	require.NoError(t, w.Watch(dir))
	return w, sink, dir
}

func writeFile(t *testing.T, path string) {
	require.NoError(t, os.WriteFile(path, []byte("content"), 0644))
}

func TestReportsDeletedFile(t *testing.T) {
	require := require.New(t)

	_, sink, dir := watcherFixture(t)

	path := filepath.Join(dir, "a.bin")
	writeFile(t, path)
	time.Sleep(50 * time.Millisecond)
	require.NoError(os.Remove(path))

	require.NoError(testutil.PollUntilTrue(5*time.Second, func() bool {
		u := sink.snapshot()
		return len(u) == 1 && u[0] == filepath.ToSlash(path)
	}))
}

func TestRecreationWithinDebounceSuppressesReport(t *testing.T) {
	require := require.New(t)

	w, sink, dir := watcherFixture(t)

	path := filepath.Join(dir, "b.bin")
	writeFile(t, path)
	time.Sleep(50 * time.Millisecond)
	require.NoError(os.Remove(path))
	writeFile(t, path)

	// Give any stray report time to land.
	time.Sleep(10 * w.config.Debounce)
	require.Empty(sink.snapshot())
}

func TestWatchesCreatedSubdirectories(t *testing.T) {
	require := require.New(t)

	_, sink, dir := watcherFixture(t)

	sub := filepath.Join(dir, "sub")
	require.NoError(os.Mkdir(sub, 0755))
	// Let the watcher pick the new directory up before writing into it.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(sub, "c.bin")
	writeFile(t, path)
	time.Sleep(50 * time.Millisecond)
	require.NoError(os.Remove(path))

	require.NoError(testutil.PollUntilTrue(5*time.Second, func() bool {
		u := sink.snapshot()
		return len(u) == 1 && u[0] == filepath.ToSlash(path)
	}))
}

func TestCloseStopsReporting(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	sink := &recordingSink{}
	w, err := New(Config{Debounce: 50 * time.Millisecond}, tally.NoopScope, sink)
	require.NoError(err)
	require.NoError(w.Watch(dir))

	path := filepath.Join(dir, "d.bin")
	writeFile(t, path)
	time.Sleep(50 * time.Millisecond)
	require.NoError(os.Remove(path))
	require.NoError(w.Close())

	time.Sleep(200 * time.Millisecond)
	require.Empty(sink.snapshot())
}
