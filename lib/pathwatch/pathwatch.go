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

// Package pathwatch observes directories holding managed file content and
// reports deletions to a sink, so files whose bytes disappear from under
// the client lose their local location promptly instead of at the next
// failed read.
package pathwatch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/uber-go/tally"

	"github.com/vexel-im/courier/utils/log"
)

// Sink consumes unlink notifications. filemanager.Manager implements it.
type Sink interface {
	OnFileUnlink(path string) error
}

// Config defines Watcher configuration.
type Config struct {
	// Debounce is how long a deletion must stand before it is reported.
	// Editors and atomic-save tools routinely remove and recreate files
	// within milliseconds.
	Debounce time.Duration `yaml:"debounce"`
}

func (c Config) applyDefaults() Config {
	if c.Debounce == 0 {
		c.Debounce = 200 * time.Millisecond
	}
	return c
}

// Watcher reports file deletions under watched directories to a Sink.
type Watcher struct {
	config  Config
	stats   tally.Scope
	sink    Sink
	watcher *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*time.Timer

	done chan struct{}
	wg   sync.WaitGroup
}

// New creates a Watcher. Directories are added with Watch.
func New(config Config, stats tally.Scope, sink Sink) (*Watcher, error) {
	config = config.applyDefaults()
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("new fsnotify watcher: %s", err)
	}
	w := &Watcher{
		config:  config,
		stats:   stats.Tagged(map[string]string{"module": "pathwatch"}),
		sink:    sink,
		watcher: fsw,
		pending: make(map[string]*time.Timer),
		done:    make(chan struct{}),
	}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.loop()
	}()
	return w, nil
}

// Watch adds dir and all of its subdirectories to the watch set.
func (w *Watcher) Watch(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if werr := w.watcher.Add(path); werr != nil {
			return fmt.Errorf("watch %s: %s", path, werr)
		}
		return nil
	})
}

// Close stops watching. Deletions already debouncing are dropped.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()

	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	return err
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.stats.Counter("watch_errors").Inc(1)
			log.Errorf("Watch error: %s", err)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	path := filepath.ToSlash(ev.Name)
	switch {
	case ev.Op.Has(fsnotify.Create):
		// Content reappeared within the debounce window, or a new
		// subdirectory needs watching.
		w.cancelPending(path)
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			if err := w.Watch(ev.Name); err != nil {
				log.With("dir", ev.Name).Errorf("Cannot watch new directory: %s", err)
			}
		}
	case ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
		w.schedule(path)
	}
}

// schedule arms (or re-arms) the debounce timer for path.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Reset(w.config.Debounce)
		return
	}
	w.pending[path] = time.AfterFunc(w.config.Debounce, func() {
		w.fire(path)
	})
}

func (w *Watcher) cancelPending(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) fire(path string) {
	w.mu.Lock()
	delete(w.pending, path)
	w.mu.Unlock()

	select {
	case <-w.done:
		return
	default:
	}
	if _, err := os.Stat(path); err == nil {
		// The path came back; a rename within the watch set looks like a
		// remove of something that still exists.
		return
	}
	w.stats.Counter("unlinks").Inc(1)
	if err := w.sink.OnFileUnlink(path); err != nil {
		log.With("path", path).Errorf("Cannot report unlink: %s", err)
	}
}
