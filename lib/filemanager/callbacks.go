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

	"github.com/vexel-im/courier/core"
	"github.com/vexel-im/courier/lib/fileloader"
)

// DownloadCallback receives progress and completion events for one
// download subscription. Each subscriber sees monotonic progress followed
// by exactly one terminal event.
type DownloadCallback interface {
	OnProgress(f FileID, readySize int64)
	OnDownloadOK(f FileID, local core.FullLocal)
	OnDownloadError(f FileID, err error)
}

// UploadCallback receives progress and completion events for one upload
// subscription. Plain files complete through OnUploadOK, encrypted files
// through OnUploadEncryptedOK.
type UploadCallback interface {
	OnProgress(f FileID, readySize int64)
	OnUploadOK(f FileID, input fileloader.InputFile)
	OnUploadEncryptedOK(f FileID, input fileloader.InputEncryptedFile)
	OnUploadError(f FileID, err error)
}

// Context carries host hooks the manager fires as files appear and
// change. Implementations must tolerate calls from a non-manager
// goroutine and may re-enter the Manager.
type Context interface {
	// OnNewFile fires when a previously unknown file is registered.
	// expectedSize is the best size estimate at registration time.
	OnNewFile(expectedSize int64)

	// OnFileUpdated fires when user-visible state of a file changed and
	// some handle subscribed to updates.
	OnFileUpdated(f FileID)
}

type noopContext struct{}

func (noopContext) OnNewFile(int64) {}
func (noopContext) OnFileUpdated(FileID) {}

// dispatcher delivers user callbacks off the event loop in FIFO order.
// Running callbacks on a separate goroutine lets subscribers re-enter the
// Manager without deadlocking the loop.
type dispatcher struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	closed bool
	done   chan struct{}
}

func newDispatcher() *dispatcher {
	d := &dispatcher{done: make(chan struct{})}
	d.cond = sync.NewCond(&d.mu)
	return d
}

// post enqueues f. Events posted from the same goroutine run in order.
func (d *dispatcher) post(f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.queue = append(d.queue, f)
	d.cond.Signal()
}

// run drains the queue until stop is called. Must run on its own
// goroutine.
func (d *dispatcher) run() {
	defer close(d.done)
	for {
		d.mu.Lock()
		for len(d.queue) == 0 && !d.closed {
			d.cond.Wait()
		}
		if len(d.queue) == 0 && d.closed {
			d.mu.Unlock()
			return
		}
		f := d.queue[0]
		d.queue = d.queue[1:]
		d.mu.Unlock()
		f()
	}
}

// stop drains remaining callbacks and shuts the dispatcher down.
func (d *dispatcher) stop() {
	d.mu.Lock()
	d.closed = true
	d.cond.Signal()
	d.mu.Unlock()
	<-d.done
}
