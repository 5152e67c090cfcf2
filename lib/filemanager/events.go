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

// event describes an external event which moves the Manager into a new
// state. While the event is applying, it is guaranteed to be the only
// accessor of Manager state.
type event interface {
	apply(m *Manager)
}

// eventLoop serializes events applied to a Manager. All node, index and
// handle-table mutation happens inside apply calls on the loop goroutine.
type eventLoop struct {
	events chan event
	done   chan struct{}
}

func newEventLoop() *eventLoop {
	return &eventLoop{
		events: make(chan event),
		done:   make(chan struct{}),
	}
}

// send queues e for application. Must never be called from within an
// apply method, else deadlock will occur. Returns false if the loop
// stopped.
func (l *eventLoop) send(e event) bool {
	select {
	case l.events <- e:
		return true
	case <-l.done:
		return false
	}
}

// run processes events until stop is called.
func (l *eventLoop) run(m *Manager) {
	for {
		select {
		case e := <-l.events:
			e.apply(m)
		case <-l.done:
			return
		}
	}
}

func (l *eventLoop) stop() {
	close(l.done)
}

// callEvent lifts a synchronous public API call onto the loop. The
// calling goroutine blocks on done until the closure ran.
type callEvent struct {
	fn   func(m *Manager)
	done chan struct{}
}

func (e callEvent) apply(m *Manager) {
	e.fn(m)
	close(e.done)
}

// call runs fn on the event loop and waits for it. Returns
// ErrManagerClosed when the loop is no longer running.
func (m *Manager) call(fn func(m *Manager)) error {
	e := callEvent{fn: fn, done: make(chan struct{})}
	if !m.events.send(e) {
		return ErrManagerClosed
	}
	<-e.done
	return nil
}
