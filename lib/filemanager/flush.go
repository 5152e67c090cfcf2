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
	"github.com/cenkalti/backoff"

	"github.com/vexel-im/courier/core"
	"github.com/vexel-im/courier/lib/filedb"
)

// flushNode writes the node's durable image to the store. Writes per
// node are coalesced: while one is in flight, further dirty transitions
// only bump dirtySeq and the follow-up flush carries them all.
func (m *Manager) flushNode(n *fileNode) {
	if !n.pmcDirty || n.flushing {
		return
	}
	n.flushing = true
	m.stats.Counter("flushes").Inc(1)

	nodeID := n.id
	recordID := n.recordID
	seq := n.dirtySeq
	record := n.record()

	go func() {
		var err error
		if recordID == 0 {
			recordID, err = m.store.NextID()
		}
		if err == nil {
			err = backoff.Retry(func() error {
				if perr := m.store.Put(recordID, record); perr != nil {
					m.stats.Counter("flush_retries").Inc(1)
					return perr
				}
				return nil
			}, m.config.FlushBackoff.New())
		}
		m.events.send(flushResultEvent{nodeID, recordID, seq, err})
	}()
}

type flushResultEvent struct {
	nodeID   int64
	recordID filedb.RecordID
	seq      int64
	err      error
}

func (e flushResultEvent) apply(m *Manager) {
	n, ok := m.nodes[e.nodeID]
	if !ok {
		if e.err == nil {
			// The node was merged away while its row was being written;
			// the row is garbage unless the winner adopted it.
			if _, adopted := m.byRecord[e.recordID]; !adopted {
				m.deadRecords = append(m.deadRecords, e.recordID)
				m.flushDeadRecords()
			}
		}
		return
	}
	n.flushing = false
	if e.err != nil {
		m.log("file", n.mainID()).Errorf("Cannot flush file record: %s", e.err)
		// pmcDirty stays set; the sweep retries.
		return
	}
	if n.recordID == 0 {
		n.recordID = e.recordID
		m.byRecord[e.recordID] = n.id
	}
	if n.dirtySeq == e.seq {
		n.pmcDirty = false
	} else {
		// Something changed while the write was in flight.
		m.flushNode(n)
	}
}

// flushDeadRecords deletes store rows orphaned by merges.
func (m *Manager) flushDeadRecords() {
	if len(m.deadRecords) == 0 {
		return
	}
	dead := m.deadRecords
	m.deadRecords = nil
	go func() {
		for _, id := range dead {
			id := id
			err := backoff.Retry(func() error {
				return m.store.Delete(id)
			}, m.config.FlushBackoff.New())
			if err != nil {
				m.log("record", id).Errorf("Cannot delete orphaned record: %s", err)
			}
		}
	}()
}

// flushSweepLoop periodically re-flushes nodes left dirty by failed or
// deferred writes.
func (m *Manager) flushSweepLoop() {
	ticker := m.clk.Ticker(m.config.FlushSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.events.send(flushSweepEvent{})
		case <-m.done:
			return
		}
	}
}

type flushSweepEvent struct{}

func (flushSweepEvent) apply(m *Manager) {
	for _, n := range m.nodes {
		if n.pmcDirty && !n.flushing {
			m.flushNode(n)
		}
	}
	m.flushDeadRecords()
}

// loadFromStore looks the key up in the store off-loop. A found record
// is replayed and unified with the live node that triggered the lookup.
func (m *Manager) loadFromStore(n *fileNode, key filedb.Key) {
	n.loadPending = true
	nodeID := n.id
	go func() {
		recordID, record, err := m.store.GetByKey(key)
		if err != nil && err != filedb.ErrRecordNotFound {
			m.log("key", key).Errorf("Cannot load file record: %s", err)
		}
		m.events.send(loadResultEvent{nodeID, key, recordID, record})
	}()
}

type loadResultEvent struct {
	nodeID   int64
	key      filedb.Key
	recordID filedb.RecordID
	record   *filedb.Record
}

func (e loadResultEvent) apply(m *Manager) {
	if e.record != nil {
		m.stats.Counter("load_hits").Inc(1)
		if _, err := m.registerFromRecord(e.record, e.recordID, core.SourceDB); err != nil {
			m.log("key", e.key).Errorf("Cannot replay persisted record: %s", err)
		}
	} else {
		m.stats.Counter("load_misses").Inc(1)
	}

	// The original node may have been merged away while the lookup ran;
	// re-resolve through the index.
	n := m.nodeByKey(e.key)
	if n == nil {
		n = m.nodes[e.nodeID]
	}
	if n == nil {
		return
	}
	m.signalLoadDone(n)
	m.forgetIdleHandles(n)
	m.runScheduler(n)
}

// nodeByKey resolves a store key through the live location indices.
func (m *Manager) nodeByKey(k filedb.Key) *fileNode {
	var f FileID
	var ok bool
	switch k.Kind {
	case filedb.KeyLocal:
		f, ok = m.byLocal[k.Raw]
	case filedb.KeyRemote:
		f, ok = m.byRemote[k.Raw]
	case filedb.KeyGenerate:
		f, ok = m.byGenerate[k.Raw]
	}
	if !ok {
		return nil
	}
	_, n, err := m.resolve(f)
	if err != nil {
		return nil
	}
	return n
}

func (m *Manager) signalLoadDone(n *fileNode) {
	if !n.loadPending {
		return
	}
	n.loadPending = false
	for _, w := range n.loadWaiters {
		close(w)
	}
	n.loadWaiters = nil
}
