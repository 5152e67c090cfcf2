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
	"fmt"

	"github.com/vexel-im/courier/lib/fileloader"
)

// merge unifies the files behind x and y into one node. It is the only
// operation that destroys a node. noSync defers store side-effects to the
// next flush boundary.
func (m *Manager) merge(x, y FileID, noSync bool) (FileID, error) {
	_, nx, err := m.resolve(x)
	if err != nil {
		return FileID{}, err
	}
	_, ny, err := m.resolve(y)
	if err != nil {
		return FileID{}, err
	}
	if nx == ny {
		return nx.mainID(), nil
	}

	// Conflicts that fail the merge are detected before any mutation so
	// a failed merge leaves both files untouched.
	if !nx.key.Empty() && !ny.key.Empty() && !nx.key.Equal(ny.key) {
		return FileID{}, fmt.Errorf("%w: encryption keys differ", ErrMergeConflict)
	}

	winner, loser := m.pickWinner(nx, ny)
	m.stats.Counter("merges").Inc(1)
	m.log("winner", winner.mainID(), "loser", loser.mainID()).
		Debugf("Merging files")

	remoteChanged := m.mergeLocations(winner, loser)
	m.mergeFields(winner, loser)
	m.mergeHandles(winner, loser)
	m.mergeWorkers(winner, loser, remoteChanged)

	// Persistence: the loser's row dies; the winner reflects the union.
	if loser.recordID != 0 {
		delete(m.byRecord, loser.recordID)
		if winner.recordID == 0 {
			winner.recordID = loser.recordID
			m.byRecord[winner.recordID] = winner.id
		} else {
			m.deadRecords = append(m.deadRecords, loser.recordID)
		}
	}
	if loser.loadPending {
		// The pending load re-keys to the winner so waiters still block
		// until the record arrives.
		winner.loadPending = true
		winner.loadWaiters = append(winner.loadWaiters, loser.loadWaiters...)
	}
	delete(m.nodes, loser.id)

	winner.infoDirty = true
	winner.markPMCDirty()
	m.electMain(winner)
	m.reindexNode(winner)
	m.runScheduler(winner)

	if winner.local.IsFull() {
		// Subscribers inherited from the loser may find their download
		// already satisfied.
		m.notifyDownloadOK(winner)
	}
	if !noSync {
		m.flushNode(winner)
		m.flushDeadRecords()
	}
	return winner.mainID(), nil
}

// pickWinner selects the surviving node: higher main-handle priority
// first, then location completeness (remote, local, generate), then the
// older node for determinism.
func (m *Manager) pickWinner(a, b *fileNode) (winner, loser *fileNode) {
	if a.mainPriority != b.mainPriority {
		if a.mainPriority > b.mainPriority {
			return a, b
		}
		return b, a
	}
	as, bs := locationScore(a), locationScore(b)
	if as != bs {
		if as > bs {
			return a, b
		}
		return b, a
	}
	if a.id < b.id {
		return a, b
	}
	return b, a
}

func locationScore(n *fileNode) int {
	s := 0
	if n.remote.IsFull() {
		s += 4
	}
	if n.local.IsFull() {
		s += 2
	}
	if n.generate.IsFull() {
		s++
	}
	return s
}

// mergeLocations folds the loser's three locations into the winner,
// resolving full-versus-full conflicts under the documented policies.
// Reports whether the winner's remote location changed.
func (m *Manager) mergeLocations(winner, loser *fileNode) (remoteChanged bool) {
	// Local: full beats partial beats empty; two different full paths
	// keep whichever still exists on disk.
	switch {
	case loser.local.IsFull() && !winner.local.IsFull():
		m.dropLocalIndex(winner)
		winner.local = loser.local
		winner.downloadReadySize = loser.downloadReadySize
		winner.isDownloadStarted = loser.isDownloadStarted
	case loser.local.IsFull() && winner.local.IsFull() &&
		winner.local.Full.Path != loser.local.Full.Path:
		if _, err := m.fs.Stat(winner.local.Full.Path); err != nil {
			m.dropLocalIndex(winner)
			winner.local = loser.local
		} else {
			m.dropLocalIndex(loser)
		}
	case loser.local.IsPartial() && winner.local.IsEmpty():
		winner.local = loser.local
		winner.downloadReadySize = loser.downloadReadySize
		winner.isDownloadStarted = loser.isDownloadStarted
	default:
		m.dropLocalIndex(loser)
	}

	// Remote: two different full references keep the more trusted
	// source; server beats user beats persistence.
	switch {
	case loser.remote.IsFull() && !winner.remote.IsFull():
		winner.remote = loser.remote
		winner.remoteSource = loser.remoteSource
		remoteChanged = true
	case loser.remote.IsFull() && winner.remote.IsFull() &&
		winner.remote.Full.Key() != loser.remote.Full.Key():
		if loser.remoteSource.TrustsOver(winner.remoteSource) {
			m.dropRemoteIndex(winner)
			winner.remote = loser.remote
			winner.remoteSource = loser.remoteSource
			remoteChanged = true
		} else {
			if !winner.remoteSource.TrustsOver(loser.remoteSource) {
				m.log("winner", winner.mainID()).Warnf(
					"Ambiguous remote conflict: keeping %s over %s",
					winner.remote.Full, loser.remote.Full)
			}
			m.dropRemoteIndex(loser)
		}
	case loser.remote.IsPartial() && winner.remote.IsEmpty():
		winner.remote = loser.remote
		winner.uploadReadySize = loser.uploadReadySize
	default:
		m.dropRemoteIndex(loser)
	}

	// Generate: the winner's existing recipe is kept on conflict.
	switch {
	case loser.generate.IsFull() && !winner.generate.IsFull():
		winner.generate = loser.generate
	default:
		m.dropGenerateIndex(loser)
	}
	winner.generateFailed = winner.generateFailed && loser.generateFailed
	return remoteChanged
}

// mergeFields folds scalar fields, demoting the authoritative size when
// the two nodes disagree.
func (m *Manager) mergeFields(winner, loser *fileNode) {
	if winner.size != 0 && loser.size != 0 && winner.size != loser.size {
		m.log("winner", winner.mainID()).Warnf(
			"Size conflict on merge: %d != %d", winner.size, loser.size)
		if loser.size > winner.expectedSize {
			winner.expectedSize = loser.size
		}
		if winner.size > winner.expectedSize {
			winner.expectedSize = winner.size
		}
		winner.size = 0
		winner.infoDirty = true
	} else if winner.size == 0 {
		winner.size = loser.size
	}
	if loser.expectedSize > winner.expectedSize && winner.size == 0 {
		winner.expectedSize = loser.expectedSize
	}
	if winner.name == "" {
		winner.name = loser.name
	}
	if winner.url == "" {
		winner.url = loser.url
	}
	if winner.owner.IsZero() {
		winner.owner = loser.owner
	}
	if winner.key.Empty() {
		winner.key = loser.key
	}
	winner.getByHash = winner.getByHash || loser.getByHash
}

// mergeHandles retargets every loser handle at the winner, keeping all
// per-handle callback and priority state.
func (m *Manager) mergeHandles(winner, loser *fileNode) {
	for _, h := range loser.handles {
		h.nodeID = winner.id
		winner.handles = append(winner.handles, h)
	}
	loser.handles = nil
}

// mergeWorkers cancels loser queries made redundant by the union and
// re-parents the rest.
func (m *Manager) mergeWorkers(winner, loser *fileNode, remoteChanged bool) {
	reparent := func(qid fileloader.QueryID) {
		if q, ok := m.queries[qid]; ok {
			q.nodeID = winner.id
		}
	}

	if loser.downloadQuery != 0 {
		if winner.downloadQuery != 0 || winner.local.IsFull() {
			m.cancelQuery(loser.downloadQuery)
		} else {
			reparent(loser.downloadQuery)
			winner.downloadQuery = loser.downloadQuery
			winner.sentDownloadPriority = loser.sentDownloadPriority
			winner.isDownloadStarted = loser.isDownloadStarted
		}
	}
	if loser.uploadQuery != 0 {
		if winner.uploadQuery != 0 || winner.remote.IsFull() {
			m.cancelQuery(loser.uploadQuery)
		} else {
			reparent(loser.uploadQuery)
			winner.uploadQuery = loser.uploadQuery
			winner.sentUploadPriority = loser.sentUploadPriority
			winner.uploadPause = loser.uploadPause
		}
	}
	if loser.generateQuery != 0 {
		if winner.generateQuery != 0 || winner.local.IsFull() {
			m.cancelQuery(loser.generateQuery)
		} else {
			reparent(loser.generateQuery)
			winner.generateQuery = loser.generateQuery
			winner.sentGeneratePriority = loser.sentGeneratePriority
		}
	}
	if remoteChanged {
		// A new remote identity invalidates the pause: the file the
		// pause was guarding is addressable through the merged-in
		// reference now.
		winner.uploadPause = FileID{}
	}
}

// reindexNode points every index entry of the node's full locations at
// its current main handle.
func (m *Manager) reindexNode(n *fileNode) {
	f := n.mainID()
	if f.IsZero() {
		return
	}
	if n.local.IsFull() {
		m.byLocal[n.local.Full.Path] = f
	}
	if n.remote.IsFull() {
		m.byRemote[n.remote.Full.Key()] = f
	}
	if n.generate.IsFull() {
		m.byGenerate[n.generate.Full.Key()] = f
	}
}

func (m *Manager) dropLocalIndex(n *fileNode) {
	if n.local.IsFull() {
		delete(m.byLocal, n.local.Full.Path)
	}
}

func (m *Manager) dropRemoteIndex(n *fileNode) {
	if n.remote.IsFull() {
		delete(m.byRemote, n.remote.Full.Key())
	}
}

func (m *Manager) dropGenerateIndex(n *fileNode) {
	if n.generate.IsFull() {
		delete(m.byGenerate, n.generate.Full.Key())
	}
}
