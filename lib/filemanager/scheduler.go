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

// runScheduler reconciles the node's worker state with its current
// locations and demand. It is a pure function of node fields and is
// idempotent: re-running it with unchanged state never churns workers.
func (m *Manager) runScheduler(n *fileNode) {
	effDownload := n.effectiveDownloadPriority()
	effUpload := n.effectiveUploadPriority()

	canGenerate := n.generate.IsFull() && !n.generateFailed
	canDownload := n.remote.IsFull()

	// Generation demand: produce local content either for downloaders
	// (preferred over the network when a recipe exists) or for uploaders
	// that lack local content. Download from the server runs only when
	// generation cannot serve.
	var effGenerate int8
	if canGenerate && !n.local.IsFull() {
		if effDownload > effGenerate {
			effGenerate = effDownload
		}
		if !n.remote.IsFull() && effUpload > effGenerate {
			effGenerate = effUpload
		}
	}

	m.scheduleDownload(n, effDownload, canDownload && !canGenerate)
	m.scheduleUpload(n, effUpload)
	m.scheduleGenerate(n, effGenerate)
}

func (m *Manager) scheduleDownload(n *fileNode, priority int8, canRun bool) {
	shouldRun := priority > 0 && canRun && !n.local.IsFull()

	if !shouldRun {
		if n.downloadQuery != 0 {
			wasFull := n.local.IsFull()
			m.cancelQuery(n.downloadQuery)
			if wasFull {
				// The content arrived through another path; the demand
				// is satisfied, not abandoned.
				m.notifyDownloadOK(n)
			}
		}
		n.sentDownloadPriority = 0
		return
	}
	if n.downloadQuery != 0 {
		if n.sentDownloadPriority != priority {
			m.loader.UpdatePriority(n.downloadQuery, priority)
			n.sentDownloadPriority = priority
		}
		return
	}
	qid := m.startQuery(n, queryDownload)
	n.downloadQuery = qid
	n.sentDownloadPriority = priority
	m.stats.Counter("downloads_started").Inc(1)
	m.loader.Download(
		qid, *n.remote.Full, n.local.Clone(), n.size, n.name, n.key, priority)
}

func (m *Manager) scheduleUpload(n *fileNode, priority int8) {
	// A paused upload holds its finished query open awaiting the final
	// server reference; neither start nor cancel while paused.
	if !n.uploadPause.IsZero() {
		return
	}
	shouldRun := priority > 0 && n.local.IsFull() && !n.remote.IsFull()

	if !shouldRun {
		if n.uploadQuery != 0 {
			m.cancelQuery(n.uploadQuery)
		}
		n.sentUploadPriority = 0
		return
	}
	if n.uploadQuery != 0 {
		if n.sentUploadPriority != priority {
			m.loader.UpdatePriority(n.uploadQuery, priority)
			n.sentUploadPriority = priority
		}
		return
	}
	n.sentUploadPriority = priority
	m.stats.Counter("uploads_started").Inc(1)
	if n.getByHash && len(n.uploadBadParts) == 0 {
		qid := m.startQuery(n, queryUploadByHash)
		n.uploadQuery = qid
		m.loader.UploadByHash(qid, n.local.Full.Path, n.size, priority)
		return
	}
	qid := m.startQuery(n, queryUpload)
	n.uploadQuery = qid
	badParts := n.uploadBadParts
	n.uploadBadParts = nil
	size := n.size
	if size == 0 {
		size = n.expectedSize
	}
	m.loader.Upload(
		qid, n.local.Clone(), n.remote.Clone(), size, n.key, badParts,
		priority, n.effectiveUploadOrder())
}

func (m *Manager) scheduleGenerate(n *fileNode, priority int8) {
	shouldRun := priority > 0 && n.generate.IsFull() && !n.generateFailed &&
		!n.local.IsFull()

	if !shouldRun {
		if n.generateQuery != 0 {
			wasFull := n.local.IsFull()
			m.cancelQuery(n.generateQuery)
			if wasFull {
				m.notifyDownloadOK(n)
			}
		}
		n.sentGeneratePriority = 0
		return
	}
	if n.generateQuery != 0 {
		// Generators have no priority knob; a running generation simply
		// keeps going.
		n.sentGeneratePriority = priority
		return
	}
	qid := m.startQuery(n, queryGenerate)
	n.generateQuery = qid
	n.sentGeneratePriority = priority
	m.stats.Counter("generations_started").Inc(1)
	m.generator.Generate(qid, *n.generate.Full, m.config.GenerateDir)
}
