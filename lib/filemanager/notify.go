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

// Subscriber fan-out. Worker events concern a node; each is translated to
// per-handle callbacks so every subscriber observes its own FileID.
// Terminal events clear the subscription so each subscriber sees exactly
// one terminal per request.

func (m *Manager) notifyDownloadProgress(n *fileNode) {
	ready := n.downloadReadySize
	for _, h := range n.handles {
		if h.downloadCallback == nil {
			continue
		}
		cb, f := h.downloadCallback, h.id
		m.dispatch.post(func() { cb.OnProgress(f, ready) })
	}
}

// notifyDownloadOK delivers the terminal download completion to every
// download subscriber. The node's local location must be full.
func (m *Manager) notifyDownloadOK(n *fileNode) {
	if !n.local.IsFull() {
		return
	}
	local := *n.local.Full
	for _, h := range n.handles {
		if h.downloadPriority == 0 && h.downloadCallback == nil {
			continue
		}
		if cb := h.downloadCallback; cb != nil {
			f := h.id
			m.dispatch.post(func() { cb.OnDownloadOK(f, local) })
		}
		h.downloadPriority = 0
		h.downloadCallback = nil
	}
	m.forgetIdleHandles(n)
}

func (m *Manager) notifyDownloadError(n *fileNode, err error) {
	m.stats.Counter("downloads_error").Inc(1)
	for _, h := range n.handles {
		if h.downloadPriority == 0 && h.downloadCallback == nil {
			continue
		}
		if cb := h.downloadCallback; cb != nil {
			f := h.id
			m.dispatch.post(func() { cb.OnDownloadError(f, err) })
		}
		h.downloadPriority = 0
		h.downloadCallback = nil
	}
	m.forgetIdleHandles(n)
}

// surfaceDownloadError reports a failed generation to download
// subscribers unless another path can still satisfy them: with
// allowFallback set and a usable remote location, the error stays
// internal and the scheduler falls back to downloading.
func (m *Manager) surfaceDownloadError(n *fileNode, err error, allowFallback bool) {
	if allowFallback && n.remote.IsFull() && !n.local.IsFull() {
		return
	}
	m.notifyDownloadError(n, err)
}

func (m *Manager) notifyUploadProgress(n *fileNode) {
	ready := n.uploadReadySize
	for _, h := range n.handles {
		if h.uploadCallback == nil {
			continue
		}
		cb, f := h.uploadCallback, h.id
		m.dispatch.post(func() { cb.OnProgress(f, ready) })
	}
}

// notifyUploadOK delivers the upload completion through deliver, which
// picks the plain or encrypted variant.
func (m *Manager) notifyUploadOK(n *fileNode, deliver func(cb UploadCallback, f FileID)) {
	for _, h := range n.handles {
		if h.uploadPriority == 0 && h.uploadCallback == nil {
			continue
		}
		if cb := h.uploadCallback; cb != nil {
			f := h.id
			m.dispatch.post(func() { deliver(cb, f) })
		}
		h.uploadPriority = 0
		h.uploadCallback = nil
	}
	m.forgetIdleHandles(n)
}

func (m *Manager) notifyUploadError(n *fileNode, err error) {
	m.stats.Counter("uploads_error").Inc(1)
	for _, h := range n.handles {
		if h.uploadPriority == 0 && h.uploadCallback == nil {
			continue
		}
		if cb := h.uploadCallback; cb != nil {
			f := h.id
			m.dispatch.post(func() { cb.OnUploadError(f, err) })
		}
		h.uploadPriority = 0
		h.uploadCallback = nil
	}
	m.forgetIdleHandles(n)
}

// forgetIdleHandles frees handles left with nothing attached after a
// terminal delivery.
func (m *Manager) forgetIdleHandles(n *fileNode) {
	for i := len(n.handles) - 1; i >= 0; i-- {
		m.forgetHandle(n.handles[i], n)
	}
}

// infoFlush fans a user-visible change out to the host when any handle
// subscribed to updates.
func (m *Manager) infoFlush(n *fileNode) {
	if !n.infoDirty {
		return
	}
	n.infoDirty = false
	for _, h := range n.handles {
		if h.sendUpdates {
			f := n.mainID()
			m.dispatch.post(func() { m.host.OnFileUpdated(f) })
			return
		}
	}
}
