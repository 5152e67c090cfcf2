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
package fileloader

import (
	"sync"

	"github.com/vexel-im/courier/core"
)

// DownloadRequest records the arguments of a Download call.
type DownloadRequest struct {
	Remote   core.FullRemote
	Local    core.LocalLocation
	Size     int64
	Name     string
	Key      core.EncryptionKey
	Priority int8
}

// UploadRequest records the arguments of an Upload call.
type UploadRequest struct {
	Local        core.LocalLocation
	Remote       core.RemoteLocation
	ExpectedSize int64
	Key          core.EncryptionKey
	BadParts     []int32
	Priority     int8
	Order        int64
}

// UploadByHashRequest records the arguments of an UploadByHash call.
type UploadByHashRequest struct {
	Path     string
	Size     int64
	Priority int8
}

// FromBytesRequest records the arguments of a FromBytes call.
type FromBytesRequest struct {
	FileType core.FileType
	Data     []byte
	Name     string
}

// TestLoader is a manually driven Loader. It records every query and lets
// tests fire Callback events at the coordinator themselves.
type TestLoader struct {
	sync.Mutex
	downloads   map[QueryID]*DownloadRequest
	uploads     map[QueryID]*UploadRequest
	hashUploads map[QueryID]*UploadByHashRequest
	fromBytes   map[QueryID]*FromBytesRequest
	cancelled   map[QueryID]bool
	order       []QueryID
}

var _ Loader = (*TestLoader)(nil)

// NewTestLoader returns an empty TestLoader.
func NewTestLoader() *TestLoader {
	return &TestLoader{
		downloads:   make(map[QueryID]*DownloadRequest),
		uploads:     make(map[QueryID]*UploadRequest),
		hashUploads: make(map[QueryID]*UploadByHashRequest),
		fromBytes:   make(map[QueryID]*FromBytesRequest),
		cancelled:   make(map[QueryID]bool),
	}
}

// Download implements Loader.
func (l *TestLoader) Download(id QueryID, remote core.FullRemote, local core.LocalLocation,
	size int64, name string, key core.EncryptionKey, priority int8) {

	l.Lock()
	defer l.Unlock()
	l.downloads[id] = &DownloadRequest{remote, local, size, name, key, priority}
	l.order = append(l.order, id)
}

// Upload implements Loader.
func (l *TestLoader) Upload(id QueryID, local core.LocalLocation, remote core.RemoteLocation,
	expectedSize int64, key core.EncryptionKey, badParts []int32, priority int8, order int64) {

	l.Lock()
	defer l.Unlock()
	l.uploads[id] = &UploadRequest{local, remote, expectedSize, key, badParts, priority, order}
	l.order = append(l.order, id)
}

// UploadByHash implements Loader.
func (l *TestLoader) UploadByHash(id QueryID, path string, size int64, priority int8) {
	l.Lock()
	defer l.Unlock()
	l.hashUploads[id] = &UploadByHashRequest{path, size, priority}
	l.order = append(l.order, id)
}

// FromBytes implements Loader.
func (l *TestLoader) FromBytes(id QueryID, t core.FileType, data []byte, name string) {
	l.Lock()
	defer l.Unlock()
	l.fromBytes[id] = &FromBytesRequest{t, data, name}
	l.order = append(l.order, id)
}

// UpdatePriority implements Loader.
func (l *TestLoader) UpdatePriority(id QueryID, priority int8) {
	l.Lock()
	defer l.Unlock()
	if r, ok := l.downloads[id]; ok {
		r.Priority = priority
	}
	if r, ok := l.uploads[id]; ok {
		r.Priority = priority
	}
	if r, ok := l.hashUploads[id]; ok {
		r.Priority = priority
	}
}

// Cancel implements Loader.
func (l *TestLoader) Cancel(id QueryID) {
	l.Lock()
	defer l.Unlock()
	l.cancelled[id] = true
}

// LastQuery returns the most recently issued query id, or 0.
func (l *TestLoader) LastQuery() QueryID {
	l.Lock()
	defer l.Unlock()
	if len(l.order) == 0 {
		return 0
	}
	return l.order[len(l.order)-1]
}

// DownloadRequest returns the recorded download query, if any.
func (l *TestLoader) DownloadRequest(id QueryID) (DownloadRequest, bool) {
	l.Lock()
	defer l.Unlock()
	r, ok := l.downloads[id]
	if !ok {
		return DownloadRequest{}, false
	}
	return *r, true
}

// UploadRequest returns the recorded upload query, if any.
func (l *TestLoader) UploadRequest(id QueryID) (UploadRequest, bool) {
	l.Lock()
	defer l.Unlock()
	r, ok := l.uploads[id]
	if !ok {
		return UploadRequest{}, false
	}
	return *r, true
}

// UploadByHashRequest returns the recorded hash upload query, if any.
func (l *TestLoader) UploadByHashRequest(id QueryID) (UploadByHashRequest, bool) {
	l.Lock()
	defer l.Unlock()
	r, ok := l.hashUploads[id]
	if !ok {
		return UploadByHashRequest{}, false
	}
	return *r, true
}

// FromBytesRequest returns the recorded content query, if any.
func (l *TestLoader) FromBytesRequest(id QueryID) (FromBytesRequest, bool) {
	l.Lock()
	defer l.Unlock()
	r, ok := l.fromBytes[id]
	if !ok {
		return FromBytesRequest{}, false
	}
	return *r, true
}

// Cancelled returns whether the query was cancelled.
func (l *TestLoader) Cancelled(id QueryID) bool {
	l.Lock()
	defer l.Unlock()
	return l.cancelled[id]
}

// QueryCount returns the total number of issued queries.
func (l *TestLoader) QueryCount() int {
	l.Lock()
	defer l.Unlock()
	return len(l.order)
}
