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
	"github.com/vexel-im/courier/core"
)

// FileView is a read-only snapshot of one file, safe to use off the
// event loop.
type FileView struct {
	id   FileID
	main FileID

	local    core.LocalLocation
	remote   core.RemoteLocation
	generate core.GenerateLocation

	size         int64
	expectedSize int64
	name         string
	url          string
	owner        core.OwnerID
	key          core.EncryptionKey

	isDownloading     bool
	isUploading       bool
	isDownloadStarted bool
	downloadReadySize int64
	uploadReadySize   int64
}

// ID returns the id this view was taken through.
func (v FileView) ID() FileID { return v.id }

// MainID returns the file's canonical id.
func (v FileView) MainID() FileID { return v.main }

// LocalLocation returns the local side of the file.
func (v FileView) LocalLocation() core.LocalLocation { return v.local }

// RemoteLocation returns the server side of the file.
func (v FileView) RemoteLocation() core.RemoteLocation { return v.remote }

// GenerateLocation returns the file's generation recipe, if any.
func (v FileView) GenerateLocation() core.GenerateLocation { return v.generate }

// Size returns the authoritative size, 0 while unknown.
func (v FileView) Size() int64 { return v.size }

// ExpectedSize returns the best size estimate.
func (v FileView) ExpectedSize() int64 {
	if v.size != 0 {
		return v.size
	}
	return v.expectedSize
}

// Name returns the suggested file name, with a sane extension for the
// file's type.
func (v FileView) Name() string {
	return core.FixFileExtension(v.name, v.FileType())
}

// URL returns the source url for url-registered files.
func (v FileView) URL() string { return v.url }

// Owner returns the owning dialog.
func (v FileView) Owner() core.OwnerID { return v.owner }

// EncryptionKey returns the file's key material, empty when plain.
func (v FileView) EncryptionKey() core.EncryptionKey { return v.key }

// FileType derives the file's type from its locations.
func (v FileView) FileType() core.FileType {
	if t := v.local.FileType(); t != core.FileTypeNone {
		return t
	}
	if v.remote.IsFull() {
		return v.remote.Full.FileType
	}
	if v.generate.IsFull() {
		return v.generate.Full.FileType
	}
	return core.FileTypeTemp
}

// CanDownloadFromServer returns whether content can be fetched remotely.
func (v FileView) CanDownloadFromServer() bool { return v.remote.IsFull() }

// CanGenerate returns whether content can be produced locally.
func (v FileView) CanGenerate() bool { return v.generate.IsFull() }

// CanDelete returns whether local bytes exist to delete.
func (v FileView) CanDelete() bool { return !v.local.IsEmpty() }

// IsDownloading returns whether a download or generation runs right now.
func (v FileView) IsDownloading() bool { return v.isDownloading }

// IsUploading returns whether an upload runs right now.
func (v FileView) IsUploading() bool { return v.isUploading }

// IsDownloadStarted returns whether a download fetched its first byte.
func (v FileView) IsDownloadStarted() bool { return v.isDownloadStarted }

// DownloadedSize returns how many bytes are locally available.
func (v FileView) DownloadedSize() int64 { return v.downloadReadySize }

// UploadedSize returns how many bytes the server acknowledged.
func (v FileView) UploadedSize() int64 { return v.uploadReadySize }

func (m *Manager) fileView(f FileID) (FileView, error) {
	_, n, err := m.resolve(f)
	if err != nil {
		return FileView{}, err
	}
	return FileView{
		id:                f,
		main:              n.mainID(),
		local:             n.local.Clone(),
		remote:            n.remote.Clone(),
		generate:          n.generate.Clone(),
		size:              n.size,
		expectedSize:      n.expectedSize,
		name:              n.name,
		url:               n.url,
		owner:             n.owner,
		key:               append(core.EncryptionKey(nil), n.key...),
		isDownloading:     n.downloadQuery != 0 || n.generateQuery != 0,
		isUploading:       n.uploadQuery != 0,
		isDownloadStarted: n.isDownloadStarted,
		downloadReadySize: n.localReadySize(),
		uploadReadySize:   n.remoteReadySize(),
	}, nil
}

// FileObject is the public record of a file handed to the application
// layer.
type FileObject struct {
	ID           FileID
	Size         int64
	ExpectedSize int64
	Name         string

	Local struct {
		Path            string
		DownloadedSize  int64
		IsDownloading   bool
		CanBeDownloaded bool
		CanBeDeleted    bool
	}
	Remote struct {
		PersistentID string
		UploadedSize int64
		IsUploading  bool
	}
}

// fileObject builds the public record. With withMain the object carries
// the canonical main id, otherwise the id it was requested through.
func (m *Manager) fileObject(n *fileNode, f FileID, withMain bool) FileObject {
	var o FileObject
	if withMain {
		o.ID = n.mainID()
	} else {
		o.ID = f
	}
	o.Size = n.size
	o.ExpectedSize = n.expectedSize
	if o.ExpectedSize == 0 {
		o.ExpectedSize = n.size
	}
	o.Name = core.FixFileExtension(n.name, n.fileType())

	o.Local.Path = n.local.Path()
	o.Local.DownloadedSize = n.localReadySize()
	o.Local.IsDownloading = n.downloadQuery != 0 || n.generateQuery != 0
	o.Local.CanBeDownloaded = n.remote.IsFull() || (n.generate.IsFull() && !n.generateFailed)
	o.Local.CanBeDeleted = !n.local.IsEmpty()

	if n.remote.IsFull() {
		o.Remote.PersistentID = core.EncodePersistentID(*n.remote.Full)
	}
	o.Remote.UploadedSize = n.remoteReadySize()
	o.Remote.IsUploading = n.uploadQuery != 0
	return o
}
