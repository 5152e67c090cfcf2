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

// Package fileloader defines the contract between the file coordinator
// and the byte-transfer workers. The coordinator never moves bytes; it
// issues queries to a Loader and reacts to Callback events.
//
// All Loader methods must return quickly. Callback invocations may arrive
// from any goroutine and may trail a Cancel; the coordinator drops events
// for queries it no longer tracks.
package fileloader

import (
	"github.com/vexel-im/courier/core"
)

// QueryID identifies one coordinator-issued query. IDs are never reused
// within a process.
type QueryID int64

// Loader runs downloads and uploads on behalf of the coordinator.
type Loader interface {
	// Download fetches remote into a local file, resuming from local if
	// it is partial. name hints the target file name, size is the total
	// size if known (0 otherwise).
	Download(id QueryID, remote core.FullRemote, local core.LocalLocation,
		size int64, name string, key core.EncryptionKey, priority int8)

	// Upload sends local to the server, resuming from remote if it is
	// partial. badParts lists part indexes the server rejected and must
	// be resent. order breaks ties between queries of equal priority,
	// lower first.
	Upload(id QueryID, local core.LocalLocation, remote core.RemoteLocation,
		expectedSize int64, key core.EncryptionKey, badParts []int32,
		priority int8, order int64)

	// UploadByHash asks the server to instantiate the file from its
	// content hash without transferring bytes, falling back to a normal
	// upload on miss.
	UploadByHash(id QueryID, path string, size int64, priority int8)

	// FromBytes materializes data as a local file for the given type.
	FromBytes(id QueryID, t core.FileType, data []byte, name string)

	// UpdatePriority adjusts a running query without restarting it.
	UpdatePriority(id QueryID, priority int8)

	// Cancel stops a query. No terminal callback is required after
	// Cancel; late ones are ignored.
	Cancel(id QueryID)
}

// Callback receives progress and terminal events for loader queries. The
// coordinator implements this; loaders must not call back into the
// coordinator's public API from within a Callback invocation.
type Callback interface {
	// OnStartDownload fires when the first byte for a download query is
	// requested from the network.
	OnStartDownload(id QueryID)

	// OnPartialDownload reports new locally available bytes.
	OnPartialDownload(id QueryID, partial core.PartialLocal, readySize int64)

	// OnPartialUpload reports newly acknowledged uploaded parts.
	OnPartialUpload(id QueryID, partial core.PartialRemote, readySize int64)

	// OnDownloadOK reports a completed download.
	OnDownloadOK(id QueryID, local core.FullLocal, size int64)

	// OnUploadOK reports that all parts are uploaded. The file is not yet
	// addressable remotely; the input descriptor built from partial must
	// be attached to a message to finalize it.
	OnUploadOK(id QueryID, t core.FileType, partial core.PartialRemote, size int64)

	// OnUploadFullOK reports a server-acknowledged remote reference,
	// either from a hash shortcut or from message-send confirmation.
	OnUploadFullOK(id QueryID, remote core.FullRemote)

	// OnError reports query failure.
	OnError(id QueryID, status core.Status)
}

// InputFile describes a fully uploaded plain file, ready to be attached
// to an outgoing message.
type InputFile struct {
	ID    int64
	Parts int32
	Name  string
	IsBig bool
}

// InputEncryptedFile is the encrypted counterpart of InputFile.
type InputEncryptedFile struct {
	ID    int64
	Parts int32
}
