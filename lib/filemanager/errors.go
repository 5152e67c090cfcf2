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

import "errors"

// Manager errors.
var (
	// ErrManagerClosed is returned by every public method after Close.
	ErrManagerClosed = errors.New("file manager closed")

	// ErrUnknownFile is returned when a handle does not resolve to a live
	// file, either because it was never issued or because it was forgotten.
	ErrUnknownFile = errors.New("unknown file")

	// ErrLocalFileGone is returned when a local path fails its existence
	// or size check.
	ErrLocalFileGone = errors.New("local file is missing or changed")

	// ErrFileTooLarge is returned when content exceeds the configured
	// maximum file size.
	ErrFileTooLarge = errors.New("file is too large")

	// ErrMergeConflict is returned when two files cannot be unified, for
	// example because their encryption keys differ.
	ErrMergeConflict = errors.New("files cannot be merged")

	// ErrNoRemoteLocation is returned when an operation needs a full
	// remote reference the file does not have.
	ErrNoRemoteLocation = errors.New("file has no remote location")

	// ErrNoLocalContent is returned when an operation needs fully
	// downloaded local content the file does not have.
	ErrNoLocalContent = errors.New("file has no local content")
)
