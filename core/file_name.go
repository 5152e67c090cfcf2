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
package core

import (
	"path/filepath"
	"strings"
)

var defaultExtensions = map[FileType]string{
	FileTypeThumbnail:          ".jpg",
	FileTypeProfilePhoto:       ".jpg",
	FileTypePhoto:              ".jpg",
	FileTypeVoice:              ".oga",
	FileTypeVideo:              ".mp4",
	FileTypeSticker:            ".webp",
	FileTypeAudio:              ".mp3",
	FileTypeAnimation:          ".mp4",
	FileTypeEncryptedThumbnail: ".jpg",
	FileTypeWallpaper:          ".jpg",
	FileTypeVideoNote:          ".mp4",
	FileTypeBackground:         ".jpg",
}

// DefaultExtension returns the conventional file extension for t, or ""
// when the type has no fixed format.
func DefaultExtension(t FileType) string {
	return defaultExtensions[t]
}

// FixFileExtension appends the conventional extension for t when name
// lacks one. Names that already carry an extension are left alone.
func FixFileExtension(name string, t FileType) string {
	if name == "" {
		return name
	}
	if filepath.Ext(name) != "" {
		return name
	}
	ext := DefaultExtension(t)
	if ext == "" {
		return name
	}
	return name + ext
}

// BaseName returns the final path element without its directory, handling
// both slash styles since paths may originate on other platforms.
func BaseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		path = path[i+1:]
	}
	return path
}
