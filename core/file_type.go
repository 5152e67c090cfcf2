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

import "fmt"

// FileType classifies a file by its role in the messaging protocol. The
// numeric values are part of the persistent id wire format and must never
// be reordered.
type FileType int32

// All known file types.
const (
	FileTypeNone FileType = iota
	FileTypeThumbnail
	FileTypeProfilePhoto
	FileTypePhoto
	FileTypeVoice
	FileTypeVideo
	FileTypeDocument
	FileTypeEncrypted
	FileTypeTemp
	FileTypeSticker
	FileTypeAudio
	FileTypeAnimation
	FileTypeEncryptedThumbnail
	FileTypeWallpaper
	FileTypeVideoNote
	FileTypeSecureRaw
	FileTypeSecure
	FileTypeBackground
	FileTypeDocumentAsFile

	fileTypeCount
)

var fileTypeNames = [...]string{
	FileTypeNone:               "none",
	FileTypeThumbnail:          "thumbnail",
	FileTypeProfilePhoto:       "profile_photo",
	FileTypePhoto:              "photo",
	FileTypeVoice:              "voice",
	FileTypeVideo:              "video",
	FileTypeDocument:           "document",
	FileTypeEncrypted:          "encrypted",
	FileTypeTemp:               "temp",
	FileTypeSticker:            "sticker",
	FileTypeAudio:              "audio",
	FileTypeAnimation:          "animation",
	FileTypeEncryptedThumbnail: "encrypted_thumbnail",
	FileTypeWallpaper:          "wallpaper",
	FileTypeVideoNote:          "video_note",
	FileTypeSecureRaw:          "secure_raw",
	FileTypeSecure:             "secure",
	FileTypeBackground:         "background",
	FileTypeDocumentAsFile:     "document_as_file",
}

// Valid returns whether t is a known file type.
func (t FileType) Valid() bool {
	return t >= FileTypeNone && t < fileTypeCount
}

// IsSecure returns whether files of this type belong to the secure storage
// domain and must never leak into plain transfers.
func (t FileType) IsSecure() bool {
	return t == FileTypeSecure || t == FileTypeSecureRaw
}

// IsEncrypted returns whether files of this type are end-to-end encrypted.
func (t FileType) IsEncrypted() bool {
	return t == FileTypeEncrypted || t == FileTypeEncryptedThumbnail
}

func (t FileType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("unknown(%d)", int32(t))
	}
	return fileTypeNames[t]
}

// ParseFileType maps a type name back to its FileType. Returns FileTypeNone
// and an error for unknown names.
func ParseFileType(s string) (FileType, error) {
	for t, name := range fileTypeNames {
		if name == s {
			return FileType(t), nil
		}
	}
	return FileTypeNone, fmt.Errorf("unknown file type %q", s)
}
