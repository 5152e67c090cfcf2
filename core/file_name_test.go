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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFixFileExtension(t *testing.T) {
	tests := []struct {
		desc     string
		name     string
		fileType FileType
		expected string
	}{
		{"adds photo extension", "IMG_2041", FileTypePhoto, "IMG_2041.jpg"},
		{"adds voice extension", "msg", FileTypeVoice, "msg.oga"},
		{"keeps existing extension", "clip.webm", FileTypeVideo, "clip.webm"},
		{"document untouched", "README", FileTypeDocument, "README"},
		{"empty name untouched", "", FileTypePhoto, ""},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			require.Equal(t, test.expected, FixFileExtension(test.name, test.fileType))
		})
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/home/u/files/photo.jpg", "photo.jpg"},
		{`C:\Users\u\photo.jpg`, "photo.jpg"},
		{"photo.jpg", "photo.jpg"},
		{"", ""},
	}
	for _, test := range tests {
		require.Equal(t, test.expected, BaseName(test.path))
	}
}

func TestLocationSourceTrust(t *testing.T) {
	require := require.New(t)

	require.True(SourceServer.TrustsOver(SourceUser))
	require.True(SourceServer.TrustsOver(SourceDB))
	require.True(SourceUser.TrustsOver(SourceDB))
	require.True(SourceDB.TrustsOver(SourceNone))
	require.False(SourceDB.TrustsOver(SourceUser))
	require.False(SourceUser.TrustsOver(SourceServer))
	require.False(SourceServer.TrustsOver(SourceServer))
}
