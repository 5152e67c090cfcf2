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
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPersistentIDRoundTrip(t *testing.T) {
	require := require.New(t)

	remote := FullRemoteFixture(FileTypePhoto)
	token := EncodePersistentID(remote)

	require.NotEmpty(token)
	require.False(strings.ContainsAny(token, "+/="), "token must be url-safe without padding")

	decoded, err := DecodePersistentID(token, FileTypePhoto)
	require.NoError(err)
	require.Equal(remote, decoded)
}

func TestPersistentIDWildcardTypes(t *testing.T) {
	remote := FullRemoteFixture(FileTypeVideo)
	token := EncodePersistentID(remote)

	for _, expected := range []FileType{FileTypeNone, FileTypeTemp} {
		t.Run(expected.String(), func(t *testing.T) {
			decoded, err := DecodePersistentID(token, expected)
			require.NoError(t, err)
			require.Equal(t, remote, decoded)
		})
	}
}

func TestPersistentIDSecureTypesInterchangeable(t *testing.T) {
	require := require.New(t)

	remote := FullRemoteFixture(FileTypeSecureRaw)
	token := EncodePersistentID(remote)

	// Secure and secure_raw name the same stored file, so a token of
	// either type satisfies an expectation of the other.
	decoded, err := DecodePersistentID(token, FileTypeSecure)
	require.NoError(err)
	require.Equal(remote, decoded)

	token = EncodePersistentID(FullRemoteFixture(FileTypeSecure))
	_, err = DecodePersistentID(token, FileTypeSecureRaw)
	require.NoError(err)

	_, err = DecodePersistentID(token, FileTypePhoto)
	require.Equal(ErrInvalidPersistentID, err)
}

func TestPersistentIDRejections(t *testing.T) {
	remote := FullRemoteFixture(FileTypePhoto)
	valid := EncodePersistentID(remote)

	raw, err := base64.RawURLEncoding.DecodeString(valid)
	require.NoError(t, err)

	wrongVersion := append([]byte{}, raw...)
	wrongVersion[0] = 3

	badType := append([]byte{}, raw...)
	badType[len(badType)-1] = 200

	noneType := append([]byte{}, raw...)
	noneType[len(noneType)-1] = byte(FileTypeNone)

	tests := []struct {
		desc     string
		token    string
		expected FileType
	}{
		{"not base64", "???not-base64???", FileTypePhoto},
		{"empty", "", FileTypePhoto},
		{"truncated", valid[:len(valid)-4], FileTypePhoto},
		{"wrong version", base64.RawURLEncoding.EncodeToString(wrongVersion), FileTypePhoto},
		{"invalid type byte", base64.RawURLEncoding.EncodeToString(badType), FileTypePhoto},
		{"none type byte", base64.RawURLEncoding.EncodeToString(noneType), FileTypePhoto},
		{"type mismatch", valid, FileTypeVideo},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			_, err := DecodePersistentID(test.token, test.expected)
			require.Equal(t, ErrInvalidPersistentID, err)
		})
	}
}

func TestPersistentIDDistinctRemotes(t *testing.T) {
	require := require.New(t)

	a := EncodePersistentID(FullRemoteFixture(FileTypePhoto))
	b := EncodePersistentID(FullRemoteFixture(FileTypePhoto))
	require.NotEqual(a, b)
}
