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
	"encoding/binary"
	"errors"
)

// PersistentIDVersion is the only token version this build understands.
// Tokens of any other version are rejected.
const PersistentIDVersion = 2

// persistentIDLen is version byte + dc + id + access hash + type byte.
const persistentIDLen = 1 + 4 + 8 + 8 + 1

// ErrInvalidPersistentID is returned when a persistent id token is
// malformed, of the wrong version, or of an unexpected file type.
var ErrInvalidPersistentID = errors.New("invalid persistent id")

// EncodePersistentID packs a full remote reference into a URL-safe token
// that survives restarts and may be passed between clients.
func EncodePersistentID(r FullRemote) string {
	buf := make([]byte, persistentIDLen)
	buf[0] = PersistentIDVersion
	binary.LittleEndian.PutUint32(buf[1:], uint32(r.DC))
	binary.LittleEndian.PutUint64(buf[5:], uint64(r.ID))
	binary.LittleEndian.PutUint64(buf[13:], uint64(r.AccessHash))
	buf[21] = byte(r.FileType)
	return base64.RawURLEncoding.EncodeToString(buf)
}

// DecodePersistentID unpacks a token produced by EncodePersistentID.
// expected narrows the accepted file type; FileTypeNone and FileTypeTemp
// accept any type, and the secure types satisfy each other since they
// name the same stored file.
func DecodePersistentID(token string, expected FileType) (FullRemote, error) {
	buf, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return FullRemote{}, ErrInvalidPersistentID
	}
	if len(buf) != persistentIDLen {
		return FullRemote{}, ErrInvalidPersistentID
	}
	if buf[0] != PersistentIDVersion {
		return FullRemote{}, ErrInvalidPersistentID
	}
	t := FileType(buf[21])
	if !t.Valid() || t == FileTypeNone {
		return FullRemote{}, ErrInvalidPersistentID
	}
	if expected != FileTypeNone && expected != FileTypeTemp && expected != t &&
		!(expected.IsSecure() && t.IsSecure()) {
		return FullRemote{}, ErrInvalidPersistentID
	}
	return FullRemote{
		FileType:   t,
		DC:         int32(binary.LittleEndian.Uint32(buf[1:])),
		ID:         int64(binary.LittleEndian.Uint64(buf[5:])),
		AccessHash: int64(binary.LittleEndian.Uint64(buf[13:])),
	}, nil
}
