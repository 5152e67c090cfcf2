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
package filedb

import (
	"encoding/json"
	"fmt"

	"github.com/vexel-im/courier/core"
)

// Record is the durable image of one logical file. It intentionally
// excludes coordination state (priorities, callbacks, in-flight queries)
// which never survives a restart.
type Record struct {
	Local    core.LocalLocation    `json:"local"`
	Remote   core.RemoteLocation   `json:"remote"`
	Generate core.GenerateLocation `json:"generate"`

	RemoteSource core.LocationSource `json:"remote_source,omitempty"`

	Size         int64              `json:"size,omitempty"`
	ExpectedSize int64              `json:"expected_size,omitempty"`
	Name         string             `json:"name,omitempty"`
	URL          string             `json:"url,omitempty"`
	Owner        core.OwnerID       `json:"owner,omitempty"`
	Key          core.EncryptionKey `json:"encryption_key,omitempty"`
	GetByHash    bool               `json:"get_by_hash,omitempty"`
}

// Keys returns all lookup keys the record claims, one per full location.
func (r *Record) Keys() []Key {
	var keys []Key
	if r.Local.IsFull() {
		keys = append(keys, LocalKey(r.Local.Full.Path))
	}
	if r.Remote.IsFull() {
		keys = append(keys, RemoteKey(*r.Remote.Full))
	}
	if r.Generate.IsFull() {
		keys = append(keys, GenerateKey(*r.Generate.Full))
	}
	return keys
}

// Clone returns a deep copy of r.
func (r *Record) Clone() *Record {
	c := *r
	c.Local = r.Local.Clone()
	c.Remote = r.Remote.Clone()
	c.Generate = r.Generate.Clone()
	if r.Key != nil {
		c.Key = append(core.EncryptionKey(nil), r.Key...)
	}
	return &c
}

// MarshalRecord encodes a record for storage.
func MarshalRecord(r *Record) ([]byte, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %s", err)
	}
	return b, nil
}

// UnmarshalRecord decodes a record from storage.
func UnmarshalRecord(b []byte) (*Record, error) {
	r := new(Record)
	if err := json.Unmarshal(b, r); err != nil {
		return nil, fmt.Errorf("unmarshal record: %s", err)
	}
	return r, nil
}
