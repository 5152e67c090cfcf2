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
	"sync"
)

// MemStore is an in-memory Store for tests and ephemeral clients.
type MemStore struct {
	mu      sync.RWMutex
	records map[RecordID]*Record
	index   map[Key]RecordID
	nextID  RecordID
}

var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		records: make(map[RecordID]*Record),
		index:   make(map[Key]RecordID),
	}
}

// Get returns the record stored under id.
func (s *MemStore) Get(id RecordID) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return r.Clone(), nil
}

// GetByKey returns the record indexed by k.
func (s *MemStore) GetByKey(k Key) (RecordID, *Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.index[k]
	if !ok {
		return 0, nil, ErrRecordNotFound
	}
	r, ok := s.records[id]
	if !ok {
		return 0, nil, ErrRecordNotFound
	}
	return id, r.Clone(), nil
}

// Put writes r under id.
func (s *MemStore) Put(id RecordID, r *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.records[id]; ok {
		for _, k := range prev.Keys() {
			if s.index[k] == id {
				delete(s.index, k)
			}
		}
	}
	s.records[id] = r.Clone()
	for _, k := range r.Keys() {
		s.index[k] = id
	}
	return nil
}

// Delete removes the record and its index entries.
func (s *MemStore) Delete(id RecordID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.records[id]
	if !ok {
		return nil
	}
	for _, k := range prev.Keys() {
		if s.index[k] == id {
			delete(s.index, k)
		}
	}
	delete(s.records, id)
	return nil
}

// NextID allocates a fresh record id.
func (s *MemStore) NextID() (RecordID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	return s.nextID, nil
}

// Close noops.
func (s *MemStore) Close() error { return nil }

// Len returns the number of stored records.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}
