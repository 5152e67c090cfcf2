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

// Package redisstore persists file records in Redis. It targets thin
// clients that share file state across processes on the same host.
//
// The store assumes a single writer. Readers racing a reindex may observe
// a key miss, which callers treat as "record not persisted" and repair on
// the next write.
package redisstore

import (
	"errors"
	"fmt"

	"github.com/gomodule/redigo/redis"

	"github.com/vexel-im/courier/lib/filedb"
)

func recordKey(id filedb.RecordID) string {
	return fmt.Sprintf("file:record:%d", id)
}

func indexKey(k filedb.Key) string {
	return fmt.Sprintf("file:key:%d:%s", k.Kind, k.Raw)
}

// claimedKeys holds the index keys a record currently owns so reindexing
// can clean up after location changes.
func claimedKeys(id filedb.RecordID) string {
	return fmt.Sprintf("file:keys:%d", id)
}

const nextIDKey = "file:next_id"

// Store is a Redis-backed filedb.Store.
type Store struct {
	config Config
	pool   *redis.Pool
}

var _ filedb.Store = (*Store)(nil)

// New creates a new Store.
func New(config Config) (*Store, error) {
	config.applyDefaults()

	if config.Addr == "" {
		return nil, errors.New("invalid config: missing addr")
	}

	s := &Store{
		config: config,
		pool: &redis.Pool{
			Dial: func() (redis.Conn, error) {
				return redis.Dial(
					"tcp",
					config.Addr,
					redis.DialConnectTimeout(config.DialTimeout),
					redis.DialReadTimeout(config.ReadTimeout),
					redis.DialWriteTimeout(config.WriteTimeout))
			},
			MaxIdle:     config.MaxIdleConns,
			MaxActive:   config.MaxActiveConns,
			IdleTimeout: config.IdleConnTimeout,
			Wait:        true,
		},
	}

	// Ensure we can connect to Redis.
	c, err := s.pool.Dial()
	if err != nil {
		return nil, fmt.Errorf("dial redis: %s", err)
	}
	c.Close()

	return s, nil
}

// Get returns the record stored under id.
func (s *Store) Get(id filedb.RecordID) (*filedb.Record, error) {
	c := s.pool.Get()
	defer c.Close()

	data, err := redis.Bytes(c.Do("GET", recordKey(id)))
	if err == redis.ErrNil {
		return nil, filedb.ErrRecordNotFound
	} else if err != nil {
		return nil, fmt.Errorf("GET record: %s", err)
	}
	return filedb.UnmarshalRecord(data)
}

// GetByKey returns the record indexed by k.
func (s *Store) GetByKey(k filedb.Key) (filedb.RecordID, *filedb.Record, error) {
	c := s.pool.Get()
	defer c.Close()

	id, err := redis.Int64(c.Do("GET", indexKey(k)))
	if err == redis.ErrNil {
		return 0, nil, filedb.ErrRecordNotFound
	} else if err != nil {
		return 0, nil, fmt.Errorf("GET index: %s", err)
	}
	data, err := redis.Bytes(c.Do("GET", recordKey(filedb.RecordID(id))))
	if err == redis.ErrNil {
		return 0, nil, filedb.ErrRecordNotFound
	} else if err != nil {
		return 0, nil, fmt.Errorf("GET record: %s", err)
	}
	r, err := filedb.UnmarshalRecord(data)
	if err != nil {
		return 0, nil, err
	}
	return filedb.RecordID(id), r, nil
}

// Put writes r under id and reindexes its keys.
func (s *Store) Put(id filedb.RecordID, r *filedb.Record) error {
	data, err := filedb.MarshalRecord(r)
	if err != nil {
		return err
	}

	c := s.pool.Get()
	defer c.Close()

	old, err := redis.Strings(c.Do("SMEMBERS", claimedKeys(id)))
	if err != nil && err != redis.ErrNil {
		return fmt.Errorf("SMEMBERS claimed keys: %s", err)
	}

	keys := r.Keys()

	claimed := make(map[string]bool, len(keys))
	var sends int
	send := func(cmd string, args ...interface{}) error {
		if err := c.Send(cmd, args...); err != nil {
			return fmt.Errorf("send %s: %s", cmd, err)
		}
		sends++
		return nil
	}

	if err := send("SET", recordKey(id), data); err != nil {
		return err
	}
	if err := send("DEL", claimedKeys(id)); err != nil {
		return err
	}
	for _, k := range keys {
		ik := indexKey(k)
		claimed[ik] = true
		if err := send("SET", ik, int64(id)); err != nil {
			return err
		}
		if err := send("SADD", claimedKeys(id), ik); err != nil {
			return err
		}
	}
	// Drop index entries the record no longer claims, unless another
	// record has since stolen them.
	for _, ik := range old {
		if claimed[ik] {
			continue
		}
		if err := send("EVAL", dropIfOwnedScript, 1, ik, int64(id)); err != nil {
			return err
		}
	}

	if err := c.Flush(); err != nil {
		return fmt.Errorf("flush: %s", err)
	}
	for i := 0; i < sends; i++ {
		if _, err := c.Receive(); err != nil {
			return fmt.Errorf("pipeline reply %d: %s", i, err)
		}
	}
	return nil
}

// dropIfOwnedScript deletes an index key only while it still points at the
// given record id.
const dropIfOwnedScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// Delete removes the record and its index entries.
func (s *Store) Delete(id filedb.RecordID) error {
	c := s.pool.Get()
	defer c.Close()

	old, err := redis.Strings(c.Do("SMEMBERS", claimedKeys(id)))
	if err != nil && err != redis.ErrNil {
		return fmt.Errorf("SMEMBERS claimed keys: %s", err)
	}

	var sends int
	for _, ik := range old {
		if err := c.Send("EVAL", dropIfOwnedScript, 1, ik, int64(id)); err != nil {
			return fmt.Errorf("send EVAL: %s", err)
		}
		sends++
	}
	if err := c.Send("DEL", claimedKeys(id), recordKey(id)); err != nil {
		return fmt.Errorf("send DEL: %s", err)
	}
	sends++

	if err := c.Flush(); err != nil {
		return fmt.Errorf("flush: %s", err)
	}
	for i := 0; i < sends; i++ {
		if _, err := c.Receive(); err != nil {
			return fmt.Errorf("pipeline reply %d: %s", i, err)
		}
	}
	return nil
}

// NextID allocates a fresh record id.
func (s *Store) NextID() (filedb.RecordID, error) {
	c := s.pool.Get()
	defer c.Close()

	id, err := redis.Int64(c.Do("INCR", nextIDKey))
	if err != nil {
		return 0, fmt.Errorf("INCR next id: %s", err)
	}
	return filedb.RecordID(id), nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.pool.Close()
}
