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

// Package sqlstore persists file records in a locally embedded SQLite
// database. This is the default store for desktop clients.
package sqlstore

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // SQL driver.
	"github.com/pressly/goose"

	"github.com/vexel-im/courier/lib/filedb"
	_ "github.com/vexel-im/courier/lib/filedb/sqlstore/migrations" // Add migrations.
	"github.com/vexel-im/courier/utils/osutil"
)

// Store is a SQLite-backed filedb.Store.
type Store struct {
	db *sqlx.DB
}

var _ filedb.Store = (*Store)(nil)

// New creates a new Store, running any pending migrations.
func New(config Config) (*Store, error) {
	if err := osutil.EnsureFilePresent(config.Source); err != nil {
		return nil, fmt.Errorf("ensure db source present: %s", err)
	}
	db, err := sqlx.Open("sqlite3", config.Source)
	if err != nil {
		return nil, fmt.Errorf("open sqlite3: %s", err)
	}
	// SQLite has concurrency issues where queries result in error if more than
	// one connection is accessing a table.
	db.SetMaxOpenConns(1)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return nil, fmt.Errorf("set dialect as sqlite3: %s", err)
	}
	if err := goose.Up(db.DB, "."); err != nil {
		return nil, fmt.Errorf("perform db migration: %s", err)
	}
	return &Store{db}, nil
}

// Get returns the record stored under id.
func (s *Store) Get(id filedb.RecordID) (*filedb.Record, error) {
	var data []byte
	err := s.db.Get(&data, `SELECT data FROM file_record WHERE id=?`, id)
	if err == sql.ErrNoRows {
		return nil, filedb.ErrRecordNotFound
	} else if err != nil {
		return nil, fmt.Errorf("select record: %s", err)
	}
	return filedb.UnmarshalRecord(data)
}

// GetByKey returns the record indexed by k.
func (s *Store) GetByKey(k filedb.Key) (filedb.RecordID, *filedb.Record, error) {
	var row struct {
		RecordID int64  `db:"record_id"`
		Data     []byte `db:"data"`
	}
	err := s.db.Get(&row, `
		SELECT k.record_id AS record_id, r.data AS data
		FROM file_record_key k
		JOIN file_record r ON r.id = k.record_id
		WHERE k.kind=? AND k.raw=?`,
		k.Kind, k.Raw)
	if err == sql.ErrNoRows {
		return 0, nil, filedb.ErrRecordNotFound
	} else if err != nil {
		return 0, nil, fmt.Errorf("select record by key: %s", err)
	}
	r, err := filedb.UnmarshalRecord(row.Data)
	if err != nil {
		return 0, nil, err
	}
	return filedb.RecordID(row.RecordID), r, nil
}

// Put writes r under id and reindexes its keys.
func (s *Store) Put(id filedb.RecordID, r *filedb.Record) error {
	data, err := filedb.MarshalRecord(r)
	if err != nil {
		return err
	}
	return s.withTx(func(tx *sqlx.Tx) error {
		if _, err := tx.Exec(`
			INSERT OR REPLACE INTO file_record (id, data) VALUES (?, ?)`,
			id, data); err != nil {
			return fmt.Errorf("upsert record: %s", err)
		}
		if _, err := tx.Exec(
			`DELETE FROM file_record_key WHERE record_id=?`, id); err != nil {
			return fmt.Errorf("clear record keys: %s", err)
		}
		for _, k := range r.Keys() {
			if _, err := tx.Exec(`
				INSERT OR REPLACE INTO file_record_key (kind, raw, record_id)
				VALUES (?, ?, ?)`,
				k.Kind, k.Raw, id); err != nil {
				return fmt.Errorf("insert record key: %s", err)
			}
		}
		return nil
	})
}

// Delete removes the record and its index entries.
func (s *Store) Delete(id filedb.RecordID) error {
	return s.withTx(func(tx *sqlx.Tx) error {
		if _, err := tx.Exec(
			`DELETE FROM file_record_key WHERE record_id=?`, id); err != nil {
			return fmt.Errorf("delete record keys: %s", err)
		}
		if _, err := tx.Exec(
			`DELETE FROM file_record WHERE id=?`, id); err != nil {
			return fmt.Errorf("delete record: %s", err)
		}
		return nil
	})
}

// NextID allocates a fresh record id.
func (s *Store) NextID() (filedb.RecordID, error) {
	var next int64
	err := s.withTx(func(tx *sqlx.Tx) error {
		if err := tx.Get(&next,
			`SELECT next FROM file_record_seq WHERE id=0`); err != nil {
			return fmt.Errorf("select seq: %s", err)
		}
		if _, err := tx.Exec(
			`UPDATE file_record_seq SET next=next+1 WHERE id=0`); err != nil {
			return fmt.Errorf("bump seq: %s", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return filedb.RecordID(next), nil
}

// Range calls fn for every stored record in id order, stopping at the
// first error. Intended for offline inspection tooling.
func (s *Store) Range(fn func(id filedb.RecordID, r *filedb.Record) error) error {
	rows, err := s.db.Queryx(`SELECT id, data FROM file_record ORDER BY id`)
	if err != nil {
		return fmt.Errorf("select records: %s", err)
	}
	defer rows.Close()
	for rows.Next() {
		var row struct {
			ID   int64  `db:"id"`
			Data []byte `db:"data"`
		}
		if err := rows.StructScan(&row); err != nil {
			return fmt.Errorf("scan record: %s", err)
		}
		r, err := filedb.UnmarshalRecord(row.Data)
		if err != nil {
			return err
		}
		if err := fn(filedb.RecordID(row.ID), r); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) withTx(f func(*sqlx.Tx) error) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("begin tx: %s", err)
	}
	if err := f(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %s", err)
	}
	return nil
}
