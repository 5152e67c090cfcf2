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
package migrations

import (
	"database/sql"

	"github.com/pressly/goose"
)

func init() {
	goose.AddMigration(up00001, down00001)
}

func up00001(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS file_record (
			id         integer   PRIMARY KEY,
			data       blob      NOT NULL,
			updated_at timestamp DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS file_record_key (
			kind      integer NOT NULL,
			raw       text    NOT NULL,
			record_id integer NOT NULL,
			PRIMARY KEY(kind, raw)
		);

		CREATE INDEX IF NOT EXISTS file_record_key_record_idx
			ON file_record_key(record_id);

		CREATE TABLE IF NOT EXISTS file_record_seq (
			id   integer PRIMARY KEY CHECK (id = 0),
			next integer NOT NULL
		);

		INSERT OR IGNORE INTO file_record_seq (id, next) VALUES (0, 1);
	`)
	return err
}

func down00001(tx *sql.Tx) error {
	_, err := tx.Exec(`
		DROP TABLE file_record_seq;
		DROP TABLE file_record_key;
		DROP TABLE file_record;
	`)
	return err
}
