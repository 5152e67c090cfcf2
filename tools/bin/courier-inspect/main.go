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

// courier-inspect is an offline debugging tool for file databases and
// persistent id tokens.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/alecthomas/kingpin"

	"github.com/vexel-im/courier/core"
	"github.com/vexel-im/courier/lib/filedb"
	"github.com/vexel-im/courier/lib/filedb/sqlstore"
	"github.com/vexel-im/courier/utils/log"
)

func main() {
	app := kingpin.New("courier-inspect", "Courier file database inspection tool")
	configFile := app.Flag("config", "YAML configuration file").String()

	decode := app.Command("decode", "Decode a persistent file id token")
	decodeToken := decode.Arg("token", "Token to decode").Required().String()

	encode := app.Command("encode", "Encode a remote reference into a token")
	encodeType := encode.Flag("type", "File type name, e.g. document").Required().String()
	encodeDC := encode.Flag("dc", "Datacenter id").Required().Int32()
	encodeID := encode.Flag("id", "Remote file id").Required().Int64()
	encodeHash := encode.Flag("access-hash", "Access hash").Required().Int64()

	dump := app.Command("dump", "Dump all records of a SQLite file database")
	dumpSource := dump.Arg("source", "Database path").String()

	get := app.Command("get", "Look up one record of a SQLite file database")
	getSource := get.Arg("source", "Database path").String()
	getID := get.Flag("id", "Record id").Int64()
	getLocal := get.Flag("local", "Full local path to look up by").String()
	getToken := get.Flag("token", "Persistent id token to look up by").String()

	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))
	config := loadConfig(*configFile)

	switch cmd {
	case decode.FullCommand():
		remote, err := core.DecodePersistentID(*decodeToken, core.FileTypeNone)
		if err != nil {
			log.Fatalf("Decode: %s", err)
		}
		fmt.Printf("type:        %s\n", remote.FileType)
		fmt.Printf("dc:          %d\n", remote.DC)
		fmt.Printf("id:          %d\n", remote.ID)
		fmt.Printf("access_hash: %d\n", remote.AccessHash)

	case encode.FullCommand():
		t, err := core.ParseFileType(*encodeType)
		if err != nil {
			log.Fatalf("Parse type: %s", err)
		}
		fmt.Println(core.EncodePersistentID(core.FullRemote{
			FileType:   t,
			DC:         *encodeDC,
			ID:         *encodeID,
			AccessHash: *encodeHash,
		}))

	case dump.FullCommand():
		s := mustOpen(*dumpSource, config)
		defer s.Close()
		err := s.Range(func(id filedb.RecordID, r *filedb.Record) error {
			return printRecord(id, r)
		})
		if err != nil {
			log.Fatalf("Dump: %s", err)
		}

	case get.FullCommand():
		s := mustOpen(*getSource, config)
		defer s.Close()
		id, r, err := lookup(s, *getID, *getLocal, *getToken)
		if err != nil {
			log.Fatalf("Get: %s", err)
		}
		if err := printRecord(id, r); err != nil {
			log.Fatalf("Get: %s", err)
		}
	}
}

func mustOpen(source string, config Config) *sqlstore.Store {
	storeConfig := config.Store
	if source != "" {
		storeConfig.Source = source
	}
	if storeConfig.Source == "" {
		log.Fatalf("No database source given, pass it as an argument or via --config")
	}
	s, err := sqlstore.New(storeConfig)
	if err != nil {
		log.Fatalf("Open %s: %s", storeConfig.Source, err)
	}
	return s
}

func lookup(s *sqlstore.Store, id int64, local, token string) (filedb.RecordID, *filedb.Record, error) {
	switch {
	case id != 0:
		r, err := s.Get(filedb.RecordID(id))
		return filedb.RecordID(id), r, err
	case local != "":
		return s.GetByKey(filedb.LocalKey(local))
	case token != "":
		remote, err := core.DecodePersistentID(token, core.FileTypeNone)
		if err != nil {
			return 0, nil, err
		}
		return s.GetByKey(filedb.RemoteKey(remote))
	}
	return 0, nil, fmt.Errorf("one of --id, --local or --token is required")
}

func printRecord(id filedb.RecordID, r *filedb.Record) error {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	fmt.Printf("record %d:\n%s\n", id, b)
	return nil
}
