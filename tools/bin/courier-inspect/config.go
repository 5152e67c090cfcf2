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
package main

import (
	"github.com/vexel-im/courier/lib/filedb/sqlstore"
	"github.com/vexel-im/courier/utils/configutil"
	"github.com/vexel-im/courier/utils/log"
)

// Config defines courier-inspect configuration. Command line arguments take
// precedence over config file values.
type Config struct {
	Logging log.Config      `yaml:"logging"`
	Store   sqlstore.Config `yaml:"store"`
}

func loadConfig(path string) Config {
	var config Config
	if path != "" {
		if err := configutil.Load(path, &config); err != nil {
			log.Fatalf("Load config %s: %s", path, err)
		}
	}
	logger, err := log.New(config.Logging, nil)
	if err != nil {
		log.Fatalf("Configure logging: %s", err)
	}
	log.SetGlobalLogger(logger.Sugar())
	return config
}
