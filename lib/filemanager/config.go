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
package filemanager

import (
	"time"

	"github.com/c2h5oh/datasize"

	"github.com/vexel-im/courier/utils/backoff"
)

// Config defines Manager configuration.
type Config struct {
	// MaxFileSize caps registered and generated file sizes.
	MaxFileSize datasize.ByteSize `yaml:"max_file_size"`

	// GenerateDir is the directory generation workers place produced
	// files under.
	GenerateDir string `yaml:"generate_dir"`

	// FlushSweepInterval bounds how long a dirty file record may sit
	// unflushed after a failed or deferred store write.
	FlushSweepInterval time.Duration `yaml:"flush_sweep_interval"`

	// FlushBackoff configures retries of failed store writes.
	FlushBackoff backoff.Config `yaml:"flush_backoff"`
}

func (c Config) applyDefaults() Config {
	if c.MaxFileSize == 0 {
		c.MaxFileSize = 2 * datasize.GB
	}
	if c.FlushSweepInterval == 0 {
		c.FlushSweepInterval = 5 * time.Second
	}
	return c
}
