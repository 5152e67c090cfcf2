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

// Package backoff is a configuration wrapper around an existing 3rd-party backoff library.
package backoff

import (
	"time"

	"github.com/cenkalti/backoff"
)

// Config defines exponential backoff configuration.
type Config struct {
	InitialInterval     time.Duration `yaml:"initial_interval"`
	RandomizationFactor float64       `yaml:"randomization_factor"`
	Multiplier          float64       `yaml:"multiplier"`
	MaxInterval         time.Duration `yaml:"max_interval"`
	MaxElapsedTime      time.Duration `yaml:"max_elapsed_time"`
}

func (c Config) applyDefaults() Config {
	if c.InitialInterval == 0 {
		c.InitialInterval = 250 * time.Millisecond
	}
	if c.RandomizationFactor == 0 {
		c.RandomizationFactor = 0.05
	}
	if c.Multiplier == 0 {
		c.Multiplier = 1.3
	}
	if c.MaxInterval == 0 {
		c.MaxInterval = 10 * time.Second
	}
	if c.MaxElapsedTime == 0 {
		c.MaxElapsedTime = 5 * time.Minute
	}
	return c
}

// New creates a fresh exponential backoff from config. The returned value is
// stateful and not safe for concurrent use.
func (c Config) New() *backoff.ExponentialBackOff {
	c = c.applyDefaults()
	return &backoff.ExponentialBackOff{
		InitialInterval:     c.InitialInterval,
		RandomizationFactor: c.RandomizationFactor,
		Multiplier:          c.Multiplier,
		MaxInterval:         c.MaxInterval,
		MaxElapsedTime:      c.MaxElapsedTime,
		Clock:               backoff.SystemClock,
	}
}
