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
package backoff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	require := require.New(t)

	b := Config{}.New()

	require.Equal(250*time.Millisecond, b.InitialInterval)
	require.Equal(1.3, b.Multiplier)
	require.Equal(10*time.Second, b.MaxInterval)
	require.Equal(5*time.Minute, b.MaxElapsedTime)
}

func TestConfigOverrides(t *testing.T) {
	require := require.New(t)

	b := Config{
		InitialInterval: time.Second,
		Multiplier:      2.0,
		MaxInterval:     time.Minute,
		MaxElapsedTime:  time.Hour,
	}.New()

	require.Equal(time.Second, b.InitialInterval)
	require.Equal(2.0, b.Multiplier)
	require.Equal(time.Minute, b.MaxInterval)
	require.Equal(time.Hour, b.MaxElapsedTime)
}

func TestBackoffIntervalGrows(t *testing.T) {
	require := require.New(t)

	b := Config{RandomizationFactor: 0.0001}.New()
	b.Reset()

	prev := b.NextBackOff()
	for i := 0; i < 5; i++ {
		next := b.NextBackOff()
		require.True(next > prev, "interval did not grow: %s <= %s", next, prev)
		prev = next
	}
}
