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
package redisstore

import (
	"github.com/alicebob/miniredis"

	"github.com/vexel-im/courier/utils/testutil"
)

// Fixture returns a Store over an in-process Redis for testing.
func Fixture() (*Store, func()) {
	var cleanup testutil.Cleanup
	defer cleanup.Recover()

	r, err := miniredis.Run()
	if err != nil {
		panic(err)
	}
	cleanup.Add(r.Close)

	s, err := New(Config{Addr: r.Addr()})
	if err != nil {
		panic(err)
	}
	cleanup.Add(func() { s.Close() })

	return s, cleanup.Run
}
