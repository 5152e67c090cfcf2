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
package filegen

import (
	"sync"

	"github.com/vexel-im/courier/core"
	"github.com/vexel-im/courier/lib/fileloader"
)

// GenerateRequest records the arguments of a Generate call.
type GenerateRequest struct {
	Gen         core.FullGenerate
	LocalPrefix string
}

// TestGenerator is a manually driven Generator for tests.
type TestGenerator struct {
	sync.Mutex
	generates map[fileloader.QueryID]*GenerateRequest
	cancelled map[fileloader.QueryID]bool
	order     []fileloader.QueryID
}

var _ Generator = (*TestGenerator)(nil)

// NewTestGenerator returns an empty TestGenerator.
func NewTestGenerator() *TestGenerator {
	return &TestGenerator{
		generates: make(map[fileloader.QueryID]*GenerateRequest),
		cancelled: make(map[fileloader.QueryID]bool),
	}
}

// Generate implements Generator.
func (g *TestGenerator) Generate(id fileloader.QueryID, gen core.FullGenerate, localPrefix string) {
	g.Lock()
	defer g.Unlock()
	g.generates[id] = &GenerateRequest{gen, localPrefix}
	g.order = append(g.order, id)
}

// Cancel implements Generator.
func (g *TestGenerator) Cancel(id fileloader.QueryID) {
	g.Lock()
	defer g.Unlock()
	g.cancelled[id] = true
}

// LastQuery returns the most recently issued query id, or 0.
func (g *TestGenerator) LastQuery() fileloader.QueryID {
	g.Lock()
	defer g.Unlock()
	if len(g.order) == 0 {
		return 0
	}
	return g.order[len(g.order)-1]
}

// GenerateRequest returns the recorded query, if any.
func (g *TestGenerator) GenerateRequest(id fileloader.QueryID) (GenerateRequest, bool) {
	g.Lock()
	defer g.Unlock()
	r, ok := g.generates[id]
	if !ok {
		return GenerateRequest{}, false
	}
	return *r, true
}

// Cancelled returns whether the query was cancelled.
func (g *TestGenerator) Cancelled(id fileloader.QueryID) bool {
	g.Lock()
	defer g.Unlock()
	return g.cancelled[id]
}

// QueryCount returns the total number of issued queries.
func (g *TestGenerator) QueryCount() int {
	g.Lock()
	defer g.Unlock()
	return len(g.order)
}
