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

// Package filegen defines the boundary to the file generation worker.
//
// Generation produces local file content from a recipe (an original path
// plus a conversion, or a URL) instead of downloading it. The coordinator
// treats generation as a third way for a file to become locally complete;
// the worker owns the actual byte production.
package filegen

import (
	"github.com/vexel-im/courier/core"
	"github.com/vexel-im/courier/lib/fileloader"
)

// Generator starts and stops generation queries. Implementations must not
// block; completion and progress are reported through Callback.
type Generator interface {

	// Generate starts producing the file described by gen. localPrefix is
	// the directory the worker should place produced files under.
	Generate(id fileloader.QueryID, gen core.FullGenerate, localPrefix string)

	// Cancel stops the query. The worker may still deliver callbacks for
	// it afterwards; the coordinator drops them.
	Cancel(id fileloader.QueryID)
}

// Callback receives generation progress and completion events. Calls may
// arrive on any goroutine.
type Callback interface {

	// OnPartialGenerate reports produced-so-far state. expectedSize may be
	// 0 when the worker cannot estimate the final size.
	OnPartialGenerate(id fileloader.QueryID, partial core.PartialLocal, expectedSize int64)

	// OnGenerateOK reports that the file was fully produced at local.
	OnGenerateOK(id fileloader.QueryID, local core.FullLocal)

	// OnGenerateError reports a failed query.
	OnGenerateError(id fileloader.QueryID, status core.Status)
}
