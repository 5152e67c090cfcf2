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
package filedb

import (
	"fmt"

	"github.com/vexel-im/courier/core"
	"github.com/vexel-im/courier/utils/randutil"
)

// RecordFixture returns a record with a full remote location, the common
// shape for files learned from the server.
func RecordFixture() *Record {
	remote := core.FullRemoteFixture(core.FileTypeDocument)
	return &Record{
		Local:        core.EmptyLocal(),
		Remote:       core.NewFullRemote(remote),
		Generate:     core.EmptyGenerate(),
		RemoteSource: core.SourceServer,
		Size:         randutil.Int63n(1 << 30),
		Name:         fmt.Sprintf("doc_%s.bin", randutil.Text(6)),
		Owner:        core.OwnerIDFixture(),
	}
}

// LocalRecordFixture returns a record with a full local location only.
func LocalRecordFixture() *Record {
	local := core.FullLocalFixture(core.FileTypePhoto)
	return &Record{
		Local:    core.NewFullLocal(local),
		Remote:   core.EmptyRemote(),
		Generate: core.EmptyGenerate(),
		Size:     randutil.Int63n(1 << 24),
		Owner:    core.OwnerIDFixture(),
	}
}
