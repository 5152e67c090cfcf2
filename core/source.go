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
package core

// LocationSource records where a remote location was learned from. The
// server is authoritative, user input comes second, persisted rows carry
// the least trust.
type LocationSource int8

// Known location sources.
const (
	SourceNone LocationSource = iota
	SourceUser
	SourceDB
	SourceServer
)

var sourceTrust = map[LocationSource]int{
	SourceNone:   0,
	SourceDB:     1,
	SourceUser:   2,
	SourceServer: 3,
}

// TrustsOver returns whether a location from s supersedes one from o.
func (s LocationSource) TrustsOver(o LocationSource) bool {
	return sourceTrust[s] > sourceTrust[o]
}

func (s LocationSource) String() string {
	switch s {
	case SourceNone:
		return "none"
	case SourceUser:
		return "user"
	case SourceDB:
		return "db"
	case SourceServer:
		return "server"
	}
	return "invalid"
}
