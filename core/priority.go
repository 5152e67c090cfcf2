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

// Priority bounds for transfer demand. Zero means "not wanted"; a transfer
// runs only while some handle holds a non-zero priority on it.
const (
	MinPriority int8 = 1
	MaxPriority int8 = 31

	// FromBytesPriority is the internal priority for uploads induced by
	// directly supplied file content.
	FromBytesPriority int8 = 10
)

// ClampPriority narrows an arbitrary priority into [0, MaxPriority].
func ClampPriority(p int8) int8 {
	if p < 0 {
		return 0
	}
	if p > MaxPriority {
		return MaxPriority
	}
	return p
}
