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

import "fmt"

// URLConversion marks a generate location whose "generation" is an HTTP
// fetch of OriginalPath.
const URLConversion = "#url#"

// FullGenerate is a recipe for producing file content locally: apply
// Conversion to OriginalPath.
type FullGenerate struct {
	FileType     FileType `json:"file_type"`
	OriginalPath string   `json:"original_path"`
	Conversion   string   `json:"conversion"`
}

// Key returns the identity key used to unify files by generate recipe.
func (g FullGenerate) Key() string {
	return fmt.Sprintf("%d:%s:%s", g.FileType, g.Conversion, g.OriginalPath)
}

// IsURL returns whether the recipe downloads OriginalPath over HTTP.
func (g FullGenerate) IsURL() bool {
	return g.Conversion == URLConversion
}

func (g FullGenerate) String() string {
	return fmt.Sprintf("generate[%s %s(%s)]", g.FileType, g.Conversion, g.OriginalPath)
}

// GenerateLocation is the generate side of a file: Empty or Full. There is
// no partial tier; partially generated bytes surface as a partial local
// location instead.
type GenerateLocation struct {
	Kind LocationKind  `json:"kind"`
	Full *FullGenerate `json:"full,omitempty"`
}

// EmptyGenerate returns an empty generate location.
func EmptyGenerate() GenerateLocation {
	return GenerateLocation{Kind: LocationEmpty}
}

// NewFullGenerate returns a full generate location.
func NewFullGenerate(g FullGenerate) GenerateLocation {
	return GenerateLocation{Kind: LocationFull, Full: &g}
}

// IsEmpty returns whether no generate recipe exists.
func (g GenerateLocation) IsEmpty() bool { return g.Kind == LocationEmpty }

// IsFull returns whether a generate recipe exists.
func (g GenerateLocation) IsFull() bool { return g.Kind == LocationFull }

// Clone returns a deep copy of g.
func (g GenerateLocation) Clone() GenerateLocation {
	if g.Kind == LocationFull {
		f := *g.Full
		return GenerateLocation{Kind: LocationFull, Full: &f}
	}
	return EmptyGenerate()
}
