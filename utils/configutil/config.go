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

// Package configutil loads and validates YAML configuration files.
//
// A file may name a base file through an "extends" directive:
//
//	extends: base.yaml
//
// Bases form a single chain and are applied base-first, so values in the
// extending file win. Struct and map fields merge key by key across the
// chain; scalars and arrays are replaced wholesale by the later file.
// The merged result is checked against validator tags before it is
// returned.
package configutil

import (
	"errors"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"

	"gopkg.in/validator.v2"
	"gopkg.in/yaml.v2"

	"github.com/vexel-im/courier/utils/stringset"
)

// ErrCycleRef is returned when configuration files extend each other in
// a cycle.
var ErrCycleRef = errors.New("cyclic reference in configuration extends detected")

// ValidationError is returned when the merged configuration fails
// validation.
type ValidationError struct {
	errs validator.ErrorMap
}

// ErrForField returns the validation error for the given field.
func (e ValidationError) ErrForField(name string) error {
	return e.errs[name]
}

func (e ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("validation failed")
	for field, err := range e.errs {
		fmt.Fprintf(&b, "   %s: %v\n", field, err)
	}
	return b.String()
}

// Load reads filename, follows its extends chain and unmarshals every
// file in base-first order into config, then validates the merged
// result.
func Load(filename string, config interface{}) error {
	chain, err := readChain(filename)
	if err != nil {
		return err
	}
	for i := len(chain) - 1; i >= 0; i-- {
		if err := yaml.Unmarshal(chain[i].data, config); err != nil {
			return fmt.Errorf("unmarshal %s: %s", chain[i].name, err)
		}
	}
	if err := validator.Validate(config); err != nil {
		return ValidationError{err.(validator.ErrorMap)}
	}
	return nil
}

type configFile struct {
	name string
	data []byte
}

// readChain returns filename and its transitive bases, leaf first. Each
// file is read exactly once.
func readChain(filename string) ([]configFile, error) {
	var chain []configFile
	seen := make(stringset.Set)
	for filename != "" {
		if seen.Has(filename) {
			return nil, ErrCycleRef
		}
		seen.Add(filename)

		data, err := ioutil.ReadFile(filename)
		if err != nil {
			return nil, err
		}
		chain = append(chain, configFile{filename, data})

		var directive struct {
			Extends string `yaml:"extends"`
		}
		if err := yaml.Unmarshal(data, &directive); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %s", filename, err)
		}
		next := directive.Extends
		// A relative base lives next to the file extending it.
		if next != "" && !filepath.IsAbs(next) {
			next = filepath.Join(filepath.Dir(filename), next)
		}
		filename = next
	}
	return chain, nil
}
