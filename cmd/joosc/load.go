//  Copyright (c) 2023 Uber Technologies, Inc.
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

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/joos1w/semcheck/analyze"
	"github.com/joos1w/semcheck/cst"
	"github.com/joos1w/semcheck/parse"
)

// newPipeline builds the analyzer's standard-library-seeded pipeline,
// using an operator-supplied stdlib root when stdlibDir is non-empty and
// falling back to the embedded java.lang/java.io stubs otherwise.
func newPipeline(stdlibDir string) (*analyze.Pipeline, error) {
	if stdlibDir != "" {
		return analyze.NewWithStdlibDir(stdlibDir)
	}
	return analyze.New()
}

// loadFiles parses each named .java file into a compilation unit.
func loadFiles(paths []string) ([]*cst.CompilationUnit, error) {
	units := make([]*cst.CompilationUnit, 0, len(paths))
	for _, p := range paths {
		u, err := loadFile(p)
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, nil
}

func loadFile(path string) (*cst.CompilationUnit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	base := strings.TrimSuffix(filepath.Base(path), ".java")
	u, err := parse.File(base, data)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", path, err)
	}
	return u, nil
}

// javaFilesIn returns every "*.java" file directly under dir, sorted by
// base name, matching the convention that a test directory's first file
// (alphabetically) drives the Je-prefix expectation (spec §6).
func javaFilesIn(dir string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), "*.java")
	if err != nil {
		return nil, fmt.Errorf("globbing %q: %w", dir, err)
	}
	sort.Strings(matches)
	paths := make([]string, len(matches))
	for i, m := range matches {
		paths[i] = filepath.Join(dir, m)
	}
	return paths, nil
}
