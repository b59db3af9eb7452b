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

// Package stdlib ships the minimal java.lang/java.io standard-library
// stubs the analyzer needs to resolve java.lang.Object, java.lang.String,
// java.lang.Cloneable, java.io.Serializable, and the numeric wrapper
// classes referenced implicitly in string concatenation (spec glossary,
// "Standard library"). The stubs are embedded so the CLI runs without any
// external directory, and are parsed/environment-built exactly like user
// source (spec glossary: "parsed and environment-built exactly like user
// code").
package stdlib

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/joos1w/semcheck/cst"
	"github.com/joos1w/semcheck/parse"
)

//go:embed src
var embedded embed.FS

// Load parses every embedded stub source file into a compilation unit, in
// sorted path order so downstream diagnostics (duplicate-name errors,
// report ordering) are deterministic across runs.
func Load() ([]*cst.CompilationUnit, error) {
	return loadFS(embedded, "src")
}

// LoadDir parses every "*.java" file found (recursively) under root,
// using doublestar, the glob library the CLI also uses to list the
// *.java files of each test directory. It lets an operator point the analyzer at a
// fuller standard-library checkout instead of the embedded stubs.
func LoadDir(root string) ([]*cst.CompilationUnit, error) {
	return loadFS(os.DirFS(root), ".")
}

func loadFS(fsys fs.FS, root string) ([]*cst.CompilationUnit, error) {
	pattern := root
	if pattern != "." {
		pattern += "/**/*.java"
	} else {
		pattern = "**/*.java"
	}
	paths, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("globbing stdlib sources under %q: %w", root, err)
	}
	sort.Strings(paths)

	units := make([]*cst.CompilationUnit, 0, len(paths))
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("reading stdlib source %q: %w", p, err)
		}
		base := strings.TrimSuffix(filepath.Base(p), ".java")
		unit, err := parse.File(base, data)
		if err != nil {
			return nil, fmt.Errorf("parsing stdlib source %q: %w", p, err)
		}
		units = append(units, unit)
	}
	return units, nil
}
