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

// Package typelink implements phase 3: resolving every textual type name
// enqueued by phase 2 into a concrete TypeSymbol, and rejecting import/
// package-name clashes (spec §4.3).
package typelink

import (
	"sort"
	"strings"

	"github.com/joos1w/semcheck/cst"
	"github.com/joos1w/semcheck/diagnostic"
	"github.com/joos1w/semcheck/env"
)

func simpleName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func packageName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return ""
}

func prefixes(name string) []string {
	parts := strings.Split(name, ".")
	out := make([]string, 0, len(parts))
	curr := ""
	for _, p := range parts {
		if curr == "" {
			curr = p
		} else {
			curr = curr + "." + p
		}
		out = append(out, curr)
	}
	return out
}

// Link resolves every type name in g's per-type tables, and validates the
// import/package clash rules. It must run exactly once over the whole
// global context, after every compilation unit has been built (spec §5).
func Link(g *env.GlobalContext) error {
	names := make([]string, 0, len(g.Symbols))
	for name := range g.Symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := linkOne(g, g.Symbols[name]); err != nil {
			return err
		}
	}

	pkgs := make([]string, 0, len(g.Packages))
	for pkg := range g.Packages {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)
	for _, pkg := range pkgs {
		for _, prefix := range prefixes(pkg)[1:] {
			if g.Lookup(prefix) != nil {
				return diagnostic.New("prefix %q of package %q resolves to a type in the same environment", prefix, pkg)
			}
		}
	}
	return nil
}

func linkOne(g *env.GlobalContext, sym env.TypeSymbol) error {
	table := sym.TypeNamesTable()

	// resolve the type's own simple name to itself
	table[sym.SimpleName()] = sym

	// auto-import same-package types
	pkg := packageName(sym.CanonicalName())
	for _, simple := range g.PackageMembers(pkg) {
		canonical := simple
		if pkg != "" {
			canonical = pkg + "." + simple
		}
		if other := g.Lookup(canonical); other != nil {
			table[simple] = other
		}
	}

	// verify and resolve imports
	for _, imp := range sym.ImportList() {
		if err := linkImport(g, sym, imp); err != nil {
			return err
		}
	}

	// resolve every remaining enqueued name (ones not settled by a
	// single-type import) to a symbol, in sorted order for deterministic
	// diagnostics
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if table[name] == nil {
			if err := resolveTypeName(g, sym, name); err != nil {
				return err
			}
		}
	}

	for _, name := range names {
		if err := checkPrefixClash(sym, name); err != nil {
			return err
		}
	}

	return nil
}

func linkImport(g *env.GlobalContext, sym env.TypeSymbol, imp *cst.ImportDecl) error {
	table := sym.TypeNamesTable()

	switch imp.Kind {
	case cst.SingleTypeImport:
		simple := simpleName(imp.Name)

		if imp.Name != sym.CanonicalName() && simple == sym.SimpleName() {
			return diagnostic.New("type %s clashes with import declaration %s", sym.CanonicalName(), imp.Name)
		}
		for _, other := range sym.ImportList() {
			if other == imp || other.Kind != cst.SingleTypeImport {
				continue
			}
			if simpleName(other.Name) == simple && other.Name != imp.Name {
				return diagnostic.New("import %s clashes with %s", imp.Name, other.Name)
			}
		}

		target := g.Lookup(imp.Name)
		if target == nil {
			return diagnostic.New("import %s does not resolve to any existing type", imp.Name)
		}
		table[simple] = target

	case cst.OnDemandImport:
		prefix := imp.Name + "."
		// env.Build prepends "java.lang.*" to every unit; it is accepted
		// even in an environment built without the standard library.
		if imp.Name == "java.lang" || g.HasPackage(imp.Name) {
			return nil
		}
		for pkg := range g.Packages {
			if strings.HasPrefix(pkg, prefix) {
				return nil
			}
		}
		return diagnostic.New("imported package %s does not exist as either a package declaration or a prefix of a package declaration", imp.Name)
	}
	return nil
}

func resolveTypeName(g *env.GlobalContext, sym env.TypeSymbol, name string) error {
	table := sym.TypeNamesTable()

	if strings.Contains(name, ".") {
		target := g.Lookup(name)
		if target == nil {
			return diagnostic.New("fully qualified type %s does not resolve to any existing type", name)
		}
		table[name] = target
		return nil
	}

	found := false
	for _, imp := range sym.ImportList() {
		if imp.Kind != cst.OnDemandImport {
			continue
		}
		target := g.Lookup(imp.Name + "." + name)
		if target == nil {
			continue
		}
		if existing := table[name]; existing != nil && existing != target {
			return diagnostic.New("simple type %s resolves to conflicting types %s and %s via on-demand imports", name, existing.CanonicalName(), target.CanonicalName())
		}
		table[name] = target
		found = true
	}

	if !found {
		return diagnostic.New("simple type %s does not resolve to any existing type", name)
	}
	return nil
}

func checkPrefixClash(sym env.TypeSymbol, name string) error {
	if !strings.Contains(name, ".") {
		return nil
	}
	all := prefixes(name)
	for _, prefix := range all[:len(all)-1] {
		if sym.TypeNamesTable()[prefix] != nil {
			return diagnostic.New("prefix %s of fully qualified type %s resolves to a type in the same environment", prefix, name)
		}
	}
	return nil
}
