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

package env

import (
	"github.com/emirpasic/gods/sets/treeset"

	"github.com/joos1w/semcheck/diagnostic"
)

// GlobalContext is the root of the environment built by phase 2: every
// declared type plus the package-name index used for on-demand-import
// resolution (spec §3, §4.3).
type GlobalContext struct {
	// Symbols maps a type's canonical dotted name to its TypeSymbol; the
	// source of truth for "does this type exist".
	Symbols map[string]TypeSymbol

	// Packages maps a package name (possibly "" for the default package)
	// to the ordered set of simple type names declared in it, supporting
	// on-demand-import resolution (spec §4.3) with a deterministic
	// iteration order for diagnostics.
	Packages map[string]*treeset.Set

	// ScopeOf maps every scope-introducing cst node (a class/interface
	// body, a method/constructor body, a nested block, a for-loop) to the
	// Scope phase 2 built for it, so later phases (disambig, typecheck)
	// can walk a method body re-using the exact same scope objects
	// instead of re-deriving the scope tree.
	ScopeOf map[interface{}]*Scope
}

// NewGlobalContext creates an empty environment.
func NewGlobalContext() *GlobalContext {
	return &GlobalContext{
		Symbols:  make(map[string]TypeSymbol),
		Packages: make(map[string]*treeset.Set),
		ScopeOf:  make(map[interface{}]*Scope),
	}
}

// byStringComparator orders treeset elements as plain strings.
func byStringComparator(a, b interface{}) int {
	sa, sb := a.(string), b.(string)
	switch {
	case sa < sb:
		return -1
	case sa > sb:
		return 1
	default:
		return 0
	}
}

// Declare registers a newly-built type symbol, rejecting a duplicate
// canonical name (spec §4.1: "no two types may share a canonical name").
func (g *GlobalContext) Declare(pkg string, sym TypeSymbol) error {
	if _, exists := g.Symbols[sym.CanonicalName()]; exists {
		return diagnostic.New("duplicate type declaration %q", sym.CanonicalName())
	}
	g.Symbols[sym.CanonicalName()] = sym

	set, ok := g.Packages[pkg]
	if !ok {
		set = treeset.NewWith(byStringComparator)
		g.Packages[pkg] = set
	}
	set.Add(sym.SimpleName())
	return nil
}

// Lookup returns the type symbol declared under canonicalName, or nil.
func (g *GlobalContext) Lookup(canonicalName string) TypeSymbol {
	return g.Symbols[canonicalName]
}

// PackageMembers returns the simple names declared in pkg, in sorted
// order, or nil if the package has no declared types.
func (g *GlobalContext) PackageMembers(pkg string) []string {
	set, ok := g.Packages[pkg]
	if !ok {
		return nil
	}
	vals := set.Values()
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = v.(string)
	}
	return out
}

// HasPackage reports whether any type was declared under pkg — used by
// the type linker to distinguish "qualified name denotes a package
// prefix" from "qualified name denotes an unknown type" (spec §4.3).
func (g *GlobalContext) HasPackage(pkg string) bool {
	_, ok := g.Packages[pkg]
	return ok
}

// Clone returns a new GlobalContext seeded with g's entries. The
// Symbols and ScopeOf maps are copied shallowly — the TypeSymbol and
// Scope values themselves are shared, so re-running type linking and
// member-type resolution over the clone rewrites them in place (hierarchy
// checking skips a type already checked) — but each package's member set is
// copied into a fresh treeset so a later Declare against the clone
// can't leak a new type back into g. The analyzer uses this to hand
// each compilation its own environment without re-parsing and
// re-checking the standard library on every invocation.
func (g *GlobalContext) Clone() *GlobalContext {
	clone := &GlobalContext{
		Symbols:  make(map[string]TypeSymbol, len(g.Symbols)),
		Packages: make(map[string]*treeset.Set, len(g.Packages)),
		ScopeOf:  make(map[interface{}]*Scope, len(g.ScopeOf)),
	}
	for k, v := range g.Symbols {
		clone.Symbols[k] = v
	}
	for k, v := range g.ScopeOf {
		clone.ScopeOf[k] = v
	}
	for pkg, set := range g.Packages {
		fresh := treeset.NewWith(byStringComparator)
		for _, v := range set.Values() {
			fresh.Add(v)
		}
		clone.Packages[pkg] = fresh
	}
	return clone
}
