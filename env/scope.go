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
	"github.com/joos1w/semcheck/cst"
	"github.com/joos1w/semcheck/diagnostic"
)

// Scope is one node of the lexical scope tree built by phase 2 (spec §3,
// §4.2). Every class/interface body, method/constructor body, and block
// gets its own Scope; name resolution walks Parent chains.
type Scope struct {
	Parent     *Scope
	ParentNode Symbol // the TypeSymbol/MethodSymbol/ConstructorSymbol this scope belongs to, if any
	Children   []*Scope
	Tree       cst.Node // the block/method/class node this scope was built for

	// IsStatic marks a scope rooted in a static method/constructor/field
	// initializer, where "this" and instance members are unreachable.
	IsStatic bool

	locals map[string]Symbol
}

// NewScope creates a child scope of parent (nil for a type's top-level
// body scope).
func NewScope(parent *Scope, tree cst.Node) *Scope {
	s := &Scope{Parent: parent, Tree: tree, locals: make(map[string]Symbol)}
	if parent != nil {
		s.IsStatic = parent.IsStatic
		parent.Children = append(parent.Children, s)
	}
	return s
}

// DeclareLocal declares a local variable or parameter, enforcing "no two
// locals/params with the same name may be visible at the same program
// point" (spec §4.2): it rejects a name already declared in this scope or
// any enclosing scope, up to but excluding the type's own body scope
// (fields are allowed to share a name with a local that shadows them).
func (s *Scope) DeclareLocal(sym *LocalVarSymbol) error {
	for walk := s; walk != nil; walk = walk.Parent {
		if _, isTypeScope := walk.ParentNode.(TypeSymbol); isTypeScope {
			break
		}
		if _, exists := walk.locals[sym.Name]; exists {
			return diagnostic.New("%q is already declared in an enclosing scope", sym.Name)
		}
	}
	s.locals[sym.Name] = sym
	return nil
}

// Declare adds any symbol to this scope without the ancestor-shadowing
// check, used for parameters at method-scope creation time and for
// synthetic declarations.
func (s *Scope) Declare(sym Symbol) {
	s.locals[sym.SymbolName()] = sym
}

// Lookup returns a symbol declared directly in this scope, or nil.
func (s *Scope) Lookup(name string) Symbol {
	return s.locals[name]
}

// Resolve walks from s outward through Parent scopes, returning the
// nearest enclosing declaration of name (a local, a parameter, or — once
// the walk reaches the type's body scope — a field via ParentNode),
// exactly as an unqualified identifier is resolved (spec §4.5). The
// static-ness of the implicit field access is fixed at s (the scope the
// name actually occurs in), not at whichever scope happens to hold the
// enclosing type: a static method nested inside a (non-static) class
// body scope must still be denied implicit access to instance fields.
//
// A non-nil error means name was found as a field but is inaccessible
// (protected/static mismatch); the caller should surface it directly
// rather than fall through to a generic "does not resolve" message.
func (s *Scope) Resolve(name string) (Symbol, error) {
	static := s.IsStatic
	for walk := s; walk != nil; walk = walk.Parent {
		if sym, ok := walk.locals[name]; ok {
			return sym, nil
		}
		if ts, ok := walk.ParentNode.(TypeSymbol); ok {
			f, err := ts.ResolveField(name, ts, static)
			if err != nil {
				return nil, err
			}
			if f != nil {
				return f, nil
			}
		}
	}
	return nil, nil
}
