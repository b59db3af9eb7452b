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

// Package disambig implements phase 5: classifying every dotted
// identifier chain in an expression context as a package name, a type
// name, or an expression (field access rooted at a local/parameter/field/
// this), per spec §4.5; a method invocation's receiver chain is
// classified the same way, and the method name itself is not. Resolved
// classifications are kept in a side Table keyed by the chain's cst
// nodes, mirroring the teacher's own symbol-table-not-on-the-node
// pattern (see DESIGN.md), so package cst stays free of an env import.
package disambig

import (
	"sort"

	"github.com/joos1w/semcheck/cst"
	"github.com/joos1w/semcheck/diagnostic"
	"github.com/joos1w/semcheck/env"
)

// Kind classifies one prefix of a dotted chain.
type Kind int

const (
	// Package names a package, possibly the prefix of a longer package.
	Package Kind = iota
	// TypeName names a class or interface.
	TypeName
	// Expr is a value-producing expression (local, parameter, field, or
	// this, possibly followed by further field accesses).
	Expr
)

// Entry is the resolved classification of one chain node.
type Entry struct {
	Kind Kind

	// PackageName is set when Kind == Package.
	PackageName string
	// Type is set when Kind == TypeName.
	Type env.TypeSymbol
	// Value is set when Kind == Expr: the static type of the expression
	// up to and including this node.
	Value env.TypeValue
}

// Table maps a chain node (an *cst.Identifier or *cst.AccessPath) to its
// resolved classification.
type Table struct {
	entries map[cst.Node]*Entry
}

// NewTable creates an empty classification table.
func NewTable() *Table {
	return &Table{entries: make(map[cst.Node]*Entry)}
}

// Lookup returns the classification recorded for n, or nil if n was never
// classified (e.g. it is not part of a name chain).
func (t *Table) Lookup(n cst.Node) *Entry {
	return t.entries[n]
}

func (t *Table) set(n cst.Node, e *Entry) {
	t.entries[n] = e
}

// Run walks every field initializer and method/constructor body in g,
// classifying every name chain it finds, and returns the resulting Table.
// It must run after phase 4 (hierarchy check) and before phase 6 (spec
// §5).
func Run(g *env.GlobalContext) (*Table, error) {
	table := NewTable()

	names := make([]string, 0, len(g.Symbols))
	for name := range g.Symbols {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		class, ok := g.Symbols[name].(*env.ClassSymbol)
		if !ok {
			continue
		}
		if err := runClass(g, table, class); err != nil {
			return nil, err
		}
	}
	return table, nil
}

func runClass(g *env.GlobalContext, table *Table, c *env.ClassSymbol) error {
	for _, f := range c.Fields {
		if f.Decl == nil || f.Decl.Init == nil {
			continue
		}
		if err := classifyAllIn(g, table, c, c.BodyScope, f.Decl.Init); err != nil {
			return err
		}
	}

	for _, m := range c.Methods {
		if m.Decl == nil || m.Decl.Body == nil {
			continue
		}
		scope := g.ScopeOf[m.Decl.Body]
		if scope == nil {
			scope = c.BodyScope
		}
		if err := runStmt(g, table, c, scope, m.Decl.Body); err != nil {
			return err
		}
	}

	for _, ctor := range c.Constructors {
		if ctor.Decl == nil || ctor.Decl.Body == nil {
			continue
		}
		scope := g.ScopeOf[ctor.Decl.Body]
		if scope == nil {
			scope = c.BodyScope
		}
		if err := runStmt(g, table, c, scope, ctor.Decl.Body); err != nil {
			return err
		}
	}
	return nil
}

// runStmt mirrors env's phase-2 scope-tree walk so every expression is
// classified in the scope it actually occurs in.
func runStmt(g *env.GlobalContext, table *Table, owner *env.ClassSymbol, scope *env.Scope, stmt cst.Statement) error {
	switch s := stmt.(type) {
	case *cst.Block:
		child := g.ScopeOf[s]
		if child == nil {
			child = scope
		}
		for _, inner := range s.Stmts {
			if err := runStmt(g, table, owner, child, inner); err != nil {
				return err
			}
		}
		return nil

	case *cst.LocalVarDecl:
		if s.Init != nil {
			return classifyAllIn(g, table, owner, scope, s.Init)
		}
		return nil

	case *cst.ExprStmt:
		return classifyAllIn(g, table, owner, scope, s.Expr)

	case *cst.IfStmt:
		if err := classifyAllIn(g, table, owner, scope, s.Cond); err != nil {
			return err
		}
		if err := runStmt(g, table, owner, scope, s.Then); err != nil {
			return err
		}
		if s.Else != nil {
			return runStmt(g, table, owner, scope, s.Else)
		}
		return nil

	case *cst.WhileStmt:
		if err := classifyAllIn(g, table, owner, scope, s.Cond); err != nil {
			return err
		}
		return runStmt(g, table, owner, scope, s.Body)

	case *cst.ForStmt:
		child := g.ScopeOf[s]
		if child == nil {
			child = scope
		}
		if s.Init != nil {
			if err := runStmt(g, table, owner, child, s.Init); err != nil {
				return err
			}
		}
		if s.Cond != nil {
			if err := classifyAllIn(g, table, owner, child, s.Cond); err != nil {
				return err
			}
		}
		if s.Update != nil {
			if err := runStmt(g, table, owner, child, s.Update); err != nil {
				return err
			}
		}
		return runStmt(g, table, owner, child, s.Body)

	case *cst.ReturnStmt:
		if s.Value != nil {
			return classifyAllIn(g, table, owner, scope, s.Value)
		}
		return nil

	default:
		return nil
	}
}

// classifyAllIn classifies every name-chain node within expr (which may
// itself be a larger expression containing many chains, e.g. binary
// operands or call arguments).
func classifyAllIn(g *env.GlobalContext, table *Table, owner *env.ClassSymbol, scope *env.Scope, expr cst.Expression) error {
	return cst.Inspect(expr, func(n cst.Node) error {
		switch n.(type) {
		case *cst.Identifier, *cst.AccessPath:
			_, err := classify(g, table, owner, scope, n.(cst.Expression))
			return err
		default:
			return nil
		}
	})
}

// classify resolves one chain node, walking left-to-right: shorter
// prefixes are classified first (the recursion classifies the Operand
// before combining it with Field), and the first prefix that resolves to
// a local/field/type/package fixes the classification carried forward
// (spec §4.5).
func classify(g *env.GlobalContext, table *Table, owner *env.ClassSymbol, scope *env.Scope, expr cst.Expression) (*Entry, error) {
	if e := table.Lookup(expr); e != nil {
		return e, nil
	}

	switch node := expr.(type) {
	case *cst.ThisExpr:
		e := &Entry{Kind: Expr, Value: &env.ReferenceTypeValue{Decl: owner, Static: false}}
		table.set(node, e)
		return e, nil

	case *cst.Identifier:
		e, err := classifyRoot(g, owner, scope, node.Name)
		if err != nil {
			return nil, diagnostic.At(node.Pos(), "%v", err)
		}
		table.set(node, e)
		return e, nil

	case *cst.AccessPath:
		prefix, err := classify(g, table, owner, scope, node.Operand)
		if err != nil {
			return nil, err
		}
		if prefix == nil {
			// Operand isn't itself a name chain (e.g. a method call
			// result): this access path is an ordinary field access off
			// an arbitrary value, left for the type checker.
			return nil, nil
		}
		e, err := classifyStep(g, owner, prefix, node.Field)
		if err != nil {
			return nil, diagnostic.At(node.Pos(), "%v", err)
		}
		table.set(node, e)
		return e, nil

	default:
		return nil, nil
	}
}

func classifyRoot(g *env.GlobalContext, owner *env.ClassSymbol, scope *env.Scope, name string) (*Entry, error) {
	local, err := scope.Resolve(name)
	if err != nil {
		return nil, err
	}
	if local != nil {
		switch sym := local.(type) {
		case *env.LocalVarSymbol:
			return &Entry{Kind: Expr, Value: sym.Type}, nil
		case *env.FieldSymbol:
			return &Entry{Kind: Expr, Value: sym.Type}, nil
		}
	}

	if tv := owner.ResolveName(name); tv != nil {
		if ref, ok := tv.(*env.ReferenceTypeValue); ok {
			return &Entry{Kind: TypeName, Type: ref.Decl}, nil
		}
	}

	if isPackagePrefix(g, name) {
		return &Entry{Kind: Package, PackageName: name}, nil
	}

	return nil, diagnostic.New("name %q does not resolve to a variable, type, or package", name)
}

func classifyStep(g *env.GlobalContext, owner *env.ClassSymbol, prefix *Entry, field string) (*Entry, error) {
	switch prefix.Kind {
	case Expr:
		f, err := prefix.Value.ResolveField(field, owner, false)
		if err != nil {
			return nil, err
		}
		if f == nil {
			return nil, diagnostic.New("cannot resolve field %q", field)
		}
		return &Entry{Kind: Expr, Value: f.Type}, nil

	case TypeName:
		f, err := prefix.Type.ResolveField(field, owner, true)
		if err != nil {
			return nil, err
		}
		if f != nil {
			return &Entry{Kind: Expr, Value: f.Type}, nil
		}
		return nil, diagnostic.New("cannot resolve static member %q on type %s", field, prefix.Type.CanonicalName())

	case Package:
		next := prefix.PackageName + "." + field
		if sym := g.Lookup(next); sym != nil {
			return &Entry{Kind: TypeName, Type: sym}, nil
		}
		if isPackagePrefix(g, next) {
			return &Entry{Kind: Package, PackageName: next}, nil
		}
		return nil, diagnostic.New("package %q has no member %q", prefix.PackageName, field)
	}
	return nil, diagnostic.New("unreachable chain classification")
}

func isPackagePrefix(g *env.GlobalContext, name string) bool {
	if g.HasPackage(name) {
		return true
	}
	prefix := name + "."
	for pkg := range g.Packages {
		if len(pkg) > len(prefix) && pkg[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}
