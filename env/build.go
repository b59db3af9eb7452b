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

// Build adds one parsed compilation unit to the global environment:
// one ClassSymbol/InterfaceSymbol for its type, a body
// scope per class/interface/method/constructor/block, and a type_names
// resolution table seeded with every textual type name the declaration
// mentions, left unresolved for phase 3 (spec §4.2, ported from
// build_environment.py).
func Build(global *GlobalContext, unit *cst.CompilationUnit) error {
	return buildUnit(global, unit)
}

// BuildAll runs Build over a fresh global context for every unit in
// units, in order. It is the convenience entrypoint for callers (tests,
// one-off tooling) that have no existing context to merge into; the
// analyzer itself calls Build directly, once per unit, against its
// stdlib-seeded clone (spec §9's "standard-library preloading" note).
func BuildAll(units []*cst.CompilationUnit) (*GlobalContext, error) {
	g := NewGlobalContext()
	for _, u := range units {
		if err := Build(g, u); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// newScope creates a scope and records it under g.ScopeOf for later
// phases to re-use.
func newScope(g *GlobalContext, parent *Scope, tree cst.Node) *Scope {
	s := NewScope(parent, tree)
	g.ScopeOf[tree] = s
	return s
}

func buildUnit(g *GlobalContext, u *cst.CompilationUnit) error {
	pkg := ""
	if u.Package != nil {
		pkg = u.Package.Name
	}
	if u.Type == nil {
		return nil
	}

	qualify := func(simple string) string {
		if pkg == "" {
			return simple
		}
		return pkg + "." + simple
	}

	imports := append([]*cst.ImportDecl{{Kind: cst.OnDemandImport, Name: "java.lang"}}, u.Imports...)

	switch decl := u.Type.(type) {
	case *cst.ClassDecl:
		sym := &ClassSymbol{
			Decl:   decl,
			Name:   qualify(decl.Name),
			Mods:   decl.Modifiers,
			Super:  decl.Extends,
			Ifaces: decl.Implements,

			Imports:   imports,
			TypeNames: make(map[string]TypeSymbol),
		}
		sym.BodyScope = newScope(g, nil, decl)
		sym.BodyScope.ParentNode = sym

		enqueueName(sym.TypeNames, sym.Super)
		for _, i := range sym.Ifaces {
			enqueueName(sym.TypeNames, i)
		}

		for _, f := range decl.Fields {
			enqueueTypeRef(sym.TypeNames, f.Type)
			field := &FieldSymbol{Decl: f, DeclaringType: sym, Name: f.Name, Mods: f.Modifiers}
			sym.Fields = append(sym.Fields, field)
		}

		for _, m := range decl.Methods {
			if err := buildMethod(g, sym.TypeNames, sym.BodyScope, sym, m); err != nil {
				return err
			}
		}

		for _, c := range decl.Constructors {
			if err := buildConstructor(g, sym.TypeNames, sym.BodyScope, sym, c); err != nil {
				return err
			}
		}

		if err := g.Declare(pkg, sym); err != nil {
			return err
		}

	case *cst.InterfaceDecl:
		sym := &InterfaceSymbol{
			Decl:    decl,
			Name:    qualify(decl.Name),
			Mods:    decl.Modifiers,
			Extends: decl.Extends,

			Imports:   imports,
			TypeNames: make(map[string]TypeSymbol),
		}
		sym.BodyScope = newScope(g, nil, decl)
		sym.BodyScope.ParentNode = sym

		for _, e := range sym.Extends {
			enqueueName(sym.TypeNames, e)
		}

		for _, m := range decl.Methods {
			if err := buildInterfaceMethod(sym.TypeNames, sym.BodyScope, sym, m); err != nil {
				return err
			}
		}

		if err := g.Declare(pkg, sym); err != nil {
			return err
		}
	}

	return nil
}

func buildMethod(g *GlobalContext, typeNames map[string]TypeSymbol, parentScope *Scope, owner *ClassSymbol, m *cst.MethodDecl) error {
	sym := &MethodSymbol{
		Decl:          m,
		DeclaringType: owner,
		Name:          m.Name,
		Mods:          m.Modifiers,
		HasBody:       m.Body != nil,
	}
	if m.ReturnType != nil {
		enqueueTypeRef(typeNames, m.ReturnType)
	}
	for _, p := range m.Params {
		enqueueTypeRef(typeNames, p.Type)
		sym.ParamNames = append(sym.ParamNames, p.Name)
	}
	owner.Methods = append(owner.Methods, sym)

	if m.Body != nil {
		methodScope := newScope(g, parentScope, m)
		methodScope.ParentNode = sym
		methodScope.IsStatic = hasModifier(m.Modifiers, "static")
		if err := declareParams(methodScope, m.Params); err != nil {
			return err
		}
		g.ScopeOf[m.Body] = methodScope
		return buildBlock(g, methodScope, m.Body)
	}
	return nil
}

func buildInterfaceMethod(typeNames map[string]TypeSymbol, parentScope *Scope, owner *InterfaceSymbol, m *cst.MethodDecl) error {
	sym := &MethodSymbol{
		Decl:          m,
		DeclaringType: owner,
		Name:          m.Name,
		Mods:          append(append([]string{}, m.Modifiers...), "abstract"),
	}
	if m.ReturnType != nil {
		enqueueTypeRef(typeNames, m.ReturnType)
	}
	for _, p := range m.Params {
		enqueueTypeRef(typeNames, p.Type)
		sym.ParamNames = append(sym.ParamNames, p.Name)
	}
	owner.Methods = append(owner.Methods, sym)
	return nil
}

func buildConstructor(g *GlobalContext, typeNames map[string]TypeSymbol, parentScope *Scope, owner *ClassSymbol, c *cst.ConstructorDecl) error {
	sym := &ConstructorSymbol{
		Decl:          c,
		DeclaringType: owner,
		Mods:          c.Modifiers,
	}
	for _, p := range c.Params {
		enqueueTypeRef(typeNames, p.Type)
		sym.ParamNames = append(sym.ParamNames, p.Name)
	}
	owner.Constructors = append(owner.Constructors, sym)

	ctorScope := newScope(g, parentScope, c)
	ctorScope.ParentNode = sym
	if err := declareParams(ctorScope, c.Params); err != nil {
		return err
	}
	if c.Body != nil {
		g.ScopeOf[c.Body] = ctorScope
		return buildBlock(g, ctorScope, c.Body)
	}
	return nil
}

func declareParams(scope *Scope, params []*cst.Param) error {
	for _, p := range params {
		local := &LocalVarSymbol{Decl: p, Name: p.Name, IsParam: true}
		if err := scope.DeclareLocal(local); err != nil {
			return diagnostic.At(p.Pos(), "%v", err)
		}
	}
	return nil
}

// buildBlock recurses over a method/constructor/nested block's
// statements, declaring locals in the current scope and opening a fresh
// child scope for each nested block-bearing statement (spec §4.2).
func buildBlock(g *GlobalContext, scope *Scope, b *cst.Block) error {
	for _, stmt := range b.Stmts {
		if err := buildStmt(g, scope, stmt); err != nil {
			return err
		}
	}
	return nil
}

func buildStmt(g *GlobalContext, scope *Scope, stmt cst.Statement) error {
	switch s := stmt.(type) {
	case *cst.LocalVarDecl:
		local := &LocalVarSymbol{Decl: s, Name: s.Name}
		return scope.DeclareLocal(local)

	case *cst.Block:
		child := newScope(g, scope, s)
		child.ParentNode = scope.ParentNode
		return buildBlock(g, child, s)

	case *cst.IfStmt:
		if err := buildStmt(g, scope, s.Then); err != nil {
			return err
		}
		if s.Else != nil {
			return buildStmt(g, scope, s.Else)
		}
		return nil

	case *cst.WhileStmt:
		return buildStmt(g, scope, s.Body)

	case *cst.ForStmt:
		child := newScope(g, scope, s)
		child.ParentNode = scope.ParentNode
		if s.Init != nil {
			if err := buildStmt(g, child, s.Init); err != nil {
				return err
			}
		}
		return buildStmt(g, child, s.Body)

	default:
		return nil
	}
}

func enqueueTypeRef(table map[string]TypeSymbol, t cst.TypeRef) {
	switch ref := t.(type) {
	case *cst.NamedType:
		enqueueName(table, ref.Name)
	case *cst.ArrayTypeRef:
		enqueueTypeRef(table, ref.Elem)
	}
}

func enqueueName(table map[string]TypeSymbol, name string) {
	if name == "" {
		return
	}
	if _, ok := table[name]; !ok {
		table[name] = nil
	}
}
