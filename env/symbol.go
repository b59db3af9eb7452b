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

// Package env implements the global symbol environment: the scope tree,
// symbol kinds, and the type-directed member-resolution/access-control
// rules that later phases query (spec §3, §4.2, §4.4 inheritance data).
package env

import (
	"github.com/joos1w/semcheck/cst"
)

// Symbol is the common interface for everything that can be declared into
// a Scope: types, fields, methods, constructors, and locals/parameters.
type Symbol interface {
	SymbolName() string
}

// TypeSymbol is the common interface for ClassSymbol and InterfaceSymbol —
// the only symbols stored in GlobalContext.Symbols and referenced by
// TypeValue.
type TypeSymbol interface {
	Symbol
	// CanonicalName is the type's fully-qualified dotted name.
	CanonicalName() string
	// SimpleName is the final identifier of CanonicalName.
	SimpleName() string
	Modifiers() []string
	IsClass() bool
	// ResolveName resolves a textual type name from this type's point of
	// view, per the type_names table filled in by phase 3.
	ResolveName(name string) TypeValue
	// ResolveField finds a field by simple name, applying access control
	// for the given accessor and call-site staticness.
	ResolveField(name string, accessor TypeSymbol, static bool) (*FieldSymbol, error)
	// ResolveMethod finds a method by name and exact parameter-type
	// signature, applying access control.
	ResolveMethod(name string, argTypes []TypeValue, accessor TypeSymbol, static bool) (*MethodSymbol, error)
	// IsSubclassOf reports whether this type is the same as, or
	// transitively extends, the type named canonicalName.
	IsSubclassOf(canonicalName string) bool
	// ImplementsInterface reports whether this class transitively
	// implements the interface named canonicalName.
	ImplementsInterface(canonicalName string) bool
	// TypeNamesTable exposes the per-type resolution table for phase 3 to
	// fill in directly.
	TypeNamesTable() map[string]TypeSymbol
	// ImportList returns this compilation unit's import declarations.
	ImportList() []*cst.ImportDecl
}

// ClassSymbol is a declared class.
type ClassSymbol struct {
	Decl      *cst.ClassDecl
	Name      string // canonical name
	Mods      []string
	Super     string   // unresolved extends name, "" if none
	Ifaces    []string // unresolved implements names
	SuperSym  *ClassSymbol
	IfaceSyms []*InterfaceSymbol

	// Imports is this compilation unit's import list, including the
	// implicit "java.lang.*" on-demand import, used by phase 3 (spec
	// §4.3).
	Imports []*cst.ImportDecl

	Fields       []*FieldSymbol
	Methods      []*MethodSymbol
	Constructors []*ConstructorSymbol

	// TypeNames is the per-type resolution table (spec §3) mapping every
	// textual type name appearing in the declaration to its resolved
	// TypeSymbol, filled in by phase 3.
	TypeNames map[string]TypeSymbol

	BodyScope *Scope

	// Checked marks that phase 4 has finished processing this type,
	// enforcing "hierarchy check of T completes before T is used as a
	// supertype" (spec §5).
	Checked bool
}

func (c *ClassSymbol) SymbolName() string    { return c.Name }
func (c *ClassSymbol) CanonicalName() string { return c.Name }
func (c *ClassSymbol) SimpleName() string    { return simpleName(c.Name) }
func (c *ClassSymbol) Modifiers() []string   { return c.Mods }
func (c *ClassSymbol) IsClass() bool         { return true }
func (c *ClassSymbol) TypeNamesTable() map[string]TypeSymbol { return c.TypeNames }
func (c *ClassSymbol) ImportList() []*cst.ImportDecl          { return c.Imports }

// InterfaceSymbol is a declared interface.
type InterfaceSymbol struct {
	Decl    *cst.InterfaceDecl
	Name    string
	Mods    []string
	Extends []string
	Supers  []*InterfaceSymbol

	Imports []*cst.ImportDecl

	Methods []*MethodSymbol

	TypeNames map[string]TypeSymbol
	BodyScope *Scope

	Checked bool
}

func (i *InterfaceSymbol) SymbolName() string    { return i.Name }
func (i *InterfaceSymbol) CanonicalName() string { return i.Name }
func (i *InterfaceSymbol) SimpleName() string    { return simpleName(i.Name) }
func (i *InterfaceSymbol) Modifiers() []string   { return i.Mods }
func (i *InterfaceSymbol) IsClass() bool         { return false }
func (i *InterfaceSymbol) TypeNamesTable() map[string]TypeSymbol { return i.TypeNames }
func (i *InterfaceSymbol) ImportList() []*cst.ImportDecl          { return i.Imports }

// FieldSymbol is a declared (or inherited) field.
type FieldSymbol struct {
	Decl          *cst.FieldDecl // nil for the synthetic array "length" field
	DeclaringType TypeSymbol
	Name          string
	Mods          []string
	Type          TypeValue
}

func (f *FieldSymbol) SymbolName() string { return f.Name }

// MethodSymbol is a declared (or inherited) method.
type MethodSymbol struct {
	Decl          *cst.MethodDecl
	DeclaringType TypeSymbol
	Name          string
	Mods          []string
	ParamTypes    []TypeValue
	ParamNames    []string
	ReturnType    TypeValue // nil for void
	HasBody       bool
}

func (m *MethodSymbol) SymbolName() string { return m.Name }

// Signature returns the method's name+parameter-type signature (spec
// glossary: "Signature").
func (m *MethodSymbol) Signature() string {
	return signatureOf(m.Name, m.ParamTypes)
}

// ConstructorSymbol is a declared constructor.
type ConstructorSymbol struct {
	Decl          *cst.ConstructorDecl
	DeclaringType *ClassSymbol
	Mods          []string
	ParamTypes    []TypeValue
	ParamNames    []string
}

func (c *ConstructorSymbol) SymbolName() string { return "<init>" }

// LocalVarSymbol is a declared local variable or formal parameter.
type LocalVarSymbol struct {
	Decl      cst.Node // *cst.LocalVarDecl or *cst.Param
	Name      string
	Type      TypeValue
	IsParam   bool
}

func (l *LocalVarSymbol) SymbolName() string { return l.Name }

func signatureOf(name string, paramTypes []TypeValue) string {
	sig := name + "("
	for i, p := range paramTypes {
		if i > 0 {
			sig += ","
		}
		sig += p.TypeName()
	}
	return sig + ")"
}

func simpleName(canonical string) string {
	last := canonical
	for i := len(canonical) - 1; i >= 0; i-- {
		if canonical[i] == '.' {
			last = canonical[i+1:]
			break
		}
	}
	return last
}

func packageOf(canonical string) string {
	for i := len(canonical) - 1; i >= 0; i-- {
		if canonical[i] == '.' {
			return canonical[:i]
		}
	}
	return ""
}
