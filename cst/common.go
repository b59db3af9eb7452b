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

// Package cst defines the concrete syntax tree node kinds that the rest of
// the analyzer consumes. The tree itself is produced by an external
// collaborator (a lexer/parser); this package only fixes the shape of its
// output, in the spirit of a tagged variant over node kinds (see
// DESIGN.md). A minimal reference parser lives in package parse.
package cst

// Position is a (line, column) source location, 1-indexed. Every node
// carries one so that later phases (forward-reference checks, error
// reporting) can compare source positions.
type Position struct {
	Line   int
	Column int
}

// Node is the interface every concrete syntax tree node implements.
type Node interface {
	Pos() Position
	node()
}

// Base carries the position shared by every node kind; embed it by value.
type Base struct {
	P Position
}

// Pos returns the node's source position.
func (b Base) Pos() Position { return b.P }

func (Base) node() {}

// TypeRef is the common interface for syntactic type references: a named
// type, a primitive type, an array type, or void.
type TypeRef interface {
	Node
	typeRef()
}

// Expression is the common interface for all expression nodes.
type Expression interface {
	Node
	expr()
}

// Statement is the common interface for all statement nodes.
type Statement interface {
	Node
	stmt()
}

// ImportKind distinguishes a single-type import from an on-demand
// (wildcard) import.
type ImportKind int

const (
	// SingleTypeImport imports exactly one canonical type name.
	SingleTypeImport ImportKind = iota
	// OnDemandImport imports every public type of a package.
	OnDemandImport
)

// PackageDecl is the optional package declaration of a compilation unit.
type PackageDecl struct {
	Base
	// Name is the canonical (dotted) package name.
	Name string
}

// ImportDecl is one import declaration.
type ImportDecl struct {
	Base
	Kind ImportKind
	// Name is the canonical type name (SingleTypeImport) or package name
	// (OnDemandImport).
	Name string
}

// CompilationUnit is the root of a single file's parse tree. It contains
// an optional package declaration, zero or more imports, and exactly one
// top-level type declaration, per spec's parse-tree contract.
type CompilationUnit struct {
	Base
	Package    *PackageDecl
	Imports    []*ImportDecl
	Type       TypeDecl
	// FileBaseName is the source file's base name without extension, used
	// by the weeder's public-type/file-name check.
	FileBaseName string
}

func (c *CompilationUnit) node() {}

// TypeDecl is the common interface for ClassDecl and InterfaceDecl.
type TypeDecl interface {
	Node
	DeclName() string
	DeclModifiers() []string
	typeDecl()
}

// ClassDecl is a class declaration.
type ClassDecl struct {
	Base
	Name         string
	Modifiers    []string
	Extends      string // empty if none
	Implements   []string
	Fields       []*FieldDecl
	Methods      []*MethodDecl
	Constructors []*ConstructorDecl
}

func (c *ClassDecl) node()                    {}
func (c *ClassDecl) typeDecl()                {}
func (c *ClassDecl) DeclName() string         { return c.Name }
func (c *ClassDecl) DeclModifiers() []string  { return c.Modifiers }

// InterfaceDecl is an interface declaration.
type InterfaceDecl struct {
	Base
	Name      string
	Modifiers []string
	Extends   []string
	Methods   []*MethodDecl
}

func (i *InterfaceDecl) node()                   {}
func (i *InterfaceDecl) typeDecl()                {}
func (i *InterfaceDecl) DeclName() string        { return i.Name }
func (i *InterfaceDecl) DeclModifiers() []string { return i.Modifiers }

// FieldDecl is a field declaration.
type FieldDecl struct {
	Base
	Name      string
	Modifiers []string
	Type      TypeRef
	Init      Expression // may be nil
}

func (f *FieldDecl) node() {}

// Param is a single formal parameter.
type Param struct {
	Base
	Name string
	Type TypeRef
}

func (p *Param) node() {}

// MethodDecl is a method declaration. Body is nil for abstract/native/
// interface methods.
type MethodDecl struct {
	Base
	Name       string
	Modifiers  []string
	Params     []*Param
	ReturnType TypeRef
	Body       *Block
}

func (m *MethodDecl) node() {}

// ConstructorDecl is a constructor declaration.
type ConstructorDecl struct {
	Base
	Modifiers []string
	Params    []*Param
	Body      *Block
}

func (c *ConstructorDecl) node() {}
