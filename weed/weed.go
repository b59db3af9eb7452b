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

// Package weed implements phase 1 of the pipeline: tree-shape rules too
// fiddly to express in a grammar, checked before any symbol table exists
// (spec §4.1). Every function here raises at most one *diagnostic.Error
// and returns on the first violation found, matching the "abort on first
// error" contract of spec §5.
package weed

import (
	"github.com/joos1w/semcheck/cst"
	"github.com/joos1w/semcheck/diagnostic"
)

const maxInt = 1<<31 - 1

var classModifiers = set("public", "abstract", "final")
var methodModifiers = set("public", "protected", "abstract", "static", "final", "native")
var fieldModifiers = set("public", "protected", "static")
var constructorModifiers = set("public", "protected")

func set(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

func hasDup(mods []string) bool {
	seen := make(map[string]bool, len(mods))
	for _, m := range mods {
		if seen[m] {
			return true
		}
		seen[m] = true
	}
	return false
}

func has(mods []string, name string) bool {
	for _, m := range mods {
		if m == name {
			return true
		}
	}
	return false
}

func invalidModifier(mods []string, allowed map[string]bool) string {
	for _, m := range mods {
		if !allowed[m] {
			return m
		}
	}
	return ""
}

// Check runs every weeding rule over one compilation unit, in the order
// the teacher-adjacent reference implementation applies them: file-name/
// public-modifier agreement, then per-declaration modifier and shape
// rules, then literal-range checks over every expression in the unit.
func Check(u *cst.CompilationUnit) error {
	switch decl := u.Type.(type) {
	case *cst.ClassDecl:
		if err := checkClass(u, decl); err != nil {
			return err
		}
	case *cst.InterfaceDecl:
		if err := checkInterface(u, decl); err != nil {
			return err
		}
	}
	if err := cst.Inspect(u, checkLiteralRange); err != nil {
		return err
	}
	return cst.Inspect(u, checkNoPreDecrement)
}

func checkClass(u *cst.CompilationUnit, c *cst.ClassDecl) error {
	if has(c.Modifiers, "public") && c.Name != u.FileBaseName {
		return diagnostic.At(c.Pos(), "class %s is public, should be declared in a file named %s.java", c.Name, c.Name)
	}
	if m := invalidModifier(c.Modifiers, classModifiers); m != "" {
		return diagnostic.At(c.Pos(), "invalid modifier %q used in class declaration", m)
	}
	if hasDup(c.Modifiers) {
		return diagnostic.At(c.Pos(), "class declaration cannot contain more than one of the same modifier")
	}
	if has(c.Modifiers, "abstract") && has(c.Modifiers, "final") {
		return diagnostic.At(c.Pos(), "class declaration cannot be both abstract and final")
	}

	isAbstract := has(c.Modifiers, "abstract")
	for _, m := range c.Methods {
		if !isAbstract && has(m.Modifiers, "abstract") {
			return diagnostic.At(m.Pos(), "non-abstract class cannot contain an abstract method")
		}
		if err := checkMethod(m); err != nil {
			return err
		}
	}
	if err := checkDuplicateSignatures(c.Methods); err != nil {
		return err
	}

	for _, f := range c.Fields {
		if err := checkField(f); err != nil {
			return err
		}
	}

	for _, ctor := range c.Constructors {
		if err := checkConstructor(ctor); err != nil {
			return err
		}
	}
	if len(c.Constructors) == 0 {
		return diagnostic.At(c.Pos(), "class must contain an explicit constructor")
	}

	return nil
}

func checkInterface(u *cst.CompilationUnit, i *cst.InterfaceDecl) error {
	if has(i.Modifiers, "public") && i.Name != u.FileBaseName {
		return diagnostic.At(i.Pos(), "interface %s is public, should be declared in a file named %s.java", i.Name, i.Name)
	}
	for _, m := range i.Methods {
		if has(m.Modifiers, "final") || has(m.Modifiers, "static") || has(m.Modifiers, "native") {
			return diagnostic.At(m.Pos(), "an interface method cannot be static, final, or native")
		}
		if m.Body != nil {
			return diagnostic.At(m.Pos(), "an interface method must not have a body")
		}
		if !has(m.Modifiers, "public") {
			return diagnostic.At(m.Pos(), "method must be declared public")
		}
	}
	return checkDuplicateSignatures(i.Methods)
}

func checkMethod(m *cst.MethodDecl) error {
	if v := invalidModifier(m.Modifiers, methodModifiers); v != "" {
		return diagnostic.At(m.Pos(), "invalid modifier %q used in method declaration", v)
	}
	if hasDup(m.Modifiers) {
		return diagnostic.At(m.Pos(), "method declaration cannot contain more than one of the same modifier")
	}
	if has(m.Modifiers, "public") && has(m.Modifiers, "protected") {
		return diagnostic.At(m.Pos(), "method cannot be both public and protected")
	}
	if has(m.Modifiers, "final") && has(m.Modifiers, "static") {
		return diagnostic.At(m.Pos(), "a static method cannot be final")
	}
	if has(m.Modifiers, "native") && !has(m.Modifiers, "static") {
		return diagnostic.At(m.Pos(), "a native method must be static")
	}
	if has(m.Modifiers, "abstract") && (has(m.Modifiers, "static") || has(m.Modifiers, "final")) {
		return diagnostic.At(m.Pos(), "illegal combination of modifiers: abstract and final/static")
	}

	abstractOrNative := has(m.Modifiers, "abstract") || has(m.Modifiers, "native")
	if abstractOrNative && m.Body != nil {
		return diagnostic.At(m.Pos(), "an abstract/native method must not have a body")
	}
	if !abstractOrNative && m.Body == nil {
		return diagnostic.At(m.Pos(), "a non-abstract/native method must have a body")
	}

	if has(m.Modifiers, "native") {
		_, isInt := m.ReturnType.(*cst.PrimitiveType)
		if !isInt || m.ReturnType.(*cst.PrimitiveType).Name != "int" {
			return diagnostic.At(m.Pos(), "native methods are restricted to int return type")
		}
		if len(m.Params) != 1 {
			return diagnostic.At(m.Pos(), "native methods must have exactly one int parameter")
		}
		if p, ok := m.Params[0].Type.(*cst.PrimitiveType); !ok || p.Name != "int" {
			return diagnostic.At(m.Pos(), "native methods must have exactly one int parameter")
		}
	}

	if !has(m.Modifiers, "public") && !has(m.Modifiers, "protected") {
		return diagnostic.At(m.Pos(), "method must be declared public or protected")
	}

	if err := checkUniqueParamNames(m.Params, m.Pos()); err != nil {
		return err
	}

	if m.Body != nil {
		return checkReturnConsistency(m)
	}
	return nil
}

func checkReturnConsistency(m *cst.MethodDecl) error {
	_, isVoid := m.ReturnType.(*cst.VoidType)
	var found error
	err := cst.Inspect(m.Body, func(n cst.Node) error {
		r, ok := n.(*cst.ReturnStmt)
		if !ok || found != nil {
			return nil
		}
		if isVoid && r.Value != nil {
			found = diagnostic.At(r.Pos(), "void function cannot contain an expression in a return statement")
		}
		if !isVoid && r.Value == nil {
			found = diagnostic.At(r.Pos(), "non-void function must contain an expression in a return statement")
		}
		return nil
	})
	if err != nil {
		return err
	}
	return found
}

func checkField(f *cst.FieldDecl) error {
	if m := invalidModifier(f.Modifiers, fieldModifiers); m != "" {
		return diagnostic.At(f.Pos(), "invalid modifier %q used in field declaration", m)
	}
	if has(f.Modifiers, "public") && has(f.Modifiers, "protected") {
		return diagnostic.At(f.Pos(), "field cannot be both public and protected")
	}
	if hasDup(f.Modifiers) {
		return diagnostic.At(f.Pos(), "field declaration cannot contain more than one of the same modifier")
	}
	return nil
}

func checkConstructor(c *cst.ConstructorDecl) error {
	if m := invalidModifier(c.Modifiers, constructorModifiers); m != "" {
		return diagnostic.At(c.Pos(), "invalid modifier %q used in constructor declaration", m)
	}
	if hasDup(c.Modifiers) {
		return diagnostic.At(c.Pos(), "constructor declaration cannot contain more than one of the same modifier")
	}
	if has(c.Modifiers, "public") && has(c.Modifiers, "protected") {
		return diagnostic.At(c.Pos(), "constructor cannot be both public and protected")
	}
	if !has(c.Modifiers, "public") && !has(c.Modifiers, "protected") {
		return diagnostic.At(c.Pos(), "package private constructors are not allowed")
	}
	return checkUniqueParamNames(c.Params, c.Pos())
}

func checkUniqueParamNames(params []*cst.Param, pos cst.Position) error {
	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if seen[p.Name] {
			return diagnostic.At(pos, "formal parameters must have unique identifiers")
		}
		seen[p.Name] = true
	}
	return nil
}

func checkDuplicateSignatures(methods []*cst.MethodDecl) error {
	type sig struct {
		name  string
		types string
	}
	seen := make(map[sig]bool, len(methods))
	for _, m := range methods {
		s := sig{name: m.Name, types: paramTypeKey(m.Params)}
		if seen[s] {
			return diagnostic.At(m.Pos(), "two methods cannot have the same signature")
		}
		seen[s] = true
	}
	return nil
}

func paramTypeKey(params []*cst.Param) string {
	key := ""
	for i, p := range params {
		if i > 0 {
			key += ","
		}
		key += typeRefKey(p.Type)
	}
	return key
}

func typeRefKey(t cst.TypeRef) string {
	switch ref := t.(type) {
	case *cst.NamedType:
		return ref.Name
	case *cst.PrimitiveType:
		return ref.Name
	case *cst.VoidType:
		return "void"
	case *cst.ArrayTypeRef:
		return typeRefKey(ref.Elem) + "[]"
	default:
		return ""
	}
}

// checkLiteralRange enforces the "integer literal exceeds int range"
// rule: every IntLiteral must fit in a signed 32-bit int, except 2^31
// itself when it is the immediate operand of unary negation (spec §4.1).
func checkLiteralRange(n cst.Node) error {
	lit, ok := n.(*cst.IntLiteral)
	if !ok {
		return nil
	}
	limit := int64(maxInt)
	if lit.NegatedImmediate {
		limit++
	}
	if lit.Value > limit {
		return diagnostic.At(lit.Pos(), "integer number too large")
	}
	return nil
}

// checkNoPreDecrement rejects the pre-decrement operator, which Joos 1W
// excludes entirely (spec §4.1). The parser gives it its own UnaryExpr Op
// ("--", distinct from nested unary minus) purely so this rule has
// something unambiguous to reject.
func checkNoPreDecrement(n cst.Node) error {
	u, ok := n.(*cst.UnaryExpr)
	if !ok || u.Op != "--" {
		return nil
	}
	return diagnostic.At(u.Pos(), "pre-decrement operator is not allowed")
}
