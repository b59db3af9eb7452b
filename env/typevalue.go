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

import "fmt"

// TypeValue is the sum type assigned to every typed construct: the static
// type of an expression, a field, a parameter, or a return type (spec §3
// design note: "Reference/Array/Null variants sit alongside PrimitiveType
// in a separate TypeValue sum used by the type checker").
type TypeValue interface {
	// TypeName is the type's canonical textual name, used both for
	// signature comparison and error messages.
	TypeName() string
	IsPrimitive() bool
	// ResolveField dispatches field lookup to the underlying declaration,
	// per spec §9's "dynamic dispatch into resolve_field/resolve_method"
	// design note.
	ResolveField(name string, accessor TypeSymbol, static bool) (*FieldSymbol, error)
	ResolveMethod(name string, argTypes []TypeValue, accessor TypeSymbol, static bool) (*MethodSymbol, error)
}

// numericPrimitives is the set of primitive types that participate in
// arithmetic/relational promotion (spec §4.6); "boolean" is primitive but
// not numeric.
var numericPrimitives = map[string]bool{
	"byte": true, "short": true, "int": true, "char": true,
	"long": true, "float": true, "double": true,
}

// IsNumeric reports whether t is one of the numeric primitive types.
func IsNumeric(t TypeValue) bool {
	p, ok := t.(*PrimitiveTypeValue)
	return ok && numericPrimitives[p.Name]
}

// PrimitiveTypeValue is a primitive type (byte/short/int/char/boolean, and
// the dead long/float/double entries — see SPEC_FULL.md §6).
type PrimitiveTypeValue struct {
	Name string
}

func (p *PrimitiveTypeValue) TypeName() string  { return p.Name }
func (p *PrimitiveTypeValue) IsPrimitive() bool { return true }
func (p *PrimitiveTypeValue) ResolveField(string, TypeSymbol, bool) (*FieldSymbol, error) {
	return nil, nil
}
func (p *PrimitiveTypeValue) ResolveMethod(string, []TypeValue, TypeSymbol, bool) (*MethodSymbol, error) {
	return nil, nil
}

// VoidTypeValue marks a method's return type as void; it is never the
// static type of an expression.
type VoidTypeValue struct{}

func (VoidTypeValue) TypeName() string  { return "void" }
func (VoidTypeValue) IsPrimitive() bool { return true }
func (VoidTypeValue) ResolveField(string, TypeSymbol, bool) (*FieldSymbol, error) {
	return nil, nil
}
func (VoidTypeValue) ResolveMethod(string, []TypeValue, TypeSymbol, bool) (*MethodSymbol, error) {
	return nil, nil
}

// ReferenceTypeValue wraps a class/interface declaration as an expression
// type. Static marks "this denotes a type expression in a name position,
// not an instance" (spec §3 Symbol-kinds glossary for ReferenceType).
type ReferenceTypeValue struct {
	Decl   TypeSymbol
	Static bool
}

func (r *ReferenceTypeValue) TypeName() string  { return r.Decl.CanonicalName() }
func (r *ReferenceTypeValue) IsPrimitive() bool { return false }
func (r *ReferenceTypeValue) ResolveField(name string, accessor TypeSymbol, static bool) (*FieldSymbol, error) {
	return r.Decl.ResolveField(name, accessor, static)
}
func (r *ReferenceTypeValue) ResolveMethod(name string, argTypes []TypeValue, accessor TypeSymbol, static bool) (*MethodSymbol, error) {
	return r.Decl.ResolveMethod(name, argTypes, accessor, static)
}

// ArrayTypeValue is an array type. Every array type exposes a synthetic
// "public final int length" field (spec §4.6).
type ArrayTypeValue struct {
	Elem TypeValue
}

func (a *ArrayTypeValue) TypeName() string  { return a.Elem.TypeName() + "[]" }
func (a *ArrayTypeValue) IsPrimitive() bool { return false }
func (a *ArrayTypeValue) ResolveField(name string, _ TypeSymbol, _ bool) (*FieldSymbol, error) {
	if name != "length" {
		return nil, nil
	}
	return &FieldSymbol{
		Name: "length",
		Mods: []string{"public", "final"},
		Type: &PrimitiveTypeValue{Name: "int"},
	}, nil
}
func (a *ArrayTypeValue) ResolveMethod(string, []TypeValue, TypeSymbol, bool) (*MethodSymbol, error) {
	return nil, nil
}

// NullTypeValue is the type of the "null" literal.
type NullTypeValue struct{}

func (NullTypeValue) TypeName() string  { return "null" }
func (NullTypeValue) IsPrimitive() bool { return false }
func (NullTypeValue) ResolveField(string, TypeSymbol, bool) (*FieldSymbol, error) {
	return nil, nil
}
func (NullTypeValue) ResolveMethod(string, []TypeValue, TypeSymbol, bool) (*MethodSymbol, error) {
	return nil, nil
}

// wideningPrimitive is the widening-conversion table of spec §4.6.
var wideningPrimitive = map[string]map[string]bool{
	"byte":  {"short": true, "int": true, "long": true, "float": true, "double": true},
	"short": {"int": true, "long": true, "float": true, "double": true},
	"char":  {"int": true, "long": true, "float": true, "double": true},
	"int":   {"long": true, "float": true, "double": true},
	"long":  {"float": true, "double": true},
	"float": {"double": true},
}

// narrowingPrimitive is the narrowing-conversion table of spec §4.6
// (castable in addition to widening).
var narrowingPrimitive = map[string]map[string]bool{
	"byte":   {"short": true, "char": true},
	"short":  {"byte": true, "char": true},
	"char":   {"byte": true, "short": true},
	"int":    {"byte": true, "short": true, "char": true},
	"long":   {"byte": true, "short": true, "char": true, "int": true},
	"float":  {"byte": true, "short": true, "char": true, "int": true, "long": true},
	"double": {"byte": true, "short": true, "char": true, "int": true, "long": true, "float": true},
}

// Assignable reports whether a value of static type s may be assigned to
// a variable of static type t, per spec §4.6.
func Assignable(s, t TypeValue) bool {
	if s.TypeName() == t.TypeName() {
		return true
	}

	if s.IsPrimitive() != t.IsPrimitive() {
		return false
	}

	if s.IsPrimitive() {
		sp, sok := s.(*PrimitiveTypeValue)
		tp, tok := t.(*PrimitiveTypeValue)
		if !sok || !tok {
			return false
		}
		return wideningPrimitive[sp.Name][tp.Name]
	}

	// both reference types
	if _, ok := t.(*ReferenceTypeValue); ok && t.TypeName() == "java.lang.Object" {
		return true
	}
	if _, ok := s.(NullTypeValue); ok {
		return true
	}
	if _, ok := t.(NullTypeValue); ok {
		return false
	}

	if sArr, ok := s.(*ArrayTypeValue); ok {
		if tRef, ok := t.(*ReferenceTypeValue); ok && !tRef.Decl.IsClass() {
			return tRef.Decl.CanonicalName() == "java.lang.Cloneable" || tRef.Decl.CanonicalName() == "java.io.Serializable"
		}
		if tArr, ok := t.(*ArrayTypeValue); ok {
			if sArr.Elem.IsPrimitive() && tArr.Elem.IsPrimitive() {
				return sArr.Elem.TypeName() == tArr.Elem.TypeName()
			}
			if !sArr.Elem.IsPrimitive() && !tArr.Elem.IsPrimitive() {
				return Assignable(sArr.Elem, tArr.Elem)
			}
			return false
		}
		return false
	}

	sRef, sok := s.(*ReferenceTypeValue)
	tRef, tok := t.(*ReferenceTypeValue)
	if !sok || !tok {
		return false
	}

	if sRef.Decl.IsClass() {
		if tRef.Decl.IsClass() {
			return sRef.Decl.IsSubclassOf(tRef.Decl.CanonicalName())
		}
		return sRef.Decl.ImplementsInterface(tRef.Decl.CanonicalName())
	}
	// s is an interface
	if !tRef.Decl.IsClass() {
		return sRef.Decl.IsSubclassOf(tRef.Decl.CanonicalName())
	}
	return false
}

// Castable reports whether an explicit cast from s to t is permitted, per
// spec §4.6.
func Castable(s, t TypeValue) bool {
	if s.TypeName() == t.TypeName() {
		return true
	}

	if s.IsPrimitive() != t.IsPrimitive() {
		return false
	}

	if s.IsPrimitive() {
		sp, sok := s.(*PrimitiveTypeValue)
		tp, tok := t.(*PrimitiveTypeValue)
		if !sok || !tok {
			return false
		}
		return wideningPrimitive[sp.Name][tp.Name] || narrowingPrimitive[sp.Name][tp.Name]
	}

	if Assignable(s, t) || Assignable(t, s) {
		return true
	}

	sRef, sok := s.(*ReferenceTypeValue)
	tRef, tok := t.(*ReferenceTypeValue)
	if !sok || !tok {
		return false
	}

	for _, pair := range [][2]TypeSymbol{{sRef.Decl, tRef.Decl}, {tRef.Decl, sRef.Decl}} {
		a, b := pair[0], pair[1]
		if !a.IsClass() {
			// a is an interface
			if !b.IsClass() {
				return true
			}
			isFinal := false
			for _, m := range b.Modifiers() {
				if m == "final" {
					isFinal = true
				}
			}
			if !isFinal {
				return true
			}
		}
	}

	return false
}

// String implements fmt.Stringer for debugging.
func (r *ReferenceTypeValue) String() string {
	return fmt.Sprintf("ReferenceType(%s)", r.Decl.CanonicalName())
}
