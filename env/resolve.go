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
	"github.com/joos1w/semcheck/diagnostic"
)

func hasModifier(mods []string, name string) bool {
	for _, m := range mods {
		if m == name {
			return true
		}
	}
	return false
}

// validateAccess applies the static/non-static and protected-access rules
// of spec §4.6, ported from context.py's validate_field_access. owner is
// the type that actually declares member (container, for the protected
// same-package check); origOwner is the statically-typed receiver the
// member was looked up through (for the protected instance-access rule).
func validateAccess(memberName string, mods []string, owner, accessor, origOwner TypeSymbol, static bool) error {
	if static && !hasModifier(mods, "static") {
		return diagnostic.New("cannot access non-static name %q from a static context", memberName)
	}
	if !static && hasModifier(mods, "static") {
		return diagnostic.New("cannot access static name %q from a non-static context", memberName)
	}

	if hasModifier(mods, "protected") {
		samePackage := accessor != nil && packageOf(accessor.CanonicalName()) == packageOf(owner.CanonicalName())
		subclassRelated := accessor != nil && accessor.IsSubclassOf(owner.CanonicalName()) &&
			(hasModifier(mods, "static") || (origOwner != nil && origOwner.IsSubclassOf(accessor.CanonicalName())))
		if !subclassRelated && !samePackage {
			return diagnostic.New("cannot access protected name %q from an unrelated class", memberName)
		}
	}
	return nil
}

// ResolveName resolves a textual type name against c's per-type
// resolution table, built by phase 3 (spec §4.3). Primitive and array
// names are synthesized on demand.
func (c *ClassSymbol) ResolveName(name string) TypeValue {
	return resolveTypeName(c.TypeNames, name)
}

func (i *InterfaceSymbol) ResolveName(name string) TypeValue {
	return resolveTypeName(i.TypeNames, name)
}

func resolveTypeName(table map[string]TypeSymbol, name string) TypeValue {
	if pv := primitiveTypeValueFor(name); pv != nil {
		return pv
	}
	if len(name) > 2 && name[len(name)-2:] == "[]" {
		elem := resolveTypeName(table, name[:len(name)-2])
		if elem == nil {
			return nil
		}
		return &ArrayTypeValue{Elem: elem}
	}
	sym, ok := table[name]
	if !ok {
		return nil
	}
	return &ReferenceTypeValue{Decl: sym}
}

func primitiveTypeValueFor(name string) TypeValue {
	switch name {
	case "byte", "short", "int", "long", "char", "float", "double", "boolean":
		return &PrimitiveTypeValue{Name: name}
	case "void":
		return VoidTypeValue{}
	default:
		return nil
	}
}

// ResolveField looks up a field by simple name in c, then in its
// superclass chain, validating access at the point it is found (spec
// §4.6). It returns (nil, nil) when no field of that name exists anywhere
// in the hierarchy.
func (c *ClassSymbol) ResolveField(name string, accessor TypeSymbol, static bool) (*FieldSymbol, error) {
	return resolveFieldIn(c, c, name, accessor, static)
}

func resolveFieldIn(origOwner, owner *ClassSymbol, name string, accessor TypeSymbol, static bool) (*FieldSymbol, error) {
	for _, f := range owner.Fields {
		if f.Name == name {
			if err := validateAccess(name, f.Mods, owner, accessor, origOwner, static); err != nil {
				return nil, err
			}
			return f, nil
		}
	}
	if owner.SuperSym != nil {
		return resolveFieldIn(origOwner, owner.SuperSym, name, accessor, static)
	}
	return nil, nil
}

// ResolveMethod looks up a method by exact name+parameter-type signature
// in c, then in its superclass chain, validating access where found.
func (c *ClassSymbol) ResolveMethod(name string, argTypes []TypeValue, accessor TypeSymbol, static bool) (*MethodSymbol, error) {
	return resolveMethodIn(c, c, name, argTypes, accessor, static)
}

func resolveMethodIn(origOwner, owner *ClassSymbol, name string, argTypes []TypeValue, accessor TypeSymbol, static bool) (*MethodSymbol, error) {
	sig := signatureOf(name, argTypes)
	for _, m := range owner.Methods {
		if m.Signature() == sig {
			if err := validateAccess(name, m.Mods, owner, accessor, origOwner, static); err != nil {
				return nil, err
			}
			return m, nil
		}
	}
	if owner.SuperSym != nil {
		if m, err := resolveMethodIn(origOwner, owner.SuperSym, name, argTypes, accessor, static); m != nil || err != nil {
			return m, err
		}
	}
	for _, ifc := range owner.IfaceSyms {
		if m, err := resolveMethodInInterface(origOwner, ifc, name, argTypes, accessor, static); m != nil || err != nil {
			return m, err
		}
	}
	return nil, nil
}

// ResolveConstructor finds a constructor on c by exact parameter-type
// signature, validating access control the same way field/method
// resolution does. Joos 1W constructors are never inherited, so this
// only ever looks at c's own declarations (spec §4.1).
func (c *ClassSymbol) ResolveConstructor(argTypes []TypeValue, accessor TypeSymbol) (*ConstructorSymbol, error) {
	sig := signatureOf("<init>", argTypes)
	for _, ctor := range c.Constructors {
		if signatureOf("<init>", ctor.ParamTypes) == sig {
			if err := validateAccess("<init>", ctor.Mods, c, accessor, c, false); err != nil {
				return nil, err
			}
			return ctor, nil
		}
	}
	return nil, nil
}

// IsSubclassOf reports whether c is, or transitively extends, the class
// named canonicalName (spec §4.4).
func (c *ClassSymbol) IsSubclassOf(canonicalName string) bool {
	if c.Name == canonicalName {
		return true
	}
	if c.SuperSym != nil {
		return c.SuperSym.IsSubclassOf(canonicalName)
	}
	return false
}

// ImplementsInterface reports whether c transitively implements the
// interface named canonicalName, directly or via a superclass (spec
// §4.4).
func (c *ClassSymbol) ImplementsInterface(canonicalName string) bool {
	for _, ifc := range c.IfaceSyms {
		if ifc.Name == canonicalName || ifc.extendsInterface(canonicalName) {
			return true
		}
	}
	if c.SuperSym != nil {
		return c.SuperSym.ImplementsInterface(canonicalName)
	}
	return false
}

func (i *InterfaceSymbol) extendsInterface(canonicalName string) bool {
	if i.Name == canonicalName {
		return true
	}
	for _, sup := range i.Supers {
		if sup.extendsInterface(canonicalName) {
			return true
		}
	}
	return false
}

// ResolveField on an interface only ever answers "no such field": Joos
// 1W interfaces declare no fields (spec §4.1 grammar restriction).
func (i *InterfaceSymbol) ResolveField(string, TypeSymbol, bool) (*FieldSymbol, error) {
	return nil, nil
}

// ResolveMethod looks up a method by exact signature across the
// interface's own declarations and its extended interfaces.
func (i *InterfaceSymbol) ResolveMethod(name string, argTypes []TypeValue, accessor TypeSymbol, static bool) (*MethodSymbol, error) {
	return resolveMethodInInterface(i, i, name, argTypes, accessor, static)
}

func resolveMethodInInterface(origOwner TypeSymbol, owner *InterfaceSymbol, name string, argTypes []TypeValue, accessor TypeSymbol, static bool) (*MethodSymbol, error) {
	sig := signatureOf(name, argTypes)
	for _, m := range owner.Methods {
		if m.Signature() == sig {
			if err := validateAccess(name, m.Mods, owner, accessor, origOwner, static); err != nil {
				return nil, err
			}
			return m, nil
		}
	}
	for _, sup := range owner.Supers {
		if m, err := resolveMethodInInterface(origOwner, sup, name, argTypes, accessor, static); m != nil || err != nil {
			return m, err
		}
	}
	return nil, nil
}

// IsSubclassOf on an interface mirrors extendsInterface: interfaces only
// ever appear on the right of "implements", but the type checker treats
// is-a uniformly via TypeSymbol.
func (i *InterfaceSymbol) IsSubclassOf(canonicalName string) bool {
	return i.extendsInterface(canonicalName)
}

// ImplementsInterface is always false for an interface: an interface
// implements nothing, it extends other interfaces.
func (i *InterfaceSymbol) ImplementsInterface(string) bool {
	return false
}
