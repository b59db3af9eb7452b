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

import "github.com/joos1w/semcheck/cst"

// TypeRefName renders a syntactic type reference back to the textual name
// under which phase 2 enqueued it into TypeNames (e.g. "Foo[]", "int",
// "void"), so it can be looked up via ResolveName. Exported for later
// phases (typecheck) that need to resolve a type reference occurring in
// an expression (casts, instanceof, array/entity creation).
func TypeRefName(t cst.TypeRef) string {
	switch ref := t.(type) {
	case *cst.NamedType:
		return ref.Name
	case *cst.PrimitiveType:
		return ref.Name
	case *cst.VoidType:
		return "void"
	case *cst.ArrayTypeRef:
		return TypeRefName(ref.Elem) + "[]"
	default:
		return ""
	}
}

// ResolveMemberTypes fills in every FieldSymbol/MethodSymbol/
// ConstructorSymbol/LocalVarSymbol's TypeValue from its syntactic type
// reference, by looking it up in the declaring type's TypeNames table.
// It runs after phase 3 (type linking) has fully populated every
// TypeNames table (spec §4.3 → §4.4 handoff). Running it again over an
// already-resolved symbol recomputes the same types; the analyzer does
// so for the shared standard-library symbols on every Run.
func ResolveMemberTypes(g *GlobalContext) error {
	for _, sym := range g.Symbols {
		switch t := sym.(type) {
		case *ClassSymbol:
			if err := resolveClassMemberTypes(t); err != nil {
				return err
			}
		case *InterfaceSymbol:
			for _, m := range t.Methods {
				resolveMethodTypes(t, m)
			}
		}
	}
	return nil
}

func resolveClassMemberTypes(c *ClassSymbol) error {
	for _, f := range c.Fields {
		f.Type = c.ResolveName(TypeRefName(f.Decl.Type))
	}
	for _, m := range c.Methods {
		resolveMethodTypes(c, m)
	}
	for _, ctor := range c.Constructors {
		ctor.ParamTypes = ctor.ParamTypes[:0]
		for _, p := range ctor.Decl.Params {
			ctor.ParamTypes = append(ctor.ParamTypes, c.ResolveName(TypeRefName(p.Type)))
		}
	}
	return resolveScopeLocalTypes(c, c.BodyScope)
}

func resolveMethodTypes(owner TypeSymbol, m *MethodSymbol) {
	if m.Decl.ReturnType != nil {
		if _, isVoid := m.Decl.ReturnType.(*cst.VoidType); !isVoid {
			m.ReturnType = owner.ResolveName(TypeRefName(m.Decl.ReturnType))
		}
	}
	m.ParamTypes = m.ParamTypes[:0]
	for _, p := range m.Decl.Params {
		m.ParamTypes = append(m.ParamTypes, owner.ResolveName(TypeRefName(p.Type)))
	}
}

// resolveScopeLocalTypes walks every scope under root, resolving each
// LocalVarSymbol's type against the enclosing class/interface's
// TypeNames table (every scope ultimately nests inside exactly one type).
func resolveScopeLocalTypes(owner TypeSymbol, s *Scope) error {
	if s == nil {
		return nil
	}
	for _, sym := range s.locals {
		local, ok := sym.(*LocalVarSymbol)
		if !ok {
			continue
		}
		switch decl := local.Decl.(type) {
		case *cst.Param:
			local.Type = owner.ResolveName(TypeRefName(decl.Type))
		case *cst.LocalVarDecl:
			local.Type = owner.ResolveName(TypeRefName(decl.Type))
		}
	}
	for _, child := range s.Children {
		if err := resolveScopeLocalTypes(owner, child); err != nil {
			return err
		}
	}
	return nil
}
