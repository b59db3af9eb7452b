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

package cst

// NamedType is a (possibly qualified) type name appearing in source, e.g.
// "Foo" or "java.util.Foo".
type NamedType struct {
	Base
	Name string
}

func (n *NamedType) node()    {}
func (n *NamedType) typeRef() {}

// PrimitiveType is one of the primitive type keywords.
type PrimitiveType struct {
	Base
	Name string // "byte", "short", "int", "char", "boolean" (+ dead "long"/"float"/"double", see SPEC_FULL.md §6)
}

func (p *PrimitiveType) node()    {}
func (p *PrimitiveType) typeRef() {}

// VoidType is the "void" pseudo-type, legal only as a method return type.
type VoidType struct {
	Base
}

func (v *VoidType) node()    {}
func (v *VoidType) typeRef() {}

// ArrayTypeRef is an array type, e.g. "int[]" or "Foo[]".
type ArrayTypeRef struct {
	Base
	Elem TypeRef
}

func (a *ArrayTypeRef) node()    {}
func (a *ArrayTypeRef) typeRef() {}
