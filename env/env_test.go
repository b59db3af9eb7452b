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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/joos1w/semcheck/cst"
	"github.com/joos1w/semcheck/parse"
)

func TestBuildDeclaresClassAndFields(t *testing.T) {
	u, err := parse.File("C", []byte(`class C {
    public int x;
    C() {}
    public int get() { return x; }
}
`))
	require.NoError(t, err)

	g := NewGlobalContext()
	require.NoError(t, Build(g, u))

	sym := g.Lookup("C")
	require.NotNil(t, sym)
	cls, ok := sym.(*ClassSymbol)
	require.True(t, ok)
	require.Len(t, cls.Fields, 1)
	require.Equal(t, "x", cls.Fields[0].Name)
	require.Len(t, cls.Methods, 1)
	require.Len(t, cls.Constructors, 1)
	require.True(t, g.HasPackage(""))
	require.Contains(t, g.PackageMembers(""), "C")
}

func TestBuildRejectsDuplicateTypeName(t *testing.T) {
	a, err := parse.File("C", []byte("class C { C() {} }\n"))
	require.NoError(t, err)
	b, err := parse.File("C2", []byte("class C { C() {} }\n"))
	require.NoError(t, err)

	g := NewGlobalContext()
	require.NoError(t, Build(g, a))
	err = Build(g, b)
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate type declaration")
}

func TestBuildAllIsEquivalentToSequentialBuild(t *testing.T) {
	u1, err := parse.File("A", []byte("class A { A() {} }\n"))
	require.NoError(t, err)
	u2, err := parse.File("B", []byte("class B { B() {} }\n"))
	require.NoError(t, err)

	g, err := BuildAll([]*cst.CompilationUnit{u1, u2})
	require.NoError(t, err)
	require.NotNil(t, g.Lookup("A"))
	require.NotNil(t, g.Lookup("B"))
}

func TestCloneIsolatesPackageMembers(t *testing.T) {
	u, err := parse.File("Base", []byte("class Base { Base() {} }\n"))
	require.NoError(t, err)

	base := NewGlobalContext()
	require.NoError(t, Build(base, u))

	clone := base.Clone()
	require.NotNil(t, clone.Lookup("Base"))

	extra, err := parse.File("Extra", []byte("class Extra { Extra() {} }\n"))
	require.NoError(t, err)
	require.NoError(t, Build(clone, extra))

	require.NotNil(t, clone.Lookup("Extra"))
	require.Nil(t, base.Lookup("Extra"), "declaring into a clone must not leak back into the base context")

	if diff := cmp.Diff([]string{"Base"}, base.PackageMembers("")); diff != "" {
		t.Fatalf("base package members changed after cloning (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Base", "Extra"}, clone.PackageMembers("")); diff != "" {
		t.Fatalf("clone package members mismatch (-want +got):\n%s", diff)
	}
}

func TestCloneSharesAlreadyBuiltSymbols(t *testing.T) {
	u, err := parse.File("Base", []byte("class Base { Base() {} }\n"))
	require.NoError(t, err)

	base := NewGlobalContext()
	require.NoError(t, Build(base, u))
	clone := base.Clone()

	// The clone's symbol for "Base" must be the identical pointer, not a
	// copy, since hierarchy's Checked flag lives on the shared struct.
	require.Same(t, base.Lookup("Base"), clone.Lookup("Base"))
}

func TestScopeDeclareLocalRejectsShadowInSameChain(t *testing.T) {
	root := NewScope(nil, nil)
	child := NewScope(root, nil)

	require.NoError(t, root.DeclareLocal(&LocalVarSymbol{Name: "x"}))
	err := child.DeclareLocal(&LocalVarSymbol{Name: "x"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "already declared in an enclosing scope")
}

func TestScopeResolveWalksParentChain(t *testing.T) {
	root := NewScope(nil, nil)
	require.NoError(t, root.DeclareLocal(&LocalVarSymbol{Name: "x"}))
	child := NewScope(root, nil)

	sym, err := child.Resolve("x")
	require.NoError(t, err)
	require.NotNil(t, sym)
	require.Equal(t, "x", sym.SymbolName())

	nosuch, err := child.Resolve("nosuch")
	require.NoError(t, err)
	require.Nil(t, nosuch)
}

func TestAssignableWideningPrimitive(t *testing.T) {
	i := &PrimitiveTypeValue{Name: "int"}
	l := &PrimitiveTypeValue{Name: "long"}
	require.True(t, Assignable(i, l))
	require.False(t, Assignable(l, i))
}

func TestAssignableNullToReference(t *testing.T) {
	obj := &ClassSymbol{Name: "java.lang.Object"}
	ref := &ReferenceTypeValue{Decl: obj}
	require.True(t, Assignable(NullTypeValue{}, ref))
	require.False(t, Assignable(ref, NullTypeValue{}))
}

func TestArrayLengthFieldIsSynthetic(t *testing.T) {
	arr := &ArrayTypeValue{Elem: &PrimitiveTypeValue{Name: "int"}}
	f, err := arr.ResolveField("length", nil, false)
	require.NoError(t, err)
	require.NotNil(t, f)
	require.Equal(t, "int", f.Type.TypeName())

	f, err = arr.ResolveField("nosuch", nil, false)
	require.NoError(t, err)
	require.Nil(t, f)
}

func TestCastableNarrowingPrimitive(t *testing.T) {
	i := &PrimitiveTypeValue{Name: "int"}
	b := &PrimitiveTypeValue{Name: "byte"}
	require.True(t, Castable(i, b))
	require.False(t, Castable(&PrimitiveTypeValue{Name: "boolean"}, i))
}
