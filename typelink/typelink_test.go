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

package typelink

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joos1w/semcheck/env"
	"github.com/joos1w/semcheck/parse"
)

func buildAll(t *testing.T, sources map[string]string) *env.GlobalContext {
	t.Helper()
	g := env.NewGlobalContext()
	for name, src := range sources {
		u, err := parse.File(name, []byte(src))
		require.NoError(t, err)
		require.NoError(t, env.Build(g, u))
	}
	return g
}

func TestLinkResolvesFieldTypeWithinSamePackage(t *testing.T) {
	g := buildAll(t, map[string]string{
		"A": "class A { A() {} }\n",
		"B": "class B { public A a; B() {} }\n",
	})
	require.NoError(t, Link(g))

	b := g.Lookup("B").(*env.ClassSymbol)
	require.Same(t, g.Lookup("A"), b.TypeNames["A"])
}

func TestLinkRejectsUnresolvableSimpleName(t *testing.T) {
	g := buildAll(t, map[string]string{
		"B": "class B { public NoSuchType a; B() {} }\n",
	})
	err := Link(g)
	require.Error(t, err)
	require.Contains(t, err.Error(), "does not resolve to any existing type")
}

func TestLinkResolvesSingleTypeImport(t *testing.T) {
	u, err := parse.File("B", []byte("import pkg.A;\nclass B { public A a; B() {} }\n"))
	require.NoError(t, err)
	a, err := parse.File("A", []byte("package pkg;\nclass A { A() {} }\n"))
	require.NoError(t, err)

	g := env.NewGlobalContext()
	require.NoError(t, env.Build(g, a))
	require.NoError(t, env.Build(g, u))
	require.NoError(t, Link(g))

	b := g.Lookup("B").(*env.ClassSymbol)
	require.Same(t, g.Lookup("pkg.A"), b.TypeNames["A"])
}

func TestLinkRejectsImportClashWithOwnTypeName(t *testing.T) {
	u, err := parse.File("A", []byte("import pkg.A;\nclass A { A() {} }\n"))
	require.NoError(t, err)
	other, err := parse.File("A2", []byte("package pkg;\nclass A { A() {} }\n"))
	require.NoError(t, err)

	g := env.NewGlobalContext()
	require.NoError(t, env.Build(g, other))
	require.NoError(t, env.Build(g, u))
	err = Link(g)
	require.Error(t, err)
	require.Contains(t, err.Error(), "clashes with import declaration")
}

func TestLinkRejectsOnDemandImportOfNonExistentPackage(t *testing.T) {
	u, err := parse.File("B", []byte("import nosuch.*;\nclass B { B() {} }\n"))
	require.NoError(t, err)

	g := env.NewGlobalContext()
	require.NoError(t, env.Build(g, u))
	err = Link(g)
	require.Error(t, err)
	require.Contains(t, err.Error(), "does not exist as either a package")
}

func TestLinkRejectsAmbiguousOnDemandImports(t *testing.T) {
	p1, err := parse.File("A", []byte("package p1;\nclass Widget { Widget() {} }\n"))
	require.NoError(t, err)
	p2, err := parse.File("B", []byte("package p2;\nclass Widget { Widget() {} }\n"))
	require.NoError(t, err)
	u, err := parse.File("C", []byte("import p1.*;\nimport p2.*;\nclass C { public Widget w; C() {} }\n"))
	require.NoError(t, err)

	g := env.NewGlobalContext()
	require.NoError(t, env.Build(g, p1))
	require.NoError(t, env.Build(g, p2))
	require.NoError(t, env.Build(g, u))
	err = Link(g)
	require.Error(t, err)
	require.Contains(t, err.Error(), "conflicting types")
}

func TestLinkRejectsPackagePrefixClashingWithType(t *testing.T) {
	clashing, err := parse.File("A", []byte("package a;\nclass b { b() {} }\n"))
	require.NoError(t, err)
	nested, err := parse.File("B", []byte("package a.b.c;\nclass C { C() {} }\n"))
	require.NoError(t, err)

	g := env.NewGlobalContext()
	require.NoError(t, env.Build(g, clashing))
	require.NoError(t, env.Build(g, nested))
	err = Link(g)
	require.Error(t, err)
	require.Contains(t, err.Error(), "resolves to a type in the same environment")
}
