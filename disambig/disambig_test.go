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

package disambig

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joos1w/semcheck/cst"
	"github.com/joos1w/semcheck/env"
	"github.com/joos1w/semcheck/hierarchy"
	"github.com/joos1w/semcheck/parse"
	"github.com/joos1w/semcheck/typelink"
)

func build(t *testing.T, sources map[string]string) *env.GlobalContext {
	t.Helper()
	g := env.NewGlobalContext()
	for name, src := range sources {
		u, err := parse.File(name, []byte(src))
		require.NoError(t, err)
		require.NoError(t, env.Build(g, u))
	}
	require.NoError(t, typelink.Link(g))
	require.NoError(t, env.ResolveMemberTypes(g))
	require.NoError(t, hierarchy.Check(g))
	return g
}

func findClass(g *env.GlobalContext, name string) *env.ClassSymbol {
	return g.Lookup(name).(*env.ClassSymbol)
}

func findMethodBody(c *env.ClassSymbol, name string) *cst.Block {
	for _, m := range c.Methods {
		if m.Name == name {
			return m.Decl.Body
		}
	}
	return nil
}

func TestClassifyLocalVariableAsExpr(t *testing.T) {
	g := build(t, map[string]string{
		"C": `class C {
    C() {}
    public int m(int x) {
        return x;
    }
}
`,
	})
	table, err := Run(g)
	require.NoError(t, err)

	c := findClass(g, "C")
	body := findMethodBody(c, "m")
	ret := body.Stmts[0].(*cst.ReturnStmt)
	id := ret.Value.(*cst.Identifier)

	e := table.Lookup(id)
	require.NotNil(t, e)
	require.Equal(t, Expr, e.Kind)
	require.Equal(t, "int", e.Value.TypeName())
}

func TestClassifyFieldAccessViaThis(t *testing.T) {
	g := build(t, map[string]string{
		"C": `class C {
    public int x;
    C() {}
    public int m() {
        return this.x;
    }
}
`,
	})
	table, err := Run(g)
	require.NoError(t, err)

	c := findClass(g, "C")
	body := findMethodBody(c, "m")
	ret := body.Stmts[0].(*cst.ReturnStmt)
	access := ret.Value.(*cst.AccessPath)

	e := table.Lookup(access)
	require.NotNil(t, e)
	require.Equal(t, Expr, e.Kind)
	require.Equal(t, "int", e.Value.TypeName())
}

func TestClassifyTypeNameForStaticFieldAccess(t *testing.T) {
	g := build(t, map[string]string{
		"Other": "class Other { public static int x; Other() {} }\n",
		"C": `class C {
    C() {}
    public int m() {
        return Other.x;
    }
}
`,
	})
	table, err := Run(g)
	require.NoError(t, err)

	c := findClass(g, "C")
	body := findMethodBody(c, "m")
	ret := body.Stmts[0].(*cst.ReturnStmt)
	access := ret.Value.(*cst.AccessPath)

	root := access.Operand.(*cst.Identifier)
	e := table.Lookup(root)
	require.NotNil(t, e)
	require.Equal(t, TypeName, e.Kind)
	require.Equal(t, "Other", e.Type.SimpleName())
}

func TestClassifyRootRejectsUnresolvableName(t *testing.T) {
	g := build(t, map[string]string{
		"C": `class C {
    C() {}
    public int m() {
        return nosuch;
    }
}
`,
	})
	_, err := Run(g)
	require.Error(t, err)
	require.Contains(t, err.Error(), "does not resolve to a variable, type, or package")
}
