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

package parse

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joos1w/semcheck/cst"
)

func mustParse(t *testing.T, src string) *cst.CompilationUnit {
	t.Helper()
	u, err := File("Test", []byte(src))
	require.NoError(t, err)
	return u
}

func TestFileBasics(t *testing.T) {
	src := `package a.b;
import java.util.List;

public class Test extends Base implements I1, I2 {
    public int x;

    public Test() {
        x = 0;
    }

    public int get() {
        return x;
    }
}
`
	u := mustParse(t, src)
	require.Equal(t, "a.b", u.Package.Name)
	require.Len(t, u.Imports, 1)
	require.Equal(t, "java.util.List", u.Imports[0].Name)
	require.Equal(t, cst.SingleTypeImport, u.Imports[0].Kind)

	class, ok := u.Type.(*cst.ClassDecl)
	require.True(t, ok)
	require.Equal(t, "Test", class.Name)
	require.Equal(t, "Base", class.Extends)
	require.Equal(t, []string{"I1", "I2"}, class.Implements)
	require.Len(t, class.Fields, 1)
	require.Len(t, class.Constructors, 1)
	require.Len(t, class.Methods, 1)
}

func TestOnDemandImport(t *testing.T) {
	u := mustParse(t, "import java.util.*;\nclass C { C() {} }\n")
	require.Len(t, u.Imports, 1)
	require.Equal(t, cst.OnDemandImport, u.Imports[0].Kind)
	require.Equal(t, "java.util", u.Imports[0].Name)
}

func TestConstructorVsMethodVsField(t *testing.T) {
	u := mustParse(t, `class C {
    int field;
    C() {}
    int method() { return 0; }
}
`)
	class := u.Type.(*cst.ClassDecl)
	require.Len(t, class.Fields, 1)
	require.Len(t, class.Constructors, 1)
	require.Len(t, class.Methods, 1)
}

// localVarDecl vs expression-statement disambiguation: "a b;" is a local
// declaration of type a named b, while "a.b;" and "a();" are expression
// statements.
func TestLocalVarDeclVsExprStmt(t *testing.T) {
	u := mustParse(t, `class C {
    C() {}
    void m() {
        int a;
        a = 1;
        C c;
        c.method();
        foo();
    }
}
`)
	m := findMethod(t, u, "m")
	require.Len(t, m.Body.Stmts, 5)

	_, ok := m.Body.Stmts[0].(*cst.LocalVarDecl)
	require.True(t, ok, "expected 'int a;' to parse as a local var decl")

	_, ok = m.Body.Stmts[1].(*cst.ExprStmt)
	require.True(t, ok, "expected 'a = 1;' to parse as an expression statement")

	_, ok = m.Body.Stmts[2].(*cst.LocalVarDecl)
	require.True(t, ok, "expected 'C c;' to parse as a local var decl")
}

// Reference-type casts are only legal when followed by a token that can
// start a UnaryExpressionNotPlusMinus; "(a) - b" must parse as a
// subtraction, never as a cast of "-b" to type a.
func TestCastVsParenDisambiguation(t *testing.T) {
	u := mustParse(t, `class C {
    C() {}
    void m() {
        int r;
        r = (a) - b;
    }
}
`)
	m := findMethod(t, u, "m")
	assign := m.Body.Stmts[1].(*cst.ExprStmt).Expr.(*cst.AssignExpr)
	bin, ok := assign.Value.(*cst.BinaryExpr)
	require.True(t, ok, "expected '(a) - b' to parse as a binary subtraction, not a cast")
	require.Equal(t, "-", bin.Op)
}

func TestPrimitiveCastAlwaysAccepted(t *testing.T) {
	u := mustParse(t, `class C {
    C() {}
    void m() {
        int r;
        r = (int) x;
    }
}
`)
	m := findMethod(t, u, "m")
	assign := m.Body.Stmts[1].(*cst.ExprStmt).Expr.(*cst.AssignExpr)
	_, ok := assign.Value.(*cst.CastExpr)
	require.True(t, ok, "expected '(int) x' to parse as a cast")
}

func TestNegatedImmediateMaxInt(t *testing.T) {
	u := mustParse(t, `class C {
    C() {}
    void m() {
        int r;
        r = -2147483648;
    }
}
`)
	m := findMethod(t, u, "m")
	assign := m.Body.Stmts[1].(*cst.ExprStmt).Expr.(*cst.AssignExpr)
	unary := assign.Value.(*cst.UnaryExpr)
	lit := unary.Operand.(*cst.IntLiteral)
	require.True(t, lit.NegatedImmediate)
	require.Equal(t, int64(2147483648), lit.Value)
}

func findMethod(t *testing.T, u *cst.CompilationUnit, name string) *cst.MethodDecl {
	t.Helper()
	class := u.Type.(*cst.ClassDecl)
	for _, m := range class.Methods {
		if m.Name == name {
			return m
		}
	}
	t.Fatalf("method %q not found", name)
	return nil
}
