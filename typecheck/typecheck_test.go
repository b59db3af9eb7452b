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

package typecheck

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joos1w/semcheck/disambig"
	"github.com/joos1w/semcheck/env"
	"github.com/joos1w/semcheck/hierarchy"
	"github.com/joos1w/semcheck/parse"
	"github.com/joos1w/semcheck/typelink"
)

func check(t *testing.T, sources map[string]string) error {
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

	table, err := disambig.Run(g)
	require.NoError(t, err)
	return Run(g, table)
}

func TestAcceptsWellTypedMethod(t *testing.T) {
	err := check(t, map[string]string{
		"C": `class C {
    public int x;
    C() {}
    public int add(int y) {
        return x + y;
    }
}
`,
	})
	require.NoError(t, err)
}

func TestRejectsAssigningIncompatibleType(t *testing.T) {
	err := check(t, map[string]string{
		"C": `class C {
    C() {}
    public void m() {
        boolean b;
        b = 1;
    }
}
`,
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "cannot assign type")
}

func TestRejectsNonBooleanIfCondition(t *testing.T) {
	err := check(t, map[string]string{
		"C": `class C {
    C() {}
    public void m() {
        int x;
        x = 1;
        if (x) {
        }
    }
}
`,
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "condition must have type boolean")
}

func TestRejectsReturnTypeMismatch(t *testing.T) {
	err := check(t, map[string]string{
		"C": `class C {
    C() {}
    public boolean m() {
        return 1;
    }
}
`,
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "cannot return type")
}

func TestRejectsMissingReturnValue(t *testing.T) {
	err := check(t, map[string]string{
		"C": `class C {
    C() {}
    public int m() {
        return;
    }
}
`,
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing return value")
}

func TestRejectsArithmeticOnBoolean(t *testing.T) {
	err := check(t, map[string]string{
		"C": `class C {
    C() {}
    public int m() {
        boolean a;
        boolean b;
        a = true;
        b = false;
        return a - b;
    }
}
`,
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "cannot use operands of type")
}

func TestAcceptsWideningAssignmentToLocal(t *testing.T) {
	err := check(t, map[string]string{
		"C": `class C {
    C() {}
    public void m() {
        char x;
        x = 'a';
        int y;
        y = x;
    }
}
`,
	})
	require.NoError(t, err)
}

func TestRejectsExplicitCastBetweenUnrelatedReferenceTypes(t *testing.T) {
	err := check(t, map[string]string{
		"A":    "public final class A { public A() {} }\n",
		"B":    "public final class B { public B() {} }\n",
		"User": `class User {
    User() {}
    public void m() {
        A a;
        a = new A();
        B b;
        b = (B) a;
    }
}
`,
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "cannot cast type")
}
