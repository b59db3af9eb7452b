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

package reachability

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joos1w/semcheck/env"
	"github.com/joos1w/semcheck/hierarchy"
	"github.com/joos1w/semcheck/parse"
	"github.com/joos1w/semcheck/typelink"
)

func build(t *testing.T, src string) *env.GlobalContext {
	t.Helper()
	u, err := parse.File("Test", []byte(src))
	require.NoError(t, err)

	g := env.NewGlobalContext()
	require.NoError(t, env.Build(g, u))
	require.NoError(t, typelink.Link(g))
	require.NoError(t, env.ResolveMemberTypes(g))
	require.NoError(t, hierarchy.Check(g))
	return g
}

func TestMissingReturnOnSomePath(t *testing.T) {
	g := build(t, `class C {
    C() {}
    int bad(int x) {
        if (x > 0) {
            return x;
        }
    }
}
`)
	err := Check(g)
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing return statement")
}

func TestIfElseBothReturnIsFine(t *testing.T) {
	g := build(t, `class C {
    C() {}
    int ok(int x) {
        if (x > 0) {
            return x;
        } else {
            return 0 - x;
        }
    }
}
`)
	require.NoError(t, Check(g))
}

func TestStatementAfterReturnIsUnreachable(t *testing.T) {
	g := build(t, `class C {
    C() {}
    int bad() {
        return 1;
        int y;
    }
}
`)
	err := Check(g)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unreachable statement")
}

func TestWhileTrueNeverCompletesNormally(t *testing.T) {
	g := build(t, `class C {
    C() {}
    int loopForever() {
        while (true) {
            int y;
        }
    }
}
`)
	require.NoError(t, Check(g), "an infinite loop satisfies a non-void method with no following statements")
}

func TestStatementAfterWhileTrueIsUnreachable(t *testing.T) {
	g := build(t, `class C {
    C() {}
    void bad() {
        while (true) {
        }
        int y;
    }
}
`)
	err := Check(g)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unreachable statement")
}

func TestVoidMethodMayCompleteNormally(t *testing.T) {
	g := build(t, `class C {
    C() {}
    void ok(int x) {
        if (x > 0) {
            int y;
        }
    }
}
`)
	require.NoError(t, Check(g))
}
