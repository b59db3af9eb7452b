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

package weed

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joos1w/semcheck/parse"
)

func check(t *testing.T, baseName, src string) error {
	t.Helper()
	u, err := parse.File(baseName, []byte(src))
	require.NoError(t, err)
	return Check(u)
}

func TestPublicClassMustMatchFileName(t *testing.T) {
	err := check(t, "Wrong", "public class Right { public Right() {} }\n")
	require.Error(t, err)
	require.Contains(t, err.Error(), "should be declared in a file named")
}

func TestClassRequiresExplicitConstructor(t *testing.T) {
	err := check(t, "NoCtor", "class NoCtor { }\n")
	require.Error(t, err)
	require.Contains(t, err.Error(), "explicit constructor")
}

func TestClassCannotBeAbstractAndFinal(t *testing.T) {
	err := check(t, "C", "public abstract final class C { public C() {} }\n")
	require.Error(t, err)
	require.Contains(t, err.Error(), "abstract and final")
}

func TestNonAbstractClassRejectsAbstractMethod(t *testing.T) {
	err := check(t, "C", `class C {
    C() {}
    abstract void m();
}
`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "abstract method")
}

func TestInterfaceMethodMustBePublic(t *testing.T) {
	err := check(t, "I", "interface I { void m(); }\n")
	require.Error(t, err)
	require.Contains(t, err.Error(), "must be declared public")
}

func TestInterfaceMethodCannotHaveBody(t *testing.T) {
	err := check(t, "I", "interface I { public void m() {} }\n")
	require.Error(t, err)
	require.Contains(t, err.Error(), "must not have a body")
}

func TestVoidReturnWithValueIsRejected(t *testing.T) {
	err := check(t, "C", `class C {
    public C() {}
    public void m() {
        return 1;
    }
}
`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "void function")
}

func TestNonVoidReturnWithoutValueIsRejected(t *testing.T) {
	err := check(t, "C", `class C {
    public C() {}
    public int m() {
        return;
    }
}
`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "non-void function")
}

func TestIntLiteralOverflowRejected(t *testing.T) {
	err := check(t, "C", `class C {
    public C() {}
    public void m() {
        int x;
        x = 3000000000;
    }
}
`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "too large")
}

func TestNegatedMaxIntIsLegal(t *testing.T) {
	err := check(t, "C", `class C {
    public C() {}
    public void m() {
        int x;
        x = -2147483648;
    }
}
`)
	require.NoError(t, err)
}

func TestPreDecrementOperatorRejected(t *testing.T) {
	err := check(t, "C", `class C {
    public C() {}
    public void m() {
        int x;
        --x;
    }
}
`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "pre-decrement")
}

func TestWellFormedClassPasses(t *testing.T) {
	err := check(t, "Good", `public class Good {
    public int x;

    public Good() {
        x = 0;
    }

    public int get() {
        return x;
    }
}
`)
	require.NoError(t, err)
}
