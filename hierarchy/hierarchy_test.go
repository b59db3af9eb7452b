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

package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joos1w/semcheck/env"
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
	return g
}

func TestCheckRejectsSelfExtension(t *testing.T) {
	g := build(t, map[string]string{
		"C": "class C extends C { C() {} }\n",
	})
	err := Check(g)
	require.Error(t, err)
	require.Contains(t, err.Error(), "cannot extend itself")
}

func TestCheckRejectsExtendingFinalClass(t *testing.T) {
	g := build(t, map[string]string{
		"Base": "public final class Base { public Base() {} }\n",
		"Sub":  "class Sub extends Base { Sub() {} }\n",
	})
	err := Check(g)
	require.Error(t, err)
	require.Contains(t, err.Error(), "cannot extend a final class")
}

func TestCheckRejectsExtendingInterface(t *testing.T) {
	g := build(t, map[string]string{
		"I": "public interface I { public void m(); }\n",
		"C": "class C extends I { C() {} }\n",
	})
	err := Check(g)
	require.Error(t, err)
	require.Contains(t, err.Error(), "cannot extend an interface")
}

func TestCheckRejectsCycle(t *testing.T) {
	g := build(t, map[string]string{
		"A": "class A extends B { A() {} }\n",
		"B": "class B extends A { B() {} }\n",
	})
	err := Check(g)
	require.Error(t, err)
	require.Contains(t, err.Error(), "cyclic dependency")
}

func TestCheckRejectsNonAbstractClassMissingImplementation(t *testing.T) {
	g := build(t, map[string]string{
		"I": "public interface I { public void m(); }\n",
		"C": "class C implements I { C() {} }\n",
	})
	err := Check(g)
	require.Error(t, err)
	require.Contains(t, err.Error(), "without implementing it")
}

func TestCheckAllowsAbstractClassToLeaveMethodUnimplemented(t *testing.T) {
	g := build(t, map[string]string{
		"I": "public interface I { public void m(); }\n",
		"C": "abstract class C implements I { C() {} }\n",
	})
	require.NoError(t, Check(g))
}

func TestCheckRejectsReplacingFinalMethod(t *testing.T) {
	g := build(t, map[string]string{
		"Base": "public class Base { public Base() {} public final void m() {} }\n",
		"Sub":  "class Sub extends Base { Sub() {} public void m() {} }\n",
	})
	err := Check(g)
	require.Error(t, err)
	require.Contains(t, err.Error(), "cannot replace final method")
}

func TestCheckRejectsDowngradingPublicToProtected(t *testing.T) {
	g := build(t, map[string]string{
		"Base": "public class Base { public Base() {} public void m() {} }\n",
		"Sub":  "class Sub extends Base { Sub() {} protected void m() {} }\n",
	})
	err := Check(g)
	require.Error(t, err)
	require.Contains(t, err.Error(), "with a protected method")
}

func TestCheckRejectsDuplicateSignatureInSameType(t *testing.T) {
	g := build(t, map[string]string{
		"C": "class C { C() {} public void m() {} public void m() {} }\n",
	})
	err := Check(g)
	require.Error(t, err)
	require.Contains(t, err.Error(), "cannot declare two methods with the same signature")
}

func TestCheckInheritsConcreteFieldAndMethod(t *testing.T) {
	g := build(t, map[string]string{
		"Base": "public class Base { public int x; public Base() {} public int get() { return x; } }\n",
		"Sub":  "class Sub extends Base { Sub() {} }\n",
	})
	require.NoError(t, Check(g))

	sub := g.Lookup("Sub").(*env.ClassSymbol)
	names := map[string]bool{}
	for _, f := range sub.Fields {
		names[f.Name] = true
	}
	require.True(t, names["x"], "Sub must inherit Base's field x")

	methods := map[string]bool{}
	for _, m := range sub.Methods {
		methods[m.Signature()] = true
	}
	require.True(t, methods["get()"], "Sub must inherit Base's method get()")
}

func TestCheckIsIdempotentOnAlreadyCheckedSymbol(t *testing.T) {
	g := build(t, map[string]string{
		"C": "class C { C() {} }\n",
	})
	require.NoError(t, Check(g))
	c := g.Lookup("C").(*env.ClassSymbol)
	require.True(t, c.Checked)
	// Re-running Check over the same context must be a no-op, not a
	// duplicate-inheritance error from appending inherited members twice.
	require.NoError(t, Check(g))
}
