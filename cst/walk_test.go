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

package cst_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joos1w/semcheck/cst"
	"github.com/joos1w/semcheck/parse"
)

var errStop = errors.New("stop")

type countingVisitor struct {
	onPre func(cst.Node) error
}

func (c *countingVisitor) Pre(n cst.Node) error  { return c.onPre(n) }
func (c *countingVisitor) Post(cst.Node) error { return nil }

func TestInspectVisitsEveryIdentifierInAnExpression(t *testing.T) {
	u, err := parse.File("C", []byte(`class C {
    C() {}
    public int m() {
        return a + b.c;
    }
}
`))
	require.NoError(t, err)

	cls := u.Type.(*cst.ClassDecl)
	var method *cst.MethodDecl
	for _, m := range cls.Methods {
		if m.Name == "m" {
			method = m
		}
	}
	require.NotNil(t, method)

	ret := method.Body.Stmts[0].(*cst.ReturnStmt)

	var idents []string
	err = cst.Inspect(ret.Value, func(n cst.Node) error {
		if id, ok := n.(*cst.Identifier); ok {
			idents = append(idents, id.Name)
		}
		return nil
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a", "b"}, idents)
}

func TestWalkStopsOnFirstError(t *testing.T) {
	u, err := parse.File("C", []byte("class C { C() {} }\n"))
	require.NoError(t, err)

	calls := 0
	v := &countingVisitor{onPre: func(cst.Node) error {
		calls++
		if calls == 2 {
			return errStop
		}
		return nil
	}}
	err = cst.Walk(v, u)
	require.ErrorIs(t, err, errStop)
	require.Equal(t, 2, calls)
}
