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

// Package reachability supplements phase 6 with a statement-level
// reachability pass over every method/constructor body: an unreachable
// statement is rejected, and a non-void method whose body can complete
// normally (fall off the end without returning a value on every path)
// is rejected too. Ported in spirit from the reference implementation's
// control_flow.py/reachability.py, which built a CFG over the same
// statement shapes (if/while/for/blocks/return) for a liveness pass;
// this is the equivalent "can control reach here" pass Joos itself
// requires, done with a pair of bools per statement instead of a graph,
// since Joos 1W has no break/continue to make the graph interesting.
package reachability

import (
	"sort"

	"github.com/joos1w/semcheck/cst"
	"github.com/joos1w/semcheck/diagnostic"
	"github.com/joos1w/semcheck/env"
)

// Check runs the reachability pass over every declared class's methods
// and constructors, in sorted canonical-name order for deterministic
// diagnostics. Abstract and native-less interface methods have no body
// and are skipped.
func Check(g *env.GlobalContext) error {
	names := sortedNames(g)
	for _, name := range names {
		sym, ok := g.Symbols[name].(*env.ClassSymbol)
		if !ok {
			continue
		}
		for _, m := range sym.Methods {
			if m.Decl == nil || m.Decl.Body == nil {
				continue
			}
			if err := checkMethodBody(m.Decl.Body, !isVoid(m.ReturnType)); err != nil {
				return err
			}
		}
		for _, c := range sym.Constructors {
			if c.Decl == nil || c.Decl.Body == nil {
				continue
			}
			if err := checkMethodBody(c.Decl.Body, false); err != nil {
				return err
			}
		}
	}
	return nil
}

func sortedNames(g *env.GlobalContext) []string {
	names := make([]string, 0, len(g.Symbols))
	for name := range g.Symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isVoid(t env.TypeValue) bool {
	return t == nil
}

// checkMethodBody walks a method/constructor body starting from a
// reachable entry. If mustReturnValue is set (the owning method is
// non-void), a body that can complete normally is rejected: every path
// through a value-returning method must end in a return statement.
func checkMethodBody(body *cst.Block, mustReturnValue bool) error {
	completes, err := checkBlock(body, true)
	if err != nil {
		return err
	}
	if mustReturnValue && completes {
		return diagnostic.At(body.Pos(), "missing return statement: method can complete without returning a value")
	}
	return nil
}

// checkBlock walks stmts in order, threading reachability from one
// statement to the next, and returns whether the block can complete
// normally (fall through past its last statement).
func checkBlock(b *cst.Block, reachable bool) (bool, error) {
	for _, stmt := range b.Stmts {
		if !reachable {
			return false, diagnostic.At(stmt.Pos(), "unreachable statement")
		}
		var err error
		reachable, err = checkStmt(stmt, reachable)
		if err != nil {
			return false, err
		}
	}
	return reachable, nil
}

// checkStmt reports whether control can fall through past stmt, given
// that stmt itself is reachable.
func checkStmt(stmt cst.Statement, reachable bool) (bool, error) {
	switch s := stmt.(type) {
	case *cst.Block:
		return checkBlock(s, reachable)

	case *cst.ReturnStmt:
		return false, nil

	case *cst.EmptyStmt, *cst.LocalVarDecl, *cst.ExprStmt:
		return true, nil

	case *cst.IfStmt:
		thenCompletes, err := checkStmt(s.Then, true)
		if err != nil {
			return false, err
		}
		if s.Else == nil {
			return true, nil
		}
		elseCompletes, err := checkStmt(s.Else, true)
		if err != nil {
			return false, err
		}
		return thenCompletes || elseCompletes, nil

	case *cst.WhileStmt:
		switch cond := constBool(s.Cond); cond {
		case boolFalse:
			return false, diagnostic.At(s.Body.Pos(), "unreachable statement")
		case boolTrue:
			if _, err := checkStmt(s.Body, true); err != nil {
				return false, err
			}
			return false, nil
		default:
			if _, err := checkStmt(s.Body, true); err != nil {
				return false, err
			}
			return true, nil
		}

	case *cst.ForStmt:
		condIsTrue := s.Cond == nil || constBool(s.Cond) == boolTrue
		switch {
		case constBool(s.Cond) == boolFalse:
			return false, diagnostic.At(s.Body.Pos(), "unreachable statement")
		case condIsTrue:
			if _, err := checkStmt(s.Body, true); err != nil {
				return false, err
			}
			return false, nil
		default:
			if _, err := checkStmt(s.Body, true); err != nil {
				return false, err
			}
			return true, nil
		}

	default:
		return true, nil
	}
}

type constBoolResult int

const (
	notConst constBoolResult = iota
	boolTrue
	boolFalse
)

// constBool reports whether cond is the literal "true" or "false" —
// the only constant-expression shape the reachability pass special-
// cases, matching the JLS rule that an infinite "while (true)" loop
// (and, symmetrically, a "while (false)" loop whose body never runs)
// is recognized by its literal condition, not by general constant
// folding.
func constBool(cond cst.Expression) constBoolResult {
	b, ok := cond.(*cst.BoolLiteral)
	if !ok {
		return notConst
	}
	if b.Value {
		return boolTrue
	}
	return boolFalse
}
