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

// Package typecheck implements phase 6: resolving the static type of
// every expression, checking assignability/castability, numeric
// promotion, and access control, and a handful of constraints that
// depend on a fully resolved expression type (array creation/indexing,
// method/constructor overload resolution, forward-reference-in-field-
// initializer detection) (spec §4.6).
package typecheck

import (
	"sort"

	"github.com/joos1w/semcheck/cst"
	"github.com/joos1w/semcheck/diagnostic"
	"github.com/joos1w/semcheck/disambig"
	"github.com/joos1w/semcheck/env"
)

// context carries the state threaded through one method/constructor/
// field-initializer check: the enclosing type (for ResolveName/
// ResolveField/ResolveMethod lookups), the expected return type (nil for
// a void method or a constructor), and — only while checking a field
// initializer — the position forward references are measured against.
type context struct {
	g          *env.GlobalContext
	table      *disambig.Table
	owner      *env.ClassSymbol
	returnType env.TypeValue
	hasReturn  bool // true iff the method is non-void (returnType meaningful even for primitive "void"-shaped checks)

	fieldInitPos *cst.Position
}

// Run type-checks every field initializer and method/constructor body in
// g, using the classifications table produced by phase 5. It must run
// last, after phases 1-5 (spec §5).
func Run(g *env.GlobalContext, table *disambig.Table) error {
	names := make([]string, 0, len(g.Symbols))
	for name := range g.Symbols {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		class, ok := g.Symbols[name].(*env.ClassSymbol)
		if !ok {
			continue
		}
		if err := checkClass(g, table, class); err != nil {
			return err
		}
	}
	return nil
}

func checkClass(g *env.GlobalContext, table *disambig.Table, c *env.ClassSymbol) error {
	for _, f := range c.Fields {
		if f.Decl == nil || f.Decl.Init == nil {
			continue
		}
		scope := env.NewScope(c.BodyScope, f.Decl)
		scope.IsStatic = hasModifier(f.Mods, "static")
		pos := f.Decl.Pos()
		ctx := &context{g: g, table: table, owner: c, fieldInitPos: &pos}

		rhsType, err := resolveExprType(ctx, scope, f.Decl.Init)
		if err != nil {
			return err
		}
		if !env.Assignable(rhsType, f.Type) {
			return diagnostic.At(f.Decl.Pos(), "cannot assign type %s to field %s of type %s", rhsType.TypeName(), f.Name, f.Type.TypeName())
		}
	}

	for _, m := range c.Methods {
		if m.Decl == nil || m.Decl.Body == nil {
			continue
		}
		scope := g.ScopeOf[m.Decl.Body]
		if scope == nil {
			scope = c.BodyScope
		}
		ctx := &context{g: g, table: table, owner: c, returnType: m.ReturnType, hasReturn: m.ReturnType != nil}
		if err := checkStmt(ctx, scope, m.Decl.Body); err != nil {
			return err
		}
	}

	for _, ctor := range c.Constructors {
		if ctor.Decl == nil || ctor.Decl.Body == nil {
			continue
		}
		scope := g.ScopeOf[ctor.Decl.Body]
		if scope == nil {
			scope = c.BodyScope
		}
		ctx := &context{g: g, table: table, owner: c}
		if err := checkStmt(ctx, scope, ctor.Decl.Body); err != nil {
			return err
		}
	}
	return nil
}

func hasModifier(mods []string, name string) bool {
	for _, m := range mods {
		if m == name {
			return true
		}
	}
	return false
}

// checkStmt mirrors the scope-tree walk build.go/disambig.go use, this
// time actually validating types.
func checkStmt(ctx *context, scope *env.Scope, stmt cst.Statement) error {
	switch s := stmt.(type) {
	case *cst.Block:
		child := ctx.g.ScopeOf[s]
		if child == nil {
			child = scope
		}
		for _, inner := range s.Stmts {
			if err := checkStmt(ctx, child, inner); err != nil {
				return err
			}
		}
		return nil

	case *cst.LocalVarDecl:
		local, _ := scope.Lookup(s.Name).(*env.LocalVarSymbol)
		if s.Init == nil || local == nil {
			return nil
		}
		initType, err := resolveExprType(ctx, scope, s.Init)
		if err != nil {
			return err
		}
		if !env.Assignable(initType, local.Type) {
			return diagnostic.At(s.Pos(), "cannot assign type %s to local variable %s of type %s", initType.TypeName(), s.Name, local.Type.TypeName())
		}
		return nil

	case *cst.ExprStmt:
		_, err := resolveExprType(ctx, scope, s.Expr)
		return err

	case *cst.IfStmt:
		if err := checkBooleanCond(ctx, scope, s.Cond, "if"); err != nil {
			return err
		}
		if err := checkStmt(ctx, scope, s.Then); err != nil {
			return err
		}
		if s.Else != nil {
			return checkStmt(ctx, scope, s.Else)
		}
		return nil

	case *cst.WhileStmt:
		if err := checkBooleanCond(ctx, scope, s.Cond, "while"); err != nil {
			return err
		}
		return checkStmt(ctx, scope, s.Body)

	case *cst.ForStmt:
		child := ctx.g.ScopeOf[s]
		if child == nil {
			child = scope
		}
		if s.Init != nil {
			if err := checkStmt(ctx, child, s.Init); err != nil {
				return err
			}
		}
		if s.Cond != nil {
			if err := checkBooleanCond(ctx, child, s.Cond, "for"); err != nil {
				return err
			}
		}
		if s.Update != nil {
			if err := checkStmt(ctx, child, s.Update); err != nil {
				return err
			}
		}
		return checkStmt(ctx, child, s.Body)

	case *cst.ReturnStmt:
		if s.Value == nil {
			if ctx.hasReturn {
				return diagnostic.At(s.Pos(), "missing return value in a method declared to return %s", ctx.returnType.TypeName())
			}
			return nil
		}
		if !ctx.hasReturn {
			return diagnostic.At(s.Pos(), "cannot return a value from a void method or constructor")
		}
		valType, err := resolveExprType(ctx, scope, s.Value)
		if err != nil {
			return err
		}
		if !env.Assignable(valType, ctx.returnType) {
			return diagnostic.At(s.Pos(), "cannot return type %s from a method declared to return %s", valType.TypeName(), ctx.returnType.TypeName())
		}
		return nil

	default:
		return nil
	}
}

func checkBooleanCond(ctx *context, scope *env.Scope, cond cst.Expression, where string) error {
	t, err := resolveExprType(ctx, scope, cond)
	if err != nil {
		return err
	}
	if t.TypeName() != "boolean" {
		return diagnostic.At(cond.Pos(), "%s condition must have type boolean, found %s", where, t.TypeName())
	}
	return nil
}

func isVoid(t env.TypeValue) bool {
	_, ok := t.(env.VoidTypeValue)
	return ok
}

// resolveExprType computes the static type of expr, raising a
// diagnostic.Error for any Joos 1W typing violation (spec §4.6).
func resolveExprType(ctx *context, scope *env.Scope, expr cst.Expression) (env.TypeValue, error) {
	switch e := expr.(type) {
	case *cst.IntLiteral:
		return &env.PrimitiveTypeValue{Name: "int"}, nil
	case *cst.BoolLiteral:
		return &env.PrimitiveTypeValue{Name: "boolean"}, nil
	case *cst.CharLiteral:
		return &env.PrimitiveTypeValue{Name: "char"}, nil
	case *cst.NullLiteral:
		return env.NullTypeValue{}, nil
	case *cst.StringLiteral:
		return stringType(ctx)

	case *cst.ThisExpr:
		if scope.IsStatic {
			return nil, diagnostic.At(e.Pos(), "keyword 'this' found in a static context")
		}
		return &env.ReferenceTypeValue{Decl: ctx.owner}, nil

	case *cst.ParenExpr:
		return resolveExprType(ctx, scope, e.Inner)

	case *cst.Identifier:
		return resolveNameExpr(ctx, e, e.Name)

	case *cst.AccessPath:
		return resolveAccessPathExpr(ctx, scope, e)

	case *cst.BinaryExpr:
		return resolveBinaryExpr(ctx, scope, e)

	case *cst.UnaryExpr:
		return resolveUnaryExpr(ctx, scope, e)

	case *cst.AssignExpr:
		return resolveAssignExpr(ctx, scope, e)

	case *cst.CastExpr:
		return resolveCastExpr(ctx, scope, e)

	case *cst.InstanceOfExpr:
		return resolveInstanceOfExpr(ctx, scope, e)

	case *cst.TernaryExpr:
		return resolveTernaryExpr(ctx, scope, e)

	case *cst.MethodInvocation:
		return resolveMethodInvocation(ctx, scope, e)

	case *cst.EntityCreationExpression:
		return resolveEntityCreation(ctx, scope, e)

	case *cst.ArrayCreationExpression:
		return resolveArrayCreation(ctx, scope, e)

	case *cst.ArrayAccessExpression:
		return resolveArrayAccess(ctx, scope, e)

	default:
		return nil, diagnostic.At(expr.Pos(), "unsupported expression")
	}
}

func stringType(ctx *context) (env.TypeValue, error) {
	sym := ctx.g.Lookup("java.lang.String")
	if sym == nil {
		return nil, diagnostic.New("java.lang.String is not available in this environment")
	}
	return &env.ReferenceTypeValue{Decl: sym}, nil
}

// resolveNameExpr handles a bare *cst.Identifier used as a value: a
// simple-name lookup already classified by phase 5.
func resolveNameExpr(ctx *context, id *cst.Identifier, name string) (env.TypeValue, error) {
	entry := ctx.table.Lookup(id)
	if entry == nil {
		return nil, diagnostic.At(id.Pos(), "name %q could not be resolved", name)
	}
	if entry.Kind != disambig.Expr {
		return nil, diagnostic.At(id.Pos(), "%q names a type or package, not a value", name)
	}
	if ctx.fieldInitPos != nil {
		if err := checkForwardFieldReference(ctx, name, id.Pos()); err != nil {
			return nil, err
		}
	}
	return entry.Value, nil
}

func resolveAccessPathExpr(ctx *context, scope *env.Scope, ap *cst.AccessPath) (env.TypeValue, error) {
	if entry := ctx.table.Lookup(ap); entry != nil {
		if entry.Kind != disambig.Expr {
			return nil, diagnostic.At(ap.Pos(), "%q names a type or package, not a value", ap.Field)
		}
		return entry.Value, nil
	}

	// Operand wasn't itself a name chain (e.g. a method call result):
	// resolve the operand's type directly and look up the field on it.
	operandType, err := resolveExprType(ctx, scope, ap.Operand)
	if err != nil {
		return nil, err
	}
	field, err := operandType.ResolveField(ap.Field, ctx.owner, false)
	if err != nil {
		return nil, err
	}
	if field == nil {
		return nil, diagnostic.At(ap.Pos(), "cannot resolve field %q on type %s", ap.Field, operandType.TypeName())
	}
	return field.Type, nil
}

// checkForwardFieldReference rejects an unqualified reference, within a
// non-static field initializer, to an instance field of the same class
// declared at or after the field being initialized (spec §4.6, ported
// from type_check.py's resolve_refname).
func checkForwardFieldReference(ctx *context, name string, usage cst.Position) error {
	for _, f := range ctx.owner.Fields {
		if f.Name != name || f.Decl == nil {
			continue
		}
		if hasModifier(f.Mods, "static") {
			continue
		}
		declPos := f.Decl.Pos()
		if declPos.Line > usage.Line || (declPos.Line == usage.Line && declPos.Column >= usage.Column) {
			return diagnostic.At(usage, "initializer of a non-static field cannot use a non-static field %q declared later without an explicit 'this'", name)
		}
	}
	return nil
}

func resolveBinaryExpr(ctx *context, scope *env.Scope, b *cst.BinaryExpr) (env.TypeValue, error) {
	left, err := resolveExprType(ctx, scope, b.Left)
	if err != nil {
		return nil, err
	}
	right, err := resolveExprType(ctx, scope, b.Right)
	if err != nil {
		return nil, err
	}
	if isVoid(left) || isVoid(right) {
		return nil, diagnostic.At(b.Pos(), "operand cannot have type void in a %q expression", b.Op)
	}

	switch b.Op {
	case "+":
		if isStringRef(left) || isStringRef(right) {
			return stringType(ctx)
		}
		if !env.IsNumeric(left) || !env.IsNumeric(right) {
			return nil, diagnostic.At(b.Pos(), "cannot use operands of type %s, %s in a + expression", left.TypeName(), right.TypeName())
		}
		return &env.PrimitiveTypeValue{Name: "int"}, nil

	case "-", "*", "/", "%":
		if !env.IsNumeric(left) || !env.IsNumeric(right) {
			return nil, diagnostic.At(b.Pos(), "cannot use operands of type %s, %s in a %q expression", left.TypeName(), right.TypeName(), b.Op)
		}
		return &env.PrimitiveTypeValue{Name: "int"}, nil

	case "<", ">", "<=", ">=":
		if !env.IsNumeric(left) || !env.IsNumeric(right) {
			return nil, diagnostic.At(b.Pos(), "cannot use operands of type %s, %s in a relational expression", left.TypeName(), right.TypeName())
		}
		return &env.PrimitiveTypeValue{Name: "boolean"}, nil

	case "==", "!=":
		bothNumeric := env.IsNumeric(left) && env.IsNumeric(right)
		bothBoolean := left.TypeName() == "boolean" && right.TypeName() == "boolean"
		if !bothNumeric && !bothBoolean && !env.Castable(left, right) {
			return nil, diagnostic.At(b.Pos(), "cannot use operands of type %s, %s in an equality expression", left.TypeName(), right.TypeName())
		}
		return &env.PrimitiveTypeValue{Name: "boolean"}, nil

	case "&&", "||", "&", "|":
		if left.TypeName() != "boolean" || right.TypeName() != "boolean" {
			return nil, diagnostic.At(b.Pos(), "operands of %q must be boolean, found %s, %s", b.Op, left.TypeName(), right.TypeName())
		}
		return &env.PrimitiveTypeValue{Name: "boolean"}, nil

	default:
		return nil, diagnostic.At(b.Pos(), "unknown binary operator %q", b.Op)
	}
}

func isStringRef(t env.TypeValue) bool {
	ref, ok := t.(*env.ReferenceTypeValue)
	return ok && ref.Decl.CanonicalName() == "java.lang.String"
}

func resolveUnaryExpr(ctx *context, scope *env.Scope, u *cst.UnaryExpr) (env.TypeValue, error) {
	t, err := resolveExprType(ctx, scope, u.Operand)
	if err != nil {
		return nil, err
	}
	if isVoid(t) {
		return nil, diagnostic.At(u.Pos(), "operand cannot have type void in a unary %q expression", u.Op)
	}
	switch u.Op {
	case "-":
		if !env.IsNumeric(t) {
			return nil, diagnostic.At(u.Pos(), "cannot negate operand of type %s", t.TypeName())
		}
		return t, nil
	case "!":
		if t.TypeName() != "boolean" {
			return nil, diagnostic.At(u.Pos(), "cannot complement operand of type %s", t.TypeName())
		}
		return t, nil
	default:
		return nil, diagnostic.At(u.Pos(), "unknown unary operator %q", u.Op)
	}
}

func resolveAssignExpr(ctx *context, scope *env.Scope, a *cst.AssignExpr) (env.TypeValue, error) {
	// The left-hand side is allowed to be a forward/non-static reference
	// (assignment, unlike a read, may legally target a not-yet-"visible"
	// field), so it is resolved with no forward-reference check.
	savedPos := ctx.fieldInitPos
	ctx.fieldInitPos = nil
	lhs, err := resolveExprType(ctx, scope, a.Target)
	ctx.fieldInitPos = savedPos
	if err != nil {
		return nil, err
	}
	rhs, err := resolveExprType(ctx, scope, a.Value)
	if err != nil {
		return nil, err
	}
	if !env.Assignable(rhs, lhs) {
		return nil, diagnostic.At(a.Pos(), "cannot assign type %s to %s", rhs.TypeName(), lhs.TypeName())
	}
	return rhs, nil
}

func resolveCastExpr(ctx *context, scope *env.Scope, c *cst.CastExpr) (env.TypeValue, error) {
	targetName := env.TypeRefName(c.Type)
	target := ctx.owner.ResolveName(targetName)
	if target == nil {
		return nil, diagnostic.At(c.Pos(), "cannot resolve cast target type %q", targetName)
	}
	source, err := resolveExprType(ctx, scope, c.Operand)
	if err != nil {
		return nil, err
	}
	if isVoid(source) {
		return nil, diagnostic.At(c.Pos(), "cast target cannot have type void")
	}
	if !env.Castable(source, target) {
		return nil, diagnostic.At(c.Pos(), "cannot cast type %s to %s", source.TypeName(), target.TypeName())
	}
	return target, nil
}

func resolveInstanceOfExpr(ctx *context, scope *env.Scope, i *cst.InstanceOfExpr) (env.TypeValue, error) {
	operand, err := resolveExprType(ctx, scope, i.Operand)
	if err != nil {
		return nil, err
	}
	if operand.IsPrimitive() {
		return nil, diagnostic.At(i.Pos(), "left side of instanceof must be a reference type, found %s", operand.TypeName())
	}
	typeName := env.TypeRefName(i.Type)
	if ctx.owner.ResolveName(typeName) == nil {
		return nil, diagnostic.At(i.Pos(), "cannot resolve instanceof type %q", typeName)
	}
	return &env.PrimitiveTypeValue{Name: "boolean"}, nil
}

func resolveTernaryExpr(ctx *context, scope *env.Scope, t *cst.TernaryExpr) (env.TypeValue, error) {
	if err := checkBooleanCond(ctx, scope, t.Cond, "ternary"); err != nil {
		return nil, err
	}
	thenType, err := resolveExprType(ctx, scope, t.Then)
	if err != nil {
		return nil, err
	}
	elseType, err := resolveExprType(ctx, scope, t.Else)
	if err != nil {
		return nil, err
	}
	if env.Assignable(elseType, thenType) {
		return thenType, nil
	}
	if env.Assignable(thenType, elseType) {
		return elseType, nil
	}
	return nil, diagnostic.At(t.Pos(), "incompatible branch types %s and %s in ternary expression", thenType.TypeName(), elseType.TypeName())
}

func resolveArgTypes(ctx *context, scope *env.Scope, args []cst.Expression) ([]env.TypeValue, error) {
	out := make([]env.TypeValue, 0, len(args))
	for _, a := range args {
		t, err := resolveExprType(ctx, scope, a)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// resolveMethodInvocation resolves a method call's receiver and dispatches
// overload resolution by exact parameter-type signature (spec §4.6; Joos
// 1W has no overload widening, only exact-signature matching, per
// hierarchy.go's inheritance rules).
func resolveMethodInvocation(ctx *context, scope *env.Scope, m *cst.MethodInvocation) (env.TypeValue, error) {
	argTypes, err := resolveArgTypes(ctx, scope, m.Args)
	if err != nil {
		return nil, err
	}

	var receiverType env.TypeValue
	static := false

	if m.Receiver == nil {
		if scope.IsStatic {
			return nil, diagnostic.At(m.Pos(), "no implicit 'this' in a static context (attempting to invoke %s)", m.MethodName)
		}
		receiverType = &env.ReferenceTypeValue{Decl: ctx.owner}
	} else if entry := chainEntry(ctx.table, m.Receiver); entry != nil && entry.Kind != disambig.Expr {
		if entry.Kind == disambig.Package {
			return nil, diagnostic.At(m.Pos(), "cannot invoke method %s on a package name", m.MethodName)
		}
		receiverType = &env.ReferenceTypeValue{Decl: entry.Type}
		static = true
	} else {
		receiverType, err = resolveExprType(ctx, scope, m.Receiver)
		if err != nil {
			return nil, err
		}
	}

	if receiverType.IsPrimitive() {
		return nil, diagnostic.At(m.Pos(), "cannot call method %s on primitive type %s", m.MethodName, receiverType.TypeName())
	}

	method, err := receiverType.ResolveMethod(m.MethodName, argTypes, ctx.owner, static)
	if err != nil {
		return nil, err
	}
	if method == nil {
		return nil, diagnostic.At(m.Pos(), "method %s could not be resolved on type %s", m.MethodName, receiverType.TypeName())
	}
	if method.ReturnType == nil {
		return env.VoidTypeValue{}, nil
	}
	return method.ReturnType, nil
}

// chainEntry returns expr's disambig classification if expr is itself a
// name-chain node (an Identifier or AccessPath); nil otherwise.
func chainEntry(table *disambig.Table, expr cst.Expression) *disambig.Entry {
	switch expr.(type) {
	case *cst.Identifier, *cst.AccessPath:
		return table.Lookup(expr)
	default:
		return nil
	}
}

func resolveEntityCreation(ctx *context, scope *env.Scope, e *cst.EntityCreationExpression) (env.TypeValue, error) {
	typeName := env.TypeRefName(e.Type)
	tv := ctx.owner.ResolveName(typeName)
	if tv == nil {
		return nil, diagnostic.At(e.Pos(), "cannot resolve type %q", typeName)
	}
	ref, ok := tv.(*env.ReferenceTypeValue)
	if !ok {
		return nil, diagnostic.At(e.Pos(), "cannot instantiate non-reference type %q", typeName)
	}
	class, ok := ref.Decl.(*env.ClassSymbol)
	if !ok {
		return nil, diagnostic.At(e.Pos(), "cannot instantiate interface %q", typeName)
	}
	if hasModifier(class.Mods, "abstract") {
		return nil, diagnostic.At(e.Pos(), "cannot instantiate abstract class %q", typeName)
	}

	argTypes, err := resolveArgTypes(ctx, scope, e.Args)
	if err != nil {
		return nil, err
	}
	ctor, err := class.ResolveConstructor(argTypes, ctx.owner)
	if err != nil {
		return nil, err
	}
	if ctor == nil {
		return nil, diagnostic.At(e.Pos(), "no constructor of %s matches the given argument types", typeName)
	}
	return ref, nil
}

func resolveArrayCreation(ctx *context, scope *env.Scope, a *cst.ArrayCreationExpression) (env.TypeValue, error) {
	if a.Size != nil {
		sizeType, err := resolveExprType(ctx, scope, a.Size)
		if err != nil {
			return nil, err
		}
		if !env.IsNumeric(sizeType) {
			return nil, diagnostic.At(a.Pos(), "array creation size must be a numeric type, found %s", sizeType.TypeName())
		}
	}
	elemName := env.TypeRefName(a.ElemType)
	elem := ctx.owner.ResolveName(elemName)
	if elem == nil {
		return nil, diagnostic.At(a.Pos(), "cannot resolve array element type %q", elemName)
	}
	return &env.ArrayTypeValue{Elem: elem}, nil
}

func resolveArrayAccess(ctx *context, scope *env.Scope, a *cst.ArrayAccessExpression) (env.TypeValue, error) {
	arrType, err := resolveExprType(ctx, scope, a.Array)
	if err != nil {
		return nil, err
	}
	arr, ok := arrType.(*env.ArrayTypeValue)
	if !ok {
		return nil, diagnostic.At(a.Pos(), "cannot index non-array type %s", arrType.TypeName())
	}
	idxType, err := resolveExprType(ctx, scope, a.Index)
	if err != nil {
		return nil, err
	}
	if !env.IsNumeric(idxType) {
		return nil, diagnostic.At(a.Pos(), "array index must be a numeric type, found %s", idxType.TypeName())
	}
	return arr.Elem, nil
}
