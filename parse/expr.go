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

import "github.com/joos1w/semcheck/cst"

// expr is the entry point for expression parsing: assignment is the
// loosest-binding Joos 1W operator, right-associative.
func (p *parser) expr() (cst.Expression, error) {
	return p.assignExpr()
}

func (p *parser) assignExpr() (cst.Expression, error) {
	lhs, err := p.ternaryExpr()
	if err != nil {
		return nil, err
	}
	if p.isPunct("=") {
		pos := p.next().Pos
		rhs, err := p.assignExpr()
		if err != nil {
			return nil, err
		}
		return &cst.AssignExpr{Base: cst.Base{P: pos}, Target: lhs, Value: rhs}, nil
	}
	return lhs, nil
}

func (p *parser) ternaryExpr() (cst.Expression, error) {
	cond, err := p.binaryExpr(0)
	if err != nil {
		return nil, err
	}
	if p.isPunct("?") {
		pos := p.next().Pos
		then, err := p.assignExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		els, err := p.ternaryExpr()
		if err != nil {
			return nil, err
		}
		return &cst.TernaryExpr{Base: cst.Base{P: pos}, Cond: cond, Then: then, Else: els}, nil
	}
	return cond, nil
}

// binaryPrecedence lists each left-associative binary operator level from
// loosest to tightest; "instanceof" is handled specially inside the
// relational level since its right operand is a type, not an expression.
var binaryPrecedence = [][]string{
	{"||"},
	{"&&"},
	{"|"},
	{"&"},
	{"==", "!="},
	{"<", ">", "<=", ">="},
	{"+", "-"},
	{"*", "/", "%"},
}

func (p *parser) binaryExpr(level int) (cst.Expression, error) {
	if level == len(binaryPrecedence) {
		return p.unaryExpr()
	}
	left, err := p.binaryExpr(level + 1)
	if err != nil {
		return nil, err
	}
	for {
		// The relational level also matches "instanceof", which binds a
		// type rather than another binaryExpr operand.
		if level == 5 && p.isKeyword("instanceof") {
			pos := p.next().Pos
			typ, err := p.typeRef(false)
			if err != nil {
				return nil, err
			}
			left = &cst.InstanceOfExpr{Base: cst.Base{P: pos}, Operand: left, Type: typ}
			continue
		}
		op, ok := p.matchAny(binaryPrecedence[level])
		if !ok {
			return left, nil
		}
		right, err := p.binaryExpr(level + 1)
		if err != nil {
			return nil, err
		}
		left = &cst.BinaryExpr{Base: cst.Base{P: op.Pos}, Op: op.Text, Left: left, Right: right}
	}
}

func (p *parser) matchAny(ops []string) (Token, bool) {
	if p.cur().Kind != Punct {
		return Token{}, false
	}
	for _, op := range ops {
		if p.cur().Text == op {
			return p.next(), true
		}
	}
	return Token{}, false
}

func (p *parser) unaryExpr() (cst.Expression, error) {
	if p.isPunct("--") {
		pos := p.next().Pos
		operand, err := p.unaryExpr()
		if err != nil {
			return nil, err
		}
		return &cst.UnaryExpr{Base: cst.Base{P: pos}, Op: "--", Operand: operand}, nil
	}
	if p.isPunct("-") {
		pos := p.next().Pos
		// The one place Joos 1W allows the literal 2^31: as the immediate
		// operand of unary minus (spec §4.1).
		if p.cur().Kind == IntLit {
			lit := p.next()
			return &cst.UnaryExpr{Base: cst.Base{P: pos}, Op: "-", Operand: &cst.IntLiteral{
				Base: cst.Base{P: lit.Pos}, Value: lit.IntValue, NegatedImmediate: true,
			}}, nil
		}
		operand, err := p.unaryExpr()
		if err != nil {
			return nil, err
		}
		return &cst.UnaryExpr{Base: cst.Base{P: pos}, Op: "-", Operand: operand}, nil
	}
	if p.isPunct("!") {
		pos := p.next().Pos
		operand, err := p.unaryExpr()
		if err != nil {
			return nil, err
		}
		return &cst.UnaryExpr{Base: cst.Base{P: pos}, Op: "!", Operand: operand}, nil
	}
	if cast, ok, err := p.tryCastExpr(); err != nil || ok {
		return cast, err
	}
	return p.postfixExpr()
}

// tryCastExpr speculatively parses "(Type) unary", backtracking to a
// plain parenthesized expression when the lookahead doesn't confirm a
// cast: "(" primitive-type ")" is always a cast, "(" NamedType ")" is a
// cast only when followed by a token that can start a unary expression.
func (p *parser) tryCastExpr() (cst.Expression, bool, error) {
	if !p.isPunct("(") {
		return nil, false, nil
	}
	save := p.pos
	pos := p.cur().Pos
	p.next()

	isPrimitive := p.cur().Kind == Keyword && primitiveKeywords[p.cur().Text]
	typ, err := p.typeRef(false)
	if err != nil {
		p.pos = save
		return nil, false, nil
	}
	if !p.isPunct(")") {
		p.pos = save
		return nil, false, nil
	}
	p.next()

	// JLS cast disambiguation: a cast to a reference type must be followed
	// by a "unary expression not plus/minus" — "(a) - b" parses as the
	// subtraction of b from the parenthesized name a, not a cast of -b.
	if !isPrimitive && !p.canStartUnaryNotMinus() {
		p.pos = save
		return nil, false, nil
	}

	operand, err := p.unaryExpr()
	if err != nil {
		return nil, false, err
	}
	return &cst.CastExpr{Base: cst.Base{P: pos}, Type: typ, Operand: operand}, true, nil
}

func (p *parser) canStartUnaryNotMinus() bool {
	t := p.cur()
	switch t.Kind {
	case Ident, IntLit, CharLit, StringLit:
		return true
	case Keyword:
		switch t.Text {
		case "this", "null", "true", "false", "new":
			return true
		}
		return false
	case Punct:
		return t.Text == "(" || t.Text == "!"
	}
	return false
}

func (p *parser) postfixExpr() (cst.Expression, error) {
	e, err := p.primaryExpr()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.isPunct("."):
			p.next()
			name, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			if p.isPunct("(") {
				args, err := p.argList()
				if err != nil {
					return nil, err
				}
				e = &cst.MethodInvocation{Base: cst.Base{P: name.Pos}, Receiver: e, MethodName: name.Text, Args: args}
			} else {
				e = &cst.AccessPath{Base: cst.Base{P: name.Pos}, Operand: e, Field: name.Text}
			}
		case p.isPunct("["):
			pos := p.next().Pos
			idx, err := p.expr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expectPunct("]"); err != nil {
				return nil, err
			}
			e = &cst.ArrayAccessExpression{Base: cst.Base{P: pos}, Array: e, Index: idx}
		default:
			return e, nil
		}
	}
}

func (p *parser) argList() ([]cst.Expression, error) {
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var args []cst.Expression
	for !p.isPunct(")") {
		if len(args) > 0 {
			if _, err := p.expectPunct(","); err != nil {
				return nil, err
			}
		}
		a, err := p.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	p.next()
	return args, nil
}

func (p *parser) primaryExpr() (cst.Expression, error) {
	t := p.cur()
	switch {
	case t.Kind == Keyword && t.Text == "this":
		p.next()
		return &cst.ThisExpr{Base: cst.Base{P: t.Pos}}, nil
	case t.Kind == Keyword && t.Text == "null":
		p.next()
		return &cst.NullLiteral{Base: cst.Base{P: t.Pos}}, nil
	case t.Kind == Keyword && (t.Text == "true" || t.Text == "false"):
		p.next()
		return &cst.BoolLiteral{Base: cst.Base{P: t.Pos}, Value: t.Text == "true"}, nil
	case t.Kind == Keyword && t.Text == "new":
		return p.newExpr()
	case t.Kind == IntLit:
		p.next()
		return &cst.IntLiteral{Base: cst.Base{P: t.Pos}, Value: t.IntValue}, nil
	case t.Kind == CharLit:
		p.next()
		return &cst.CharLiteral{Base: cst.Base{P: t.Pos}, Value: t.CharValue}, nil
	case t.Kind == StringLit:
		p.next()
		return &cst.StringLiteral{Base: cst.Base{P: t.Pos}, Value: t.Text}, nil
	case t.Kind == Punct && t.Text == "(":
		p.next()
		inner, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return &cst.ParenExpr{Base: cst.Base{P: t.Pos}, Inner: inner}, nil
	case t.Kind == Ident:
		p.next()
		if p.isPunct("(") {
			args, err := p.argList()
			if err != nil {
				return nil, err
			}
			return &cst.MethodInvocation{Base: cst.Base{P: t.Pos}, MethodName: t.Text, Args: args}, nil
		}
		return &cst.Identifier{Base: cst.Base{P: t.Pos}, Name: t.Text}, nil
	default:
		return nil, p.errf("expected an expression")
	}
}

// newExpr parses "new Type(args)" or "new Type[size]".
func (p *parser) newExpr() (cst.Expression, error) {
	pos, _ := p.expectKeyword("new")
	typ, err := p.typeRef(false)
	if err != nil {
		return nil, err
	}
	if p.isPunct("[") {
		p.next()
		size, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct("]"); err != nil {
			return nil, err
		}
		return &cst.ArrayCreationExpression{Base: cst.Base{P: pos}, ElemType: typ, Size: size}, nil
	}
	args, err := p.argList()
	if err != nil {
		return nil, err
	}
	return &cst.EntityCreationExpression{Base: cst.Base{P: pos}, Type: typ, Args: args}, nil
}
