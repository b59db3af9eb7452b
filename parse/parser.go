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
	"fmt"

	"github.com/joos1w/semcheck/cst"
)

// parser is a straightforward backtracking recursive-descent parser over
// a pre-lexed token slice; backtracking (save/restore of pos) resolves the
// classic Java "is this a local-variable declaration or an expression
// statement" and "is this a cast or a parenthesized expression" ambiguities
// without a symbol table, exactly the way a hand-written Java parser (as
// opposed to a generated LALR one, which the original reference
// implementation used) typically does.
type parser struct {
	toks []Token
	pos  int
}

// File parses one compilation unit from source text. baseName is the
// file's base name without extension, recorded on the result for the
// weeder's public-type/file-name check.
func File(baseName string, src []byte) (*cst.CompilationUnit, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	return p.compilationUnit(baseName)
}

func (p *parser) cur() Token  { return p.toks[p.pos] }
func (p *parser) peekAt(n int) Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}
func (p *parser) next() Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) isPunct(s string) bool {
	t := p.cur()
	return t.Kind == Punct && t.Text == s
}

func (p *parser) isKeyword(s string) bool {
	t := p.cur()
	return t.Kind == Keyword && t.Text == s
}

func (p *parser) expectPunct(s string) (cst.Position, error) {
	if !p.isPunct(s) {
		return cst.Position{}, p.errf("expected %q", s)
	}
	return p.next().Pos, nil
}

func (p *parser) expectKeyword(s string) (cst.Position, error) {
	if !p.isKeyword(s) {
		return cst.Position{}, p.errf("expected keyword %q", s)
	}
	return p.next().Pos, nil
}

func (p *parser) expectIdent() (Token, error) {
	if p.cur().Kind != Ident {
		return Token{}, p.errf("expected identifier")
	}
	return p.next(), nil
}

func (p *parser) errf(format string, args ...any) error {
	t := p.cur()
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s, found %q at line %d, column %d", msg, tokenDesc(t), t.Pos.Line, t.Pos.Column)
}

func tokenDesc(t Token) string {
	if t.Kind == EOF {
		return "<eof>"
	}
	return t.Text
}

func (p *parser) compilationUnit(baseName string) (*cst.CompilationUnit, error) {
	pos := p.cur().Pos
	u := &cst.CompilationUnit{Base: cst.Base{P: pos}, FileBaseName: baseName}

	if p.isKeyword("package") {
		pkgPos, _ := p.expectKeyword("package")
		name, err := p.qualifiedName()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct(";"); err != nil {
			return nil, err
		}
		u.Package = &cst.PackageDecl{Base: cst.Base{P: pkgPos}, Name: name}
	}

	for p.isKeyword("import") {
		impPos, _ := p.expectKeyword("import")
		first, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		name := first.Text
		kind := cst.SingleTypeImport
		for p.isPunct(".") {
			p.next()
			if p.isPunct("*") {
				p.next()
				kind = cst.OnDemandImport
				break
			}
			id, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			name += "." + id.Text
		}
		if _, err := p.expectPunct(";"); err != nil {
			return nil, err
		}
		u.Imports = append(u.Imports, &cst.ImportDecl{Base: cst.Base{P: impPos}, Kind: kind, Name: name})
	}

	mods := p.modifiers()
	switch {
	case p.isKeyword("class"):
		decl, err := p.classDecl(mods)
		if err != nil {
			return nil, err
		}
		u.Type = decl
	case p.isKeyword("interface"):
		decl, err := p.interfaceDecl(mods)
		if err != nil {
			return nil, err
		}
		u.Type = decl
	default:
		return nil, p.errf("expected class or interface declaration")
	}

	if p.cur().Kind != EOF {
		return nil, p.errf("unexpected trailing input")
	}
	return u, nil
}

func (p *parser) modifiers() []string {
	var mods []string
	for p.cur().Kind == Keyword && modifierKeywords[p.cur().Text] {
		mods = append(mods, p.next().Text)
	}
	return mods
}

func (p *parser) qualifiedName() (string, error) {
	first, err := p.expectIdent()
	if err != nil {
		return "", err
	}
	name := first.Text
	for p.isPunct(".") {
		p.next()
		id, err := p.expectIdent()
		if err != nil {
			return "", err
		}
		name += "." + id.Text
	}
	return name, nil
}

func (p *parser) qualifiedNameList() ([]string, error) {
	var names []string
	for {
		name, err := p.qualifiedName()
		if err != nil {
			return nil, err
		}
		names = append(names, name)
		if !p.isPunct(",") {
			return names, nil
		}
		p.next()
	}
}

func (p *parser) classDecl(mods []string) (*cst.ClassDecl, error) {
	pos, _ := p.expectKeyword("class")
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	decl := &cst.ClassDecl{Base: cst.Base{P: pos}, Name: name.Text, Modifiers: mods}

	if p.isKeyword("extends") {
		p.next()
		sup, err := p.qualifiedName()
		if err != nil {
			return nil, err
		}
		decl.Extends = sup
	}
	if p.isKeyword("implements") {
		p.next()
		ifaces, err := p.qualifiedNameList()
		if err != nil {
			return nil, err
		}
		decl.Implements = ifaces
	}

	if _, err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	for !p.isPunct("}") {
		if err := p.classMember(decl); err != nil {
			return nil, err
		}
	}
	p.next()
	return decl, nil
}

func (p *parser) interfaceDecl(mods []string) (*cst.InterfaceDecl, error) {
	pos, _ := p.expectKeyword("interface")
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	decl := &cst.InterfaceDecl{Base: cst.Base{P: pos}, Name: name.Text, Modifiers: mods}

	if p.isKeyword("extends") {
		p.next()
		exts, err := p.qualifiedNameList()
		if err != nil {
			return nil, err
		}
		decl.Extends = exts
	}

	if _, err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	for !p.isPunct("}") {
		mmods := p.modifiers()
		typ, err := p.typeRef(true)
		if err != nil {
			return nil, err
		}
		mname, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		m, err := p.methodTail(mmods, typ, mname)
		if err != nil {
			return nil, err
		}
		decl.Methods = append(decl.Methods, m)
	}
	p.next()
	return decl, nil
}

// classMember parses one class-body declaration: a field, a method, or a
// constructor, disambiguated by 2-token lookahead (an identifier directly
// followed by "(" is a constructor; anything else starts with a type).
func (p *parser) classMember(decl *cst.ClassDecl) error {
	mods := p.modifiers()

	if p.cur().Kind == Ident && p.peekAt(1).Kind == Punct && p.peekAt(1).Text == "(" {
		pos := p.cur().Pos
		p.next() // constructor name, unchecked against the class name here
		params, err := p.paramList()
		if err != nil {
			return err
		}
		body, err := p.block()
		if err != nil {
			return err
		}
		decl.Constructors = append(decl.Constructors, &cst.ConstructorDecl{
			Base: cst.Base{P: pos}, Modifiers: mods, Params: params, Body: body,
		})
		return nil
	}

	typ, err := p.typeRef(true)
	if err != nil {
		return err
	}
	name, err := p.expectIdent()
	if err != nil {
		return err
	}

	if p.isPunct("(") {
		m, err := p.methodTail(mods, typ, name)
		if err != nil {
			return err
		}
		decl.Methods = append(decl.Methods, m)
		return nil
	}

	field := &cst.FieldDecl{Base: cst.Base{P: name.Pos}, Name: name.Text, Modifiers: mods, Type: typ}
	if p.isPunct("=") {
		p.next()
		init, err := p.expr()
		if err != nil {
			return err
		}
		field.Init = init
	}
	if _, err := p.expectPunct(";"); err != nil {
		return err
	}
	decl.Fields = append(decl.Fields, field)
	return nil
}

func (p *parser) methodTail(mods []string, returnType cst.TypeRef, name Token) (*cst.MethodDecl, error) {
	params, err := p.paramList()
	if err != nil {
		return nil, err
	}
	m := &cst.MethodDecl{Base: cst.Base{P: name.Pos}, Name: name.Text, Modifiers: mods, Params: params, ReturnType: returnType}
	if p.isPunct("{") {
		body, err := p.block()
		if err != nil {
			return nil, err
		}
		m.Body = body
	} else {
		if _, err := p.expectPunct(";"); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (p *parser) paramList() ([]*cst.Param, error) {
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var params []*cst.Param
	for !p.isPunct(")") {
		if len(params) > 0 {
			if _, err := p.expectPunct(","); err != nil {
				return nil, err
			}
		}
		typ, err := p.typeRef(false)
		if err != nil {
			return nil, err
		}
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		params = append(params, &cst.Param{Base: cst.Base{P: name.Pos}, Name: name.Text, Type: typ})
	}
	p.next()
	return params, nil
}

// typeRef parses a type reference. allowVoid governs whether "void" may
// appear (only legal as a method return type).
func (p *parser) typeRef(allowVoid bool) (cst.TypeRef, error) {
	pos := p.cur().Pos
	var base cst.TypeRef

	switch {
	case allowVoid && p.isKeyword("void"):
		p.next()
		return &cst.VoidType{Base: cst.Base{P: pos}}, nil
	case p.cur().Kind == Keyword && primitiveKeywords[p.cur().Text]:
		name := p.next().Text
		base = &cst.PrimitiveType{Base: cst.Base{P: pos}, Name: name}
	case p.cur().Kind == Ident:
		name, err := p.qualifiedName()
		if err != nil {
			return nil, err
		}
		base = &cst.NamedType{Base: cst.Base{P: pos}, Name: name}
	default:
		return nil, p.errf("expected a type")
	}

	for p.isPunct("[") && p.peekAt(1).Kind == Punct && p.peekAt(1).Text == "]" {
		p.next()
		p.next()
		base = &cst.ArrayTypeRef{Base: cst.Base{P: pos}, Elem: base}
	}
	return base, nil
}

// isTypeStart reports whether the current token could begin a type
// reference, used to decide between a local-variable declaration and an
// expression statement.
func (p *parser) isTypeStart() bool {
	if p.cur().Kind == Ident {
		return true
	}
	return p.cur().Kind == Keyword && primitiveKeywords[p.cur().Text]
}

func (p *parser) block() (*cst.Block, error) {
	pos, err := p.expectPunct("{")
	if err != nil {
		return nil, err
	}
	b := &cst.Block{Base: cst.Base{P: pos}}
	for !p.isPunct("}") {
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		b.Stmts = append(b.Stmts, s)
	}
	p.next()
	return b, nil
}

func (p *parser) statement() (cst.Statement, error) {
	switch {
	case p.isPunct("{"):
		return p.block()
	case p.isPunct(";"):
		pos := p.next().Pos
		return &cst.EmptyStmt{Base: cst.Base{P: pos}}, nil
	case p.isKeyword("if"):
		return p.ifStmt()
	case p.isKeyword("while"):
		return p.whileStmt()
	case p.isKeyword("for"):
		return p.forStmt()
	case p.isKeyword("return"):
		pos := p.next().Pos
		var val cst.Expression
		if !p.isPunct(";") {
			v, err := p.expr()
			if err != nil {
				return nil, err
			}
			val = v
		}
		if _, err := p.expectPunct(";"); err != nil {
			return nil, err
		}
		return &cst.ReturnStmt{Base: cst.Base{P: pos}, Value: val}, nil
	default:
		if decl, ok, err := p.tryLocalVarDecl(true); err != nil || ok {
			return decl, err
		}
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct(";"); err != nil {
			return nil, err
		}
		return &cst.ExprStmt{Base: cst.Base{P: e.Pos()}, Expr: e}, nil
	}
}

// tryLocalVarDecl speculatively parses "Type ident (= expr)?", backtracking
// if the lookahead doesn't confirm a declaration. When consumeSemi is true
// it also consumes the trailing ";" (used for ordinary statements); the
// for-loop header parses its own shared ";" instead.
func (p *parser) tryLocalVarDecl(consumeSemi bool) (cst.Statement, bool, error) {
	if !p.isTypeStart() {
		return nil, false, nil
	}
	save := p.pos
	typ, err := p.typeRef(false)
	if err != nil {
		p.pos = save
		return nil, false, nil
	}
	if p.cur().Kind != Ident {
		p.pos = save
		return nil, false, nil
	}
	name := p.next()
	if !p.isPunct("=") && !p.isPunct(";") && !(consumeSemi == false && p.isPunct(")")) {
		p.pos = save
		return nil, false, nil
	}
	decl := &cst.LocalVarDecl{Base: cst.Base{P: name.Pos}, Name: name.Text, Type: typ}
	if p.isPunct("=") {
		p.next()
		init, err := p.expr()
		if err != nil {
			return nil, false, err
		}
		decl.Init = init
	}
	if consumeSemi {
		if _, err := p.expectPunct(";"); err != nil {
			return nil, false, err
		}
	}
	return decl, true, nil
}

func (p *parser) ifStmt() (cst.Statement, error) {
	pos, _ := p.expectKeyword("if")
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	then, err := p.statement()
	if err != nil {
		return nil, err
	}
	var els cst.Statement
	if p.isKeyword("else") {
		p.next()
		e, err := p.statement()
		if err != nil {
			return nil, err
		}
		els = e
	}
	return &cst.IfStmt{Base: cst.Base{P: pos}, Cond: cond, Then: then, Else: els}, nil
}

func (p *parser) whileStmt() (cst.Statement, error) {
	pos, _ := p.expectKeyword("while")
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &cst.WhileStmt{Base: cst.Base{P: pos}, Cond: cond, Body: body}, nil
}

func (p *parser) forStmt() (cst.Statement, error) {
	pos, _ := p.expectKeyword("for")
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}

	var init cst.Statement
	if !p.isPunct(";") {
		if decl, ok, err := p.tryLocalVarDecl(false); err != nil {
			return nil, err
		} else if ok {
			init = decl
		} else {
			e, err := p.expr()
			if err != nil {
				return nil, err
			}
			init = &cst.ExprStmt{Base: cst.Base{P: e.Pos()}, Expr: e}
		}
	}
	if _, err := p.expectPunct(";"); err != nil {
		return nil, err
	}

	var cond cst.Expression
	if !p.isPunct(";") {
		c, err := p.expr()
		if err != nil {
			return nil, err
		}
		cond = c
	}
	if _, err := p.expectPunct(";"); err != nil {
		return nil, err
	}

	var update cst.Statement
	if !p.isPunct(")") {
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		update = &cst.ExprStmt{Base: cst.Base{P: e.Pos()}, Expr: e}
	}
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &cst.ForStmt{Base: cst.Base{P: pos}, Init: init, Cond: cond, Update: update, Body: body}, nil
}
