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

// Package parse implements a small hand-written lexer and recursive-
// descent parser that turns Joos 1W source text into a cst.CompilationUnit
// (the "external collaborator" that package cst's doc comment refers to).
// It is intentionally minimal: just complete enough to drive the CLI and
// the test suite, not a production-grade Java parser.
package parse

import "github.com/joos1w/semcheck/cst"

// Kind classifies a lexical token.
type Kind int

const (
	EOF Kind = iota
	Ident
	Keyword
	IntLit
	CharLit
	StringLit
	Punct
)

// Token is one lexical token with its source position.
type Token struct {
	Kind Kind
	Text string
	Pos  cst.Position

	// IntValue/CharValue carry the decoded literal value for IntLit/
	// CharLit tokens. cst.IntLiteral's NegatedImmediate flag is filled in
	// by the parser, not the lexer (see unaryExpr's unary-minus special
	// case).
	IntValue  int64
	CharValue rune
}

var keywords = map[string]bool{
	"abstract": true, "boolean": true, "byte": true, "char": true,
	"class": true, "else": true, "extends": true, "final": true,
	"for": true, "if": true, "implements": true, "import": true,
	"instanceof": true, "int": true, "interface": true, "native": true,
	"new": true, "package": true, "protected": true, "public": true,
	"return": true, "short": true, "static": true, "this": true,
	"void": true, "while": true, "null": true, "true": true, "false": true,
	// kept as recognized keywords (so they tokenize, rather than parsing
	// as plain identifiers) but never accepted by typeRef: SPEC_FULL.md
	// §6(a) keeps these as the dead half of the conversion table.
	"long": true, "float": true, "double": true,
}

var modifierKeywords = map[string]bool{
	"public": true, "protected": true, "abstract": true,
	"static": true, "final": true, "native": true,
}

var primitiveKeywords = map[string]bool{
	"byte": true, "short": true, "int": true, "char": true, "boolean": true,
}
