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

package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/joos1w/semcheck/cst"
)

func newTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree <file.java>",
		Short: "Print a file's parse tree",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			unit, err := loadFile(args[0])
			if err != nil {
				log.Fatalf("%v", err)
			}
			if err := renderTree(os.Stdout, unit); err != nil {
				log.Fatalf("%v", err)
			}
		},
	}
}

// renderTree writes unit's parse tree to w as indented node names, one
// per line.
func renderTree(w io.Writer, unit cst.Node) error {
	return cst.Walk(&treePrinter{w: w}, unit)
}

// treePrinter renders a parse tree as indented node names, one per
// line, in the style of cst.Inspect's pre-order-only walk but tracking
// depth so nesting is visible.
type treePrinter struct {
	w     io.Writer
	depth int
}

func (p *treePrinter) Pre(n cst.Node) error {
	fmt.Fprintf(p.w, "%s%s\n", indent(p.depth), describe(n))
	p.depth++
	return nil
}

func (p *treePrinter) Post(cst.Node) error {
	p.depth--
	return nil
}

func indent(depth int) string {
	out := make([]byte, depth*2)
	for i := range out {
		out[i] = ' '
	}
	return string(out)
}

func describe(n cst.Node) string {
	switch t := n.(type) {
	case *cst.CompilationUnit:
		return fmt.Sprintf("CompilationUnit %q", t.FileBaseName)
	case *cst.PackageDecl:
		return fmt.Sprintf("Package %s", t.Name)
	case *cst.ImportDecl:
		return fmt.Sprintf("Import %s", t.Name)
	case *cst.ClassDecl:
		return fmt.Sprintf("Class %s", t.Name)
	case *cst.InterfaceDecl:
		return fmt.Sprintf("Interface %s", t.Name)
	case *cst.FieldDecl:
		return fmt.Sprintf("Field %s", t.Name)
	case *cst.MethodDecl:
		return fmt.Sprintf("Method %s", t.Name)
	case *cst.ConstructorDecl:
		return "Constructor"
	case *cst.Param:
		return fmt.Sprintf("Param %s", t.Name)
	case *cst.Block:
		return "Block"
	case *cst.LocalVarDecl:
		return fmt.Sprintf("LocalVarDecl %s", t.Name)
	case *cst.ExprStmt:
		return "ExprStmt"
	case *cst.IfStmt:
		return "If"
	case *cst.WhileStmt:
		return "While"
	case *cst.ForStmt:
		return "For"
	case *cst.ReturnStmt:
		return "Return"
	case *cst.EmptyStmt:
		return "Empty"
	case *cst.Identifier:
		return fmt.Sprintf("Identifier %s", t.Name)
	case *cst.AccessPath:
		return fmt.Sprintf("AccessPath .%s", t.Field)
	case *cst.ThisExpr:
		return "This"
	case *cst.IntLiteral:
		return fmt.Sprintf("IntLiteral %d", t.Value)
	case *cst.BoolLiteral:
		return fmt.Sprintf("BoolLiteral %v", t.Value)
	case *cst.CharLiteral:
		return "CharLiteral"
	case *cst.StringLiteral:
		return "StringLiteral"
	case *cst.NullLiteral:
		return "Null"
	case *cst.ParenExpr:
		return "Paren"
	case *cst.BinaryExpr:
		return fmt.Sprintf("Binary %s", t.Op)
	case *cst.UnaryExpr:
		return fmt.Sprintf("Unary %s", t.Op)
	case *cst.AssignExpr:
		return "Assign"
	case *cst.CastExpr:
		return "Cast"
	case *cst.InstanceOfExpr:
		return "InstanceOf"
	case *cst.TernaryExpr:
		return "Ternary"
	case *cst.MethodInvocation:
		return fmt.Sprintf("MethodInvocation %s", t.MethodName)
	case *cst.EntityCreationExpression:
		return "EntityCreation"
	case *cst.ArrayCreationExpression:
		return "ArrayCreation"
	case *cst.ArrayAccessExpression:
		return "ArrayAccess"
	case *cst.NamedType:
		return fmt.Sprintf("NamedType %s", t.Name)
	case *cst.PrimitiveType:
		return fmt.Sprintf("PrimitiveType %s", t.Name)
	case *cst.VoidType:
		return "VoidType"
	case *cst.ArrayTypeRef:
		return "ArrayTypeRef"
	default:
		return fmt.Sprintf("%T", n)
	}
}
