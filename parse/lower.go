// This file is part of dialecte - https://github.com/hipparcos/dialecte
//
// Copyright 2019 The dialecte authors
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
	"strconv"
	"strings"

	"github.com/hipparcos/dialecte/lerr"
	"github.com/hipparcos/dialecte/lval"
)

// Lower maps the AST to the initial value tree handed to the evaluator.
// A program lowers to an Sexpr of Sexprs. Every produced value carries
// the source span of its AST node. The returned error, when not nil,
// points at the node that failed to lower; the value tree is still
// returned up to that node.
func Lower(file string, prog *Node) (*lval.Value, *lerr.Error) {
	if prog == nil {
		return nil, nil
	}
	if prog.Tag != TagProg {
		v := lval.Alloc()
		v.MutErrCode(lerr.Ast)
		return v, lerr.Throw(lerr.Ast, "%s", lerr.Ast.Describe())
	}
	p := lval.Sexpr()
	p.Span = span(file, prog)
	var lerror *lerr.Error
	for _, child := range prog.Children {
		var s *lval.Value
		if child.Tag == TagSexpr {
			s, lerror = lowerSexpr(file, child)
		} else {
			s = lval.Alloc()
			s.MutErrCode(lerr.Ast)
			s.Span = span(file, child)
			lerror = lerr.Throw(lerr.Ast, "%s", child.Content)
			lerror.SetLocation(child.Line, child.Col)
		}
		p.Push(s)
		s.Free()
		if lerror != nil {
			break
		}
	}
	return p, lerror
}

func span(file string, n *Node) lval.Span {
	return lval.Span{File: file, Line: n.Line, Col: n.Col}
}

func lowerSexpr(file string, node *Node) (*lval.Value, *lerr.Error) {
	v := lval.Sexpr()
	v.Span = span(file, node)
	if len(node.Children) == 0 {
		return v, nil
	}
	// dereference the inner expression
	return lowerElems(file, v, node.Children[0].Children)
}

func lowerQexpr(file string, node *Node) (*lval.Value, *lerr.Error) {
	v := lval.Qexpr()
	v.Span = span(file, node)
	return lowerElems(file, v, node.Children)
}

func lowerElems(file string, v *lval.Value, elems []*Node) (*lval.Value, *lerr.Error) {
	var lerror *lerr.Error
	for _, child := range elems {
		var o *lval.Value
		switch child.Tag {
		case TagNum:
			o, lerror = lowerNum(file, child)
		case TagDbl:
			o, lerror = lowerDbl(file, child)
		case TagSym:
			o = lval.Sym(child.Content)
			o.Span = span(file, child)
		case TagStr:
			o = lval.Str(unescape(child.Content))
			o.Span = span(file, child)
		case TagSexpr:
			o, lerror = lowerSexpr(file, child)
		case TagQexpr:
			o, lerror = lowerQexpr(file, child)
		default:
			o = lval.Alloc()
			o.MutErrCode(lerr.Ast)
			o.Span = span(file, child)
			lerror = lerr.Throw(lerr.Ast, "%s", child.Content)
			lerror.SetLocation(child.Line, child.Col)
		}
		v.Push(o)
		o.Free()
		if lerror != nil {
			break
		}
	}
	return v, lerror
}

func lowerNum(file string, node *Node) (*lval.Value, *lerr.Error) {
	v := lval.Alloc()
	v.Span = span(file, node)
	n, err := strconv.ParseInt(node.Content, 10, 64)
	if err != nil {
		// out of the 64-bit range: promote to bignum
		bn, ok := lval.BignumFromString(node.Content)
		if !ok {
			v.MutErrCode(lerr.BadOperand)
			lerror := lerr.Throw(lerr.BadOperand, "invalid number '%s'", node.Content)
			lerror.SetLocation(node.Line, node.Col)
			return v, lerror
		}
		v.MutBignum(bn)
		return v, nil
	}
	v.MutNum(n)
	return v, nil
}

func lowerDbl(file string, node *Node) (*lval.Value, *lerr.Error) {
	v := lval.Alloc()
	v.Span = span(file, node)
	d, err := strconv.ParseFloat(node.Content, 64)
	if err != nil {
		v.MutErrCode(lerr.BadOperand)
		lerror := lerr.Throw(lerr.BadOperand, "invalid double '%s'", node.Content)
		lerror.SetLocation(node.Line, node.Col)
		return v, lerror
	}
	v.MutDbl(d)
	return v, nil
}

// unescape strips the surrounding quotes of a string token and resolves
// the backslash escapes retained by the lexer.
func unescape(content string) string {
	s := strings.TrimPrefix(content, `"`)
	s = strings.TrimSuffix(s, `"`)
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '"' || s[i+1] == '\\') {
			i++
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
