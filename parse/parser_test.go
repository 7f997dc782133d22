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

import "testing"

func mustLex(t *testing.T, input string) *Token {
	t.Helper()
	tokens, errTok := Lex("test", input)
	if errTok != nil {
		t.Fatalf("lex %q: %s", input, errTok.Content)
	}
	return tokens
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *Node
	}{
		{"simple expression", "(+ 1 2)", &Node{Tag: TagProg, Children: []*Node{
			{Tag: TagSexpr, Children: []*Node{
				{Tag: TagExpr, Children: []*Node{
					{Tag: TagSym, Content: "+"},
					{Tag: TagNum, Content: "1"},
					{Tag: TagNum, Content: "2"},
				}},
			}},
		}}},
		{"atoms", `(f 1 2.5 "s" x)`, &Node{Tag: TagProg, Children: []*Node{
			{Tag: TagSexpr, Children: []*Node{
				{Tag: TagExpr, Children: []*Node{
					{Tag: TagSym, Content: "f"},
					{Tag: TagNum, Content: "1"},
					{Tag: TagDbl, Content: "2.5"},
					{Tag: TagStr, Content: `"s"`},
					{Tag: TagSym, Content: "x"},
				}},
			}},
		}}},
		{"nested sexpr", "(+ (neg 1) 2)", &Node{Tag: TagProg, Children: []*Node{
			{Tag: TagSexpr, Children: []*Node{
				{Tag: TagExpr, Children: []*Node{
					{Tag: TagSym, Content: "+"},
					{Tag: TagSexpr, Children: []*Node{
						{Tag: TagExpr, Children: []*Node{
							{Tag: TagSym, Content: "neg"},
							{Tag: TagNum, Content: "1"},
						}},
					}},
					{Tag: TagNum, Content: "2"},
				}},
			}},
		}}},
		{"qexpr", "(head {1 2})", &Node{Tag: TagProg, Children: []*Node{
			{Tag: TagSexpr, Children: []*Node{
				{Tag: TagExpr, Children: []*Node{
					{Tag: TagSym, Content: "head"},
					{Tag: TagQexpr, Children: []*Node{
						{Tag: TagNum, Content: "1"},
						{Tag: TagNum, Content: "2"},
					}},
				}},
			}},
		}}},
		{"sexpr head with operands", "((f 1) 5)", &Node{Tag: TagProg, Children: []*Node{
			{Tag: TagSexpr, Children: []*Node{
				{Tag: TagExpr, Children: []*Node{
					{Tag: TagSexpr, Children: []*Node{
						{Tag: TagExpr, Children: []*Node{
							{Tag: TagSym, Content: "f"},
							{Tag: TagNum, Content: "1"},
						}},
					}},
					{Tag: TagNum, Content: "5"},
				}},
			}},
		}}},
		{"two top-level expressions", "(a) (b)", &Node{Tag: TagProg, Children: []*Node{
			{Tag: TagSexpr, Children: []*Node{
				{Tag: TagExpr, Children: []*Node{{Tag: TagSym, Content: "a"}}},
			}},
			{Tag: TagSexpr, Children: []*Node{
				{Tag: TagExpr, Children: []*Node{{Tag: TagSym, Content: "b"}}},
			}},
		}}},
	}
	for _, tt := range tests {
		got, errNode := Parse(mustLex(t, tt.input))
		if errNode != nil {
			t.Errorf("%s: unexpected error node: %s", tt.name, errNode.Content)
			continue
		}
		if !NodesEqual(got, tt.want) {
			t.Errorf("%s: trees differ\ngot:\n%swant:\n%s", tt.name, got, tt.want)
		}
	}
}

func TestParse_empty(t *testing.T) {
	prog, errNode := Parse(mustLex(t, ""))
	if prog != nil || errNode != nil {
		t.Errorf("empty input: prog = %v, err = %v", prog, errNode)
	}
}

func TestParse_errors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		msg       string
		line, col int
	}{
		{"missing opening paren", "1", errMissingOpar, 1, 1},
		{"missing closing paren", "(+ 1", errMissingCpar, 1, 5},
		{"missing closing brace", "(head {1 1", errMissingCbrc, 1, 11},
		{"expr starts with a number", "(1 1)", errBadExpr, 1, 2},
		{"two top-level, second bad", "(a) 5", errMissingOpar, 1, 5},
	}
	for _, tt := range tests {
		_, errNode := Parse(mustLex(t, tt.input))
		if errNode == nil {
			t.Errorf("%s: no error node", tt.name)
			continue
		}
		if errNode.Content != tt.msg {
			t.Errorf("%s: message = %q, want %q", tt.name, errNode.Content, tt.msg)
		}
		if errNode.Line != tt.line || errNode.Col != tt.col {
			t.Errorf("%s: at %d:%d, want %d:%d",
				tt.name, errNode.Line, errNode.Col, tt.line, tt.col)
		}
	}
}

// The parser produces a partial tree: the error node is reachable from
// the returned program.
func TestParse_partialTree(t *testing.T) {
	prog, errNode := Parse(mustLex(t, "(a) (1)"))
	if errNode == nil {
		t.Fatal("no error node")
	}
	if prog == nil || len(prog.Children) != 2 {
		t.Fatalf("partial tree lost: %v", prog)
	}
	found := false
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == errNode {
			found = true
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(prog)
	if !found {
		t.Error("error node not attached to the tree")
	}
}
