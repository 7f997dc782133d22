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

import "fmt"

// TokType is the type of a lexed token.
type TokType int

// Token types.
const (
	TokEOF TokType = iota
	TokErr
	TokOpar
	TokCpar
	TokObrc
	TokCbrc
	TokSym
	TokNum
	TokDbl
	TokStr
)

var tokNames = [...]string{
	"EOF",
	"error",
	"(",
	")",
	"{",
	"}",
	"symbol",
	"number",
	"double",
	"string",
}

func (t TokType) String() string {
	if t < 0 || int(t) >= len(tokNames) {
		return "unknown"
	}
	return tokNames[t]
}

// Token is one element of the doubly-linked token stream produced by the
// lexer. The stream is terminated by a TokEOF token. A TokErr token
// carries the lexing diagnostic as its content.
type Token struct {
	Type       TokType
	Content    string
	Line, Col  int
	Prev, Next *Token
}

func (t *Token) String() string {
	return fmt.Sprintf("%d:%d: %s %q", t.Line, t.Col, t.Type, t.Content)
}

// append links tok after t and returns tok.
func (t *Token) append(tok *Token) *Token {
	t.Next = tok
	tok.Prev = t
	return tok
}

// TokensEqual compares two streams by type and content, ignoring
// locations.
func TokensEqual(a, b *Token) bool {
	for a != nil && b != nil {
		if a.Type != b.Type || a.Content != b.Content {
			return false
		}
		if a.Type == TokEOF && b.Type == TokEOF {
			return true
		}
		a, b = a.Next, b.Next
	}
	return a == b
}
