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

package lerr

import (
	"strings"
	"testing"
)

func TestThrow(t *testing.T) {
	err := Throw(DivZero, "divisor must not be %d", 0)
	if err.Code != DivZero {
		t.Errorf("code = %s, want DivZero", err.Code)
	}
	if err.Message != "divisor must not be 0" {
		t.Errorf("message = %q", err.Message)
	}
}

func TestThrow_messageCap(t *testing.T) {
	err := Throw(Eval, "%s", strings.Repeat("x", 200))
	if len(err.Message) != MessageCap {
		t.Errorf("message length = %d, want %d", len(err.Message), MessageCap)
	}
}

func TestCause(t *testing.T) {
	inner := Throw(BadSymbol, "unknown symbol 'x'")
	outer := Propagate(inner, "eval error:")
	outer = Propagate(outer, "repl:")
	if got := outer.Cause(); got != inner {
		t.Errorf("cause = %v, want innermost", got)
	}
	if outer.Code != BadSymbol {
		t.Errorf("wrapping changed the code: %s", outer.Code)
	}
}

func TestSetLocation_innermostWins(t *testing.T) {
	err := Throw(BadOperand, "must be numeric")
	err.SetLocation(1, 5)
	err.SetLocation(2, 9)
	c := err.Cause()
	if c.Line != 1 || c.Col != 5 {
		t.Errorf("location = %d:%d, want 1:5", c.Line, c.Col)
	}
}

func TestError_format(t *testing.T) {
	tests := []struct {
		name string
		err  func() *Error
		want string
	}{
		{"leaf", func() *Error {
			return Throw(DivZero, "divisor must not be 0")
		}, "#DivZero: divisor must not be 0"},
		{"located", func() *Error {
			err := Throw(BadSymbol, "unknown symbol 'x'")
			err.SetLocation(1, 3)
			return err
		}, "1:3:#BadSymbol: unknown symbol 'x'"},
		{"wrapped", func() *Error {
			inner := Throw(BadSymbol, "unknown symbol 'x'")
			inner.SetLocation(1, 3)
			return Propagate(inner, "eval error:")
		}, "1:3:#BadSymbol: eval error:: unknown symbol 'x'"},
		{"with file", func() *Error {
			err := Throw(EnoentFile, "file `x` not found")
			err.SetFile("main.lisp")
			return err
		}, "<main.lisp>:#EnoentFile: file `x` not found"},
	}
	for _, tt := range tests {
		if got := tt.err().Error(); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestValueString(t *testing.T) {
	inner := Throw(LispUser, "boom")
	outer := Propagate(inner, "eval error:")
	if got, want := outer.ValueString(), "Error #LispUser: boom"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEqual(t *testing.T) {
	a := Propagate(Throw(Eval, "inner"), "outer")
	b := Propagate(Throw(Eval, "inner"), "outer")
	c := Throw(Eval, "inner")
	if !a.Equal(b) {
		t.Error("identical chains not equal")
	}
	if a.Equal(c) {
		t.Error("chains of different length equal")
	}
}

func TestCopy(t *testing.T) {
	orig := Propagate(Throw(Eval, "inner"), "outer")
	cpy := orig.Copy()
	if !orig.Equal(cpy) {
		t.Fatal("copy differs")
	}
	cpy.Cause().Message = "changed"
	if orig.Cause().Message != "inner" {
		t.Error("copy shares records with the original")
	}
}
