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

package lval

import (
	"testing"

	"github.com/hipparcos/dialecte/lerr"
)

func TestString(t *testing.T) {
	tests := []struct {
		name string
		v    func() *Value
		want string
	}{
		{"nil", Alloc, "nil"},
		{"num", func() *Value { return Num(42) }, "42"},
		{"num negative", func() *Value { return Num(-7) }, "-7"},
		{"bignum", func() *Value {
			v := Alloc()
			bn, _ := BignumFromString("51090942171709440000")
			v.MutBignum(bn)
			return v
		}, "51090942171709440000"},
		{"dbl", func() *Value {
			v := Alloc()
			v.MutDbl(3.0)
			return v
		}, "3.0"},
		{"dbl fraction", func() *Value {
			v := Alloc()
			v.MutDbl(1.5)
			return v
		}, "1.5"},
		{"bool true", func() *Value { return Bool(true) }, "true"},
		{"bool false", func() *Value { return Bool(false) }, "false"},
		{"str", func() *Value { return Str("hi") }, `"hi"`},
		{"str escaped", func() *Value { return Str(`say "hi"\`) }, `"say \"hi\"\\"`},
		{"sym", func() *Value { return Sym("head") }, "head"},
		{"err", func() *Value {
			return Err(lerr.Throw(lerr.DivZero, "divisor must not be 0"))
		}, "Error #DivZero: divisor must not be 0"},
	}
	for _, tt := range tests {
		v := tt.v()
		if got := v.String(); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
		v.Free()
	}
}

func TestString_lists(t *testing.T) {
	s := Sexpr()
	plus := Sym("+")
	one := Num(1)
	q := Qexpr()
	q.Push(one)
	s.Push(plus)
	s.Push(one)
	s.Push(q)
	if got, want := s.String(), "(+ 1 {1})"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	plus.Free()
	one.Free()
	q.Free()
	s.Free()
}

func TestString_builtin(t *testing.T) {
	fn := NewFunc("+")
	fn.MinArgc, fn.MaxArgc = 0, Unbounded
	v := Alloc()
	v.MutFunc(fn)
	if got, want := v.String(), "<builtin:+/0..∞>"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	v.Free()
}

func TestString_lambda(t *testing.T) {
	fn := NewFunc("λ")
	fn.Lisp = true
	fn.Formals = Qexpr()
	x, y := Sym("x"), Sym("y")
	fn.Formals.Push(x)
	fn.Formals.Push(y)
	fn.Body = Qexpr()
	plus := Sym("+")
	fn.Body.Push(plus)
	fn.Body.Push(x)
	fn.Body.Push(y)
	ten := Num(10)
	fn.Args.Push(ten)
	v := Alloc()
	v.MutFunc(fn)
	if got, want := v.String(), "<λ {x y} {+ x y} | 10>"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	x.Free()
	y.Free()
	plus.Free()
	ten.Free()
	v.Free()
}
