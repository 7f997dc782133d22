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

func TestRefcount(t *testing.T) {
	v := Num(42)
	if got := v.Refcount(); got != 1 {
		t.Errorf("fresh handle: refcount = %d, want 1", got)
	}
	d := v.Dup()
	if got := v.Refcount(); got != 2 {
		t.Errorf("after Dup: refcount = %d, want 2", got)
	}
	d.Free()
	if got := v.Refcount(); got != 1 {
		t.Errorf("after Free of dup: refcount = %d, want 1", got)
	}
	v.Free()
	if v.Alive() {
		t.Error("freed handle still alive")
	}
}

func TestRefcount_immortal(t *testing.T) {
	n := Alloc()
	if got := n.Refcount(); got != -1 {
		t.Errorf("nil payload refcount = %d, want -1", got)
	}
	d := n.Dup()
	d.Free()
	n.Free()
	if Alloc().Type() != TypeNil {
		t.Error("immortal nil corrupted")
	}
}

func TestRefcount_children(t *testing.T) {
	child := Num(1)
	list := Qexpr()
	list.Push(child)
	if got := child.Refcount(); got != 2 {
		t.Errorf("pushed child: refcount = %d, want 2", got)
	}
	list.Free()
	if got := child.Refcount(); got != 1 {
		t.Errorf("after list free: refcount = %d, want 1", got)
	}
	child.Free()
}

// A mutation through one handle must not be visible through another:
// the payload is copied when shared.
func TestCopyOnMutate(t *testing.T) {
	a := Num(1)
	b := a.Dup()
	b.MutNum(2)
	if a.AsNum() != 1 {
		t.Errorf("mutation leaked into shared handle: %d", a.AsNum())
	}
	if b.AsNum() != 2 {
		t.Errorf("mutation lost: %d", b.AsNum())
	}
	if a.Refcount() != 1 || b.Refcount() != 1 {
		t.Errorf("payloads still shared after mutation: %d, %d", a.Refcount(), b.Refcount())
	}
	a.Free()
	b.Free()
}

func TestCopyOnMutate_list(t *testing.T) {
	a := Qexpr()
	one := Num(1)
	a.Push(one)
	one.Free()
	b := a.Dup()
	two := Num(2)
	b.Push(two)
	two.Free()
	if a.Len() != 1 {
		t.Errorf("push through dup leaked: len = %d, want 1", a.Len())
	}
	if b.Len() != 2 {
		t.Errorf("push lost: len = %d, want 2", b.Len())
	}
	a.Free()
	b.Free()
}

func TestMutSexpr_keepsChildren(t *testing.T) {
	q := Qexpr()
	n := Num(7)
	q.Push(n)
	n.Free()
	q.MutSexpr()
	if q.Type() != TypeSexpr || q.Len() != 1 {
		t.Errorf("qexpr -> sexpr: type %s len %d", q.Type(), q.Len())
	}
	q.MutQexpr()
	if q.Type() != TypeQexpr || q.Len() != 1 {
		t.Errorf("sexpr -> qexpr: type %s len %d", q.Type(), q.Len())
	}
	q.Free()
}

func TestListOps(t *testing.T) {
	list := Qexpr()
	for i := int64(1); i <= 3; i++ {
		n := Num(i)
		list.Push(n)
		n.Free()
	}
	zero := Num(0)
	list.Cons(zero)
	zero.Free()
	if got := list.Len(); got != 4 {
		t.Fatalf("len = %d, want 4", got)
	}
	for i := 0; i < 4; i++ {
		c, err := list.Index(i)
		if err != nil {
			t.Fatalf("index %d: %v", i, err)
		}
		if c.AsNum() != int64(i) {
			t.Errorf("index %d = %d, want %d", i, c.AsNum(), i)
		}
		c.Free()
	}
	if _, err := list.Index(4); err == nil {
		t.Error("index out of range: no error")
	}
	popped := list.Pop(0)
	if popped.AsNum() != 0 || list.Len() != 3 {
		t.Errorf("pop: got %d, len %d", popped.AsNum(), list.Len())
	}
	popped.Free()
	list.Drop(2)
	if list.Len() != 2 {
		t.Errorf("drop: len = %d, want 2", list.Len())
	}
	list.Free()
}

// Index on a list must preserve the child's source span.
func TestIndex_span(t *testing.T) {
	list := Sexpr()
	n := Num(9)
	n.Span = Span{Line: 3, Col: 7}
	list.Push(n)
	n.Free()
	c, err := list.Index(0)
	if err != nil {
		t.Fatal(err)
	}
	if c.Span.Line != 3 || c.Span.Col != 7 {
		t.Errorf("span = %d:%d, want 3:7", c.Span.Line, c.Span.Col)
	}
	c.Free()
	list.Free()
}

func TestCopyRange_string(t *testing.T) {
	s := Str("hello")
	r := Alloc()
	r.CopyRange(s, 1, 4)
	if r.AsStr() != "ell" {
		t.Errorf("got %q, want %q", r.AsStr(), "ell")
	}
	r.CopyRange(s, 3, 10)
	if r.AsStr() != "lo" {
		t.Errorf("clamped: got %q, want %q", r.AsStr(), "lo")
	}
	r.Free()
	s.Free()
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b func() *Value
		want bool
	}{
		{"num num", func() *Value { return Num(1) }, func() *Value { return Num(1) }, true},
		{"num num diff", func() *Value { return Num(1) }, func() *Value { return Num(2) }, false},
		{"num bignum", func() *Value { return Num(5) }, func() *Value {
			v := Alloc()
			v.MutBignum(BignumFromInt64(5))
			return v
		}, true},
		{"num dbl", func() *Value { return Num(2) }, func() *Value {
			v := Alloc()
			v.MutDbl(2.0)
			return v
		}, true},
		{"str str", func() *Value { return Str("a") }, func() *Value { return Str("a") }, true},
		{"str sym", func() *Value { return Str("a") }, func() *Value { return Sym("a") }, false},
		{"nil nil", Alloc, Alloc, true},
	}
	for _, tt := range tests {
		a, b := tt.a(), tt.b()
		if got := Equal(a, b); got != tt.want {
			t.Errorf("%s: Equal = %v, want %v", tt.name, got, tt.want)
		}
		a.Free()
		b.Free()
	}
}

func TestEqual_lists(t *testing.T) {
	mk := func(ns ...int64) *Value {
		l := Qexpr()
		for _, n := range ns {
			v := Num(n)
			l.Push(v)
			v.Free()
		}
		return l
	}
	a, b, c := mk(1, 2, 3), mk(1, 2, 3), mk(1, 2)
	if !Equal(a, b) {
		t.Error("equal lists not equal")
	}
	if Equal(a, c) {
		t.Error("lists of different length equal")
	}
	a.Free()
	b.Free()
	c.Free()
}

func TestErrPayload(t *testing.T) {
	e := lerr.Throw(lerr.DivZero, "divisor must not be 0")
	v := Err(e)
	if v.Type() != TypeErr {
		t.Fatalf("type = %s, want error", v.Type())
	}
	if v.AsErr().Code != lerr.DivZero {
		t.Errorf("code = %s, want DivZero", v.AsErr().Code)
	}
	v.Free()
}

func TestAsDbl_promotes(t *testing.T) {
	n := Num(3)
	if n.AsDbl() != 3.0 {
		t.Errorf("num -> dbl: %f", n.AsDbl())
	}
	n.Free()
	b := Alloc()
	b.MutBignum(BignumFromInt64(4))
	if b.AsDbl() != 4.0 {
		t.Errorf("bignum -> dbl: %f", b.AsDbl())
	}
	b.Free()
}

func TestFuncCopy_isolatesArgs(t *testing.T) {
	fn := NewFunc("f")
	one := Num(1)
	fn.Args.Push(one)
	one.Free()
	cpy := fn.Copy()
	two := Num(2)
	cpy.Args.Push(two)
	two.Free()
	if fn.Bound() != 1 {
		t.Errorf("partial buffer leaked into original: %d args", fn.Bound())
	}
	if cpy.Bound() != 2 {
		t.Errorf("copy lost its argument: %d args", cpy.Bound())
	}
}
