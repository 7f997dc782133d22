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

package lenv

import (
	"testing"

	"github.com/hipparcos/dialecte/lerr"
	"github.com/hipparcos/dialecte/lval"
)

func num(n int64) *lval.Value { return lval.Num(n) }

func TestPutLookup(t *testing.T) {
	env := New()
	v := num(42)
	env.Put("x", v)
	v.Free()
	got, err := env.Lookup("x")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got.AsNum() != 42 {
		t.Errorf("x = %d, want 42", got.AsNum())
	}
	got.Free()
	env.Free()
}

func TestLookup_unknown(t *testing.T) {
	env := New()
	_, err := env.Lookup("gibberish")
	if err == nil {
		t.Fatal("lookup of unknown symbol succeeded")
	}
	if err.Code != lerr.BadSymbol {
		t.Errorf("code = %s, want BadSymbol", err.Code)
	}
	if err.Message != "unknown symbol 'gibberish'" {
		t.Errorf("message = %q", err.Message)
	}
	env.Free()
}

func TestLookup_walksParents(t *testing.T) {
	root := New()
	child := New()
	if err := child.SetParent(root); err != nil {
		t.Fatal(err)
	}
	v := num(1)
	root.Put("x", v)
	v.Free()
	got, err := child.Lookup("x")
	if err != nil {
		t.Fatalf("lookup through parent: %v", err)
	}
	got.Free()
	// the child's own binding shadows the parent's
	w := num(2)
	child.Put("x", w)
	w.Free()
	got, err = child.Lookup("x")
	if err != nil {
		t.Fatal(err)
	}
	if got.AsNum() != 2 {
		t.Errorf("shadowed x = %d, want 2", got.AsNum())
	}
	got.Free()
	child.Free()
	root.Free()
}

func TestDef_targetsRoot(t *testing.T) {
	root := New()
	child := New()
	if err := child.SetParent(root); err != nil {
		t.Fatal(err)
	}
	v := num(3)
	child.Def("x", v)
	v.Free()
	got, err := root.Lookup("x")
	if err != nil {
		t.Fatalf("def did not reach the root: %v", err)
	}
	got.Free()
	if child.Len() != 0 {
		t.Error("def polluted the local scope")
	}
	child.Free()
	root.Free()
}

func TestLookupAfterDef(t *testing.T) {
	env := New()
	a := num(1)
	env.Def("x", a)
	a.Free()
	for i := 0; i < 3; i++ {
		got, err := env.Lookup("x")
		if err != nil {
			t.Fatal(err)
		}
		if got.AsNum() != 1 {
			t.Errorf("lookup %d: x = %d, want 1", i, got.AsNum())
		}
		got.Free()
	}
	b := num(2)
	env.Def("x", b)
	b.Free()
	got, _ := env.Lookup("x")
	if got.AsNum() != 2 {
		t.Errorf("after redef: x = %d, want 2", got.AsNum())
	}
	got.Free()
	env.Free()
}

func TestOverride(t *testing.T) {
	root := New()
	child := New()
	if err := child.SetParent(root); err != nil {
		t.Fatal(err)
	}
	v := num(1)
	root.Put("x", v)
	v.Free()
	w := num(9)
	if err := child.Override("x", w); err != nil {
		t.Fatalf("override: %v", err)
	}
	if err := child.Override("missing", w); err == nil {
		t.Error("override of unbound symbol succeeded")
	}
	w.Free()
	got, _ := root.Lookup("x")
	if got.AsNum() != 9 {
		t.Errorf("override did not reach the holding scope: %d", got.AsNum())
	}
	got.Free()
	child.Free()
	root.Free()
}

func TestSetParent_oneShot(t *testing.T) {
	a, b, c := New(), New(), New()
	if err := b.SetParent(a); err != nil {
		t.Fatal(err)
	}
	if err := b.SetParent(c); err == nil {
		t.Error("second SetParent succeeded")
	}
}

func TestAsList(t *testing.T) {
	env := New()
	v := num(1)
	env.Put("b", v)
	env.Put("a", v)
	v.Free()
	list := env.AsList()
	if got, want := list.String(), "{{a 1} {b 1}}"; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
	list.Free()
	env.Free()
}

func TestEqual(t *testing.T) {
	a, b := New(), New()
	v := num(1)
	a.Put("x", v)
	b.Put("x", v)
	if !a.Equal(b) {
		t.Error("identical envs not equal")
	}
	w := num(2)
	b.Put("y", w)
	if a.Equal(b) {
		t.Error("envs with different sizes equal")
	}
	a.Put("y", v)
	if a.Equal(b) {
		t.Error("envs with different values equal")
	}
	v.Free()
	w.Free()
	a.Free()
	b.Free()
}
