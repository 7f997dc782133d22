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

// Package lenv implements the scoped symbol environment: a chain of
// scopes, each mapping symbol names to value handles, walked from the
// innermost scope to the root on lookup.
package lenv

import (
	"github.com/hipparcos/dialecte/internal/avl"
	"github.com/hipparcos/dialecte/lerr"
	"github.com/hipparcos/dialecte/lval"
)

// Env is one scope of the chain. The zero value is an empty scope with no
// parent, the same scope New returns.
type Env struct {
	bindings avl.Tree
	parent   *Env
}

var _ lval.Env = (*Env)(nil)

// New returns an empty scope with no parent.
func New() *Env {
	return &Env{}
}

// SetParent links child to parent. It is one-shot: linking a scope that
// already has a parent fails, which keeps the chain acyclic.
func (e *Env) SetParent(parent *Env) *lerr.Error {
	if e.parent != nil {
		return lerr.Throw(lerr.Eval, "scope already has a parent")
	}
	e.parent = parent
	return nil
}

// Root returns the outermost scope of the chain.
func (e *Env) Root() *Env {
	for e.parent != nil {
		e = e.parent
	}
	return e
}

// Lookup walks the scope chain for sym.
func (e *Env) Lookup(sym string) (*lval.Value, *lerr.Error) {
	for s := e; s != nil; s = s.parent {
		if payload, ok := s.bindings.Lookup(sym); ok {
			return payload.(*lval.Value).Dup(), nil
		}
	}
	return nil, lerr.Throw(lerr.BadSymbol, "unknown symbol '%s'", sym)
}

// Def binds sym in the root scope, overwriting an existing binding.
func (e *Env) Def(sym string, v *lval.Value) {
	e.Root().Put(sym, v)
}

// Put binds sym in the current scope, overwriting an existing binding.
func (e *Env) Put(sym string, v *lval.Value) {
	if prev, ok := e.bindings.Lookup(sym); ok {
		prev.(*lval.Value).Free()
	}
	e.bindings.Insert(sym, v.Dup())
}

// Override rebinds sym in whichever scope already holds it.
func (e *Env) Override(sym string, v *lval.Value) *lerr.Error {
	for s := e; s != nil; s = s.parent {
		if prev, ok := s.bindings.Lookup(sym); ok {
			prev.(*lval.Value).Free()
			s.bindings.Insert(sym, v.Dup())
			return nil
		}
	}
	return lerr.Throw(lerr.BadSymbol, "unknown symbol '%s'", sym)
}

// Len returns the number of bindings of this scope, parents excluded.
func (e *Env) Len() int {
	return e.bindings.Size()
}

// AsList serializes the scope's bindings as a Qexpr of (sym val) pairs,
// in symbol order. Parents are not included.
func (e *Env) AsList() *lval.Value {
	list := lval.Qexpr()
	e.bindings.Walk(func(key string, payload interface{}) bool {
		pair := lval.Qexpr()
		sym := lval.Sym(key)
		pair.Push(sym)
		sym.Free()
		pair.Push(payload.(*lval.Value))
		list.Push(pair)
		pair.Free()
		return true
	})
	return list
}

// Equal tells if two scopes carry the same (sym, value) set. Parent
// chains are ignored.
func (e *Env) Equal(o *Env) bool {
	if e.bindings.Size() != o.bindings.Size() {
		return false
	}
	equal := true
	e.bindings.Walk(func(key string, payload interface{}) bool {
		other, ok := o.bindings.Lookup(key)
		if !ok || !lval.Equal(payload.(*lval.Value), other.(*lval.Value)) {
			equal = false
			return false
		}
		return true
	})
	return equal
}

// Free releases every binding of this scope. Parents are left untouched.
func (e *Env) Free() {
	e.bindings.Walk(func(_ string, payload interface{}) bool {
		payload.(*lval.Value).Free()
		return true
	})
	e.bindings = avl.Tree{}
}
