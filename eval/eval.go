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

// Package eval implements the tree-walking evaluator: symbol resolution,
// S-Expression evaluation and function application with guard checks,
// argument binding, partial application and accumulator folds.
package eval

import (
	"github.com/hipparcos/dialecte/lenv"
	"github.com/hipparcos/dialecte/lerr"
	"github.com/hipparcos/dialecte/lval"
)

// Dot is the symbol bound to the last computed value.
const Dot = "."

// Eval evaluates a value against the environment and returns a new
// handle on the result. Errors are returned as Err values.
func Eval(env *lenv.Env, v *lval.Value) *lval.Value {
	return evalValue(env, v, true)
}

// EvalProgram evaluates a lowered program: an Sexpr of top-level
// expressions executed in order. The result is the last value.
func EvalProgram(env *lenv.Env, prog *lval.Value) *lval.Value {
	return evalValue(env, prog, false)
}

func evalValue(env *lenv.Env, v *lval.Value, exec bool) *lval.Value {
	if v == nil || !v.Alive() {
		return lval.Err(lerr.Throw(lerr.DeadRef, "%s", lerr.DeadRef.Describe()))
	}
	switch v.Type() {
	case lval.TypeSym:
		r, err := env.Lookup(v.AsSym())
		if err != nil {
			err.SetLocation(v.Span.Line, v.Span.Col)
			if v.Span.File != "" {
				err.SetFile(v.Span.File)
			}
			e := lval.Err(err)
			e.Span = v.Span
			return e
		}
		r.Span = v.Span
		return r
	case lval.TypeSexpr:
		return evalSexpr(env, v, exec)
	default:
		// quoted literals, scalars and errors evaluate to themselves
		return v.Dup()
	}
}

func evalSexpr(env *lenv.Env, v *lval.Value, exec bool) *lval.Value {
	n := v.Len()
	if n == 0 {
		return lval.Alloc()
	}
	expr := lval.Sexpr()
	expr.Span = v.Span
	var last *lval.Value
	for i := 0; i < n; i++ {
		child, ierr := v.Index(i)
		if ierr != nil {
			expr.Free()
			return lval.Err(ierr)
		}
		x := evalValue(env, child, true)
		if !x.Span.Valid() {
			// computed values keep the span of the expression that
			// produced them so guard failures stay locatable
			x.Span = child.Span
		}
		child.Free()
		if x.Type() == lval.TypeErr {
			if err := x.AsErr(); err != nil && x.Span.Valid() {
				err.SetLocation(x.Span.Line, x.Span.Col)
			}
			expr.Free()
			return x
		}
		expr.Push(x)
		if i == n-1 {
			last = x
		} else {
			x.Free()
		}
	}
	setDot(env, last)
	if !exec {
		expr.Free()
		return last
	}
	head := expr.Pop(0)
	if fn := head.AsFunc(); fn != nil {
		last.Free()
		r := applyExpr(env, head, expr)
		setDot(env, r)
		head.Free()
		expr.Free()
		return r
	}
	head.Free()
	expr.Free()
	return last
}

func setDot(env *lenv.Env, r *lval.Value) {
	if r != nil {
		env.Def(Dot, r)
	}
}

// applyExpr applies the function value to args and resolves the location
// of a failure: the offending argument's span, or the function's own
// span when the failure is not tied to one call-site argument.
func applyExpr(env *lenv.Env, fv *lval.Value, args *lval.Value) *lval.Value {
	acc := lval.Alloc()
	s := Apply(fv.AsFunc(), env, args, acc)
	if s != 0 && acc.Type() == lval.TypeErr {
		err := acc.AsErr()
		sp := fv.Span
		if s > 0 && s <= args.Len() {
			if c, ierr := args.Index(s - 1); ierr == nil {
				sp = c.Span
				c.Free()
			}
		}
		if sp.Valid() {
			err.SetLocation(sp.Line, sp.Col)
		}
		if sp.File != "" {
			err.SetFile(sp.File)
		}
		acc.Span = sp
	}
	return acc
}
