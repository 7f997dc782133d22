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

package eval

import (
	"github.com/hipparcos/dialecte/lenv"
	"github.com/hipparcos/dialecte/lerr"
	"github.com/hipparcos/dialecte/lval"
)

// VariadicMarker is the formal name that collects trailing arguments
// into the last formal as a Qexpr.
const VariadicMarker = "&"

// Apply invokes fn on args, writing the result into acc.
//
// It returns 0 on success, n when the n-th call-site argument (args, the
// partial-application buffer excluded) caused the failure, and -1 when
// the failure is not tied to one call-site argument, a failure inside the
// partial-application buffer included. acc carries the error value on
// failure.
func Apply(fn *lval.Func, env *lenv.Env, args, acc *lval.Value) int {
	if fn == nil {
		acc.MutErr(lerr.Throw(lerr.Eval, "not a function"))
		return -1
	}
	// prepend the partial-application buffer
	merged := args
	if fn.Bound() > 0 {
		merged = lval.Sexpr()
		defer merged.Free()
		for i := 0; i < fn.Bound(); i++ {
			c, _ := fn.Args.Index(i)
			merged.Push(c)
			c.Free()
		}
		for i := 0; i < args.Len(); i++ {
			c, _ := args.Index(i)
			merged.Push(c)
			c.Free()
		}
	}
	if s := checkGuards(fn, universalGuards(fn), env, merged, acc); s != 0 {
		return adjust(fn, s)
	}
	if s := checkGuards(fn, fn.Guards, env, merged, acc); s != 0 {
		return adjust(fn, s)
	}
	if fn.Lisp {
		return adjust(fn, applyLisp(fn, env, merged, acc))
	}
	if !fn.Accumulator {
		return adjust(fn, fn.Fn(env, merged, acc))
	}
	return adjust(fn, applyAccumulator(fn, env, merged, acc))
}

// adjust maps an index into the merged argument list back to a call-site
// argument index. Failures inside the partial-application buffer are not
// tied to a call-site argument.
func adjust(fn *lval.Func, s int) int {
	if s <= 0 {
		return s
	}
	s -= fn.Bound()
	if s <= 0 {
		return -1
	}
	return s
}

/* Guards. */

// universalGuards are run before any function's own guards.
func universalGuards(fn *lval.Func) []lval.Guard {
	guards := []lval.Guard{{Cond: condMaxArgc, Argn: -1}}
	if !fn.Lisp || variadic(fn) {
		guards = append(guards, lval.Guard{Cond: condMinArgc, Argn: -1})
	}
	if !fn.Lisp {
		guards = append(guards, lval.Guard{Cond: condDispatch, Argn: -1})
	}
	return guards
}

func condMaxArgc(fn *lval.Func, _ lval.Env, args *lval.Value) (int, *lerr.Error) {
	if fn.MaxArgc != lval.Unbounded && args.Len() > fn.MaxArgc {
		return -1, lerr.Throw(lerr.TooManyArgs,
			"takes %d arguments at maximum", fn.MaxArgc)
	}
	return 0, nil
}

func condMinArgc(fn *lval.Func, _ lval.Env, args *lval.Value) (int, *lerr.Error) {
	if fn.MinArgc != lval.Unbounded && args.Len() < fn.MinArgc {
		return -1, lerr.Throw(lerr.TooFewArgs,
			"takes %d arguments at minimum", fn.MinArgc)
	}
	return 0, nil
}

func condDispatch(fn *lval.Func, _ lval.Env, _ *lval.Value) (int, *lerr.Error) {
	if !fn.Accumulator && fn.Fn == nil {
		return -1, lerr.Throw(lerr.Eval, "incorrect builtin definition")
	}
	return 0, nil
}

// checkGuards runs guards against the argument list. It returns 0 when
// every guard passes; otherwise acc is mutated into the guard's error
// and the returned status locates the failure: k for the k-th argument,
// -1 for an all-args guard (reported at the function's own span).
func checkGuards(fn *lval.Func, guards []lval.Guard, env *lenv.Env, args, acc *lval.Value) int {
	for _, g := range guards {
		switch {
		case g.Argn > 0: // check only the n-th argument
			if g.Argn > args.Len() {
				continue
			}
			child, _ := args.Index(g.Argn - 1)
			s, err := g.Cond(fn, env, child)
			child.Free()
			if s != 0 {
				acc.MutErr(err)
				return g.Argn
			}
		case g.Argn == 0: // check every argument independently
			for a := 0; a < args.Len(); a++ {
				child, _ := args.Index(a)
				s, err := g.Cond(fn, env, child)
				child.Free()
				if s != 0 {
					acc.MutErr(err)
					return a + 1
				}
			}
		default: // check all arguments as a single unit
			if s, err := g.Cond(fn, env, args); s != 0 {
				acc.MutErr(err)
				return -1
			}
		}
	}
	return 0
}

/* Lisp function application. */

func variadic(fn *lval.Func) bool {
	if fn.Formals == nil {
		return false
	}
	k := fn.Formals.Len()
	if k < 2 {
		return false
	}
	f, _ := fn.Formals.Index(k - 2)
	defer f.Free()
	return f.AsSym() == VariadicMarker
}

func applyLisp(fn *lval.Func, env *lenv.Env, args, acc *lval.Value) int {
	k := fn.Formals.Len()
	n := args.Len()
	isVariadic := variadic(fn)
	if !isVariadic && n < k {
		// partial application: a new function awaiting the rest
		nf := fn.Copy()
		nf.Args.Free()
		nf.Args = lval.Qexpr()
		for i := 0; i < n; i++ {
			c, _ := args.Index(i)
			nf.Args.Push(c)
			c.Free()
		}
		acc.MutFunc(nf)
		return 0
	}
	// bind formals in a fresh child of the captured scope
	child := lenv.New()
	parent := env
	if fn.Scope != nil {
		if p, ok := fn.Scope.(*lenv.Env); ok {
			parent = p
		}
	}
	if err := child.SetParent(parent); err != nil {
		acc.MutErr(err)
		return -1
	}
	req := k
	if isVariadic {
		req = k - 2
	}
	for i := 0; i < req; i++ {
		formal, _ := fn.Formals.Index(i)
		arg, _ := args.Index(i)
		child.Put(formal.AsSym(), arg)
		arg.Free()
		formal.Free()
	}
	if isVariadic {
		// collect trailing actuals; an empty tail binds {}
		rest := lval.Qexpr()
		for i := req; i < n; i++ {
			arg, _ := args.Index(i)
			rest.Push(arg)
			arg.Free()
		}
		formal, _ := fn.Formals.Index(k - 1)
		child.Put(formal.AsSym(), rest)
		formal.Free()
		rest.Free()
	}
	// evaluate the body as an S-Expression in the child scope
	body := lval.Alloc()
	body.Set(fn.Body)
	body.MutSexpr()
	r := evalValue(child, body, true)
	body.Free()
	child.Free()
	acc.Rebind(r)
	r.Free()
	if acc.Type() == lval.TypeErr {
		return -1
	}
	return 0
}

/* Accumulator dispatch. */

func applyAccumulator(fn *lval.Func, env *lenv.Env, args, acc *lval.Value) int {
	n := args.Len()
	if n == 0 {
		// no argument: the fold collapses to its identity element
		acc.Set(fn.Neutral)
		return 0
	}
	if n == 1 {
		// unary: seed with the neutral element and apply once
		arg, _ := args.Index(0)
		acc.Set(fn.Neutral)
		s := stepAccumulator(fn, env, arg, acc)
		arg.Free()
		if s != 0 {
			return 1
		}
		return 0
	}
	start := 0
	if fn.InitNeutral {
		acc.Set(fn.Neutral)
	} else {
		first, _ := args.Index(0)
		acc.Set(first)
		first.Free()
		start = 1
	}
	for c := start; c < n; c++ {
		child, _ := args.Index(c)
		s := stepAccumulator(fn, env, child, acc)
		child.Free()
		if s != 0 {
			if s == -1 {
				return -1
			}
			return c + 1
		}
	}
	return 0
}

// widest picks the representation of one fold step: Dbl > Bignum > Num.
func widest(a, b *lval.Value) lval.Type {
	at, bt := a.Type(), b.Type()
	switch {
	case at == lval.TypeDbl || bt == lval.TypeDbl:
		return lval.TypeDbl
	case at == lval.TypeBignum || bt == lval.TypeBignum:
		return lval.TypeBignum
	case at == lval.TypeNum || bt == lval.TypeNum:
		return lval.TypeNum
	}
	return lval.TypeNil
}

func stepAccumulator(fn *lval.Func, env *lenv.Env, arg, acc *lval.Value) int {
	if fn.Fn != nil {
		return fn.Fn(env, arg, acc)
	}
	switch widest(acc, arg) {
	case lval.TypeDbl:
		if fn.OpDbl == nil {
			acc.MutErr(lerr.Throw(lerr.BadOperand, "must be integral"))
			return 1
		}
		acc.MutDbl(fn.OpDbl(acc.AsDbl(), arg.AsDbl()))
	case lval.TypeBignum:
		acc.MutBignum(fn.OpBignum(acc.AsBignum(), arg.AsBignum()))
	case lval.TypeNum:
		a, b := acc.AsNum(), arg.AsNum()
		if fn.OverflowCond != nil && fn.OverflowCond(a, b) {
			// promote and re-apply the step as a bignum operation
			acc.MutBignum(lval.BignumFromInt64(a))
			return stepAccumulator(fn, env, arg, acc)
		}
		acc.MutNum(fn.OpNum(a, b))
	default:
		acc.MutErrCode(lerr.Eval)
		return -1
	}
	return 0
}
