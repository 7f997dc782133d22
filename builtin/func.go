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

package builtin

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/hipparcos/dialecte/eval"
	"github.com/hipparcos/dialecte/lenv"
	"github.com/hipparcos/dialecte/lerr"
	"github.com/hipparcos/dialecte/lval"
)

// concrete recovers the scope chain behind the lval.Env interface; the
// evaluator always dispatches builtins with a *lenv.Env.
func concrete(env lval.Env) *lenv.Env {
	e, _ := env.(*lenv.Env)
	return e
}

// evalQuoted evaluates v, converting a Qexpr into an Sexpr first. This
// is the evaluation rule of the `eval` builtin, shared by `if` and
// `loop` for their branches.
func evalQuoted(env *lenv.Env, v *lval.Value) *lval.Value {
	if v.Type() == lval.TypeQexpr {
		s := lval.Alloc()
		s.Set(v)
		s.MutSexpr()
		defer s.Free()
		return eval.Eval(env, s)
	}
	return eval.Eval(env, v)
}

/* Control flow. */

func fnIf(env lval.Env, args, acc *lval.Value) int {
	cond, _ := args.Index(0)
	branchIdx := 2
	if cond.AsBool() {
		branchIdx = 1
	}
	cond.Free()
	branch, _ := args.Index(branchIdx)
	r := evalQuoted(concrete(env), branch)
	branch.Free()
	acc.Rebind(r)
	r.Free()
	if acc.Type() == lval.TypeErr {
		return -1
	}
	return 0
}

func fnLoop(env lval.Env, args, acc *lval.Value) int {
	e := concrete(env)
	cond, _ := args.Index(0)
	body, _ := args.Index(1)
	defer cond.Free()
	defer body.Free()
	for {
		c := evalQuoted(e, cond)
		if c.Type() == lval.TypeErr {
			acc.Rebind(c)
			c.Free()
			return 1
		}
		done := !c.AsBool()
		c.Free()
		if done {
			return 0
		}
		r := evalQuoted(e, body)
		acc.Rebind(r)
		r.Free()
		if acc.Type() == lval.TypeErr {
			return 2
		}
	}
}

/* List accessors. */

func fnHead(_ lval.Env, args, acc *lval.Value) int {
	arg, _ := args.Index(0)
	defer arg.Free()
	c, err := arg.Index(0)
	if err != nil {
		acc.MutErr(err)
		return 1
	}
	acc.Rebind(c)
	c.Free()
	return 0
}

func fnTail(_ lval.Env, args, acc *lval.Value) int {
	arg, _ := args.Index(0)
	acc.CopyRange(arg, 1, arg.Len())
	arg.Free()
	return 0
}

func fnInit(_ lval.Env, args, acc *lval.Value) int {
	arg, _ := args.Index(0)
	acc.CopyRange(arg, 0, arg.Len()-1)
	arg.Free()
	return 0
}

func fnLast(_ lval.Env, args, acc *lval.Value) int {
	arg, _ := args.Index(0)
	defer arg.Free()
	c, err := arg.Index(arg.Len() - 1)
	if err != nil {
		acc.MutErr(err)
		return 1
	}
	acc.Rebind(c)
	c.Free()
	return 0
}

func fnCons(_ lval.Env, args, acc *lval.Value) int {
	elem, _ := args.Index(0)
	list, _ := args.Index(1)
	acc.Set(list)
	acc.Cons(elem)
	elem.Free()
	list.Free()
	return 0
}

func fnLen(_ lval.Env, args, acc *lval.Value) int {
	arg, _ := args.Index(0)
	acc.MutNum(int64(arg.Len()))
	arg.Free()
	return 0
}

func fnJoin(_ lval.Env, args, acc *lval.Value) int {
	if args.Len() == 0 {
		acc.MutQexpr()
		return 0
	}
	first, _ := args.Index(0)
	typ := first.Type()
	first.Free()
	if typ == lval.TypeStr {
		var sb strings.Builder
		for i := 0; i < args.Len(); i++ {
			arg, _ := args.Index(i)
			sb.WriteString(arg.AsStr())
			arg.Free()
		}
		acc.MutStr(sb.String())
		return 0
	}
	if typ == lval.TypeSexpr {
		acc.MutSexpr()
	} else {
		acc.MutQexpr()
	}
	for i := 0; i < args.Len(); i++ {
		arg, _ := args.Index(i)
		for c := 0; c < arg.Len(); c++ {
			child, _ := arg.Index(c)
			acc.Push(child)
			child.Free()
		}
		arg.Free()
	}
	return 0
}

func fnList(_ lval.Env, args, acc *lval.Value) int {
	acc.MutQexpr()
	for i := 0; i < args.Len(); i++ {
		arg, _ := args.Index(i)
		acc.Push(arg)
		arg.Free()
	}
	return 0
}

func fnEval(env lval.Env, args, acc *lval.Value) int {
	arg, _ := args.Index(0)
	r := evalQuoted(concrete(env), arg)
	arg.Free()
	acc.Rebind(r)
	r.Free()
	if acc.Type() == lval.TypeErr {
		return -1
	}
	return 0
}

/* Positional operations; negative indices count from the end. */

func fnIndex(_ lval.Env, args, acc *lval.Value) int {
	idx, _ := args.Index(0)
	list, _ := args.Index(1)
	defer idx.Free()
	defer list.Free()
	i := int(idx.AsNum())
	if i < 0 {
		i += list.Len()
	}
	c, err := list.Index(i)
	if err != nil {
		acc.MutErr(err)
		return 1
	}
	acc.Rebind(c)
	c.Free()
	return 0
}

func fnTake(_ lval.Env, args, acc *lval.Value) int {
	idx, _ := args.Index(0)
	list, _ := args.Index(1)
	i := int(idx.AsNum())
	n := list.Len()
	var first, last int
	if i < 0 {
		first, last = n+i, n
		if first < 0 {
			first = 0
		}
	} else {
		first, last = 0, i
	}
	acc.CopyRange(list, first, last)
	idx.Free()
	list.Free()
	return 0
}

func fnDrop(_ lval.Env, args, acc *lval.Value) int {
	idx, _ := args.Index(0)
	list, _ := args.Index(1)
	i := int(idx.AsNum())
	n := list.Len()
	var first, last int
	if i < 0 {
		first, last = 0, n+i
		if last < 0 {
			last = 0
		}
	} else {
		first, last = i, n
	}
	acc.CopyRange(list, first, last)
	idx.Free()
	list.Free()
	return 0
}

func fnElem(_ lval.Env, args, acc *lval.Value) int {
	elem, _ := args.Index(0)
	list, _ := args.Index(1)
	defer elem.Free()
	defer list.Free()
	if list.Type() == lval.TypeStr {
		acc.MutBool(strings.Contains(list.AsStr(), elem.AsStr()))
		return 0
	}
	acc.MutBool(false)
	for i := 0; i < list.Len(); i++ {
		c, _ := list.Index(i)
		eq := lval.Equal(elem, c)
		c.Free()
		if eq {
			acc.MutBool(true)
			break
		}
	}
	return 0
}

func fnSeq(_ lval.Env, args, acc *lval.Value) int {
	fromv, _ := args.Index(0)
	tov, _ := args.Index(1)
	from, to := fromv.AsNum(), tov.AsNum()
	fromv.Free()
	tov.Free()
	step := int64(1)
	if to < from {
		step = -1
	}
	if args.Len() == 3 {
		stepv, _ := args.Index(2)
		step = stepv.AsNum()
		stepv.Free()
		if step == 0 || (to > from && step < 0) || (to < from && step > 0) {
			acc.MutErr(lerr.Throw(lerr.BadOperand,
				"step must walk from %d to %d", from, to))
			return 3
		}
	}
	acc.MutQexpr()
	num := lval.Alloc()
	defer num.Free()
	if step > 0 {
		for i := from; i <= to; i += step {
			num.MutNum(i)
			acc.Push(num)
		}
	} else {
		for i := from; i >= to; i += step {
			num.MutNum(i)
			acc.Push(num)
		}
	}
	return 0
}

/* Higher-order traversals. */

// callUser invokes a user function on the given argument list.
func callUser(env *lenv.Env, fn *lval.Func, args, res *lval.Value) int {
	return eval.Apply(fn, env, args, res)
}

func fnMap(env lval.Env, args, acc *lval.Value) int {
	e := concrete(env)
	fv, _ := args.Index(0)
	list, _ := args.Index(1)
	defer fv.Free()
	defer list.Free()
	if list.Type() == lval.TypeSexpr {
		acc.MutSexpr()
	} else {
		acc.MutQexpr()
	}
	for i := 0; i < list.Len(); i++ {
		elem, _ := list.Index(i)
		wrap := lval.Qexpr()
		wrap.Push(elem)
		elem.Free()
		res := lval.Alloc()
		s := callUser(e, fv.AsFunc(), wrap, res)
		wrap.Free()
		if s != 0 {
			acc.Rebind(res)
			res.Free()
			return 2
		}
		acc.Push(res)
		res.Free()
	}
	return 0
}

func fnFilter(env lval.Env, args, acc *lval.Value) int {
	e := concrete(env)
	fv, _ := args.Index(0)
	list, _ := args.Index(1)
	defer fv.Free()
	defer list.Free()
	if list.Type() == lval.TypeSexpr {
		acc.MutSexpr()
	} else {
		acc.MutQexpr()
	}
	for i := 0; i < list.Len(); i++ {
		elem, _ := list.Index(i)
		wrap := lval.Qexpr()
		wrap.Push(elem)
		res := lval.Alloc()
		s := callUser(e, fv.AsFunc(), wrap, res)
		wrap.Free()
		if s != 0 {
			acc.Rebind(res)
			res.Free()
			elem.Free()
			return 2
		}
		if res.AsBool() {
			acc.Push(elem)
		}
		res.Free()
		elem.Free()
	}
	return 0
}

func fnFold(env lval.Env, args, acc *lval.Value) int {
	e := concrete(env)
	fv, _ := args.Index(0)
	init, _ := args.Index(1)
	list, _ := args.Index(2)
	defer fv.Free()
	defer list.Free()
	cur := init
	for i := 0; i < list.Len(); i++ {
		elem, _ := list.Index(i)
		wrap := lval.Qexpr()
		wrap.Push(cur)
		wrap.Push(elem)
		elem.Free()
		res := lval.Alloc()
		s := callUser(e, fv.AsFunc(), wrap, res)
		wrap.Free()
		cur.Free()
		if s != 0 {
			acc.Rebind(res)
			res.Free()
			return 3
		}
		cur = res
	}
	acc.Rebind(cur)
	cur.Free()
	return 0
}

/* List utilities. */

func condSortable(_ *lval.Func, _ lval.Env, arg *lval.Value) (int, *lerr.Error) {
	if !arg.IsList() {
		return 1, lerr.Throw(lerr.BadOperand, "must be a list")
	}
	numeric, str := false, false
	for i := 0; i < arg.Len(); i++ {
		c, _ := arg.Index(i)
		switch {
		case c.IsNumeric():
			numeric = true
		case c.Type() == lval.TypeStr:
			str = true
		default:
			c.Free()
			return 1, lerr.Throw(lerr.BadOperand, "must be a list of num")
		}
		c.Free()
	}
	if numeric && str {
		return 1, lerr.Throw(lerr.BadOperand, "must be a list of num")
	}
	return 0, nil
}

func fnSort(_ lval.Env, args, acc *lval.Value) int {
	list, _ := args.Index(0)
	defer list.Free()
	elems := make([]*lval.Value, list.Len())
	for i := range elems {
		elems[i], _ = list.Index(i)
	}
	sort.SliceStable(elems, func(i, j int) bool {
		return compare(elems[i], elems[j]) < 0
	})
	if list.Type() == lval.TypeSexpr {
		acc.MutSexpr()
	} else {
		acc.MutQexpr()
	}
	for _, e := range elems {
		acc.Push(e)
		e.Free()
	}
	return 0
}

func fnReverse(_ lval.Env, args, acc *lval.Value) int {
	arg, _ := args.Index(0)
	defer arg.Free()
	if arg.Type() == lval.TypeStr {
		s := arg.AsStr()
		b := []byte(s)
		for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
			b[i], b[j] = b[j], b[i]
		}
		acc.MutStr(string(b))
		return 0
	}
	if arg.Type() == lval.TypeSexpr {
		acc.MutSexpr()
	} else {
		acc.MutQexpr()
	}
	for i := arg.Len() - 1; i >= 0; i-- {
		c, _ := arg.Index(i)
		acc.Push(c)
		c.Free()
	}
	return 0
}

func fnZip(_ lval.Env, args, acc *lval.Value) int {
	acc.MutQexpr()
	if args.Len() == 0 {
		return 0
	}
	first, _ := args.Index(0)
	n := first.Len()
	first.Free()
	for e := 0; e < n; e++ {
		tuple := lval.Qexpr()
		for a := 0; a < args.Len(); a++ {
			list, _ := args.Index(a)
			c, _ := list.Index(e)
			tuple.Push(c)
			c.Free()
			list.Free()
		}
		acc.Push(tuple)
		tuple.Free()
	}
	return 0
}

func fnRepeat(_ lval.Env, args, acc *lval.Value) int {
	times, _ := args.Index(0)
	list, _ := args.Index(1)
	defer times.Free()
	defer list.Free()
	if list.Type() == lval.TypeSexpr {
		acc.MutSexpr()
	} else {
		acc.MutQexpr()
	}
	for n := times.AsNum(); n > 0; n-- {
		for i := 0; i < list.Len(); i++ {
			c, _ := list.Index(i)
			acc.Push(c)
			c.Free()
		}
	}
	return 0
}

func fnAll(_ lval.Env, args, acc *lval.Value) int {
	list, _ := args.Index(0)
	defer list.Free()
	r := true
	for i := 0; r && i < list.Len(); i++ {
		c, _ := list.Index(i)
		r = c.AsBool()
		c.Free()
	}
	acc.MutBool(r)
	return 0
}

func fnAny(_ lval.Env, args, acc *lval.Value) int {
	list, _ := args.Index(0)
	defer list.Free()
	r := false
	for i := 0; !r && i < list.Len(); i++ {
		c, _ := list.Index(i)
		r = c.AsBool()
		c.Free()
	}
	acc.MutBool(r)
	return 0
}

func fnMix(_ lval.Env, args, acc *lval.Value) int {
	list, _ := args.Index(0)
	defer list.Free()
	elems := make([]*lval.Value, list.Len())
	for i := range elems {
		elems[i], _ = list.Index(i)
	}
	rand.Shuffle(len(elems), func(i, j int) {
		elems[i], elems[j] = elems[j], elems[i]
	})
	acc.MutQexpr()
	for _, e := range elems {
		acc.Push(e)
		e.Free()
	}
	return 0
}

/* Environment manipulation. */

type definer func(env *lenv.Env, sym string, v *lval.Value) *lerr.Error

func defHelper(env *lenv.Env, def definer, args, acc *lval.Value) int {
	syms, _ := args.Index(0)
	defer syms.Free()
	for i := 0; i < syms.Len(); i++ {
		sym, _ := syms.Index(i)
		val, _ := args.Index(i + 1)
		err := def(env, sym.AsSym(), val)
		val.Free()
		sym.Free()
		if err != nil {
			acc.MutErr(err)
			return i + 2
		}
	}
	acc.Set(syms)
	return 0
}

func fnDef(env lval.Env, args, acc *lval.Value) int {
	return defHelper(concrete(env), func(e *lenv.Env, sym string, v *lval.Value) *lerr.Error {
		e.Def(sym, v)
		return nil
	}, args, acc)
}

func fnPut(env lval.Env, args, acc *lval.Value) int {
	return defHelper(concrete(env), func(e *lenv.Env, sym string, v *lval.Value) *lerr.Error {
		e.Put(sym, v)
		return nil
	}, args, acc)
}

func fnOverride(env lval.Env, args, acc *lval.Value) int {
	return defHelper(concrete(env), func(e *lenv.Env, sym string, v *lval.Value) *lerr.Error {
		return e.Override(sym, v)
	}, args, acc)
}

/* Function construction. */

func fnLambda(env lval.Env, args, acc *lval.Value) int {
	formals, _ := args.Index(0)
	body, _ := args.Index(1)
	defer formals.Free()
	defer body.Free()
	fn := lval.NewFunc("λ")
	fn.Lisp = true
	fn.Scope = env
	fn.Formals = formals.Dup()
	fn.Body = body.Dup()
	k := fn.Formals.Len()
	fn.MinArgc, fn.MaxArgc = k, k
	if k >= 2 {
		marker, _ := fn.Formals.Index(k - 2)
		if marker.AsSym() == eval.VariadicMarker {
			fn.MinArgc, fn.MaxArgc = k-2, lval.Unbounded
		}
		marker.Free()
	}
	acc.MutFunc(fn)
	return 0
}

func fnFun(env lval.Env, args, acc *lval.Value) int {
	syms, _ := args.Index(0)
	body, _ := args.Index(1)
	defer syms.Free()
	defer body.Free()
	name, _ := syms.Index(0)
	defer name.Free()
	formals := lval.Alloc()
	formals.CopyRange(syms, 1, syms.Len())
	defer formals.Free()
	// build the lambda, then bind it at the root
	wrap := lval.Sexpr()
	wrap.Push(formals)
	wrap.Push(body)
	fv := lval.Alloc()
	s := fnLambda(env, wrap, fv)
	wrap.Free()
	if s != 0 {
		acc.Rebind(fv)
		fv.Free()
		return s + 1
	}
	fv.AsFunc().Symbol = name.AsSym()
	concrete(env).Def(name.AsSym(), fv)
	fv.Free()
	acc.MutQexpr()
	acc.Push(name)
	return 0
}

/* Calling conventions. */

func fnPack(env lval.Env, args, acc *lval.Value) int {
	fv, _ := args.Index(0)
	defer fv.Free()
	packed := lval.Qexpr()
	for i := 1; i < args.Len(); i++ {
		c, _ := args.Index(i)
		packed.Push(c)
		c.Free()
	}
	wrap := lval.Sexpr()
	wrap.Push(packed)
	packed.Free()
	s := eval.Apply(fv.AsFunc(), concrete(env), wrap, acc)
	wrap.Free()
	if s != 0 {
		return -1
	}
	return 0
}

func fnUnpack(env lval.Env, args, acc *lval.Value) int {
	fv, _ := args.Index(0)
	list, _ := args.Index(1)
	defer fv.Free()
	defer list.Free()
	s := eval.Apply(fv.AsFunc(), concrete(env), list, acc)
	if s != 0 {
		return 2
	}
	return 0
}

func fnPartial(_ lval.Env, args, acc *lval.Value) int {
	fv, _ := args.Index(0)
	defer fv.Free()
	nf := fv.AsFunc().Copy()
	for i := 1; i < args.Len(); i++ {
		c, _ := args.Index(i)
		nf.Args.Push(c)
		c.Free()
	}
	acc.MutFunc(nf)
	return 0
}

/* I/O and introspection. */

func fnPrint(_ lval.Env, args, acc *lval.Value) int {
	for i := 0; i < args.Len(); i++ {
		if i > 0 {
			fmt.Fprint(output, " ")
		}
		arg, _ := args.Index(i)
		arg.Print(output)
		arg.Free()
	}
	fmt.Fprintln(output)
	acc.MutNil()
	return 0
}

func fnError(_ lval.Env, args, acc *lval.Value) int {
	arg, _ := args.Index(0)
	acc.MutErr(lerr.Throw(lerr.LispUser, "%s", arg.AsStr()))
	arg.Free()
	return 1
}

func fnLoad(env lval.Env, args, acc *lval.Value) int {
	if loader == nil {
		acc.MutErr(lerr.Throw(lerr.Eval, "load is not available"))
		return -1
	}
	e := concrete(env)
	for a := 0; a < args.Len(); a++ {
		arg, _ := args.Index(a)
		filename := arg.AsStr()
		arg.Free()
		r, err := loader(e, filename)
		if err != nil {
			acc.MutErr(err)
			return a + 1
		}
		acc.Rebind(r)
		r.Free()
	}
	return 0
}

func fnDebugEnv(env lval.Env, _, acc *lval.Value) int {
	list := concrete(env).AsList()
	acc.Rebind(list)
	list.Free()
	return 0
}

func fnDebugFun(_ lval.Env, args, acc *lval.Value) int {
	fv, _ := args.Index(0)
	defer fv.Free()
	fn := fv.AsFunc()
	acc.MutQexpr()
	if fn.Formals != nil {
		acc.Push(fn.Formals)
	} else {
		empty := lval.Qexpr()
		acc.Push(empty)
		empty.Free()
	}
	acc.Push(fn.Args)
	if fn.Lisp {
		acc.Push(fn.Body)
	} else {
		acc.Push(fv)
	}
	return 0
}

func fnDebugVal(env lval.Env, args, acc *lval.Value) int {
	e := concrete(env)
	list, _ := args.Index(0)
	defer list.Free()
	acc.MutQexpr()
	typ := lval.Alloc()
	defer typ.Free()
	for i := 0; i < list.Len(); i++ {
		sym, _ := list.Index(i)
		result := eval.Eval(e, sym)
		entry := lval.Qexpr()
		typ.MutStr(sym.Type().String())
		entry.Push(typ)
		entry.Push(sym)
		typ.MutStr(result.Type().String())
		entry.Push(typ)
		entry.Push(result)
		acc.Push(entry)
		entry.Free()
		result.Free()
		sym.Free()
	}
	return 0
}
