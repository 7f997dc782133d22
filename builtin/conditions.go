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
	"math"

	"github.com/hipparcos/dialecte/lerr"
	"github.com/hipparcos/dialecte/lval"
)

// Guard conditions used by the catalog. A condition receives either one
// argument (applicability n > 0 or 0) or the whole argument list
// (applicability -1); see lval.Guard.

func condIsNumeric(_ *lval.Func, _ lval.Env, arg *lval.Value) (int, *lerr.Error) {
	if !arg.IsNumeric() {
		return 1, lerr.Throw(lerr.BadOperand, "must be numeric")
	}
	return 0, nil
}

func condIsIntegral(_ *lval.Func, _ lval.Env, arg *lval.Value) (int, *lerr.Error) {
	if !arg.IsIntegral() {
		return 1, lerr.Throw(lerr.BadOperand, "must be integral")
	}
	return 0, nil
}

func condIsPositive(_ *lval.Func, _ lval.Env, arg *lval.Value) (int, *lerr.Error) {
	if arg.Sign() < 0 {
		return 1, lerr.Throw(lerr.BadOperand, "must be positive")
	}
	return 0, nil
}

// condDivisorNonZero checks every argument but the first, which is the
// dividend; with a single argument the fold seeds the accumulator with
// the neutral element, so the argument itself is the divisor.
func condDivisorNonZero(_ *lval.Func, _ lval.Env, args *lval.Value) (int, *lerr.Error) {
	first := 1
	if args.Len() == 1 {
		first = 0
	}
	for c := first; c < args.Len(); c++ {
		d, _ := args.Index(c)
		zero := d.IsZero()
		d.Free()
		if zero {
			return c + 1, lerr.Throw(lerr.DivZero, "divisor must not be 0")
		}
	}
	return 0, nil
}

// condFitsULong rejects integral payloads too large for an unsigned
// long; doubles and fixed-width numbers pass by construction.
func condFitsULong(_ *lval.Func, _ lval.Env, arg *lval.Value) (int, *lerr.Error) {
	switch arg.Type() {
	case lval.TypeNum, lval.TypeDbl:
		return 0, nil
	case lval.TypeBignum:
		if lval.BignumCmpUint64(arg.AsBignum(), math.MaxUint64) > 0 {
			return 1, lerr.Throw(lerr.BadOperand, "is too large")
		}
		return 0, nil
	}
	return 1, lerr.Throw(lerr.BadOperand, "must be integral")
}

func condIsQexpr(_ *lval.Func, _ lval.Env, arg *lval.Value) (int, *lerr.Error) {
	if arg.Type() != lval.TypeQexpr {
		return 1, lerr.Throw(lerr.BadOperand, "must be of type %s", lval.TypeQexpr)
	}
	return 0, nil
}

func condIsFunc(_ *lval.Func, _ lval.Env, arg *lval.Value) (int, *lerr.Error) {
	if arg.Type() != lval.TypeFunc {
		return 1, lerr.Throw(lerr.BadOperand, "must be of type %s", lval.TypeFunc)
	}
	return 0, nil
}

func condIsBool(_ *lval.Func, _ lval.Env, arg *lval.Value) (int, *lerr.Error) {
	if arg.Type() != lval.TypeBool {
		return 1, lerr.Throw(lerr.BadOperand, "must be of type %s", lval.TypeBool)
	}
	return 0, nil
}

func condIsNum(_ *lval.Func, _ lval.Env, arg *lval.Value) (int, *lerr.Error) {
	if arg.Type() != lval.TypeNum {
		return 1, lerr.Throw(lerr.BadOperand, "must be of type %s", lval.TypeNum)
	}
	return 0, nil
}

func condIsStr(_ *lval.Func, _ lval.Env, arg *lval.Value) (int, *lerr.Error) {
	if arg.Type() != lval.TypeStr {
		return 1, lerr.Throw(lerr.BadOperand, "must be of type %s", lval.TypeStr)
	}
	return 0, nil
}

// condIsList accepts S- and Q-Expressions.
func condIsList(_ *lval.Func, _ lval.Env, arg *lval.Value) (int, *lerr.Error) {
	if !arg.IsList() {
		return 1, lerr.Throw(lerr.BadOperand, "must be a list")
	}
	return 0, nil
}

// condIsListOrStr accepts the payloads the positional accessors operate
// on: lists and strings.
func condIsListOrStr(_ *lval.Func, _ lval.Env, arg *lval.Value) (int, *lerr.Error) {
	if !arg.IsList() && arg.Type() != lval.TypeStr {
		return 1, lerr.Throw(lerr.BadOperand, "must be a list")
	}
	return 0, nil
}

// condListOf builds a condition checking a list whose elements all have
// the given type.
func condListOf(typ lval.Type) lval.Condition {
	return func(_ *lval.Func, _ lval.Env, arg *lval.Value) (int, *lerr.Error) {
		if !arg.IsList() {
			return 1, lerr.Throw(lerr.BadOperand, "must be a list")
		}
		for i := 0; i < arg.Len(); i++ {
			c, _ := arg.Index(i)
			t := c.Type()
			c.Free()
			if t != typ {
				return 1, lerr.Throw(lerr.BadOperand, "must be a list of %s", typ)
			}
		}
		return 0, nil
	}
}

// condAllSameType checks that all arguments share the first argument's
// type, Num/Bignum/Dbl counting as one numeric kind.
func condAllSameType(_ *lval.Func, _ lval.Env, args *lval.Value) (int, *lerr.Error) {
	if args.Len() == 0 {
		return 0, nil
	}
	first, _ := args.Index(0)
	numeric := first.IsNumeric()
	typ := first.Type()
	first.Free()
	for c := 1; c < args.Len(); c++ {
		arg, _ := args.Index(c)
		same := arg.Type() == typ || (numeric && arg.IsNumeric())
		arg.Free()
		if !same {
			if numeric {
				return c + 1, lerr.Throw(lerr.BadOperand, "must be a list of num")
			}
			return c + 1, lerr.Throw(lerr.BadOperand, "must be a list of %s", typ)
		}
	}
	return 0, nil
}

// condMinLen builds a condition on the length of one argument.
func condMinLen(min int) lval.Condition {
	return func(_ *lval.Func, _ lval.Env, arg *lval.Value) (int, *lerr.Error) {
		if arg.Len() < min {
			return 1, lerr.Throw(lerr.BadOperand,
				"must have a length of at least %d", min)
		}
		return 0, nil
	}
}

// condEqualLens checks that the number of symbols given as first
// argument matches the number of values that follow.
func condEqualLens(_ *lval.Func, _ lval.Env, args *lval.Value) (int, *lerr.Error) {
	syms, _ := args.Index(0)
	symc := syms.Len()
	syms.Free()
	valc := args.Len() - 1
	switch {
	case valc < symc:
		return -1, lerr.Throw(lerr.TooFewArgs,
			"length must match: %d symbol(s) and %d value(s)", symc, valc)
	case valc > symc:
		return -1, lerr.Throw(lerr.TooManyArgs,
			"length must match: %d symbol(s) and %d value(s)", symc, valc)
	}
	return 0, nil
}

// condEqualLists checks that every list argument has the same length.
func condEqualLists(_ *lval.Func, _ lval.Env, args *lval.Value) (int, *lerr.Error) {
	if args.Len() == 0 {
		return 0, nil
	}
	first, _ := args.Index(0)
	want := first.Len()
	first.Free()
	for c := 1; c < args.Len(); c++ {
		arg, _ := args.Index(c)
		got := arg.Len()
		arg.Free()
		if got != want {
			return c + 1, lerr.Throw(lerr.BadOperand,
				"lists must be of equal length")
		}
	}
	return 0, nil
}
