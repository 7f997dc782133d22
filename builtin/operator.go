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
	"strings"

	"github.com/hipparcos/dialecte/lerr"
	"github.com/hipparcos/dialecte/lval"
)

// Overflow conditions for fixed-width numbers. A true return promotes
// the whole step to bignum, so these must never under-report.

func addOverflow(a, b int64) bool {
	return (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b)
}

func subOverflow(a, b int64) bool {
	return (b > 0 && a < math.MinInt64+b) || (b < 0 && a > math.MaxInt64+b)
}

func mulOverflow(a, b int64) bool {
	if a == 0 || b == 0 {
		return false
	}
	if (a == math.MinInt64 && b == -1) || (b == math.MinInt64 && a == -1) {
		return true
	}
	c := a * b
	return c/b != a
}

// divOverflow catches the single quotient that does not fit: the
// negation of the smallest number.
func divOverflow(a, b int64) bool {
	return a == math.MinInt64 && b == -1
}

func powOverflow(a, b int64) bool {
	if b <= 1 || a == 0 || a == 1 || a == -1 {
		return false
	}
	base := a
	if base < 0 {
		base = -base
	}
	return float64(b) > math.Log2(float64(math.MaxInt64))/math.Log2(float64(base))
}

func facOverflow(_, b int64) bool {
	return b > 20
}

/* Fixed-width steps. Each step receives (accumulator, argument). */

func opNumAdd(a, b int64) int64 { return a + b }
func opNumSub(a, b int64) int64 { return a - b }
func opNumMul(a, b int64) int64 { return a * b }
func opNumDiv(a, b int64) int64 { return a / b }
func opNumMod(a, b int64) int64 { return ((a % b) + b) % b }

func opNumPow(a, b int64) int64 {
	x := a
	for n := b; n > 1; n-- {
		x *= a
	}
	return x
}

// opNumFac consumes the argument only, the accumulator carries the
// neutral element.
func opNumFac(_, b int64) int64 {
	f := int64(1)
	for n := int64(2); n <= b; n++ {
		f *= n
	}
	return f
}

/* Double steps. */

func opDblAdd(a, b float64) float64 { return a + b }
func opDblSub(a, b float64) float64 { return a - b }
func opDblMul(a, b float64) float64 { return a * b }
func opDblDiv(a, b float64) float64 { return a / b }
func opDblPow(a, b float64) float64 { return math.Pow(a, b) }

/* Arithmetic descriptors. */

func opAdd() *lval.Func {
	fn := lval.NewFunc("+")
	fn.MinArgc, fn.MaxArgc = 0, lval.Unbounded
	fn.Accumulator = true
	fn.Unary = true
	fn.Neutral = lval.Zero()
	fn.Guards = []lval.Guard{{Cond: condIsNumeric, Argn: 0}}
	fn.OpNum = opNumAdd
	fn.OverflowCond = addOverflow
	fn.OpBignum = lval.BignumAdd
	fn.OpDbl = opDblAdd
	return fn
}

func opSub() *lval.Func {
	fn := lval.NewFunc("-")
	fn.MinArgc, fn.MaxArgc = 1, lval.Unbounded
	fn.Accumulator = true
	fn.Unary = true
	fn.Neutral = lval.Zero()
	fn.Guards = []lval.Guard{{Cond: condIsNumeric, Argn: 0}}
	fn.OpNum = opNumSub
	fn.OverflowCond = subOverflow
	fn.OpBignum = lval.BignumSub
	fn.OpDbl = opDblSub
	return fn
}

func opMul() *lval.Func {
	fn := lval.NewFunc("*")
	fn.MinArgc, fn.MaxArgc = 0, lval.Unbounded
	fn.Accumulator = true
	fn.Unary = true
	fn.Neutral = lval.One()
	fn.Guards = []lval.Guard{{Cond: condIsNumeric, Argn: 0}}
	fn.OpNum = opNumMul
	fn.OverflowCond = mulOverflow
	fn.OpBignum = lval.BignumMul
	fn.OpDbl = opDblMul
	return fn
}

func opDiv() *lval.Func {
	fn := lval.NewFunc("/")
	fn.MinArgc, fn.MaxArgc = 1, lval.Unbounded
	fn.Accumulator = true
	fn.Neutral = lval.One()
	fn.Guards = []lval.Guard{
		{Cond: condIsNumeric, Argn: 0},
		{Cond: condDivisorNonZero, Argn: -1},
	}
	fn.OpNum = opNumDiv
	fn.OverflowCond = divOverflow
	fn.OpBignum = lval.BignumDiv
	fn.OpDbl = opDblDiv
	return fn
}

func opMod() *lval.Func {
	fn := lval.NewFunc("%")
	fn.MinArgc, fn.MaxArgc = 2, 2
	fn.Accumulator = true
	fn.Neutral = lval.One()
	fn.Guards = []lval.Guard{
		{Cond: condIsIntegral, Argn: 0},
		{Cond: condDivisorNonZero, Argn: -1},
	}
	fn.OpNum = opNumMod
	fn.OverflowCond = divOverflow
	fn.OpBignum = lval.BignumMod
	return fn
}

func opPow() *lval.Func {
	fn := lval.NewFunc("^")
	fn.MinArgc, fn.MaxArgc = 2, 2
	fn.Accumulator = true
	fn.Neutral = lval.One()
	fn.Guards = []lval.Guard{
		{Cond: condIsNumeric, Argn: 0},
		{Cond: condFitsULong, Argn: 2},
	}
	fn.OpNum = opNumPow
	fn.OverflowCond = powOverflow
	fn.OpBignum = lval.BignumPow
	fn.OpDbl = opDblPow
	return fn
}

func opFac() *lval.Func {
	fn := lval.NewFunc("!")
	fn.MinArgc, fn.MaxArgc = 1, 1
	fn.Accumulator = true
	fn.Unary = true
	fn.Neutral = lval.One()
	fn.Guards = []lval.Guard{
		{Cond: condIsIntegral, Argn: 1},
		{Cond: condIsPositive, Argn: 1},
		{Cond: condFitsULong, Argn: 1},
	}
	fn.OpNum = opNumFac
	fn.OverflowCond = facOverflow
	fn.OpBignum = lval.BignumFac
	return fn
}

/* Comparison descriptors. */

// compare orders two homogeneous values: -1, 0 or 1.
func compare(a, b *lval.Value) int {
	if a.IsNumeric() && b.IsNumeric() {
		if a.Type() == lval.TypeDbl || b.Type() == lval.TypeDbl {
			x, y := a.AsDbl(), b.AsDbl()
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
		return a.AsBignum().Cmp(b.AsBignum())
	}
	return strings.Compare(a.AsStr(), b.AsStr())
}

// opCmp builds an ordering comparison builtin.
func opCmp(symbol string, keep func(int) bool) *lval.Func {
	fn := lval.NewFunc(symbol)
	fn.MinArgc, fn.MaxArgc = 2, 2
	fn.Guards = []lval.Guard{
		{Cond: condIsOrderable, Argn: 0},
		{Cond: condAllSameType, Argn: -1},
	}
	fn.Fn = func(_ lval.Env, args, acc *lval.Value) int {
		a, _ := args.Index(0)
		b, _ := args.Index(1)
		acc.MutBool(keep(compare(a, b)))
		a.Free()
		b.Free()
		return 0
	}
	return fn
}

func condIsOrderable(_ *lval.Func, _ lval.Env, arg *lval.Value) (int, *lerr.Error) {
	if !arg.IsNumeric() && arg.Type() != lval.TypeStr {
		return 1, lerr.Throw(lerr.BadOperand, "must be numeric or a string")
	}
	return 0, nil
}

// opEq builds an equality builtin; unlike the ordering comparisons it
// accepts operands of any type.
func opEq(symbol string, want bool) *lval.Func {
	fn := lval.NewFunc(symbol)
	fn.MinArgc, fn.MaxArgc = 2, 2
	fn.Fn = func(_ lval.Env, args, acc *lval.Value) int {
		a, _ := args.Index(0)
		b, _ := args.Index(1)
		acc.MutBool(lval.Equal(a, b) == want)
		a.Free()
		b.Free()
		return 0
	}
	return fn
}

/* Boolean logic descriptors. */

func opAnd() *lval.Func {
	fn := lval.NewFunc("&&")
	fn.MinArgc, fn.MaxArgc = 1, lval.Unbounded
	fn.Guards = []lval.Guard{{Cond: condIsBool, Argn: 0}}
	fn.Fn = func(_ lval.Env, args, acc *lval.Value) int {
		r := true
		for i := 0; r && i < args.Len(); i++ {
			a, _ := args.Index(i)
			r = a.AsBool()
			a.Free()
		}
		acc.MutBool(r)
		return 0
	}
	return fn
}

func opOr() *lval.Func {
	fn := lval.NewFunc("||")
	fn.MinArgc, fn.MaxArgc = 1, lval.Unbounded
	fn.Guards = []lval.Guard{{Cond: condIsBool, Argn: 0}}
	fn.Fn = func(_ lval.Env, args, acc *lval.Value) int {
		r := false
		for i := 0; !r && i < args.Len(); i++ {
			a, _ := args.Index(i)
			r = a.AsBool()
			a.Free()
		}
		acc.MutBool(r)
		return 0
	}
	return fn
}

func opNot() *lval.Func {
	fn := lval.NewFunc("not")
	fn.MinArgc, fn.MaxArgc = 1, 1
	fn.Guards = []lval.Guard{{Cond: condIsBool, Argn: 1}}
	fn.Fn = func(_ lval.Env, args, acc *lval.Value) int {
		a, _ := args.Index(0)
		acc.MutBool(!a.AsBool())
		a.Free()
		return 0
	}
	return fn
}
