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
	"math/big"

	"github.com/hipparcos/dialecte/lerr"
)

// Env is the symbol environment seen from values and builtins. The
// concrete implementation lives in package lenv.
type Env interface {
	// Lookup walks the scope chain for sym.
	Lookup(sym string) (*Value, *lerr.Error)
	// Def binds sym in the root scope.
	Def(sym string, v *Value)
	// Put binds sym in the current scope.
	Put(sym string, v *Value)
	// Override rebinds sym in whichever scope already holds it.
	Override(sym string, v *Value) *lerr.Error
}

// Builtin is the dispatch target of a non-accumulator builtin. It writes
// its result (or error) into acc and returns 0 on success, n when the
// n-th argument caused the failure, -1 for a failure not tied to one
// argument.
type Builtin func(env Env, args, acc *Value) int

// Condition is an argument precondition. It returns 0 on pass, k to
// signal that the k-th argument failed, -1 for a failure of the argument
// list as a whole; a non-zero return comes with the error to report.
type Condition func(fn *Func, env Env, arg *Value) (int, *lerr.Error)

// Guard associates a condition with its applicability:
//
//	Argn > 0   check only the Argn-th argument;
//	Argn == 0  check every argument independently;
//	Argn == -1 check all arguments as a single unit.
type Guard struct {
	Cond Condition
	Argn int
}

// Unbounded marks an arity bound as absent.
const Unbounded = -1

// Func describes a builtin or a user-defined function.
type Func struct {
	// Symbol is the display name.
	Symbol string
	// MinArgc and MaxArgc bound the arity; Unbounded lifts a bound.
	MinArgc, MaxArgc int
	// Accumulator marks a variadic fold-reducing builtin.
	Accumulator bool
	// Unary is set on the `+`, `-`, `*` and `!` descriptors. The
	// evaluator does not read it: every single-argument accumulator call
	// is seeded with Neutral whether or not Unary is set (unary `- x`
	// becomes 0 - x, and `/ x` becomes 1 / x).
	Unary bool
	// InitNeutral seeds the fold with Neutral instead of the first arg.
	InitNeutral bool
	// Neutral is the identity element of the fold.
	Neutral *Value
	// Guards run before dispatch, after the universal guards.
	Guards []Guard

	// Fn is the dispatch target of a non-accumulator builtin.
	Fn Builtin
	// Typed accumulator steps; the evaluator picks one per pair of
	// operands and promotes Num to Bignum when OverflowCond trips.
	OpNum        func(a, b int64) int64
	OpBignum     func(x, y *big.Int) *big.Int
	OpDbl        func(a, b float64) float64
	OverflowCond func(a, b int64) bool

	// Lisp function state.
	Lisp    bool
	Scope   Env    // captured definition scope
	Formals *Value // Qexpr of formal names
	Body    *Value // Qexpr evaluated as an Sexpr on application

	// Args is the partial-application buffer: values already supplied.
	Args *Value
}

// NewFunc returns a descriptor with an empty partial-application buffer.
func NewFunc(symbol string) *Func {
	return &Func{Symbol: symbol, Args: Qexpr()}
}

// Copy clones the descriptor. The partial-application buffer is copied
// so that binding one more argument never leaks into a shared
// descriptor; formals and body share payloads.
func (f *Func) Copy() *Func {
	if f == nil {
		return nil
	}
	cpy := *f
	if f.Args != nil {
		cpy.Args = Qexpr()
		for i := 0; i < f.Args.Len(); i++ {
			c, _ := f.Args.Index(i)
			cpy.Args.Push(c)
			c.Free()
		}
	} else {
		cpy.Args = Qexpr()
	}
	if f.Formals != nil {
		cpy.Formals = f.Formals.Dup()
	}
	if f.Body != nil {
		cpy.Body = f.Body.Dup()
	}
	return &cpy
}

// Bound returns the number of arguments already supplied by partial
// application.
func (f *Func) Bound() int {
	if f.Args == nil {
		return 0
	}
	return f.Args.Len()
}

// Equal tells if two descriptors denote the same function with the same
// bound arguments.
func (f *Func) Equal(o *Func) bool {
	if f == nil || o == nil {
		return f == o
	}
	if f.Symbol != o.Symbol || f.Lisp != o.Lisp {
		return false
	}
	if f.Lisp {
		if !Equal(f.Formals, o.Formals) || !Equal(f.Body, o.Body) {
			return false
		}
	}
	if f.Bound() != o.Bound() {
		return false
	}
	if f.Args != nil && o.Args != nil && !Equal(f.Args, o.Args) {
		return false
	}
	return true
}
