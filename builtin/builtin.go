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

// Package builtin defines the builtin catalog: arithmetic, comparison,
// logic, list, control, environment and I/O builtins, plus the guard
// predicates they rely on. Register populates a root scope with the
// whole catalog and the language constants.
package builtin

import (
	"io"
	"os"

	"github.com/hipparcos/dialecte/eval"
	"github.com/hipparcos/dialecte/lenv"
	"github.com/hipparcos/dialecte/lerr"
	"github.com/hipparcos/dialecte/lval"
)

// output is where print writes; see SetOutput.
var output io.Writer = os.Stdout

// SetOutput redirects the print builtin. A nil writer restores stdout.
func SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	output = w
}

// Loader evaluates a source file in the given environment. It is
// injected by the driver package so that the `load` builtin can reuse
// the full lex/parse/lower/eval pipeline.
type Loader func(env *lenv.Env, filename string) (*lval.Value, *lerr.Error)

var loader Loader

// SetLoader installs the source file loader backing `load`.
func SetLoader(l Loader) { loader = l }

// simple builds a non-accumulator builtin descriptor.
func simple(symbol string, min, max int, fn lval.Builtin, guards ...lval.Guard) *lval.Func {
	f := lval.NewFunc(symbol)
	f.MinArgc, f.MaxArgc = min, max
	f.Fn = fn
	f.Guards = guards
	return f
}

func catalog() []*lval.Func {
	return []*lval.Func{
		// arithmetic
		opAdd(), opSub(), opMul(), opDiv(), opMod(), opPow(), opFac(),
		// comparison
		opEq("==", true), opEq("!=", false),
		opCmp("<", func(c int) bool { return c < 0 }),
		opCmp(">", func(c int) bool { return c > 0 }),
		opCmp("<=", func(c int) bool { return c <= 0 }),
		opCmp(">=", func(c int) bool { return c >= 0 }),
		// logic
		opAnd(), opOr(), opNot(),
		// control
		simple("if", 3, 3, fnIf,
			lval.Guard{Cond: condIsBool, Argn: 1}),
		simple("loop", 2, 2, fnLoop,
			lval.Guard{Cond: condIsQexpr, Argn: 1},
			lval.Guard{Cond: condIsQexpr, Argn: 2}),
		// list accessors
		simple("head", 1, 1, fnHead,
			lval.Guard{Cond: condIsListOrStr, Argn: 1},
			lval.Guard{Cond: condMinLen(1), Argn: 1}),
		simple("tail", 1, 1, fnTail,
			lval.Guard{Cond: condIsListOrStr, Argn: 1},
			lval.Guard{Cond: condMinLen(1), Argn: 1}),
		simple("init", 1, 1, fnInit,
			lval.Guard{Cond: condIsListOrStr, Argn: 1},
			lval.Guard{Cond: condMinLen(1), Argn: 1}),
		simple("last", 1, 1, fnLast,
			lval.Guard{Cond: condIsListOrStr, Argn: 1},
			lval.Guard{Cond: condMinLen(1), Argn: 1}),
		simple("cons", 2, 2, fnCons,
			lval.Guard{Cond: condIsList, Argn: 2}),
		simple("len", 1, 1, fnLen,
			lval.Guard{Cond: condIsListOrStr, Argn: 1}),
		simple("join", 0, lval.Unbounded, fnJoin,
			lval.Guard{Cond: condIsListOrStr, Argn: 0},
			lval.Guard{Cond: condAllSameType, Argn: -1}),
		simple("list", 0, lval.Unbounded, fnList),
		simple("eval", 1, 1, fnEval),
		// positional operations
		simple("index", 2, 2, fnIndex,
			lval.Guard{Cond: condIsNum, Argn: 1},
			lval.Guard{Cond: condIsListOrStr, Argn: 2}),
		simple("take", 2, 2, fnTake,
			lval.Guard{Cond: condIsNum, Argn: 1},
			lval.Guard{Cond: condIsListOrStr, Argn: 2}),
		simple("drop", 2, 2, fnDrop,
			lval.Guard{Cond: condIsNum, Argn: 1},
			lval.Guard{Cond: condIsListOrStr, Argn: 2}),
		simple("elem", 2, 2, fnElem,
			lval.Guard{Cond: condIsListOrStr, Argn: 2}),
		simple("seq", 2, 3, fnSeq,
			lval.Guard{Cond: condIsNum, Argn: 0}),
		// higher-order traversals
		simple("map", 2, 2, fnMap,
			lval.Guard{Cond: condIsFunc, Argn: 1},
			lval.Guard{Cond: condIsList, Argn: 2}),
		simple("filter", 2, 2, fnFilter,
			lval.Guard{Cond: condIsFunc, Argn: 1},
			lval.Guard{Cond: condIsList, Argn: 2}),
		simple("fold", 3, 3, fnFold,
			lval.Guard{Cond: condIsFunc, Argn: 1},
			lval.Guard{Cond: condIsList, Argn: 3}),
		// list utilities
		simple("sort", 1, 1, fnSort,
			lval.Guard{Cond: condSortable, Argn: 1}),
		simple("reverse", 1, 1, fnReverse,
			lval.Guard{Cond: condIsListOrStr, Argn: 1}),
		simple("zip", 2, lval.Unbounded, fnZip,
			lval.Guard{Cond: condIsList, Argn: 0},
			lval.Guard{Cond: condEqualLists, Argn: -1}),
		simple("repeat", 2, 2, fnRepeat,
			lval.Guard{Cond: condIsNum, Argn: 1},
			lval.Guard{Cond: condIsPositive, Argn: 1},
			lval.Guard{Cond: condIsList, Argn: 2}),
		simple("all", 1, 1, fnAll,
			lval.Guard{Cond: condIsList, Argn: 1}),
		simple("any", 1, 1, fnAny,
			lval.Guard{Cond: condIsList, Argn: 1}),
		simple("mix", 1, 1, fnMix,
			lval.Guard{Cond: condIsList, Argn: 1}),
		// environment
		simple("def", 2, lval.Unbounded, fnDef,
			lval.Guard{Cond: condListOf(lval.TypeSym), Argn: 1},
			lval.Guard{Cond: condEqualLens, Argn: -1}),
		simple("=", 2, lval.Unbounded, fnPut,
			lval.Guard{Cond: condListOf(lval.TypeSym), Argn: 1},
			lval.Guard{Cond: condEqualLens, Argn: -1}),
		simple("override", 2, lval.Unbounded, fnOverride,
			lval.Guard{Cond: condListOf(lval.TypeSym), Argn: 1},
			lval.Guard{Cond: condEqualLens, Argn: -1}),
		// function construction
		simple("\\", 2, 2, fnLambda,
			lval.Guard{Cond: condListOf(lval.TypeSym), Argn: 1},
			lval.Guard{Cond: condIsQexpr, Argn: 2}),
		simple("fun", 2, 2, fnFun,
			lval.Guard{Cond: condListOf(lval.TypeSym), Argn: 1},
			lval.Guard{Cond: condMinLen(1), Argn: 1},
			lval.Guard{Cond: condIsQexpr, Argn: 2}),
		// calling conventions
		simple("pack", 1, lval.Unbounded, fnPack,
			lval.Guard{Cond: condIsFunc, Argn: 1}),
		simple("unpack", 2, 2, fnUnpack,
			lval.Guard{Cond: condIsFunc, Argn: 1},
			lval.Guard{Cond: condIsQexpr, Argn: 2}),
		simple("partial", 1, lval.Unbounded, fnPartial,
			lval.Guard{Cond: condIsFunc, Argn: 1}),
		// I/O and introspection
		simple("print", 0, lval.Unbounded, fnPrint),
		simple("error", 1, 1, fnError,
			lval.Guard{Cond: condIsStr, Argn: 1}),
		simple("load", 1, lval.Unbounded, fnLoad,
			lval.Guard{Cond: condIsStr, Argn: 0}),
		simple("debug-env", 0, 0, fnDebugEnv),
		simple("debug-fun", 1, 1, fnDebugFun,
			lval.Guard{Cond: condIsFunc, Argn: 1}),
		simple("debug-val", 1, 1, fnDebugVal,
			lval.Guard{Cond: condIsQexpr, Argn: 1}),
	}
}

// Register populates env's root scope with the builtin catalog and the
// constants true, false, nil and the last-value binding.
func Register(env *lenv.Env) {
	root := env.Root()
	fv := lval.Alloc()
	for _, fn := range catalog() {
		fv.MutFunc(fn)
		root.Put(fn.Symbol, fv)
	}
	fv.Free()
	t := lval.Bool(true)
	root.Put("true", t)
	t.Free()
	f := lval.Bool(false)
	root.Put("false", f)
	f.Free()
	n := lval.Alloc()
	root.Put("nil", n)
	root.Put(eval.Dot, n)
	n.Free()
}
