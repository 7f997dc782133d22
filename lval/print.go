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
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// String renders the value in its printed form.
func (v *Value) String() string {
	var sb strings.Builder
	v.print(&sb)
	return sb.String()
}

// Print writes the printed form of the value to w.
func (v *Value) Print(w io.Writer) (int, error) {
	return io.WriteString(w, v.String())
}

func (v *Value) print(sb *strings.Builder) {
	switch v.Type() {
	case TypeNil:
		sb.WriteString("nil")
	case TypeNum:
		sb.WriteString(strconv.FormatInt(v.d.num, 10))
	case TypeBignum:
		sb.WriteString(v.d.bn.String())
	case TypeDbl:
		sb.WriteString(formatDbl(v.d.dbl))
	case TypeBool:
		if v.d.bl {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case TypeStr:
		sb.WriteString(quote(v.d.str))
	case TypeSym:
		sb.WriteString(v.d.str)
	case TypeSexpr:
		v.printList(sb, '(', ')')
	case TypeQexpr:
		v.printList(sb, '{', '}')
	case TypeFunc:
		v.d.fn.print(sb)
	case TypeErr:
		sb.WriteString(v.d.err.ValueString())
	}
}

func (v *Value) printList(sb *strings.Builder, open, closing byte) {
	sb.WriteByte(open)
	for i, c := range v.d.cell {
		if i > 0 {
			sb.WriteByte(' ')
		}
		c.print(sb)
	}
	sb.WriteByte(closing)
}

// formatDbl renders the shortest decimal form that round-trips. ".0" is
// appended when that form has neither a decimal point nor an exponent, so
// finite doubles stay distinguishable from numbers; infinities and NaN
// print in Go's 'g' form.
func formatDbl(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// quote renders a string payload with `"` and `\` escaped.
func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteByte(s[i])
	}
	sb.WriteByte('"')
	return sb.String()
}

func (f *Func) print(sb *strings.Builder) {
	if f == nil {
		sb.WriteString("<builtin:?>")
		return
	}
	if !f.Lisp {
		fmt.Fprintf(sb, "<builtin:%s/%s>", f.Symbol, arity(f.MinArgc, f.MaxArgc))
		return
	}
	sb.WriteString("<λ ")
	sb.WriteString(f.Formals.String())
	sb.WriteByte(' ')
	sb.WriteString(f.Body.String())
	if f.Bound() > 0 {
		sb.WriteString(" | ")
		for i := 0; i < f.Args.Len(); i++ {
			if i > 0 {
				sb.WriteByte(' ')
			}
			c, _ := f.Args.Index(i)
			sb.WriteString(c.String())
			c.Free()
		}
	}
	sb.WriteByte('>')
}

func arity(min, max int) string {
	switch {
	case min == max:
		return strconv.Itoa(min)
	case max == Unbounded:
		return fmt.Sprintf("%d..∞", min)
	}
	return fmt.Sprintf("%d..%d", min, max)
}

// FuncString renders a descriptor the way a Func value prints.
func FuncString(f *Func) string {
	var sb strings.Builder
	f.print(&sb)
	return sb.String()
}
