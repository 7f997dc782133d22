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

// Package lval implements the value model of the language: a tagged,
// reference-counted graph of values with mutation-in-place semantics.
//
// A Value is a handle to a shared payload. Mutators rebind the handle to a
// fresh payload when the current one is shared, which gives copy-on-mutate
// semantics without explicit cloning at call sites. Handles are duplicated
// with Dup and released with Free; the payload is reclaimed when its last
// handle drops.
package lval

import (
	"math/big"

	"github.com/hipparcos/dialecte/lerr"
)

// Type tags the payload of a Value.
type Type int

// Value types.
const (
	TypeNil Type = iota
	TypeNum
	TypeBignum
	TypeDbl
	TypeBool
	TypeStr
	TypeSym
	TypeSexpr
	TypeQexpr
	TypeFunc
	TypeErr
)

var typeNames = [...]string{
	"nil",
	"num",
	"bignum",
	"double",
	"bool",
	"string",
	"symbol",
	"sexpr",
	"qexpr",
	"func",
	"error",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "unknown"
	}
	return typeNames[t]
}

// Span records where a value originated in the source text. The zero Span
// means "no location".
type Span struct {
	File      string
	Line, Col int
}

// Valid tells if the span carries a location.
func (s Span) Valid() bool { return s.Line != 0 || s.Col != 0 }

// data is the shared payload behind one or more handles.
type data struct {
	refc     int
	immortal bool
	typ      Type
	num      int64
	bn       *big.Int
	dbl      float64
	bl       bool
	str      string // string & symbol
	cell     []*Value
	fn       *Func
	err      *lerr.Error
}

// Immortal payloads shared by every handle that needs them. They are never
// mutated nor reclaimed.
var (
	nilData   = &data{refc: 1, immortal: true, typ: TypeNil}
	zeroData  = &data{refc: 1, immortal: true, typ: TypeNum, num: 0}
	oneData   = &data{refc: 1, immortal: true, typ: TypeNum, num: 1}
	trueData  = &data{refc: 1, immortal: true, typ: TypeBool, bl: true}
	falseData = &data{refc: 1, immortal: true, typ: TypeBool, bl: false}
)

// Value is the public handle to a payload.
type Value struct {
	d *data
	// Span is the source span of the value, propagated into errors.
	Span Span
}

// Alloc returns a fresh Nil handle.
func Alloc() *Value { return &Value{d: nilData} }

// Zero returns a handle to the immortal number 0.
func Zero() *Value { return &Value{d: zeroData} }

// One returns a handle to the immortal number 1.
func One() *Value { return &Value{d: oneData} }

// Bool returns a handle to one of the immortal booleans.
func Bool(b bool) *Value {
	if b {
		return &Value{d: trueData}
	}
	return &Value{d: falseData}
}

// Num returns a fresh number handle.
func Num(n int64) *Value {
	return &Value{d: &data{refc: 1, typ: TypeNum, num: n}}
}

// Str returns a fresh string handle.
func Str(s string) *Value {
	return &Value{d: &data{refc: 1, typ: TypeStr, str: s}}
}

// Sym returns a fresh symbol handle.
func Sym(s string) *Value {
	return &Value{d: &data{refc: 1, typ: TypeSym, str: s}}
}

// Sexpr returns a fresh empty S-Expression handle.
func Sexpr() *Value {
	return &Value{d: &data{refc: 1, typ: TypeSexpr}}
}

// Qexpr returns a fresh empty Q-Expression handle.
func Qexpr() *Value {
	return &Value{d: &data{refc: 1, typ: TypeQexpr}}
}

// Err returns a fresh error handle.
func Err(e *lerr.Error) *Value {
	return &Value{d: &data{refc: 1, typ: TypeErr, err: e}}
}

// Alive tells if the handle still points to a payload.
func (v *Value) Alive() bool { return v != nil && v.d != nil }

// Refcount returns the number of live handles sharing v's payload.
// Immortal payloads report -1.
func (v *Value) Refcount() int {
	if !v.Alive() {
		return 0
	}
	if v.d.immortal {
		return -1
	}
	return v.d.refc
}

// Dup returns a new handle sharing v's payload.
func (v *Value) Dup() *Value {
	if !v.Alive() {
		return Alloc()
	}
	if !v.d.immortal {
		v.d.refc++
	}
	return &Value{d: v.d, Span: v.Span}
}

// Free releases the handle. The payload and its children are reclaimed
// once the last handle drops. The handle is dead afterwards.
func (v *Value) Free() {
	if !v.Alive() {
		return
	}
	v.release()
	v.d = nil
}

func (v *Value) release() {
	d := v.d
	if d == nil || d.immortal {
		return
	}
	d.refc--
	if d.refc <= 0 {
		for _, c := range d.cell {
			c.Free()
		}
		d.cell = nil
		d.bn = nil
		d.fn = nil
		d.err = nil
		d.typ = TypeNil
	}
}

// fresh rebinds v to a new sole-owner payload, releasing the old one.
func (v *Value) fresh() *data {
	v.release()
	d := &data{refc: 1}
	v.d = d
	return d
}

// cow ensures v is the sole owner of its payload, cloning it when shared.
func (v *Value) cow() *data {
	d := v.d
	if d != nil && !d.immortal && d.refc == 1 {
		return d
	}
	nd := &data{refc: 1}
	if d != nil {
		nd.typ = d.typ
		nd.num = d.num
		nd.dbl = d.dbl
		nd.bl = d.bl
		nd.str = d.str
		if d.bn != nil {
			nd.bn = new(big.Int).Set(d.bn)
		}
		if d.fn != nil {
			nd.fn = d.fn.Copy()
		}
		if d.err != nil {
			nd.err = d.err.Copy()
		}
		if d.cell != nil {
			nd.cell = make([]*Value, len(d.cell))
			for i, c := range d.cell {
				nd.cell[i] = c.Dup()
			}
		}
	}
	v.release()
	v.d = nd
	return nd
}

// Type returns the tag of the payload. Dead handles report TypeNil.
func (v *Value) Type() Type {
	if !v.Alive() {
		return TypeNil
	}
	return v.d.typ
}

/* Mutators. */

// MutNil resets v to Nil.
func (v *Value) MutNil() {
	v.release()
	v.d = nilData
}

// MutNum makes v a 64-bit number.
func (v *Value) MutNum(n int64) {
	d := v.fresh()
	d.typ = TypeNum
	d.num = n
}

// MutBignum makes v an arbitrary-precision number. x is copied.
func (v *Value) MutBignum(x *big.Int) {
	d := v.fresh()
	d.typ = TypeBignum
	d.bn = new(big.Int).Set(x)
}

// MutDbl makes v a double.
func (v *Value) MutDbl(x float64) {
	d := v.fresh()
	d.typ = TypeDbl
	d.dbl = x
}

// MutBool makes v a boolean.
func (v *Value) MutBool(b bool) {
	d := v.fresh()
	d.typ = TypeBool
	d.bl = b
}

// MutStr makes v a string.
func (v *Value) MutStr(s string) {
	d := v.fresh()
	d.typ = TypeStr
	d.str = s
}

// MutSym makes v a symbol.
func (v *Value) MutSym(s string) {
	d := v.fresh()
	d.typ = TypeSym
	d.str = s
}

// MutSexpr makes v an S-Expression. A list payload keeps its children,
// anything else becomes the empty list.
func (v *Value) MutSexpr() {
	if v.IsList() {
		v.cow().typ = TypeSexpr
		return
	}
	v.fresh().typ = TypeSexpr
}

// MutQexpr makes v a Q-Expression. A list payload keeps its children,
// anything else becomes the empty list.
func (v *Value) MutQexpr() {
	if v.IsList() {
		v.cow().typ = TypeQexpr
		return
	}
	v.fresh().typ = TypeQexpr
}

// MutFunc makes v a function. The descriptor is copied.
func (v *Value) MutFunc(f *Func) {
	d := v.fresh()
	d.typ = TypeFunc
	d.fn = f.Copy()
}

// MutErr makes v an error.
func (v *Value) MutErr(e *lerr.Error) {
	d := v.fresh()
	d.typ = TypeErr
	d.err = e
}

// MutErrCode makes v an error of the given kind with its default message.
func (v *Value) MutErrCode(code lerr.Code) {
	v.MutErr(lerr.Throw(code, "%s", code.Describe()))
}

// Set replaces v's content with a copy of src's payload. Children are
// shared at the payload level; bignums, function descriptors and error
// chains are copied.
func (v *Value) Set(src *Value) {
	if src == nil || !src.Alive() {
		v.MutNil()
		return
	}
	if v.d == src.d {
		v.Span = src.Span
		return
	}
	sd := src.d
	d := v.fresh()
	d.typ = sd.typ
	d.num = sd.num
	d.dbl = sd.dbl
	d.bl = sd.bl
	d.str = sd.str
	if sd.bn != nil {
		d.bn = new(big.Int).Set(sd.bn)
	}
	if sd.fn != nil {
		d.fn = sd.fn.Copy()
	}
	if sd.err != nil {
		d.err = sd.err.Copy()
	}
	if sd.cell != nil {
		d.cell = make([]*Value, len(sd.cell))
		for i, c := range sd.cell {
			d.cell[i] = c.Dup()
		}
	}
	v.Span = src.Span
}

// Rebind makes v share src's payload, releasing v's current one.
func (v *Value) Rebind(src *Value) {
	if src == nil || !src.Alive() {
		v.MutNil()
		return
	}
	if !src.d.immortal {
		src.d.refc++
	}
	v.release()
	v.d = src.d
	v.Span = src.Span
}

/* Accessors. */

// AsNum returns the payload as a 64-bit number.
func (v *Value) AsNum() int64 {
	if v.Type() != TypeNum {
		return 0
	}
	return v.d.num
}

// AsBignum returns the payload as an arbitrary-precision number,
// promoting a Num payload. The returned value must not be mutated.
func (v *Value) AsBignum() *big.Int {
	switch v.Type() {
	case TypeBignum:
		return v.d.bn
	case TypeNum:
		return big.NewInt(v.d.num)
	}
	return big.NewInt(0)
}

// AsDbl returns the payload as a double, promoting numeric payloads.
func (v *Value) AsDbl() float64 {
	switch v.Type() {
	case TypeDbl:
		return v.d.dbl
	case TypeNum:
		return float64(v.d.num)
	case TypeBignum:
		f, _ := new(big.Float).SetInt(v.d.bn).Float64()
		return f
	}
	return 0
}

// AsBool returns the truth value of the payload: booleans by value,
// numbers by non-zeroness, strings and lists by non-emptiness.
func (v *Value) AsBool() bool {
	switch v.Type() {
	case TypeBool:
		return v.d.bl
	case TypeNum:
		return v.d.num != 0
	case TypeBignum:
		return v.d.bn.Sign() != 0
	case TypeDbl:
		return v.d.dbl != 0
	case TypeStr:
		return len(v.d.str) > 0
	case TypeSexpr, TypeQexpr:
		return len(v.d.cell) > 0
	case TypeNil:
		return false
	}
	return true
}

// AsStr returns the payload of a string or symbol.
func (v *Value) AsStr() string {
	switch v.Type() {
	case TypeStr, TypeSym:
		return v.d.str
	}
	return ""
}

// AsSym returns the payload of a symbol.
func (v *Value) AsSym() string {
	if v.Type() != TypeSym {
		return ""
	}
	return v.d.str
}

// AsFunc returns the function descriptor, nil for other payloads. The
// descriptor is shared with the handle, not copied.
func (v *Value) AsFunc() *Func {
	if v.Type() != TypeFunc {
		return nil
	}
	return v.d.fn
}

// AsErr returns the error chain, nil for other payloads.
func (v *Value) AsErr() *lerr.Error {
	if v.Type() != TypeErr {
		return nil
	}
	return v.d.err
}

// IsNumeric tells if the payload is a Num, Bignum or Dbl.
func (v *Value) IsNumeric() bool {
	switch v.Type() {
	case TypeNum, TypeBignum, TypeDbl:
		return true
	}
	return false
}

// IsIntegral tells if the payload is a Num or Bignum.
func (v *Value) IsIntegral() bool {
	switch v.Type() {
	case TypeNum, TypeBignum:
		return true
	}
	return false
}

// IsList tells if the payload is an S- or Q-Expression.
func (v *Value) IsList() bool {
	switch v.Type() {
	case TypeSexpr, TypeQexpr:
		return true
	}
	return false
}

// IsZero tells if a numeric payload is zero.
func (v *Value) IsZero() bool {
	switch v.Type() {
	case TypeNum:
		return v.d.num == 0
	case TypeBignum:
		return v.d.bn.Sign() == 0
	case TypeDbl:
		return v.d.dbl == 0
	}
	return false
}

// Sign returns the sign of a numeric payload: -1, 0 or 1.
func (v *Value) Sign() int {
	switch v.Type() {
	case TypeNum:
		switch {
		case v.d.num < 0:
			return -1
		case v.d.num > 0:
			return 1
		}
		return 0
	case TypeBignum:
		return v.d.bn.Sign()
	case TypeDbl:
		switch {
		case v.d.dbl < 0:
			return -1
		case v.d.dbl > 0:
			return 1
		}
		return 0
	}
	return 0
}

// Len returns the number of elements of a list, the byte length of a
// string, 0 for Nil and 1 for every other payload.
func (v *Value) Len() int {
	switch v.Type() {
	case TypeNil:
		return 0
	case TypeStr:
		return len(v.d.str)
	case TypeSexpr, TypeQexpr:
		return len(v.d.cell)
	}
	return 1
}

/* List operations. */

// Push appends c to a list payload. The child payload is shared.
func (v *Value) Push(c *Value) {
	if !v.IsList() {
		return
	}
	d := v.cow()
	d.cell = append(d.cell, c.Dup())
}

// Cons prepends c to a list payload. The child payload is shared.
func (v *Value) Cons(c *Value) {
	if !v.IsList() {
		return
	}
	d := v.cow()
	d.cell = append([]*Value{c.Dup()}, d.cell...)
}

// Pop removes the i-th element and returns its handle; the caller owns
// it. Returns a Nil handle when out of range.
func (v *Value) Pop(i int) *Value {
	if !v.IsList() || i < 0 || i >= v.Len() {
		return Alloc()
	}
	d := v.cow()
	c := d.cell[i]
	d.cell = append(d.cell[:i], d.cell[i+1:]...)
	return c
}

// Drop removes and releases the i-th element of a list payload.
func (v *Value) Drop(i int) {
	v.Pop(i).Free()
}

// Index returns a new handle to the i-th element of a list. For a string
// payload it returns the i-th byte as a 1-byte string.
func (v *Value) Index(i int) (*Value, *lerr.Error) {
	switch v.Type() {
	case TypeSexpr, TypeQexpr:
		if i < 0 || i >= len(v.d.cell) {
			return nil, lerr.Throw(lerr.BadOperand, "index %d out of range", i)
		}
		return v.d.cell[i].Dup(), nil
	case TypeStr:
		if i < 0 || i >= len(v.d.str) {
			return nil, lerr.Throw(lerr.BadOperand, "index %d out of range", i)
		}
		return Str(v.d.str[i : i+1]), nil
	}
	if !v.Alive() {
		return nil, lerr.Throw(lerr.DeadRef, "%s", lerr.DeadRef.Describe())
	}
	return nil, lerr.Throw(lerr.BadOperand, "must be a list")
}

// CopyRange replaces v with the [first, last) range of list (or string)
// src. Bounds are clamped.
func (v *Value) CopyRange(src *Value, first, last int) {
	n := src.Len()
	if first < 0 {
		first = 0
	}
	if last > n {
		last = n
	}
	if src.Type() == TypeStr {
		if first >= last {
			v.MutStr("")
			return
		}
		v.MutStr(src.d.str[first:last])
		return
	}
	if !src.IsList() {
		v.MutNil()
		return
	}
	typ := src.Type()
	d := v.fresh()
	d.typ = typ
	for i := first; i < last; i++ {
		d.cell = append(d.cell, src.d.cell[i].Dup())
	}
}

/* Equality. */

// Equal tells if two values carry the same content. Numbers compare
// across Num/Bignum/Dbl representations; lists compare element-wise.
func Equal(a, b *Value) bool {
	if a.IsNumeric() && b.IsNumeric() {
		if a.Type() == TypeDbl || b.Type() == TypeDbl {
			return a.AsDbl() == b.AsDbl()
		}
		return a.AsBignum().Cmp(b.AsBignum()) == 0
	}
	if a.Type() != b.Type() {
		return false
	}
	switch a.Type() {
	case TypeNil:
		return true
	case TypeBool:
		return a.d.bl == b.d.bl
	case TypeStr, TypeSym:
		return a.d.str == b.d.str
	case TypeSexpr, TypeQexpr:
		if len(a.d.cell) != len(b.d.cell) {
			return false
		}
		for i := range a.d.cell {
			if !Equal(a.d.cell[i], b.d.cell[i]) {
				return false
			}
		}
		return true
	case TypeFunc:
		return a.d.fn.Equal(b.d.fn)
	case TypeErr:
		return a.d.err.Equal(b.d.err)
	}
	return false
}
