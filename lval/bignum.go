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

import "math/big"

// Arbitrary-precision arithmetic facade. The evaluator and the builtin
// catalog only go through these helpers so the backing implementation
// stays in one place.

// BignumFromString parses a base-10 integer of any size.
func BignumFromString(s string) (*big.Int, bool) {
	return new(big.Int).SetString(s, 10)
}

// BignumFromInt64 converts a fixed-width number.
func BignumFromInt64(n int64) *big.Int { return big.NewInt(n) }

// BignumAdd returns x + y.
func BignumAdd(x, y *big.Int) *big.Int { return new(big.Int).Add(x, y) }

// BignumSub returns x - y.
func BignumSub(x, y *big.Int) *big.Int { return new(big.Int).Sub(x, y) }

// BignumMul returns x * y.
func BignumMul(x, y *big.Int) *big.Int { return new(big.Int).Mul(x, y) }

// BignumDiv returns the Euclidean quotient x / y, the one that leaves a
// non-negative remainder.
func BignumDiv(x, y *big.Int) *big.Int {
	q, _ := new(big.Int).DivMod(x, y, new(big.Int))
	return q
}

// BignumMod returns the non-negative remainder of x / y.
func BignumMod(x, y *big.Int) *big.Int {
	m := new(big.Int).Mod(x, y)
	return m
}

// BignumPow returns x ** y; the exponent must fit in an unsigned long,
// which the catalog guards enforce before dispatch.
func BignumPow(x, y *big.Int) *big.Int {
	return new(big.Int).Exp(x, y, nil)
}

// BignumFac returns y! for small enough y; the catalog guards enforce
// non-negativity and the unsigned-long bound before dispatch.
func BignumFac(_, y *big.Int) *big.Int {
	return new(big.Int).MulRange(1, y.Int64())
}

// BignumNeg returns -y.
func BignumNeg(_, y *big.Int) *big.Int { return new(big.Int).Neg(y) }

// BignumGetUint64 truncates to an unsigned 64-bit integer.
func BignumGetUint64(x *big.Int) uint64 { return x.Uint64() }

// BignumCmpUint64 compares x against an unsigned 64-bit integer.
func BignumCmpUint64(x *big.Int, y uint64) int {
	return x.Cmp(new(big.Int).SetUint64(y))
}

// BignumFitsInt64 tells if x round-trips through a Num payload.
func BignumFitsInt64(x *big.Int) bool { return x.IsInt64() }
