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

// Package lerr defines the error type shared by every stage of the
// interpreter: a chain of typed records carrying a bounded message and an
// optional source location. The innermost record is the cause; outer
// records add stage context ("lexing error:", "eval error:", ...).
package lerr

import (
	"fmt"
	"strings"
)

// Code identifies the kind of an error.
type Code int

// Error kinds.
const (
	Unknown Code = iota
	DeadRef
	Ast
	Eval
	DivZero
	BadSymbol
	BadOperand
	TooManyArgs
	TooFewArgs
	EnoentFile
	LispUser
	TooDeep
)

var codeNames = [...]string{
	"Unknown",
	"DeadRef",
	"Ast",
	"Eval",
	"DivZero",
	"BadSymbol",
	"BadOperand",
	"TooManyArgs",
	"TooFewArgs",
	"EnoentFile",
	"LispUser",
	"TooDeep",
}

var codeDescriptions = [...]string{
	"unknown error",
	"dead reference",
	"ast error",
	"evaluation error",
	"division by zero",
	"bad symbol",
	"bad operand",
	"too many arguments",
	"too few arguments",
	"no such file",
	"user error",
	"too deep",
}

func (c Code) String() string {
	if c < 0 || int(c) >= len(codeNames) {
		return codeNames[Unknown]
	}
	return codeNames[c]
}

// Describe returns a human readable description of the error kind.
func (c Code) Describe() string {
	if c < 0 || int(c) >= len(codeDescriptions) {
		return codeDescriptions[Unknown]
	}
	return codeDescriptions[c]
}

// MessageCap bounds the length of a single error message.
const MessageCap = 80

// Error is one record of an error chain. Records wrap inner records
// innermost-first: the innermost is the original cause.
type Error struct {
	Code    Code
	Message string
	// Location of the offending token or value, absent when zero.
	File      string
	Line, Col int
	// Inner is the wrapped error, nil for the cause.
	Inner *Error
}

// Throw creates a new error of the given kind. The formatted message is
// truncated to MessageCap bytes.
func Throw(code Code, format string, args ...interface{}) *Error {
	msg := fmt.Sprintf(format, args...)
	if len(msg) > MessageCap {
		msg = msg[:MessageCap]
	}
	return &Error{Code: code, Message: msg}
}

// Propagate wraps inner in a new record adding context. The outer record
// keeps the cause's code so that wrapping never changes the reported kind.
func Propagate(inner *Error, format string, args ...interface{}) *Error {
	outer := Throw(Unknown, format, args...)
	if inner != nil {
		outer.Code = inner.Cause().Code
		outer.Inner = inner
	}
	return outer
}

// Cause returns the innermost record of the chain.
func (e *Error) Cause() *Error {
	for e.Inner != nil {
		e = e.Inner
	}
	return e
}

// SetLocation records where the cause originated. It is a noop on a cause
// which already carries a location: the innermost information wins.
func (e *Error) SetLocation(line, col int) {
	c := e.Cause()
	if c.Line != 0 || c.Col != 0 {
		return
	}
	c.Line, c.Col = line, col
}

// SetFile records the file in which the cause originated.
func (e *Error) SetFile(file string) {
	e.Cause().File = file
}

// Located tells if the cause carries a source location.
func (e *Error) Located() bool {
	c := e.Cause()
	return c.Line != 0 || c.Col != 0
}

// Error implements the error interface. The cause's location and code are
// printed first, then each layer's message joined by ": ".
func (e *Error) Error() string {
	var sb strings.Builder
	c := e.Cause()
	if c.File != "" {
		fmt.Fprintf(&sb, "<%s>:", c.File)
	}
	if c.Line != 0 || c.Col != 0 {
		fmt.Fprintf(&sb, "%d:%d:", c.Line, c.Col)
	}
	fmt.Fprintf(&sb, "#%s", c.Code)
	for r := e; r != nil; r = r.Inner {
		fmt.Fprintf(&sb, ": %s", r.Message)
	}
	return sb.String()
}

// ValueString formats the cause the way an error value prints in the REPL.
func (e *Error) ValueString() string {
	c := e.Cause()
	return fmt.Sprintf("Error #%s: %s", c.Code, c.Message)
}

// Copy deep-copies the chain.
func (e *Error) Copy() *Error {
	if e == nil {
		return nil
	}
	cpy := *e
	cpy.Inner = e.Inner.Copy()
	return &cpy
}

// Equal tells if two chains carry the same codes and messages. Locations
// are ignored.
func (e *Error) Equal(o *Error) bool {
	for ; e != nil && o != nil; e, o = e.Inner, o.Inner {
		if e.Code != o.Code || e.Message != o.Message {
			return false
		}
	}
	return e == nil && o == nil
}
