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

package lisp

import (
	"strings"
	"testing"
)

// Marker positions: the caret must point at the offending column of the
// input line.
func TestMarker(t *testing.T) {
	tests := []struct {
		input string
		col   int
	}{
		// lexer errors
		{`+ 1 "tes`, 5},
		// parser errors
		{"+ 1 (+ 1", 9},
		{"+ 1 {1 1", 9},
		{"+ 1 (1 1)", 6},
		// evaluation errors
		{`+ 1 "test"`, 5},
		{"!", 1},
		{"! 4 4", 1},
		{"join 1 {2 3}", 6},
		{"+ (!1)", 4},
		{`+ (! "t")`, 6},
		{"+ 1 (!1)", 6},
	}
	for _, tt := range tests {
		env := NewEnv()
		r, lerror := EvalString(env, "", tt.input)
		if lerror == nil {
			t.Errorf("%q: no error", tt.input)
			r.Free()
			env.Free()
			continue
		}
		if got := lerror.Cause().Col; got != tt.col {
			t.Errorf("%q: col = %d, want %d", tt.input, got, tt.col)
		}
		want := strings.Repeat(" ", tt.col-1) + "^"
		if got := Marker(lerror, 0); got != want {
			t.Errorf("%q: marker %q, want %q", tt.input, got, want)
		}
		r.Free()
		env.Free()
	}
}

// The marker accounts for the prompt width passed by the caller.
func TestMarker_promptPrefix(t *testing.T) {
	env := NewEnv()
	defer env.Free()
	r, lerror := EvalString(env, "", "!")
	if lerror == nil {
		t.Fatal("no error")
	}
	defer r.Free()
	if got, want := Marker(lerror, 2), "  ^"; got != want {
		t.Errorf("marker %q, want %q", got, want)
	}
}

func TestMarker_noLocation(t *testing.T) {
	env := NewEnv()
	defer env.Free()
	r, lerror := EvalString(env, "", "")
	if lerror == nil {
		t.Fatal("no error")
	}
	defer r.Free()
	if got := Marker(lerror, 4); got != "" {
		t.Errorf("marker for unlocated error: %q", got)
	}
}
