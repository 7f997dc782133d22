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

// Package lisp composes the interpreter pipeline: lex -> parse -> lower
// -> eval, with stage error wrapping and interactive error markers. It
// is the entry point used by the command and by the `load` builtin.
package lisp

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/hipparcos/dialecte/builtin"
	"github.com/hipparcos/dialecte/eval"
	"github.com/hipparcos/dialecte/lenv"
	"github.com/hipparcos/dialecte/lerr"
	"github.com/hipparcos/dialecte/lval"
	"github.com/hipparcos/dialecte/parse"
)

// maxLoadDepth bounds nested `load` evaluation.
const maxLoadDepth = 256

var loadDepth int

var log = logrus.WithField("pkg", "lisp")

// NewEnv returns a root environment populated with the builtin catalog
// and wired for the `load` builtin.
func NewEnv() *lenv.Env {
	env := lenv.New()
	builtin.Register(env)
	builtin.SetLoader(loadFile)
	return env
}

// EvalString runs input through the whole pipeline. The REPL surround
// rule applies: a naked expression is read as if parenthesized. The
// returned value is never nil on error: it carries the error value.
func EvalString(env *lenv.Env, name, input string) (*lval.Value, *lerr.Error) {
	log.WithField("input", input).Debug("lex")
	tokens, errTok := parse.LexSurround(name, input)
	if errTok != nil {
		err := lerr.Propagate(parse.LexError(errTok), "lexing error:")
		err.SetFile(name)
		return lval.Err(err.Copy()), err
	}
	log.Debug("parse")
	ast, errNode := parse.Parse(tokens)
	if errNode != nil {
		err := lerr.Propagate(parse.ParseError(errNode), "parsing error:")
		err.SetFile(name)
		return lval.Err(err.Copy()), err
	}
	log.Debug("lower")
	program, lerror := parse.Lower(name, ast)
	if lerror != nil {
		err := lerr.Propagate(lerror, "mutation error:")
		if program != nil {
			program.Free()
		}
		return lval.Err(err.Copy()), err
	}
	if program == nil || program.Len() == 0 {
		err := lerr.Throw(lerr.Eval, "nothing to evaluate")
		return lval.Err(err.Copy()), err
	}
	log.Debug("eval")
	r := eval.EvalProgram(env, program)
	program.Free()
	if r.Type() == lval.TypeErr {
		err := lerr.Propagate(r.AsErr().Copy(), "eval error:")
		return r, err
	}
	return r, nil
}

// loadFile reads and evaluates a source file in env. It backs the
// `load` builtin; nesting is bounded so mutually loading files cannot
// recurse forever.
func loadFile(env *lenv.Env, filename string) (*lval.Value, *lerr.Error) {
	if loadDepth >= maxLoadDepth {
		return nil, lerr.Throw(lerr.TooDeep,
			"load nesting exceeds %d", maxLoadDepth)
	}
	content, err := os.ReadFile(filename)
	if err != nil {
		log.WithField("file", filename).Debug(errors.Wrap(err, "load failed"))
		return nil, lerr.Throw(lerr.EnoentFile, "file `%s` not found", filename)
	}
	loadDepth++
	defer func() { loadDepth-- }()
	r, lerror := EvalString(env, filename, string(content))
	if lerror != nil {
		r.Free()
		return nil, lerror
	}
	return r, nil
}

// EvalFile runs a source file the way the CLI `-f` flag does: results
// are discarded, the first error aborts. The returned error is a host
// error only when the file cannot be opened.
func EvalFile(env *lenv.Env, filename string, errOut io.Writer) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		return errors.Wrap(err, "lisp file opening error")
	}
	r, lerror := EvalString(env, filename, string(content))
	if lerror != nil {
		fmt.Fprintln(errOut, lerror.Error())
	}
	r.Free()
	return nil
}

// Marker formats the interactive error marker: a caret under the
// offending column, shifted by the prompt width.
func Marker(err *lerr.Error, prefixLen int) string {
	cause := err.Cause()
	if cause.Col <= 0 {
		return ""
	}
	return strings.Repeat(" ", prefixLen+cause.Col-1) + "^"
}

// PrintError reports an evaluation error on w with its marker.
func PrintError(w io.Writer, err *lerr.Error, prefixLen int) {
	if marker := Marker(err, prefixLen); marker != "" {
		fmt.Fprintln(w, marker)
	}
	fmt.Fprintln(w, err.Error())
}
