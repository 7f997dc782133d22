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

// Command dialecte is a small lisp interpreter: it evaluates a source
// file with -f or drops into a read-eval-print loop.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/peterh/liner"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/hipparcos/dialecte/builtin"
	"github.com/hipparcos/dialecte/internal/ioerr"
	"github.com/hipparcos/dialecte/lenv"
	"github.com/hipparcos/dialecte/lisp"
)

const (
	progName = "dialecte"
	version  = "1.0.0"
)

var (
	prompt = flag.String("p", "> ", "REPL prompt `string`")
	fileNm = flag.String("f", "", "evaluate `filename` then exit")
	debug  = flag.Bool("debug", false, "enable debug diagnostics")
)

func atExit(err error) {
	if err == nil {
		return
	}
	if *debug {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
	} else {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
	os.Exit(1)
}

func main() {
	flag.Parse()
	if *debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}

	out := ioerr.NewWriter(os.Stdout)
	builtin.SetOutput(out)
	env := lisp.NewEnv()

	// A file is provided, evaluate it then exit.
	if *fileNm != "" {
		err := lisp.EvalFile(env, *fileNm, os.Stderr)
		env.Free()
		atExit(err)
		return
	}

	repl(env, out)
	env.Free()
	atExit(out.Err)
}

func repl(env *lenv.Env, out *ioerr.Writer) {
	// restore the terminal state whatever happens to the line editor
	restore, err := saveTerm()
	if err == nil && restore != nil {
		defer restore()
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	// exit cleanly on SIGINT, releasing the terminal and the root
	// environment first
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		line.Close()
		if restore != nil {
			restore()
		}
		env.Free()
		fmt.Fprintln(os.Stdout)
		os.Exit(0)
	}()

	fmt.Fprintf(out, "%s %s\n", progName, version)
	fmt.Fprintln(out, "Press Ctrl+C to exit.")
	fmt.Fprintln(out)

	for {
		input, err := line.Prompt(*prompt)
		switch {
		case err == io.EOF:
			// Ctrl+D: echo quit so the session log stays readable
			fmt.Fprintln(out, "quit")
			return
		case err == liner.ErrPromptAborted:
			return
		case err != nil:
			atExit(errors.Wrap(err, "reading input failed"))
			return
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		if strings.HasPrefix(input, "quit") {
			return
		}
		line.AppendHistory(input)
		r, lerror := lisp.EvalString(env, "", input)
		if lerror != nil {
			lisp.PrintError(out, lerror, len(*prompt))
		} else {
			fmt.Fprintln(out, r.String())
		}
		r.Free()
	}
}
