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

//go:build linux

package main

import (
	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// saveTerm snapshots the terminal attributes of stdin. The returned
// function restores them; the line editor switches the terminal to raw
// mode and an abnormal exit must not leave it that way.
func saveTerm() (func(), error) {
	var tios unix.Termios
	if err := termios.Tcgetattr(0, &tios); err != nil {
		return nil, err
	}
	return func() {
		// best effort on teardown
		_ = termios.Tcsetattr(0, termios.TCSANOW, &tios)
	}, nil
}
