// Copyright (C) 2021-2024 the Fluidpatcher Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package shelltest substitutes a fake executor for shell.Exec, so that code
// driving external commands can be tested without mutating a real system.
// Invocations are recorded in order for later inspection.
package shelltest

import (
	"os/exec"
	"strings"

	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/shell"
)

//key identifying a command in a CmdMap
type Key string

//generates the key for given command args
func CmdKey(args []string) Key {
	return Key(strings.Join(args, "|"))
}

//canned result for one command
type Canned struct {
	Output   string
	ExitCode int
}

//map of command key -> canned result. Commands not present succeed with
//empty output.
type CmdMap map[Key]Canned

// Hijacker replaces shell.Exec, replaying canned results and recording every
// invocation. Restore() must be called (defer it) to reinstate the real
// executor.
type Hijacker struct {
	Cmds  CmdMap
	Calls []string //space-joined args, in invocation order
	prev  shell.ExecFunc
}

// Hijack installs a fake shell.Exec backed by m. m may be nil, in which case
// every command succeeds.
func Hijack(m CmdMap) *Hijacker {
	h := &Hijacker{Cmds: m, prev: shell.Exec}
	shell.Exec = func(cmd *exec.Cmd) shell.Result {
		h.Calls = append(h.Calls, strings.Join(cmd.Args, " "))
		c, ok := h.Cmds[CmdKey(cmd.Args)]
		if !ok {
			return shell.Result{Class: shell.ClassOK}
		}
		return shell.Result{
			ExitCode: c.ExitCode,
			Output:   c.Output,
			Class:    shell.Classify(c.Output),
		}
	}
	return h
}

//restore the real executor
func (h *Hijacker) Restore() { shell.Exec = h.prev }

// CallCount returns how many recorded invocations start with the given
// prefix (space-joined args).
func (h *Hijacker) CallCount(prefix string) (n int) {
	for _, c := range h.Calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return
}
