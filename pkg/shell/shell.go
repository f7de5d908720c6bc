// Copyright (C) 2021-2024 the Fluidpatcher Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package shell runs external commands, capturing combined output and exit
// status. A non-zero exit is never treated as a go error here - package
// managers frequently emit warnings on exit code 0 and vice versa, so both
// the exit code and the classified output are returned for the caller to
// interpret.
package shell

import (
	"os"
	"os/exec"

	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/log"

	"github.com/google/shlex"
)

// Result of one command execution. Immutable; consumed by the caller.
type Result struct {
	ExitCode int
	Output   string //combined stdout+stderr
	Class    Class
}

// Failed is true if the output contained an error marker or the process
// exited non-zero.
func (r Result) Failed() bool { return r.Class == ClassFailure || r.ExitCode != 0 }

// Warned is true if the output contained warning markers but the command
// did not fail.
func (r Result) Warned() bool { return !r.Failed() && r.Class == ClassWarning }

type ExecFunc func(cmd *exec.Cmd) Result

//Wrapper for exec.Cmd.CombinedOutput(). If this is used, exec's can be
//mocked/tracked by shelltest.
var Exec ExecFunc = DefaultExec

// Default impl of Exec; runs a command, capturing combined output and exit
// code. ExitCode is -1 if the command could not be started at all.
func DefaultExec(cmd *exec.Cmd) (res Result) {
	log.Logf("Running %v...", cmd.Args)
	out, err := cmd.CombinedOutput()
	res.Output = string(out)
	res.Class = Classify(res.Output)
	if err != nil {
		res.ExitCode = -1
		if ee, ok := err.(*exec.ExitError); ok {
			res.ExitCode = ee.ExitCode()
		}
		log.Logf("Running %v: error %s\noutput:\n%s\n", cmd.Args, err, res.Output)
	}
	return
}

// Run executes a command given as name + args.
func Run(name string, args ...string) Result {
	return Exec(exec.Command(name, args...))
}

// RunLine splits a command line via shlex and executes it. An unparseable
// line yields a FAILURE result rather than an error - callers treat it like
// any other failed step.
func RunLine(line string) Result {
	args, err := shlex.Split(line)
	if err != nil || len(args) == 0 {
		log.Logf("unparseable command %q: %s", line, err)
		return Result{ExitCode: -1, Class: ClassFailure}
	}
	return Run(args[0], args[1:]...)
}

// RunEnv is like Run but appends env vars (NAME=value) to the inherited
// environment. Used for DEBIAN_FRONTEND and similar.
func RunEnv(env []string, name string, args ...string) Result {
	cmd := exec.Command(name, args...)
	cmd.Env = append(os.Environ(), env...)
	return Exec(cmd)
}

// RunIn is like Run but sets the working directory.
func RunIn(dir, name string, args ...string) Result {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	return Exec(cmd)
}

// RunLineIn is like RunLine but sets the working directory.
func RunLineIn(dir, line string) Result {
	args, err := shlex.Split(line)
	if err != nil || len(args) == 0 {
		log.Logf("unparseable command %q: %s", line, err)
		return Result{ExitCode: -1, Class: ClassFailure}
	}
	return RunIn(dir, args[0], args[1:]...)
}
