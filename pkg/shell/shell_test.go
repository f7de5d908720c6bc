// Copyright (C) 2021-2024 the Fluidpatcher Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package shell

import (
	"strings"
	"testing"

	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/log/testlog"
)

//func Run(name string, args ...string) Result
func TestRun(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	defer tlog.Freeze()

	res := Run("echo", "hello")
	if res.ExitCode != 0 {
		t.Errorf("echo exit code %d", res.ExitCode)
	}
	if strings.TrimSpace(res.Output) != "hello" {
		t.Errorf("echo output %q", res.Output)
	}
	if res.Class != ClassOK {
		t.Errorf("echo classified %s", res.Class)
	}

	res = Run("false")
	if res.ExitCode != 1 {
		t.Errorf("false exit code %d", res.ExitCode)
	}
	if !res.Failed() {
		t.Error("false should fail")
	}

	res = Run("/nonexistent/binary/xyz")
	if res.ExitCode != -1 {
		t.Errorf("unstartable command exit code %d, want -1", res.ExitCode)
	}
}

//func RunLine(line string) Result
func TestRunLine(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	defer tlog.Freeze()

	res := RunLine("echo 'a b' c")
	if strings.TrimSpace(res.Output) != "a b c" {
		t.Errorf("quoted arg mishandled: %q", res.Output)
	}

	//unterminated quote - unparseable, must classify as failure
	res = RunLine("echo 'oops")
	if !res.Failed() {
		t.Error("unparseable line should fail")
	}

	res = RunLine("")
	if !res.Failed() {
		t.Error("empty line should fail")
	}
}

//func RunIn(dir, name string, args ...string) Result
func TestRunIn(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	defer tlog.Freeze()

	dir := t.TempDir()
	res := RunIn(dir, "pwd")
	if res.Failed() {
		t.Fatalf("pwd failed: %s", res.Output)
	}
	if strings.TrimSpace(res.Output) != dir {
		t.Errorf("pwd in %s reported %q", dir, res.Output)
	}
}
