// Copyright (C) 2021-2024 the Fluidpatcher Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package sysd

import (
	"testing"

	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/log/testlog"
	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/shell/shelltest"
)

//systemctl answers through its exit code: 0 is yes, anything else is no
func TestStatusProbes(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	defer tlog.Freeze()
	h := shelltest.Hijack(shelltest.CmdMap{
		shelltest.CmdKey([]string{"systemctl", "--system", "is-active", "-q", "stopped.service"}): {
			ExitCode: 3,
		},
		shelltest.CmdKey([]string{"systemctl", "--system", "is-failed", "-q", "healthy.service"}): {
			ExitCode: 1,
		},
	})
	defer h.Restore()

	if !IsActive("running.service") {
		t.Error("exit 0 should report active")
	}
	if IsActive("stopped.service") {
		t.Error("exit 3 should report inactive")
	}
	if IsFailed("healthy.service") {
		t.Error("exit 1 should report not failed")
	}
	if !IsFailed("broken.service") {
		t.Error("exit 0 should report failed")
	}
}

//no hijack: a unit that cannot exist reports neither active nor failed,
//whether or not systemctl is present on the test machine
func TestStatusBogusUnit(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	defer tlog.Freeze()

	if IsActive("no-such-unit-fpsetup-test.service") {
		t.Error("bogus unit reported active")
	}
	//smoke test; result depends on the init system running the tests
	_ = IsSystemd()
}
