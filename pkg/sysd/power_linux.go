// Copyright (C) 2021-2024 the Fluidpatcher Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package sysd

import (
	"os/exec"

	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/log"

	"golang.org/x/sys/unix"
)

// Reboot via systemctl, falling back to the raw syscall when not running
// under systemd (e.g. a minimal rescue environment).
func Reboot() error {
	if IsSystemd() {
		return exec.Command("systemctl", "--system", "reboot", "-q").Run()
	}
	log.Log("no systemd, rebooting via syscall")
	unix.Sync()
	return unix.Reboot(unix.LINUX_REBOOT_CMD_RESTART)
}

// Poweroff via systemctl, with the same fallback as Reboot.
func Poweroff() error {
	if IsSystemd() {
		return exec.Command("systemctl", "--system", "poweroff", "-q").Run()
	}
	log.Log("no systemd, powering off via syscall")
	unix.Sync()
	return unix.Reboot(unix.LINUX_REBOOT_CMD_POWER_OFF)
}
