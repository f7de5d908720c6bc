// Copyright (C) 2021-2024 the Fluidpatcher Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package sysd

import (
	"os"
	"strings"

	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/log"
	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/shell"
)

//True if systemctl reports service is active.
func IsActive(service string) bool { return sysctlBool("is-active", service) }

//True if systemctl reports service is failed.
func IsFailed(service string) bool { return sysctlBool("is-failed", service) }

//Is the current init system systemd?
func IsSystemd() bool {
	data, err := os.ReadFile("/proc/1/cmdline")
	if err != nil {
		log.Logf("error determining init system: %s", err)
	}
	return strings.Contains(string(data), "systemd")
}

//systemctl signals yes/no through its exit code
func sysctlBool(cmd, arg string) bool {
	return !shell.Run("systemctl", "--system", cmd, "-q", arg).Failed()
}
