// Copyright (C) 2021-2024 the Fluidpatcher Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package futil

import (
	"fmt"

	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/log"

	"golang.org/x/sys/unix"
)

// Return free space for FS containing dir, or -1 in the event of an error
func FreeSpace(dir string) int64 {
	var fs unix.Statfs_t
	err := unix.Statfs(dir, &fs)
	if err != nil {
		log.Logf("Error %s finding device free space\n", err)
		return -1
	}
	return int64(fs.Bavail) * fs.Bsize
}

// Returns human-readable free space (in MB) for FS containing given dir.
func FreeSpaceM(dir string) string {
	fs := FreeSpace(dir)
	if fs < 0 {
		return "(unknown - error)"
	}
	return fmt.Sprintf("%dM", fs/(1024*1024))
}
