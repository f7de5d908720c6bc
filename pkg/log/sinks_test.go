// Copyright (C) 2021-2024 the Fluidpatcher Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package log_test

import (
	"os"
	"strings"
	"testing"

	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/log"
	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/log/flags"
)

func TestFileLog(t *testing.T) {
	log.DefaultLogStack()
	defer log.DefaultLogStack()

	log.Logf("before the file log exists")

	log.SetPrefix("fpsetup_test_")
	defer log.SetPrefix("")
	fname, err := log.AddFileLog(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if !log.LoggingToFile() {
		t.Error("LoggingToFile false")
	}
	log.Logf("after the file log exists")
	log.FlaggedLogf(flags.NotFile, "console only")
	log.RemoveLogger(log.FileLogIdent)

	data, err := os.ReadFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	//earlier events replayed in, NotFile events kept out
	if !strings.Contains(content, "before the file log exists") {
		t.Errorf("replayed entry missing:\n%s", content)
	}
	if !strings.Contains(content, "after the file log exists") {
		t.Errorf("live entry missing:\n%s", content)
	}
	if strings.Contains(content, "console only") {
		t.Errorf("NotFile entry written to file:\n%s", content)
	}
	if log.LoggingToFile() {
		t.Error("LoggingToFile true after removal")
	}
}

func TestFileLogNoPrefix(t *testing.T) {
	log.DefaultLogStack()
	defer log.DefaultLogStack()

	log.SetPrefix("")
	if _, err := log.AddFileLog(t.TempDir()); err != log.EPrefix {
		t.Errorf("err = %v, want EPrefix", err)
	}
}
