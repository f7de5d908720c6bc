// Copyright (C) 2021-2024 the Fluidpatcher Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package log is a flexible logging mechanism allowing multiple stacked log
// sinks, outputting to one or more of: the console, a file, memory.
//
// By default, events are retained in memory so they can be re-played into
// new log sinks if/when they are added later on.
package log

import (
	"fmt"
	"os"
	"time"

	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/log/flags"
)

var logPrefix string

// Sets the log prefix, used in the file log name. Must be set before calling
// AddFileLog().
func SetPrefix(pfx string) { logPrefix = pfx }

// Gets the log prefix
func GetPrefix() string { return logPrefix }

// Msgf is for use with messages suitable for display to the user. Short,
// non-technical.
func Msgf(f string, va ...interface{}) { FlaggedLogf(flags.EndUser, f, va...) }

// See Msgf
func Msg(message string) { Msgf(message) }

// Logf is for use with more technical, or more trivial, messages. No rate
// limiting concerns.
func Logf(f string, va ...interface{}) { FlaggedLogf(flags.NA, f, va...) }

// See Logf
func Logln(va ...interface{}) { Logf(fmt.Sprintln(va...)) }

// See Logf
func Log(message string) { Logf(message) }

// If the log stack includes a MemLog, write all of its content to stderr.
// No-op otherwise.
func DumpStderr() {
	logStackMtx.Lock()
	defer logStackMtx.Unlock()
	l := findInStack(MemLogIdent)
	if l != nil {
		ml := l.(*memLog)
		for _, e := range ml.Entries() {
			fmt.Fprintln(os.Stderr, e.String())
		}
	}
}

//Format: yyyymmdd_hhmm
const DefaultTimestampLayout = "20060102_1504"

var TimestampLayout = DefaultTimestampLayout

//Returns a string containing a timestamp like TimestampLayout.
func Timestamp() string { return time.Now().Format(TimestampLayout) }
