// Copyright (C) 2021-2024 the Fluidpatcher Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package log

import (
	"fmt"
	"os"
	fp "path/filepath"
	"time"

	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/log/flags"
)

// memLog is the default type of log, storing entries in memory and not
// displaying them in any way. See AddConsoleLog, AddFileLog.
type memLog struct {
	entries []LogEntry
	next    StackableLogger
}

var _ StackableLogger = (*memLog)(nil)

const MemLogIdent = "memLog"

func (ml *memLog) AddEntry(e LogEntry) {
	ml.entries = append(ml.entries, e)
	if ml.next != nil {
		ml.next.AddEntry(e)
	}
}

func (ml *memLog) ForwardTo(sl StackableLogger) {
	if ml.next == nil || sl == nil {
		ml.next = sl
	} else {
		panic("next already set")
	}
}

func (ml *memLog) Ident() string         { return MemLogIdent }
func (ml *memLog) Next() StackableLogger { return ml.next }

func (ml *memLog) Finalize() {
	ml.entries = nil
	if ml.next != nil {
		ml.next.Finalize()
	}
}

//not part of StackableLogger interface
func (ml *memLog) Entries() []LogEntry { return ml.entries }

// Retrieve all entries logged so far. Requires a memLog in the stack.
// Probably only useful for testing log packages.
func StoredEntries() []LogEntry {
	logStackMtx.Lock()
	defer logStackMtx.Unlock()
	ml := findInStack(MemLogIdent)
	if ml == nil {
		return nil
	}
	return ml.(*memLog).Entries()
}

// Remove a MemLog from the stack. Used once other log(s) have been added, to
// prevent accumulation of entries in memory.
func FlushMemLog() { RemoveLogger(MemLogIdent) }

type consoleLog struct {
	flags flags.Flag
	next  StackableLogger
}

var _ StackableLogger = (*consoleLog)(nil)

const ConsoleLogIdent = "consoleLog"

// Adds a consoleLog to the stack. Flags determine which events will log to
// the console: flags.NA (everything) or flags.EndUser (only messages
// intended for the end user).
func AddConsoleLog(f flags.Flag) {
	_ = AddLogger(&consoleLog{flags: f}, true)
}

func (l *consoleLog) AddEntry(e LogEntry) {
	if l.flags == 0 || e.Flags&l.flags > 0 {
		fmt.Fprintln(os.Stderr, e.String())
	}
	if l.next != nil {
		l.next.AddEntry(e)
	}
}

func (l *consoleLog) ForwardTo(sl StackableLogger) {
	if l.next == nil || sl == nil {
		l.next = sl
	} else {
		panic("next already set")
	}
}

func (l *consoleLog) Ident() string         { return ConsoleLogIdent }
func (l *consoleLog) Next() StackableLogger { return l.next }

func (l *consoleLog) Finalize() {
	if l.next != nil {
		l.next.Finalize()
	}
}

type fileLog struct {
	f    *os.File
	next StackableLogger
}

var _ StackableLogger = (*fileLog)(nil)

const FileLogIdent = "fileLog"

var EPrefix = fmt.Errorf("log prefix is unset")

// AddFileLog adds a fileLog to the stack. Existing events are inserted. Name
// is a combination of the prefix (GetPrefix) and the current time. See also
// AddNamedFileLog.
func AddFileLog(dir string) (string, error) {
	prefix := GetPrefix()
	if prefix == "" {
		return "", EPrefix
	}
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return "", err
	}
	name := prefix + time.Now().Format(TimestampLayout) + ".log"
	return AddNamedFileLog(fp.Join(dir, name))
}

// AddNamedFileLog adds a fileLog to the stack like AddFileLog, but uses the
// specified name rather than coming up with one.
func AddNamedFileLog(fname string) (string, error) {
	f, err := os.Create(fname)
	if err != nil {
		return "", err
	}
	fl := &fileLog{f: f}
	err = AddLogger(fl, true)
	if err != nil {
		f.Close()
		os.Remove(fname)
		return "", err
	}
	return fname, nil
}

func (fl *fileLog) AddEntry(e LogEntry) {
	if (e.Flags&flags.NotFile) == 0 && fl.f != nil {
		fmt.Fprintln(fl.f, e.String())
	}
	if fl.next != nil {
		fl.next.AddEntry(e)
	}
}

func (fl *fileLog) ForwardTo(sl StackableLogger) {
	if fl.next == nil || sl == nil {
		fl.next = sl
	} else {
		panic("next already set")
	}
}

func (fl *fileLog) Ident() string         { return FileLogIdent }
func (fl *fileLog) Next() StackableLogger { return fl.next }

func (fl *fileLog) Finalize() {
	if fl.f != nil {
		if err := fl.f.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "closing log file: %s", err)
		}
		fl.f = nil
	}
	if fl.next != nil {
		fl.next.Finalize()
	}
}

func LoggingToFile() bool { return InStack(FileLogIdent) }
