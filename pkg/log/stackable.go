// Copyright (C) 2021-2024 the Fluidpatcher Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package log

import (
	"fmt"
	"sync"
	"time"

	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/log/flags"
)

// A type of logger which can be chained/stacked, each adding a different
// sink - console, file, or just memory. Transparent to callers, who use the
// non-member functions Logf, Msgf, Fatalf, etc.
type StackableLogger interface {
	//Add an entry to the log. Must call the same method on the next log in
	//the stack (if not nil).
	AddEntry(e LogEntry)

	//Chain one logger to another. It is an error to call this on a logger
	//to which another has already been chained.
	ForwardTo(StackableLogger)

	//Identifies the type of logger, to prevent duplicates in the stack.
	Ident() string
	//Returns next StackableLogger or nil.
	Next() StackableLogger
	//Flushes outstanding entries, releases resources. Must call the same
	//method on the next log in the stack (if not nil).
	Finalize()
}

// Top logger on the stack. Any function accessing logStack or anything
// reached through it MUST hold logStackMtx.
var logStack StackableLogger = &memLog{}
var logStackMtx sync.Mutex

// LogEntry is the record type passed between stacked loggers.
type LogEntry struct {
	Time  time.Time `json:"t"`
	Msg   string
	Args  []interface{} `json:",omitempty"`
	Flags flags.Flag    `json:",omitempty"`
}

func (le *LogEntry) String() string {
	var div string
	switch {
	case le.Flags&flags.EndUser != 0:
		div = "-- "
	case le.Flags&flags.Fatal != 0:
		div = "!! "
	case le.Flags == 0:
		div = "*- "
	default:
		div = "?? "
	}
	f := div + le.Time.Format(TimestampLayout) + " " + div + le.Msg
	return fmt.Sprintf(f, le.Args...)
}

// Backend of Logf(), Msgf(), Fatalf(). Translates args to a LogEntry and
// inserts it into the topmost log.
func FlaggedLogf(opts flags.Flag, f string, va ...interface{}) {
	logStackMtx.Lock()
	defer logStackMtx.Unlock()
	logStack.AddEntry(LogEntry{
		Time:  time.Now(),
		Flags: opts,
		Msg:   f,
		Args:  va,
	})
}

// Flushes data, closes files, etc.
func Finalize() {
	logStackMtx.Lock()
	defer logStackMtx.Unlock()
	logStack.Finalize()
}

// Restores the log stack to initial state: finalizes existing logger(s),
// then replaces the stack with a memLog.
func DefaultLogStack() { NewLogStack(&memLog{}) }

//Calls Finalize on existing logger(s), then sets newLog as the topmost logger.
func NewLogStack(newLog StackableLogger) {
	logStackMtx.Lock()
	defer logStackMtx.Unlock()
	if logStack != nil {
		logStack.Finalize()
	}
	logStack = newLog
}

// Add a logger to the stack. If addPrevious is true, events already stored
// in a memLog are replayed into the new logger first. The only possible
// error is a logger of the same type already being present.
func AddLogger(sl StackableLogger, addPrevious bool) error {
	logStackMtx.Lock()
	defer logStackMtx.Unlock()
	l := logStack
	for l != nil {
		if l.Ident() == sl.Ident() {
			return fmt.Errorf("duplicate logger %s in stack", sl.Ident())
		}
		l = l.Next()
	}
	if addPrevious {
		replayMemEntries(sl)
	}
	sl.ForwardTo(logStack)
	logStack = sl
	return nil
}

// Remove a log with the given id from the stack.
func RemoveLogger(id string) {
	logStackMtx.Lock()
	defer logStackMtx.Unlock()
	l := logStack
	var prev StackableLogger
	for l != nil {
		next := l.Next()
		if l.Ident() == id {
			l.ForwardTo(nil)
			l.Finalize()
			if prev != nil {
				prev.ForwardTo(next)
			} else {
				logStack = next
			}
			break
		}
		prev = l
		l = next
	}
	if logStack == nil {
		logStack = &memLog{}
	}
}

// Return true if a log in the stack matches given id. Caller must not hold
// logStackMtx.
func InStack(id string) bool {
	logStackMtx.Lock()
	defer logStackMtx.Unlock()
	return findInStack(id) != nil
}

func findInStack(id string) StackableLogger {
	l := logStack
	for l != nil {
		if l.Ident() == id {
			return l
		}
		l = l.Next()
	}
	return nil
}

//replay memLog entries into a new non-mem logger
func replayMemEntries(newlog StackableLogger) {
	if _, isMem := newlog.(*memLog); isMem {
		return
	}
	ml := findInStack(MemLogIdent)
	if ml == nil {
		return
	}
	if mem, ok := ml.(*memLog); ok {
		for _, e := range mem.Entries() {
			newlog.AddEntry(e)
		}
	}
}
