// Copyright (C) 2021-2024 the Fluidpatcher Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package log_test

import (
	"strings"
	"testing"
	"time"

	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/log"
	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/log/flags"
)

//minimal sink for stack tests
type recorder struct {
	entries []log.LogEntry
	next    log.StackableLogger
}

func (r *recorder) AddEntry(e log.LogEntry) {
	r.entries = append(r.entries, e)
	if r.next != nil {
		r.next.AddEntry(e)
	}
}
func (r *recorder) ForwardTo(sl log.StackableLogger) { r.next = sl }
func (r *recorder) Ident() string                    { return "recorder" }
func (r *recorder) Next() log.StackableLogger        { return r.next }
func (r *recorder) Finalize() {
	if r.next != nil {
		r.next.Finalize()
	}
}

//events logged before a sink exists replay into it when added
func TestReplay(t *testing.T) {
	log.DefaultLogStack()
	defer log.DefaultLogStack()

	log.Logf("first %d", 1)
	log.Msgf("second")
	if n := len(log.StoredEntries()); n != 2 {
		t.Fatalf("%d stored entries, want 2", n)
	}

	rec := &recorder{}
	if err := log.AddLogger(rec, true); err != nil {
		t.Fatal(err)
	}
	if n := len(rec.entries); n != 2 {
		t.Fatalf("%d replayed entries, want 2", n)
	}
	log.Logf("third")
	if n := len(rec.entries); n != 3 {
		t.Errorf("%d entries after new event, want 3", n)
	}
	//memLog below us keeps accumulating too
	if n := len(log.StoredEntries()); n != 3 {
		t.Errorf("%d stored entries, want 3", n)
	}
}

func TestDuplicateLogger(t *testing.T) {
	log.DefaultLogStack()
	defer log.DefaultLogStack()

	if err := log.AddLogger(&recorder{}, false); err != nil {
		t.Fatal(err)
	}
	if err := log.AddLogger(&recorder{}, false); err == nil {
		t.Error("duplicate logger accepted")
	}
	if !log.InStack("recorder") {
		t.Error("recorder not in stack")
	}
	log.RemoveLogger("recorder")
	if log.InStack("recorder") {
		t.Error("recorder still in stack after removal")
	}
}

//removing the last logger must leave a usable stack
func TestRemoveLast(t *testing.T) {
	log.DefaultLogStack()
	defer log.DefaultLogStack()

	log.FlushMemLog()
	log.Logf("after flush")
	if n := len(log.StoredEntries()); n != 1 {
		t.Errorf("%d stored entries, want 1", n)
	}
}

func TestFatalf(t *testing.T) {
	log.DefaultLogStack()
	defer log.DefaultLogStack()
	defer log.SetFatalAction(log.DefaultFatal)

	rec := &recorder{}
	if err := log.AddLogger(rec, false); err != nil {
		t.Fatal(err)
	}
	terminated := 0
	log.SetFatalAction(log.FailAction{
		MsgPfx:     "FATAL: ",
		Terminator: func() { terminated++ },
	})
	log.Fatalf("it broke: %s", "badly")
	if terminated != 1 {
		t.Fatalf("terminator ran %d times, want 1", terminated)
	}
	var fatal *log.LogEntry
	for i := range rec.entries {
		if rec.entries[i].Flags&flags.Fatal != 0 {
			fatal = &rec.entries[i]
		}
	}
	if fatal == nil {
		t.Fatal("no fatal entry logged")
	}
	if !strings.HasPrefix(fatal.Msg, "FATAL: ") {
		t.Errorf("prefix missing: %q", fatal.Msg)
	}
}

func TestEntryString(t *testing.T) {
	when := time.Date(2024, 5, 1, 12, 34, 0, 0, time.UTC)
	e := log.LogEntry{Time: when, Msg: "hello %s", Args: []interface{}{"world"}, Flags: flags.EndUser}
	s := e.String()
	if !strings.HasPrefix(s, "-- 20240501_1234 -- ") || !strings.HasSuffix(s, "hello world") {
		t.Errorf("user entry: %q", s)
	}
	e = log.LogEntry{Time: when, Msg: "detail"}
	if s = e.String(); !strings.HasPrefix(s, "*- ") {
		t.Errorf("plain entry: %q", s)
	}
	e = log.LogEntry{Time: when, Msg: "boom", Flags: flags.Fatal}
	if s = e.String(); !strings.HasPrefix(s, "!! ") {
		t.Errorf("fatal entry: %q", s)
	}
}
