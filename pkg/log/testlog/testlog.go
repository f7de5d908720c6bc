// Copyright (C) 2021-2024 the Fluidpatcher Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package testlog hijacks the output of pkg/log for tests. By default output
// prints through testing functions, but it can be stored in a buffer as well
// - for example, for analysis as part of the test.
package testlog

import (
	"bytes"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/log"
	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/log/flags"
)

//Conforms to log.StackableLogger. Constructed via NewTestLog().
type TstLog struct {
	t             *testing.T    //log here if Buf is nil
	Buf           *bytes.Buffer //if non-nil, Msgf()/Logf() output goes here
	MsgCount      int           //number of flags.EndUser entries
	LogCount      int           //number of plain entries
	FatalCount    int           //number of flags.Fatal entries
	FatalIsNotErr bool          //if true, do not call t.Errorf() for a fatal entry
	freeze        bool          //do not write any more to Buf
	stderr        bool          //also immediately write to stderr
	mu            sync.Mutex
}

//Returns a new TstLog. If bufferLog is true, logging goes to a buffer rather
//than passing directly to t.Log()/t.Error(). Do not share one TstLog between
//tests - create a new one each time.
func NewTestLog(t *testing.T, bufferLog, stderr bool) (tlog *TstLog) {
	tlog = &TstLog{t: t, stderr: stderr}
	if bufferLog {
		tlog.Buf = new(bytes.Buffer)
	}
	log.NewLogStack(tlog)
	log.SetFatalAction(log.FailAction{Terminator: func() {}})
	return
}

var _ log.StackableLogger = (*TstLog)(nil)

const TstLogIdent = "tstLog"

func (tlog *TstLog) AddEntry(e log.LogEntry) {
	tlog.mu.Lock()
	defer tlog.mu.Unlock()
	if tlog.freeze {
		return
	}
	switch e.Flags {
	case flags.EndUser:
		tlog.MsgCount++
		e.Msg = "MSG:" + e.Msg
	case flags.Fatal:
		tlog.FatalCount++
		e.Msg = ">>FATAL()<< " + e.Msg
		if !tlog.FatalIsNotErr {
			tlog.t.Errorf(e.Msg, e.Args...)
			return
		}
	default:
		tlog.LogCount++
		e.Msg = "LOG:" + e.Msg
	}
	if tlog.stderr {
		fmt.Fprintf(os.Stderr, e.Msg+"\n", e.Args...)
	}
	if tlog.Buf != nil {
		fmt.Fprintf(tlog.Buf, e.Msg+"\n", e.Args...)
	} else {
		tlog.t.Logf(e.Msg, e.Args...)
	}
}

func (*TstLog) Ident() string                      { return TstLogIdent }
func (tl *TstLog) Next() log.StackableLogger       { return nil }
func (*TstLog) Finalize()                          {}
func (tl *TstLog) ForwardTo(_ log.StackableLogger) {}

//call at end of test to restore the default log stack
func (tlog *TstLog) Freeze() {
	tlog.mu.Lock()
	frozen := tlog.freeze
	tlog.freeze = true
	tlog.mu.Unlock()
	if frozen {
		return
	}
	log.DefaultLogStack()
	log.SetFatalAction(log.DefaultFatal)
}
