// Copyright (C) 2021-2024 the Fluidpatcher Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package provision sequences the idempotent, failure-aware operations that
// turn a stock Raspberry Pi into a SquishBox appliance: package installs,
// conditional source rebuild of the synth engine, payload merge, config and
// script patching, and service registration.
//
// Execution is single-threaded and strictly sequential; each step's failure
// is classified independently and either escalated or absorbed according to
// its policy. No step assumes prior success of a non-required step.
package provision

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/apt"
	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/build"
	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/history"
	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/log"
	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/patch"
)

// Session holds the state of one provisioning run.
type Session struct {
	Opts     Options
	Apt      *apt.Session
	warnings []string
}

func NewSession(opts Options) *Session {
	return &Session{Opts: opts, Apt: apt.NewSession()}
}

// Warnings accumulated this run, including package-manager warnings.
func (s *Session) Warnings() []string {
	return append(append([]string{}, s.Apt.Warnings()...), s.warnings...)
}

func (s *Session) warnf(f string, va ...interface{}) {
	w := fmt.Sprintf(f, va...)
	s.warnings = append(s.warnings, w)
	log.Logf("warning: %s", w)
}

// Run executes the provisioning sequence. A non-nil error means a fatal
// abort: a required package or required step failed irrecoverably. All
// other failures degrade to warnings and the run continues to completion.
func (s *Session) Run() error {
	start := time.Now()
	err := s.run()
	s.record(start, err)
	if err != nil {
		return err
	}
	s.summary()
	return nil
}

func (s *Session) run() error {
	if s.Opts.Upgrade {
		s.Apt.UpgradeSystem()
	}

	if err := s.Apt.InstallAll(basePackages()); err != nil {
		return err
	}

	//synth engine: rebuild from source when stale. A fetch failure is
	//fatal for the task, not the run - substitute the prebuilt package.
	task := s.Opts.synthTask()
	if err := task.Run(s.Apt); err != nil {
		if !errors.Is(err, build.ErrFetch) {
			return err
		}
		s.warnf("%s", err)
		if err = task.FallbackInstall(s.Apt); err != nil {
			return err
		}
	}

	//application payload. A fetch failure degrades - on a reprovision the
	//files are already in place, and the patch steps tolerate absence.
	if err := s.Opts.payload().Run(); err != nil {
		if !errors.Is(err, build.ErrFetch) {
			return fmt.Errorf("payload: %s", err)
		}
		s.warnf("payload: %s", err)
	}

	//config + script patches; each failure is fatal for its file only
	for _, err := range patch.ApplyAll(s.configPatches()) {
		s.warnf("%s", err)
	}
	if err := patch.Validate(s.Opts.configFile()); err != nil {
		s.warnf("%s", err)
	}
	s.scriptParams()

	if err := s.Opts.unit().Register(s.Opts.UnitDir); err != nil {
		return err
	}
	return nil
}

func (s *Session) configPatches() []patch.Patch {
	cfg := s.Opts.configFile()
	return []patch.Patch{
		{
			File:    cfg,
			Key:     "audio.driver",
			NewLine: "  audio.driver: " + s.Opts.AudioDriver,
			Anchor:  "fluidsettings:",
		},
		{
			File:    cfg,
			Key:     "midi.autoconnect",
			NewLine: "  midi.autoconnect: 1",
			Anchor:  "fluidsettings:",
		},
	}
}

//the four integer parameters of the headless runtime script
func (s *Session) scriptParams() {
	script := s.Opts.scriptFile()
	params := []struct {
		label string
		value int
	}{
		{"CHAN", s.Opts.Channel},
		{"DEC_PATCH", s.Opts.DecPatch},
		{"INC_PATCH", s.Opts.IncPatch},
		{"BANK_INC", s.Opts.BankInc},
	}
	for _, p := range params {
		if err := patch.SetParam(script, p.label, p.value); err != nil {
			s.warnf("%s", err)
		}
	}
}

//best effort; a broken history store never blocks provisioning
func (s *Session) record(start time.Time, fatal error) {
	if s.Opts.HistoryDir == "" {
		return
	}
	st, err := history.Open(s.Opts.HistoryDir)
	if err != nil {
		log.Logf("history store unavailable: %s", err)
		return
	}
	defer st.Close()
	r := history.Record{
		Time:     start,
		Success:  fatal == nil,
		Warnings: s.Warnings(),
	}
	if fatal != nil {
		r.Fatal = fatal.Error()
	}
	st.Append(r)
}

func (s *Session) summary() {
	warns := s.Warnings()
	if len(warns) == 0 {
		log.Msg("Provisioning complete")
		return
	}
	log.Msgf("Provisioning complete with %d warning(s):\n  %s",
		len(warns), strings.Join(warns, "\n  "))
}
