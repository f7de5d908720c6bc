// Copyright (C) 2021-2024 the Fluidpatcher Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package apt wraps the system package manager. It centralizes the
// refresh-then-act pattern, output classification, and the required-vs-
// optional failure policy so every install call site has identical failure
// semantics.
package apt

import (
	"fmt"
	"strings"

	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/log"
	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/shell"
)

//environment for non-interactive apt runs
var aptEnv = []string{"DEBIAN_FRONTEND=noninteractive"}

// A package to install. Required packages escalate install failure to a
// fatal abort; optional packages downgrade it to a logged warning.
type PackageSpec struct {
	Name     string
	Required bool
}

// Session holds per-run package manager state: whether indexes have been
// refreshed this run, and warnings accumulated so far. One Session exists
// per orchestrator run - no ambient globals.
type Session struct {
	refreshed bool
	warnings  []string
}

func NewSession() *Session { return &Session{} }

// Warnings accumulated by non-fatal package operations this run.
func (s *Session) Warnings() []string { return s.warnings }

func (s *Session) warnf(f string, va ...interface{}) {
	w := fmt.Sprintf(f, va...)
	s.warnings = append(s.warnings, w)
	log.Logf("warning: %s", w)
}

// RefreshIndexes runs 'apt-get update' once per session; later calls are
// no-ops. Refresh failures never block subsequent installs - they degrade
// to a warning.
func (s *Session) RefreshIndexes() {
	if s.refreshed {
		return
	}
	s.refreshed = true
	res := shell.RunEnv(aptEnv, "apt-get", "update")
	if res.Failed() {
		s.warnf("package index refresh failed, continuing: %s", firstMarkerLine(res.Output))
	} else if res.Warned() {
		s.warnf("package index refresh: %s", firstMarkerLine(res.Output))
	}
}

// UpgradeSystem performs a non-interactive full upgrade followed by removal
// of obsolete packages. Failures here are historically non-fatal - later
// installs may still succeed - so they degrade to warnings.
func (s *Session) UpgradeSystem() {
	s.RefreshIndexes()
	log.Msg("Upgrading system packages...")
	res := shell.RunEnv(aptEnv, "apt-get", "-y", "upgrade")
	if res.Failed() {
		s.warnf("system upgrade failed: %s", firstMarkerLine(res.Output))
	} else if res.Warned() {
		s.warnf("system upgrade: %s", firstMarkerLine(res.Output))
	}
	res = shell.RunEnv(aptEnv, "apt-get", "-y", "autoremove")
	if res.Failed() {
		s.warnf("autoremove failed: %s", firstMarkerLine(res.Output))
	}
}

// Install installs a single package non-interactively, refreshing indexes
// first if not yet done this session. For a required package, failure is
// returned as an error - the orchestrator aborts. For an optional package,
// failure is recorded as a warning and nil is returned.
func (s *Session) Install(spec PackageSpec) error {
	s.RefreshIndexes()
	log.Msgf("Installing %s...", spec.Name)
	res := shell.RunEnv(aptEnv, "apt-get", "-y", "install", spec.Name)
	if res.Failed() {
		if spec.Required {
			return fmt.Errorf("required package %s failed to install: %s",
				spec.Name, firstMarkerLine(res.Output))
		}
		s.warnf("optional package %s failed to install, continuing", spec.Name)
		return nil
	}
	if res.Warned() {
		s.warnf("package %s: %s", spec.Name, firstMarkerLine(res.Output))
	}
	return nil
}

// InstallAll installs each spec in order, stopping at the first required
// failure.
func (s *Session) InstallAll(specs []PackageSpec) error {
	for _, spec := range specs {
		if err := s.Install(spec); err != nil {
			return err
		}
	}
	return nil
}

//first E:/W: line of output, for terse warnings; whole-output fallback
func firstMarkerLine(output string) string {
	if l := markerLine(output, "E:"); l != "" {
		return l
	}
	if l := markerLine(output, "W:"); l != "" {
		return l
	}
	if len(output) > 120 {
		output = output[:120] + "..."
	}
	return output
}

func markerLine(output, marker string) string {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, marker) {
			return line
		}
	}
	return ""
}
