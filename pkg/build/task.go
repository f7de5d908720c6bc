// Copyright (C) 2021-2024 the Fluidpatcher Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package build compiles a dependency from source when the installed version
// is stale, falling back to a package-manager install when compilation
// fails. The pipeline is an explicit state machine so tests can target
// individual transitions.
package build

import (
	"fmt"
	"os"
	fp "path/filepath"

	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/apt"
	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/futil"
	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/log"
	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/release"
	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/shell"
)

type State int

const (
	StateCheck State = iota
	StateFetch
	StateBuild
	StateInstall
	StateFallback
	StateDone
)

func (s State) String() string {
	switch s {
	case StateCheck:
		return "check"
	case StateFetch:
		return "fetch"
	case StateBuild:
		return "build"
	case StateInstall:
		return "install"
	case StateFallback:
		return "fallback"
	case StateDone:
		return "done"
	}
	return "?"
}

// A dependency to compile from source. One Task exists per dependency
// needing compilation; created when the version gate signals staleness,
// discarded after execution.
type Task struct {
	Name       string
	LocalCmd   string //command whose output yields the installed version
	ReleaseURL string //release descriptor for the latest version
	//archive URL pattern; %s is replaced with the release tag
	ArchiveURL string
	//build dependencies, installed via the package manager facade
	BuildDeps []apt.PackageSpec
	//configure/compile commands, run in order in the source dir
	BuildSteps []string
	//the install command, followed by a linker cache refresh on success
	InstallStep string
	//prebuilt package substituted when compilation fails
	Fallback apt.PackageSpec

	trace []State
}

//fetch failures are fatal for the task but not the orchestrator; the caller
//decides whether to invoke FallbackInstall
var ErrFetch = fmt.Errorf("source fetch failed")

// Trace returns the states entered during Run, in order.
func (t *Task) Trace() []State { return t.trace }

func (t *Task) enter(s State) {
	t.trace = append(t.trace, s)
	log.Logf("%s: state %s", t.Name, s)
}

// Run drives CHECK -> FETCH -> BUILD -> INSTALL -> DONE, with a FALLBACK
// branch from BUILD/INSTALL on failure. The working directory is removed on
// every exit path. Returns ErrFetch (wrapped) if the source cannot be
// retrieved; all other failures are absorbed by the fallback.
func (t *Task) Run(s *apt.Session) (err error) {
	t.enter(StateCheck)
	stale, remote := release.Stale(t.LocalCmd, t.ReleaseURL)
	if !stale {
		t.enter(StateDone)
		log.Msgf("%s is up to date", t.Name)
		return nil
	}

	workdir, err := os.MkdirTemp("", t.Name)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrFetch, err)
	}
	defer os.RemoveAll(workdir)

	t.enter(StateFetch)
	srcdir, err := t.fetch(workdir, remote)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrFetch, err)
	}

	t.enter(StateBuild)
	ok := t.build(s, srcdir)
	if ok {
		t.enter(StateInstall)
		ok = t.install(srcdir)
	}
	if !ok {
		t.enter(StateFallback)
		return t.FallbackInstall(s)
	}
	t.enter(StateDone)
	log.Msgf("%s %s built and installed", t.Name, remote)
	return nil
}

//download and extract the source archive; returns the source dir
func (t *Task) fetch(workdir string, remote release.Tag) (string, error) {
	log.Logf("free space before fetch: %s", futil.FreeSpaceM(workdir))
	url := fmt.Sprintf(t.ArchiveURL, remote.Raw)
	archive := fp.Join(workdir, t.Name+".tar.gz")
	if err := futil.Download(url, archive); err != nil {
		return "", err
	}
	srcdir := fp.Join(workdir, "src")
	if err := os.MkdirAll(srcdir, 0777); err != nil {
		return "", err
	}
	res := shell.Run("tar", "xzf", archive, "-C", srcdir, "--strip-components=1")
	if res.Failed() {
		return "", fmt.Errorf("extracting %s: %s", archive, res.Output)
	}
	return srcdir, nil
}

//install build deps via the facade, then run configure/compile steps
func (t *Task) build(s *apt.Session, srcdir string) bool {
	for _, dep := range t.BuildDeps {
		if err := s.Install(dep); err != nil {
			log.Logf("%s: build dep: %s", t.Name, err)
			return false
		}
	}
	for _, step := range t.BuildSteps {
		res := shell.RunLineIn(srcdir, step)
		if res.Failed() {
			log.Logf("%s: build step %q failed", t.Name, step)
			return false
		}
	}
	return true
}

//run the install step; on success, refresh the dynamic linker cache
func (t *Task) install(srcdir string) bool {
	res := shell.RunLineIn(srcdir, t.InstallStep)
	if res.Failed() {
		log.Logf("%s: install step failed", t.Name)
		return false
	}
	if ldres := shell.Run("ldconfig"); ldres.Failed() {
		log.Logf("ldconfig failed: %s", ldres.Output)
	}
	return true
}

// FallbackInstall installs the fallback package as a best-effort
// substitute for source compilation.
func (t *Task) FallbackInstall(s *apt.Session) error {
	log.Msgf("Source compilation of %s skipped, installing %s package instead",
		t.Name, t.Fallback.Name)
	return s.Install(t.Fallback)
}
