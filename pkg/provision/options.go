// Copyright (C) 2021-2024 the Fluidpatcher Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package provision

import (
	fp "path/filepath"

	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/apt"
	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/build"
	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/sysd"
)

// Options for one provisioning run. Everything user-chosen or
// environment-dependent lives here; components receive values explicitly
// rather than reading ambient globals.
type Options struct {
	//perform a full system upgrade before installing
	Upgrade bool

	//MIDI parameters substituted into the headless runtime script
	Channel  int //MIDI channel
	DecPatch int //previous-patch CC
	IncPatch int //next-patch CC
	BankInc  int //bank-advance CC

	AudioDriver string //fluidsettings audio.driver value

	InstallDir string //where the FluidPatcher payload lives
	UnitDir    string //where service units are written
	User       string //run-as user for the service
	Python     string //absolute interpreter path

	SynthReleaseURL string //release descriptor for the synth engine
	SynthArchiveURL string //source archive pattern, %s = version
	PayloadURL      string //application payload archive
	HistoryDir      string //run-history store; empty disables history
}

// Defaults matches the stock SquishBox appliance layout.
func Defaults() Options {
	return Options{
		Channel:     1,
		DecPatch:    21,
		IncPatch:    22,
		BankInc:     23,
		AudioDriver: "alsa",
		InstallDir:  "/home/pi/FluidPatcher",
		UnitDir:     "/etc/systemd/system",
		User:        "pi",
		Python:      "/usr/bin/python3",
		SynthReleaseURL: "https://api.github.com/repos/FluidSynth/fluidsynth/releases/latest",
		SynthArchiveURL: "https://github.com/FluidSynth/fluidsynth/archive/refs/tags/v%s.tar.gz",
		PayloadURL:      "https://github.com/albedozero/fluidpatcher/archive/refs/heads/master.tar.gz",
		HistoryDir:      "/var/lib/fpsetup/history",
	}
}

//base packages; only pip is indispensable, the effects plugins are nice to
//have
func basePackages() []apt.PackageSpec {
	return []apt.PackageSpec{
		{Name: "python3-pip", Required: true},
		{Name: "ladspa-sdk", Required: false},
		{Name: "swh-plugins", Required: false},
		{Name: "tap-plugins", Required: false},
	}
}

func (o Options) synthTask() *build.Task {
	return &build.Task{
		Name:       "fluidsynth",
		LocalCmd:   "fluidsynth --version",
		ReleaseURL: o.SynthReleaseURL,
		ArchiveURL: o.SynthArchiveURL,
		BuildDeps: []apt.PackageSpec{
			{Name: "build-essential"},
			{Name: "cmake"},
			{Name: "libasound2-dev"},
			{Name: "libsndfile1-dev"},
			{Name: "libglib2.0-dev"},
		},
		BuildSteps: []string{
			"cmake -S . -B build -DCMAKE_BUILD_TYPE=Release",
			"cmake --build build",
		},
		InstallStep: "cmake --install build",
		Fallback:    apt.PackageSpec{Name: "fluidsynth"},
	}
}

func (o Options) payload() *build.Payload {
	return &build.Payload{
		Name:       "fluidpatcher",
		ArchiveURL: o.PayloadURL,
		Dest:       o.InstallDir,
	}
}

func (o Options) unit() *sysd.Unit {
	script := fp.Join(o.InstallDir, "headlesspi.py")
	return &sysd.Unit{
		Name:       "squishbox",
		Desc:       "SquishBox sound engine",
		ExecStart:  o.Python + " " + script,
		WorkingDir: o.InstallDir,
		User:       o.User,
		Restart:    "on-failure",
	}
}

func (o Options) configFile() string {
	return fp.Join(o.InstallDir, "SquishBox", "squishboxconf.yaml")
}

func (o Options) scriptFile() string {
	return fp.Join(o.InstallDir, "headlesspi.py")
}
