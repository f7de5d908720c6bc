// Copyright (C) 2021-2024 the Fluidpatcher Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Command fpsetup provisions a FluidPatcher/SquishBox sound appliance.
// Non-interactive: all choices are flags. Must run as root, since it
// installs packages and writes system service units.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/log"
	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/provision"
	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/sysd"
)

var buildId string

func main() {
	opts := provision.Defaults()
	var ver, reboot, poweroff, logToFile bool
	var logDir string

	flag.BoolVar(&ver, "v", false, "print version and exit")
	flag.BoolVar(&opts.Upgrade, "upgrade", false, "upgrade system packages first")
	flag.IntVar(&opts.Channel, "channel", opts.Channel, "MIDI channel")
	flag.IntVar(&opts.DecPatch, "decpatch", opts.DecPatch, "previous-patch CC")
	flag.IntVar(&opts.IncPatch, "incpatch", opts.IncPatch, "next-patch CC")
	flag.IntVar(&opts.BankInc, "bankinc", opts.BankInc, "bank-advance CC")
	flag.StringVar(&opts.AudioDriver, "audiodriver", opts.AudioDriver, "fluidsynth audio driver")
	flag.StringVar(&opts.InstallDir, "dir", opts.InstallDir, "install dir for the FluidPatcher payload")
	flag.StringVar(&opts.UnitDir, "unitdir", opts.UnitDir, "systemd unit dir")
	flag.StringVar(&opts.User, "user", opts.User, "run-as user for the service")
	flag.StringVar(&opts.Python, "python", opts.Python, "python interpreter for the service")
	flag.BoolVar(&reboot, "reboot", false, "reboot when provisioning succeeds")
	flag.BoolVar(&poweroff, "poweroff", false, "power off when provisioning succeeds")
	flag.BoolVar(&logToFile, "log", true, "also log to a file in -logdir")
	flag.StringVar(&logDir, "logdir", "/var/log/fpsetup", "dir for log files")
	flag.Parse()

	if ver {
		fmt.Printf("build %s\n", buildId)
		os.Exit(0)
	}

	log.SetPrefix("fpsetup_")
	log.AddConsoleLog(0)
	if logToFile {
		if _, err := log.AddFileLog(logDir); err != nil {
			log.Logf("file log unavailable: %s", err)
		}
	}
	defer log.Finalize()

	s := provision.NewSession(opts)
	if err := s.Run(); err != nil {
		//fatal: report what succeeded before the abort, then exit non-zero
		log.Fatalf("provisioning aborted: %s (warnings so far: %d)", err, len(s.Warnings()))
	}

	switch {
	case reboot:
		if err := sysd.Reboot(); err != nil {
			log.Logf("reboot: %s", err)
		}
	case poweroff:
		if err := sysd.Poweroff(); err != nil {
			log.Logf("poweroff: %s", err)
		}
	}
}
