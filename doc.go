// Copyright (C) 2021-2024 the Fluidpatcher Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Subpackages contain code to provision a FluidPatcher sound appliance
// (SquishBox) on a Raspberry Pi: installing apt packages, rebuilding
// FluidSynth from source when the installed version is stale, fetching and
// merging the FluidPatcher payload, patching the appliance configuration and
// the headless runtime script, and registering the squishbox systemd unit.
//
// The orchestrator is deliberately tolerant of partial failure: index
// refreshes, system upgrades, and optional package installs degrade to
// warnings so that provisioning of an unattended appliance runs to completion
// whenever possible. Only required package installs and file patches that
// cannot be applied abort the run.
//
// Build the provisioner with `go build ./cmd/fpsetup`.
package fluidpatcher
