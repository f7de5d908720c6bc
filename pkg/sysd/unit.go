// Copyright (C) 2021-2024 the Fluidpatcher Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package sysd renders and installs systemd service units and shells out to
// systemctl for service state. Once a unit is written and enabled, its
// lifecycle belongs to systemd - the provisioner never starts or stops it.
package sysd

import (
	"bytes"
	"fmt"
	"os"
	fp "path/filepath"
	"text/template"

	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/log"
	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/shell"
)

//the entire contract the service manager expects of us
const unitTemplate = `[Unit]
Description={{.Desc}}
After=local-fs.target

[Service]
Type=simple
ExecStart={{.ExecStart}}
WorkingDirectory={{.WorkingDir}}
User={{.User}}
Restart={{.Restart}}

[Install]
WantedBy=multi-user.target
`

// A service to register. Rendered into a unit definition, written once,
// then owned by systemd.
type Unit struct {
	Name       string //unit name without .service suffix
	Desc       string
	ExecStart  string //absolute interpreter path + script path
	WorkingDir string
	User       string
	Restart    string //e.g. "on-failure"
}

// Render substitutes the unit's fields into the fixed template.
func (u *Unit) Render() ([]byte, error) {
	tmpl, err := template.New("unit").Parse(unitTemplate)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err = tmpl.Execute(&buf, u); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Register writes the rendered unit into unitDir (requires elevated
// privilege for the system dir) and enables it for startup. daemon-reload
// runs between the two so systemctl sees a fresh unit file.
func (u *Unit) Register(unitDir string) error {
	data, err := u.Render()
	if err != nil {
		return fmt.Errorf("rendering %s unit: %s", u.Name, err)
	}
	path := fp.Join(unitDir, u.Name+".service")
	if err = os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %s", path, err)
	}
	log.Logf("wrote unit %s", path)
	if res := shell.Run("systemctl", "daemon-reload"); res.Failed() {
		log.Logf("daemon-reload: %s", res.Output)
	}
	res := shell.Run("systemctl", "enable", u.Name+".service")
	if res.Failed() {
		return fmt.Errorf("enabling %s: %s", u.Name, res.Output)
	}
	log.Msgf("Service %s installed and enabled at boot", u.Name)
	//a reprovision may find an older instance still running; we never
	//restart services ourselves
	if IsActive(u.Name + ".service") {
		log.Msgf("Service %s is running; restart it to load the new configuration", u.Name)
	}
	return nil
}
