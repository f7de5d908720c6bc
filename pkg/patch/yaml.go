// Copyright (C) 2021-2024 the Fluidpatcher Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package patch

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Validate parses the target file as yaml. Called after applying patches to
// a structured config - line edits must not corrupt the document.
func Validate(file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	var doc map[string]interface{}
	if err = yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%s is not valid yaml after patching: %s", file, err)
	}
	return nil
}

// Setting returns the value of a key under the fluidsettings section of the
// appliance config, or ok=false if absent.
func Setting(file, key string) (val string, ok bool) {
	data, err := os.ReadFile(file)
	if err != nil {
		return
	}
	var doc struct {
		Fluidsettings map[string]interface{} `yaml:"fluidsettings"`
	}
	if err = yaml.Unmarshal(data, &doc); err != nil {
		return
	}
	v, ok := doc.Fluidsettings[key]
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%v", v), true
}
