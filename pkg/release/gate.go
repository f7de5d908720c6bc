// Copyright (C) 2021-2024 the Fluidpatcher Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package release

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/log"
	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/shell"
)

//the only field consumed from the release API payload
type releaseDescriptor struct {
	TagName string `json:"tag_name"`
}

// Latest fetches a release descriptor (github releases/latest format) and
// extracts its version tag.
func Latest(url string) (Tag, error) {
	log.Logf("fetching release descriptor %s", url)
	res, err := http.Get(url)
	if err != nil {
		return Tag{}, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return Tag{}, fmt.Errorf("release descriptor %s: http %d", url, res.StatusCode)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return Tag{}, err
	}
	var rd releaseDescriptor
	if err = json.Unmarshal(body, &rd); err != nil {
		return Tag{}, fmt.Errorf("release descriptor %s: %s", url, err)
	}
	t, ok := ParseTag(rd.TagName)
	if !ok {
		return Tag{}, fmt.Errorf("no version in release tag %q", rd.TagName)
	}
	return t, nil
}

// Installed runs a local command (e.g. "fluidsynth --version") and extracts
// a version tag from its output. Returns nil if the command fails or its
// output contains no version - meaning "not installed".
func Installed(cmdline string) *Tag {
	res := shell.RunLine(cmdline)
	if res.Failed() {
		return nil
	}
	t, ok := ParseTag(res.Output)
	if !ok {
		return nil
	}
	return &t
}

// NeedsUpdate is true if nothing is installed locally or the installed
// version differs textually from the remote one.
func NeedsUpdate(local *Tag, remote Tag) bool {
	return local == nil || !local.Equal(remote)
}

// Stale combines the local and remote extractions into the gate decision.
// On any remote extraction failure it conservatively returns true, so a
// later explicit install attempt can still fail loudly if the source is
// genuinely unreachable.
func Stale(localCmd, releaseURL string) (stale bool, remote Tag) {
	remote, err := Latest(releaseURL)
	if err != nil {
		log.Logf("release check failed, assuming update needed: %s", err)
		return true, remote
	}
	local := Installed(localCmd)
	if local != nil {
		log.Logf("installed version %s, latest release %s", local, remote)
	} else {
		log.Logf("no installed version found, latest release %s", remote)
	}
	return NeedsUpdate(local, remote), remote
}
