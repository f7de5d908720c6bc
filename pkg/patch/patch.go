// Copyright (C) 2021-2024 the Fluidpatcher Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package patch performs idempotent key-based line edits in structured text
// files: the appliance config (yaml) and the headless runtime script.
// Repeated application of the same patch yields identical file content.
package patch

import (
	"fmt"
	"strings"

	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/futil"
	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/log"
)

// A Patch deletes every line keyed by Key and, if NewLine is non-empty,
// inserts it immediately after the Anchor line. Deletion always runs first,
// which is what makes delete-then-insert idempotent by construction.
type Patch struct {
	File string
	//key of the line(s) to remove, e.g. "audio.driver"
	Key string
	//replacement line, complete with indentation; empty means delete only
	NewLine string
	//section header after which NewLine is inserted, e.g. "fluidsettings:"
	Anchor string
}

//a line is keyed if its trimmed content is "key:" or begins with "key:" or
//"key " - yaml mappings and bare keys both match
func keyed(line, key string) bool {
	t := strings.TrimSpace(line)
	if !strings.HasPrefix(t, key) {
		return false
	}
	rest := t[len(key):]
	return rest == "" || rest[0] == ':' || rest[0] == ' ' || rest[0] == '='
}

// Apply performs the patch. Errors (file missing, anchor missing,
// unwritable) are fatal for this patch only; unrelated patches are
// unaffected.
func (p Patch) Apply() error {
	lines, err := futil.ReadLines(p.File)
	if err != nil {
		return fmt.Errorf("patch %s in %s: %s", p.Key, p.File, err)
	}
	var kept []string
	for _, l := range lines {
		if keyed(l, p.Key) {
			continue
		}
		kept = append(kept, l)
	}
	if p.NewLine != "" {
		idx := -1
		for i, l := range kept {
			if strings.TrimSpace(l) == p.Anchor {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("patch %s in %s: anchor %q not found", p.Key, p.File, p.Anchor)
		}
		kept = append(kept[:idx+1], append([]string{p.NewLine}, kept[idx+1:]...)...)
	}
	if err = futil.WriteLines(p.File, kept); err != nil {
		return fmt.Errorf("patch %s in %s: %s", p.Key, p.File, err)
	}
	log.Logf("patched %s: %s", p.File, p.Key)
	return nil
}

// ApplyAll applies each patch independently; a failed patch does not abort
// the others. Returns the errors encountered.
func ApplyAll(patches []Patch) (errs []error) {
	for _, p := range patches {
		if err := p.Apply(); err != nil {
			errs = append(errs, err)
		}
	}
	return
}

// SetParam rewrites the runtime-script line for a fixed label prefix with a
// new integer value, preserving indentation and any trailing comment. Same
// replace-in-place discipline as Apply, keyed by label.
func SetParam(file, label string, value int) error {
	lines, err := futil.ReadLines(file)
	if err != nil {
		return fmt.Errorf("set %s in %s: %s", label, file, err)
	}
	found := false
	for i, l := range lines {
		if !keyed(l, label) {
			continue
		}
		indent := l[:len(l)-len(strings.TrimLeft(l, " \t"))]
		comment := ""
		if ci := strings.Index(l, "#"); ci >= 0 {
			comment = " " + strings.TrimSpace(l[ci:])
		}
		lines[i] = fmt.Sprintf("%s%s = %d%s", indent, label, value, comment)
		found = true
	}
	if !found {
		return fmt.Errorf("set %s in %s: label not found", label, file)
	}
	if err = futil.WriteLines(file, lines); err != nil {
		return fmt.Errorf("set %s in %s: %s", label, file, err)
	}
	log.Logf("set %s = %d in %s", label, value, file)
	return nil
}
