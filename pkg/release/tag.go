// Copyright (C) 2021-2024 the Fluidpatcher Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package release compares installed artifact versions against published
// release versions to decide whether provisioning needs to act. Extraction
// tolerates absence - a missing artifact or unreachable release API is
// "not installed"/"assume stale", never a fatal error - so staleness checks
// cannot block the rest of provisioning.
package release

import (
	"regexp"
	"strconv"
	"strings"
)

//first run of digits and dots in free text, e.g. "2.3.4" out of "v2.3.4" or
//"FluidSynth runtime version 2.3.4"
var tagRe = regexp.MustCompile(`[0-9]+(\.[0-9]+)*`)

// A version extracted from free text. Equality of Raw is the only comparison
// the orchestrator needs: equal means skip, not-equal means act.
type Tag struct {
	Raw  string
	Nums []int
}

// ParseTag extracts the first numeric/dot run from text. ok is false if no
// version-like run is present.
func ParseTag(text string) (t Tag, ok bool) {
	raw := tagRe.FindString(text)
	if raw == "" {
		return
	}
	t.Raw = raw
	for _, part := range strings.Split(raw, ".") {
		n, err := strconv.Atoi(part)
		if err != nil {
			return Tag{}, false
		}
		t.Nums = append(t.Nums, n)
	}
	return t, true
}

func (t Tag) Equal(other Tag) bool { return t.Raw == other.Raw }

func (t Tag) String() string { return t.Raw }
