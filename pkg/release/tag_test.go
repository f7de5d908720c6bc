// Copyright (C) 2021-2024 the Fluidpatcher Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package release

import "testing"

//func ParseTag(text string) (t Tag, ok bool)
func TestParseTag(t *testing.T) {
	tests := []struct {
		in   string
		raw  string
		nums []int
	}{
		{"v2.3.4", "2.3.4", []int{2, 3, 4}},
		{"FluidSynth runtime version 2.3.4", "2.3.4", []int{2, 3, 4}},
		{"2.4", "2.4", []int{2, 4}},
		{"7", "7", []int{7}},
		{"release-1.0.0-rc1", "1.0.0", []int{1, 0, 0}},
		{"no version here", "", nil},
		{"", "", nil},
	}
	for _, tc := range tests {
		tag, ok := ParseTag(tc.in)
		if tc.raw == "" {
			if ok {
				t.Errorf("ParseTag(%q) ok, want !ok", tc.in)
			}
			continue
		}
		if !ok {
			t.Errorf("ParseTag(%q) !ok", tc.in)
			continue
		}
		if tag.Raw != tc.raw {
			t.Errorf("ParseTag(%q).Raw = %q, want %q", tc.in, tag.Raw, tc.raw)
		}
		if len(tag.Nums) != len(tc.nums) {
			t.Errorf("ParseTag(%q).Nums = %v, want %v", tc.in, tag.Nums, tc.nums)
			continue
		}
		for i := range tc.nums {
			if tag.Nums[i] != tc.nums[i] {
				t.Errorf("ParseTag(%q).Nums = %v, want %v", tc.in, tag.Nums, tc.nums)
				break
			}
		}
	}
}

//the gate triple: absent -> act, equal -> skip, differ -> act
func TestNeedsUpdate(t *testing.T) {
	remote, _ := ParseTag("2.3.4")
	if !NeedsUpdate(nil, remote) {
		t.Error("nothing installed: must update")
	}
	same, _ := ParseTag("2.3.4")
	if NeedsUpdate(&same, remote) {
		t.Error("equal versions: must not update")
	}
	older, _ := ParseTag("2.3.2")
	if !NeedsUpdate(&older, remote) {
		t.Error("differing versions: must update")
	}
	//equality is textual; a "newer" local version still differs
	newer, _ := ParseTag("2.4.0")
	if !NeedsUpdate(&newer, remote) {
		t.Error("differing versions: must update")
	}
}
