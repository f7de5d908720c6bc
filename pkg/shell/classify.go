// Copyright (C) 2021-2024 the Fluidpatcher Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package shell

import "strings"

// Classification of a command's outcome from its diagnostic output,
// independent of the process exit code.
type Class int

const (
	ClassOK Class = iota
	ClassWarning
	ClassFailure
)

func (c Class) String() string {
	switch c {
	case ClassOK:
		return "ok"
	case ClassWarning:
		return "warning"
	case ClassFailure:
		return "failure"
	}
	return "?"
}

// Classify scans each line of captured output for apt's structured
// diagnostic markers: a leading "E:" is an error, a leading "W:" a warning.
// FAILURE if any error line is present, WARNING if only warning lines,
// else OK. apt can exit 0 while reporting partial failure this way, which
// is why output is scanned rather than trusting exit status alone.
func Classify(output string) Class {
	c := ClassOK
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "E:") {
			return ClassFailure
		}
		if strings.HasPrefix(line, "W:") {
			c = ClassWarning
		}
	}
	return c
}
