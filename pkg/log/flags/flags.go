// Copyright (C) 2021-2024 the Fluidpatcher Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package flags

import "strings"

type Flag int

const (
	NA Flag = 0

	//ok to display message to end user
	EndUser Flag = 1 << (iota - 1)
	//logging a fatal error
	Fatal
	//do not write to local file log
	NotFile
)

func (f Flag) String() string {
	switch f {
	case NA:
		return ""
	case EndUser:
		return "user"
	case Fatal:
		return "fatal"
	case NotFile:
		return "not file"
	}
	for _, bit := range []Flag{EndUser, Fatal, NotFile} {
		if f&bit > 0 {
			return strings.Join([]string{bit.String(), (f &^ bit).String()}, "|")
		}
	}
	return "?"
}
