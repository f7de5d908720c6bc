// Copyright (C) 2021-2024 the Fluidpatcher Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

//Package futil contains file helpers shared by the provisioning packages.
package futil

import (
	"fmt"
	"io"
	"net/http"
	"os"
	fp "path/filepath"
	"strings"

	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/log"
)

//true if path exists (file or dir)
func Exists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// CopyFile copies src to dest, creating or truncating dest. Mode of src is
// preserved. extraFlags are OR'd into the open flags for dest (e.g.
// os.O_SYNC).
func CopyFile(src, dest string, extraFlags int) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	fi, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC|extraFlags, fi.Mode())
	if err != nil {
		return err
	}
	_, err = io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err
}

// ReadLines reads a text file and returns its lines, without trailing
// newlines. Used by the patchers, which operate on whole line sequences.
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(data), "\n")
	//a trailing newline yields one empty trailing element; drop it so
	//WriteLines round-trips
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines, nil
}

// WriteLines writes lines to path with trailing newline, preserving the
// file's mode if it exists.
func WriteLines(path string, lines []string) error {
	mode := os.FileMode(0644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode()
	}
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), mode)
}

// Download retrieves url to dest, creating parent dirs. Only http/https
// sources are accepted.
func Download(url, dest string) error {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("url '%s' must be http or https", url)
	}
	if err := os.MkdirAll(fp.Dir(dest), 0777); err != nil {
		return err
	}
	log.Logf("downloading %s", url)
	res, err := http.Get(url)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading %s: http %d", url, res.StatusCode)
	}
	dst, err := os.OpenFile(dest, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return err
	}
	_, err = io.Copy(dst, res.Body)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	return err
}
