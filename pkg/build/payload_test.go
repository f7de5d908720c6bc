// Copyright (C) 2021-2024 the Fluidpatcher Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package build

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"errors"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"

	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/log/testlog"
)

//a gzipped tarball with a single top-level dir, github archive style
func payloadArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for rel, content := range files {
		hdr := &tar.Header{
			Name: "fluidpatcher-master/" + rel,
			Mode: 0644,
			Size: int64(len(content)),
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

//end to end with a real extraction
func TestPayloadRun(t *testing.T) {
	if _, err := exec.LookPath("tar"); err != nil {
		t.Skip("tar not available")
	}
	tlog := testlog.NewTestLog(t, true, false)
	defer tlog.Freeze()

	archive := payloadArchive(t, map[string]string{
		"headlesspi.py":      "print('new code')\n",
		"banks/default.yaml": "patches: {}\n",
	})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(archive)
	}))
	defer srv.Close()

	dest := t.TempDir()
	writeTree(t, dest, map[string]string{
		"banks/default.yaml": "patches: {user-edited}\n",
	})

	p := &Payload{Name: "fluidpatcher", ArchiveURL: srv.URL, Dest: dest}
	if err := p.Run(); err != nil {
		t.Fatal(err)
	}
	if got := readTree(t, dest, "headlesspi.py"); got != "print('new code')\n" {
		t.Errorf("code not installed: %q", got)
	}
	if got := readTree(t, dest, "banks/default.yaml"); got != "patches: {user-edited}\n" {
		t.Errorf("user bank file overwritten: %q", got)
	}
}

func TestPayloadFetchFailure(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	defer tlog.Freeze()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := &Payload{Name: "fluidpatcher", ArchiveURL: srv.URL, Dest: t.TempDir()}
	if err := p.Run(); !errors.Is(err, ErrFetch) {
		t.Errorf("err = %v, want ErrFetch", err)
	}
}
