// Copyright (C) 2021-2024 the Fluidpatcher Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package build

import (
	"fmt"
	"os"
	fp "path/filepath"

	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/futil"
	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/log"
	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/shell"
)

// The application payload: fetched as an archive and merged into the install
// dir. Files matching Preserve patterns are user-owned data - bank files,
// configs - and are only copied when absent at the destination. Everything
// else is unconditionally overwritten, so a rerun updates code/assets but
// keeps user customizations.
type Payload struct {
	Name       string
	ArchiveURL string
	Dest       string
	//fp.Match patterns applied to the base name; default PreserveYaml
	Preserve []string
}

//user-owned data is identified by its structured-config extension
var PreserveYaml = []string{"*.yaml"}

// Run fetches and extracts the payload archive to a temp dir, then merges
// it into p.Dest. The temp dir is removed on every exit path.
func (p *Payload) Run() error {
	workdir, err := os.MkdirTemp("", p.Name)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrFetch, err)
	}
	defer os.RemoveAll(workdir)

	archive := fp.Join(workdir, p.Name+".tar.gz")
	if err = futil.Download(p.ArchiveURL, archive); err != nil {
		return fmt.Errorf("%w: %s", ErrFetch, err)
	}
	srcdir := fp.Join(workdir, "src")
	if err = os.MkdirAll(srcdir, 0777); err != nil {
		return fmt.Errorf("%w: %s", ErrFetch, err)
	}
	res := shell.Run("tar", "xzf", archive, "-C", srcdir, "--strip-components=1")
	if res.Failed() {
		return fmt.Errorf("%w: extracting %s: %s", ErrFetch, archive, res.Output)
	}
	return Merge(srcdir, p.Dest, p.preserve())
}

func (p *Payload) preserve() []string {
	if len(p.Preserve) == 0 {
		return PreserveYaml
	}
	return p.Preserve
}

// Merge walks the tree rooted at src, copying into dest. Files whose base
// name matches a preserve pattern are copied only if absent at the
// destination; all others are overwritten. Idempotent: rerunning against an
// unchanged src changes nothing the user owns.
func Merge(src, dest string, preserve []string) error {
	var walker fp.WalkFunc = func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := fp.Rel(src, path)
		if err != nil {
			return err
		}
		target := fp.Join(dest, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0777)
		}
		if matchAny(preserve, info.Name()) && futil.Exists(target) {
			log.Logf("preserving user file %s", target)
			return nil
		}
		return futil.CopyFile(path, target, 0)
	}
	return fp.Walk(src, walker)
}

func matchAny(patterns []string, name string) bool {
	for _, pat := range patterns {
		if ok, _ := fp.Match(pat, name); ok {
			return true
		}
	}
	return false
}
