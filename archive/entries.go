// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	iu "github.com/choria-io/repack/internal/util"
	"github.com/choria-io/repack/model"
)

const defaultDirMode = 0755

// entryName cleans an archive entry name, the empty string means the entry names the archive root
func entryName(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = strings.TrimPrefix(name, "./")
	name = strings.TrimSuffix(name, "/")
	if name == "." {
		return ""
	}

	return name
}

// entryTarget resolves an archive entry name inside target
func entryTarget(target string, name string) (string, error) {
	dest, err := iu.SecureJoin(target, name)
	if err != nil {
		return "", fmt.Errorf("%w: %w", model.ErrUnsafePath, err)
	}

	return dest, nil
}

// entryGuard validates archive entries before anything is written to disk.
//
// Names are checked lexically against the target and against symlinks declared earlier in the same archive, an
// entry can not be placed below, or replace, such a symlink and a symlink can not resolve through another one.
type entryGuard struct {
	target string
	links  map[string]bool
}

func newEntryGuard(target string) *entryGuard {
	return &entryGuard{target: target, links: make(map[string]bool)}
}

// check validates a file or directory entry
func (g *entryGuard) check(name string) error {
	_, err := entryTarget(g.target, name)
	if err != nil {
		return err
	}

	if g.links[name] {
		return fmt.Errorf("%w: %s replaces a symlink", model.ErrUnsafePath, name)
	}

	parts := strings.Split(name, "/")
	for i := 1; i < len(parts); i++ {
		parent := strings.Join(parts[:i], "/")
		if g.links[parent] {
			return fmt.Errorf("%w: %s is below symlink %s", model.ErrUnsafePath, name, parent)
		}
	}

	return nil
}

// checkSymlink validates a symlink entry and records it for later entries
func (g *entryGuard) checkSymlink(name string, link string) error {
	err := g.check(name)
	if err != nil {
		return err
	}

	link = filepath.ToSlash(link)

	switch {
	case link == "":
		return fmt.Errorf("%w: empty symlink target for %s", model.ErrUnsafePath, name)
	case path.IsAbs(link) || filepath.IsAbs(link):
		return fmt.Errorf("%w: symlink %s has absolute target %s", model.ErrUnsafePath, name, link)
	}

	var current []string
	if dir := path.Dir(name); dir != "." {
		current = strings.Split(dir, "/")
	}

	parts := strings.Split(link, "/")
	for i, part := range parts {
		switch part {
		case "", ".":
			continue

		case "..":
			if len(current) == 0 {
				return fmt.Errorf("%w: symlink %s points outside of %s", model.ErrUnsafePath, name, g.target)
			}
			current = current[:len(current)-1]

		default:
			current = append(current, part)
			if i < len(parts)-1 && g.links[strings.Join(current, "/")] {
				return fmt.Errorf("%w: symlink %s resolves through symlink %s", model.ErrUnsafePath, name, strings.Join(current, "/"))
			}
		}
	}

	g.links[name] = true

	return nil
}

// sourceEntry is a file system entry found while walking a directory to archive
type sourceEntry struct {
	path string
	name string
	info fs.FileInfo
	link string
}

// walkSource visits every entry below root in lexical order, the root itself and the path skip are not visited
func walkSource(ctx context.Context, root string, skip string, cb func(entry *sourceEntry) error) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	return filepath.WalkDir(absRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		if p == absRoot || (skip != "" && p == skip) {
			return nil
		}

		rel, err := filepath.Rel(absRoot, p)
		if err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		entry := &sourceEntry{path: p, name: filepath.ToSlash(rel), info: info}

		if info.Mode()&fs.ModeSymlink != 0 {
			entry.link, err = os.Readlink(p)
			if err != nil {
				return err
			}
		}

		return cb(entry)
	})
}
