// Copyright (c) 2025-2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package registry holds the table of archive formats, formats register during package initialization and the table is read only afterwards
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/choria-io/repack/model"
)

var (
	formats    = make(map[string]model.ArchiveFormat)
	extensions = make(map[string]model.ArchiveFormat)
	mu         sync.Mutex
)

// Register registers an archive format
func Register(p any) error {
	switch tp := p.(type) {
	case model.ArchiveFormat:
		return registerFormat(tp)
	default:
		return fmt.Errorf("cannot register format of type %T", p)
	}
}

// MustRegister registers a format and panics if registration fails
func MustRegister(p any) {
	err := Register(p)
	if err != nil {
		panic(err)
	}
}

// NormalizeExtension lower cases ext and strips leading dots
func NormalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimLeft(strings.TrimSpace(ext), "."))
}

// registerFormat adds f to the table, a name or extension can only belong to one format
func registerFormat(f model.ArchiveFormat) error {
	mu.Lock()
	defer mu.Unlock()

	name := strings.ToLower(f.Name())
	if name == "" {
		return fmt.Errorf("format name is required")
	}

	if len(f.Extensions()) == 0 {
		return fmt.Errorf("format %s has no extensions", name)
	}

	_, ok := formats[name]
	if ok {
		return fmt.Errorf("%w: %s", model.ErrDuplicateFormat, name)
	}

	exts := make([]string, 0, len(f.Extensions()))
	for _, e := range f.Extensions() {
		ext := NormalizeExtension(e)
		if ext == "" {
			return fmt.Errorf("format %s has an empty extension", name)
		}

		_, ok = extensions[ext]
		if ok {
			return fmt.Errorf("%w: extension %s", model.ErrDuplicateFormat, ext)
		}

		exts = append(exts, ext)
	}

	formats[name] = f
	for _, ext := range exts {
		extensions[ext] = f
	}

	return nil
}

// Format finds a format by its canonical name
func Format(name string) (model.ArchiveFormat, bool) {
	mu.Lock()
	defer mu.Unlock()

	f, ok := formats[strings.ToLower(strings.TrimSpace(name))]

	return f, ok
}

// ForExtension finds the format owning ext, leading dots are ignored
func ForExtension(ext string) (model.ArchiveFormat, bool) {
	mu.Lock()
	defer mu.Unlock()

	f, ok := extensions[NormalizeExtension(ext)]

	return f, ok
}

// ForFileName finds the format whose extension is the longest suffix of name
func ForFileName(name string) (model.ArchiveFormat, string, bool) {
	mu.Lock()
	defer mu.Unlock()

	lower := strings.ToLower(name)

	var (
		found   model.ArchiveFormat
		matched string
	)

	for ext, f := range extensions {
		if len(ext) <= len(matched) {
			continue
		}

		if strings.HasSuffix(lower, "."+ext) && len(lower) > len(ext)+1 {
			found = f
			matched = ext
		}
	}

	return found, matched, found != nil
}

// Formats returns all registered formats sorted by name
func Formats() []model.ArchiveFormat {
	mu.Lock()
	defer mu.Unlock()

	var res []model.ArchiveFormat
	for _, f := range formats {
		res = append(res, f)
	}

	sort.Slice(res, func(i, j int) bool { return res[i].Name() < res[j].Name() })

	return res
}

// Names returns the sorted list of registered format names
func Names() []string {
	var res []string
	for _, f := range Formats() {
		res = append(res, f.Name())
	}

	return res
}

// Extensions returns the sorted list of every registered extension
func Extensions() []string {
	mu.Lock()
	defer mu.Unlock()

	var res []string
	for ext := range extensions {
		res = append(res, ext)
	}

	sort.Strings(res)

	return res
}
