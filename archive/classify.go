// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"path/filepath"
	"strings"

	"github.com/choria-io/repack/internal/registry"
	iu "github.com/choria-io/repack/internal/util"
	"github.com/choria-io/repack/model"
)

// Classify finds the format of the archive at path, only existing regular files with a supported extension are archives
func Classify(path string) (model.ArchiveFormat, bool) {
	if !iu.IsRegularFile(path) {
		return nil, false
	}

	f, _, ok := registry.ForFileName(filepath.Base(path))

	return f, ok
}

// IsArchive determines if path is an existing regular file with a supported extension
func IsArchive(path string) bool {
	_, ok := Classify(path)
	return ok
}

// Stem is the file name of path without its archive extension, data.tar.gz has the stem data
func Stem(path string) string {
	base := filepath.Base(path)

	_, ext, ok := registry.ForFileName(base)
	if ok {
		return base[:len(base)-len(ext)-1]
	}

	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DefaultDestination is the directory an archive extracts into when none is given, a sibling of the archive named after its stem
func DefaultDestination(source string) string {
	return filepath.Join(filepath.Dir(source), Stem(source))
}
