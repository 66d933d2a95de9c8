// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"context"
)

// ArchiveFormat is a named archive encoding that can read and write files with one of its extensions
type ArchiveFormat interface {
	// Name is the canonical format name like zip or gztar
	Name() string
	// Extensions are the recognized file name extensions without leading dot, the first is used when creating archives
	Extensions() []string
	// Extract expands the archive at source into the existing directory target and returns the number of entries written
	Extract(ctx context.Context, source string, target string, log Logger) (int, error)
	// Create writes the contents of the directory source into the archive file target, entries named skip are not archived
	Create(ctx context.Context, source string, target string, skip string, log Logger) (int, error)
}

// Predicate decides if a path should be included in a result
type Predicate func(path string) bool

// AcceptAll is the default Predicate and accepts every path
var AcceptAll Predicate = func(string) bool { return true }
