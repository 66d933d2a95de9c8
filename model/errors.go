// Copyright (c) 2025-2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"errors"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported archive format")
	ErrDuplicateFormat   = errors.New("archive format already registered")
	ErrUnsafePath        = errors.New("unsafe path in archive")
	ErrRecursionLimit    = errors.New("recursion limit reached")
	ErrInvalidPattern    = errors.New("invalid glob pattern")
	ErrNotDirectory      = errors.New("not a directory")
	ErrInvalidTag        = errors.New("invalid tag")
	ErrUnknownStore      = errors.New("unknown store type")
	ErrInvalidFilter     = errors.New("invalid filter expression")
)
