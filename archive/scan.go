// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/choria-io/repack/metrics"
	"github.com/choria-io/repack/model"
)

// DefaultPattern matches every entry at any depth
const DefaultPattern = "**/*"

// ScanOption configures Scan
type ScanOption func(*scanOptions) error

type scanOptions struct {
	pattern   string
	predicate model.Predicate
}

// ValidatePattern checks that pattern is a valid doublestar glob
func ValidatePattern(pattern string) error {
	if !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("%w: %q", model.ErrInvalidPattern, pattern)
	}

	return nil
}

// WithPattern sets the doublestar glob evaluated relative to the scanned root
func WithPattern(pattern string) ScanOption {
	return func(o *scanOptions) error {
		if pattern == "" {
			pattern = DefaultPattern
		}

		err := ValidatePattern(pattern)
		if err != nil {
			return err
		}

		o.pattern = pattern

		return nil
	}
}

// WithPredicate sets an additional condition every result has to pass
func WithPredicate(p model.Predicate) ScanOption {
	return func(o *scanOptions) error {
		if p == nil {
			p = model.AcceptAll
		}

		o.predicate = p

		return nil
	}
}

// Scan lists the archives below root matching the pattern and predicate, results are sorted
func Scan(root string, opts ...ScanOption) ([]string, error) {
	start := time.Now()
	defer func() { metrics.ScanTime.WithLabelValues().Observe(time.Since(start).Seconds()) }()

	o := &scanOptions{
		pattern:   DefaultPattern,
		predicate: model.AcceptAll,
	}

	for _, opt := range opts {
		err := opt(o)
		if err != nil {
			return nil, err
		}
	}

	stat, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("could not scan %s: %w", root, err)
	}
	if !stat.IsDir() {
		return nil, fmt.Errorf("%w: %s", model.ErrNotDirectory, root)
	}

	matches, err := doublestar.Glob(os.DirFS(root), o.pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrInvalidPattern, err)
	}

	var res []string
	for _, m := range matches {
		p := filepath.Join(root, filepath.FromSlash(m))
		if IsArchive(p) && o.predicate(p) {
			res = append(res, p)
		}
	}

	sort.Strings(res)

	return res, nil
}
