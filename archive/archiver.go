// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package archive detects, lists, unpacks, recursively unpacks and creates archive files
package archive

import (
	"fmt"

	"github.com/choria-io/repack/model"
)

// Archiver performs archive operations, it holds no per call state and calls on distinct paths may run concurrently
type Archiver struct {
	log            model.Logger
	recursionLimit int
}

// Option is a functional option for configuring the Archiver
type Option func(*Archiver) error

// WithRecursionLimit aborts recursive unpacking deeper than limit layers regardless of the requested depth, 0 disables the limit
func WithRecursionLimit(limit int) Option {
	return func(a *Archiver) error {
		if limit < 0 {
			return fmt.Errorf("recursion limit cannot be negative")
		}

		a.recursionLimit = limit

		return nil
	}
}

// New creates an Archiver logging to log
func New(log model.Logger, opts ...Option) (*Archiver, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	a := &Archiver{log: log}

	for _, opt := range opts {
		err := opt(a)
		if err != nil {
			return nil, err
		}
	}

	return a, nil
}
