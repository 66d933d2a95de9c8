// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/choria-io/repack/model"
)

// Result summarizes a recursive unpack
type Result struct {
	// Destination is where the outer archive was extracted
	Destination string `json:"destination"`
	// Archives lists every archive that was unpacked in the order they were unpacked
	Archives []string `json:"archives"`
	// Entries is the total number of entries written across all archives
	Entries int `json:"entries"`
}

// UnpackRecursive extracts source and then every archive found in the extracted tree, layer by layer.
//
// Nested archives extract into their own parent directory and are always removed afterward, only the outer source
// honors WithKeepSource. Without WithMaxDepth unpacking continues until a layer has no more archives. The first error
// stops the process and leaves whatever was already extracted on disk.
func (a *Archiver) UnpackRecursive(ctx context.Context, source string, opts ...UnpackOption) (*Result, error) {
	req, err := NewExtractionRequest(source, opts...)
	if err != nil {
		return nil, err
	}

	res := &Result{Destination: req.Destination}

	err = a.unpackRecursive(ctx, req, 1, res)

	return res, err
}

func (a *Archiver) unpackRecursive(ctx context.Context, req *ExtractionRequest, layer int, res *Result) error {
	if a.recursionLimit > 0 && layer > a.recursionLimit {
		return fmt.Errorf("%w: %s is %d layers deep, limit is %d", model.ErrRecursionLimit, req.Source, layer, a.recursionLimit)
	}

	entries, err := a.unpack(ctx, req)
	if err != nil {
		return err
	}

	res.Archives = append(res.Archives, req.Source)
	res.Entries += entries

	if req.MaxDepth != nil && *req.MaxDepth <= 1 {
		return nil
	}

	nested, err := Scan(req.Destination)
	if err != nil {
		return err
	}

	self, _ := filepath.Abs(req.Source)

	for _, n := range nested {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		abs, _ := filepath.Abs(n)
		if abs == self {
			continue
		}

		// siblings extract into the same directory so a deeper layer might already have consumed this one
		if !IsArchive(n) {
			a.log.Debug("Skipping archive that no longer exists", "archive", n)
			continue
		}

		err = a.unpackRecursive(ctx, req.child(n), layer+1, res)
		if err != nil {
			return err
		}
	}

	return nil
}
