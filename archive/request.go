// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ExtractionRequest describes a single unpack operation
type ExtractionRequest struct {
	// Source is the archive to unpack
	Source string
	// Destination is the directory to unpack into, defaults to a sibling of Source named after its stem
	Destination string
	// KeepSource retains Source after unpacking, defaults to true
	KeepSource bool
	// MaxDepth bounds recursive unpacking, nil means unbounded and 1 only unpacks Source
	MaxDepth *int
}

// UnpackOption configures an ExtractionRequest
type UnpackOption func(*ExtractionRequest) error

// WithDestination sets the directory to unpack into
func WithDestination(dir string) UnpackOption {
	return func(r *ExtractionRequest) error {
		r.Destination = dir
		return nil
	}
}

// WithKeepSource determines if the source archive is kept after unpacking
func WithKeepSource(keep bool) UnpackOption {
	return func(r *ExtractionRequest) error {
		r.KeepSource = keep
		return nil
	}
}

// WithMaxDepth bounds how many layers of nested archives are unpacked
func WithMaxDepth(depth int) UnpackOption {
	return func(r *ExtractionRequest) error {
		if depth < 0 {
			return fmt.Errorf("depth cannot be negative")
		}

		r.MaxDepth = &depth

		return nil
	}
}

// NewExtractionRequest creates a request for source with defaults applied
func NewExtractionRequest(source string, opts ...UnpackOption) (*ExtractionRequest, error) {
	if source == "" {
		return nil, fmt.Errorf("source archive is required")
	}

	r := &ExtractionRequest{
		Source:     source,
		KeepSource: true,
	}

	for _, opt := range opts {
		err := opt(r)
		if err != nil {
			return nil, err
		}
	}

	if r.Destination == "" {
		r.Destination = DefaultDestination(r.Source)
	}

	return r, nil
}

// child is the request for an archive found inside the result of r, nested archives unpack in place and are always removed
func (r *ExtractionRequest) child(source string) *ExtractionRequest {
	c := &ExtractionRequest{
		Source:      source,
		Destination: filepath.Dir(source),
		KeepSource:  false,
	}

	if r.MaxDepth != nil {
		d := *r.MaxDepth - 1
		c.MaxDepth = &d
	}

	return c
}

// PackRequest describes a single pack operation
type PackRequest struct {
	// SourceDirectory is the directory whose contents are archived
	SourceDirectory string
	// Format is a format name or extension, defaults to DefaultFormat
	Format string
	// OutputDirectory receives the archive, defaults to the parent of SourceDirectory or the working directory
	OutputDirectory string
}

// PackOption configures a PackRequest
type PackOption func(*PackRequest) error

// WithFormat sets the archive format by name or extension
func WithFormat(format string) PackOption {
	return func(r *PackRequest) error {
		r.Format = format
		return nil
	}
}

// WithOutputDirectory sets the directory the archive is written to
func WithOutputDirectory(dir string) PackOption {
	return func(r *PackRequest) error {
		r.OutputDirectory = dir
		return nil
	}
}

// NewPackRequest creates a request for dir with defaults applied
func NewPackRequest(dir string, opts ...PackOption) (*PackRequest, error) {
	if dir == "" {
		return nil, fmt.Errorf("source directory is required")
	}

	r := &PackRequest{
		SourceDirectory: filepath.Clean(dir),
		Format:          DefaultFormat,
	}

	for _, opt := range opts {
		err := opt(r)
		if err != nil {
			return nil, err
		}
	}

	if r.Format == "" {
		r.Format = DefaultFormat
	}

	if r.OutputDirectory == "" {
		parent := filepath.Dir(r.SourceDirectory)
		if parent != "." {
			r.OutputDirectory = parent
		}
	}

	return r, nil
}

// ArtifactName is the file name of the archive created for r using extension ext, named after the stem of the source directory
func (r *PackRequest) ArtifactName(ext string) string {
	base := filepath.Base(r.SourceDirectory)
	if base == "." || base == ".." || base == string(filepath.Separator) {
		abs, err := filepath.Abs(r.SourceDirectory)
		if err == nil && filepath.Base(abs) != string(filepath.Separator) {
			base = filepath.Base(abs)
		}
	}

	// only the final extension is dropped so data.v1 packs to data.zip
	if stem := strings.TrimSuffix(base, filepath.Ext(base)); stem != "" {
		base = stem
	}

	return base + "." + ext
}
