// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package store keeps opaque blobs by tag in memory, in a JSON document or in a directory of files
package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/choria-io/repack/metrics"
	"github.com/choria-io/repack/model"
)

const (
	// Memory keeps records in process memory only
	Memory = "memory"
	// Document keeps all records in a single JSON document
	Document = "document"
	// Directory keeps every record in its own file
	Directory = "directory"
)

// Kinds lists the supported store types
var Kinds = []string{Directory, Document, Memory}

// New creates a store of kind, path is the document or directory and is ignored for memory stores
func New(kind string, path string, log model.Logger) (model.BlobStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	switch strings.ToLower(kind) {
	case Memory, "":
		return NewMemoryStore(log)
	case Document:
		return NewDocumentStore(path, log)
	case Directory:
		return NewDirectoryStore(path, log)
	default:
		return nil, fmt.Errorf("%w: %s, valid types are %s", model.ErrUnknownStore, kind, strings.Join(Kinds, ", "))
	}
}

func validateTag(tag string) error {
	if strings.TrimSpace(tag) == "" {
		return fmt.Errorf("%w: tag cannot be empty", model.ErrInvalidTag)
	}

	return nil
}

func sortRecords(records []model.Record) {
	sort.Slice(records, func(i, j int) bool { return records[i].Tag < records[j].Tag })
}

func observe(kind string, op string) {
	metrics.StoreOperationCount.WithLabelValues(kind, op).Inc()
}
