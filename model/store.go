// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package model

// Record is a blob stored under a tag
type Record struct {
	Tag string `json:"tag" cbor:"tag"`
	Obj []byte `json:"obj" cbor:"obj"`
}

// BlobStore stores opaque blobs by tag, there is at most one record per tag
type BlobStore interface {
	// Insert stores obj under tag, replacing any existing record
	Insert(obj []byte, tag string) error
	// Find returns the record for tag or nil when none exist
	Find(tag string) (*Record, error)
	// All returns every record sorted by tag
	All() ([]Record, error)
	// Remove deletes the record for tag, removing an unknown tag is not an error
	Remove(tag string) error
}
