// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package serializer encodes Go values to bytes and keeps them by tag in a blob store
package serializer

import (
	"fmt"

	"github.com/choria-io/repack/internal/codec"
	"github.com/choria-io/repack/model"
)

// Serializer encodes values using CBOR and stores them in a model.BlobStore
type Serializer struct {
	db  model.BlobStore
	log model.Logger
}

// New creates a Serializer storing values in db
func New(db model.BlobStore, log model.Logger) (*Serializer, error) {
	if db == nil {
		return nil, fmt.Errorf("store is required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &Serializer{db: db, log: log}, nil
}

// Dumps encodes v
func (s *Serializer) Dumps(v any) ([]byte, error) {
	data, err := codec.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("could not encode %T: %w", v, err)
	}

	return data, nil
}

// Loads decodes data into v, v must be a pointer
func (s *Serializer) Loads(data []byte, v any) error {
	err := codec.Unmarshal(data, v)
	if err != nil {
		return fmt.Errorf("could not decode into %T: %w", v, err)
	}

	return nil
}

// Dump encodes v and stores it under tag replacing any earlier value
func (s *Serializer) Dump(v any, tag string) error {
	data, err := s.Dumps(v)
	if err != nil {
		return err
	}

	s.log.Debug("Storing object", "tag", tag, "type", fmt.Sprintf("%T", v), "size", len(data))

	return s.db.Insert(data, tag)
}

// Load decodes the value stored under tag into v, false is returned when no value is stored under tag
func (s *Serializer) Load(tag string, v any) (bool, error) {
	rec, err := s.db.Find(tag)
	if err != nil {
		return false, err
	}
	if rec == nil {
		return false, nil
	}

	return true, s.Loads(rec.Obj, v)
}

// Find returns the raw record stored under tag, nil when none exist
func (s *Serializer) Find(tag string) (*model.Record, error) {
	return s.db.Find(tag)
}

// All returns every stored record sorted by tag
func (s *Serializer) All() ([]model.Record, error) {
	return s.db.All()
}

// Tags lists the tags of every stored record
func (s *Serializer) Tags() ([]string, error) {
	all, err := s.db.All()
	if err != nil {
		return nil, err
	}

	tags := make([]string, len(all))
	for i, r := range all {
		tags[i] = r.Tag
	}

	return tags, nil
}

// Remove deletes the value stored under tag
func (s *Serializer) Remove(tag string) error {
	s.log.Debug("Removing object", "tag", tag)

	return s.db.Remove(tag)
}
