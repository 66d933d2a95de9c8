// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"bytes"
	"sync"

	"github.com/choria-io/repack/model"
)

var _ model.BlobStore = (*MemoryStore)(nil)

// MemoryStore stores records in memory
type MemoryStore struct {
	records map[string][]byte
	log     model.Logger
	mu      sync.Mutex
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore(log model.Logger) (*MemoryStore, error) {
	log.Debug("Creating new blob store", "store", Memory)

	return &MemoryStore{
		records: make(map[string][]byte),
		log:     log,
	}, nil
}

func (s *MemoryStore) Insert(obj []byte, tag string) error {
	err := validateTag(tag)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	observe(Memory, "insert")

	s.records[tag] = bytes.Clone(obj)

	return nil
}

func (s *MemoryStore) Find(tag string) (*model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	observe(Memory, "find")

	obj, ok := s.records[tag]
	if !ok {
		return nil, nil
	}

	return &model.Record{Tag: tag, Obj: bytes.Clone(obj)}, nil
}

func (s *MemoryStore) All() ([]model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	observe(Memory, "all")

	res := make([]model.Record, 0, len(s.records))
	for tag, obj := range s.records {
		res = append(res, model.Record{Tag: tag, Obj: bytes.Clone(obj)})
	}

	sortRecords(res)

	return res, nil
}

func (s *MemoryStore) Remove(tag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	observe(Memory, "remove")

	delete(s.records, tag)

	return nil
}
