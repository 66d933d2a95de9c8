// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tidwall/gjson"

	iu "github.com/choria-io/repack/internal/util"
	"github.com/choria-io/repack/model"
)

var _ model.BlobStore = (*DocumentStore)(nil)

// DocumentStore stores all records in a single JSON document of the form {"records":[{"tag":"","obj":""}]}
type DocumentStore struct {
	path string
	log  model.Logger
	mu   sync.Mutex
}

type document struct {
	Records []model.Record `json:"records"`
}

// NewDocumentStore creates a store backed by the JSON document at path, a .json suffix is added when missing
func NewDocumentStore(path string, log model.Logger) (*DocumentStore, error) {
	if path == "" {
		return nil, fmt.Errorf("document path cannot be empty")
	}

	if !strings.EqualFold(filepath.Ext(path), ".json") {
		path += ".json"
	}

	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve document path: %w", err)
	}

	err = os.MkdirAll(filepath.Dir(abs), 0755)
	if err != nil {
		return nil, fmt.Errorf("could not create directory for %s: %w", abs, err)
	}

	s := &DocumentStore{path: abs, log: log}

	// refuse to later overwrite a file that is not ours
	_, err = s.read()
	if err != nil {
		return nil, err
	}

	log.Debug("Creating new blob store", "store", Document, "path", abs)

	return s, nil
}

// Path is the location of the document
func (s *DocumentStore) Path() string {
	return s.path
}

func (s *DocumentStore) read() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []byte(`{"records":[]}`), nil
	}
	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return []byte(`{"records":[]}`), nil
	}

	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%s is not a valid JSON document", s.path)
	}

	return data, nil
}

func (s *DocumentStore) records() ([]model.Record, error) {
	data, err := s.read()
	if err != nil {
		return nil, err
	}

	var doc document
	err = json.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("could not parse %s: %w", s.path, err)
	}

	return doc.Records, nil
}

func (s *DocumentStore) write(records []model.Record) error {
	sortRecords(records)

	data, err := json.MarshalIndent(document{Records: records}, "", "  ")
	if err != nil {
		return err
	}

	return iu.WriteFileAtomic(s.path, data, 0600)
}

func (s *DocumentStore) Insert(obj []byte, tag string) error {
	err := validateTag(tag)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	observe(Document, "insert")

	records, err := s.records()
	if err != nil {
		return err
	}

	found := false
	for i := range records {
		if records[i].Tag == tag {
			records[i].Obj = obj
			found = true
			break
		}
	}
	if !found {
		records = append(records, model.Record{Tag: tag, Obj: obj})
	}

	s.log.Debug("Storing record", "tag", tag, "path", s.path)

	return s.write(records)
}

func (s *DocumentStore) Find(tag string) (*model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	observe(Document, "find")

	data, err := s.read()
	if err != nil {
		return nil, err
	}

	var res *model.Record
	gjson.GetBytes(data, "records").ForEach(func(_, value gjson.Result) bool {
		if value.Get("tag").String() != tag {
			return true
		}

		res = &model.Record{}
		err = json.Unmarshal([]byte(value.Raw), res)

		return false
	})
	if err != nil {
		return nil, fmt.Errorf("could not parse record %s in %s: %w", tag, s.path, err)
	}

	return res, nil
}

func (s *DocumentStore) All() ([]model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	observe(Document, "all")

	records, err := s.records()
	if err != nil {
		return nil, err
	}

	if records == nil {
		records = []model.Record{}
	}

	sortRecords(records)

	return records, nil
}

func (s *DocumentStore) Remove(tag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	observe(Document, "remove")

	records, err := s.records()
	if err != nil {
		return err
	}

	kept := make([]model.Record, 0, len(records))
	for _, r := range records {
		if r.Tag != tag {
			kept = append(kept, r)
		}
	}

	if len(kept) == len(records) {
		return nil
	}

	s.log.Debug("Removing record", "tag", tag, "path", s.path)

	return s.write(kept)
}
