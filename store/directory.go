// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/zeebo/blake3"

	"github.com/choria-io/repack/internal/codec"
	iu "github.com/choria-io/repack/internal/util"
	"github.com/choria-io/repack/model"
)

var _ model.BlobStore = (*DirectoryStore)(nil)

const blobSuffix = ".blob"

// DirectoryStore stores every record as a CBOR file named after the digest of its tag
type DirectoryStore struct {
	directory string
	log       model.Logger
	mu        sync.Mutex
}

// NewDirectoryStore creates a store in directory, creating it when needed
func NewDirectoryStore(directory string, log model.Logger) (*DirectoryStore, error) {
	if directory == "" {
		return nil, fmt.Errorf("store directory path cannot be empty")
	}

	absDir, err := filepath.Abs(filepath.Clean(directory))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory path: %w", err)
	}

	if iu.FileExists(absDir) && !iu.IsDirectory(absDir) {
		return nil, fmt.Errorf("%w: %s", model.ErrNotDirectory, absDir)
	}

	err = os.MkdirAll(absDir, 0700)
	if err != nil {
		return nil, fmt.Errorf("could not create store directory %s: %w", absDir, err)
	}

	log.Debug("Creating new blob store", "store", Directory, "directory", absDir)

	return &DirectoryStore{directory: absDir, log: log}, nil
}

// Directory is the location of the store
func (s *DirectoryStore) Directory() string {
	return s.directory
}

// fileName is the file holding tag, tags are hashed so any tag is a safe file name
func (s *DirectoryStore) fileName(tag string) string {
	sum := blake3.Sum256([]byte(tag))
	return filepath.Join(s.directory, hex.EncodeToString(sum[:])+blobSuffix)
}

func (s *DirectoryStore) readRecord(path string) (*model.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	rec := &model.Record{}
	err = codec.Unmarshal(data, rec)
	if err != nil {
		return nil, fmt.Errorf("could not decode %s: %w", path, err)
	}

	return rec, nil
}

func (s *DirectoryStore) Insert(obj []byte, tag string) error {
	err := validateTag(tag)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	observe(Directory, "insert")

	data, err := codec.Marshal(model.Record{Tag: tag, Obj: obj})
	if err != nil {
		return err
	}

	fname := s.fileName(tag)
	s.log.Debug("Storing record", "tag", tag, "filename", fname)

	return iu.WriteFileAtomic(fname, data, 0600)
}

func (s *DirectoryStore) Find(tag string) (*model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	observe(Directory, "find")

	rec, err := s.readRecord(s.fileName(tag))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return rec, nil
}

func (s *DirectoryStore) All() ([]model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	observe(Directory, "all")

	files, err := filepath.Glob(filepath.Join(s.directory, "*"+blobSuffix))
	if err != nil {
		return nil, err
	}

	res := make([]model.Record, 0, len(files))
	for _, f := range files {
		rec, err := s.readRecord(f)
		if err != nil {
			return nil, err
		}

		res = append(res, *rec)
	}

	sortRecords(res)

	return res, nil
}

func (s *DirectoryStore) Remove(tag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	observe(Directory, "remove")

	err := os.Remove(s.fileName(tag))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return nil
}
