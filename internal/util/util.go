// Copyright (c) 2025, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"
)

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func IsDirectory(path string) bool {
	stat, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false
	}
	if stat == nil {
		return false
	}

	return stat.IsDir()
}

// IsRegularFile determines if path is a regular file, symlinks are followed
func IsRegularFile(path string) bool {
	stat, err := os.Stat(path)
	if err != nil {
		return false
	}

	return stat.Mode().IsRegular()
}

// FileHasSuffix checks, case insensitive, if name ends in any of the suffixes
func FileHasSuffix(name string, suffixes ...string) bool {
	lower := strings.ToLower(name)
	for _, s := range suffixes {
		if strings.HasSuffix(lower, strings.ToLower(s)) {
			return true
		}
	}

	return false
}

// SecureJoin joins name onto root and ensures the result stays inside root
func SecureJoin(root string, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty name")
	}

	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return "", fmt.Errorf("absolute path %q", name)
	}

	joined := filepath.Join(root, filepath.FromSlash(name))
	if !IsWithin(root, joined) {
		return "", fmt.Errorf("%q escapes %q", name, root)
	}

	return joined, nil
}

// IsWithin determines if path is root or lexically inside root
func IsWithin(root string, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return false
	}

	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// RelativeToWorkingDirectory expresses path relative to the working directory when it is below it, otherwise the absolute path is returned
func RelativeToWorkingDirectory(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	if !IsWithin(cwd, abs) {
		return abs, nil
	}

	return filepath.Rel(cwd, abs)
}

// WriteFileAtomic writes data to a temporary file next to path and renames it into place
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	tf, err := os.CreateTemp(filepath.Dir(path), fmt.Sprintf(".%s-*", filepath.Base(path)))
	if err != nil {
		return err
	}
	defer os.Remove(tf.Name())

	_, err = tf.Write(data)
	if err != nil {
		tf.Close()
		return err
	}

	err = tf.Chmod(perm)
	if err != nil {
		tf.Close()
		return err
	}

	err = tf.Close()
	if err != nil {
		return err
	}

	return os.Rename(tf.Name(), path)
}

// IsTerminal determines if standard output is a terminal
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
