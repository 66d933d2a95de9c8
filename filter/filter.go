// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package filter builds scan predicates from expressions like `format == "zip" && size > 1024`
package filter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/choria-io/repack/archive"
	"github.com/choria-io/repack/model"
)

// Env is the environment expressions are evaluated against, one per candidate file
type Env struct {
	// Path is the path to the file as found by the scan
	Path string `expr:"path"`
	// Name is the file name
	Name string `expr:"name"`
	// Dir is the directory holding the file
	Dir string `expr:"dir"`
	// Stem is the name without the archive extension
	Stem string `expr:"stem"`
	// Ext is the archive extension without leading dot, like tar.gz
	Ext string `expr:"ext"`
	// Format is the canonical archive format name
	Format string `expr:"format"`
	// Size is the file size in bytes
	Size int64 `expr:"size"`
	// Mtime is the modification time of the file
	Mtime time.Time `expr:"mtime"`
	// Depth is how many directories below the scan root the file is, files in the root have depth 0
	Depth int `expr:"depth"`
}

// Filter evaluates a compiled expression against files
type Filter struct {
	expression string
	root       string
	program    *vm.Program
	log        model.Logger
}

// New compiles expression, root is the directory being scanned and is used to calculate depth
func New(expression string, root string, log model.Logger) (*Filter, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	f := &Filter{
		expression: strings.TrimSpace(expression),
		root:       root,
		log:        log,
	}

	if f.expression == "" {
		return f, nil
	}

	program, err := expr.Compile(f.expression, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrInvalidFilter, err)
	}

	f.program = program

	return f, nil
}

// Expression is the expression the filter was created with
func (f *Filter) Expression() string {
	return f.expression
}

// NewEnv builds the environment for path
func (f *Filter) NewEnv(path string) (*Env, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	name := filepath.Base(path)
	stem := archive.Stem(path)

	env := &Env{
		Path:  path,
		Name:  name,
		Dir:   filepath.Dir(path),
		Stem:  stem,
		Ext:   strings.TrimPrefix(name[len(stem):], "."),
		Size:  stat.Size(),
		Mtime: stat.ModTime(),
	}

	format, ok := archive.Classify(path)
	if ok {
		env.Format = format.Name()
	}

	if f.root != "" {
		rel, err := filepath.Rel(f.root, env.Dir)
		if err == nil && rel != "." {
			env.Depth = len(strings.Split(filepath.ToSlash(rel), "/"))
		}
	}

	return env, nil
}

// Match evaluates the expression for path, an empty expression matches everything
func (f *Filter) Match(path string) (bool, error) {
	if f.program == nil {
		return true, nil
	}

	env, err := f.NewEnv(path)
	if err != nil {
		return false, err
	}

	res, err := expr.Run(f.program, *env)
	if err != nil {
		return false, fmt.Errorf("could not evaluate filter for %s: %w", path, err)
	}

	matched, ok := res.(bool)
	if !ok {
		return false, fmt.Errorf("%w: expression returned %T", model.ErrInvalidFilter, res)
	}

	return matched, nil
}

// Predicate adapts the filter for use as a scan predicate, files that fail to evaluate do not match
func (f *Filter) Predicate() model.Predicate {
	if f.program == nil {
		return model.AcceptAll
	}

	return func(path string) bool {
		matched, err := f.Match(path)
		if err != nil {
			f.log.Warn("Could not evaluate filter", "path", path, "error", err)
			return false
		}

		return matched
	}
}
