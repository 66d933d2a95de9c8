// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"time"

	"github.com/segmentio/ksuid"
)

// Report records the outcome of a single pack or unpack operation
type Report struct {
	// ID is a ksuid, ordering IDs orders reports by start time
	ID string `json:"id" yaml:"id"`
	// Operation is the operation performed like unpack or pack
	Operation string `json:"operation" yaml:"operation"`
	// Source is the archive or directory that was operated on
	Source string `json:"source" yaml:"source"`
	// Result is the directory or archive that was produced
	Result string `json:"result,omitempty" yaml:"result,omitempty"`
	// Format is the archive format involved
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
	// Archives lists every archive unpacked in a recursive operation
	Archives []string `json:"archives,omitempty" yaml:"archives,omitempty"`
	// Entries is how many archive entries were read or written
	Entries int `json:"entries" yaml:"entries"`
	// Started is when the operation began
	Started time.Time `json:"started" yaml:"started"`
	// Duration is how long the operation took
	Duration time.Duration `json:"duration" yaml:"duration"`
	// Error is the error the operation failed with
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewReport starts a report for operation on source
func NewReport(operation string, source string) *Report {
	now := time.Now()

	return &Report{
		ID:        ksuid.New().String(),
		Operation: operation,
		Source:    source,
		Started:   now,
	}
}

// Finish records the duration and err, if any
func (r *Report) Finish(err error) {
	r.Duration = time.Since(r.Started)
	if err != nil {
		r.Error = err.Error()
	}
}

// Success determines if the operation completed without error
func (r *Report) Success() bool {
	return r.Error == ""
}
