// Copyright (c) 2025-2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	NameSpace = "choria"
	Subsystem = "repack"

	// UnpackTime is a summary of the time taken to unpack a single archive
	UnpackTime = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name: prometheus.BuildFQName(NameSpace, Subsystem, "unpack_duration_seconds"),
		Help: "Time taken to unpack a single archive",
	}, []string{"format"})

	// UnpackCount counts how many archives were unpacked
	UnpackCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(NameSpace, Subsystem, "unpack_count"),
		Help: "How many archives were unpacked",
	}, []string{"format"})

	// UnpackErrorCount counts how many archives failed to unpack
	UnpackErrorCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(NameSpace, Subsystem, "unpack_error_count"),
		Help: "How many archives failed to unpack",
	}, []string{"format"})

	// EntriesExtracted counts how many archive entries were written to disk
	EntriesExtracted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(NameSpace, Subsystem, "entries_extracted_count"),
		Help: "How many archive entries were extracted",
	}, []string{"format"})

	// SourcesRemoved counts how many archives were removed after unpacking
	SourcesRemoved = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(NameSpace, Subsystem, "sources_removed_count"),
		Help: "How many archives were removed after unpacking",
	}, []string{"format"})

	// PackTime is a summary of the time taken to pack a directory
	PackTime = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name: prometheus.BuildFQName(NameSpace, Subsystem, "pack_duration_seconds"),
		Help: "Time taken to pack a directory",
	}, []string{"format"})

	// PackCount counts how many archives were created
	PackCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(NameSpace, Subsystem, "pack_count"),
		Help: "How many archives were created",
	}, []string{"format"})

	// PackErrorCount counts how many archives failed to be created
	PackErrorCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(NameSpace, Subsystem, "pack_error_count"),
		Help: "How many archives failed to be created",
	}, []string{"format"})

	// EntriesArchived counts how many entries were added to archives
	EntriesArchived = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(NameSpace, Subsystem, "entries_archived_count"),
		Help: "How many entries were added to archives",
	}, []string{"format"})

	// ScanTime is a summary of the time taken to scan a directory for archives
	ScanTime = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name: prometheus.BuildFQName(NameSpace, Subsystem, "scan_duration_seconds"),
		Help: "Time taken to scan a directory for archives",
	}, []string{})

	// StoreOperationCount counts operations against the blob store
	StoreOperationCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(NameSpace, Subsystem, "store_operation_count"),
		Help: "How many operations were performed against the blob store",
	}, []string{"store", "operation"})

	registry = prometheus.NewRegistry()
)

func RegisterMetrics() {
	registry.MustRegister(UnpackTime)
	registry.MustRegister(UnpackCount)
	registry.MustRegister(UnpackErrorCount)
	registry.MustRegister(EntriesExtracted)
	registry.MustRegister(SourcesRemoved)
	registry.MustRegister(PackTime)
	registry.MustRegister(PackCount)
	registry.MustRegister(PackErrorCount)
	registry.MustRegister(EntriesArchived)
	registry.MustRegister(ScanTime)
	registry.MustRegister(StoreOperationCount)
}

// Gatherer gives access to the registered metrics
func Gatherer() prometheus.Gatherer {
	return registry
}

// WriteTextfile writes the registered metrics to path in the format read by the node exporter textfile collector
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}

	err := prometheus.WriteToTextfile(path, registry)
	if err != nil {
		return fmt.Errorf("could not write metrics to %s: %w", path, err)
	}

	return nil
}
