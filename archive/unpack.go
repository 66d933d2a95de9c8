// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/choria-io/repack/metrics"
)

// Unpack extracts the archive source and returns the directory it was extracted into.
//
// The source is removed after a successful extraction unless kept, it is never removed when extraction fails.
func (a *Archiver) Unpack(ctx context.Context, source string, opts ...UnpackOption) (string, error) {
	req, err := NewExtractionRequest(source, opts...)
	if err != nil {
		return "", err
	}

	_, err = a.unpack(ctx, req)
	if err != nil {
		return "", err
	}

	return req.Destination, nil
}

func (a *Archiver) unpack(ctx context.Context, req *ExtractionRequest) (int, error) {
	format, ok := Classify(req.Source)
	if !ok {
		return 0, unsupportedFormat(req.Source)
	}

	log := a.log.With("source", req.Source, "format", format.Name())

	start := time.Now()
	defer func() { metrics.UnpackTime.WithLabelValues(format.Name()).Observe(time.Since(start).Seconds()) }()

	log.Info("Unpacking archive", "destination", req.Destination)

	err := os.MkdirAll(req.Destination, defaultDirMode)
	if err != nil {
		metrics.UnpackErrorCount.WithLabelValues(format.Name()).Inc()
		return 0, fmt.Errorf("could not create destination %s: %w", req.Destination, err)
	}

	entries, err := format.Extract(ctx, req.Source, req.Destination, log)
	if err != nil {
		metrics.UnpackErrorCount.WithLabelValues(format.Name()).Inc()
		return entries, fmt.Errorf("could not unpack %s: %w", req.Source, err)
	}

	metrics.UnpackCount.WithLabelValues(format.Name()).Inc()
	metrics.EntriesExtracted.WithLabelValues(format.Name()).Add(float64(entries))

	if !req.KeepSource {
		log.Debug("Removing source archive")

		err = os.Remove(req.Source)
		if err != nil {
			return entries, fmt.Errorf("could not remove %s: %w", req.Source, err)
		}

		metrics.SourcesRemoved.WithLabelValues(format.Name()).Inc()
	}

	log.Debug("Unpacked archive", "entries", entries, "destination", req.Destination)

	return entries, nil
}
