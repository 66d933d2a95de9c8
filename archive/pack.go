// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/segmentio/ksuid"

	iu "github.com/choria-io/repack/internal/util"
	"github.com/choria-io/repack/metrics"
	"github.com/choria-io/repack/model"
)

// Pack archives the contents of dir and returns the path to the new archive.
//
// The archive is named after dir with the format extension and holds the contents of dir without a wrapping
// directory. The returned path is relative to the working directory when the archive is below it.
func (a *Archiver) Pack(ctx context.Context, dir string, opts ...PackOption) (string, error) {
	req, err := NewPackRequest(dir, opts...)
	if err != nil {
		return "", err
	}

	format, err := LookupFormat(req.Format)
	if err != nil {
		return "", err
	}

	if !iu.IsDirectory(req.SourceDirectory) {
		return "", fmt.Errorf("%w: %s", model.ErrNotDirectory, req.SourceDirectory)
	}

	outDir := req.OutputDirectory
	if outDir == "" {
		outDir, err = os.Getwd()
		if err != nil {
			return "", err
		}
	}

	err = os.MkdirAll(outDir, defaultDirMode)
	if err != nil {
		return "", fmt.Errorf("could not create output directory %s: %w", outDir, err)
	}

	target := filepath.Join(outDir, req.ArtifactName(PrimaryExtension(format)))
	log := a.log.With("source", req.SourceDirectory, "format", format.Name())

	start := time.Now()
	defer func() { metrics.PackTime.WithLabelValues(format.Name()).Observe(time.Since(start).Seconds()) }()

	log.Info("Packing directory", "archive", target)

	// the output directory may be inside the source, the partial archive must not archive itself
	tmp := filepath.Join(outDir, fmt.Sprintf(".%s-%s.tmp", filepath.Base(target), ksuid.New().String()))
	absTmp, err := filepath.Abs(tmp)
	if err != nil {
		return "", err
	}

	entries, err := format.Create(ctx, req.SourceDirectory, tmp, absTmp, log)
	if err != nil {
		os.Remove(tmp)
		metrics.PackErrorCount.WithLabelValues(format.Name()).Inc()
		return "", fmt.Errorf("could not pack %s: %w", req.SourceDirectory, err)
	}

	err = os.Rename(tmp, target)
	if err != nil {
		os.Remove(tmp)
		metrics.PackErrorCount.WithLabelValues(format.Name()).Inc()
		return "", fmt.Errorf("could not create %s: %w", target, err)
	}

	metrics.PackCount.WithLabelValues(format.Name()).Inc()
	metrics.EntriesArchived.WithLabelValues(format.Name()).Add(float64(entries))

	log.Debug("Packed directory", "entries", entries, "archive", target)

	return iu.RelativeToWorkingDirectory(target)
}
