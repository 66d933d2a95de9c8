// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"context"
	"fmt"
	"os"

	extract "github.com/hashicorp/go-extract"

	"github.com/choria-io/repack/model"
)

// extractTo writes the contents of source into target.
//
// Every entry should already have passed an entryGuard, the extractor additionally refuses to write through
// symlinks that exist on disk below target.
func extractTo(ctx context.Context, source string, target string, log model.Logger) error {
	f, err := os.Open(source)
	if err != nil {
		return err
	}
	defer f.Close()

	cfg := extract.NewConfig(
		extract.WithCreateDestination(true),
		extract.WithOverwrite(true),
		extract.WithContinueOnUnsupportedFiles(true),
		extract.WithMaxFiles(-1),
		extract.WithMaxExtractionSize(-1),
		extract.WithMaxInputSize(-1),
		extract.WithTelemetryHook(func(_ context.Context, td *extract.TelemetryData) {
			log.Debug("Wrote archive contents", "files", td.ExtractedFiles, "directories", td.ExtractedDirs, "symlinks", td.ExtractedSymlinks)
		}),
	)

	err = extract.Unpack(ctx, target, f, cfg)
	if err != nil {
		return fmt.Errorf("could not extract %s: %w", source, err)
	}

	return nil
}
