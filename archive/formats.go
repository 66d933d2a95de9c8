// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"fmt"
	"strings"

	"github.com/choria-io/repack/internal/registry"
	"github.com/choria-io/repack/model"
)

// DefaultFormat is the format used when packing without an explicit format
const DefaultFormat = "zip"

// MinimumFormats are always available regardless of platform
var MinimumFormats = []string{"zip", "tar", "gztar"}

func init() {
	registry.MustRegister(&zipFormat{})
	registry.MustRegister(&tarFormat{name: "tar", extensions: []string{"tar"}, compressor: noCompression})
	registry.MustRegister(&tarFormat{name: "gztar", extensions: []string{"tar.gz", "tgz"}, compressor: gzipCompression})
	registry.MustRegister(&tarFormat{name: "bztar", extensions: []string{"tar.bz2", "tbz2", "tbz"}, compressor: bzip2Compression})
	registry.MustRegister(&tarFormat{name: "xztar", extensions: []string{"tar.xz", "txz"}, compressor: xzCompression})
	registry.MustRegister(&tarFormat{name: "zstdtar", extensions: []string{"tar.zst", "tzst"}, compressor: zstdCompression})
	registry.MustRegister(&tarFormat{name: "lz4tar", extensions: []string{"tar.lz4"}, compressor: lz4Compression})
}

// Formats lists the supported archive formats sorted by name
func Formats() []model.ArchiveFormat {
	return registry.Formats()
}

// FormatNames lists the names of supported archive formats
func FormatNames() []string {
	return registry.Names()
}

// IsSupportedExtension determines if ext, with or without leading dot, belongs to a supported format
func IsSupportedExtension(ext string) bool {
	_, ok := registry.ForExtension(ext)
	return ok
}

// LookupFormat finds a format by canonical name or by one of its extensions, leading dots are ignored
func LookupFormat(format string) (model.ArchiveFormat, error) {
	f, ok := registry.Format(registry.NormalizeExtension(format))
	if ok {
		return f, nil
	}

	f, ok = registry.ForExtension(format)
	if ok {
		return f, nil
	}

	return nil, unsupportedFormat(format)
}

// PrimaryExtension is the extension used when creating archives of format f
func PrimaryExtension(f model.ArchiveFormat) string {
	return f.Extensions()[0]
}

func unsupportedFormat(what string) error {
	return fmt.Errorf("%w: %s, available formats: %s", model.ErrUnsupportedFormat, what, strings.Join(registry.Names(), ", "))
}
