// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"archive/tar"
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/choria-io/repack/model"
)

var _ model.ArchiveFormat = (*tarFormat)(nil)

// tarFormat is a tar stream optionally wrapped in a stream compressor
type tarFormat struct {
	name       string
	extensions []string
	compressor *compressor
}

func (t *tarFormat) Name() string         { return t.name }
func (t *tarFormat) Extensions() []string { return t.extensions }

func (t *tarFormat) Extract(ctx context.Context, source string, target string, log model.Logger) (int, error) {
	count, err := t.inspect(ctx, source, target, log)
	if err != nil {
		return count, err
	}

	return count, extractTo(ctx, source, target, log)
}

// inspect reads the entire archive and validates every entry, returning the number of entries that will be written
func (t *tarFormat) inspect(ctx context.Context, source string, target string, log model.Logger) (int, error) {
	f, err := os.Open(source)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r, err := t.compressor.reader(bufio.NewReader(f))
	if err != nil {
		return 0, fmt.Errorf("could not open %s stream in %s: %w", t.compressor.name, source, err)
	}
	defer r.Close()

	tr := tar.NewReader(r)
	guard := newEntryGuard(target)
	count := 0

	for {
		if ctx.Err() != nil {
			return count, ctx.Err()
		}

		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return count, fmt.Errorf("could not read %s: %w", source, err)
		}

		name := entryName(hdr.Name)
		if name == "" {
			continue
		}

		switch hdr.Typeflag {
		case tar.TypeDir, tar.TypeReg:
			err = guard.check(name)

		case tar.TypeSymlink:
			err = guard.checkSymlink(name, hdr.Linkname)

		default:
			log.Debug("Skipping unsupported tar entry", "name", hdr.Name, "type", string(hdr.Typeflag))
			continue
		}
		if err != nil {
			return count, err
		}

		log.Debug("Extracting entry", "name", name)
		count++
	}

	// the end of archive marker can precede the compressor trailer, reading on verifies it
	_, err = io.Copy(io.Discard, r)
	if err != nil {
		return count, fmt.Errorf("could not read %s: %w", source, err)
	}

	return count, nil
}

func (t *tarFormat) Create(ctx context.Context, source string, target string, skip string, log model.Logger) (count int, err error) {
	f, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return 0, err
	}
	defer func() {
		cerr := f.Close()
		if err == nil && cerr != nil {
			err = cerr
		}
	}()

	bw := bufio.NewWriter(f)

	cw, err := t.compressor.writer(bw)
	if err != nil {
		return 0, fmt.Errorf("could not create %s stream: %w", t.compressor.name, err)
	}

	tw := tar.NewWriter(cw)

	err = walkSource(ctx, source, skip, func(entry *sourceEntry) error {
		hdr, err := tar.FileInfoHeader(entry.info, entry.link)
		if err != nil {
			return fmt.Errorf("could not create header for %s: %w", entry.path, err)
		}

		hdr.Name = entry.name
		if entry.info.IsDir() {
			hdr.Name += "/"
		}

		err = tw.WriteHeader(hdr)
		if err != nil {
			return err
		}

		if entry.info.Mode().IsRegular() {
			err = copyFileTo(tw, entry.path)
			if err != nil {
				return err
			}
		}

		log.Debug("Added entry", "name", hdr.Name)
		count++

		return nil
	})
	if err != nil {
		return count, err
	}

	err = tw.Close()
	if err != nil {
		return count, err
	}

	err = cw.Close()
	if err != nil {
		return count, err
	}

	return count, bw.Flush()
}

func copyFileTo(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	if err != nil {
		return fmt.Errorf("could not archive %s: %w", path, err)
	}

	return nil
}
