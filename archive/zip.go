// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/klauspost/compress/zip"

	"github.com/choria-io/repack/model"
)

var _ model.ArchiveFormat = (*zipFormat)(nil)

type zipFormat struct{}

func (z *zipFormat) Name() string         { return "zip" }
func (z *zipFormat) Extensions() []string { return []string{"zip"} }

func (z *zipFormat) Extract(ctx context.Context, source string, target string, log model.Logger) (int, error) {
	count, err := z.inspect(ctx, source, target, log)
	if err != nil {
		return count, err
	}

	return count, extractTo(ctx, source, target, log)
}

// inspect validates every entry in the central directory, returning the number of entries that will be written
func (z *zipFormat) inspect(ctx context.Context, source string, target string, log model.Logger) (int, error) {
	zr, err := zip.OpenReader(source)
	if err != nil {
		return 0, fmt.Errorf("could not read %s: %w", source, err)
	}
	defer zr.Close()

	guard := newEntryGuard(target)
	count := 0

	for _, file := range zr.File {
		if ctx.Err() != nil {
			return count, ctx.Err()
		}

		name := entryName(file.Name)
		if name == "" {
			continue
		}

		mode := file.Mode()

		switch {
		case mode.IsDir(), mode.IsRegular():
			err = guard.check(name)

		case mode&fs.ModeSymlink != 0:
			var link string
			link, err = readZipEntry(file)
			if err == nil {
				err = guard.checkSymlink(name, link)
			}

		default:
			log.Debug("Skipping unsupported zip entry", "name", file.Name, "mode", mode.String())
			continue
		}
		if err != nil {
			return count, err
		}

		log.Debug("Extracting entry", "name", name)
		count++
	}

	return count, nil
}

func readZipEntry(file *zip.File) (string, error) {
	r, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("could not open %s: %w", file.Name, err)
	}
	defer r.Close()

	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("could not read %s: %w", file.Name, err)
	}

	return string(b), nil
}

func (z *zipFormat) Create(ctx context.Context, source string, target string, skip string, log model.Logger) (count int, err error) {
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
	zw := zip.NewWriter(bw)

	err = walkSource(ctx, source, skip, func(entry *sourceEntry) error {
		hdr, err := zip.FileInfoHeader(entry.info)
		if err != nil {
			return fmt.Errorf("could not create header for %s: %w", entry.path, err)
		}

		hdr.Name = entry.name
		switch {
		case entry.info.IsDir():
			hdr.Name += "/"
			hdr.Method = zip.Store
		case entry.link != "":
			hdr.Method = zip.Store
		default:
			hdr.Method = zip.Deflate
		}

		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return err
		}

		switch {
		case entry.link != "":
			_, err = io.WriteString(w, entry.link)
		case entry.info.Mode().IsRegular():
			err = copyFileTo(w, entry.path)
		}
		if err != nil {
			return err
		}

		log.Debug("Added entry", "name", hdr.Name)
		count++

		return nil
	})
	if err != nil {
		return count, err
	}

	err = zw.Close()
	if err != nil {
		return count, err
	}

	return count, bw.Flush()
}
