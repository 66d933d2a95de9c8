// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/choria-io/fisk"

	"github.com/choria-io/repack/archive"
	"github.com/choria-io/repack/config"
	"github.com/choria-io/repack/model"
)

type unpackCommand struct {
	source       string
	dest         string
	removeSource bool
	depth        int
	recursive    bool
}

func registerUnpackCommand(app *fisk.Application) {
	cmd := &unpackCommand{}

	unpack := app.Command("unpack", "Unpacks an archive").Alias("x").Action(cmd.unpackAction)
	unpack.Arg("archive", "Archive to unpack").Required().ExistingFileVar(&cmd.source)
	unpack.Flag("dest", "Directory to unpack into").Short('d').StringVar(&cmd.dest)
	unpack.Flag("remove-source", "Removes the archive after unpacking").UnNegatableBoolVar(&cmd.removeSource)
	unpack.Flag("recursive", "Unpacks archives found inside the archive").Short('r').UnNegatableBoolVar(&cmd.recursive)
	unpack.Flag("depth", "Maximum layers to unpack, implies --recursive").PlaceHolder("N").IntVar(&cmd.depth)
}

// options combines the configured unpack options with the command line, a depth implies a recursive unpack
func (c *unpackCommand) options(cfg *config.Config) ([]archive.UnpackOption, bool, error) {
	if c.depth < 0 {
		return nil, false, fmt.Errorf("depth cannot be negative")
	}

	opts := cfg.UnpackOptions()
	if c.dest != "" {
		opts = append(opts, archive.WithDestination(c.dest))
	}
	if c.removeSource {
		opts = append(opts, archive.WithKeepSource(false))
	}
	if c.depth > 0 {
		opts = append(opts, archive.WithMaxDepth(c.depth))
	}

	return opts, c.recursive || c.depth > 0, nil
}

func (c *unpackCommand) unpackAction(_ *fisk.ParseContext) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.finish()

	opts, recursive, err := c.options(rt.cfg)
	if err != nil {
		return err
	}

	report := model.NewReport("unpack", c.source)
	if f, ok := archive.Classify(c.source); ok {
		report.Format = f.Name()
	}

	if recursive {
		var res *archive.Result
		res, err = rt.archive.UnpackRecursive(ctx, c.source, opts...)
		if res != nil {
			report.Result = res.Destination
			report.Archives = res.Archives
			report.Entries = res.Entries
		}
	} else {
		report.Result, err = rt.archive.Unpack(ctx, c.source, opts...)
	}

	report.Finish(err)
	rt.record(report)

	if err != nil {
		return err
	}

	rt.out.Info("Unpacked archive", "source", c.source, "destination", report.Result, "archives", max(len(report.Archives), 1))

	return nil
}
