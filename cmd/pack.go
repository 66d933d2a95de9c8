// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/choria-io/fisk"

	"github.com/choria-io/repack/archive"
	"github.com/choria-io/repack/model"
)

type packCommand struct {
	dir    string
	format string
	output string
}

func registerPackCommand(app *fisk.Application) {
	cmd := &packCommand{}

	pack := app.Command("pack", "Packs a directory into an archive").Alias("c").Action(cmd.packAction)
	pack.Arg("dir", "Directory to pack").Required().ExistingDirVar(&cmd.dir)
	pack.Flag("format", "Archive format by name or extension").Short('f').StringVar(&cmd.format)
	pack.Flag("output", "Directory to write the archive to").Short('o').StringVar(&cmd.output)
}

func (c *packCommand) packAction(_ *fisk.ParseContext) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.finish()

	format := c.format
	if format == "" {
		format = rt.cfg.Format
	}

	f, err := archive.LookupFormat(format)
	if err != nil {
		return err
	}

	report := model.NewReport("pack", c.dir)
	report.Format = f.Name()

	report.Result, err = rt.archive.Pack(ctx, c.dir, archive.WithFormat(f.Name()), archive.WithOutputDirectory(c.output))
	report.Finish(err)
	rt.record(report)

	if err != nil {
		return err
	}

	fmt.Println(report.Result)

	return nil
}
