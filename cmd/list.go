// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"

	"github.com/choria-io/fisk"

	"github.com/choria-io/repack/archive"
	"github.com/choria-io/repack/filter"
)

type listCommand struct {
	dir     string
	pattern string
	filter  string
	json    bool
}

func registerListCommand(app *fisk.Application) {
	cmd := &listCommand{}

	list := app.Command("list", "Lists archives found in a directory").Alias("ls").Action(cmd.listAction)
	list.Arg("dir", "Directory to search").Default(".").ExistingDirVar(&cmd.dir)
	list.Flag("pattern", "Glob pattern matched relative to the directory").StringVar(&cmd.pattern)
	list.Flag("filter", "Expression archives have to match, like 'format == \"zip\" && size > 1024'").StringVar(&cmd.filter)
	list.Flag("json", "Produce JSON output").UnNegatableBoolVar(&cmd.json)
}

func (c *listCommand) listAction(_ *fisk.ParseContext) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.finish()

	pattern := c.pattern
	if pattern == "" {
		pattern = rt.cfg.Pattern
	}

	f, err := filter.New(c.filter, c.dir, rt.log.With("component", "filter"))
	if err != nil {
		return err
	}

	found, err := archive.Scan(c.dir, archive.WithPattern(pattern), archive.WithPredicate(f.Predicate()))
	if err != nil {
		return err
	}

	if c.json {
		if found == nil {
			found = []string{}
		}

		j, err := json.MarshalIndent(found, "", "  ")
		if err != nil {
			return err
		}

		fmt.Println(string(j))

		return nil
	}

	for _, a := range found {
		fmt.Println(a)
	}

	return nil
}
