// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/choria-io/fisk"

	"github.com/choria-io/repack/archive"
)

type formatsCommand struct {
	json bool
}

func registerFormatsCommand(app *fisk.Application) {
	cmd := &formatsCommand{}

	formats := app.Command("formats", "Lists supported archive formats").Alias("fmt").Action(cmd.formatsAction)
	formats.Flag("json", "Produce JSON output").UnNegatableBoolVar(&cmd.json)
}

func (c *formatsCommand) formatsAction(_ *fisk.ParseContext) error {
	formats := archive.Formats()

	if c.json {
		res := map[string][]string{}
		for _, f := range formats {
			res[f.Name()] = f.Extensions()
		}

		j, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}

		fmt.Println(string(j))

		return nil
	}

	for _, f := range formats {
		fmt.Printf("%10s: %s\n", f.Name(), strings.Join(f.Extensions(), ", "))
	}

	return nil
}
