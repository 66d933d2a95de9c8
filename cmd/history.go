// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/choria-io/fisk"
	"github.com/goccy/go-yaml"
	"github.com/segmentio/ksuid"

	"github.com/choria-io/repack/model"
)

type historyCommand struct {
	id         string
	yamlFormat bool
	failed     bool
}

func registerHistoryCommand(app *fisk.Application) {
	cmd := &historyCommand{}

	history := app.Command("history", "Shows previous pack and unpack operations")

	ls := history.Command("ls", "Lists recorded operations").Default().Action(cmd.lsAction)
	ls.Flag("failed", "Only show failed operations").UnNegatableBoolVar(&cmd.failed)

	show := history.Command("show", "Shows a recorded operation").Action(cmd.showAction)
	show.Arg("id", "The operation to show").Required().StringVar(&cmd.id)
	show.Flag("yaml", "Output in YAML format").UnNegatableBoolVar(&cmd.yamlFormat)

	rm := history.Command("rm", "Removes a recorded operation").Action(cmd.rmAction)
	rm.Arg("id", "The operation to remove").Required().StringVar(&cmd.id)
}

func (c *historyCommand) lsAction(_ *fisk.ParseContext) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}

	h, err := rt.history()
	if err != nil {
		return err
	}

	reports, err := loadReports(h)
	if err != nil {
		return err
	}

	for _, r := range reports {
		if c.failed && r.Success() {
			continue
		}

		status := "ok"
		if !r.Success() {
			status = "failed"
		}

		fmt.Printf("%s %s %-6s %-6s %s -> %s (%v)\n", r.ID, r.Started.Format(time.DateTime), r.Operation, status, r.Source, r.Result, r.Duration.Round(time.Millisecond))
	}

	return nil
}

func (c *historyCommand) showAction(_ *fisk.ParseContext) error {
	_, err := ksuid.Parse(c.id)
	if err != nil {
		return fmt.Errorf("%w: %s is not a valid operation id", model.ErrInvalidTag, c.id)
	}

	rt, err := newRuntime()
	if err != nil {
		return err
	}

	h, err := rt.history()
	if err != nil {
		return err
	}

	report := &model.Report{}
	found, err := h.Load(c.id, report)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("operation %s not found", c.id)
	}

	var out []byte
	if c.yamlFormat {
		out, err = yaml.Marshal(report)
	} else {
		out, err = json.MarshalIndent(report, "", "  ")
	}
	if err != nil {
		return err
	}

	fmt.Println(string(out))

	return nil
}

func (c *historyCommand) rmAction(_ *fisk.ParseContext) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}

	h, err := rt.history()
	if err != nil {
		return err
	}

	rec, err := h.Find(c.id)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("operation %s not found", c.id)
	}

	err = h.Remove(c.id)
	if err != nil {
		return err
	}

	rt.out.Info("Removed operation", "id", c.id)

	return nil
}
