// Copyright (c) 2025-2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"sort"

	"github.com/choria-io/repack/archive"
	"github.com/choria-io/repack/config"
	"github.com/choria-io/repack/logging"
	"github.com/choria-io/repack/metrics"
	"github.com/choria-io/repack/model"
	"github.com/choria-io/repack/serializer"
)

// runtime is everything a command needs, built from flags and the configuration file
type runtime struct {
	cfg     *config.Config
	log     model.Logger
	out     model.Logger
	archive *archive.Archiver
}

func newRuntime() (*runtime, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	switch {
	case debug:
		cfg.LogLevel = "debug"
	case info:
		cfg.LogLevel = "info"
	}

	if metricsFile != "" {
		cfg.MetricsFile = metricsFile
	}

	log, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	out, err := newOutputLogger(cfg)
	if err != nil {
		return nil, err
	}

	arch, err := archive.New(logging.Component(log, "archive"), archive.WithRecursionLimit(cfg.RecursionLimit))
	if err != nil {
		return nil, err
	}

	metrics.RegisterMetrics()

	return &runtime{cfg: cfg, log: log, out: out, archive: arch}, nil
}

func newOutputLogger(cfg *config.Config) (model.Logger, error) {
	level := "info"
	if debug {
		level = "debug"
	}

	return logging.New(os.Stdout, level, cfg.LogFormat)
}

func (r *runtime) history() (*serializer.Serializer, error) {
	db, err := r.cfg.NewStore(logging.Component(r.log, "store"))
	if err != nil {
		return nil, err
	}

	return serializer.New(db, logging.Component(r.log, "history"))
}

// record stores report in the history, failure to do so is logged but does not fail the command
func (r *runtime) record(report *model.Report) {
	h, err := r.history()
	if err != nil {
		r.log.Warn("Could not open history store", "error", err)
		return
	}

	err = h.Dump(report, report.ID)
	if err != nil {
		r.log.Warn("Could not record operation in history", "id", report.ID, "error", err)
	}
}

// finish writes metrics when configured
func (r *runtime) finish() {
	err := metrics.WriteTextfile(r.cfg.MetricsFile)
	if err != nil {
		r.log.Warn("Could not write metrics", "error", err)
	}
}

func loadReports(h *serializer.Serializer) ([]*model.Report, error) {
	records, err := h.All()
	if err != nil {
		return nil, err
	}

	var reports []*model.Report
	for _, rec := range records {
		report := &model.Report{}
		err = h.Loads(rec.Obj, report)
		if err != nil {
			return nil, err
		}

		reports = append(reports, report)
	}

	sort.Slice(reports, func(i, j int) bool { return reports[i].ID < reports[j].ID })

	return reports, nil
}
