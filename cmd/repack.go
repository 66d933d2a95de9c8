// Copyright (c) 2025-2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/choria-io/fisk"
)

var (
	ctx         context.Context
	debug       bool
	info        bool
	configFile  string
	metricsFile string
	Version     = "development"
)

func main() {
	app := fisk.New("repack", "Archive detection, recursive unpacking and packing")
	app.Version(Version)
	app.Author("https://choria.io")

	app.Flag("debug", "Enable debug logging").UnNegatableBoolVar(&debug)
	app.Flag("info", "Enable info logging").UnNegatableBoolVar(&info)
	app.Flag("config", "Configuration file to use").Envar("REPACK_CONFIG").PlaceHolder("FILE").StringVar(&configFile)
	app.Flag("metrics-file", "Write Prometheus metrics to this file after the command completes").Envar("REPACK_METRICS_FILE").PlaceHolder("FILE").StringVar(&metricsFile)

	registerFormatsCommand(app)
	registerListCommand(app)
	registerUnpackCommand(app)
	registerPackCommand(app)
	registerHistoryCommand(app)

	ctx, _ = signal.NotifyContext(context.Background(), os.Interrupt)

	app.MustParseWithUsage(os.Args[1:])
}
