// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tombee/cmdchain/internal/cli"
	"github.com/tombee/cmdchain/internal/commands/shared"
	"github.com/tombee/cmdchain/internal/config"
	"github.com/tombee/cmdchain/internal/log"
	"github.com/tombee/cmdchain/internal/tracing"
)

// Version information (injected via ldflags at build time)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cli.SetVersion(version, commit, buildDate)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	if err != nil {
		cli.HandleExitError(err)
	}
}

// run loads configuration, sets up logging, tracing and metrics export,
// and executes the command named by args.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := config.Load(cli.ConfigPathFromArgs(args))
	if err != nil {
		return shared.NewFailureError("failed to load configuration", err)
	}

	logOut := stderr
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return shared.NewFailureError("failed to open log file", err)
		}
		defer f.Close()
		logOut = f
	}

	level := new(slog.LevelVar)
	level.Set(log.ParseLevel(cfg.Log.Level))
	logCfg := cfg.LoggerConfig(logOut)
	logCfg.Leveler = level
	logger := log.New(logCfg)

	tracingCfg := cfg.TracerConfig(version)
	tracingCfg.Output = stderr
	provider, err := tracing.NewProvider(tracingCfg)
	if err != nil {
		return shared.NewFailureError("failed to set up tracing", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("tracer shutdown failed", log.Error(err))
		}
	}()

	if path := cfg.Metrics.Textfile; path != "" {
		defer func() {
			if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
				logger.Warn("failed to write metrics textfile", "path", path, log.Error(err))
			}
		}()
	}

	app := cli.NewApp(cli.Options{
		Config:         cfg,
		Logger:         logger,
		Level:          level,
		TracerProvider: provider.TracerProvider(),
		Out:            stdout,
		Err:            stderr,
	})

	return app.Execute(ctx, args)
}
