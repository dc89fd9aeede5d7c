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

package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/tombee/cmdchain/internal/chain"
	"github.com/tombee/cmdchain/internal/commands/bar"
	chainscmd "github.com/tombee/cmdchain/internal/commands/chains"
	"github.com/tombee/cmdchain/internal/commands/foo"
	"github.com/tombee/cmdchain/internal/commands/shared"
	"github.com/tombee/cmdchain/internal/commands/version"
	"github.com/tombee/cmdchain/internal/config"
	"github.com/tombee/cmdchain/internal/console"
	"github.com/tombee/cmdchain/internal/log"
)

// ChainComponent is the log component of everything chain related.
const ChainComponent = "command_chain"

// Options configures NewApp.
type Options struct {
	// Config supplies chain policy. Default: config.Default()
	Config *config.Config

	// Logger receives all logs. Default: discard
	Logger *slog.Logger

	// Level, when set, is raised or lowered by --verbose and --quiet.
	Level *slog.LevelVar

	// TracerProvider is used for chain spans. Default: the global provider
	TracerProvider trace.TracerProvider

	// Out and Err replace the process streams.
	Out io.Writer
	Err io.Writer
}

// App is the assembled command tree with chain handling attached.
type App struct {
	console *console.Application
	chains  *chain.Registry
}

// NewApp builds the root command, registers every command and the
// foo:hello chain, and subscribes chain handling to the lifecycle.
func NewApp(opts Options) *App {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}
	chainLogger := log.WithComponent(logger, ChainComponent)

	root := NewRootCommand()
	if opts.Out != nil {
		root.SetOut(opts.Out)
	}
	if opts.Err != nil {
		root.SetErr(opts.Err)
	}
	if level := opts.Level; level != nil {
		root.PersistentPreRun = func(_ *cobra.Command, _ []string) {
			switch {
			case shared.GetVerbose():
				level.Set(slog.LevelDebug)
			case shared.GetQuiet():
				level.Set(slog.LevelError)
			}
		}
	}

	app := console.NewApplication(root, logger)

	chains := chain.NewRegistry()
	chains.Register(foo.Name, bar.Name)

	gate := chain.NewGate(chains, chainLogger)
	orchestrator := chain.NewOrchestrator(chains, app, chain.Options{
		ContinueOnMemberFailure: cfg.Chain.ContinueOnMemberFailure,
		TracerProvider:          opts.TracerProvider,
	}, chainLogger)
	chain.NewListener(chains, gate, orchestrator, chainLogger).Subscribe(app.Dispatcher())

	app.Add(
		foo.NewCommand(chainLogger),
		bar.NewCommand(gate, chainLogger),
		chainscmd.NewCommand(chains, app),
		version.NewCommand(),
	)
	root.SetHelpCommand(NewHelpCommand(root, chains))

	return &App{console: app, chains: chains}
}

// Execute runs the CLI with args (os.Args[1:] when nil).
func (a *App) Execute(ctx context.Context, args []string) error {
	return a.console.Execute(ctx, args)
}

// Console returns the console application.
func (a *App) Console() *console.Application {
	return a.console
}

// Chains returns the chain registry.
func (a *App) Chains() *chain.Registry {
	return a.chains
}
