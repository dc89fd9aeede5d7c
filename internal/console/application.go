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

package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tombee/cmdchain/internal/commands/shared"
	"github.com/tombee/cmdchain/internal/log"
	"github.com/tombee/cmdchain/internal/tracing"
	pkgerrors "github.com/tombee/cmdchain/pkg/errors"
)

// ErrCommandDisabled is returned for commands cancelled by a listener.
var ErrCommandDisabled = errors.New("command disabled by listener")

// body is the original RunE of a registered command.
type body func(cmd *cobra.Command, args []string) error

// Application hosts console commands. Commands added through Add are
// resolvable by name and emit lifecycle events when cobra dispatches them.
type Application struct {
	root       *cobra.Command
	commands   map[string]*cobra.Command
	bodies     map[*cobra.Command]body
	dispatcher *Dispatcher
	middleware *log.CommandMiddleware
	logger     *slog.Logger
}

// NewApplication creates an Application around root.
func NewApplication(root *cobra.Command, logger *slog.Logger) *Application {
	if logger == nil {
		logger = log.Discard()
	}
	return &Application{
		root:       root,
		commands:   make(map[string]*cobra.Command),
		bodies:     make(map[*cobra.Command]body),
		dispatcher: NewDispatcher(),
		middleware: log.NewCommandMiddleware(logger),
		logger:     logger,
	}
}

// Root returns the root cobra command.
func (a *Application) Root() *cobra.Command {
	return a.root
}

// Dispatcher returns the lifecycle dispatcher listeners subscribe to.
func (a *Application) Dispatcher() *Dispatcher {
	return a.dispatcher
}

// Add registers commands under the root. Each command's body is wrapped so
// that a cobra dispatch emits a CommandEvent before and a TerminateEvent
// after it. Adding a name twice replaces the earlier command.
func (a *Application) Add(cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		b := bodyOf(cmd)
		if b == nil {
			panic(fmt.Sprintf("command %s has no Run or RunE", cmd.Name()))
		}

		if prev, ok := a.commands[cmd.Name()]; ok {
			a.root.RemoveCommand(prev)
			delete(a.bodies, prev)
		}

		a.bodies[cmd] = b
		cmd.Run = nil
		cmd.RunE = func(c *cobra.Command, args []string) error {
			return a.dispatch(c, args)
		}

		a.commands[cmd.Name()] = cmd
		a.root.AddCommand(cmd)
	}
}

// Find resolves a command by name.
// It returns a *errors.NotFoundError if no command has that name.
func (a *Application) Find(name string) (*cobra.Command, error) {
	cmd, ok := a.commands[name]
	if !ok {
		return nil, &pkgerrors.NotFoundError{Resource: "command", ID: name}
	}
	return cmd, nil
}

// Names returns the registered command names, sorted.
func (a *Application) Names() []string {
	names := make([]string, 0, len(a.commands))
	for name := range a.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute runs the CLI with args (os.Args[1:] when nil).
func (a *Application) Execute(ctx context.Context, args []string) error {
	if args != nil {
		a.root.SetArgs(args)
	}
	return a.root.ExecuteContext(ctx)
}

// RunCommand runs cmd directly with args, writing to out. No lifecycle
// events are emitted. The command's own flags are reset to their defaults
// before parsing and after the run, so state never leaks between
// invocations.
func (a *Application) RunCommand(ctx context.Context, cmd *cobra.Command, args []string, out io.Writer) int {
	b, ok := a.bodies[cmd]
	if !ok {
		b = bodyOf(cmd)
	}
	if b == nil {
		fmt.Fprintln(out, "Error:", fmt.Sprintf("command %s is not runnable", cmd.Name()))
		return shared.ExitFailure
	}

	if ctx == nil {
		ctx = context.Background()
	}

	resetFlags(cmd)
	defer resetFlags(cmd)

	cmd.SetOut(out)
	cmd.SetErr(out)
	defer func() {
		cmd.SetOut(nil)
		cmd.SetErr(nil)
	}()
	cmd.SetContext(ctx)

	if err := cmd.ParseFlags(args); err != nil {
		shared.PrintError(out, err)
		return shared.ExitInvalidUsage
	}
	positional := cmd.Flags().Args()
	if err := cmd.ValidateArgs(positional); err != nil {
		shared.PrintError(out, err)
		return shared.ExitInvalidUsage
	}

	req := &log.CommandRequest{
		Name:          cmd.Name(),
		Args:          positional,
		CorrelationID: tracing.FromContextOrEmpty(ctx).String(),
	}
	return a.middleware.Handle(req, func() int {
		err := b(cmd, positional)
		shared.PrintError(out, err)
		return shared.ExitCode(err)
	})
}

// dispatch is the RunE installed on every added command.
func (a *Application) dispatch(c *cobra.Command, args []string) error {
	ctx := c.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := c.OutOrStdout()

	ev := NewCommandEvent(ctx, c, args, out)
	a.dispatcher.DispatchCommand(ev)

	req := &log.CommandRequest{
		Name:          c.Name(),
		Args:          args,
		CorrelationID: tracing.FromContextOrEmpty(ctx).String(),
	}

	var err error
	if ev.CommandDisabled() {
		err = shared.NewReportedError(shared.ExitFailure, ErrCommandDisabled)
		log.LogCommandResult(a.logger, req, &log.CommandResult{
			ExitCode: shared.ExitFailure,
			Disabled: true,
		})
	} else {
		a.middleware.Handle(req, func() int {
			err = a.bodies[c](c, args)
			return shared.ExitCode(err)
		})
	}

	a.dispatcher.DispatchTerminate(NewTerminateEvent(ctx, c, out, shared.ExitCode(err)))
	return err
}

func bodyOf(cmd *cobra.Command) body {
	switch {
	case cmd.RunE != nil:
		return cmd.RunE
	case cmd.Run != nil:
		run := cmd.Run
		return func(c *cobra.Command, args []string) error {
			run(c, args)
			return nil
		}
	}
	return nil
}

// resetFlags restores cmd's own flags to their defaults. Inherited global
// flags keep the values of the current invocation.
func resetFlags(cmd *cobra.Command) {
	cmd.LocalNonPersistentFlags().VisitAll(func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
}
