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
	"io"

	"github.com/spf13/cobra"
)

// CommandEvent is dispatched after flag parsing and before a command body runs.
// Listeners may disable the command, in which case its body is skipped and
// the host reports a failure exit code.
type CommandEvent struct {
	ctx      context.Context
	command  *cobra.Command
	args     []string
	output   io.Writer
	disabled bool
}

// NewCommandEvent creates a CommandEvent. The host builds these; tests may too.
func NewCommandEvent(ctx context.Context, cmd *cobra.Command, args []string, out io.Writer) *CommandEvent {
	if ctx == nil {
		ctx = context.Background()
	}
	return &CommandEvent{ctx: ctx, command: cmd, args: args, output: out}
}

// Context returns the context of the command invocation.
func (e *CommandEvent) Context() context.Context { return e.ctx }

// Command returns the command about to run.
func (e *CommandEvent) Command() *cobra.Command { return e.command }

// Name returns the name of the command about to run.
func (e *CommandEvent) Name() string { return e.command.Name() }

// Args returns the positional arguments.
func (e *CommandEvent) Args() []string { return e.args }

// Output returns the sink the command writes to.
func (e *CommandEvent) Output() io.Writer { return e.output }

// DisableCommand cancels the pending execution.
func (e *CommandEvent) DisableCommand() { e.disabled = true }

// CommandDisabled reports whether a listener cancelled the command.
func (e *CommandEvent) CommandDisabled() bool { return e.disabled }

// TerminateEvent is dispatched after a command finished or was disabled.
type TerminateEvent struct {
	ctx      context.Context
	command  *cobra.Command
	output   io.Writer
	exitCode int
}

// NewTerminateEvent creates a TerminateEvent.
func NewTerminateEvent(ctx context.Context, cmd *cobra.Command, out io.Writer, exitCode int) *TerminateEvent {
	if ctx == nil {
		ctx = context.Background()
	}
	return &TerminateEvent{ctx: ctx, command: cmd, output: out, exitCode: exitCode}
}

// Context returns the context of the command invocation.
func (e *TerminateEvent) Context() context.Context { return e.ctx }

// Command returns the command that ran.
func (e *TerminateEvent) Command() *cobra.Command { return e.command }

// Name returns the name of the command that ran.
func (e *TerminateEvent) Name() string { return e.command.Name() }

// Output returns the sink the command wrote to.
func (e *TerminateEvent) Output() io.Writer { return e.output }

// ExitCode returns the command's exit code.
func (e *TerminateEvent) ExitCode() int { return e.exitCode }
