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

package chain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/spf13/cobra"

	"github.com/tombee/cmdchain/internal/commands/shared"
	"github.com/tombee/cmdchain/internal/console"
	"github.com/tombee/cmdchain/internal/tracing"
	pkgerrors "github.com/tombee/cmdchain/pkg/errors"
)

// harness wires a console application with chain handling the way the
// binary does, writing command output and logs to buffers.
type harness struct {
	app      *console.Application
	chains   *Registry
	gate     *Gate
	listener *Listener
	out      *bytes.Buffer
	logs     *bytes.Buffer
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()

	h := &harness{out: &bytes.Buffer{}, logs: &bytes.Buffer{}}
	logger := slog.New(slog.NewTextHandler(h.logs, nil))

	root := &cobra.Command{Use: "cmdchain", SilenceUsage: true, SilenceErrors: true}
	root.SetOut(h.out)
	root.SetErr(h.out)

	h.app = console.NewApplication(root, nil)
	h.chains = NewRegistry()
	h.gate = NewGate(h.chains, logger)
	orch := NewOrchestrator(h.chains, h.app, opts, logger)
	h.listener = NewListener(h.chains, h.gate, orch, logger)
	h.listener.Subscribe(h.app.Dispatcher())

	return h
}

// addPrinter adds a command that prints line.
func (h *harness) addPrinter(name, line string) {
	h.app.Add(&cobra.Command{
		Use: name,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), line)
			return nil
		},
	})
}

// addMember adds a chain member that checks the gate before printing line.
func (h *harness) addMember(name, line string) {
	cmd := &cobra.Command{
		Use: name,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if err := h.gate.Check(cmd.Name(), InvokedAsMember(cmd), out); err != nil {
				return shared.NewReportedError(shared.ExitFailure, err)
			}
			fmt.Fprintln(out, line)
			return nil
		},
	}
	AddMemberFlag(cmd)
	h.app.Add(cmd)
}

// addFailing adds a command that prints line and exits with ExitFailure.
func (h *harness) addFailing(name, line string) {
	h.app.Add(&cobra.Command{
		Use: name,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), line)
			return shared.NewReportedError(shared.ExitFailure, errors.New(name+" failed"))
		},
	})
}

func (h *harness) run(args ...string) error {
	return h.app.Execute(context.Background(), args)
}

type hostCall struct {
	name  string
	args  []string
	runID tracing.CorrelationID
}

// fakeHost resolves names from a map of exit codes. Resolved commands
// declare MemberFlag unless listed in plain.
type fakeHost struct {
	exitCodes map[string]int
	plain     map[string]bool
	calls     []hostCall
}

func (h *fakeHost) Find(name string) (*cobra.Command, error) {
	if _, ok := h.exitCodes[name]; !ok {
		return nil, &pkgerrors.NotFoundError{Resource: "command", ID: name}
	}
	cmd := &cobra.Command{Use: name}
	if !h.plain[name] {
		AddMemberFlag(cmd)
	}
	return cmd, nil
}

func (h *fakeHost) RunCommand(ctx context.Context, cmd *cobra.Command, args []string, out io.Writer) int {
	h.calls = append(h.calls, hostCall{
		name:  cmd.Name(),
		args:  args,
		runID: tracing.FromContextOrEmpty(ctx),
	})
	fmt.Fprintln(out, "ran "+cmd.Name())
	return h.exitCodes[cmd.Name()]
}

func (h *fakeHost) ran() []string {
	names := make([]string, 0, len(h.calls))
	for _, c := range h.calls {
		names = append(names, c.name)
	}
	return names
}
