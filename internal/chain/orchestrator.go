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
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tombee/cmdchain/internal/log"
	"github.com/tombee/cmdchain/internal/tracing"
	pkgerrors "github.com/tombee/cmdchain/pkg/errors"
)

const instrumentationName = "github.com/tombee/cmdchain/internal/chain"

// CommandHost resolves and runs console commands.
// console.Application satisfies it.
type CommandHost interface {
	Find(name string) (*cobra.Command, error)
	RunCommand(ctx context.Context, cmd *cobra.Command, args []string, out io.Writer) int
}

// Options tune chain execution.
type Options struct {
	// ContinueOnMemberFailure keeps running the remaining members after a
	// member exits non-zero. Missing members never stop a chain.
	// Default: true
	ContinueOnMemberFailure bool

	// TracerProvider supplies the tracer for chain spans.
	// Default: the global otel provider
	TracerProvider trace.TracerProvider
}

// DefaultOptions returns fire-and-continue options.
func DefaultOptions() Options {
	return Options{ContinueOnMemberFailure: true}
}

// MemberResult is the outcome of one member within a chain run.
type MemberResult struct {
	Name     string `json:"name"`
	Found    bool   `json:"found"`
	ExitCode int    `json:"exit_code"`
	Skipped  bool   `json:"skipped,omitempty"`
}

// Result summarizes one chain run.
type Result struct {
	Master  string                `json:"master"`
	RunID   tracing.CorrelationID `json:"run_id"`
	Members []MemberResult        `json:"members"`

	// Stopped is true when a member failure ended the chain early.
	Stopped bool `json:"stopped"`
}

// Orchestrator runs the members of a chain after its master succeeded.
type Orchestrator struct {
	chains *Registry
	host   CommandHost
	opts   Options
	logger *slog.Logger
	tracer trace.Tracer
}

// NewOrchestrator creates an Orchestrator resolving members through host.
func NewOrchestrator(chains *Registry, host CommandHost, opts Options, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = log.Discard()
	}
	tp := opts.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Orchestrator{
		chains: chains,
		host:   host,
		opts:   opts,
		logger: logger,
		tracer: tp.Tracer(instrumentationName),
	}
}

// Run executes master's members in registration order, writing to out.
// MemberFlag is set on members that declare it. Members run one at a time; each
// finishes before the next starts. A missing member is logged and
// skipped; a failing member is ignored unless ContinueOnMemberFailure is
// false. The run reuses a correlation ID already carried by ctx. Run
// never returns an error: the master already succeeded.
func (o *Orchestrator) Run(ctx context.Context, master string, out io.Writer) Result {
	runID := tracing.FromContext(ctx)
	ctx = tracing.ToContext(ctx, runID)
	logger := log.WithChainRun(o.logger, master, runID.String())

	members := o.chains.Members(master)

	ctx, span := o.tracer.Start(ctx, "chain.run", trace.WithAttributes(
		attribute.String("chain.master", master),
		attribute.String("chain.run_id", runID.String()),
		attribute.Int("chain.members", len(members)),
	))
	defer span.End()

	recordChainRun(master)
	logger.Info(fmt.Sprintf("Executing %s chain members:", master))

	res := Result{Master: master, RunID: runID, Members: make([]MemberResult, 0, len(members))}

	for i, member := range members {
		mr := o.runMember(ctx, logger, master, member, out)
		res.Members = append(res.Members, mr)

		if mr.Found && mr.ExitCode != 0 && !o.opts.ContinueOnMemberFailure {
			res.Stopped = true
			for _, rest := range members[i+1:] {
				recordMember(master, rest, outcomeSkipped)
				res.Members = append(res.Members, MemberResult{Name: rest, Skipped: true})
			}
			logger.Warn("stopping chain after member failure",
				log.MemberKey, member,
				log.ExitCodeKey, mr.ExitCode,
			)
			span.SetStatus(codes.Error, "member failed")
			break
		}
	}

	logger.Info(fmt.Sprintf("Execution of %s chain completed.", master))
	return res
}

func (o *Orchestrator) runMember(ctx context.Context, logger *slog.Logger, master, member string, out io.Writer) MemberResult {
	ctx, span := o.tracer.Start(ctx, "chain.member", trace.WithAttributes(
		attribute.String("chain.master", master),
		attribute.String("chain.member", member),
	))
	defer span.End()

	cmd, err := o.host.Find(member)
	if err != nil {
		var notFound *pkgerrors.NotFoundError
		if pkgerrors.As(err, &notFound) {
			logger.Error(fmt.Sprintf("Command %s not found.", member), log.MemberKey, member)
		} else {
			logger.Error(fmt.Sprintf("Command %s could not be resolved.", member), log.MemberKey, member, log.Error(err))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "member not found")
		recordMember(master, member, outcomeNotFound)
		return MemberResult{Name: member}
	}

	code := o.host.RunCommand(ctx, cmd, memberArgs(cmd), out)
	span.SetAttributes(attribute.Int("chain.member.exit_code", code))

	if code != 0 {
		span.SetStatus(codes.Error, "member exited non-zero")
		recordMember(master, member, outcomeFailure)
		logger.Warn("chain member failed", log.MemberKey, member, log.ExitCodeKey, code)
	} else {
		recordMember(master, member, outcomeSuccess)
	}

	return MemberResult{Name: member, Found: true, ExitCode: code}
}

// memberArgs returns the arguments a member is invoked with. Commands
// that never declared MemberFlag would fail to parse it.
func memberArgs(cmd *cobra.Command) []string {
	if cmd.Flags().Lookup(MemberFlag) == nil {
		return nil
	}
	return []string{"--" + MemberFlag}
}
