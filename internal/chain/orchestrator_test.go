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
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/tombee/cmdchain/internal/tracing"
)

func newTestOrchestrator(host *fakeHost, opts Options, members ...string) (*Orchestrator, *bytes.Buffer) {
	r := NewRegistry()
	for _, m := range members {
		r.Register("foo:hello", m)
	}
	var logs bytes.Buffer
	return NewOrchestrator(r, host, opts, slog.New(slog.NewTextHandler(&logs, nil))), &logs
}

func TestOrchestrator_RunsMembersInOrder(t *testing.T) {
	host := &fakeHost{exitCodes: map[string]int{"a:one": 0, "b:two": 0, "c:three": 0}}
	orch, logs := newTestOrchestrator(host, DefaultOptions(), "c:three", "a:one", "b:two")
	var out bytes.Buffer

	res := orch.Run(context.Background(), "foo:hello", &out)

	assert.Equal(t, []string{"c:three", "a:one", "b:two"}, host.ran())
	assert.Equal(t, "ran c:three\nran a:one\nran b:two\n", out.String())
	for _, c := range host.calls {
		assert.Equal(t, []string{"--from-master"}, c.args)
		assert.Equal(t, res.RunID, c.runID)
	}

	assert.True(t, res.RunID.IsValid())
	assert.False(t, res.Stopped)
	assert.Len(t, res.Members, 3)

	text := logs.String()
	start := strings.Index(text, "Executing foo:hello chain members:")
	done := strings.Index(text, "Execution of foo:hello chain completed.")
	require.GreaterOrEqual(t, start, 0)
	require.Greater(t, done, start)
	assert.Contains(t, text, "chain_run_id="+res.RunID.String())
}

func TestOrchestrator_ReusesContextRunID(t *testing.T) {
	host := &fakeHost{exitCodes: map[string]int{"bar:hi": 0}}
	orch, _ := newTestOrchestrator(host, DefaultOptions(), "bar:hi")
	id := tracing.NewCorrelationID()

	res := orch.Run(tracing.ToContext(context.Background(), id), "foo:hello", &bytes.Buffer{})

	assert.Equal(t, id, res.RunID)
	require.Len(t, host.calls, 1)
	assert.Equal(t, id, host.calls[0].runID)
}

func TestOrchestrator_MissingMemberContinues(t *testing.T) {
	host := &fakeHost{exitCodes: map[string]int{"bar:hi": 0}}
	orch, logs := newTestOrchestrator(host, DefaultOptions(), "baz:missing", "bar:hi")
	var out bytes.Buffer

	before := testutil.ToFloat64(chainMemberRuns.WithLabelValues("foo:hello", "baz:missing", outcomeNotFound))
	res := orch.Run(context.Background(), "foo:hello", &out)
	after := testutil.ToFloat64(chainMemberRuns.WithLabelValues("foo:hello", "baz:missing", outcomeNotFound))

	assert.Equal(t, []string{"bar:hi"}, host.ran())
	assert.Equal(t, []MemberResult{
		{Name: "baz:missing"},
		{Name: "bar:hi", Found: true},
	}, res.Members)
	assert.Equal(t, 1.0, after-before)

	text := logs.String()
	assert.Contains(t, text, "Command baz:missing not found.")
	assert.Contains(t, text, "level=ERROR")
	assert.Contains(t, text, "Execution of foo:hello chain completed.")
}

func TestOrchestrator_FailurePolicy(t *testing.T) {
	tests := []struct {
		name        string
		continueOn  bool
		wantRan     []string
		wantStopped bool
	}{
		{
			name:       "continue on failure",
			continueOn: true,
			wantRan:    []string{"a:one", "b:fails", "c:three"},
		},
		{
			name:        "stop on failure",
			continueOn:  false,
			wantRan:     []string{"a:one", "b:fails"},
			wantStopped: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := &fakeHost{exitCodes: map[string]int{"a:one": 0, "b:fails": 1, "c:three": 0}}
			opts := DefaultOptions()
			opts.ContinueOnMemberFailure = tt.continueOn
			orch, logs := newTestOrchestrator(host, opts, "a:one", "b:fails", "c:three")

			res := orch.Run(context.Background(), "foo:hello", &bytes.Buffer{})

			assert.Equal(t, tt.wantRan, host.ran())
			assert.Equal(t, tt.wantStopped, res.Stopped)
			require.Len(t, res.Members, 3)
			assert.Equal(t, 1, res.Members[1].ExitCode)
			assert.Equal(t, tt.wantStopped, res.Members[2].Skipped)
			assert.Contains(t, logs.String(), "Execution of foo:hello chain completed.")
		})
	}
}

func TestOrchestrator_MemberFlagOnlyWhenDeclared(t *testing.T) {
	host := &fakeHost{
		exitCodes: map[string]int{"bar:hi": 0, "qux:plain": 0},
		plain:     map[string]bool{"qux:plain": true},
	}
	orch, _ := newTestOrchestrator(host, DefaultOptions(), "bar:hi", "qux:plain")

	res := orch.Run(context.Background(), "foo:hello", &bytes.Buffer{})

	require.Len(t, host.calls, 2)
	assert.Equal(t, []string{"--from-master"}, host.calls[0].args)
	assert.Empty(t, host.calls[1].args)
	assert.Equal(t, []MemberResult{
		{Name: "bar:hi", Found: true},
		{Name: "qux:plain", Found: true},
	}, res.Members)
}

func TestOrchestrator_NoMembers(t *testing.T) {
	host := &fakeHost{exitCodes: map[string]int{}}
	orch, logs := newTestOrchestrator(host, DefaultOptions())

	res := orch.Run(context.Background(), "foo:hello", &bytes.Buffer{})

	assert.Empty(t, host.calls)
	assert.Empty(t, res.Members)
	assert.Contains(t, logs.String(), "Execution of foo:hello chain completed.")
}

func TestOrchestrator_Spans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	host := &fakeHost{exitCodes: map[string]int{"a:one": 0, "b:fails": 2}}
	opts := DefaultOptions()
	opts.TracerProvider = tp
	orch, _ := newTestOrchestrator(host, opts, "a:one", "b:fails", "baz:missing")

	orch.Run(context.Background(), "foo:hello", &bytes.Buffer{})

	spans := sr.Ended()
	require.Len(t, spans, 4)

	run := spans[3]
	assert.Equal(t, "chain.run", run.Name())
	for _, s := range spans[:3] {
		assert.Equal(t, "chain.member", s.Name())
		assert.Equal(t, run.SpanContext().SpanID(), s.Parent().SpanID())
	}

	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, codes.Error, spans[2].Status().Code)
}

func TestOrchestrator_CountsRuns(t *testing.T) {
	host := &fakeHost{exitCodes: map[string]int{"bar:hi": 0}}
	orch, _ := newTestOrchestrator(host, DefaultOptions(), "bar:hi")

	runs := testutil.ToFloat64(chainRuns.WithLabelValues("foo:hello"))
	ok := testutil.ToFloat64(chainMemberRuns.WithLabelValues("foo:hello", "bar:hi", outcomeSuccess))

	orch.Run(context.Background(), "foo:hello", &bytes.Buffer{})
	orch.Run(context.Background(), "foo:hello", &bytes.Buffer{})

	assert.Equal(t, 2.0, testutil.ToFloat64(chainRuns.WithLabelValues("foo:hello"))-runs)
	assert.Equal(t, 2.0, testutil.ToFloat64(chainMemberRuns.WithLabelValues("foo:hello", "bar:hi", outcomeSuccess))-ok)
}
