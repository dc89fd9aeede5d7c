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

package log

import (
	"context"
	"log/slog"
	"time"
)

// CommandRequest describes a console command about to run.
type CommandRequest struct {
	// Name is the command name (e.g., "foo:hello").
	Name string

	// Args are the positional arguments after flag parsing.
	Args []string

	// CorrelationID ties the command to a chain execution, if any.
	CorrelationID string
}

// CommandResult describes how a console command finished.
type CommandResult struct {
	// ExitCode is the command's exit status.
	ExitCode int

	// Disabled is true when a listener cancelled the command before its body ran.
	Disabled bool

	// DurationMs is the time spent in the command in milliseconds.
	DurationMs int64
}

// LogCommandStart logs a command dispatch at debug level.
func LogCommandStart(logger *slog.Logger, req *CommandRequest) {
	attrs := []any{
		EventKey, "command_start",
		CommandKey, req.Name,
		"args", len(req.Args),
	}

	if req.CorrelationID != "" {
		attrs = append(attrs, "correlation_id", req.CorrelationID)
	}

	logger.Debug("command started", attrs...)
}

// LogCommandResult logs how a command finished. Non-zero exit codes are
// logged at warn level.
func LogCommandResult(logger *slog.Logger, req *CommandRequest, res *CommandResult) {
	attrs := []any{
		EventKey, "command_end",
		CommandKey, req.Name,
		ExitCodeKey, res.ExitCode,
		DurationKey, res.DurationMs,
	}

	if req.CorrelationID != "" {
		attrs = append(attrs, "correlation_id", req.CorrelationID)
	}

	level := slog.LevelDebug
	message := "command finished"

	switch {
	case res.Disabled:
		attrs = append(attrs, "disabled", true)
		level = slog.LevelWarn
		message = "command disabled"
	case res.ExitCode != 0:
		level = slog.LevelWarn
		message = "command failed"
	}

	logger.Log(context.Background(), level, message, attrs...)
}

// CommandMiddleware wraps command bodies with start/end logging.
type CommandMiddleware struct {
	logger *slog.Logger
}

// NewCommandMiddleware creates a new command logging middleware.
func NewCommandMiddleware(logger *slog.Logger) *CommandMiddleware {
	return &CommandMiddleware{
		logger: logger,
	}
}

// Handle runs fn, logging the request before and the exit code after.
func (m *CommandMiddleware) Handle(req *CommandRequest, fn func() int) int {
	start := time.Now()

	LogCommandStart(m.logger, req)

	code := fn()

	LogCommandResult(m.logger, req, &CommandResult{
		ExitCode:   code,
		DurationMs: time.Since(start).Milliseconds(),
	})

	return code
}
