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

package shared

import (
	"errors"
	"fmt"
	"io"
	"os"

	pkgerrors "github.com/tombee/cmdchain/pkg/errors"
)

// Exit codes for console commands
const (
	ExitSuccess      = 0
	ExitFailure      = 1
	ExitInvalidUsage = 2
)

// ExitError is an error that carries an exit code
type ExitError struct {
	Code    int
	Message string
	Cause   error

	// Silent marks errors whose message was already written to the
	// command output; HandleExitError only sets the exit code for them.
	Silent bool
}

func (e *ExitError) Error() string {
	switch {
	case e.Cause == nil:
		return e.Message
	case e.Message == "":
		return e.Cause.Error()
	default:
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewFailureError creates an error for a command that ran and failed
func NewFailureError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitFailure,
		Message: msg,
		Cause:   cause,
	}
}

// NewInvalidUsageError creates an error for bad arguments or flags
func NewInvalidUsageError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitInvalidUsage,
		Message: msg,
		Cause:   cause,
	}
}

// NewReportedError wraps an error that the command already printed.
func NewReportedError(code int, cause error) *ExitError {
	return &ExitError{
		Code:   code,
		Cause:  cause,
		Silent: true,
	}
}

// ExitCode maps an error returned by a command to a process exit code.
// nil is ExitSuccess; errors without an ExitError in their chain are ExitFailure.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// PrintError writes err and any user-visible suggestion to w.
// Silent exit errors print nothing.
func PrintError(w io.Writer, err error) {
	if err == nil {
		return
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Silent {
		return
	}

	fmt.Fprintln(w, RenderErrorPrefix(w), err.Error())
	printUserVisibleSuggestion(w, err)
}

// HandleExitError prints err to stderr and exits with the matching code
func HandleExitError(err error) {
	if err == nil {
		return
	}

	PrintError(os.Stderr, err)
	os.Exit(ExitCode(err))
}

// printUserVisibleSuggestion checks if an error implements UserVisibleError
// and prints the suggestion if available.
func printUserVisibleSuggestion(w io.Writer, err error) {
	for err != nil {
		if userErr, ok := err.(pkgerrors.UserVisibleError); ok {
			if userErr.IsUserVisible() {
				suggestion := userErr.Suggestion()
				if suggestion != "" {
					fmt.Fprintf(w, "\nSuggestion: %s\n", suggestion)
				}
			}
			return
		}

		err = errors.Unwrap(err)
	}
}
