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
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tombee/cmdchain/internal/log"
	pkgerrors "github.com/tombee/cmdchain/pkg/errors"
)

// MemberFlag is the boolean flag the orchestrator sets when it runs a
// chain member. Direct invocations leave it unset.
const MemberFlag = "from-master"

// StandaloneInvocationError reports a chain member run without its master.
type StandaloneInvocationError struct {
	Member string
	Master string
}

var _ pkgerrors.UserVisibleError = (*StandaloneInvocationError)(nil)

func (e *StandaloneInvocationError) Error() string {
	return fmt.Sprintf("%s command is a member of %s command chain and cannot be executed on its own.", e.Member, e.Master)
}

// IsUserVisible implements errors.UserVisibleError.
func (e *StandaloneInvocationError) IsUserVisible() bool { return true }

// UserMessage is the line printed to the command output.
func (e *StandaloneInvocationError) UserMessage() string {
	return "Error: " + e.Error()
}

// Suggestion implements errors.UserVisibleError.
func (e *StandaloneInvocationError) Suggestion() string {
	return fmt.Sprintf("Run %s instead; it runs %s after it succeeds.", e.Master, e.Member)
}

// AddMemberFlag declares MemberFlag on a member command. The flag is
// hidden from help output.
func AddMemberFlag(cmd *cobra.Command) {
	cmd.Flags().Bool(MemberFlag, false, "Set when the command runs as part of its master's chain")
	_ = cmd.Flags().MarkHidden(MemberFlag)
}

// InvokedAsMember reads MemberFlag from cmd. Commands without the flag
// are never chain-invoked.
func InvokedAsMember(cmd *cobra.Command) bool {
	v, err := cmd.Flags().GetBool(MemberFlag)
	return err == nil && v
}

// Gate rejects standalone invocations of chain members. The lifecycle
// listener and every member command share one Gate so the rejection
// wording and logging stay in one place.
type Gate struct {
	chains *Registry
	logger *slog.Logger
}

// NewGate creates a Gate over chains.
func NewGate(chains *Registry, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = log.Discard()
	}
	return &Gate{chains: chains, logger: logger}
}

// Check returns nil when name may run: it is not a member, it was
// invoked by its master, or it is itself a master (masters take
// precedence). Otherwise it writes the rejection line to out, logs it at
// error level and returns a *StandaloneInvocationError.
func (g *Gate) Check(name string, invokedAsMember bool, out io.Writer) error {
	if invokedAsMember || g.chains.IsMaster(name) {
		return nil
	}
	master, ok := g.chains.MasterOf(name)
	if !ok {
		return nil
	}

	err := &StandaloneInvocationError{Member: name, Master: master}
	if out != nil {
		fmt.Fprintln(out, err.UserMessage())
	}
	g.logger.Error(err.UserMessage(),
		log.MemberKey, name,
		log.MasterKey, master,
		"suggestion", err.Suggestion(),
	)
	recordRejection(name)

	return err
}
