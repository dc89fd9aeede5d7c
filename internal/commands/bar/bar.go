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

// Package bar provides the bar:hi command, a member of the foo:hello chain.
package bar

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tombee/cmdchain/internal/chain"
	"github.com/tombee/cmdchain/internal/commands/shared"
	"github.com/tombee/cmdchain/internal/log"
)

// Name is the command name.
const Name = "bar:hi"

// Message is the line bar:hi prints when run by its master.
const Message = "Hi from Bar!"

// NewCommand creates the bar:hi command. It only does its work when run
// with the chain member flag; otherwise gate rejects it.
func NewCommand(gate *chain.Gate, logger *slog.Logger) *cobra.Command {
	if logger == nil {
		logger = log.Discard()
	}

	cmd := &cobra.Command{
		Use:   Name,
		Short: `Outputs "Hi from Bar!"`,
		Long: `Outputs "Hi from Bar!".

bar:hi is a member of the foo:hello command chain and cannot be executed
on its own. Run foo:hello instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if err := gate.Check(cmd.Name(), chain.InvokedAsMember(cmd), out); err != nil {
				return shared.NewReportedError(shared.ExitFailure, err)
			}

			fmt.Fprintln(out, Message)
			logger.Info(Message)
			return nil
		},
	}

	chain.AddMemberFlag(cmd)
	return cmd
}
