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

// Package foo provides the foo:hello command, the master of the default chain.
package foo

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tombee/cmdchain/internal/log"
)

// Name is the command name.
const Name = "foo:hello"

// Message is the line foo:hello prints.
const Message = "Hello from Foo!"

// NewCommand creates the foo:hello command
func NewCommand(logger *slog.Logger) *cobra.Command {
	if logger == nil {
		logger = log.Discard()
	}

	return &cobra.Command{
		Use:   Name,
		Short: `Outputs "Hello from Foo!"`,
		Long: `Outputs "Hello from Foo!".

foo:hello is the master of a command chain: when it succeeds, its member
commands run right after it on the same output.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), Message)
			logger.Info(Message)
			return nil
		},
	}
}
