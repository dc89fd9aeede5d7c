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

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tombee/cmdchain/internal/chain"
	"github.com/tombee/cmdchain/internal/commands/shared"
)

// CommandMetadata describes a command for JSON help
type CommandMetadata struct {
	Name    string         `json:"name"`
	Short   string         `json:"short"`
	Long    string         `json:"long,omitempty"`
	Usage   string         `json:"usage"`
	Flags   []FlagMetadata `json:"flags,omitempty"`
	Example string         `json:"example,omitempty"`

	// ChainMembers lists the members a master runs after it succeeds.
	ChainMembers []string `json:"chain_members,omitempty"`

	// ChainMaster names the master a member belongs to.
	ChainMaster string `json:"chain_master,omitempty"`
}

// FlagMetadata describes a flag
type FlagMetadata struct {
	Name      string `json:"name"`
	Shorthand string `json:"shorthand,omitempty"`
	Usage     string `json:"usage"`
	Default   string `json:"default,omitempty"`
}

// HelpResponse is the JSON response of the help command
type HelpResponse struct {
	shared.JSONResponse
	Commands    []CommandMetadata `json:"commands,omitempty"`
	CommandInfo *CommandMetadata  `json:"command_info,omitempty"`
	GlobalFlags []FlagMetadata    `json:"global_flags,omitempty"`
}

// NewHelpCommand creates the help command. With --json it describes
// commands, including their chain role, in machine-readable form.
func NewHelpCommand(rootCmd *cobra.Command, chains *chain.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "help [command]",
		Short: "Help about any command",
		Long: `Help provides detailed information about commands and their usage.

Run 'cmdchain help' to see all available commands.
Run 'cmdchain help <command>' to see detailed help for a specific command.
Use --json to get machine-readable output.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				if shared.GetJSON() {
					return outputAllCommandsJSON(cmd, rootCmd, chains)
				}
				return rootCmd.Help()
			}

			targetCmd, _, err := rootCmd.Find(args)
			if err != nil || targetCmd == rootCmd {
				usageErr := shared.NewInvalidUsageError(fmt.Sprintf("command %q not found", args[0]), err)
				if shared.GetJSON() {
					return outputNotFoundJSON(cmd, args[0], usageErr)
				}
				return usageErr
			}

			if shared.GetJSON() {
				return outputCommandJSON(cmd, targetCmd, rootCmd, chains)
			}
			return targetCmd.Help()
		},
	}
}

func outputAllCommandsJSON(cmd *cobra.Command, rootCmd *cobra.Command, chains *chain.Registry) error {
	commands := []CommandMetadata{}
	for _, c := range rootCmd.Commands() {
		if c.Hidden {
			continue
		}
		commands = append(commands, extractCommandMetadata(c, chains))
	}

	return shared.EmitJSON(cmd.OutOrStdout(), HelpResponse{
		JSONResponse: shared.NewJSONResponse("help", true),
		Commands:     commands,
		GlobalFlags:  extractFlags(rootCmd.PersistentFlags()),
	})
}

func outputCommandJSON(cmd *cobra.Command, targetCmd *cobra.Command, rootCmd *cobra.Command, chains *chain.Registry) error {
	metadata := extractCommandMetadata(targetCmd, chains)

	return shared.EmitJSON(cmd.OutOrStdout(), HelpResponse{
		JSONResponse: shared.NewJSONResponse("help "+targetCmd.Name(), true),
		CommandInfo:  &metadata,
		GlobalFlags:  extractFlags(rootCmd.PersistentFlags()),
	})
}

// outputNotFoundJSON reports an unknown help target as a JSON error
// response. The returned error only carries the exit code.
func outputNotFoundJSON(cmd *cobra.Command, name string, usageErr *shared.ExitError) error {
	errs := []shared.JSONError{{
		Code:       "COMMAND_NOT_FOUND",
		Message:    usageErr.Message,
		Suggestion: "Run 'cmdchain help --json' to list available commands",
	}}
	if err := shared.EmitJSONError(cmd.OutOrStdout(), "help "+name, errs); err != nil {
		return err
	}
	return shared.NewReportedError(shared.ExitInvalidUsage, usageErr)
}

func extractCommandMetadata(cmd *cobra.Command, chains *chain.Registry) CommandMetadata {
	metadata := CommandMetadata{
		Name:    cmd.Name(),
		Short:   cmd.Short,
		Long:    cmd.Long,
		Usage:   cmd.UseLine(),
		Example: cmd.Example,
		Flags:   extractFlags(cmd.LocalNonPersistentFlags()),
	}

	if chains != nil {
		if chains.IsMaster(cmd.Name()) {
			metadata.ChainMembers = chains.Members(cmd.Name())
		}
		if master, ok := chains.MasterOf(cmd.Name()); ok {
			metadata.ChainMaster = master
		}
	}

	return metadata
}

// extractFlags lists the visible flags of fs.
func extractFlags(fs *pflag.FlagSet) []FlagMetadata {
	var flags []FlagMetadata
	fs.VisitAll(func(flag *pflag.Flag) {
		if flag.Hidden {
			return
		}
		flags = append(flags, FlagMetadata{
			Name:      flag.Name,
			Shorthand: flag.Shorthand,
			Usage:     flag.Usage,
			Default:   flag.DefValue,
		})
	})
	return flags
}
