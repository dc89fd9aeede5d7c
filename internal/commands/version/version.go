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

package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tombee/cmdchain/internal/commands/shared"
)

// Info contains build metadata
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
}

type versionResponse struct {
	shared.JSONResponse
	Info
}

// NewCommand creates the version command
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date for cmdchain.`,
		Args:  cobra.NoArgs,
		RunE:  runVersion,
	}
}

func runVersion(cmd *cobra.Command, args []string) error {
	v, c, b := shared.GetVersion()
	info := Info{Version: v, Commit: c, BuildDate: b}
	out := cmd.OutOrStdout()

	if shared.GetJSON() {
		return shared.EmitJSON(out, versionResponse{
			JSONResponse: shared.NewJSONResponse("version", true),
			Info:         info,
		})
	}

	s := shared.NewStyler(out)
	fmt.Fprintf(out, "%s %s\n", s.Header("cmdchain version"), info.Version)
	fmt.Fprintf(out, "  %s %s\n", s.Muted("commit:    "), info.Commit)
	fmt.Fprintf(out, "  %s %s\n", s.Muted("build date:"), info.BuildDate)
	return nil
}
