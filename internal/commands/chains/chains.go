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

// Package chains provides the chain:list command.
package chains

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tombee/cmdchain/internal/chain"
	"github.com/tombee/cmdchain/internal/commands/shared"
)

// Name is the command name.
const Name = "chain:list"

// Finder resolves command names. console.Application satisfies it.
type Finder interface {
	Find(name string) (*cobra.Command, error)
}

// Member is one member in the listing.
type Member struct {
	Name  string `json:"name"`
	Found bool   `json:"found"`
}

// Chain is one chain in the listing.
type Chain struct {
	Master      string   `json:"master"`
	MasterFound bool     `json:"master_found"`
	Members     []Member `json:"members"`
}

type listResponse struct {
	shared.JSONResponse
	Chains []Chain `json:"chains"`
}

// NewCommand creates the chain:list command over chains, resolving
// names through finder.
func NewCommand(chains *chain.Registry, finder Finder) *cobra.Command {
	return &cobra.Command{
		Use:   Name,
		Short: "List registered command chains",
		Long: `List every registered command chain: the master command and its
members in execution order. Members that do not resolve to a command are
marked; they are skipped when the chain runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listing := Build(chains, finder)
			out := cmd.OutOrStdout()

			if shared.GetJSON() {
				return shared.EmitJSON(out, listResponse{
					JSONResponse: shared.NewJSONResponse(Name, true),
					Chains:       listing,
				})
			}
			render(out, listing)
			return nil
		},
	}
}

// Build resolves every registered chain against finder.
func Build(chains *chain.Registry, finder Finder) []Chain {
	entries := chains.Chains()
	listing := make([]Chain, 0, len(entries))

	for _, e := range entries {
		c := Chain{
			Master:      e.Master,
			MasterFound: resolves(finder, e.Master),
			Members:     make([]Member, 0, len(e.Members)),
		}
		for _, m := range e.Members {
			c.Members = append(c.Members, Member{Name: m, Found: resolves(finder, m)})
		}
		listing = append(listing, c)
	}
	return listing
}

func resolves(finder Finder, name string) bool {
	_, err := finder.Find(name)
	return err == nil
}

func render(w io.Writer, listing []Chain) {
	s := shared.NewStyler(w)

	if len(listing) == 0 {
		fmt.Fprintln(w, s.Muted("No command chains registered."))
		return
	}

	fmt.Fprintln(w, s.Header("Command chains"))
	for _, c := range listing {
		master := c.Master
		if !c.MasterFound {
			master += " " + s.Muted("(not found)")
		}
		fmt.Fprintf(w, "\n  %s\n", master)

		for i, m := range c.Members {
			line := fmt.Sprintf("%d. %s", i+1, m.Name)
			if m.Found {
				fmt.Fprintf(w, "    %s %s\n", shared.SymbolArrow, s.OK(line))
			} else {
				fmt.Fprintf(w, "    %s %s %s\n", shared.SymbolArrow, s.Error(line), s.Muted("(not found)"))
			}
		}
	}
}
