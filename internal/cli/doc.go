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

/*
Package cli assembles cmdchain's command tree.

It creates the root Cobra command with the global flags, registers every
console command through the console host, and attaches chain handling so
that a master command runs its members after it succeeds.

# Command Tree

	cmdchain
	├── foo:hello     Master of the foo:hello chain
	├── bar:hi        Member of the foo:hello chain
	├── chain:list    List registered chains
	├── version       Show version
	└── help          Show help (--json for machine-readable output)

# Usage

From main.go:

	cli.SetVersion(version, commit, date)
	app := cli.NewApp(cli.Options{Config: cfg, Logger: logger})
	if err := app.Execute(ctx, nil); err != nil {
	    cli.HandleExitError(err)
	}

# Global Flags

	--verbose, -v    Enable debug logging
	--quiet, -q      Only log errors
	--json           Output in JSON format
	--config         Path to config file

# Exit Codes

  - Exit 0: Success
  - Exit 1: Failure, including a member command run on its own
  - Exit 2: Invalid usage
*/
package cli
