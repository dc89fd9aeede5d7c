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
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/tombee/cmdchain/internal/commands/shared"
)

func runHelp(t *testing.T, args ...string) (HelpResponse, error) {
	t.Helper()

	var out bytes.Buffer
	app := NewApp(Options{Out: &out, Err: &out})

	err := app.Execute(t.Context(), append([]string{"help", "--json"}, args...))
	var resp HelpResponse
	if err == nil {
		if jerr := json.Unmarshal(out.Bytes(), &resp); jerr != nil {
			t.Fatalf("invalid JSON: %v\nOutput: %s", jerr, out.String())
		}
	}
	return resp, err
}

func TestHelpCommandJSON_AllCommands(t *testing.T) {
	resp, err := runHelp(t)
	if err != nil {
		t.Fatalf("help failed: %v", err)
	}

	if resp.JSONResponse.Version != shared.JSONVersion || resp.JSONResponse.Command != "help" || !resp.Success {
		t.Errorf("unexpected envelope: %+v", resp.JSONResponse)
	}

	names := map[string]CommandMetadata{}
	for _, c := range resp.Commands {
		names[c.Name] = c
	}
	for _, want := range []string{"foo:hello", "bar:hi", "chain:list", "version"} {
		if _, ok := names[want]; !ok {
			t.Errorf("expected %s in help output", want)
		}
	}

	if got := names["foo:hello"].ChainMembers; len(got) != 1 || got[0] != "bar:hi" {
		t.Errorf("expected foo:hello chain members [bar:hi], got %v", got)
	}
	if got := names["bar:hi"].ChainMaster; got != "foo:hello" {
		t.Errorf("expected bar:hi chain master foo:hello, got %q", got)
	}

	if len(resp.GlobalFlags) == 0 {
		t.Error("expected global flags")
	}
}

func TestHelpCommandJSON_SingleCommand(t *testing.T) {
	resp, err := runHelp(t, "bar:hi")
	if err != nil {
		t.Fatalf("help failed: %v", err)
	}

	if resp.CommandInfo == nil || resp.CommandInfo.Name != "bar:hi" {
		t.Fatalf("expected bar:hi metadata, got %+v", resp.CommandInfo)
	}
	if resp.JSONResponse.Command != "help bar:hi" {
		t.Errorf("unexpected command %q", resp.JSONResponse.Command)
	}
	for _, f := range resp.CommandInfo.Flags {
		if f.Name == "from-master" {
			t.Error("hidden member flag must not be listed")
		}
	}
}

func TestHelpCommandJSON_EnvelopeKeys(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		command string
		info    bool
	}{
		{name: "all commands", command: "help"},
		{name: "single command", args: []string{"foo:hello"}, command: "help foo:hello", info: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			app := NewApp(Options{Out: &out, Err: &out})
			if err := app.Execute(t.Context(), append([]string{"help", "--json"}, tt.args...)); err != nil {
				t.Fatalf("help failed: %v", err)
			}

			var raw map[string]json.RawMessage
			if err := json.Unmarshal(out.Bytes(), &raw); err != nil {
				t.Fatalf("invalid JSON: %v\nOutput: %s", err, out.String())
			}

			var command string
			if err := json.Unmarshal(raw["command"], &command); err != nil || command != tt.command {
				t.Errorf("expected \"command\": %q, got %s", tt.command, raw["command"])
			}
			if _, ok := raw["command_info"]; ok != tt.info {
				t.Errorf("command_info present = %v, want %v", ok, tt.info)
			}
		})
	}
}

func TestHelpCommand_UnknownCommand(t *testing.T) {
	var out bytes.Buffer
	app := NewApp(Options{Out: &out, Err: &out})

	err := app.Execute(t.Context(), []string{"help", "baz:missing"})
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if code := shared.ExitCode(err); code != shared.ExitInvalidUsage {
		t.Errorf("expected exit code %d, got %d", shared.ExitInvalidUsage, code)
	}
}

func TestHelpCommandJSON_UnknownCommand(t *testing.T) {
	var out bytes.Buffer
	app := NewApp(Options{Out: &out, Err: &out})

	err := app.Execute(t.Context(), []string{"help", "--json", "baz:missing"})
	if code := shared.ExitCode(err); code != shared.ExitInvalidUsage {
		t.Errorf("expected exit code %d, got %d", shared.ExitInvalidUsage, code)
	}

	var resp struct {
		shared.JSONResponse
		Errors []shared.JSONError `json:"errors"`
	}
	if jerr := json.Unmarshal(out.Bytes(), &resp); jerr != nil {
		t.Fatalf("invalid JSON: %v\nOutput: %s", jerr, out.String())
	}
	if resp.Success || resp.Command != "help baz:missing" {
		t.Errorf("unexpected envelope: %+v", resp.JSONResponse)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Code != "COMMAND_NOT_FOUND" {
		t.Fatalf("expected one COMMAND_NOT_FOUND error, got %+v", resp.Errors)
	}
	if !strings.Contains(resp.Errors[0].Message, "baz:missing") {
		t.Errorf("expected message to name the command, got %q", resp.Errors[0].Message)
	}
}
