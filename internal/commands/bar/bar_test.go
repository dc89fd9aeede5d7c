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

package bar

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/cmdchain/internal/chain"
	"github.com/tombee/cmdchain/internal/commands/shared"
)

func newTestGate(logs *bytes.Buffer) *chain.Gate {
	chains := chain.NewRegistry()
	chains.Register("foo:hello", Name)
	return chain.NewGate(chains, slog.New(slog.NewTextHandler(logs, nil)))
}

func TestHi_Standalone(t *testing.T) {
	var out, logs bytes.Buffer
	cmd := NewCommand(newTestGate(&logs), nil)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)

	assert.Equal(t, shared.ExitFailure, shared.ExitCode(err))
	assert.Equal(t,
		"Error: bar:hi command is a member of foo:hello command chain and cannot be executed on its own.\n",
		out.String())
	assert.NotContains(t, out.String(), Message)
	assert.Contains(t, logs.String(), "level=ERROR")

	var standalone *chain.StandaloneInvocationError
	assert.ErrorAs(t, err, &standalone)
}

func TestHi_FromMaster(t *testing.T) {
	var out, logs bytes.Buffer
	cmd := NewCommand(newTestGate(&logs), slog.New(slog.NewTextHandler(&logs, nil)))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--" + chain.MemberFlag})

	require.NoError(t, cmd.Execute())

	assert.Equal(t, "Hi from Bar!\n", out.String())
	assert.Contains(t, logs.String(), Message)
	assert.NotContains(t, logs.String(), "level=ERROR")
}

func TestHi_NotChained(t *testing.T) {
	var out, logs bytes.Buffer
	gate := chain.NewGate(chain.NewRegistry(), nil)
	cmd := NewCommand(gate, slog.New(slog.NewTextHandler(&logs, nil)))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "Hi from Bar!\n", out.String())
}

func TestHi_MemberFlagHidden(t *testing.T) {
	cmd := NewCommand(chain.NewGate(chain.NewRegistry(), nil), nil)

	f := cmd.Flags().Lookup(chain.MemberFlag)
	require.NotNil(t, f)
	assert.True(t, f.Hidden)
}
