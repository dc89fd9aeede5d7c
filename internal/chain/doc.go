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
Package chain implements command chaining: a master command that, after it
succeeds, runs an ordered list of member commands on the same output, and
member commands that refuse to run on their own.

# Components

  - Registry holds master → members; Register is idempotent and keeps order.
  - Gate is the single standalone check shared by the Listener and every
    member command.
  - Listener subscribes to the console lifecycle: before execute it logs
    masters and blocks members; after execute it runs the chain of a master
    that exited 0.
  - Orchestrator runs members one at a time with the --from-master flag set.
    Missing members are logged and skipped; failing members are ignored
    unless Options.ContinueOnMemberFailure is false.

# Wiring

	chains := chain.NewRegistry()
	chains.Register("foo:hello", "bar:hi")

	gate := chain.NewGate(chains, logger)
	orch := chain.NewOrchestrator(chains, app, chain.DefaultOptions(), logger)
	chain.NewListener(chains, gate, orch, logger).Subscribe(app.Dispatcher())

Everything runs synchronously on the caller's goroutine.
*/
package chain
