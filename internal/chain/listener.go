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
	"log/slog"

	"github.com/tombee/cmdchain/internal/commands/shared"
	"github.com/tombee/cmdchain/internal/console"
	"github.com/tombee/cmdchain/internal/log"
)

// Listener hooks command chaining into the console lifecycle. Before a
// command runs it logs masters and blocks standalone members; after a
// master succeeds it hands off to the Orchestrator.
type Listener struct {
	chains       *Registry
	ledger       *Ledger
	gate         *Gate
	orchestrator *Orchestrator
	logger       *slog.Logger
}

// NewListener creates a Listener. The gate and orchestrator must be built
// over the same registry.
func NewListener(chains *Registry, gate *Gate, orchestrator *Orchestrator, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = log.Discard()
	}
	return &Listener{
		chains:       chains,
		ledger:       NewLedger(),
		gate:         gate,
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// Subscribe registers the listener on d. The gate runs ahead of
// default-priority command listeners; chains run after default-priority
// terminate listeners.
func (l *Listener) Subscribe(d *console.Dispatcher) {
	d.OnCommand(console.PriorityHigh, l.BeforeExecute)
	d.OnTerminate(console.PriorityLow, l.AfterExecute)
}

// BeforeExecute handles the before-execute signal. A name registered as
// both master and member is treated as a master.
func (l *Listener) BeforeExecute(ev *console.CommandEvent) {
	name := ev.Name()

	switch {
	case l.chains.IsMaster(name):
		if l.ledger.FirstSighting(name) {
			l.logRegistration(name)
		}
		l.logger.Info(fmt.Sprintf("Executing %s command itself first:", name), log.MasterKey, name)

	case l.chains.IsMember(name):
		// Anything dispatched through the console is a direct invocation;
		// chain runs go through RunCommand and never reach this listener.
		if err := l.gate.Check(name, false, ev.Output()); err != nil {
			ev.DisableCommand()
		}
	}
}

// AfterExecute handles the after-execute signal: a master that exited
// successfully runs its chain on the same output.
func (l *Listener) AfterExecute(ev *console.TerminateEvent) {
	name := ev.Name()
	if !l.chains.IsMaster(name) || ev.ExitCode() != shared.ExitSuccess {
		return
	}

	l.orchestrator.Run(ev.Context(), name, ev.Output())
}

func (l *Listener) logRegistration(master string) {
	l.logger.Info(
		fmt.Sprintf("%s is a master command of a command chain that has registered member commands", master),
		log.MasterKey, master,
	)
	for _, member := range l.chains.Members(master) {
		l.logger.Info(
			fmt.Sprintf("%s registered as a member of %s command chain", member, master),
			log.MasterKey, master,
			log.MemberKey, member,
		)
	}
}
