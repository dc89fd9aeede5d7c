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

package console

import (
	"sort"
)

// Listener priorities. Higher priorities run first.
const (
	PriorityHigh    = 10
	PriorityDefault = 0
	PriorityLow     = -10
)

// CommandListener is called before a command body runs.
type CommandListener func(*CommandEvent)

// TerminateListener is called after a command finished.
type TerminateListener func(*TerminateEvent)

type prioritized[T any] struct {
	priority int
	fn       T
}

// Dispatcher invokes lifecycle listeners synchronously, in priority order.
// Listeners with equal priority run in registration order.
type Dispatcher struct {
	command   []prioritized[CommandListener]
	terminate []prioritized[TerminateListener]
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// OnCommand registers fn for the before-execute signal.
func (d *Dispatcher) OnCommand(priority int, fn CommandListener) {
	d.command = insert(d.command, prioritized[CommandListener]{priority: priority, fn: fn})
}

// OnTerminate registers fn for the after-execute signal.
func (d *Dispatcher) OnTerminate(priority int, fn TerminateListener) {
	d.terminate = insert(d.terminate, prioritized[TerminateListener]{priority: priority, fn: fn})
}

// DispatchCommand calls every command listener with ev.
func (d *Dispatcher) DispatchCommand(ev *CommandEvent) {
	for _, l := range d.command {
		l.fn(ev)
	}
}

// DispatchTerminate calls every terminate listener with ev.
func (d *Dispatcher) DispatchTerminate(ev *TerminateEvent) {
	for _, l := range d.terminate {
		l.fn(ev)
	}
}

func insert[T any](list []prioritized[T], item prioritized[T]) []prioritized[T] {
	list = append(list, item)
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].priority > list[j].priority
	})
	return list
}
