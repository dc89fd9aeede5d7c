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
Package console hosts cobra commands and emits lifecycle events around them.

An Application wraps a root cobra command. Commands registered through Add
are resolvable by name with Find and, when cobra dispatches them, emit two
synchronous signals on the Application's Dispatcher:

	CommandEvent    before the command body runs; listeners may disable it
	TerminateEvent  after the body ran (or was disabled), with its exit code

Listeners run in priority order (higher first). RunCommand executes a
command directly against a given output without emitting events, which is
how one command invokes another.
*/
package console
