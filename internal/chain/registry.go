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

import "slices"

// Entry is one chain: a master command and its members in execution order.
type Entry struct {
	Master  string   `json:"master"`
	Members []string `json:"members"`
}

// Registry maps master command names to their ordered member names.
//
// Registration happens once at startup; Registry is not safe for
// concurrent mutation.
type Registry struct {
	masters []string
	members map[string][]string
}

// NewRegistry creates an empty chain registry.
func NewRegistry() *Registry {
	return &Registry{members: make(map[string][]string)}
}

// Register adds member to master's chain. Registering the same pair again
// is a no-op. Names are not checked against the command registry; a
// missing member is reported when the chain runs.
func (r *Registry) Register(master, member string) {
	list, ok := r.members[master]
	if !ok {
		r.masters = append(r.masters, master)
	}
	if slices.Contains(list, member) {
		return
	}
	r.members[master] = append(list, member)
}

// IsMaster reports whether name has a chain.
func (r *Registry) IsMaster(name string) bool {
	_, ok := r.members[name]
	return ok
}

// IsMember reports whether name appears in any chain.
func (r *Registry) IsMember(name string) bool {
	_, ok := r.MasterOf(name)
	return ok
}

// MasterOf returns the first master, in registration order, whose chain
// contains member.
func (r *Registry) MasterOf(member string) (string, bool) {
	for _, master := range r.masters {
		if slices.Contains(r.members[master], member) {
			return master, true
		}
	}
	return "", false
}

// Members returns a copy of master's members in execution order.
func (r *Registry) Members(master string) []string {
	return slices.Clone(r.members[master])
}

// Masters returns the master names in registration order.
func (r *Registry) Masters() []string {
	return slices.Clone(r.masters)
}

// Chains returns a snapshot of every chain in registration order.
func (r *Registry) Chains() []Entry {
	entries := make([]Entry, 0, len(r.masters))
	for _, master := range r.masters {
		entries = append(entries, Entry{Master: master, Members: r.Members(master)})
	}
	return entries
}
