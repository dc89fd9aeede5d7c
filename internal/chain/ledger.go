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

// Ledger remembers which masters already had their registration logged,
// so repeated runs in one process do not repeat those lines.
type Ledger struct {
	seen map[string]struct{}
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{seen: make(map[string]struct{})}
}

// FirstSighting records master and reports whether this was the first time.
func (l *Ledger) FirstSighting(master string) bool {
	if _, ok := l.seen[master]; ok {
		return false
	}
	l.seen[master] = struct{}{}
	return true
}
