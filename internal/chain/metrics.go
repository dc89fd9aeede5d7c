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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Member outcomes recorded in chainMemberRuns.
const (
	outcomeSuccess  = "success"
	outcomeFailure  = "failure"
	outcomeNotFound = "not_found"
	outcomeSkipped  = "skipped"
)

var (
	// chainRuns tracks chain executions per master
	chainRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cmdchain_chain_runs_total",
			Help: "Total chain executions by master command",
		},
		[]string{"master"},
	)

	// chainMemberRuns tracks member outcomes within chains
	chainMemberRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cmdchain_chain_member_runs_total",
			Help: "Total chain member invocations by master, member and outcome",
		},
		[]string{"master", "member", "outcome"},
	)

	// standaloneRejections tracks members refused because they ran on their own
	standaloneRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cmdchain_standalone_rejections_total",
			Help: "Total standalone invocations of chain members that were rejected",
		},
		[]string{"member"},
	)
)

func recordChainRun(master string) {
	chainRuns.WithLabelValues(master).Inc()
}

func recordMember(master, member, outcome string) {
	chainMemberRuns.WithLabelValues(master, member, outcome).Inc()
}

func recordRejection(member string) {
	standaloneRejections.WithLabelValues(member).Inc()
}
