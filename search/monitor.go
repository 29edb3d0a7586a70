// Copyright 2025 Poiesic Systems
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

package search

import "github.com/poiesic/vibematch/core"

// MatchMonitor observes each stage of a match.
type MatchMonitor interface {
	Start(labels []string)
	AfterCompose(tags []*core.Tag, query []float32)
	AfterScore(results []core.ScoredResult)
	Finish(results []core.ScoredResult)
}

type noopMonitor struct{}

var _ MatchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ []string)                        {}
func (n *noopMonitor) AfterCompose(_ []*core.Tag, _ []float32) {}
func (n *noopMonitor) AfterScore(_ []core.ScoredResult)        {}
func (n *noopMonitor) Finish(_ []core.ScoredResult)            {}
