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


package query

import "github.com/poiesic/semsearch/core"

// Monitor provides hooks to observe term expansion.
// Implement this interface to trace which neighbours contributed phrases.
type Monitor interface {
	Start(term *core.OntologyTerm)
	OriginPhrases(term *core.OntologyTerm, phrases []string)
	Neighbour(term *core.OntologyTerm, distance int, phrases []string)
	Finish(term *core.OntologyTerm, phrases []string)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ *core.OntologyTerm)                       {}
func (n *noopMonitor) OriginPhrases(_ *core.OntologyTerm, _ []string)   {}
func (n *noopMonitor) Neighbour(_ *core.OntologyTerm, _ int, _ []string) {}
func (n *noopMonitor) Finish(_ *core.OntologyTerm, _ []string)          {}
