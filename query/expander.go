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

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/semsearch/analysis"
	"github.com/poiesic/semsearch/core"
)

// Expander turns an ontology term into weighted phrases.
type Expander struct {
	service     OntologyService
	filter      *analysis.Filter
	maxDistance int
	monitor     Monitor
	logger      *slog.Logger
}

// NewExpander creates an expander configured like NewBuilder would.
func NewExpander(service OntologyService, opts ...Option) (*Expander, error) {
	b, err := NewBuilder(service, opts...)
	if err != nil {
		return nil, err
	}
	return b.expander, nil
}

// ParseOntologyTermQueries returns one phrase per synonym and label of term,
// synonyms first, followed by the phrases of every term reachable through
// children within the configured distance. Neighbour phrases carry a
// ^weight suffix on each token where weight is 1/2^distance, with the
// distance taken from the ontology service.
//
// A term with an empty label yields an empty phrase; callers drop it.
func (e *Expander) ParseOntologyTermQueries(ctx context.Context, term *core.OntologyTerm) ([]string, error) {
	if term == nil {
		return nil, core.ErrInvalidTerm
	}
	e.monitor.Start(term)

	var phrases []string
	for _, source := range term.LabelAndSynonyms() {
		phrases = append(phrases, e.filter.Phrase(source))
	}
	e.monitor.OriginPhrases(term, phrases)

	visited := map[string]bool{term.IRI: true}
	queue := []*core.OntologyTerm{term}

	for depth := 1; depth <= e.maxDistance && len(queue) > 0; depth++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var next []*core.OntologyTerm
		for _, current := range queue {
			children, err := e.service.GetChildren(ctx, current)
			if err != nil {
				e.logger.Error("error fetching children", "iri", current.IRI, "err", err)
				return nil, fmt.Errorf("children of %s: %w", current.IRI, err)
			}

			for _, child := range children {
				if child == nil || visited[child.IRI] {
					continue
				}
				visited[child.IRI] = true
				next = append(next, child)

				neighbourPhrases, err := e.neighbourPhrases(ctx, term, child)
				if err != nil {
					return nil, err
				}
				phrases = append(phrases, neighbourPhrases...)
			}
		}
		queue = next
	}

	e.monitor.Finish(term, phrases)
	return phrases, nil
}

func (e *Expander) neighbourPhrases(ctx context.Context, origin, neighbour *core.OntologyTerm) ([]string, error) {
	distance, err := e.service.GetDistance(ctx, origin, neighbour)
	if err != nil {
		e.logger.Error("error computing distance", "from", origin.IRI, "to", neighbour.IRI, "err", err)
		return nil, fmt.Errorf("distance from %s to %s: %w", origin.IRI, neighbour.IRI, err)
	}

	weight := core.WeightForDistance(distance)
	sources := neighbour.LabelAndSynonyms()
	phrases := make([]string, 0, len(sources))
	for _, source := range sources {
		phrases = append(phrases, e.filter.BoostQueryString(source, weight))
	}

	e.monitor.Neighbour(neighbour, distance, phrases)
	return phrases, nil
}
