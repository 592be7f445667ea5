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
	"sync"

	"github.com/poiesic/semsearch/core"
)

// fakeOntology is an in-memory OntologyService. Distances are looked up in
// an explicit table so tests control them independently of the hierarchy.
type fakeOntology struct {
	mu        sync.Mutex
	terms     map[string]*core.OntologyTerm
	children  map[string][]*core.OntologyTerm
	distances map[[2]string]int
	found     []*core.OntologyTerm
	err       error

	findCalls []findCall
}

type findCall struct {
	ontologyIDs []string
	searchTerms []string
	limit       int
}

func newFakeOntology(terms ...*core.OntologyTerm) *fakeOntology {
	f := &fakeOntology{
		terms:     make(map[string]*core.OntologyTerm),
		children:  make(map[string][]*core.OntologyTerm),
		distances: make(map[[2]string]int),
	}
	for _, term := range terms {
		f.terms[term.IRI] = term
	}
	return f
}

func (f *fakeOntology) addChild(parent, child *core.OntologyTerm, distance int) {
	f.terms[child.IRI] = child
	f.children[parent.IRI] = append(f.children[parent.IRI], child)
	f.distances[[2]string{parent.IRI, child.IRI}] = distance
}

func (f *fakeOntology) setDistance(a, b *core.OntologyTerm, distance int) {
	f.distances[[2]string{a.IRI, b.IRI}] = distance
}

func (f *fakeOntology) GetTerm(_ context.Context, iri string) (*core.OntologyTerm, error) {
	if f.err != nil {
		return nil, f.err
	}
	term, ok := f.terms[iri]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrTermNotFound, iri)
	}
	return term, nil
}

func (f *fakeOntology) GetChildren(_ context.Context, term *core.OntologyTerm) ([]*core.OntologyTerm, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.children[term.IRI], nil
}

func (f *fakeOntology) GetDistance(_ context.Context, a, b *core.OntologyTerm) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	d, ok := f.distances[[2]string{a.IRI, b.IRI}]
	if !ok {
		return 0, fmt.Errorf("no distance from %s to %s", a.IRI, b.IRI)
	}
	return d, nil
}

func (f *fakeOntology) FindTerms(_ context.Context, ontologyIDs []string, searchTerms []string, limit int) ([]*core.OntologyTerm, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findCalls = append(f.findCalls, findCall{ontologyIDs: ontologyIDs, searchTerms: searchTerms, limit: limit})
	if f.err != nil {
		return nil, f.err
	}
	return f.found, nil
}

// recordingMonitor captures expansion events.
type recordingMonitor struct {
	started    []string
	origin     []string
	neighbours []string
	finished   []string
}

func (m *recordingMonitor) Start(term *core.OntologyTerm) {
	m.started = append(m.started, term.IRI)
}

func (m *recordingMonitor) OriginPhrases(_ *core.OntologyTerm, phrases []string) {
	m.origin = append(m.origin, phrases...)
}

func (m *recordingMonitor) Neighbour(term *core.OntologyTerm, distance int, _ []string) {
	m.neighbours = append(m.neighbours, fmt.Sprintf("%s@%d", term.IRI, distance))
}

func (m *recordingMonitor) Finish(_ *core.OntologyTerm, phrases []string) {
	m.finished = append(m.finished, phrases...)
}
