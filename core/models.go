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


package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// Terms derive it from their IRI so the same IRI always maps to the same key.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// OntologyTerm is a labeled concept of a controlled vocabulary.
// Terms are treated as immutable by the query engine; only the ontology
// repository creates or changes them.
type OntologyTerm struct {
	IRI         string
	Label       string
	Synonyms    []string // Alternative labels, insertion order is kept
	Description string   // Advisory only, never weighted
	OntologyID  string   // Ontology the term belongs to
	Parents     []string // IRIs of the direct parent terms
	InsertedAt  time.Time
	UpdatedAt   time.Time
}

// NewTerm creates a term with the given IRI, label and synonyms.
func NewTerm(iri, label string, synonyms ...string) *OntologyTerm {
	return &OntologyTerm{
		IRI:      iri,
		Label:    label,
		Synonyms: synonyms,
	}
}

// ID returns the storage identifier derived from the term's IRI.
func (t *OntologyTerm) ID() ID {
	return IDFromContent(t.IRI)
}

// LabelAndSynonyms returns the term's source strings: the synonyms in
// order followed by the label. Exact duplicates are collapsed, keeping the
// first occurrence.
func (t *OntologyTerm) LabelAndSynonyms() []string {
	seen := make(map[string]struct{}, len(t.Synonyms)+1)
	out := make([]string, 0, len(t.Synonyms)+1)
	for _, s := range append(append([]string{}, t.Synonyms...), t.Label) {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Relation is the kind of semantic link between an attribute and a term.
type Relation string

const (
	// IsAssociatedWith marks a loose association.
	IsAssociatedWith Relation = "isAssociatedWith"
	// IsRealizationOf marks a concrete measurement of the term.
	IsRealizationOf Relation = "isRealizationOf"
	// IsDefinedBy marks the defining term.
	IsDefinedBy Relation = "isDefinedBy"
)

// Tag pairs a relation with the term it points to.
type Tag struct {
	Relation Relation
	Term     *OntologyTerm
}

// TagSet is an ordered multimap from Relation to OntologyTerm.
// Values are returned in insertion order across all relations and the same
// term may appear under several relations.
type TagSet struct {
	tags []Tag
}

// NewTagSet creates an empty TagSet.
func NewTagSet() *TagSet {
	return &TagSet{}
}

// Put adds a term under the given relation. Adding the same relation/term
// pair twice is a no-op.
func (s *TagSet) Put(rel Relation, term *OntologyTerm) {
	for _, tag := range s.tags {
		if tag.Relation == rel && tag.Term.IRI == term.IRI {
			return
		}
	}
	s.tags = append(s.tags, Tag{Relation: rel, Term: term})
}

// Values returns every term in insertion order.
func (s *TagSet) Values() []*OntologyTerm {
	out := make([]*OntologyTerm, len(s.tags))
	for i, tag := range s.tags {
		out[i] = tag.Term
	}
	return out
}

// Len returns the number of relation/term pairs.
func (s *TagSet) Len() int {
	return len(s.tags)
}
