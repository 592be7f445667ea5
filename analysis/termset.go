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


package analysis

import (
	"slices"
	"strings"
	"unicode/utf16"
)

const (
	initialBuckets = 16
	loadFactor     = 0.75
)

// TermSet is a set of strings with a deterministic iteration order.
//
// Terms are ordered by bucket of a power-of-two hash table: the hash is the
// base-31 polynomial over the UTF-16 code units of the term, folded as
// h ^ (h >>> 16). The table starts with 16 buckets and doubles whenever it
// is more than 75% full. Terms sharing a bucket keep insertion order.
//
// The zero value is an empty set ready to use. A TermSet is not safe for
// concurrent mutation.
type TermSet struct {
	terms []string
	index map[string]struct{}
}

// NewTermSet creates a set holding the given terms.
func NewTermSet(terms ...string) *TermSet {
	s := &TermSet{}
	for _, t := range terms {
		s.Add(t)
	}
	return s
}

// Add inserts a term and reports whether it was not already present.
func (s *TermSet) Add(term string) bool {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[term]; ok {
		return false
	}
	s.index[term] = struct{}{}
	s.terms = append(s.terms, term)
	return true
}

// Contains reports whether term is in the set.
func (s *TermSet) Contains(term string) bool {
	_, ok := s.index[term]
	return ok
}

// Len returns the number of terms.
func (s *TermSet) Len() int {
	return len(s.terms)
}

// Values returns the terms in iteration order.
func (s *TermSet) Values() []string {
	if len(s.terms) == 0 {
		return nil
	}
	mask := uint32(buckets(len(s.terms)) - 1)
	out := slices.Clone(s.terms)
	slices.SortStableFunc(out, func(a, b string) int {
		return int(spread(hashTerm(a))&mask) - int(spread(hashTerm(b))&mask)
	})
	return out
}

// Join concatenates the terms in iteration order with sep.
func (s *TermSet) Join(sep string) string {
	return strings.Join(s.Values(), sep)
}

// Unordered returns the terms in insertion order.
func (s *TermSet) Unordered() []string {
	return slices.Clone(s.terms)
}

func buckets(size int) int {
	n := initialBuckets
	for float64(size) > loadFactor*float64(n) {
		n <<= 1
	}
	return n
}

func hashTerm(term string) uint32 {
	var h uint32
	for _, unit := range utf16.Encode([]rune(term)) {
		h = 31*h + uint32(unit)
	}
	return h
}

func spread(h uint32) uint32 {
	return h ^ (h >> 16)
}
