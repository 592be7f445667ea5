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


package badger

import (
	"cmp"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/semsearch/analysis"
	"github.com/poiesic/semsearch/core"
	"github.com/poiesic/semsearch/stemmer"
	"github.com/poiesic/semsearch/storage"
)

// DefaultMaxPathLength bounds the hierarchy walk of GetDistance.
const DefaultMaxPathLength = 8

// TermRepository is the Badger implementation of storage.TermRepository.
//
// Terms are keyed by the hash of their IRI. Each term is also indexed under
// the stems of the words in its label and synonyms, and under each of its
// parents as a child link.
type TermRepository struct {
	backend       *Backend
	filter        *analysis.Filter
	stemmer       *stemmer.Stemmer
	linkSeq       *badger.Sequence
	maxPathLength int
	logger        *slog.Logger
}

var _ storage.TermRepository = (*TermRepository)(nil)

// Option configures a TermRepository.
type Option func(*TermRepository) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *TermRepository) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithFilter sets the filter used to split labels and synonyms into index
// tokens. Default is analysis.NewFilter().
func WithFilter(filter *analysis.Filter) Option {
	return func(r *TermRepository) error {
		if filter != nil {
			r.filter = filter
		}
		return nil
	}
}

// WithStemmer sets the stemmer applied to index and search tokens.
// Default is the English stemmer.
func WithStemmer(s *stemmer.Stemmer) Option {
	return func(r *TermRepository) error {
		if s != nil {
			r.stemmer = s
		}
		return nil
	}
}

// WithMaxPathLength bounds the number of edges GetDistance explores.
func WithMaxPathLength(n int) Option {
	return func(r *TermRepository) error {
		if n < 1 {
			return fmt.Errorf("max path length must be positive, got %d", n)
		}
		r.maxPathLength = n
		return nil
	}
}

// NewTermRepository creates a term repository on top of backend.
func NewTermRepository(backend *Backend, opts ...Option) (*TermRepository, error) {
	r := &TermRepository{
		backend:       backend,
		maxPathLength: DefaultMaxPathLength,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	if r.filter == nil {
		f, err := analysis.NewFilter()
		if err != nil {
			return nil, err
		}
		r.filter = f
	}
	if r.stemmer == nil {
		s, err := stemmer.New(stemmer.DefaultLanguage)
		if err != nil {
			return nil, err
		}
		r.stemmer = s
	}

	linkSeq, err := backend.GetSequence(termLinkSeq)
	if err != nil {
		return nil, err
	}
	r.linkSeq = linkSeq
	return r, nil
}

// Close releases the link sequence.
func (r *TermRepository) Close() error {
	return r.linkSeq.Release()
}

// WithTransaction executes fn within a single Badger write transaction.
func (r *TermRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddTerms stores terms, replacing stored terms with the same IRI.
func (r *TermRepository) AddTerms(ctx context.Context, terms ...*core.OntologyTerm) ([]*core.OntologyTerm, error) {
	for _, term := range terms {
		if err := core.ValidateTerm(term); err != nil {
			return nil, err
		}
	}

	err := r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		for _, term := range terms {
			if err := r.putTerm(tx, term); err != nil {
				return err
			}
		}
		return nil
	}, true)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("stored terms", "count", len(terms))
	return terms, nil
}

func (r *TermRepository) putTerm(tx *badger.Txn, term *core.OntologyTerm) error {
	id := term.ID()
	key := makeTermKey(id)

	old, err := readTerm(tx, key)
	if err != nil {
		return err
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	if old != nil {
		term.InsertedAt = old.InsertedAt
		if err := r.deleteTokenIndex(tx, old); err != nil {
			return err
		}
		for _, parent := range old.Parents {
			if slices.Contains(term.Parents, parent) {
				continue
			}
			if err := tx.Delete(makeChildKey(core.IDFromContent(parent), id)); err != nil {
				return err
			}
		}
	} else if term.InsertedAt.IsZero() {
		term.InsertedAt = now
	}
	term.UpdatedAt = now

	if err := tx.Set(key, storage.MarshalTerm(term)); err != nil {
		return err
	}
	for _, token := range r.indexTokens(term) {
		if err := tx.Set(makeTokenKey(token, id), storage.MarshalID(id)); err != nil {
			return err
		}
	}
	return r.linkParents(tx, term)
}

// linkParents adds a child link under each parent. Existing links keep their
// sequence number so child order is stable across updates.
func (r *TermRepository) linkParents(tx *badger.Txn, term *core.OntologyTerm) error {
	for _, parent := range term.Parents {
		key := makeChildKey(core.IDFromContent(parent), term.ID())
		_, err := tx.Get(key)
		if err == nil {
			continue
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		seq, err := r.linkSeq.Next()
		if err != nil {
			return err
		}
		if err := tx.Set(key, storage.MarshalSequence(seq)); err != nil {
			return err
		}
	}
	return nil
}

// DeleteTerms removes terms by IRI.
// Links to a deleted term's children are kept: the children still name it
// as a parent and the links come back into use if it is added again.
func (r *TermRepository) DeleteTerms(ctx context.Context, iris ...string) error {
	return r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		for _, iri := range iris {
			id := core.IDFromContent(iri)
			key := makeTermKey(id)

			term, err := readTerm(tx, key)
			if err != nil {
				return err
			}
			if term == nil {
				return fmt.Errorf("%w: %s", storage.ErrNotFound, iri)
			}

			if err := r.deleteTokenIndex(tx, term); err != nil {
				return err
			}
			for _, parent := range term.Parents {
				if err := tx.Delete(makeChildKey(core.IDFromContent(parent), id)); err != nil {
					return err
				}
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return nil
	}, true)
}

// GetTerm retrieves a single term by IRI.
func (r *TermRepository) GetTerm(ctx context.Context, iri string) (*core.OntologyTerm, error) {
	var result *core.OntologyTerm
	err := r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		var err error
		result, err = readTerm(tx, makeTermKey(core.IDFromContent(iri)))
		if err != nil {
			return err
		}
		if result == nil {
			return fmt.Errorf("%w: %w: %s", storage.ErrNotFound, core.ErrTermNotFound, iri)
		}
		return nil
	}, false)
	return result, err
}

// GetTerms retrieves the stored terms among iris.
func (r *TermRepository) GetTerms(ctx context.Context, iris ...string) ([]*core.OntologyTerm, error) {
	var result []*core.OntologyTerm
	err := r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		for _, iri := range iris {
			term, err := readTerm(tx, makeTermKey(core.IDFromContent(iri)))
			if err != nil {
				return err
			}
			if term != nil {
				result = append(result, term)
			}
		}
		return nil
	}, false)
	return result, err
}

// GetAllTerms returns the terms of one ontology, or all terms when
// ontologyID is empty.
func (r *TermRepository) GetAllTerms(ctx context.Context, ontologyID string) ([]*core.OntologyTerm, error) {
	var results []*core.OntologyTerm
	err := r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		return scanPrefix(tx, termKeyPrefix(), true, func(item *badger.Item) error {
			term, err := decodeTerm(item)
			if err != nil {
				return err
			}
			if ontologyID == "" || term.OntologyID == ontologyID {
				results = append(results, term)
			}
			return nil
		})
	}, false)
	return results, err
}

// GetChildren returns the direct children of term in link order.
func (r *TermRepository) GetChildren(ctx context.Context, term *core.OntologyTerm) ([]*core.OntologyTerm, error) {
	var children []*core.OntologyTerm
	err := r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		var err error
		children, err = r.children(tx, term.ID())
		return err
	}, false)
	return children, err
}

type childLink struct {
	id  core.ID
	seq uint64
}

func (r *TermRepository) children(tx *badger.Txn, parentID core.ID) ([]*core.OntologyTerm, error) {
	prefix := makePartialChildKey(parentID)

	var links []childLink
	err := scanPrefix(tx, prefix, true, func(item *badger.Item) error {
		childID := core.ID(binary.BigEndian.Uint64(item.Key()[len(prefix):]))
		return item.Value(func(val []byte) error {
			seq, err := storage.UnmarshalSequence(val)
			if err != nil {
				return err
			}
			links = append(links, childLink{id: childID, seq: seq})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(links, func(a, b childLink) int {
		return cmp.Compare(a.seq, b.seq)
	})

	children := make([]*core.OntologyTerm, 0, len(links))
	for _, link := range links {
		child, err := readTerm(tx, makeTermKey(link.id))
		if err != nil {
			return nil, err
		}
		if child != nil {
			children = append(children, child)
		}
	}
	return children, nil
}

func (r *TermRepository) parents(tx *badger.Txn, term *core.OntologyTerm) ([]*core.OntologyTerm, error) {
	var parents []*core.OntologyTerm
	for _, iri := range term.Parents {
		parent, err := readTerm(tx, makeTermKey(core.IDFromContent(iri)))
		if err != nil {
			return nil, err
		}
		if parent != nil {
			parents = append(parents, parent)
		}
	}
	return parents, nil
}

// GetDistance walks the hierarchy breadth first from a, following both
// parent and child links, and returns the number of edges to b.
func (r *TermRepository) GetDistance(ctx context.Context, a, b *core.OntologyTerm) (int, error) {
	if a.IRI == b.IRI {
		return 0, nil
	}

	distance := -1
	err := r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		visited := map[string]bool{a.IRI: true}
		queue := []*core.OntologyTerm{a}

		for depth := 1; depth <= r.maxPathLength && len(queue) > 0; depth++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			var next []*core.OntologyTerm
			for _, term := range queue {
				parents, err := r.parents(tx, term)
				if err != nil {
					return err
				}
				children, err := r.children(tx, term.ID())
				if err != nil {
					return err
				}
				for _, n := range append(parents, children...) {
					if n.IRI == b.IRI {
						distance = depth
						return nil
					}
					if !visited[n.IRI] {
						visited[n.IRI] = true
						next = append(next, n)
					}
				}
			}
			queue = next
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	if distance < 0 {
		return 0, fmt.Errorf("%w: %s and %s", storage.ErrNoPath, a.IRI, b.IRI)
	}
	return distance, nil
}

type termHit struct {
	term  *core.OntologyTerm
	score int
}

// FindTerms ranks terms by the number of distinct search stems they share.
// Ties go to the shorter label, then to the lower IRI.
func (r *TermRepository) FindTerms(ctx context.Context, ontologyIDs []string, searchTerms []string, limit int) ([]*core.OntologyTerm, error) {
	stems := r.searchStems(searchTerms)
	if len(stems) == 0 {
		return nil, nil
	}

	var hits []termHit
	err := r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		scores := make(map[core.ID]int)
		var order []core.ID
		for _, stem := range stems {
			err := scanPrefix(tx, makePartialTokenKey(stem), true, func(item *badger.Item) error {
				return item.Value(func(val []byte) error {
					id, err := storage.UnmarshalID(val)
					if err != nil {
						return err
					}
					if _, seen := scores[id]; !seen {
						order = append(order, id)
					}
					scores[id]++
					return nil
				})
			})
			if err != nil {
				return err
			}
		}

		for _, id := range order {
			term, err := readTerm(tx, makeTermKey(id))
			if err != nil {
				return err
			}
			if term == nil {
				continue
			}
			if len(ontologyIDs) > 0 && !slices.Contains(ontologyIDs, term.OntologyID) {
				continue
			}
			hits = append(hits, termHit{term: term, score: scores[id]})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(hits, func(a, b termHit) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		if c := cmp.Compare(len(a.term.Label), len(b.term.Label)); c != 0 {
			return c
		}
		return cmp.Compare(a.term.IRI, b.term.IRI)
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	results := make([]*core.OntologyTerm, len(hits))
	for i, h := range hits {
		results[i] = h.term
	}
	r.logger.Debug("found terms", "search_terms", searchTerms, "hits", len(results))
	return results, nil
}

// indexTokens returns the distinct stems of every word in the term's label
// and synonyms.
func (r *TermRepository) indexTokens(term *core.OntologyTerm) []string {
	return r.searchStems(term.LabelAndSynonyms())
}

func (r *TermRepository) searchStems(texts []string) []string {
	seen := make(map[string]struct{})
	var stems []string
	for _, text := range texts {
		for _, token := range r.filter.ExtractSearchTerms(text).Unordered() {
			stem := r.stemmer.Stem(token)
			if stem == "" {
				continue
			}
			if _, ok := seen[stem]; ok {
				continue
			}
			seen[stem] = struct{}{}
			stems = append(stems, stem)
		}
	}
	return stems
}

func (r *TermRepository) deleteTokenIndex(tx *badger.Txn, term *core.OntologyTerm) error {
	id := term.ID()
	for _, token := range r.indexTokens(term) {
		if err := tx.Delete(makeTokenKey(token, id)); err != nil {
			return err
		}
	}
	return nil
}

func readTerm(tx *badger.Txn, key []byte) (*core.OntologyTerm, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return decodeTerm(item)
}

func decodeTerm(item *badger.Item) (*core.OntologyTerm, error) {
	var term *core.OntologyTerm
	err := item.Value(func(val []byte) error {
		var err error
		term, err = storage.UnmarshalTerm(val)
		return err
	})
	return term, err
}
