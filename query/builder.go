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
	"strings"

	"github.com/poiesic/semsearch/analysis"
	"github.com/poiesic/semsearch/core"
)

const (
	// DefaultMaxDistance is the number of child hops the expander follows.
	DefaultMaxDistance = 1
	// DefaultMaxTags is the number of terms FindTags asks for.
	DefaultMaxTags = 3
)

// OntologyService is the ontology lookup the builder depends on.
// storage.TermRepository satisfies it.
type OntologyService interface {
	// GetTerm resolves an IRI. A missing term is reported with an error
	// wrapping core.ErrTermNotFound.
	GetTerm(ctx context.Context, iri string) (*core.OntologyTerm, error)
	// GetChildren returns the direct children of a term.
	GetChildren(ctx context.Context, term *core.OntologyTerm) ([]*core.OntologyTerm, error)
	// GetDistance returns the graph distance between two terms.
	GetDistance(ctx context.Context, a, b *core.OntologyTerm) (int, error)
	// FindTerms returns up to limit terms matching searchTerms.
	FindTerms(ctx context.Context, ontologyIDs []string, searchTerms []string, limit int) ([]*core.OntologyTerm, error)
}

// Builder assembles query rules from attribute names, ontology terms and IRIs.
// A Builder holds no per-call state and is safe for concurrent use.
type Builder struct {
	service     OntologyService
	filter      *analysis.Filter
	expander    *Expander
	maxDistance int
	maxTags     int
	monitor     Monitor
	logger      *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// WithFilter sets the filter that turns text into phrases.
// Default is analysis.NewFilter().
func WithFilter(filter *analysis.Filter) Option {
	return func(b *Builder) error {
		if filter == nil {
			return fmt.Errorf("%w: nil filter", ErrInvalidOption)
		}
		b.filter = filter
		return nil
	}
}

// WithMaxDistance sets how many child hops term expansion follows.
// Zero disables expansion to neighbours.
func WithMaxDistance(n int) Option {
	return func(b *Builder) error {
		if n < 0 {
			return fmt.Errorf("%w: max distance %d", ErrInvalidOption, n)
		}
		b.maxDistance = n
		return nil
	}
}

// WithMaxTags sets the number of terms FindTags requests.
func WithMaxTags(n int) Option {
	return func(b *Builder) error {
		if n < 1 {
			return fmt.Errorf("%w: max tags %d", ErrInvalidOption, n)
		}
		b.maxTags = n
		return nil
	}
}

// WithMonitor sets a monitor that observes term expansion.
func WithMonitor(monitor Monitor) Option {
	return func(b *Builder) error {
		if monitor != nil {
			b.monitor = monitor
		}
		return nil
	}
}

// NewBuilder creates a new builder.
func NewBuilder(service OntologyService, opts ...Option) (*Builder, error) {
	if service == nil {
		return nil, ErrOntologyServiceRequired
	}

	b := &Builder{
		service:     service,
		maxDistance: DefaultMaxDistance,
		maxTags:     DefaultMaxTags,
		monitor:     &noopMonitor{},
		logger:      slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	if b.filter == nil {
		f, err := analysis.NewFilter()
		if err != nil {
			return nil, err
		}
		b.filter = f
	}

	b.expander = &Expander{
		service:     b.service,
		filter:      b.filter,
		maxDistance: b.maxDistance,
		monitor:     b.monitor,
		logger:      b.logger,
	}
	return b, nil
}

// Filter returns the filter the builder uses for attribute names.
func (b *Builder) Filter() *analysis.Filter {
	return b.filter
}

// DisMaxForTerms escapes each literal and matches it against the label and
// description fields. All 2N leaves go under one DIS_MAX rule in input order.
func (b *Builder) DisMaxForTerms(terms []string) *Rule {
	leaves := make([]*Rule, 0, 2*len(terms))
	for _, term := range terms {
		literal := analysis.EscapeExcludingCaret(term)
		leaves = append(leaves,
			NewFuzzyMatch(FieldLabel, literal),
			NewFuzzyMatch(FieldDescription, literal),
		)
	}
	return NewDisMax(leaves...)
}

// DisMaxForAttribute builds a DIS_MAX rule from one phrase per distinct
// attribute name variant followed by the expansion of each distinct
// ontology term. Empty phrases are dropped.
func (b *Builder) DisMaxForAttribute(ctx context.Context, variants []string, terms []*core.OntologyTerm) (*Rule, error) {
	var phrases []string

	seenVariants := make(map[string]struct{}, len(variants))
	for _, variant := range variants {
		if _, ok := seenVariants[variant]; ok {
			continue
		}
		seenVariants[variant] = struct{}{}
		phrases = appendNonEmpty(phrases, b.filter.Phrase(variant))
	}

	seenTerms := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		if term == nil {
			continue
		}
		if _, ok := seenTerms[term.IRI]; ok {
			continue
		}
		seenTerms[term.IRI] = struct{}{}

		expanded, err := b.expander.ParseOntologyTermQueries(ctx, term)
		if err != nil {
			return nil, err
		}
		phrases = appendNonEmpty(phrases, expanded...)
	}

	b.logger.Debug("built attribute phrases", "variants", len(seenVariants), "terms", len(seenTerms), "phrases", len(phrases))
	return b.DisMaxForTerms(phrases), nil
}

// ShouldForIRIs resolves a comma-separated list of IRIs and builds one
// DIS_MAX rule per term under a SHOULD rule, in input order. Blank entries
// are skipped. An IRI the ontology cannot resolve fails the whole call.
func (b *Builder) ShouldForIRIs(ctx context.Context, commaSeparatedIRIs string) (*Rule, error) {
	var rules []*Rule
	for _, iri := range strings.Split(commaSeparatedIRIs, ",") {
		iri = strings.TrimSpace(iri)
		if iri == "" {
			continue
		}

		term, err := b.service.GetTerm(ctx, iri)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", iri, err)
		}
		if term == nil {
			return nil, fmt.Errorf("resolve %s: %w", iri, core.ErrTermNotFound)
		}

		expanded, err := b.expander.ParseOntologyTermQueries(ctx, term)
		if err != nil {
			return nil, err
		}
		rules = append(rules, b.DisMaxForTerms(appendNonEmpty(nil, expanded...)))
	}

	b.logger.Debug("built should rule", "terms", len(rules))
	return NewShould(rules...), nil
}

// FindTags extracts the search terms of description and asks the ontology
// for the best matching terms in ontologyIDs. Text without search terms
// yields no tags.
func (b *Builder) FindTags(ctx context.Context, description string, ontologyIDs []string) ([]*core.OntologyTerm, error) {
	terms := b.filter.ExtractSearchTerms(description)
	if terms.Len() == 0 {
		return nil, nil
	}

	found, err := b.service.FindTerms(ctx, ontologyIDs, terms.Values(), b.maxTags)
	if err != nil {
		b.logger.Error("error finding tags", "err", err)
		return nil, err
	}
	return found, nil
}

func appendNonEmpty(dst []string, phrases ...string) []string {
	for _, p := range phrases {
		if p != "" {
			dst = append(dst, p)
		}
	}
	return dst
}
