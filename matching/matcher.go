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


package matching

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/semsearch/core"
	"github.com/poiesic/semsearch/query"
)

const (
	// DefaultLimit is the number of hits requested when a Request sets none.
	DefaultLimit = 20

	// FieldIdentifier is the field that IN restrictions match against.
	FieldIdentifier = "id"
)

// AttributeSource resolves an entity to the identifiers of its attributes.
type AttributeSource interface {
	AttributeIdentifiers(ctx context.Context, entityName string) ([]string, error)
}

// Hit is one matched attribute.
type Hit struct {
	ID    string
	Score float64
}

// Executor runs a rule against the catalog and returns up to limit hits.
type Executor interface {
	Execute(ctx context.Context, rule *query.Rule, limit int) ([]Hit, error)
}

// Request describes one attribute to match.
// When IRIs is set the rule is a SHOULD over those terms; otherwise it is a
// DIS_MAX over Variants and Tags.
type Request struct {
	Entity   string       // Target entity; restricts hits to its attributes when an AttributeSource is set
	Variants []string     // Attribute name variants, e.g. name and label
	Tags     *core.TagSet // Ontology tags of the source attribute
	IRIs     string       // Comma-separated term IRIs
	Limit    int
}

// Result is the outcome of one Request.
type Result struct {
	Request Request
	Rule    *query.Rule
	Hits    []Hit
	Err     error
}

// Matcher builds and executes rules for attribute matching requests.
type Matcher struct {
	builder    *query.Builder
	executor   Executor
	attributes AttributeSource
	pool       *ants.Pool
	logger     *slog.Logger
}

// Option configures a Matcher.
type Option func(*Matcher) error

// WithPoolSize sets the worker pool size for MatchAll.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(m *Matcher) error {
		if size < 1 {
			size = 1
		}
		if m.pool != nil {
			m.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		m.pool = pool
		return nil
	}
}

// WithAttributeSource sets the source used to restrict hits to an entity.
func WithAttributeSource(source AttributeSource) Option {
	return func(m *Matcher) error {
		m.attributes = source
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// NewMatcher creates a new matcher.
func NewMatcher(builder *query.Builder, executor Executor, opts ...Option) (*Matcher, error) {
	if builder == nil {
		return nil, ErrBuilderRequired
	}
	if executor == nil {
		return nil, ErrExecutorRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	m := &Matcher{
		builder:  builder,
		executor: executor,
		pool:     pool,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(m); optErr != nil {
			m.Release()
			return nil, optErr
		}
	}
	return m, nil
}

// Match builds the rule for req and executes it.
func (m *Matcher) Match(ctx context.Context, req Request) (*Result, error) {
	result := &Result{Request: req}

	rule, err := m.buildRule(ctx, req)
	if err != nil {
		result.Err = err
		return result, err
	}
	if rule == nil {
		// The entity has no attributes to match against.
		return result, nil
	}
	result.Rule = rule

	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	hits, err := m.executor.Execute(ctx, rule, limit)
	if err != nil {
		m.logger.Error("error executing rule", "entity", req.Entity, "err", err)
		result.Err = err
		return result, err
	}
	result.Hits = hits
	return result, nil
}

func (m *Matcher) buildRule(ctx context.Context, req Request) (*query.Rule, error) {
	var (
		rule *query.Rule
		err  error
	)
	switch {
	case req.IRIs != "":
		rule, err = m.builder.ShouldForIRIs(ctx, req.IRIs)
	case len(req.Variants) > 0 || (req.Tags != nil && req.Tags.Len() > 0):
		var terms []*core.OntologyTerm
		if req.Tags != nil {
			terms = req.Tags.Values()
		}
		rule, err = m.builder.DisMaxForAttribute(ctx, req.Variants, terms)
	default:
		return nil, ErrEmptyRequest
	}
	if err != nil {
		return nil, err
	}

	if m.attributes == nil || req.Entity == "" {
		return rule, nil
	}
	ids, err := m.attributes.AttributeIdentifiers(ctx, req.Entity)
	if err != nil {
		return nil, fmt.Errorf("attributes of %s: %w", req.Entity, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return query.NewAnd(query.NewIn(FieldIdentifier, ids...), rule), nil
}

// MatchAll matches requests concurrently on the worker pool. Results are
// returned in request order; the error joins every per-request error.
func (m *Matcher) MatchAll(ctx context.Context, reqs []Request) ([]*Result, error) {
	results := make([]*Result, len(reqs))
	var wg sync.WaitGroup

	for i, req := range reqs {
		wg.Add(1)
		err := m.pool.Submit(func() {
			defer wg.Done()
			results[i], _ = m.Match(ctx, req)
		})
		if err != nil {
			wg.Done()
			results[i] = &Result{Request: req, Err: err}
		}
	}
	wg.Wait()

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	if len(errs) > 0 {
		m.logger.Warn("some requests failed", "failed", len(errs), "total", len(reqs))
	}
	return results, errors.Join(errs...)
}

// Release releases the worker pool.
// The matcher should not be used after calling Release.
func (m *Matcher) Release() {
	if m.pool != nil {
		m.pool.Release()
	}
}
