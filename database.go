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


package semsearch

import (
	"context"
	"log/slog"

	"github.com/poiesic/semsearch/analysis"
	"github.com/poiesic/semsearch/core"
	"github.com/poiesic/semsearch/matching"
	"github.com/poiesic/semsearch/query"
	"github.com/poiesic/semsearch/stemmer"
	"github.com/poiesic/semsearch/storage"
	"github.com/poiesic/semsearch/storage/badger"
)

// Database wires a Badger term store to the query engine.
type Database struct {
	backend  *badger.Backend
	termRepo *badger.TermRepository
	filter   *analysis.Filter
	stemmer  *stemmer.Stemmer
	config   *Config
	logger   *slog.Logger
}

type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	config   *Config
	inMemory bool
	logger   *slog.Logger
}

// WithConfig sets the engine configuration. Default is DefaultConfig().
func WithConfig(cfg *Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.config = cfg
	}
}

// InMemory keeps the term store in memory; the file path is ignored.
func InMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		o.logger = logger
	}
}

// NewDatabase opens (or creates) the term store at filePath.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.config == nil {
		options.config = DefaultConfig()
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	cfg := options.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stem, err := stemmer.New(cfg.Language)
	if err != nil {
		return nil, err
	}

	filter, err := analysis.NewFilter(cfg.filterOptions()...)
	if err != nil {
		return nil, err
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory, badger.WithBackendLogger(options.logger))
	if err != nil {
		return nil, err
	}

	// Create term repository
	termRepo, err := badger.NewTermRepository(backend,
		badger.WithLogger(options.logger),
		badger.WithFilter(filter),
		badger.WithStemmer(stem),
		badger.WithMaxPathLength(cfg.MaxPathLength),
	)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Database{
		backend:  backend,
		termRepo: termRepo,
		filter:   filter,
		stemmer:  stem,
		config:   cfg,
		logger:   options.logger,
	}, nil
}

func (db *Database) Close() error {
	if err := db.termRepo.Close(); err != nil {
		db.logger.Error("error closing term repository", "err", err)
		return err
	}

	// Close backend
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) TermRepository() storage.TermRepository {
	return db.termRepo
}

func (db *Database) Filter() *analysis.Filter {
	return db.filter
}

func (db *Database) Stemmer() *stemmer.Stemmer {
	return db.stemmer
}

func (db *Database) Config() Config {
	return *db.config
}

// ImportTerms stores terms in a single transaction.
func (db *Database) ImportTerms(ctx context.Context, terms []*core.OntologyTerm) error {
	return db.termRepo.WithTransaction(ctx, func(ctx context.Context) error {
		_, err := db.termRepo.AddTerms(ctx, terms...)
		return err
	})
}

// NewBuilder creates a query builder over the term store using the
// configured filter, distance and tag limits. opts are applied last.
func (db *Database) NewBuilder(opts ...query.Option) (*query.Builder, error) {
	base := []query.Option{
		query.WithLogger(db.logger),
		query.WithFilter(db.filter),
		query.WithMaxDistance(db.config.MaxDistance),
		query.WithMaxTags(db.config.MaxTags),
	}
	return query.NewBuilder(db.termRepo, append(base, opts...)...)
}

// NewMatcher creates a matcher that builds rules with a new builder and runs
// them on executor.
func (db *Database) NewMatcher(executor matching.Executor, opts ...matching.Option) (*matching.Matcher, error) {
	builder, err := db.NewBuilder()
	if err != nil {
		return nil, err
	}
	base := []matching.Option{
		matching.WithLogger(db.logger),
		matching.WithPoolSize(db.config.PoolSize),
	}
	return matching.NewMatcher(builder, executor, append(base, opts...)...)
}
