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


package storage

import (
	"context"

	"github.com/poiesic/semsearch/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// TermRepository stores ontology terms and answers the hierarchy and lookup
// questions the query builder asks.
type TermRepository interface {
	Repository

	// AddTerms stores terms, replacing any stored term with the same IRI.
	// Every term is validated with core.ValidateTerm before anything is written.
	// Sets InsertedAt on first insert and UpdatedAt on every write.
	AddTerms(ctx context.Context, terms ...*core.OntologyTerm) ([]*core.OntologyTerm, error)

	// DeleteTerms removes terms by IRI together with their index entries.
	// Returns ErrNotFound if any term doesn't exist.
	DeleteTerms(ctx context.Context, iris ...string) error

	// GetTerm retrieves a single term by IRI.
	// The error for a missing term wraps both ErrNotFound and core.ErrTermNotFound.
	GetTerm(ctx context.Context, iri string) (*core.OntologyTerm, error)

	// GetTerms retrieves multiple terms by IRI.
	// Returns only the terms that exist (no error for missing terms).
	GetTerms(ctx context.Context, iris ...string) ([]*core.OntologyTerm, error)

	// GetAllTerms returns every stored term of the given ontology, or of all
	// ontologies when ontologyID is empty.
	GetAllTerms(ctx context.Context, ontologyID string) ([]*core.OntologyTerm, error)

	// GetChildren returns the direct children of a term in the order they
	// were first linked.
	GetChildren(ctx context.Context, term *core.OntologyTerm) ([]*core.OntologyTerm, error)

	// GetDistance returns the number of parent/child edges on the shortest
	// path between two terms. Returns ErrNoPath if the terms are not
	// connected within the repository's path bound.
	GetDistance(ctx context.Context, a, b *core.OntologyTerm) (int, error)

	// FindTerms returns up to limit terms whose label or synonyms share words
	// with searchTerms, best match first. An empty ontologyIDs searches all
	// ontologies; a limit <= 0 returns every match.
	FindTerms(ctx context.Context, ontologyIDs []string, searchTerms []string, limit int) ([]*core.OntologyTerm, error)
}
