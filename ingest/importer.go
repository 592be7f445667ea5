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


package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/semsearch/core"
	"github.com/poiesic/semsearch/storage"
)

// Config holds configuration for an import.
type Config struct {
	// BatchSize is the number of terms stored per transaction
	BatchSize int

	// ReportInterval is how often to report progress (number of terms)
	ReportInterval int

	// MaxRetries is the maximum number of attempts per batch
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      500,
		ReportInterval: 500,
		MaxRetries:     3,
		RetryDelay:     100 * time.Millisecond,
	}
}

func (c *Config) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size must be greater than 0", ErrInvalidConfig)
	}
	if c.ReportInterval <= 0 {
		return fmt.Errorf("%w: report interval must be greater than 0", ErrInvalidConfig)
	}
	if c.MaxRetries <= 0 {
		return fmt.Errorf("%w: max retries must be greater than 0", ErrInvalidConfig)
	}
	return nil
}

// Importer stores terms in batches.
type Importer struct {
	repo     storage.TermRepository
	config   *Config
	progress io.Writer
	logger   *slog.Logger
}

// NewImporter creates a new importer.
// progress: where to write progress output (typically os.Stderr)
func NewImporter(repo storage.TermRepository, config *Config, progress io.Writer) (*Importer, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if progress == nil {
		progress = io.Discard
	}
	return &Importer{
		repo:     repo,
		config:   config,
		progress: progress,
		logger:   slog.Default(),
	}, nil
}

// Run stores terms in order. Each batch is committed on its own, so a
// failure leaves the earlier batches in place.
func (im *Importer) Run(ctx context.Context, terms []*core.OntologyTerm) error {
	if len(terms) == 0 {
		fmt.Fprintf(im.progress, "No terms to import\n")
		return nil
	}

	fmt.Fprintf(im.progress, "Importing %d terms (batch size: %d)\n", len(terms), im.config.BatchSize)

	tracker := NewProgressTracker(im.progress, len(terms), im.config.ReportInterval)
	tracker.Start()

	for start := 0; start < len(terms); start += im.config.BatchSize {
		end := min(start+im.config.BatchSize, len(terms))
		batch := terms[start:end]

		if err := im.storeBatch(ctx, batch); err != nil {
			return fmt.Errorf("failed to import terms %d-%d: %w", start, end-1, err)
		}
		tracker.Increment(len(batch))
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	im.logger.Info("import complete", "terms", len(terms), "elapsed", elapsed.Round(time.Millisecond))
	return nil
}

func (im *Importer) storeBatch(ctx context.Context, batch []*core.OntologyTerm) error {
	return RetryWithBackoff(ctx, func() error {
		err := im.repo.WithTransaction(ctx, func(ctx context.Context) error {
			_, err := im.repo.AddTerms(ctx, batch...)
			return err
		})
		if err != nil && !errors.Is(err, badger.ErrConflict) {
			return Permanent(err)
		}
		return err
	}, im.config.MaxRetries, im.config.RetryDelay)
}
