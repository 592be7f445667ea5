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
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/poiesic/semsearch/analysis"
	"github.com/poiesic/semsearch/query"
	"github.com/poiesic/semsearch/stemmer"
	"github.com/poiesic/semsearch/storage/badger"
)

// Config holds the process-wide settings of the query engine.
// Values are read once at construction; changing a Config afterwards does
// not affect components already built from it.
type Config struct {
	// Language selects the stemming rules, e.g. "EN".
	// Default: "EN"
	Language string `yaml:"language"`

	// StopWords replaces the built-in English stop-word list.
	// Nil keeps the default list for English and disables stop-word removal
	// for other languages; supply a list for those. An empty list disables
	// stop-word removal.
	StopWords []string `yaml:"stop_words"`

	// MaxDistance is the number of child hops followed when expanding a term.
	// Default: 1
	MaxDistance int `yaml:"max_distance"`

	// MaxTags is the number of ontology terms FindTags returns.
	// Default: 3
	MaxTags int `yaml:"max_tags"`

	// MaxPathLength bounds the hierarchy walk of the term store when it
	// computes distances between terms.
	// Default: 8
	MaxPathLength int `yaml:"max_path_length"`

	// PoolSize is the number of workers used for batch matching.
	// Default: runtime.NumCPU() / 2, minimum 1
	PoolSize int `yaml:"pool_size"`
}

type ConfigOption func(*Config)

func WithLanguage(language string) ConfigOption {
	return func(c *Config) {
		c.Language = language
	}
}

func WithStopWords(words []string) ConfigOption {
	return func(c *Config) {
		c.StopWords = words
	}
}

func WithMaxDistance(n int) ConfigOption {
	return func(c *Config) {
		c.MaxDistance = n
	}
}

func WithMaxTags(n int) ConfigOption {
	return func(c *Config) {
		c.MaxTags = n
	}
}

func WithMaxPathLength(n int) ConfigOption {
	return func(c *Config) {
		c.MaxPathLength = n
	}
}

func WithPoolSize(n int) ConfigOption {
	return func(c *Config) {
		c.PoolSize = n
	}
}

func DefaultConfig() *Config {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	return &Config{
		Language:      stemmer.DefaultLanguage,
		MaxDistance:   query.DefaultMaxDistance,
		MaxTags:       query.DefaultMaxTags,
		MaxPathLength: badger.DefaultMaxPathLength,
		PoolSize:      poolSize,
	}
}

func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// LoadConfig reads a YAML config file on top of the defaults.
// Keys missing from the file keep their default values.
func LoadConfig(path string, opts ...ConfigOption) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg, nil
}

func (c *Config) Normalize() {
	c.Language = strings.ToUpper(strings.TrimSpace(c.Language))
	if c.StopWords == nil {
		return
	}
	words := make([]string, 0, len(c.StopWords))
	for _, w := range c.StopWords {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	c.StopWords = words
}

func (c *Config) Validate() error {
	// Normalize first so language codes compare case-insensitively
	c.Normalize()

	if c.Language == "" {
		return errors.New("config: Language is required")
	}
	if _, err := stemmer.New(c.Language); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.MaxDistance < 0 {
		return errors.New("config: MaxDistance must not be negative")
	}
	if c.MaxTags < 1 {
		return errors.New("config: MaxTags must be at least 1")
	}
	if c.MaxPathLength < 1 {
		return errors.New("config: MaxPathLength must be at least 1")
	}
	if c.PoolSize < 1 {
		return errors.New("config: PoolSize must be at least 1")
	}
	return nil
}

// filterOptions returns the token filter settings matching the configured
// language. Call after Validate.
func (c *Config) filterOptions() []analysis.Option {
	opts := []analysis.Option{analysis.WithLanguage(language.Make(strings.ToLower(c.Language)))}
	switch {
	case c.StopWords != nil:
		opts = append(opts, analysis.WithStopWords(c.StopWords))
	case c.Language != stemmer.DefaultLanguage:
		// the built-in list is English
		opts = append(opts, analysis.WithStopWords([]string{}))
	}
	return opts
}
