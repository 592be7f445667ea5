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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/semsearch/core"
	"github.com/poiesic/semsearch/matching"
	"github.com/poiesic/semsearch/query"
)

type nopExecutor struct{}

func (nopExecutor) Execute(_ context.Context, _ *query.Rule, _ int) ([]matching.Hit, error) {
	return nil, nil
}

func TestNewDatabase(t *testing.T) {
	t.Run("create new database", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		db, err := NewDatabase(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, db)
		defer db.Close()

		// Verify components are initialized
		assert.NotNil(t, db.TermRepository())
		assert.NotNil(t, db.Filter())
		assert.Equal(t, "EN", db.Stemmer().Language())
		assert.NotNil(t, db.backend)
		assert.NotNil(t, db.logger)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		// Try to create a database at a file path instead of directory
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		db, err := NewDatabase(tmpFile)
		assert.Error(t, err)
		assert.Nil(t, db)
	})

	t.Run("filter follows configured language", func(t *testing.T) {
		db, err := NewDatabase("", InMemory(), WithConfig(NewConfig(WithLanguage("fr"))))
		require.NoError(t, err)
		defer db.Close()

		assert.Equal(t, "FR", db.Stemmer().Language())
		assert.Empty(t, db.Filter().StopWords())
		assert.Equal(t, "the ocean", db.Filter().Phrase("The ocean"))
	})

	t.Run("error with invalid config", func(t *testing.T) {
		db, err := NewDatabase("", InMemory(), WithConfig(NewConfig(WithLanguage("XX"))))
		assert.Error(t, err)
		assert.Nil(t, db)
	})
}

func TestDatabase_Close(t *testing.T) {
	db, err := NewDatabase(t.TempDir())
	require.NoError(t, err)

	err = db.Close()
	assert.NoError(t, err)
}

func TestDatabase_Persistence(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	db, err := NewDatabase(dir)
	require.NoError(t, err)
	require.NoError(t, db.ImportTerms(ctx, []*core.OntologyTerm{core.NewTerm("http://onto/height", "Height")}))
	require.NoError(t, db.Close())

	db, err = NewDatabase(dir)
	require.NoError(t, err)
	defer db.Close()

	term, err := db.TermRepository().GetTerm(ctx, "http://onto/height")
	require.NoError(t, err)
	assert.Equal(t, "Height", term.Label)
}

func TestDatabase_FactoryMethods(t *testing.T) {
	cfg := NewConfig(WithStopWords([]string{"standing"}), WithMaxTags(1), WithPoolSize(2))
	db, err := NewDatabase("", InMemory(), WithConfig(cfg))
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	require.NoError(t, db.ImportTerms(ctx, []*core.OntologyTerm{
		{IRI: "http://onto/height", Label: "Height"},
		{IRI: "http://onto/standingheight", Label: "Standing height", Synonyms: []string{"body_length"}, Parents: []string{"http://onto/height"}},
	}))

	t.Run("builder uses configured stop words", func(t *testing.T) {
		b, err := db.NewBuilder()
		require.NoError(t, err)

		rule, err := b.ShouldForIRIs(ctx, "http://onto/height")
		require.NoError(t, err)
		assert.Equal(t, "SHOULD (DIS_MAX ("+
			"'label' FUZZY_MATCH 'height', 'description' FUZZY_MATCH 'height', "+
			"'label' FUZZY_MATCH 'length^0.5 body^0.5', 'description' FUZZY_MATCH 'length^0.5 body^0.5', "+
			"'label' FUZZY_MATCH 'height^0.5', 'description' FUZZY_MATCH 'height^0.5'))", rule.String())
	})

	t.Run("builder uses configured tag limit", func(t *testing.T) {
		b, err := db.NewBuilder()
		require.NoError(t, err)

		tags, err := b.FindTags(ctx, "height", nil)
		require.NoError(t, err)
		assert.Len(t, tags, 1)
	})

	t.Run("can create matcher", func(t *testing.T) {
		m, err := db.NewMatcher(nopExecutor{})
		require.NoError(t, err)
		defer m.Release()

		res, err := m.Match(ctx, matching.Request{Variants: []string{"Height"}})
		require.NoError(t, err)
		assert.NotNil(t, res.Rule)
	})

	t.Run("matcher requires executor", func(t *testing.T) {
		_, err := db.NewMatcher(nil)
		assert.ErrorIs(t, err, matching.ErrExecutorRequired)
	})
}
