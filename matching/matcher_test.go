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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/semsearch/core"
	"github.com/poiesic/semsearch/query"
	"github.com/poiesic/semsearch/storage/badger"
)

type recordingExecutor struct {
	mu    sync.Mutex
	rules []string
	err   error
}

func (e *recordingExecutor) Execute(_ context.Context, rule *query.Rule, limit int) ([]Hit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rules = append(e.rules, rule.String())
	if e.err != nil {
		return nil, e.err
	}
	return []Hit{{ID: fmt.Sprintf("hit-%d", limit), Score: 1}}, nil
}

type staticAttributes map[string][]string

func (s staticAttributes) AttributeIdentifiers(_ context.Context, entityName string) ([]string, error) {
	ids, ok := s[entityName]
	if !ok {
		return nil, fmt.Errorf("unknown entity %s", entityName)
	}
	return ids, nil
}

func setupBuilder(t *testing.T) *query.Builder {
	t.Helper()
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})

	_, err = repo.AddTerms(context.Background(),
		core.NewTerm("http://onto/height", "Height", "sature"),
		core.NewTerm("http://onto/weight", "Weight"),
	)
	require.NoError(t, err)

	b, err := query.NewBuilder(repo)
	require.NoError(t, err)
	return b
}

func TestNewMatcher(t *testing.T) {
	b := setupBuilder(t)
	exec := &recordingExecutor{}

	t.Run("valid configuration", func(t *testing.T) {
		m, err := NewMatcher(b, exec, WithPoolSize(2), WithLogger(slog.Default()))
		require.NoError(t, err)
		defer m.Release()
	})

	t.Run("pool size clamps to one", func(t *testing.T) {
		m, err := NewMatcher(b, exec, WithPoolSize(0))
		require.NoError(t, err)
		defer m.Release()
		assert.Equal(t, 1, m.pool.Cap())
	})

	t.Run("nil builder", func(t *testing.T) {
		_, err := NewMatcher(nil, exec)
		assert.Equal(t, ErrBuilderRequired, err)
	})

	t.Run("nil executor", func(t *testing.T) {
		_, err := NewMatcher(b, nil)
		assert.Equal(t, ErrExecutorRequired, err)
	})
}

func TestMatch(t *testing.T) {
	ctx := context.Background()
	b := setupBuilder(t)

	t.Run("attribute request", func(t *testing.T) {
		exec := &recordingExecutor{}
		m, err := NewMatcher(b, exec)
		require.NoError(t, err)
		defer m.Release()

		tags := core.NewTagSet()
		tags.Put(core.IsAssociatedWith, core.NewTerm("http://onto/height", "Height", "sature"))

		res, err := m.Match(ctx, Request{Variants: []string{"Height"}, Tags: tags})
		require.NoError(t, err)
		assert.Equal(t, []Hit{{ID: "hit-20", Score: 1}}, res.Hits)
		assert.Equal(t, "DIS_MAX ("+
			"'label' FUZZY_MATCH 'height', 'description' FUZZY_MATCH 'height', "+
			"'label' FUZZY_MATCH 'sature', 'description' FUZZY_MATCH 'sature', "+
			"'label' FUZZY_MATCH 'height', 'description' FUZZY_MATCH 'height')", res.Rule.String())
	})

	t.Run("iri request restricted to entity", func(t *testing.T) {
		exec := &recordingExecutor{}
		m, err := NewMatcher(b, exec, WithAttributeSource(staticAttributes{"patients": {"a1", "a2"}}))
		require.NoError(t, err)
		defer m.Release()

		res, err := m.Match(ctx, Request{Entity: "patients", IRIs: "http://onto/weight", Limit: 5})
		require.NoError(t, err)
		assert.Equal(t, "AND ('id' IN [a1, a2], SHOULD (DIS_MAX ('label' FUZZY_MATCH 'weight', 'description' FUZZY_MATCH 'weight')))", res.Rule.String())
		assert.Equal(t, "hit-5", res.Hits[0].ID)
	})

	t.Run("entity without attributes is not executed", func(t *testing.T) {
		exec := &recordingExecutor{}
		m, err := NewMatcher(b, exec, WithAttributeSource(staticAttributes{"empty": nil}))
		require.NoError(t, err)
		defer m.Release()

		res, err := m.Match(ctx, Request{Entity: "empty", Variants: []string{"Height"}})
		require.NoError(t, err)
		assert.Nil(t, res.Rule)
		assert.Empty(t, res.Hits)
		assert.Empty(t, exec.rules)
	})

	t.Run("unknown iri", func(t *testing.T) {
		m, err := NewMatcher(b, &recordingExecutor{})
		require.NoError(t, err)
		defer m.Release()

		res, err := m.Match(ctx, Request{IRIs: "http://onto/missing"})
		assert.ErrorIs(t, err, core.ErrTermNotFound)
		assert.ErrorIs(t, res.Err, core.ErrTermNotFound)
	})

	t.Run("empty request", func(t *testing.T) {
		m, err := NewMatcher(b, &recordingExecutor{})
		require.NoError(t, err)
		defer m.Release()

		_, err = m.Match(ctx, Request{})
		assert.ErrorIs(t, err, ErrEmptyRequest)
	})

	t.Run("executor error", func(t *testing.T) {
		boom := errors.New("boom")
		m, err := NewMatcher(b, &recordingExecutor{err: boom})
		require.NoError(t, err)
		defer m.Release()

		_, err = m.Match(ctx, Request{Variants: []string{"Height"}})
		assert.ErrorIs(t, err, boom)
	})
}

func TestMatchAll(t *testing.T) {
	ctx := context.Background()
	b := setupBuilder(t)
	exec := &recordingExecutor{}

	m, err := NewMatcher(b, exec, WithPoolSize(4))
	require.NoError(t, err)
	defer m.Release()

	reqs := []Request{
		{Variants: []string{"Height"}, Limit: 1},
		{IRIs: "http://onto/missing", Limit: 2},
		{IRIs: "http://onto/weight", Limit: 3},
		{Variants: []string{"Body weight"}, Limit: 4},
	}

	results, err := m.MatchAll(ctx, reqs)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrTermNotFound)

	require.Len(t, results, len(reqs))
	for i, res := range results {
		assert.Equal(t, reqs[i], res.Request)
	}
	assert.Equal(t, "hit-1", results[0].Hits[0].ID)
	assert.Error(t, results[1].Err)
	assert.Equal(t, "hit-3", results[2].Hits[0].ID)
	assert.Equal(t, "hit-4", results[3].Hits[0].ID)
	assert.Len(t, exec.rules, 3)
}
