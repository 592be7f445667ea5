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
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/semsearch/storage"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "db")
	backend, err := OpenBackend(dir, false, WithBackendLogger(slog.Default()))
	require.NoError(t, err)
	defer backend.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOpenBackend_PathIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := OpenBackend(file, false)
	assert.Error(t, err)
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)

	require.NoError(t, backend.Close())
	assert.True(t, backend.IsClosed())

	err = backend.WithTx(context.Background(), func(tx *badger.Txn) error { return nil }, false)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestWithTransaction_CommitsAndRollsBack(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()
	ctx := context.Background()

	set := func(ctx context.Context, key string) error {
		return backend.WithTx(ctx, func(tx *badger.Txn) error {
			return tx.Set([]byte(key), []byte("v"))
		}, true)
	}
	exists := func(key string) bool {
		found := false
		_ = backend.WithTx(ctx, func(tx *badger.Txn) error {
			_, err := tx.Get([]byte(key))
			found = err == nil
			return nil
		}, false)
		return found
	}

	err = backend.WithTransaction(ctx, func(ctx context.Context) error {
		if err := set(ctx, "a"); err != nil {
			return err
		}
		return set(ctx, "b")
	})
	require.NoError(t, err)
	assert.True(t, exists("a"))
	assert.True(t, exists("b"))

	boom := errors.New("boom")
	err = backend.WithTransaction(ctx, func(ctx context.Context) error {
		if err := set(ctx, "c"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, exists("c"))
}

func TestKeys(t *testing.T) {
	assert.True(t, hasPrefix(makeChildKey(1, 2), makePartialChildKey(1)))
	assert.False(t, hasPrefix(makeChildKey(2, 1), makePartialChildKey(1)))
	assert.True(t, hasPrefix(makeTokenKey("length", 7), makePartialTokenKey("length")))
	assert.False(t, hasPrefix(makeTokenKey("length", 7), makePartialTokenKey("len")))
	assert.False(t, hasPrefix([]byte(termLinkSeq), termKeyPrefix()))
}

func hasPrefix(s, prefix []byte) bool {
	return len(s) >= len(prefix) && string(s[:len(prefix)]) == string(prefix)
}
