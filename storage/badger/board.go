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
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/recollect/core"
	"github.com/poiesic/recollect/storage"
)

// BoardRepository implements storage.BoardRepository for BadgerDB.
type BoardRepository struct {
	backend *Backend
}

var _ storage.BoardRepository = (*BoardRepository)(nil)

// NewBoardRepository creates a new BoardRepository.
func NewBoardRepository(backend *Backend) *BoardRepository {
	return &BoardRepository{
		backend: backend,
	}
}

// Close is a no-op; the backend owns the database.
func (r *BoardRepository) Close() error {
	return nil
}

// PutBoards inserts or replaces boards in a single transaction.
func (r *BoardRepository) PutBoards(ctx context.Context, boards ...*core.Board) error {
	for i, board := range boards {
		if err := core.ValidateBoard(board); err != nil {
			return fmt.Errorf("board %d: %w", i, err)
		}
	}

	return r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		for _, board := range boards {
			key := makeBoardKey(board.ID)
			old, err := readBoard(tx, key)
			if err != nil {
				return err
			}
			if old != nil && old.ID != board.ID {
				return fmt.Errorf("%w: board %q collides with %q", storage.ErrDuplicateKey, board.ID, old.ID)
			}
			if err := tx.Set(key, storage.MarshalBoard(board)); err != nil {
				return err
			}
		}
		return commit(tx)
	}, true)
}

// GetBoard retrieves a single board by ID.
func (r *BoardRepository) GetBoard(ctx context.Context, id string) (*core.Board, error) {
	var result *core.Board
	err := r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		var err error
		result, err = readBoard(tx, makeBoardKey(id))
		if err != nil {
			return err
		}
		if result == nil || result.ID != id {
			return fmt.Errorf("%w: board %q", storage.ErrNotFound, id)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListBoards returns every board in key order.
func (r *BoardRepository) ListBoards(ctx context.Context) ([]*core.Board, error) {
	var results []*core.Board
	err := r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefixOf(boardRecordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var board *core.Board
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				board, err = storage.UnmarshalBoard(val)
				return err
			}); err != nil {
				return err
			}
			results = append(results, board)
		}
		return nil
	}, false)
	return results, err
}

// DeleteBoards removes boards by ID.
func (r *BoardRepository) DeleteBoards(ctx context.Context, ids ...string) error {
	return r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeBoardKey(id)
			board, err := readBoard(tx, key)
			if err != nil {
				return err
			}
			if board == nil || board.ID != id {
				return fmt.Errorf("%w: board %q", storage.ErrNotFound, id)
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return commit(tx)
	}, true)
}

func readBoard(tx *badger.Txn, key []byte) (*core.Board, error) {
	return readValue(tx, key, storage.UnmarshalBoard)
}
