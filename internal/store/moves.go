package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/campusmoves/campusmoves-server/internal/domain"
	"github.com/campusmoves/campusmoves-server/internal/sse"
	"github.com/dgraph-io/badger/v4"
)

// Key prefix for move storage.
const movePrefix = "move:"

// CreateMove stores a new move and broadcasts it to connected clients.
func (s *Store) CreateMove(ctx context.Context, move *domain.Move) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(movePrefix + move.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check move exists: %w", err)
	}
	if exists {
		return ErrDuplicateMove
	}

	if err := s.set(key, move); err != nil {
		return fmt.Errorf("create move: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("move created",
			"id", move.ID,
			"title", move.Title,
			"host", move.HostName,
		)
	}

	if s.eventEmitter != nil {
		s.eventEmitter.Emit(sse.NewMoveCreatedEvent(move))
	}
	s.reindexMove(move)

	return nil
}

// GetMove retrieves a move by ID.
// The move is normalized on the way out, so callers never see a document
// with an unknown area or an impossible capacity.
func (s *Store) GetMove(ctx context.Context, id string) (*domain.Move, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := []byte(movePrefix + id)

	var move domain.Move
	if err := s.get(key, &move); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrMoveNotFound
		}
		return nil, fmt.Errorf("get move: %w", err)
	}
	move.Normalize()

	return &move, nil
}

// UpdateMove overwrites an existing move and broadcasts the new snapshot.
func (s *Store) UpdateMove(ctx context.Context, move *domain.Move) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(movePrefix + move.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check move exists: %w", err)
	}
	if !exists {
		return ErrMoveNotFound
	}

	if err := s.set(key, move); err != nil {
		return fmt.Errorf("update move: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("move updated", "id", move.ID, "title", move.Title)
	}

	if s.eventEmitter != nil {
		s.eventEmitter.Emit(sse.NewMoveUpdatedEvent(move))
	}
	s.reindexMove(move)

	return nil
}

// DeleteMove removes a move and broadcasts the deletion.
// Returns ErrMoveNotFound if no such move exists.
func (s *Store) DeleteMove(ctx context.Context, id string) error {
	if _, err := s.GetMove(ctx, id); err != nil {
		return err
	}

	if err := s.delete([]byte(movePrefix + id)); err != nil {
		return fmt.Errorf("delete move: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("move deleted", "id", id)
	}

	if s.eventEmitter != nil {
		s.eventEmitter.Emit(sse.NewMoveDeletedEvent(id))
	}

	if s.searchIndexer != nil {
		go func() {
			if err := s.searchIndexer.DeleteMove(context.Background(), id); err != nil {
				if s.logger != nil {
					s.logger.Warn("failed to remove move from search index", "move_id", id, "error", err)
				}
			}
		}()
	}

	return nil
}

// ListMoves returns every move in the store, normalized.
// A document that fails to decode is skipped with a warning rather than
// failing the whole listing; one corrupt record must not take down the feed.
func (s *Store) ListMoves(ctx context.Context) ([]domain.Move, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var moves []domain.Move

	prefix := []byte(movePrefix)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()

			err := item.Value(func(val []byte) error {
				var move domain.Move
				if err := json.Unmarshal(val, &move); err != nil {
					if s.logger != nil {
						s.logger.Warn("skipping undecodable move document",
							"key", string(item.Key()), "error", err)
					}
					return nil
				}
				move.Normalize()
				moves = append(moves, move)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list moves: %w", err)
	}

	return moves, nil
}

// reindexMove pushes a move into the search index asynchronously.
func (s *Store) reindexMove(move *domain.Move) {
	if s.searchIndexer == nil {
		return
	}
	go func() {
		if err := s.searchIndexer.IndexMove(context.Background(), move); err != nil {
			if s.logger != nil {
				s.logger.Warn("failed to reindex move for search", "move_id", move.ID, "error", err)
			}
		}
	}()
}
