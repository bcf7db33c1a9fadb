package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"time"

	"github.com/campusmoves/campusmoves-server/internal/domain"
	"github.com/dgraph-io/badger/v4"
)

// Key prefixes for session storage.
const (
	sessionPrefix        = "session:"
	sessionRefreshPrefix = "idx:sessions:refresh:"
	sessionUserPrefix    = "idx:sessions:user:"
)

// CreateSession stores a new refresh session with its token and user indexes.
func (s *Store) CreateSession(ctx context.Context, session *domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}

		if err := txn.Set([]byte(sessionPrefix+session.ID), data); err != nil {
			return err
		}
		if err := txn.Set([]byte(sessionRefreshPrefix+session.RefreshTokenHash), []byte(session.ID)); err != nil {
			return fmt.Errorf("set refresh index: %w", err)
		}
		userKey := fmt.Appendf(nil, "%s%s:%s", sessionUserPrefix, session.UserID, session.ID)
		if err := txn.Set(userKey, []byte{}); err != nil {
			return fmt.Errorf("set user index: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("session created", "id", session.ID, "user_id", session.UserID)
	}
	return nil
}

// GetSession retrieves a session by ID.
func (s *Store) GetSession(_ context.Context, id string) (*domain.Session, error) {
	var session domain.Session
	if err := s.get([]byte(sessionPrefix+id), &session); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &session, nil
}

// GetSessionByRefreshToken retrieves a session by the hash of its refresh token.
func (s *Store) GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var id string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(sessionRefreshPrefix + tokenHash))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSessionNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return s.GetSession(ctx, id)
}

// UpdateSession overwrites an existing session, rotating the refresh index
// when the token hash changed.
func (s *Store) UpdateSession(ctx context.Context, session *domain.Session) error {
	old, err := s.GetSession(ctx, session.ID)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if old.RefreshTokenHash != session.RefreshTokenHash {
			if err := txn.Delete([]byte(sessionRefreshPrefix + old.RefreshTokenHash)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("delete old refresh index: %w", err)
			}
			if err := txn.Set([]byte(sessionRefreshPrefix+session.RefreshTokenHash), []byte(session.ID)); err != nil {
				return fmt.Errorf("set refresh index: %w", err)
			}
		}

		data, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}
		return txn.Set([]byte(sessionPrefix+session.ID), data)
	})
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// DeleteSession removes a session and its indexes. Idempotent.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	session, err := s.GetSession(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(sessionPrefix + id)); err != nil {
			return err
		}
		if err := txn.Delete([]byte(sessionRefreshPrefix + session.RefreshTokenHash)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		userKey := fmt.Appendf(nil, "%s%s:%s", sessionUserPrefix, session.UserID, id)
		if err := txn.Delete(userKey); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("session deleted", "id", id)
	}
	return nil
}

// ListUserSessions returns every session belonging to a user.
func (s *Store) ListUserSessions(ctx context.Context, userID string) ([]*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var ids []string
	prefix := fmt.Appendf(nil, "%s%s:", sessionUserPrefix, userID)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			ids = append(ids, key[len(prefix):])
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan user session index: %w", err)
	}

	sessions := make([]*domain.Session, 0, len(ids))
	for _, id := range ids {
		session, err := s.GetSession(ctx, id)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("failed to get session from index", "session_id", id, "error", err)
			}
			continue
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// DeleteAllUserSessions removes every session for a user, signing out all devices.
func (s *Store) DeleteAllUserSessions(ctx context.Context, userID string) error {
	sessions, err := s.ListUserSessions(ctx, userID)
	if err != nil {
		return err
	}
	for _, session := range sessions {
		if err := s.DeleteSession(ctx, session.ID); err != nil {
			return fmt.Errorf("delete session %s: %w", session.ID, err)
		}
	}
	return nil
}

// DeleteExpiredSessions removes every session whose expiry is in the past.
// Returns the number of sessions removed.
func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var expired []string
	prefix := []byte(sessionPrefix)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var session domain.Session
				if err := json.Unmarshal(val, &session); err != nil {
					return nil // skip undecodable records
				}
				if session.IsExpired(now) {
					expired = append(expired, session.ID)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scan sessions: %w", err)
	}

	for _, id := range expired {
		if err := s.DeleteSession(ctx, id); err != nil {
			return 0, err
		}
	}

	if s.logger != nil && len(expired) > 0 {
		s.logger.Info("expired sessions removed", "count", len(expired))
	}
	return len(expired), nil
}
