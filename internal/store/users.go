package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"strings"

	"github.com/campusmoves/campusmoves-server/internal/domain"
	"github.com/dgraph-io/badger/v4"
)

// Key prefixes for user storage. The email index maps a normalized address
// to the user ID so lookups are case-insensitive.
const (
	userPrefix      = "user:"
	userEmailPrefix = "idx:users:email:"
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser stores a new user, enforcing email uniqueness.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(userPrefix + user.ID)
	emailKey := []byte(userEmailPrefix + normalizeEmail(user.Email))

	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err == nil {
			return ErrDuplicateEmail
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check user exists: %w", err)
		}

		if _, err := txn.Get(emailKey); err == nil {
			return ErrDuplicateEmail
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check email index: %w", err)
		}

		data, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("marshal user: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set(emailKey, []byte(user.ID))
	})
	if err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("user created", "id", user.ID, "email", user.Email)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(_ context.Context, id string) (*domain.User, error) {
	var user domain.User
	if err := s.get([]byte(userPrefix+id), &user); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email address, case-insensitively.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var id string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(userEmailPrefix + normalizeEmail(email)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrUserNotFound
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

	return s.GetUser(ctx, id)
}

// FindUserByDisplayName scans for a user with the given display name.
// Returns the user only when exactly one account carries the name; ambiguous
// or missing names yield ErrUserNotFound. Used to resolve waitlist members,
// which are recorded by display name, back to accounts.
func (s *Store) FindUserByDisplayName(ctx context.Context, name string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var found *domain.User
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(userPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var user domain.User
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &user)
			})
			if err != nil {
				continue
			}
			if user.DisplayName != name {
				continue
			}
			if found != nil {
				// Ambiguous name, caller falls back to broadcast.
				found = nil
				return nil
			}
			u := user
			found = &u
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan users: %w", err)
	}
	if found == nil {
		return nil, ErrUserNotFound
	}
	return found, nil
}

// UpdateUser overwrites an existing user, keeping the email index in sync.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	old, err := s.GetUser(ctx, user.ID)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if normalizeEmail(old.Email) != normalizeEmail(user.Email) {
			newEmailKey := []byte(userEmailPrefix + normalizeEmail(user.Email))
			if _, err := txn.Get(newEmailKey); err == nil {
				return ErrDuplicateEmail
			} else if !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("check email index: %w", err)
			}
			if err := txn.Delete([]byte(userEmailPrefix + normalizeEmail(old.Email))); err != nil {
				return fmt.Errorf("delete old email index: %w", err)
			}
			if err := txn.Set(newEmailKey, []byte(user.ID)); err != nil {
				return fmt.Errorf("set email index: %w", err)
			}
		}

		data, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("marshal user: %w", err)
		}
		return txn.Set([]byte(userPrefix+user.ID), data)
	})
	if err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("user updated", "id", user.ID)
	}
	return nil
}

// DeleteUser removes a user and its email index. Idempotent.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	user, err := s.GetUser(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(userPrefix + id)); err != nil {
			return err
		}
		return txn.Delete([]byte(userEmailPrefix + normalizeEmail(user.Email)))
	})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("user deleted", "id", id)
	}
	return nil
}
