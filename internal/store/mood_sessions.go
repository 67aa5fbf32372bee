package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/moodshelf/moodshelf-server/internal/domain"
)

// SaveSession persists the session and marks it current. The server
// runs one active mood session at a time; committing a new one simply
// repoints the current marker.
func (s *Store) SaveSession(_ context.Context, session *domain.MoodSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	key := buildKey(sessionPrefix, session.ID)
	defer releaseKey(key)

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set([]byte(sessionCurrent), []byte(session.ID))
	})
}

// CurrentSession returns the active session. ErrNotFound when no
// session has been committed, ErrSessionExpired when the persisted one
// has passed its hard TTL.
func (s *Store) CurrentSession(ctx context.Context, now time.Time) (*domain.MoodSession, error) {
	var sessionID string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(sessionCurrent))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			sessionID = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup current session: %w", err)
	}

	return s.GetSession(ctx, sessionID, now)
}

// GetSession retrieves a session by ID, enforcing the hard TTL.
func (s *Store) GetSession(_ context.Context, id string, now time.Time) (*domain.MoodSession, error) {
	key := buildKey(sessionPrefix, id)
	defer releaseKey(key)

	var session domain.MoodSession
	if err := s.get(key, &session); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session.Expired(now) {
		return nil, ErrSessionExpired
	}
	return &session, nil
}

// DeleteSession removes a session and, when it is the current one, the
// current marker. Deleting a missing session is not an error.
func (s *Store) DeleteSession(_ context.Context, id string) error {
	key := buildKey(sessionPrefix, id)
	defer releaseKey(key)

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(key); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		item, err := txn.Get([]byte(sessionCurrent))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		var current string
		if err := item.Value(func(val []byte) error {
			current = string(val)
			return nil
		}); err != nil {
			return err
		}
		if current == id {
			return txn.Delete([]byte(sessionCurrent))
		}
		return nil
	})
}

// ClearCurrent removes the current session regardless of expiry state.
// No-op when nothing is committed.
func (s *Store) ClearCurrent(ctx context.Context) error {
	var sessionID string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(sessionCurrent))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			sessionID = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup current session: %w", err)
	}
	return s.DeleteSession(ctx, sessionID)
}

// DeleteExpiredSessions removes sessions past their hard TTL and
// returns how many were dropped. Run from the session service's
// periodic sweep.
func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error) {
	prefix := []byte(sessionPrefix)
	var expired []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if string(it.Item().Key()) == sessionCurrent {
				continue
			}
			err := it.Item().Value(func(val []byte) error {
				var session domain.MoodSession
				if unmarshalErr := json.Unmarshal(val, &session); unmarshalErr != nil {
					// Malformed record: skip rather than abort the sweep.
					return nil
				}
				if session.Expired(now) {
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
		return 0, fmt.Errorf("find expired sessions: %w", err)
	}

	for _, id := range expired {
		if err := s.DeleteSession(ctx, id); err != nil {
			s.logger.Warn("failed to delete expired session", "session_id", id, "error", err)
		}
	}
	return len(expired), nil
}
