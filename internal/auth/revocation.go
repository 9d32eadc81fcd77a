// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/metrics"
)

const revokedKeyPrefix = "revoked:"

// RevocationStore records logged-out token ids until the tokens would have
// expired anyway. Entries carry a TTL so badger drops them on its own.
type RevocationStore struct {
	db       *badger.DB
	inMemory bool
	now      func() time.Time
}

// OpenRevocationStore opens a badger store at path. An empty path keeps the
// store in memory, which loses revocations on restart.
func OpenRevocationStore(path string) (*RevocationStore, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(path, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create revocation directory: %w", err)
		}
		opts = badger.DefaultOptions(path)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open revocation store: %w", err)
	}

	return &RevocationStore{db: db, inMemory: path == "", now: time.Now}, nil
}

// Revoke marks jti as revoked until expiresAt. Already expired tokens are
// ignored.
func (s *RevocationStore) Revoke(jti string, expiresAt time.Time) error {
	if jti == "" {
		return errors.New("token id is empty")
	}
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(revokedKeyPrefix+jti), []byte{1}).WithTTL(ttl)
		return txn.SetEntry(e)
	})
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	metrics.TokensRevoked.Inc()
	return nil
}

// IsRevoked reports whether jti was revoked and has not yet expired.
func (s *RevocationStore) IsRevoked(jti string) (bool, error) {
	var revoked bool
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(revokedKeyPrefix + jti))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		revoked = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return revoked, nil
}

// Close closes the underlying store.
func (s *RevocationStore) Close() error {
	return s.db.Close()
}

// Serve runs value log GC for on-disk stores until ctx is done.
// It satisfies suture.Service.
func (s *RevocationStore) Serve(ctx context.Context) error {
	if s.inMemory {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for {
				err := s.db.RunValueLogGC(0.5)
				if err == nil {
					continue
				}
				if !errors.Is(err, badger.ErrNoRewrite) {
					logging.Warn().Err(err).Msg("Revocation store GC failed")
				}
				break
			}
		}
	}
}

// String names the service in supervisor logs.
func (s *RevocationStore) String() string {
	return "revocation-gc"
}
