package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"golang.org/x/sync/singleflight"

	"trivia-scoring/internal/domain"
)

const upsertSQL = `INSERT INTO score_kv (key, value, updated_at) VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

// KVStore keeps score snapshot fields in the score_kv table.
type KVStore struct {
	pool *pgxpool.Pool
	sf   singleflight.Group
}

func NewKVStore(pool *pgxpool.Pool) *KVStore {
	return &KVStore{pool: pool}
}

type lookup struct {
	value string
	ok    bool
}

// Get reads one field. Concurrent reads of the same key share a query.
func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		var value string
		err := s.pool.QueryRow(ctx, `SELECT value FROM score_kv WHERE key=$1`, key).Scan(&value)
		if errors.Is(err, pgx.ErrNoRows) {
			return lookup{}, nil
		}
		if err != nil {
			return lookup{}, err
		}
		return lookup{value: value, ok: true}, nil
	})
	if err != nil {
		return "", false, fmt.Errorf("%w: get %s: %v", domain.ErrStoreUnavailable, key, err)
	}
	l := result.(lookup)
	return l.value, l.ok, nil
}

// SetMany upserts every field in one transaction.
func (s *KVStore) SetMany(ctx context.Context, values map[string]string) error {
	err := s.pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		for k, v := range values {
			if _, err := tx.Exec(ctx, upsertSQL, k, v); err != nil {
				return fmt.Errorf("upsert %s: %w", k, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: write snapshot: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}
