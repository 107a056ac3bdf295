package tokens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/server/models"
	"github.com/redis/go-redis/v9"
)

const (
	tokenKeyPrefix      = "gophtodo:token:"
	userTokensKeyPrefix = "gophtodo:user-tokens:"
)

type redisRecord struct {
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// RedisRepository keeps token records in Redis: one JSON value per
// fingerprint plus a per-user set of fingerprints for DeleteByUser.
// Records carry no TTL, matching the SQL store.
type RedisRepository struct {
	rdb redis.UniversalClient
}

// NewRedisRepository constructs a Redis-backed Repository.
func NewRedisRepository(rdb redis.UniversalClient) *RedisRepository {
	return &RedisRepository{rdb: rdb}
}

func (r *RedisRepository) Create(ctx context.Context, token *models.Token) error {
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(redisRecord{UserID: token.UserID, CreatedAt: token.CreatedAt})
	if err != nil {
		return err
	}

	_, err = r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, tokenKey(token.Fingerprint), payload, 0)
		p.SAdd(ctx, userTokensKey(token.UserID), token.Fingerprint)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (r *RedisRepository) Find(ctx context.Context, fingerprint string) (*models.Token, error) {
	data, err := r.rdb.Get(ctx, tokenKey(fingerprint)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("redis error: %w", err)
	}

	var rec redisRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("redis error: corrupt record: %w", err)
	}
	return &models.Token{Fingerprint: fingerprint, UserID: rec.UserID, CreatedAt: rec.CreatedAt}, nil
}

// deleteRetries bounds optimistic retries when the record changes between
// the WATCHed read and the transaction.
const deleteRetries = 3

// ErrCorruptRecord reports a stored value that is not a token record.
var ErrCorruptRecord = errors.New("corrupt token record")

// Delete removes the record and its entry in the owner's set atomically. A
// corrupt record is still removed, and the decode failure is returned.
func (r *RedisRepository) Delete(ctx context.Context, fingerprint string) error {
	key := tokenKey(fingerprint)

	var decodeErr error
	txf := func(tx *redis.Tx) error {
		decodeErr = nil

		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}

		var rec redisRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			decodeErr = fmt.Errorf("%w: %w", ErrCorruptRecord, err)
		}

		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Del(ctx, key)
			if rec.UserID != "" {
				p.SRem(ctx, userTokensKey(rec.UserID), fingerprint)
			}
			return nil
		})
		return err
	}

	for i := 0; i < deleteRetries; i++ {
		err := r.rdb.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("redis error: %w", err)
		}
		return decodeErr
	}
	return fmt.Errorf("redis error: %w", redis.TxFailedErr)
}

func (r *RedisRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	setKey := userTokensKey(userID)

	fingerprints, err := r.rdb.SMembers(ctx, setKey).Result()
	if err != nil {
		return 0, fmt.Errorf("redis error: %w", err)
	}

	keys := make([]string, 0, len(fingerprints))
	for _, fp := range fingerprints {
		keys = append(keys, tokenKey(fp))
	}

	var del *redis.IntCmd
	_, err = r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		if len(keys) > 0 {
			del = p.Del(ctx, keys...)
		}
		p.Del(ctx, setKey)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("redis error: %w", err)
	}
	if del == nil {
		return 0, nil
	}
	return del.Val(), nil
}

func tokenKey(fingerprint string) string {
	return tokenKeyPrefix + fingerprint
}

func userTokensKey(userID string) string {
	return userTokensKeyPrefix + userID
}
