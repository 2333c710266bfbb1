package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	errx "github.com/Chative-storefront/server/internal/core/error"
	"github.com/Chative-storefront/server/internal/shop/model"
	logx "github.com/Chative-storefront/server/pkg/logger"
)

const (
	fieldTitle     = "title"
	fieldCreatedAt = "created_at"
)

// RedisSessionRepository stores each session as a JSON message list plus a
// meta hash, and indexes sessions by creation time in a sorted set.
type RedisSessionRepository struct {
	rdb    redis.Cmdable
	ttl    time.Duration
	prefix string
}

func NewRedisSessionRepository(rdb redis.Cmdable, ttl time.Duration, prefix string) *RedisSessionRepository {
	if prefix == "" {
		prefix = "storefront"
	}
	return &RedisSessionRepository{rdb: rdb, ttl: ttl, prefix: prefix}
}

func (r *RedisSessionRepository) messagesKey(sessionID string) string {
	return fmt.Sprintf("%s:session:%s:messages", r.prefix, sessionID)
}

func (r *RedisSessionRepository) metaKey(sessionID string) string {
	return fmt.Sprintf("%s:session:%s:meta", r.prefix, sessionID)
}

func (r *RedisSessionRepository) indexKey() string {
	return r.prefix + ":sessions"
}

func (r *RedisSessionRepository) SaveSession(ctx context.Context, s *model.Session) error {
	if s == nil {
		return errx.Invalid("nil session")
	}
	rows := make([]any, 0, len(s.Messages))
	for _, m := range s.Messages {
		b, err := json.Marshal(m)
		if err != nil {
			logx.Error().Err(err).Str("session_id", s.ID).Str("message_id", m.ID).Msg("failed to marshal message")
			return errx.WrapCodec(err)
		}
		rows = append(rows, b)
	}

	msgKey, metaKey := r.messagesKey(s.ID), r.metaKey(s.ID)
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, msgKey)
		if len(rows) > 0 {
			pipe.RPush(ctx, msgKey, rows...)
		}
		pipe.HSet(ctx, metaKey,
			fieldTitle, s.Title,
			fieldCreatedAt, s.CreatedAt.UTC().Format(time.RFC3339Nano),
		)
		if r.ttl > 0 {
			pipe.Expire(ctx, msgKey, r.ttl)
			pipe.Expire(ctx, metaKey, r.ttl)
		}
		pipe.ZAdd(ctx, r.indexKey(), redis.Z{
			Score:  float64(s.CreatedAt.UnixMilli()),
			Member: s.ID,
		})
		return nil
	})
	if err != nil {
		logx.Error().Err(err).Str("session_id", s.ID).Msg("failed to save session to redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisSessionRepository) LoadSession(ctx context.Context, sessionID string) (*model.Session, error) {
	metaKey := r.metaKey(sessionID)
	meta, err := r.rdb.HGetAll(ctx, metaKey).Result()
	if err != nil {
		logx.Error().Err(err).Str("key", metaKey).Msg("failed to load session meta from redis")
		return nil, errx.WrapRedis(err)
	}
	if len(meta) == 0 {
		return nil, errx.WrapRedis(redis.Nil)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, meta[fieldCreatedAt])
	if err != nil {
		return nil, errx.WrapCodec(fmt.Errorf("session %s created_at: %w", sessionID, err))
	}

	msgKey := r.messagesKey(sessionID)
	rows, err := r.rdb.LRange(ctx, msgKey, 0, -1).Result()
	if err != nil {
		logx.Error().Err(err).Str("key", msgKey).Msg("failed to load session messages from redis")
		return nil, errx.WrapRedis(err)
	}

	s := &model.Session{
		ID:        sessionID,
		Title:     meta[fieldTitle],
		CreatedAt: createdAt,
		Messages:  make([]*model.Message, 0, len(rows)),
	}
	for i, row := range rows {
		var m model.Message
		if err := json.Unmarshal([]byte(row), &m); err != nil {
			logx.Error().Err(err).Str("session_id", sessionID).Int("index", i).Msg("failed to unmarshal message")
			return nil, errx.WrapCodec(fmt.Errorf("message at index %d: %w", i, err))
		}
		s.Messages = append(s.Messages, &m)
	}
	return s, nil
}

// ListSessions drops index entries whose keys have expired.
func (r *RedisSessionRepository) ListSessions(ctx context.Context) ([]*model.Session, error) {
	ids, err := r.rdb.ZRevRange(ctx, r.indexKey(), 0, -1).Result()
	if err != nil {
		logx.Error().Err(err).Str("key", r.indexKey()).Msg("failed to list sessions from redis")
		return nil, errx.WrapRedis(err)
	}

	out := make([]*model.Session, 0, len(ids))
	for _, id := range ids {
		s, err := r.LoadSession(ctx, id)
		if errx.IsNotFound(err) {
			if err := r.rdb.ZRem(ctx, r.indexKey(), id).Err(); err != nil {
				logx.Warn().Err(err).Str("session_id", id).Msg("failed to prune expired session from index")
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	sortNewestFirst(out)
	return out, nil
}

var _ model.SessionRepository = (*RedisSessionRepository)(nil)
