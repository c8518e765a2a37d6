// Package session tracks the per-user search sequence in redis. The sequence
// implements last-request-wins: a fetch holding an older sequence number than
// the current one has been superseded and its result is discarded.
package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hellix17/cosmic-tracker/utils"
	"github.com/redis/go-redis/v9"
)

const searchSeqKeyPrefix = "search_seq:"

type RedisSession struct {
	redis *redis.Client
}

func NewRedisSession(redisClient *redis.Client) *RedisSession {
	return &RedisSession{redis: redisClient}
}

// NextSearchSeq atomically advances and returns the user's search sequence.
func (s *RedisSession) NextSearchSeq(ctx context.Context, userID string) (int64, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	seq, err := s.redis.Incr(ctx, searchSeqKeyPrefix+userID).Result()
	if err != nil {
		slog.Error("failed on redis.Incr", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("userID", userID))
		return 0, err
	}

	return seq, nil
}

// CurrentSearchSeq returns the latest issued sequence, 0 when none exists.
func (s *RedisSession) CurrentSearchSeq(ctx context.Context, userID string) (int64, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	seq, err := s.redis.Get(ctx, searchSeqKeyPrefix+userID).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		slog.Error("failed on redis.Get", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("userID", userID))
		return 0, err
	}

	return seq, nil
}
