package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hellix17/cosmic-tracker/config"
	"github.com/hellix17/cosmic-tracker/internal/model"
	"github.com/hellix17/cosmic-tracker/utils"
	"github.com/redis/go-redis/v9"
)

const snapshotKeyPrefix = "snapshot:"

type RedisCache struct {
	redis *redis.Client
	cfg   *config.Config
}

func NewRedisCache(redisClient *redis.Client, cfg *config.Config) *RedisCache {
	return &RedisCache{redis: redisClient, cfg: cfg}
}

func (r *RedisCache) SetSnapshot(ctx context.Context, snap model.StockSnapshot) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("SetSnapshot start", slog.String("rqID", rqID), slog.String("symbol", snap.Symbol))

	snapJson, err := json.Marshal(snap)
	if err != nil {
		slog.Error(
			"can't marshall snapshot in SetSnapshot",
			slog.String("rqID", rqID),
			slog.String("err", err.Error()),
			slog.String("symbol", snap.Symbol),
		)
		return errors.New("can't marshall snapshot")
	}

	_, err = r.redis.Set(ctx, snapshotKeyPrefix+snap.Symbol, snapJson, r.cfg.Cache.SnapshotExpiration).Result()
	if err != nil {
		slog.Error("failed on redis.Set", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("symbol", snap.Symbol))
		return err
	}

	slog.Debug("SetSnapshot completed", slog.String("rqID", rqID))

	return nil
}

func (r *RedisCache) GetSnapshot(ctx context.Context, symbol string) (model.StockSnapshot, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("GetSnapshot start", slog.String("rqID", rqID), slog.String("symbol", symbol))

	res, err := r.redis.Get(ctx, snapshotKeyPrefix+symbol).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Error("failed on redis.Get", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("symbol", symbol))
		}
		return model.StockSnapshot{}, err
	}

	snap := model.StockSnapshot{}
	err = json.Unmarshal([]byte(res), &snap)
	if err != nil {
		slog.Error(
			"can't unmarshall snapshot in GetSnapshot",
			slog.String("rqID", rqID),
			slog.String("err", err.Error()),
			slog.String("resultFromRedis", res),
		)
		return model.StockSnapshot{}, errors.New("can't unmarshall snapshot")
	}

	slog.Debug("GetSnapshot finished", slog.String("rqID", rqID))

	return snap, nil
}
