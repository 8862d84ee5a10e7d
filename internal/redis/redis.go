package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var Rdb *redis.Client

// progress keys expire on their own so abandoned runs don't pile up.
const runKeyTTL = 24 * time.Hour

func InitRedis(redisAddress string, redisUsername string, redisPassword string) {
	Rdb = redis.NewClient(&redis.Options{
		Addr:     redisAddress,
		Username: redisUsername,
		Password: redisPassword,
		DB:       0,
	})
}

func runProgressKey(runID string) string { return "allocation:run:" + runID + ":progress" }
func runStatusKey(runID string) string   { return "allocation:run:" + runID + ":status" }

// SetRunProgress publishes the live progress fraction of a run. Failures are
// logged and swallowed; progress is advisory, the run itself is in Postgres.
func SetRunProgress(ctx context.Context, runID string, progress float64) {
	if Rdb == nil {
		return
	}
	if err := Rdb.Set(ctx, runProgressKey(runID), progress, runKeyTTL).Err(); err != nil {
		log.Warn().Err(err).Str("run_id", runID).Msg("failed to cache run progress")
	}
}

// GetRunProgress returns the cached progress and whether a value was present.
func GetRunProgress(ctx context.Context, runID string) (float64, bool) {
	if Rdb == nil {
		return 0, false
	}
	val, err := Rdb.Get(ctx, runProgressKey(runID)).Result()
	if err != nil {
		return 0, false
	}
	progress, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return progress, true
}

func SetRunStatus(ctx context.Context, runID string, status string) {
	if Rdb == nil {
		return
	}
	if err := Rdb.Set(ctx, runStatusKey(runID), status, runKeyTTL).Err(); err != nil {
		log.Warn().Err(err).Str("run_id", runID).Msg("failed to cache run status")
	}
}
