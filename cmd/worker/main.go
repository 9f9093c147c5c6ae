package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/vardanhq/vardan-api/internal/app"
	"github.com/vardanhq/vardan-api/internal/config"
	"github.com/vardanhq/vardan-api/internal/lock"
	"github.com/vardanhq/vardan-api/internal/obs"
	"github.com/vardanhq/vardan-api/internal/store"
)

const taskSessionSweep = "sessions:sweep"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("component", "worker").Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := app.OpenPool(ctx, cfg, "vardan-worker")
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()

	redisClient, err := app.OpenRedis(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect redis")
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()

	queries := store.New(pool)
	locker := lock.Locker{R: redisClient}

	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis uri")
	}

	mux := asynq.NewServeMux()
	mux.HandleFunc(taskSessionSweep, func(ctx context.Context, _ *asynq.Task) error {
		return sweepSessions(ctx, queries, locker, logger)
	})

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 2,
		Logger:      asynqLogger{logger},
	})

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Logger: asynqLogger{logger},
	})
	spec := "@every " + cfg.SessionSweepEvery.String()
	if _, err := scheduler.Register(spec, asynq.NewTask(taskSessionSweep, nil)); err != nil {
		logger.Fatal().Err(err).Msg("register session sweep")
	}

	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Fatal().Err(err).Msg("scheduler stopped")
		}
	}()

	logger.Info().Str("every", cfg.SessionSweepEvery.String()).Msg("worker starting")
	if err := srv.Run(mux); err != nil {
		logger.Fatal().Err(err).Msg("worker stopped with error")
	}
	scheduler.Shutdown()
	logger.Info().Msg("worker shutdown complete")
}

// sweepSessions deletes expired refresh sessions. The redis lock keeps
// multiple worker replicas from running the sweep concurrently.
func sweepSessions(ctx context.Context, q store.Querier, locker lock.Locker, logger zerolog.Logger) error {
	return locker.WithLock(ctx, "lock:session-sweep", time.Minute, func(ctx context.Context) error {
		deleted, err := q.DeleteExpiredSessions(ctx)
		if err != nil {
			return err
		}
		logger.Info().Int64("deleted", deleted).Msg("expired sessions swept")
		return nil
	})
}

type asynqLogger struct {
	log zerolog.Logger
}

func (l asynqLogger) Debug(args ...interface{}) { l.log.Debug().Msgf("%v", args) }
func (l asynqLogger) Info(args ...interface{})  { l.log.Info().Msgf("%v", args) }
func (l asynqLogger) Warn(args ...interface{})  { l.log.Warn().Msgf("%v", args) }
func (l asynqLogger) Error(args ...interface{}) { l.log.Error().Msgf("%v", args) }
func (l asynqLogger) Fatal(args ...interface{}) { l.log.Fatal().Msgf("%v", args) }

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}
