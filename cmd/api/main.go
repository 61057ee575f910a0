package main

import (
	"context"
	"log"

	"pixpoll/config"
	"pixpoll/internal/handler"
	"pixpoll/internal/redis"
	"pixpoll/internal/repository"
	"pixpoll/internal/server"
	"pixpoll/internal/services"
	"pixpoll/pkg/database"
	"pixpoll/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	mode := logger.DevelopmentMode
	if cfg.IsProduction() {
		mode = logger.ProductionMode
	}
	l := logger.New(mode, cfg.LogLevel)
	logger.SetGlobalLogger(l)
	defer l.Sync()

	ctx := context.Background()

	db, err := database.Connect(cfg)
	if err != nil {
		l.Logger.Fatal("database connect failed", zap.Error(err))
	}
	defer database.Close(db)

	// The schema must exist before any traffic is accepted.
	if err := repository.InitSchema(db); err != nil {
		l.Logger.Fatal("schema migration failed", zap.Error(err))
	}

	var (
		cache       services.EntityCache
		voteLimiter *redis.RateLimiter
		redisClient *goredis.Client
	)
	if cfg.RedisEnabled() {
		redisClient, err = redis.Connect(ctx, cfg.Redis)
		if err != nil {
			l.Logger.Fatal("redis connect failed", zap.Error(err))
		}
		defer redisClient.Close()

		cache = redis.NewCacheStore(redisClient, cfg.Redis.CacheTTL)
		if cfg.Redis.VoteRateLimit > 0 {
			voteLimiter = redis.NewRateLimiter(redisClient, redis.RateLimitConfig{
				VoteLimit:  cfg.Redis.VoteRateLimit,
				VoteWindow: cfg.Redis.VoteRateWindow,
			})
		}
		l.Info(ctx, "redis enabled",
			zap.String("addr", cfg.Redis.Addr),
			zap.Bool("vote_rate_limit", voteLimiter != nil),
		)
	}

	votes := repository.NewVoteRepository(db)
	pollService := services.NewPollService(
		repository.NewPollRepository(db),
		repository.NewCandidateRepository(db),
		votes,
		services.NewTallyEngine(votes),
		cache,
		l,
	)

	srv := server.New(cfg, l)
	srv.SetupRoutes(&server.Handlers{
		Poll:        handler.NewPollHandler(services.NewFacade(pollService)),
		VoteLimiter: voteLimiter,
		Health: func(ctx context.Context) error {
			return database.HealthCheck(ctx, db)
		},
	})

	if err := srv.Start(); err != nil {
		l.Error(ctx, "server stopped with error", zap.Error(err))
	}
}
