package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"mbti-universe/internal/config"
	apihttp "mbti-universe/internal/http"
	"mbti-universe/internal/llm"
	"mbti-universe/internal/metrics"
	"mbti-universe/internal/repository"
	"mbti-universe/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const pruneInterval = 5 * time.Minute

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	generator, err := llm.NewGenerator(cfg, logger)
	if err != nil {
		logger.Fatal("llm provider", zap.Error(err))
	}
	if cfg.APIKey() == "" && cfg.LLMProvider != "openai" {
		logger.Warn("gemini api key not configured; consultant will answer with the setup notice")
	}

	var (
		limiter     service.ConsultRateLimiter
		tokenStore  service.TokenStore
		redisClient *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			limiter = service.NewRedisConsultRateLimiter(redisClient, cfg.ConsultRateWindow(), cfg.ConsultRateMax)
			tokenStore = service.NewRedisTokenStore(redisClient)
		}
		cancel()
	}
	sharedState := tokenStore != nil
	if limiter == nil {
		limiter = service.NewConsultRateLimiter(cfg.ConsultRateWindow(), cfg.ConsultRateMax)
	}
	if tokenStore == nil {
		tokenStore = service.NewMemoryTokenStore()
	}
	var sweepers []service.Sweeper
	for _, candidate := range []any{limiter, tokenStore} {
		if sweeper, ok := candidate.(service.Sweeper); ok {
			sweepers = append(sweepers, sweeper)
		}
	}

	tokens := service.NewConversationTokenService(cfg.ConversationTokenSecret, cfg.ConversationTokenTTL(), tokenStore)
	if tokens.Ephemeral() {
		logger.Warn("conversation token secret not configured; tokens will not survive a restart")
	}

	posts := repository.NewMemoryPostRepository(service.SeedPosts(time.Now().UTC())...)
	if n, err := posts.Count(ctx); err == nil {
		metrics.FeedPosts.Set(float64(n))
	}
	feedSvc := service.NewFeedService(posts)
	conversations := service.NewConversationService(logger, generator)

	router := apihttp.NewRouter(
		logger,
		apihttp.NewTypeHandler(),
		apihttp.NewFeedHandler(logger, feedSvc),
		apihttp.NewConsultantHandler(logger, conversations, tokens, limiter),
		tokens,
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go pruneLoop(runCtx, logger, conversations, sweepers, cfg.ConversationTokenTTL())

	go func() {
		<-runCtx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
		if redisClient != nil {
			_ = redisClient.Close()
		}
	}()

	logger.Info("starting server",
		zap.String("port", cfg.HTTPPort),
		zap.String("llm_provider", cfg.LLMProvider),
		zap.Bool("redis", sharedState),
	)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}

// pruneLoop borra conversaciones inactivas más viejas que ttl y limpia el estado en memoria
// del limiter y de los tokens.
func pruneLoop(ctx context.Context, logger *zap.Logger, conversations *service.ConversationService, sweepers []service.Sweeper, ttl time.Duration) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			conversations.Prune(time.Now().UTC().Add(-ttl))
			for _, sweeper := range sweepers {
				if n := sweeper.Sweep(); n > 0 {
					logger.Debug("in-memory state swept", zap.Int("keys", n))
				}
			}
		}
	}
}
