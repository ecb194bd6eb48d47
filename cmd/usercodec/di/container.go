package di

import (
	"context"
	"fmt"
	"usercodec/cmd/usercodec/infrastructure"
	ginhandler "usercodec/internal/adapter/gin/handler"
	"usercodec/internal/adapter/gin/middleware"
	"usercodec/internal/config"
	"usercodec/internal/usecase/user"
	redisclient "usercodec/pkg/redis"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	RedisClient *redisclient.Client
	UserUC      *user.Service
	RateLimiter *middleware.RateLimiter
	GinHandler  *ginhandler.UserHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Initialize Redis client
	rdb, err := infrastructure.NewRedisClient(ctx, cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}

	// Initialize use case
	userUC := NewUsecase(cfg, l)

	// Initialize rate limiter
	var rateLimiter *middleware.RateLimiter
	if rdb != nil && cfg.RateLimit.Enabled {
		rateLimiter = middleware.NewRateLimiter(
			rdb.Client,
			middleware.RateLimiterConfig{
				RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
				BurstCapacity:     cfg.RateLimit.BurstCapacity,
				Enabled:           cfg.RateLimit.Enabled,
			},
			l,
		)
	}

	// Initialize Gin handler
	ginHandler := ginhandler.NewUserHandler(userUC, cfg.App.MaxBodyBytes, l)

	return &Container{
		Config:      cfg,
		Logger:      l,
		RedisClient: rdb,
		UserUC:      userUC,
		RateLimiter: rateLimiter,
		GinHandler:  ginHandler,
	}, nil
}

// NewUsecase builds the conversion use case from configuration.
func NewUsecase(cfg *config.Config, l *zap.Logger) *user.Service {
	return user.New(user.Config{
		Strict:        cfg.Codec.Strict,
		BatchWorkers:  cfg.Codec.BatchWorkers,
		BatchMaxItems: cfg.Codec.BatchMaxItems,
	}, l)
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}
	return nil
}
