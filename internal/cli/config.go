package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/Chative-storefront/server/internal/app"
	"github.com/Chative-storefront/server/internal/core"
	"github.com/Chative-storefront/server/internal/shop/model"
	"github.com/Chative-storefront/server/internal/shop/repo"
	logx "github.com/Chative-storefront/server/pkg/logger"
	pkgredis "github.com/Chative-storefront/server/pkg/redis"
)

// AppConfig defines every configurable parameter, sourced from environment
// variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// Infrastructure; an empty REDIS_URL keeps sessions in memory.
	Redis pkgredis.Config

	Store        model.StoreConfig
	Delays       model.DelayConfig
	Conversation model.ConversationConfig
}

// LoadConfig reads envFile (a missing file only warns) and processes the
// environment into AppConfig.
func LoadConfig(envFile string) (AppConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			logx.Warn().Err(err).Str("file", envFile).Msg("could not load env file")
		}
	}
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("process environment config: %w", err)
	}
	return cfg, nil
}

func (c AppConfig) Env() core.Environment {
	return core.ParseEnvironment(c.Environment)
}

// runtime bundles the engine with the resources it was built on.
type runtime struct {
	engine  *app.Engine
	cleanup func()
}

// buildRuntime picks the session repository and assembles the engine.
func buildRuntime(ctx context.Context, cfg AppConfig, engineCfg app.Config) (*runtime, error) {
	cleanup := func() {}

	if engineCfg.Repository == nil {
		if cfg.Redis.Enabled() {
			ttl, err := time.ParseDuration(cfg.Conversation.TTL)
			if err != nil {
				return nil, fmt.Errorf("invalid CONVERSATION_TTL %q: %w", cfg.Conversation.TTL, err)
			}
			rdb, err := cfg.Redis.New(ctx)
			if err != nil {
				return nil, fmt.Errorf("initialise redis client: %w", err)
			}
			cleanup = func() { _ = rdb.Close() }
			engineCfg.Repository = repo.NewRedisSessionRepository(rdb, ttl, cfg.Redis.KeyPrefix)
			logx.Info().Str("prefix", cfg.Redis.KeyPrefix).Dur("ttl", ttl).Msg("sessions stored in redis")
		} else {
			engineCfg.Repository = repo.NewMemorySessionRepository()
		}
	}

	engineCfg.Store = cfg.Store
	engineCfg.Delays = cfg.Delays
	engineCfg.TitleRunes = cfg.Conversation.TitleRunes

	e, err := app.New(ctx, engineCfg)
	if err != nil {
		cleanup()
		return nil, err
	}
	return &runtime{
		engine: e,
		cleanup: func() {
			e.Close()
			cleanup()
		},
	}, nil
}
