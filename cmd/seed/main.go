package main

import (
	"context"
	"encoding/json"
	"log"

	"ai-hub-be/internal/config"
	"ai-hub-be/internal/constant"
	"ai-hub-be/internal/pkg/logger"
	"ai-hub-be/internal/repository/implementation"
	"ai-hub-be/pkg/database"

	"github.com/redis/go-redis/v9"
)

// Writes the default snapshot to the configured durable backend,
// overwriting whatever is stored under the state key.
func main() {
	cfg := config.Load()
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, false)
	defer sysLogger.Sync()

	snap := constant.DefaultSnapshot()
	raw, err := json.Marshal(snap)
	if err != nil {
		log.Fatalf("marshal default snapshot: %v", err)
	}

	ctx := context.Background()

	switch cfg.State.Backend {
	case "redis":
		opt, err := redis.ParseURL(cfg.State.RedisURL)
		if err != nil {
			log.Fatalf("parse redis url: %v", err)
		}
		repo := implementation.NewStateRepositoryRedis(redis.NewClient(opt), cfg.State.Key)
		if err := repo.Save(ctx, raw); err != nil {
			log.Fatalf("seed redis state: %v", err)
		}
	case "postgres":
		db, err := database.NewGormDBFromDSN(cfg.State.PostgresConnection)
		if err != nil {
			log.Fatalf("connect postgres: %v", err)
		}
		repo := implementation.NewStateRepositoryGorm(db, cfg.State.Key)
		if err := repo.Save(ctx, raw); err != nil {
			log.Fatalf("seed postgres state: %v", err)
		}
	default:
		log.Fatalf("backend %q has no durable storage to seed", cfg.State.Backend)
	}

	log.Printf("✅ Seeded default state (%d containers) to %s backend", len(snap.Containers), cfg.State.Backend)
}
