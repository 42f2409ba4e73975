package main

import (
	"log"

	"ai-hub-be/internal/config"
	"ai-hub-be/internal/model"
	"ai-hub-be/pkg/database"
)

// Creates the state table on the Postgres backend.
func main() {
	cfg := config.Load()
	if cfg.State.Backend != "postgres" {
		log.Fatalf("migrate only applies to the postgres backend (STATE_BACKEND=%s)", cfg.State.Backend)
	}

	db, err := database.NewGormDBFromDSN(cfg.State.PostgresConnection)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}

	if err := db.AutoMigrate(&model.AppState{}); err != nil {
		log.Fatalf("migrate state table: %v", err)
	}
	log.Println("✅ Migration complete")
}
