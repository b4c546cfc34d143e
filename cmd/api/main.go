package main

import (
	"context"
	"log"

	"github.com/reqboard/reqboard-backend/config"
	"github.com/reqboard/reqboard-backend/internal/bootstrap"
	"github.com/reqboard/reqboard-backend/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer db.Close()

	fb, err := bootstrap.InitializeFirebase(ctx, &cfg.Firebase)
	if err != nil {
		log.Fatalf("firebase: %v", err)
	}
	defer fb.Firestore.Close()

	rdb, err := bootstrap.OpenRedis(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	if rdb != nil {
		defer rdb.Close()
	} else {
		log.Println("REDIS_ADDR not set, project cache disabled")
	}

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    "reqboard-backend",
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		DB:             db,
		Firestore:      fb.Firestore,
		Bucket:         fb.Bucket,
		Redis:          rdb,
	})

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
