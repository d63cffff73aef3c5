package main

import (
	"log"

	"anoa.com/librarydesk/internal/bootstrap"
	"anoa.com/librarydesk/internal/config"
	"anoa.com/librarydesk/internal/scheduler"
	"anoa.com/librarydesk/internal/server"
	"anoa.com/librarydesk/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(database.Options{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPass,
		Name:     cfg.DBName,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer database.Close(db)

	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := bootstrap.SeedAdminUser(db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("failed to seed admin user: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
	}

	sweep := scheduler.NewOverdueSweepScheduler(server.Lending(db), cfg.OverdueSweepSchedule)
	if err := sweep.Start(); err != nil {
		log.Fatalf("failed to start overdue sweep scheduler: %v", err)
	}
	defer sweep.Stop()

	srv := server.New(cfg, db, redisClient)

	log.Printf("Server running on port %s", cfg.Port)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}
