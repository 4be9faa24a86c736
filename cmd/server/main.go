package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/dkraemer/shiftplan-api-go/pkg/auth"
	"github.com/dkraemer/shiftplan-api-go/pkg/database"
	"github.com/dkraemer/shiftplan-api-go/pkg/handlers"
	"github.com/dkraemer/shiftplan-api-go/pkg/scheduler"
)

func main() {
	// Load .env if it exists
	// Try root and parent directories for flexibility
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("could not create logger: %v", err)
	}
	defer logger.Sync()

	db := database.InitDB()
	if err := auth.EnsureAdminExists(db, logger); err != nil {
		logger.Warn("Could not ensure admin user", zap.Error(err))
	}

	store := database.NewStore(db)
	strategy := scheduler.NewStrategy(
		scheduler.NewRemoteScorerFromEnv(logger),
		scheduler.NewHeuristicScorer(),
		logger,
	)
	sched := scheduler.New(store, store, store, store, strategy, logger)

	h := &handlers.Handler{
		DB:        db,
		Scheduler: sched,
		Logger:    logger,
	}

	r := gin.Default()
	handlers.RegisterRoutes(r, h)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	logger.Info("Server starting", zap.String("port", port))
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}
