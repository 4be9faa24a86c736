package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/dkraemer/shiftplan-api-go/pkg/auth"
	"github.com/dkraemer/shiftplan-api-go/pkg/database"
	"github.com/dkraemer/shiftplan-api-go/pkg/handlers"
	"github.com/dkraemer/shiftplan-api-go/pkg/scheduler"
)

var r *gin.Engine

func init() {
	// Load .env if it exists (for local testing with vercel dev)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}

	db := database.InitDB()
	_ = auth.EnsureAdminExists(db, logger)

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

	gin.SetMode(gin.ReleaseMode)
	r = gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	handlers.RegisterRoutes(r, h)
}

// Handler is the entry point for the Vercel Go Runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}
