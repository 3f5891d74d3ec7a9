package main

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	appcache "nfl-pickem-go/cache"
	"nfl-pickem-go/config"
	"nfl-pickem-go/database"
	"nfl-pickem-go/handlers"
	"nfl-pickem-go/interfaces"
	"nfl-pickem-go/logging"
	"nfl-pickem-go/middleware"
	"nfl-pickem-go/services"
)

func main() {
	cfg := config.Load()

	logging.Configure(logging.Config{
		Level:       cfg.Logging.Level,
		Output:      os.Stdout,
		EnableColor: cfg.Logging.EnableColor,
	})
	logger := logging.WithPrefix("Main")

	if cfg.Auth.JWTSecret == "" {
		logger.Fatal("JWT_SECRET must be set")
	}

	var (
		pickStore interfaces.PickStore
		gameRepo  interfaces.GameRepository
		userRepo  interfaces.UserRepository
	)

	db, err := database.NewMongoConnection(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		Database: cfg.Database.Database,
		Timeout:  cfg.Database.Timeout,
	})
	if err != nil {
		// Demo mode: serve from in-memory repositories so the API stays usable
		logger.Errorf("Database connection failed: %v", err)
		logger.Warn("Continuing with in-memory storage; data will not persist")

		pickStore = database.NewMemoryPickStore()
		gameRepo = database.NewMemoryGameRepository()
		userRepo = database.NewMemoryUserRepository()
	} else {
		defer db.Close()
		pickStore = database.NewMongoPickRepository(db)
		gameRepo = database.NewMongoGameRepository(db)
		userRepo = database.NewMongoUserRepository(db)
	}

	resultCache := appcache.New(appcache.Config{
		Enabled:    cfg.Cache.Enabled,
		TTL:        cfg.Cache.TTL,
		MaxEntries: cfg.Cache.MaxEntries,
	})

	guard := services.NewDeadlineGuard()
	pickService := services.NewPickService(pickStore, gameRepo, guard, resultCache)
	scoringService := services.NewScoringService(pickStore, gameRepo, resultCache)
	leaderboardService := services.NewLeaderboardService(pickStore, userRepo, resultCache)

	pickHandler := handlers.NewPickHandler(pickService, scoringService, leaderboardService, cfg.App.CurrentSeason)
	auth := middleware.NewAuthMiddleware(cfg.Auth.JWTSecret)

	r := mux.NewRouter()
	r.Use(middleware.SecurityHeaders)
	pickHandler.RegisterRoutes(r, auth)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	logger.Infof("Server starting on %s (season %d)", addr, cfg.App.CurrentSeason)
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Fatalf("Server failed: %v", err)
	}
}
