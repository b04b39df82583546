package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"builderrisk/server/config"
	"builderrisk/server/internal/api"
	"builderrisk/server/internal/comps"
	"builderrisk/server/internal/normalize"
	"builderrisk/server/internal/rentcast"
	"builderrisk/server/internal/risk"
	"builderrisk/server/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	if cfg.RentCast.APIKey == "" {
		logger.Fatal("RENTCAST_API_KEY is not set")
	}

	// Query cache is best effort; analyses still run without it.
	var cache comps.Cache
	if cfg.Cache.Enabled {
		if err := os.MkdirAll(filepath.Dir(cfg.Cache.Path), 0755); err != nil {
			logger.WithError(err).Warn("Failed to create cache directory, caching disabled")
		} else if qc, err := storage.Open(cfg.Cache.Path, logger); err != nil {
			logger.WithError(err).Warn("Failed to open query cache, caching disabled")
		} else {
			logger.Infof("Using query cache at: %s", cfg.Cache.Path)
			cache = qc
		}
	}

	session := rentcast.NewSession()
	client := rentcast.NewClient(
		cfg.RentCast.BaseURL,
		cfg.RentCast.APIKey,
		time.Duration(cfg.RentCast.Timeout)*time.Second,
		session,
		logger,
	)

	aggregator := comps.NewAggregator(
		client,
		normalize.RentCast(),
		cache,
		logger,
		cfg.Comps.RadiiMiles,
		cfg.Comps.Want,
		cfg.Comps.QueryLimit,
	)

	scorer := risk.NewScorer(risk.ProfileByName(cfg.Scoring.Profile), logger)

	handler := api.NewHandler(client, aggregator, scorer, logger, cfg.Comps.DisplayLimit)

	router := gin.Default()
	api.SetupRoutes(router, handler)

	logger.Infof("Starting server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
