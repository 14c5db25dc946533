package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"krishi-route/internal/api"
	"krishi-route/internal/db"
	"krishi-route/internal/engine"
	"krishi-route/internal/fuel"
	"krishi-route/internal/logger"
	"krishi-route/internal/mandi"
	"krishi-route/internal/pooling"
)

var version = "dev"

func main() {
	port := flag.Int("port", 8080, "HTTP server port")
	flag.Parse()

	logger.Banner(version)

	database, err := db.Open()
	if err != nil {
		logger.Error("DB", fmt.Sprintf("Failed to open database: %v", err))
		os.Exit(1)
	}
	defer database.Close()

	cfg := database.LoadConfig()

	// Env overrides for live feed credentials and mock mode.
	cfg.FeedBaseURL = envOrDefault("AGMARKNET_BASE_URL", cfg.FeedBaseURL)
	cfg.FeedAPIKey = envOrDefault("AGMARKNET_API_KEY", cfg.FeedAPIKey)
	if os.Getenv("USE_MOCK_DATA") == "true" {
		cfg.UseMockData = true
	}

	oracle := fuel.NewOracle(fuel.WithStore(database))
	feed := mandi.NewFeedClient(cfg.FeedBaseURL, cfg.FeedAPIKey)
	source := mandi.NewSource(feed, cfg.UseMockData)
	pools := pooling.NewMatcher(nil)

	optimizer := engine.NewOptimizer(oracle, source, pools)
	optimizer.History = database

	logger.Section("Mandi Statistics")
	logger.Stats("Crops", len(mandi.Crops()))

	srv := api.NewServer(cfg, optimizer, oracle, database)

	addr := fmt.Sprintf("127.0.0.1:%d", *port)
	logger.Server(addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		logger.Error("Server", fmt.Sprintf("Failed: %v", err))
		os.Exit(1)
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
