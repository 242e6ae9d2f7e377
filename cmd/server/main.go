package main

import (
	"net/http"
	"stock-service/internal/api"
	"stock-service/internal/api/handlers"
	"stock-service/internal/cache"
	"stock-service/internal/database"
	"stock-service/internal/repository"

	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := database.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	pool, err := database.Connect(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to connect database")
	}
	defer pool.Close()

	if err := database.Migrate(pool); err != nil {
		log.WithError(err).Fatal("migrations failed")
	}

	var productRepo repository.ProductRepository = repository.NewProductRepository(pool)
	var historyRepo repository.HistoryRepository = repository.NewHistoryRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	// Redis is an optional accelerator; without it the service runs
	// straight against Postgres.
	if rdb, err := cache.ConnectRedis(cfg); err != nil {
		log.WithError(err).Warn("redis unavailable, running without product cache")
	} else {
		productRepo = cache.NewCachedProductRepository(productRepo, rdb, log)
		historyRepo = cache.NewCachedHistoryRepository(historyRepo, rdb, log)
	}

	router := api.NewRouter(
		handlers.NewProductHandler(productRepo, log),
		handlers.NewHistoryHandler(historyRepo, log),
		handlers.NewUserHandler(userRepo, log),
		log,
	)

	addr := ":" + cfg.HTTPPort
	log.WithField("addr", addr).Info("stock management server is running")

	if err := http.ListenAndServe(addr, router); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
