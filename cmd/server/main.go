package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/santistebanc/partytime-sub000/internal/cache"
	"github.com/santistebanc/partytime-sub000/internal/config"
	"github.com/santistebanc/partytime-sub000/internal/repository"
	"github.com/santistebanc/partytime-sub000/internal/room"
	"github.com/santistebanc/partytime-sub000/internal/transport/rest"
	"github.com/santistebanc/partytime-sub000/internal/transport/ws"
)

func main() {
	_ = godotenv.Load() // .env is optional outside local dev

	logger := slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	cfg := config.Default()
	if err := config.Load(os.Getenv("CONFIG_PATH"), &cfg); err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Redis holds the per-room state blobs.
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	defer rdb.Close()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		logger.Error("ping redis", "addr", cfg.Redis.Addr, "error", err)
		os.Exit(1)
	}
	logger.Info("connected to redis", "addr", cfg.Redis.Addr)

	// Mongo archives resolved history entries.
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		logger.Error("connect mongodb", "error", err)
		os.Exit(1)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		logger.Error("ping mongodb", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to mongodb", "database", cfg.Mongo.Database)

	stateStore := cache.NewStateStore(rdb)
	historyRepo := repository.NewHistoryRepository(mongoClient.Database(cfg.Mongo.Database))

	hub := ws.NewHub(logger)
	rooms := room.NewManager(stateStore, historyRepo, hub, logger)
	defer rooms.Shutdown()

	wsRouter := ws.NewRouter(rooms, hub, logger)
	wsHandler := ws.NewHandler(hub, wsRouter, logger)

	httpRouter := rest.NewRouter(&rest.Container{
		HistoryRepo: historyRepo,
		WSHandler:   wsHandler,
		Log:         logger,
	})

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: httpRouter,
	}

	go func() {
		logger.Info("server starting", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
	logger.Info("server exited")
}
