// Command server runs the Preferans table server: HTTP + WebSocket API,
// optional Postgres persistence and optional Redis action history.
package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/jason-s-yu/preferans/internal/cache"
	"github.com/jason-s-yu/preferans/internal/database"
	"github.com/jason-s-yu/preferans/internal/game"
	"github.com/jason-s-yu/preferans/internal/httpserver"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, using process environment")
	}

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logrus.SetLevel(lvl)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Postgres and Redis are optional: without them the server still runs,
	// it just keeps no round history.
	if url := os.Getenv("DATABASE_URL"); url != "" {
		if err := database.Connect(ctx, url); err != nil {
			logrus.WithError(err).Warn("postgres unavailable, round persistence disabled")
		} else {
			logrus.Info("connected to postgres")
		}
	}
	if addr := os.Getenv("REDIS_URL"); addr != "" {
		if err := cache.InitRedis(ctx, addr); err != nil {
			logrus.WithError(err).Warn("redis unavailable, action history disabled")
		} else {
			logrus.Info("connected to redis")
		}
	}

	registry := game.NewRegistry()
	srv := httpserver.New(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logrus.WithField("port", port).Info("preferans server listening")
	if err := srv.Start(":" + port); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}
