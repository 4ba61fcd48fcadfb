package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	_ "tasktracker/docs"
	"tasktracker/internal/config"
	"tasktracker/internal/server"

	"github.com/gin-gonic/gin"
)

// @title           Task Tracker API
// @version         1.0
// @description     Session-backed task tracking: users, sessions, task assignment.

// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token returned by /auth/login.

// @schemes http
func main() {
	cfg := config.Load()
	logger := newLogger(cfg.LogLevel)

	if logger.Enabled(context.Background(), slog.LevelDebug) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s, err := server.Init(cfg, logger)
	if err != nil {
		logger.Error("server initialization failed", "error", err)
		os.Exit(1)
	}

	s.Run()
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
