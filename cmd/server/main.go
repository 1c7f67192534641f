package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/config"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/controllers"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/logger"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/mailer"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/middleware"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/routes"
)

func main() {
	cfg, err := config.Load(envOr("CONFIG_FILE", "config.yaml"))
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	// Initialize structured logging to file
	logger.Setup(logger.Options{
		File:       cfg.Log.File,
		Level:      cfg.Log.Level,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Stdout:     cfg.Log.Stdout,
	})
	gin.SetMode(cfg.Server.Mode)

	// Connect to the database
	if err := config.InitDB(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	if err := config.Seed(config.DB); err != nil {
		logrus.WithError(err).Fatal("Failed to seed defaults")
	}

	if cfg.Mail.SendgridAPIKey != "" {
		controllers.Mail = mailer.NewSendgrid(cfg.Mail.SendgridAPIKey, cfg.Mail.FromName, cfg.Mail.FromAddress)
	} else {
		logrus.Warn("SENDGRID_API_KEY not set, reset emails will only be logged")
	}

	// Wrap with CORS
	handler := middleware.EnableCORS(cfg.Server.AllowedOrigins, routes.SetupRouter())

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.Infof("🚀 Server running at :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("Server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Graceful shutdown failed")
	}
	logrus.Info("Server exited")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
