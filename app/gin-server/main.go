package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/coldreach/config"
	"github.com/yoockh/coldreach/internal/api/routes"
	"github.com/yoockh/coldreach/internal/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New()

	if cfg.SessionSecret == "coldreach-dev-secret" {
		log.Warn("SESSION_SECRET not set; using development secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := build(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("startup failed")
	}
	defer app.close(log)

	gin.SetMode(gin.ReleaseMode)
	r, err := routes.NewEngine(log, app.deps)
	if err != nil {
		log.WithError(err).Fatal("router init failed")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown")
	}
}
