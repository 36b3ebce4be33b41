package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notedown/backend/internal/auth"
	"notedown/backend/internal/config"
	"notedown/backend/internal/db"
	"notedown/backend/internal/handlers"
	"notedown/backend/internal/middleware"
	"notedown/backend/internal/realtime"
	"notedown/backend/internal/router"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer store.Close()

	authService, err := auth.NewService(cfg.JWTSecret, 7*24*time.Hour)
	if err != nil {
		log.Fatalf("failed to init auth: %v", err)
	}

	var denylist *auth.Denylist
	if cfg.RedisURL != "" {
		denylist, err = auth.NewDenylist(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to init token denylist: %v", err)
		}
		defer denylist.Close()
	}

	hub := realtime.NewHub(store)
	api := handlers.NewAPI(store, authService, denylist, hub)
	limiter := middleware.NewRateLimiter(60, time.Minute)
	rt := router.New(api, authService, denylist, limiter, cfg.FrontendOrigin, hub)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      rt,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server listening on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	hub.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
