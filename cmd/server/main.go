package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dinner-party-reservation/internal/config"
	"github.com/iliyamo/dinner-party-reservation/internal/database"
	"github.com/iliyamo/dinner-party-reservation/internal/handler"
	"github.com/iliyamo/dinner-party-reservation/internal/logging"
	"github.com/iliyamo/dinner-party-reservation/internal/middleware"
	"github.com/iliyamo/dinner-party-reservation/internal/queue"
	"github.com/iliyamo/dinner-party-reservation/internal/repository"
	"github.com/iliyamo/dinner-party-reservation/internal/router"
)

func main() {
	// .env is a local development convenience; in real deployments the
	// variables come from the environment.
	_ = godotenv.Load()
	logging.Setup()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		slog.Error("database connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// Redis is optional; a nil client turns the limiter and cache into
	// pass-throughs.
	rdb := config.NewRedisClient()
	if rdb == nil {
		slog.Warn("redis unavailable, rate limiting and response cache disabled")
	}
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	events := repository.NewEventRepo(db)
	foods := repository.NewFoodItemRepo(db)
	rsvps := repository.NewRSVPRepo(db)
	invites := repository.NewInviteRepo(db)
	referrals := repository.NewReferralRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens, referrals)
	eventH := handler.NewEventHandler(cfg, events, foods, rsvps, invites, users)
	rsvpH := handler.NewRSVPHandler(cfg, events, rsvps, foods)
	inviteH := handler.NewInviteHandler(cfg, events, invites, rsvps, foods, users)
	referralH := handler.NewReferralHandler(cfg, users, referrals)

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterEvents(e, eventH, cfg.JWTSecret, cache, limiter)
	router.RegisterRSVPs(e, rsvpH, cfg.JWTSecret, limiter)
	router.RegisterInvites(e, inviteH, cfg.JWTSecret, limiter)
	router.RegisterReferrals(e, referralH, cfg.JWTSecret)

	// The notification consumer reconnects on its own; it never brings
	// the API down.
	go func() {
		if err := queue.StartEventConsumer(); err != nil {
			slog.Warn("event consumer stopped", "err", err)
		}
	}()

	addr := ":" + cfg.Port
	slog.Info("listening", "addr", addr, "env", cfg.Env)
	if err := e.Start(addr); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
