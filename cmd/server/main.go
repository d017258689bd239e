package main

import (
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/appdotbuilder/turf-match-finder/internal/config"
	"github.com/appdotbuilder/turf-match-finder/internal/database"
	"github.com/appdotbuilder/turf-match-finder/internal/handler"
	"github.com/appdotbuilder/turf-match-finder/internal/middleware"
	"github.com/appdotbuilder/turf-match-finder/internal/queue"
	"github.com/appdotbuilder/turf-match-finder/internal/repository"
	"github.com/appdotbuilder/turf-match-finder/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	fields := repository.NewFieldRepo(db)
	slots := repository.NewSlotRepo(db)
	teams := repository.NewTeamRepo(db)
	bookings := repository.NewBookingRepo(db)
	requests := repository.NewMatchRequestRepo(db)
	ratings := repository.NewRatingRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	fieldH := handler.NewFieldHandler(fields)
	slotH := handler.NewSlotHandler(fields, slots)
	teamH := handler.NewTeamHandler(users, teams)
	bookingH := handler.NewBookingHandler(users, slots, teams, bookings, cfg.AMQPURL)
	requestH := handler.NewMatchRequestHandler(teams, requests)
	ratingH := handler.NewRatingHandler(teams, ratings)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())

	rdb := config.NewRedisClient()
	if rdb != nil {
		e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	}
	var cache echo.MiddlewareFunc
	if rdb != nil {
		cache = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, fieldH, slotH, teamH, ratingH, requestH, cache)
	router.RegisterPlayer(e, bookingH, teamH, requestH, ratingH, cfg.JWTSecret)
	router.RegisterOwner(e, fieldH, slotH, bookingH, cfg.JWTSecret)

	if cfg.AMQPURL != "" {
		go func() {
			if err := queue.StartBookingConsumer(cfg.AMQPURL); err != nil {
				log.Errorf("booking consumer stopped: %v", err)
			}
		}()
	}

	addr := ":" + cfg.Port
	log.Infof("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
