package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/FranBistrovic/QuantumHotel/internal/config"
	"github.com/FranBistrovic/QuantumHotel/internal/database"
	"github.com/FranBistrovic/QuantumHotel/internal/handler"
	appmw "github.com/FranBistrovic/QuantumHotel/internal/middleware"
	"github.com/FranBistrovic/QuantumHotel/internal/queue"
	"github.com/FranBistrovic/QuantumHotel/internal/repository"
	"github.com/FranBistrovic/QuantumHotel/internal/router"
)

func main() {
	// .env is optional; in production everything comes from the real
	// environment.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()

	categoryRepo := repository.NewCategoryRepo(db)
	unitRepo := repository.NewUnitRepo(db)
	amenityRepo := repository.NewAmenityRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	contentRepo := repository.NewContentRepo(db)
	statsRepo := repository.NewStatsRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	adminUsers := handler.NewAdminUserHandler(cfg, userRepo, tokenRepo)
	publicHandler := handler.NewPublicHandler(categoryRepo, unitRepo, amenityRepo, contentRepo, reservationRepo)
	guestHandler := handler.NewGuestHandler(categoryRepo, unitRepo, amenityRepo, reservationRepo)
	staffCatalog := handler.NewStaffCatalogHandler(categoryRepo, unitRepo, amenityRepo)
	staffReservations := handler.NewStaffReservationHandler(categoryRepo, unitRepo, reservationRepo)
	staffContent := handler.NewStaffContentHandler(contentRepo)
	statsHandler := handler.NewStatsHandler(statsRepo)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	// The limiter registers per group, after JWTAuth on protected
	// routes, so user-keyed strategies see the authenticated caller.
	limiter := appmw.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret, limiter)
	router.RegisterPublic(e, publicHandler, limiter, appmw.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterReservations(e, guestHandler, staffReservations, cfg.JWTSecret, limiter)
	router.RegisterStaff(e, staffCatalog, staffContent, cfg.JWTSecret, limiter)
	router.RegisterAdmin(e, adminUsers, staffReservations, statsHandler, cfg.JWTSecret, limiter)

	// The decision consumer runs for the lifetime of the process and
	// reconnects on broker failures.
	go func() {
		if err := queue.StartDecisionConsumer(); err != nil {
			log.Printf("decision consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
