package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/tomabrook/cheese-ledger/internal/config"
	"github.com/tomabrook/cheese-ledger/internal/database"
	"github.com/tomabrook/cheese-ledger/internal/handler"
	"github.com/tomabrook/cheese-ledger/internal/ledger"
	"github.com/tomabrook/cheese-ledger/internal/middleware"
	"github.com/tomabrook/cheese-ledger/internal/queue"
	"github.com/tomabrook/cheese-ledger/internal/repository"
	"github.com/tomabrook/cheese-ledger/internal/router"
)

func main() {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer db.Close()

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	facilities := repository.NewFacilityRepo(db)
	slots := repository.NewSlotRepo(db)
	bookings := repository.NewBookingRepo(db)
	readings := repository.NewReadingRepo(db)
	producers := repository.NewProducerRepo(db)
	varieties := repository.NewVarietyRepo(db)
	milkSources := repository.NewMilkSourceRepo(db)
	tests := repository.NewQualityTestRepo(db)
	results := repository.NewTestResultRepo(db)
	testers := repository.NewTesterRepo(db)

	// Booking engine over the MySQL stores.
	stores := ledger.Stores{
		Facilities: facilities,
		Slots:      slots,
		Bookings:   bookings,
		Readings:   readings,
		Registry:   repository.NewRegistry(producers, varieties),
	}
	engine := ledger.New(stores)

	// Handlers.
	authHandler := handler.NewAuthHandler(cfg, users, tokens)
	facilityHandler := handler.NewFacilityHandler(engine)
	bookingHandler := handler.NewBookingHandler(engine, stores)
	producerHandler := handler.NewProducerHandler(producers, varieties, milkSources)
	qualityHandler := handler.NewQualityHandler(tests, results, testers, producers, varieties)

	e := echo.New()

	// Redis-backed rate limiting and response caching degrade to
	// pass-through when no Redis server is reachable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and response cache disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterFacility(e, facilityHandler, cfg.JWTSecret)
	router.RegisterBooking(e, bookingHandler, cfg.JWTSecret)
	router.RegisterProducer(e, producerHandler, cfg.JWTSecret)
	router.RegisterQuality(e, qualityHandler, cfg.JWTSecret)

	// Background consumer logging booking events.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
