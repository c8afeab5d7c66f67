package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/cinema-store/internal/config"   // Internal config loader
	"github.com/iliyamo/cinema-store/internal/database" // MySQL connection helper
	"github.com/iliyamo/cinema-store/internal/handler"  // HTTP handlers
	"github.com/iliyamo/cinema-store/internal/middleware"
	"github.com/iliyamo/cinema-store/internal/queue" // RabbitMQ publisher and consumer
	"github.com/iliyamo/cinema-store/internal/repository"
	"github.com/iliyamo/cinema-store/internal/router" // Internal router setup
	"github.com/iliyamo/cinema-store/internal/service/ticket"
	"github.com/iliyamo/cinema-store/internal/service/ticketnumber"
)

func main() {
	// Load .env when present; real deployments set the environment
	// directly and the file is simply absent.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; cache and rate limiting disabled")
	}
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	rateMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	// Repositories
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	movies := repository.NewMovieRepo(db)
	genres := repository.NewGenreRepo(db)
	studios := repository.NewStudioRepo(db)
	tickets := repository.NewTicketRepo(db)

	// Ticket numbers default to the timestamp scheme; set
	// TICKET_NUMBER_SCHEME=random for the UUID-based one.
	var numbers ticketnumber.Generator = ticketnumber.Timestamp{}
	if cfg.TicketNumberScheme == "random" {
		numbers = ticketnumber.Random{}
	}

	ticketSvc := ticket.NewService(tickets, movies, numbers,
		ticket.WithPublisher(&queue.Publisher{URL: cfg.RabbitURL}))

	// Background consumer appends status-change events to logs/tickets.log.
	// It reconnects on its own; failures never take the server down.
	go func() {
		if err := queue.StartTicketConsumer(cfg.RabbitURL); err != nil {
			log.Printf("ticket-consumer stopped: %v", err)
		}
	}()

	e := echo.New() // Create Echo instance

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterCatalog(e,
		handler.NewMovieHandler(movies),
		handler.NewGenreHandler(genres),
		handler.NewStudioHandler(studios),
		cfg.JWTSecret, rateMW, cacheMW)
	router.RegisterTickets(e, handler.NewTicketHandler(ticketSvc), cfg.JWTSecret)
	router.RegisterAdmin(e, handler.NewAdminUserHandler(cfg, users), cfg.JWTSecret)
	router.RegisterDashboard(e,
		handler.NewDashboardHandler(ticketSvc, movies, users),
		cfg.JWTSecret, cacheMW)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
