package main // Entry point package

import (
    "context"
    "log"
    "os/signal"
    "syscall"
    "time"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinema-booking/internal/config"
    "github.com/iliyamo/cinema-booking/internal/database"
    "github.com/iliyamo/cinema-booking/internal/handler"
    "github.com/iliyamo/cinema-booking/internal/middleware"
    "github.com/iliyamo/cinema-booking/internal/queue"
    "github.com/iliyamo/cinema-booking/internal/repository"
    "github.com/iliyamo/cinema-booking/internal/router"
    "github.com/iliyamo/cinema-booking/internal/service"
)

func main() {
    // .env is optional; real deployments set the environment directly.
    _ = godotenv.Load()

    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    userRepo := repository.NewUserRepo(db)
    tokenRepo := repository.NewTokenRepo(db)
    roleRepo := repository.NewRoleRepo(db)
    permRepo := repository.NewPermissionRepo(db)
    cinemaRepo := repository.NewCinemaRepo(db)
    roomRepo := repository.NewRoomRepo(db)
    movieRepo := repository.NewMovieRepo(db)
    showtimeRepo := repository.NewShowtimeRepo(db)
    seatRepo := repository.NewShowtimeSeatRepo(db)
    bookingRepo := repository.NewBookingRepo(db)
    ticketRepo := repository.NewTicketRepo(db)
    txnRepo := repository.NewTransactionRepo(db)

    holdDuration := time.Duration(cfg.HoldDurationMin) * time.Minute
    bookingSvc := service.NewBookingService(db, holdDuration, cfg.MaxSeatsPerBooking)
    sweeper := service.NewSweeper(db, cfg.SweepInterval, cfg.SweepBatchSize)

    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()
    go sweeper.Run(ctx)

    // The consumer reconnects forever; a missing broker only costs the
    // booking log, never a request.
    go func() {
        if err := queue.StartBookingConsumer(); err != nil {
            log.Printf("booking consumer stopped: %v", err)
        }
    }()

    e := echo.New()
    e.HideBanner = true

    // Redis is optional: without it the rate limiter and response cache
    // turn into pass-throughs.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Println("redis unavailable; rate limiting and caching disabled")
    }
    e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
    e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

    h := router.Handlers{
        Auth:      handler.NewAuthHandler(cfg, userRepo, tokenRepo, roleRepo),
        Users:     handler.NewUserHandler(userRepo, roleRepo, tokenRepo, cfg.BcryptCost),
        Roles:     handler.NewRoleHandler(roleRepo),
        Perms:     handler.NewPermissionHandler(permRepo),
        Cinemas:   handler.NewCinemaHandler(cinemaRepo, roomRepo),
        Movies:    handler.NewMovieHandler(movieRepo),
        Showtimes: handler.NewShowtimeHandler(showtimeRepo, seatRepo, movieRepo, roomRepo),
        Bookings:  handler.NewBookingHandler(bookingSvc, bookingRepo, ticketRepo, txnRepo),
        Tickets:   handler.NewTicketHandler(ticketRepo, bookingRepo),
    }
    router.Register(e, h, roleRepo, cfg.JWTSecret)

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)

    go func() {
        if err := e.Start(addr); err != nil {
            log.Printf("server stopped: %v", err)
            stop()
        }
    }()

    <-ctx.Done()
    shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    if err := e.Shutdown(shutdownCtx); err != nil {
        log.Printf("shutdown: %v", err)
    }
}
