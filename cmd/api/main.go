package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/renoflade/renoflade-api/internal/http/handlers"
	imw "github.com/renoflade/renoflade-api/internal/http/middleware"
	"github.com/renoflade/renoflade-api/internal/platform/capability"
	"github.com/renoflade/renoflade-api/internal/platform/mailer"
	"github.com/renoflade/renoflade-api/internal/platform/session"
	"github.com/renoflade/renoflade-api/internal/platform/token"
	"github.com/renoflade/renoflade-api/internal/ratelimit"
	"github.com/renoflade/renoflade-api/internal/repo/postgres"
	"github.com/renoflade/renoflade-api/internal/service"
	"github.com/renoflade/renoflade-api/pkg/config"
	"github.com/renoflade/renoflade-api/pkg/database"
	"github.com/renoflade/renoflade-api/pkg/events"
	"github.com/renoflade/renoflade-api/pkg/logger"
	mw "github.com/renoflade/renoflade-api/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Rate limiting runs on Redis when configured, in-process otherwise.
	var limiter ratelimit.Limiter
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			logger.Error("Invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		limiter = ratelimit.NewRedisLimiter(redis.NewClient(opts))
	} else {
		logger.Warn("REDIS_URL not set, using in-process rate limiting")
		limiter = ratelimit.NewMemoryLimiter(nil)
	}

	var bus events.Publisher = events.NoopPublisher{}
	if cfg.NATS.URL != "" {
		natsBus, err := events.NewNATSPublisher(cfg.NATS.URL)
		if err != nil {
			logger.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer natsBus.Close()
		bus = natsBus
	}

	var mail mailer.Service
	switch {
	case cfg.Email.DevMode:
		mail = mailer.NewDevMailer()
	case cfg.Email.MailerSendKey != "":
		mail = mailer.NewMailer(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.From)
	default:
		mail = mailer.NewSMTPMailer(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.From, cfg.Email.SMTPUser, cfg.Email.SMTPPass)
	}

	// The signing key and clock are fixed here; nothing below reads env.
	codec := token.NewCodec(cfg.Auth.TokenSecret, nil)
	sessions := session.NewManager(codec, cfg.Auth.AdminPasswordHash, cfg.Auth.SessionTTL, cfg.IsProduction())
	caps := capability.NewIssuer(codec, cfg.Auth.BookingTokenTTL)

	bookingsRepo := postgres.NewBookingsRepo(pool)
	leadsRepo := postgres.NewLeadsRepo(pool)

	bookingSvc := service.NewBookingService(bookingsRepo, caps, mail, bus, cfg.SiteURL, nil)
	leadSvc := service.NewLeadService(leadsRepo, bus)

	h := handlers.New(bookingSvc, leadSvc, sessions)

	estimateRule := ratelimit.Rule{Action: "estimate", Requests: cfg.Limits.EstimateRequests, Window: cfg.Limits.EstimateWindow}
	manageRule := ratelimit.Rule{Action: "manage", Requests: cfg.Limits.ManageRequests, Window: cfg.Limits.ManageWindow}
	bookingRule := ratelimit.Rule{Action: "booking", Requests: cfg.Limits.BookingRequests, Window: cfg.Limits.BookingWindow}

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("renoflade-api"))
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.SiteURL},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public surface. Every write passes a rate limiter first.
	r.With(imw.RateLimit(limiter, bookingRule)).Post("/bookings", h.CreateBooking)
	r.With(imw.RateLimit(limiter, estimateRule)).Post("/estimate", h.SubmitEstimate)
	r.Route("/booking/manage/{token}", func(r chi.Router) {
		r.Get("/", h.GetManagedBooking)
		r.With(imw.RateLimit(limiter, manageRule)).Post("/cancel", h.CancelManagedBooking)
		r.With(imw.RateLimit(limiter, manageRule)).Post("/reschedule", h.RescheduleManagedBooking)
	})

	// Admin surface. The gate lets exactly one path through without a
	// session: the login page.
	r.Route("/admin", func(r chi.Router) {
		r.Use(imw.AdminGate(sessions))
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Get("/bookings", h.ListBookings)
		r.Get("/bookings/{id}", h.GetBooking)
		r.Patch("/bookings/{id}", h.UpdateBookingStatus)
		r.Post("/bookings/{id}/approve-reschedule", h.ApproveReschedule)
		r.Get("/leads", h.ListLeads)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Shutdown error", "error", err)
		}
	}()

	logger.Info("Starting renoflade-api", "port", cfg.Server.Port, "env", cfg.Env)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}
