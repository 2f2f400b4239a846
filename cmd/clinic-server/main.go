package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/clinicops/clinic-server/internal/config"
	"github.com/clinicops/clinic-server/internal/domain/activity"
	"github.com/clinicops/clinic-server/internal/domain/agenda"
	"github.com/clinicops/clinic-server/internal/domain/appointment"
	"github.com/clinicops/clinic-server/internal/domain/billing"
	"github.com/clinicops/clinic-server/internal/domain/finance"
	"github.com/clinicops/clinic-server/internal/domain/identity"
	"github.com/clinicops/clinic-server/internal/domain/note"
	"github.com/clinicops/clinic-server/internal/domain/patient"
	"github.com/clinicops/clinic-server/internal/domain/reminder"
	"github.com/clinicops/clinic-server/internal/domain/training"
	"github.com/clinicops/clinic-server/internal/domain/worker"
	"github.com/clinicops/clinic-server/internal/platform/auth"
	"github.com/clinicops/clinic-server/internal/platform/db"
	"github.com/clinicops/clinic-server/internal/platform/middleware"
	"github.com/clinicops/clinic-server/internal/platform/notification"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-server",
		Short: "Clinic management API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the clinic API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Redis is optional; without it rate limiting falls back to in-process
	// buckets and reminder dedupe is skipped.
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		rdb = redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Msg("redis unreachable at startup")
		} else {
			logger.Info().Msg("connected to redis")
		}
		defer rdb.Close()
	}

	// Tokens
	tokens := auth.NewService(cfg.JWTSecret, time.Duration(cfg.JWTTTLMinutes)*time.Minute)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit("1M"))
	e.Use(middleware.RequestTimeout(30 * time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// API group: login and health are public, everything else requires a token.
	api := e.Group("/api")
	if rdb != nil {
		limiter := middleware.NewRedisRateLimiter(rdb, int(cfg.RateLimitRPS), time.Second)
		api.Use(limiter.Middleware(logger))
	} else {
		api.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimitRPS,
			BurstSize:         cfg.RateLimitBurst,
		}))
	}

	e.GET("/health", db.HealthHandler(pool))

	authed := api.Group("", tokens.Middleware())

	// WhatsApp sender; a noop keeps the reminder endpoints working when
	// Twilio is not configured.
	var sender notification.Sender
	if cfg.RemindersEnabled() {
		sender = notification.NewTwilioWhatsApp(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppFrom, logger)
		logger.Info().Msg("whatsapp reminders enabled")
	} else {
		sender = notification.NoopSender{Logger: logger}
		logger.Warn().Msg("twilio not configured, reminders are dropped")
	}

	var dedupe reminder.Deduper = noopDeduper{}
	if rdb != nil {
		dedupe = reminder.NewRedisDeduper(rdb)
	}

	// -- Domain wiring --

	patientRepo := patient.NewRepo(pool)
	patientSvc := patient.NewService(patientRepo)
	patient.NewHandler(patientSvc).RegisterRoutes(authed)

	workerRepo := worker.NewRepo(pool)
	workerSvc := worker.NewService(workerRepo)
	worker.NewHandler(workerSvc).RegisterRoutes(authed)

	apptRepo := appointment.NewRepo(pool)
	apptSvc := appointment.NewService(apptRepo, cfg.DefaultAppointmentPrice)
	appointment.NewHandler(apptSvc).RegisterRoutes(authed)

	agendaSvc := agenda.NewService(apptRepo)
	agenda.NewHandler(agendaSvc).RegisterRoutes(authed)

	trainingRepo := training.NewRepo(pool)
	trainingSvc := training.NewService(trainingRepo)
	training.NewHandler(trainingSvc).RegisterRoutes(authed)

	activityRepo := activity.NewRepo(pool)
	activitySvc := activity.NewService(activityRepo)
	activity.NewHandler(activitySvc).RegisterRoutes(authed)

	billingRepo := billing.NewRepo(pool)
	billingSvc := billing.NewService(billingRepo, apptRepo, db.Runner{Pool: pool}, cfg.InvoiceSeriesPrefix)
	billing.NewHandler(billingSvc).RegisterRoutes(authed)

	financeRepo := finance.NewRepo(pool)
	financeSvc := finance.NewService(financeRepo, apptRepo)
	finance.NewHandler(financeSvc).RegisterRoutes(authed)

	noteRepo := note.NewRepo(pool)
	noteSvc := note.NewService(noteRepo)
	note.NewHandler(noteSvc).RegisterRoutes(authed)

	userRepo := identity.NewRepo(pool)
	identitySvc := identity.NewService(userRepo, tokens)
	identityHandler := identity.NewHandler(identitySvc)
	identityHandler.RegisterPublicRoutes(api)
	identityHandler.RegisterRoutes(authed)

	reminderSvc := reminder.NewService(apptRepo, patientRepo, sender, dedupe, logger)
	reminder.NewHandler(reminderSvc).RegisterRoutes(authed)

	// Daily reminder job for tomorrow's appointments.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.ReminderCron, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := reminderSvc.SendDailyReminders(jobCtx); err != nil {
			logger.Error().Err(err).Msg("daily reminder run failed")
		}
	}); err != nil {
		logger.Fatal().Err(err).Str("cron", cfg.ReminderCron).Msg("invalid reminder schedule")
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Start server
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

// noopDeduper lets every reminder through when redis is not configured.
type noopDeduper struct{}

func (noopDeduper) MarkSent(context.Context, uuid.UUID, string) (bool, error) { return true, nil }

func (noopDeduper) Release(context.Context, uuid.UUID, string) error { return nil }
