package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Maramoubouare/FOLLOWUP/internal/config"
	"github.com/Maramoubouare/FOLLOWUP/internal/domain/evaluation"
	"github.com/Maramoubouare/FOLLOWUP/internal/domain/hospitalisation"
	"github.com/Maramoubouare/FOLLOWUP/internal/domain/implant"
	"github.com/Maramoubouare/FOLLOWUP/internal/domain/incident"
	"github.com/Maramoubouare/FOLLOWUP/internal/domain/medecin"
	"github.com/Maramoubouare/FOLLOWUP/internal/domain/patient"
	"github.com/Maramoubouare/FOLLOWUP/internal/domain/processeur"
	"github.com/Maramoubouare/FOLLOWUP/internal/domain/reglage"
	"github.com/Maramoubouare/FOLLOWUP/internal/domain/rendezvous"
	"github.com/Maramoubouare/FOLLOWUP/internal/domain/suivi"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/auth"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/db"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/envelope"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/middleware"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/validate"
)

// exportPath is served without the request timeout.
const exportPath = "/api/incidents/export"

func main() {
	rootCmd := &cobra.Command{
		Use:          "followup-server",
		Short:        "FollowUp cochlear implant incident tracking API",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

// connect loads the configuration and opens the pool shared by every command.
func connect(ctx context.Context) (*config.Config, *pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	pool, err := db.NewPool(ctx, db.PoolConfig{
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
		Schema:   cfg.DBSchema,
	})
	if err != nil {
		return nil, nil, err
	}
	return cfg, pool, nil
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	// migrate up
	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg, pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			dir := migrationsDir(cmd, cfg)
			fmt.Fprintf(cmd.OutOrStdout(), "Running migrations from %s\n", dir)

			count, err := db.NewMigrator(pool, os.DirFS(dir)).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "", "Path to migrations directory (defaults to MIGRATIONS_DIR)")
	cmd.AddCommand(upCmd)

	// migrate status
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg, pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, os.DirFS(migrationsDir(cmd, cfg))).Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Fprintln(out, "---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Fprintf(out, "%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "", "Path to migrations directory (defaults to MIGRATIONS_DIR)")
	cmd.AddCommand(statusCmd)

	return cmd
}

func migrationsDir(cmd *cobra.Command, cfg *config.Config) string {
	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		return dir
	}
	return cfg.MigrationsDir
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export registries to Excel workbooks",
	}

	incidentsCmd := &cobra.Command{
		Use:   "incidents",
		Short: "Write every incident to an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				return fmt.Errorf("--out is required")
			}

			ctx := context.Background()
			_, pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := incident.NewService(incident.NewIncidentRepoPG(pool), incident.NewSuiviRepoPG(pool))
			items, err := svc.ListAll(ctx)
			if err != nil {
				return fmt.Errorf("list incidents: %w", err)
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := incident.WriteRegistry(f, items); err != nil {
				f.Close()
				return fmt.Errorf("write registry: %w", err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d incident(s) to %s\n", len(items), out)
			return nil
		},
	}
	incidentsCmd.Flags().String("out", "incidents.xlsx", "Destination workbook")
	cmd.AddCommand(incidentsCmd)

	return cmd
}

func newLogger(cfg *config.Config) zerolog.Logger {
	var logger zerolog.Logger
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout})
	} else {
		logger = zerolog.New(os.Stdout)
	}
	return logger.Level(cfg.Level()).With().Timestamp().Logger()
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(cfg)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, db.PoolConfig{
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
		Schema:   cfg.DBSchema,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	e := newServer(cfg, logger, pool)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

// newServer builds the echo instance with the middleware chain and every
// resource mounted under /api. The pool is only touched by requests.
func newServer(cfg *config.Config, logger zerolog.Logger, pool *pgxpool.Pool) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = envelope.ErrorHandler(logger, cfg.IsDev())

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, middleware.RequestIDHeader},
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout, exportPath))

	// Auth middleware
	if cfg.AuthMode == "jwt" {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			SigningKey: []byte(cfg.AuthSigningKey),
			Skipper:    auth.AuthSkipper,
		}))
	} else {
		e.Use(auth.DevAuthMiddleware())
	}

	// Rate limiting runs after auth so buckets are keyed per user.
	rl := middleware.DefaultRateLimitConfig()
	if cfg.RateLimitRPS > 0 {
		rl.RequestsPerSecond = cfg.RateLimitRPS
	}
	if cfg.RateLimitBurst > 0 {
		rl.BurstSize = cfg.RateLimitBurst
	}
	e.Use(middleware.RateLimit(rl))

	// Audit middleware
	e.Use(middleware.Audit(logger))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success": true,
			"status":  "OK",
			"message": "API FollowUp opérationnelle",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	api := e.Group("/api", auth.WriteRoles(cfg.AuthWriteRoles...))
	v := validate.New()

	// Patients and doctors
	patientRepo := patient.NewPatientRepoPG(pool)
	patient.NewHandler(patientRepo, v, logger).RegisterRoutes(api)

	medecinRepo := medecin.NewMedecinRepoPG(pool)
	medecin.NewHandler(medecin.NewService(medecinRepo), medecinRepo, v, logger).RegisterRoutes(api)

	// Incidents and their follow-up entries
	incidentSvc := incident.NewService(incident.NewIncidentRepoPG(pool), incident.NewSuiviRepoPG(pool))
	incidentSvc.SetTransactor(db.NewTransactor(pool))
	incident.NewHandler(incidentSvc, v, logger).RegisterRoutes(api)

	// Devices
	reglageRepo := reglage.NewReglageRepoPG(pool)
	reglage.NewHandler(reglageRepo, v, logger).RegisterRoutes(api)

	implantRepo := implant.NewImplantRepoPG(pool)
	implant.NewHandler(implant.NewService(implantRepo, reglageRepo, incidentSvc), implantRepo, v, logger).RegisterRoutes(api)

	processeurRepo := processeur.NewProcesseurRepoPG(pool)
	processeur.NewHandler(processeur.NewService(processeurRepo, reglageRepo, incidentSvc), processeurRepo, v, logger).RegisterRoutes(api)

	// Care pathway
	rendezvous.NewHandler(rendezvous.NewRendezVousRepoPG(pool), v, logger).RegisterRoutes(api)
	hospitalisation.NewHandler(
		hospitalisation.NewHospitalisationRepoPG(pool),
		hospitalisation.NewPoseRepoPG(pool),
		v, logger,
	).RegisterRoutes(api)
	evaluation.NewHandler(evaluation.NewPhaseRepoPG(pool), evaluation.NewEtapeRepoPG(pool), v, logger).RegisterRoutes(api)
	suivi.NewHandler(suivi.NewSuiviRepoPG(pool), suivi.NewEtapeRepoPG(pool), v, logger).RegisterRoutes(api)

	return e
}
