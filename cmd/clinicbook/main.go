package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/config"
	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/domain/consultation"
	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/domain/doctor"
	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/domain/patient"
	v1 "github.com/dmehra2102/prod-golang-projects/clinicbook/internal/handler/v1"
	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/repository/memory"
	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/repository/postgres"
	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/service"
	"github.com/dmehra2102/prod-golang-projects/clinicbook/pkg/auth"
	"github.com/dmehra2102/prod-golang-projects/clinicbook/pkg/database"
	"github.com/dmehra2102/prod-golang-projects/clinicbook/pkg/logger"
	"github.com/dmehra2102/prod-golang-projects/clinicbook/pkg/metrics"
	"github.com/dmehra2102/prod-golang-projects/clinicbook/pkg/tracer"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "clinicbook",
		Short:         "Clinic consultation scheduling API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the clinic schema, tables and unique indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			db, err := database.Connect(cfg.Database)
			if err != nil {
				return err
			}
			return database.Migrate(db, log)
		},
	}
}

func tokenCmd() *cobra.Command {
	var (
		role      string
		patientID string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			claims := &domain.Claims{UserID: uuid.New(), Role: domain.Role(role)}
			if !claims.Role.IsValid() {
				return fmt.Errorf("unknown role %q", role)
			}
			if patientID != "" {
				id, err := uuid.Parse(patientID)
				if err != nil {
					return fmt.Errorf("invalid --patient-id: %w", err)
				}
				claims.PatientID = &id
			}

			token, expiresAt, err := auth.NewJWTManager(cfg.JWT).IssueAccessToken(claims)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n# expires %s\n", token, expiresAt.Format("2006-01-02 15:04:05 MST"))
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", string(domain.RoleReceptionist), "role claim (admin, doctor, receptionist, patient)")
	cmd.Flags().StringVar(&patientID, "patient-id", "", "patient id claim, required for the patient role")
	return cmd
}

func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.Log, cfg.App)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

type repositories struct {
	consultations consultation.Repository
	doctors       doctor.Repository
	patients      patient.Repository
}

func openStore(cfg *config.Config, log *zap.Logger) (repositories, error) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		store := memory.NewStore()
		if cfg.Store.SeedDemo {
			memory.SeedDemo(store)
			doctors, patients := store.Snapshot()
			for _, d := range doctors {
				log.Info("seeded doctor",
					zap.String("id", d.ID.String()),
					zap.String("name", d.Name),
					zap.String("specialty", string(d.Specialty)),
					zap.Bool("active", d.Active),
				)
			}
			for _, p := range patients {
				log.Info("seeded patient",
					zap.String("id", p.ID.String()),
					zap.String("name", p.Name),
					zap.Bool("active", p.Active),
				)
			}
		}
		return repositories{
			consultations: store.Consultations(),
			doctors:       store.Doctors(),
			patients:      store.Patients(),
		}, nil
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return repositories{}, err
	}
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, log); err != nil {
			return repositories{}, err
		}
	}
	return repositories{
		consultations: postgres.NewConsultationRepository(db),
		doctors:       postgres.NewDoctorRepository(db),
		patients:      postgres.NewPatientRepository(db),
	}, nil
}

func runServer(ctx context.Context) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	tp, err := tracer.Init(ctx, cfg.Tracing, cfg.App.Version)
	if err != nil {
		return err
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	repos, err := openStore(cfg, log)
	if err != nil {
		return err
	}

	loc := cfg.Clinic.Location
	clock := domain.SystemClock()
	collector := metrics.NewCollector("clinicbook", prometheus.DefaultRegisterer)
	svc := service.NewConsultationService(
		repos.consultations,
		repos.patients,
		repos.doctors,
		service.NewDoctorSelector(repos.doctors),
		service.DefaultRules(clock, loc, repos.patients, repos.doctors, repos.consultations),
		clock,
		loc,
		collector,
		log.Named("scheduling"),
	)

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router, err := v1.NewRouter(v1.RouterDeps{
		Consultations: svc,
		JWT:           auth.NewJWTManager(cfg.JWT),
		Metrics:       collector,
		Gatherer:      prometheus.DefaultGatherer,
		Location:      loc,
		Logger:        log.Named("http"),
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting server",
			zap.String("addr", srv.Addr),
			zap.String("store", cfg.Store.Driver),
			zap.String("timezone", loc.String()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	case <-quit:
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
