package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/config"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/worker"
	appHTTP "github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/repository/blob"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/timeclock-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/timeclock-backend-go/internal/service/auth"
)

const version = "v1.0.0"

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := appHTTP.NewLogger(os.Stdout, cfg.SlogLevel(), version, cfg.App.Env)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	normalizer, err := attendance.NewTimeNormalizer(cfg.Attendance.Timezone)
	if err != nil {
		return err
	}

	workers, err := worker.ParseCredentials(cfg.Workers.Credentials)
	if err != nil {
		return fmt.Errorf("invalid WORKER_CREDENTIALS: %w", err)
	}

	var blobStore storage.BlobStore
	switch cfg.Storage.Type {
	case config.StoreTypeMemory:
		blobStore = storage.NewMemoryStorage()
	default:
		blobStore, err = storage.NewLocalStorage(cfg.Storage.BasePath)
		if err != nil {
			return fmt.Errorf("failed to initialize local storage: %w", err)
		}
	}

	var store attendance.EventStore
	switch cfg.Storage.Type {
	case config.StoreTypePostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return fmt.Errorf("error connecting to database: %w", err)
		}
		defer db.Close()

		if err := postgresql.EnsureSchema(ctx, db); err != nil {
			return err
		}
		store = postgresql.NewLedgerRepository(db, normalizer)
	case config.StoreTypeBlob:
		store = blob.NewLedgerStore(blobStore, normalizer)
	case config.StoreTypeMemory:
		store = memory.NewLedgerStore()
	default:
		return fmt.Errorf("unsupported store type: %s", cfg.Storage.Type)
	}

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		return fmt.Errorf("invalid JWT configuration: %w", err)
	}

	policy := attendance.Policy{
		EntryDeadline:   cfg.Attendance.EntryDeadlineHour,
		ExitDeadline:    cfg.Attendance.ExitDeadlineHour,
		AllowReregister: cfg.Attendance.AllowReregister,
	}
	attendanceSvc := attendanceService.NewAttendanceService(store, workers, blobStore, normalizer, attendance.SystemClock{}, policy)
	authSvc := serviceAuth.NewAuthService(workers, JWTService)

	scheduler := cron.NewScheduler(logger)
	cron.NewAttendanceJobs(attendanceSvc).RegisterJobs(scheduler, cfg.Attendance.ExportInterval)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{AllowedOrigins: cfg.App.CORSAllowedOrigins, Logger: logger},
		JWTService,
		appHTTP.Handlers{
			Auth:       appHTTP.NewAuthHandler(authSvc),
			Worker:     appHTTP.NewWorkerHandler(workers),
			Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
			Report:     appHTTP.NewReportHandler(attendanceSvc, normalizer),
		},
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running",
			"addr", server.Addr,
			"store", cfg.Storage.Type,
			"timezone", cfg.Attendance.Timezone,
			"workers", len(workers.List()),
		)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
