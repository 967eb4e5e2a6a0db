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

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/shiftpay-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/shiftpay-backend-go/internal/service/attendance"
	notificationService "github.com/cmlabs-hris/shiftpay-backend-go/internal/service/notification"
	payrollService "github.com/cmlabs-hris/shiftpay-backend-go/internal/service/payroll"
	registrationService "github.com/cmlabs-hris/shiftpay-backend-go/internal/service/registration"
	salaryGoalService "github.com/cmlabs-hris/shiftpay-backend-go/internal/service/salarygoal"
	violationService "github.com/cmlabs-hris/shiftpay-backend-go/internal/service/violation"
)

const (
	appName    = "shiftpay"
	appVersion = "v1.0.0"

	shutdownTimeout = 15 * time.Second
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := appHTTP.NewLogger(os.Stdout, cfg.SlogLevel(), appName, appVersion, cfg.App.Env)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	clk := clock.New(cfg.UTCOffset())

	txManager := postgresql.NewTxManager(db)
	branchRepo := postgresql.NewBranchRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	registrationRepo := postgresql.NewRegistrationRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	violationRepo := postgresql.NewViolationRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	salaryGoalRepo := postgresql.NewSalaryGoalRepository(db)

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		return fmt.Errorf("error creating jwt service: %w", err)
	}

	hub := sse.NewHub()
	notifService := notificationService.NewNotificationService(notificationRepo, hub, notificationService.Config{
		BatchSize:     cfg.Notification.BatchSize,
		FlushInterval: cfg.Notification.FlushInterval,
		WorkerCount:   cfg.Notification.WorkerCount,
		QueueSize:     cfg.Notification.QueueSize,
	})

	registrationSvc := registrationService.NewRegistrationService(txManager, registrationRepo, shiftRepo, employeeRepo, notifService, clk)
	attendanceSvc := attendanceService.NewAttendanceService(txManager, attendanceRepo, registrationRepo, shiftRepo, branchRepo, employeeRepo, clk)
	violationSvc := violationService.NewViolationService(violationRepo, employeeRepo, shiftRepo, notifService, clk)
	payrollSvc := payrollService.NewPayrollService(txManager, payrollRepo, attendanceRepo, employeeRepo, violationSvc, notifService, clk, cfg.Payroll)
	salaryGoalSvc := salaryGoalService.NewSalaryGoalService(salaryGoalRepo, employeeRepo, attendanceRepo, payrollRepo, clk, cfg.Payroll)

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		Logger:         logger,
		LogLevel:       cfg.SlogLevel(),
		AllowedOrigins: cfg.App.AllowedOrigins,
	}, JWTService, appHTTP.Handlers{
		Registration: appHTTP.NewRegistrationHandler(registrationSvc),
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc),
		Payroll:      appHTTP.NewPayrollHandler(payrollSvc),
		Violation:    appHTTP.NewViolationHandler(violationSvc),
		Notification: appHTTP.NewNotificationHandler(notifService, JWTService),
		SalaryGoal:   appHTTP.NewSalaryGoalHandler(salaryGoalSvc),
	})

	scheduler := cron.NewScheduler(ctx)
	cron.NewAttendanceJobs(registrationRepo, attendanceRepo, notifService, clk).RegisterJobs(scheduler)
	scheduler.Start()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	// Open SSE streams end when the hub closes; Shutdown would wait on them otherwise.
	server.RegisterOnShutdown(hub.Close)

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server running", "addr", server.Addr, "utc_offset", cfg.App.UTCOffset)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			scheduler.Stop()
			notifService.Stop()
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	// Flushes queued notifications while the pool is still open.
	notifService.Stop()

	slog.Info("server stopped")
	return nil
}
