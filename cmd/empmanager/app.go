package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/example/empmanager/internal/access"
	"github.com/example/empmanager/internal/application"
	"github.com/example/empmanager/internal/config"
	"github.com/example/empmanager/internal/directory"
	"github.com/example/empmanager/internal/export"
	"github.com/example/empmanager/internal/logging"
	"github.com/example/empmanager/internal/metrics"
	"github.com/example/empmanager/internal/persistence"
	"github.com/example/empmanager/internal/persistence/memory"
	"github.com/example/empmanager/internal/persistence/sqlite"
)

type appOptions struct {
	logOutput io.Writer
	now       func() time.Time
	// Zero means directory.DefaultArgon2idParams.
	passwordParams directory.Argon2idParams
}

// app wires one store to the services of a single session.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	store   persistence.Store
	policy  *access.Policy
	metrics *metrics.Recorder

	employees   *application.EmployeeService
	departments *application.DepartmentService
	attendance  *application.AttendanceService
	dashboard   *application.DashboardService
	session     *application.SessionService
	directory   *directory.Directory
	exporter    *export.Exporter
}

func newApp(ctx context.Context, cfg config.Config, opts appOptions) (*app, error) {
	if opts.logOutput == nil {
		opts.logOutput = os.Stderr
	}
	if opts.now == nil {
		opts.now = time.Now
	}
	if opts.passwordParams == (directory.Argon2idParams{}) {
		opts.passwordParams = directory.DefaultArgon2idParams
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, opts.logOutput)
	if err != nil {
		return nil, err
	}
	logger = logger.With("app", appName)

	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Seed {
		if err := persistence.Seed(ctx, store); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("seed store: %w", err)
		}
	}

	recorder, err := metrics.New()
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	idGenerator := uuid.NewString
	workday := application.Workday{Start: cfg.WorkdayStartMinutes, Location: cfg.Location}

	dir := directory.New(opts.passwordParams, idGenerator, logger)
	if cfg.DemoAccounts {
		if dir, err = dir.WithDemoAccounts(); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("demo accounts: %w", err)
		}
	}

	policy := access.DefaultPolicy()
	a := &app{
		cfg:         cfg,
		logger:      logger,
		store:       store,
		policy:      policy,
		metrics:     recorder,
		employees:   application.NewEmployeeServiceWithLogger(store, idGenerator, logger).UseMetrics(recorder),
		departments: application.NewDepartmentServiceWithLogger(store, store, idGenerator, logger).UseMetrics(recorder),
		attendance:  application.NewAttendanceServiceWithLogger(store, store, workday, idGenerator, opts.now, logger).UseMetrics(recorder),
		dashboard:   application.NewDashboardServiceWithLogger(store, store, store, logger).UseMetrics(recorder),
		session:     application.NewSessionServiceWithLogger(dir, dir, logger).UseMetrics(recorder),
		directory:   dir,
		exporter:    export.New(policy),
	}

	logger.InfoContext(ctx, "store ready",
		"backend", cfg.StoreBackend,
		"seeded", cfg.Seed,
		"demo_accounts", cfg.DemoAccounts,
	)
	return a, nil
}

func openStore(ctx context.Context, cfg config.Config) (persistence.Store, error) {
	switch cfg.StoreBackend {
	case config.StoreSQLite:
		store, err := sqlite.Open(cfg.SQLiteDSN)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("migrate sqlite store: %w", err)
		}
		return store, nil
	case config.StoreMemory, "":
		return memory.New(), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

// Close releases the store; its contents are gone afterwards.
func (a *app) Close() error {
	if err := a.store.Close(); err != nil {
		a.logger.Error("failed to close store", "error", err)
		return err
	}
	return nil
}

// exportTo writes the workbook of kind as seen by role.
func (a *app) exportTo(ctx context.Context, w io.Writer, role access.Role, kind string) error {
	employees, err := a.store.ListEmployees(ctx)
	if err != nil {
		return err
	}
	switch kind {
	case "employees":
		return a.exporter.Employees(w, role, employees)
	case "attendance":
		records, err := a.store.ListAttendance(ctx)
		if err != nil {
			return err
		}
		return a.exporter.Attendance(w, role, records, employees)
	}
	return fmt.Errorf("unknown export %q", kind)
}

// exportFile writes the workbook to path, removing the file on failure.
func (a *app) exportFile(ctx context.Context, role access.Role, kind, path string) (err error) {
	if kind != "employees" && kind != "attendance" {
		return fmt.Errorf("unknown export %q (want employees or attendance)", kind)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if err = a.exportTo(ctx, f, role, kind); err != nil {
		return err
	}
	a.logger.InfoContext(ctx, "export written", "kind", kind, "path", path, "role", role)
	return nil
}

func isDenied(err error) bool {
	return errors.Is(err, access.ErrAccessDenied)
}
