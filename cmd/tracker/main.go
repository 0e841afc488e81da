// Package main - точка входа консольного трекера успеваемости.
//
// Архитектура следует принципам Clean Architecture:
// - Domain: студенты, журнал оценок, статистика и сообщения
// - Application: команды и запросы, сессия
// - Infrastructure: JSON-документы или PostgreSQL, необязательный кэш Redis
// - Interface: интерактивное меню в терминале
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alem-hub/progress-tracker/config"

	// Application layer
	"github.com/alem-hub/progress-tracker/internal/application/command"
	"github.com/alem-hub/progress-tracker/internal/application/query"
	"github.com/alem-hub/progress-tracker/internal/application/session"

	// Domain layer
	"github.com/alem-hub/progress-tracker/internal/domain/feedback"
	"github.com/alem-hub/progress-tracker/internal/domain/progress"
	"github.com/alem-hub/progress-tracker/internal/domain/student"

	// Infrastructure layer
	"github.com/alem-hub/progress-tracker/internal/infrastructure/persistence/jsonfile"
	"github.com/alem-hub/progress-tracker/internal/infrastructure/persistence/postgres"
	"github.com/alem-hub/progress-tracker/internal/infrastructure/persistence/redis"
	"github.com/alem-hub/progress-tracker/internal/infrastructure/security"

	// Interface layer
	"github.com/alem-hub/progress-tracker/internal/interface/cli"

	// Packages
	"github.com/alem-hub/progress-tracker/pkg/circuitbreaker"
	"github.com/alem-hub/progress-tracker/pkg/logger"
	"github.com/alem-hub/progress-tracker/pkg/retry"
	"github.com/alem-hub/progress-tracker/pkg/timeutil"
	"github.com/alem-hub/progress-tracker/pkg/validate"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	// Ctrl+C и SIGTERM отменяют контекст
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log, closeLog, err := setupLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer closeLog()

	log.Info("starting progress tracker",
		logger.String("env", string(cfg.App.Environment)),
		logger.Backend(cfg.Storage.Backend),
		logger.Bool("cache", cfg.Redis.Enabled),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ХЕШИРОВАНИЕ ПАРОЛЕЙ
	// ─────────────────────────────────────────────────────────────────────────
	hasher, err := security.New(cfg.Security.PasswordHasher)
	if err != nil {
		return err
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ХРАНИЛИЩЕ
	// ─────────────────────────────────────────────────────────────────────────
	store, err := openStorage(ctx, cfg, hasher, log)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer store.close()

	// ─────────────────────────────────────────────────────────────────────────
	// 5. КЭШ (ОПЦИОНАЛЬНО)
	// ─────────────────────────────────────────────────────────────────────────
	var cache feedback.Cache
	if cfg.Redis.Enabled {
		c, err := connectRedis(ctx, cfg, log)
		if err != nil {
			// без кэша всё работает, просто медленнее
			log.Warn("redis unavailable, continuing without cache", logger.Err(err))
		} else {
			defer c.Close()
			breaker := circuitbreaker.CacheBreaker(func(name string, from, to circuitbreaker.State) {
				log.Warn("cache circuit state changed",
					logger.Component(name),
					logger.String("from", from.String()),
					logger.String("to", to.String()),
				)
			})
			cache = redis.NewFeedbackCache(c, cfg.Redis.FeedbackTTL, breaker)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. APPLICATION LAYER
	// ─────────────────────────────────────────────────────────────────────────
	validator := validate.New()
	sess := session.New(store.students, hasher, log)

	handlers := cli.Handlers{
		Register:     command.NewRegisterStudentHandler(store.students, store.logs, hasher, validator, log),
		AddProgress:  command.NewAddProgressHandler(sess, store.logs, cache, timeutil.SystemClock{}, validator, log),
		Progress:     query.NewGetProgressHandler(sess, store.students, store.logs),
		Statistics:   query.NewGetStatisticsHandler(sess, store.students, store.logs, cache, log),
		Feedback:     query.NewGetFeedbackHandler(sess, store.students, store.logs, cache, log),
		ListStudents: query.NewListStudentsHandler(sess, store.students),
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. ИНТЕРАКТИВНОЕ МЕНЮ
	// ─────────────────────────────────────────────────────────────────────────
	app := cli.New(cli.Options{
		In:      os.Stdin,
		Out:     os.Stdout,
		InputFD: int(os.Stdin.Fd()),
	}, sess, handlers, log)

	// чтение stdin не прерывается контекстом, поэтому меню работает в горутине
	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Run(ctx)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("session ended with error", logger.Err(err))
			return err
		}
	case <-ctx.Done():
		fmt.Fprintln(os.Stdout, "\n👋 Goodbye!")
		log.Info("received shutdown signal")
	}

	log.Info("progress tracker stopped")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// WIRING
// ══════════════════════════════════════════════════════════════════════════════

// storage - выбранная реализация хранилищ и функция их закрытия.
type storage struct {
	students student.Repository
	logs     progress.Repository
	close    func()
}

func openStorage(ctx context.Context, cfg *config.Config, hasher student.PasswordHasher, log *logger.Logger) (*storage, error) {
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		return openPostgres(ctx, cfg, hasher, log)
	default:
		return openJSON(cfg, hasher, log)
	}
}

func openJSON(cfg *config.Config, hasher student.PasswordHasher, log *logger.Logger) (*storage, error) {
	students, err := jsonfile.OpenStudentStore(cfg.Storage.StudentsFile, hasher, log)
	if err != nil {
		return nil, err
	}
	logs, err := jsonfile.OpenProgressStore(cfg.Storage.ProgressFile, log)
	if err != nil {
		return nil, err
	}

	log.Debug("json storage ready",
		logger.String("students_file", cfg.Storage.StudentsFile),
		logger.String("progress_file", cfg.Storage.ProgressFile),
		logger.Bool("students_corrupt", students.Corrupt()),
		logger.Bool("progress_corrupt", logs.Corrupt()),
	)

	return &storage{students: students, logs: logs, close: func() {}}, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, hasher student.PasswordHasher, log *logger.Logger) (*storage, error) {
	log = log.With(logger.Backend(config.BackendPostgres))

	started := time.Now()
	conn, err := retry.DoWithData(ctx,
		func(ctx context.Context) (*postgres.Connection, error) {
			return postgres.NewConnection(ctx, postgres.Config{
				URL:      cfg.Database.URL,
				MaxConns: cfg.Database.MaxConns,
			})
		},
		retry.StartupOptions(cfg.Database.ConnectAttempts, cfg.Database.ConnectTimeout, onRetry(log, "postgres"))...,
	)
	if err != nil {
		return nil, err
	}
	log.Info("database connected", logger.Latency(time.Since(started)))

	applied, err := postgres.NewMigrator(conn).Migrate(ctx)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if applied > 0 {
		log.Info("migrations applied", logger.Int("count", applied))
	}

	seeded, err := postgres.SeedIfEmpty(ctx, conn, hasher)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to seed sample data: %w", err)
	}
	if seeded {
		log.Info("seeded sample students")
	}

	return &storage{
		students: postgres.NewStudentRepository(conn),
		logs:     postgres.NewProgressRepository(conn),
		close:    conn.Close,
	}, nil
}

func connectRedis(ctx context.Context, cfg *config.Config, log *logger.Logger) (*redis.Cache, error) {
	rc := redis.DefaultConfig()
	rc.Addr = cfg.Redis.Addr()
	rc.Password = cfg.Redis.Password
	rc.DB = cfg.Redis.DB

	return retry.DoWithData(ctx,
		func(ctx context.Context) (*redis.Cache, error) {
			return redis.NewCache(ctx, rc)
		},
		retry.StartupOptions(cfg.Database.ConnectAttempts, cfg.Database.ConnectTimeout, onRetry(log, "redis"))...,
	)
}

func onRetry(log *logger.Logger, target string) func(int, error, time.Duration) {
	return func(attempt int, err error, delay time.Duration) {
		log.Warn("connection attempt failed",
			logger.Component(target),
			logger.Int("attempt", attempt),
			logger.Duration("retry_in", delay),
			logger.Err(err),
		)
	}
}

// setupLogger пишет в stderr по умолчанию, чтобы не мешать меню в stdout.
func setupLogger(cfg *config.Config) (*logger.Logger, func(), error) {
	var (
		out     io.Writer
		closeFn = func() {}
	)

	switch cfg.Observability.LogOutput {
	case "", "stderr":
		out = os.Stderr
	case "stdout":
		out = os.Stdout
	default:
		f, err := os.OpenFile(cfg.Observability.LogOutput, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		out = f
		closeFn = func() { _ = f.Close() }
	}

	return logger.New(logger.Options{
		Output:    out,
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		AddCaller: cfg.IsDevelopment(),
	}), closeFn, nil
}
