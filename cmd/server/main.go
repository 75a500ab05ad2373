// Package main initializes and starts the task board HTTP server, setting
// up configuration, logging, the record store, services, handlers and
// graceful shutdown.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	nethttp "net/http"

	"github.com/atinyakov/taskboard/internal/auth"
	"github.com/atinyakov/taskboard/internal/config"
	"github.com/atinyakov/taskboard/internal/db"
	"github.com/atinyakov/taskboard/internal/logger"
	"github.com/atinyakov/taskboard/internal/media"
	"github.com/atinyakov/taskboard/internal/middleware"
	"github.com/atinyakov/taskboard/internal/repository"
	"github.com/atinyakov/taskboard/internal/repository/memstore"
	"github.com/atinyakov/taskboard/internal/server/handler/http"
	"github.com/atinyakov/taskboard/internal/service"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

// recordStore bundles the repositories the services are built on.
type recordStore struct {
	users      service.UserRepository
	profiles   service.ProfileRepository
	categories service.CategoryRepository
	tasks      service.TaskRepository
	// ping is nil for the in-process store.
	ping  http.Pinger
	close func() error
}

func openStore(dsn string) (*recordStore, error) {
	if dsn == "" {
		mem := memstore.New()
		return &recordStore{
			users:      mem.Users(),
			profiles:   mem.Profiles(),
			categories: mem.Categories(),
			tasks:      mem.Tasks(),
			close:      func() error { return nil },
		}, nil
	}

	postgresDB, err := db.InitPostgres(dsn)
	if err != nil {
		return nil, err
	}
	return &recordStore{
		users:      repository.NewPostgresUserRepository(postgresDB),
		profiles:   repository.NewPostgresProfileRepository(postgresDB),
		categories: repository.NewPostgresCategoryRepository(postgresDB),
		tasks:      repository.NewPostgresTaskRepository(postgresDB),
		ping:       postgresDB,
		close:      postgresDB.Close,
	}, nil
}

func main() {
	// Parse command-line, config file and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	zapLogger := log.Log

	if err := run(options, zapLogger); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}

func run(options *config.Options, zapLogger *zap.Logger) error {
	store, err := openStore(options.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("cannot init record store: %w", err)
	}
	defer func() { _ = store.close() }()
	if options.DatabaseDSN == "" {
		zapLogger.Warn("no database configured, records are kept in memory")
	}

	avatars := media.NewStore(options.MediaRoot)

	// Initialize business-logic services.
	userService := service.NewUserService(store.users)
	profileService := service.NewProfileService(store.profiles, avatars)
	categoryService := service.NewCategoryService(store.categories)
	taskService := service.NewTaskService(store.tasks, store.categories, store.users)

	// Create HTTP handlers and build the router.
	handlers := http.Handlers{
		Users:      &http.UserHandler{Service: userService, Log: zapLogger},
		Profiles:   &http.ProfileHandler{Service: profileService, MediaURL: options.MediaURL, Log: zapLogger},
		Categories: &http.CategoryHandler{Service: categoryService, Log: zapLogger},
		Tasks:      &http.TaskHandler{Service: taskService, Log: zapLogger},
		Media:      avatars.Handler(),
		MediaURL:   options.MediaURL,
		Store:      store.ping,
	}
	bearer := middleware.BearerAuth(auth.NewTokens(options.JWTSecret), store.users)
	router := http.NewRouter(handlers, bearer, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Port,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zapLogger.Info("shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), options.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
