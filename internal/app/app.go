package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avstrong/hotelier/internal/hotel"
	"github.com/avstrong/hotelier/internal/idgen/uuidgen"
	"github.com/avstrong/hotelier/internal/logger"
	"github.com/avstrong/hotelier/internal/migration"
	"github.com/avstrong/hotelier/internal/payment/simulated"
	"github.com/avstrong/hotelier/internal/storage/gormdb"
	"github.com/avstrong/hotelier/internal/storage/memory"
	"github.com/avstrong/hotelier/internal/transport/web"
)

// dbPathEnv selects the SQLite file; empty keeps everything in memory.
const dbPathEnv = "HOTELIER_DB"

func newStorage(ctx context.Context, l *logger.Logger) (hotel.Storage, error) {
	path := os.Getenv(dbPathEnv)
	if path == "" {
		l.LogInfo("No %v set, using in-memory storage", dbPathEnv)

		return memory.New(memory.Config{L: l}), nil
	}

	storage, err := gormdb.Open(ctx, gormdb.Config{L: l, Path: path})
	if err != nil {
		return nil, fmt.Errorf("open sqlite storage at %v: %w", path, err)
	}

	l.LogInfo("Using sqlite storage at %v", path)

	return storage, nil
}

func Run(l *logger.Logger) error {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGHUP,
	)
	defer cancel()

	storage, err := newStorage(ctx, l)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	idGen := uuidgen.New()

	if err := migration.Up(ctx, l, storage, idGen); err != nil {
		return fmt.Errorf("up seed migration: %w", err)
	}

	l.LogInfo("Seed migration has been applied")

	gateway := simulated.New(simulated.Config{L: l}) //nolint:exhaustruct
	manager := hotel.New(l, storage, idGen, gateway)

	webConf := web.Conf{
		L:                 l,
		ServerLogger:      log.Default(),
		Host:              "localhost",
		Port:              "8092",
		ReadHeaderTimeout: 20, //nolint:gomnd
		LivenessEndpoint:  "/liveness",
	}

	srv, err := web.New(ctx, webConf, manager)
	if err != nil {
		return fmt.Errorf("init http server: %w", err)
	}

	//nolint:contextcheck
	go func() {
		<-ctx.Done()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*4) //nolint:gomnd
		defer cancel()

		if err := srv.Srv().Shutdown(ctx); err != nil {
			l.LogErrorf("Failed to stop http server: %v", err.Error())
		}
	}()

	l.LogInfo("Application is running on %v:%v...", webConf.Host, webConf.Port)

	if err := srv.Srv().ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		l.LogErrorf("Failed to run http server: %v", err.Error())

		cancel()
	}

	l.LogInfo("Application stopped gracefully")

	return nil
}
