package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/emeralddgc/disc-tracker/internal/app/server"
	"github.com/emeralddgc/disc-tracker/internal/app/service"
	"github.com/emeralddgc/disc-tracker/internal/config"
	"github.com/emeralddgc/disc-tracker/internal/logger"
	"github.com/emeralddgc/disc-tracker/internal/repository"
	"github.com/emeralddgc/disc-tracker/internal/retention"
	"github.com/emeralddgc/disc-tracker/internal/storage"
	"github.com/emeralddgc/disc-tracker/internal/worker"

	_ "net/http/pprof"
)

var buildVersion string
var buildDate string
var buildCommit string

func main() {
	options := config.Parse()

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)

	log := logger.New()
	defer func() {
		_ = log.Log.Sync()
	}()

	if err := log.Init("Info"); err != nil {
		panic(err)
	}
	zapLogger := log.Log

	if options.EnablePprof {
		go func() {
			zapLogger.Info("Starting pprof server", zap.String("addr", "localhost:6060"))
			if err := http.ListenAndServe("localhost:6060", nil); err != nil {
				zapLogger.Error("pprof server error", zap.Error(err))
			}
		}()
	}

	var s service.Storage

	if options.DatabaseDSN != "" {
		zapLogger.Info("using postgres", zap.String("dsn", options.DatabaseDSN))
		db := repository.InitDB(options.DatabaseDSN, zapLogger)
		s = repository.CreateDiscRepository(db, zapLogger)
		zapLogger.Info("Database connected and table ready.")
	} else if options.SQLiteFile != "" {
		zapLogger.Info("using sqlite", zap.String("file", options.SQLiteFile))

		sqlite, err := storage.NewSQLiteStorage(options.SQLiteFile, zapLogger)
		if err != nil {
			panic(err)
		}
		s = sqlite
	} else {
		zapLogger.Info("using in memory storage")

		mem, err := storage.CreateMemoryStorage()
		if err != nil {
			panic(err)
		}
		s = mem
	}
	defer s.Close()

	policy := retention.New(options.RetentionMode, options.RetentionDays)
	discService := service.NewDisc(s, policy, zapLogger)
	auth := service.NewAuth(options.AdminUsername, options.AdminPassword)

	r := server.Init(discService, auth, options.TrustedSubnet, zapLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sweeper := worker.NewRetentionWorker(options.SweepInterval, zapLogger, discService)
	go sweeper.Run(ctx)

	srv := &http.Server{
		Addr:    options.Address,
		Handler: r,
	}

	if options.EnableHTTPS {
		manager := &autocert.Manager{
			Cache:      autocert.DirCache("cache-dir"),
			Prompt:     autocert.AcceptTOS,
			HostPolicy: autocert.HostWhitelist("discs.emeralddgc.com", "www.discs.emeralddgc.com"),
		}
		srv.Addr = ":443"
		srv.TLSConfig = manager.TLSConfig()
	}

	go func() {
		zapLogger.Info("Server is running",
			zap.String("address", srv.Addr),
			zap.String("retentionMode", string(policy.Mode)),
		)

		var err error
		if options.EnableHTTPS {
			err = srv.ListenAndServeTLS("", "")
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zapLogger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("shutdown error", zap.Error(err))
	}
}
