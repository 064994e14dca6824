package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/debatify/go/internal/timer/publisher"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	config, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogging(config)

	if err := run(config); err != nil {
		log.Fatal().Err(err).Msg("debatify exited")
	}
}

func setupLogging(config *Config) {
	if config.Log.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	level, err := zerolog.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

func run(config *Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *Database
	if config.needsDatabase() {
		var err error
		if db, err = setupDatabase(ctx, config.Database); err != nil {
			return err
		}
		defer db.Close()
	}

	var nc *nats.Conn
	if config.NATS.URL != "" {
		var err error
		if nc, err = publisher.Connect(config.NATS.URL); err != nil {
			return err
		}
		defer nc.Drain()
	}

	store, err := setupStore(ctx, config, db, nc)
	if err != nil {
		return err
	}

	services := setupServices(config, store, db, nc)
	defer services.Timer.Close()

	go services.Connections.Start(ctx)
	if services.Publisher != nil {
		go services.Publisher.Run(ctx, services.Timer)
	}

	server := setupServer(config, services)
	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Str("timer_store", config.Timer.Store).
			Bool("debates", services.Debates != nil).
			Msg("debatify listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
