package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/rpupo63/research-project-pages/api"
	"github.com/rpupo63/research-project-pages/auth"
	"github.com/rpupo63/research-project-pages/config"
	"github.com/rpupo63/research-project-pages/database"
	"github.com/rpupo63/research-project-pages/models"
	"github.com/rpupo63/research-project-pages/storage"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Exiting")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(cfg)
	log.Info().Str("dbType", cfg.DBType).Msg("Initializing app...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.NeedsSSM() {
		client, err := config.NewSSMClient(ctx, cfg.S3Region)
		if err != nil {
			return err
		}
		if err := cfg.ResolveSecrets(ctx, client); err != nil {
			return err
		}
	}

	db, err := database.Open(cfg)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}

	// If generating models, run generation and exit
	if cfg.GenerateModels {
		log.Info().Msg("Generating models and query helpers...")
		return models.GenerateModels(db, cfg.GeneratedOutPath)
	}

	// If generating column mismatch report, run report and exit
	if cfg.GenerateColumnReport {
		log.Info().Msg("Generating column mismatch report...")
		_, err := models.ColumnMismatchReport(db)
		return err
	}

	currentDB := database.New(db)
	defer currentDB.Close()

	if err := currentDB.Migrate(); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	if err := currentDB.EnsureAdmin(cfg.AdminEmail, cfg.AdminName, cfg.AdminPassword); err != nil {
		return err
	}

	var uploader storage.Uploader
	if cfg.UploadsEnabled() {
		client, err := storage.NewS3Client(ctx, cfg)
		if err != nil {
			return err
		}
		uploader = storage.NewS3Uploader(client, cfg)
		log.Info().Str("bucket", cfg.S3Bucket).Msg("File uploads enabled")
	}

	server, err := api.NewServer(cfg, currentDB, auth.New(cfg.SessionSecret, cfg.SecureCookies), uploader)
	if err != nil {
		return fmt.Errorf("initializing server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		errChannel := make(chan error, 1)
		go server.Start(errChannel)
		select {
		case err := <-errChannel:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-gctx.Done():
			return nil
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Closing server")
		return server.ShutdownGracefully(30 * time.Second)
	})
	return g.Wait()
}

// setupLogging applies LOG_LEVEL and switches to colored console output when LOG_FORMAT=console
func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
