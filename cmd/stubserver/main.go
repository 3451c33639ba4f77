package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"

	"travelex/internal/stubserver/api"
	"travelex/internal/stubserver/blob"
	"travelex/internal/stubserver/config"
	"travelex/internal/stubserver/migration"
	"travelex/internal/stubserver/storage"
	"travelex/internal/utils/logger"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)

	if err := run(cfg, log); err != nil {
		log.Error("stub server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	if err := migration.New(cfg, migration.DefaultEngine).Up(); err != nil {
		return err
	}

	store, err := newStore(cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := ensureAdmin(cfg, store); err != nil {
		return err
	}

	blobs, err := newBlobStore(cfg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    cfg.Server.RunAddress,
		Handler: api.New(cfg, store, blobs, log),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("stub server listening", "address", cfg.Server.RunAddress, "driver", cfg.DB.Driver)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func newStore(cfg *config.Config, log *slog.Logger) (storage.Store, error) {
	switch cfg.DB.Driver {
	case "postgres":
		return storage.NewPostgres(context.Background(), cfg.DB.DatabaseURI, log)
	default:
		return storage.NewSQLite(cfg.DB.DatabaseURI, log)
	}
}

func newBlobStore(cfg *config.Config) (blob.Store, error) {
	switch cfg.Blob.Store {
	case "s3":
		return blob.NewS3(context.Background(), blob.S3Options{
			Region:    cfg.Blob.S3.Region,
			Endpoint:  cfg.Blob.S3.Endpoint,
			Bucket:    cfg.Blob.S3.Bucket,
			AccessKey: cfg.Blob.S3.AccessKey,
			SecretKey: cfg.Blob.S3.SecretKey,
		})
	default:
		return blob.NewLocal(cfg.Blob.LocalDir)
	}
}

// ensureAdmin seeds the operator account on first start.
func ensureAdmin(cfg *config.Config, store storage.Store) error {
	ctx := context.Background()

	_, err := store.GetUserByLogin(ctx, cfg.Auth.AdminLogin)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Auth.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = store.CreateUser(ctx, cfg.Auth.AdminLogin, string(hash), "")
	return err
}
