// backend/main.go
package main

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

	"github.com/aTrapDeer/portfolio-backend/internal/api"
	"github.com/aTrapDeer/portfolio-backend/internal/auth"
	"github.com/aTrapDeer/portfolio-backend/internal/config"
	"github.com/aTrapDeer/portfolio-backend/internal/revalidate"
	"github.com/aTrapDeer/portfolio-backend/internal/storage"
	"github.com/aTrapDeer/portfolio-backend/internal/uploads"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func Run(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, err := storage.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	if _, err := storage.EnsureAdmin(ctx, store, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	if n, err := store.CountUsers(ctx); err == nil && n == 0 {
		log.Println("No dashboard user exists, set ADMIN_PASSWORD to create one")
	}
	if cfg.SeedFile != "" {
		if err := storage.LoadFixtures(ctx, store, cfg.SeedFile); err != nil {
			return fmt.Errorf("failed to load fixtures: %w", err)
		}
	}

	provider, err := uploads.NewProvider(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize uploads: %w", err)
	}
	var uploadDir string
	if local, ok := provider.(*uploads.LocalProvider); ok {
		uploadDir = local.Root
	}

	var notifier revalidate.Notifier = revalidate.Nop{}
	var client *revalidate.Client
	if cfg.RevalidationURL != "" {
		client = revalidate.New(cfg.RevalidationURL, cfg.RevalidationSecret)
		notifier = client
	} else {
		log.Println("REVALIDATION_URL is not set")
	}

	sessions := auth.NewManager(store.Sessions(), cfg.SessionTTL)
	server := api.NewServer(api.Options{
		Store:     store,
		Sessions:  sessions,
		Uploader:  uploads.NewUploader(provider, cfg.MaxUploadMB<<20),
		UploadDir: uploadDir,
		Notifier:  notifier,
		Origins:   cfg.AllowedOrigins(),
	})

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	sweeperDone := sessions.StartSweeper(workerCtx, cfg.SessionSweepInterval)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Golang backend running on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		log.Println("Shutting down server...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	<-sweeperDone
	if client != nil {
		client.Wait()
	}

	log.Println("Server exiting")
	return nil
}
