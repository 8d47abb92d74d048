package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/AnshRaj112/bellaciao-guestbook/internal/handlers"
	"github.com/AnshRaj112/bellaciao-guestbook/internal/routes"
	"github.com/AnshRaj112/bellaciao-guestbook/internal/services"
	"github.com/AnshRaj112/bellaciao-guestbook/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing := telemetry.Setup(serviceName)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("Failed to flush traces")
		}
	}()

	if !cfg.HasAdminSecret() {
		log.Warn().Msg("ADMIN_PASS is not set, admin login is disabled")
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	redisClient := openRedis(cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}

	feed := services.NewEntryFeed(redisClient)
	feed.Start(ctx)

	entryService := services.NewEntryService(store, feed, services.EntryServiceOptions{
		Location:         cfg.Location,
		DefaultPageLimit: cfg.DefaultPageLimit,
		MaxPageLimit:     cfg.MaxPageLimit,
	})
	auth := services.NewAdminAuth(cfg.AdminPass, cfg.AdminPassHash, cfg.IsProduction())

	router := routes.New(routes.Deps{
		Config:  cfg,
		Handler: handlers.New(entryService, auth, feed, cfg.ExportPrefix, cfg.AllowedOrigins),
		Session: auth,
		Redis:   redisClient,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(router, serviceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("Guestbook backend running")
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

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
