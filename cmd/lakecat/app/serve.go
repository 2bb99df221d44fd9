package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	v1 "github.com/datapond/lakecat/cmd/lakecat/api/v1"
	"github.com/datapond/lakecat/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve <uri>...",
	Short: "Serve a catalog over HTTP",
	Long: `Serve the catalog built from the given observables over the catalog
server protocol:

  GET /v1/info     catalog name plus one option map per entry
  GET /v1/source   a single entry descriptor, by name

A served catalog can itself back a remote catalog in another process.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runServe,
}

const (
	defaultGracefulTimeout = 30 * time.Second
	serverReadTimeout      = 10 * time.Second
	serverWriteTimeout     = 15 * time.Second
	serverIdleTimeout      = 60 * time.Second
)

func init() {
	serveCmd.Flags().String("address", ":8080", "Address to listen on")
	serveCmd.Flags().Duration("ttl", time.Second, "Staleness TTL for the served catalog")
	serveCmd.Flags().String("name", "", "Name override for the served catalog")

	if err := viper.BindPFlag("address", serveCmd.Flags().Lookup("address")); err != nil {
		logger.Fatalf("Failed to bind address flag: %v", err)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	address := viper.GetString("address")

	cat, err := buildCatalog(cmd, args)
	if err != nil {
		return err
	}
	logger.Infof("Serving catalog %q on %s", cat.Name(), address)

	handler := v1.NewServer(cat, v1.WithMiddlewares(v1.LoggingMiddleware))
	server := &http.Server{
		Addr:         address,
		Handler:      handler,
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
		IdleTimeout:  serverIdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		logger.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultGracefulTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
