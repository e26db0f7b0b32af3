package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/aretw0/tendril"
	httpAdapter "github.com/aretw0/tendril/internal/adapters/http"
	"github.com/aretw0/tendril/internal/config"
	"github.com/aretw0/tendril/internal/logging"
	"github.com/aretw0/tendril/pkg/adapters/yamlscene"
	"github.com/aretw0/tendril/pkg/observability"
	"github.com/aretw0/tendril/pkg/runner"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Starts the engine in server mode, exposing the message protocol over HTTP along with health and metrics endpoints.`,
	Run: func(cmd *cobra.Command, args []string) {
		scenePath, _ := cmd.Flags().GetString("scene")
		addr, _ := cmd.Flags().GetString("addr")

		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("Error loading configuration: %v\n", err)
			os.Exit(1)
		}
		if !cmd.Flags().Changed("addr") {
			addr = cfg.HTTPAddr
		}
		logger := logging.New(cfg.Level())

		scene, vars, err := yamlscene.Load(scenePath)
		if err != nil {
			fmt.Printf("Error loading scene: %v\n", err)
			os.Exit(1)
		}

		backend, closeBackend, err := cfg.Backend()
		if err != nil {
			fmt.Printf("Error initializing storage: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			if err := closeBackend(); err != nil {
				logger.Error("failed to close storage backend", "err", err)
			}
		}()

		metrics := observability.New(prometheus.DefaultRegisterer)
		engine := tendril.New(scene, vars,
			tendril.WithLogger(logger),
			tendril.WithStorageBackend(backend),
			tendril.WithMetrics(metrics),
		)
		dispatcher := runner.NewDispatcher(engine, logger)
		handler := httpAdapter.NewHandler(dispatcher, logger)

		srv := &http.Server{
			Addr:    addr,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Tendril Server on %s\n", srv.Addr)
			fmt.Printf("Serving scene: %s\n", scenePath)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Tendril Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", ":8080", "Address to listen on")
}
