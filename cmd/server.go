/*
Copyright 2025 Tandem Payments Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/tandempay/hubgov/api"
	"github.com/tandempay/hubgov/config"
)

func initializeRouter(b *hubgovInstance) *gin.Engine {
	return api.NewAPI(b.gov).Router()
}

// startServer serves the API and shuts down cleanly on SIGINT or SIGTERM,
// giving in-flight requests a grace period to finish.
func startServer(router *gin.Engine, cfg config.ServerConfig) error {
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on http://localhost:%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Printf("Received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}

// serverCommands returns the command that bootstraps the hub participant and
// starts the governance API server.
func serverCommands(b *hubgovInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "start hubgov server",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			// The hub participant and its ledger accounts must exist before
			// any settlement or funds movement can be applied.
			if err := b.gov.Bootstrap(ctx); err != nil {
				log.Fatalf("hub bootstrap failed: %v", err)
			}

			router := initializeRouter(b)

			cfg, err := config.Fetch()
			if err != nil {
				log.Fatal(err)
			}

			if err := startServer(router, cfg.Server); err != nil {
				log.Fatal(err)
			}
		},
	}

	return cmd
}
