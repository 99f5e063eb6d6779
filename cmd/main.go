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
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tandempay/hubgov"
	"github.com/tandempay/hubgov/auth"
	"github.com/tandempay/hubgov/config"
	"github.com/tandempay/hubgov/database"
	"github.com/tandempay/hubgov/internal/notification"
	"github.com/tandempay/hubgov/ledger"
)

// CLI is the root cobra command for the hubgov binary.
type CLI struct {
	cmd *cobra.Command
}

// hubgovInstance carries the initialized aggregate and configuration into
// the subcommands.
type hubgovInstance struct {
	gov *hubgov.Hubgov
	cnf *config.Configuration
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads the configuration and wires the governance aggregate before
// any subcommand executes.
func preRun(app *hubgovInstance, configFile *string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := config.InitConfig(*configFile); err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		gov, err := setupHubgov(cnf)
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		app.gov = gov
		app.cnf = cnf
		return nil
	}
}

// setupHubgov builds the aggregate from configuration: mongo-backed
// participant store, ledger HTTP client and the role registry.
func setupHubgov(cfg *config.Configuration) (*hubgov.Hubgov, error) {
	repo, err := database.NewMongoRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("error getting participant store: %v", err)
	}

	ledgerClient := ledger.NewClient(cfg.Ledger.Url, cfg.Ledger.ServiceToken,
		time.Duration(cfg.Ledger.Timeout)*time.Second)
	// Ledger calls run under the hub's service identity; a config reload
	// rotates the token without a restart.
	config.OnChange(func(c *config.Configuration) {
		ledgerClient.SetToken(c.Ledger.ServiceToken)
	})

	gov, err := hubgov.NewHubgov(repo, ledgerClient, auth.NewRegistry(cfg.Auth.Roles))
	if err != nil {
		return nil, fmt.Errorf("error creating hubgov: %v", err)
	}
	return gov, nil
}

// NewCLI assembles the root command and its subcommands.
func NewCLI() *CLI {
	var configFile string
	b := &hubgovInstance{}

	var rootCmd = &cobra.Command{
		Use:   "hubgov",
		Short: "Settlement hub participant governance",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./hubgov.json", "Configuration file for hubgov")
	rootCmd.PersistentPreRunE = preRun(b, &configFile)

	rootCmd.AddCommand(serverCommands(b))
	rootCmd.AddCommand(workerCommands(b))
	rootCmd.AddCommand(bootstrapCommands(b))
	rootCmd.AddCommand(participantCommands(b))
	rootCmd.AddCommand(configCommands())

	return &CLI{cmd: rootCmd}
}

func (w CLI) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
