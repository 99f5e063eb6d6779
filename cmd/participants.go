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
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/tandempay/hubgov/database"
)

// participantCommands is an operator shortcut that reads the participant
// store directly, bypassing the API's token auth. Useful on a box with
// database access when the API is down.
func participantCommands(b *hubgovInstance) *cobra.Command {
	var name string
	var state string

	cmd := &cobra.Command{
		Use:   "participants",
		Short: "list participants from the store",
		Run: func(cmd *cobra.Command, args []string) {
			repo, err := database.NewMongoRepository(b.cnf)
			if err != nil {
				log.Fatalf("Error getting participant store: %v", err)
			}

			participants, err := repo.SearchParticipants(context.Background(), "", name, state)
			if err != nil {
				log.Fatalf("Error listing participants: %v", err)
			}

			for _, p := range participants {
				line, err := json.Marshal(map[string]interface{}{
					"id":        p.ID,
					"name":      p.Name,
					"type":      p.Type,
					"approved":  p.Approved,
					"is_active": p.IsActive,
					"version":   p.Version,
				})
				if err != nil {
					log.Fatalf("Error printing participant: %v", err)
				}
				fmt.Println(string(line))
			}
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "filter by name substring")
	cmd.Flags().StringVar(&state, "state", "", "filter by state (ACTIVE or INACTIVE)")

	return cmd
}
