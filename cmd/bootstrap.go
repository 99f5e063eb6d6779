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
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

// bootstrapCommands provisions the reserved hub participant and its
// reconciliation accounts without starting the server. Safe to run
// repeatedly; an existing hub participant is left untouched.
func bootstrapCommands(b *hubgovInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "provision the hub participant and its ledger accounts",
		Run: func(cmd *cobra.Command, args []string) {
			if err := b.gov.Bootstrap(context.Background()); err != nil {
				log.Fatalf("hub bootstrap failed: %v", err)
			}
			fmt.Printf("hub participant %s ready\n", b.gov.HubParticipantID())
		},
	}
	return cmd
}
