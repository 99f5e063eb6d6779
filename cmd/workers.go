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
	"errors"
	"fmt"
	"log"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tandempay/hubgov"
	"github.com/tandempay/hubgov/auth"
	"github.com/tandempay/hubgov/config"
	redis_db "github.com/tandempay/hubgov/internal/redis-db"
	"github.com/tandempay/hubgov/model"
)

// processSettlementEvent consumes settlement matrix notifications from the
// redis queue and applies them through the governance aggregate. Malformed
// events are dropped rather than retried; everything else is pushed back for
// the queue's retry policy.
func (b *hubgovInstance) processSettlementEvent(ctx context.Context, t *asynq.Task) error {
	var event model.SettlementMatrixSettledEvent
	if err := json.Unmarshal(t.Payload(), &event); err != nil {
		logrus.Error(err)
		return fmt.Errorf("malformed settlement payload: %v: %w", err, asynq.SkipRetry)
	}

	sec := &auth.SecurityContext{Username: hubgov.SystemUser}
	if err := b.gov.HandleSettlementMatrixSettled(ctx, sec, &event); err != nil {
		if errors.Is(err, hubgov.ErrInvalidSettlementEvent) {
			logrus.Errorf("Dropping invalid settlement event %s: %v", event.SettlementMatrixID, err)
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		logrus.Infof("Settlement matrix %s pushed back for retry due to error: %v", event.SettlementMatrixID, err)
		return err
	}

	log.Println(" [*] Settlement Matrix Applied", event.SettlementMatrixID)
	return nil
}

// processAuditRecord writes an audit entry to the structured log. The log
// stream is the audit sink in this deployment.
func (b *hubgovInstance) processAuditRecord(_ context.Context, t *asynq.Task) error {
	var record hubgov.AuditRecord
	if err := json.Unmarshal(t.Payload(), &record); err != nil {
		logrus.Error(err)
		return fmt.Errorf("malformed audit payload: %v: %w", err, asynq.SkipRetry)
	}

	fields := logrus.Fields{
		"action":    record.Action,
		"success":   record.Success,
		"user_id":   record.UserID,
		"role":      record.Role,
		"app_id":    record.AppID,
		"timestamp": record.Timestamp,
	}
	for _, kv := range record.Fields {
		fields[kv.Key] = kv.Value
	}
	logrus.WithFields(fields).Info("audit")
	return nil
}

// processParticipantChanged fans a domain change event out to the log. A
// downstream notifier can subscribe to the same queue when one exists.
func (b *hubgovInstance) processParticipantChanged(_ context.Context, t *asynq.Task) error {
	var event model.ParticipantChangedEvent
	if err := json.Unmarshal(t.Payload(), &event); err != nil {
		logrus.Error(err)
		return fmt.Errorf("malformed event payload: %v: %w", err, asynq.SkipRetry)
	}

	logrus.WithFields(logrus.Fields{
		"participant_id": event.ParticipantID,
		"action":         event.ActionName,
	}).Info("participant changed")
	return nil
}

func initializeQueues() map[string]int {
	cfg, err := config.Fetch()
	if err != nil {
		log.Printf("Error fetching config, using defaults: %v", err)
		return nil
	}

	// Settlement postings move money; they get the lion's share of the
	// worker's attention.
	queues := make(map[string]int)
	queues[cfg.Queue.SettlementQueue] = 3
	queues[cfg.Queue.AuditQueue] = 1
	queues[cfg.Queue.EventQueue] = 1
	return queues
}

func initializeWorkerServer(conf *config.Configuration, queues map[string]int) (*asynq.Server, error) {
	redisOption, err := redis_db.ParseRedisURL(fmt.Sprintf("redis://%s", conf.Redis.Dns))
	if err != nil {
		return nil, fmt.Errorf("error parsing Redis URL: %v", err)
	}

	return asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:      redisOption.Addr,
			Password:  redisOption.Password,
			DB:        redisOption.DB,
			TLSConfig: redisOption.TLSConfig,
		},
		asynq.Config{
			Concurrency: 1,
			Queues:      queues,
		},
	), nil
}

func initializeTaskHandlers(b *hubgovInstance, mux *asynq.ServeMux) {
	mux.HandleFunc(hubgov.TaskSettlementMatrixSettled, b.processSettlementEvent)
	mux.HandleFunc(hubgov.TaskAuditRecord, b.processAuditRecord)
	mux.HandleFunc(hubgov.TaskParticipantChanged, b.processParticipantChanged)
}

// workerCommands defines the "workers" command. The workers drain the audit,
// event and settlement queues.
func workerCommands(b *hubgovInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workers",
		Short: "start hubgov workers",
		Run: func(cmd *cobra.Command, args []string) {
			conf, err := config.Fetch()
			if err != nil {
				log.Fatal("Error fetching config:", err)
			}

			queues := initializeQueues()

			srv, err := initializeWorkerServer(conf, queues)
			if err != nil {
				log.Fatal(err)
			}

			mux := asynq.NewServeMux()
			initializeTaskHandlers(b, mux)

			if err := srv.Run(mux); err != nil {
				log.Fatalf("could not run server: %v", err)
			}
		},
	}

	return cmd
}
