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

package hubgov

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/tandempay/hubgov/auth"
	"github.com/tandempay/hubgov/config"
	"github.com/tandempay/hubgov/internal/notification"
	redis_db "github.com/tandempay/hubgov/internal/redis-db"
	"github.com/tandempay/hubgov/model"
)

// Task type names routed through the redis-backed queue.
const (
	TaskAuditRecord             = "audit:record"
	TaskParticipantChanged      = "participant:changed"
	TaskSettlementMatrixSettled = "settlement:matrix-settled"
)

// How long a processed settlement matrix id is remembered.
const settlementDedupTTL = 30 * 24 * time.Hour

// Queue transports audit records, domain change events and inbound settlement
// notifications over redis.
type Queue struct {
	Client    *asynq.Client
	Inspector *asynq.Inspector

	auditQueue      string
	eventQueue      string
	settlementQueue string
}

// NewQueue initializes a new Queue instance from the configuration.
func NewQueue(conf *config.Configuration) *Queue {
	redisOption, err := redis_db.ParseRedisURL(fmt.Sprintf("redis://%s", conf.Redis.Dns))
	if err != nil {
		log.Fatalf("Error parsing Redis URL: %v", err)
	}

	queueOptions := asynq.RedisClientOpt{Addr: redisOption.Addr, Password: redisOption.Password, DB: redisOption.DB}
	return &Queue{
		Client:          asynq.NewClient(queueOptions),
		Inspector:       asynq.NewInspector(queueOptions),
		auditQueue:      conf.Queue.AuditQueue,
		eventQueue:      conf.Queue.EventQueue,
		settlementQueue: conf.Queue.SettlementQueue,
	}
}

// Audit implements Auditor. Enqueue failures are reported through the
// notification channel and otherwise dropped.
func (q *Queue) Audit(ctx context.Context, action string, success bool, sec *auth.SecurityContext, fields []AuditKV) {
	record := newAuditRecord(action, success, sec, fields)
	payload, err := json.Marshal(record)
	if err != nil {
		notification.NotifyError(err)
		return
	}
	task := asynq.NewTask(TaskAuditRecord, payload)
	if _, err := q.Client.EnqueueContext(ctx, task, asynq.Queue(q.auditQueue)); err != nil {
		notification.NotifyError(err)
	}
}

// ParticipantChanged implements EventEmitter.
func (q *Queue) ParticipantChanged(ctx context.Context, participantID, actionName string) {
	event := model.ParticipantChangedEvent{ParticipantID: participantID, ActionName: actionName}
	payload, err := json.Marshal(event)
	if err != nil {
		notification.NotifyError(err)
		return
	}
	task := asynq.NewTask(TaskParticipantChanged, payload)
	if _, err := q.Client.EnqueueContext(ctx, task, asynq.Queue(q.eventQueue)); err != nil {
		notification.NotifyError(err)
	}
}

// EnqueueSettlementEvent hands an inbound settlement notification to the
// worker queue. The messaging layer guarantees at-least-once delivery; the
// handler's idempotency guard deals with redelivery.
func (q *Queue) EnqueueSettlementEvent(ctx context.Context, event *model.SettlementMatrixSettledEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	task := asynq.NewTask(TaskSettlementMatrixSettled, payload)
	_, err = q.Client.EnqueueContext(ctx, task, asynq.Queue(q.settlementQueue), asynq.MaxRetry(5))
	return err
}

type redisDedupStore struct {
	client redis.UniversalClient
}

func (r *redisDedupStore) SetIfAbsent(ctx context.Context, key string) (bool, error) {
	return r.client.SetNX(ctx, key, "1", settlementDedupTTL).Result()
}

func (r *redisDedupStore) Remove(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
