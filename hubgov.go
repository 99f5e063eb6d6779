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

// Package hubgov implements participant governance for a settlement hub:
// maker-checker change requests across accounts, endpoints, source IPs,
// contacts, net debit caps and funds movements, plus settlement-driven
// ledger reconciliation.
package hubgov

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tandempay/hubgov/auth"
	"github.com/tandempay/hubgov/config"
	"github.com/tandempay/hubgov/database"
	redis_db "github.com/tandempay/hubgov/internal/redis-db"
	"github.com/tandempay/hubgov/ledger"
	"github.com/tandempay/hubgov/model"
)

// SystemUser is the identity recorded for bootstrap actions that no human
// operator initiated.
const SystemUser = "(system)"

// Hubgov is the participant governance aggregate. Every inbound command and
// settlement event enters through its methods; it owns hub bootstrap and the
// cached currency list.
type Hubgov struct {
	repo    database.ParticipantRepository
	ledger  ledger.Service
	authz   auth.Authorization
	auditor Auditor
	events  EventEmitter
	dedup   DedupStore
	queue   *Queue
	hubID   string

	mu         sync.RWMutex
	currencies []string
}

// NewHubgov initializes the aggregate from configuration: redis-backed queue
// for audit and domain events, redis idempotency store, and a subscription
// that refreshes the cached currency list when the configuration changes.
func NewHubgov(repo database.ParticipantRepository, ledgerSvc ledger.Service, authz auth.Authorization) (*Hubgov, error) {
	cfg, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	redisClient, err := redis_db.NewRedisClient([]string{fmt.Sprintf("redis://%s", cfg.Redis.Dns)})
	if err != nil {
		return nil, err
	}
	queue := NewQueue(cfg)

	h := NewHubgovWithDeps(
		repo, ledgerSvc, authz,
		queue, queue,
		&redisDedupStore{client: redisClient.Client()},
		cfg.Hub.ParticipantID, cfg.Hub.Currencies,
	)
	h.queue = queue

	config.OnChange(func(c *config.Configuration) {
		h.setCurrencies(c.Hub.Currencies)
	})
	return h, nil
}

// NewHubgovWithDeps wires the aggregate with explicit collaborators. Used by
// NewHubgov and by tests.
func NewHubgovWithDeps(repo database.ParticipantRepository, ledgerSvc ledger.Service, authz auth.Authorization,
	auditor Auditor, events EventEmitter, dedup DedupStore, hubID string, currencies []string) *Hubgov {
	return &Hubgov{
		repo:       repo,
		ledger:     ledgerSvc,
		authz:      authz,
		auditor:    auditor,
		events:     events,
		dedup:      dedup,
		hubID:      hubID,
		currencies: append([]string(nil), currencies...),
	}
}

// HubParticipantID returns the reserved hub participant id.
func (h *Hubgov) HubParticipantID() string {
	return h.hubID
}

func (h *Hubgov) setCurrencies(currencies []string) {
	h.mu.Lock()
	h.currencies = append([]string(nil), currencies...)
	h.mu.Unlock()
}

func (h *Hubgov) currencyList() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]string(nil), h.currencies...)
}

// Bootstrap ensures the hub participant exists with its multilateral
// settlement and reconciliation accounts for every configured currency.
// Finding a non-hub participant under the reserved id means the store is
// corrupted and the process must not continue.
func (h *Hubgov) Bootstrap(ctx context.Context) error {
	existing, err := h.repo.FetchWhereID(ctx, h.hubID)
	if err != nil {
		return errors.Wrap(err, "bootstrap: fetching hub participant")
	}
	if existing != nil {
		if existing.Type != model.ParticipantTypeHub {
			return ErrHubParticipantCorrupted
		}
		return nil
	}

	hub := model.NewHubParticipant(h.hubID, SystemUser)
	hub.AddChangeLogEntry(model.ChangeActionCreate, SystemUser, model.NowMillis())

	hubAccountTypes := []model.AccountType{
		model.AccountTypeHubMultilateralSettlement,
		model.AccountTypeHubReconciliation,
	}
	for _, currency := range h.currencyList() {
		for _, accType := range hubAccountTypes {
			accountID, err := h.ledger.CreateAccount(ctx, ledger.CreateAccountRequest{
				RequestedID:  model.GenerateUUIDWithPrefix("acc"),
				OwnerID:      hub.ID,
				Type:         string(accType),
				CurrencyCode: currency,
			})
			if err != nil {
				return errors.Wrapf(ErrUnableToCreateAccountUpstream, "bootstrap: %s %s: %v", accType, currency, err)
			}
			hub.Accounts = append(hub.Accounts, model.Account{
				ID:           accountID,
				Type:         accType,
				CurrencyCode: currency,
			})
			hub.AddChangeLogEntry(model.ChangeActionAddAccount, SystemUser, model.NowMillis())
		}
	}

	ok, err := h.repo.Create(ctx, hub)
	if err != nil {
		return errors.Wrap(err, "bootstrap: storing hub participant")
	}
	if !ok {
		return ErrCouldNotStoreParticipant
	}

	sec := &auth.SecurityContext{Username: SystemUser}
	h.audit(ctx, sec, AuditParticipantCreated, true, AuditKV{Key: "participantId", Value: hub.ID})
	h.audit(ctx, sec, AuditParticipantAccountAdded, true, AuditKV{Key: "participantId", Value: hub.ID})
	logrus.Infof("hub participant %s bootstrapped with %d accounts", hub.ID, len(hub.Accounts))
	return nil
}

// fetchParticipant loads a participant or fails with ErrParticipantNotFound.
func (h *Hubgov) fetchParticipant(ctx context.Context, id string) (*model.Participant, error) {
	participant, err := h.repo.FetchWhereID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching participant %s", id)
	}
	if participant == nil {
		return nil, ErrParticipantNotFound
	}
	return participant, nil
}

// persist stores a mutated participant. A version conflict surfaces as a
// retryable ErrStoreConflict; plain store failure means the mutation is lost.
func (h *Hubgov) persist(ctx context.Context, participant *model.Participant) error {
	ok, err := h.repo.Store(ctx, participant)
	if errors.Is(err, database.ErrVersionConflict) {
		return ErrStoreConflict
	}
	if err != nil {
		return errors.Wrapf(err, "storing participant %s", participant.ID)
	}
	if !ok {
		return ErrCouldNotStoreParticipant
	}
	return nil
}

func (h *Hubgov) audit(ctx context.Context, sec *auth.SecurityContext, action string, success bool, kv ...AuditKV) {
	h.auditor.Audit(ctx, action, success, sec, kv)
}

func (h *Hubgov) emit(ctx context.Context, participantID, action string) {
	h.events.ParticipantChanged(ctx, participantID, action)
}
