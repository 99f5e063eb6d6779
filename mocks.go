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
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/tandempay/hubgov/auth"
	"github.com/tandempay/hubgov/database"
	"github.com/tandempay/hubgov/ledger"
	"github.com/tandempay/hubgov/model"
)

// MockRepository is an in-memory ParticipantRepository honoring the
// optimistic version check the real document store applies on Store.
type MockRepository struct {
	mu           sync.Mutex
	participants map[string]*model.Participant

	FailCreate bool
	FailStore  bool
}

func NewMockRepository() *MockRepository {
	return &MockRepository{participants: make(map[string]*model.Participant)}
}

func (m *MockRepository) snapshot(p *model.Participant) *model.Participant {
	clone := *p
	return &clone
}

func (m *MockRepository) FetchWhereID(_ context.Context, id string) (*model.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.participants[id]
	if !ok {
		return nil, nil
	}
	return m.snapshot(p), nil
}

func (m *MockRepository) FetchWhereIDs(_ context.Context, ids []string) ([]*model.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Participant
	for _, id := range ids {
		if p, ok := m.participants[id]; ok {
			out = append(out, m.snapshot(p))
		}
	}
	return out, nil
}

func (m *MockRepository) FetchAll(_ context.Context) ([]*model.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Participant
	for _, p := range m.participants {
		out = append(out, m.snapshot(p))
	}
	return out, nil
}

func (m *MockRepository) SearchParticipants(_ context.Context, id, name, state string) ([]*model.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Participant
	for _, p := range m.participants {
		if id != "" && !strings.Contains(strings.ToLower(p.ID), strings.ToLower(id)) {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(name)) {
			continue
		}
		if state == "ACTIVE" && !p.IsActive {
			continue
		}
		if state == "INACTIVE" && p.IsActive {
			continue
		}
		if state == "PENDING_APPROVAL" && p.Approved {
			continue
		}
		out = append(out, m.snapshot(p))
	}
	return out, nil
}

func (m *MockRepository) FetchWhereName(_ context.Context, name string) (*model.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.participants {
		if p.Name == name {
			return m.snapshot(p), nil
		}
	}
	return nil, nil
}

func (m *MockRepository) Create(_ context.Context, participant *model.Participant) (bool, error) {
	if m.FailCreate {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.participants[participant.ID]; exists {
		return false, nil
	}
	m.participants[participant.ID] = m.snapshot(participant)
	return true, nil
}

func (m *MockRepository) Store(_ context.Context, participant *model.Participant) (bool, error) {
	if m.FailStore {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	current, exists := m.participants[participant.ID]
	if !exists {
		return false, nil
	}
	if current.Version != participant.Version {
		return false, database.ErrVersionConflict
	}
	participant.Version++
	m.participants[participant.ID] = m.snapshot(participant)
	return true, nil
}

// MockLedger is an in-memory ledger.Service. Balances are set directly by
// tests; journal entries are recorded, not applied.
type MockLedger struct {
	mu       sync.Mutex
	accounts map[string]*ledger.Account
	Entries  []ledger.JournalEntryRequest

	FailCreateAccount bool
	FailJournalEntry  bool
	// ShortBatch makes CreateJournalEntries return one id fewer than
	// requested, simulating a partial ledger response.
	ShortBatch bool

	nextID int
}

func NewMockLedger() *MockLedger {
	return &MockLedger{accounts: make(map[string]*ledger.Account)}
}

func (m *MockLedger) SetToken(string) {}

// SetBalance installs or updates an account balance visible to GetAccount.
func (m *MockLedger) SetBalance(accountID string, balance decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[accountID]
	if !ok {
		acc = &ledger.Account{ID: accountID}
		m.accounts[accountID] = acc
	}
	acc.Balance = balance
	acc.CreditBalance = balance
}

func (m *MockLedger) CreateAccount(_ context.Context, req ledger.CreateAccountRequest) (string, error) {
	if m.FailCreateAccount {
		return "", fmt.Errorf("ledger unavailable")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := fmt.Sprintf("ledger-acc-%d", m.nextID)
	m.accounts[id] = &ledger.Account{
		ID:           id,
		OwnerID:      req.OwnerID,
		Type:         req.Type,
		CurrencyCode: req.CurrencyCode,
	}
	return id, nil
}

func (m *MockLedger) GetAccount(_ context.Context, id string) (*ledger.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return nil, fmt.Errorf("ledger account %s not found", id)
	}
	clone := *acc
	return &clone, nil
}

func (m *MockLedger) GetAccounts(ctx context.Context, ids []string) ([]*ledger.Account, error) {
	var out []*ledger.Account
	for _, id := range ids {
		acc, err := m.GetAccount(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, acc)
	}
	return out, nil
}

func (m *MockLedger) CreateJournalEntry(_ context.Context, req ledger.JournalEntryRequest) (string, error) {
	if m.FailJournalEntry {
		return "", fmt.Errorf("ledger rejected journal entry")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, req)
	m.nextID++
	return fmt.Sprintf("ledger-je-%d", m.nextID), nil
}

func (m *MockLedger) CreateJournalEntries(_ context.Context, reqs []ledger.JournalEntryRequest) ([]string, error) {
	if m.FailJournalEntry {
		return nil, fmt.Errorf("ledger rejected journal entry batch")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for range reqs {
		m.nextID++
		ids = append(ids, fmt.Sprintf("ledger-je-%d", m.nextID))
	}
	m.Entries = append(m.Entries, reqs...)
	if m.ShortBatch && len(ids) > 0 {
		ids = ids[:len(ids)-1]
	}
	return ids, nil
}

// MockAuditor records audit calls in order.
type MockAuditor struct {
	mu      sync.Mutex
	Records []AuditRecord
}

func (m *MockAuditor) Audit(_ context.Context, action string, success bool, sec *auth.SecurityContext, fields []AuditKV) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Records = append(m.Records, newAuditRecord(action, success, sec, fields))
}

// Last returns the most recent audit record, or nil.
func (m *MockAuditor) Last() *AuditRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Records) == 0 {
		return nil
	}
	return &m.Records[len(m.Records)-1]
}

// MockEmitter records emitted domain change events.
type MockEmitter struct {
	mu     sync.Mutex
	Events []model.ParticipantChangedEvent
}

func (m *MockEmitter) ParticipantChanged(_ context.Context, participantID, actionName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, model.ParticipantChangedEvent{ParticipantID: participantID, ActionName: actionName})
}

// MockDedup is an in-memory DedupStore.
type MockDedup struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func NewMockDedup() *MockDedup {
	return &MockDedup{keys: make(map[string]struct{})}
}

func (m *MockDedup) SetIfAbsent(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.keys[key]; ok {
		return false, nil
	}
	m.keys[key] = struct{}{}
	return true, nil
}

func (m *MockDedup) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, key)
	return nil
}
