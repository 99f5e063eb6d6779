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
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tandempay/hubgov/auth"
	"github.com/tandempay/hubgov/model"
)

const testHubID = "hub"

type testEnv struct {
	h      *Hubgov
	repo   *MockRepository
	ledger *MockLedger
	audit  *MockAuditor
	events *MockEmitter
	dedup  *MockDedup
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	registry := auth.NewRegistry(map[string][]string{
		"maker": {
			auth.PrivViewParticipant,
			auth.PrivCreateParticipant,
			auth.PrivEnableParticipant,
			auth.PrivDisableParticipant,
			auth.PrivManageEndpoints,
			auth.PrivCreateAccountChangeRequest,
			auth.PrivCreateSourceIPChangeRequest,
			auth.PrivCreateContactInfoChangeRequest,
			auth.PrivCreateNdcChangeRequest,
			auth.PrivCreateFundsDeposit,
			auth.PrivCreateFundsWithdrawal,
		},
		"checker": {
			auth.PrivViewParticipant,
			auth.PrivApproveParticipant,
			auth.PrivApproveAccountChangeRequest,
			auth.PrivApproveSourceIPChangeRequest,
			auth.PrivApproveContactInfoChangeRequest,
			auth.PrivApproveNdcChangeRequest,
			auth.PrivApproveFundsDeposit,
			auth.PrivApproveFundsWithdrawal,
		},
	})

	env := &testEnv{
		repo:   NewMockRepository(),
		ledger: NewMockLedger(),
		audit:  &MockAuditor{},
		events: &MockEmitter{},
		dedup:  NewMockDedup(),
	}
	env.h = NewHubgovWithDeps(env.repo, env.ledger, registry,
		env.audit, env.events, env.dedup, testHubID, []string{"USD"})
	return env
}

func makerCtx() *auth.SecurityContext {
	return &auth.SecurityContext{Username: "alice", ClientID: "ops-portal", PlatformRoleIDs: []string{"maker"}}
}

func checkerCtx() *auth.SecurityContext {
	return &auth.SecurityContext{Username: "bob", ClientID: "ops-portal", PlatformRoleIDs: []string{"checker"}}
}

// superCtx holds both roles, so maker-checker rejections in its name prove
// the creator check runs before the privilege check.
func superCtx(username string) *auth.SecurityContext {
	return &auth.SecurityContext{Username: username, ClientID: "ops-portal", PlatformRoleIDs: []string{"maker", "checker"}}
}

// seedParticipant installs an approved, active participant with a USD
// settlement and position account directly in the repository, skipping the
// governance workflow.
func (env *testEnv) seedParticipant(t *testing.T, balance decimal.Decimal) *model.Participant {
	t.Helper()
	participant := &model.Participant{
		ID:          model.GenerateParticipantID(),
		Name:        gofakeit.Company(),
		Type:        model.ParticipantTypeRegular,
		IsActive:    true,
		Approved:    true,
		ApprovedBy:  "bob",
		CreatedBy:   "alice",
		CreatedDate: model.NowMillis(),
		Accounts: []model.Account{
			{ID: "led-" + model.GenerateParticipantID(), Type: model.AccountTypeSettlement, CurrencyCode: "USD"},
			{ID: "led-" + model.GenerateParticipantID(), Type: model.AccountTypePosition, CurrencyCode: "USD"},
		},
	}
	env.ledger.SetBalance(participant.Accounts[0].ID, balance)
	env.ledger.SetBalance(participant.Accounts[1].ID, decimal.Zero)
	ok, err := env.repo.Create(context.Background(), participant)
	require.NoError(t, err)
	require.True(t, ok)
	return participant
}

// seedHub installs the hub participant with its USD reconciliation and
// multilateral settlement accounts.
func (env *testEnv) seedHub(t *testing.T) *model.Participant {
	t.Helper()
	hub := model.NewHubParticipant(testHubID, SystemUser)
	hub.Accounts = []model.Account{
		{ID: "led-hub-recon-usd", Type: model.AccountTypeHubReconciliation, CurrencyCode: "USD"},
		{ID: "led-hub-mls-usd", Type: model.AccountTypeHubMultilateralSettlement, CurrencyCode: "USD"},
	}
	env.ledger.SetBalance("led-hub-recon-usd", decimal.Zero)
	env.ledger.SetBalance("led-hub-mls-usd", decimal.Zero)
	ok, err := env.repo.Create(context.Background(), hub)
	require.NoError(t, err)
	require.True(t, ok)
	return hub
}

func TestBootstrap_CreatesHubWithAccounts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.h.Bootstrap(ctx)
	require.NoError(t, err)

	hub, err := env.repo.FetchWhereID(ctx, testHubID)
	require.NoError(t, err)
	require.NotNil(t, hub)
	assert.Equal(t, model.ParticipantTypeHub, hub.Type)
	assert.True(t, hub.Approved)
	assert.True(t, hub.IsActive)

	// One multilateral settlement and one reconciliation account per currency.
	assert.Len(t, hub.Accounts, 2)
	assert.NotNil(t, hub.AccountByTypeAndCurrency(model.AccountTypeHubMultilateralSettlement, "USD"))
	assert.NotNil(t, hub.AccountByTypeAndCurrency(model.AccountTypeHubReconciliation, "USD"))
}

func TestBootstrap_SecondRunIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.h.Bootstrap(ctx))
	before, err := env.repo.FetchWhereID(ctx, testHubID)
	require.NoError(t, err)

	require.NoError(t, env.h.Bootstrap(ctx))
	after, err := env.repo.FetchWhereID(ctx, testHubID)
	require.NoError(t, err)
	assert.Equal(t, before.Accounts, after.Accounts)
	assert.Equal(t, before.Version, after.Version)
}

func TestBootstrap_RejectsCorruptedHubID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	squatter := &model.Participant{ID: testHubID, Name: "not the hub", Type: model.ParticipantTypeRegular}
	ok, err := env.repo.Create(ctx, squatter)
	require.NoError(t, err)
	require.True(t, ok)

	err = env.h.Bootstrap(ctx)
	assert.ErrorIs(t, err, ErrHubParticipantCorrupted)
}

func TestBootstrap_LedgerFailureAborts(t *testing.T) {
	env := newTestEnv(t)
	env.ledger.FailCreateAccount = true

	err := env.h.Bootstrap(context.Background())
	assert.ErrorIs(t, err, ErrUnableToCreateAccountUpstream)

	hub, fetchErr := env.repo.FetchWhereID(context.Background(), testHubID)
	require.NoError(t, fetchErr)
	assert.Nil(t, hub)
}

func TestPersist_VersionConflictSurfacesAsStoreConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	participant := env.seedParticipant(t, decimal.Zero)

	stale, err := env.repo.FetchWhereID(ctx, participant.ID)
	require.NoError(t, err)

	// A concurrent writer bumps the stored version.
	fresh, err := env.repo.FetchWhereID(ctx, participant.ID)
	require.NoError(t, err)
	ok, err := env.repo.Store(ctx, fresh)
	require.NoError(t, err)
	require.True(t, ok)

	err = env.h.persist(ctx, stale)
	assert.ErrorIs(t, err, ErrStoreConflict)
}
