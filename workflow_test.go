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

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tandempay/hubgov/auth"
	"github.com/tandempay/hubgov/model"
)

func TestChangeRequest_CreateRequiresPrivilege(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	participant := env.seedParticipant(t, decimal.Zero)

	_, err := env.h.CreateParticipantAccountChangeRequest(ctx, checkerCtx(), participant.ID,
		model.ChangeRequest[model.AccountChange]{
			Payload: model.AccountChange{Type: model.AccountTypeSettlement, CurrencyCode: "EUR"},
		})
	assert.ErrorIs(t, err, auth.ErrForbidden)
}

func TestChangeRequest_CreateLeavesRequestPending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	participant := env.seedParticipant(t, decimal.Zero)

	reqID, err := env.h.CreateParticipantAccountChangeRequest(ctx, makerCtx(), participant.ID,
		model.ChangeRequest[model.AccountChange]{
			Payload: model.AccountChange{Type: model.AccountTypeSettlement, CurrencyCode: "EUR"},
		})
	require.NoError(t, err)
	require.NotEmpty(t, reqID)

	stored, err := env.repo.FetchWhereID(ctx, participant.ID)
	require.NoError(t, err)
	require.Len(t, stored.AccountChangeRequests, 1)
	pending := stored.AccountChangeRequests[0]
	assert.Equal(t, reqID, pending.ID)
	assert.Equal(t, model.RequestTypeAdd, pending.RequestType)
	assert.Equal(t, "alice", pending.CreatedBy)
	assert.False(t, pending.Approved)

	// Nothing materialized yet.
	assert.Len(t, stored.Accounts, 2)
	assert.Empty(t, env.ledger.Entries)
}

func TestChangeRequest_SelfApprovalBlockedBeforePrivilegeCheck(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	participant := env.seedParticipant(t, decimal.Zero)

	creator := superCtx("carol")
	reqID, err := env.h.CreateParticipantSourceIPChangeRequest(ctx, creator, participant.ID,
		model.ChangeRequest[model.SourceIPChange]{
			Payload: model.SourceIPChange{CIDR: "10.0.0.0/24", PortMode: model.PortModeAny},
		})
	require.NoError(t, err)

	_, err = env.h.ApproveParticipantSourceIPChangeRequest(ctx, creator, participant.ID, reqID)
	assert.ErrorIs(t, err, ErrMakerCheckerViolation)

	last := env.audit.Last()
	require.NotNil(t, last)
	assert.Equal(t, AuditSourceIPChangeRequestApproved, last.Action)
	assert.False(t, last.Success)

	// An approver with no privilege at all gets the same rejection, proving
	// the ordering: the creator check fires first, not the privilege check.
	nobody := &auth.SecurityContext{Username: "carol", PlatformRoleIDs: nil}
	_, err = env.h.ApproveParticipantSourceIPChangeRequest(ctx, nobody, participant.ID, reqID)
	assert.ErrorIs(t, err, ErrMakerCheckerViolation)
}

func TestChangeRequest_ApprovalIsTerminal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	participant := env.seedParticipant(t, decimal.Zero)

	reqID, err := env.h.CreateParticipantContactInfoChangeRequest(ctx, makerCtx(), participant.ID,
		model.ChangeRequest[model.ContactInfoChange]{
			Payload: model.ContactInfoChange{Name: "Ops Desk", Email: "ops@example.com"},
		})
	require.NoError(t, err)

	contactID, err := env.h.ApproveParticipantContactInfoChangeRequest(ctx, checkerCtx(), participant.ID, reqID)
	require.NoError(t, err)
	require.NotEmpty(t, contactID)

	_, err = env.h.ApproveParticipantContactInfoChangeRequest(ctx, checkerCtx(), participant.ID, reqID)
	assert.ErrorIs(t, err, ErrContactChangeRequestAlreadyApproved)
}

func TestChangeRequest_ApproveUnknownRequest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	participant := env.seedParticipant(t, decimal.Zero)

	_, err := env.h.ApproveParticipantAccountChangeRequest(ctx, checkerCtx(), participant.ID, "no-such-request")
	assert.ErrorIs(t, err, ErrAccountChangeRequestNotFound)
}

func TestChangeRequest_ApprovalMaterializesAndLogs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	participant := env.seedParticipant(t, decimal.Zero)

	reqID, err := env.h.CreateParticipantAccountChangeRequest(ctx, makerCtx(), participant.ID,
		model.ChangeRequest[model.AccountChange]{
			Payload: model.AccountChange{Type: model.AccountTypePosition, CurrencyCode: "EUR"},
		})
	require.NoError(t, err)

	accountID, err := env.h.ApproveParticipantAccountChangeRequest(ctx, checkerCtx(), participant.ID, reqID)
	require.NoError(t, err)

	stored, err := env.repo.FetchWhereID(ctx, participant.ID)
	require.NoError(t, err)

	created := stored.AccountByTypeAndCurrency(model.AccountTypePosition, "EUR")
	require.NotNil(t, created)
	assert.Equal(t, accountID, created.ID)

	approved := stored.AccountChangeRequests[0]
	assert.True(t, approved.Approved)
	assert.Equal(t, "bob", approved.ApprovedBy)

	// Newest-first log: the materialized change outranks the approval by one
	// millisecond, so ordering is deterministic even on a timestamp tie.
	require.GreaterOrEqual(t, len(stored.ChangeLog), 2)
	assert.Equal(t, model.ChangeActionAddAccount, stored.ChangeLog[0].ChangeType)
	assert.Equal(t, model.ChangeActionApproveAccountRequest, stored.ChangeLog[1].ChangeType)
	assert.Equal(t, stored.ChangeLog[1].Timestamp+1, stored.ChangeLog[0].Timestamp)

	require.NotEmpty(t, env.events.Events)
	assert.Equal(t, participant.ID, env.events.Events[len(env.events.Events)-1].ParticipantID)
}

func TestChangeRequest_DuplicateAddRejectedAtApproval(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	participant := env.seedParticipant(t, decimal.Zero)

	// The participant already has a USD settlement account; the duplicate is
	// only caught at approval time, against the live collection.
	reqID, err := env.h.CreateParticipantAccountChangeRequest(ctx, makerCtx(), participant.ID,
		model.ChangeRequest[model.AccountChange]{
			Payload: model.AccountChange{Type: model.AccountTypeSettlement, CurrencyCode: "USD"},
		})
	require.NoError(t, err)

	_, err = env.h.ApproveParticipantAccountChangeRequest(ctx, checkerCtx(), participant.ID, reqID)
	assert.ErrorIs(t, err, ErrDuplicateAccount)

	stored, err := env.repo.FetchWhereID(ctx, participant.ID)
	require.NoError(t, err)
	assert.False(t, stored.AccountChangeRequests[0].Approved)
}

func TestChangeRequest_ChangeComparesFullTuple(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	participant := env.seedParticipant(t, decimal.Zero)
	settlement := participant.Accounts[0]

	// A CHANGE whose new value tuple matches the existing record, bank
	// details included, is itself the duplicate.
	reqID, err := env.h.CreateParticipantAccountChangeRequest(ctx, makerCtx(), participant.ID,
		model.ChangeRequest[model.AccountChange]{
			RequestType: model.RequestTypeChange,
			Payload: model.AccountChange{
				AccountID:    settlement.ID,
				Type:         model.AccountTypeSettlement,
				CurrencyCode: "USD",
			},
		})
	require.NoError(t, err)
	_, err = env.h.ApproveParticipantAccountChangeRequest(ctx, checkerCtx(), participant.ID, reqID)
	assert.ErrorIs(t, err, ErrDuplicateAccount)

	// Changing the bank details to a new value goes through.
	reqID, err = env.h.CreateParticipantAccountChangeRequest(ctx, makerCtx(), participant.ID,
		model.ChangeRequest[model.AccountChange]{
			RequestType: model.RequestTypeChange,
			Payload: model.AccountChange{
				AccountID:               settlement.ID,
				Type:                    model.AccountTypeSettlement,
				CurrencyCode:            "USD",
				ExternalBankAccountID:   "DE89370400440532013000",
				ExternalBankAccountName: "Settlement Nostro",
			},
		})
	require.NoError(t, err)
	changedID, err := env.h.ApproveParticipantAccountChangeRequest(ctx, checkerCtx(), participant.ID, reqID)
	require.NoError(t, err)
	assert.Equal(t, settlement.ID, changedID)

	stored, err := env.repo.FetchWhereID(ctx, participant.ID)
	require.NoError(t, err)
	updated := stored.AccountByTypeAndCurrency(model.AccountTypeSettlement, "USD")
	require.NotNil(t, updated)
	assert.Equal(t, "DE89370400440532013000", updated.ExternalBankAccountID)
	assert.Equal(t, model.ChangeActionChangeAccountBankDetails, stored.ChangeLog[0].ChangeType)

	// A CHANGE materialization audits and emits as a change, not an add.
	last := env.audit.Last()
	require.NotNil(t, last)
	assert.Equal(t, AuditParticipantAccountChanged, last.Action)
	assert.True(t, last.Success)
	assert.Equal(t, AuditParticipantAccountChanged, env.events.Events[len(env.events.Events)-1].ActionName)
}

func TestChangeRequest_LedgerFailureLeavesRequestPending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	participant := env.seedParticipant(t, decimal.Zero)

	reqID, err := env.h.CreateParticipantAccountChangeRequest(ctx, makerCtx(), participant.ID,
		model.ChangeRequest[model.AccountChange]{
			Payload: model.AccountChange{Type: model.AccountTypePosition, CurrencyCode: "EUR"},
		})
	require.NoError(t, err)

	env.ledger.FailCreateAccount = true
	_, err = env.h.ApproveParticipantAccountChangeRequest(ctx, checkerCtx(), participant.ID, reqID)
	assert.ErrorIs(t, err, ErrUnableToCreateAccountUpstream)

	stored, err := env.repo.FetchWhereID(ctx, participant.ID)
	require.NoError(t, err)
	assert.False(t, stored.AccountChangeRequests[0].Approved)
	assert.Nil(t, stored.AccountByTypeAndCurrency(model.AccountTypePosition, "EUR"))

	// The request survives and a later approval succeeds.
	env.ledger.FailCreateAccount = false
	_, err = env.h.ApproveParticipantAccountChangeRequest(ctx, checkerCtx(), participant.ID, reqID)
	assert.NoError(t, err)
}
