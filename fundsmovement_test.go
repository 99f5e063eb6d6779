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

	"github.com/tandempay/hubgov/model"
)

func TestCreateFundsMovement_Validations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedHub(t)
	participant := env.seedParticipant(t, decimal.Zero)

	_, err := env.h.CreateFundsMovement(ctx, makerCtx(), participant.ID, model.FundsMovement{
		Direction: model.FundsMovementDeposit, Amount: dec("100"),
	})
	assert.ErrorIs(t, err, ErrInvalidFundsMovement)

	_, err = env.h.CreateFundsMovement(ctx, makerCtx(), participant.ID, model.FundsMovement{
		Direction: model.FundsMovementDeposit, CurrencyCode: "USD", Amount: dec("-5"),
	})
	assert.ErrorIs(t, err, ErrInvalidFundsMovement)

	_, err = env.h.CreateFundsMovement(ctx, makerCtx(), participant.ID, model.FundsMovement{
		Direction: "SIDEWAYS", CurrencyCode: "USD", Amount: dec("100"),
	})
	assert.ErrorIs(t, err, ErrInvalidFundsMovement)

	// No EUR settlement account on the participant.
	_, err = env.h.CreateFundsMovement(ctx, makerCtx(), participant.ID, model.FundsMovement{
		Direction: model.FundsMovementDeposit, CurrencyCode: "EUR", Amount: dec("100"),
	})
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestApproveFundsMovement_DepositPostsToLedger(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	hub := env.seedHub(t)
	participant := env.seedParticipant(t, decimal.Zero)

	movementID, err := env.h.CreateFundsMovement(ctx, makerCtx(), participant.ID, model.FundsMovement{
		Direction: model.FundsMovementDeposit, CurrencyCode: "USD", Amount: dec("750"),
	})
	require.NoError(t, err)

	require.NoError(t, env.h.ApproveFundsMovement(ctx, checkerCtx(), participant.ID, movementID))

	// A deposit debits the hub reconciliation account and credits the
	// participant's settlement account.
	require.Len(t, env.ledger.Entries, 1)
	entry := env.ledger.Entries[0]
	hubRecon := hub.AccountByTypeAndCurrency(model.AccountTypeHubReconciliation, "USD")
	settlement := participant.Accounts[0]
	assert.Equal(t, hubRecon.ID, entry.DebitedAccountID)
	assert.Equal(t, settlement.ID, entry.CreditedAccountID)
	assert.True(t, dec("750").Equal(entry.Amount))

	stored, err := env.repo.FetchWhereID(ctx, participant.ID)
	require.NoError(t, err)
	movement := stored.FundsMovementByID(movementID)
	require.NotNil(t, movement)
	assert.True(t, movement.Approved)
	assert.Equal(t, "bob", movement.ApprovedBy)
	assert.NotEmpty(t, movement.TransferID)
}

func TestApproveFundsMovement_WithdrawalExceedsBalance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedHub(t)
	participant := env.seedParticipant(t, dec("500"))

	movementID, err := env.h.CreateFundsMovement(ctx, makerCtx(), participant.ID, model.FundsMovement{
		Direction: model.FundsMovementWithdrawal, CurrencyCode: "USD", Amount: dec("600"),
	})
	require.NoError(t, err)

	err = env.h.ApproveFundsMovement(ctx, checkerCtx(), participant.ID, movementID)
	assert.ErrorIs(t, err, ErrWithdrawalExceedsBalance)

	// Nothing posted, movement still pending.
	assert.Empty(t, env.ledger.Entries)
	stored, err := env.repo.FetchWhereID(ctx, participant.ID)
	require.NoError(t, err)
	movement := stored.FundsMovementByID(movementID)
	require.NotNil(t, movement)
	assert.False(t, movement.Approved)
}

func TestApproveFundsMovement_WithdrawalWithinBalance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	hub := env.seedHub(t)
	participant := env.seedParticipant(t, dec("500"))

	movementID, err := env.h.CreateFundsMovement(ctx, makerCtx(), participant.ID, model.FundsMovement{
		Direction: model.FundsMovementWithdrawal, CurrencyCode: "USD", Amount: dec("500"),
	})
	require.NoError(t, err)
	require.NoError(t, env.h.ApproveFundsMovement(ctx, checkerCtx(), participant.ID, movementID))

	// The withdrawal mirrors the deposit posting.
	require.Len(t, env.ledger.Entries, 1)
	entry := env.ledger.Entries[0]
	hubRecon := hub.AccountByTypeAndCurrency(model.AccountTypeHubReconciliation, "USD")
	assert.Equal(t, participant.Accounts[0].ID, entry.DebitedAccountID)
	assert.Equal(t, hubRecon.ID, entry.CreditedAccountID)
}

func TestApproveFundsMovement_SelfApprovalBlocked(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedHub(t)
	participant := env.seedParticipant(t, dec("500"))

	creator := superCtx("carol")
	movementID, err := env.h.CreateFundsMovement(ctx, creator, participant.ID, model.FundsMovement{
		Direction: model.FundsMovementDeposit, CurrencyCode: "USD", Amount: dec("100"),
	})
	require.NoError(t, err)

	err = env.h.ApproveFundsMovement(ctx, creator, participant.ID, movementID)
	assert.ErrorIs(t, err, ErrMakerCheckerViolation)
	assert.Empty(t, env.ledger.Entries)
}

func TestApproveFundsMovement_Terminal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedHub(t)
	participant := env.seedParticipant(t, dec("500"))

	movementID, err := env.h.CreateFundsMovement(ctx, makerCtx(), participant.ID, model.FundsMovement{
		Direction: model.FundsMovementDeposit, CurrencyCode: "USD", Amount: dec("100"),
	})
	require.NoError(t, err)
	require.NoError(t, env.h.ApproveFundsMovement(ctx, checkerCtx(), participant.ID, movementID))

	err = env.h.ApproveFundsMovement(ctx, checkerCtx(), participant.ID, movementID)
	assert.ErrorIs(t, err, ErrFundsMovementAlreadyApproved)
	assert.Len(t, env.ledger.Entries, 1)
}
