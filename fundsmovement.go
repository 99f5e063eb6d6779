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

	"github.com/pkg/errors"

	"github.com/tandempay/hubgov/auth"
	"github.com/tandempay/hubgov/ledger"
	"github.com/tandempay/hubgov/model"
)

func fundsMovementPrivileges(direction model.FundsMovementDirection) (create, approve string, err error) {
	switch direction {
	case model.FundsMovementDeposit:
		return auth.PrivCreateFundsDeposit, auth.PrivApproveFundsDeposit, nil
	case model.FundsMovementWithdrawal:
		return auth.PrivCreateFundsWithdrawal, auth.PrivApproveFundsWithdrawal, nil
	default:
		return "", "", fmt.Errorf("%w: unknown direction %q", ErrInvalidFundsMovement, direction)
	}
}

// movementAccounts resolves the participant's settlement account for the
// movement currency and the hub's reconciliation account. Both must exist
// before a movement can be recorded or approved.
func (h *Hubgov) movementAccounts(ctx context.Context, participant *model.Participant, currency string) (settlement, hubRecon *model.Account, err error) {
	settlement = participant.AccountByTypeAndCurrency(model.AccountTypeSettlement, currency)
	if settlement == nil {
		return nil, nil, errors.Wrapf(ErrAccountNotFound, "participant %s has no %s settlement account", participant.ID, currency)
	}

	hub, err := h.fetchParticipant(ctx, h.hubID)
	if err != nil {
		return nil, nil, err
	}
	hubRecon = hub.AccountByTypeAndCurrency(model.AccountTypeHubReconciliation, currency)
	if hubRecon == nil {
		return nil, nil, errors.Wrapf(ErrAccountNotFound, "hub has no %s reconciliation account", currency)
	}
	return settlement, hubRecon, nil
}

// CreateFundsMovement records an operator-initiated deposit or withdrawal
// pending approval by a different operator.
func (h *Hubgov) CreateFundsMovement(ctx context.Context, sec *auth.SecurityContext, participantID string, movement model.FundsMovement) (string, error) {
	createPriv, _, err := fundsMovementPrivileges(movement.Direction)
	if err != nil {
		return "", err
	}
	if err := auth.CheckPrivilege(h.authz, sec, createPriv); err != nil {
		return "", err
	}

	if movement.CurrencyCode == "" {
		return "", fmt.Errorf("%w: currency code is required", ErrInvalidFundsMovement)
	}
	if !movement.Amount.IsPositive() {
		return "", fmt.Errorf("%w: amount must be positive", ErrInvalidFundsMovement)
	}

	participant, err := h.fetchParticipant(ctx, participantID)
	if err != nil {
		return "", err
	}
	if _, _, err := h.movementAccounts(ctx, participant, movement.CurrencyCode); err != nil {
		return "", err
	}

	movement.ID = model.GenerateUUIDWithPrefix("fm")
	movement.CreatedBy = sec.Username
	movement.CreatedDate = model.NowMillis()
	movement.Approved = false
	movement.ApprovedBy = ""
	movement.ApprovedDate = 0
	movement.TransferID = ""

	participant.FundsMovements = append(participant.FundsMovements, movement)
	participant.AddChangeLogEntry(model.ChangeActionCreateFundsMovement, sec.Username, model.NowMillis())

	if err := h.persist(ctx, participant); err != nil {
		return "", err
	}

	h.audit(ctx, sec, AuditFundsMovementCreated, true,
		AuditKV{Key: "participantId", Value: participantID},
		AuditKV{Key: "fundsMovementId", Value: movement.ID},
		AuditKV{Key: "direction", Value: string(movement.Direction)},
		AuditKV{Key: "amount", Value: movement.Amount.String()},
	)
	h.emit(ctx, participantID, AuditFundsMovementCreated)
	return movement.ID, nil
}

// ApproveFundsMovement posts the movement to the ledger. A deposit credits
// the participant's settlement account and debits the hub reconciliation
// account; a withdrawal is the mirror image and must not exceed the live
// settlement balance. The ledger transfer id is recorded on success.
func (h *Hubgov) ApproveFundsMovement(ctx context.Context, sec *auth.SecurityContext, participantID, movementID string) error {
	participant, err := h.fetchParticipant(ctx, participantID)
	if err != nil {
		return err
	}

	movement := participant.FundsMovementByID(movementID)
	if movement == nil {
		return ErrFundsMovementNotFound
	}
	if movement.Approved {
		return ErrFundsMovementAlreadyApproved
	}

	if movement.CreatedBy == sec.Username {
		h.audit(ctx, sec, AuditFundsMovementApproved, false,
			AuditKV{Key: "participantId", Value: participantID},
			AuditKV{Key: "fundsMovementId", Value: movementID},
			AuditKV{Key: "reason", Value: "maker-checker violation"},
		)
		return ErrMakerCheckerViolation
	}

	_, approvePriv, err := fundsMovementPrivileges(movement.Direction)
	if err != nil {
		return err
	}
	if err := auth.CheckPrivilege(h.authz, sec, approvePriv); err != nil {
		return err
	}

	settlementAccount, hubReconAccount, err := h.movementAccounts(ctx, participant, movement.CurrencyCode)
	if err != nil {
		return err
	}

	entry := ledger.JournalEntryRequest{
		RequestedID:  model.GenerateUUIDWithPrefix("je"),
		OwnerID:      participant.ID,
		CurrencyCode: movement.CurrencyCode,
		Amount:       movement.Amount,
	}
	switch movement.Direction {
	case model.FundsMovementDeposit:
		entry.DebitedAccountID = hubReconAccount.ID
		entry.CreditedAccountID = settlementAccount.ID
	case model.FundsMovementWithdrawal:
		liveAccount, err := h.ledger.GetAccount(ctx, settlementAccount.ID)
		if err != nil {
			return errors.Wrapf(err, "fetching settlement account %s", settlementAccount.ID)
		}
		if movement.Amount.GreaterThan(liveAccount.Balance) {
			return errors.Wrapf(ErrWithdrawalExceedsBalance, "amount %s, balance %s", movement.Amount, liveAccount.Balance)
		}
		entry.DebitedAccountID = settlementAccount.ID
		entry.CreditedAccountID = hubReconAccount.ID
	}

	transferID, err := h.ledger.CreateJournalEntry(ctx, entry)
	if err != nil {
		return errors.Wrap(err, "posting funds movement journal entry")
	}

	now := model.NowMillis()
	movement.Approved = true
	movement.ApprovedBy = sec.Username
	movement.ApprovedDate = now
	movement.TransferID = transferID

	// Refresh the cached balance snapshot from the ledger; best effort.
	if liveAccount, err := h.ledger.GetAccount(ctx, settlementAccount.ID); err == nil {
		settlementAccount.DebitBalance = liveAccount.DebitBalance
		settlementAccount.CreditBalance = liveAccount.CreditBalance
		settlementAccount.Balance = liveAccount.Balance
	}

	participant.AddChangeLogEntry(model.ChangeActionApproveFundsMovement, sec.Username, now)

	if err := h.persist(ctx, participant); err != nil {
		return err
	}

	h.audit(ctx, sec, AuditFundsMovementApproved, true,
		AuditKV{Key: "participantId", Value: participantID},
		AuditKV{Key: "fundsMovementId", Value: movementID},
		AuditKV{Key: "transferId", Value: transferID},
	)
	h.emit(ctx, participantID, AuditFundsMovementApproved)
	return nil
}
