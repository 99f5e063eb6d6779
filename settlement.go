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
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/tandempay/hubgov/auth"
	"github.com/tandempay/hubgov/ledger"
	"github.com/tandempay/hubgov/model"
)

// HandleSettlementMatrixSettled applies a hub-distributed settlement outcome
// to the affected participants' ledger accounts and recomputes their net
// debit caps. The whole batch is posted as one atomic ledger call: a missing
// account, an empty posting set or a short ledger response fails the batch
// with nothing applied. A redelivered matrix id is acknowledged without
// re-posting.
func (h *Hubgov) HandleSettlementMatrixSettled(ctx context.Context, sec *auth.SecurityContext, event *model.SettlementMatrixSettledEvent) error {
	if event == nil || event.SettlementMatrixID == "" {
		return fmt.Errorf("%w: missing settlement matrix id", ErrInvalidSettlementEvent)
	}
	if len(event.ParticipantList) == 0 {
		return fmt.Errorf("%w: empty participant list", ErrInvalidSettlementEvent)
	}

	dedupKey := "settlement:" + event.SettlementMatrixID
	fresh, err := h.dedup.SetIfAbsent(ctx, dedupKey)
	if err != nil {
		return errors.Wrap(err, "checking settlement idempotency key")
	}
	if !fresh {
		logrus.Warnf("settlement matrix %s already processed, skipping", event.SettlementMatrixID)
		return nil
	}

	if err := h.applySettlementMatrix(ctx, sec, event); err != nil {
		// Release the claim so the messaging layer's redelivery gets another
		// attempt at this matrix.
		if removeErr := h.dedup.Remove(ctx, dedupKey); removeErr != nil {
			logrus.Errorf("failed to release settlement idempotency key %s: %v", dedupKey, removeErr)
		}
		return err
	}
	return nil
}

func (h *Hubgov) applySettlementMatrix(ctx context.Context, sec *auth.SecurityContext, event *model.SettlementMatrixSettledEvent) error {
	participantIDs := make([]string, 0, len(event.ParticipantList))
	seen := make(map[string]struct{}, len(event.ParticipantList))
	for _, entry := range event.ParticipantList {
		if _, ok := seen[entry.ParticipantID]; ok {
			continue
		}
		seen[entry.ParticipantID] = struct{}{}
		participantIDs = append(participantIDs, entry.ParticipantID)
	}

	participants, err := h.repo.FetchWhereIDs(ctx, participantIDs)
	if err != nil {
		return errors.Wrap(err, "fetching settlement participants")
	}
	if len(participants) != len(participantIDs) {
		return fmt.Errorf("%w: requested %d participants, found %d",
			ErrInvalidSettlementEvent, len(participantIDs), len(participants))
	}
	byID := make(map[string]*model.Participant, len(participants))
	for _, participant := range participants {
		byID[participant.ID] = participant
	}

	var postings []ledger.JournalEntryRequest
	for _, entry := range event.ParticipantList {
		if entry.CurrencyCode == "" {
			continue
		}
		participant := byID[entry.ParticipantID]

		settlementAccount := participant.AccountByTypeAndCurrency(model.AccountTypeSettlement, entry.CurrencyCode)
		positionAccount := participant.AccountByTypeAndCurrency(model.AccountTypePosition, entry.CurrencyCode)
		if settlementAccount == nil || positionAccount == nil {
			return errors.Wrapf(ErrAccountNotFound,
				"participant %s is missing a %s settlement or position account", entry.ParticipantID, entry.CurrencyCode)
		}

		credit, err := decimal.NewFromString(entry.SettledCreditBalance)
		if err != nil {
			return fmt.Errorf("%w: malformed credit amount %q", ErrInvalidSettlementEvent, entry.SettledCreditBalance)
		}
		debit, err := decimal.NewFromString(entry.SettledDebitBalance)
		if err != nil {
			return fmt.Errorf("%w: malformed debit amount %q", ErrInvalidSettlementEvent, entry.SettledDebitBalance)
		}

		// A settled credit moves value into the settlement account from the
		// position account; a settled debit is the mirror posting.
		if credit.IsPositive() {
			postings = append(postings, ledger.JournalEntryRequest{
				RequestedID:       model.GenerateUUIDWithPrefix("je"),
				OwnerID:           entry.ParticipantID,
				CurrencyCode:      entry.CurrencyCode,
				Amount:            credit,
				DebitedAccountID:  positionAccount.ID,
				CreditedAccountID: settlementAccount.ID,
			})
		}
		if debit.IsPositive() {
			postings = append(postings, ledger.JournalEntryRequest{
				RequestedID:       model.GenerateUUIDWithPrefix("je"),
				OwnerID:           entry.ParticipantID,
				CurrencyCode:      entry.CurrencyCode,
				Amount:            debit,
				DebitedAccountID:  settlementAccount.ID,
				CreditedAccountID: positionAccount.ID,
			})
		}
	}

	// A settlement event that settles nothing is an error, not a no-op.
	if len(postings) == 0 {
		return fmt.Errorf("%w: no non-zero settled balances", ErrInvalidSettlementEvent)
	}

	entryIDs, err := h.ledger.CreateJournalEntries(ctx, postings)
	if err != nil {
		return errors.Wrap(err, "posting settlement journal entries")
	}
	if len(entryIDs) != len(postings) {
		return errors.Wrapf(ErrSettlementBatchMismatch, "requested %d, got %d", len(postings), len(entryIDs))
	}

	h.audit(ctx, sec, AuditSettlementMatrixProcessed, true,
		AuditKV{Key: "settlementMatrixId", Value: event.SettlementMatrixID},
		AuditKV{Key: "postings", Value: fmt.Sprintf("%d", len(postings))},
	)

	for _, participant := range participants {
		if err := h.recalculateNetDebitCaps(ctx, sec, participant); err != nil {
			return err
		}
	}
	return nil
}

// recalculateNetDebitCaps refreshes every NDC a participant defines from the
// live settlement balances and persists the record when something changed.
// Participants with no NDC definitions are skipped.
func (h *Hubgov) recalculateNetDebitCaps(ctx context.Context, sec *auth.SecurityContext, participant *model.Participant) error {
	if len(participant.NetDebitCaps) == 0 {
		return nil
	}

	changed := false
	for i := range participant.NetDebitCaps {
		ndc := &participant.NetDebitCaps[i]
		settlementAccount := participant.AccountByTypeAndCurrency(model.AccountTypeSettlement, ndc.CurrencyCode)
		if settlementAccount == nil {
			continue
		}

		liveAccount, err := h.ledger.GetAccount(ctx, settlementAccount.ID)
		if err != nil {
			return errors.Wrapf(err, "fetching settlement account %s", settlementAccount.ID)
		}
		settlementAccount.DebitBalance = liveAccount.DebitBalance
		settlementAccount.CreditBalance = liveAccount.CreditBalance
		settlementAccount.Balance = liveAccount.Balance

		capped, err := ComputeNetDebitCap(ndc.FixedValue, ndc.Percentage, liveAccount.Balance, ndc.Type)
		if err != nil {
			return err
		}
		if !ndc.CurrentValue.Equal(capped) {
			ndc.CurrentValue = capped
			changed = true
		}
	}

	if !changed {
		return nil
	}

	participant.AddChangeLogEntry(model.ChangeActionNdcRecalculated, SystemUser, model.NowMillis())
	if err := h.persist(ctx, participant); err != nil {
		return err
	}

	h.audit(ctx, sec, AuditNdcRecalculated, true, AuditKV{Key: "participantId", Value: participant.ID})
	h.emit(ctx, participant.ID, AuditNdcRecalculated)
	return nil
}
