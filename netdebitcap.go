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

	"github.com/tandempay/hubgov/auth"
	"github.com/tandempay/hubgov/model"
)

var oneHundred = decimal.NewFromInt(100)

// ComputeNetDebitCap derives a participant's usable debit ceiling from its
// cap definition and the current settlement-account balance. The result is
// clamped to [0, liquidityBalance]: the cap can never exceed the observed
// balance and is never negative. Pure and deterministic; reused at approval
// time and at settlement-reconciliation time.
func ComputeNetDebitCap(fixedValue, percentage *decimal.Decimal, liquidityBalance decimal.Decimal, ndcType model.NdcType) (decimal.Decimal, error) {
	var raw decimal.Decimal
	switch ndcType {
	case model.NdcTypeAbsolute:
		if fixedValue == nil {
			return decimal.Zero, fmt.Errorf("%w: ABSOLUTE cap requires a fixed value", ErrInvalidNdcChangeRequest)
		}
		raw = *fixedValue
	case model.NdcTypePercentage:
		if percentage == nil {
			return decimal.Zero, fmt.Errorf("%w: PERCENTAGE cap requires a percentage", ErrInvalidNdcChangeRequest)
		}
		raw = percentage.Div(oneHundred).Mul(liquidityBalance).Floor()
	default:
		return decimal.Zero, fmt.Errorf("%w: unknown cap type %q", ErrInvalidNdcChangeRequest, ndcType)
	}

	if raw.IsNegative() {
		raw = decimal.Zero
	}
	capped := decimal.Min(raw, liquidityBalance)
	if capped.IsNegative() {
		capped = decimal.Zero
	}
	return capped, nil
}

func (h *Hubgov) ndcChangeOps() changeRequestOps[model.NdcChange] {
	return changeRequestOps[model.NdcChange]{
		idPrefix:         "ndcreq",
		createPrivilege:  auth.PrivCreateNdcChangeRequest,
		approvePrivilege: auth.PrivApproveNdcChangeRequest,
		requests: func(p *model.Participant) *[]model.ChangeRequest[model.NdcChange] {
			return &p.NdcChangeRequests
		},
		validate: validateNdcChange,
		findDuplicate: func(*model.Participant, *model.ChangeRequest[model.NdcChange]) error {
			// NDC approval upserts the single record per currency, so there
			// is no duplicate to detect.
			return nil
		},
		materialize: materializeNdcChange,

		requestLogAction: model.ChangeActionAddNdcRequest,
		approveLogAction: model.ChangeActionApproveNdcRequest,
		requestAudit:     AuditNdcChangeRequestCreated,
		approveAudit:     AuditNdcChangeRequestApproved,
		materializeAudit: AuditNdcAdded,
		eventAction:      AuditNdcAdded,

		errNotFound:        ErrNdcChangeRequestNotFound,
		errAlreadyApproved: ErrNdcChangeRequestAlreadyApproved,
	}
}

func validateNdcChange(payload model.NdcChange) error {
	if payload.CurrencyCode == "" {
		return fmt.Errorf("%w: currency code is required", ErrInvalidNdcChangeRequest)
	}
	switch payload.Type {
	case model.NdcTypeAbsolute:
		if payload.FixedValue == nil {
			return fmt.Errorf("%w: ABSOLUTE cap requires a fixed value", ErrInvalidNdcChangeRequest)
		}
	case model.NdcTypePercentage:
		if payload.Percentage == nil {
			return fmt.Errorf("%w: PERCENTAGE cap requires a percentage", ErrInvalidNdcChangeRequest)
		}
		if payload.Percentage.IsNegative() || payload.Percentage.GreaterThan(oneHundred) {
			return fmt.Errorf("%w: percentage must be between 0 and 100", ErrInvalidNdcChangeRequest)
		}
	default:
		return fmt.Errorf("%w: unknown cap type %q", ErrInvalidNdcChangeRequest, payload.Type)
	}
	return nil
}

// materializeNdcChange fetches the live settlement balance, runs the
// calculator and upserts the single NDC record for the currency.
func materializeNdcChange(ctx context.Context, h *Hubgov, p *model.Participant, req *model.ChangeRequest[model.NdcChange]) (string, model.ChangeAction, error) {
	payload := req.Payload

	settlementAccount := p.AccountByTypeAndCurrency(model.AccountTypeSettlement, payload.CurrencyCode)
	if settlementAccount == nil {
		return "", "", errors.Wrapf(ErrAccountNotFound, "no %s settlement account", payload.CurrencyCode)
	}

	liveAccount, err := h.ledger.GetAccount(ctx, settlementAccount.ID)
	if err != nil {
		return "", "", errors.Wrapf(err, "fetching settlement account %s", settlementAccount.ID)
	}

	capped, err := ComputeNetDebitCap(payload.FixedValue, payload.Percentage, liveAccount.Balance, payload.Type)
	if err != nil {
		return "", "", err
	}

	settlementAccount.DebitBalance = liveAccount.DebitBalance
	settlementAccount.CreditBalance = liveAccount.CreditBalance
	settlementAccount.Balance = liveAccount.Balance

	action := model.ChangeActionAddNdc
	if existing := p.NetDebitCapByCurrency(payload.CurrencyCode); existing != nil {
		existing.Type = payload.Type
		existing.Percentage = payload.Percentage
		existing.FixedValue = payload.FixedValue
		existing.CurrentValue = capped
		action = model.ChangeActionChangeNdc
	} else {
		p.NetDebitCaps = append(p.NetDebitCaps, model.NetDebitCap{
			CurrencyCode: payload.CurrencyCode,
			Type:         payload.Type,
			Percentage:   payload.Percentage,
			FixedValue:   payload.FixedValue,
			CurrentValue: capped,
		})
	}
	return payload.CurrencyCode, action, nil
}

// CreateParticipantNetDebitCap records a maker request to set a
// participant's net debit cap for one currency.
func (h *Hubgov) CreateParticipantNetDebitCap(ctx context.Context, sec *auth.SecurityContext, participantID string, req model.ChangeRequest[model.NdcChange]) (string, error) {
	return createChangeRequest(ctx, h, sec, participantID, req, h.ndcChangeOps())
}

// ApproveParticipantNetDebitCap approves a pending NDC change request,
// recomputing the cap from the live settlement balance.
func (h *Hubgov) ApproveParticipantNetDebitCap(ctx context.Context, sec *auth.SecurityContext, participantID, requestID string) (string, error) {
	return approveChangeRequest(ctx, h, sec, participantID, requestID, h.ndcChangeOps())
}
