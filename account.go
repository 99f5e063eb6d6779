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

func (h *Hubgov) accountChangeOps() changeRequestOps[model.AccountChange] {
	return changeRequestOps[model.AccountChange]{
		idPrefix:         "accreq",
		createPrivilege:  auth.PrivCreateAccountChangeRequest,
		approvePrivilege: auth.PrivApproveAccountChangeRequest,
		requests: func(p *model.Participant) *[]model.ChangeRequest[model.AccountChange] {
			return &p.AccountChangeRequests
		},
		validate:      validateAccountChange,
		findDuplicate: findDuplicateAccount,
		materialize:   materializeAccountChange,

		requestLogAction: model.ChangeActionAddAccountRequest,
		approveLogAction: model.ChangeActionApproveAccountRequest,
		requestAudit:     AuditAccountChangeRequestCreated,
		approveAudit:     AuditAccountChangeRequestApproved,
		materializeAudit: AuditParticipantAccountAdded,
		eventAction:      AuditParticipantAccountAdded,
		changeAudit:      AuditParticipantAccountChanged,

		errNotFound:        ErrAccountChangeRequestNotFound,
		errAlreadyApproved: ErrAccountChangeRequestAlreadyApproved,
	}
}

func validateAccountChange(payload model.AccountChange) error {
	if payload.CurrencyCode == "" {
		return fmt.Errorf("%w: currency code is required", ErrInvalidAccountChange)
	}
	// Hub account types exist only on the hub participant and are created by
	// bootstrap, never through a change request.
	if model.IsHubAccountType(payload.Type) {
		return fmt.Errorf("%w: account type %s is system-reserved", ErrInvalidAccountChange, payload.Type)
	}
	if payload.Type != model.AccountTypePosition && payload.Type != model.AccountTypeSettlement {
		return fmt.Errorf("%w: unknown account type %q", ErrInvalidAccountChange, payload.Type)
	}
	// Only settlement accounts carry external bank account metadata.
	if payload.Type != model.AccountTypeSettlement &&
		(payload.ExternalBankAccountID != "" || payload.ExternalBankAccountName != "") {
		return fmt.Errorf("%w: only settlement accounts carry bank account details", ErrInvalidAccountChange)
	}
	return nil
}

func findDuplicateAccount(p *model.Participant, req *model.ChangeRequest[model.AccountChange]) error {
	payload := req.Payload
	for i := range p.Accounts {
		existing := &p.Accounts[i]
		if req.RequestType == model.RequestTypeAdd {
			if existing.Type == payload.Type && existing.CurrencyCode == payload.CurrencyCode {
				return ErrDuplicateAccount
			}
			continue
		}
		// CHANGE: the full new value tuple must differ from every existing
		// record, the current target included. A change to values already
		// present is rejected as a duplicate.
		if existing.Type == payload.Type &&
			existing.CurrencyCode == payload.CurrencyCode &&
			existing.ExternalBankAccountID == payload.ExternalBankAccountID &&
			existing.ExternalBankAccountName == payload.ExternalBankAccountName {
			return ErrDuplicateAccount
		}
	}
	return nil
}

func materializeAccountChange(ctx context.Context, h *Hubgov, p *model.Participant, req *model.ChangeRequest[model.AccountChange]) (string, model.ChangeAction, error) {
	payload := req.Payload

	if req.RequestType == model.RequestTypeChange {
		var target *model.Account
		for i := range p.Accounts {
			if p.Accounts[i].ID == payload.AccountID {
				target = &p.Accounts[i]
				break
			}
		}
		if target == nil {
			return "", "", ErrAccountNotFound
		}
		target.ExternalBankAccountID = payload.ExternalBankAccountID
		target.ExternalBankAccountName = payload.ExternalBankAccountName
		return target.ID, model.ChangeActionChangeAccountBankDetails, nil
	}

	accountID, err := h.ledger.CreateAccount(ctx, ledger.CreateAccountRequest{
		RequestedID:  model.GenerateUUIDWithPrefix("acc"),
		OwnerID:      p.ID,
		Type:         string(payload.Type),
		CurrencyCode: payload.CurrencyCode,
	})
	if err != nil {
		return "", "", errors.Wrapf(ErrUnableToCreateAccountUpstream, "%s %s: %v", payload.Type, payload.CurrencyCode, err)
	}

	p.Accounts = append(p.Accounts, model.Account{
		ID:                      accountID,
		Type:                    payload.Type,
		CurrencyCode:            payload.CurrencyCode,
		ExternalBankAccountID:   payload.ExternalBankAccountID,
		ExternalBankAccountName: payload.ExternalBankAccountName,
	})
	return accountID, model.ChangeActionAddAccount, nil
}

// CreateParticipantAccountChangeRequest records a maker request to add an
// account or change a settlement account's bank details.
func (h *Hubgov) CreateParticipantAccountChangeRequest(ctx context.Context, sec *auth.SecurityContext, participantID string, req model.ChangeRequest[model.AccountChange]) (string, error) {
	return createChangeRequest(ctx, h, sec, participantID, req, h.accountChangeOps())
}

// ApproveParticipantAccountChangeRequest approves a pending account change
// request and materializes it, opening the ledger account for ADD requests.
func (h *Hubgov) ApproveParticipantAccountChangeRequest(ctx context.Context, sec *auth.SecurityContext, participantID, requestID string) (string, error) {
	return approveChangeRequest(ctx, h, sec, participantID, requestID, h.accountChangeOps())
}
