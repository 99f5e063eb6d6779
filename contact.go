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
	"net/mail"

	"github.com/tandempay/hubgov/auth"
	"github.com/tandempay/hubgov/model"
)

func (h *Hubgov) contactInfoChangeOps() changeRequestOps[model.ContactInfoChange] {
	return changeRequestOps[model.ContactInfoChange]{
		idPrefix:         "ctcreq",
		createPrivilege:  auth.PrivCreateContactInfoChangeRequest,
		approvePrivilege: auth.PrivApproveContactInfoChangeRequest,
		requests: func(p *model.Participant) *[]model.ChangeRequest[model.ContactInfoChange] {
			return &p.ContactChangeRequests
		},
		validate:      validateContactInfoChange,
		findDuplicate: findDuplicateContact,
		materialize:   materializeContactInfoChange,

		requestLogAction: model.ChangeActionAddContactInfoRequest,
		approveLogAction: model.ChangeActionApproveContactInfoReq,
		requestAudit:     AuditContactInfoChangeRequestCreated,
		approveAudit:     AuditContactInfoChangeRequestApproved,
		materializeAudit: AuditContactInfoAdded,
		eventAction:      AuditContactInfoAdded,

		errNotFound:        ErrContactInfoChangeRequestNotFound,
		errAlreadyApproved: ErrContactChangeRequestAlreadyApproved,
	}
}

func validateContactInfoChange(payload model.ContactInfoChange) error {
	if payload.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidContactInfoChange)
	}
	if payload.Email != "" {
		if _, err := mail.ParseAddress(payload.Email); err != nil {
			return fmt.Errorf("%w: malformed email %q", ErrInvalidContactInfoChange, payload.Email)
		}
	}
	if payload.Email == "" && payload.PhoneNumber == "" {
		return fmt.Errorf("%w: an email or phone number is required", ErrInvalidContactInfoChange)
	}
	return nil
}

// A contact collides when any of name, email or phone matches an existing
// record. The rule applies to CHANGE requests too, the current target
// included.
func findDuplicateContact(p *model.Participant, req *model.ChangeRequest[model.ContactInfoChange]) error {
	payload := req.Payload
	for i := range p.Contacts {
		existing := &p.Contacts[i]
		if existing.Name == payload.Name {
			return ErrDuplicateContact
		}
		if payload.Email != "" && existing.Email == payload.Email {
			return ErrDuplicateContact
		}
		if payload.PhoneNumber != "" && existing.PhoneNumber == payload.PhoneNumber {
			return ErrDuplicateContact
		}
	}
	return nil
}

func materializeContactInfoChange(_ context.Context, _ *Hubgov, p *model.Participant, req *model.ChangeRequest[model.ContactInfoChange]) (string, model.ChangeAction, error) {
	payload := req.Payload

	if req.RequestType == model.RequestTypeChange {
		for i := range p.Contacts {
			if p.Contacts[i].ID == payload.ContactID {
				contact := &p.Contacts[i]
				contact.Name = payload.Name
				contact.Email = payload.Email
				contact.PhoneNumber = payload.PhoneNumber
				contact.Role = payload.Role
				return contact.ID, model.ChangeActionChangeContactInfo, nil
			}
		}
		return "", "", ErrContactInfoChangeRequestNotFound
	}

	contact := model.Contact{
		ID:          model.GenerateUUIDWithPrefix("ctc"),
		Name:        payload.Name,
		Email:       payload.Email,
		PhoneNumber: payload.PhoneNumber,
		Role:        payload.Role,
	}
	p.Contacts = append(p.Contacts, contact)
	return contact.ID, model.ChangeActionAddContactInfo, nil
}

// CreateParticipantContactInfoChangeRequest records a maker request to add or
// change a contact.
func (h *Hubgov) CreateParticipantContactInfoChangeRequest(ctx context.Context, sec *auth.SecurityContext, participantID string, req model.ChangeRequest[model.ContactInfoChange]) (string, error) {
	return createChangeRequest(ctx, h, sec, participantID, req, h.contactInfoChangeOps())
}

// ApproveParticipantContactInfoChangeRequest approves a pending contact-info
// change request and materializes it.
func (h *Hubgov) ApproveParticipantContactInfoChangeRequest(ctx context.Context, sec *auth.SecurityContext, participantID, requestID string) (string, error) {
	return approveChangeRequest(ctx, h, sec, participantID, requestID, h.contactInfoChangeOps())
}
