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

	"github.com/tandempay/hubgov/auth"
	"github.com/tandempay/hubgov/model"
)

const maxParticipantIDLength = 32

// CreateParticipant registers a new participant in unapproved, inactive
// state. The hub type and the reserved hub id are rejected; only Bootstrap
// may create the hub participant.
func (h *Hubgov) CreateParticipant(ctx context.Context, sec *auth.SecurityContext, participant *model.Participant) (string, error) {
	if err := auth.CheckPrivilege(h.authz, sec, auth.PrivCreateParticipant); err != nil {
		return "", err
	}

	if participant.Name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidParticipant)
	}
	if participant.Type == model.ParticipantTypeHub {
		return "", fmt.Errorf("%w: type HUB is system-reserved", ErrInvalidParticipant)
	}
	if participant.ID == h.hubID {
		return "", fmt.Errorf("%w: id %s is reserved", ErrInvalidParticipant, h.hubID)
	}
	if len(participant.ID) > maxParticipantIDLength {
		return "", fmt.Errorf("%w: id exceeds %d characters", ErrInvalidParticipant, maxParticipantIDLength)
	}

	existing, err := h.repo.FetchWhereName(ctx, participant.Name)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", fmt.Errorf("%w: name %s", ErrParticipantAlreadyExists, participant.Name)
	}

	if participant.ID == "" {
		participant.ID = model.GenerateParticipantID()
	} else {
		byID, err := h.repo.FetchWhereID(ctx, participant.ID)
		if err != nil {
			return "", err
		}
		if byID != nil {
			return "", fmt.Errorf("%w: id %s", ErrParticipantAlreadyExists, participant.ID)
		}
	}

	participant.Type = model.ParticipantTypeRegular
	participant.IsActive = false
	participant.Approved = false
	participant.ApprovedBy = ""
	participant.ApprovedDate = 0
	participant.CreatedBy = sec.Username
	participant.CreatedDate = model.NowMillis()
	participant.AddChangeLogEntry(model.ChangeActionCreate, sec.Username, model.NowMillis())

	ok, err := h.repo.Create(ctx, participant)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrCouldNotStoreParticipant
	}

	h.audit(ctx, sec, AuditParticipantCreated, true, AuditKV{Key: "participantId", Value: participant.ID})
	h.emit(ctx, participant.ID, AuditParticipantCreated)
	return participant.ID, nil
}

// ApproveParticipant is the checker side of participant creation. The
// creator cannot approve their own participant, whatever privileges they
// hold.
func (h *Hubgov) ApproveParticipant(ctx context.Context, sec *auth.SecurityContext, participantID string) error {
	participant, err := h.fetchParticipant(ctx, participantID)
	if err != nil {
		return err
	}
	if participant.Approved {
		return ErrParticipantAlreadyApproved
	}

	if participant.CreatedBy == sec.Username {
		h.audit(ctx, sec, AuditParticipantApproved, false,
			AuditKV{Key: "participantId", Value: participantID},
			AuditKV{Key: "reason", Value: "maker-checker violation"},
		)
		return ErrMakerCheckerViolation
	}

	if err := auth.CheckPrivilege(h.authz, sec, auth.PrivApproveParticipant); err != nil {
		return err
	}

	now := model.NowMillis()
	participant.Approved = true
	participant.ApprovedBy = sec.Username
	participant.ApprovedDate = now
	participant.AddChangeLogEntry(model.ChangeActionApprove, sec.Username, now)

	if err := h.persist(ctx, participant); err != nil {
		return err
	}

	h.audit(ctx, sec, AuditParticipantApproved, true, AuditKV{Key: "participantId", Value: participantID})
	h.emit(ctx, participantID, AuditParticipantApproved)
	return nil
}

// ActivateParticipant enables an approved participant. Re-activating an
// already active participant is a silent no-op.
func (h *Hubgov) ActivateParticipant(ctx context.Context, sec *auth.SecurityContext, participantID string) error {
	if err := auth.CheckPrivilege(h.authz, sec, auth.PrivEnableParticipant); err != nil {
		return err
	}

	participant, err := h.fetchParticipant(ctx, participantID)
	if err != nil {
		return err
	}
	if !participant.Approved {
		return ErrParticipantNotApproved
	}
	if participant.IsActive {
		return nil
	}

	participant.IsActive = true
	participant.AddChangeLogEntry(model.ChangeActionActivate, sec.Username, model.NowMillis())

	if err := h.persist(ctx, participant); err != nil {
		return err
	}

	h.audit(ctx, sec, AuditParticipantEnabled, true, AuditKV{Key: "participantId", Value: participantID})
	h.emit(ctx, participantID, AuditParticipantEnabled)
	return nil
}

// DeactivateParticipant disables a participant. Deactivating an already
// inactive participant is a silent no-op.
func (h *Hubgov) DeactivateParticipant(ctx context.Context, sec *auth.SecurityContext, participantID string) error {
	if err := auth.CheckPrivilege(h.authz, sec, auth.PrivDisableParticipant); err != nil {
		return err
	}

	participant, err := h.fetchParticipant(ctx, participantID)
	if err != nil {
		return err
	}
	if !participant.IsActive {
		return nil
	}

	participant.IsActive = false
	participant.AddChangeLogEntry(model.ChangeActionDeactivate, sec.Username, model.NowMillis())

	if err := h.persist(ctx, participant); err != nil {
		return err
	}

	h.audit(ctx, sec, AuditParticipantDisabled, true, AuditKV{Key: "participantId", Value: participantID})
	h.emit(ctx, participantID, AuditParticipantDisabled)
	return nil
}

// GetParticipant retrieves a single participant.
func (h *Hubgov) GetParticipant(ctx context.Context, sec *auth.SecurityContext, participantID string) (*model.Participant, error) {
	if err := auth.CheckPrivilege(h.authz, sec, auth.PrivViewParticipant); err != nil {
		return nil, err
	}
	return h.fetchParticipant(ctx, participantID)
}

// GetAllParticipants lists every participant.
func (h *Hubgov) GetAllParticipants(ctx context.Context, sec *auth.SecurityContext) ([]*model.Participant, error) {
	if err := auth.CheckPrivilege(h.authz, sec, auth.PrivViewParticipant); err != nil {
		return nil, err
	}
	return h.repo.FetchAll(ctx)
}

// SearchParticipants filters participants by partial id, partial name and
// state (ACTIVE, INACTIVE or PENDING_APPROVAL).
func (h *Hubgov) SearchParticipants(ctx context.Context, sec *auth.SecurityContext, id, name, state string) ([]*model.Participant, error) {
	if err := auth.CheckPrivilege(h.authz, sec, auth.PrivViewParticipant); err != nil {
		return nil, err
	}
	return h.repo.SearchParticipants(ctx, id, name, state)
}
