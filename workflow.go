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

	"github.com/tandempay/hubgov/auth"
	"github.com/tandempay/hubgov/model"
)

// changeRequestOps is the capability set that specializes the generic
// maker-checker workflow for one change-request category. The lifecycle,
// authorization order and persistence steps are identical for every
// category; only validation, duplicate detection and materialization differ.
type changeRequestOps[P any] struct {
	idPrefix         string
	createPrivilege  string
	approvePrivilege string

	// requests selects the category's pending-request collection.
	requests func(p *model.Participant) *[]model.ChangeRequest[P]

	// validate checks the payload shape at request-creation time.
	validate func(payload P) error

	// findDuplicate checks the request against the live collection at
	// approval time. ADD requests compare against all existing active
	// records; CHANGE requests compare the full new value tuple against
	// existing tuples, not just the target record.
	findDuplicate func(p *model.Participant, req *model.ChangeRequest[P]) error

	// materialize applies the change to the live collection: a new id for
	// ADD, in-place mutation for CHANGE. It returns the materialized id and
	// the change-log action describing what happened.
	materialize func(ctx context.Context, h *Hubgov, p *model.Participant, req *model.ChangeRequest[P]) (string, model.ChangeAction, error)

	requestLogAction model.ChangeAction
	approveLogAction model.ChangeAction

	requestAudit     string
	approveAudit     string
	materializeAudit string
	eventAction      string

	// changeAudit, when set, replaces materializeAudit and eventAction for
	// CHANGE materializations so mutations audit distinctly from additions.
	changeAudit string

	errNotFound        error
	errAlreadyApproved error
}

// createChangeRequest appends a pending maker request to the participant and
// persists it. The request is inert until a different user approves it.
func createChangeRequest[P any](ctx context.Context, h *Hubgov, sec *auth.SecurityContext,
	participantID string, req model.ChangeRequest[P], ops changeRequestOps[P]) (string, error) {

	if err := auth.CheckPrivilege(h.authz, sec, ops.createPrivilege); err != nil {
		return "", err
	}

	participant, err := h.fetchParticipant(ctx, participantID)
	if err != nil {
		return "", err
	}

	if err := ops.validate(req.Payload); err != nil {
		return "", err
	}

	if req.RequestType == "" {
		req.RequestType = model.RequestTypeAdd
	}
	req.ID = model.GenerateUUIDWithPrefix(ops.idPrefix)
	req.CreatedBy = sec.Username
	req.CreatedDate = model.NowMillis()
	req.Approved = false
	req.ApprovedBy = ""
	req.ApprovedDate = 0

	pending := ops.requests(participant)
	*pending = append(*pending, req)
	participant.AddChangeLogEntry(ops.requestLogAction, sec.Username, model.NowMillis())

	if err := h.persist(ctx, participant); err != nil {
		return "", err
	}

	h.audit(ctx, sec, ops.requestAudit, true,
		AuditKV{Key: "participantId", Value: participantID},
		AuditKV{Key: "requestId", Value: req.ID},
	)
	return req.ID, nil
}

// approveChangeRequest runs the checker side: self-approval is rejected (and
// audited as a failed attempt) before the approver privilege is even looked
// at, so a maker who also holds the approver privilege is still blocked.
// Approval is terminal; the materialized change and the approval are logged
// with strictly increasing timestamps so ordering is deterministic on tie.
func approveChangeRequest[P any](ctx context.Context, h *Hubgov, sec *auth.SecurityContext,
	participantID, requestID string, ops changeRequestOps[P]) (string, error) {

	participant, err := h.fetchParticipant(ctx, participantID)
	if err != nil {
		return "", err
	}

	pending := ops.requests(participant)
	var req *model.ChangeRequest[P]
	for i := range *pending {
		if (*pending)[i].ID == requestID {
			req = &(*pending)[i]
			break
		}
	}
	if req == nil {
		return "", ops.errNotFound
	}
	if req.Approved {
		return "", ops.errAlreadyApproved
	}

	if req.CreatedBy == sec.Username {
		h.audit(ctx, sec, ops.approveAudit, false,
			AuditKV{Key: "participantId", Value: participantID},
			AuditKV{Key: "requestId", Value: requestID},
			AuditKV{Key: "reason", Value: "maker-checker violation"},
		)
		return "", ErrMakerCheckerViolation
	}

	if err := auth.CheckPrivilege(h.authz, sec, ops.approvePrivilege); err != nil {
		return "", err
	}

	if err := ops.findDuplicate(participant, req); err != nil {
		return "", err
	}

	materializedID, logAction, err := ops.materialize(ctx, h, participant, req)
	if err != nil {
		return "", err
	}

	now := model.NowMillis()
	req.Approved = true
	req.ApprovedBy = sec.Username
	req.ApprovedDate = now

	participant.AddChangeLogEntry(ops.approveLogAction, sec.Username, now)
	participant.AddChangeLogEntry(logAction, sec.Username, now+1)

	if err := h.persist(ctx, participant); err != nil {
		return "", err
	}

	materializeAudit := ops.materializeAudit
	eventAction := ops.eventAction
	if req.RequestType == model.RequestTypeChange && ops.changeAudit != "" {
		materializeAudit = ops.changeAudit
		eventAction = ops.changeAudit
	}

	kv := []AuditKV{
		{Key: "participantId", Value: participantID},
		{Key: "requestId", Value: requestID},
		{Key: "materializedId", Value: materializedID},
	}
	h.audit(ctx, sec, ops.approveAudit, true, kv...)
	h.audit(ctx, sec, materializeAudit, true, kv...)
	h.emit(ctx, participantID, eventAction)
	return materializedID, nil
}
