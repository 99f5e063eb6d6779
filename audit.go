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
	"strings"

	"github.com/tandempay/hubgov/auth"
	"github.com/tandempay/hubgov/model"
)

// Audit action names recorded for every governance operation, successful or
// rejected.
const (
	AuditParticipantCreated  = "PARTICIPANT_CREATED"
	AuditParticipantApproved = "PARTICIPANT_APPROVED"
	AuditParticipantEnabled  = "PARTICIPANT_ENABLED"
	AuditParticipantDisabled = "PARTICIPANT_DISABLED"

	AuditParticipantAccountAdded      = "PARTICIPANT_ACCOUNT_ADDED"
	AuditParticipantAccountChanged    = "PARTICIPANT_ACCOUNT_CHANGED"
	AuditAccountChangeRequestCreated  = "PARTICIPANT_ACCOUNT_CHANGE_REQUEST_CREATED"
	AuditAccountChangeRequestApproved = "PARTICIPANT_ACCOUNT_CHANGE_REQUEST_APPROVED"

	AuditEndpointAdded   = "PARTICIPANT_ENDPOINT_ADDED"
	AuditEndpointChanged = "PARTICIPANT_ENDPOINT_CHANGED"
	AuditEndpointRemoved = "PARTICIPANT_ENDPOINT_REMOVED"

	AuditSourceIPAdded                 = "PARTICIPANT_SOURCE_IP_ADDED"
	AuditSourceIPChangeRequestCreated  = "PARTICIPANT_SOURCE_IP_CHANGE_REQUEST_CREATED"
	AuditSourceIPChangeRequestApproved = "PARTICIPANT_SOURCE_IP_CHANGE_REQUEST_APPROVED"

	AuditContactInfoAdded                 = "PARTICIPANT_CONTACT_INFO_ADDED"
	AuditContactInfoChangeRequestCreated  = "PARTICIPANT_CONTACT_INFO_CHANGE_REQUEST_CREATED"
	AuditContactInfoChangeRequestApproved = "PARTICIPANT_CONTACT_INFO_CHANGE_REQUEST_APPROVED"

	AuditNdcAdded                 = "PARTICIPANT_NDC_ADDED"
	AuditNdcChangeRequestCreated  = "PARTICIPANT_NDC_CHANGE_REQUEST_CREATED"
	AuditNdcChangeRequestApproved = "PARTICIPANT_NDC_CHANGE_REQUEST_APPROVED"
	AuditNdcRecalculated          = "PARTICIPANT_NDC_RECALCULATED"

	AuditFundsMovementCreated  = "PARTICIPANT_FUNDS_MOVEMENT_CREATED"
	AuditFundsMovementApproved = "PARTICIPANT_FUNDS_MOVEMENT_APPROVED"

	AuditSettlementMatrixProcessed = "SETTLEMENT_MATRIX_PROCESSED"
)

// AuditKV is one key/value pair attached to an audit record.
type AuditKV struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// AuditRecord is the wire shape of one audit entry.
type AuditRecord struct {
	Action    string    `json:"action"`
	Success   bool      `json:"success"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	AppID     string    `json:"app_id"`
	Fields    []AuditKV `json:"fields,omitempty"`
	Timestamp int64     `json:"timestamp"`
}

// Auditor records governance actions. Fire-and-forget: a failed audit call is
// logged but never retried or escalated by the caller.
type Auditor interface {
	Audit(ctx context.Context, action string, success bool, sec *auth.SecurityContext, fields []AuditKV)
}

// EventEmitter publishes a domain change event after every successful
// mutating action.
type EventEmitter interface {
	ParticipantChanged(ctx context.Context, participantID, actionName string)
}

// DedupStore marks keys as processed, atomically. Used to drop redelivered
// settlement events. Remove releases a key claimed for an attempt that
// failed, so the messaging layer's redelivery can try again.
type DedupStore interface {
	SetIfAbsent(ctx context.Context, key string) (bool, error)
	Remove(ctx context.Context, key string) error
}

func newAuditRecord(action string, success bool, sec *auth.SecurityContext, fields []AuditKV) AuditRecord {
	record := AuditRecord{
		Action:    action,
		Success:   success,
		Fields:    fields,
		Timestamp: model.NowMillis(),
	}
	if sec != nil {
		record.UserID = sec.Username
		record.AppID = sec.ClientID
		record.Role = strings.Join(sec.PlatformRoleIDs, ",")
	}
	return record
}
