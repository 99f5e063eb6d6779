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
	"net"

	"github.com/tandempay/hubgov/auth"
	"github.com/tandempay/hubgov/model"
)

func (h *Hubgov) sourceIPChangeOps() changeRequestOps[model.SourceIPChange] {
	return changeRequestOps[model.SourceIPChange]{
		idPrefix:         "sipreq",
		createPrivilege:  auth.PrivCreateSourceIPChangeRequest,
		approvePrivilege: auth.PrivApproveSourceIPChangeRequest,
		requests: func(p *model.Participant) *[]model.ChangeRequest[model.SourceIPChange] {
			return &p.SourceIPChangeRequests
		},
		validate:      validateSourceIPChange,
		findDuplicate: findDuplicateSourceIP,
		materialize:   materializeSourceIPChange,

		requestLogAction: model.ChangeActionAddSourceIPRequest,
		approveLogAction: model.ChangeActionApproveSourceIPRequest,
		requestAudit:     AuditSourceIPChangeRequestCreated,
		approveAudit:     AuditSourceIPChangeRequestApproved,
		materializeAudit: AuditSourceIPAdded,
		eventAction:      AuditSourceIPAdded,

		errNotFound:        ErrSourceIPChangeRequestNotFound,
		errAlreadyApproved: ErrSourceIPChangeRequestAlreadyApproved,
	}
}

func validateSourceIPChange(payload model.SourceIPChange) error {
	if _, _, err := net.ParseCIDR(payload.CIDR); err != nil {
		return fmt.Errorf("%w: malformed CIDR %q", ErrInvalidSourceIPChange, payload.CIDR)
	}
	switch payload.PortMode {
	case model.PortModeAny:
	case model.PortModeSpecific:
		if len(payload.Ports) == 0 {
			return fmt.Errorf("%w: SPECIFIC port mode requires at least one port", ErrInvalidSourceIPChange)
		}
	case model.PortModeRange:
		if payload.PortRangeFrom == 0 || payload.PortRangeTo == 0 || payload.PortRangeFrom > payload.PortRangeTo {
			return fmt.Errorf("%w: invalid port range %d-%d", ErrInvalidSourceIPChange, payload.PortRangeFrom, payload.PortRangeTo)
		}
	default:
		return fmt.Errorf("%w: unknown port mode %q", ErrInvalidSourceIPChange, payload.PortMode)
	}
	return nil
}

func sameSourceIPConfig(existing *model.SourceIP, payload *model.SourceIPChange) bool {
	if existing.CIDR != payload.CIDR || existing.PortMode != payload.PortMode {
		return false
	}
	if existing.PortRangeFrom != payload.PortRangeFrom || existing.PortRangeTo != payload.PortRangeTo {
		return false
	}
	if len(existing.Ports) != len(payload.Ports) {
		return false
	}
	for i := range existing.Ports {
		if existing.Ports[i] != payload.Ports[i] {
			return false
		}
	}
	return true
}

// findDuplicateSourceIP applies the same full-tuple comparison to ADD and
// CHANGE requests: a CHANGE whose new value matches any active entry, the
// target included, is a duplicate.
func findDuplicateSourceIP(p *model.Participant, req *model.ChangeRequest[model.SourceIPChange]) error {
	for i := range p.AllowedSourceIPs {
		if sameSourceIPConfig(&p.AllowedSourceIPs[i], &req.Payload) {
			return ErrDuplicateSourceIP
		}
	}
	return nil
}

func materializeSourceIPChange(_ context.Context, _ *Hubgov, p *model.Participant, req *model.ChangeRequest[model.SourceIPChange]) (string, model.ChangeAction, error) {
	payload := req.Payload

	if req.RequestType == model.RequestTypeChange {
		for i := range p.AllowedSourceIPs {
			if p.AllowedSourceIPs[i].ID == payload.SourceIPID {
				entry := &p.AllowedSourceIPs[i]
				entry.CIDR = payload.CIDR
				entry.PortMode = payload.PortMode
				entry.Ports = payload.Ports
				entry.PortRangeFrom = payload.PortRangeFrom
				entry.PortRangeTo = payload.PortRangeTo
				return entry.ID, model.ChangeActionChangeSourceIP, nil
			}
		}
		return "", "", ErrSourceIPChangeRequestNotFound
	}

	entry := model.SourceIP{
		ID:            model.GenerateUUIDWithPrefix("sip"),
		CIDR:          payload.CIDR,
		PortMode:      payload.PortMode,
		Ports:         payload.Ports,
		PortRangeFrom: payload.PortRangeFrom,
		PortRangeTo:   payload.PortRangeTo,
	}
	p.AllowedSourceIPs = append(p.AllowedSourceIPs, entry)
	return entry.ID, model.ChangeActionAddSourceIP, nil
}

// CreateParticipantSourceIPChangeRequest records a maker request to add or
// change an allowed source IP entry.
func (h *Hubgov) CreateParticipantSourceIPChangeRequest(ctx context.Context, sec *auth.SecurityContext, participantID string, req model.ChangeRequest[model.SourceIPChange]) (string, error) {
	return createChangeRequest(ctx, h, sec, participantID, req, h.sourceIPChangeOps())
}

// ApproveParticipantSourceIPChangeRequest approves a pending source IP
// change request and materializes it into the allow list.
func (h *Hubgov) ApproveParticipantSourceIPChangeRequest(ctx context.Context, sec *auth.SecurityContext, participantID, requestID string) (string, error) {
	return approveChangeRequest(ctx, h, sec, participantID, requestID, h.sourceIPChangeOps())
}
