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

func TestValidateSourceIPChange(t *testing.T) {
	tests := []struct {
		name    string
		payload model.SourceIPChange
		wantErr bool
	}{
		{
			name:    "any port mode",
			payload: model.SourceIPChange{CIDR: "192.168.1.0/24", PortMode: model.PortModeAny},
		},
		{
			name:    "specific ports",
			payload: model.SourceIPChange{CIDR: "10.0.0.0/8", PortMode: model.PortModeSpecific, Ports: []uint16{443, 8443}},
		},
		{
			name:    "port range",
			payload: model.SourceIPChange{CIDR: "10.0.0.0/8", PortMode: model.PortModeRange, PortRangeFrom: 8000, PortRangeTo: 8100},
		},
		{
			name:    "malformed cidr",
			payload: model.SourceIPChange{CIDR: "300.0.0.1/24", PortMode: model.PortModeAny},
			wantErr: true,
		},
		{
			name:    "bare address not cidr",
			payload: model.SourceIPChange{CIDR: "10.0.0.1", PortMode: model.PortModeAny},
			wantErr: true,
		},
		{
			name:    "specific without ports",
			payload: model.SourceIPChange{CIDR: "10.0.0.0/8", PortMode: model.PortModeSpecific},
			wantErr: true,
		},
		{
			name:    "inverted range",
			payload: model.SourceIPChange{CIDR: "10.0.0.0/8", PortMode: model.PortModeRange, PortRangeFrom: 9000, PortRangeTo: 8000},
			wantErr: true,
		},
		{
			name:    "unknown port mode",
			payload: model.SourceIPChange{CIDR: "10.0.0.0/8", PortMode: "SOMETIMES"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSourceIPChange(tt.payload)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSourceIPChange)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSourceIP_DuplicateRuleAppliesToChangeToo(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	participant := env.seedParticipant(t, decimal.Zero)

	addReq, err := env.h.CreateParticipantSourceIPChangeRequest(ctx, makerCtx(), participant.ID,
		model.ChangeRequest[model.SourceIPChange]{
			Payload: model.SourceIPChange{CIDR: "10.1.0.0/16", PortMode: model.PortModeAny},
		})
	require.NoError(t, err)
	entryID, err := env.h.ApproveParticipantSourceIPChangeRequest(ctx, checkerCtx(), participant.ID, addReq)
	require.NoError(t, err)

	// Adding the same rule again is a duplicate.
	dupReq, err := env.h.CreateParticipantSourceIPChangeRequest(ctx, makerCtx(), participant.ID,
		model.ChangeRequest[model.SourceIPChange]{
			Payload: model.SourceIPChange{CIDR: "10.1.0.0/16", PortMode: model.PortModeAny},
		})
	require.NoError(t, err)
	_, err = env.h.ApproveParticipantSourceIPChangeRequest(ctx, checkerCtx(), participant.ID, dupReq)
	assert.ErrorIs(t, err, ErrDuplicateSourceIP)

	// A CHANGE that rewrites the entry to its current configuration is also
	// a duplicate; the target entry is not exempt from the comparison.
	noopReq, err := env.h.CreateParticipantSourceIPChangeRequest(ctx, makerCtx(), participant.ID,
		model.ChangeRequest[model.SourceIPChange]{
			RequestType: model.RequestTypeChange,
			Payload:     model.SourceIPChange{SourceIPID: entryID, CIDR: "10.1.0.0/16", PortMode: model.PortModeAny},
		})
	require.NoError(t, err)
	_, err = env.h.ApproveParticipantSourceIPChangeRequest(ctx, checkerCtx(), participant.ID, noopReq)
	assert.ErrorIs(t, err, ErrDuplicateSourceIP)

	// Narrowing the rule to a port range goes through and mutates in place.
	changeReq, err := env.h.CreateParticipantSourceIPChangeRequest(ctx, makerCtx(), participant.ID,
		model.ChangeRequest[model.SourceIPChange]{
			RequestType: model.RequestTypeChange,
			Payload: model.SourceIPChange{
				SourceIPID: entryID, CIDR: "10.1.0.0/16",
				PortMode: model.PortModeRange, PortRangeFrom: 8000, PortRangeTo: 8100,
			},
		})
	require.NoError(t, err)
	changedID, err := env.h.ApproveParticipantSourceIPChangeRequest(ctx, checkerCtx(), participant.ID, changeReq)
	require.NoError(t, err)
	assert.Equal(t, entryID, changedID)

	stored, err := env.repo.FetchWhereID(ctx, participant.ID)
	require.NoError(t, err)
	require.Len(t, stored.AllowedSourceIPs, 1)
	assert.Equal(t, model.PortModeRange, stored.AllowedSourceIPs[0].PortMode)
}
