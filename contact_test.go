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

func TestValidateContactInfoChange(t *testing.T) {
	tests := []struct {
		name    string
		payload model.ContactInfoChange
		wantErr bool
	}{
		{
			name:    "email only",
			payload: model.ContactInfoChange{Name: "Ops", Email: "ops@example.com"},
		},
		{
			name:    "phone only",
			payload: model.ContactInfoChange{Name: "Ops", PhoneNumber: "+4915112345678"},
		},
		{
			name:    "missing name",
			payload: model.ContactInfoChange{Email: "ops@example.com"},
			wantErr: true,
		},
		{
			name:    "neither email nor phone",
			payload: model.ContactInfoChange{Name: "Ops"},
			wantErr: true,
		},
		{
			name:    "malformed email",
			payload: model.ContactInfoChange{Name: "Ops", Email: "not-an-email"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateContactInfoChange(tt.payload)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidContactInfoChange)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestContact_DuplicateOnAnyIdentifier(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	participant := env.seedParticipant(t, decimal.Zero)

	addReq, err := env.h.CreateParticipantContactInfoChangeRequest(ctx, makerCtx(), participant.ID,
		model.ChangeRequest[model.ContactInfoChange]{
			Payload: model.ContactInfoChange{Name: "Ops Desk", Email: "ops@example.com", PhoneNumber: "+12025550100"},
		})
	require.NoError(t, err)
	_, err = env.h.ApproveParticipantContactInfoChangeRequest(ctx, checkerCtx(), participant.ID, addReq)
	require.NoError(t, err)

	// Any single matching identifier is enough to collide.
	collisions := []model.ContactInfoChange{
		{Name: "Ops Desk", Email: "other@example.com"},
		{Name: "Someone Else", Email: "ops@example.com"},
		{Name: "Someone Else", PhoneNumber: "+12025550100"},
	}
	for _, payload := range collisions {
		reqID, err := env.h.CreateParticipantContactInfoChangeRequest(ctx, makerCtx(), participant.ID,
			model.ChangeRequest[model.ContactInfoChange]{Payload: payload})
		require.NoError(t, err)
		_, err = env.h.ApproveParticipantContactInfoChangeRequest(ctx, checkerCtx(), participant.ID, reqID)
		assert.ErrorIs(t, err, ErrDuplicateContact)
	}

	// A fully distinct contact is fine.
	freshReq, err := env.h.CreateParticipantContactInfoChangeRequest(ctx, makerCtx(), participant.ID,
		model.ChangeRequest[model.ContactInfoChange]{
			Payload: model.ContactInfoChange{Name: "Treasury Desk", Email: "treasury@example.com"},
		})
	require.NoError(t, err)
	_, err = env.h.ApproveParticipantContactInfoChangeRequest(ctx, checkerCtx(), participant.ID, freshReq)
	require.NoError(t, err)

	stored, err := env.repo.FetchWhereID(ctx, participant.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Contacts, 2)
}
