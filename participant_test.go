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
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tandempay/hubgov/auth"
	"github.com/tandempay/hubgov/model"
)

func TestCreateParticipant_GeneratesIDAndForcesInertState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id, err := env.h.CreateParticipant(ctx, makerCtx(), &model.Participant{
		Name:     gofakeit.Company(),
		IsActive: true, // caller-supplied state is ignored
		Approved: true,
	})
	require.NoError(t, err)
	assert.Len(t, id, 32)
	assert.False(t, strings.Contains(id, "-"))

	stored, err := env.repo.FetchWhereID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, model.ParticipantTypeRegular, stored.Type)
	assert.False(t, stored.Approved)
	assert.False(t, stored.IsActive)
	assert.Equal(t, "alice", stored.CreatedBy)
	require.NotEmpty(t, stored.ChangeLog)
	assert.Equal(t, model.ChangeActionCreate, stored.ChangeLog[0].ChangeType)
}

func TestCreateParticipant_Rejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.h.CreateParticipant(ctx, makerCtx(), &model.Participant{})
	assert.ErrorIs(t, err, ErrInvalidParticipant)

	_, err = env.h.CreateParticipant(ctx, makerCtx(), &model.Participant{Name: "x", Type: model.ParticipantTypeHub})
	assert.ErrorIs(t, err, ErrInvalidParticipant)

	_, err = env.h.CreateParticipant(ctx, makerCtx(), &model.Participant{ID: testHubID, Name: "x"})
	assert.ErrorIs(t, err, ErrInvalidParticipant)

	_, err = env.h.CreateParticipant(ctx, makerCtx(), &model.Participant{
		ID:   strings.Repeat("a", 33),
		Name: "x",
	})
	assert.ErrorIs(t, err, ErrInvalidParticipant)

	_, err = env.h.CreateParticipant(ctx, checkerCtx(), &model.Participant{Name: "x"})
	assert.ErrorIs(t, err, auth.ErrForbidden)
}

func TestCreateParticipant_DuplicateNameAndID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	name := gofakeit.Company()

	id, err := env.h.CreateParticipant(ctx, makerCtx(), &model.Participant{Name: name})
	require.NoError(t, err)

	_, err = env.h.CreateParticipant(ctx, makerCtx(), &model.Participant{Name: name})
	assert.ErrorIs(t, err, ErrParticipantAlreadyExists)

	_, err = env.h.CreateParticipant(ctx, makerCtx(), &model.Participant{ID: id, Name: gofakeit.Company()})
	assert.ErrorIs(t, err, ErrParticipantAlreadyExists)
}

func TestApproveParticipant_SelfApprovalBlocked(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// The creator holds the approver privilege too; the creator check must
	// still win.
	creator := superCtx("carol")
	id, err := env.h.CreateParticipant(ctx, creator, &model.Participant{Name: gofakeit.Company()})
	require.NoError(t, err)

	err = env.h.ApproveParticipant(ctx, creator, id)
	assert.ErrorIs(t, err, ErrMakerCheckerViolation)

	// The rejected attempt is audited as a failure.
	last := env.audit.Last()
	require.NotNil(t, last)
	assert.Equal(t, AuditParticipantApproved, last.Action)
	assert.False(t, last.Success)

	stored, err := env.repo.FetchWhereID(ctx, id)
	require.NoError(t, err)
	assert.False(t, stored.Approved)
}

func TestApproveParticipant_IsTerminal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id, err := env.h.CreateParticipant(ctx, makerCtx(), &model.Participant{Name: gofakeit.Company()})
	require.NoError(t, err)

	require.NoError(t, env.h.ApproveParticipant(ctx, checkerCtx(), id))

	stored, err := env.repo.FetchWhereID(ctx, id)
	require.NoError(t, err)
	assert.True(t, stored.Approved)
	assert.Equal(t, "bob", stored.ApprovedBy)

	err = env.h.ApproveParticipant(ctx, checkerCtx(), id)
	assert.ErrorIs(t, err, ErrParticipantAlreadyApproved)
}

func TestActivateParticipant_RequiresApproval(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id, err := env.h.CreateParticipant(ctx, makerCtx(), &model.Participant{Name: gofakeit.Company()})
	require.NoError(t, err)

	err = env.h.ActivateParticipant(ctx, makerCtx(), id)
	assert.ErrorIs(t, err, ErrParticipantNotApproved)
}

func TestActivateDeactivate_IdempotentNoOps(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id, err := env.h.CreateParticipant(ctx, makerCtx(), &model.Participant{Name: gofakeit.Company()})
	require.NoError(t, err)
	require.NoError(t, env.h.ApproveParticipant(ctx, checkerCtx(), id))
	require.NoError(t, env.h.ActivateParticipant(ctx, makerCtx(), id))

	before, err := env.repo.FetchWhereID(ctx, id)
	require.NoError(t, err)

	// Re-activating an active participant changes nothing.
	require.NoError(t, env.h.ActivateParticipant(ctx, makerCtx(), id))
	after, err := env.repo.FetchWhereID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, before.Version, after.Version)
	assert.Equal(t, len(before.ChangeLog), len(after.ChangeLog))

	require.NoError(t, env.h.DeactivateParticipant(ctx, makerCtx(), id))
	// And deactivating twice is equally silent.
	mid, err := env.repo.FetchWhereID(ctx, id)
	require.NoError(t, err)
	require.NoError(t, env.h.DeactivateParticipant(ctx, makerCtx(), id))
	final, err := env.repo.FetchWhereID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, mid.Version, final.Version)
}

func TestSearchParticipants_Filters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	activeID, err := env.h.CreateParticipant(ctx, makerCtx(), &model.Participant{Name: "North Clearing"})
	require.NoError(t, err)
	require.NoError(t, env.h.ApproveParticipant(ctx, checkerCtx(), activeID))
	require.NoError(t, env.h.ActivateParticipant(ctx, makerCtx(), activeID))

	_, err = env.h.CreateParticipant(ctx, makerCtx(), &model.Participant{Name: "South Clearing"})
	require.NoError(t, err)

	results, err := env.h.SearchParticipants(ctx, makerCtx(), "", "clearing", "ACTIVE")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, activeID, results[0].ID)

	results, err = env.h.SearchParticipants(ctx, makerCtx(), "", "clearing", "")
	require.NoError(t, err)
	assert.Len(t, results, 2)

	// South Clearing has not crossed the checker yet.
	results, err = env.h.SearchParticipants(ctx, makerCtx(), "", "clearing", "PENDING_APPROVAL")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "South Clearing", results[0].Name)
}

func TestGetParticipant_NotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.h.GetParticipant(context.Background(), makerCtx(), "missing")
	assert.ErrorIs(t, err, ErrParticipantNotFound)
}
