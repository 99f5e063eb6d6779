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

package database

import (
	"context"
	"errors"

	"github.com/tandempay/hubgov/model"
)

// ErrVersionConflict is returned by Store when the stored participant's
// version no longer matches the one being written. The caller should refetch
// and retry.
var ErrVersionConflict = errors.New("participant version conflict")

// ParticipantRepository is the persistence contract for participant records.
// There are no transactions; Store replaces the whole record and reports
// boolean success.
type ParticipantRepository interface {
	FetchWhereID(ctx context.Context, id string) (*model.Participant, error)
	FetchWhereIDs(ctx context.Context, ids []string) ([]*model.Participant, error)
	FetchAll(ctx context.Context) ([]*model.Participant, error)
	SearchParticipants(ctx context.Context, id, name, state string) ([]*model.Participant, error)
	FetchWhereName(ctx context.Context, name string) (*model.Participant, error)
	Create(ctx context.Context, participant *model.Participant) (bool, error)
	Store(ctx context.Context, participant *model.Participant) (bool, error)
}
