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
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tandempay/hubgov/config"
	"github.com/tandempay/hubgov/model"
)

const participantsCollection = "participants"

type mongoRepository struct {
	client   *mongo.Client
	database string
}

// NewMongoRepository connects to the configured document store and returns a
// ParticipantRepository backed by it.
func NewMongoRepository(cfg *config.Configuration) (ParticipantRepository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.DataSource.Dns))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	logrus.Info("mongodb connected")
	return &mongoRepository{client: client, database: cfg.DataSource.Database}, nil
}

func (m *mongoRepository) collection() *mongo.Collection {
	return m.client.Database(m.database).Collection(participantsCollection)
}

func (m *mongoRepository) FetchWhereID(ctx context.Context, id string) (*model.Participant, error) {
	var participant model.Participant
	err := m.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&participant)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

func (m *mongoRepository) FetchWhereIDs(ctx context.Context, ids []string) ([]*model.Participant, error) {
	cursor, err := m.collection().Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	return decodeParticipants(ctx, cursor)
}

func (m *mongoRepository) FetchAll(ctx context.Context) ([]*model.Participant, error) {
	cursor, err := m.collection().Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	return decodeParticipants(ctx, cursor)
}

func (m *mongoRepository) SearchParticipants(ctx context.Context, id, name, state string) ([]*model.Participant, error) {
	filter := bson.M{}
	if id != "" {
		filter["_id"] = bson.M{"$regex": id, "$options": "i"}
	}
	if name != "" {
		filter["name"] = bson.M{"$regex": name, "$options": "i"}
	}
	switch state {
	case "ACTIVE":
		filter["is_active"] = true
	case "INACTIVE":
		filter["is_active"] = false
	case "PENDING_APPROVAL":
		filter["approved"] = false
	}
	cursor, err := m.collection().Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	return decodeParticipants(ctx, cursor)
}

func (m *mongoRepository) FetchWhereName(ctx context.Context, name string) (*model.Participant, error) {
	var participant model.Participant
	err := m.collection().FindOne(ctx, bson.M{"name": name}).Decode(&participant)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

func (m *mongoRepository) Create(ctx context.Context, participant *model.Participant) (bool, error) {
	_, err := m.collection().InsertOne(ctx, participant)
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Store replaces the whole participant record. The replace filter matches the
// version the caller fetched; a missed match means another writer got there
// first and the caller must refetch.
func (m *mongoRepository) Store(ctx context.Context, participant *model.Participant) (bool, error) {
	currentVersion := participant.Version
	participant.Version = currentVersion + 1
	result, err := m.collection().ReplaceOne(
		ctx,
		bson.M{"_id": participant.ID, "version": currentVersion},
		participant,
	)
	if err != nil {
		participant.Version = currentVersion
		return false, err
	}
	if result.MatchedCount == 0 {
		participant.Version = currentVersion
		return false, ErrVersionConflict
	}
	return true, nil
}

func decodeParticipants(ctx context.Context, cursor *mongo.Cursor) ([]*model.Participant, error) {
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			logrus.Error(err)
		}
	}()
	var participants []*model.Participant
	for cursor.Next(ctx) {
		var participant model.Participant
		if err := cursor.Decode(&participant); err != nil {
			return nil, err
		}
		participants = append(participants, &participant)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return participants, nil
}
