package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"GuestFlow/bot/capture"
)

// SaveSession upserts a capture session by registration id.
func (m *MongoDB) SaveSession(ctx context.Context, session *capture.Session) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(sessionsCollection)

	filter := bson.D{{Key: "registration_id", Value: session.RegistrationID}}
	update := bson.D{{Key: "$set", Value: session}}
	opts := options.Update().SetUpsert(true)

	_, err = collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// LoadSession retrieves a capture session by registration id, (nil, nil)
// when none exists yet.
func (m *MongoDB) LoadSession(ctx context.Context, registrationID string) (*capture.Session, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(sessionsCollection)

	filter := bson.D{{Key: "registration_id", Value: registrationID}}

	var session capture.Session
	err = collection.FindOne(ctx, filter).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return &session, nil
}
