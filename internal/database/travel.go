package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"GuestFlow/entity"
)

// SaveTravel upserts a travel record by registration id.
func (m *MongoDB) SaveTravel(ctx context.Context, record *entity.TravelRecord) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(travelCollection)

	filter := bson.D{{Key: "registration_id", Value: record.RegistrationID}}
	update := bson.D{{Key: "$set", Value: record}}
	opts := options.Update().SetUpsert(true)

	_, err = collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// LoadTravel retrieves a travel record by registration id, (nil, nil) when
// none exists yet.
func (m *MongoDB) LoadTravel(ctx context.Context, registrationID string) (*entity.TravelRecord, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(travelCollection)

	filter := bson.D{{Key: "registration_id", Value: registrationID}}

	var record entity.TravelRecord
	err = collection.FindOne(ctx, filter).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return &record, nil
}
