package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"GuestFlow/entity"
)

// GetRegistration retrieves a registration by id, (nil, nil) when unknown.
func (m *MongoDB) GetRegistration(ctx context.Context, id string) (*entity.Registration, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(registrationsCollection)

	var reg entity.Registration
	err = collection.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&reg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return &reg, nil
}

// GetRegistrationByPhone retrieves a registration by the guest's phone
// number (digits only), (nil, nil) when unknown.
func (m *MongoDB) GetRegistrationByPhone(ctx context.Context, phone string) (*entity.Registration, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(registrationsCollection)

	var reg entity.Registration
	err = collection.FindOne(ctx, bson.D{{Key: "guest_phone", Value: entity.NormalizePhone(phone)}}).Decode(&reg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return &reg, nil
}

// TouchResponded stamps the registration's last inbound reply time. Shared
// by the travel and RSVP flows; it feeds the 24-hour window check.
func (m *MongoDB) TouchResponded(ctx context.Context, registrationID string, at time.Time) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(registrationsCollection)

	filter := bson.D{{Key: "_id", Value: registrationID}}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "responded_on", Value: at}}}}

	_, err = collection.UpdateOne(ctx, filter, update)
	return err
}

// SetRSVPStatus writes the registration's RSVP status.
func (m *MongoDB) SetRSVPStatus(ctx context.Context, registrationID, status string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(registrationsCollection)

	filter := bson.D{{Key: "_id", Value: registrationID}}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "rsvp_status", Value: status}}}}

	_, err = collection.UpdateOne(ctx, filter, update)
	return err
}
