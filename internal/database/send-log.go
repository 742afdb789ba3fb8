package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"GuestFlow/entity"
)

// RecordSend writes a send log entry for an outbound message, resolving the
// registration from the phone. Entries for unknown phones are still written
// with an empty registration id; replies to those stay unresolvable, which
// is the intended drop behavior.
func (m *MongoDB) RecordSend(ctx context.Context, phone, kind, messageID string) error {
	registrationID := ""
	if reg, err := m.GetRegistrationByPhone(ctx, phone); err == nil && reg != nil {
		registrationID = reg.ID
	}

	entry := entity.NewSendLog(registrationID, phone, kind, messageID)

	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(sendLogCollection)
	_, err = collection.InsertOne(ctx, entry)
	return err
}

// LatestSendByPhone returns the most recent send log entry for a phone
// number, (nil, nil) when the phone was never messaged.
func (m *MongoDB) LatestSendByPhone(ctx context.Context, phone string) (*entity.SendLog, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(sendLogCollection)

	filter := bson.D{{Key: "phone", Value: entity.NormalizePhone(phone)}}
	opts := options.FindOne().SetSort(bson.D{{Key: "sent_at", Value: -1}})

	var entry entity.SendLog
	err = collection.FindOne(ctx, filter, opts).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return &entry, nil
}
