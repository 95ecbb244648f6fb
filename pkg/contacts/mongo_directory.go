package contacts

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/notifykit/pkg/notifications"
)

const DefaultUsersCollection = "users"

// userCollection is the subset of *mongo.Collection used by MongoDirectory.
type userCollection interface {
	FindOne(ctx context.Context, filter any, opts ...options.Lister[options.FindOneOptions]) *mongo.SingleResult
	ReplaceOne(ctx context.Context, filter any, replacement any, opts ...options.Lister[options.ReplaceOptions]) (*mongo.UpdateResult, error)
}

type userDocument struct {
	ID          string `bson:"_id"`
	Email       string `bson:"email,omitempty"`
	PhoneNumber string `bson:"phone_number,omitempty"`
	FCMToken    string `bson:"fcm_token,omitempty"`
}

// MongoDirectory reads user contacts from a MongoDB collection keyed by user id.
type MongoDirectory struct {
	users userCollection
}

// NewMongoDirectory uses the "users" collection of db.
func NewMongoDirectory(db *mongo.Database) *MongoDirectory {
	return NewMongoDirectoryWithCollection(db.Collection(DefaultUsersCollection))
}

func NewMongoDirectoryWithCollection(c userCollection) *MongoDirectory {
	return &MongoDirectory{users: c}
}

func (d *MongoDirectory) Get(ctx context.Context, userID string) (notifications.Contact, error) {
	if userID == "" {
		return notifications.Contact{}, notifications.ErrContactNotFound
	}

	var doc userDocument
	err := d.users.FindOne(ctx, bson.D{{Key: "_id", Value: userID}}).Decode(&doc)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return notifications.Contact{}, notifications.ErrContactNotFound
	case err != nil:
		return notifications.Contact{}, fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	return notifications.Contact{
		Email:       doc.Email,
		PhoneNumber: doc.PhoneNumber,
		FCMToken:    doc.FCMToken,
	}, nil
}

// Put creates or replaces the contact document of userID.
func (d *MongoDirectory) Put(ctx context.Context, userID string, c notifications.Contact) error {
	if userID == "" {
		return ErrInvalidUserID
	}
	doc := userDocument{ID: userID, Email: c.Email, PhoneNumber: c.PhoneNumber, FCMToken: c.FCMToken}
	_, err := d.users.ReplaceOne(ctx, bson.D{{Key: "_id", Value: userID}}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save user %s: %w", userID, err)
	}
	return nil
}
