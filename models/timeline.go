package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TimelineEntry is an append-only audit record attached to an issue.
// Entries are never updated or deleted once written.
type TimelineEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Issue     primitive.ObjectID `bson:"issue" json:"issue"`
	Status    IssueStatus        `bson:"status" json:"status"`
	Message   string             `bson:"message" json:"message"`
	UpdatedBy string             `bson:"updatedBy" json:"updatedBy"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// EnsureTimelineIndex creates the (issue, createdAt) index used to read an
// issue's timeline in creation order
func EnsureTimelineIndex(collection *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "issue", Value: 1}, {Key: "createdAt", Value: 1}},
		Options: options.Index(),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	return err
}
