package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentType enum
type PaymentType string

const (
	PaymentSubscription PaymentType = "Subscription"
	PaymentBoostIssue   PaymentType = "Boost Issue"
)

// Payment records a confirmed checkout. Written once, never mutated.
type Payment struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	PaymentType    PaymentType        `bson:"paymentType" json:"paymentType"`
	Amount         int                `bson:"amount" json:"amount"`
	Email          string             `bson:"email" json:"email"`
	IssueBoostedBy string             `bson:"issueBoostedBy,omitempty" json:"issueBoostedBy,omitempty"`
	Issue          primitive.ObjectID `bson:"issue,omitempty" json:"issue,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}
