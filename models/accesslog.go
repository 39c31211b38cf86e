package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Access log directions.
const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

// AccessLog holds the structure for the access_logs collection in mongo.
// The collection is append-only: entries are never updated or deleted,
// and user deletion leaves its log entries in place.
type AccessLog struct {
	ID           primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	UserID       *primitive.ObjectID `json:"userId,omitempty" bson:"userId,omitempty"`
	LicensePlate string              `json:"licensePlate" bson:"licensePlate"`
	Action       string              `json:"action" bson:"action"`
	Gate         string              `json:"gate" bson:"gate"`
	Direction    string              `json:"direction" bson:"direction"`
	Status       string              `json:"status" bson:"status"`
	Details      string              `json:"details" bson:"details"`
	CreatedAt    primitive.DateTime  `json:"createdAt" bson:"createdAt"`
}
