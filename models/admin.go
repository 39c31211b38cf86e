package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Admin holds the structure for the admin_users collection in mongo.
// At most one admin document may ever exist.
type Admin struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Username  string             `json:"username" bson:"username"`
	Email     string             `json:"email" bson:"email"`
	Password  string             `json:"-" bson:"password"`
	Role      string             `json:"role" bson:"role"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
}
