package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Vehicle holds the structure for the vehicles collection in mongo
type Vehicle struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OwnerID       primitive.ObjectID `json:"ownerId" bson:"userId"`
	LicensePlate  string             `json:"licensePlate" bson:"licensePlate"`
	ChassisNumber string             `json:"chassisNumber" bson:"chassisNumber"`
	Make          string             `json:"make" bson:"make"`
	Model         string             `json:"model" bson:"model"`
	Year          int                `json:"year" bson:"year"`
	Color         string             `json:"color" bson:"color"`
	CreatedAt     primitive.DateTime `json:"createdAt" bson:"createdAt"`
}
