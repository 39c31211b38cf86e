package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User types accepted at registration.
const (
	UserTypeResident = "resident"
	UserTypeStaff    = "staff"
	UserTypeVisitor  = "visitor"
	UserTypeVendor   = "vendor"
)

// User statuses.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
	UserStatusPending  = "pending"
)

// User holds the structure for the users collection in mongo.
// Password carries the bcrypt hash and is never serialized to JSON.
type User struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	FirstName string             `json:"firstName" bson:"firstName"`
	LastName  string             `json:"lastName" bson:"lastName"`
	Username  string             `json:"username" bson:"username"`
	Email     string             `json:"email" bson:"email"`
	Address   string             `json:"address" bson:"address"`
	Town      string             `json:"town" bson:"town"`
	Country   string             `json:"country" bson:"country"`
	Contact   string             `json:"contact" bson:"contact"`
	Password  string             `json:"-" bson:"password"`
	UserType  string             `json:"userType" bson:"userType"`
	Status    string             `json:"status" bson:"status"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
}

// ValidUserType reports whether t is one of the accepted user types.
func ValidUserType(t string) bool {
	switch t {
	case UserTypeResident, UserTypeStaff, UserTypeVisitor, UserTypeVendor:
		return true
	}
	return false
}
