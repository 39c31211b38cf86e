package handlers

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sves-app/vehicle-entry-api/models"
)

// Canned dataset served by the admin directory read path when the store is
// unreachable, so the console stays demonstrable offline. Responses built
// from it always carry degraded=true; it is never presented as live data.

var (
	demoUserDoeID   = mustObjectID("5fc51f58c72ff10004dca381")
	demoUserSmithID = mustObjectID("5fc51f58c72ff10004dca382")
)

func mustObjectID(hex string) primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		panic(err)
	}
	return id
}

func demoUsers() []models.User {
	created := primitive.NewDateTimeFromTime(time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC))
	return []models.User{
		{
			ID:        demoUserDoeID,
			FirstName: "John",
			LastName:  "Doe",
			Username:  "jdoe",
			Email:     "john.doe@example.com",
			UserType:  models.UserTypeStaff,
			Status:    models.UserStatusActive,
			CreatedAt: created,
		},
		{
			ID:        demoUserSmithID,
			FirstName: "Jane",
			LastName:  "Smith",
			Username:  "jsmith",
			Email:     "jane.smith@example.com",
			UserType:  models.UserTypeVisitor,
			Status:    models.UserStatusActive,
			CreatedAt: created,
		},
	}
}

func demoVehicles() []models.Vehicle {
	created := primitive.NewDateTimeFromTime(time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC))
	return []models.Vehicle{
		{
			ID:            mustObjectID("5fc51f58c72ff10004dca383"),
			OwnerID:       demoUserDoeID,
			LicensePlate:  "ABC 123",
			ChassisNumber: "CH0000001",
			Make:          "Toyota",
			Model:         "Corolla",
			Year:          2019,
			Color:         "Silver",
			CreatedAt:     created,
		},
		{
			ID:            mustObjectID("5fc51f58c72ff10004dca384"),
			OwnerID:       demoUserSmithID,
			LicensePlate:  "XYZ 789",
			ChassisNumber: "CH0000002",
			Make:          "Honda",
			Model:         "Civic",
			Year:          2021,
			Color:         "Blue",
			CreatedAt:     created,
		},
	}
}

func demoLogs() []models.AccessLog {
	return []models.AccessLog{
		{
			ID:           mustObjectID("5fc51f58c72ff10004dca385"),
			UserID:       &demoUserDoeID,
			LicensePlate: "ABC 123",
			Action:       "entered",
			Gate:         "Main Gate",
			Direction:    models.DirectionIn,
			Status:       "success",
			CreatedAt:    primitive.NewDateTimeFromTime(time.Now().Add(-2 * time.Minute)),
		},
	}
}
