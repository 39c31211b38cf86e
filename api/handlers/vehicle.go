package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/sves-app/vehicle-entry-api/config"
	"github.com/sves-app/vehicle-entry-api/databases"
	"github.com/sves-app/vehicle-entry-api/models"
)

// Vehicle handles admin-initiated vehicle creation
type Vehicle struct {
	VDB  databases.VehicleDatabase
	UDB  databases.UserDatabase
	LDB  databases.AccessLogDatabase
	Feed *Feed
}

type vehicleCreateRequest struct {
	OwnerID       string `json:"ownerId"`
	LicensePlate  string `json:"licensePlate"`
	ChassisNumber string `json:"chassisNumber"`
	Make          string `json:"make"`
	Model         string `json:"model"`
	Year          int    `json:"year"`
	Color         string `json:"color"`
}

// CreateVehicleHandler creates a vehicle for an existing owner, applying the
// same natural-key checks as registration and writing an Admin Portal audit
// entry.
func (v Vehicle) CreateVehicleHandler(w http.ResponseWriter, r *http.Request) {
	var req vehicleCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if req.OwnerID == "" || req.LicensePlate == "" || req.ChassisNumber == "" {
		config.ErrorStatus("All required fields must be filled.", http.StatusBadRequest, w, fmt.Errorf("missing required field"))
		return
	}

	ownerID, err := primitive.ObjectIDFromHex(req.OwnerID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx := r.Context()

	owner, err := v.UDB.FindOne(ctx, bson.M{"_id": ownerID})
	if err != nil {
		if noDocuments(err) {
			config.ErrorStatus("owner not found", http.StatusNotFound, w, err)
			return
		}
		config.ErrorStatus("failed to look up owner", http.StatusInternalServerError, w, err)
		return
	}

	if _, err := v.VDB.FindOne(ctx, bson.M{"licensePlate": req.LicensePlate}); err == nil {
		config.ErrorStatus("license plate already registered", http.StatusBadRequest, w, fmt.Errorf("duplicate license plate"))
		return
	} else if !noDocuments(err) {
		config.ErrorStatus("failed to check existing vehicles", http.StatusInternalServerError, w, err)
		return
	}
	if _, err := v.VDB.FindOne(ctx, bson.M{"chassisNumber": req.ChassisNumber}); err == nil {
		config.ErrorStatus("chassis number already registered", http.StatusBadRequest, w, fmt.Errorf("duplicate chassis number"))
		return
	} else if !noDocuments(err) {
		config.ErrorStatus("failed to check existing vehicles", http.StatusInternalServerError, w, err)
		return
	}

	vehicle := models.Vehicle{
		ID:            primitive.NewObjectID(),
		OwnerID:       owner.ID,
		LicensePlate:  req.LicensePlate,
		ChassisNumber: req.ChassisNumber,
		Make:          req.Make,
		Model:         req.Model,
		Year:          req.Year,
		Color:         req.Color,
		CreatedAt:     primitive.NewDateTimeFromTime(time.Now()),
	}

	if _, err := v.VDB.InsertOne(ctx, vehicle); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			config.ErrorStatus("vehicle already registered with that license plate or chassis number", http.StatusBadRequest, w, err)
			return
		}
		config.ErrorStatus("failed to create vehicle", http.StatusInternalServerError, w, err)
		return
	}

	entry := models.AccessLog{
		ID:           primitive.NewObjectID(),
		UserID:       &owner.ID,
		LicensePlate: vehicle.LicensePlate,
		Action:       "Vehicle Registration",
		Gate:         "Admin Portal",
		Direction:    models.DirectionIn,
		Status:       "success",
		Details:      "Vehicle added from the admin console.",
		CreatedAt:    primitive.NewDateTimeFromTime(time.Now()),
	}
	if _, err := v.LDB.InsertOne(ctx, entry); err != nil {
		zap.S().Warnw("failed to write vehicle creation access log",
			"vehicleId", vehicle.ID.Hex(), "error", err)
	} else {
		v.Feed.Broadcast(entry)
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Vehicle created successfully",
		"vehicle": vehicle,
	})
}
