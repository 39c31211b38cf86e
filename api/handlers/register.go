package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sves-app/vehicle-entry-api/config"
	"github.com/sves-app/vehicle-entry-api/databases"
	"github.com/sves-app/vehicle-entry-api/models"
)

// Registration handles the public self-registration workflow: one user, one
// vehicle and one audit log entry per successful request.
type Registration struct {
	UDB  databases.UserDatabase
	VDB  databases.VehicleDatabase
	LDB  databases.AccessLogDatabase
	Feed *Feed
}

type registrationRequest struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	Town          string `json:"town"`
	Country       string `json:"country"`
	Contact       string `json:"contact"`
	UserType      string `json:"userType"`
	Password      string `json:"password"`
	LicensePlate  string `json:"licensePlate"`
	ChassisNumber string `json:"chassisNumber"`
	VehicleMake   string `json:"vehicleMake"`
	VehicleModel  string `json:"vehicleModel"`
	VehicleYear   int    `json:"vehicleYear"`
	VehicleColor  string `json:"vehicleColor"`
}

type registrationResponse struct {
	Message string           `json:"message"`
	Data    registrationData `json:"data"`
}

type registrationData struct {
	User    models.User    `json:"user"`
	Vehicle models.Vehicle `json:"vehicle"`
}

// RegisterHandler validates the request, checks the natural keys for
// conflicts and commits the user, vehicle and access log entry.
//
// The three writes are not a transaction. If the vehicle insert fails the
// just-created user is deleted again (compensating delete); a failed access
// log write is logged and the registration still succeeds.
func (re Registration) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req registrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if req.FirstName == "" || req.LastName == "" || req.Username == "" || req.Email == "" ||
		req.Password == "" || req.LicensePlate == "" || req.ChassisNumber == "" {
		config.ErrorStatus("All required fields must be filled.", http.StatusBadRequest, w, fmt.Errorf("missing required field"))
		return
	}

	if req.UserType == "" {
		req.UserType = models.UserTypeVisitor
	}
	if !models.ValidUserType(req.UserType) {
		config.ErrorStatus("invalid user type", http.StatusBadRequest, w, fmt.Errorf("unknown user type %q", req.UserType))
		return
	}

	ctx := r.Context()

	// conflict pre-checks, email before username, plate before chassis. The
	// store's unique indexes remain the source of truth; these exist to give
	// the caller a field-specific message on the common path.
	if conflict := re.checkUserConflict(ctx, w, req); conflict {
		return
	}
	if conflict := re.checkVehicleConflict(ctx, w, req.LicensePlate, req.ChassisNumber); conflict {
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	user := models.User{
		ID:        primitive.NewObjectID(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
		Address:   req.Address,
		Town:      req.Town,
		Country:   req.Country,
		Contact:   req.Contact,
		Password:  string(hashedPassword),
		UserType:  req.UserType,
		Status:    models.UserStatusActive,
		CreatedAt: now,
	}

	if _, err := re.UDB.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// lost the race past the pre-check
			config.ErrorStatus("username or email already exists", http.StatusBadRequest, w, err)
			return
		}
		config.ErrorStatus("failed to create user", http.StatusInternalServerError, w, err)
		return
	}

	vehicle := models.Vehicle{
		ID:            primitive.NewObjectID(),
		OwnerID:       user.ID,
		LicensePlate:  req.LicensePlate,
		ChassisNumber: req.ChassisNumber,
		Make:          req.VehicleMake,
		Model:         req.VehicleModel,
		Year:          req.VehicleYear,
		Color:         req.VehicleColor,
		CreatedAt:     now,
	}

	if _, err := re.VDB.InsertOne(ctx, vehicle); err != nil {
		// compensating delete so a failed vehicle insert leaves no orphan
		if delErr := re.UDB.DeleteOne(ctx, bson.M{"_id": user.ID}); delErr != nil {
			zap.S().Errorw("failed to roll back user after vehicle insert failure",
				"userId", user.ID.Hex(), "error", delErr)
		}
		if mongo.IsDuplicateKeyError(err) {
			config.ErrorStatus("vehicle already registered with that license plate or chassis number", http.StatusBadRequest, w, err)
			return
		}
		config.ErrorStatus("failed to create vehicle", http.StatusInternalServerError, w, err)
		return
	}

	entry := models.AccessLog{
		ID:           primitive.NewObjectID(),
		UserID:       &user.ID,
		LicensePlate: vehicle.LicensePlate,
		Action:       "Registration",
		Gate:         "Main Gate",
		Direction:    models.DirectionIn,
		Status:       "success",
		Details:      "User registered and vehicle added.",
		CreatedAt:    primitive.NewDateTimeFromTime(time.Now()),
	}
	if _, err := re.LDB.InsertOne(ctx, entry); err != nil {
		// the registration itself committed, keep going
		zap.S().Warnw("failed to write registration access log",
			"userId", user.ID.Hex(), "error", err)
	} else {
		re.Feed.Broadcast(entry)
	}

	writeJSON(w, http.StatusCreated, registrationResponse{
		Message: "Registration successful",
		Data:    registrationData{User: user, Vehicle: vehicle},
	})
}

// checkUserConflict writes the conflict response and returns true when the
// email or username is taken. Email is checked first.
func (re Registration) checkUserConflict(ctx context.Context, w http.ResponseWriter, req registrationRequest) bool {
	if _, err := re.UDB.FindOne(ctx, bson.M{"email": req.Email}); err == nil {
		config.ErrorStatus("email already exists", http.StatusBadRequest, w, fmt.Errorf("duplicate email"))
		return true
	} else if !noDocuments(err) {
		config.ErrorStatus("failed to check existing users", http.StatusInternalServerError, w, err)
		return true
	}

	if _, err := re.UDB.FindOne(ctx, bson.M{"username": req.Username}); err == nil {
		config.ErrorStatus("username already exists", http.StatusBadRequest, w, fmt.Errorf("duplicate username"))
		return true
	} else if !noDocuments(err) {
		config.ErrorStatus("failed to check existing users", http.StatusInternalServerError, w, err)
		return true
	}

	return false
}

// checkVehicleConflict mirrors checkUserConflict for the vehicle natural
// keys: license plate first, then chassis number.
func (re Registration) checkVehicleConflict(ctx context.Context, w http.ResponseWriter, plate, chassis string) bool {
	if _, err := re.VDB.FindOne(ctx, bson.M{"licensePlate": plate}); err == nil {
		config.ErrorStatus("license plate already registered", http.StatusBadRequest, w, fmt.Errorf("duplicate license plate"))
		return true
	} else if !noDocuments(err) {
		config.ErrorStatus("failed to check existing vehicles", http.StatusInternalServerError, w, err)
		return true
	}

	if _, err := re.VDB.FindOne(ctx, bson.M{"chassisNumber": chassis}); err == nil {
		config.ErrorStatus("chassis number already registered", http.StatusBadRequest, w, fmt.Errorf("duplicate chassis number"))
		return true
	} else if !noDocuments(err) {
		config.ErrorStatus("failed to check existing vehicles", http.StatusInternalServerError, w, err)
		return true
	}

	return false
}
