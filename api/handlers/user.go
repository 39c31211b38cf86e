package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sves-app/vehicle-entry-api/config"
	"github.com/sves-app/vehicle-entry-api/databases"
	"github.com/sves-app/vehicle-entry-api/models"
)

// Password assigned to admin-created users until they change it themselves.
const defaultUserPassword = "ChangeMe123!"

const recentLogLimit = 10

// User handles the admin directory operations over users
type User struct {
	UDB    databases.UserDatabase
	VDB    databases.VehicleDatabase
	LDB    databases.AccessLogDatabase
	Mailer Mailer
}

// ListUsersHandler returns all users with their vehicles and the most recent
// access logs. When the store is unreachable it answers with the canned demo
// dataset flagged degraded rather than failing; a partial failure keeps the
// live users but is flagged degraded too.
func (u User) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := u.UDB.Find(ctx, bson.M{})
	if err != nil {
		zap.S().Warnw("user directory store unavailable, serving demo dataset", "error", err)
		writeJSON(w, http.StatusOK, models.DirectoryResponse{
			Users:      demoUsers(),
			Vehicles:   demoVehicles(),
			RecentLogs: demoLogs(),
			Degraded:   true,
		})
		return
	}

	// partial failures still answer 200, but never pass as a live read
	degraded := false

	vehicles, err := u.VDB.Find(ctx, bson.M{})
	if err != nil {
		zap.S().Warnw("failed to load vehicles for directory", "error", err)
		vehicles = nil
		degraded = true
	}

	limit := int64(recentLogLimit)
	sort := bson.M{"createdAt": -1}
	recent, err := u.LDB.Find(ctx, bson.M{}, &options.FindOptions{Limit: &limit, Sort: sort})
	if err != nil {
		zap.S().Warnw("failed to load recent logs for directory", "error", err)
		recent = nil
		degraded = true
	}

	if users == nil {
		users = []models.User{}
	}
	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}
	if recent == nil {
		recent = []models.AccessLog{}
	}

	writeJSON(w, http.StatusOK, models.DirectoryResponse{
		Users:      users,
		Vehicles:   vehicles,
		RecentLogs: recent,
		Degraded:   degraded,
	})
}

// UserByIDHandler returns a user and their vehicles
func (u User) UserByIDHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	uID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	user, err := u.UDB.FindOne(r.Context(), bson.M{"_id": uID})
	if err != nil {
		if noDocuments(err) {
			config.ErrorStatus("user not found", http.StatusNotFound, w, err)
			return
		}
		zap.S().Warnw("user lookup store unavailable, serving demo dataset", "userId", userID, "error", err)
		demo := demoUsers()[0]
		demo.ID = uID
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"user":     demo,
			"vehicles": demoVehicles()[:1],
			"degraded": true,
		})
		return
	}

	degraded := false
	vehicles, err := u.VDB.Find(r.Context(), bson.M{"userId": uID})
	if err != nil {
		zap.S().Warnw("failed to load vehicles for user", "userId", userID, "error", err)
		vehicles = nil
		degraded = true
	}
	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":     user,
		"vehicles": vehicles,
		"degraded": degraded,
	})
}

type userUpdateRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Contact   string `json:"contact"`
}

// UpdateUserHandler mutates firstName, lastName, email and contact only
func (u User) UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	uID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req userUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	set := bson.M{}
	if req.FirstName != "" {
		set["firstName"] = req.FirstName
	}
	if req.LastName != "" {
		set["lastName"] = req.LastName
	}
	if req.Email != "" {
		set["email"] = req.Email
	}
	if req.Contact != "" {
		set["contact"] = req.Contact
	}
	if len(set) == 0 {
		config.ErrorStatus("no updatable fields provided", http.StatusBadRequest, w, fmt.Errorf("empty update"))
		return
	}

	res, err := u.UDB.UpdateOne(r.Context(), bson.M{"_id": uID}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			config.ErrorStatus("email already exists", http.StatusBadRequest, w, err)
			return
		}
		zap.S().Warnw("user update store unavailable, serving demo echo", "userId", userID, "error", err)
		demo := demoUsers()[0]
		demo.ID = uID
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message":  "User updated",
			"user":     demo,
			"degraded": true,
		})
		return
	}
	if res.MatchedCount == 0 {
		config.ErrorStatus("user not found", http.StatusNotFound, w, fmt.Errorf("no user with id %s", userID))
		return
	}

	user, err := u.UDB.FindOne(r.Context(), bson.M{"_id": uID})
	if err != nil {
		config.ErrorStatus("failed to load updated user", http.StatusInternalServerError, w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "User updated",
		"user":     user,
		"degraded": false,
	})
}

type userCreateRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	Town      string `json:"town"`
	Country   string `json:"country"`
	Contact   string `json:"contact"`
	UserType  string `json:"userType"`
}

// CreateUserHandler creates a user from the admin console with the fixed
// default password, applying the same uniqueness checks as registration.
func (u User) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	var req userCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if req.FirstName == "" || req.LastName == "" || req.Username == "" || req.Email == "" {
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

	if _, err := u.UDB.FindOne(ctx, bson.M{"email": req.Email}); err == nil {
		config.ErrorStatus("email already exists", http.StatusBadRequest, w, fmt.Errorf("duplicate email"))
		return
	} else if !noDocuments(err) {
		config.ErrorStatus("failed to check existing users", http.StatusInternalServerError, w, err)
		return
	}
	if _, err := u.UDB.FindOne(ctx, bson.M{"username": req.Username}); err == nil {
		config.ErrorStatus("username already exists", http.StatusBadRequest, w, fmt.Errorf("duplicate username"))
		return
	} else if !noDocuments(err) {
		config.ErrorStatus("failed to check existing users", http.StatusInternalServerError, w, err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(defaultUserPassword), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
		return
	}

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
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
	}

	if _, err := u.UDB.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			config.ErrorStatus("username or email already exists", http.StatusBadRequest, w, err)
			return
		}
		config.ErrorStatus("failed to create user", http.StatusInternalServerError, w, err)
		return
	}

	if u.Mailer != nil {
		go func() {
			if err := u.Mailer.SendTempPassword(user.Email, user.FirstName, defaultUserPassword); err != nil {
				zap.S().Warnw("failed to send temporary password email",
					"userId", user.ID.Hex(), "error", err)
			}
		}()
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User created successfully",
		"user":    user,
	})
}

// DeleteUserHandler deletes a user and all vehicles they own. Access log
// entries referencing the user are kept.
func (u User) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	uID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	if _, err := u.UDB.FindOne(r.Context(), bson.M{"_id": uID}); err != nil {
		if noDocuments(err) {
			config.ErrorStatus("user not found", http.StatusNotFound, w, err)
			return
		}
		zap.S().Warnw("user delete store unavailable, acknowledging in degraded mode", "userId", userID, "error", err)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message":  "User deleted",
			"degraded": true,
		})
		return
	}

	if err := u.UDB.DeleteOne(r.Context(), bson.M{"_id": uID}); err != nil {
		config.ErrorStatus("failed to delete user", http.StatusInternalServerError, w, err)
		return
	}

	deleted, err := u.VDB.DeleteMany(r.Context(), bson.M{"userId": uID})
	if err != nil {
		// the user document is gone but their vehicles may survive, so this
		// cannot be reported as a clean delete
		zap.S().Errorw("failed to cascade vehicle delete", "userId", userID, "error", err)
		config.ErrorStatus("failed to delete user vehicles", http.StatusInternalServerError, w, err)
		return
	}
	zap.S().Infow("deleted user and owned vehicles", "userId", userID, "vehiclesDeleted", deleted)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "User deleted",
		"degraded": false,
	})
}
