package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/sves-app/vehicle-entry-api/api"
	"github.com/sves-app/vehicle-entry-api/config"
	"github.com/sves-app/vehicle-entry-api/databases"
	"github.com/sves-app/vehicle-entry-api/models"
)

// Admin handles registration and login of the single admin account
type Admin struct {
	DB databases.AdminDatabase
	// Secret signs the login tokens, sourced from config
	Secret string
}

type adminRegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type adminLoginResponse struct {
	Message string `json:"message"`
	Data    struct {
		Token string       `json:"token"`
		Admin models.Admin `json:"admin"`
	} `json:"data"`
}

// AdminRegisterHandler creates the sole admin account. Any attempt after the
// first fails, regardless of input.
func (h Admin) AdminRegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req adminRegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" {
		config.ErrorStatus("username, email and password are required", http.StatusBadRequest, w, fmt.Errorf("missing required field"))
		return
	}

	count, err := h.DB.CountDocuments(r.Context(), bson.M{})
	if err != nil {
		config.ErrorStatus("failed to check existing admin", http.StatusInternalServerError, w, err)
		return
	}
	if count > 0 {
		config.ErrorStatus("admin already exists, only one allowed", http.StatusBadRequest, w, fmt.Errorf("admin singleton violated"))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
		return
	}

	admin := models.Admin{
		ID:        primitive.NewObjectID(),
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hashedPassword),
		Role:      "admin",
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
	}

	if _, err := h.DB.InsertOne(r.Context(), admin); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			config.ErrorStatus("admin already exists, only one allowed", http.StatusBadRequest, w, err)
			return
		}
		config.ErrorStatus("failed to create admin", http.StatusInternalServerError, w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Admin registered successfully",
		"data":    admin,
	})
}

// AdminLoginHandler authenticates the admin and returns a signed token. The
// failure message is identical whichever credential was wrong.
func (h Admin) AdminLoginHandler(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if req.Username == "" || req.Password == "" {
		config.ErrorStatus("username and password are required", http.StatusBadRequest, w, fmt.Errorf("missing required field"))
		return
	}

	admin, err := h.DB.FindOne(r.Context(), bson.M{"username": req.Username})
	if err != nil {
		config.ErrorStatus("invalid username or password", http.StatusUnauthorized, w, nil)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		config.ErrorStatus("invalid username or password", http.StatusUnauthorized, w, nil)
		return
	}

	token, err := h.signAdminToken(admin)
	if err != nil {
		config.ErrorStatus("failed to sign token", http.StatusInternalServerError, w, err)
		return
	}

	api.CacheBearerToken(token, admin.Username, admin.ID.Hex(), r)

	var resp adminLoginResponse
	resp.Message = "Login successful"
	resp.Data.Token = token
	resp.Data.Admin = *admin

	writeJSON(w, http.StatusOK, resp)
}

func (h Admin) signAdminToken(admin *models.Admin) (string, error) {
	secret := []byte(h.Secret)
	if len(secret) == 0 {
		return "", fmt.Errorf("JWT_SECRET is not set")
	}

	claims := jwt.MapClaims{
		"sub":      admin.ID.Hex(),
		"username": admin.Username,
		"role":     admin.Role,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
