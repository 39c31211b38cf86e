package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sves-app/vehicle-entry-api/config"
	"github.com/sves-app/vehicle-entry-api/databases"
	"github.com/sves-app/vehicle-entry-api/models"
)

// Settings handles the system configuration singleton
type Settings struct {
	DB databases.SettingsDatabase
}

// GetSettingsHandler returns the settings document, creating it from defaults
// on first read.
func (s Settings) GetSettingsHandler(w http.ResponseWriter, r *http.Request) {
	settings, err := s.getOrCreate(r.Context())
	if err != nil {
		config.ErrorStatus("failed to load settings", http.StatusInternalServerError, w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// UpdateSettingsHandler merges the provided fields into the singleton and
// returns the full updated document. Fields absent from the request keep
// their stored values.
func (s Settings) UpdateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var update models.SettingsUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx := r.Context()

	settings, err := s.getOrCreate(ctx)
	if err != nil {
		config.ErrorStatus("failed to load settings", http.StatusInternalServerError, w, err)
		return
	}

	set := bson.M{}
	if update.SystemName != nil {
		settings.SystemName = *update.SystemName
		set["systemName"] = *update.SystemName
	}
	if update.GateOpenSeconds != nil {
		settings.GateOpenSeconds = *update.GateOpenSeconds
		set["gateOpenSeconds"] = *update.GateOpenSeconds
	}
	if update.SessionTimeoutMinutes != nil {
		settings.SessionTimeoutMinutes = *update.SessionTimeoutMinutes
		set["sessionTimeoutMinutes"] = *update.SessionTimeoutMinutes
	}
	if update.RegistrationOpen != nil {
		settings.RegistrationOpen = *update.RegistrationOpen
		set["registrationOpen"] = *update.RegistrationOpen
	}
	if update.RequireApproval != nil {
		settings.RequireApproval = *update.RequireApproval
		set["requireApproval"] = *update.RequireApproval
	}
	if update.MaintenanceMode != nil {
		settings.MaintenanceMode = *update.MaintenanceMode
		set["maintenanceMode"] = *update.MaintenanceMode
	}
	if update.AutoBackup != nil {
		settings.AutoBackup = *update.AutoBackup
		set["autoBackup"] = *update.AutoBackup
	}
	if update.BackupFrequency != nil {
		settings.BackupFrequency = *update.BackupFrequency
		set["backupFrequency"] = *update.BackupFrequency
	}
	if update.MaxVehiclesPerUser != nil {
		settings.MaxVehiclesPerUser = *update.MaxVehiclesPerUser
		set["maxVehiclesPerUser"] = *update.MaxVehiclesPerUser
	}

	if len(set) == 0 {
		writeJSON(w, http.StatusOK, settings)
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	settings.UpdatedAt = now
	set["updatedAt"] = now

	if _, err := s.DB.UpdateOne(ctx, bson.M{"_id": settings.ID}, bson.M{"$set": set}); err != nil {
		config.ErrorStatus("failed to update settings", http.StatusInternalServerError, w, err)
		return
	}

	writeJSON(w, http.StatusOK, settings)
}

func (s Settings) getOrCreate(ctx context.Context) (*models.Settings, error) {
	settings, err := s.DB.FindOne(ctx, bson.M{})
	if err == nil {
		return settings, nil
	}
	if !noDocuments(err) {
		return nil, err
	}

	created := models.DefaultSettings()
	created.ID = primitive.NewObjectID()
	now := primitive.NewDateTimeFromTime(time.Now())
	created.CreatedAt = now
	created.UpdatedAt = now
	if _, err := s.DB.InsertOne(ctx, created); err != nil {
		return nil, err
	}
	return &created, nil
}
