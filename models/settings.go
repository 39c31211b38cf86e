package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Settings is the singleton configuration record for the system. It is
// created lazily with defaults on first read and merged field-by-field on
// update, last write wins.
type Settings struct {
	ID                    primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SystemName            string             `json:"systemName" bson:"systemName"`
	GateOpenSeconds       int                `json:"gateOpenSeconds" bson:"gateOpenSeconds"`
	SessionTimeoutMinutes int                `json:"sessionTimeoutMinutes" bson:"sessionTimeoutMinutes"`
	RegistrationOpen      bool               `json:"registrationOpen" bson:"registrationOpen"`
	RequireApproval       bool               `json:"requireApproval" bson:"requireApproval"`
	MaintenanceMode       bool               `json:"maintenanceMode" bson:"maintenanceMode"`
	AutoBackup            bool               `json:"autoBackup" bson:"autoBackup"`
	BackupFrequency       string             `json:"backupFrequency" bson:"backupFrequency"`
	MaxVehiclesPerUser    int                `json:"maxVehiclesPerUser" bson:"maxVehiclesPerUser"`
	LastBackupAt          primitive.DateTime `json:"lastBackupAt,omitempty" bson:"lastBackupAt,omitempty"`
	CreatedAt             primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt             primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// SettingsUpdate carries the fields an update may set. Pointers distinguish
// "not provided" from zero values so merges only touch supplied fields.
type SettingsUpdate struct {
	SystemName            *string `json:"systemName,omitempty"`
	GateOpenSeconds       *int    `json:"gateOpenSeconds,omitempty"`
	SessionTimeoutMinutes *int    `json:"sessionTimeoutMinutes,omitempty"`
	RegistrationOpen      *bool   `json:"registrationOpen,omitempty"`
	RequireApproval       *bool   `json:"requireApproval,omitempty"`
	MaintenanceMode       *bool   `json:"maintenanceMode,omitempty"`
	AutoBackup            *bool   `json:"autoBackup,omitempty"`
	BackupFrequency       *string `json:"backupFrequency,omitempty"`
	MaxVehiclesPerUser    *int    `json:"maxVehiclesPerUser,omitempty"`
}

// DefaultSettings returns the documented defaults used when the singleton is
// created on first read.
func DefaultSettings() Settings {
	return Settings{
		SystemName:            "Smart Vehicle Entry System",
		GateOpenSeconds:       5,
		SessionTimeoutMinutes: 30,
		RegistrationOpen:      true,
		RequireApproval:       false,
		MaintenanceMode:       false,
		AutoBackup:            true,
		BackupFrequency:       "daily",
		MaxVehiclesPerUser:    3,
	}
}
