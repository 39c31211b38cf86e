package databases

// go generate: mockery --name SettingsDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sves-app/vehicle-entry-api/models"
)

const settingsName = "settings"

// SettingsDatabase contains the methods to use with the settings singleton
type SettingsDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Settings, error)
	InsertOne(ctx context.Context, settings models.Settings) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
}

type settingsDatabase struct {
	db DatabaseHelper
}

// NewSettingsDatabase initializes a new instance of settings database with the provided db connection
func NewSettingsDatabase(db DatabaseHelper) SettingsDatabase {
	return &settingsDatabase{
		db: db,
	}
}

func (s *settingsDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Settings, error) {
	settings := &models.Settings{}
	err := s.db.Collection(settingsName).FindOne(ctx, filter).Decode(&settings)
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *settingsDatabase) InsertOne(ctx context.Context, settings models.Settings) (InsertOneResultHelper, error) {
	return s.db.Collection(settingsName).InsertOne(ctx, settings)
}

func (s *settingsDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return s.db.Collection(settingsName).UpdateOne(ctx, filter, update, opts...)
}
