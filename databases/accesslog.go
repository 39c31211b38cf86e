package databases

// go generate: mockery --name AccessLogDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sves-app/vehicle-entry-api/models"
)

const accessLogName = "access_logs"

// AccessLogDatabase contains the methods to use with the access log database.
// The log is append-only so no update or delete methods exist.
type AccessLogDatabase interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.AccessLog, error)
	InsertOne(ctx context.Context, entry models.AccessLog) (InsertOneResultHelper, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	Aggregate(ctx context.Context, pipeline interface{}) (CursorHelper, error)
}

type accessLogDatabase struct {
	db DatabaseHelper
}

// NewAccessLogDatabase initializes a new instance of access log database with the provided db connection
func NewAccessLogDatabase(db DatabaseHelper) AccessLogDatabase {
	return &accessLogDatabase{
		db: db,
	}
}

func (a *accessLogDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.AccessLog, error) {
	var entries []models.AccessLog
	err := a.db.Collection(accessLogName).Find(ctx, filter, opts...).Decode(&entries)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (a *accessLogDatabase) InsertOne(ctx context.Context, entry models.AccessLog) (InsertOneResultHelper, error) {
	return a.db.Collection(accessLogName).InsertOne(ctx, entry)
}

func (a *accessLogDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return a.db.Collection(accessLogName).CountDocuments(ctx, filter, opts...)
}

func (a *accessLogDatabase) Aggregate(ctx context.Context, pipeline interface{}) (CursorHelper, error) {
	return a.db.Collection(accessLogName).Aggregate(ctx, pipeline)
}
