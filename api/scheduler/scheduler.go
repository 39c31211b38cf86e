package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/sves-app/vehicle-entry-api/databases"
)

// Scheduler runs the nightly backup snapshot job. Whether a run actually does
// anything is driven by the settings singleton, so operators can toggle
// backups without a redeploy.
type Scheduler struct {
	cron *cron.Cron
	SDB  databases.SettingsDatabase
	UDB  databases.UserDatabase
	VDB  databases.VehicleDatabase
	LDB  databases.AccessLogDatabase
}

// New creates a scheduler wired to the given databases.
func New(
	sDB databases.SettingsDatabase,
	uDB databases.UserDatabase,
	vDB databases.VehicleDatabase,
	lDB databases.AccessLogDatabase,
) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLocation(time.UTC)),
		SDB:  sDB,
		UDB:  uDB,
		VDB:  vDB,
		LDB:  lDB,
	}
}

// Start registers the backup job and begins the cron loop. The job fires
// daily at 3 AM UTC; weekly frequency is enforced inside the run using the
// lastBackupAt stamp.
func (s *Scheduler) Start() {
	_, err := s.cron.AddFunc("0 3 * * *", s.runBackup)
	if err != nil {
		zap.S().Errorw("failed to register backup job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("Backup scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Backup scheduler stopped")
}

// runBackup snapshots collection counts and stamps lastBackupAt. It is a
// no-op when autoBackup is off or a weekly backup is not yet due.
func (s *Scheduler) runBackup() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	settings, err := s.SDB.FindOne(ctx, bson.M{})
	if err != nil {
		zap.S().Errorw("failed to load settings for backup job", "error", err)
		return
	}

	if !settings.AutoBackup {
		zap.S().Debug("Auto backup disabled, skipping backup job")
		return
	}

	if settings.BackupFrequency == "weekly" && settings.LastBackupAt > 0 {
		last := settings.LastBackupAt.Time()
		if time.Since(last) < 7*24*time.Hour {
			zap.S().Debugw("Weekly backup not due yet", "lastBackupAt", last)
			return
		}
	}

	users, err := s.UDB.CountDocuments(ctx, bson.M{})
	if err != nil {
		zap.S().Errorw("failed to count users for backup", "error", err)
		return
	}
	vehicles, err := s.VDB.CountDocuments(ctx, bson.M{})
	if err != nil {
		zap.S().Errorw("failed to count vehicles for backup", "error", err)
		return
	}
	logs, err := s.LDB.CountDocuments(ctx, bson.M{})
	if err != nil {
		zap.S().Errorw("failed to count access logs for backup", "error", err)
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	_, err = s.SDB.UpdateOne(ctx, bson.M{"_id": settings.ID}, bson.M{
		"$set": bson.M{"lastBackupAt": now, "updatedAt": now},
	})
	if err != nil {
		zap.S().Errorw("failed to stamp lastBackupAt", "error", err)
		return
	}

	zap.S().Infow("Backup snapshot complete",
		"users", users,
		"vehicles", vehicles,
		"accessLogs", logs,
		"frequency", settings.BackupFrequency,
	)
}
