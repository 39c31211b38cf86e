package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/sves-app/vehicle-entry-api/config"
	"github.com/sves-app/vehicle-entry-api/databases"
	"github.com/sves-app/vehicle-entry-api/models"
)

const (
	defaultTablePage  = 1
	defaultTableLimit = 20
	maxTableLimit     = 100
)

// Reports serves the dashboard aggregates built from the access log.
type Reports struct {
	LDB databases.AccessLogDatabase
	UDB databases.UserDatabase
}

// StatsHandler returns the dashboard stat cards: total entries, entries since
// midnight UTC, denied entries, and active users.
func (rep Reports) StatsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	total, err := rep.LDB.CountDocuments(ctx, bson.M{})
	if err != nil {
		config.ErrorStatus("failed to count access logs", http.StatusInternalServerError, w, err)
		return
	}

	now := time.Now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	today, err := rep.LDB.CountDocuments(ctx, bson.M{"createdAt": bson.M{"$gte": startOfDay}})
	if err != nil {
		config.ErrorStatus("failed to count access logs", http.StatusInternalServerError, w, err)
		return
	}

	denied, err := rep.LDB.CountDocuments(ctx, bson.M{"status": "denied"})
	if err != nil {
		config.ErrorStatus("failed to count access logs", http.StatusInternalServerError, w, err)
		return
	}

	activeUsers, err := rep.UDB.CountDocuments(ctx, bson.M{"status": models.UserStatusActive})
	if err != nil {
		config.ErrorStatus("failed to count users", http.StatusInternalServerError, w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.StatsResponse{
		TotalEntries: total,
		TodayEntries: today,
		DeniedCount:  denied,
		ActiveUsers:  activeUsers,
	})
}

// ChartsHandler returns the dashboard chart series. The weekly trend covers
// the last seven days with zero-filled buckets so the chart axis is stable.
func (rep Reports) ChartsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	weekly, err := rep.weeklyTrend(ctx)
	if err != nil {
		config.ErrorStatus("failed to aggregate weekly trend", http.StatusInternalServerError, w, err)
		return
	}

	byUserType, err := rep.groupUsersBy(ctx, "userType")
	if err != nil {
		config.ErrorStatus("failed to aggregate users by type", http.StatusInternalServerError, w, err)
		return
	}

	byStatus, err := rep.groupLogsBy(ctx, bson.M{"$ifNull": bson.A{"$status", "unknown"}})
	if err != nil {
		config.ErrorStatus("failed to aggregate logs by status", http.StatusInternalServerError, w, err)
		return
	}

	byHour, err := rep.logsByHour(ctx)
	if err != nil {
		config.ErrorStatus("failed to aggregate logs by hour", http.StatusInternalServerError, w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ChartsResponse{
		WeeklyTrend: weekly,
		ByUserType:  byUserType,
		ByStatus:    byStatus,
		ByHour:      byHour,
	})
}

// TableHandler returns a page of the recent-log table, newest first, with the
// owning user's name joined in.
func (rep Reports) TableHandler(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", defaultTablePage)
	if page < 1 {
		page = defaultTablePage
	}
	limit := queryInt(r, "limit", defaultTableLimit)
	if limit < 1 {
		limit = defaultTableLimit
	}
	if limit > maxTableLimit {
		limit = maxTableLimit
	}

	ctx := r.Context()

	total, err := rep.LDB.CountDocuments(ctx, bson.M{})
	if err != nil {
		config.ErrorStatus("failed to count access logs", http.StatusInternalServerError, w, err)
		return
	}

	pipeline := []bson.M{
		{"$sort": bson.M{"createdAt": -1}},
		{"$skip": (page - 1) * limit},
		{"$limit": limit},
		{"$lookup": bson.M{
			"from":         "users",
			"localField":   "userId",
			"foreignField": "_id",
			"as":           "user",
		}},
		{"$unwind": bson.M{"path": "$user", "preserveNullAndEmptyArrays": true}},
		{"$project": bson.M{
			"licensePlate": 1,
			"action":       1,
			"gate":         1,
			"direction":    1,
			"status":       1,
			"createdAt":    1,
			"userName": bson.M{"$ifNull": bson.A{
				bson.M{"$concat": bson.A{"$user.firstName", " ", "$user.lastName"}},
				"Unknown",
			}},
		}},
	}

	cur, err := rep.LDB.Aggregate(ctx, pipeline)
	if err != nil {
		config.ErrorStatus("failed to query access logs", http.StatusInternalServerError, w, err)
		return
	}
	var rows []models.LogTableRow
	if err := cur.Decode(&rows); err != nil {
		config.ErrorStatus("failed to decode access logs", http.StatusInternalServerError, w, err)
		return
	}
	if rows == nil {
		rows = []models.LogTableRow{}
	}

	writeJSON(w, http.StatusOK, models.LogTableResponse{
		Rows:  rows,
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

// weeklyTrend groups log counts by calendar day and zero-fills the last seven
// days so quiet days still show up.
func (rep Reports) weeklyTrend(ctx context.Context) ([]models.ChartBucket, error) {
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -6)

	pipeline := []bson.M{
		{"$match": bson.M{"createdAt": bson.M{"$gte": start}}},
		{"$group": bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format": "%Y-%m-%d",
				"date":   "$createdAt",
			}},
			"count": bson.M{"$sum": 1},
		}},
		{"$project": bson.M{"_id": 0, "label": "$_id", "count": 1}},
	}

	cur, err := rep.LDB.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var buckets []models.ChartBucket
	if err := cur.Decode(&buckets); err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(buckets))
	for _, b := range buckets {
		counts[b.Label] = b.Count
	}

	trend := make([]models.ChartBucket, 0, 7)
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i).Format("2006-01-02")
		trend = append(trend, models.ChartBucket{Label: day, Count: counts[day]})
	}
	return trend, nil
}

func (rep Reports) groupLogsBy(ctx context.Context, key interface{}) ([]models.ChartBucket, error) {
	cur, err := rep.LDB.Aggregate(ctx, groupCountPipeline(key))
	if err != nil {
		return nil, err
	}
	return decodeBuckets(cur)
}

func (rep Reports) groupUsersBy(ctx context.Context, field string) ([]models.ChartBucket, error) {
	key := bson.M{"$ifNull": bson.A{fmt.Sprintf("$%s", field), "unknown"}}
	cur, err := rep.UDB.Aggregate(ctx, groupCountPipeline(key))
	if err != nil {
		return nil, err
	}
	return decodeBuckets(cur)
}

// logsByHour buckets logs by UTC hour of day. Grouping on the numeric hour
// keeps the sort numeric; stringifying first would order "10" before "2".
func (rep Reports) logsByHour(ctx context.Context) ([]models.ChartBucket, error) {
	pipeline := []bson.M{
		{"$group": bson.M{"_id": bson.M{"$hour": "$createdAt"}, "count": bson.M{"$sum": 1}}},
		{"$sort": bson.M{"_id": 1}},
		{"$project": bson.M{"_id": 0, "label": bson.M{"$toString": "$_id"}, "count": 1}},
	}
	cur, err := rep.LDB.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	return decodeBuckets(cur)
}

func groupCountPipeline(key interface{}) []bson.M {
	return []bson.M{
		{"$group": bson.M{"_id": key, "count": bson.M{"$sum": 1}}},
		{"$project": bson.M{"_id": 0, "label": "$_id", "count": 1}},
		{"$sort": bson.M{"label": 1}},
	}
}

func decodeBuckets(cur databases.CursorHelper) ([]models.ChartBucket, error) {
	var buckets []models.ChartBucket
	if err := cur.Decode(&buckets); err != nil {
		return nil, err
	}
	if buckets == nil {
		buckets = []models.ChartBucket{}
	}
	return buckets, nil
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
