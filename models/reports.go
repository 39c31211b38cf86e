package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// StatsResponse is the dashboard stat-card payload.
type StatsResponse struct {
	TotalEntries int64 `json:"totalEntries"`
	TodayEntries int64 `json:"todayEntries"`
	DeniedCount  int64 `json:"deniedCount"`
	ActiveUsers  int64 `json:"activeUsers"`
}

// ChartBucket is one grouped-count row in a chart series.
type ChartBucket struct {
	Label string `json:"label" bson:"label"`
	Count int64  `json:"count" bson:"count"`
}

// ChartsResponse bundles the dashboard chart series. Empty stores produce
// empty series, never errors.
type ChartsResponse struct {
	WeeklyTrend []ChartBucket `json:"weeklyTrend"`
	ByUserType  []ChartBucket `json:"byUserType"`
	ByStatus    []ChartBucket `json:"byStatus"`
	ByHour      []ChartBucket `json:"byHour"`
}

// LogTableRow is one row of the paginated recent-log table, joined with the
// owning user's display name when the log still references a user.
type LogTableRow struct {
	ID           primitive.ObjectID `json:"id" bson:"_id"`
	LicensePlate string             `json:"licensePlate" bson:"licensePlate"`
	Action       string             `json:"action" bson:"action"`
	Gate         string             `json:"gate" bson:"gate"`
	Direction    string             `json:"direction" bson:"direction"`
	Status       string             `json:"status" bson:"status"`
	UserName     string             `json:"userName" bson:"userName"`
	CreatedAt    primitive.DateTime `json:"createdAt" bson:"createdAt"`
}

// LogTableResponse is the paginated recent-log table payload.
type LogTableResponse struct {
	Rows  []LogTableRow `json:"rows"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
	Total int64         `json:"total"`
}

// DirectoryResponse is the admin users listing: users with their vehicles and
// the most recent access logs. Degraded marks any response that is not a
// complete live read, whether the canned offline dataset or a partial one.
type DirectoryResponse struct {
	Users      []User      `json:"users"`
	Vehicles   []Vehicle   `json:"vehicles"`
	RecentLogs []AccessLog `json:"recentLogs"`
	Degraded   bool        `json:"degraded"`
}
