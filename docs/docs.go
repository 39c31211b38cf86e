// Package docs Smart Vehicle Entry System API.
//
// Documentation of the vehicle entry registration API.
//
//     Schemes: https
//     BasePath: /
//     Version: 1.0.0
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
//     Security:
//     - basic
//
//    SecurityDefinitions:
//    basic:
//      type: basic
//
// swagger:meta
package docs

import (
	"github.com/sves-app/vehicle-entry-api/models"
)

// swagger:route GET /api/health health healthEndpointID
// Reports whether the service can reach its database.
// responses:
//   200: healthResponse

// Current health of the api.
// swagger:response healthResponse
type healthResponseWrapper struct {
	// in:body
	Body models.HealthCheckResponse
}

// swagger:route POST /api/register registration registerEndpointID
// Registers a user together with their vehicle and writes an access log entry.
// responses:
//   201: registerResponse

// The created user and vehicle.
// swagger:response registerResponse
type registerResponseWrapper struct {
	// in:body
	Body struct {
		Message string `json:"message"`
		Data    struct {
			User    models.User    `json:"user"`
			Vehicle models.Vehicle `json:"vehicle"`
		} `json:"data"`
	}
}

// swagger:route GET /api/admin/users directory listUsersEndpointID
// Lists all users with their vehicles and the most recent access logs.
// responses:
//   200: directoryResponse

// Users with their vehicles and recent access logs.
// swagger:response directoryResponse
type directoryResponseWrapper struct {
	// in:body
	Body models.DirectoryResponse
}

// swagger:route GET /api/admin/reports/stats reports statsEndpointID
// Dashboard stat cards built from the access log.
// responses:
//   200: statsResponse

// Aggregate counters for the dashboard.
// swagger:response statsResponse
type statsResponseWrapper struct {
	// in:body
	Body models.StatsResponse
}

// Error payload written for every failed request.
// swagger:response errorResponse
type errorResponseWrapper struct {
	// in:body
	Body models.ErrorMessageResponse
}
