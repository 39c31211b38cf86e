package handlers_test

import (
	"testing"

	"github.com/sves-app/vehicle-entry-api/api/handlers"
	"github.com/sves-app/vehicle-entry-api/models"
)

func TestFeed_BroadcastNilFeed(t *testing.T) {
	var f *handlers.Feed

	// handlers call Broadcast unconditionally, a nil feed must be a no-op
	f.Broadcast(models.AccessLog{Action: "Registration"})
}

func TestFeed_BroadcastNoClients(t *testing.T) {
	f := handlers.NewFeed()
	f.Broadcast(models.AccessLog{Action: "Registration"})
}
