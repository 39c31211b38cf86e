package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// noDocuments reports whether err is the driver's "no matching document"
// sentinel, as opposed to an infrastructure failure.
func noDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
