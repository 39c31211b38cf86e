package handlers

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/sves-app/vehicle-entry-api/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Feed fans out new access log entries to connected admin dashboards.
type Feed struct {
	mutex   sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func NewFeed() *Feed {
	return &Feed{clients: make(map[*websocket.Conn]struct{})}
}

// FeedHandler upgrades the connection and holds it open until the client
// disconnects. Clients only receive; inbound frames are drained and dropped.
func (f *Feed) FeedHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Warnw("websocket upgrade failed", "error", err)
		return
	}

	f.mutex.Lock()
	f.clients[conn] = struct{}{}
	f.mutex.Unlock()
	zap.S().Infow("feed client connected", "remoteAddr", conn.RemoteAddr().String())

	for {
		if _, _, err := conn.NextReader(); err != nil {
			break
		}
	}

	f.mutex.Lock()
	delete(f.clients, conn)
	f.mutex.Unlock()
	conn.Close()
	zap.S().Infow("feed client disconnected", "remoteAddr", conn.RemoteAddr().String())
}

// Broadcast sends an access log entry to every connected client. Safe to call
// on a nil Feed so handlers never have to guard the dispatch.
func (f *Feed) Broadcast(entry models.AccessLog) {
	if f == nil {
		return
	}

	f.mutex.Lock()
	defer f.mutex.Unlock()

	for conn := range f.clients {
		err := conn.WriteJSON(map[string]interface{}{
			"event": "access_log",
			"data":  entry,
		})
		if err != nil {
			zap.S().Warnw("failed to write to feed client", "error", err)
			delete(f.clients, conn)
			conn.Close()
		}
	}
}
