package netsync

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// Status is the body served at /status.
type Status struct {
	Viewers int    `json:"viewers"`
	Sent    uint64 `json:"frames_sent"`
	Dropped uint64 `json:"frames_dropped"`
}

// NewRouter serves the frame stream at /frames and broadcaster counters at
// /status. Requests are logged in combined log format to accessLog when it
// is non-nil.
func NewRouter(b *Broadcaster, accessLog io.Writer) http.Handler {
	router := mux.NewRouter()
	router.Handle("/frames", b).Methods("GET")
	router.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		sent, dropped := b.Stats()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Status{Viewers: b.Clients(), Sent: sent, Dropped: dropped})
	}).Methods("GET")

	if accessLog == nil {
		return router
	}
	return handlers.CombinedLoggingHandler(accessLog, router)
}
