package rest

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/santistebanc/partytime-sub000/internal/repository"
	"github.com/santistebanc/partytime-sub000/internal/transport/rest/handler"
	"github.com/santistebanc/partytime-sub000/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	HistoryRepo repository.HistoryRepository
	WSHandler   *ws.Handler
	Log         *slog.Logger
}

// NewRouter creates the HTTP router: the websocket upgrade route, the
// archived-history read endpoint and a health check.
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()
	r.Use(corsMiddleware)

	r.HandleFunc("/ws/rooms/{roomId}", c.WSHandler.RoomWS).Methods("GET")

	historyHandler := handler.NewHistoryHandler(c.HistoryRepo, c.Log)
	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/rooms/{roomId}/history", historyHandler.ListByRoom).Methods("GET", "OPTIONS")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
