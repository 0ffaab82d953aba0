package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/santistebanc/partytime-sub000/internal/repository"
)

// HistoryHandler serves the archived round history of a room.
type HistoryHandler struct {
	repo repository.HistoryRepository
	log  *slog.Logger
}

func NewHistoryHandler(repo repository.HistoryRepository, log *slog.Logger) *HistoryHandler {
	return &HistoryHandler{repo: repo, log: log}
}

// ListByRoom handles GET /v1/rooms/{roomId}/history
func (h *HistoryHandler) ListByRoom(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]

	entries, err := h.repo.ListByRoom(r.Context(), roomID)
	if err != nil {
		h.log.Error("list archived history", "room", roomID, "error", err)
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []repository.ArchivedEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"entries": entries})
}
