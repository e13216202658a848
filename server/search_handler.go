package server

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"chat-relay/contract"
	"chat-relay/domain"
)

const defaultSearchLimit = 20

type SearchHandler struct {
	log   *slog.Logger
	index contract.ISearchIndex
}

func NewSearchHandler(log *slog.Logger, index contract.ISearchIndex) *SearchHandler {
	return &SearchHandler{log: log, index: index}
}

// Search runs a full-text query scoped to one room.
// GET /rooms/{room}/search?q=terms&limit=20
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	room := domain.RoomName(mux.Vars(r)["room"])
	terms := r.URL.Query().Get("q")
	if terms == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}

	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	results, err := h.index.Search(r.Context(), room, terms, limit)
	if err != nil {
		h.log.Error("Search failed", "room", room, "error", err)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	payload := make([]messagePayload, 0, len(results))
	for _, m := range results {
		payload = append(payload, toMessagePayload(m))
	}
	writeJSON(w, http.StatusOK, payload)
}
