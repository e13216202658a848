package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter assembles the HTTP surface.
func NewRouter(authHandler *AuthHandler, wsHandler *WSHandler, searchHandler *SearchHandler) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	router.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	router.HandleFunc("/auth/me", authHandler.Me).Methods(http.MethodGet)

	router.Handle("/ws", wsHandler).Methods(http.MethodGet)

	router.HandleFunc("/rooms/{room}/search", searchHandler.Search).Methods(http.MethodGet)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	return router
}
