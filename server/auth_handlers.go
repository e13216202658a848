package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"chat-relay/auth"
	"chat-relay/errors"
	"chat-relay/services"
)

type AuthHandler struct {
	log    *slog.Logger
	svc    services.IAuthService
	tokens *auth.TokenManager
}

func NewAuthHandler(log *slog.Logger, svc services.IAuthService, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{log: log, svc: svc, tokens: tokens}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type meResponse struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.svc.Register(req.Name, req.Email, req.Password)
	if err != nil {
		h.log.Warn("Registration refused", "email", req.Email, "error", err)
		writeError(w, errors.MapToHTTPStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, tokenResponse{Token: token.String()})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		writeError(w, errors.MapToHTTPStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token.String()})
}

// Me echoes the identity carried by the bearer token, mostly for clients
// checking whether a stored token is still valid.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, err := h.tokens.Validate(bearerToken(r))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	writeJSON(w, http.StatusOK, meResponse{
		UserID: claims.UserID,
		Name:   claims.DisplayName,
		Email:  claims.Email,
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return after
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
