package httpserver

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"userAuthBackend/internal/auth"
)

// Handler bundles dependencies of the HTTP endpoints.
type Handler struct {
	Auth *auth.Service
	DB   Pinger
}

// Request fields are pointers so a missing key (or null) stays distinct from
// an empty string.
type loginRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

type registerRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	Email    *string `json:"email"`
}

type loginResponse struct {
	Success  bool   `json:"success"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	IsAdmin  int    `json:"is_admin"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

const (
	msgInvalidBody = "Invalid request body"
	msgInternal    = "Internal server error"
)

// Login handles POST /login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: msgInvalidBody})
		return
	}

	res, err := h.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		log.Printf("login %q: %v", value(req.Username), err)
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: msgInternal})
		return
	}
	if !res.Success {
		writeJSON(w, statusFor(res.Failure), messageResponse{Message: res.Message})
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{
		Success:  true,
		UserID:   res.User.ID,
		Username: res.User.Username,
		IsAdmin:  res.User.IsAdmin,
	})
}

// Register handles POST /register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: msgInvalidBody})
		return
	}

	res, err := h.Auth.Register(r.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		log.Printf("register %q: %v", value(req.Username), err)
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: msgInternal})
		return
	}
	if !res.Success {
		writeJSON(w, statusFor(res.Failure), messageResponse{Message: res.Message})
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: res.Message})
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if h.DB != nil {
		if err := h.DB.PingContext(ctx); err != nil {
			log.Printf("health: db ping: %v", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusFor maps an expected auth failure to its HTTP status.
func statusFor(f auth.Failure) int {
	switch f {
	case auth.InvalidCredentials:
		return http.StatusUnauthorized
	case auth.DuplicateUsername:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
