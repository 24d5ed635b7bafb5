package authhandler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"paygen/internal/auth"
	"paygen/internal/transport/http/api"
	"paygen/internal/transport/http/middleware"
)

const tokenTTL = 12 * time.Hour

// Handler signs in the single configured operator account.
type Handler struct {
	secret       string
	adminEmail   string
	passwordHash string
}

func NewHandler(secret, adminEmail, adminPassword string) (*Handler, error) {
	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return nil, err
	}
	return &Handler{secret: secret, adminEmail: adminEmail, passwordHash: hash}, nil
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload loginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid login payload", requestID)
		return
	}

	if !strings.EqualFold(payload.Email, h.adminEmail) || auth.CheckPassword(h.passwordHash, payload.Password) != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "email or password is incorrect", requestID)
		return
	}

	token, err := auth.GenerateToken(h.secret, auth.Claims{Email: h.adminEmail}, tokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_failed", "failed to issue token", requestID)
		return
	}

	api.Success(w, map[string]string{"token": token}, requestID)
}
