package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"

	"github.com/xenking/northwind-api/internal/domain/auth"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token      string    `json:"token"`
	Expiration time.Time `json:"expiration"`
}

// Login checks the credential pair and issues an access token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		respondInternal(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, tokenResponse{
		Token:      token.Value,
		Expiration: token.ExpiresAt,
	})
}
