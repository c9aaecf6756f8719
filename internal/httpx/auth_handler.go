package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reskianugrahsari/aplikasi-kasir/internal/auth"
)

type SessionStore interface {
	SessionValidator
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context, token string) error
}

type AuthHandler struct {
	Sessions SessionStore
	Carts    *CartStore
}

// RegisterPublic mounts the login route outside the session gate.
func (h *AuthHandler) RegisterPublic(r chi.Router) {
	r.Post("/login", h.login)
}

// RegisterPrivate mounts logout behind the gate.
func (h *AuthHandler) RegisterPrivate(r chi.Router) {
	r.Post("/logout", h.logout)
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResp struct {
	Token string `json:"token"`
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "username dan password harus diisi"})
		return
	}
	token, err := h.Sessions.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "username atau password salah"})
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResp{Token: token})
}

// logout clears the session and drops any in-progress cart with it.
func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r.Context())
	if err := h.Sessions.Logout(r.Context(), token); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if h.Carts != nil {
		h.Carts.Drop(token)
	}
	w.WriteHeader(http.StatusNoContent)
}
