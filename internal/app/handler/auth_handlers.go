package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/emeralddgc/disc-tracker/internal/app/service"
	"github.com/emeralddgc/disc-tracker/internal/models"
)

// AuthHandler serves login, logout and the session status check.
type AuthHandler struct {
	auth   service.AuthIface
	logger *zap.Logger
}

func NewAuth(a service.AuthIface, l *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   a,
		logger: l,
	}
}

// Login handles POST /admin/login. A successful login returns a bearer
// token and sets the signed session cookie; a mismatch is 401 and issues
// no marker of either kind.
func (h *AuthHandler) Login(res http.ResponseWriter, req *http.Request) {
	var request models.LoginRequest
	if err := decodeJSONBody(res, req, &request); err != nil {
		writeDecodeError(res, h.logger, err)
		return
	}

	token, err := h.auth.Login(request.Username, request.Password)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			writeError(res, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		writeServiceError(res, h.logger, err)
		return
	}

	cookie, err := h.auth.BuildSessionCookie()
	if err != nil {
		h.logger.Error("cannot build session cookie", zap.Error(err))
		writeError(res, http.StatusInternalServerError, "Login failed")
		return
	}
	http.SetCookie(res, cookie)

	writeJSON(res, http.StatusOK, models.LoginResponse{
		Success: true,
		Token:   token,
		Message: "Login successful",
	})
}

// Logout handles POST /admin/logout: revokes the presented bearer token
// and expires the session cookie. Other sessions stay valid.
func (h *AuthHandler) Logout(res http.ResponseWriter, req *http.Request) {
	if token := service.BearerToken(req); token != "" {
		h.auth.Revoke(token)
	}
	http.SetCookie(res, h.auth.ExpiredSessionCookie())

	writeJSON(res, http.StatusOK, models.MessageResponse{Success: true, Message: "Logged out"})
}

// Status handles GET /admin/status.
func (h *AuthHandler) Status(res http.ResponseWriter, req *http.Request) {
	writeJSON(res, http.StatusOK, models.StatusResponse{IsAdmin: h.auth.IsAuthorized(req)})
}
