package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	h "meetingplanner/internal/delivery/http/helpers"
	"meetingplanner/internal/domain"
)

// TokenRequest is the request body for POST /auth/token
type TokenRequest struct {
	Password string `json:"password"`
}

// Validate implements Validator.
func (t TokenRequest) Validate() []string {
	if t.Password == "" {
		return []string{"password is required"}
	}
	return nil
}

// TokenResponse is the response body for POST /auth/token
type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
}

type AuthController struct {
	Logger  *slog.Logger
	Service domain.AuthService
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
	}
}

// IssueToken godoc
// @Summary Obtain a bearer token
// @Description Exchanges the API password for a JWT used on every /meetings and /reminders route.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body TokenRequest true "API password"
// @Success 200 {object} helpers.APIResponse "data contains token and token_type"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/token [post]
func (c *AuthController) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	token, err := c.Service.Login(r.Context(), req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			c.Logger.WarnContext(r.Context(), "token request rejected", "remote_addr", r.RemoteAddr)
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid credentials")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}

	h.WriteJSONSuccess(w, http.StatusOK, TokenResponse{Token: token, TokenType: "Bearer"})
}
