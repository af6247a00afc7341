package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/openshelf/openshelf/internal/domain"
	"github.com/openshelf/openshelf/internal/service"
	"github.com/openshelf/openshelf/internal/store"
	"github.com/openshelf/openshelf/pkg/httpx"
	"github.com/openshelf/openshelf/pkg/slogx"
)

// AuthHandler handles registration, login, and the current-account endpoint.
type AuthHandler struct {
	AuthService *service.AuthService
	UserService *service.UserService
}

// RegisterRequest is the POST /api/auth/register body.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// LoginRequest is the POST /api/auth/login body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the POST /api/auth/login success body. Either Token+User
// or MFARequired+MFAToken is populated, never both.
type LoginResponse struct {
	Token       string              `json:"token,omitempty"`
	User        *domain.UserSummary `json:"user,omitempty"`
	MFARequired bool                `json:"mfaRequired,omitempty"`
	MFAToken    string              `json:"mfaToken,omitempty"`
}

// HandleRegister handles POST /api/auth/register
//
//	@Summary		Register a new account
//	@Description	Creates an account with a bcrypt-hashed password. New accounts start with MFA disabled.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RegisterRequest		true	"Account details"
//	@Success		201		{object}	domain.UserSummary	"Created account"
//	@Failure		400		{object}	map[string]string	"Missing or invalid fields"
//	@Failure		409		{object}	map[string]string	"Email already in use"
//	@Failure		500		{object}	map[string]string	"Internal server error"
//	@Router			/api/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	summary, err := h.AuthService.Register(ctx, req.Email, req.Password, req.Name, req.Role)
	switch {
	case errors.Is(err, service.ErrMissingCredentials), errors.Is(err, service.ErrInvalidRole):
		httpx.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		httpx.Error(w, http.StatusConflict, err.Error())
	case err != nil:
		log.Error("registration failed", "err", err)
		httpx.InternalError(w, "registration failed", err)
	default:
		log.Info("account registered", "user_id", summary.ID, "role", summary.Role)
		httpx.WriteJSON(w, http.StatusCreated, summary)
	}
}

// HandleLogin handles POST /api/auth/login
//
//	@Summary		Log in with email and password
//	@Description	Verifies credentials. Accounts with MFA enabled receive a 5-minute challenge token instead of a session; complete login via the MFA verify endpoint.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest		true	"Credentials"
//	@Success		200		{object}	LoginResponse		"Session token, or MFA challenge"
//	@Failure		400		{object}	map[string]string	"Missing fields"
//	@Failure		401		{object}	map[string]string	"Invalid credentials"
//	@Failure		500		{object}	map[string]string	"Internal server error"
//	@Router			/api/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := h.AuthService.Login(ctx, req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrMissingCredentials):
		httpx.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.Error(w, http.StatusUnauthorized, err.Error())
	case err != nil:
		log.Error("login failed", "err", err)
		httpx.InternalError(w, "login failed", err)
	case result.MFARequired:
		log.Info("login challenged", "user_id", result.User.ID)
		httpx.WriteJSON(w, http.StatusOK, LoginResponse{
			MFARequired: true,
			MFAToken:    result.MFAToken,
		})
	default:
		log.Info("login succeeded", "user_id", result.User.ID)
		user := result.User
		httpx.WriteJSON(w, http.StatusOK, LoginResponse{
			Token: result.Token,
			User:  &user,
		})
	}
}

// HandleMe handles GET /api/auth/me
//
//	@Summary		Get the current account
//	@Description	Returns the authenticated account's summary. Never exposes the password hash or MFA secret.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	domain.UserSummary	"Account summary"
//	@Failure		401	{object}	map[string]string	"Invalid or missing session token"
//	@Failure		404	{object}	map[string]string	"Account no longer exists"
//	@Failure		500	{object}	map[string]string	"Internal server error"
//	@Router			/api/auth/me [get].
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromCtx(ctx)
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.UserService.GetUserByID(ctx, userID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "account not found")
	case err != nil:
		log.Error("failed to load account", "user_id", userID, "err", err)
		httpx.InternalError(w, "failed to load account", err)
	default:
		httpx.WriteJSON(w, http.StatusOK, user.Summary())
	}
}
