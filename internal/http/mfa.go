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

// MFAHandler handles TOTP enrollment, verification, and disable.
type MFAHandler struct {
	MFAService   *service.MFAService
	UserService  *service.UserService
	TokenService *service.TokenService

	// TestMode exposes HandleTestCode. Refused when Env marks production
	// regardless of the flag.
	TestMode bool
	Env      string
}

// MFASetupResponse is the enrollment payload. The secret and QR are shown
// once; the account's MFA flag stays off until the first code verifies.
type MFASetupResponse struct {
	Secret          string `json:"secret"`
	ProvisioningURI string `json:"otpauthUrl"`
	QRImage         string `json:"qr"`
}

// MFACodeRequest carries a six-digit TOTP code.
type MFACodeRequest struct {
	Code string `json:"code"`
}

// MFAVerifyResponse is the verify success payload: a fresh full session
// token regardless of whether the call confirmed enrollment or satisfied a
// login challenge.
type MFAVerifyResponse struct {
	OK      bool               `json:"ok"`
	Token   string             `json:"token"`
	Account domain.UserSummary `json:"account"`
}

// HandleSetup handles POST /api/auth/mfa/setup
//
//	@Summary		Begin TOTP enrollment
//	@Description	Generates a TOTP secret for the authenticated account and returns it with an otpauth URI and QR data URL. MFA activates on the first successful verify.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	MFASetupResponse	"Secret, URI and QR code"
//	@Failure		400	{object}	map[string]string	"MFA already enabled"
//	@Failure		401	{object}	map[string]string	"Invalid or missing session token"
//	@Failure		404	{object}	map[string]string	"Account not found"
//	@Failure		500	{object}	map[string]string	"Internal server error"
//	@Router			/api/auth/mfa/setup [post].
func (h *MFAHandler) HandleSetup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromCtx(ctx)
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	enrollment, err := h.MFAService.Enroll(ctx, userID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "account not found")
	case errors.Is(err, service.ErrMFAAlreadyEnabled):
		httpx.Error(w, http.StatusBadRequest, err.Error())
	case err != nil:
		log.Error("mfa enrollment failed", "user_id", userID, "err", err)
		httpx.InternalError(w, "mfa enrollment failed", err)
	default:
		log.Info("mfa enrollment started", "user_id", userID)
		httpx.WriteJSON(w, http.StatusOK, MFASetupResponse{
			Secret:          enrollment.Secret,
			ProvisioningURI: enrollment.ProvisioningURI,
			QRImage:         enrollment.QRImage,
		})
	}
}

// HandleVerify handles POST /api/auth/mfa/verify
//
// This endpoint parses its own bearer token instead of sitting behind
// AuthnMiddleware: a login challenge arrives with a purpose-tagged MFA
// token the middleware would reject, while enrollment confirmation arrives
// with a full session token. Both carry the subject id; any unusable token
// collapses to "missing auth context".
//
//	@Summary		Verify a TOTP code
//	@Description	Confirms enrollment (first success flips MFA on) or satisfies a login challenge. Accepts a session or MFA-challenge bearer token and always returns a fresh session token on success.
//	@Tags			MFA
//	@Accept			json
//	@Produce		json
//	@Param			request	body		MFACodeRequest		true	"TOTP code"
//	@Success		200		{object}	MFAVerifyResponse	"Fresh session token"
//	@Failure		400		{object}	map[string]string	"Missing auth context, missing code, or no enrolled secret"
//	@Failure		401		{object}	map[string]string	"Invalid TOTP code"
//	@Failure		404		{object}	map[string]string	"Account not found"
//	@Failure		500		{object}	map[string]string	"Internal server error"
//	@Router			/api/auth/mfa/verify [post].
func (h *MFAHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	claims, ok := h.TokenService.Identify(httpx.BearerToken(r))
	if !ok || claims.Subject == "" {
		httpx.Error(w, http.StatusBadRequest, "missing auth context")
		return
	}

	var req MFACodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		httpx.Error(w, http.StatusBadRequest, "code is required")
		return
	}

	user, err := h.MFAService.Verify(ctx, claims.Subject, req.Code)
	switch {
	case errors.Is(err, store.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "account not found")
	case errors.Is(err, service.ErrMFANotEnrolled):
		httpx.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCode):
		log.Warn("mfa code rejected", "user_id", claims.Subject)
		httpx.Error(w, http.StatusUnauthorized, err.Error())
	case err != nil:
		log.Error("mfa verification failed", "user_id", claims.Subject, "err", err)
		httpx.InternalError(w, "mfa verification failed", err)
		return
	default:
		token, err := h.TokenService.IssueSession(user)
		if err != nil {
			log.Error("failed to issue session token", "user_id", user.ID, "err", err)
			httpx.InternalError(w, "failed to issue session token", err)
			return
		}
		log.Info("mfa code verified", "user_id", user.ID, "challenge", claims.IsChallenge())
		httpx.WriteJSON(w, http.StatusOK, MFAVerifyResponse{
			OK:      true,
			Token:   token,
			Account: user.Summary(),
		})
	}
}

// HandleDisable handles POST /api/auth/mfa/disable
//
//	@Summary		Disable MFA
//	@Description	Turns MFA off after validating a current TOTP code. Clears the enabled flag and the secret together.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		MFACodeRequest		true	"TOTP code"
//	@Success		200		{object}	map[string]bool		"ok"
//	@Failure		400		{object}	map[string]string	"Missing code or MFA not enabled"
//	@Failure		401		{object}	map[string]string	"Invalid TOTP code or missing session token"
//	@Failure		404		{object}	map[string]string	"Account not found"
//	@Failure		500		{object}	map[string]string	"Internal server error"
//	@Router			/api/auth/mfa/disable [post].
func (h *MFAHandler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromCtx(ctx)
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req MFACodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		httpx.Error(w, http.StatusBadRequest, "code is required")
		return
	}

	err := h.MFAService.Disable(ctx, userID, req.Code)
	switch {
	case errors.Is(err, store.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "account not found")
	case errors.Is(err, service.ErrMFANotEnabled):
		httpx.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCode):
		log.Warn("mfa disable rejected", "user_id", userID)
		httpx.Error(w, http.StatusUnauthorized, err.Error())
	case err != nil:
		log.Error("mfa disable failed", "user_id", userID, "err", err)
		httpx.InternalError(w, "mfa disable failed", err)
	default:
		log.Info("mfa disabled", "user_id", userID)
		httpx.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

// HandleTestCode handles GET /api/auth/mfa/test-code
//
// Diagnostic endpoint returning the code currently valid for the caller's
// enrolled secret. Only reachable when test mode is on and the deployment
// is not production; otherwise it answers 404 as if unrouted.
//
//	@Summary		Current TOTP code (test mode only)
//	@Description	Returns the TOTP code valid right now for the authenticated account. 404 unless the server runs in test mode outside production.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	map[string]string	"code"
//	@Failure		400	{object}	map[string]string	"No enrolled secret"
//	@Failure		401	{object}	map[string]string	"Invalid or missing session token"
//	@Failure		404	{object}	map[string]string	"Not available"
//	@Router			/api/auth/mfa/test-code [get].
func (h *MFAHandler) HandleTestCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if !h.TestMode || h.Env == "prod" || h.Env == "production" {
		http.NotFound(w, r)
		return
	}

	userID, ok := httpx.UserIDFromCtx(ctx)
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	code, err := h.MFAService.CurrentCode(ctx, userID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "account not found")
	case errors.Is(err, service.ErrMFANotEnrolled):
		httpx.Error(w, http.StatusBadRequest, err.Error())
	case err != nil:
		log.Error("failed to compute test code", "user_id", userID, "err", err)
		httpx.InternalError(w, "failed to compute test code", err)
	default:
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"code": code})
	}
}
