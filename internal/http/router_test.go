package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/openshelf/internal/domain"
	"github.com/openshelf/openshelf/internal/service"
	"github.com/openshelf/openshelf/internal/store/drivers/sqlite"
	"github.com/openshelf/openshelf/pkg/jwtx"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	keys, err := jwtx.NewHS256([]byte("test-secret"), "openshelf-test")
	require.NoError(t, err)

	tokens := &service.TokenService{
		Signer:   keys,
		Verifier: keys,
		Issuer:   "openshelf-test",
	}

	logger := slog.New(slog.DiscardHandler)
	r := NewRouter(keys, "test", st, logger)
	r.MFATestMode = true
	r.Env = "test"
	r.TokenService = tokens
	r.AuthService = &service.AuthService{Store: st, Tokens: tokens}
	r.UserService = &service.UserService{Store: st}
	r.MFAService = &service.MFAService{Store: st, Issuer: "OpenShelf"}
	r.CatalogService = &service.CatalogService{Store: st}
	r.NotificationService = &service.NotificationService{Store: st}
	r.AdminService = &service.AdminService{Store: st}
	r.ApplyRoutes()

	return r
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestAuthMFAFlow(t *testing.T) {
	r := newTestRouter(t)

	// Register.
	rec := do(t, r, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "alice@example.com",
		"password": "Secret123!",
		"name":     "Alice",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[domain.UserSummary](t, rec)
	require.Equal(t, "alice@example.com", created.Email)
	require.False(t, created.MFAEnabled)

	// Login without MFA yields a session token directly.
	rec = do(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "Secret123!",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	login := decode[LoginResponse](t, rec)
	require.False(t, login.MFARequired)
	require.NotEmpty(t, login.Token)
	sessionToken := login.Token

	// Current account.
	rec = do(t, r, http.MethodGet, "/api/auth/me", sessionToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[domain.UserSummary](t, rec)
	require.Equal(t, created.ID, me.ID)

	// Begin enrollment.
	rec = do(t, r, http.MethodPost, "/api/auth/mfa/setup", sessionToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	setup := decode[MFASetupResponse](t, rec)
	require.NotEmpty(t, setup.Secret)
	require.Contains(t, setup.ProvisioningURI, "otpauth://totp/")

	// MFA still off: login keeps issuing sessions until a code verifies.
	rec = do(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "Secret123!",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, decode[LoginResponse](t, rec).MFARequired)

	// Wrong code is rejected and leaves MFA off.
	rec = do(t, r, http.MethodPost, "/api/auth/mfa/verify", sessionToken, map[string]string{"code": "000000"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Correct code confirms enrollment and returns a fresh session.
	code, err := totp.GenerateCode(setup.Secret, time.Now())
	require.NoError(t, err)
	rec = do(t, r, http.MethodPost, "/api/auth/mfa/verify", sessionToken, map[string]string{"code": code})
	require.Equal(t, http.StatusOK, rec.Code)
	verified := decode[MFAVerifyResponse](t, rec)
	require.True(t, verified.OK)
	require.NotEmpty(t, verified.Token)
	require.True(t, verified.Account.MFAEnabled)

	// Login is now challenged.
	rec = do(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "Secret123!",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	challenged := decode[LoginResponse](t, rec)
	require.True(t, challenged.MFARequired)
	require.NotEmpty(t, challenged.MFAToken)
	require.Empty(t, challenged.Token)

	// A challenge token is not a session: the authenticated surface
	// rejects it.
	rec = do(t, r, http.MethodGet, "/api/auth/me", challenged.MFAToken, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// But the verify endpoint accepts it with a valid code.
	code, err = totp.GenerateCode(setup.Secret, time.Now())
	require.NoError(t, err)
	rec = do(t, r, http.MethodPost, "/api/auth/mfa/verify", challenged.MFAToken, map[string]string{"code": code})
	require.Equal(t, http.StatusOK, rec.Code)
	full := decode[MFAVerifyResponse](t, rec)
	require.NotEmpty(t, full.Token)

	rec = do(t, r, http.MethodGet, "/api/auth/me", full.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Disable with a correct code, then login goes straight through again.
	code, err = totp.GenerateCode(setup.Secret, time.Now())
	require.NoError(t, err)
	rec = do(t, r, http.MethodPost, "/api/auth/mfa/disable", full.Token, map[string]string{"code": code})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "Secret123!",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	final := decode[LoginResponse](t, rec)
	require.False(t, final.MFARequired)
	require.NotEmpty(t, final.Token)
}

func TestAuthFailureShapes(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/api/auth/register", "", map[string]string{"email": "x@example.com"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, decode[map[string]string](t, rec), "error")

	rec = do(t, r, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "x@example.com", "password": "pw123456",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, r, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": " X@Example.com ", "password": "other",
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	// Unknown email and bad password produce identical bodies.
	recUnknown := do(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "nobody@example.com", "password": "pw123456",
	})
	recWrong := do(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "x@example.com", "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, recUnknown.Code)
	require.Equal(t, http.StatusUnauthorized, recWrong.Code)
	require.Equal(t, recUnknown.Body.String(), recWrong.Body.String())

	// Verify without any usable bearer token is a missing-context 400.
	rec = do(t, r, http.MethodPost, "/api/auth/mfa/verify", "", map[string]string{"code": "123456"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, r, http.MethodPost, "/api/auth/mfa/verify", "garbage-token", map[string]string{"code": "123456"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMFATestCodeEndpoint(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "bob@example.com", "password": "pw123456",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "bob@example.com", "password": "pw123456",
	})
	token := decode[LoginResponse](t, rec).Token

	// Before enrollment there is no secret to derive a code from.
	rec = do(t, r, http.MethodGet, "/api/auth/mfa/test-code", token, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodPost, "/api/auth/mfa/setup", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, r, http.MethodGet, "/api/auth/mfa/test-code", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	code := decode[map[string]string](t, rec)["code"]
	require.Len(t, code, 6)

	// The diagnostic code really verifies.
	rec = do(t, r, http.MethodPost, "/api/auth/mfa/verify", token, map[string]string{"code": code})
	require.Equal(t, http.StatusOK, rec.Code)

	t.Run("unreachable outside test mode", func(t *testing.T) {
		for _, env := range []string{"test", "prod"} {
			h := &MFAHandler{
				MFAService:   r.MFAService,
				UserService:  r.UserService,
				TokenService: r.TokenService,
				TestMode:     env == "prod", // flag alone must not open it in prod
				Env:          env,
			}
			req := httptest.NewRequest(http.MethodGet, "/api/auth/mfa/test-code", nil)
			rec := httptest.NewRecorder()
			h.HandleTestCode(rec, req)
			require.Equal(t, http.StatusNotFound, rec.Code, "env %s", env)
		}
	})
}

func TestCatalogEndpoints(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "carol@example.com", "password": "pw123456",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "carol@example.com", "password": "pw123456",
	})
	token := decode[LoginResponse](t, rec).Token

	// Reads are public, writes need a session.
	rec = do(t, r, http.MethodGet, "/api/books", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, decode[[]domain.Book](t, rec))

	rec = do(t, r, http.MethodPost, "/api/books", "", map[string]any{"title": "Dune"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, r, http.MethodPost, "/api/books", token, map[string]any{
		"title": "Dune", "author": "Frank Herbert", "genre": "sf", "available": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	book := decode[domain.Book](t, rec)
	require.NotEmpty(t, book.ID)

	rec = do(t, r, http.MethodPut, "/api/books/"+book.ID, token, map[string]any{
		"title": "Dune", "author": "Frank Herbert", "genre": "sf", "available": false,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, decode[domain.Book](t, rec).Available)

	rec = do(t, r, http.MethodGet, "/api/books/"+book.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, r, http.MethodDelete, "/api/books/"+book.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, r, http.MethodGet, "/api/books/"+book.ID, "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, r, http.MethodPost, "/api/resources", token, map[string]any{
		"title": "Go spec", "type": "link", "url": "https://go.dev/ref/spec",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, r, http.MethodGet, "/api/resources", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]domain.Resource](t, rec), 1)
}

func TestAdminAndNotifications(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "admin@example.com", "password": "pw123456", "role": "admin",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "admin@example.com", "password": "pw123456",
	})
	adminToken := decode[LoginResponse](t, rec).Token

	rec = do(t, r, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "user@example.com", "password": "pw123456",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	userID := decode[domain.UserSummary](t, rec).ID
	rec = do(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "user@example.com", "password": "pw123456",
	})
	userToken := decode[LoginResponse](t, rec).Token

	// Only admins may send notifications or read stats.
	rec = do(t, r, http.MethodPost, "/api/notifications", userToken, map[string]string{
		"userId": userID, "message": "hi",
	})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, r, http.MethodGet, "/api/admin/stats", userToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, r, http.MethodPost, "/api/notifications", adminToken, map[string]string{
		"userId": userID, "message": "Your book is due tomorrow",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	sent := decode[domain.Notification](t, rec)

	rec = do(t, r, http.MethodGet, "/api/notifications", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]domain.Notification](t, rec)
	require.Len(t, list, 1)
	require.False(t, list[0].Read)

	// Admin's own feed is empty; notifications are per-user.
	rec = do(t, r, http.MethodGet, "/api/notifications", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, decode[[]domain.Notification](t, rec))

	rec = do(t, r, http.MethodPost, "/api/notifications/"+sent.ID+"/read", adminToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, r, http.MethodPost, "/api/notifications/"+sent.ID+"/read", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, r, http.MethodGet, "/api/admin/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[domain.AdminStats](t, rec)
	require.Equal(t, int64(2), stats.Users)
	require.Equal(t, int64(1), stats.Notifications)

	rec = do(t, r, http.MethodGet, "/api/admin/health", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, decode[DBHealth](t, rec).Connected)
}

func TestSystemEndpoints(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decode[map[string]string](t, rec)["status"])

	rec = do(t, r, http.MethodGet, "/health/db", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	health := decode[DBHealth](t, rec)
	require.True(t, health.Connected)
	require.True(t, health.Synced)
	require.True(t, health.Tables["users"])
}
