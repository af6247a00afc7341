package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/openshelf/internal/store"
)

func registerTestUser(t *testing.T, st store.Store, email string) string {
	t.Helper()

	svc := &AuthService{Store: st, Tokens: newTestTokens(t)}
	summary, err := svc.Register(context.Background(), email, "hunter22", "Test User", "")
	require.NoError(t, err)
	return summary.ID
}

func TestMFALifecycle(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &MFAService{Store: st, Issuer: "OpenShelf"}

	userID := registerTestUser(t, st, "eve@example.com")

	enrollment, err := svc.Enroll(ctx, userID)
	require.NoError(t, err)
	require.NotEmpty(t, enrollment.Secret)
	require.Contains(t, enrollment.ProvisioningURI, "otpauth://totp/")
	require.Contains(t, enrollment.ProvisioningURI, "eve%40example.com")
	require.True(t, strings.HasPrefix(enrollment.QRImage, "data:image/png;base64,"))

	// Secret stored but MFA stays off until a code is verified.
	user, err := st.Users().GetUserByID(ctx, userID)
	require.NoError(t, err)
	require.False(t, user.MFAEnabled)
	require.NotNil(t, user.MFASecret)
	require.Equal(t, enrollment.Secret, *user.MFASecret)

	// Re-enrolling before verification replaces the pending secret.
	second, err := svc.Enroll(ctx, userID)
	require.NoError(t, err)
	require.NotEqual(t, enrollment.Secret, second.Secret)

	code, err := totp.GenerateCode(second.Secret, time.Now())
	require.NoError(t, err)

	verified, err := svc.Verify(ctx, userID, code)
	require.NoError(t, err)
	require.True(t, verified.MFAEnabled)

	// Once enabled, enrollment is locked in.
	_, err = svc.Enroll(ctx, userID)
	require.ErrorIs(t, err, ErrMFAAlreadyEnabled)

	// Disable requires a valid code and clears the secret.
	require.ErrorIs(t, svc.Disable(ctx, userID, "000000"), ErrInvalidCode)

	code, err = totp.GenerateCode(second.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, svc.Disable(ctx, userID, code))

	user, err = st.Users().GetUserByID(ctx, userID)
	require.NoError(t, err)
	require.False(t, user.MFAEnabled)
	require.Nil(t, user.MFASecret)
}

func TestVerifyAcceptsAdjacentSteps(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &MFAService{Store: st, Issuer: "OpenShelf"}

	userID := registerTestUser(t, st, "frank@example.com")

	enrollment, err := svc.Enroll(ctx, userID)
	require.NoError(t, err)

	now := time.Now()

	t.Run("previous step accepted", func(t *testing.T) {
		code, err := totp.GenerateCode(enrollment.Secret, now.Add(-30*time.Second))
		require.NoError(t, err)

		_, err = svc.Verify(ctx, userID, code)
		require.NoError(t, err)
	})

	t.Run("next step accepted", func(t *testing.T) {
		code, err := totp.GenerateCode(enrollment.Secret, now.Add(30*time.Second))
		require.NoError(t, err)

		_, err = svc.Verify(ctx, userID, code)
		require.NoError(t, err)
	})

	t.Run("two steps away rejected", func(t *testing.T) {
		// 90s clears two step boundaries regardless of where in the
		// current step now falls.
		stale, err := totp.GenerateCode(enrollment.Secret, now.Add(-90*time.Second))
		require.NoError(t, err)

		_, err = svc.Verify(ctx, userID, stale)
		require.ErrorIs(t, err, ErrInvalidCode)
	})
}

func TestVerifyWithoutEnrollment(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &MFAService{Store: st, Issuer: "OpenShelf"}

	userID := registerTestUser(t, st, "grace@example.com")

	_, err := svc.Verify(ctx, userID, "123456")
	require.ErrorIs(t, err, ErrMFANotEnrolled)

	err = svc.Disable(ctx, userID, "123456")
	require.ErrorIs(t, err, ErrMFANotEnabled)

	_, err = svc.CurrentCode(ctx, userID)
	require.ErrorIs(t, err, ErrMFANotEnrolled)
}

func TestCurrentCodeMatchesValidator(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &MFAService{Store: st, Issuer: "OpenShelf"}

	userID := registerTestUser(t, st, "heidi@example.com")

	_, err := svc.Enroll(ctx, userID)
	require.NoError(t, err)

	code, err := svc.CurrentCode(ctx, userID)
	require.NoError(t, err)
	require.Len(t, code, 6)

	_, err = svc.Verify(ctx, userID, code)
	require.NoError(t, err)
}
