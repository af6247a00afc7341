package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/openshelf/openshelf/internal/domain"
	"github.com/openshelf/openshelf/internal/store"
)

var (
	// ErrMFAAlreadyEnabled means enrollment was attempted on an account
	// that already completed it.
	ErrMFAAlreadyEnabled = errors.New("mfa already enabled")

	// ErrMFANotEnrolled means verification was attempted before any
	// secret was provisioned.
	ErrMFANotEnrolled = errors.New("mfa not set up")

	// ErrMFANotEnabled means disable was attempted while MFA was off.
	ErrMFANotEnabled = errors.New("mfa not enabled")

	// ErrInvalidCode means the submitted TOTP code did not match within
	// the accepted clock window.
	ErrInvalidCode = errors.New("invalid mfa code")
)

const qrImageSize = 256

// MFAService implements TOTP enrollment and verification. Codes are six
// digits over 30 second steps, accepted one step either side of now.
type MFAService struct {
	Store  store.Store
	Issuer string
}

// Enroll provisions a fresh TOTP secret for the user and returns the
// otpauth URI plus a QR data URL for authenticator apps. Re-enrolling
// before verification replaces the pending secret; once MFA is enabled
// the existing secret is locked in.
func (s *MFAService) Enroll(ctx context.Context, userID string) (domain.MFAEnrollment, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.MFAEnrollment{}, err
	}
	if user.MFAEnabled {
		return domain.MFAEnrollment{}, ErrMFAAlreadyEnabled
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: user.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return domain.MFAEnrollment{}, fmt.Errorf("failed to generate totp secret: %w", err)
	}

	if err := s.Store.Users().UpdateMFASecret(ctx, userID, key.Secret()); err != nil {
		return domain.MFAEnrollment{}, err
	}

	qr, err := qrDataURL(key)
	if err != nil {
		return domain.MFAEnrollment{}, fmt.Errorf("failed to render qr code: %w", err)
	}

	return domain.MFAEnrollment{
		Secret:          key.Secret(),
		ProvisioningURI: key.URL(),
		QRImage:         qr,
	}, nil
}

// Verify checks a TOTP code against the user's provisioned secret. The
// first successful verification flips MFA on; later ones (the login
// challenge flow) leave state untouched.
func (s *MFAService) Verify(ctx context.Context, userID, code string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	if user.MFASecret == nil || *user.MFASecret == "" {
		return domain.User{}, ErrMFANotEnrolled
	}

	if !totp.Validate(code, *user.MFASecret) {
		return domain.User{}, ErrInvalidCode
	}

	if !user.MFAEnabled {
		if err := s.Store.Users().EnableMFA(ctx, userID); err != nil {
			return domain.User{}, err
		}
		user.MFAEnabled = true
	}
	return user, nil
}

// Disable turns MFA off after proving possession of the authenticator.
// The secret is cleared in the same write so a later enrollment starts
// from scratch.
func (s *MFAService) Disable(ctx context.Context, userID, code string) error {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.MFAEnabled || user.MFASecret == nil {
		return ErrMFANotEnabled
	}

	if !totp.Validate(code, *user.MFASecret) {
		return ErrInvalidCode
	}

	return s.Store.Users().DisableMFA(ctx, userID)
}

// CurrentCode computes the code valid right now for the user's secret.
// Diagnostic only, exposed solely when the server runs in test mode.
func (s *MFAService) CurrentCode(ctx context.Context, userID string) (string, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.MFASecret == nil || *user.MFASecret == "" {
		return "", ErrMFANotEnrolled
	}
	code, err := totp.GenerateCode(*user.MFASecret, time.Now())
	if err != nil {
		return "", fmt.Errorf("failed to generate totp code: %w", err)
	}
	return code, nil
}

func qrDataURL(key *otp.Key) (string, error) {
	img, err := key.Image(qrImageSize, qrImageSize)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
