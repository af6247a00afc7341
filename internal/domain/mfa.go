package domain

// MFAEnrollment is returned when TOTP enrollment begins. The account's flag
// stays off until the first code verifies; the QR image lets the caller show
// something scannable without rendering the URI itself.
type MFAEnrollment struct {
	Secret          string // base32 shared secret
	ProvisioningURI string // otpauth:// URI embedding issuer and account email
	QRImage         string // PNG data URL of the provisioning URI
}
