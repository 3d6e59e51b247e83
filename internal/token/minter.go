// Package token mints the admin access token used against the control plane.
//
// The token carries admin-bypass claims: user.is_admin is true and the
// teams claim is an explicit JSON null. The control plane treats a missing
// teams claim and an empty list differently from null, so the claim must
// always be present with a null value.
package token

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"forgeseed/internal/config"
)

// AuthProvider is the auth_provider recorded in the embedded user object.
const AuthProvider = "cli"

// KeyError is returned when the signing key cannot be loaded or parsed.
type KeyError struct {
	Algorithm string
	Path      string
	Reason    error
}

// Error returns a user-friendly error message.
func (e *KeyError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("cannot sign %s token: %v", e.Algorithm, e.Reason)
	}
	return fmt.Sprintf("cannot load %s signing key from %s: %v", e.Algorithm, e.Path, e.Reason)
}

// Unwrap returns the underlying error.
func (e *KeyError) Unwrap() error {
	return e.Reason
}

// Minter signs admin tokens from a token configuration.
type Minter struct {
	cfg      config.TokenConfig
	fullName string
	now      func() time.Time
	newID    func() string
	readFile func(string) ([]byte, error)
}

// MinterOption configures a Minter.
type MinterOption func(*Minter)

// WithClock overrides the time source.
func WithClock(now func() time.Time) MinterOption {
	return func(m *Minter) {
		m.now = now
	}
}

// NewMinter creates a Minter. fullName is recorded as user.full_name, for
// example "MindsDB Registration".
func NewMinter(cfg config.TokenConfig, fullName string, opts ...MinterOption) *Minter {
	m := &Minter{
		cfg:      cfg,
		fullName: fullName,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
		readFile: os.ReadFile,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Claims builds the claim set for a token issued at now.
func (m *Minter) Claims(now time.Time) jwt.MapClaims {
	email := m.cfg.AdminEmail
	return jwt.MapClaims{
		"username": email,
		"sub":      email,
		"iat":      now.Unix(),
		"iss":      m.cfg.Issuer,
		"aud":      m.cfg.Audience,
		"jti":      m.newID(),
		"user": map[string]any{
			"email":         email,
			"full_name":     m.fullName,
			"is_admin":      true,
			"auth_provider": AuthProvider,
		},
		"exp": now.Add(time.Duration(m.cfg.ExpiryMinutes) * time.Minute).Unix(),
		// Explicit null: admin bypass keys on this exact value.
		"teams": nil,
	}
}

// Mint returns a signed token.
func (m *Minter) Mint() (string, error) {
	method := jwt.GetSigningMethod(strings.ToUpper(m.cfg.Algorithm))
	if method == nil {
		return "", &KeyError{Algorithm: m.cfg.Algorithm, Reason: fmt.Errorf("unsupported signing algorithm")}
	}

	key, err := m.signingKey(method)
	if err != nil {
		return "", err
	}

	signed, err := jwt.NewWithClaims(method, m.Claims(m.now())).SignedString(key)
	if err != nil {
		return "", &KeyError{Algorithm: m.cfg.Algorithm, Path: m.cfg.PrivateKeyPath, Reason: err}
	}
	return signed, nil
}

func (m *Minter) signingKey(method jwt.SigningMethod) (any, error) {
	switch method.(type) {
	case *jwt.SigningMethodHMAC:
		return []byte(m.cfg.SecretKey), nil
	case *jwt.SigningMethodRSA, *jwt.SigningMethodRSAPSS, *jwt.SigningMethodECDSA:
	default:
		return nil, &KeyError{Algorithm: m.cfg.Algorithm, Reason: fmt.Errorf("unsupported signing method %T", method)}
	}

	if m.cfg.PrivateKeyPath == "" {
		return nil, &KeyError{Algorithm: m.cfg.Algorithm, Reason: fmt.Errorf("no private key path configured")}
	}
	pem, err := m.readFile(m.cfg.PrivateKeyPath)
	if err != nil {
		return nil, &KeyError{Algorithm: m.cfg.Algorithm, Path: m.cfg.PrivateKeyPath, Reason: err}
	}

	var key any
	if _, ok := method.(*jwt.SigningMethodECDSA); ok {
		key, err = jwt.ParseECPrivateKeyFromPEM(pem)
	} else {
		key, err = jwt.ParseRSAPrivateKeyFromPEM(pem)
	}
	if err != nil {
		return nil, &KeyError{Algorithm: m.cfg.Algorithm, Path: m.cfg.PrivateKeyPath, Reason: err}
	}
	return key, nil
}
