package services

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fuelbuddy/fuelbuddy-api/internal/config"
)

var (
	// ErrInvalidToken is returned for any credential the provider's
	// verification rules reject.
	ErrInvalidToken = errors.New("invalid identity token")
)

// TokenVerifier checks a bearer credential issued by the external
// identity provider and returns the principal's stable identifier.
// Issuance, refresh, and revocation all live with the provider.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// JWTVerifier validates provider-signed JWTs. RS256 against the
// provider's public key in production; HS256 against a shared secret
// for local development.
type JWTVerifier struct {
	publicKey *rsa.PublicKey
	secret    []byte
	issuer    string
	audience  string
}

// NewJWTVerifier builds a verifier from config. A public key file
// takes precedence over a shared secret.
func NewJWTVerifier(cfg *config.Config) (*JWTVerifier, error) {
	v := &JWTVerifier{
		issuer:   cfg.AuthIssuer,
		audience: cfg.AuthAudience,
	}

	if cfg.AuthJWTPublicKeyFile != "" {
		pemBytes, err := os.ReadFile(cfg.AuthJWTPublicKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read auth public key: %w", err)
		}
		key, err := jwt.ParseRSAPublicKeyFromPEM(pemBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse auth public key: %w", err)
		}
		v.publicKey = key
		return v, nil
	}

	if cfg.AuthJWTSecret == "" {
		return nil, errors.New("no auth verification key configured: set AUTH_JWT_PUBLIC_KEY_FILE or AUTH_JWT_SECRET")
	}
	v.secret = []byte(cfg.AuthJWTSecret)
	return v, nil
}

// Verify parses and validates the token and returns its subject claim.
func (v *JWTVerifier) Verify(token string) (string, error) {
	opts := []jwt.ParserOption{}
	if v.publicKey != nil {
		opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	} else {
		opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, v.keyFunc, opts...)
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func (v *JWTVerifier) keyFunc(t *jwt.Token) (any, error) {
	if v.publicKey != nil {
		return v.publicKey, nil
	}
	return v.secret, nil
}
