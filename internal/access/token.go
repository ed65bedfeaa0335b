package access

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"testea/internal/config"
)

// TokenTypeProjectAccess is the payload discriminant. Tokens carrying any
// other type value are rejected even when their signature is valid, so
// future token kinds (user sessions) can share the secret without being
// interchangeable with project access grants.
const TokenTypeProjectAccess = "project_access"

// ProjectAccessClaims is the signed payload of a project access token.
// The wire format is JWS compact serialization (HS256): three base64url
// segments, padding stripped. Field order fixes the payload JSON key order.
// All timestamps are integer Unix seconds, truncated.
type ProjectAccessClaims struct {
	Type        string `json:"type"`
	ProjectID   string `json:"projectId"`
	ProjectName string `json:"projectName"`
	IssuedAt    int64  `json:"issuedAt"`
	ExpiresAt   int64  `json:"expiresAt"`
}

func (c ProjectAccessClaims) GetExpirationTime() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(c.ExpiresAt, 0)), nil
}

func (c ProjectAccessClaims) GetIssuedAt() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(c.IssuedAt, 0)), nil
}

func (c ProjectAccessClaims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }
func (c ProjectAccessClaims) GetIssuer() (string, error)              { return "", nil }
func (c ProjectAccessClaims) GetSubject() (string, error)             { return "", nil }
func (c ProjectAccessClaims) GetAudience() (jwt.ClaimStrings, error)  { return nil, nil }

// Codec issues and verifies project access tokens. It is stateless beyond
// the signing secret and safe for concurrent use.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec builds a codec from explicit config. A missing secret is a
// deploy-time error: issuance must halt rather than sign with a default key.
func NewCodec(cfg config.AccessConfig) (*Codec, error) {
	if cfg.TokenSecret == "" {
		return nil, errors.New("access token secret is required")
	}
	ttl := cfg.TokenTTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &Codec{secret: []byte(cfg.TokenSecret), ttl: ttl}, nil
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Issue mints a token for the project using the configured lifetime.
func (c *Codec) Issue(now time.Time, projectID, projectName string) (string, error) {
	return c.IssueWithTTL(now, projectID, projectName, c.ttl)
}

// IssueWithTTL mints a token with an explicit lifetime. Negative lifetimes
// are legal: expiry tests issue already-dead tokens through the real path.
func (c *Codec) IssueWithTTL(now time.Time, projectID, projectName string, ttl time.Duration) (string, error) {
	issued := now.Unix()
	claims := ProjectAccessClaims{
		Type:        TokenTypeProjectAccess,
		ProjectID:   projectID,
		ProjectName: projectName,
		IssuedAt:    issued,
		ExpiresAt:   issued + int64(ttl/time.Second),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(c.secret)
}

// Verify checks the signature, the type discriminant, then expiry, in that
// order: the payload is not trusted for any decision until the signature
// passes. Every failure collapses to ErrTokenInvalid except a well-signed
// token past its expiry, which is ErrTokenExpired. A token is expired the
// instant now reaches ExpiresAt.
func (c *Codec) Verify(token string, now time.Time) (ProjectAccessClaims, error) {
	var claims ProjectAccessClaims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	parsed, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return ProjectAccessClaims{}, ErrTokenInvalid
	}
	if claims.Type != TokenTypeProjectAccess {
		return ProjectAccessClaims{}, ErrTokenInvalid
	}
	if now.Unix() >= claims.ExpiresAt {
		return ProjectAccessClaims{}, ErrTokenExpired
	}
	return claims, nil
}

// ParseUnsafe decodes the payload without verifying the signature.
// Diagnostic use only (expiry display); never an authorization input.
func (c *Codec) ParseUnsafe(token string) (ProjectAccessClaims, bool) {
	var claims ProjectAccessClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return ProjectAccessClaims{}, false
	}
	return claims, true
}

// RemainingSeconds reports how long an unverified token has left to live.
// Unparsable tokens and expired tokens both report 0.
func (c *Codec) RemainingSeconds(token string, now time.Time) int64 {
	claims, ok := c.ParseUnsafe(token)
	if !ok {
		return 0
	}
	rem := claims.ExpiresAt - now.Unix()
	if rem < 0 {
		return 0
	}
	return rem
}
