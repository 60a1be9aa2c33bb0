// Package auth implements credential handling: bearer token issuance and
// verification (HS256 JWT) and password hashing. It owns no HTTP concerns;
// the middleware layer turns its results into request context state.
//
// Conventions:
//   - Access tokens carry exactly two claims: `sub` (principal id) and `exp`.
//   - Every verification failure, whatever its cause (malformed token, wrong
//     signature, expired, unexpected algorithm), is reported as
//     bizerr.AuthFail so callers cannot leak which check rejected the token.
//   - Password-reset tokens are purpose-bound via the audience claim so an
//     access token can never be replayed as a reset token or vice versa.
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/dida1024/AideX/internal/bizerr"
	"github.com/dida1024/AideX/internal/domain"
	"github.com/dida1024/AideX/internal/repo"
)

// resetAudience marks password-reset tokens. Access tokens carry no audience.
const resetAudience = "password-reset"

// TokenIssuer signs and verifies HS256 bearer tokens with a shared secret.
type TokenIssuer struct {
	Secret         []byte
	AccessTokenTTL time.Duration
	ResetTokenTTL  time.Duration

	// Now allows tests to pin the clock. Defaults to time.Now.
	Now func() time.Time
}

func (t *TokenIssuer) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

// Issue returns a signed access token for the given principal id, expiring
// after the configured access TTL.
func (t *TokenIssuer) Issue(subject string) (string, error) {
	return t.sign(subject, nil, t.AccessTokenTTL)
}

// IssueResetToken returns a signed password-reset token bound to the given
// email, expiring after the configured reset TTL.
func (t *TokenIssuer) IssueResetToken(email string) (string, error) {
	return t.sign(email, []string{resetAudience}, t.ResetTokenTTL)
}

func (t *TokenIssuer) sign(subject string, audience []string, ttl time.Duration) (string, error) {
	now := t.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	if len(audience) > 0 {
		claims.Audience = audience
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(t.Secret)
}

// VerifySubject parses and validates a token and returns its subject. All
// failure modes collapse to bizerr.AuthFail.
func (t *TokenIssuer) VerifySubject(raw string) (string, error) {
	return t.verify(raw, "")
}

// VerifyResetToken validates a password-reset token and returns the email it
// was issued for. Plain access tokens are rejected.
func (t *TokenIssuer) VerifyResetToken(raw string) (string, error) {
	return t.verify(raw, resetAudience)
}

func (t *TokenIssuer) verify(raw, audience string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", bizerr.New(bizerr.AuthFail)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}

	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return t.Secret, nil
	}, opts...)
	if err != nil || !tok.Valid || claims.Subject == "" {
		return "", bizerr.New(bizerr.AuthFail)
	}
	// Reject reset tokens presented as access tokens.
	if audience == "" {
		for _, aud := range claims.Audience {
			if aud == resetAudience {
				return "", bizerr.New(bizerr.AuthFail)
			}
		}
	}
	return claims.Subject, nil
}

// Authenticator resolves a bearer token to an active user. It performs one
// store lookup per call; principals are never cached between requests.
type Authenticator struct {
	DB     *gorm.DB
	Issuer *TokenIssuer
}

// Authenticate verifies raw and loads the user it identifies.
//
// Errors: AuthFail (any token defect), UserNotFound (subject no longer
// exists), UserNotActive (user is deactivated).
func (a *Authenticator) Authenticate(ctx context.Context, raw string) (*domain.User, error) {
	sub, err := a.Issuer.VerifySubject(raw)
	if err != nil {
		return nil, err
	}
	u, err := repo.GetUser(ctx, a.DB, sub)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, bizerr.New(bizerr.UserNotFound)
	}
	if !u.IsActive {
		return nil, bizerr.New(bizerr.UserNotActive)
	}
	return u, nil
}
