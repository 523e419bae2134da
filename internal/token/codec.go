package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	gojose "github.com/go-jose/go-jose/v4"
	gojwt "github.com/go-jose/go-jose/v4/jwt"
)

// Verification failures are collapsed into three causes so callers can
// distinguish tampering from natural expiry and garbage input.
var (
	// ErrMalformed means the token could not be parsed into its segments.
	ErrMalformed = errors.New("malformed token")
	// ErrBadSignature means the signature does not match the payload.
	ErrBadSignature = errors.New("bad token signature")
	// ErrExpired means the token was valid but its TTL has elapsed.
	ErrExpired = errors.New("token expired")
)

var signingAlgorithms = []gojose.SignatureAlgorithm{gojose.HS256}

// Codec signs and verifies self-contained bearer tokens. It holds no mutable
// state and is safe for concurrent use; revocation is handled elsewhere.
type Codec struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewCodec constructs a codec signing with HS256 under the given secret.
func NewCodec(secret, issuer string) *Codec {
	return &Codec{secret: []byte(secret), issuer: issuer, now: time.Now}
}

// Issue mints a signed token for the subject with the given TTL.
func (c *Codec) Issue(subject string, ttl time.Duration) (string, error) {
	signer, err := gojose.NewSigner(
		gojose.SigningKey{Algorithm: gojose.HS256, Key: c.secret},
		(&gojose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return "", fmt.Errorf("new signer: %w", err)
	}

	now := c.now().UTC()
	claims := gojwt.Claims{
		Subject:  subject,
		Issuer:   c.issuer,
		IssuedAt: gojwt.NewNumericDate(now),
		Expiry:   gojwt.NewNumericDate(now.Add(ttl)),
	}

	raw, err := gojwt.Signed(signer).Claims(claims).Serialize()
	if err != nil {
		return "", fmt.Errorf("serialize token: %w", err)
	}
	return raw, nil
}

// Verify checks structure, signature, and expiry, in that order, and returns
// the embedded subject. The HMAC comparison inside go-jose is constant time.
func (c *Codec) Verify(raw string) (string, error) {
	parsed, err := gojwt.ParseSigned(raw, signingAlgorithms)
	if err != nil {
		return "", ErrMalformed
	}

	var claims gojwt.Claims
	if err := parsed.Claims(c.secret, &claims); err != nil {
		return "", ErrBadSignature
	}
	if claims.Expiry == nil {
		return "", ErrMalformed
	}
	if err := claims.ValidateWithLeeway(gojwt.Expected{Time: c.now()}, 0); err != nil {
		if errors.Is(err, gojwt.ErrExpired) {
			return "", ErrExpired
		}
		return "", ErrBadSignature
	}
	return claims.Subject, nil
}

// Expiry decodes only the payload and returns the embedded expiry. It
// deliberately skips signature verification so that cleanup keeps working on
// tokens signed under a rotated secret; only structural damage fails it.
func (c *Codec) Expiry(raw string) (time.Time, error) {
	parsed, err := gojwt.ParseSigned(raw, signingAlgorithms)
	if err != nil {
		return time.Time{}, ErrMalformed
	}
	var claims gojwt.Claims
	if err := parsed.UnsafeClaimsWithoutVerification(&claims); err != nil {
		return time.Time{}, ErrMalformed
	}
	if claims.Expiry == nil {
		return time.Time{}, ErrMalformed
	}
	return claims.Expiry.Time(), nil
}

const bearerPrefix = "Bearer "

// FromAuthorizationHeader extracts the raw token from an Authorization
// header value. A missing or malformed prefix yields ok=false.
func FromAuthorizationHeader(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	raw := strings.TrimSpace(header[len(bearerPrefix):])
	if raw == "" {
		return "", false
	}
	return raw, true
}
