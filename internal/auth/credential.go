package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "warehouse-service/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
)

// Clock returns the current time. Tests freeze it.
type Clock func() time.Time

// headerSegment is base64url({"alg":"HS256","typ":"JWT"}), the only header
// this issuer ever writes.
var headerSegment = base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))

// Credentials issues and verifies self-contained bearer tokens.
type Credentials struct {
	signer *Signer
	now    Clock
}

func NewCredentials(signer *Signer, now Clock) *Credentials {
	if now == nil {
		now = time.Now
	}
	return &Credentials{
		signer: signer,
		now:    now,
	}
}

// Issue stamps iat/exp/kind onto identity and returns the signed token.
// ttl must be a whole number of seconds, at least one. Policy on the
// maximum ttl belongs to the caller.
func (s *Credentials) Issue(identity Identity, ttl time.Duration) (string, error) {
	token, _, err := s.IssueClaims(identity, ttl)
	return token, err
}

// IssueClaims is Issue that also returns the claims it signed.
func (s *Credentials) IssueClaims(identity Identity, ttl time.Duration) (string, *Claims, error) {
	if ttl < time.Second {
		return "", nil, apperrors.BadRequest(msgCredentialTTLTooShort)
	}
	if ttl%time.Second != 0 {
		return "", nil, apperrors.BadRequest(msgCredentialTTLFraction)
	}

	issuedAt := s.now().Unix()
	expiresAt := issuedAt + int64(ttl/time.Second)

	claims := &Claims{
		DisplayName: identity.DisplayName,
		Role:        identity.Role,
		ExternalID:  identity.ExternalID,
		Kind:        KindAccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.SubjectID,
			IssuedAt:  jwt.NewNumericDate(time.Unix(issuedAt, 0)),
			ExpiresAt: jwt.NewNumericDate(time.Unix(expiresAt, 0)),
		},
	}

	signingString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SigningString()
	if err != nil {
		return "", nil, fmt.Errorf(msgEncodeClaimsFailedFmt, err)
	}

	return signingString + tokenSeparator + s.signer.Sign([]byte(signingString)), claims, nil
}

func (s *Credentials) Verify(token string) (*Claims, error) {
	return s.VerifyAt(token, s.now())
}

// VerifyAt is like Verify but checks expiry against now. It never panics on
// hostile input; every failure is a typed *errors.AppError.
func (s *Credentials) VerifyAt(token string, now time.Time) (*Claims, error) {
	segments := strings.Split(token, tokenSeparator)
	if len(segments) != tokenSegments {
		return nil, apperrors.MalformedToken(msgTokenSegments)
	}
	for _, segment := range segments {
		if segment == "" {
			return nil, apperrors.MalformedToken(msgTokenSegments)
		}
	}

	signingString := segments[0] + tokenSeparator + segments[1]
	if !s.signer.Verify([]byte(signingString), segments[2]) {
		return nil, apperrors.SignatureMismatch(msgTokenSignatureMismatch)
	}

	if segments[0] != headerSegment {
		return nil, apperrors.MalformedToken(msgTokenHeader)
	}

	payload, err := base64.RawURLEncoding.DecodeString(segments[1])
	if err != nil {
		return nil, apperrors.MalformedToken(msgTokenPayloadEncoding)
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, apperrors.MalformedToken(msgTokenPayloadInvalid)
	}

	if claims.Kind != KindAccessToken {
		return nil, apperrors.WrongKind(msgTokenWrongKind)
	}

	validator := jwt.NewValidator(
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	if err := validator.Validate(&claims); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.Expired(msgTokenExpired)
		}
		return nil, apperrors.MalformedToken(msgTokenPayloadInvalid)
	}

	return &claims, nil
}
