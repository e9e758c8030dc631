package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	apperrors "warehouse-service/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func frozen(t time.Time) Clock {
	return func() time.Time { return t }
}

func newTestCredentials(t *testing.T) *Credentials {
	t.Helper()
	return NewCredentials(newTestSigner(t, testSecret), frozen(fixedNow))
}

func testIdentity() Identity {
	return Identity{
		SubjectID:   "u-1001",
		DisplayName: "仓库管理员 Zoë",
		Role:        RoleStaff,
		ExternalID:  "oAbC123",
	}
}

func TestCredentials_IssueVerifyRoundTrip(t *testing.T) {
	creds := newTestCredentials(t)

	token, err := creds.Issue(testIdentity(), time.Hour)
	require.NoError(t, err)

	claims, err := creds.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, testIdentity(), claims.Identity())
	assert.Equal(t, KindAccessToken, claims.Kind)
	assert.Equal(t, fixedNow.Unix(), claims.IssuedAtUnix())
	assert.Equal(t, fixedNow.Add(time.Hour).Unix(), claims.ExpiresAtUnix())
	assert.Greater(t, claims.ExpiresAtUnix(), claims.IssuedAtUnix())
}

func TestCredentials_IssueClaimsMatchesToken(t *testing.T) {
	creds := newTestCredentials(t)

	token, issued, err := creds.IssueClaims(testIdentity(), 90*time.Minute)
	require.NoError(t, err)

	verified, err := creds.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, issued.ExpiresAtUnix(), verified.ExpiresAtUnix())
	assert.Equal(t, fixedNow.Add(90*time.Minute).Unix(), issued.ExpiresAtUnix())
}

func TestCredentials_WireFormat(t *testing.T) {
	creds := newTestCredentials(t)

	token, err := creds.Issue(testIdentity(), time.Minute)
	require.NoError(t, err)

	segments := strings.Split(token, ".")
	require.Len(t, segments, 3)
	assert.Equal(t, "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9", segments[0])
	assert.NotContains(t, token, "=")

	payload, err := base64.RawURLEncoding.DecodeString(segments[1])
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(payload, &raw))
	assert.Equal(t, "u-1001", raw["sub"])
	assert.Equal(t, "access_token", raw["kind"])
	assert.Equal(t, "staff", raw["role"])
	assert.EqualValues(t, fixedNow.Unix(), raw["iat"])
}

func TestCredentials_OptionalExternalIDOmitted(t *testing.T) {
	creds := newTestCredentials(t)
	id := testIdentity()
	id.ExternalID = ""

	token, err := creds.Issue(id, time.Minute)
	require.NoError(t, err)

	payload, err := base64.RawURLEncoding.DecodeString(strings.Split(token, ".")[1])
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "external_id")

	claims, err := creds.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.Identity())
}

func TestCredentials_ExpiryBoundary(t *testing.T) {
	creds := newTestCredentials(t)
	token, err := creds.Issue(testIdentity(), 10*time.Second)
	require.NoError(t, err)

	exp := fixedNow.Add(10 * time.Second)

	_, err = creds.VerifyAt(token, exp.Add(-time.Nanosecond))
	assert.NoError(t, err)

	_, err = creds.VerifyAt(token, exp)
	assert.True(t, errors.Is(err, apperrors.ErrExpired))

	_, err = creds.VerifyAt(token, exp.Add(time.Hour))
	assert.True(t, errors.Is(err, apperrors.ErrExpired))
}

func TestCredentials_RejectsShortTTL(t *testing.T) {
	creds := newTestCredentials(t)

	_, err := creds.Issue(testIdentity(), 0)
	assert.True(t, errors.Is(err, apperrors.ErrBadRequest))

	_, err = creds.Issue(testIdentity(), 500*time.Millisecond)
	assert.True(t, errors.Is(err, apperrors.ErrBadRequest))
}

func TestCredentials_RejectsFractionalTTL(t *testing.T) {
	creds := newTestCredentials(t)

	_, err := creds.Issue(testIdentity(), 1900*time.Millisecond)
	assert.True(t, errors.Is(err, apperrors.ErrBadRequest))

	_, claims, err := creds.IssueClaims(testIdentity(), 2*time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(2), claims.ExpiresAtUnix()-claims.IssuedAtUnix())
}

func TestCredentials_MalformedTokens(t *testing.T) {
	creds := newTestCredentials(t)

	for _, token := range []string{
		"",
		"abc",
		"a.b",
		"a.b.c.d",
		"..",
		"a..c",
		".b.c",
	} {
		_, err := creds.Verify(token)
		assert.True(t, errors.Is(err, apperrors.ErrMalformedToken), "token %q: %v", token, err)
	}
}

func TestCredentials_SingleCharMutationNeverVerifies(t *testing.T) {
	creds := newTestCredentials(t)
	token, err := creds.Issue(testIdentity(), time.Hour)
	require.NoError(t, err)

	for i := 0; i < len(token); i++ {
		for _, r := range []byte("Aa0-_.") {
			if token[i] == r {
				continue
			}
			mutated := token[:i] + string(r) + token[i+1:]
			_, err := creds.Verify(mutated)
			require.Error(t, err, "mutation at %d", i)
			assert.True(t,
				errors.Is(err, apperrors.ErrSignatureMismatch) || errors.Is(err, apperrors.ErrMalformedToken),
				"mutation at %d: %v", i, err)
		}
	}
}

// forge signs an arbitrary payload with the test secret, bypassing Issue.
func forge(t *testing.T, header, payload string) string {
	t.Helper()
	s := newTestSigner(t, testSecret)
	h := base64.RawURLEncoding.EncodeToString([]byte(header))
	p := base64.RawURLEncoding.EncodeToString([]byte(payload))
	return h + "." + p + "." + s.Sign([]byte(h+"."+p))
}

func TestCredentials_WrongKind(t *testing.T) {
	creds := newTestCredentials(t)
	exp := fixedNow.Add(time.Hour).Unix()

	token := forge(t, `{"alg":"HS256","typ":"JWT"}`,
		`{"sub":"u-1","role":"admin","kind":"refresh_token","iat":1,"exp":`+itoa(exp)+`}`)

	_, err := creds.Verify(token)
	assert.True(t, errors.Is(err, apperrors.ErrWrongKind))
}

func TestCredentials_SignedGarbagePayload(t *testing.T) {
	creds := newTestCredentials(t)

	_, err := creds.Verify(forge(t, `{"alg":"HS256","typ":"JWT"}`, `not json`))
	assert.True(t, errors.Is(err, apperrors.ErrMalformedToken))

	_, err = creds.Verify(forge(t, `{"alg":"HS256","typ":"JWT"}`, `{"sub":"u-1","kind":"access_token"}`))
	assert.True(t, errors.Is(err, apperrors.ErrMalformedToken), "missing exp: %v", err)

	_, err = creds.Verify(forge(t, `{"alg":"none"}`, `{"kind":"access_token","exp":9999999999}`))
	assert.True(t, errors.Is(err, apperrors.ErrMalformedToken))
}

func TestCredentials_DistinctSecrets(t *testing.T) {
	a := newTestCredentials(t)
	b := NewCredentials(newTestSigner(t, testSecret+"-b"), frozen(fixedNow))

	token, err := a.Issue(testIdentity(), time.Hour)
	require.NoError(t, err)

	_, err = b.Verify(token)
	assert.True(t, errors.Is(err, apperrors.ErrSignatureMismatch))
}

func TestCredentials_VerifyIsDeterministic(t *testing.T) {
	creds := newTestCredentials(t)
	token, err := creds.Issue(testIdentity(), time.Hour)
	require.NoError(t, err)

	first, err1 := creds.Verify(token)
	second, err2 := creds.Verify(token)
	assert.Equal(t, err1, err2)
	assert.Equal(t, first.Identity(), second.Identity())
	assert.Equal(t, first.ExpiresAtUnix(), second.ExpiresAtUnix())
}

func itoa(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}
