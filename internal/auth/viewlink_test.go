package auth

import (
	"errors"
	"net/url"
	"strconv"
	"testing"
	"time"

	apperrors "warehouse-service/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViewLinks(t *testing.T) *ViewLinks {
	t.Helper()
	return NewViewLinks(newTestSigner(t, testSecret), frozen(fixedNow))
}

func TestViewLinks_IssueVerify(t *testing.T) {
	links := newTestViewLinks(t)

	link, err := links.Issue("RPT-42", 5*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, "RPT-42", link.ResourceID)
	assert.Equal(t, fixedNow.Add(5*time.Minute).Unix(), link.ExpiresAt)

	exp := strconv.FormatInt(link.ExpiresAt, 10)
	assert.NoError(t, links.Verify("RPT-42", exp, link.Signature))
}

func TestViewLinks_SignatureCoversResourceAndExpiry(t *testing.T) {
	s := newTestSigner(t, testSecret)
	links := NewViewLinks(s, frozen(fixedNow))

	link, err := links.Issue("RPT-42", time.Minute)
	require.NoError(t, err)

	want := s.Sign([]byte("RPT-42." + strconv.FormatInt(link.ExpiresAt, 10)))
	assert.Equal(t, want, link.Signature)
}

func TestViewLinks_ExpiryBoundary(t *testing.T) {
	links := newTestViewLinks(t)
	link, err := links.Issue("RPT-42", time.Minute)
	require.NoError(t, err)
	exp := strconv.FormatInt(link.ExpiresAt, 10)
	expTime := time.Unix(link.ExpiresAt, 0)

	assert.NoError(t, links.VerifyAt("RPT-42", exp, link.Signature, expTime))
	assert.NoError(t, links.VerifyAt("RPT-42", exp, link.Signature, expTime.Add(999*time.Millisecond)))

	err = links.VerifyAt("RPT-42", exp, link.Signature, expTime.Add(time.Second))
	assert.True(t, errors.Is(err, apperrors.ErrExpired))
}

func TestViewLinks_ForgedPastExpiryIsSignatureMismatch(t *testing.T) {
	links := newTestViewLinks(t)

	err := links.Verify("RPT-42", "1", "forged")
	assert.True(t, errors.Is(err, apperrors.ErrSignatureMismatch))
	assert.False(t, errors.Is(err, apperrors.ErrExpired))

	link, err := links.Issue("RPT-42", time.Minute)
	require.NoError(t, err)
	earlier := strconv.FormatInt(link.ExpiresAt-3600, 10)
	err = links.Verify("RPT-42", earlier, link.Signature)
	assert.True(t, errors.Is(err, apperrors.ErrSignatureMismatch))
}

func TestViewLinks_ResourceRebindingFails(t *testing.T) {
	links := newTestViewLinks(t)
	link, err := links.Issue("RPT-42", time.Minute)
	require.NoError(t, err)
	exp := strconv.FormatInt(link.ExpiresAt, 10)

	err = links.Verify("RPT-43", exp, link.Signature)
	assert.True(t, errors.Is(err, apperrors.ErrSignatureMismatch))
}

func TestViewLinks_TamperedExpiryFails(t *testing.T) {
	links := newTestViewLinks(t)
	link, err := links.Issue("RPT-42", time.Minute)
	require.NoError(t, err)

	later := strconv.FormatInt(link.ExpiresAt+3600, 10)
	err = links.Verify("RPT-42", later, link.Signature)
	assert.True(t, errors.Is(err, apperrors.ErrSignatureMismatch))
}

func TestViewLinks_MalformedInput(t *testing.T) {
	links := newTestViewLinks(t)
	link, err := links.Issue("RPT-42", time.Minute)
	require.NoError(t, err)
	exp := strconv.FormatInt(link.ExpiresAt, 10)

	cases := []struct{ resource, exp, sig string }{
		{"", exp, link.Signature},
		{"RPT-42", "", link.Signature},
		{"RPT-42", exp, ""},
		{"RPT-42", "soon", link.Signature},
		{"RPT-42", "0" + exp, link.Signature},
		{"RPT-42", "+" + exp, link.Signature},
		{"RPT-42", exp + ".0", link.Signature},
	}

	for _, tc := range cases {
		err := links.Verify(tc.resource, tc.exp, tc.sig)
		assert.True(t, errors.Is(err, apperrors.ErrMalformedToken), "%+v: %v", tc, err)
	}
}

func TestViewLinks_IssueRejectsBadInput(t *testing.T) {
	links := newTestViewLinks(t)

	_, err := links.Issue("", time.Minute)
	assert.True(t, errors.Is(err, apperrors.ErrBadRequest))

	_, err = links.Issue("RPT-42", 0)
	assert.True(t, errors.Is(err, apperrors.ErrBadRequest))
}

func TestViewLink_URL(t *testing.T) {
	link := ViewLink{ResourceID: "RPT-42", ExpiresAt: 1772357400, Signature: "abc-_"}

	raw := link.URL("https://wms.example.com/view/reports/RPT-42")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "/view/reports/RPT-42", u.Path)
	assert.Equal(t, "1772357400", u.Query().Get("exp"))
	assert.Equal(t, "abc-_", u.Query().Get("sig"))
}

func TestViewLinks_AndCredentialsShareSigner(t *testing.T) {
	s := newTestSigner(t, testSecret)
	creds := NewCredentials(s, frozen(fixedNow))

	// A view-link signature must never be accepted as a credential token.
	links := NewViewLinks(s, frozen(fixedNow))
	link, err := links.Issue("RPT-42", time.Minute)
	require.NoError(t, err)

	_, err = creds.Verify("RPT-42." + strconv.FormatInt(link.ExpiresAt, 10) + "." + link.Signature)
	assert.Error(t, err)
}
