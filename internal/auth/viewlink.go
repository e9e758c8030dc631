package auth

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	apperrors "warehouse-service/pkg/errors"
)

// ViewLink grants unauthenticated read access to one resource until
// ExpiresAt. It carries no role and no identity.
type ViewLink struct {
	ResourceID string
	ExpiresAt  int64
	Signature  string
}

// Query returns the exp and sig parameters that travel with the resource URL.
func (l ViewLink) Query() url.Values {
	values := url.Values{}
	values.Set(queryParamExpires, strconv.FormatInt(l.ExpiresAt, 10))
	values.Set(queryParamSig, l.Signature)
	return values
}

// URL appends the link parameters to resourceURL, which must already
// contain the resource id as a path segment.
func (l ViewLink) URL(resourceURL string) string {
	return resourceURL + "?" + l.Query().Encode()
}

// ViewLinks mints and checks view links.
type ViewLinks struct {
	signer *Signer
	now    Clock
}

func NewViewLinks(signer *Signer, now Clock) *ViewLinks {
	if now == nil {
		now = time.Now
	}
	return &ViewLinks{
		signer: signer,
		now:    now,
	}
}

func (v *ViewLinks) Issue(resourceID string, ttl time.Duration) (ViewLink, error) {
	if resourceID == "" {
		return ViewLink{}, apperrors.BadRequest(msgViewLinkResourceEmpty)
	}
	if ttl <= 0 {
		return ViewLink{}, apperrors.BadRequest(msgViewLinkTTLNotPositive)
	}

	expiresAt := v.now().Add(ttl).Unix()

	return ViewLink{
		ResourceID: resourceID,
		ExpiresAt:  expiresAt,
		Signature:  v.signer.Sign(viewLinkMessage(resourceID, expiresAt)),
	}, nil
}

func (v *ViewLinks) Verify(resourceID, exp, sig string) error {
	return v.VerifyAt(resourceID, exp, sig, v.now())
}

// VerifyAt checks a link against now. The signature is checked before
// expiry. A link is still valid during the second named by exp.
func (v *ViewLinks) VerifyAt(resourceID, exp, sig string, now time.Time) error {
	if resourceID == "" || exp == "" || sig == "" {
		return apperrors.MalformedToken(msgViewLinkMissingInput)
	}

	expiresAt, err := strconv.ParseInt(exp, 10, 64)
	if err != nil || strconv.FormatInt(expiresAt, 10) != exp {
		return apperrors.MalformedToken(msgViewLinkBadExpiry)
	}

	if !v.signer.Verify(viewLinkMessage(resourceID, expiresAt), sig) {
		return apperrors.SignatureMismatch(msgViewLinkSigMismatch)
	}

	// Only a link this service signed can report that it expired.
	if now.Unix() > expiresAt {
		return apperrors.Expired(msgViewLinkExpired)
	}

	return nil
}

func viewLinkMessage(resourceID string, expiresAt int64) []byte {
	var b strings.Builder
	b.WriteString(resourceID)
	b.WriteString(viewLinkSeparator)
	b.WriteString(strconv.FormatInt(expiresAt, 10))
	return []byte(b.String())
}
