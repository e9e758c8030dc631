package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"

	apperrors "warehouse-service/pkg/errors"
)

// Signer produces and checks HMAC-SHA256 signatures under one shared secret.
// Both credential tokens and view links sign through the same Signer.
type Signer struct {
	secret []byte
}

// NewSigner copies secret so later mutation by the caller cannot change
// signatures. An empty secret is a configuration error.
func NewSigner(secret []byte) (*Signer, error) {
	if len(secret) == 0 {
		return nil, apperrors.Configuration(msgEmptySecret)
	}

	key := make([]byte, len(secret))
	copy(key, secret)

	return &Signer{secret: key}, nil
}

// Sign returns the base64url (unpadded) HMAC of data.
func (s *Signer) Sign(data []byte) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write(data)
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature is the signature of data.
// The encoded forms are compared so that no two distinct strings verify,
// even ones decoding to the same bytes.
func (s *Signer) Verify(data []byte, signature string) bool {
	expected := s.Sign(data)
	return hmac.Equal([]byte(expected), []byte(signature))
}
