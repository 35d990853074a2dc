package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

var ErrBadSignature = errors.New("signature mismatch")

// SignPayload returns the hex HMAC-SHA256 of body under secret. The
// payment gateway signs its webhook bodies the same way.
func SignPayload(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a received hex signature against the body in
// constant time.
func VerifySignature(secret string, body []byte, signature string) error {
	want := SignPayload(secret, body)
	if !hmac.Equal([]byte(want), []byte(signature)) {
		return ErrBadSignature
	}
	return nil
}
