package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignWebhookPayload computes the hex-encoded HMAC-SHA256 of rawBody under
// secret. The provider signs the exact raw request bytes, so callers must pass
// the body before any decoding or re-serialization.
func SignWebhookPayload(rawBody []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyWebhookSignature reports whether signatureHeader is the valid
// HMAC-SHA256 hex digest of rawBody. An absent or malformed header verifies
// false. Comparison goes through hmac.Equal so match time does not depend on
// where the digests diverge.
func VerifyWebhookSignature(rawBody []byte, signatureHeader, secret string) bool {
	if signatureHeader == "" {
		return false
	}
	supplied, err := hex.DecodeString(signatureHeader)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	return hmac.Equal(mac.Sum(nil), supplied)
}
