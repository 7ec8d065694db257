package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyWebhookSignatureRoundTrip(t *testing.T) {
	body := []byte(`{"kind":"subscription.charged","subscription_id":"sub_42"}`)
	secret := "whsec_abc123"

	signature := SignWebhookPayload(body, secret)
	assert.True(t, VerifyWebhookSignature(body, signature, secret))
}

func TestVerifyWebhookSignatureRejectsTampering(t *testing.T) {
	body := []byte(`{"kind":"subscription.cancelled","subscription_id":"sub_42"}`)
	secret := "whsec_abc123"
	signature := SignWebhookPayload(body, secret)

	// Any single-byte change to the body invalidates the signature.
	for i := range body {
		mutated := append([]byte(nil), body...)
		mutated[i] ^= 0x01
		assert.False(t, VerifyWebhookSignature(mutated, signature, secret), "byte %d", i)
	}

	// Wrong secret, wrong signature.
	assert.False(t, VerifyWebhookSignature(body, SignWebhookPayload(body, "other"), secret))
	assert.False(t, VerifyWebhookSignature(body, signature, "other"))
}

func TestVerifyWebhookSignatureMalformedHeader(t *testing.T) {
	body := []byte(`{}`)
	secret := "whsec_abc123"

	assert.False(t, VerifyWebhookSignature(body, "", secret))
	assert.False(t, VerifyWebhookSignature(body, "not hex at all", secret))
	assert.False(t, VerifyWebhookSignature(body, "deadbeef", secret), "valid hex, wrong length")
}
