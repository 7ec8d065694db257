package services

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealforge/internal/models/db_models"
	"mealforge/pkg/utils"
)

const testChecksumKey = "whsec_test"

func newWebhookFixture(t *testing.T) (*paymentService, *fakeAccountRepo, *db_models.Account) {
	t.Helper()
	now := time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)
	repo := newFakeAccountRepo()
	entitlement := newTestEntitlement(repo, now)

	account := newFreeAccount(now)
	repo.put(account)
	require.NoError(t, entitlement.UpgradeToPro(context.Background(), account.ID, "sub_123"))

	svc := &paymentService{
		cfg:         PayOSConfig{ChecksumKey: testChecksumKey},
		accountRepo: repo,
		entitlement: entitlement,
	}
	return svc, repo, account
}

func TestWebhookCancelledDowngradesAccount(t *testing.T) {
	svc, repo, account := newWebhookFixture(t)

	event, err := parseWebhookEvent([]byte(`{"kind":"subscription.cancelled","subscription_id":"sub_123"}`))
	require.NoError(t, err)
	require.NoError(t, svc.applyWebhookEvent(context.Background(), event))

	stored := repo.get(account.ID)
	assert.Equal(t, db_models.TierFree, stored.Tier)
	assert.Nil(t, stored.SubscriptionID)
	assert.Equal(t, db_models.FreeMonthlyTokens, stored.TokenBalance)

	// Redelivery: the subscription id no longer matches anything, so the
	// event is acknowledged without touching the account.
	require.NoError(t, svc.applyWebhookEvent(context.Background(), event))
	assert.Equal(t, db_models.TierFree, repo.get(account.ID).Tier)
}

func TestWebhookChargedMarksActive(t *testing.T) {
	svc, repo, account := newWebhookFixture(t)

	// Simulate the provider flagging a lapse, then a successful charge.
	stored := repo.get(account.ID)
	stored.SubscriptionStatus = db_models.SubStatusInactive
	repo.put(stored)

	event, err := parseWebhookEvent([]byte(`{"kind":"subscription.charged","subscription_id":"sub_123"}`))
	require.NoError(t, err)
	require.NoError(t, svc.applyWebhookEvent(context.Background(), event))

	refreshed := repo.get(account.ID)
	assert.Equal(t, db_models.SubStatusActive, refreshed.SubscriptionStatus)
	assert.Equal(t, db_models.TierPro, refreshed.Tier, "charged must not change tier")
}

func TestWebhookUnknownKindIsAcknowledged(t *testing.T) {
	svc, repo, account := newWebhookFixture(t)

	event, err := parseWebhookEvent([]byte(`{"kind":"subscription.paused","subscription_id":"sub_123"}`))
	require.NoError(t, err)
	require.NoError(t, svc.applyWebhookEvent(context.Background(), event))

	assert.Equal(t, db_models.TierPro, repo.get(account.ID).Tier)
}

func TestWebhookUnknownSubscriptionIsSilentlyAcked(t *testing.T) {
	svc, _, _ := newWebhookFixture(t)

	event, err := parseWebhookEvent([]byte(`{"kind":"subscription.cancelled","subscription_id":"sub_missing"}`))
	require.NoError(t, err)
	assert.NoError(t, svc.applyWebhookEvent(context.Background(), event))
}

func postWebhook(svc *paymentService, body []byte, signature string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/payments/webhook", svc.HandleWebhook)

	req := httptest.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewReader(body))
	if signature != "" {
		req.Header.Set(webhookSignatureHeader, signature)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestHandleWebhookRejectsBadSignature(t *testing.T) {
	svc, repo, account := newWebhookFixture(t)
	body := []byte(`{"kind":"subscription.cancelled","subscription_id":"sub_123"}`)

	cases := map[string]string{
		"missing header":  "",
		"wrong secret":    utils.SignWebhookPayload(body, "some-other-secret"),
		"not hex":         "zzzz",
		"truncated":       utils.SignWebhookPayload(body, testChecksumKey)[:10],
		"signed other":    utils.SignWebhookPayload([]byte(`{}`), testChecksumKey),
	}

	for name, signature := range cases {
		recorder := postWebhook(svc, body, signature)
		assert.Equal(t, http.StatusBadRequest, recorder.Code, name)
		assert.Equal(t, db_models.TierPro, repo.get(account.ID).Tier, "%s must not change state", name)
	}
}

func TestHandleWebhookAppliesSignedEvent(t *testing.T) {
	svc, repo, account := newWebhookFixture(t)
	body := []byte(`{"kind":"subscription.cancelled","subscription_id":"sub_123"}`)

	recorder := postWebhook(svc, body, utils.SignWebhookPayload(body, testChecksumKey))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, db_models.TierFree, repo.get(account.ID).Tier)
}

func TestHandleWebhookSignatureCoversExactBytes(t *testing.T) {
	svc, _, _ := newWebhookFixture(t)
	body := []byte(`{"kind":"subscription.charged","subscription_id":"sub_123"}`)
	signature := utils.SignWebhookPayload(body, testChecksumKey)

	// Re-serialized body (extra whitespace) no longer matches the signature.
	mutated := []byte(`{ "kind":"subscription.charged","subscription_id":"sub_123"}`)
	recorder := postWebhook(svc, mutated, signature)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestParseProviderOrderRef(t *testing.T) {
	orderCode, ok := parseProviderOrderRef(fmt.Sprintf("payos:%d", 987654))
	assert.True(t, ok)
	assert.Equal(t, int64(987654), orderCode)

	_, ok = parseProviderOrderRef("stripe:987654")
	assert.False(t, ok)

	_, ok = parseProviderOrderRef("payos:notanumber")
	assert.False(t, ok)
}
