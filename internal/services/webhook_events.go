package services

import (
	"encoding/json"
	"fmt"
)

// webhookEvent is a closed variant over the provider's event kinds. Kinds the
// service does not understand still parse, into unknownWebhookEvent, so the
// provider gets an acknowledgment instead of retry storms.
type webhookEvent interface {
	webhookEventKind() string
}

type subscriptionCancelledEvent struct {
	SubscriptionID string
}

type subscriptionChargedEvent struct {
	SubscriptionID string
}

type subscriptionUpdatedEvent struct {
	SubscriptionID string
}

type unknownWebhookEvent struct {
	Kind string
}

func (subscriptionCancelledEvent) webhookEventKind() string { return "subscription.cancelled" }
func (subscriptionChargedEvent) webhookEventKind() string   { return "subscription.charged" }
func (subscriptionUpdatedEvent) webhookEventKind() string   { return "subscription.updated" }
func (e unknownWebhookEvent) webhookEventKind() string      { return e.Kind }

func parseWebhookEvent(rawBody []byte) (webhookEvent, error) {
	var envelope struct {
		Kind           string `json:"kind"`
		SubscriptionID string `json:"subscription_id"`
	}
	if err := json.Unmarshal(rawBody, &envelope); err != nil {
		return nil, fmt.Errorf("malformed webhook payload: %w", err)
	}

	switch envelope.Kind {
	case "subscription.cancelled":
		return subscriptionCancelledEvent{SubscriptionID: envelope.SubscriptionID}, nil
	case "subscription.charged":
		return subscriptionChargedEvent{SubscriptionID: envelope.SubscriptionID}, nil
	case "subscription.updated":
		return subscriptionUpdatedEvent{SubscriptionID: envelope.SubscriptionID}, nil
	default:
		return unknownWebhookEvent{Kind: envelope.Kind}, nil
	}
}
