package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/payOSHQ/payos-lib-golang"
	"gorm.io/gorm"

	"mealforge/internal/models/db_models"
	"mealforge/internal/models/response_models"
	"mealforge/internal/repositories"
	"mealforge/pkg/utils"
)

type PayOSConfig struct {
	ClientID     string
	ApiKey       string
	ChecksumKey  string // shared secret signing webhook bodies
	ReturnURL    string
	CancelURL    string
	ProviderName string // stored on Transaction.Provider
}

// webhookSignatureHeader carries the hex HMAC-SHA256 of the raw webhook body.
const webhookSignatureHeader = "X-Webhook-Signature"

type PaymentService interface {
	CreateCheckoutForPlan(ctx context.Context, accountID uuid.UUID, planCode string) (*response_models.CreateCheckoutResponse, error)
	ConfirmCheckout(ctx context.Context, accountID uuid.UUID, orderCode int64) error
	CancelSubscription(ctx context.Context, accountID uuid.UUID) error
	HandleWebhook(c *gin.Context)
}

type paymentService struct {
	db          *gorm.DB
	cfg         PayOSConfig
	planRepo    repositories.IPlanRepository
	accountRepo repositories.AccountRepository
	entitlement EntitlementServiceInterface
}

func NewPaymentService(
	db *gorm.DB,
	cfg PayOSConfig,
	planRepo repositories.IPlanRepository,
	accountRepo repositories.AccountRepository,
	entitlement EntitlementServiceInterface,
) (PaymentService, error) {
	if cfg.ClientID == "" || cfg.ApiKey == "" || cfg.ChecksumKey == "" {
		return nil, fmt.Errorf("missing payOS credentials")
	}
	return &paymentService{
		db:          db,
		cfg:         cfg,
		planRepo:    planRepo,
		accountRepo: accountRepo,
		entitlement: entitlement,
	}, nil
}

func (p *paymentService) CreateCheckoutForPlan(ctx context.Context, accountID uuid.UUID, planCode string) (*response_models.CreateCheckoutResponse, error) {
	// The active-plan table is the allow-list: an unknown code is rejected
	// before any provider traffic.
	plan, err := p.planRepo.GetPlanByCode(ctx, planCode)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if plan == nil {
		return nil, utils.ErrUnknownPlan
	}

	amount := plan.PriceMinor
	if amount <= 0 {
		return nil, utils.ErrUnknownPlan
	}

	// payOS expects an int64 order code; unix seconds plus a short random
	// suffix keeps it unique enough and within 13 digits.
	orderCode := time.Now().Unix()%1_000_000_000 + int64(rand.Intn(9000)+1000)

	txn := &db_models.Transaction{
		AccountID:     accountID,
		AmountMinor:   amount,
		Currency:      strings.ToUpper(plan.Currency),
		Status:        db_models.TxnStatusPending,
		Provider:      p.cfg.ProviderName,
		ProviderTxnID: providerOrderRef(orderCode),
	}
	if err := p.db.WithContext(ctx).Create(txn).Error; err != nil {
		return nil, utils.ErrDatabaseError
	}

	if err := payos.Key(p.cfg.ClientID, p.cfg.ApiKey, p.cfg.ChecksumKey); err != nil {
		return nil, utils.ErrUpstreamPayment
	}

	body := payos.CheckoutRequestType{
		OrderCode: orderCode,
		Amount:    int(amount),
		Items: []payos.Item{{
			Name:     fmt.Sprintf("%s (%s)", plan.Name, plan.Code),
			Price:    int(amount),
			Quantity: 1,
		}},
		Description: fmt.Sprintf("Subscription %s", plan.Code),
		CancelUrl:   p.cfg.CancelURL,
		ReturnUrl:   p.cfg.ReturnURL,
	}

	resp, err := payos.CreatePaymentLink(body)
	if err != nil {
		_ = p.db.WithContext(ctx).Model(txn).
			Update("status", db_models.TxnStatusFailed).Error
		return nil, utils.ErrUpstreamPayment
	}

	meta := map[string]any{
		"plan_id":   plan.ID,
		"plan_code": plan.Code,
	}
	if bytes, err := json.Marshal(meta); err == nil {
		_ = p.db.WithContext(ctx).Model(txn).Update("metadata", bytes).Error
	}

	return &response_models.CreateCheckoutResponse{
		OrderCode:    orderCode,
		Amount:       amount,
		PaymentURL:   resp.CheckoutUrl,
		ProviderName: p.cfg.ProviderName,
	}, nil
}

// ConfirmCheckout is called when the buyer lands back on the return URL. It
// asks the provider for the payment state and, on a paid order, marks the
// transaction and upgrades the account. Replays are harmless: a transaction
// already paid skips straight to the (idempotent) upgrade.
func (p *paymentService) ConfirmCheckout(ctx context.Context, accountID uuid.UUID, orderCode int64) error {
	var txn db_models.Transaction
	err := p.db.WithContext(ctx).
		Where("provider_txn_id = ? AND account_id = ?", providerOrderRef(orderCode), accountID).
		First(&txn).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrInvalidInput
		}
		return utils.ErrDatabaseError
	}

	if txn.Status != db_models.TxnStatusPaid {
		if err := payos.Key(p.cfg.ClientID, p.cfg.ApiKey, p.cfg.ChecksumKey); err != nil {
			return utils.ErrUpstreamPayment
		}
		info, err := payos.GetPaymentLinkInformation(strconv.FormatInt(orderCode, 10))
		if err != nil {
			return utils.ErrUpstreamPayment
		}
		if info.Status != "PAID" {
			return utils.ErrInvalidInput
		}

		now := time.Now().Unix()
		if err := p.db.WithContext(ctx).Model(&txn).Updates(map[string]interface{}{
			"status":  db_models.TxnStatusPaid,
			"paid_at": now,
		}).Error; err != nil {
			return utils.ErrDatabaseError
		}
	}

	return p.entitlement.UpgradeToPro(ctx, accountID, providerOrderRef(orderCode))
}

func (p *paymentService) CancelSubscription(ctx context.Context, accountID uuid.UUID) error {
	account, err := p.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if account == nil {
		return utils.ErrAccountNotFound
	}
	if account.SubscriptionID == nil {
		return utils.ErrSubscriptionNotFound
	}

	// Provider first; a failed provider call leaves the account untouched.
	orderCode, ok := parseProviderOrderRef(*account.SubscriptionID)
	if ok {
		if err := payos.Key(p.cfg.ClientID, p.cfg.ApiKey, p.cfg.ChecksumKey); err != nil {
			return utils.ErrUpstreamPayment
		}
		reason := "user requested cancellation"
		if _, err := payos.CancelPaymentLink(strconv.FormatInt(orderCode, 10), &reason); err != nil {
			return utils.ErrUpstreamPayment
		}
	}

	return p.entitlement.DowngradeToFree(ctx, accountID)
}

func providerOrderRef(orderCode int64) string {
	return fmt.Sprintf("payos:%d", orderCode)
}

func parseProviderOrderRef(ref string) (int64, bool) {
	raw, found := strings.CutPrefix(ref, "payos:")
	if !found {
		return 0, false
	}
	orderCode, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return orderCode, true
}

func (p *paymentService) HandleWebhook(c *gin.Context) {
	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Failed to read request body")
		return
	}

	// Authentication happens before anything is parsed or applied: a missing
	// or wrong signature rejects the whole delivery with no state change.
	signature := c.GetHeader(webhookSignatureHeader)
	if !utils.VerifyWebhookSignature(rawBody, signature, p.cfg.ChecksumKey) {
		utils.RespondError(c, http.StatusBadRequest, "Invalid webhook signature")
		return
	}

	event, err := parseWebhookEvent(rawBody)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid webhook payload")
		return
	}

	if err := p.applyWebhookEvent(c.Request.Context(), event); err != nil {
		log.Printf("webhook: failed to apply %s: %v", event.webhookEventKind(), err)
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Webhook processed")
}

// applyWebhookEvent drives the entitlement machine from a verified event.
// A subscription id with no matching account is acknowledged silently — the
// event may precede provisioning or follow a purge. Every branch is
// idempotent, so provider redeliveries converge on the same state.
func (p *paymentService) applyWebhookEvent(ctx context.Context, event webhookEvent) error {
	switch ev := event.(type) {
	case subscriptionCancelledEvent:
		account, err := p.accountRepo.FindBySubscriptionID(ctx, ev.SubscriptionID)
		if err != nil {
			return utils.ErrDatabaseError
		}
		if account == nil {
			return nil
		}
		return p.entitlement.DowngradeToFree(ctx, account.ID)

	case subscriptionChargedEvent:
		return p.markActiveBySubscription(ctx, ev.SubscriptionID)

	case subscriptionUpdatedEvent:
		return p.markActiveBySubscription(ctx, ev.SubscriptionID)

	default:
		// Unrecognized kinds are acknowledged without effect.
		return nil
	}
}

func (p *paymentService) markActiveBySubscription(ctx context.Context, subscriptionID string) error {
	account, err := p.accountRepo.FindBySubscriptionID(ctx, subscriptionID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if account == nil {
		return nil
	}
	return p.entitlement.MarkSubscriptionActive(ctx, account.ID)
}
