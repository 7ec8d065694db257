package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"mealforge/internal/models/db_models"
	"mealforge/internal/models/response_models"
	"mealforge/internal/repositories"
	"mealforge/pkg/utils"
)

// EntitlementServiceInterface owns every write to the entitlement columns of
// an account (tier, token balance, reset boundary, subscription id/status).
// No other service touches those fields directly.
type EntitlementServiceInterface interface {
	// ConsumeToken spends one generation token. Pro accounts always succeed;
	// free accounts fail with ErrOutOfTokens at zero balance. Callers invoke
	// this before the generative call — a failure here means no AI request
	// is made and nothing is charged.
	ConsumeToken(ctx context.Context, accountID uuid.UUID) error

	StatusSnapshot(ctx context.Context, accountID uuid.UUID) (*response_models.EntitlementStatusResponse, error)

	UpgradeToPro(ctx context.Context, accountID uuid.UUID, subscriptionID string) error
	DowngradeToFree(ctx context.Context, accountID uuid.UUID) error

	// MarkSubscriptionActive refreshes the provider-mirrored status without
	// touching tier or tokens.
	MarkSubscriptionActive(ctx context.Context, accountID uuid.UUID) error
}

type EntitlementService struct {
	accountRepo repositories.AccountRepository
	now         func() time.Time
}

func NewEntitlementService(accountRepo repositories.AccountRepository) EntitlementServiceInterface {
	return &EntitlementService{
		accountRepo: accountRepo,
		now:         time.Now,
	}
}

// InitFreeEntitlement puts a brand-new account into the free tier with a full
// token allowance. Called once at registration, before the first insert.
func InitFreeEntitlement(account *db_models.Account, now time.Time) {
	resetAt := utils.StartOfNextMonth(now).Unix()
	account.Tier = db_models.TierFree
	account.TokenBalance = db_models.FreeMonthlyTokens
	account.TokenResetAt = &resetAt
	account.SubscriptionID = nil
	account.SubscriptionStatus = db_models.SubStatusInactive
}

// applyResetIfDue refreshes a free account whose reset boundary has passed
// (or was never set). Returns true when the account was mutated and needs to
// be persisted. Calling it again before the next boundary is a no-op.
func (e *EntitlementService) applyResetIfDue(account *db_models.Account) bool {
	if account.Tier != db_models.TierFree {
		return false
	}
	now := e.now()
	if account.TokenResetAt != nil && now.Unix() < *account.TokenResetAt {
		return false
	}
	resetAt := utils.StartOfNextMonth(now).Unix()
	account.TokenBalance = db_models.FreeMonthlyTokens
	account.TokenResetAt = &resetAt
	return true
}

// consumeRetryAttempts bounds the compare-and-swap loop in ConsumeToken.
// Under contention a loser re-reads the fresh balance and tries again.
const consumeRetryAttempts = 3

func (e *EntitlementService) ConsumeToken(ctx context.Context, accountID uuid.UUID) error {
	for attempt := 0; attempt < consumeRetryAttempts; attempt++ {
		account, err := e.accountRepo.FindByID(ctx, accountID)
		if err != nil {
			return utils.ErrDatabaseError
		}
		if account == nil {
			return utils.ErrAccountNotFound
		}

		if e.applyResetIfDue(account) {
			if err := e.accountRepo.UpdateEntitlement(ctx, account); err != nil {
				return utils.ErrDatabaseError
			}
		}

		if account.Tier == db_models.TierPro {
			return nil
		}
		if account.TokenBalance <= 0 {
			return utils.ErrOutOfTokens
		}

		// The decrement is conditional on the balance we just read, so two
		// racing requests can never drive it below zero.
		ok, err := e.accountRepo.DecrementTokenCAS(ctx, account.ID, account.TokenBalance)
		if err != nil {
			return utils.ErrDatabaseError
		}
		if ok {
			return nil
		}
	}
	return utils.ErrDatabaseError
}

func (e *EntitlementService) StatusSnapshot(ctx context.Context, accountID uuid.UUID) (*response_models.EntitlementStatusResponse, error) {
	account, err := e.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}

	if e.applyResetIfDue(account) {
		if err := e.accountRepo.UpdateEntitlement(ctx, account); err != nil {
			return nil, utils.ErrDatabaseError
		}
	}

	resp := &response_models.EntitlementStatusResponse{
		Tier:               string(account.Tier),
		SubscriptionStatus: string(account.SubscriptionStatus),
	}
	if account.Tier == db_models.TierPro {
		resp.Tokens = response_models.UnlimitedAllowance()
	} else {
		resp.Tokens = response_models.RemainingAllowance(account.TokenBalance)
		if account.TokenResetAt != nil {
			resp.TokenResetAt = utils.FormatRFC3339(utils.FromUnixSeconds(*account.TokenResetAt))
		}
	}
	return resp, nil
}

func (e *EntitlementService) UpgradeToPro(ctx context.Context, accountID uuid.UUID, subscriptionID string) error {
	account, err := e.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if account == nil {
		return utils.ErrAccountNotFound
	}

	// Valid from either tier: re-upgrading just overwrites the subscription id.
	account.Tier = db_models.TierPro
	account.SubscriptionID = &subscriptionID
	account.SubscriptionStatus = db_models.SubStatusActive
	account.TokenResetAt = nil

	if err := e.accountRepo.UpdateEntitlement(ctx, account); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

func (e *EntitlementService) DowngradeToFree(ctx context.Context, accountID uuid.UUID) error {
	account, err := e.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if account == nil {
		return utils.ErrAccountNotFound
	}

	resetAt := utils.StartOfNextMonth(e.now()).Unix()
	account.Tier = db_models.TierFree
	account.SubscriptionID = nil
	account.SubscriptionStatus = db_models.SubStatusInactive
	account.TokenBalance = db_models.FreeMonthlyTokens
	account.TokenResetAt = &resetAt

	if err := e.accountRepo.UpdateEntitlement(ctx, account); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

func (e *EntitlementService) MarkSubscriptionActive(ctx context.Context, accountID uuid.UUID) error {
	account, err := e.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if account == nil {
		return utils.ErrAccountNotFound
	}

	account.SubscriptionStatus = db_models.SubStatusActive

	if err := e.accountRepo.UpdateEntitlement(ctx, account); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}
