package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mealforge/internal/models/db_models"
)

type AccountRepository interface {
	Insert(ctx context.Context, account *db_models.Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Account, error)
	FindByEmail(ctx context.Context, email string) (*db_models.Account, error)
	FindBySubscriptionID(ctx context.Context, subscriptionID string) (*db_models.Account, error)

	// UpdateEntitlement persists only the entitlement columns of account.
	UpdateEntitlement(ctx context.Context, account *db_models.Account) error

	// DecrementTokenCAS performs the atomic spend: decrement by one only if
	// the stored balance still equals fromBalance on a free-tier row. Returns
	// false when another writer got there first.
	DecrementTokenCAS(ctx context.Context, id uuid.UUID, fromBalance int) (bool, error)

	UpdatePasswordHash(ctx context.Context, email string, passwordHash string) error
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (a *accountRepository) Insert(ctx context.Context, account *db_models.Account) error {
	return a.db.WithContext(ctx).Create(account).Error
}

func (a *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Account, error) {
	var account db_models.Account
	err := a.db.WithContext(ctx).First(&account, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (a *accountRepository) FindByEmail(ctx context.Context, email string) (*db_models.Account, error) {
	var account db_models.Account
	err := a.db.WithContext(ctx).First(&account, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (a *accountRepository) FindBySubscriptionID(ctx context.Context, subscriptionID string) (*db_models.Account, error) {
	var account db_models.Account
	err := a.db.WithContext(ctx).First(&account, "subscription_id = ?", subscriptionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (a *accountRepository) UpdateEntitlement(ctx context.Context, account *db_models.Account) error {
	return a.db.WithContext(ctx).
		Model(&db_models.Account{BaseModel: db_models.BaseModel{ID: account.ID}}).
		Select("tier", "token_balance", "token_reset_at", "subscription_id", "subscription_status").
		Updates(map[string]interface{}{
			"tier":                account.Tier,
			"token_balance":       account.TokenBalance,
			"token_reset_at":      account.TokenResetAt,
			"subscription_id":     account.SubscriptionID,
			"subscription_status": account.SubscriptionStatus,
		}).Error
}

func (a *accountRepository) DecrementTokenCAS(ctx context.Context, id uuid.UUID, fromBalance int) (bool, error) {
	if fromBalance <= 0 {
		return false, nil
	}
	res := a.db.WithContext(ctx).
		Model(&db_models.Account{}).
		Where("id = ? AND tier = ? AND token_balance = ?", id, db_models.TierFree, fromBalance).
		Update("token_balance", fromBalance-1)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (a *accountRepository) UpdatePasswordHash(ctx context.Context, email string, passwordHash string) error {
	return a.db.WithContext(ctx).
		Model(&db_models.Account{}).
		Where("email = ?", email).
		Update("password_hash", passwordHash).Error
}
