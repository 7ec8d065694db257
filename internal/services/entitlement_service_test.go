package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealforge/internal/models/db_models"
	"mealforge/pkg/utils"
)

// fakeAccountRepo keeps accounts in memory with the same compare-and-swap
// semantics the SQL implementation has, so concurrency tests are meaningful.
type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*db_models.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[uuid.UUID]*db_models.Account)}
}

func (f *fakeAccountRepo) put(account *db_models.Account) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *account
	f.accounts[account.ID] = &copied
}

func (f *fakeAccountRepo) get(id uuid.UUID) *db_models.Account {
	f.mu.Lock()
	defer f.mu.Unlock()
	if account, ok := f.accounts[id]; ok {
		copied := *account
		return &copied
	}
	return nil
}

func (f *fakeAccountRepo) Insert(ctx context.Context, account *db_models.Account) error {
	f.put(account)
	return nil
}

func (f *fakeAccountRepo) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Account, error) {
	return f.get(id), nil
}

func (f *fakeAccountRepo) FindByEmail(ctx context.Context, email string) (*db_models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, account := range f.accounts {
		if account.Email == email {
			copied := *account
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeAccountRepo) FindBySubscriptionID(ctx context.Context, subscriptionID string) (*db_models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, account := range f.accounts {
		if account.SubscriptionID != nil && *account.SubscriptionID == subscriptionID {
			copied := *account
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeAccountRepo) UpdateEntitlement(ctx context.Context, account *db_models.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.accounts[account.ID]
	if !ok {
		return nil
	}
	stored.Tier = account.Tier
	stored.TokenBalance = account.TokenBalance
	stored.TokenResetAt = account.TokenResetAt
	stored.SubscriptionID = account.SubscriptionID
	stored.SubscriptionStatus = account.SubscriptionStatus
	return nil
}

func (f *fakeAccountRepo) DecrementTokenCAS(ctx context.Context, id uuid.UUID, fromBalance int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.accounts[id]
	if !ok || fromBalance <= 0 {
		return false, nil
	}
	if stored.Tier != db_models.TierFree || stored.TokenBalance != fromBalance {
		return false, nil
	}
	stored.TokenBalance = fromBalance - 1
	return true, nil
}

func (f *fakeAccountRepo) UpdatePasswordHash(ctx context.Context, email string, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, account := range f.accounts {
		if account.Email == email {
			account.PasswordHash = passwordHash
		}
	}
	return nil
}

func newTestEntitlement(repo *fakeAccountRepo, now time.Time) *EntitlementService {
	return &EntitlementService{
		accountRepo: repo,
		now:         func() time.Time { return now },
	}
}

func newFreeAccount(now time.Time) *db_models.Account {
	account := &db_models.Account{}
	account.ID = uuid.New()
	account.Email = "free@example.com"
	InitFreeEntitlement(account, now)
	return account
}

func TestConsumeTokenExhaustsFreeAllowance(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := newFakeAccountRepo()
	account := newFreeAccount(now)
	repo.put(account)
	svc := newTestEntitlement(repo, now)
	ctx := context.Background()

	for i := 0; i < db_models.FreeMonthlyTokens; i++ {
		require.NoError(t, svc.ConsumeToken(ctx, account.ID), "consume %d should succeed", i+1)
	}

	err := svc.ConsumeToken(ctx, account.ID)
	assert.ErrorIs(t, err, utils.ErrOutOfTokens)
	assert.Equal(t, 0, repo.get(account.ID).TokenBalance)
}

func TestConsumeTokenRefillsAfterMonthBoundary(t *testing.T) {
	created := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := newFakeAccountRepo()
	account := newFreeAccount(created)
	account.TokenBalance = 0
	repo.put(account)
	ctx := context.Background()

	// Still March: no refill.
	svc := newTestEntitlement(repo, time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC))
	assert.ErrorIs(t, svc.ConsumeToken(ctx, account.ID), utils.ErrOutOfTokens)

	// Past the boundary: balance refills, consume succeeds, and the next
	// boundary is May 1.
	april := time.Date(2025, 4, 1, 0, 0, 1, 0, time.UTC)
	svc = newTestEntitlement(repo, april)
	require.NoError(t, svc.ConsumeToken(ctx, account.ID))

	stored := repo.get(account.ID)
	assert.Equal(t, db_models.FreeMonthlyTokens-1, stored.TokenBalance)
	require.NotNil(t, stored.TokenResetAt)
	assert.Equal(t, utils.StartOfNextMonth(april).Unix(), *stored.TokenResetAt)
}

func TestResetIsIdempotentWithinMonth(t *testing.T) {
	created := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := newFakeAccountRepo()
	account := newFreeAccount(created)
	account.TokenBalance = 2
	repo.put(account)
	ctx := context.Background()

	april := time.Date(2025, 4, 2, 8, 0, 0, 0, time.UTC)
	svc := newTestEntitlement(repo, april)

	first, err := svc.StatusSnapshot(ctx, account.ID)
	require.NoError(t, err)
	require.NotNil(t, first.Tokens.Remaining)
	assert.Equal(t, db_models.FreeMonthlyTokens, *first.Tokens.Remaining)

	// A second snapshot in the same month must not refill again.
	require.NoError(t, svc.ConsumeToken(ctx, account.ID))
	second, err := svc.StatusSnapshot(ctx, account.ID)
	require.NoError(t, err)
	require.NotNil(t, second.Tokens.Remaining)
	assert.Equal(t, db_models.FreeMonthlyTokens-1, *second.Tokens.Remaining)
}

func TestStatusSnapshotMissingResetBoundary(t *testing.T) {
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	repo := newFakeAccountRepo()
	account := newFreeAccount(now)
	account.TokenResetAt = nil // legacy row, boundary never set
	account.TokenBalance = 3
	repo.put(account)

	svc := newTestEntitlement(repo, now)
	status, err := svc.StatusSnapshot(context.Background(), account.ID)
	require.NoError(t, err)

	// Treated as due: full refill plus a fresh boundary.
	require.NotNil(t, status.Tokens.Remaining)
	assert.Equal(t, db_models.FreeMonthlyTokens, *status.Tokens.Remaining)
	require.NotNil(t, repo.get(account.ID).TokenResetAt)
}

func TestUpgradeToProGrantsUnlimitedGenerations(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := newFakeAccountRepo()
	account := newFreeAccount(now)
	account.TokenBalance = 0
	repo.put(account)
	svc := newTestEntitlement(repo, now)
	ctx := context.Background()

	require.NoError(t, svc.UpgradeToPro(ctx, account.ID, "payos:12345"))

	stored := repo.get(account.ID)
	assert.Equal(t, db_models.TierPro, stored.Tier)
	assert.Nil(t, stored.TokenResetAt)
	require.NotNil(t, stored.SubscriptionID)
	assert.Equal(t, "payos:12345", *stored.SubscriptionID)
	assert.Equal(t, db_models.SubStatusActive, stored.SubscriptionStatus)

	for i := 0; i < 10000; i++ {
		if err := svc.ConsumeToken(ctx, account.ID); err != nil {
			t.Fatalf("pro consume %d failed: %v", i, err)
		}
	}

	status, err := svc.StatusSnapshot(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, status.Tokens.Unlimited)
	assert.Nil(t, status.Tokens.Remaining)
	assert.Empty(t, status.TokenResetAt)
}

func TestDowngradeRestoresFreeDefaults(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := newFakeAccountRepo()
	account := newFreeAccount(now)
	repo.put(account)
	svc := newTestEntitlement(repo, now)
	ctx := context.Background()

	require.NoError(t, svc.UpgradeToPro(ctx, account.ID, "payos:777"))
	require.NoError(t, svc.DowngradeToFree(ctx, account.ID))

	stored := repo.get(account.ID)
	assert.Equal(t, db_models.TierFree, stored.Tier)
	assert.Nil(t, stored.SubscriptionID)
	assert.Equal(t, db_models.SubStatusInactive, stored.SubscriptionStatus)
	assert.Equal(t, db_models.FreeMonthlyTokens, stored.TokenBalance)
	require.NotNil(t, stored.TokenResetAt)
	assert.Equal(t, utils.StartOfNextMonth(now).Unix(), *stored.TokenResetAt)
}

func TestConcurrentConsumeNeverOverspends(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := newFakeAccountRepo()
	account := newFreeAccount(now)
	repo.put(account)
	svc := newTestEntitlement(repo, now)
	ctx := context.Background()

	const workers = 50
	var wg sync.WaitGroup
	var successes int64
	var successMu sync.Mutex

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := svc.ConsumeToken(ctx, account.ID); err == nil {
				successMu.Lock()
				successes++
				successMu.Unlock()
			}
		}()
	}
	wg.Wait()

	stored := repo.get(account.ID)
	assert.GreaterOrEqual(t, stored.TokenBalance, 0, "balance must never go negative")
	assert.LessOrEqual(t, successes, int64(db_models.FreeMonthlyTokens))
	assert.Equal(t, int64(db_models.FreeMonthlyTokens-stored.TokenBalance), successes)
}
