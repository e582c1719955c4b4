package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Single-Connect/singles-connect-optimized/internal/premium"

	paddle "github.com/PaddleHQ/paddle-go-sdk"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrTierNotFound = errors.New("subscription tier not found")

type PremiumService struct {
	db           *pgxpool.Pool
	users        *UserService
	PaddleClient *paddle.SDK
}

func NewPremiumService(db *pgxpool.Pool, users *UserService, paddleClient *paddle.SDK) *PremiumService {
	return &PremiumService{db: db, users: users, PaddleClient: paddleClient}
}

func (s *PremiumService) ListTiers() []premium.Tier {
	return premium.Tiers
}

// CreateSubscriptionTransaction opens a Paddle transaction for a tier. The
// clerk id travels in custom data so the webhook can activate the right user.
func (s *PremiumService) CreateSubscriptionTransaction(ctx context.Context, clerkID string, tierID string) (*paddle.Transaction, error) {
	tier := premium.FindTier(tierID)
	if tier == nil {
		return nil, ErrTierNotFound
	}

	createReq := &paddle.CreateTransactionRequest{
		Items: []paddle.CreateTransactionItems{
			*paddle.NewCreateTransactionItemsCatalogItem(&paddle.CatalogItem{
				Quantity: 1,
				PriceID:  tier.PriceID,
			}),
		},
		CustomData: paddle.CustomData{
			"clerkId": clerkID,
			"tierId":  tier.ID,
		},
		CollectionMode: paddle.PtrTo(paddle.CollectionModeAutomatic),
	}

	tx, err := s.PaddleClient.CreateTransaction(ctx, createReq)
	if err != nil {
		return nil, fmt.Errorf("failed to create paddle transaction: %w", err)
	}
	return tx, nil
}

// ActivateSubscription records a paid subscription and flips the user's
// premium flags. Called from the Paddle webhook.
func (s *PremiumService) ActivateSubscription(ctx context.Context, clerkID, tierID, subscriptionID string) error {
	tier := premium.FindTier(tierID)
	if tier == nil {
		return ErrTierNotFound
	}

	validUntil := time.Now().UTC().AddDate(0, 1, 0)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to begin subscription transaction: %v", ErrStoreUnavailable, err)
	}
	defer tx.Rollback(ctx)

	var userID string
	err = tx.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to resolve subscriber: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO subscriptions (user_id, tier, valid_until, is_active, subscription_id, created_at, updated_at)
		VALUES ($1, $2, $3, true, $4, NOW(), NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET tier = EXCLUDED.tier, valid_until = EXCLUDED.valid_until,
			is_active = true, subscription_id = EXCLUDED.subscription_id, updated_at = NOW()`,
		userID, tier.ID, validUntil, subscriptionID)
	if err != nil {
		return fmt.Errorf("failed to store subscription: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE users
		SET is_premium = true, is_vip = $3, premium_expires_at = $2, updated_at = NOW()
		WHERE id = $1`,
		userID, validUntil, tier.ID == "vip")
	if err != nil {
		return fmt.Errorf("failed to set premium flags: %w", err)
	}

	return tx.Commit(ctx)
}

// CancelSubscription deactivates the subscription; premium stays until the
// paid period runs out.
func (s *PremiumService) CancelSubscription(ctx context.Context, subscriptionID string) error {
	_, err := s.db.Exec(ctx, `
		UPDATE subscriptions SET is_active = false, updated_at = NOW()
		WHERE subscription_id = $1`, subscriptionID)
	if err != nil {
		return fmt.Errorf("failed to cancel subscription: %w", err)
	}
	return nil
}

func (s *PremiumService) GetSubscription(ctx context.Context, clerkID string) (*premium.Subscription, error) {
	sub := &premium.Subscription{}
	err := s.db.QueryRow(ctx, `
		SELECT s.id, s.user_id, s.tier, s.valid_until, s.is_active, s.subscription_id,
			s.created_at, s.updated_at
		FROM subscriptions s
		JOIN users u ON u.id = s.user_id
		WHERE u.clerk_id = $1`, clerkID).
		Scan(&sub.ID, &sub.UserID, &sub.Tier, &sub.ValidUntil, &sub.IsActive,
			&sub.SubscriptionID, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return sub, nil
}

// ExpireLapsed clears premium flags for users whose paid period ended.
// Called periodically from a background worker.
func (s *PremiumService) ExpireLapsed(ctx context.Context) (int, error) {
	result, err := s.db.Exec(ctx, `
		UPDATE users
		SET is_premium = false, is_vip = false, updated_at = NOW()
		WHERE is_premium = true AND premium_expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to expire subscriptions: %w", err)
	}
	return int(result.RowsAffected()), nil
}
