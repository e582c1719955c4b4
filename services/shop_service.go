package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/Single-Connect/singles-connect-optimized/internal/shop"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
)

var ErrPackageNotFound = errors.New("coin package not found")

type ShopService struct {
	db         *pgxpool.Pool
	users      *UserService
	successURL string
	cancelURL  string
}

func NewShopService(db *pgxpool.Pool, users *UserService, successURL, cancelURL string) *ShopService {
	return &ShopService{db: db, users: users, successURL: successURL, cancelURL: cancelURL}
}

func (s *ShopService) ListPackages() []shop.CoinPackage {
	return shop.CoinPackages
}

// CreateCheckout opens a Stripe checkout session for a coin package. The
// coins are credited by the webhook once the session completes, nothing is
// persisted here.
func (s *ShopService) CreateCheckout(ctx context.Context, clerkID string, req *shop.CheckoutRequest) (*shop.CheckoutResponse, error) {
	pkg := shop.FindCoinPackage(req.PackageID)
	if pkg == nil {
		return nil, ErrPackageNotFound
	}

	userID, err := s.users.userIDByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String("eur"),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(pkg.Name),
						Description: stripe.String(pkg.Description),
					},
					UnitAmount: stripe.Int64(int64(pkg.PriceCents)),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.successURL),
		CancelURL:  stripe.String(s.cancelURL),
	}
	params.AddMetadata("user_id", userID.String())
	params.AddMetadata("package_id", pkg.ID)
	params.AddMetadata("coins", strconv.Itoa(pkg.TotalCoins()))

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &shop.CheckoutResponse{SessionID: sess.ID, CheckoutURL: sess.URL}, nil
}

// AddCoins credits a user's balance. Used by the Stripe webhook after a
// completed checkout.
func (s *ShopService) AddCoins(ctx context.Context, userID string, coins int) error {
	if coins <= 0 {
		return fmt.Errorf("invalid coin amount: %d", coins)
	}
	result, err := s.db.Exec(ctx, `
		UPDATE users SET coins = coins + $2, updated_at = NOW() WHERE id = $1`,
		userID, coins)
	if err != nil {
		return fmt.Errorf("failed to add coins: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// CreditCheckout applies a completed checkout session using the metadata
// written by CreateCheckout.
func (s *ShopService) CreditCheckout(ctx context.Context, sess *stripe.CheckoutSession) error {
	userID := sess.Metadata["user_id"]
	coinsStr := sess.Metadata["coins"]
	if userID == "" || coinsStr == "" {
		return fmt.Errorf("checkout session %s missing metadata", sess.ID)
	}
	coins, err := strconv.Atoi(coinsStr)
	if err != nil {
		return fmt.Errorf("checkout session %s has invalid coins metadata: %w", sess.ID, err)
	}
	if err := s.AddCoins(ctx, userID, coins); err != nil {
		return err
	}
	log.Printf("credited %d coins to user %s for session %s", coins, userID, sess.ID)
	return nil
}
