package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Single-Connect/singles-connect-optimized/internal/achievement"
	"github.com/Single-Connect/singles-connect-optimized/internal/gift"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrInsufficientCoins   = errors.New("insufficient coins")
	ErrCatalogItemNotFound = errors.New("catalog item not found")
)

type GiftService struct {
	db                  *pgxpool.Pool
	achievementService  *AchievementService
	notificationService *NotificationService
}

func NewGiftService(db *pgxpool.Pool, as *AchievementService, ns *NotificationService) *GiftService {
	return &GiftService{db: db, achievementService: as, notificationService: ns}
}

// SendGift deducts coins and records the gift in one transaction. The sender
// row is locked so concurrent sends cannot overspend the balance.
func (s *GiftService) SendGift(ctx context.Context, clerkID string, req *gift.SendGiftRequest) (*gift.SendGiftResponse, error) {
	item, category := gift.FindCatalogItem(req.ItemID)
	if item == nil {
		return nil, ErrCatalogItemNotFound
	}

	receiverID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		return nil, fmt.Errorf("invalid receiver id: %w", err)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to begin gift transaction: %v", ErrStoreUnavailable, err)
	}
	defer tx.Rollback(ctx)

	var senderID uuid.UUID
	var coins int
	err = tx.QueryRow(ctx, `
		SELECT id, coins FROM users WHERE clerk_id = $1 FOR UPDATE`, clerkID).
		Scan(&senderID, &coins)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load sender: %w", err)
	}

	if coins < item.Coins {
		return nil, ErrInsufficientCoins
	}

	var exists bool
	err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, receiverID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check receiver: %w", err)
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	newBalance := coins - item.Coins
	_, err = tx.Exec(ctx, `
		UPDATE users SET coins = $2, updated_at = NOW() WHERE id = $1`,
		senderID, newBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to deduct coins: %w", err)
	}

	g := &gift.Gift{
		ID:         uuid.New(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		GiftType:   category.ID,
		GiftName:   item.Name,
		Price:      item.Coins,
		Status:     gift.StatusSent,
		Message:    req.Message,
		CreatedAt:  time.Now().UTC(),
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO gifts (id, sender_id, receiver_id, gift_type, gift_name, price, status, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		g.ID, g.SenderID, g.ReceiverID, g.GiftType, g.GiftName, g.Price, g.Status, g.Message, g.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to record gift: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: failed to commit gift: %v", ErrStoreUnavailable, err)
	}

	go s.afterSend(clerkID, g)

	return &gift.SendGiftResponse{Gift: g, CoinsBalance: newBalance}, nil
}

func (s *GiftService) afterSend(clerkID string, g *gift.Gift) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.achievementService != nil {
		if _, err := s.achievementService.Unlock(ctx, clerkID, achievement.KindGiftSent); err != nil {
			log.Printf("afterSend: %v", err)
		}
	}
	if s.notificationService != nil {
		var senderName string
		if err := s.db.QueryRow(ctx, `SELECT name FROM users WHERE id = $1`, g.SenderID).Scan(&senderName); err != nil {
			senderName = "Jemand"
		}
		err := s.notificationService.Notify(ctx, g.ReceiverID.String(), "gift_received",
			"Geschenk erhalten!",
			fmt.Sprintf("%s hat dir %s geschickt", senderName, g.GiftName))
		if err != nil {
			log.Printf("afterSend: failed to notify: %v", err)
		}
	}
}

func (s *GiftService) listGifts(ctx context.Context, clerkID string, column string) ([]gift.Gift, error) {
	query := fmt.Sprintf(`
		SELECT g.id, g.sender_id, g.receiver_id, g.gift_type, g.gift_name,
			g.price, g.status, g.message, g.created_at, g.delivered_at
		FROM gifts g
		JOIN users u ON u.id = g.%s
		WHERE u.clerk_id = $1
		ORDER BY g.created_at DESC`, column)

	rows, err := s.db.Query(ctx, query, clerkID)
	if err != nil {
		return nil, fmt.Errorf("failed to list gifts: %w", err)
	}
	defer rows.Close()

	gifts := []gift.Gift{}
	for rows.Next() {
		var g gift.Gift
		err := rows.Scan(&g.ID, &g.SenderID, &g.ReceiverID, &g.GiftType, &g.GiftName,
			&g.Price, &g.Status, &g.Message, &g.CreatedAt, &g.DeliveredAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan gift: %w", err)
		}
		gifts = append(gifts, g)
	}
	return gifts, rows.Err()
}

func (s *GiftService) ListReceived(ctx context.Context, clerkID string) ([]gift.Gift, error) {
	return s.listGifts(ctx, clerkID, "receiver_id")
}

func (s *GiftService) ListSent(ctx context.Context, clerkID string) ([]gift.Gift, error) {
	return s.listGifts(ctx, clerkID, "sender_id")
}

// MarkDelivered is called when the receiver opens the gift.
func (s *GiftService) MarkDelivered(ctx context.Context, clerkID string, giftID uuid.UUID) error {
	result, err := s.db.Exec(ctx, `
		UPDATE gifts g
		SET status = $3, delivered_at = NOW()
		FROM users u
		WHERE g.id = $2 AND g.receiver_id = u.id AND u.clerk_id = $1
		  AND g.status = $4`,
		clerkID, giftID, gift.StatusDelivered, gift.StatusSent)
	if err != nil {
		return fmt.Errorf("failed to mark gift delivered: %w", err)
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
