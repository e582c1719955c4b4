package services

import (
	"context"
	"fmt"
	"log"

	"github.com/Single-Connect/singles-connect-optimized/internal/notification"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PushProvider abstracts the FCM client so the service is testable without
// Firebase credentials.
type PushProvider interface {
	SendPush(ctx context.Context, tokens []notification.DeviceToken, title, body string, data map[string]any) error
}

type NotificationService struct {
	db   *pgxpool.Pool
	push PushProvider
}

func NewNotificationService(db *pgxpool.Pool) *NotificationService {
	return &NotificationService{db: db}
}

// SetPushProvider is optional; without it notifications stay in-app only.
func (s *NotificationService) SetPushProvider(p PushProvider) {
	s.push = p
}

// Notify stores an in-app notification and best-effort pushes it to the
// user's registered devices.
func (s *NotificationService) Notify(ctx context.Context, userID string, notifType notification.NotificationType, title, message string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO notifications (id, user_id, type, title, message, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, false, NOW())`,
		uuid.New().String(), userID, notifType, title, message)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	if s.push != nil {
		tokens, err := s.deviceTokens(ctx, userID)
		if err != nil {
			log.Printf("Notify: failed to load device tokens for %s: %v", userID, err)
			return nil
		}
		if err := s.push.SendPush(ctx, tokens, title, message, map[string]any{"type": string(notifType)}); err != nil {
			log.Printf("Notify: push delivery failed for %s: %v", userID, err)
		}
	}
	return nil
}

func (s *NotificationService) deviceTokens(ctx context.Context, userID string) ([]notification.DeviceToken, error) {
	rows, err := s.db.Query(ctx, `
		SELECT token, platform FROM device_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []notification.DeviceToken
	for rows.Next() {
		var t notification.DeviceToken
		if err := rows.Scan(&t.Token, &t.Platform); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

func (s *NotificationService) RegisterDevice(ctx context.Context, clerkID string, req *notification.RegisterDeviceRequest) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO device_tokens (user_id, token, platform, created_at)
		SELECT id, $2, $3, NOW() FROM users WHERE clerk_id = $1
		ON CONFLICT (token) DO UPDATE SET user_id = EXCLUDED.user_id, platform = EXCLUDED.platform`,
		clerkID, req.Token, req.Platform)
	if err != nil {
		return fmt.Errorf("failed to register device: %w", err)
	}
	return nil
}

func (s *NotificationService) List(ctx context.Context, clerkID string, limit int) ([]notification.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := s.db.Query(ctx, `
		SELECT n.id, n.user_id, n.type, n.title, n.message, n.is_read, n.created_at
		FROM notifications n
		JOIN users u ON u.id = n.user_id
		WHERE u.clerk_id = $1
		ORDER BY n.created_at DESC
		LIMIT $2`, clerkID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	notifications := []notification.Notification{}
	for rows.Next() {
		var n notification.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (s *NotificationService) UnreadCount(ctx context.Context, clerkID string) (int, error) {
	var count int
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM notifications n
		JOIN users u ON u.id = n.user_id
		WHERE u.clerk_id = $1 AND n.is_read = false`, clerkID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, clerkID string, notificationID uuid.UUID) error {
	result, err := s.db.Exec(ctx, `
		UPDATE notifications n
		SET is_read = true
		FROM users u
		WHERE n.id = $2 AND n.user_id = u.id AND u.clerk_id = $1`,
		clerkID, notificationID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, clerkID string) error {
	_, err := s.db.Exec(ctx, `
		UPDATE notifications n
		SET is_read = true
		FROM users u
		WHERE n.user_id = u.id AND u.clerk_id = $1 AND n.is_read = false`, clerkID)
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
