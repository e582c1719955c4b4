package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Single-Connect/singles-connect-optimized/internal/profile"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrInvalidRole = errors.New("invalid role")

// AdminService backs the admin surface. Every caller must be gated
// through IsAdmin first.
type AdminService struct {
	db *pgxpool.Pool
}

func NewAdminService(db *pgxpool.Pool) *AdminService {
	return &AdminService{db: db}
}

// IsAdmin reports whether the caller's account carries the admin role.
func (s *AdminService) IsAdmin(ctx context.Context, clerkID string) (bool, error) {
	var role string
	err := s.db.QueryRow(ctx,
		`SELECT role FROM users WHERE clerk_id = $1`, clerkID).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrUserNotFound
		}
		return false, fmt.Errorf("failed to get user role: %w", err)
	}
	return role == "admin", nil
}

func (s *AdminService) ListUsers(ctx context.Context, limit, offset int) ([]*profile.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := s.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*profile.User, 0, limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *AdminService) UpdateRole(ctx context.Context, userID, role string) error {
	if role != "user" && role != "admin" {
		return ErrInvalidRole
	}

	tag, err := s.db.Exec(ctx,
		`UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`, role, userID)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *AdminService) SetVIPStatus(ctx context.Context, userID string, isVip bool) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE users SET is_vip = $1, updated_at = NOW() WHERE id = $2`, isVip, userID)
	if err != nil {
		return fmt.Errorf("failed to update vip status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// GrantCoins adjusts a user's balance by amount and returns the new
// balance. Negative amounts deduct but never push the balance below zero.
func (s *AdminService) GrantCoins(ctx context.Context, userID string, amount int) (int, error) {
	var balance int
	err := s.db.QueryRow(ctx, `
		UPDATE users
		SET coins = GREATEST(coins + $1, 0), updated_at = NOW()
		WHERE id = $2
		RETURNING coins`, amount, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to grant coins: %w", err)
	}
	return balance, nil
}
