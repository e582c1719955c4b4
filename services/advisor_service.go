package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Single-Connect/singles-connect-optimized/internal/advisor"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AdvisorService struct {
	db    *pgxpool.Pool
	users *UserService
}

func NewAdvisorService(db *pgxpool.Pool, users *UserService) *AdvisorService {
	return &AdvisorService{db: db, users: users}
}

const productsPerReply = 3

// Chat answers a shopping question with products matched by category
// keywords. Both sides of the exchange are persisted as chat history.
func (s *AdvisorService) Chat(ctx context.Context, clerkID string, req *advisor.ChatRequest) (*advisor.ChatResponse, error) {
	userID, err := s.users.userIDByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	categories := advisor.MatchCategories(req.Message)
	products, err := s.productsForCategories(ctx, categories)
	if err != nil {
		return nil, err
	}

	reply := advisor.BuildReply(products)

	_, err = s.db.Exec(ctx, `
		INSERT INTO chat_history (id, user_id, role, message, created_at)
		VALUES ($1, $3, $4, $5, NOW()), ($2, $3, $6, $7, NOW())`,
		uuid.New().String(), uuid.New().String(), userID,
		advisor.RoleUser, req.Message,
		advisor.RoleAssistant, reply)
	if err != nil {
		return nil, fmt.Errorf("failed to store chat history: %w", err)
	}

	return &advisor.ChatResponse{Reply: reply, Products: products}, nil
}

func (s *AdvisorService) productsForCategories(ctx context.Context, categories []string) ([]*advisor.Product, error) {
	if len(categories) == 0 {
		return nil, nil
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, name, description, category, price_cents, affiliate_link,
			affiliate_partner, image_url, rating, is_active, created_at
		FROM products
		WHERE category = ANY($1) AND is_active = true
		ORDER BY rating DESC NULLS LAST
		LIMIT $2`, categories, productsPerReply)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	defer rows.Close()

	var products []*advisor.Product
	for rows.Next() {
		p := &advisor.Product{}
		err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.PriceCents,
			&p.AffiliateLink, &p.AffiliatePartner, &p.ImageURL, &p.Rating, &p.IsActive, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// History returns the user's conversation, oldest first.
func (s *AdvisorService) History(ctx context.Context, clerkID string, limit int) ([]advisor.ChatMessage, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := s.db.Query(ctx, `
		SELECT c.id, c.user_id, c.role, c.message, c.created_at
		FROM chat_history c
		JOIN users u ON u.id = c.user_id
		WHERE u.clerk_id = $1
		ORDER BY c.created_at ASC
		LIMIT $2`, clerkID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}
	defer rows.Close()

	messages := []advisor.ChatMessage{}
	for rows.Next() {
		var m advisor.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Role, &m.Message, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (s *AdvisorService) ClearHistory(ctx context.Context, clerkID string) error {
	_, err := s.db.Exec(ctx, `
		DELETE FROM chat_history c
		USING users u
		WHERE c.user_id = u.id AND u.clerk_id = $1`, clerkID)
	if err != nil {
		return fmt.Errorf("failed to clear chat history: %w", err)
	}
	return nil
}

// ListProducts backs the advisor storefront screen.
func (s *AdvisorService) ListProducts(ctx context.Context, category string) ([]*advisor.Product, error) {
	query := `
		SELECT id, name, description, category, price_cents, affiliate_link,
			affiliate_partner, image_url, rating, is_active, created_at
		FROM products
		WHERE is_active = true`
	args := []any{}
	if category != "" {
		query += ` AND category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY created_at DESC`

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*advisor.Product{}
	for rows.Next() {
		p := &advisor.Product{}
		err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.PriceCents,
			&p.AffiliateLink, &p.AffiliatePartner, &p.ImageURL, &p.Rating, &p.IsActive, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
