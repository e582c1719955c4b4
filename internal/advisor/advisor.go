package advisor

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

type Product struct {
	ID               uuid.UUID `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	Description      *string   `json:"description,omitempty" db:"description"`
	Category         string    `json:"category" db:"category"`
	PriceCents       *int      `json:"price_cents,omitempty" db:"price_cents"`
	AffiliateLink    string    `json:"affiliate_link" db:"affiliate_link"`
	AffiliatePartner *string   `json:"affiliate_partner,omitempty" db:"affiliate_partner"`
	ImageURL         *string   `json:"image_url,omitempty" db:"image_url"`
	Rating           *float64  `json:"rating,omitempty" db:"rating"`
	IsActive         bool      `json:"is_active" db:"is_active"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

type ChatMessage struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Role      Role      `json:"role" db:"role"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type ChatRequest struct {
	Message string `json:"message" validate:"required"`
}

type ChatResponse struct {
	Reply    string     `json:"reply"`
	Products []*Product `json:"products"`
}
