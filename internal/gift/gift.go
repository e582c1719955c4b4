package gift

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusFailed    Status = "failed"
)

type Gift struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	SenderID    uuid.UUID  `json:"sender_id" db:"sender_id"`
	ReceiverID  uuid.UUID  `json:"receiver_id" db:"receiver_id"`
	GiftType    string     `json:"gift_type" db:"gift_type"`
	GiftName    string     `json:"gift_name" db:"gift_name"`
	Price       int        `json:"price" db:"price"`
	Status      Status     `json:"status" db:"status"`
	Message     *string    `json:"message,omitempty" db:"message"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty" db:"delivered_at"`
}

type SendGiftRequest struct {
	ReceiverID string  `json:"receiverId" validate:"required"`
	ItemID     string  `json:"itemId" validate:"required"`
	Message    *string `json:"message,omitempty"`
}

type SendGiftResponse struct {
	Gift         *Gift `json:"gift"`
	CoinsBalance int   `json:"coins_balance"`
}
