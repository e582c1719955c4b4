package profile

import "encoding/json"

// Clerk webhook payload shapes. Only the fields the sync path reads.

type ClerkWebhookEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type ClerkEmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
	Verification struct {
		Status string `json:"status"`
	} `json:"verification"`
}

type ClerkUserData struct {
	ID             string              `json:"id"`
	FirstName      string              `json:"first_name"`
	LastName       string              `json:"last_name"`
	Username       string              `json:"username"`
	ImageURL       string              `json:"image_url"`
	EmailAddresses []ClerkEmailAddress `json:"email_addresses"`
	Deleted        bool                `json:"deleted"`
}
