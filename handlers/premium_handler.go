package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/Single-Connect/singles-connect-optimized/internal/premium"
	"github.com/Single-Connect/singles-connect-optimized/middleware"
	"github.com/Single-Connect/singles-connect-optimized/services"

	paddle "github.com/PaddleHQ/paddle-go-sdk"
)

type PremiumHandler struct {
	premiumService *services.PremiumService
}

func NewPremiumHandler(premiumService *services.PremiumService) *PremiumHandler {
	return &PremiumHandler{
		premiumService: premiumService,
	}
}

func (h *PremiumHandler) GetTiers(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.premiumService.ListTiers())
}

type PriceResponse struct {
	ID          string `json:"id"`
	ProductID   string `json:"productId"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Interval    string `json:"interval"`
}

func (h *PremiumHandler) GetPrices(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	req := &paddle.ListPricesRequest{
		Status: []string{string(paddle.StatusActive)},
	}

	priceCollection, err := h.premiumService.PaddleClient.ListPrices(ctx, req)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var prices []PriceResponse

	for {
		result := priceCollection.Next(ctx)
		if !result.Ok() {
			if err := result.Err(); err != nil {
				respondWithError(w, http.StatusInternalServerError, err.Error())
				return
			}
			break
		}

		p := result.Value()

		interval := ""
		if p.BillingCycle != nil {
			interval = string(p.BillingCycle.Interval)
		}

		prices = append(prices, PriceResponse{
			ID:          p.ID,
			ProductID:   p.ProductID,
			Description: p.Description,
			Amount:      p.UnitPrice.Amount,
			Currency:    string(p.UnitPrice.CurrencyCode),
			Interval:    interval,
		})
	}

	respondWithJSON(w, http.StatusOK, prices)
}

func (h *PremiumHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 120*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req premium.SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tx, err := h.premiumService.CreateSubscriptionTransaction(ctx, clerkID, req.TierID)
	if err != nil {
		if errors.Is(err, services.ErrTierNotFound) {
			respondWithError(w, http.StatusNotFound, "Subscription tier not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to create transaction")
		return
	}

	paddleEnv := os.Getenv("PADDLE_ENV")
	if paddleEnv == "" {
		paddleEnv = "sandbox-checkout"
	}
	checkoutURL := fmt.Sprintf("https://%s.paddle.com/checkout/custom?_ptxn=%s", paddleEnv, tx.ID)

	respondWithJSON(w, http.StatusOK, map[string]string{
		"transactionId": tx.ID,
		"checkoutUrl":   checkoutURL,
	})
}

func (h *PremiumHandler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	sub, err := h.premiumService.GetSubscription(ctx, clerkID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load subscription")
		return
	}
	if sub == nil {
		respondWithJSON(w, http.StatusOK, map[string]any{"subscription": nil})
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{"subscription": sub})
}

// PaddleWebhook verifies the signature, then activates or cancels the
// subscription named in the event.
func (h *PremiumHandler) PaddleWebhook(w http.ResponseWriter, r *http.Request) {
	secret := os.Getenv("PADDLE_SECRET_KEY")
	if secret == "" {
		log.Println("PADDLE_SECRET_KEY missing")
		http.Error(w, "Configuration Error", http.StatusInternalServerError)
		return
	}

	verifier := paddle.NewWebhookVerifier(secret)

	valid, err := verifier.Verify(r)
	if err != nil {
		http.Error(w, "Verification failed", http.StatusInternalServerError)
		return
	}
	if !valid {
		http.Error(w, "Invalid signature", http.StatusForbidden)
		return
	}

	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Unable to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	type WebhookPartial struct {
		EventID   string               `json:"event_id"`
		EventType paddle.EventTypeName `json:"event_type"`
	}

	var webhook WebhookPartial
	if err := json.Unmarshal(bodyBytes, &webhook); err != nil {
		http.Error(w, "Unable to parse JSON", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch webhook.EventType {

	case paddle.EventTypeNameTransactionPaid, paddle.EventTypeNameSubscriptionCreated:
		type TransactionEvent struct {
			Data paddle.Transaction `json:"data"`
		}

		var fullEvent TransactionEvent
		if err := json.Unmarshal(bodyBytes, &fullEvent); err != nil {
			log.Printf("PaddleWebhook: error parsing transaction: %v", err)
			break
		}

		if fullEvent.Data.CustomData == nil {
			break
		}
		clerkID, _ := fullEvent.Data.CustomData["clerkId"].(string)
		tierID, _ := fullEvent.Data.CustomData["tierId"].(string)
		if clerkID == "" || tierID == "" {
			log.Printf("PaddleWebhook: transaction %s missing custom data", fullEvent.Data.ID)
			break
		}

		if err := h.premiumService.ActivateSubscription(ctx, clerkID, tierID, fullEvent.Data.ID); err != nil {
			log.Printf("PaddleWebhook: failed to activate subscription: %v", err)
		}

	case paddle.EventTypeNameSubscriptionCanceled:
		type SubscriptionEvent struct {
			Data paddle.Subscription `json:"data"`
		}

		var fullEvent SubscriptionEvent
		if err := json.Unmarshal(bodyBytes, &fullEvent); err != nil {
			log.Printf("PaddleWebhook: error parsing subscription: %v", err)
			break
		}
		if err := h.premiumService.CancelSubscription(ctx, fullEvent.Data.ID); err != nil {
			log.Printf("PaddleWebhook: failed to cancel subscription: %v", err)
		}

	default:
		log.Printf("PaddleWebhook: unhandled event type: %s", webhook.EventType)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"id": %q}`, webhook.EventID)
}
