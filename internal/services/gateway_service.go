package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// GatewayService handles payment gateway API interactions for platform
// subscriptions.
type GatewayService interface {
	CreateSubscription(ctx context.Context, planID, customerEmail string) (*GatewaySubscription, error)
	CancelSubscription(ctx context.Context, subscriptionID string) (*GatewaySubscription, error)
	WebhookVerify(rawData []byte, signature string) (*WebhookEvent, error)
}

type gatewayService struct {
	apiKey        string
	apiSecret     string
	webhookSecret string
	baseURL       string
	http          *http.Client
}

// GatewaySubscription is the gateway's view of a subscription.
type GatewaySubscription struct {
	ID      string `json:"id"`
	Entity  string `json:"entity"`
	Status  string `json:"status"`
	StartAt int64  `json:"start_at"`
	EndAt   int64  `json:"end_at"`
}

// WebhookEvent is one verified gateway callback.
type WebhookEvent struct {
	ID      string                 `json:"id"`
	Event   string                 `json:"event"`
	Payload map[string]interface{} `json:"payload"`
	Created int64                  `json:"created_at"`
}

// NewGatewayService creates a new payment gateway service instance
func NewGatewayService(apiKey, apiSecret, webhookSecret string) GatewayService {
	return &gatewayService{
		apiKey:        apiKey,
		apiSecret:     apiSecret,
		webhookSecret: webhookSecret,
		baseURL:       "https://api.razorpay.com/v1",
		http:          &http.Client{},
	}
}

func (s *gatewayService) CreateSubscription(ctx context.Context, planID, customerEmail string) (*GatewaySubscription, error) {
	body := map[string]interface{}{
		"plan_id":         planID,
		"customer_notify": 1,
		"total_count":     12,
		"notes": map[string]string{
			"customer_email": customerEmail,
		},
	}

	data, err := s.makeRequest(ctx, http.MethodPost, "/subscriptions", body)
	if err != nil {
		return nil, err
	}

	var sub GatewaySubscription
	if err := json.Unmarshal(data, &sub); err != nil {
		return nil, fmt.Errorf("failed to parse gateway response: %v", err)
	}
	return &sub, nil
}

func (s *gatewayService) CancelSubscription(ctx context.Context, subscriptionID string) (*GatewaySubscription, error) {
	path := fmt.Sprintf("/subscriptions/%s/cancel", subscriptionID)
	data, err := s.makeRequest(ctx, http.MethodPost, path, nil)
	if err != nil {
		return nil, err
	}

	var sub GatewaySubscription
	if err := json.Unmarshal(data, &sub); err != nil {
		return nil, fmt.Errorf("failed to parse gateway response: %v", err)
	}
	return &sub, nil
}

// WebhookVerify checks the HMAC signature before trusting the payload.
func (s *gatewayService) WebhookVerify(rawData []byte, signature string) (*WebhookEvent, error) {
	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write(rawData)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return nil, fmt.Errorf("webhook signature mismatch")
	}

	var event WebhookEvent
	if err := json.Unmarshal(rawData, &event); err != nil {
		return nil, fmt.Errorf("failed to parse webhook data: %v", err)
	}
	return &event, nil
}

func (s *gatewayService) makeRequest(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewBuffer(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(s.apiKey, s.apiSecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("gateway returned %d: %s", resp.StatusCode, string(data))
	}
	return data, nil
}
