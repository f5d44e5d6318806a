package yookassa

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/lingvoapp/lingvo-backend/internal/domain/provider"
)

const (
	apiBaseURL   = "https://api.yookassa.ru"
	apiVersion   = "v3"
	providerName = "yookassa"
)

// Client calls the YooKassa Payments API and normalizes its webhooks.
type Client struct {
	shopID        string
	secretKey     string
	webhookSecret string
	client        *http.Client
	logger        *zap.Logger
}

// NewClient builds a YooKassa provider adapter. Empty credentials produce
// a client that reports itself unconfigured; the webhook path still works
// because normalization needs no credentials.
func NewClient(shopID, secretKey, webhookSecret string, logger *zap.Logger) *Client {
	return &Client{
		shopID:        shopID,
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
		client:        &http.Client{Timeout: 30 * time.Second},
		logger:        logger,
	}
}

// Name returns the provider tag stored on ledger rows.
func (c *Client) Name() string {
	return providerName
}

// Configured reports whether shop credentials are present.
func (c *Client) Configured() bool {
	return c.shopID != "" && c.secretKey != ""
}

type createPaymentBody struct {
	Amount       amountBody        `json:"amount"`
	Confirmation confirmationBody  `json:"confirmation"`
	Capture      bool              `json:"capture"`
	Description  string            `json:"description,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

type amountBody struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type confirmationBody struct {
	Type            string `json:"type"`
	ReturnURL       string `json:"return_url,omitempty"`
	ConfirmationURL string `json:"confirmation_url,omitempty"`
}

type createPaymentResult struct {
	ID           string           `json:"id"`
	Status       string           `json:"status"`
	Confirmation confirmationBody `json:"confirmation"`
}

// CreatePayment creates a payment via POST /v3/payments. The amount is
// sent as a major-unit decimal string; the metadata travels opaquely and
// is echoed back verbatim on webhook delivery.
func (c *Client) CreatePayment(ctx context.Context, req *provider.CreatePaymentRequest) (*provider.CreatePaymentResponse, error) {
	body := createPaymentBody{
		Amount: amountBody{
			Value:    decimal.NewFromInt(req.AmountMinorUnits).Div(decimal.NewFromInt(100)).StringFixed(2),
			Currency: req.Currency,
		},
		Confirmation: confirmationBody{
			Type:      "redirect",
			ReturnURL: req.ReturnURL,
		},
		Capture:     true,
		Description: req.Description,
		Metadata:    req.Metadata.ToMap(),
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, &provider.ProviderError{
			Code:    "MARSHAL_ERROR",
			Message: "Failed to prepare request",
			Details: err.Error(),
		}
	}

	url := fmt.Sprintf("%s/%s/payments", apiBaseURL, apiVersion)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, &provider.ProviderError{
			Code:    "REQUEST_ERROR",
			Message: "Failed to create request",
			Details: err.Error(),
		}
	}

	auth := base64.StdEncoding.EncodeToString([]byte(c.shopID + ":" + c.secretKey))
	httpReq.Header.Set("Authorization", "Basic "+auth)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotence-Key", req.IdempotenceKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.logger.Error("YooKassa: payment creation request failed", zap.Error(err))
		return nil, &provider.ProviderError{
			Code:    "API_ERROR",
			Message: "YooKassa API request failed",
			Details: err.Error(),
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &provider.ProviderError{
			Code:    "RESPONSE_ERROR",
			Message: "Failed to read response",
			Details: err.Error(),
		}
	}

	if resp.StatusCode != http.StatusOK {
		var errResp map[string]interface{}
		json.Unmarshal(respBody, &errResp)

		code, _ := errResp["code"].(string)
		message, _ := errResp["description"].(string)

		c.logger.Error("YooKassa: payment creation rejected",
			zap.Int("status_code", resp.StatusCode),
			zap.String("code", code),
			zap.String("description", message))

		return nil, &provider.ProviderError{
			Code:    code,
			Message: message,
			Details: string(respBody),
		}
	}

	var result createPaymentResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &provider.ProviderError{
			Code:    "PARSE_ERROR",
			Message: "Failed to parse response",
			Details: err.Error(),
		}
	}

	c.logger.Info("YooKassa: payment created",
		zap.String("payment_id", result.ID),
		zap.String("status", result.Status))

	return &provider.CreatePaymentResponse{
		PaymentID:       result.ID,
		ConfirmationURL: result.Confirmation.ConfirmationURL,
		Status:          result.Status,
	}, nil
}

// VerifyWebhookSignature checks an HMAC-SHA256 hex signature of the raw
// webhook body against the configured webhook secret. Verification is a
// no-op when no secret is configured.
func (c *Client) VerifyWebhookSignature(body []byte, signature string) error {
	if c.webhookSecret == "" {
		return nil
	}

	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return &provider.ProviderError{
			Code:    "INVALID_SIGNATURE",
			Message: "webhook signature verification failed",
		}
	}
	return nil
}
