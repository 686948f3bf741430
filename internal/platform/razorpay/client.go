package razorpay

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
	"os"
	"strings"
	"time"

	"github.com/ajaypanchal761/createbharat-sub003/internal/platform/envutil"
	"github.com/ajaypanchal761/createbharat-sub003/internal/platform/logger"
)

// Client is the payment gateway port. CreateOrder registers a checkout order
// with the gateway; VerifyPaymentSignature checks a client-relayed payment
// against the gateway's HMAC scheme so a forged transaction id can never
// unlock a certificate.
type Client interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error)
	VerifyPaymentSignature(orderID, paymentID, signature string) error
	KeyID() string
}

type Config struct {
	KeyID      string
	KeySecret  string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

func ConfigFromEnv() Config {
	return Config{
		KeyID:      strings.TrimSpace(os.Getenv("RAZORPAY_KEY_ID")),
		KeySecret:  strings.TrimSpace(os.Getenv("RAZORPAY_KEY_SECRET")),
		BaseURL:    strings.TrimSpace(os.Getenv("RAZORPAY_BASE_URL")),
		Timeout:    envutil.Duration("RAZORPAY_TIMEOUT", 30*time.Second),
		MaxRetries: envutil.Int("RAZORPAY_MAX_RETRIES", 2),
	}
}

func NewFromEnv(log *logger.Logger) (Client, error) {
	return New(log, ConfigFromEnv())
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.KeyID) == "" {
		return nil, fmt.Errorf("missing RAZORPAY_KEY_ID")
	}
	if strings.TrimSpace(cfg.KeySecret) == "" {
		return nil, fmt.Errorf("missing RAZORPAY_KEY_SECRET")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://api.razorpay.com"
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	return &client{
		log:        log.With("client", "RazorpayClient"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
}

// --- public request/response types ---

type CreateOrderRequest struct {
	Amount   int64             `json:"amount"` // smallest currency unit (paise)
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt,omitempty"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type apiError struct {
	ErrorBody struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

func (c *client) KeyID() string { return c.cfg.KeyID }

func (c *client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("order amount must be positive, got %d", req.Amount)
	}
	if strings.TrimSpace(req.Currency) == "" {
		req.Currency = "INR"
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal order request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * 500 * time.Millisecond
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		order, retryable, err := c.postOrder(ctx, body)
		if err == nil {
			return order, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
		c.log.Warn("Gateway order creation failed, retrying", "attempt", attempt, "error", err)
	}
	return nil, lastErr
}

func (c *client) postOrder(ctx context.Context, body []byte) (*Order, bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("build order request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.cfg.KeyID, c.cfg.KeySecret)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, true, fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, true, fmt.Errorf("read gateway response: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var order Order
		if err := json.Unmarshal(raw, &order); err != nil {
			return nil, false, fmt.Errorf("decode gateway order: %w", err)
		}
		if order.ID == "" {
			return nil, false, fmt.Errorf("gateway returned order without id")
		}
		return &order, false, nil
	}

	var ae apiError
	_ = json.Unmarshal(raw, &ae)
	err = fmt.Errorf("gateway order create failed: status=%d code=%s desc=%s",
		resp.StatusCode, ae.ErrorBody.Code, ae.ErrorBody.Description)

	// 5xx and 429 are transient; 4xx means the request itself is bad.
	retryable := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
	return nil, retryable, err
}

// VerifyPaymentSignature implements the gateway's checkout verification:
// signature = hex(HMAC-SHA256(key_secret, order_id + "|" + payment_id)).
func (c *client) VerifyPaymentSignature(orderID, paymentID, signature string) error {
	return VerifySignature(c.cfg.KeySecret, orderID, paymentID, signature)
}

func VerifySignature(secret, orderID, paymentID, signature string) error {
	if strings.TrimSpace(signature) == "" {
		return fmt.Errorf("missing payment signature")
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return fmt.Errorf("payment signature mismatch")
	}
	return nil
}

// SignPayment computes the checkout signature for the given order/payment
// pair. Test helpers and the noop gateway use it.
func SignPayment(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
