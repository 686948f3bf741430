package razorpay

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/ajaypanchal761/createbharat-sub003/internal/platform/logger"
)

// NewNoop returns a gateway that fabricates order ids locally and accepts any
// signature. Used for local runs without gateway credentials; never wire it
// in production.
func NewNoop(log *logger.Logger) Client {
	return &noopClient{log: log.With("client", "NoopGateway")}
}

type noopClient struct {
	log *logger.Logger
	seq atomic.Int64
}

func (c *noopClient) KeyID() string { return "rzp_test_noop" }

func (c *noopClient) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("order amount must be positive, got %d", req.Amount)
	}
	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}
	id := fmt.Sprintf("order_noop_%06d", c.seq.Add(1))
	c.log.Debug("Fabricated local order", "order_id", id, "amount", req.Amount)
	return &Order{ID: id, Amount: req.Amount, Currency: currency, Status: "created"}, nil
}

func (c *noopClient) VerifyPaymentSignature(orderID, paymentID, signature string) error {
	return nil
}
