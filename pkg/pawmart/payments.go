package pawmart

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

const (
	vnpayCreateEndpoint = "/payments/vnpay"
	vnpayReturnEndpoint = "/payments/vnpay/return"
)

// paymentService implements the PaymentService interface. Payment itself
// happens on VNPay's side; the client only obtains the redirect URL and
// verifies the parameters VNPay sends back.
type paymentService struct {
	client *Client
}

// CreateVNPayURL returns the redirect URL that completes payment for the order
func (s *paymentService) CreateVNPayURL(ctx context.Context, orderID string) (string, error) {
	var result struct {
		PaymentURL string `json:"paymentUrl"`
	}
	if err := s.client.do(ctx, http.MethodPost, vnpayCreateEndpoint, map[string]interface{}{
		"orderId": orderID,
	}, &result); err != nil {
		return "", errors.Wrap(err, "failed to create VNPay URL")
	}
	if result.PaymentURL == "" {
		return "", NewError("PAYMENT_ERROR", "no payment URL in response")
	}
	return result.PaymentURL, nil
}

// VerifyReturn validates the query parameters VNPay appended to the return URL
func (s *paymentService) VerifyReturn(ctx context.Context, params url.Values) (*PaymentResult, error) {
	var result PaymentResult
	path := vnpayReturnEndpoint
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}
	if err := s.client.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, errors.Wrap(err, "failed to verify VNPay return")
	}
	return &result, nil
}
