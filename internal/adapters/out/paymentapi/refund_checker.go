// Package paymentapi provides the HTTP client for the payment collaborator.
// Only the refund capability check is consumed here; capture and settlement
// live entirely on the payment side.
package paymentapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

const defaultTimeout = 10 * time.Second

// RefundChecker asks the payment service whether an order's payment can
// still be refunded.
type RefundChecker struct {
	baseURL string
	client  *http.Client
}

// NewRefundChecker creates a refund capability client for the given base URL.
func NewRefundChecker(baseURL string) (*RefundChecker, error) {
	if baseURL == "" {
		return nil, errs.NewValueIsRequiredError("baseURL")
	}

	return &RefundChecker{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}, nil
}

type refundableResponse struct {
	Refundable bool `json:"refundable"`
}

// CanRefund reports whether the payment behind the order is still
// refundable. A "no" is a business answer; errors mean the payment service
// could not be asked.
func (r *RefundChecker) CanRefund(ctx context.Context, orderID kernel.UUID) (bool, error) {
	endpoint := fmt.Sprintf("%s/orders/%s/refundable", r.baseURL, orderID.String())
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, err
	}

	response, err := r.client.Do(request)
	if err != nil {
		return false, errs.NewUpstreamFailureErrorWithCause("payment service", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return false, errs.NewUpstreamFailureErrorWithCause("payment service",
			fmt.Errorf("unexpected status %d", response.StatusCode))
	}

	var body refundableResponse
	if err := json.NewDecoder(response.Body).Decode(&body); err != nil {
		return false, errs.NewUpstreamFailureErrorWithCause("payment service", err)
	}

	return body.Refundable, nil
}
