package ports

import (
	"context"

	"freight/internal/core/domain/model/kernel"
)

// RefundChecker asks the payment collaborator whether an order's payment
// can still be refunded. A refusal is a business answer, not an error;
// errors are reserved for the collaborator being unreachable.
type RefundChecker interface {
	CanRefund(ctx context.Context, orderID kernel.UUID) (bool, error)
}
