package http

import (
	"errors"
	"net/http"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/bidding"
	"freight/internal/core/domain/model/order"
	"freight/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// envelope is the uniform response body. Data is omitted for errors and for
// commands with nothing to return.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func respondOK(ctx echo.Context, message string, data any) error {
	return ctx.JSON(http.StatusOK, envelope{Success: true, Message: message, Data: data})
}

func respondCreated(ctx echo.Context, message string, data any) error {
	return ctx.JSON(http.StatusCreated, envelope{Success: true, Message: message, Data: data})
}

func respondError(ctx echo.Context, err error) error {
	return ctx.JSON(statusFor(err), envelope{Success: false, Message: err.Error()})
}

// conflictErrors are domain refusals: the request was well formed but the
// current state of the aggregate does not permit it.
var conflictErrors = []error{
	bidding.ErrBiddingClosed,
	bidding.ErrBidLimitReached,
	bidding.ErrDuplicateBid,
	bidding.ErrBidTooLow,
	bidding.ErrBidNotCompetitive,
	bidding.ErrBidAlreadyAccepted,
	order.ErrOrderTerminal,
	order.ErrInvalidStatusTransition,
	order.ErrInvalidStopSequence,
	order.ErrOrderNotInTransit,
	order.ErrOrderNotDelivered,
	order.ErrBiddingNotOpen,
	commands.ErrRefundNotPossible,
}

// statusFor maps an error to its HTTP status. Anything unrecognized is a 500,
// including guard violations, which can only come from a programming mistake.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrUpstreamFailure):
		return http.StatusBadGateway
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	}

	for _, conflict := range conflictErrors {
		if errors.Is(err, conflict) {
			return http.StatusConflict
		}
	}

	return http.StatusInternalServerError
}
