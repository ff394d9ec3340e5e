package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
	"freight/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderTrackingQueryHandler builds the tracking view of an order straight
// from the orders, drop_stops and track_points tables, without loading the
// aggregate.
//
// Example:
//
//	handler := NewGetOrderTrackingQueryHandler(db)
//	query, err := NewGetOrderTrackingQuery(orderID)
//	if err != nil {
//	    return err
//	}
//
//	tracking, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("order is %s, %d/%d stops done\n",
//	    tracking.Progress, tracking.CompletedStops, tracking.TotalStops)
type GetOrderTrackingQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderTrackingQueryHandler creates a handler for order tracking queries.
func NewGetOrderTrackingQueryHandler(db *gorm.DB) GetOrderTrackingQueryHandler {
	return GetOrderTrackingQueryHandler{db: db}
}

// Handle executes the tracking query. Returns a not-found error when the
// order does not exist. History entries come back in submission order.
func (h GetOrderTrackingQueryHandler) Handle(
	ctx context.Context,
	query GetOrderTrackingQuery,
) (GetOrderTrackingQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderTrackingQueryResponse{}, err
	}

	var (
		id              uuid.UUID
		status          int
		assignmentEpoch int
		completedStops  int
		totalStops      int
		currentLat      sql.NullFloat64
		currentLng      sql.NullFloat64
		currentAt       sql.NullTime
		startedAt       sql.NullTime
		completedAt     sql.NullTime
	)

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.status,
			o.assignment_epoch,
			o.completed_stops,
			(SELECT COUNT(*) FROM drop_stops s WHERE s.order_id = o.id) AS total_stops,
			o.current_lat,
			o.current_lng,
			o.current_at,
			o.started_at,
			o.completed_at
		FROM orders o
		WHERE o.id = ?
	`, query.OrderID().Bytes()).Row()

	err := row.Scan(
		&id,
		&status,
		&assignmentEpoch,
		&completedStops,
		&totalStops,
		&currentLat,
		&currentLng,
		&currentAt,
		&startedAt,
		&completedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderTrackingQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID())
	}
	if err != nil {
		return GetOrderTrackingQueryResponse{}, err
	}

	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetOrderTrackingQueryResponse{}, err
	}

	response := GetOrderTrackingQueryResponse{
		OrderID:         orderID,
		Status:          order.Status(status).String(),
		Progress:        order.Status(status).Progress(),
		AssignmentEpoch: assignmentEpoch,
		CompletedStops:  completedStops,
		TotalStops:      totalStops,
		StartedAt:       nullableTime(startedAt),
		CompletedAt:     nullableTime(completedAt),
	}

	if currentLat.Valid && currentLng.Valid && currentAt.Valid {
		response.CurrentLocation = &TrackPointResponse{
			Lat:        currentLat.Float64,
			Lng:        currentLng.Float64,
			RecordedAt: currentAt.Time,
		}
	}

	history, err := h.loadHistory(ctx, query.OrderID())
	if err != nil {
		return GetOrderTrackingQueryResponse{}, err
	}
	response.History = history

	return response, nil
}

func (h GetOrderTrackingQueryHandler) loadHistory(
	ctx context.Context,
	orderID kernel.UUID,
) ([]TrackPointResponse, error) {
	history := make([]TrackPointResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			point_lat,
			point_lng,
			recorded_at
		FROM track_points
		WHERE order_id = ?
		ORDER BY id
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var point TrackPointResponse

		err = rows.Scan(&point.Lat, &point.Lng, &point.RecordedAt)
		if err != nil {
			return nil, err
		}
		history = append(history, point)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return history, nil
}

func nullableTime(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	return &value.Time
}
