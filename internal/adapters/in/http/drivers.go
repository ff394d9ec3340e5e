package http

import (
	"strconv"
	"time"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/driver"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

type createDriverRequest struct {
	Name string `json:"name"`
}

// CreateDriver handles POST /api/v1/drivers. Registers a driver profile so
// position and mode reports have something to attach to.
func (s *Server) CreateDriver(ctx echo.Context) error {
	var request createDriverRequest
	if err := ctx.Bind(&request); err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}

	cmd, err := commands.NewCreateDriverCommand(request.Name)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.createDriverHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return respondCreated(ctx, "driver registered", map[string]string{
		"driverId": cmd.DriverID().String(),
	})
}

type driverProgressRequest struct {
	OrderID string `json:"orderId"`
	Signal  string `json:"signal"`
}

// ReportDriverProgress handles POST /api/v1/drivers/:driverId/progress. The
// driver reports a milestone signal (arrived, loaded, unloaded) against the
// order it is working.
func (s *Server) ReportDriverProgress(ctx echo.Context) error {
	driverID, err := pathUUID(ctx, "driverId")
	if err != nil {
		return respondError(ctx, err)
	}

	var request driverProgressRequest
	if err := ctx.Bind(&request); err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}

	orderID, err := kernel.UUIDFromString(request.OrderID)
	if err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("orderId", err))
	}

	cmd, err := commands.NewUpdateDriverProgressCommand(orderID, driverID, request.Signal)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.driverProgressHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return respondOK(ctx, "progress recorded", nil)
}

type driverPositionRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ReportDriverPosition handles POST /api/v1/drivers/:driverId/position.
func (s *Server) ReportDriverPosition(ctx echo.Context) error {
	driverID, err := pathUUID(ctx, "driverId")
	if err != nil {
		return respondError(ctx, err)
	}

	var request driverPositionRequest
	if err := ctx.Bind(&request); err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}

	cmd, err := commands.NewReportPositionCommand(driverID, request.Lat, request.Lng)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.reportPositionHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return respondOK(ctx, "position recorded", nil)
}

type driverModeRequest struct {
	Mode string `json:"mode"`
}

// ReportDriverMode handles POST /api/v1/drivers/:driverId/mode.
func (s *Server) ReportDriverMode(ctx echo.Context) error {
	driverID, err := pathUUID(ctx, "driverId")
	if err != nil {
		return respondError(ctx, err)
	}

	var request driverModeRequest
	if err := ctx.Bind(&request); err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}

	cmd, err := commands.NewReportModeCommand(driverID, request.Mode)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.reportModeHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return respondOK(ctx, "mode updated", nil)
}

type nearbyDriverResponse struct {
	DriverID          string     `json:"driverId"`
	Name              string     `json:"name"`
	Lat               float64    `json:"lat"`
	Lng               float64    `json:"lng"`
	DistanceKm        float64    `json:"distanceKm"`
	PositionUpdatedAt *time.Time `json:"positionUpdatedAt,omitempty"`
}

// GetNearbyDrivers handles GET /api/v1/drivers/nearby with lat, lng,
// radiusKm, mode and limit query parameters. The mode defaults to the
// work partition, which is what dispatch cares about.
func (s *Server) GetNearbyDrivers(ctx echo.Context) error {
	lat, err := strconv.ParseFloat(ctx.QueryParam("lat"), 64)
	if err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("lat", err))
	}
	lng, err := strconv.ParseFloat(ctx.QueryParam("lng"), 64)
	if err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("lng", err))
	}

	center, err := kernel.NewGeoPoint(lat, lng)
	if err != nil {
		return respondError(ctx, err)
	}

	radiusKm := 25.0
	if raw := ctx.QueryParam("radiusKm"); raw != "" {
		radiusKm, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("radiusKm", err))
		}
	}

	mode := driver.ModeWork
	if raw := ctx.QueryParam("mode"); raw != "" {
		mode, err = driver.ParseMode(raw)
		if err != nil {
			return respondError(ctx, err)
		}
	}

	limit := 20
	if raw := ctx.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("limit", err))
		}
	}

	query, err := queries.NewNearbyDriversQuery(center, radiusKm, mode, limit)
	if err != nil {
		return respondError(ctx, err)
	}

	drivers, err := s.nearbyDriversHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	response := make([]nearbyDriverResponse, 0, len(drivers))
	for _, drv := range drivers {
		response = append(response, nearbyDriverResponse{
			DriverID:          drv.DriverID.String(),
			Name:              drv.Name,
			Lat:               drv.Lat,
			Lng:               drv.Lng,
			DistanceKm:        drv.DistanceKm,
			PositionUpdatedAt: drv.PositionUpdatedAt,
		})
	}

	return respondOK(ctx, "nearby drivers", response)
}
