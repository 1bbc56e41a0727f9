package http

import (
	"errors"
	"net/http"
	"time"

	"fulfillment/internal/adapters/out/locationfeed"
	"fulfillment/internal/core/application"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server exposes the fulfillment controller over HTTP. It translates
// requests into guarded commands, maps the core's typed errors onto status
// codes, and renders the StatusView read model.
type Server struct {
	controller *application.OrderFulfillmentController
	feed       *locationfeed.Feed
}

// NewServer creates the HTTP server over the given controller and location
// feed.
func NewServer(controller *application.OrderFulfillmentController, feed *locationfeed.Feed) *Server {
	return &Server{
		controller: controller,
		feed:       feed,
	}
}

// RegisterRoutes attaches all fulfillment routes to the Echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	api.POST("/orders/:id/track", s.TrackOrder)
	api.GET("/orders/:id/status", s.GetOrderStatus)
	api.POST("/orders/:id/complete-leg", s.CompleteLeg)
	api.POST("/orders/:id/retry-cleanup", s.RetryCleanup)
	api.POST("/location", s.ReportLocation)
}

// Error is the JSON error body for all failure responses.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// TrackOrderRequest optionally overrides the destination of the active leg.
type TrackOrderRequest struct {
	DestinationLat *float64 `json:"destination_lat" validate:"omitempty,gte=-90,lte=90"`
	DestinationLng *float64 `json:"destination_lng" validate:"omitempty,gte=-180,lte=180"`
}

// TrackOrderResponse reports the leg the order entered on load. Warning is
// set when the leg's destination is unusable and tracking cannot start.
type TrackOrderResponse struct {
	OrderID string `json:"order_id"`
	Phase   string `json:"phase"`
	Label   string `json:"label"`
	Warning string `json:"warning,omitempty"`
}

// LocationReportRequest is one device position report.
type LocationReportRequest struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	SpeedMps  float64 `json:"speed_mps" validate:"gte=0"`
}

// StatusViewResponse is the JSON shape of application.StatusView.
type StatusViewResponse struct {
	OrderID         string  `json:"order_id"`
	Status          string  `json:"status"`
	Phase           string  `json:"phase"`
	Label           string  `json:"label"`
	StatusLine      string  `json:"status_line"`
	ChipText        string  `json:"chip_text"`
	Destination     string  `json:"destination"`
	DistanceKm      float64 `json:"distance_km"`
	DistanceText    string  `json:"distance_text"`
	EtaMinutes      int     `json:"eta_minutes"`
	EtaText         string  `json:"eta_text"`
	Arrived         bool    `json:"arrived"`
	ProgressPercent int     `json:"progress_percent"`
	ContactPhone    string  `json:"contact_phone,omitempty"`
	CleanupPending  bool    `json:"cleanup_pending"`
}

// CompleteLegResponse reports the outcome of a leg completion.
type CompleteLegResponse struct {
	Finalized     bool   `json:"finalized"`
	ClosingStatus string `json:"closing_status,omitempty"`
	NextPhase     string `json:"next_phase,omitempty"`
	NextLabel     string `json:"next_label,omitempty"`
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// TrackOrder handles POST /api/v1/orders/:id/track - loads an order into the
// engine and makes it the active order.
//
// A missing destination does not fail the request: the order stays loaded in
// the last reachable leg and the response carries a warning instead.
func (s *Server) TrackOrder(ctx echo.Context) error {
	var req TrackOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return badRequest(ctx, err.Error())
	}

	orderID := ctx.Param("id")

	var cmd application.TrackOrderCommand
	var err error
	if req.DestinationLat != nil && req.DestinationLng != nil {
		cmd, err = application.NewTrackOrderCommandWithOverride(orderID, *req.DestinationLat, *req.DestinationLng)
	} else {
		cmd, err = application.NewTrackOrderCommand(orderID)
	}
	if err != nil {
		return badRequest(ctx, "Invalid tracking request: "+err.Error())
	}

	pc, err := s.controller.LoadOrder(ctx.Request().Context(), cmd)
	if err != nil && !errors.Is(err, application.ErrMissingDestination) {
		return s.mapError(ctx, err)
	}

	response := TrackOrderResponse{
		OrderID: orderID,
		Phase:   pc.Phase().String(),
		Label:   pc.Label(),
	}
	if err != nil {
		response.Warning = err.Error()
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetOrderStatus handles GET /api/v1/orders/:id/status - renders the live
// status view of the active order.
func (s *Server) GetOrderStatus(ctx echo.Context) error {
	if ctx.Param("id") != s.controller.ActiveOrderID() {
		return notFound(ctx, "Order is not being tracked")
	}

	view, err := s.controller.CurrentStatusView()
	if err != nil {
		return s.mapError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, StatusViewResponse{
		OrderID:         view.OrderID,
		Status:          view.Status.String(),
		Phase:           view.Phase.String(),
		Label:           view.Label,
		StatusLine:      view.StatusLine,
		ChipText:        view.ChipText,
		Destination:     view.Destination.OneLine(),
		DistanceKm:      view.DistanceKm,
		DistanceText:    view.DistanceText,
		EtaMinutes:      view.EtaMinutes,
		EtaText:         view.EtaText,
		Arrived:         view.Arrived,
		ProgressPercent: view.ProgressPercent,
		ContactPhone:    view.ContactPhone,
		CleanupPending:  view.CleanupPending,
	})
}

// CompleteLeg handles POST /api/v1/orders/:id/complete-leg - the courier's
// explicit leg-completion gesture.
func (s *Server) CompleteLeg(ctx echo.Context) error {
	if ctx.Param("id") != s.controller.ActiveOrderID() {
		return notFound(ctx, "Order is not being tracked")
	}

	completion, err := s.controller.CompleteCurrentLeg(ctx.Request().Context())
	if err != nil {
		return s.mapError(ctx, err)
	}

	response := CompleteLegResponse{Finalized: completion.Finalized}
	if completion.Finalized {
		response.ClosingStatus = completion.ClosingStatus.String()
	} else {
		response.NextPhase = completion.Next.Phase().String()
		response.NextLabel = completion.Next.Label()
	}

	return ctx.JSON(http.StatusOK, response)
}

// RetryCleanup handles POST /api/v1/orders/:id/retry-cleanup - reissues the
// pending row deletion after a partial completion.
func (s *Server) RetryCleanup(ctx echo.Context) error {
	if ctx.Param("id") != s.controller.ActiveOrderID() {
		return notFound(ctx, "Order is not being tracked")
	}

	if err := s.controller.RetryCleanup(ctx.Request().Context()); err != nil {
		return s.mapError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ReportLocation handles POST /api/v1/location - publishes one device
// position report into the location feed.
func (s *Server) ReportLocation(ctx echo.Context) error {
	var req LocationReportRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return badRequest(ctx, err.Error())
	}

	coord, err := kernel.NewCoordinate(req.Latitude, req.Longitude)
	if err != nil {
		return badRequest(ctx, "Invalid coordinate: "+err.Error())
	}

	sample, err := kernel.NewLocationSample(coord, req.SpeedMps, time.Now())
	if err != nil {
		return badRequest(ctx, "Invalid location sample: "+err.Error())
	}

	if err = s.feed.Publish(sample); err != nil {
		return s.mapError(ctx, err)
	}

	return ctx.NoContent(http.StatusAccepted)
}

// mapError translates the core's typed errors onto HTTP status codes.
func (s *Server) mapError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, application.ErrUnknownOrder),
		errors.Is(err, errs.ErrObjectNotFound):
		return notFound(ctx, err.Error())
	case errors.Is(err, application.ErrMissingDestination),
		errors.Is(err, application.ErrPartialCompletion):
		return ctx.JSON(http.StatusConflict, Error{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	case errors.Is(err, application.ErrRemoteFailure):
		return ctx.JSON(http.StatusBadGateway, Error{
			Code:    http.StatusBadGateway,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return badRequest(ctx, err.Error())
	default:
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		})
	}
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

func notFound(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusNotFound, Error{
		Code:    http.StatusNotFound,
		Message: message,
	})
}
