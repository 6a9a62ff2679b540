package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/application/usecases/queries"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// TrackingCodePrefix starts every generated tracking code.
const TrackingCodePrefix = "PT-"

type createParcelHandler interface {
	Handle(ctx context.Context, cmd commands.CreateParcelCommand) error
}

type reconcileProgressHandler interface {
	Handle(ctx context.Context, cmd commands.ReconcileProgressCommand) (commands.ReconcileResult, error)
}

type getParcelTrackingHandler interface {
	Handle(ctx context.Context, query queries.GetParcelTrackingQuery) (queries.GetParcelTrackingQueryResponse, error)
}

// Server handles HTTP requests by translating them into use case calls.
type Server struct {
	// Command handlers
	createParcelHandler      createParcelHandler
	reconcileProgressHandler reconcileProgressHandler

	// Query handlers
	getParcelTrackingHandler getParcelTrackingHandler

	now             func() time.Time
	newTrackingCode func() string
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createParcelHandler createParcelHandler,
	reconcileProgressHandler reconcileProgressHandler,
	getParcelTrackingHandler getParcelTrackingHandler,
) *Server {
	return &Server{
		createParcelHandler:      createParcelHandler,
		reconcileProgressHandler: reconcileProgressHandler,
		getParcelTrackingHandler: getParcelTrackingHandler,
		now:                      time.Now,
		newTrackingCode: func() string {
			return TrackingCodePrefix + kernel.NewUUID().Short()
		},
	}
}

// RegisterRoutes mounts the API on e.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	api.POST("/parcels", s.CreateParcel)
	api.GET("/parcels/:trackingCode", s.GetParcel)
	api.POST("/reconcile", s.Reconcile)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// CreateParcel handles POST /api/v1/parcels - registers a shipment.
func (s *Server) CreateParcel(ctx echo.Context) error {
	var newParcel NewParcel
	if err := ctx.Bind(&newParcel); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	trackingCode := s.newTrackingCode()

	cmd, err := commands.NewCreateParcelCommand(
		trackingCode,
		newParcel.ReceiverName,
		newParcel.OriginAddress,
		newParcel.DestinationAddress,
		newParcel.DaysToDeliver,
		s.now().UTC(),
	)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid parcel data: " + err.Error(),
		})
	}

	if handleErr := s.createParcelHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to create parcel",
		})
	}

	return ctx.JSON(http.StatusCreated, ParcelCreated{TrackingCode: trackingCode})
}

// GetParcel handles GET /api/v1/parcels/:trackingCode - returns progress and history.
func (s *Server) GetParcel(ctx echo.Context) error {
	query, err := queries.NewGetParcelTrackingQuery(ctx.Param("trackingCode"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid tracking code",
		})
	}

	tracking, err := s.getParcelTrackingHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return ctx.JSON(http.StatusNotFound, Error{
				Code:    http.StatusNotFound,
				Message: "Parcel not found",
			})
		}
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve parcel",
		})
	}

	return ctx.JSON(http.StatusOK, toTracking(tracking))
}

// Reconcile handles POST /api/v1/reconcile - runs one reconciliation tick.
// An optional RFC 3339 "now" query parameter replays a past instant. Progress
// never moves backwards, so instants after the wall clock are rejected.
func (s *Server) Reconcile(ctx echo.Context) error {
	now := s.now().UTC()
	if raw := ctx.QueryParam("now"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, Error{
				Code:    http.StatusBadRequest,
				Message: "Invalid now parameter, expected RFC 3339",
			})
		}
		if parsed.After(now) {
			return ctx.JSON(http.StatusBadRequest, Error{
				Code:    http.StatusBadRequest,
				Message: "Invalid now parameter, must not be in the future",
			})
		}
		now = parsed
	}

	cmd, err := commands.NewReconcileProgressCommand(now)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid reconcile request: " + err.Error(),
		})
	}

	result, err := s.reconcileProgressHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to reconcile parcels",
		})
	}

	return ctx.JSON(http.StatusOK, ReconcileResult{
		UpdatedCount:    result.UpdatedCount,
		TotalCandidates: result.TotalCandidates,
	})
}

func toTracking(r queries.GetParcelTrackingQueryResponse) Tracking {
	events := make([]TrackingEvent, len(r.Events))
	for i, e := range r.Events {
		events[i] = TrackingEvent{
			ID:            e.ID.String(),
			Timestamp:     e.Timestamp,
			Type:          e.Type,
			Description:   e.Description,
			LocationLabel: e.LocationLabel,
			Location:      toLocation(e.Location),
		}
	}

	return Tracking{
		TrackingCode:      r.TrackingCode,
		ReceiverName:      r.ReceiverName,
		Status:            r.Status,
		ProgressIndex:     r.ProgressIndex,
		WaypointCount:     r.WaypointCount,
		ProgressPercent:   r.ProgressPercent,
		Position:          toLocation(r.Position),
		LocationLabel:     r.LocationLabel,
		CreatedAt:         r.CreatedAt,
		LastUpdated:       r.LastUpdated,
		EstimatedDelivery: r.EstimatedDelivery,
		Events:            events,
	}
}

func toLocation(l *kernel.Location) *Location {
	if l == nil {
		return nil
	}
	return &Location{Lat: l.Lat(), Lng: l.Lng()}
}
