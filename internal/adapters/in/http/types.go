package http

import "time"

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewParcel is the body of POST /api/v1/parcels.
type NewParcel struct {
	ReceiverName       string `json:"receiverName"`
	OriginAddress      string `json:"originAddress"`
	DestinationAddress string `json:"destinationAddress"`
	DaysToDeliver      int    `json:"daysToDeliver"`
}

// ParcelCreated is returned after a parcel was registered.
type ParcelCreated struct {
	TrackingCode string `json:"trackingCode"`
}

// Location is a WGS84 coordinate.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Tracking is the body of GET /api/v1/parcels/{trackingCode}.
type Tracking struct {
	TrackingCode      string          `json:"trackingCode"`
	ReceiverName      string          `json:"receiverName"`
	Status            string          `json:"status"`
	ProgressIndex     int             `json:"progressIndex"`
	WaypointCount     int             `json:"waypointCount"`
	ProgressPercent   float64         `json:"progressPercent"`
	Position          *Location       `json:"position,omitempty"`
	LocationLabel     string          `json:"locationLabel"`
	CreatedAt         time.Time       `json:"createdAt"`
	LastUpdated       time.Time       `json:"lastUpdated"`
	EstimatedDelivery time.Time       `json:"estimatedDelivery"`
	Events            []TrackingEvent `json:"events"`
}

// TrackingEvent is one history entry.
type TrackingEvent struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Type          string    `json:"type"`
	Description   string    `json:"description"`
	LocationLabel string    `json:"locationLabel"`
	Location      *Location `json:"location,omitempty"`
}

// ReconcileResult is the body returned by POST /api/v1/reconcile.
type ReconcileResult struct {
	UpdatedCount    int `json:"updatedCount"`
	TotalCandidates int `json:"totalCandidates"`
}
