package services

import (
	"context"
	"fmt"
	"time"

	"travel-backoffice/internal/config"
	"travel-backoffice/internal/models"
)

// ProviderBooking is what a supplier hands back for a successful booking.
type ProviderBooking struct {
	ExternalBookingId string `json:"external_booking_id"`
	Pnr               string `json:"pnr"`
}

type ContactInfo struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ProviderClient is one supplier's booking API.
type ProviderClient interface {
	BookFlight(ctx context.Context, flight models.Flight, passengers []models.Passenger, contact ContactInfo) (ProviderBooking, error)
	CancelBooking(ctx context.Context, externalBookingId string) error
}

// ProviderGateway fans booking calls out to the supplier matching the
// booking source. Consumed best-effort: callers log failures and keep the
// booking, they never fail it on a supplier error.
type ProviderGateway struct {
	clients map[models.BookingSource]ProviderClient
	timeout time.Duration
}

func NewProviderGateway(cfg *config.Config) *ProviderGateway {
	timeout := time.Duration(cfg.ProviderTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ProviderGateway{
		clients: map[models.BookingSource]ProviderClient{
			models.SourceSepehr:     NewSepehrService(cfg),
			models.SourceCharter118: NewCharter118Service(cfg),
			models.SourceCRS:        NewCrsService(cfg),
		},
		timeout: timeout,
	}
}

// NewStubGateway wires an explicit client map; tests use it to stand in
// for the real suppliers.
func NewStubGateway(clients map[models.BookingSource]ProviderClient, timeout time.Duration) *ProviderGateway {
	return &ProviderGateway{clients: clients, timeout: timeout}
}

// BookFlight calls the supplier for source with a bounded deadline.
func (g *ProviderGateway) BookFlight(ctx context.Context, source models.BookingSource, flight models.Flight, passengers []models.Passenger, contact ContactInfo) (ProviderBooking, error) {
	client, ok := g.clients[source]
	if !ok {
		return ProviderBooking{}, fmt.Errorf("no provider registered for source %s", source)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return client.BookFlight(ctx, flight, passengers, contact)
}

// CancelBooking asks the supplier to release an externally-held booking.
func (g *ProviderGateway) CancelBooking(ctx context.Context, source models.BookingSource, externalBookingId string) error {
	client, ok := g.clients[source]
	if !ok || externalBookingId == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return client.CancelBooking(ctx, externalBookingId)
}
