package services

import (
	"context"
	"fmt"

	"travel-backoffice/internal/config"
	"travel-backoffice/internal/models"
	"travel-backoffice/pkg/common"
)

// SepehrService talks to the Sepehr reservation API.
type SepehrService struct {
	BaseUrl string
	ApiKey  string
}

func NewSepehrService(cfg *config.Config) *SepehrService {
	return &SepehrService{
		BaseUrl: cfg.SepehrBaseUrl,
		ApiKey:  cfg.SepehrApiKey,
	}
}

func (s *SepehrService) headers() map[string]string {
	return map[string]string{"X-Api-Key": s.ApiKey}
}

type sepehrPassenger struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	DocumentNo string `json:"document_no"`
}

func (s *SepehrService) BookFlight(ctx context.Context, flight models.Flight, passengers []models.Passenger, contact ContactInfo) (ProviderBooking, error) {
	pax := make([]sepehrPassenger, 0, len(passengers))
	for _, p := range passengers {
		pax = append(pax, sepehrPassenger{FirstName: p.FirstName, LastName: p.LastName, DocumentNo: p.DocumentNo})
	}

	payload := map[string]interface{}{
		"flight_number": flight.FlightNo,
		"departure_at":  flight.DepartureAt,
		"passengers":    pax,
		"contact_email": contact.Email,
		"contact_phone": contact.Phone,
	}

	var resp struct {
		Success   bool   `json:"success"`
		BookingId string `json:"booking_id"`
		Pnr       string `json:"pnr"`
		Message   string `json:"message"`
	}
	url := fmt.Sprintf("%s/api/v2/reservations", s.BaseUrl)
	if err := common.PostJSON(ctx, url, payload, s.headers(), &resp); err != nil {
		return ProviderBooking{}, err
	}
	if !resp.Success {
		return ProviderBooking{}, fmt.Errorf("sepehr rejected booking: %s", resp.Message)
	}
	return ProviderBooking{ExternalBookingId: resp.BookingId, Pnr: resp.Pnr}, nil
}

func (s *SepehrService) CancelBooking(ctx context.Context, externalBookingId string) error {
	url := fmt.Sprintf("%s/api/v2/reservations/%s/cancel", s.BaseUrl, externalBookingId)
	return common.PostJSON(ctx, url, nil, s.headers(), nil)
}
