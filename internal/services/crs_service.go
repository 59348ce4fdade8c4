package services

import (
	"context"
	"fmt"

	"travel-backoffice/internal/config"
	"travel-backoffice/internal/models"
	"travel-backoffice/pkg/common"
)

// CrsService talks to the central reservation system bridge.
type CrsService struct {
	BaseUrl string
	ApiKey  string
}

func NewCrsService(cfg *config.Config) *CrsService {
	return &CrsService{
		BaseUrl: cfg.CrsBaseUrl,
		ApiKey:  cfg.CrsApiKey,
	}
}

func (s *CrsService) BookFlight(ctx context.Context, flight models.Flight, passengers []models.Passenger, contact ContactInfo) (ProviderBooking, error) {
	type traveller struct {
		GivenName  string `json:"givenName"`
		FamilyName string `json:"familyName"`
		Document   string `json:"document"`
	}
	travellers := make([]traveller, 0, len(passengers))
	for _, p := range passengers {
		travellers = append(travellers, traveller{GivenName: p.FirstName, FamilyName: p.LastName, Document: p.DocumentNo})
	}

	payload := map[string]interface{}{
		"flightNumber": flight.FlightNo,
		"departure":    flight.DepartureAt,
		"travellers":   travellers,
		"contact":      map[string]string{"email": contact.Email, "phone": contact.Phone},
	}

	var resp struct {
		RecordLocator string `json:"recordLocator"`
		BookingRef    string `json:"bookingRef"`
	}
	url := fmt.Sprintf("%s/v1/pnr", s.BaseUrl)
	headers := map[string]string{"Authorization": "Bearer " + s.ApiKey}
	if err := common.PostJSON(ctx, url, payload, headers, &resp); err != nil {
		return ProviderBooking{}, err
	}
	if resp.RecordLocator == "" {
		return ProviderBooking{}, fmt.Errorf("crs returned no record locator")
	}
	return ProviderBooking{ExternalBookingId: resp.BookingRef, Pnr: resp.RecordLocator}, nil
}

func (s *CrsService) CancelBooking(ctx context.Context, externalBookingId string) error {
	url := fmt.Sprintf("%s/v1/pnr/%s/cancel", s.BaseUrl, externalBookingId)
	headers := map[string]string{"Authorization": "Bearer " + s.ApiKey}
	return common.PostJSON(ctx, url, nil, headers, nil)
}
