package services

import (
	"context"
	"fmt"

	"travel-backoffice/internal/config"
	"travel-backoffice/internal/models"
	"travel-backoffice/pkg/common"
)

// Charter118Service talks to the Charter118 charter-seat API. Their fares
// are net; commission is added on top at pricing time.
type Charter118Service struct {
	BaseUrl string
	ApiKey  string
}

func NewCharter118Service(cfg *config.Config) *Charter118Service {
	return &Charter118Service{
		BaseUrl: cfg.Charter118BaseUrl,
		ApiKey:  cfg.Charter118ApiKey,
	}
}

func (s *Charter118Service) BookFlight(ctx context.Context, flight models.Flight, passengers []models.Passenger, contact ContactInfo) (ProviderBooking, error) {
	type pax struct {
		Name     string `json:"name"`
		Surname  string `json:"surname"`
		Passport string `json:"passport"`
	}
	list := make([]pax, 0, len(passengers))
	for _, p := range passengers {
		list = append(list, pax{Name: p.FirstName, Surname: p.LastName, Passport: p.DocumentNo})
	}

	payload := map[string]interface{}{
		"flight":  flight.FlightNo,
		"date":    flight.DepartureAt.Format("2006-01-02"),
		"pax":     list,
		"email":   contact.Email,
		"mobile":  contact.Phone,
		"api_key": s.ApiKey,
	}

	var resp struct {
		Status    string `json:"status"`
		RefNumber string `json:"ref_number"`
		Pnr       string `json:"pnr"`
		Error     string `json:"error"`
	}
	if err := common.PostJSON(ctx, s.BaseUrl+"/booking/create", payload, nil, &resp); err != nil {
		return ProviderBooking{}, err
	}
	if resp.Status != "ok" {
		return ProviderBooking{}, fmt.Errorf("charter118 rejected booking: %s", resp.Error)
	}
	return ProviderBooking{ExternalBookingId: resp.RefNumber, Pnr: resp.Pnr}, nil
}

func (s *Charter118Service) CancelBooking(ctx context.Context, externalBookingId string) error {
	payload := map[string]string{"ref_number": externalBookingId, "api_key": s.ApiKey}
	return common.PostJSON(ctx, s.BaseUrl+"/booking/cancel", payload, nil, nil)
}
