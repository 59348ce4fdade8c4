package services

import (
	"errors"

	"gorm.io/gorm"

	"travel-backoffice/internal/models"
)

// FlightService is the flight catalog collaborator: lookups and seat
// inventory for the locally-serviced flights.
type FlightService struct {
	DB *gorm.DB
}

func NewFlightService(db *gorm.DB) *FlightService {
	return &FlightService{DB: db}
}

func (s *FlightService) GetFlight(id int) (models.Flight, error) {
	var flight models.Flight
	if err := s.DB.First(&flight, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return flight, &FlightUnavailableError{FlightId: id, Reason: "no such flight"}
		}
		return flight, err
	}
	return flight, nil
}

// EnsureBookable verifies the flight can carry the requested seats.
func (s *FlightService) EnsureBookable(flight models.Flight, seats int) error {
	if flight.Status != models.FlightBookable {
		return &FlightUnavailableError{FlightId: flight.ID, Reason: "flight is " + string(flight.Status)}
	}
	if flight.Capacity-flight.BookedSeats < seats {
		return &FlightUnavailableError{FlightId: flight.ID, Reason: "not enough seats"}
	}
	return nil
}

// ReserveSeats increments the booked-seat count, refusing to oversell.
func (s *FlightService) ReserveSeats(tx *gorm.DB, flightId, seats int) error {
	result := tx.Model(&models.Flight{}).
		Where("id = ? AND status = ? AND capacity - booked_seats >= ?", flightId, models.FlightBookable, seats).
		UpdateColumn("booked_seats", gorm.Expr("booked_seats + ?", seats))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &FlightUnavailableError{FlightId: flightId, Reason: "not enough seats"}
	}
	return nil
}

// ReleaseSeats gives seats back after a reject or cancel.
func (s *FlightService) ReleaseSeats(tx *gorm.DB, flightId, seats int) error {
	return tx.Model(&models.Flight{}).
		Where("id = ? AND booked_seats >= ?", flightId, seats).
		UpdateColumn("booked_seats", gorm.Expr("booked_seats - ?", seats)).Error
}
