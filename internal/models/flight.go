package models

import (
	"time"
)

type FlightStatus string

const (
	FlightBookable  FlightStatus = "BOOKABLE"
	FlightClosed    FlightStatus = "CLOSED"
	FlightCancelled FlightStatus = "CANCELLED"
)

type Flight struct {
	ID           int           `gorm:"primaryKey;autoIncrement" json:"id"`
	Airline      string        `gorm:"column:airline;size:255;not null" json:"airline"`
	FlightNo     string        `gorm:"column:flight_no;size:20;not null" json:"flight_no"`
	Origin       string        `gorm:"column:origin;size:10;not null" json:"origin"`
	Destination  string        `gorm:"column:destination;size:10;not null" json:"destination"`
	DepartureAt  time.Time     `gorm:"column:departure_at;not null" json:"departure_at"`
	Fare         float64       `gorm:"column:fare;type:decimal(20,2);not null" json:"fare"`
	Taxes        float64       `gorm:"column:taxes;type:decimal(20,2);default:0.00" json:"taxes"`
	Fees         float64       `gorm:"column:fees;type:decimal(20,2);default:0.00" json:"fees"`
	SupplierCost float64       `gorm:"column:supplier_cost;type:decimal(20,2);default:0.00" json:"supplier_cost"`
	Capacity     int           `gorm:"column:capacity;not null" json:"capacity"`
	BookedSeats  int           `gorm:"column:booked_seats;default:0" json:"booked_seats"`
	Status       FlightStatus  `gorm:"column:status;size:50;not null;default:BOOKABLE" json:"status"`
	Source       BookingSource `gorm:"column:source;size:50;not null;default:manual" json:"source"`
	CreatedAt    time.Time     `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Flight) TableName() string {
	return "flights"
}

// PerSeatPrice is the quoted fare for one passenger, taxes and fees included.
func (f Flight) PerSeatPrice() float64 {
	return f.Fare + f.Taxes + f.Fees
}
