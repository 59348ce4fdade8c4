package models

import (
	"time"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingSuspended BookingStatus = "SUSPENDED"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingRejected  BookingStatus = "REJECTED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingCompleted BookingStatus = "COMPLETED"
)

// IsTerminal reports whether no further transition is permitted.
func (s BookingStatus) IsTerminal() bool {
	return s != BookingPending && s != BookingSuspended
}

type BookingSource string

const (
	SourceManual     BookingSource = "manual"
	SourceSepehr     BookingSource = "sepehr"
	SourceCharter118 BookingSource = "charter118"
	SourceCRS        BookingSource = "crs"
)

type Booking struct {
	ID                  int           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserId              int           `gorm:"column:user_id;not null;index:idx_booking_user" json:"user_id"`
	TenantId            int           `gorm:"column:tenant_id;not null" json:"tenant_id"`
	FlightId            int           `gorm:"column:flight_id;not null" json:"flight_id"`
	TotalPrice          float64       `gorm:"column:total_price;type:decimal(20,2);not null" json:"total_price"`
	Status              BookingStatus `gorm:"column:status;size:50;not null;default:PENDING" json:"status"`
	Source              BookingSource `gorm:"column:source;size:50;not null;default:manual" json:"source"`
	WalletTransactionId int           `gorm:"column:wallet_transaction_id;not null" json:"wallet_transaction_id"`
	ConfirmationCode    string        `gorm:"column:confirmation_code;size:50;not null;uniqueIndex" json:"confirmation_code"`
	ExternalBookingId   string        `gorm:"column:external_booking_id;size:255" json:"external_booking_id"`
	Pnr                 string        `gorm:"column:pnr;size:50" json:"pnr"`
	StatusReason        string        `gorm:"column:status_reason;type:text" json:"status_reason"`
	CreatedAt           time.Time     `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time     `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Booking) TableName() string {
	return "bookings"
}

// SupplierConfirmed reports whether the external provider acknowledged the
// booking. Always false for manual flights until an admin confirms.
func (b Booking) SupplierConfirmed() bool {
	return b.Pnr != ""
}

type Passenger struct {
	ID         int       `gorm:"primaryKey;autoIncrement" json:"id"`
	BookingId  int       `gorm:"column:booking_id;not null;index:idx_passenger_booking" json:"booking_id"`
	FirstName  string    `gorm:"column:first_name;size:255;not null" json:"first_name"`
	LastName   string    `gorm:"column:last_name;size:255;not null" json:"last_name"`
	DocumentNo string    `gorm:"column:document_no;size:50;not null" json:"document_no"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Passenger) TableName() string {
	return "passengers"
}

type Ticket struct {
	ID          int       `gorm:"primaryKey;autoIncrement" json:"id"`
	BookingId   int       `gorm:"column:booking_id;not null;index:idx_ticket_booking" json:"booking_id"`
	PassengerId int       `gorm:"column:passenger_id;not null" json:"passenger_id"`
	TicketNo    string    `gorm:"column:ticket_no;size:50;not null;uniqueIndex" json:"ticket_no"`
	SeatNo      string    `gorm:"column:seat_no;size:10;not null" json:"seat_no"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Ticket) TableName() string {
	return "tickets"
}
