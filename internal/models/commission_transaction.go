package models

import (
	"time"
)

type CommissionStatus string

const (
	CommissionPending   CommissionStatus = "PENDING"
	CommissionPaid      CommissionStatus = "PAID"
	CommissionCancelled CommissionStatus = "CANCELLED"
)

// CommissionTransaction records the commission split of one booking.
// Created once per booking; only the status changes afterwards.
type CommissionTransaction struct {
	ID           int              `gorm:"primaryKey;autoIncrement" json:"id"`
	TenantId     int              `gorm:"column:tenant_id;not null;index:idx_commission_tenant" json:"tenant_id"`
	BookingId    int              `gorm:"column:booking_id;not null;uniqueIndex:idx_commission_booking" json:"booking_id"`
	TotalAmount  float64          `gorm:"column:total_amount;type:decimal(20,2);not null" json:"total_amount"`
	AgentAmount  float64          `gorm:"column:agent_amount;type:decimal(20,2);not null" json:"agent_amount"`
	ParentAmount float64          `gorm:"column:parent_amount;type:decimal(20,2);not null" json:"parent_amount"`
	Status       CommissionStatus `gorm:"column:status;size:50;not null;default:PENDING" json:"status"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (CommissionTransaction) TableName() string {
	return "commission_transactions"
}
