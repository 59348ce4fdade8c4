package models

import (
	"time"
)

type CommissionType string

const (
	CommissionPercentage CommissionType = "PERCENTAGE"
	CommissionFixed      CommissionType = "FIXED"
)

type PricingType string

const (
	PricingGross PricingType = "GROSS"
	PricingNet   PricingType = "NET"
)

// Tenant is an agency in the multi-tenant tree. Rates are percentages
// (5 means 5%); Amount fields are flat sums used with CommissionFixed.
type Tenant struct {
	ID                     int            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name                   string         `gorm:"column:name;size:255;not null" json:"name"`
	CommissionRate         float64        `gorm:"column:commission_rate;type:decimal(10,4);default:0" json:"commission_rate"`
	CommissionAmount       float64        `gorm:"column:commission_amount;type:decimal(20,2);default:0.00" json:"commission_amount"`
	CommissionType         CommissionType `gorm:"column:commission_type;size:50;not null;default:PERCENTAGE" json:"commission_type"`
	ParentCommissionRate   float64        `gorm:"column:parent_commission_rate;type:decimal(10,4);default:0" json:"parent_commission_rate"`
	ParentCommissionAmount float64        `gorm:"column:parent_commission_amount;type:decimal(20,2);default:0.00" json:"parent_commission_amount"`
	ParentCommissionType   CommissionType `gorm:"column:parent_commission_type;size:50;not null;default:PERCENTAGE" json:"parent_commission_type"`
	PricingType            PricingType    `gorm:"column:pricing_type;size:50;not null;default:GROSS" json:"pricing_type"`
	ParentTenantId         *int           `gorm:"column:parent_tenant_id" json:"parent_tenant_id"`
	CreatedAt              time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Tenant) TableName() string {
	return "tenants"
}
