package services

import (
	"errors"
	"math"

	"gorm.io/gorm"

	"travel-backoffice/internal/models"
)

// CommissionService resolves per-tenant pricing and splits each booking's
// price into agent and parent commission.
type CommissionService struct {
	DB *gorm.DB
}

func NewCommissionService(db *gorm.DB) *CommissionService {
	return &CommissionService{DB: db}
}

type CommissionBreakdown struct {
	PricingType      models.PricingType `json:"pricing_type"`
	FinalPrice       float64            `json:"final_price"`
	AgentCommission  float64            `json:"agent_commission"`
	ParentCommission float64            `json:"parent_commission"`
	NetAmount        float64            `json:"net_amount"`
}

// ResolvePricingType decides whether a quoted base price already includes
// commission. A NET tenant is always NET; a GROSS tenant follows the
// supplier, since suppliers differ on whether their fares are
// commission-inclusive.
func ResolvePricingType(tenantPricing models.PricingType, source models.BookingSource) models.PricingType {
	if tenantPricing == models.PricingNet {
		return models.PricingNet
	}
	switch source {
	case models.SourceCharter118:
		return models.PricingNet
	default:
		// sepehr, manual and crs quote commission-inclusive fares
		return models.PricingGross
	}
}

func commissionShare(kind models.CommissionType, rate, flat, basePrice float64) float64 {
	if kind == models.CommissionFixed {
		return math.Round(flat)
	}
	return math.Round(basePrice * rate / 100)
}

// CalculateFinalPrice computes the commission split for one base price.
// Under NET the commissions are added on top of the base; under GROSS the
// base already contains them and the net is what remains after both cuts.
// All outputs are whole currency units.
func CalculateFinalPrice(tenant models.Tenant, basePrice float64, source models.BookingSource) CommissionBreakdown {
	pricing := ResolvePricingType(tenant.PricingType, source)

	agent := commissionShare(tenant.CommissionType, tenant.CommissionRate, tenant.CommissionAmount, basePrice)
	parent := commissionShare(tenant.ParentCommissionType, tenant.ParentCommissionRate, tenant.ParentCommissionAmount, basePrice)

	if pricing == models.PricingNet {
		return CommissionBreakdown{
			PricingType:      pricing,
			FinalPrice:       math.Round(basePrice) + agent + parent,
			AgentCommission:  agent,
			ParentCommission: parent,
			NetAmount:        math.Round(basePrice),
		}
	}
	return CommissionBreakdown{
		PricingType:      pricing,
		FinalPrice:       math.Round(basePrice),
		AgentCommission:  agent,
		ParentCommission: parent,
		NetAmount:        math.Round(basePrice) - agent - parent,
	}
}

// CalculateFinalPriceForTenant is the DB-backed wrapper used by the
// booking flow.
func (s *CommissionService) CalculateFinalPriceForTenant(tenantId int, basePrice float64, source models.BookingSource) (CommissionBreakdown, error) {
	var tenant models.Tenant
	if err := s.DB.First(&tenant, tenantId).Error; err != nil {
		return CommissionBreakdown{}, err
	}
	return CalculateFinalPrice(tenant, basePrice, source), nil
}

// CalculateCommissionForBooking records the split as one PENDING
// CommissionTransaction. Exactly one exists per booking.
func (s *CommissionService) CalculateCommissionForBooking(tenantId, bookingId int, basePrice float64, source models.BookingSource) (models.CommissionTransaction, error) {
	breakdown, err := s.CalculateFinalPriceForTenant(tenantId, basePrice, source)
	if err != nil {
		return models.CommissionTransaction{}, err
	}

	ct := models.CommissionTransaction{
		TenantId:     tenantId,
		BookingId:    bookingId,
		TotalAmount:  breakdown.FinalPrice,
		AgentAmount:  breakdown.AgentCommission,
		ParentAmount: breakdown.ParentCommission,
		Status:       models.CommissionPending,
	}
	if err := s.DB.Create(&ct).Error; err != nil {
		return models.CommissionTransaction{}, err
	}
	return ct, nil
}

// SettleCommission marks the booking's commission PAID. Guarded on the
// current status so a replayed settle task is a no-op.
func (s *CommissionService) SettleCommission(bookingId int) error {
	return s.setCommissionStatus(bookingId, models.CommissionPaid)
}

// ReverseCommission cancels the booking's commission after a reject/cancel.
func (s *CommissionService) ReverseCommission(bookingId int) error {
	return s.setCommissionStatus(bookingId, models.CommissionCancelled)
}

func (s *CommissionService) setCommissionStatus(bookingId int, status models.CommissionStatus) error {
	result := s.DB.Model(&models.CommissionTransaction{}).
		Where("booking_id = ? AND status = ?", bookingId, models.CommissionPending).
		UpdateColumn("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var ct models.CommissionTransaction
		err := s.DB.Where("booking_id = ?", bookingId).First(&ct).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &BookingNotFoundError{BookingId: bookingId}
		}
		if err != nil {
			return err
		}
		// already settled or reversed; replayed tasks land here
	}
	return nil
}
