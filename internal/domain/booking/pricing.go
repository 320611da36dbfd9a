package booking

import (
	"github.com/rebil-rentals/service-booking/internal/pkg/domain"
)

// PriceBreakdown is the immutable financial summary of a booking. All
// amounts are in minor currency units.
type PriceBreakdown struct {
	DailyRate       int64 `json:"daily_rate"`
	TotalDays       int   `json:"total_days"`
	Subtotal        int64 `json:"subtotal"`
	InsuranceFee    int64 `json:"insurance_fee"`
	ServiceFee      int64 `json:"service_fee"`
	DeliveryFee     int64 `json:"delivery_fee"`
	TotalAmount     int64 `json:"total_amount"`
	SecurityDeposit int64 `json:"security_deposit"`
}

// Validate checks the arithmetic invariants of the breakdown. Violations
// are rejected at creation, never silently accepted.
func (p PriceBreakdown) Validate() error {
	if p.DailyRate <= 0 {
		return domain.NewValidationError("daily rate must be positive")
	}
	if p.TotalDays <= 0 {
		return domain.NewValidationError("total days must be positive")
	}
	if p.InsuranceFee < 0 || p.ServiceFee < 0 || p.DeliveryFee < 0 || p.SecurityDeposit < 0 {
		return domain.NewValidationError("fees and deposit cannot be negative")
	}
	if p.Subtotal != p.DailyRate*int64(p.TotalDays) {
		return domain.NewValidationError("subtotal must equal daily rate times total days")
	}
	if p.TotalAmount != p.Subtotal+p.InsuranceFee+p.ServiceFee+p.DeliveryFee {
		return domain.NewValidationError("total amount must equal subtotal plus fees")
	}
	return nil
}

// QuoteParams holds the inputs for building a price breakdown.
type QuoteParams struct {
	DailyRate       int64
	TotalDays       int
	WithInsurance   bool
	WithDelivery    bool
	SecurityDeposit int64
}

// QuoteStrategy builds a price breakdown for a rental quote.
type QuoteStrategy interface {
	Quote(params QuoteParams) (PriceBreakdown, error)
}

// QuoteConfig holds the externally configured fee rates.
type QuoteConfig struct {
	// InsuranceFeePerDay is added for each rental day when insurance is taken.
	InsuranceFeePerDay int64
	// ServiceFeePercent is the marketplace cut, as a percentage of the subtotal.
	ServiceFeePercent int64
	// DeliveryFeeFlat is the flat fee for vehicle delivery.
	DeliveryFeeFlat int64
}

// StandardQuoteStrategy prices rentals from the configured fee rates.
type StandardQuoteStrategy struct {
	config QuoteConfig
}

// NewStandardQuoteStrategy creates a StandardQuoteStrategy.
func NewStandardQuoteStrategy(config QuoteConfig) *StandardQuoteStrategy {
	return &StandardQuoteStrategy{config: config}
}

// Quote computes the full price breakdown for the given parameters.
func (s *StandardQuoteStrategy) Quote(params QuoteParams) (PriceBreakdown, error) {
	if params.DailyRate <= 0 {
		return PriceBreakdown{}, domain.NewValidationError("daily rate must be positive")
	}
	if params.TotalDays <= 0 {
		return PriceBreakdown{}, domain.NewValidationError("total days must be positive")
	}

	subtotal := params.DailyRate * int64(params.TotalDays)

	var insuranceFee int64
	if params.WithInsurance {
		insuranceFee = s.config.InsuranceFeePerDay * int64(params.TotalDays)
	}

	serviceFee := subtotal * s.config.ServiceFeePercent / 100

	var deliveryFee int64
	if params.WithDelivery {
		deliveryFee = s.config.DeliveryFeeFlat
	}

	return PriceBreakdown{
		DailyRate:       params.DailyRate,
		TotalDays:       params.TotalDays,
		Subtotal:        subtotal,
		InsuranceFee:    insuranceFee,
		ServiceFee:      serviceFee,
		DeliveryFee:     deliveryFee,
		TotalAmount:     subtotal + insuranceFee + serviceFee + deliveryFee,
		SecurityDeposit: params.SecurityDeposit,
	}, nil
}
