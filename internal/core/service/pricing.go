package service

import (
	"time"

	"github.com/stashspace/booking-system/internal/core/domain"
)

// Quote is the priced outcome for a booking window. Price is the exact
// rate*hours product kept for audit; AmountCents is the amount actually
// sent to the gateway, truncated to the minor unit.
type Quote struct {
	Hours       float64
	Price       float64
	AmountCents int64
}

// PriceWindow computes the charge for renting at rateHour over [from, to).
// The window must have strictly positive duration and the rate must be
// positive; otherwise ErrInvalidWindow is returned and nothing is charged.
//
// Truncation (not rounding) to cents is deliberate: it preserves the
// billing behaviour the marketplace has always had. Sub-cent remainders
// survive in Price.
func PriceWindow(rateHour float64, from, to time.Time) (Quote, error) {
	hours := to.Sub(from).Hours()
	if hours <= 0 || rateHour <= 0 {
		return Quote{}, domain.ErrInvalidWindow
	}

	price := rateHour * hours
	return Quote{
		Hours:       hours,
		Price:       price,
		AmountCents: int64(price * 100),
	}, nil
}
