// Package billing centralizes the booking-to-billing arithmetic that the
// admin forms share: nights times rate, percentage discount, then VAT.
package billing

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const dateLayout = "2006-01-02"

var (
	// ErrInvalidStay indicates check-out is not after check-in.
	ErrInvalidStay = errors.New("check-out must be after check-in")

	// ErrDiscountRange indicates a discount outside 0-100 percent.
	ErrDiscountRange = errors.New("discount must be between 0 and 100")

	// ErrVATRange indicates a VAT rate outside 0-20 percent.
	ErrVATRange = errors.New("VAT must be between 0 and 20")
)

// Quote is a priced stay.
type Quote struct {
	Nights      int
	NightlyRate float64
	Subtotal    float64
	DiscountPct float64
	VATPct      float64
	Total       float64
}

// Nights returns the number of nights between two YYYY-MM-DD dates.
func Nights(checkIn, checkOut string) (int, error) {
	in, err := time.Parse(dateLayout, checkIn)
	if err != nil {
		return 0, fmt.Errorf("invalid check-in date: %w", err)
	}
	out, err := time.Parse(dateLayout, checkOut)
	if err != nil {
		return 0, fmt.Errorf("invalid check-out date: %w", err)
	}
	nights := int(out.Sub(in).Hours() / 24)
	if nights <= 0 {
		return 0, ErrInvalidStay
	}
	return nights, nil
}

// NewQuote prices a stay. Discount and VAT are percentages, validated to
// the same bounds the backend enforces.
func NewQuote(checkIn, checkOut string, nightlyRate, discountPct, vatPct float64) (Quote, error) {
	if discountPct < 0 || discountPct > 100 {
		return Quote{}, ErrDiscountRange
	}
	if vatPct < 0 || vatPct > 20 {
		return Quote{}, ErrVATRange
	}

	nights, err := Nights(checkIn, checkOut)
	if err != nil {
		return Quote{}, err
	}

	subtotal := float64(nights) * nightlyRate
	discounted := subtotal * (1 - discountPct/100)
	total := discounted * (1 + vatPct/100)

	return Quote{
		Nights:      nights,
		NightlyRate: nightlyRate,
		Subtotal:    round2(subtotal),
		DiscountPct: discountPct,
		VATPct:      vatPct,
		Total:       round2(total),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
