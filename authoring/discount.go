package authoring

import (
	"strings"
	"time"
)

const (
	MinDiscountPercentage = 1
	MaxDiscountPercentage = 99
)

// DiscountInput is a discount as submitted by a creator.
type DiscountInput struct {
	Code       string
	Percentage int
	StartDate  time.Time
	EndDate    time.Time
	IsActive   bool
}

// NormalizeDiscount trims and upper-cases the code and checks the window. Overlapping
// windows on one version are allowed.
func NormalizeDiscount(in DiscountInput) (DiscountInput, []ValidationError) {
	errs := []ValidationError{}

	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	if in.Code == "" {
		errs = append(errs, ValidationError{Field: "code", Message: "Code is required!"})
	}
	if in.Percentage < MinDiscountPercentage || in.Percentage > MaxDiscountPercentage {
		errs = append(errs, ValidationError{Field: "percentage", Message: "Percentage must be between 1 and 99!"})
	}
	if !in.EndDate.After(in.StartDate) {
		errs = append(errs, ValidationError{Field: "endDate", Message: "End date must be after start date!"})
	}
	return in, errs
}

// DiscountApplies reports whether a discount can be redeemed at t.
func DiscountApplies(active bool, start, end, t time.Time) bool {
	return active && !t.Before(start) && t.Before(end)
}

// DiscountedPrice applies percentage to price, rounded to cents.
func DiscountedPrice(price float64, percentage int) float64 {
	discounted := price * float64(100-percentage) / 100
	return float64(int64(discounted*100+0.5)) / 100
}
