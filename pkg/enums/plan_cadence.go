package enums

import (
	"fmt"
	"time"
)

// PlanCadence is the recurring delivery frequency of a subscription plan.
type PlanCadence string

const (
	PlanCadenceWeekly   PlanCadence = "weekly"
	PlanCadenceBiWeekly PlanCadence = "bi-weekly"
	PlanCadenceMonthly  PlanCadence = "monthly"
)

var validPlanCadences = []PlanCadence{
	PlanCadenceWeekly,
	PlanCadenceBiWeekly,
	PlanCadenceMonthly,
}

// String implements fmt.Stringer.
func (p PlanCadence) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PlanCadence.
func (p PlanCadence) IsValid() bool {
	for _, candidate := range validPlanCadences {
		if candidate == p {
			return true
		}
	}
	return false
}

// NextDelivery advances from the given delivery date by one cadence period.
func (p PlanCadence) NextDelivery(from time.Time) time.Time {
	switch p {
	case PlanCadenceWeekly:
		return from.AddDate(0, 0, 7)
	case PlanCadenceBiWeekly:
		return from.AddDate(0, 0, 14)
	case PlanCadenceMonthly:
		return from.AddDate(0, 1, 0)
	default:
		return from
	}
}

// ParsePlanCadence converts raw input into a PlanCadence.
func ParsePlanCadence(value string) (PlanCadence, error) {
	for _, candidate := range validPlanCadences {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid plan cadence %q", value)
}
