package enums

import "fmt"

// UrgencyLevel buckets how soon a subscription needs user attention.
type UrgencyLevel string

const (
	UrgencyCritical UrgencyLevel = "critical"
	UrgencyHigh     UrgencyLevel = "high"
	UrgencyMedium   UrgencyLevel = "medium"
)

var validUrgencyLevels = []UrgencyLevel{
	UrgencyCritical,
	UrgencyHigh,
	UrgencyMedium,
}

// String implements fmt.Stringer.
func (u UrgencyLevel) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UrgencyLevel.
func (u UrgencyLevel) IsValid() bool {
	for _, candidate := range validUrgencyLevels {
		if candidate == u {
			return true
		}
	}
	return false
}

// Rank orders urgency levels for sorting; lower sorts first.
func (u UrgencyLevel) Rank() int {
	switch u {
	case UrgencyCritical:
		return 0
	case UrgencyHigh:
		return 1
	case UrgencyMedium:
		return 2
	}
	return 3
}

// ParseUrgencyLevel converts raw input into an UrgencyLevel.
func ParseUrgencyLevel(value string) (UrgencyLevel, error) {
	for _, candidate := range validUrgencyLevels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid urgency level %q", value)
}
