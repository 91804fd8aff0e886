package enums

import "fmt"

// ExpirationType names which boundary produced an expiration alert.
type ExpirationType string

const (
	ExpirationTypeTrial   ExpirationType = "trial"
	ExpirationTypeRenewal ExpirationType = "renewal"
)

var validExpirationTypes = []ExpirationType{
	ExpirationTypeTrial,
	ExpirationTypeRenewal,
}

// String implements fmt.Stringer.
func (e ExpirationType) String() string {
	return string(e)
}

// IsValid reports whether the value is a known ExpirationType.
func (e ExpirationType) IsValid() bool {
	for _, candidate := range validExpirationTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseExpirationType converts raw input into an ExpirationType.
func ParseExpirationType(value string) (ExpirationType, error) {
	for _, candidate := range validExpirationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid expiration type %q", value)
}
