package partner

import (
	"regexp"
	"strings"

	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
)

var pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)

// Address is a postal address value object
type Address struct {
	Line1   string `json:"line1"`
	Line2   string `json:"line2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// IsZero reports whether no field is set
func (a Address) IsZero() bool {
	return a == Address{}
}

// Validate checks the pincode shape when one is given
func (a Address) Validate() error {
	if a.Pincode != "" && !ValidPincode(a.Pincode) {
		return shared.NewValidationError("invalid pincode %q", a.Pincode)
	}
	return nil
}

// String renders the address on one line
func (a Address) String() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.Line1, a.Line2, a.City, a.State, a.Pincode} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// ValidPincode reports whether s is a six digit Indian postal code
func ValidPincode(s string) bool {
	return pincodePattern.MatchString(s)
}
