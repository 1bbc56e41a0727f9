package address

import (
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
)

// Record is a canonical address produced by Normalize. All string fields are
// optional and empty when the source payload did not carry them; Coordinate is
// nil when the source had no usable lat/lng pair.
//
// Record is a value object: it is created fresh on each normalization and
// never mutated afterwards.
type Record struct {
	RecipientName string
	PhoneNumber   string
	Line1         string
	Line2         string
	City          string
	State         string
	Pincode       string

	coordinate *kernel.Coordinate
}

// Coordinate returns the validated coordinate and whether one is present.
func (r Record) Coordinate() (kernel.Coordinate, bool) {
	if r.coordinate == nil {
		return kernel.Coordinate{}, false
	}
	return *r.coordinate, true
}

// HasCoordinate reports whether the record carries a usable coordinate.
func (r Record) HasCoordinate() bool {
	return r.coordinate != nil
}

// IsEmpty reports whether the record carries no information at all.
// Normalize returns an empty record, never an error, for totally
// unrecognizable input.
func (r Record) IsEmpty() bool {
	return r.RecipientName == "" && r.PhoneNumber == "" &&
		r.Line1 == "" && r.Line2 == "" &&
		r.City == "" && r.State == "" && r.Pincode == "" &&
		r.coordinate == nil
}

// OneLine renders the postal fields as a single display line, skipping blanks.
func (r Record) OneLine() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{r.Line1, r.Line2, r.City, r.State, r.Pincode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
