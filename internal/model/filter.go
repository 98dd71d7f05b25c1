package model

import "strings"

// Transmission is a gearbox type as encoded by the listing site
type Transmission string

const (
	TransmissionManual        Transmission = "M"
	TransmissionAutomatic     Transmission = "A"
	TransmissionSemiAutomatic Transmission = "S"
)

// ParseTransmission accepts either the site code (M, A, S) or the long name
func ParseTransmission(value string) (Transmission, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "m", "manual":
		return TransmissionManual, true
	case "a", "automatic":
		return TransmissionAutomatic, true
	case "s", "semi-automatic", "semiautomatic", "semi_automatic":
		return TransmissionSemiAutomatic, true
	default:
		return "", false
	}
}

// ParseTransmissions converts request values, dropping unknown entries and duplicates
func ParseTransmissions(values []string) []Transmission {
	var out []Transmission
	seen := make(map[Transmission]bool)
	for _, v := range values {
		t, ok := ParseTransmission(v)
		if !ok || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// QueryFilter identifies one market-price query on the listing site
type QueryFilter struct {
	Brand            string
	Model            string
	Details          string
	ZipCode          string
	RegistrationYear int
	Transmissions    []Transmission
}

// ForYear returns a copy of the filter pinned to the given registration year
func (f QueryFilter) ForYear(year int) QueryFilter {
	out := f
	out.RegistrationYear = year
	if f.Transmissions != nil {
		out.Transmissions = append([]Transmission(nil), f.Transmissions...)
	}
	return out
}
