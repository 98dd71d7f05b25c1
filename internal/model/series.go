package model

// YearPricePoint is the aggregated market price for one registration year
type YearPricePoint struct {
	Year     int     `json:"year"`
	Offset   int     `json:"offset"`
	Price    float64 `json:"price"`
	StdDev   float64 `json:"std_dev"`
	Present  bool    `json:"present"`
	Listings int     `json:"listings"`
}

// YearSeries is ordered newest first: index 0 is the anchor year
type YearSeries struct {
	AnchorYear int              `json:"anchor_year"`
	Points     []YearPricePoint `json:"points"`
}

// Len returns the number of requested offsets, present or not
func (s YearSeries) Len() int {
	return len(s.Points)
}

// PresentValues returns the prices of present years only, preserving order.
// Absent years are excluded from index arithmetic rather than backfilled.
func (s YearSeries) PresentValues() []float64 {
	values := make([]float64, 0, len(s.Points))
	for _, p := range s.Points {
		if p.Present {
			values = append(values, p.Price)
		}
	}
	return values
}

// PresentStdDevs returns the dispersion of present years, aligned with PresentValues
func (s YearSeries) PresentStdDevs() []float64 {
	values := make([]float64, 0, len(s.Points))
	for _, p := range s.Points {
		if p.Present {
			values = append(values, p.StdDev)
		}
	}
	return values
}

// Prices returns one price per offset with absent years reported as 0
func (s YearSeries) Prices() []float64 {
	values := make([]float64, len(s.Points))
	for i, p := range s.Points {
		if p.Present {
			values[i] = p.Price
		}
	}
	return values
}

// MissingYears lists the registration years with no observations
func (s YearSeries) MissingYears() []int {
	var years []int
	for _, p := range s.Points {
		if !p.Present {
			years = append(years, p.Year)
		}
	}
	return years
}
