package models

// ComparableRecord is one normalized comparable listing or sale. Raw
// provider payloads use incompatible field names; the normalize package
// maps them all into this shape. Optional fields are nil when every
// candidate source on the raw record was missing or unusable.
type ComparableRecord struct {
	Address       string   `json:"address"`
	Price         *float64 `json:"price"`
	DaysOnMarket  *int     `json:"days_on_market"`
	SquareFootage *int     `json:"square_footage"`
	YearBuilt     *int     `json:"year_built"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`

	// DistanceMiles is annotated by the aggregator when both the subject
	// and the comp have coordinates. Presentation only.
	DistanceMiles *float64 `json:"distance_miles,omitempty"`
}

// HasPrice reports whether the record carries a usable price.
func (c *ComparableRecord) HasPrice() bool {
	return c != nil && c.Price != nil
}

// GatherStep records one provider call made while gathering comps:
// which category was queried, at what radius, and how many raw records
// came back. The sequence is included in the report so users can see
// how far the search had to expand.
type GatherStep struct {
	Category    string  `json:"category"`
	RadiusMiles float64 `json:"radius_miles"`
	Count       int     `json:"count"`
}
