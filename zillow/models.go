package zillow

import "time"

// Value objects assembled from upstream response bodies. They carry no
// identity beyond their fields and do not outlive the call that produced them.

type PropertySummary struct {
	Zpid      string  `json:"zpid"`
	Address   string  `json:"address"`
	City      string  `json:"city,omitempty"`
	State     string  `json:"state,omitempty"`
	Zip       string  `json:"zip,omitempty"`
	Price     int     `json:"price"`
	Bedrooms  int     `json:"bedrooms"`
	Bathrooms float64 `json:"bathrooms"`
	HomeType  string  `json:"home_type,omitempty"`
	Sqft      int     `json:"sqft,omitempty"`
	YearBuilt int     `json:"year_built,omitempty"`
	URL       string  `json:"url,omitempty"`
}

type School struct {
	Name     string  `json:"name"`
	Level    string  `json:"level,omitempty"`
	Rating   float64 `json:"rating,omitempty"`
	Distance float64 `json:"distance,omitempty"`
}

type PropertyDetail struct {
	Zpid          string   `json:"zpid"`
	Address       string   `json:"address"`
	Price         int      `json:"price,omitempty"`
	Zestimate     int      `json:"zestimate,omitempty"`
	Bedrooms      int      `json:"bedrooms,omitempty"`
	Bathrooms     float64  `json:"bathrooms,omitempty"`
	Sqft          int      `json:"sqft,omitempty"`
	YearBuilt     int      `json:"year_built,omitempty"`
	LotSize       float64  `json:"lot_size,omitempty"` // acres
	HomeType      string   `json:"home_type,omitempty"`
	LastSoldDate  string   `json:"last_sold_date,omitempty"`
	LastSoldPrice int      `json:"last_sold_price,omitempty"`
	Features      []string `json:"features,omitempty"`
	Schools       []School `json:"schools,omitempty"`
	Neighborhood  string   `json:"neighborhood,omitempty"`
	WalkScore     int      `json:"walk_score,omitempty"`
	TransitScore  int      `json:"transit_score,omitempty"`
	URL           string   `json:"url,omitempty"`
}

type ValuationRange struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

type ZestimateResult struct {
	Zpid           string          `json:"zpid,omitempty"`
	Address        string          `json:"address,omitempty"`
	Amount         int             `json:"amount"`
	ValuationRange *ValuationRange `json:"valuation_range,omitempty"`
	LastUpdated    string          `json:"last_updated,omitempty"`
}

type TrendPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type MetricSeries struct {
	Current    float64      `json:"current"`
	Change1Yr  float64      `json:"change_1year"`
	Historical []TrendPoint `json:"historical,omitempty"`
}

type MarketTrend struct {
	Location   string                  `json:"location"`
	TimePeriod string                  `json:"time_period"`
	Metrics    map[string]MetricSeries `json:"metrics"`
}

// HealthStatus reports upstream reachability as a value, never a fault.
type HealthStatus struct {
	Reachable      bool          `json:"reachable"`
	Latency        time.Duration `json:"-"`
	UpstreamStatus string        `json:"upstream_status,omitempty"`
	Version        string        `json:"version,omitempty"`
}
