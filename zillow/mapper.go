package zillow

import (
	"encoding/json"
	"fmt"
)

// Upstream payloads are mapped defensively: each endpoint has an expected
// envelope key, and a missing envelope is a contract violation rather than a
// silent default. Field shapes vary across provider plans, so identifiers
// that may arrive as string or number are decoded through stringNumber.

// stringNumber accepts string or number JSON and stores the textual form.
type stringNumber string

func (s *stringNumber) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = stringNumber(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	*s = stringNumber(num.String())
	return nil
}

func errMissingEnvelope(key string) error {
	return fmt.Errorf("missing %q envelope", key)
}

type rawProperty struct {
	Zpid      stringNumber `json:"zpid"`
	Address   string       `json:"address"`
	City      string       `json:"city"`
	State     string       `json:"state"`
	Zip       string       `json:"zip"`
	Price     int          `json:"price"`
	Bedrooms  int          `json:"bedrooms"`
	Bathrooms float64      `json:"bathrooms"`
	HomeType  string       `json:"home_type"`
	Sqft      int          `json:"sqft"`
	YearBuilt int          `json:"year_built"`
	URL       string       `json:"url"`
}

func (p rawProperty) summary() PropertySummary {
	return PropertySummary{
		Zpid:      string(p.Zpid),
		Address:   p.Address,
		City:      p.City,
		State:     p.State,
		Zip:       p.Zip,
		Price:     p.Price,
		Bedrooms:  p.Bedrooms,
		Bathrooms: p.Bathrooms,
		HomeType:  p.HomeType,
		Sqft:      p.Sqft,
		YearBuilt: p.YearBuilt,
		URL:       p.URL,
	}
}

func mapSearchPayload(raw []byte) ([]PropertySummary, error) {
	var root struct {
		Properties *[]rawProperty `json:"properties"`
	}
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, err
	}
	if root.Properties == nil {
		return nil, errMissingEnvelope("properties")
	}
	out := make([]PropertySummary, 0, len(*root.Properties))
	for _, p := range *root.Properties {
		out = append(out, p.summary())
	}
	return out, nil
}

func mapDetailPayload(raw []byte) (*PropertyDetail, error) {
	var root struct {
		Property *struct {
			rawProperty
			Zestimate     int      `json:"zestimate"`
			LotSize       float64  `json:"lot_size"`
			LastSoldDate  string   `json:"last_sold_date"`
			LastSoldPrice int      `json:"last_sold_price"`
			Features      []string `json:"features"`
			Schools       []struct {
				Name     string  `json:"name"`
				Level    string  `json:"level"`
				Rating   float64 `json:"rating"`
				Distance float64 `json:"distance"`
			} `json:"schools"`
			Neighborhood string `json:"neighborhood"`
			WalkScore    int    `json:"walk_score"`
			TransitScore int    `json:"transit_score"`
		} `json:"property"`
	}
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, err
	}
	if root.Property == nil {
		return nil, errMissingEnvelope("property")
	}
	p := root.Property
	detail := &PropertyDetail{
		Zpid:          string(p.Zpid),
		Address:       p.Address,
		Price:         p.Price,
		Zestimate:     p.Zestimate,
		Bedrooms:      p.Bedrooms,
		Bathrooms:     p.Bathrooms,
		Sqft:          p.Sqft,
		YearBuilt:     p.YearBuilt,
		LotSize:       p.LotSize,
		HomeType:      p.HomeType,
		LastSoldDate:  p.LastSoldDate,
		LastSoldPrice: p.LastSoldPrice,
		Features:      p.Features,
		Neighborhood:  p.Neighborhood,
		WalkScore:     p.WalkScore,
		TransitScore:  p.TransitScore,
		URL:           p.URL,
	}
	for _, s := range p.Schools {
		detail.Schools = append(detail.Schools, School(s))
	}
	return detail, nil
}

func mapZestimatePayload(raw []byte) (*ZestimateResult, error) {
	var root struct {
		Zestimate *struct {
			Zpid        stringNumber `json:"zpid"`
			Address     string       `json:"address"`
			Amount      *int         `json:"amount"`
			Low         int          `json:"valuation_range_low"`
			High        int          `json:"valuation_range_high"`
			LastUpdated string       `json:"last_updated"`
		} `json:"zestimate"`
	}
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, err
	}
	if root.Zestimate == nil {
		return nil, errMissingEnvelope("zestimate")
	}
	z := root.Zestimate
	if z.Amount == nil {
		return nil, errMissingEnvelope("zestimate.amount")
	}
	out := &ZestimateResult{
		Zpid:        string(z.Zpid),
		Address:     z.Address,
		Amount:      *z.Amount,
		LastUpdated: z.LastUpdated,
	}
	if z.Low > 0 || z.High > 0 {
		out.ValuationRange = &ValuationRange{Low: z.Low, High: z.High}
	}
	return out, nil
}

func mapTrendsPayload(raw []byte) (map[string]MetricSeries, error) {
	var root struct {
		Trends *map[string]MetricSeries `json:"trends"`
	}
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, err
	}
	if root.Trends == nil {
		return nil, errMissingEnvelope("trends")
	}
	return *root.Trends, nil
}

// mapHealthPayload tolerates any body shape: a reachable upstream is healthy
// even when it reports no status or version fields.
func mapHealthPayload(raw []byte) (status, version string) {
	var root struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	if err := json.Unmarshal(raw, &root); err != nil {
		return "OK", ""
	}
	if root.Status == "" {
		root.Status = "OK"
	}
	return root.Status, root.Version
}
