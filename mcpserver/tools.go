package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sap156/zillow-mcp-server/mortgage"
	"github.com/sap156/zillow-mcp-server/zillow"
)

type metadata struct {
	Timestamp string `json:"timestamp"`
	Source    string `json:"source"`
}

func newMetadata(source string) metadata {
	return metadata{Timestamp: time.Now().UTC().Format(time.RFC3339), Source: source}
}

type searchResponse struct {
	Success        bool                     `json:"success"`
	Count          int                      `json:"count"`
	Properties     []zillow.PropertySummary `json:"properties"`
	SearchCriteria map[string]any           `json:"searchCriteria"`
	Metadata       metadata                 `json:"metadata"`
}

type detailResponse struct {
	Success  bool                   `json:"success"`
	Property *zillow.PropertyDetail `json:"property"`
	Metadata metadata               `json:"metadata"`
}

type zestimateResponse struct {
	Success   bool                    `json:"success"`
	Zestimate *zillow.ZestimateResult `json:"zestimate"`
	Metadata  metadata                `json:"metadata"`
}

type trendsResponse struct {
	Success    bool                           `json:"success"`
	Location   string                         `json:"location"`
	Trends     map[string]zillow.MetricSeries `json:"trends"`
	TimePeriod string                         `json:"time_period"`
	Metadata   metadata                       `json:"metadata"`
}

type mortgageResponse struct {
	Success         bool               `json:"success"`
	MortgageDetails mortgage.Breakdown `json:"mortgage_details"`
	Metadata        metadata           `json:"metadata"`
}

// HealthReport is the result of check_health; it is always a result, never a
// tool error, so callers can rely on reachability being reported in-band.
type HealthReport struct {
	Success         bool    `json:"success"`
	APIAvailable    bool    `json:"api_available"`
	ResponseTimeMS  float64 `json:"response_time_ms"`
	Timestamp       string  `json:"timestamp"`
	Version         string  `json:"version"`
	ZillowAPIStatus string  `json:"zillow_api_status,omitempty"`
	APIVersion      string  `json:"api_version,omitempty"`
	Error           string  `json:"error,omitempty"`
	FailureKind     string  `json:"failure_kind,omitempty"`
}

func (s *Server) handleSearchProperties(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	location, err := req.RequireString("location")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := req.GetArguments()
	q := zillow.SearchQuery{
		Location:    normalizeText(location),
		ListingType: req.GetString("type", "forSale"),
	}
	if _, ok := args["min_price"]; ok {
		v := req.GetInt("min_price", 0)
		q.MinPrice = &v
	}
	if _, ok := args["max_price"]; ok {
		v := req.GetInt("max_price", 0)
		q.MaxPrice = &v
	}
	if _, ok := args["beds_min"]; ok {
		v := req.GetInt("beds_min", 0)
		q.BedsMin = &v
	}
	if _, ok := args["beds_max"]; ok {
		v := req.GetInt("beds_max", 0)
		q.BedsMax = &v
	}
	if _, ok := args["baths_min"]; ok {
		v := req.GetFloat("baths_min", 0)
		q.BathsMin = &v
	}
	if _, ok := args["baths_max"]; ok {
		v := req.GetFloat("baths_max", 0)
		q.BathsMax = &v
	}
	if types := req.GetStringSlice("home_types", nil); len(types) > 0 {
		q.HomeTypes = types
	}

	properties, err := s.zillow.SearchProperties(ctx, q)
	if err != nil {
		return toolError(err), nil
	}
	// The provider does not reliably honor every filter; re-apply them over
	// the mapped results.
	properties = filterProperties(properties, q)

	return jsonResult(searchResponse{
		Success:        true,
		Count:          len(properties),
		Properties:     properties,
		SearchCriteria: searchCriteria(q),
		Metadata:       newMetadata("Zillow Data Server"),
	})
}

func (s *Server) handleGetPropertyDetails(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	propertyID := strings.TrimSpace(req.GetString("property_id", ""))
	address := normalizeText(req.GetString("address", ""))

	detail, err := s.zillow.GetPropertyDetails(ctx, propertyID, address)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(detailResponse{
		Success:  true,
		Property: detail,
		Metadata: newMetadata("Zillow Data Server"),
	})
}

func (s *Server) handleGetZestimate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	propertyID := strings.TrimSpace(req.GetString("property_id", ""))
	address := normalizeText(req.GetString("address", ""))

	z, err := s.zillow.GetZestimate(ctx, propertyID, address)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(zestimateResponse{
		Success:   true,
		Zestimate: z,
		Metadata:  newMetadata("Zillow Data Server"),
	})
}

func (s *Server) handleGetMarketTrends(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	location, err := req.RequireString("location")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	metrics := req.GetStringSlice("metrics", nil)
	period := req.GetString("time_period", "1year")

	trend, err := s.zillow.GetMarketTrends(ctx, normalizeText(location), metrics, period)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(trendsResponse{
		Success:    true,
		Location:   trend.Location,
		Trends:     trend.Metrics,
		TimePeriod: trend.TimePeriod,
		Metadata:   newMetadata("Zillow Data Server"),
	})
}

func (s *Server) handleCalculateMortgage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	homePrice, err := req.RequireFloat("home_price")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := req.GetArguments()
	in := mortgage.Inputs{
		HomePrice:     homePrice,
		LoanTermYears: req.GetInt("loan_term", 30),
		InterestRate:  req.GetFloat("interest_rate", 6.5),
		MonthlyHOA:    req.GetFloat("monthly_hoa", 0),
		IncludePMI:    req.GetBool("include_pmi", true),
	}
	if _, ok := args["down_payment"]; ok {
		v := req.GetFloat("down_payment", 0)
		in.DownPayment = &v
	}
	if _, ok := args["down_payment_percent"]; ok {
		v := req.GetFloat("down_payment_percent", 0)
		in.DownPaymentPercent = &v
	}
	if _, ok := args["annual_property_tax"]; ok {
		v := req.GetFloat("annual_property_tax", 0)
		in.AnnualPropertyTax = &v
	}
	if _, ok := args["annual_homeowners_insurance"]; ok {
		v := req.GetFloat("annual_homeowners_insurance", 0)
		in.AnnualInsurance = &v
	}

	breakdown, err := s.calc.Calculate(in)
	if err != nil {
		return mcp.NewToolResultError("Invalid mortgage inputs: " + strings.TrimPrefix(err.Error(), "mortgage: invalid input: ")), nil
	}
	return jsonResult(mortgageResponse{
		Success:         true,
		MortgageDetails: breakdown.Rounded(),
		Metadata:        newMetadata("Zillow Mortgage Calculator"),
	})
}

func (s *Server) handleCheckHealth(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.Health(ctx))
}

// Health probes the upstream API and reports reachability as a value. It is
// shared by the check_health tool and the HTTP /health endpoint.
func (s *Server) Health(ctx context.Context) HealthReport {
	start := time.Now()
	report := HealthReport{
		Timestamp: start.UTC().Format(time.RFC3339),
		Version:   s.version,
	}

	status, err := s.zillow.CheckHealth(ctx)
	report.ResponseTimeMS = math.Round(float64(time.Since(start))/float64(time.Millisecond)*100) / 100
	if err != nil {
		report.Error = userMessage(err)
		report.FailureKind = string(zillow.KindOf(err))
		return report
	}
	report.Success = true
	report.APIAvailable = status.Reachable
	report.ZillowAPIStatus = status.UpstreamStatus
	report.APIVersion = status.Version
	return report
}

// filterProperties re-applies the optional search constraints client-side.
func filterProperties(in []zillow.PropertySummary, q zillow.SearchQuery) []zillow.PropertySummary {
	out := in[:0]
	for _, p := range in {
		if q.MinPrice != nil && p.Price < *q.MinPrice {
			continue
		}
		if q.MaxPrice != nil && p.Price > *q.MaxPrice {
			continue
		}
		if q.BedsMin != nil && p.Bedrooms < *q.BedsMin {
			continue
		}
		if q.BedsMax != nil && p.Bedrooms > *q.BedsMax {
			continue
		}
		if q.BathsMin != nil && p.Bathrooms < *q.BathsMin {
			continue
		}
		if q.BathsMax != nil && p.Bathrooms > *q.BathsMax {
			continue
		}
		if len(q.HomeTypes) > 0 && !containsFold(q.HomeTypes, p.HomeType) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func containsFold(haystack []string, needle string) bool {
	for _, h := range haystack {
		if strings.EqualFold(h, needle) {
			return true
		}
	}
	return false
}

func searchCriteria(q zillow.SearchQuery) map[string]any {
	criteria := map[string]any{
		"location": q.Location,
		"type":     q.ListingType,
	}
	if q.MinPrice != nil {
		criteria["price_min"] = *q.MinPrice
	}
	if q.MaxPrice != nil {
		criteria["price_max"] = *q.MaxPrice
	}
	if q.BedsMin != nil {
		criteria["beds_min"] = *q.BedsMin
	}
	if q.BedsMax != nil {
		criteria["beds_max"] = *q.BedsMax
	}
	if q.BathsMin != nil {
		criteria["baths_min"] = *q.BathsMin
	}
	if q.BathsMax != nil {
		criteria["baths_max"] = *q.BathsMax
	}
	if len(q.HomeTypes) > 0 {
		criteria["home_types"] = q.HomeTypes
	}
	return criteria
}

// normalizeText collapses interior whitespace; upstream geocoding does the
// rest.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(b)), nil
}

// toolError converts a classified failure into kind-specific user-facing
// text. Transport details and credentials never reach the caller.
func toolError(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(userMessage(err))
}

func userMessage(err error) string {
	var zerr *zillow.Error
	if !errors.As(err, &zerr) {
		if errors.Is(err, mortgage.ErrInvalidInput) {
			return "Invalid input: " + err.Error()
		}
		return "Request failed. Please try again later."
	}
	switch zerr.Kind {
	case zillow.KindInvalidInput:
		return "Invalid request: " + zerr.Message
	case zillow.KindAuthFailure:
		return "Zillow API authentication failed. Check that ZILLOW_API_KEY is set and valid."
	case zillow.KindNotFound:
		return "No matching property or location was found."
	case zillow.KindRateLimited:
		return "Zillow API rate limit reached. Please try again shortly."
	case zillow.KindDeadlineExceeded:
		return "Zillow API request timed out. Please try again later."
	case zillow.KindContractViolation:
		return "Zillow API returned an unexpected response shape."
	default:
		return "Zillow API is temporarily unavailable. Please try again later."
	}
}
