package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

type toolDescriptor struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Parameters  map[string]string `json:"parameters"`
}

type registryResponse struct {
	Success   bool             `json:"success"`
	Tools     []toolDescriptor `json:"tools"`
	Resources []toolDescriptor `json:"resources"`
	Metadata  metadata         `json:"metadata"`
}

func (s *Server) handleGetServerTools(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tools := []toolDescriptor{
		{
			Name:        "search_properties",
			Description: "Search for properties on Zillow based on criteria",
			Parameters: map[string]string{
				"location":   "Address, city, ZIP code, or neighborhood",
				"type":       "Property listing type - 'forSale', 'forRent', or 'sold'",
				"min_price":  "Minimum price in dollars",
				"max_price":  "Maximum price in dollars",
				"beds_min":   "Minimum number of bedrooms",
				"beds_max":   "Maximum number of bedrooms",
				"baths_min":  "Minimum number of bathrooms",
				"baths_max":  "Maximum number of bathrooms",
				"home_types": "List of home types (e.g. house, condo, apartment)",
			},
		},
		{
			Name:        "get_property_details",
			Description: "Get detailed information about a property by ID or address",
			Parameters: map[string]string{
				"property_id": "Zillow property ID (zpid)",
				"address":     "Full property address",
			},
		},
		{
			Name:        "get_zestimate",
			Description: "Get Zillow's estimated value (Zestimate) for a property",
			Parameters: map[string]string{
				"property_id": "Zillow property ID (zpid)",
				"address":     "Full property address",
			},
		},
		{
			Name:        "get_market_trends",
			Description: "Get real estate market trends for a specific location",
			Parameters: map[string]string{
				"location":    "City, ZIP code, or neighborhood",
				"metrics":     "List of metrics to retrieve",
				"time_period": "Time period for historical data",
			},
		},
		{
			Name:        "calculate_mortgage",
			Description: "Calculate mortgage payments and related costs",
			Parameters: map[string]string{
				"home_price":                  "Price of the home in dollars",
				"down_payment":                "Down payment amount in dollars",
				"down_payment_percent":        "Down payment as a percentage of home price",
				"loan_term":                   "Loan term in years",
				"interest_rate":               "Annual interest rate as a percentage",
				"annual_property_tax":         "Annual property tax in dollars",
				"annual_homeowners_insurance": "Annual homeowners insurance in dollars",
				"monthly_hoa":                 "Monthly HOA fees in dollars",
				"include_pmi":                 "Whether to include PMI for down payments less than 20%",
			},
		},
		{
			Name:        "check_health",
			Description: "Check the health and status of the Zillow API connection",
			Parameters:  map[string]string{},
		},
		{
			Name:        "get_server_tools",
			Description: "Get a list of all available tools on this server",
			Parameters:  map[string]string{},
		},
	}

	resources := []toolDescriptor{
		{
			Name:        "zillow://property/{property_id}",
			Description: "Get property information as a formatted text resource",
			Parameters: map[string]string{
				"property_id": "Zillow property ID (zpid)",
			},
		},
		{
			Name:        "zillow://market-trends/{location}",
			Description: "Get market trends information as a formatted text resource",
			Parameters: map[string]string{
				"location": "City, ZIP code, or neighborhood",
			},
		},
	}

	return jsonResult(registryResponse{
		Success:   true,
		Tools:     tools,
		Resources: resources,
		Metadata:  newMetadata("Zillow Data Server"),
	})
}
