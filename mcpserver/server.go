// Package mcpserver exposes the Zillow data tools and resources over the
// Model Context Protocol. It validates and normalizes arguments, dispatches
// to the API client or the mortgage engine, and formats classified failures
// into user-facing text without leaking transport internals.
package mcpserver

import (
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/sap156/zillow-mcp-server/mortgage"
	"github.com/sap156/zillow-mcp-server/zillow"
)

const serverName = "Zillow-Data-Server"

// Server wires the MCP surface to the two core components.
type Server struct {
	zillow  *zillow.Client
	calc    *mortgage.Calculator
	mcp     *server.MCPServer
	version string
}

// New registers every tool and resource on a fresh MCP server.
func New(client *zillow.Client, calc *mortgage.Calculator, version string) *Server {
	s := &Server{zillow: client, calc: calc, version: version}

	m := server.NewMCPServer(serverName, version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
	)

	m.AddTool(mcp.NewTool("search_properties",
		mcp.WithDescription("Search for properties on Zillow based on criteria."),
		mcp.WithString("location", mcp.Required(),
			mcp.Description("Address, city, ZIP code, or neighborhood")),
		mcp.WithString("type",
			mcp.Description("Property listing type"),
			mcp.Enum("forSale", "forRent", "sold"),
			mcp.DefaultString("forSale")),
		mcp.WithNumber("min_price", mcp.Description("Minimum price in dollars")),
		mcp.WithNumber("max_price", mcp.Description("Maximum price in dollars")),
		mcp.WithNumber("beds_min", mcp.Description("Minimum number of bedrooms")),
		mcp.WithNumber("beds_max", mcp.Description("Maximum number of bedrooms")),
		mcp.WithNumber("baths_min", mcp.Description("Minimum number of bathrooms")),
		mcp.WithNumber("baths_max", mcp.Description("Maximum number of bathrooms")),
		mcp.WithArray("home_types",
			mcp.Description("Home types to include (e.g. house, condo, apartment)"),
			mcp.Items(map[string]any{"type": "string"})),
	), s.handleSearchProperties)

	m.AddTool(mcp.NewTool("get_property_details",
		mcp.WithDescription("Get detailed information about a property by ID or address. Exactly one of property_id and address must be supplied."),
		mcp.WithString("property_id", mcp.Description("Zillow property ID (zpid)")),
		mcp.WithString("address", mcp.Description("Full property address")),
	), s.handleGetPropertyDetails)

	m.AddTool(mcp.NewTool("get_zestimate",
		mcp.WithDescription("Get Zillow's estimated value (Zestimate) for a property. Exactly one of property_id and address must be supplied."),
		mcp.WithString("property_id", mcp.Description("Zillow property ID (zpid)")),
		mcp.WithString("address", mcp.Description("Full property address")),
	), s.handleGetZestimate)

	m.AddTool(mcp.NewTool("get_market_trends",
		mcp.WithDescription("Get real estate market trends for a specific location."),
		mcp.WithString("location", mcp.Required(),
			mcp.Description("City, ZIP code, or neighborhood")),
		mcp.WithArray("metrics",
			mcp.Description("Metrics to retrieve (defaults to median list/sale price and days on market)"),
			mcp.Items(map[string]any{"type": "string"})),
		mcp.WithString("time_period",
			mcp.Description("Time period for historical data"),
			mcp.Enum("1month", "3months", "6months", "1year", "5years", "10years", "all"),
			mcp.DefaultString("1year")),
	), s.handleGetMarketTrends)

	m.AddTool(mcp.NewTool("calculate_mortgage",
		mcp.WithDescription("Calculate mortgage payments and related costs. When both down_payment and down_payment_percent are supplied, the amount takes precedence."),
		mcp.WithNumber("home_price", mcp.Required(),
			mcp.Description("Price of the home in dollars")),
		mcp.WithNumber("down_payment", mcp.Description("Down payment amount in dollars")),
		mcp.WithNumber("down_payment_percent", mcp.Description("Down payment as a percentage of home price")),
		mcp.WithNumber("loan_term", mcp.Description("Loan term in years"), mcp.DefaultNumber(30)),
		mcp.WithNumber("interest_rate", mcp.Description("Annual interest rate as a percentage"), mcp.DefaultNumber(6.5)),
		mcp.WithNumber("annual_property_tax", mcp.Description("Annual property tax in dollars (estimated from home price when absent)")),
		mcp.WithNumber("annual_homeowners_insurance", mcp.Description("Annual homeowners insurance in dollars (estimated from home price when absent)")),
		mcp.WithNumber("monthly_hoa", mcp.Description("Monthly HOA fees in dollars"), mcp.DefaultNumber(0)),
		mcp.WithBoolean("include_pmi", mcp.Description("Include PMI for down payments under 20%"), mcp.DefaultBool(true)),
	), s.handleCalculateMortgage)

	m.AddTool(mcp.NewTool("check_health",
		mcp.WithDescription("Check the health and status of the Zillow API connection."),
	), s.handleCheckHealth)

	m.AddTool(mcp.NewTool("get_server_tools",
		mcp.WithDescription("Get a list of all available tools and resources on this server."),
	), s.handleGetServerTools)

	m.AddResourceTemplate(mcp.NewResourceTemplate(
		"zillow://property/{property_id}",
		"Property details",
		mcp.WithTemplateDescription("Property information as a formatted text resource"),
		mcp.WithTemplateMIMEType("text/markdown"),
	), s.readPropertyResource)

	m.AddResourceTemplate(mcp.NewResourceTemplate(
		"zillow://market-trends/{location}",
		"Market trends",
		mcp.WithTemplateDescription("Market trends information as a formatted text resource"),
		mcp.WithTemplateMIMEType("text/markdown"),
	), s.readMarketTrendsResource)

	s.mcp = m
	return s
}

// ServeStdio runs the server over stdin/stdout until the stream closes.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// HTTPHandler returns the streamable HTTP transport, ready to mount on a
// router.
func (s *Server) HTTPHandler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcp)
}
