package mcpserver

import (
	"context"
	"net/url"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// Read-only addressable resources: formatted-text views over the same
// underlying upstream calls as the tools. Lookup failures become readable
// text rather than protocol errors, matching the tool behavior.

func (s *Server) readPropertyResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	propertyID := templateValue(req.Params.URI, "zillow://property/")

	var text string
	detail, err := s.zillow.GetPropertyDetails(ctx, propertyID, "")
	if err != nil {
		text = "Error retrieving property information: " + userMessage(err)
	} else {
		text = FormatProperty(detail)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: req.Params.URI, MIMEType: "text/markdown", Text: text},
	}, nil
}

func (s *Server) readMarketTrendsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	location := templateValue(req.Params.URI, "zillow://market-trends/")

	var text string
	trend, err := s.zillow.GetMarketTrends(ctx, location, nil, "1year")
	if err != nil {
		text = "Error retrieving market trends: " + userMessage(err)
	} else {
		text = FormatMarketTrends(trend)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: req.Params.URI, MIMEType: "text/markdown", Text: text},
	}, nil
}

// templateValue extracts and unescapes the single template variable at the
// end of a resource URI.
func templateValue(uri, prefix string) string {
	v := strings.TrimPrefix(uri, prefix)
	if unescaped, err := url.PathUnescape(v); err == nil {
		v = unescaped
	}
	return normalizeText(v)
}
