package mcpserver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sap156/zillow-mcp-server/zillow"
)

// FormatProperty renders a property detail as markdown. Fields the upstream
// did not supply are simply omitted.
func FormatProperty(p *zillow.PropertyDetail) string {
	address := p.Address
	if address == "" {
		address = "Unknown Address"
	}
	lines := []string{"# Property Details for " + address}

	if p.Price > 0 {
		lines = append(lines, fmt.Sprintf("- **Price**: $%s", formatThousands(p.Price)))
	}
	if p.Zestimate > 0 {
		lines = append(lines, fmt.Sprintf("- **Zestimate**: $%s", formatThousands(p.Zestimate)))
	}
	if p.Bedrooms > 0 {
		lines = append(lines, fmt.Sprintf("- **Bedrooms**: %d", p.Bedrooms))
	}
	if p.Bathrooms > 0 {
		lines = append(lines, fmt.Sprintf("- **Bathrooms**: %s", trimFloat(p.Bathrooms)))
	}
	if p.Sqft > 0 {
		lines = append(lines, fmt.Sprintf("- **Square Feet**: %s", formatThousands(p.Sqft)))
	}
	if p.YearBuilt > 0 {
		lines = append(lines, fmt.Sprintf("- **Year Built**: %d", p.YearBuilt))
	}
	if p.LotSize > 0 {
		lines = append(lines, fmt.Sprintf("- **Lot Size**: %s acres", trimFloat(p.LotSize)))
	}
	if p.HomeType != "" {
		lines = append(lines, "- **Home Type**: "+p.HomeType)
	}
	if p.LastSoldDate != "" && p.LastSoldPrice > 0 {
		lines = append(lines, fmt.Sprintf("- **Last Sold**: %s for $%s", p.LastSoldDate, formatThousands(p.LastSoldPrice)))
	}

	if len(p.Features) > 0 {
		lines = append(lines, "", "## Features")
		for _, f := range p.Features {
			lines = append(lines, "- "+f)
		}
	}

	if len(p.Schools) > 0 {
		lines = append(lines, "", "## Schools")
		for _, school := range p.Schools {
			name := school.Name
			if name == "" {
				name = "Unknown School"
			}
			level := school.Level
			if level == "" {
				level = "Unknown Level"
			}
			lines = append(lines, fmt.Sprintf("- **%s** (%s): Rating %s/10, %s miles away",
				name, level, trimFloat(school.Rating), trimFloat(school.Distance)))
		}
	}

	var neighborhood []string
	if p.Neighborhood != "" {
		neighborhood = append(neighborhood, "- **Neighborhood**: "+p.Neighborhood)
	}
	if p.WalkScore > 0 {
		neighborhood = append(neighborhood, fmt.Sprintf("- **Walk Score**: %d/100", p.WalkScore))
	}
	if p.TransitScore > 0 {
		neighborhood = append(neighborhood, fmt.Sprintf("- **Transit Score**: %d/100", p.TransitScore))
	}
	if len(neighborhood) > 0 {
		lines = append(lines, "", "## Neighborhood")
		lines = append(lines, neighborhood...)
	}

	if p.URL != "" {
		lines = append(lines, "", "View on Zillow: "+p.URL)
	}
	return strings.Join(lines, "\n")
}

// metricDisplay maps known metric names to their presentation.
var metricDisplay = map[string]struct {
	name   string
	prefix string
	suffix string
}{
	"median_list_price":     {"Median Listing Price", "$", ""},
	"median_sale_price":     {"Median Sale Price", "$", ""},
	"median_days_on_market": {"Median Days on Market", "", " days"},
}

// FormatMarketTrends renders market trend metrics as markdown.
func FormatMarketTrends(t *zillow.MarketTrend) string {
	lines := []string{
		"# Real Estate Market Trends for " + t.Location,
		"",
		"## Current Market Overview",
	}

	names := make([]string, 0, len(t.Metrics))
	for name := range t.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		series := t.Metrics[name]
		display, prefix, suffix := displayFor(name)
		lines = append(lines, fmt.Sprintf("- **%s**: %s%s%s (%+.1f%% year-over-year)",
			display, prefix, formatValue(series.Current), suffix, series.Change1Yr))
	}

	hasHistorical := false
	for _, name := range names {
		if len(t.Metrics[name].Historical) > 0 {
			hasHistorical = true
			break
		}
	}
	if hasHistorical {
		lines = append(lines, "", "## Historical Trends (Last 12 Months)")
		for _, name := range names {
			series := t.Metrics[name]
			if len(series.Historical) == 0 {
				continue
			}
			display, prefix, suffix := displayFor(name)
			lines = append(lines, "", "### "+display)
			for _, point := range series.Historical {
				lines = append(lines, fmt.Sprintf("- %s: %s%s%s", point.Date, prefix, formatValue(point.Value), suffix))
			}
		}
	}
	return strings.Join(lines, "\n")
}

func displayFor(metric string) (name, prefix, suffix string) {
	if d, ok := metricDisplay[metric]; ok {
		return d.name, d.prefix, d.suffix
	}
	return metric, "", ""
}

// formatValue renders whole numbers with thousands separators and keeps one
// decimal otherwise.
func formatValue(v float64) string {
	if v == float64(int(v)) {
		return formatThousands(int(v))
	}
	return fmt.Sprintf("%.1f", v)
}

func formatThousands(n int) string {
	if n < 0 {
		return "-" + formatThousands(-n)
	}
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// trimFloat drops a trailing .0 so whole values read naturally.
func trimFloat(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	return strings.TrimSuffix(s, ".0")
}
