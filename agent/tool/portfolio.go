package tool

import (
	"context"
	"fmt"

	contractx "github.com/apexproperties/concierge/agent/contract"
)

type portfolioPayload struct {
	Success    bool                 `json:"success"`
	Count      int                  `json:"count"`
	Properties []contractx.Property `json:"properties"`
}

func portfolioEntry() entry {
	return entry{
		def: contractx.ToolDefinition{
			Name:        NamePropertyPortfolio,
			Description: "Retrieves available properties with optional filters for property type, price range, bedrooms, location, and Golden Visa eligibility",
			InputSchema: contractx.Schema{
				Type: "object",
				Properties: map[string]contractx.Field{
					"property_type": {
						Type:        "string",
						Enum:        []string{"penthouse", "villa", "apartment", "townhouse", "off-plan", "all"},
						Description: "Filter by property type (optional)",
					},
					"min_price_aed":        {Type: "number", Description: "Minimum price in AED (optional)"},
					"max_price_aed":        {Type: "number", Description: "Maximum price in AED (optional)"},
					"bedrooms":             {Type: "number", Description: "Number of bedrooms (optional)"},
					"location":             {Type: "string", Description: `Neighborhood filter (e.g., "Palm Jumeirah") - optional`},
					"golden_visa_eligible": {Type: "boolean", Description: "Filter properties that qualify for Golden Visa (AED 2M+) - optional"},
				},
			},
		},
		run: runPortfolioLookup,
	}
}

// runPortfolioLookup is read-only and idempotent. An empty result set is a
// success with count=0, not an error.
func runPortfolioLookup(ctx context.Context, gw contractx.DomainGateway, args map[string]any) (any, error) {
	filter, err := parsePortfolioFilter(args)
	if err != nil {
		return nil, err
	}

	props, err := gw.SearchProperties(ctx, filter)
	if err != nil {
		return map[string]any{"success": false, "error": "property_lookup_failed"},
			fmt.Errorf("property lookup: %w", err)
	}
	if props == nil {
		props = []contractx.Property{}
	}

	return portfolioPayload{
		Success:    true,
		Count:      len(props),
		Properties: props,
	}, nil
}

func parsePortfolioFilter(args map[string]any) (contractx.PropertyFilter, error) {
	var filter contractx.PropertyFilter

	propertyType, _, err := stringArg(args, "property_type")
	if err != nil {
		return filter, err
	}
	filter.PropertyType = propertyType

	if v, ok, err := numberArg(args, "min_price_aed"); err != nil {
		return filter, err
	} else if ok {
		filter.MinPriceAED = &v
	}
	if v, ok, err := numberArg(args, "max_price_aed"); err != nil {
		return filter, err
	} else if ok {
		filter.MaxPriceAED = &v
	}
	if v, ok, err := intArg(args, "bedrooms"); err != nil {
		return filter, err
	} else if ok {
		filter.Bedrooms = &v
	}

	location, _, err := stringArg(args, "location")
	if err != nil {
		return filter, err
	}
	filter.Location = location

	if v, ok, err := boolArg(args, "golden_visa_eligible"); err != nil {
		return filter, err
	} else if ok {
		filter.GoldenVisaEligible = &v
	}

	return filter, nil
}
