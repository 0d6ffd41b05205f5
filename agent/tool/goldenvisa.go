package tool

import (
	"context"

	contractx "github.com/apexproperties/concierge/agent/contract"
	"github.com/apexproperties/concierge/crm"
)

func goldenVisaEntry() entry {
	return entry{
		def: contractx.ToolDefinition{
			Name:        NameGoldenVisaCheck,
			Description: "Checks if a property qualifies for UAE 10-year Golden Visa (requires AED 2M+ investment)",
			InputSchema: contractx.Schema{
				Type: "object",
				Properties: map[string]contractx.Field{
					"priceAed": {Type: "number", Description: "Property price in AED"},
				},
				Required: []string{"priceAed"},
			},
		},
		run: runGoldenVisaCheck,
	}
}

// runGoldenVisaCheck is a pure computation; given a well-formed price it
// always succeeds and is safe to repeat.
func runGoldenVisaCheck(_ context.Context, _ contractx.DomainGateway, args map[string]any) (any, error) {
	priceAED, err := requireNumber(args, "priceAed")
	if err != nil {
		return nil, err
	}
	return crm.CheckGoldenVisaEligibility(priceAED), nil
}
