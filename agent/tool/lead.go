package tool

import (
	"context"
	"fmt"

	contractx "github.com/apexproperties/concierge/agent/contract"
)

func createLeadEntry() entry {
	return entry{
		def: contractx.ToolDefinition{
			Name:        NameCreateLead,
			Description: "Registers a new lead in the CRM system with full qualification details",
			InputSchema: contractx.Schema{
				Type: "object",
				Properties: map[string]contractx.Field{
					"fullName":           {Type: "string", Description: "Client full name"},
					"email":              {Type: "string", Description: "Client email"},
					"phone":              {Type: "string", Description: "Phone with country code"},
					"budgetMinAed":       {Type: "number", Description: "Minimum budget in AED"},
					"budgetMaxAed":       {Type: "number", Description: "Maximum budget in AED (optional)"},
					"propertyType":       {Type: "string", Description: "Preferred property type (optional)"},
					"bedrooms":           {Type: "number", Description: "Desired bedrooms (optional)"},
					"locationPreference": {Type: "string", Description: "Preferred neighborhoods (optional)"},
					"timeline": {
						Type:        "string",
						Enum:        []string{"urgent", "1-3 months", "3-6 months", "6-12 months", "exploring"},
						Description: "Purchase timeline",
					},
					"purpose": {
						Type:        "string",
						Enum:        []string{"personal residence", "investment", "golden visa", "second home"},
						Description: "Purpose of purchase",
					},
					"financingNeeded": {Type: "boolean", Description: "Does client need mortgage?"},
					"notes":           {Type: "string", Description: "Additional notes (optional)"},
				},
				Required: []string{"fullName", "email", "phone", "budgetMinAed", "timeline", "purpose"},
			},
		},
		run: runCreateLead,
	}
}

// runCreateLead validates the qualification before touching the gateway, and
// performs a single attempt: retry policy belongs to the gateway.
func runCreateLead(ctx context.Context, gw contractx.DomainGateway, args map[string]any) (any, error) {
	q, err := parseLeadQualification(args)
	if err != nil {
		return nil, err
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	lead, err := gw.CreateLead(ctx, q)
	if err != nil {
		return map[string]any{"success": false, "error": "lead_creation_failed"},
			fmt.Errorf("create lead: %w", err)
	}

	return map[string]any{
		"success":   true,
		"leadId":    lead.ID,
		"leadScore": lead.Score,
		"message":   "Lead successfully registered in CRM",
	}, nil
}

func parseLeadQualification(args map[string]any) (contractx.LeadQualification, error) {
	var q contractx.LeadQualification
	var err error

	if q.FullName, _, err = stringArg(args, "fullName"); err != nil {
		return q, err
	}
	if q.Email, _, err = stringArg(args, "email"); err != nil {
		return q, err
	}
	if q.Phone, _, err = stringArg(args, "phone"); err != nil {
		return q, err
	}
	if q.BudgetMinAED, _, err = numberArg(args, "budgetMinAed"); err != nil {
		return q, err
	}
	if v, ok, err := numberArg(args, "budgetMaxAed"); err != nil {
		return q, err
	} else if ok {
		q.BudgetMaxAED = &v
	}
	if q.PropertyType, _, err = stringArg(args, "propertyType"); err != nil {
		return q, err
	}
	if v, ok, err := intArg(args, "bedrooms"); err != nil {
		return q, err
	} else if ok {
		q.Bedrooms = &v
	}
	if q.LocationPreference, _, err = stringArg(args, "locationPreference"); err != nil {
		return q, err
	}

	timeline, _, err := stringArg(args, "timeline")
	if err != nil {
		return q, err
	}
	q.Timeline = contractx.Timeline(timeline)

	purpose, _, err := stringArg(args, "purpose")
	if err != nil {
		return q, err
	}
	q.Purpose = contractx.Purpose(purpose)

	if q.FinancingNeeded, _, err = boolArg(args, "financingNeeded"); err != nil {
		return q, err
	}
	if q.Notes, _, err = stringArg(args, "notes"); err != nil {
		return q, err
	}

	return q, nil
}
