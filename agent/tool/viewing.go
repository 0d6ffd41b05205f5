package tool

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/apexproperties/concierge/agent/contract"
)

func viewingAvailabilityEntry() entry {
	return entry{
		def: contractx.ToolDefinition{
			Name:        NameViewingAvailability,
			Description: "Checks available viewing time slots for a property on a specific date",
			InputSchema: contractx.Schema{
				Type: "object",
				Properties: map[string]contractx.Field{
					"propertyId": {Type: "string", Description: "Property ID"},
					"date":       {Type: "string", Description: "Viewing date (YYYY-MM-DD)"},
				},
				Required: []string{"propertyId", "date"},
			},
		},
		run: runViewingAvailability,
	}
}

func scheduleViewingEntry() entry {
	return entry{
		def: contractx.ToolDefinition{
			Name:        NameScheduleViewing,
			Description: "Schedules a property viewing for a registered lead in an available time slot",
			InputSchema: contractx.Schema{
				Type: "object",
				Properties: map[string]contractx.Field{
					"leadId":     {Type: "string", Description: "Lead ID from create_lead"},
					"propertyId": {Type: "string", Description: "Property ID"},
					"date":       {Type: "string", Description: "Viewing date (YYYY-MM-DD)"},
					"time":       {Type: "string", Description: "Viewing time slot (HH:MM)"},
					"viewingType": {
						Type:        "string",
						Enum:        []string{"in-person", "virtual", "video-call"},
						Description: "Viewing type (optional, defaults to in-person)",
					},
				},
				Required: []string{"leadId", "propertyId", "date", "time"},
			},
		},
		run: runScheduleViewing,
	}
}

func runViewingAvailability(ctx context.Context, gw contractx.DomainGateway, args map[string]any) (any, error) {
	propertyID, err := requireString(args, "propertyId")
	if err != nil {
		return nil, err
	}
	date, err := requireString(args, "date")
	if err != nil {
		return nil, err
	}

	slots, err := gw.CheckViewingAvailability(ctx, propertyID, date)
	if err != nil {
		return map[string]any{"success": false, "error": "availability_check_failed"},
			fmt.Errorf("check viewing availability: %w", err)
	}
	if slots == nil {
		slots = []string{}
	}

	return map[string]any{
		"success":        true,
		"propertyId":     propertyID,
		"date":           date,
		"availableSlots": slots,
	}, nil
}

func runScheduleViewing(ctx context.Context, gw contractx.DomainGateway, args map[string]any) (any, error) {
	leadID, err := requireString(args, "leadId")
	if err != nil {
		return nil, err
	}
	propertyID, err := requireString(args, "propertyId")
	if err != nil {
		return nil, err
	}
	date, err := requireString(args, "date")
	if err != nil {
		return nil, err
	}
	timeSlot, err := requireString(args, "time")
	if err != nil {
		return nil, err
	}
	viewingType, _, err := stringArg(args, "viewingType")
	if err != nil {
		return nil, err
	}

	viewing, err := gw.ScheduleViewing(ctx, leadID, propertyID, date, timeSlot, viewingType)
	if err != nil {
		if errors.Is(err, contractx.ErrViewingConflict) {
			return map[string]any{"success": false, "error": "viewing_conflict"},
				fmt.Errorf("schedule viewing: %w", err)
		}
		return map[string]any{"success": false, "error": "viewing_scheduling_failed"},
			fmt.Errorf("schedule viewing: %w", err)
	}

	return map[string]any{
		"success": true,
		"viewing": viewing,
	}, nil
}
