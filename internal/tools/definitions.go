package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"ndisfraud/internal/port"
)

// Tool names as exposed to the model.
const (
	ToolItemExists  = "check_nids_item_exists"
	ToolItemPricing = "check_nids_item_pricing"
	ToolOldPricing  = "check_if_using_old_pricing"
)

// AllTools lists every tool name in a stable order.
var AllTools = []string{ToolItemExists, ToolItemPricing, ToolOldPricing}

var (
	ErrUnknownTool     = errors.New("unknown tool")
	ErrMissingArgument = errors.New("missing argument")
	ErrInvalidArgument = errors.New("invalid argument")
)

var itemCodeSchema = map[string]interface{}{
	"type":        "string",
	"description": "NDIS support item number, e.g. 01_011_0107_1_1",
}

// Definitions returns LLM-callable descriptors for the named tools, in the
// order given.
func (v *Verifier) Definitions(names ...string) ([]port.Tool, error) {
	out := make([]port.Tool, 0, len(names))
	for _, name := range names {
		switch name {
		case ToolItemExists:
			out = append(out, port.Tool{
				Name:        ToolItemExists,
				Description: "Check if the given item code exists in the active NDIS support item database.",
				Parameters: map[string]interface{}{
					"type":       "object",
					"properties": map[string]interface{}{"item_code": itemCodeSchema},
					"required":   []string{"item_code"},
				},
				Call: v.callItemExists,
			})
		case ToolItemPricing:
			out = append(out, port.Tool{
				Name: ToolItemPricing,
				Description: "Validate the unit price charged for an item against the NDIS price limit for the " +
					"service location. Also warns when the item appears in the inactive (old) pricing database.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"item_code": itemCodeSchema,
						"price": map[string]interface{}{
							"type":        "number",
							"description": "Unit price charged on the invoice, in AUD",
						},
						"location_type": map[string]interface{}{
							"type":        "string",
							"enum":        []string{"standard", "remote", "very_remote"},
							"description": "Service location pricing tier; defaults to standard",
						},
					},
					"required": []string{"item_code", "price"},
				},
				Call: v.callItemPricing,
			})
		case ToolOldPricing:
			out = append(out, port.Tool{
				Name:        ToolOldPricing,
				Description: "Check whether an item code belongs to the current or the superseded (inactive) NDIS pricing database.",
				Parameters: map[string]interface{}{
					"type":       "object",
					"properties": map[string]interface{}{"item_code": itemCodeSchema},
					"required":   []string{"item_code"},
				},
				Call: v.callOldPricing,
			})
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
		}
	}
	return out, nil
}

func (v *Verifier) callItemExists(_ context.Context, args map[string]interface{}) (string, error) {
	code, err := stringArg(args, "item_code")
	if err != nil {
		return "", err
	}
	return v.ItemExists(code).Message, nil
}

func (v *Verifier) callItemPricing(_ context.Context, args map[string]interface{}) (string, error) {
	code, err := stringArg(args, "item_code")
	if err != nil {
		return "", err
	}
	price, err := priceArg(args, "price")
	if err != nil {
		return "", err
	}
	location := "standard"
	if _, ok := args["location_type"]; ok {
		location, err = stringArg(args, "location_type")
		if err != nil {
			return "", err
		}
	}
	return v.ItemPricing(code, price, location).Message, nil
}

func (v *Verifier) callOldPricing(_ context.Context, args map[string]interface{}) (string, error) {
	code, err := stringArg(args, "item_code")
	if err != nil {
		return "", err
	}
	return v.OldPricingCheck(code).Message, nil
}

func stringArg(args map[string]interface{}, key string) (string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return "", fmt.Errorf("%w: %s", ErrMissingArgument, key)
	}
	switch val := raw.(type) {
	case string:
		return val, nil
	case json.Number:
		return val.String(), nil
	default:
		return "", fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidArgument, key, raw)
	}
}

// priceArg accepts JSON numbers and numeric strings such as "$1,234.50".
func priceArg(args map[string]interface{}, key string) (decimal.Decimal, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrMissingArgument, key)
	}
	switch val := raw.(type) {
	case float64:
		return decimal.NewFromFloat(val), nil
	case float32:
		return decimal.NewFromFloat32(val), nil
	case int:
		return decimal.NewFromInt(int64(val)), nil
	case int64:
		return decimal.NewFromInt(val), nil
	case json.Number:
		d, err := decimal.NewFromString(val.String())
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %s=%q", ErrInvalidArgument, key, val)
		}
		return d, nil
	case string:
		d, err := ParsePrice(val)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %s=%q", ErrInvalidArgument, key, val)
		}
		return d, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %s must be a number, got %T", ErrInvalidArgument, key, raw)
	}
}
