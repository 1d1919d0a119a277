package bdl

import (
	"context"
	"net/url"
	"strconv"
)

// DataByUnit fetches values of the given variables for one territorial
// unit across the given years. The response is variable-major: one entry
// per variable, each with its value sequence.
func (c *Client) DataByUnit(ctx context.Context, unitID string, variableIDs []int, years []int) ([]VariableValues, error) {
	params := url.Values{}
	for _, id := range variableIDs {
		params.Add("var-id", strconv.Itoa(id))
	}
	for _, y := range years {
		params.Add("year", strconv.Itoa(y))
	}
	params.Set("page-size", strconv.Itoa(maxPageSize))

	var envelope dataByUnitEnvelope
	if err := c.get(ctx, "/data/by-unit/"+url.PathEscape(unitID), params, &envelope); err != nil {
		return nil, err
	}
	return envelope.Results, nil
}

// DataByVariableOptions scopes a by-variable data fetch.
type DataByVariableOptions struct {
	// UnitLevel selects which hierarchy level the returned units live at.
	UnitLevel int

	// ParentID lets the server expand children of one unit. Only valid
	// when a direct parent-child relationship exists at UnitLevel;
	// leaf sets derived client-side via drill-down must use DataByUnit
	// per leaf instead.
	ParentID string

	// Years to fetch.
	Years []int
}

// DataByVariable fetches values of one variable for all units matching
// the options. The response is unit-major: one entry per unit, each with
// its value sequence.
func (c *Client) DataByVariable(ctx context.Context, variableID int, opts DataByVariableOptions) ([]UnitValues, error) {
	params := url.Values{}
	if opts.UnitLevel != 0 {
		params.Set("unit-level", strconv.Itoa(opts.UnitLevel))
	}
	if opts.ParentID != "" {
		params.Set("unit-parent-id", opts.ParentID)
	}
	for _, y := range opts.Years {
		params.Add("year", strconv.Itoa(y))
	}
	params.Set("page-size", strconv.Itoa(maxPageSize))

	var envelope dataByVariableEnvelope
	if err := c.get(ctx, "/data/by-variable/"+strconv.Itoa(variableID), params, &envelope); err != nil {
		return nil, err
	}
	return envelope.Results, nil
}
