package bdl

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// ListUnitsOptions narrows a territorial unit listing.
type ListUnitsOptions struct {
	// ParentID restricts results to children of the given unit.
	ParentID string

	// Level restricts results to one hierarchy level. BDL is known to
	// occasionally return units from adjacent levels in the same page, so
	// callers must still re-filter (see pkg/hierarchy).
	Level int

	// PageSize caps the single page requested (default and max: 100).
	PageSize int
}

// ListUnits lists territorial units, optionally scoped to a parent and a
// level. One paginated request; the caller never needs more than one page
// because result sets are pre-filtered to small leaf sets.
func (c *Client) ListUnits(ctx context.Context, opts ListUnitsOptions) ([]Unit, error) {
	params := url.Values{}
	if opts.ParentID != "" {
		params.Set("parent-id", opts.ParentID)
	}
	if opts.Level != 0 {
		params.Set("level", strconv.Itoa(opts.Level))
	}
	params.Set("page-size", strconv.Itoa(normalizePageSize(opts.PageSize)))

	var envelope unitsEnvelope
	if err := c.get(ctx, "/units", params, &envelope); err != nil {
		return nil, err
	}
	return envelope.Results, nil
}

// SearchUnits searches territorial units by name. Level 0 searches all
// levels.
func (c *Client) SearchUnits(ctx context.Context, name string, level int) ([]Unit, error) {
	params := url.Values{}
	params.Set("name", name)
	if level != 0 {
		params.Set("level", strconv.Itoa(level))
	}
	params.Set("page-size", strconv.Itoa(maxPageSize))

	var envelope unitsEnvelope
	if err := c.get(ctx, "/units/search", params, &envelope); err != nil {
		return nil, err
	}
	return envelope.Results, nil
}

// GetUnit fetches a single territorial unit by id.
func (c *Client) GetUnit(ctx context.Context, id string) (*Unit, error) {
	var unit Unit
	if err := c.get(ctx, "/units/"+url.PathEscape(id), nil, &unit); err != nil {
		return nil, err
	}
	if unit.ID == "" {
		return nil, fmt.Errorf("unit %s: empty response", id)
	}
	return &unit, nil
}

func normalizePageSize(size int) int {
	if size <= 0 || size > maxPageSize {
		return maxPageSize
	}
	return size
}
