package bdl

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// SearchVariablesOptions narrows a variable search. All fields are
// optional; an empty options value lists variables unfiltered.
type SearchVariablesOptions struct {
	// Text matches against the variable name segments.
	Text string

	// Level restricts to variables with data at the given unit level.
	// Variables queried at a level the source defines no data for return
	// empty results, never errors.
	Level int

	// SubjectID restricts to one subject subtree.
	SubjectID string
}

// SearchVariables searches statistical variables.
func (c *Client) SearchVariables(ctx context.Context, opts SearchVariablesOptions) ([]Variable, error) {
	params := url.Values{}
	if opts.Text != "" {
		params.Set("name", opts.Text)
	}
	if opts.Level != 0 {
		params.Set("level", strconv.Itoa(opts.Level))
	}
	if opts.SubjectID != "" {
		params.Set("subject-id", opts.SubjectID)
	}
	params.Set("page-size", strconv.Itoa(maxPageSize))

	var envelope variablesEnvelope
	if err := c.get(ctx, "/variables/search", params, &envelope); err != nil {
		return nil, err
	}
	return envelope.Results, nil
}

// GetVariable fetches a single variable by id.
func (c *Client) GetVariable(ctx context.Context, id int) (*Variable, error) {
	var v Variable
	if err := c.get(ctx, "/variables/"+strconv.Itoa(id), nil, &v); err != nil {
		return nil, err
	}
	if v.ID == 0 {
		return nil, fmt.Errorf("variable %d: empty response", id)
	}
	return &v, nil
}
