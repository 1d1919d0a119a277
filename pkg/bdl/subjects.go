package bdl

import (
	"context"
	"net/url"
	"strconv"
)

// ListSubjects lists data categories, optionally under a parent subject.
// Used by browse surfaces; the retrieval core itself never calls it.
func (c *Client) ListSubjects(ctx context.Context, parentID string) ([]Subject, error) {
	params := url.Values{}
	if parentID != "" {
		params.Set("parent-id", parentID)
	}
	params.Set("page-size", strconv.Itoa(maxPageSize))

	var envelope subjectsEnvelope
	if err := c.get(ctx, "/subjects", params, &envelope); err != nil {
		return nil, err
	}
	return envelope.Results, nil
}
