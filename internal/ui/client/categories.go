package client

import (
	"context"
	"fmt"
	"net/url"
)

// GetCategories returns all categories with their tip counts
func (c *Client) GetCategories(ctx context.Context) ([]Category, error) {
	return Get[[]Category](ctx, c, "/categories/")
}

// GetCategory returns a category and its tips.
// The slug is expected to be URL-safe already; it is path-escaped so a malformed route parameter cannot change the endpoint.
func (c *Client) GetCategory(ctx context.Context, slug string) (*CategoryDetail, error) {
	return Get[*CategoryDetail](ctx, c, fmt.Sprintf("/categories/%s/", url.PathEscape(slug)))
}
