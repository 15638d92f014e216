package client

import "context"

// GetAffiliateProducts returns the affiliate product catalog
func (c *Client) GetAffiliateProducts(ctx context.Context) ([]AffiliateProduct, error) {
	return Get[[]AffiliateProduct](ctx, c, "/products/")
}
