package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	wiki "github.com/micro-hygiene/wiki"
)

// GetTips returns one page of the tips list (newest first). Pages start at 1; lower values request the first page.
func (c *Client) GetTips(ctx context.Context, page int) (*TipListResponse, error) {
	if page < wiki.DefaultPage {
		page = wiki.DefaultPage
	}
	return Get[*TipListResponse](ctx, c, fmt.Sprintf("/tips/?page=%d", page))
}

// GetTip returns the full detail of a tip, including its votes
func (c *Client) GetTip(ctx context.Context, id int) (*TipDetail, error) {
	return Get[*TipDetail](ctx, c, fmt.Sprintf("/tips/%d/", id))
}

// SearchTips returns the tips whose title matches query
func (c *Client) SearchTips(ctx context.Context, query string) ([]TipList, error) {
	return Get[[]TipList](ctx, c, "/tips/search/?q="+EncodeQueryComponent(query))
}

// CreateTip submits a new tip. The API checks the turnstile token and moderates the content.
func (c *Client) CreateTip(ctx context.Context, req CreateTipRequest) (*CreateTipResponse, error) {
	return Post[*CreateTipResponse](ctx, c, "/tips/create/", req)
}

// VoteTip records a vote on a tip. The API allows one vote per voter per tip and rejects duplicates with a 400.
func (c *Client) VoteTip(ctx context.Context, id int, req VoteRequest) (*VoteResponse, error) {
	return Post[*VoteResponse](ctx, c, fmt.Sprintf("/tips/%d/vote/", id), req)
}

// FlagTip reports a tip for moderation
func (c *Client) FlagTip(ctx context.Context, id int, req FlagRequest) (*FlagResponse, error) {
	return Post[*FlagResponse](ctx, c, fmt.Sprintf("/tips/%d/flag/", id), req)
}

// EncodeQueryComponent percent-encodes s for use as a query value, encoding spaces as %20 rather than '+'
func EncodeQueryComponent(s string) string {
	// QueryEscape escapes a literal '+' as %2B so any remaining '+' is an encoded space
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
