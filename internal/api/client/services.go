package client

import (
	"context"
	"net/url"
	"strings"

	domain "github.com/donaldgifford/clicklar/pkg/types"
)

// ListServicesParams defines the public listing filters.
type ListServicesParams struct {
	// Category filters by category name. Empty or domain.AllCategories
	// means no category filter.
	Category string
	// Search is a free-text term. Blank means no text filter.
	Search string
}

// Query encodes the params as URL query values, omitting unset filters.
func (p *ListServicesParams) Query() url.Values {
	q := url.Values{}
	if p == nil {
		return q
	}
	if p.Category != "" && p.Category != domain.AllCategories {
		q.Set("category", p.Category)
	}
	if s := strings.TrimSpace(p.Search); s != "" {
		q.Set("search", s)
	}
	return q
}

// ListPublicServices returns public listings matching the given filters.
func (c *Client) ListPublicServices(
	ctx context.Context,
	params *ListServicesParams,
) ([]domain.Listing, error) {
	path := "/services/public"
	if q := params.Query(); len(q) > 0 {
		path += "?" + q.Encode()
	}

	var listings []domain.Listing
	if err := c.get(ctx, path, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// GetPublicService returns a single listing by ID.
func (c *Client) GetPublicService(ctx context.Context, id string) (*domain.Listing, error) {
	var l domain.Listing
	if err := c.get(ctx, "/services/public/"+url.PathEscape(id), &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// ListCategories returns the server's category names, without the
// AllCategories sentinel.
func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.get(ctx, "/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// MyServices returns the authenticated user's own listings.
func (c *Client) MyServices(ctx context.Context) ([]domain.Listing, error) {
	var listings []domain.Listing
	if err := c.get(ctx, "/services/private/mine", &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// CreateService publishes a new listing owned by the authenticated user.
func (c *Client) CreateService(
	ctx context.Context,
	in *domain.ServiceInput,
) (*domain.Listing, error) {
	var created domain.Listing
	if err := c.post(ctx, "/services/private", in, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateService edits a listing owned by the authenticated user.
func (c *Client) UpdateService(
	ctx context.Context,
	id string,
	in *domain.ServiceInput,
) (*domain.Listing, error) {
	var updated domain.Listing
	if err := c.put(ctx, "/services/private/"+url.PathEscape(id), in, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteService deletes a listing owned by the authenticated user.
func (c *Client) DeleteService(ctx context.Context, id string) error {
	return c.del(ctx, "/services/private/"+url.PathEscape(id), nil)
}

// RateService records the authenticated user's 1-5 star rating of a listing.
func (c *Client) RateService(ctx context.Context, id string, stars int) error {
	body := domain.Rating{Rating: stars}
	return c.post(ctx, "/services/private/"+url.PathEscape(id)+"/rate", body, nil)
}
