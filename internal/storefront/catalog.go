package storefront

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jafarshop/storefront/internal/domain"
)

// Categories fetches the category tree
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	resp, err := c.Do(ctx, http.MethodGet, PathCategory, nil, "", nil)
	if err != nil {
		return nil, err
	}

	var categories []domain.Category
	if err := resp.Decode(&categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Products fetches one page of the product list
func (c *Client) Products(ctx context.Context, q ProductQuery) (*domain.ProductPage, error) {
	query := url.Values{}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.Category != "" {
		query.Set("category", q.Category)
	}
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	if q.Sort != "" {
		query.Set("sort", q.Sort)
	}

	resp, err := c.Do(ctx, http.MethodGet, PathShop, query, "", nil)
	if err != nil {
		return nil, err
	}

	var page domain.ProductPage
	if err := resp.Decode(&page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Product fetches a product with its varieties
func (c *Client) Product(ctx context.Context, slug string) (*domain.Product, error) {
	resp, err := c.Do(ctx, http.MethodGet, PathShop+"/"+url.PathEscape(slug), nil, "", nil)
	if err != nil {
		return nil, err
	}

	var product domain.Product
	if err := resp.Decode(&product); err != nil {
		return nil, err
	}
	return &product, nil
}
