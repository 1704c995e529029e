package storefront

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jafarshop/storefront/internal/domain"
)

// Comments lists the reviews of a product
func (c *Client) Comments(ctx context.Context, productID int64) ([]domain.Comment, error) {
	query := url.Values{}
	query.Set("product_id", strconv.FormatInt(productID, 10))

	resp, err := c.Do(ctx, http.MethodGet, PathComment, query, "", nil)
	if err != nil {
		return nil, err
	}

	var comments []domain.Comment
	if err := resp.Decode(&comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// SubmitComment posts a review as the token's owner
func (c *Client) SubmitComment(ctx context.Context, token string, req CommentRequest) error {
	resp, err := c.Do(ctx, http.MethodPut, PathComment, nil, token, req)
	if err != nil {
		return err
	}
	return resp.Decode(nil)
}
