package storefront

import (
	"context"
	"net/http"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/pkg/errors"
)

type createAddressResponse struct {
	ID int64 `json:"id"`
}

// CreateAddress stores a shipping address and returns its id. A 2xx answer
// without an id is a failure.
func (c *Client) CreateAddress(ctx context.Context, token string, addr domain.Address) (int64, error) {
	resp, err := c.Do(ctx, http.MethodPut, PathAddress, nil, token, addr)
	if err != nil {
		return 0, err
	}

	if !resp.OK() {
		if resp.StatusCode == http.StatusUnauthorized {
			return 0, resp.Err()
		}
		return 0, errors.WithMessage(resp.Err().Code, resp.StatusCode, resp.ErrorMessage())
	}

	var out createAddressResponse
	if err := resp.Decode(&out); err != nil {
		return 0, err
	}
	if out.ID == 0 {
		return 0, errors.New(errors.CodeMalformedResponse, resp.StatusCode, nil)
	}
	return out.ID, nil
}
