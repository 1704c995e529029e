package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/pkg/errors"
)

// CheckoutInfo fetches shipping and payment options for an address
func (c *Client) CheckoutInfo(ctx context.Context, token string, addressID int64) (*domain.CheckoutInfo, error) {
	query := url.Values{}
	query.Set("address_id", strconv.FormatInt(addressID, 10))

	resp, err := c.Do(ctx, http.MethodGet, PathCartCheckout, query, token, nil)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return nil, errors.New(errors.CodeAddressNotFound, resp.StatusCode, nil)
	case http.StatusUnprocessableEntity:
		return nil, errors.New(errors.CodeAddressInvalid, resp.StatusCode, nil)
	}

	var info domain.CheckoutInfo
	if err := resp.Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}

// AddToCart puts a variety in the server-side cart
func (c *Client) AddToCart(ctx context.Context, token string, varietyID int64, quantity int) error {
	body := AddToCartRequest{
		VarietyID: varietyID,
		Quantity:  quantity,
		UnitID:    DefaultUnitID,
	}

	resp, err := c.Do(ctx, http.MethodPut, PathCartIndex, nil, token, body)
	if err != nil {
		return err
	}
	return resp.Decode(nil)
}

// CompleteCheckout submits the order. The parsed body is returned as is in
// Raw; RedirectURL, Success and OrderID are read from either the top level
// or data.
func (c *Client) CompleteCheckout(ctx context.Context, token string, req domain.CheckoutRequest) (*domain.CheckoutResult, error) {
	resp, err := c.Do(ctx, http.MethodPost, PathCart, nil, token, req)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	raw := map[string]interface{}{}
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &raw); err != nil {
			return nil, errors.New(errors.CodeMalformedResponse, resp.StatusCode, err)
		}
	}

	result := &domain.CheckoutResult{Raw: raw, Success: true}
	readCheckoutFields(raw, result)
	if data, ok := raw["data"].(map[string]interface{}); ok {
		readCheckoutFields(data, result)
	}
	return result, nil
}

func readCheckoutFields(m map[string]interface{}, result *domain.CheckoutResult) {
	if v, ok := m["redirect_url"].(string); ok && v != "" {
		result.RedirectURL = v
	}
	if v, ok := m["success"].(bool); ok {
		result.Success = v
	}
	switch v := m["order_id"].(type) {
	case float64:
		result.OrderID = int64(v)
	case string:
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			result.OrderID = id
		}
	}
}
