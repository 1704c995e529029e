package storefront

import (
	"context"
	"net/http"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/pkg/errors"
)

// RequestCode asks the backend to send a login code to mobile
func (c *Client) RequestCode(ctx context.Context, mobile string) error {
	resp, err := c.Do(ctx, http.MethodPost, PathAuth, nil, "", AuthCodeRequest{Mobile: mobile})
	if err != nil {
		return err
	}
	return resp.Decode(nil)
}

// VerifyCode exchanges a login code for a bearer token
func (c *Client) VerifyCode(ctx context.Context, mobile, code string) (string, error) {
	resp, err := c.Do(ctx, http.MethodPost, PathAuthVerify, nil, "", AuthVerifyRequest{Mobile: mobile, Code: code})
	if err != nil {
		return "", err
	}

	var out AuthVerifyResponse
	if err := resp.Decode(&out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", errors.New(errors.CodeMalformedResponse, resp.StatusCode, nil)
	}
	return out.Token, nil
}

// GetUser fetches the profile of the token's owner
func (c *Client) GetUser(ctx context.Context, token string) (*domain.User, error) {
	resp, err := c.Do(ctx, http.MethodGet, PathUser, nil, token, nil)
	if err != nil {
		return nil, err
	}

	var user domain.User
	if err := resp.Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}
