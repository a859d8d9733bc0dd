package supabase

import (
	"context"
	"encoding/json"
	"fmt"
)

// GetUser resolves an access token to the user it belongs to. An invalid or
// expired token comes back as an *Error from the auth service.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	ac := c.WithToken(accessToken)

	respBody, _, statusCode, err := ac.do(ctx, "GET", c.authURL+"/user", nil, nil)
	if err != nil {
		return nil, err
	}
	if statusCode >= 400 {
		return nil, parseError(respBody, statusCode)
	}

	var user User
	if err := json.Unmarshal(respBody, &user); err != nil {
		return nil, fmt.Errorf("supabase: unmarshal user: %w", err)
	}

	return &user, nil
}
