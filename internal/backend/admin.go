package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// AdminUser is the auth backend's view of a user. Name metadata can live in
// either metadata bag depending on how the account was provisioned; both may
// be absent.
type AdminUser struct {
	ID              string         `json:"id"`
	Email           string         `json:"email"`
	UserMetadata    map[string]any `json:"user_metadata"`
	RawUserMetaData map[string]any `json:"raw_user_meta_data"`
}

// GetUserByID looks up an auth user through the admin endpoint. Requires the
// service-role key; with the anon-key fallback the backend will reject the
// call and callers are expected to degrade.
func (c *Client) GetUserByID(ctx context.Context, id string) (*AdminUser, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", id, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/admin/users/"+id, nil)
	if err != nil {
		return nil, err
	}
	c.setAuthHeaders(req, c.serviceKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, readError(resp)
	}

	var user AdminUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode admin user: %w", err)
	}
	return &user, nil
}
