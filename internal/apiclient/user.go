package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/hayabusatrip/gateway/internal/domain"
	"github.com/hayabusatrip/gateway/internal/upload"
)

// UserAPI defines the account operations the service layer depends on.
type UserAPI interface {
	// GetUser retrieves the account record for uid.
	GetUser(ctx context.Context, idToken, uid string) (domain.User, error)

	// CreateUser registers a new account record for an authenticated subject.
	CreateUser(ctx context.Context, idToken string, params domain.CreateUserParams) (domain.User, error)

	// UpdateUser applies a partial update. When icon is non-nil it is
	// uploaded first and attached as icon_path, sequenced like trip images.
	UpdateUser(ctx context.Context, idToken, uid string, patch domain.UserPatch, icon *domain.ImageFile) (domain.User, error)

	// DeleteUser removes the account record for uid.
	DeleteUser(ctx context.Context, idToken, uid string) error
}

type userRequest[T any] struct {
	User T `json:"user"`
}

// GetUser retrieves an account record.
func (c *Client) GetUser(ctx context.Context, idToken, uid string) (domain.User, error) {
	var u domain.User
	err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(uid), idToken, nil, &u)
	if err != nil {
		return domain.User{}, translate("apiclient.Client.GetUser", err, domain.ErrUserFetch)
	}
	return u, nil
}

// CreateUser registers an account record.
func (c *Client) CreateUser(ctx context.Context, idToken string, params domain.CreateUserParams) (domain.User, error) {
	var u domain.User
	err := c.do(ctx, http.MethodPost, "/users", idToken, userRequest[domain.CreateUserParams]{User: params}, &u)
	if err != nil {
		return domain.User{}, translate("apiclient.Client.CreateUser", err, domain.ErrUserCreate)
	}
	return u, nil
}

// UpdateUser applies a partial update, uploading the icon first when present.
func (c *Client) UpdateUser(ctx context.Context, idToken, uid string, patch domain.UserPatch, icon *domain.ImageFile) (domain.User, error) {
	if icon != nil {
		if c.uploader == nil {
			return domain.User{}, translate("apiclient.Client.UpdateUser", errNoUploader, domain.ErrUserUpdate)
		}
		iconURL, err := c.uploader.Upload(ctx, *icon, upload.UserIconKey(uid, *icon))
		if err != nil {
			return domain.User{}, translate("apiclient.Client.UpdateUser", err, domain.ErrUserUpdate)
		}
		patch.IconPath = &iconURL
	}

	var u domain.User
	err := c.do(ctx, http.MethodPatch, "/users/"+url.PathEscape(uid), idToken, userRequest[domain.UserPatch]{User: patch}, &u)
	if err != nil {
		return domain.User{}, translate("apiclient.Client.UpdateUser", err, domain.ErrUserUpdate)
	}
	return u, nil
}

// DeleteUser removes an account record.
func (c *Client) DeleteUser(ctx context.Context, idToken, uid string) error {
	err := c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(uid), idToken, nil, nil)
	if err != nil {
		return translate("apiclient.Client.DeleteUser", err, domain.ErrUserDelete)
	}
	return nil
}

// compile-time check: Client must satisfy UserAPI.
var _ UserAPI = (*Client)(nil)
