package apiclient

import (
	"context"
	"net/http"

	"github.com/pkordes/wanderkart/backend/internal/domain"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type userResponse struct {
	User domain.User `json:"user"`
}

// Register creates an account and starts a session.
func (c *Client) Register(ctx context.Context, email, password, name string) (domain.User, error) {
	var out userResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/register", credentials{Email: email, Password: password, Name: name}, &out)
	return out.User, err
}

// Login starts a session; the cookie is kept in the client's jar.
func (c *Client) Login(ctx context.Context, email, password string) (domain.User, error) {
	var out userResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", credentials{Email: email, Password: password}, &out)
	return out.User, err
}

// Logout ends the session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}
