package client

import (
	"fmt"
	"net/http"

	"github.com/dkmwangi/cabride-backend/internal/models"
)

// Session is the explicit current-user context handed to each role view at
// construction. It is established by Login and invalidated by Logout; there
// is no ad-hoc global identifier.
type Session struct {
	UserID   uint
	Username string
	Role     models.Role
	Token    string
}

// Valid reports whether the session still identifies a user.
func (s *Session) Valid() bool {
	return s != nil && s.UserID != 0
}

type loginResponse struct {
	UserID   uint   `json:"userid"`
	UserRole int    `json:"userrole"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// Login authenticates against the service and returns the session context.
func (g *Gateway) Login(email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}

	var resp loginResponse
	if err := g.do(http.MethodPost, "/users/userlogin", body, &resp); err != nil {
		return nil, err
	}

	role, err := models.ParseRole(resp.UserRole)
	if err != nil {
		return nil, fmt.Errorf("login response: %w", err)
	}

	return &Session{
		UserID:   resp.UserID,
		Username: resp.Username,
		Role:     role,
		Token:    resp.Token,
	}, nil
}

// Logout clears the server-side session and invalidates the local context.
func (g *Gateway) Logout(s *Session) error {
	if !s.Valid() {
		return nil
	}
	if err := g.WithToken(s.Token).do(http.MethodPost, "/users/logout", nil, nil); err != nil {
		return err
	}
	*s = Session{}
	return nil
}
