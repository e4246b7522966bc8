// Package api exposes typed services over the request pipeline, one per
// backend resource. Services project the envelope's data payload into
// typed responses; error handling and loading tracking live in the
// pipeline.
package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nncoach/client-core/internal/httpx"
	"github.com/nncoach/client-core/internal/model"
	"github.com/nncoach/client-core/internal/session"
)

// AuthService handles signup, login and session refresh. Successful
// authentication persists the session, which re-keys the storage
// partition and re-hydrates the client state.
type AuthService struct {
	client   *httpx.Client
	sessions *session.Manager
}

func NewAuthService(client *httpx.Client, sessions *session.Manager) *AuthService {
	return &AuthService{client: client, sessions: sessions}
}

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest is the registration payload.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type authPayload struct {
	Token string         `json:"token"`
	User  *model.Profile `json:"user"`
}

func (s *AuthService) Login(ctx context.Context, creds Credentials) (*model.Profile, error) {
	data, err := s.client.Post(ctx, "/auth/login", creds)
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, data)
}

func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*model.Profile, error) {
	data, err := s.client.Post(ctx, "/auth/signup", req)
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, data)
}

func (s *AuthService) establish(ctx context.Context, data json.RawMessage) (*model.Profile, error) {
	var p authPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode auth payload: %w", err)
	}
	s.sessions.Save(ctx, p.Token, p.User)
	return p.User, nil
}

// Me fetches the current profile and refreshes the cached copy.
func (s *AuthService) Me(ctx context.Context) (*model.Profile, error) {
	data, err := s.client.Get(ctx, "/auth/me")
	if err != nil {
		return nil, err
	}
	var user model.Profile
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	s.sessions.UpdateUser(ctx, &user)
	return &user, nil
}

// Logout destroys the local session. The backend is stateless about
// logouts; no API call is made.
func (s *AuthService) Logout(ctx context.Context) {
	s.sessions.Clear(ctx)
}
