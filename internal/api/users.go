package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nncoach/client-core/internal/httpx"
	"github.com/nncoach/client-core/internal/model"
	"github.com/nncoach/client-core/internal/session"
)

// UserService manages the user resource, including the profile setup
// step the navigation gate depends on.
type UserService struct {
	client   *httpx.Client
	sessions *session.Manager
}

func NewUserService(client *httpx.Client, sessions *session.Manager) *UserService {
	return &UserService{client: client, sessions: sessions}
}

// ProfileUpdate carries the fields collected by profile setup.
type ProfileUpdate struct {
	Gender        string  `json:"gender"`
	BirthDate     string  `json:"birthDate"`
	Height        float64 `json:"height"`
	Weight        float64 `json:"weight"`
	ActivityLevel string  `json:"activityLevel"`
	GoalType      string  `json:"goalType"`
}

// Get fetches a user profile by id.
func (s *UserService) Get(ctx context.Context, id int64) (*model.Profile, error) {
	data, err := s.client.Get(ctx, fmt.Sprintf("/users/%d", id))
	if err != nil {
		return nil, err
	}
	var user model.Profile
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &user, nil
}

// UpdateProfile submits profile setup and refreshes the cached session
// profile, which unblocks routes that require a complete profile.
func (s *UserService) UpdateProfile(ctx context.Context, id int64, update ProfileUpdate) (*model.Profile, error) {
	data, err := s.client.Put(ctx, fmt.Sprintf("/users/%d/profile", id), update)
	if err != nil {
		return nil, err
	}
	var user model.Profile
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	s.sessions.UpdateUser(ctx, &user)
	return &user, nil
}
