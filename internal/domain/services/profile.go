package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/fanbase/fanbase/internal/domain/entities"
	"github.com/fanbase/fanbase/internal/domain/errs"
	"github.com/fanbase/fanbase/internal/domain/ports"
)

// ProfileService manages profile rows keyed by the identity provider's user
// ID. Authentication itself is external; the user ID arriving here is
// trusted as given.
type ProfileService struct {
	store ports.Store
}

// NewProfileService creates a new ProfileService.
func NewProfileService(store ports.Store) *ProfileService {
	return &ProfileService{store: store}
}

// Get finds a profile by user ID.
func (s *ProfileService) Get(ctx context.Context, userID string) (*entities.Profile, error) {
	profile, err := s.store.FindProfileByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("finding profile: %w", err)
	}
	if profile == nil {
		return nil, errs.NotFound("profile", userID)
	}
	return profile, nil
}

// Upsert creates or updates the caller's profile row.
func (s *ProfileService) Upsert(ctx context.Context, userID, username, avatarURL, bio string) (*entities.Profile, error) {
	if userID == "" {
		return nil, errs.Validation("user id is required")
	}
	if strings.TrimSpace(username) == "" {
		return nil, errs.Validation("username is required")
	}

	existing, err := s.store.FindProfileByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("finding profile: %w", err)
	}
	role := entities.RoleUser
	if existing != nil {
		role = existing.Role
	}

	profile := entities.NewProfile(userID, strings.TrimSpace(username), avatarURL, bio, role)
	if err := s.store.SaveProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("saving profile: %w", err)
	}
	return profile, nil
}
