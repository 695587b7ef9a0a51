package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fanbase/fanbase/internal/domain/entities"
	"github.com/fanbase/fanbase/internal/domain/errs"
	"github.com/fanbase/fanbase/internal/domain/ports"
	"github.com/google/uuid"
)

// APIKeyService manages per-user keys for external services. Keys are only
// ever visible to their owner; every operation requires the caller's user ID.
type APIKeyService struct {
	store ports.Store
}

// NewAPIKeyService creates a new APIKeyService.
func NewAPIKeyService(store ports.Store) *APIKeyService {
	return &APIKeyService{store: store}
}

// Save stores the caller's key for a service. A user holds at most one key
// per service; saving again replaces the value and reactivates the key while
// the original row keeps its ID.
func (s *APIKeyService) Save(ctx context.Context, userID, serviceName, key string) (*entities.APIKey, error) {
	if userID == "" {
		return nil, errs.Validation("user id is required")
	}
	serviceName = strings.TrimSpace(serviceName)
	if serviceName == "" {
		return nil, errs.Validation("service name is required")
	}
	if strings.TrimSpace(key) == "" {
		return nil, errs.Validation("api key is required")
	}

	now := time.Now()
	if err := s.store.SaveAPIKey(ctx, &entities.APIKey{
		ID:          uuid.New().String(),
		UserID:      userID,
		ServiceName: serviceName,
		Key:         key,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err != nil {
		return nil, fmt.Errorf("saving api key: %w", err)
	}

	// Read back so a replaced row returns its surviving ID
	saved, err := s.store.FindAPIKeyByService(ctx, userID, serviceName)
	if err != nil {
		return nil, fmt.Errorf("finding api key: %w", err)
	}
	return saved, nil
}

// List returns the caller's keys newest first.
func (s *APIKeyService) List(ctx context.Context, userID string) ([]*entities.APIKey, error) {
	if userID == "" {
		return nil, errs.Validation("user id is required")
	}
	return s.store.ListAPIKeys(ctx, userID)
}

// SetActive flips the active flag on one of the caller's keys.
func (s *APIKeyService) SetActive(ctx context.Context, userID, id string, active bool) error {
	if userID == "" {
		return errs.Validation("user id is required")
	}
	return s.store.SetAPIKeyActive(ctx, userID, id, active)
}

// Delete removes one of the caller's keys.
func (s *APIKeyService) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return errs.Validation("user id is required")
	}
	return s.store.DeleteAPIKey(ctx, userID, id)
}
