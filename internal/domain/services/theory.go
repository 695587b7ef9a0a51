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

// TheoryService manages fan theory creation and listing.
type TheoryService struct {
	store ports.Store
}

// NewTheoryService creates a new TheoryService.
func NewTheoryService(store ports.Store) *TheoryService {
	return &TheoryService{store: store}
}

// CreateTheoryParams carries the fields for a new theory.
type CreateTheoryParams struct {
	Title             string
	Description       string
	BranchingPoint    string
	AlternateTimeline string
	CreatorID         string
}

// Create adds a theory. Theories start unapproved with zero upvotes.
func (s *TheoryService) Create(ctx context.Context, params CreateTheoryParams) (*entities.Theory, error) {
	if strings.TrimSpace(params.Title) == "" {
		return nil, errs.Validation("theory title is required")
	}
	if strings.TrimSpace(params.Description) == "" {
		return nil, errs.Validation("theory description is required")
	}
	if params.CreatorID == "" {
		return nil, errs.Validation("creator id is required")
	}

	now := time.Now()
	theory := &entities.Theory{
		ID:                uuid.New().String(),
		Title:             strings.TrimSpace(params.Title),
		Description:       params.Description,
		BranchingPoint:    params.BranchingPoint,
		AlternateTimeline: params.AlternateTimeline,
		CreatorID:         params.CreatorID,
		IsApproved:        false,
		Upvotes:           0,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.store.SaveTheory(ctx, theory); err != nil {
		return nil, fmt.Errorf("saving theory: %w", err)
	}
	return theory, nil
}

// List returns approved theories ordered by upvotes descending.
func (s *TheoryService) List(ctx context.Context) ([]*entities.Theory, error) {
	return s.store.ListApprovedTheories(ctx)
}
