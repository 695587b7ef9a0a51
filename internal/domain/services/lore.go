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

// LoreService manages lore entry creation and listing.
type LoreService struct {
	store        ports.Store
	associations *AssociationService
}

// NewLoreService creates a new LoreService.
func NewLoreService(store ports.Store, associations *AssociationService) *LoreService {
	return &LoreService{store: store, associations: associations}
}

// CreateLoreParams carries the fields for a new lore entry. CharacterIDs
// lists characters to associate in the same call.
type CreateLoreParams struct {
	Title        string
	Content      string
	SeriesID     string
	Tags         []string
	Sources      []string
	CreatorID    string
	CharacterIDs []string
}

// Create adds a lore entry. Entries start unapproved and stay hidden from
// everyone but their creator until moderation approves them. Tags must come
// from the controlled vocabulary.
func (s *LoreService) Create(ctx context.Context, params CreateLoreParams) (*entities.LoreEntry, error) {
	if strings.TrimSpace(params.Title) == "" {
		return nil, errs.Validation("lore entry title is required")
	}
	if strings.TrimSpace(params.Content) == "" {
		return nil, errs.Validation("lore entry content is required")
	}
	if params.CreatorID == "" {
		return nil, errs.Validation("creator id is required")
	}
	for _, tag := range params.Tags {
		if !entities.IsValidLoreTag(tag) {
			return nil, errs.Validation("unknown lore tag: %q", tag)
		}
	}

	if params.SeriesID != "" {
		series, err := s.store.FindSeriesByID(ctx, params.SeriesID)
		if err != nil {
			return nil, fmt.Errorf("checking series: %w", err)
		}
		if series == nil {
			return nil, errs.NotFound("series", params.SeriesID)
		}
	}

	now := time.Now()
	entry := &entities.LoreEntry{
		ID:         uuid.New().String(),
		Title:      strings.TrimSpace(params.Title),
		Content:    params.Content,
		SeriesID:   params.SeriesID,
		Tags:       params.Tags,
		Sources:    params.Sources,
		CreatorID:  params.CreatorID,
		IsApproved: false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.SaveLoreEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("saving lore entry: %w", err)
	}

	for _, characterID := range params.CharacterIDs {
		if _, err := s.associations.Associate(ctx, characterID, entry.ID); err != nil {
			return nil, fmt.Errorf("associating character %s: %w", characterID, err)
		}
	}
	return entry, nil
}

// List returns approved lore entries newest first, optionally filtered by
// series and tag.
func (s *LoreService) List(ctx context.Context, seriesID, tag string) ([]*entities.LoreEntry, error) {
	return s.store.ListLoreEntries(ctx, ports.LoreFilter{
		SeriesID:     seriesID,
		Tag:          tag,
		ApprovedOnly: true,
	})
}
