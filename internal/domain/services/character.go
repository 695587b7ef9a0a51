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

// CharacterService manages character creation and listing.
type CharacterService struct {
	store ports.Store
}

// NewCharacterService creates a new CharacterService.
func NewCharacterService(store ports.Store) *CharacterService {
	return &CharacterService{store: store}
}

// CreateCharacterParams carries the fields for a new character.
type CreateCharacterParams struct {
	Name            string
	Alias           string
	Description     string
	PortraitURL     string
	FirstAppearance string
	SeriesID        string
	IsRobotMaster   bool
	IsMaverick      bool
	IsHuman         bool
	IsReploid       bool
	CreatedBy       string
}

// Create adds a character to the archive.
func (s *CharacterService) Create(ctx context.Context, params CreateCharacterParams) (*entities.Character, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, errs.Validation("character name is required")
	}
	if params.SeriesID == "" {
		return nil, errs.Validation("series id is required")
	}

	series, err := s.store.FindSeriesByID(ctx, params.SeriesID)
	if err != nil {
		return nil, fmt.Errorf("checking series: %w", err)
	}
	if series == nil {
		return nil, errs.NotFound("series", params.SeriesID)
	}

	character := &entities.Character{
		ID:              uuid.New().String(),
		Name:            strings.TrimSpace(params.Name),
		Alias:           params.Alias,
		Description:     params.Description,
		PortraitURL:     params.PortraitURL,
		FirstAppearance: params.FirstAppearance,
		SeriesID:        params.SeriesID,
		IsRobotMaster:   params.IsRobotMaster,
		IsMaverick:      params.IsMaverick,
		IsHuman:         params.IsHuman,
		IsReploid:       params.IsReploid,
		CreatedBy:       params.CreatedBy,
		CreatedAt:       time.Now(),
	}
	if err := s.store.SaveCharacter(ctx, character); err != nil {
		return nil, fmt.Errorf("saving character: %w", err)
	}
	character.Series = series
	return character, nil
}

// Get finds a character by ID.
func (s *CharacterService) Get(ctx context.Context, characterID string) (*entities.Character, error) {
	character, err := s.store.FindCharacterByID(ctx, characterID)
	if err != nil {
		return nil, fmt.Errorf("finding character: %w", err)
	}
	if character == nil {
		return nil, errs.NotFound("character", characterID)
	}
	return character, nil
}

// List returns characters ordered by name, optionally filtered by series.
func (s *CharacterService) List(ctx context.Context, seriesID string) ([]*entities.Character, error) {
	return s.store.ListCharacters(ctx, seriesID)
}
