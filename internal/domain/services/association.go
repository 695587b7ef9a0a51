package services

import (
	"context"
	"fmt"

	"github.com/fanbase/fanbase/internal/domain/entities"
	"github.com/fanbase/fanbase/internal/domain/errs"
	"github.com/fanbase/fanbase/internal/domain/ports"
)

// AssociationService manages the many-to-many linkage between characters and
// lore entries.
type AssociationService struct {
	store ports.Store
}

// NewAssociationService creates a new AssociationService.
func NewAssociationService(store ports.Store) *AssociationService {
	return &AssociationService{store: store}
}

// Associate links a character to a lore entry. The operation is idempotent:
// associating an already linked pair succeeds and leaves a single join row.
func (s *AssociationService) Associate(ctx context.Context, characterID, loreEntryID string) (*entities.CharacterLoreAssociation, error) {
	character, err := s.store.FindCharacterByID(ctx, characterID)
	if err != nil {
		return nil, fmt.Errorf("checking character: %w", err)
	}
	if character == nil {
		return nil, errs.NotFound("character", characterID)
	}

	entry, err := s.store.FindLoreEntryByID(ctx, loreEntryID)
	if err != nil {
		return nil, fmt.Errorf("checking lore entry: %w", err)
	}
	if entry == nil {
		return nil, errs.NotFound("lore entry", loreEntryID)
	}

	if err := s.store.SaveAssociation(ctx, characterID, loreEntryID); err != nil {
		return nil, fmt.Errorf("saving association: %w", err)
	}
	return &entities.CharacterLoreAssociation{
		CharacterID: characterID,
		LoreEntryID: loreEntryID,
	}, nil
}

// CharactersForLoreEntry resolves the characters linked to a lore entry,
// each with its series embedded for display coloring.
func (s *AssociationService) CharactersForLoreEntry(ctx context.Context, loreEntryID string) ([]*entities.Character, error) {
	return s.store.FindCharactersByLoreEntry(ctx, loreEntryID)
}

// LoreEntriesForCharacter resolves the lore entries linked to a character.
func (s *AssociationService) LoreEntriesForCharacter(ctx context.Context, characterID string) ([]*entities.LoreEntry, error) {
	return s.store.FindLoreEntriesByCharacter(ctx, characterID)
}
