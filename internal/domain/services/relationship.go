// Package services contains the domain services composing the store into
// the operations the presentation layer consumes.
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

// RelationshipService manages typed relationship edges between characters.
type RelationshipService struct {
	store ports.Store
}

// NewRelationshipService creates a new RelationshipService.
func NewRelationshipService(store ports.Store) *RelationshipService {
	return &RelationshipService{store: store}
}

// AddEdge creates a directed relationship edge between two characters.
// Edges are strictly directional, but a second edge with the same type
// between the same unordered pair is a semantic double-entry and fails with
// a ConflictError; callers wanting an asymmetric pairing use distinct types.
func (s *RelationshipService) AddEdge(ctx context.Context, sourceID, targetID, edgeType, description string) (*entities.RelationshipEdge, error) {
	edgeType = strings.TrimSpace(edgeType)
	if edgeType == "" {
		return nil, errs.Validation("relationship type is required")
	}
	if sourceID == targetID {
		return nil, errs.Validation("a character cannot have a relationship with itself")
	}

	source, err := s.store.FindCharacterByID(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("checking source character: %w", err)
	}
	if source == nil {
		return nil, errs.NotFound("character", sourceID)
	}

	target, err := s.store.FindCharacterByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("checking target character: %w", err)
	}
	if target == nil {
		return nil, errs.NotFound("character", targetID)
	}

	existing, err := s.store.FindEdgeBetween(ctx, sourceID, targetID, edgeType)
	if err != nil {
		return nil, fmt.Errorf("checking existing edge: %w", err)
	}
	if existing != nil {
		return nil, errs.Conflict("a %q relationship already exists between these characters (id: %s)", edgeType, existing.ID)
	}

	edge := &entities.RelationshipEdge{
		ID:                uuid.New().String(),
		SourceCharacterID: sourceID,
		TargetCharacterID: targetID,
		Type:              edgeType,
		Description:       strings.TrimSpace(description),
		CreatedAt:         time.Now(),
	}

	if err := s.store.SaveEdge(ctx, edge); err != nil {
		return nil, fmt.Errorf("saving edge: %w", err)
	}
	return edge, nil
}

// EdgesForCharacter returns every edge touching the character, viewed from
// its perspective: Direction is "outgoing" when the character is the source
// and "incoming" when it is the target, with the other endpoint resolved.
func (s *RelationshipService) EdgesForCharacter(ctx context.Context, characterID string) ([]entities.CharacterEdge, error) {
	character, err := s.store.FindCharacterByID(ctx, characterID)
	if err != nil {
		return nil, fmt.Errorf("checking character: %w", err)
	}
	if character == nil {
		return nil, errs.NotFound("character", characterID)
	}

	edges, err := s.store.FindEdgesByCharacter(ctx, characterID)
	if err != nil {
		return nil, fmt.Errorf("finding edges: %w", err)
	}

	// Resolve each counterpart once even when several edges share it.
	others := make(map[string]*entities.Character)
	result := make([]entities.CharacterEdge, 0, len(edges))
	for i := range edges {
		direction := entities.DirectionOutgoing
		otherID := edges[i].TargetCharacterID
		if edges[i].TargetCharacterID == characterID {
			direction = entities.DirectionIncoming
			otherID = edges[i].SourceCharacterID
		}

		other, ok := others[otherID]
		if !ok {
			other, err = s.store.FindCharacterByID(ctx, otherID)
			if err != nil {
				return nil, fmt.Errorf("resolving character %s: %w", otherID, err)
			}
			others[otherID] = other
		}

		result = append(result, entities.CharacterEdge{
			EdgeID:      edges[i].ID,
			Type:        edges[i].Type,
			Description: edges[i].Description,
			Direction:   direction,
			Character:   other,
		})
	}
	return result, nil
}

// RemoveEdge deletes an edge by ID. Removing a missing edge fails with a
// NotFoundError; the operation is deliberately not idempotent.
func (s *RelationshipService) RemoveEdge(ctx context.Context, edgeID string) error {
	return s.store.DeleteEdge(ctx, edgeID)
}
