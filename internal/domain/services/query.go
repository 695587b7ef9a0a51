package services

import (
	"context"
	"fmt"

	"github.com/fanbase/fanbase/internal/domain/entities"
	"github.com/fanbase/fanbase/internal/domain/errs"
	"github.com/fanbase/fanbase/internal/domain/ports"
)

// CharacterDetail is the read-model for a character page: the character plus
// its relationship edges and approved lore entries.
type CharacterDetail struct {
	entities.Character
	Relationships []entities.CharacterEdge `json:"relationships"`
	LoreEntries   []*entities.LoreEntry    `json:"lore_entries"`
}

// LoreEntryDetail is the read-model for a lore entry page.
type LoreEntryDetail struct {
	entities.LoreEntry
	RelatedCharacters []*entities.Character `json:"related_characters"`
	Comments          []entities.Comment    `json:"comments"`
}

// TheoryDetail is the read-model for a theory page.
type TheoryDetail struct {
	entities.Theory
	Comments   []entities.Comment `json:"comments"`
	HasUpvoted bool               `json:"has_upvoted"`
}

// QueryService assembles the read-models the presentation layer renders.
// It is the only component combining the relationship graph, the association
// index and the engagement aggregator, and it enforces the approval gate:
// unapproved content is only ever visible to its creator.
type QueryService struct {
	store         ports.Store
	relationships *RelationshipService
	associations  *AssociationService
	engagement    *EngagementService
}

// NewQueryService creates a new QueryService.
func NewQueryService(
	store ports.Store,
	relationships *RelationshipService,
	associations *AssociationService,
	engagement *EngagementService,
) *QueryService {
	return &QueryService{
		store:         store,
		relationships: relationships,
		associations:  associations,
		engagement:    engagement,
	}
}

// CharacterDetail returns a character with its edges and approved lore.
// Unapproved lore never appears here regardless of caller.
func (s *QueryService) CharacterDetail(ctx context.Context, characterID string) (*CharacterDetail, error) {
	character, err := s.store.FindCharacterByID(ctx, characterID)
	if err != nil {
		return nil, fmt.Errorf("finding character: %w", err)
	}
	if character == nil {
		return nil, errs.NotFound("character", characterID)
	}

	edges, err := s.relationships.EdgesForCharacter(ctx, characterID)
	if err != nil {
		return nil, fmt.Errorf("listing edges: %w", err)
	}

	lore, err := s.associations.LoreEntriesForCharacter(ctx, characterID)
	if err != nil {
		return nil, fmt.Errorf("listing lore entries: %w", err)
	}
	approved := make([]*entities.LoreEntry, 0, len(lore))
	for _, entry := range lore {
		if entry.IsApproved {
			approved = append(approved, entry)
		}
	}

	return &CharacterDetail{
		Character:     *character,
		Relationships: edges,
		LoreEntries:   approved,
	}, nil
}

// LoreEntryDetail returns a lore entry with its related characters and
// comments. Unapproved entries resolve only for their creator (preview
// before approval); everyone else gets a NotFoundError.
func (s *QueryService) LoreEntryDetail(ctx context.Context, loreEntryID, callerID string) (*LoreEntryDetail, error) {
	entry, err := s.store.FindLoreEntryByID(ctx, loreEntryID)
	if err != nil {
		return nil, fmt.Errorf("finding lore entry: %w", err)
	}
	if entry == nil || !visibleTo(entry.IsApproved, entry.CreatorID, callerID) {
		return nil, errs.NotFound("lore entry", loreEntryID)
	}

	characters, err := s.associations.CharactersForLoreEntry(ctx, loreEntryID)
	if err != nil {
		return nil, fmt.Errorf("listing related characters: %w", err)
	}

	comments, err := s.engagement.Comments(ctx, entities.CommentParent{LoreEntryID: loreEntryID})
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}

	return &LoreEntryDetail{
		LoreEntry:         *entry,
		RelatedCharacters: characters,
		Comments:          comments,
	}, nil
}

// TheoryDetail returns a theory with its comments and whether the caller has
// upvoted it. Approval gating matches LoreEntryDetail; an anonymous caller
// always sees HasUpvoted false.
func (s *QueryService) TheoryDetail(ctx context.Context, theoryID, callerID string) (*TheoryDetail, error) {
	theory, err := s.store.FindTheoryByID(ctx, theoryID)
	if err != nil {
		return nil, fmt.Errorf("finding theory: %w", err)
	}
	if theory == nil || !visibleTo(theory.IsApproved, theory.CreatorID, callerID) {
		return nil, errs.NotFound("theory", theoryID)
	}

	comments, err := s.engagement.Comments(ctx, entities.CommentParent{TheoryID: theoryID})
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}

	hasUpvoted, err := s.engagement.HasVoted(ctx, callerID, theoryID)
	if err != nil {
		return nil, fmt.Errorf("checking vote: %w", err)
	}

	return &TheoryDetail{
		Theory:     *theory,
		Comments:   comments,
		HasUpvoted: hasUpvoted,
	}, nil
}

// visibleTo applies the approval gate: approved content is public, pending
// content is creator-only.
func visibleTo(approved bool, creatorID, callerID string) bool {
	return approved || (callerID != "" && callerID == creatorID)
}
