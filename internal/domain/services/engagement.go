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

// EngagementService manages comments and votes. Votes are a toggle per
// (user, theory) pair; the theory's upvote counter is adjusted in the same
// storage transaction as the vote row so the two can never drift apart.
type EngagementService struct {
	store ports.Store
}

// NewEngagementService creates a new EngagementService.
func NewEngagementService(store ports.Store) *EngagementService {
	return &EngagementService{store: store}
}

// AddComment appends a comment to exactly one parent. Comment counts are
// computed on read, so no counter maintenance happens here.
func (s *EngagementService) AddComment(ctx context.Context, content, userID string, parent entities.CommentParent) (*entities.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errs.Validation("comment content is required")
	}
	if userID == "" {
		return nil, errs.Validation("user id is required")
	}
	if !parent.Valid() {
		return nil, errs.Validation("a comment must attach to exactly one of a lore entry or a theory")
	}

	if parent.LoreEntryID != "" {
		entry, err := s.store.FindLoreEntryByID(ctx, parent.LoreEntryID)
		if err != nil {
			return nil, fmt.Errorf("checking lore entry: %w", err)
		}
		if entry == nil {
			return nil, errs.NotFound("lore entry", parent.LoreEntryID)
		}
	} else {
		theory, err := s.store.FindTheoryByID(ctx, parent.TheoryID)
		if err != nil {
			return nil, fmt.Errorf("checking theory: %w", err)
		}
		if theory == nil {
			return nil, errs.NotFound("theory", parent.TheoryID)
		}
	}

	comment := &entities.Comment{
		ID:          uuid.New().String(),
		Content:     content,
		UserID:      userID,
		LoreEntryID: parent.LoreEntryID,
		TheoryID:    parent.TheoryID,
		CreatedAt:   time.Now(),
	}
	if err := s.store.SaveComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("saving comment: %w", err)
	}
	return comment, nil
}

// Comments lists a parent's comments in creation order, oldest first.
func (s *EngagementService) Comments(ctx context.Context, parent entities.CommentParent) ([]entities.Comment, error) {
	if !parent.Valid() {
		return nil, errs.Validation("a comment parent must be exactly one of a lore entry or a theory")
	}
	if parent.LoreEntryID != "" {
		return s.store.FindCommentsByLoreEntry(ctx, parent.LoreEntryID)
	}
	return s.store.FindCommentsByTheory(ctx, parent.TheoryID)
}

// ToggleVote flips the user's vote on a theory and returns the post-toggle
// state. Two consecutive calls with the same arguments restore both the vote
// row and the counter to their original values.
func (s *EngagementService) ToggleVote(ctx context.Context, userID, theoryID string) (*entities.VoteResult, error) {
	if userID == "" {
		return nil, errs.Validation("user id is required")
	}

	theory, err := s.store.FindTheoryByID(ctx, theoryID)
	if err != nil {
		return nil, fmt.Errorf("checking theory: %w", err)
	}
	if theory == nil {
		return nil, errs.NotFound("theory", theoryID)
	}

	return s.store.ToggleVote(ctx, userID, theoryID)
}

// HasVoted reports whether the user currently has a vote on the theory.
// An empty user ID (anonymous caller) is never a voter.
func (s *EngagementService) HasVoted(ctx context.Context, userID, theoryID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	return s.store.HasVoted(ctx, userID, theoryID)
}
