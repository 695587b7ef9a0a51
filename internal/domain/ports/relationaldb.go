package ports

import (
	"context"

	"github.com/fanbase/fanbase/internal/domain/entities"
)

// LoreFilter narrows lore entry listings. Zero values mean "no filter".
type LoreFilter struct {
	SeriesID     string
	Tag          string
	ApprovedOnly bool
}

// Store defines the relational persistence contract for the archive. It is
// the only surface that issues storage queries; services never see SQL.
// Find methods return (nil, nil) when no row matches so callers can decide
// between NotFound and fallback behavior.
type Store interface {
	// EnsureSchema creates the database schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Close closes the database connection.
	Close() error

	// Series operations

	// SaveSeries saves or updates a series.
	SaveSeries(ctx context.Context, series *entities.Series) error

	// FindSeriesByID finds a series by its ID.
	FindSeriesByID(ctx context.Context, id string) (*entities.Series, error)

	// ListSeries lists all series ordered by name.
	ListSeries(ctx context.Context) ([]*entities.Series, error)

	// Character operations

	// SaveCharacter saves or updates a character.
	SaveCharacter(ctx context.Context, character *entities.Character) error

	// FindCharacterByID finds a character by ID with its series resolved.
	FindCharacterByID(ctx context.Context, id string) (*entities.Character, error)

	// ListCharacters lists characters ordered by name, optionally filtered
	// by series (empty seriesID means all).
	ListCharacters(ctx context.Context, seriesID string) ([]*entities.Character, error)

	// Relationship edge operations

	// SaveEdge inserts a relationship edge.
	SaveEdge(ctx context.Context, edge *entities.RelationshipEdge) error

	// FindEdgeByID finds an edge by its ID.
	FindEdgeByID(ctx context.Context, id string) (*entities.RelationshipEdge, error)

	// FindEdgesByCharacter finds every edge touching a character, in either
	// role, stable within a snapshot.
	FindEdgesByCharacter(ctx context.Context, characterID string) ([]entities.RelationshipEdge, error)

	// FindEdgeBetween finds an edge of the given type between two characters
	// in either direction. Returns nil if none exists.
	FindEdgeBetween(ctx context.Context, characterA, characterB, edgeType string) (*entities.RelationshipEdge, error)

	// DeleteEdge deletes an edge by ID. Deleting a missing edge is a
	// NotFoundError; repeated deletes after success fail.
	DeleteEdge(ctx context.Context, id string) error

	// Association operations

	// SaveAssociation links a character to a lore entry. Inserting an
	// existing pair is a no-op.
	SaveAssociation(ctx context.Context, characterID, loreEntryID string) error

	// FindCharactersByLoreEntry resolves the characters linked to a lore
	// entry, series embedded, de-duplicated.
	FindCharactersByLoreEntry(ctx context.Context, loreEntryID string) ([]*entities.Character, error)

	// FindLoreEntriesByCharacter resolves the lore entries linked to a
	// character, series embedded, de-duplicated.
	FindLoreEntriesByCharacter(ctx context.Context, characterID string) ([]*entities.LoreEntry, error)

	// Lore entry operations

	// SaveLoreEntry saves or updates a lore entry.
	SaveLoreEntry(ctx context.Context, entry *entities.LoreEntry) error

	// FindLoreEntryByID finds a lore entry by its ID.
	FindLoreEntryByID(ctx context.Context, id string) (*entities.LoreEntry, error)

	// ListLoreEntries lists lore entries newest first, narrowed by filter.
	ListLoreEntries(ctx context.Context, filter LoreFilter) ([]*entities.LoreEntry, error)

	// SetLoreApproval flips the approval flag on a lore entry. Reserved for
	// the external moderation actor.
	SetLoreApproval(ctx context.Context, id string, approved bool) error

	// Theory operations

	// SaveTheory saves or updates a theory.
	SaveTheory(ctx context.Context, theory *entities.Theory) error

	// FindTheoryByID finds a theory by its ID.
	FindTheoryByID(ctx context.Context, id string) (*entities.Theory, error)

	// ListApprovedTheories lists approved theories ordered by upvotes
	// descending.
	ListApprovedTheories(ctx context.Context) ([]*entities.Theory, error)

	// SetTheoryApproval flips the approval flag on a theory. Reserved for
	// the external moderation actor.
	SetTheoryApproval(ctx context.Context, id string, approved bool) error

	// Vote operations

	// ToggleVote creates or removes the (user, theory) vote row and adjusts
	// the theory's upvote counter in the same transaction, returning the
	// post-toggle state. The counter never drifts from the true row count.
	ToggleVote(ctx context.Context, userID, theoryID string) (*entities.VoteResult, error)

	// HasVoted reports whether a vote row exists for the pair.
	HasVoted(ctx context.Context, userID, theoryID string) (bool, error)

	// Comment operations

	// SaveComment appends a comment.
	SaveComment(ctx context.Context, comment *entities.Comment) error

	// FindCommentsByLoreEntry lists a lore entry's comments oldest first.
	FindCommentsByLoreEntry(ctx context.Context, loreEntryID string) ([]entities.Comment, error)

	// FindCommentsByTheory lists a theory's comments oldest first.
	FindCommentsByTheory(ctx context.Context, theoryID string) ([]entities.Comment, error)

	// Profile operations

	// SaveProfile saves or updates a profile row.
	SaveProfile(ctx context.Context, profile *entities.Profile) error

	// FindProfileByID finds a profile by the identity provider's user ID.
	FindProfileByID(ctx context.Context, userID string) (*entities.Profile, error)

	// API key operations

	// SaveAPIKey inserts or replaces the (user, service) key row. A replace
	// keeps the original row ID and reactivates the key.
	SaveAPIKey(ctx context.Context, key *entities.APIKey) error

	// FindAPIKeyByService finds a user's key for a service.
	FindAPIKeyByService(ctx context.Context, userID, serviceName string) (*entities.APIKey, error)

	// ListAPIKeys lists a user's keys newest first.
	ListAPIKeys(ctx context.Context, userID string) ([]*entities.APIKey, error)

	// SetAPIKeyActive flips a key's active flag. The key must belong to the
	// user; otherwise NotFoundError.
	SetAPIKeyActive(ctx context.Context, userID, id string, active bool) error

	// DeleteAPIKey deletes a user's key by ID. Deleting a missing key or
	// another user's key is a NotFoundError.
	DeleteAPIKey(ctx context.Context, userID, id string) error

	// Timeline operations

	// SaveTimeline saves or updates a timeline.
	SaveTimeline(ctx context.Context, timeline *entities.Timeline) error

	// FindTimelineByID finds a timeline by its ID.
	FindTimelineByID(ctx context.Context, id string) (*entities.Timeline, error)

	// ListTimelines lists timelines, optionally filtered by official status.
	ListTimelines(ctx context.Context, isOfficial *bool) ([]*entities.Timeline, error)

	// SaveTimelineEvent adds an event to a timeline.
	SaveTimelineEvent(ctx context.Context, event *entities.TimelineEvent) error

	// FindTimelineEvents lists a timeline's events ordered by year,
	// optionally filtered by series.
	FindTimelineEvents(ctx context.Context, timelineID, seriesID string) ([]*entities.TimelineEvent, error)
}
