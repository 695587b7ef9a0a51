package entities

import "time"

// LoreTag is a tag from the closed controlled vocabulary for lore entries.
type LoreTag string

const (
	TagCanon     LoreTag = "Canon"
	TagDisputed  LoreTag = "Disputed"
	TagTheory    LoreTag = "Theory"
	TagGameOnly  LoreTag = "Game Only"
	TagMangaOnly LoreTag = "Manga Only"
)

// ValidLoreTags lists every tag accepted on write, in display order.
var ValidLoreTags = []LoreTag{TagCanon, TagDisputed, TagTheory, TagGameOnly, TagMangaOnly}

// IsValidLoreTag reports whether tag belongs to the controlled vocabulary.
func IsValidLoreTag(tag string) bool {
	for _, t := range ValidLoreTags {
		if string(t) == tag {
			return true
		}
	}
	return false
}

// LoreEntry is a piece of lore content. Entries start unapproved and are not
// publicly visible until a moderator flips IsApproved.
type LoreEntry struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	SeriesID   string    `json:"series_id,omitempty"`
	Tags       []string  `json:"tags"`
	Sources    []string  `json:"sources,omitempty"` // ordered free-text citations
	CreatorID  string    `json:"creator_id"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Series *Series `json:"series,omitempty"`
}

// CharacterLoreAssociation is a many-to-many join row linking a character to
// a lore entry. At most one row exists per pair.
type CharacterLoreAssociation struct {
	CharacterID string `json:"character_id"`
	LoreEntryID string `json:"lore_entry_id"`
}
