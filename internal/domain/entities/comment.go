package entities

import "time"

// CommentParent references the single parent a comment attaches to. Exactly
// one of the two fields must be set.
type CommentParent struct {
	LoreEntryID string `json:"lore_entry_id,omitempty"`
	TheoryID    string `json:"theory_id,omitempty"`
}

// Valid reports whether exactly one parent field is set.
func (p CommentParent) Valid() bool {
	return (p.LoreEntryID == "") != (p.TheoryID == "")
}

// Comment is an append-only comment on a lore entry or theory. Comments have
// no edit operation and display oldest-first.
type Comment struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	UserID      string    `json:"user_id"`
	LoreEntryID string    `json:"lore_entry_id,omitempty"`
	TheoryID    string    `json:"theory_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	User *Profile `json:"user,omitempty"`
}
