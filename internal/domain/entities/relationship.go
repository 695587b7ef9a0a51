package entities

import "time"

// Direction indicates which role the queried character plays in an edge.
type Direction string

const (
	// DirectionOutgoing means the queried character is the edge source.
	DirectionOutgoing Direction = "outgoing"
	// DirectionIncoming means the queried character is the edge target.
	DirectionIncoming Direction = "incoming"
)

// RelationshipEdge is a directed, typed connection between two characters.
// Storage is directional; presentation is symmetric: an edge is reported
// from either endpoint's perspective with a Direction indicator so the UI
// can phrase it correctly ("has ally" vs "is ally of").
type RelationshipEdge struct {
	ID                string    `json:"id"`
	SourceCharacterID string    `json:"source_character_id"`
	TargetCharacterID string    `json:"target_character_id"`
	Type              string    `json:"type"`
	Description       string    `json:"description,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// CharacterEdge is a relationship edge viewed from one character's
// perspective, with the other endpoint resolved for display.
type CharacterEdge struct {
	EdgeID      string     `json:"edge_id"`
	Type        string     `json:"type"`
	Description string     `json:"description,omitempty"`
	Direction   Direction  `json:"direction"`
	Character   *Character `json:"character"`
}
