package entities

import "time"

// Timeline is an ordered collection of events, either official or fan-made.
type Timeline struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	IsOfficial  bool      `json:"is_official"`
	CreatorID   string    `json:"creator_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TimelineEvent is a single dated event on a timeline. Year is free text
// because the franchise uses deliberately vague dates ("21XX").
type TimelineEvent struct {
	ID          string    `json:"id"`
	TimelineID  string    `json:"timeline_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Year        string    `json:"year"`
	SeriesID    string    `json:"series_id,omitempty"`
	Importance  int       `json:"importance"`
	CreatedAt   time.Time `json:"created_at"`

	Series *Series `json:"series,omitempty"`
}
