// Package entities contains core domain data structures.
package entities

import "time"

// Character represents a single character in the archive. Classification
// flags are independent booleans, not mutually exclusive: a character can be
// both a reploid and a maverick.
type Character struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Alias           string    `json:"alias,omitempty"`
	Description     string    `json:"description,omitempty"`
	PortraitURL     string    `json:"portrait_url,omitempty"`
	FirstAppearance string    `json:"first_appearance,omitempty"`
	SeriesID        string    `json:"series_id"`
	IsRobotMaster   bool      `json:"is_robot_master"`
	IsMaverick      bool      `json:"is_maverick"`
	IsHuman         bool      `json:"is_human"`
	IsReploid       bool      `json:"is_reploid"`
	CreatedBy       string    `json:"created_by,omitempty"`
	CreatedAt       time.Time `json:"created_at"`

	// Series is the resolved series reference, populated on reads that
	// embed it for display coloring.
	Series *Series `json:"series,omitempty"`
}
