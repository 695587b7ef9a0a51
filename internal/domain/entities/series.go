package entities

// Series represents a game series that characters, lore entries and timeline
// events belong to. ColorCode drives display coloring in the presentation
// layer.
type Series struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	StartYear   string `json:"start_year,omitempty"`
	EndYear     string `json:"end_year,omitempty"`
	ColorCode   string `json:"color_code"`
}
