package gamedata

import "github.com/gdamore/tcell/v2"

const (
	// ActorsFilename is the embedded file holding the player and monster definitions.
	ActorsFilename = "actors.json"

	// PlayerBehavior is reserved for the player definition.
	PlayerBehavior = "player"
)

// ActorDef defines an actor kind loaded from JSON.
type ActorDef struct {
	ID          string `json:"id"`                    // Unique identifier (e.g., "rat")
	Name        string `json:"name"`                  // Display name (e.g., "Rat")
	Glyph       string `json:"glyph"`                 // Single character for rendering (e.g., "r")
	Color       string `json:"color"`                 // Hex color code (e.g., "#00FF00")
	HP          int    `json:"hp"`                    // Starting and maximum hit points
	SpawnWeight int    `json:"spawnWeight,omitempty"` // Relative spawn frequency, monsters only
	Behavior    string `json:"behavior"`              // Name of the behavior that acts for this kind
}

// GlyphRune returns the glyph as a rune for rendering.
func (d *ActorDef) GlyphRune() rune {
	for _, r := range d.Glyph {
		return r
	}
	return '?'
}

// TCellColor returns the color as a tcell.Color.
func (d *ActorDef) TCellColor() tcell.Color {
	color, err := ParseHexColor(d.Color)
	if err != nil {
		return tcell.ColorWhite
	}
	return color
}

// ActorsFile represents the structure of actors.json.
type ActorsFile struct {
	Player   ActorDef   `json:"player"`
	Monsters []ActorDef `json:"monsters"`
}

// LoadActors loads actor definitions from the embedded actors.json file.
func LoadActors() (ActorsFile, error) {
	return Load[ActorsFile](dataFS, ActorsFilename)
}
