package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/amuleta/internal/entity"
	"github.com/samdwyer/amuleta/internal/world"
)

// Status lines drawn under the map.
const (
	WelcomeText = "Welcome to Amuleta!"
	HintText    = "Please don't die often."
)

var (
	// DefaultStyle is used for plain status text.
	DefaultStyle = tcell.StyleDefault
	// HighlightStyle is used for emphasised status text.
	HighlightStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
)

// Renderer handles drawing the game to the screen.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Render draws a level, the given actors standing on it, and the status
// lines, then presents the frame.
func (r *Renderer) Render(level *world.Level, actors []*entity.Actor) {
	r.Clear()

	for y := 0; y < level.Height; y++ {
		for x := 0; x < level.Width; x++ {
			tile := level.At(x, y)
			r.PutGlyph(x, y, tile.Rune(), tcell.StyleDefault.Foreground(tile.Color()))
		}
	}

	for _, a := range actors {
		r.PutGlyph(a.X, a.Y, a.Symbol, tcell.StyleDefault.Foreground(a.Color))
	}

	r.DrawText(0, level.Height, HighlightStyle, WelcomeText)
	r.DrawText(0, level.Height+1, DefaultStyle, HintText)

	r.Present()
}

// Clear blanks the back buffer.
func (r *Renderer) Clear() {
	r.screen.Clear()
}

// PutGlyph sets one cell.
func (r *Renderer) PutGlyph(x, y int, glyph rune, style tcell.Style) {
	r.screen.SetContent(x, y, glyph, style)
}

// DrawText writes text left to right starting at (x, y).
func (r *Renderer) DrawText(x, y int, style tcell.Style, text string) {
	for _, ch := range text {
		r.screen.SetContent(x, y, ch, style)
		x++
	}
}

// Present flushes the back buffer to the terminal.
func (r *Renderer) Present() {
	r.screen.Show()
}

// Sync forces a full repaint, used after the terminal is resized.
func (r *Renderer) Sync() {
	r.screen.Sync()
}
