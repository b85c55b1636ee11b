// Package ui provides terminal rendering and input using tcell.
package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

const (
	// MinTerminalWidth and MinTerminalHeight are the smallest usable terminal:
	// the map plus two status lines and spare rows.
	MinTerminalWidth  = 80
	MinTerminalHeight = 25
)

// Screen wraps tcell.Screen with a simplified interface.
type Screen struct {
	screen tcell.Screen
}

// NewScreen creates and initializes the terminal screen.
func NewScreen() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("unsupported terminal: %w", err)
	}
	return NewScreenFrom(s)
}

// NewScreenFrom initializes an existing tcell screen, such as a simulation
// screen in tests.
func NewScreenFrom(s tcell.Screen) (*Screen, error) {
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("initialize terminal: %w", err)
	}
	s.SetStyle(tcell.StyleDefault)
	s.Clear()
	return &Screen{screen: s}, nil
}

// CheckSize returns an error if the terminal is smaller than the minimum.
func (s *Screen) CheckSize() error {
	w, h := s.screen.Size()
	if w < MinTerminalWidth || h < MinTerminalHeight {
		return fmt.Errorf("terminal too small: %dx%d, minimum terminal size is %dx%d",
			w, h, MinTerminalWidth, MinTerminalHeight)
	}
	return nil
}

// Close finalizes the screen and restores terminal state.
func (s *Screen) Close() {
	s.screen.Fini()
}

// PollEvent waits for and returns the next terminal event.
func (s *Screen) PollEvent() tcell.Event {
	return s.screen.PollEvent()
}

// Clear clears the screen buffer.
func (s *Screen) Clear() {
	s.screen.Clear()
}

// Show flushes the screen buffer to the terminal.
func (s *Screen) Show() {
	s.screen.Show()
}

// SetContent sets a single cell's content at the given position.
func (s *Screen) SetContent(x, y int, r rune, style tcell.Style) {
	s.screen.SetContent(x, y, r, nil, style)
}

// Sync forces a complete redraw of the screen.
func (s *Screen) Sync() {
	s.screen.Sync()
}
