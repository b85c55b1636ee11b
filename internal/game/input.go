package game

import "github.com/gdamore/tcell/v2"

// Action is what a key press asks the engine to do.
type Action int

const (
	ActionNone Action = iota
	ActionMove
	ActionQuit
)

// Command is a translated key press.
type Command struct {
	Action Action
	DX, DY int
}

var (
	moveUp    = Command{Action: ActionMove, DY: -1}
	moveDown  = Command{Action: ActionMove, DY: 1}
	moveLeft  = Command{Action: ActionMove, DX: -1}
	moveRight = Command{Action: ActionMove, DX: 1}
	quit      = Command{Action: ActionQuit}
)

var specialKeys = map[tcell.Key]Command{
	tcell.KeyUp:    moveUp,
	tcell.KeyDown:  moveDown,
	tcell.KeyLeft:  moveLeft,
	tcell.KeyRight: moveRight,
}

// Only uppercase Q quits; lowercase q is unbound.
var runeKeys = map[rune]Command{
	'k': moveUp,
	'j': moveDown,
	'h': moveLeft,
	'l': moveRight,
	'Q': quit,
}

// CommandFor translates a key event. Unbound keys yield ActionNone.
func CommandFor(ev *tcell.EventKey) Command {
	if ev.Key() == tcell.KeyRune {
		return runeKeys[ev.Rune()]
	}
	return specialKeys[ev.Key()]
}
