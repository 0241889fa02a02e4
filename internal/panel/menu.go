package panel

import "hvac_control/internal/models"

// MenuState distinguishes browsing between setting windows and editing
// the selected one.
type MenuState uint8

const (
	Browse MenuState = iota
	Edit
)

// Window identifies one of the four settings windows, arranged in a
// fixed cycle.
type Window uint8

const (
	WindowTemp Window = iota
	WindowFan
	WindowSwing
	WindowTimer
	windowCount
)

var windowNames = map[Window]string{
	WindowTemp:  "TEMP",
	WindowFan:   "FAN",
	WindowSwing: "SWING",
	WindowTimer: "TIMER",
}

func (w Window) String() string {
	if s, ok := windowNames[w]; ok {
		return s
	}
	return "TEMP"
}

// Menu is the panel's navigation state machine. It owns no settings;
// edits are applied to the snapshot handed to Rotate. The menu itself
// is never transmitted anywhere.
type Menu struct {
	state       MenuState
	highlighted Window
	editing     Window
}

// NewMenu starts in Browse with the temperature window highlighted.
func NewMenu() *Menu { return &Menu{state: Browse, highlighted: WindowTemp} }

func (m *Menu) State() MenuState    { return m.state }
func (m *Menu) Highlighted() Window { return m.highlighted }

// Editing returns the window being edited; meaningful only in Edit.
func (m *Menu) Editing() Window { return m.editing }

// Confirm handles the encoder push button: Browse enters Edit on the
// highlighted window, Edit returns to Browse without moving.
func (m *Menu) Confirm() {
	if m.state == Browse {
		m.state = Edit
		m.editing = m.highlighted
		return
	}
	m.state = Browse
}

// Rotate consumes a signed detent delta. In Browse the highlight moves
// delta steps around the window cycle. In Edit the behavior depends on
// the window: temperature and timer accumulate the full delta (clamped
// to their domains), fan and swing take a single step on any nonzero
// rotation regardless of direction.
func (m *Menu) Rotate(delta int, s *models.Settings) {
	if delta == 0 {
		return
	}
	if m.state == Browse {
		n := int(windowCount)
		m.highlighted = Window(((int(m.highlighted)+delta)%n + n) % n)
		return
	}
	switch m.editing {
	case WindowTemp:
		s.SetTemp = models.ClampTemp(s.SetTemp + delta)
	case WindowFan:
		// Direction-insensitive: every rotation advances one rank.
		s.FanSpeed = s.FanSpeed.Next()
	case WindowSwing:
		s.Swing = s.Swing.Flip()
	case WindowTimer:
		s.Timer = models.ClampTimer(s.Timer + delta*models.TimerStepMin)
	}
}
