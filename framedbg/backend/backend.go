package backend

import (
	"io"
	"log/slog"

	"github.com/valerio/framedbg/framedbg/input/action"
	"github.com/valerio/framedbg/framedbg/input/event"
	"github.com/valerio/framedbg/framedbg/session"
)

// Backend presents a session and collects user input.
// Backends are responsible for:
// - Rendering the write list, the active tab and logs to their output
// - Translating platform-specific input events to Actions
type Backend interface {
	// Init configures the backend. It must be called before Update.
	Init(config Config) error

	// Update renders the session and returns the input received since
	// the previous call.
	Update(s *session.Session) ([]InputEvent, error)

	// Cleanup resources when shutting down
	Cleanup() error
}

// ActionHandler is implemented by backends that handle some actions
// themselves, such as changing their log filter.
type ActionHandler interface {
	HandleAction(act action.Action)
}

// Beeper is implemented by backends that can alert the user when an
// action is rejected.
type Beeper interface {
	Beep()
}

// Config holds configuration for backends
type Config struct {
	Title    string
	LogLevel slog.Level
	// Output receives the headless report. Defaults to stdout.
	Output io.Writer
	// ShowKicks lists every drawing kick in the headless report.
	ShowKicks bool
	// SnapshotDir receives a PNG of the displayed frame in headless mode.
	SnapshotDir string
}

// InputEvent is an action delivered by a backend.
type InputEvent struct {
	Action action.Action
	Type   event.Type
}

// View is implemented by tabs that can be rendered as text.
type View interface {
	session.Tab
	Lines() []string
}
