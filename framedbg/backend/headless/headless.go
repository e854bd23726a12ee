package headless

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/valerio/framedbg/framedbg/backend"
	"github.com/valerio/framedbg/framedbg/debug"
	"github.com/valerio/framedbg/framedbg/input/action"
	"github.com/valerio/framedbg/framedbg/input/event"
	"github.com/valerio/framedbg/framedbg/session"
)

// contextRows is the number of writes shown on each side of the selection.
const contextRows = 4

// Backend writes a text report of the selected command and quits. It is
// used for scripting and tests.
type Backend struct {
	config backend.Config
	out    io.Writer
}

func New() *Backend {
	return &Backend{}
}

func (h *Backend) Init(config backend.Config) error {
	h.config = config
	h.out = config.Output
	if h.out == nil {
		h.out = os.Stdout
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.LogLevel,
	})
	slog.SetDefault(slog.New(handler))

	slog.Info("Running headless mode", "title", config.Title)
	return nil
}

// Update writes the report and signals completion via a quit event.
func (h *Backend) Update(s *session.Session) ([]backend.InputEvent, error) {
	quit := []backend.InputEvent{{Action: action.Quit, Type: event.Press}}

	if s.State() != session.DumpLoaded {
		slog.Warn("No frame dump loaded, nothing to report")
		return quit, nil
	}

	if err := Report(h.out, s, h.config.ShowKicks); err != nil {
		return nil, errors.Wrap(err, "failed to write report")
	}

	if h.config.SnapshotDir != "" {
		selected, _ := s.Selected()
		name := fmt.Sprintf("%s_write_%d", snapshotName(h.config.Title), selected)
		if _, err := debug.SaveDisplayPNG(s.GS(), name, h.config.SnapshotDir); err != nil {
			slog.Error("Failed to save PNG snapshot", "index", selected, "error", err)
		}
	}
	slog.Info("Headless report completed")
	return quit, nil
}

func snapshotName(title string) string {
	for ext := filepath.Ext(title); ext != ""; ext = filepath.Ext(title) {
		title = strings.TrimSuffix(title, ext)
	}
	if title == "" {
		return "framedbg"
	}
	return title
}

func (h *Backend) Cleanup() error {
	return nil
}

// Report describes the selected command of s: the surrounding writes, the
// drawing kick in effect and every tab that can render itself.
func Report(w io.Writer, s *session.Session, showKicks bool) error {
	d := s.Dump()
	idx := s.Index()
	selected, _ := s.Selected()
	res := s.Result()

	ew := &errWriter{w: w}
	ew.printf("Frame dump: %d packets, %d writes, %d drawing kicks\n",
		d.PacketCount(), d.CommandCount(), idx.Len())
	ew.printf("Selected:   #%d (%s)\n", selected, res.Metadata)
	ew.printf("Kick:       %s\n", res.DrawingKick)

	ew.printf("\nWrites\n")
	for _, row := range debug.WriteRows(d, idx, selected-contextRows, 2*contextRows+1) {
		cursor := " "
		if row.Index == selected {
			cursor = ">"
		}
		ew.printf("%s%s\n", cursor, row)
	}

	for i, tab := range s.Tabs() {
		view, ok := tab.(backend.View)
		if !ok {
			continue
		}
		if s.ActiveTab() != i {
			s.SetActiveTab(i)
		}
		ew.printf("\n[%s]\n", view.Title())
		for _, line := range view.Lines() {
			ew.printf("  %s\n", line)
		}
	}

	if showKicks {
		ew.printf("\nDrawing kicks\n")
		for i := 0; i < idx.Len(); i++ {
			ew.printf("  %s\n", idx.At(i))
		}
	}
	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
