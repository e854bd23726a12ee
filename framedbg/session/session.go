package session

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/valerio/framedbg/framedbg/dump"
	"github.com/valerio/framedbg/framedbg/gs"
	"github.com/valerio/framedbg/framedbg/kicks"
	"github.com/valerio/framedbg/framedbg/replay"
)

var (
	// ErrNoDump is returned by navigation when no dump is loaded.
	ErrNoDump = errors.New("no frame dump loaded")
	// ErrIndexOutOfRange is returned when a selection is outside the command log.
	ErrIndexOutOfRange = errors.New("command index out of range")
	// ErrNotVU1Path is returned when stepping VU1 outside of a PATH1 packet.
	ErrNotVU1Path = errors.New("current packet was not sent through PATH1")
	// ErrBusy is returned when navigation is requested during a reconstruction.
	ErrBusy = errors.New("reconstruction in progress")
)

// State is the navigation state of a session.
type State int

const (
	NoDumpLoaded State = iota
	DumpLoaded
)

func (s State) String() string {
	if s == DumpLoaded {
		return "DumpLoaded"
	}
	return "NoDumpLoaded"
}

// Tab is a view refreshed with the reconstructed state.
type Tab interface {
	Title() string
	UpdateState(state *gs.Handler, metadata dump.Metadata, kick kicks.Descriptor)
}

// Stepper is implemented by tabs that can single step a microprogram.
type Stepper interface {
	Step() error
}

// loaded pairs a dump with its index so both are replaced together.
type loaded struct {
	dump          *dump.FrameDump
	index         *kicks.Index
	reconstructor *replay.Reconstructor
}

// Session owns the GS state and the open dump, and turns navigation
// requests into reconstructions.
type Session struct {
	gs      *gs.Handler
	current *loaded

	selected int
	result   replay.Result
	busy     bool

	tabs      []Tab
	activeTab int
}

func New(handler *gs.Handler) *Session {
	return &Session{
		gs:        handler,
		activeTab: -1,
		result:    replay.Result{Packet: -1, DrawingKick: kicks.Empty},
	}
}

func (s *Session) State() State {
	if s.current == nil {
		return NoDumpLoaded
	}
	return DumpLoaded
}

// GS returns the handler holding the reconstructed state.
func (s *Session) GS() *gs.Handler { return s.gs }

func (s *Session) Dump() *dump.FrameDump {
	if s.current == nil {
		return nil
	}
	return s.current.dump
}

func (s *Session) Index() *kicks.Index {
	if s.current == nil {
		return nil
	}
	return s.current.index
}

// Selected returns the selected command index.
func (s *Session) Selected() (int, bool) {
	return s.selected, s.current != nil
}

// Result returns the outcome of the last reconstruction.
func (s *Session) Result() replay.Result { return s.result }

// Load indexes d, makes it the current dump and reconstructs command 0.
// It is rejected while a reconstruction is running.
func (s *Session) Load(d *dump.FrameDump) error {
	if s.busy {
		slog.Warn("Load rejected during reconstruction")
		return ErrBusy
	}
	idx := kicks.Build(d, s.gs)
	s.current = &loaded{
		dump:          d,
		index:         idx,
		reconstructor: replay.New(s.gs, d, idx),
	}

	slog.Info("Frame dump loaded",
		"packets", d.PacketCount(),
		"commands", d.CommandCount(),
		"drawing_kicks", idx.Len())

	s.update(0)
	return nil
}

// LoadFile opens a dump from disk. On failure the current dump is kept.
func (s *Session) LoadFile(path string) error {
	if s.busy {
		return ErrBusy
	}
	d, err := dump.Open(path)
	if err != nil {
		slog.Error("Failed to open frame dump", "path", path, "error", err)
		return err
	}
	return s.Load(d)
}

// SelectIndex reconstructs the state at command i.
func (s *Session) SelectIndex(i int) error {
	if s.current == nil {
		return ErrNoDump
	}
	if s.busy {
		return ErrBusy
	}
	if i < 0 || i >= s.current.dump.CommandCount() {
		slog.Warn("Selection out of range", "index", i, "commands", s.current.dump.CommandCount())
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, s.current.dump.CommandCount())
	}
	s.update(i)
	return nil
}

// Move selects the command delta positions away, clamped to the log.
func (s *Session) Move(delta int) error {
	if s.current == nil {
		return ErrNoDump
	}
	count := s.current.dump.CommandCount()
	if count == 0 {
		return ErrIndexOutOfRange
	}
	target := min(max(s.selected+delta, 0), count-1)
	if target == s.selected {
		return nil
	}
	return s.SelectIndex(target)
}

// SelectFirst selects the first command, SelectLast the last one.
func (s *Session) SelectFirst() error { return s.Move(-s.selected) }

func (s *Session) SelectLast() error {
	if s.current == nil {
		return ErrNoDump
	}
	return s.Move(s.current.dump.CommandCount() - 1 - s.selected)
}

// NextKick selects the next drawing kick after the selection.
func (s *Session) NextKick() error {
	if s.current == nil {
		return ErrNoDump
	}
	d, ok := s.current.index.Next(s.selected)
	if !ok {
		return ErrIndexOutOfRange
	}
	return s.SelectIndex(d.CmdIndex)
}

// PrevKick selects the last drawing kick before the selection.
func (s *Session) PrevKick() error {
	if s.current == nil {
		return ErrNoDump
	}
	d, ok := s.current.index.Prev(s.selected)
	if !ok {
		return ErrIndexOutOfRange
	}
	return s.SelectIndex(d.CmdIndex)
}

func (s *Session) update(target int) {
	s.busy = true
	defer func() { s.busy = false }()

	s.selected = target
	s.result = s.current.reconstructor.Reconstruct(target)
	s.UpdateCurrentTab()
}

// AddTab registers a tab; the first one added becomes active.
func (s *Session) AddTab(t Tab) {
	s.tabs = append(s.tabs, t)
	if s.activeTab < 0 {
		s.activeTab = 0
	}
}

func (s *Session) Tabs() []Tab { return s.tabs }

// ActiveTab returns the index of the active tab, or -1.
func (s *Session) ActiveTab() int { return s.activeTab }

// SetActiveTab switches tabs and refreshes the new one.
func (s *Session) SetActiveTab(i int) {
	if i < 0 || i >= len(s.tabs) {
		return
	}
	s.activeTab = i
	s.UpdateCurrentTab()
}

// UpdateCurrentTab refreshes the active tab with the current state.
func (s *Session) UpdateCurrentTab() {
	if s.activeTab < 0 || s.current == nil {
		return
	}
	s.tabs[s.activeTab].UpdateState(s.gs, s.result.Metadata, s.result.DrawingKick)
}

// ToggleAlphaTest flips the alpha test debug toggle and reconstructs again.
func (s *Session) ToggleAlphaTest() {
	s.gs.SetAlphaTestingEnabled(!s.gs.AlphaTestingEnabled())
	slog.Info("Alpha test", "enabled", s.gs.AlphaTestingEnabled())
	s.refresh()
}

// ToggleDepthTest flips the depth test debug toggle and reconstructs again.
func (s *Session) ToggleDepthTest() {
	s.gs.SetDepthTestingEnabled(!s.gs.DepthTestingEnabled())
	slog.Info("Depth test", "enabled", s.gs.DepthTestingEnabled())
	s.refresh()
}

// ToggleAlphaBlending flips the alpha blending debug toggle and reconstructs again.
func (s *Session) ToggleAlphaBlending() {
	s.gs.SetAlphaBlendingEnabled(!s.gs.AlphaBlendingEnabled())
	slog.Info("Alpha blending", "enabled", s.gs.AlphaBlendingEnabled())
	s.refresh()
}

func (s *Session) refresh() {
	if s.current == nil || s.busy {
		return
	}
	s.update(s.selected)
}

// StepVU1 single steps the VU1 microprogram tab. It is only allowed when
// the current packet came through PATH1.
func (s *Session) StepVU1() error {
	if s.current == nil {
		return ErrNoDump
	}
	if s.result.Metadata.PathIndex != dump.PathVU1 {
		return ErrNotVU1Path
	}
	for i, t := range s.tabs {
		stepper, ok := t.(Stepper)
		if !ok {
			continue
		}
		if s.activeTab != i {
			s.SetActiveTab(i)
		}
		return stepper.Step()
	}
	return nil
}
