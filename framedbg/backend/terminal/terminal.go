package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/valerio/framedbg/framedbg/backend"
	"github.com/valerio/framedbg/framedbg/backend/terminal/render"
	"github.com/valerio/framedbg/framedbg/debug"
	"github.com/valerio/framedbg/framedbg/input"
	"github.com/valerio/framedbg/framedbg/input/action"
	"github.com/valerio/framedbg/framedbg/input/event"
	"github.com/valerio/framedbg/framedbg/session"
)

const (
	writeListWidth = 52
	logHeight      = 8
	minTermWidth   = 100
	minTermHeight  = 24
	logCapacity    = 200
)

var (
	defaultStyle  = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	borderStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	titleStyle    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	selectedStyle = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	kickStyle     = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	packetStyle   = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	activeTab     = tcell.StyleDefault.Background(tcell.ColorYellow).Foreground(tcell.ColorBlack)
)

// Backend implements the Backend interface using tcell for terminal rendering
type Backend struct {
	screen    tcell.Screen
	running   bool
	logBuffer *render.LogBuffer
	logLevel  slog.Level
	config    backend.Config
	signals   chan backend.InputEvent
}

// New creates a new terminal backend
func New() *Backend {
	return &Backend{
		logLevel: slog.LevelInfo,
	}
}

// Init initializes the terminal backend
func (t *Backend) Init(config backend.Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	return t.init(config, screen)
}

func (t *Backend) init(config backend.Config, screen tcell.Screen) error {
	t.config = config
	t.logLevel = config.LogLevel
	t.signals = make(chan backend.InputEvent, 1)

	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	t.screen = screen
	t.running = true

	// Capture everything; the log pane filters by t.logLevel.
	t.logBuffer = render.NewLogBuffer(logCapacity)
	slog.SetDefault(slog.New(render.NewLogBufferHandler(t.logBuffer, slog.LevelDebug)))
	slog.Info("Terminal backend initialized")

	t.screen.SetStyle(defaultStyle)
	t.screen.Clear()

	go t.handleSignals()
	return nil
}

// Update renders the session and processes events. It blocks until at
// least one event is received.
func (t *Backend) Update(s *session.Session) ([]backend.InputEvent, error) {
	t.render(s)
	t.screen.Show()

	var events []backend.InputEvent
	select {
	case evt := <-t.signals:
		return append(events, evt), nil
	default:
	}

	events = append(events, t.processEvent(t.screen.PollEvent())...)
	for t.screen.HasPendingEvent() {
		events = append(events, t.processEvent(t.screen.PollEvent())...)
	}

	for _, evt := range events {
		slog.Debug("UI event", "action", action.GetInfo(evt.Action).Description, "type", evt.Type)
	}
	return events, nil
}

// Cleanup cleans up terminal resources
func (t *Backend) Cleanup() error {
	if t.screen != nil {
		slog.Info("Cleaning up terminal backend")
		t.screen.Fini()
	}
	return nil
}

// HandleAction processes backend-specific actions
func (t *Backend) HandleAction(act action.Action) {
	switch act {
	case action.DebugLogLevelIncrease:
		t.changeLogLevel(1)
	case action.DebugLogLevelDecrease:
		t.changeLogLevel(-1)
	case action.Quit:
		t.running = false
	}
}

func (t *Backend) Beep() {
	if t.screen != nil {
		_ = t.screen.Beep()
	}
}

// PageSize is the number of rows of the write list.
func (t *Backend) PageSize() int {
	if t.screen == nil {
		return 1
	}
	_, h := t.screen.Size()
	return max(h-3, 1)
}

func (t *Backend) handleSignals() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)

	<-signals
	t.signals <- backend.InputEvent{Action: action.Quit, Type: event.Press}
	// Wake the blocking PollEvent.
	if t.screen != nil {
		_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
}

func (t *Backend) processEvent(ev tcell.Event) []backend.InputEvent {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if act, ok := t.mapKey(ev); ok {
			return []backend.InputEvent{{Action: act, Type: event.Press}}
		}
	case *tcell.EventResize:
		t.screen.Sync()
	case *tcell.EventInterrupt:
		select {
		case evt := <-t.signals:
			return []backend.InputEvent{evt}
		default:
		}
	}
	return nil
}

// tcellKeyNameMap converts tcell keys to key names used in default mappings
var tcellKeyNameMap = map[tcell.Key]string{
	tcell.KeyUp:     "Up",
	tcell.KeyDown:   "Down",
	tcell.KeyLeft:   "Left",
	tcell.KeyRight:  "Right",
	tcell.KeyPgUp:   "PageUp",
	tcell.KeyPgDn:   "PageDown",
	tcell.KeyHome:   "Home",
	tcell.KeyEnd:    "End",
	tcell.KeyTab:    "Tab",
	tcell.KeyEscape: "Escape",
	tcell.KeyF5:     "F5",
	tcell.KeyF9:     "F9",
}

// buildKeyMapping creates the key mapping from default mappings
func buildKeyMapping() map[tcell.Key]action.Action {
	mapping := make(map[tcell.Key]action.Action)
	for key, keyName := range tcellKeyNameMap {
		if act, ok := input.GetDefaultMapping(keyName); ok {
			mapping[key] = act
		}
	}
	mapping[tcell.KeyCtrlC] = action.Quit
	return mapping
}

// keyMapping maps tcell keys to actions
var keyMapping = buildKeyMapping()

func (t *Backend) mapKey(ev *tcell.EventKey) (action.Action, bool) {
	if ev.Key() == tcell.KeyRune {
		return input.GetDefaultMapping(string(ev.Rune()))
	}
	act, ok := keyMapping[ev.Key()]
	return act, ok
}

func (t *Backend) changeLogLevel(direction int) {
	oldLevel := t.logLevel
	switch direction {
	case -1:
		switch t.logLevel {
		case slog.LevelDebug:
			t.logLevel = slog.LevelInfo
		case slog.LevelInfo:
			t.logLevel = slog.LevelWarn
		case slog.LevelWarn:
			t.logLevel = slog.LevelError
		}
	case 1:
		switch t.logLevel {
		case slog.LevelError:
			t.logLevel = slog.LevelWarn
		case slog.LevelWarn:
			t.logLevel = slog.LevelInfo
		case slog.LevelInfo:
			t.logLevel = slog.LevelDebug
		}
	}
	if oldLevel != t.logLevel {
		slog.Info("Log filter changed", "from", oldLevel, "to", t.logLevel)
	}
}

func (t *Backend) render(s *session.Session) {
	termWidth, termHeight := t.screen.Size()
	t.screen.Clear()
	if termWidth < minTermWidth || termHeight < minTermHeight {
		style := tcell.StyleDefault.Foreground(tcell.ColorRed)
		t.drawText(0, termHeight/2, termWidth, fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight), style)
		return
	}

	dividerX := writeListWidth + 1
	rightX := dividerX + 2
	rightWidth := termWidth - rightX
	logY := termHeight - logHeight - 1

	t.drawBorders(termWidth, termHeight, dividerX, logY)
	t.drawWriteList(s, 1, 1, writeListWidth, termHeight-2)
	t.drawTabs(s, rightX, 1, rightWidth, logY-1)
	t.drawLogs(rightX, logY+1, rightWidth, logHeight)
	t.drawStatus(s, termWidth, termHeight-1)
}

func (t *Backend) drawText(x, y, width int, text string, style tcell.Style) {
	for i, ch := range []rune(render.Truncate(text, width)) {
		t.screen.SetContent(x+i, y, ch, nil, style)
	}
}

func (t *Backend) drawBorders(termWidth, termHeight, dividerX, logY int) {
	for y := 0; y < termHeight-1; y++ {
		t.screen.SetContent(dividerX, y, '│', nil, borderStyle)
	}
	for x := dividerX + 1; x < termWidth; x++ {
		t.screen.SetContent(x, logY, '─', nil, borderStyle)
	}
	t.screen.SetContent(dividerX, logY, '├', nil, borderStyle)

	title := " Writes "
	if t.config.Title != "" {
		title = fmt.Sprintf(" %s ", t.config.Title)
	}
	t.drawText(1, 0, dividerX-1, title, titleStyle)
	t.drawText(dividerX+2, logY, termWidth-dividerX-2, " Log ", titleStyle)
}

func (t *Backend) drawWriteList(s *session.Session, x, y, width, height int) {
	d := s.Dump()
	if d == nil {
		t.drawText(x, y, width, "No frame dump loaded", defaultStyle)
		return
	}

	selected, _ := s.Selected()
	first := render.Window(selected, d.CommandCount(), height)
	for i, row := range debug.WriteRows(d, s.Index(), first, height) {
		style := defaultStyle
		switch {
		case row.Index == selected:
			style = selectedStyle
		case row.Kick:
			style = kickStyle
		case row.FirstInPacket:
			style = packetStyle
		}
		t.drawText(x, y+i, width, row.String(), style)
	}
}

func (t *Backend) drawTabs(s *session.Session, x, y, width, height int) {
	tabX := x
	for i, tab := range s.Tabs() {
		style := titleStyle
		if i == s.ActiveTab() {
			style = activeTab
		}
		label := fmt.Sprintf(" %d %s ", i+1, tab.Title())
		t.drawText(tabX, y, x+width-tabX, label, style)
		tabX += len(label) + 1
	}

	if s.State() != session.DumpLoaded || s.ActiveTab() < 0 {
		return
	}
	view, ok := s.Tabs()[s.ActiveTab()].(backend.View)
	if !ok {
		return
	}
	for i, line := range view.Lines() {
		if i+2 >= height {
			break
		}
		t.drawText(x, y+2+i, width, line, defaultStyle)
	}
}

func (t *Backend) drawLogs(x, y, width, height int) {
	debugStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	infoStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	warnStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	errStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)

	for i, entry := range t.logBuffer.Recent(t.logLevel, height) {
		style := infoStyle
		switch entry.Level {
		case slog.LevelDebug:
			style = debugStyle
		case slog.LevelWarn:
			style = warnStyle
		case slog.LevelError:
			style = errStyle
		}
		t.drawText(x, y+i, width, render.FormatLogEntry(entry), style)
	}
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func (t *Backend) drawStatus(s *session.Session, width, y int) {
	h := s.GS()
	status := fmt.Sprintf(" alpha test %s | depth test %s | blending %s",
		onOff(h.AlphaTestingEnabled()), onOff(h.DepthTestingEnabled()), onOff(h.AlphaBlendingEnabled()))
	if d := s.Dump(); d != nil {
		selected, _ := s.Selected()
		status = fmt.Sprintf(" #%d/%d | %s |%s", selected, d.CommandCount(), s.Result().DrawingKick, status)
	}
	t.drawText(0, y, width, status, titleStyle)
}
