package main

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli"

	"github.com/valerio/framedbg/framedbg/backend"
	"github.com/valerio/framedbg/framedbg/backend/headless"
	"github.com/valerio/framedbg/framedbg/backend/terminal"
	"github.com/valerio/framedbg/framedbg/debug"
	"github.com/valerio/framedbg/framedbg/gs"
	"github.com/valerio/framedbg/framedbg/input"
	"github.com/valerio/framedbg/framedbg/input/action"
	"github.com/valerio/framedbg/framedbg/input/event"
	"github.com/valerio/framedbg/framedbg/session"
)

func main() {
	app := cli.NewApp()
	app.Name = "framedbg"
	app.Description = "A GS frame dump debugger"
	app.Usage = "framedbg [options] <dump file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "dump",
			Usage: "Path to the frame dump (.dmp, .dmp.sz or .dmp.zip)",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Print a report of the selected write instead of starting the UI",
		},
		cli.IntFlag{
			Name:  "index",
			Usage: "Write to select after loading",
			Value: 0,
		},
		cli.BoolFlag{
			Name:  "kicks",
			Usage: "List every drawing kick in the headless report",
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Save a PNG of the displayed frame to this directory in headless mode",
		},
		cli.BoolFlag{
			Name:  "no-alpha-test",
			Usage: "Start with alpha testing disabled",
		},
		cli.BoolFlag{
			Name:  "no-depth-test",
			Usage: "Start with depth testing disabled",
		},
		cli.BoolFlag{
			Name:  "no-alpha-blend",
			Usage: "Start with alpha blending disabled",
		},
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug logging",
		},
	}
	app.Action = runDebugger

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running debugger", "error", err)
		os.Exit(1)
	}
}

func runDebugger(c *cli.Context) error {
	dumpPath := c.String("dump")
	if dumpPath == "" {
		if c.NArg() > 0 {
			dumpPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no dump path provided")
		}
	}

	logLevel := slog.LevelInfo
	if c.Bool("verbose") {
		logLevel = slog.LevelDebug
	}

	var b backend.Backend
	if c.Bool("headless") {
		b = headless.New()
	} else {
		b = terminal.New()
	}
	config := backend.Config{
		Title:       filepath.Base(dumpPath),
		LogLevel:    logLevel,
		ShowKicks:   c.Bool("kicks"),
		SnapshotDir: c.String("snapshot-dir"),
	}
	if err := b.Init(config); err != nil {
		return err
	}
	defer b.Cleanup()

	handler := gs.NewHandler()
	handler.SetAlphaTestingEnabled(!c.Bool("no-alpha-test"))
	handler.SetDepthTestingEnabled(!c.Bool("no-depth-test"))
	handler.SetAlphaBlendingEnabled(!c.Bool("no-alpha-blend"))

	s := newSession(handler)
	if err := s.LoadFile(dumpPath); err != nil {
		return err
	}
	if index := c.Int("index"); index != 0 {
		if err := s.SelectIndex(index); err != nil {
			return err
		}
	}

	return run(b, s, dumpPath)
}

func newSession(handler *gs.Handler) *session.Session {
	s := session.New(handler)
	s.AddTab(debug.NewContextView(0))
	s.AddTab(debug.NewContextView(1))
	s.AddTab(debug.NewInputStateView())
	s.AddTab(debug.NewVU1View())
	return s
}

// run feeds backend input to the session until the backend asks to quit.
func run(b backend.Backend, s *session.Session, dumpPath string) error {
	quit := false
	m := bindActions(s, b, dumpPath, func() { quit = true })

	for !quit {
		events, err := b.Update(s)
		if err != nil {
			return err
		}
		for _, evt := range events {
			if h, ok := b.(backend.ActionHandler); ok {
				h.HandleAction(evt.Action)
			}
			m.Trigger(evt.Action, evt.Type)
		}
	}
	return nil
}

// pageSize is used when the backend does not report one.
const pageSize = 16

func bindActions(s *session.Session, b backend.Backend, dumpPath string, onQuit func()) *input.Manager {
	m := input.NewManager()

	page := func() int {
		if p, ok := b.(interface{ PageSize() int }); ok {
			return p.PageSize()
		}
		return pageSize
	}
	// Navigation errors are logged by the session or are expected at the
	// ends of the log.
	nav := func(act action.Action, f func() error) {
		m.On(act, event.Press, func() {
			if err := f(); err != nil {
				slog.Debug("Navigation rejected", "action", act, "error", err)
			}
		})
	}

	nav(action.SelectNext, func() error { return s.Move(1) })
	nav(action.SelectPrev, func() error { return s.Move(-1) })
	nav(action.PageDown, func() error { return s.Move(page()) })
	nav(action.PageUp, func() error { return s.Move(-page()) })
	nav(action.SelectFirst, s.SelectFirst)
	nav(action.SelectLast, s.SelectLast)
	nav(action.NextKick, s.NextKick)
	nav(action.PrevKick, s.PrevKick)

	m.On(action.NextTab, event.Press, func() {
		if n := len(s.Tabs()); n > 0 {
			s.SetActiveTab((s.ActiveTab() + 1) % n)
		}
	})
	for i, act := range []action.Action{action.TabContext1, action.TabContext2, action.TabInputState, action.TabVU1} {
		m.On(act, event.Press, func() { s.SetActiveTab(i) })
	}

	m.On(action.ToggleAlphaTest, event.Press, s.ToggleAlphaTest)
	m.On(action.ToggleDepthTest, event.Press, s.ToggleDepthTest)
	m.On(action.ToggleAlphaBlending, event.Press, s.ToggleAlphaBlending)

	m.On(action.VU1Step, event.Press, func() {
		if err := s.StepVU1(); err != nil {
			slog.Warn("VU1 step rejected", "error", err)
			if beeper, ok := b.(backend.Beeper); ok {
				beeper.Beep()
			}
		}
	})
	m.On(action.ReloadDump, event.Press, func() {
		selected, _ := s.Selected()
		if err := s.LoadFile(dumpPath); err != nil {
			return
		}
		if err := s.SelectIndex(selected); err != nil {
			slog.Debug("Previous selection not restored", "index", selected)
		}
	})
	m.On(action.Snapshot, event.Press, func() {
		if _, err := debug.SaveDisplayPNG(s.GS(), "framedbg_snapshot", ""); err != nil {
			slog.Error("Failed to save snapshot", "error", err)
		}
	})
	m.On(action.Quit, event.Press, onQuit)

	return m
}
