package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/framedbg/framedbg/dump"
	"github.com/valerio/framedbg/framedbg/dump/dumptest"
	"github.com/valerio/framedbg/framedbg/gs"
	"github.com/valerio/framedbg/framedbg/kicks"
)

type fakeTab struct {
	title    string
	updates  int
	metadata dump.Metadata
	kick     kicks.Descriptor
}

func (f *fakeTab) Title() string { return f.title }

func (f *fakeTab) UpdateState(_ *gs.Handler, metadata dump.Metadata, kick kicks.Descriptor) {
	f.updates++
	f.metadata = metadata
	f.kick = kick
}

type stepperTab struct {
	fakeTab
	steps int
}

func (s *stepperTab) Step() error {
	s.steps++
	return nil
}

func loadedSession(t *testing.T) *Session {
	t.Helper()
	s := New(gs.NewHandler())
	require.NoError(t, s.Load(dumptest.Scenario()))
	return s
}

func writeScenario(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.dmp")
	require.NoError(t, os.WriteFile(path, dumptest.ScenarioBuilder().Bytes(), 0o644))
	return path
}

func TestNewSession(t *testing.T) {
	s := New(gs.NewHandler())

	assert.Equal(t, NoDumpLoaded, s.State())
	assert.Nil(t, s.Dump())
	assert.Nil(t, s.Index())
	assert.Equal(t, -1, s.ActiveTab())

	_, ok := s.Selected()
	assert.False(t, ok)

	assert.ErrorIs(t, s.SelectIndex(0), ErrNoDump)
	assert.ErrorIs(t, s.Move(1), ErrNoDump)
	assert.ErrorIs(t, s.NextKick(), ErrNoDump)
	assert.ErrorIs(t, s.StepVU1(), ErrNoDump)
}

func TestLoadSelectsFirstCommand(t *testing.T) {
	s := loadedSession(t)

	assert.Equal(t, DumpLoaded, s.State())
	assert.Equal(t, "DumpLoaded", s.State().String())

	selected, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, 0, selected)
	assert.Equal(t, 1, s.Result().Applied)
	assert.Equal(t, dump.PathGIF, s.Result().Metadata.PathIndex)
	assert.True(t, s.Result().DrawingKick.IsEmpty())
	assert.Equal(t, 1, s.Index().Len())
}

func TestLoadFile(t *testing.T) {
	s := New(gs.NewHandler())
	require.NoError(t, s.LoadFile(writeScenario(t)))
	assert.Equal(t, 6, s.Dump().CommandCount())

	t.Run("failed load keeps the current dump", func(t *testing.T) {
		before := s.Dump()
		require.NoError(t, s.SelectIndex(4))

		data := dumptest.ScenarioBuilder().Bytes()
		truncated := filepath.Join(t.TempDir(), "truncated.dmp")
		require.NoError(t, os.WriteFile(truncated, data[:len(data)-5], 0o644))

		err := s.LoadFile(truncated)
		require.Error(t, err)
		assert.True(t, dump.IsMalformed(err))
		assert.Same(t, before, s.Dump())

		selected, _ := s.Selected()
		assert.Equal(t, 4, selected)

		require.NoError(t, s.SelectIndex(5))
		assert.Equal(t, 6, s.Result().Applied)
		assert.Equal(t, dump.PathVIF1, s.Result().Metadata.PathIndex)
		assert.Equal(t, uint32(2), s.Result().Metadata.Flags)
		assert.Equal(t, 4, s.Result().DrawingKick.CmdIndex)
	})

	t.Run("missing file", func(t *testing.T) {
		assert.Error(t, s.LoadFile(filepath.Join(t.TempDir(), "missing.dmp")))
		assert.Equal(t, DumpLoaded, s.State())
	})
}

func TestSelectIndex(t *testing.T) {
	s := loadedSession(t)

	require.NoError(t, s.SelectIndex(4))
	assert.Equal(t, 4, s.Result().DrawingKick.CmdIndex)
	assert.Equal(t, dump.PathVU1, s.Result().Metadata.PathIndex)

	for _, i := range []int{-1, 6, 100} {
		err := s.SelectIndex(i)
		assert.ErrorIs(t, err, ErrIndexOutOfRange, "index %d", i)
	}

	selected, _ := s.Selected()
	assert.Equal(t, 4, selected, "selection is unchanged by rejected requests")
}

func TestMove(t *testing.T) {
	s := loadedSession(t)

	tests := []struct {
		name     string
		delta    int
		expected int
	}{
		{"forward", 2, 2},
		{"backward", -1, 1},
		{"clamped at start", -50, 0},
		{"clamped at end", 50, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, s.Move(tt.delta))
			selected, _ := s.Selected()
			assert.Equal(t, tt.expected, selected)
		})
	}

	require.NoError(t, s.SelectFirst())
	selected, _ := s.Selected()
	assert.Equal(t, 0, selected)

	require.NoError(t, s.SelectLast())
	selected, _ = s.Selected()
	assert.Equal(t, 5, selected)
}

func TestKickNavigation(t *testing.T) {
	s := loadedSession(t)

	require.NoError(t, s.NextKick())
	selected, _ := s.Selected()
	assert.Equal(t, 4, selected)

	assert.ErrorIs(t, s.NextKick(), ErrIndexOutOfRange)

	require.NoError(t, s.SelectLast())
	require.NoError(t, s.PrevKick())
	selected, _ = s.Selected()
	assert.Equal(t, 4, selected)

	assert.ErrorIs(t, s.PrevKick(), ErrIndexOutOfRange)
}

func TestTabs(t *testing.T) {
	s := New(gs.NewHandler())
	first := &fakeTab{title: "first"}
	second := &fakeTab{title: "second"}
	s.AddTab(first)
	s.AddTab(second)
	assert.Equal(t, 0, s.ActiveTab())

	s.UpdateCurrentTab()
	assert.Equal(t, 0, first.updates, "nothing to show without a dump")

	require.NoError(t, s.Load(dumptest.Scenario()))
	assert.Equal(t, 1, first.updates)
	assert.Equal(t, 0, second.updates, "only the active tab is refreshed")

	require.NoError(t, s.SelectIndex(5))
	assert.Equal(t, 2, first.updates)
	assert.Equal(t, dump.PathVIF1, first.metadata.PathIndex)
	assert.Equal(t, 4, first.kick.CmdIndex)

	s.SetActiveTab(1)
	assert.Equal(t, 1, s.ActiveTab())
	assert.Equal(t, 1, second.updates)
	assert.Equal(t, 4, second.kick.CmdIndex)

	s.SetActiveTab(7)
	assert.Equal(t, 1, s.ActiveTab())
}

func TestTogglesReconstruct(t *testing.T) {
	s := loadedSession(t)
	tab := &fakeTab{}
	s.AddTab(tab)
	require.NoError(t, s.SelectIndex(4))
	updates := tab.updates

	tests := []struct {
		name    string
		toggle  func()
		enabled func() bool
	}{
		{"alpha test", s.ToggleAlphaTest, s.GS().AlphaTestingEnabled},
		{"depth test", s.ToggleDepthTest, s.GS().DepthTestingEnabled},
		{"alpha blending", s.ToggleAlphaBlending, s.GS().AlphaBlendingEnabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.True(t, tt.enabled())
			tt.toggle()
			assert.False(t, tt.enabled())

			updates++
			assert.Equal(t, updates, tab.updates)
			selected, _ := s.Selected()
			assert.Equal(t, 4, selected, "selection survives a toggle")
			assert.Equal(t, 4, s.Result().DrawingKick.CmdIndex)

			tt.toggle()
			updates++
			assert.True(t, tt.enabled())
		})
	}
}

func TestToggleWithoutDump(t *testing.T) {
	s := New(gs.NewHandler())
	s.ToggleAlphaTest()
	assert.False(t, s.GS().AlphaTestingEnabled())
	assert.Equal(t, NoDumpLoaded, s.State())
}

func TestStepVU1(t *testing.T) {
	s := loadedSession(t)
	other := &fakeTab{}
	vu1 := &stepperTab{}
	s.AddTab(other)
	s.AddTab(vu1)

	t.Run("rejected outside PATH1", func(t *testing.T) {
		require.NoError(t, s.SelectIndex(0))
		assert.ErrorIs(t, s.StepVU1(), ErrNotVU1Path)
		assert.Equal(t, 0, vu1.steps)
		assert.Equal(t, 0, s.ActiveTab())
	})

	t.Run("steps the microprogram tab", func(t *testing.T) {
		require.NoError(t, s.SelectIndex(3))
		require.NoError(t, s.StepVU1())
		assert.Equal(t, 1, vu1.steps)
		assert.Equal(t, 1, s.ActiveTab())
	})
}

// reloadingTab tries to replace the dump from inside a refresh.
type reloadingTab struct {
	fakeTab
	load func() error
	errs []error
}

func (r *reloadingTab) UpdateState(state *gs.Handler, metadata dump.Metadata, kick kicks.Descriptor) {
	r.fakeTab.UpdateState(state, metadata, kick)
	if r.load != nil {
		r.errs = append(r.errs, r.load())
	}
}

func TestLoadRejectedDuringReconstruction(t *testing.T) {
	path := writeScenario(t)

	tests := []struct {
		name string
		load func(s *Session) error
	}{
		{"Load", func(s *Session) error { return s.Load(dumptest.Scenario()) }},
		{"LoadFile", func(s *Session) error { return s.LoadFile(path) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := loadedSession(t)
			before := s.Dump()
			tab := &reloadingTab{}
			s.AddTab(tab)
			tab.load = func() error { return tt.load(s) }

			require.NoError(t, s.SelectIndex(4))
			require.Len(t, tab.errs, 1)
			for _, err := range tab.errs {
				assert.ErrorIs(t, err, ErrBusy)
			}
			assert.Same(t, before, s.Dump())
			selected, _ := s.Selected()
			assert.Equal(t, 4, selected)

			tab.load = nil
			require.NoError(t, tt.load(s))
			assert.NotSame(t, before, s.Dump())
		})
	}
}
