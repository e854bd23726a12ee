package debug

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/framedbg/framedbg/dump"
	"github.com/valerio/framedbg/framedbg/dump/dumptest"
	"github.com/valerio/framedbg/framedbg/gs"
	"github.com/valerio/framedbg/framedbg/kicks"
	"github.com/valerio/framedbg/framedbg/replay"
)

func reconstruct(t *testing.T, target int) (*gs.Handler, replay.Result, *dump.FrameDump, *kicks.Index) {
	t.Helper()
	d := dumptest.Scenario()
	h := gs.NewHandler()
	idx := kicks.Build(d, h)
	res := replay.New(h, d, idx).Reconstruct(target)
	return h, res, d, idx
}

func TestContextView(t *testing.T) {
	h, res, _, _ := reconstruct(t, 4)

	for ctx, title := range []string{"Context 1", "Context 2"} {
		t.Run(title, func(t *testing.T) {
			v := NewContextView(ctx)
			assert.Equal(t, title, v.Title())
			assert.Equal(t, []string{"(no state)"}, v.Lines())

			v.UpdateState(h, res.Metadata, res.DrawingKick)
			s := v.State()
			assert.Equal(t, uint32(64), s.Frame.Stride())
			assert.Equal(t, gs.Scissor{X0: 0, X1: 63, Y0: 0, Y1: 63}, s.Scissor)
			assert.False(t, s.Test.AlphaEnabled)
			assert.True(t, s.Display.Active)

			lines := v.Lines()
			require.NotEmpty(t, lines)
			assert.Contains(t, lines, "SCISSOR  (0, 0) - (63, 63)")
			assert.Contains(t, lines, "ALPHA TEST off")
			assert.Contains(t, lines, "DEPTH TEST off")
		})
	}
}

func TestContextViewDecodesTest(t *testing.T) {
	h := gs.NewHandler()
	// ATE, GEQUAL, AREF 0x40, FB_ONLY, ZTE, GREATER
	h.WriteRegister(gs.RegisterWrite{Address: gs.TEST_2, Value: 1 | 5<<1 | 0x40<<4 | 1<<12 | 1<<16 | 3<<17})

	v := NewContextView(1)
	v.UpdateState(h, dump.Metadata{}, kicks.Empty)

	assert.Equal(t, gs.Test{
		AlphaEnabled: true,
		AlphaMethod:  gs.AlphaTestGEqual,
		AlphaRef:     0x40,
		AlphaFail:    gs.AlphaFailFBOnly,
		DepthEnabled: true,
		DepthMethod:  gs.DepthTestGreater,
	}, v.State().Test)
	assert.Contains(t, v.Lines(), "ALPHA TEST GEQUAL ref 0x40 fail FB_ONLY")
	assert.Contains(t, v.Lines(), "DEPTH TEST GREATER")
}

func TestInputStateView(t *testing.T) {
	t.Run("at the drawing kick", func(t *testing.T) {
		h, res, _, _ := reconstruct(t, 4)
		v := NewInputStateView()
		assert.Equal(t, "Input State", v.Title())

		v.UpdateState(h, res.Metadata, res.DrawingKick)
		assert.Equal(t, gs.PrimSprite, v.Prim.Type)
		assert.Equal(t, 4, v.Kick.CmdIndex)

		lines := v.Lines()
		assert.Contains(t, lines, "  v0  (0, 0)  z 0  color "+gs.Color{R: 255, A: 0x80}.String())
		assert.Contains(t, lines, "  v1  (4, 4)  z 0  color "+gs.Color{G: 255, A: 0x80}.String())
	})

	t.Run("before any drawing kick", func(t *testing.T) {
		h, res, _, _ := reconstruct(t, 1)
		v := NewInputStateView()
		v.UpdateState(h, res.Metadata, res.DrawingKick)

		assert.True(t, v.Kick.IsEmpty())
		assert.Equal(t, "No drawing kick yet", v.Lines()[len(v.Lines())-1])
	})
}

func TestVU1View(t *testing.T) {
	v := NewVU1View()
	assert.Equal(t, "VU1 Microprogram", v.Title())

	v.UpdateState(nil, dump.Metadata{PathIndex: dump.PathGIF}, kicks.Empty)
	assert.Error(t, v.Step())
	assert.Equal(t, []string{"Current packet did not come from VU1"}, v.Lines())

	vu1 := dump.Metadata{PathIndex: dump.PathVU1, Flags: 1}
	v.UpdateState(nil, vu1, kicks.Empty)
	require.NoError(t, v.Step())
	require.NoError(t, v.Step())
	assert.Equal(t, 2, v.Steps)

	v.UpdateState(nil, vu1, kicks.Empty)
	assert.Equal(t, 2, v.Steps, "same packet keeps the step position")

	v.UpdateState(nil, dump.Metadata{PathIndex: dump.PathVU1, Flags: 2}, kicks.Empty)
	assert.Equal(t, 0, v.Steps)
}

func TestWriteRows(t *testing.T) {
	_, _, d, idx := reconstruct(t, 0)

	rows := WriteRows(d, idx, 1, 4)
	require.Len(t, rows, 4)

	assert.Equal(t, WriteRow{
		Index:    1,
		Packet:   0,
		Path:     "PATH3",
		Register: "RGBAQ",
		Value:    dumptest.RGBA(255, 0, 0, 0x80),
	}, rows[0])

	assert.True(t, rows[1].FirstInPacket)
	assert.Equal(t, "PATH1", rows[1].Path)
	assert.True(t, rows[3].Kick)
	assert.Equal(t, "XYZ2", rows[3].Register)
	assert.Equal(t, '*', []rune(rows[3].String())[0])

	assert.Len(t, WriteRows(d, idx, 4, 100), 2)
	assert.Empty(t, WriteRows(d, idx, 6, 10))
	assert.Len(t, WriteRows(d, nil, -3, 2), 2)
	assert.Nil(t, WriteRows(nil, nil, 0, 10))
}
