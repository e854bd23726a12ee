package debug

import (
	"fmt"

	"github.com/valerio/framedbg/framedbg/dump"
	"github.com/valerio/framedbg/framedbg/gs"
	"github.com/valerio/framedbg/framedbg/kicks"
)

// ContextState is the decoded drawing environment of one GS context.
type ContextState struct {
	Frame    gs.Frame
	ZBuf     gs.ZBuf
	Test     gs.Test
	Alpha    gs.Alpha
	Scissor  gs.Scissor
	XYOffset gs.XYOffset
	Tex0     gs.Tex0
	Clamp    uint64
	Display  gs.DisplayBuffer
}

// ContextView shows the registers of context 1 or 2.
type ContextView struct {
	context int
	state   ContextState
	valid   bool
}

// NewContextView creates a view of context 0 (shown as "Context 1") or 1.
func NewContextView(context int) *ContextView {
	return &ContextView{context: context}
}

func (v *ContextView) Title() string {
	return fmt.Sprintf("Context %d", v.context+1)
}

type contextRegisters struct {
	frame, zbuf, test, alpha, scissor, xyoffset, tex0, clamp uint8
}

var contextRegisterSets = [2]contextRegisters{
	{gs.FRAME_1, gs.ZBUF_1, gs.TEST_1, gs.ALPHA_1, gs.SCISSOR_1, gs.XYOFFSET_1, gs.TEX0_1, gs.CLAMP_1},
	{gs.FRAME_2, gs.ZBUF_2, gs.TEST_2, gs.ALPHA_2, gs.SCISSOR_2, gs.XYOFFSET_2, gs.TEX0_2, gs.CLAMP_2},
}

func (v *ContextView) UpdateState(state *gs.Handler, _ dump.Metadata, _ kicks.Descriptor) {
	regs := contextRegisterSets[v.context&1]
	v.state = ContextState{
		Frame:    gs.DecodeFrame(state.Register(regs.frame)),
		ZBuf:     gs.DecodeZBuf(state.Register(regs.zbuf)),
		Test:     gs.DecodeTest(state.Register(regs.test)),
		Alpha:    gs.DecodeAlpha(state.Register(regs.alpha)),
		Scissor:  gs.DecodeScissor(state.Register(regs.scissor)),
		XYOffset: gs.DecodeXYOffset(state.Register(regs.xyoffset)),
		Tex0:     gs.DecodeTex0(state.Register(regs.tex0)),
		Clamp:    state.Register(regs.clamp),
		Display:  state.Display(),
	}
	v.valid = true
}

func (v *ContextView) State() ContextState { return v.state }

var alphaTestNames = [...]string{"NEVER", "ALWAYS", "LESS", "LEQUAL", "EQUAL", "GEQUAL", "GREATER", "NOTEQUAL"}
var alphaFailNames = [...]string{"KEEP", "FB_ONLY", "ZB_ONLY", "RGB_ONLY"}
var depthTestNames = [...]string{"NEVER", "ALWAYS", "GEQUAL", "GREATER"}
var blendInputNames = [...]string{"Cs", "Cd", "0", "?"}
var blendFactorNames = [...]string{"As", "Ad", "FIX", "?"}

func (v *ContextView) Lines() []string {
	if !v.valid {
		return []string{"(no state)"}
	}
	s := v.state
	lines := []string{
		fmt.Sprintf("FRAME    base 0x%05X  width %d  psm 0x%02X  mask 0x%08X", s.Frame.Address(), s.Frame.Stride(), s.Frame.PSM, s.Frame.Mask),
		fmt.Sprintf("ZBUF     base 0x%05X  psm 0x%02X  write %v", s.ZBuf.Address(), s.ZBuf.PSM, !s.ZBuf.Mask),
		fmt.Sprintf("XYOFFSET (%d, %d)", s.XYOffset.X>>4, s.XYOffset.Y>>4),
		fmt.Sprintf("SCISSOR  (%d, %d) - (%d, %d)", s.Scissor.X0, s.Scissor.Y0, s.Scissor.X1, s.Scissor.Y1),
	}

	if s.Test.AlphaEnabled {
		lines = append(lines, fmt.Sprintf("ALPHA TEST %s ref 0x%02X fail %s",
			alphaTestNames[s.Test.AlphaMethod], s.Test.AlphaRef, alphaFailNames[s.Test.AlphaFail]))
	} else {
		lines = append(lines, "ALPHA TEST off")
	}
	if s.Test.DepthEnabled {
		lines = append(lines, "DEPTH TEST "+depthTestNames[s.Test.DepthMethod])
	} else {
		lines = append(lines, "DEPTH TEST off")
	}

	a := s.Alpha
	lines = append(lines,
		fmt.Sprintf("BLEND    (%s - %s) * %s + %s  fix 0x%02X",
			blendInputNames[a.A], blendInputNames[a.B], blendFactorNames[a.C], blendInputNames[a.D], a.Fix),
		fmt.Sprintf("TEX0     base 0x%05X  width %d  psm 0x%02X  size %dx%d",
			s.Tex0.BasePtr*256, s.Tex0.Width*64, s.Tex0.PSM, 1<<s.Tex0.LogWidth, 1<<s.Tex0.LogHeight),
		fmt.Sprintf("CLAMP    0x%016X", s.Clamp),
	)

	if s.Display.Active {
		lines = append(lines, fmt.Sprintf("DISPLAY  base 0x%05X  width %d  interlaced %v  flips %d",
			s.Display.Frame.Address(), s.Display.Frame.Stride(), s.Display.Mode.Interlaced, s.Display.Flips))
	}
	return lines
}
