package debug

import (
	"fmt"

	"github.com/valerio/framedbg/framedbg/dump"
	"github.com/valerio/framedbg/framedbg/gs"
	"github.com/valerio/framedbg/framedbg/kicks"
)

// InputStateView shows the drawing kick in effect and the primitive state.
type InputStateView struct {
	Metadata dump.Metadata
	Kick     kicks.Descriptor
	Prim     gs.Prim
	Color    gs.Color
	valid    bool
}

func NewInputStateView() *InputStateView {
	return &InputStateView{Kick: kicks.Empty}
}

func (v *InputStateView) Title() string { return "Input State" }

func (v *InputStateView) UpdateState(state *gs.Handler, metadata dump.Metadata, kick kicks.Descriptor) {
	v.Metadata = metadata
	v.Kick = kick
	v.Prim = state.CurrentPrim()
	v.Color = gs.DecodeRGBAQ(state.Register(gs.RGBAQ))
	v.valid = true
}

func (v *InputStateView) Lines() []string {
	if !v.valid {
		return []string{"(no state)"}
	}
	lines := []string{
		fmt.Sprintf("Packet   %s", v.Metadata),
		fmt.Sprintf("PRIM     %s  context %d  gouraud %v  textured %v  blend %v",
			v.Prim.Type, v.Prim.Context+1, v.Prim.Gouraud, v.Prim.Textured, v.Prim.Blend),
		fmt.Sprintf("RGBAQ    %s", v.Color),
		"",
	}

	if v.Kick.IsEmpty() {
		return append(lines, "No drawing kick yet")
	}

	k := v.Kick.Kick
	lines = append(lines, fmt.Sprintf("Drawing kick %s", v.Kick))
	for i := 0; i < k.VertexCount; i++ {
		vtx := k.Vertices[i]
		lines = append(lines, fmt.Sprintf("  v%d  (%d, %d)  z %d  color %s", i, vtx.X, vtx.Y, vtx.Z, vtx.Color))
	}
	return lines
}
