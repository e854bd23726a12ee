package debug

import (
	"fmt"
	"log/slog"

	"github.com/valerio/framedbg/framedbg/dump"
	"github.com/valerio/framedbg/framedbg/gs"
	"github.com/valerio/framedbg/framedbg/kicks"
)

// VU1View tracks the PATH1 packet that fed the GS and the single step
// position within it.
type VU1View struct {
	Metadata dump.Metadata
	Steps    int
	lastKick int
}

func NewVU1View() *VU1View {
	return &VU1View{lastKick: -1}
}

func (v *VU1View) Title() string { return "VU1 Microprogram" }

func (v *VU1View) UpdateState(_ *gs.Handler, metadata dump.Metadata, kick kicks.Descriptor) {
	if metadata != v.Metadata || kick.CmdIndex != v.lastKick {
		v.Steps = 0
	}
	v.Metadata = metadata
	v.lastKick = kick.CmdIndex
}

// Step records one more step into the current PATH1 packet. Microprogram
// execution is not emulated; the view only tracks the step position.
func (v *VU1View) Step() error {
	if v.Metadata.PathIndex != dump.PathVU1 {
		return fmt.Errorf("no VU1 microprogram for %s", v.Metadata.PathName())
	}
	v.Steps++
	slog.Debug("VU1 step", "steps", v.Steps)
	return nil
}

func (v *VU1View) Lines() []string {
	if v.Metadata.PathIndex != dump.PathVU1 {
		return []string{"Current packet did not come from VU1"}
	}
	return []string{
		fmt.Sprintf("Packet   %s", v.Metadata),
		fmt.Sprintf("Steps    %d", v.Steps),
	}
}
