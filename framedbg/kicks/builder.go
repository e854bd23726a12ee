package kicks

import (
	"fmt"
	"log/slog"

	"github.com/valerio/framedbg/framedbg/dump"
	"github.com/valerio/framedbg/framedbg/gs"
)

// Detector applies register writes and reports the drawing kicks they cause.
type Detector interface {
	dump.Target
	WriteRegisterMassively(writes []gs.RegisterWrite) []gs.DrawingKick
}

// Build replays the whole dump on det and indexes every drawing kick.
// det is left holding the state at the end of the frame.
func Build(d *dump.FrameDump, det Detector) *Index {
	d.Snapshot().Restore(det)

	var descs []Descriptor
	for p, packet := range d.Packets() {
		start := d.PacketStart(p)
		for _, kick := range det.WriteRegisterMassively(packet.Writes) {
			if kick.CmdIndex < 0 || kick.CmdIndex >= len(packet.Writes) {
				panic(fmt.Sprintf("drawing kick at %d outside packet %d of %d writes", kick.CmdIndex, p, len(packet.Writes)))
			}
			cmd := start + kick.CmdIndex
			kick.CmdIndex = cmd
			descs = append(descs, Descriptor{
				CmdIndex: cmd,
				Packet:   p,
				Metadata: packet.Metadata,
				Kick:     kick,
			})
		}
	}

	idx := NewIndex(descs)
	slog.Debug("Indexed drawing kicks", "kicks", idx.Len(), "commands", d.CommandCount())
	return idx
}
