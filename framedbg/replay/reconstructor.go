package replay

import (
	"log/slog"

	"github.com/valerio/framedbg/framedbg/dump"
	"github.com/valerio/framedbg/framedbg/gs"
	"github.com/valerio/framedbg/framedbg/kicks"
)

// GS is the graphics state replayed onto.
type GS interface {
	dump.Target
	WriteRegisterMassively(writes []gs.RegisterWrite) []gs.DrawingKick
	Flip()
}

// Result is the state reached by a reconstruction.
type Result struct {
	// Target is the requested command index, as given.
	Target int
	// Applied is the number of writes replayed.
	Applied int
	// Packet is the packet holding the last replayed write, or -1.
	Packet      int
	Metadata    dump.Metadata
	DrawingKick kicks.Descriptor
}

// Reconstructor rebuilds the GS state as of any command of a dump, always
// starting over from the initial snapshot.
type Reconstructor struct {
	state GS
	dump  *dump.FrameDump
	index *kicks.Index
	batch []gs.RegisterWrite
}

func New(state GS, d *dump.FrameDump, index *kicks.Index) *Reconstructor {
	return &Reconstructor{
		state: state,
		dump:  d,
		index: index,
	}
}

// Reconstruct resets the GS, restores the initial snapshot and replays every
// write up to and including target in a single batch. Targets before the
// first write replay nothing; targets past the last write replay everything.
func (r *Reconstructor) Reconstruct(target int) Result {
	r.dump.Snapshot().Restore(r.state)

	result := Result{
		Target:      target,
		Packet:      -1,
		DrawingKick: kicks.Empty,
	}

	r.batch = r.batch[:0]
	cmdIndex := 0
	for p, packet := range r.dump.Packets() {
		if cmdIndex > target {
			break
		}
		for _, write := range packet.Writes {
			if cmdIndex > target {
				break
			}
			r.batch = append(r.batch, write)
			result.Packet = p
			result.Metadata = packet.Metadata
			cmdIndex++
		}
	}
	result.Applied = len(r.batch)

	drawn := r.state.WriteRegisterMassively(r.batch)
	r.state.Flip()

	result.DrawingKick = r.index.Lookup(target)

	slog.Debug("Reconstructed frame state",
		"target", target,
		"applied", result.Applied,
		"kicks_replayed", len(drawn),
		"drawing_kick", result.DrawingKick.CmdIndex)

	return result
}
