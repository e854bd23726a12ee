package debug

import (
	"fmt"

	"github.com/valerio/framedbg/framedbg/dump"
	"github.com/valerio/framedbg/framedbg/gs"
	"github.com/valerio/framedbg/framedbg/kicks"
)

// WriteRow is one line of the register write list.
type WriteRow struct {
	Index    int
	Packet   int
	Path     string
	Register string
	Value    uint64
	Kick     bool
	// FirstInPacket marks the first write of its packet.
	FirstInPacket bool
}

// WriteRows returns up to count rows of the register write list starting at
// global command start.
func WriteRows(d *dump.FrameDump, idx *kicks.Index, start, count int) []WriteRow {
	if d == nil {
		return nil
	}
	start = max(start, 0)
	end := min(start+count, d.CommandCount())

	rows := make([]WriteRow, 0, max(end-start, 0))
	for i := start; i < end; i++ {
		cmd, ok := d.Command(i)
		if !ok {
			break
		}
		kick := false
		if idx != nil {
			_, kick = idx.Get(i)
		}
		rows = append(rows, WriteRow{
			Index:         i,
			Packet:        cmd.Packet,
			Path:          cmd.Metadata.PathName(),
			Register:      gs.RegisterName(cmd.Write.Address),
			Value:         cmd.Write.Value,
			Kick:          kick,
			FirstInPacket: d.PacketStart(cmd.Packet) == i,
		})
	}
	return rows
}

func (r WriteRow) String() string {
	marker := ' '
	if r.Kick {
		marker = '*'
	}
	return fmt.Sprintf("%c%6d  %4d %-6s %-10s 0x%016X", marker, r.Index, r.Packet, r.Path, r.Register, r.Value)
}
