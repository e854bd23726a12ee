package dump

import (
	"fmt"
	"sort"

	"github.com/valerio/framedbg/framedbg/gs"
)

// transfer paths into the GS
const (
	PathUnknown uint32 = 0
	PathVU1     uint32 = 1
	PathVIF1    uint32 = 2
	PathGIF     uint32 = 3
)

// Metadata describes where a packet came from.
type Metadata struct {
	PathIndex uint32
	Flags     uint32
}

func (m Metadata) PathName() string {
	switch m.PathIndex {
	case PathVU1:
		return "PATH1"
	case PathVIF1:
		return "PATH2"
	case PathGIF:
		return "PATH3"
	}
	return fmt.Sprintf("PATH?%d", m.PathIndex)
}

func (m Metadata) String() string {
	return fmt.Sprintf("%s flags=0x%08X", m.PathName(), m.Flags)
}

// Packet is a contiguous group of register writes sharing one metadata record.
type Packet struct {
	Metadata Metadata
	Writes   []gs.RegisterWrite
}

// InitialSnapshot is the GS state at the start of the frame.
type InitialSnapshot struct {
	RAM       []byte
	Registers []uint64
	SMODE2    uint64
}

// NewInitialSnapshot returns a blank snapshot of the right dimensions.
func NewInitialSnapshot() InitialSnapshot {
	return InitialSnapshot{
		RAM:       make([]byte, gs.RAMSize),
		Registers: make([]uint64, gs.RegisterMax),
	}
}

// Target receives a snapshot.
type Target interface {
	Reset()
	WriteRAMDirect(offset int, data []byte)
	WriteRegistersDirect(values []uint64)
	SetSMODE2(value uint64)
}

// Restore resets t and overwrites its memory, registers and display mode
// with the snapshot.
func (s *InitialSnapshot) Restore(t Target) {
	t.Reset()
	t.WriteRAMDirect(0, s.RAM)
	t.WriteRegistersDirect(s.Registers)
	t.SetSMODE2(s.SMODE2)
}

// Command is a register write located in the global command order.
type Command struct {
	Index    int
	Packet   int
	Metadata Metadata
	Write    gs.RegisterWrite
}

// FrameDump is a recorded frame: the initial snapshot and the packets that
// followed it. It is never modified after creation.
type FrameDump struct {
	snapshot InitialSnapshot
	packets  []Packet
	starts   []int
	total    int
}

// New creates a frame dump and computes the global command order.
func New(snapshot InitialSnapshot, packets []Packet) *FrameDump {
	d := &FrameDump{
		snapshot: snapshot,
		packets:  packets,
		starts:   make([]int, len(packets)),
	}
	for i, p := range packets {
		d.starts[i] = d.total
		d.total += len(p.Writes)
	}
	return d
}

func (d *FrameDump) Snapshot() *InitialSnapshot { return &d.snapshot }

func (d *FrameDump) Packets() []Packet { return d.packets }

func (d *FrameDump) PacketCount() int { return len(d.packets) }

// CommandCount returns the number of register writes across all packets.
func (d *FrameDump) CommandCount() int { return d.total }

// PacketStart returns the global index of the first write of packet p.
func (d *FrameDump) PacketStart(p int) int { return d.starts[p] }

// Locate returns the packet holding the write at global index cmd.
func (d *FrameDump) Locate(cmd int) (int, bool) {
	if cmd < 0 || cmd >= d.total {
		return -1, false
	}
	// Empty packets share their start with the next packet, so the last
	// start at or before cmd always belongs to a packet holding cmd.
	p := sort.Search(len(d.starts), func(i int) bool { return d.starts[i] > cmd }) - 1
	return p, true
}

// Command returns the write at global index cmd.
func (d *FrameDump) Command(cmd int) (Command, bool) {
	p, ok := d.Locate(cmd)
	if !ok {
		return Command{Index: cmd, Packet: -1}, false
	}
	return Command{
		Index:    cmd,
		Packet:   p,
		Metadata: d.packets[p].Metadata,
		Write:    d.packets[p].Writes[cmd-d.starts[p]],
	}, true
}
