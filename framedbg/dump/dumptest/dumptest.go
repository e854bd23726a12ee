// Package dumptest builds frame dumps for tests.
package dumptest

import (
	"bytes"

	"github.com/valerio/framedbg/framedbg/bit"
	"github.com/valerio/framedbg/framedbg/dump"
	"github.com/valerio/framedbg/framedbg/gs"
)

// Builder assembles a frame dump packet by packet.
type Builder struct {
	snapshot dump.InitialSnapshot
	packets  []dump.Packet
}

// New returns a builder whose snapshot has a 64 pixel wide frame buffer at
// address 0 with a 64x64 scissor on both contexts.
func New() *Builder {
	s := dump.NewInitialSnapshot()
	s.Registers[gs.PRMODECONT] = 1
	s.Registers[gs.FRAME_1] = 1 << 16
	s.Registers[gs.FRAME_2] = 1 << 16
	s.Registers[gs.SCISSOR_1] = Scissor(64, 64)
	s.Registers[gs.SCISSOR_2] = Scissor(64, 64)
	return &Builder{snapshot: s}
}

// Snapshot lets the caller edit the initial snapshot.
func (b *Builder) Snapshot(edit func(s *dump.InitialSnapshot)) *Builder {
	edit(&b.snapshot)
	return b
}

// Packet appends a packet.
func (b *Builder) Packet(path uint32, writes ...gs.RegisterWrite) *Builder {
	b.packets = append(b.packets, dump.Packet{
		Metadata: dump.Metadata{PathIndex: path, Flags: uint32(len(b.packets))},
		Writes:   writes,
	})
	return b
}

func (b *Builder) Build() *dump.FrameDump {
	return dump.New(b.snapshot, b.packets)
}

// Bytes returns the encoded dump.
func (b *Builder) Bytes() []byte {
	var buf bytes.Buffer
	if err := dump.Write(&buf, b.Build()); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// XYZ encodes a vertex position given in whole pixels.
func XYZ(x, y int, z uint32) uint64 {
	v := bit.Insert(0, 0, 16, uint64(x<<4))
	v = bit.Insert(v, 16, 16, uint64(y<<4))
	return bit.Insert(v, 32, 32, uint64(z))
}

// RGBA encodes an RGBAQ value.
func RGBA(r, g, b, a uint8) uint64 {
	return uint64(gs.Color{R: r, G: g, B: b, A: a}.Pixel())
}

// Scissor encodes a scissor covering w x h pixels from the origin.
func Scissor(w, h int) uint64 {
	v := bit.Insert(0, 16, 11, uint64(w-1))
	return bit.Insert(v, 48, 11, uint64(h-1))
}

// Pixels packs two PSMCT32 pixels into one HWREG word, first pixel low.
func Pixels(first, second gs.Color) uint64 {
	return bit.Combine(second.Pixel(), first.Pixel())
}

func W(address uint8, value uint64) gs.RegisterWrite {
	return gs.RegisterWrite{Address: address, Value: value}
}

// Scenario returns a dump of three packets holding 2, 3 and 1 writes. The
// write at index 4 draws a 4x4 green sprite at the origin.
//
//	packet 0 (PATH3): 0 PRIM=sprite, 1 RGBAQ=red
//	packet 1 (PATH1): 2 XYZ2, 3 RGBAQ=green, 4 XYZ2 (kick)
//	packet 2 (PATH2): 5 FINISH
func Scenario() *dump.FrameDump {
	return ScenarioBuilder().Build()
}

func ScenarioBuilder() *Builder {
	return New().
		Packet(dump.PathGIF,
			W(gs.PRIM, uint64(gs.PrimSprite)),
			W(gs.RGBAQ, RGBA(255, 0, 0, 0x80)),
		).
		Packet(dump.PathVU1,
			W(gs.XYZ2, XYZ(0, 0, 0)),
			W(gs.RGBAQ, RGBA(0, 255, 0, 0x80)),
			W(gs.XYZ2, XYZ(4, 4, 0)),
		).
		Packet(dump.PathVIF1,
			W(gs.FINISH, 0),
		)
}
