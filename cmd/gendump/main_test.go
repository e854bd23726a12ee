package main

import (
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/framedbg/framedbg/dump"
	"github.com/valerio/framedbg/framedbg/gs"
	"github.com/valerio/framedbg/framedbg/kicks"
	"github.com/valerio/framedbg/framedbg/replay"
)

func TestBuild(t *testing.T) {
	d := build(5)
	assert.Equal(t, 7, d.PacketCount())

	h := gs.NewHandler()
	idx := kicks.Build(d, h)
	assert.Equal(t, 5, idx.Len())

	pixel := func(x, y int) gs.Color {
		return gs.ColorFromPixel(binary.LittleEndian.Uint32(h.RAM()[(y*64+x)*4:]))
	}

	r := replay.New(h, d, idx)
	r.Reconstruct(len(upload()) - 1)
	assert.Equal(t, gs.Color{R: 255, G: 255, B: 255, A: 0x80}, pixel(0, 0))
	assert.Equal(t, gs.Color{A: 0x80}, pixel(1, 0))
	assert.Equal(t, gs.Color{}, pixel(8, 0))
}

func TestBuildSaves(t *testing.T) {
	for _, name := range []string{"frame.dmp", "frame.dmp.sz", "frame.dmp.zip"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, dump.Save(path, build(3)))

			d, err := dump.Open(path)
			require.NoError(t, err)
			assert.Equal(t, build(3).CommandCount(), d.CommandCount())
		})
	}
}

func TestRegisterEncoding(t *testing.T) {
	assert.Equal(t, gs.Test{
		AlphaEnabled: true,
		AlphaMethod:  gs.AlphaTestGEqual,
		AlphaRef:     0x40,
		AlphaFail:    gs.AlphaFailKeep,
	}, gs.DecodeTest(testFor(3)))
	assert.Equal(t, uint64(0), testFor(2))

	d := build(2)
	prims := make([]gs.Prim, 0, 2)
	for _, p := range d.Packets()[1:3] {
		prims = append(prims, gs.DecodePrim(p.Writes[0].Value))
	}
	assert.Equal(t, gs.Prim{Type: gs.PrimSprite, Blend: true, Context: 0}, prims[0])
	assert.Equal(t, gs.Prim{Type: gs.PrimSprite, Context: 1}, prims[1])
}
