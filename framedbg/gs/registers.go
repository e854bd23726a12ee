package gs

import "fmt"

const (
	// RAMSize is the size of local memory in bytes.
	RAMSize = 4 * 1024 * 1024
	// RegisterMax is the number of general purpose register slots.
	RegisterMax = 0x80
)

// general purpose registers
const (
	PRIM       uint8 = 0x00
	RGBAQ      uint8 = 0x01
	ST         uint8 = 0x02
	UV         uint8 = 0x03
	XYZF2      uint8 = 0x04
	XYZ2       uint8 = 0x05
	TEX0_1     uint8 = 0x06
	TEX0_2     uint8 = 0x07
	CLAMP_1    uint8 = 0x08
	CLAMP_2    uint8 = 0x09
	FOG        uint8 = 0x0A
	XYZF3      uint8 = 0x0C
	XYZ3       uint8 = 0x0D
	TEX1_1     uint8 = 0x14
	TEX1_2     uint8 = 0x15
	TEX2_1     uint8 = 0x16
	TEX2_2     uint8 = 0x17
	XYOFFSET_1 uint8 = 0x18
	XYOFFSET_2 uint8 = 0x19
	PRMODECONT uint8 = 0x1A
	PRMODE     uint8 = 0x1B
	TEXCLUT    uint8 = 0x1C
	SCANMSK    uint8 = 0x22
	TEXA       uint8 = 0x3B
	FOGCOL     uint8 = 0x3D
	TEXFLUSH   uint8 = 0x3F
	SCISSOR_1  uint8 = 0x40
	SCISSOR_2  uint8 = 0x41
	ALPHA_1    uint8 = 0x42
	ALPHA_2    uint8 = 0x43
	DIMX       uint8 = 0x44
	DTHE       uint8 = 0x45
	COLCLAMP   uint8 = 0x46
	TEST_1     uint8 = 0x47
	TEST_2     uint8 = 0x48
	PABE       uint8 = 0x49
	FBA_1      uint8 = 0x4A
	FBA_2      uint8 = 0x4B
	FRAME_1    uint8 = 0x4C
	FRAME_2    uint8 = 0x4D
	ZBUF_1     uint8 = 0x4E
	ZBUF_2     uint8 = 0x4F
	BITBLTBUF  uint8 = 0x50
	TRXPOS     uint8 = 0x51
	TRXREG     uint8 = 0x52
	TRXDIR     uint8 = 0x53
	HWREG      uint8 = 0x54
	SIGNAL     uint8 = 0x60
	FINISH     uint8 = 0x61
	LABEL      uint8 = 0x62
)

var registerNames = map[uint8]string{
	PRIM:       "PRIM",
	RGBAQ:      "RGBAQ",
	ST:         "ST",
	UV:         "UV",
	XYZF2:      "XYZF2",
	XYZ2:       "XYZ2",
	TEX0_1:     "TEX0_1",
	TEX0_2:     "TEX0_2",
	CLAMP_1:    "CLAMP_1",
	CLAMP_2:    "CLAMP_2",
	FOG:        "FOG",
	XYZF3:      "XYZF3",
	XYZ3:       "XYZ3",
	TEX1_1:     "TEX1_1",
	TEX1_2:     "TEX1_2",
	TEX2_1:     "TEX2_1",
	TEX2_2:     "TEX2_2",
	XYOFFSET_1: "XYOFFSET_1",
	XYOFFSET_2: "XYOFFSET_2",
	PRMODECONT: "PRMODECONT",
	PRMODE:     "PRMODE",
	TEXCLUT:    "TEXCLUT",
	SCANMSK:    "SCANMSK",
	TEXA:       "TEXA",
	FOGCOL:     "FOGCOL",
	TEXFLUSH:   "TEXFLUSH",
	SCISSOR_1:  "SCISSOR_1",
	SCISSOR_2:  "SCISSOR_2",
	ALPHA_1:    "ALPHA_1",
	ALPHA_2:    "ALPHA_2",
	DIMX:       "DIMX",
	DTHE:       "DTHE",
	COLCLAMP:   "COLCLAMP",
	TEST_1:     "TEST_1",
	TEST_2:     "TEST_2",
	PABE:       "PABE",
	FBA_1:      "FBA_1",
	FBA_2:      "FBA_2",
	FRAME_1:    "FRAME_1",
	FRAME_2:    "FRAME_2",
	ZBUF_1:     "ZBUF_1",
	ZBUF_2:     "ZBUF_2",
	BITBLTBUF:  "BITBLTBUF",
	TRXPOS:     "TRXPOS",
	TRXREG:     "TRXREG",
	TRXDIR:     "TRXDIR",
	HWREG:      "HWREG",
	SIGNAL:     "SIGNAL",
	FINISH:     "FINISH",
	LABEL:      "LABEL",
}

// RegisterName returns the mnemonic of a register, or its number in hex
// when it is not a known register.
func RegisterName(address uint8) string {
	if name, ok := registerNames[address]; ok {
		return name
	}
	return fmt.Sprintf("REG_%02X", address)
}

// RegisterWrite is a single register write as issued by the host.
type RegisterWrite struct {
	Address uint8
	Value   uint64
}

func (w RegisterWrite) String() string {
	return fmt.Sprintf("%s <- 0x%016X", RegisterName(w.Address), w.Value)
}

// IsVertexKick reports whether a write to this register pushes a vertex.
func IsVertexKick(address uint8) bool {
	switch address {
	case XYZ2, XYZF2, XYZ3, XYZF3:
		return true
	}
	return false
}

// IsDrawingKick reports whether completing a primitive with a write to this
// register draws it. XYZ3/XYZF3 complete the primitive without drawing.
func IsDrawingKick(address uint8) bool {
	return address == XYZ2 || address == XYZF2
}
