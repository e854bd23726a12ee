package gs

import (
	"fmt"

	"github.com/valerio/framedbg/framedbg/bit"
)

// PrimType is the primitive type held in PRIM bits 0-2.
type PrimType uint8

const (
	PrimPoint PrimType = iota
	PrimLine
	PrimLineStrip
	PrimTriangle
	PrimTriangleStrip
	PrimTriangleFan
	PrimSprite
	PrimReserved
	// PrimInvalid marks the absence of a primitive.
	PrimInvalid PrimType = 0xFF
)

var primTypeNames = [...]string{
	"Point", "Line", "Line Strip", "Triangle", "Triangle Strip", "Triangle Fan", "Sprite", "Reserved",
}

func (p PrimType) String() string {
	if int(p) < len(primTypeNames) {
		return primTypeNames[p]
	}
	return "Invalid"
}

// vertices needed to complete the first primitive after PRIM, and the
// following ones when the primitive type chains (strips and fans)
var (
	initVertexCounts = [8]int{1, 2, 2, 3, 3, 3, 2, 0}
	nextVertexCounts = [8]int{1, 2, 1, 3, 1, 1, 2, 0}
)

// Prim is the decoded form of PRIM and PRMODE.
type Prim struct {
	Type     PrimType
	Gouraud  bool
	Textured bool
	Fog      bool
	Blend    bool
	AA       bool
	UseUV    bool
	Context  int
	FixFrag  bool
}

func DecodePrim(v uint64) Prim {
	return Prim{
		Type:     PrimType(bit.Field(v, 0, 3)),
		Gouraud:  bit.IsSet(3, v),
		Textured: bit.IsSet(4, v),
		Fog:      bit.IsSet(5, v),
		Blend:    bit.IsSet(6, v),
		AA:       bit.IsSet(7, v),
		UseUV:    bit.IsSet(8, v),
		Context:  int(bit.Field(v, 9, 1)),
		FixFrag:  bit.IsSet(10, v),
	}
}

// Color is an 8 bit per channel RGBA color.
type Color struct {
	R, G, B, A uint8
}

func DecodeRGBAQ(v uint64) Color {
	return Color{
		R: uint8(bit.Field(v, 0, 8)),
		G: uint8(bit.Field(v, 8, 8)),
		B: uint8(bit.Field(v, 16, 8)),
		A: uint8(bit.Field(v, 24, 8)),
	}
}

// Pixel packs the color as a PSMCT32 pixel.
func (c Color) Pixel() uint32 {
	return uint32(c.R) | uint32(c.G)<<8 | uint32(c.B)<<16 | uint32(c.A)<<24
}

func ColorFromPixel(p uint32) Color {
	return Color{R: uint8(p), G: uint8(p >> 8), B: uint8(p >> 16), A: uint8(p >> 24)}
}

func (c Color) String() string {
	return fmt.Sprintf("(%d, %d, %d, %d)", c.R, c.G, c.B, c.A)
}

// XYZ is a vertex position in primitive coordinates (12.4 fixed point).
type XYZ struct {
	X, Y uint16
	Z    uint32
	F    uint8
}

func DecodeXYZ(v uint64) XYZ {
	return XYZ{
		X: uint16(bit.Field(v, 0, 16)),
		Y: uint16(bit.Field(v, 16, 16)),
		Z: uint32(bit.Field(v, 32, 32)),
	}
}

func DecodeXYZF(v uint64) XYZ {
	return XYZ{
		X: uint16(bit.Field(v, 0, 16)),
		Y: uint16(bit.Field(v, 16, 16)),
		Z: uint32(bit.Field(v, 32, 24)),
		F: uint8(bit.Field(v, 56, 8)),
	}
}

// XYOffset holds the primitive to window coordinate offset (12.4 fixed point).
type XYOffset struct {
	X, Y uint16
}

func DecodeXYOffset(v uint64) XYOffset {
	return XYOffset{
		X: uint16(bit.Field(v, 0, 16)),
		Y: uint16(bit.Field(v, 32, 16)),
	}
}

// Frame describes a context's frame buffer.
type Frame struct {
	BasePtr uint32 // in units of 2048 words
	Width   uint32 // in units of 64 pixels
	PSM     uint32
	Mask    uint32
}

func DecodeFrame(v uint64) Frame {
	return Frame{
		BasePtr: uint32(bit.Field(v, 0, 9)),
		Width:   uint32(bit.Field(v, 16, 6)),
		PSM:     uint32(bit.Field(v, 24, 6)),
		Mask:    uint32(bit.Field(v, 32, 32)),
	}
}

// Address returns the byte address of the frame buffer in local memory.
func (f Frame) Address() uint32 { return f.BasePtr * 2048 * 4 }

// Stride returns the width of the frame buffer in pixels.
func (f Frame) Stride() uint32 { return f.Width * 64 }

// ZBuf describes a context's depth buffer.
type ZBuf struct {
	BasePtr uint32 // in units of 2048 words
	PSM     uint32
	Mask    bool
}

func DecodeZBuf(v uint64) ZBuf {
	return ZBuf{
		BasePtr: uint32(bit.Field(v, 0, 9)),
		PSM:     uint32(bit.Field(v, 24, 4)),
		Mask:    bit.IsSet(32, v),
	}
}

func (z ZBuf) Address() uint32 { return z.BasePtr * 2048 * 4 }

// alpha test methods
const (
	AlphaTestNever = iota
	AlphaTestAlways
	AlphaTestLess
	AlphaTestLEqual
	AlphaTestEqual
	AlphaTestGEqual
	AlphaTestGreater
	AlphaTestNotEqual
)

// alpha test fail behaviours
const (
	AlphaFailKeep = iota
	AlphaFailFBOnly
	AlphaFailZBOnly
	AlphaFailRGBOnly
)

// depth test methods
const (
	DepthTestNever = iota
	DepthTestAlways
	DepthTestGEqual
	DepthTestGreater
)

// Test is the decoded form of TEST_1/TEST_2.
type Test struct {
	AlphaEnabled     bool
	AlphaMethod      int
	AlphaRef         uint8
	AlphaFail        int
	DestAlphaEnabled bool
	DestAlphaMode    bool
	DepthEnabled     bool
	DepthMethod      int
}

func DecodeTest(v uint64) Test {
	return Test{
		AlphaEnabled:     bit.IsSet(0, v),
		AlphaMethod:      int(bit.Field(v, 1, 3)),
		AlphaRef:         uint8(bit.Field(v, 4, 8)),
		AlphaFail:        int(bit.Field(v, 12, 2)),
		DestAlphaEnabled: bit.IsSet(14, v),
		DestAlphaMode:    bit.IsSet(15, v),
		DepthEnabled:     bit.IsSet(16, v),
		DepthMethod:      int(bit.Field(v, 17, 2)),
	}
}

// Alpha is the decoded blending equation (A - B) * C >> 7 + D.
type Alpha struct {
	A, B, C, D int
	Fix        uint8
}

func DecodeAlpha(v uint64) Alpha {
	return Alpha{
		A:   int(bit.Field(v, 0, 2)),
		B:   int(bit.Field(v, 2, 2)),
		C:   int(bit.Field(v, 4, 2)),
		D:   int(bit.Field(v, 6, 2)),
		Fix: uint8(bit.Field(v, 32, 8)),
	}
}

// Scissor is an inclusive window coordinate rectangle.
type Scissor struct {
	X0, X1, Y0, Y1 int
}

func DecodeScissor(v uint64) Scissor {
	return Scissor{
		X0: int(bit.Field(v, 0, 11)),
		X1: int(bit.Field(v, 16, 11)),
		Y0: int(bit.Field(v, 32, 11)),
		Y1: int(bit.Field(v, 48, 11)),
	}
}

// BitBltBuf describes the source and destination buffers of a transfer.
type BitBltBuf struct {
	SrcPtr   uint32 // in units of 64 words
	SrcWidth uint32 // in units of 64 pixels
	SrcPSM   uint32
	DstPtr   uint32
	DstWidth uint32
	DstPSM   uint32
}

func DecodeBitBltBuf(v uint64) BitBltBuf {
	return BitBltBuf{
		SrcPtr:   uint32(bit.Field(v, 0, 14)),
		SrcWidth: uint32(bit.Field(v, 16, 6)),
		SrcPSM:   uint32(bit.Field(v, 24, 6)),
		DstPtr:   uint32(bit.Field(v, 32, 14)),
		DstWidth: uint32(bit.Field(v, 48, 6)),
		DstPSM:   uint32(bit.Field(v, 56, 6)),
	}
}

// TrxPos holds the upper left corners of a transfer.
type TrxPos struct {
	SrcX, SrcY int
	DstX, DstY int
	Dir        int
}

func DecodeTrxPos(v uint64) TrxPos {
	return TrxPos{
		SrcX: int(bit.Field(v, 0, 11)),
		SrcY: int(bit.Field(v, 16, 11)),
		DstX: int(bit.Field(v, 32, 11)),
		DstY: int(bit.Field(v, 48, 11)),
		Dir:  int(bit.Field(v, 59, 2)),
	}
}

// TrxReg holds the size of a transfer in pixels.
type TrxReg struct {
	Width, Height int
}

func DecodeTrxReg(v uint64) TrxReg {
	return TrxReg{
		Width:  int(bit.Field(v, 0, 12)),
		Height: int(bit.Field(v, 32, 12)),
	}
}

// transfer directions held in TRXDIR
const (
	TransferHostToLocal = iota
	TransferLocalToHost
	TransferLocalToLocal
	TransferDeactivated
)

// Tex0 is the subset of TEX0 shown by the debugger.
type Tex0 struct {
	BasePtr   uint32
	Width     uint32
	PSM       uint32
	LogWidth  uint32
	LogHeight uint32
	HasAlpha  bool
	Function  uint32
	ClutPtr   uint32
}

func DecodeTex0(v uint64) Tex0 {
	return Tex0{
		BasePtr:   uint32(bit.Field(v, 0, 14)),
		Width:     uint32(bit.Field(v, 14, 6)),
		PSM:       uint32(bit.Field(v, 20, 6)),
		LogWidth:  uint32(bit.Field(v, 26, 4)),
		LogHeight: uint32(bit.Field(v, 30, 4)),
		HasAlpha:  bit.IsSet(34, v),
		Function:  uint32(bit.Field(v, 35, 2)),
		ClutPtr:   uint32(bit.Field(v, 37, 14)),
	}
}

// DisplayMode is the decoded form of SMODE2.
type DisplayMode struct {
	Interlaced bool
	FrameMode  bool
	PowerMode  int
}

func DecodeSMODE2(v uint64) DisplayMode {
	return DisplayMode{
		Interlaced: bit.IsSet(0, v),
		FrameMode:  bit.IsSet(1, v),
		PowerMode:  int(bit.Field(v, 2, 2)),
	}
}
