package gs

import (
	"log/slog"
)

// Vertex is a vertex as queued by a drawing kick, in window coordinates.
type Vertex struct {
	X, Y  int
	Z     uint32
	Color Color
}

// DrawingKick describes a primitive drawn by a write to XYZ2/XYZF2.
// CmdIndex is relative to the batch given to WriteRegisterMassively.
type DrawingKick struct {
	CmdIndex    int
	PrimType    PrimType
	Context     int
	VertexCount int
	Vertices    [3]Vertex
}

// NoDrawingKick is the empty drawing kick.
var NoDrawingKick = DrawingKick{CmdIndex: -1, PrimType: PrimInvalid}

// IsEmpty reports whether the kick is the empty sentinel.
func (k DrawingKick) IsEmpty() bool {
	return k.PrimType == PrimInvalid
}

// DisplayBuffer is the frame buffer made visible by the last Flip.
type DisplayBuffer struct {
	Frame  Frame
	Mode   DisplayMode
	Flips  int
	Active bool
}

// Handler holds the state of the graphics synthesizer: local memory, the
// general purpose registers and the display mode. Writes go through
// WriteRegisterMassively, which honours the side effects of each register.
type Handler struct {
	ram    []byte
	regs   [RegisterMax]uint64
	smode2 uint64

	vtxCount  int
	vtxQueued int
	vtxBuffer [3]Vertex

	trx transfer

	display DisplayBuffer

	alphaTesting  bool
	depthTesting  bool
	alphaBlending bool
}

// NewHandler creates a handler with blank memory and all debug toggles on.
func NewHandler() *Handler {
	h := &Handler{
		ram:           make([]byte, RAMSize),
		alphaTesting:  true,
		depthTesting:  true,
		alphaBlending: true,
	}
	h.Reset()
	return h
}

// Reset returns the handler to its power-on state. Debug toggles are kept.
func (h *Handler) Reset() {
	clear(h.ram)
	h.regs = [RegisterMax]uint64{}
	h.regs[PRMODECONT] = 1
	h.smode2 = 0
	h.trx = transfer{}
	h.display = DisplayBuffer{}
	h.resetVertexQueue()
}

// RAM returns local memory. Callers must not keep the slice across a Reset.
func (h *Handler) RAM() []byte { return h.ram }

// Registers returns a copy of the register file.
func (h *Handler) Registers() []uint64 {
	regs := make([]uint64, RegisterMax)
	copy(regs, h.regs[:])
	return regs
}

// Register returns the current value of a register.
func (h *Handler) Register(address uint8) uint64 {
	if int(address) >= RegisterMax {
		return 0
	}
	return h.regs[address]
}

func (h *Handler) SMODE2() uint64 { return h.smode2 }

func (h *Handler) Display() DisplayBuffer { return h.display }

// WriteRAMDirect overwrites local memory starting at offset, without side effects.
// Bytes beyond the end of local memory are dropped.
func (h *Handler) WriteRAMDirect(offset int, data []byte) {
	if offset < 0 || offset >= len(h.ram) {
		return
	}
	copy(h.ram[offset:], data)
}

// WriteRegistersDirect overwrites the register file, without side effects.
// The vertex queue is rebuilt from the new PRIM value.
func (h *Handler) WriteRegistersDirect(values []uint64) {
	copy(h.regs[:], values)
	h.resetVertexQueue()
}

// SetSMODE2 overwrites the display mode register.
func (h *Handler) SetSMODE2(value uint64) {
	h.smode2 = value
}

// WriteRegisterMassively applies the writes in order and returns the
// drawing kicks they caused, with CmdIndex relative to writes.
func (h *Handler) WriteRegisterMassively(writes []RegisterWrite) []DrawingKick {
	var kicks []DrawingKick
	for i, w := range writes {
		if kick, ok := h.writeRegister(w); ok {
			kick.CmdIndex = i
			kicks = append(kicks, kick)
		}
	}
	return kicks
}

// WriteRegister applies a single write.
func (h *Handler) WriteRegister(w RegisterWrite) (DrawingKick, bool) {
	kick, ok := h.writeRegister(w)
	if ok {
		kick.CmdIndex = 0
	}
	return kick, ok
}

func (h *Handler) writeRegister(w RegisterWrite) (DrawingKick, bool) {
	if int(w.Address) >= RegisterMax {
		slog.Debug("Write to out of range register ignored", "register", w.Address)
		return NoDrawingKick, false
	}
	h.regs[w.Address] = w.Value

	switch w.Address {
	case PRIM:
		h.resetVertexQueue()
	case XYZ2, XYZF2, XYZ3, XYZF3:
		return h.vertexKick(w.Address, w.Value)
	case TRXDIR:
		h.startTransfer(int(w.Value & 3))
	case HWREG:
		h.transferWord(w.Value)
	}
	return NoDrawingKick, false
}

// Flip makes the frame buffer of context 1 visible.
func (h *Handler) Flip() {
	h.display.Frame = DecodeFrame(h.regs[FRAME_1])
	h.display.Mode = DecodeSMODE2(h.smode2)
	h.display.Flips++
	h.display.Active = true
}

// CurrentPrim returns the primitive attributes in effect, honouring PRMODECONT.
func (h *Handler) CurrentPrim() Prim {
	prim := DecodePrim(h.regs[PRIM])
	if h.regs[PRMODECONT]&1 == 0 {
		attrs := DecodePrim(h.regs[PRMODE])
		attrs.Type = prim.Type
		return attrs
	}
	return prim
}

func (h *Handler) AlphaTestingEnabled() bool      { return h.alphaTesting }
func (h *Handler) SetAlphaTestingEnabled(on bool) { h.alphaTesting = on }

func (h *Handler) DepthTestingEnabled() bool      { return h.depthTesting }
func (h *Handler) SetDepthTestingEnabled(on bool) { h.depthTesting = on }

func (h *Handler) AlphaBlendingEnabled() bool      { return h.alphaBlending }
func (h *Handler) SetAlphaBlendingEnabled(on bool) { h.alphaBlending = on }
