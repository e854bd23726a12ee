package gs

import (
	"encoding/binary"
	"log/slog"

	"github.com/valerio/framedbg/framedbg/bit"
)

// transfer tracks a host to local transfer fed through HWREG.
type transfer struct {
	active  bool
	pixel   int
	buf     BitBltBuf
	pos     TrxPos
	size    TrxReg
	written int
}

func (h *Handler) startTransfer(dir int) {
	switch dir {
	case TransferHostToLocal:
		h.trx = transfer{
			active: true,
			buf:    DecodeBitBltBuf(h.regs[BITBLTBUF]),
			pos:    DecodeTrxPos(h.regs[TRXPOS]),
			size:   DecodeTrxReg(h.regs[TRXREG]),
		}
		if h.trx.buf.DstPSM != 0 {
			slog.Debug("Transfer pixel format treated as PSMCT32", "psm", h.trx.buf.DstPSM)
		}
	case TransferLocalToLocal:
		h.copyLocal()
		h.trx = transfer{}
	default:
		h.trx = transfer{}
	}
}

// transferWord stores one HWREG word: two PSMCT32 pixels.
func (h *Handler) transferWord(value uint64) {
	if !h.trx.active {
		return
	}
	h.storeTransferPixel(bit.Low(value))
	h.storeTransferPixel(bit.High(value))
}

func (h *Handler) storeTransferPixel(pixel uint32) {
	t := &h.trx
	width := t.size.Width
	if width == 0 || t.pixel >= width*t.size.Height {
		t.active = false
		return
	}

	x := t.pos.DstX + t.pixel%width
	y := t.pos.DstY + t.pixel/width
	addr := h.pixelAddress(t.buf.DstPtr, t.buf.DstWidth, width, x, y)
	if addr >= 0 && addr+4 <= len(h.ram) {
		binary.LittleEndian.PutUint32(h.ram[addr:], pixel)
		t.written++
	}

	t.pixel++
	if t.pixel == width*t.size.Height {
		t.active = false
	}
}

// pixelAddress returns the byte address of a PSMCT32 pixel in a buffer
// based at ptr (64 word units) with a width in 64 pixel units.
func (h *Handler) pixelAddress(ptr, bufWidth uint32, fallbackWidth, x, y int) int {
	stride := int(bufWidth) * 64
	if stride == 0 {
		stride = fallbackWidth
	}
	return int(ptr)*256 + (y*stride+x)*4
}

func (h *Handler) copyLocal() {
	buf := DecodeBitBltBuf(h.regs[BITBLTBUF])
	pos := DecodeTrxPos(h.regs[TRXPOS])
	size := DecodeTrxReg(h.regs[TRXREG])

	for y := 0; y < size.Height; y++ {
		for x := 0; x < size.Width; x++ {
			src := h.pixelAddress(buf.SrcPtr, buf.SrcWidth, size.Width, pos.SrcX+x, pos.SrcY+y)
			dst := h.pixelAddress(buf.DstPtr, buf.DstWidth, size.Width, pos.DstX+x, pos.DstY+y)
			if src < 0 || src+4 > len(h.ram) || dst < 0 || dst+4 > len(h.ram) {
				continue
			}
			copy(h.ram[dst:dst+4], h.ram[src:src+4])
		}
	}
}
