package gs

import (
	"encoding/binary"
)

// draw rasterises sprites and points into the context's frame buffer.
// Other primitive types are reported as drawing kicks but not rasterised.
func (h *Handler) draw(kick DrawingKick, prim Prim) {
	switch kick.PrimType {
	case PrimSprite:
		v0, v1 := kick.Vertices[0], kick.Vertices[1]
		h.fillRect(prim, v0.X, v0.Y, v1.X, v1.Y, v1.Z, v1.Color)
	case PrimPoint:
		v := kick.Vertices[0]
		h.fillRect(prim, v.X, v.Y, v.X+1, v.Y+1, v.Z, v.Color)
	}
}

type drawContext struct {
	frame   Frame
	zbuf    ZBuf
	test    Test
	alpha   Alpha
	scissor Scissor
}

func (h *Handler) context(ctx int) drawContext {
	if ctx == 1 {
		return drawContext{
			frame:   DecodeFrame(h.regs[FRAME_2]),
			zbuf:    DecodeZBuf(h.regs[ZBUF_2]),
			test:    DecodeTest(h.regs[TEST_2]),
			alpha:   DecodeAlpha(h.regs[ALPHA_2]),
			scissor: DecodeScissor(h.regs[SCISSOR_2]),
		}
	}
	return drawContext{
		frame:   DecodeFrame(h.regs[FRAME_1]),
		zbuf:    DecodeZBuf(h.regs[ZBUF_1]),
		test:    DecodeTest(h.regs[TEST_1]),
		alpha:   DecodeAlpha(h.regs[ALPHA_1]),
		scissor: DecodeScissor(h.regs[SCISSOR_1]),
	}
}

// fillRect fills the half open rectangle [x0, x1) x [y0, y1).
func (h *Handler) fillRect(prim Prim, x0, y0, x1, y1 int, z uint32, color Color) {
	ctx := h.context(prim.Context)
	stride := int(ctx.frame.Stride())
	if stride == 0 {
		return
	}

	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	x0 = max(x0, ctx.scissor.X0)
	y0 = max(y0, ctx.scissor.Y0)
	x1 = min(x1, ctx.scissor.X1+1)
	y1 = min(y1, ctx.scissor.Y1+1)

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			h.plot(ctx, prim, y*stride+x, z, color)
		}
	}
}

func (h *Handler) plot(ctx drawContext, prim Prim, pixel int, z uint32, src Color) {
	fbAddr := int(ctx.frame.Address()) + pixel*4
	zAddr := int(ctx.zbuf.Address()) + pixel*4
	if fbAddr < 0 || fbAddr+4 > len(h.ram) {
		return
	}

	writeFB, writeZB, rgbOnly := true, ctx.test.DepthEnabled && !ctx.zbuf.Mask, false

	if h.alphaTesting && ctx.test.AlphaEnabled && !alphaTestPasses(ctx.test, src.A) {
		switch ctx.test.AlphaFail {
		case AlphaFailKeep:
			return
		case AlphaFailFBOnly:
			writeZB = false
		case AlphaFailZBOnly:
			writeFB = false
		case AlphaFailRGBOnly:
			writeZB = false
			rgbOnly = true
		}
	}

	zInRange := zAddr >= 0 && zAddr+4 <= len(h.ram)
	if h.depthTesting && ctx.test.DepthEnabled && zInRange {
		current := binary.LittleEndian.Uint32(h.ram[zAddr:])
		if !depthTestPasses(ctx.test.DepthMethod, z, current) {
			return
		}
	}

	if writeFB {
		dst := ColorFromPixel(binary.LittleEndian.Uint32(h.ram[fbAddr:]))
		out := src
		if h.alphaBlending && prim.Blend {
			out = blend(ctx.alpha, src, dst)
		}
		if rgbOnly {
			out.A = dst.A
		}
		pix := out.Pixel()
		pix = (pix &^ ctx.frame.Mask) | (dst.Pixel() & ctx.frame.Mask)
		binary.LittleEndian.PutUint32(h.ram[fbAddr:], pix)
	}

	if writeZB && zInRange {
		binary.LittleEndian.PutUint32(h.ram[zAddr:], z)
	}
}

func alphaTestPasses(test Test, alpha uint8) bool {
	ref := test.AlphaRef
	switch test.AlphaMethod {
	case AlphaTestNever:
		return false
	case AlphaTestAlways:
		return true
	case AlphaTestLess:
		return alpha < ref
	case AlphaTestLEqual:
		return alpha <= ref
	case AlphaTestEqual:
		return alpha == ref
	case AlphaTestGEqual:
		return alpha >= ref
	case AlphaTestGreater:
		return alpha > ref
	case AlphaTestNotEqual:
		return alpha != ref
	}
	return true
}

func depthTestPasses(method int, z, current uint32) bool {
	switch method {
	case DepthTestNever:
		return false
	case DepthTestGEqual:
		return z >= current
	case DepthTestGreater:
		return z > current
	}
	return true
}

// blend computes ((A - B) * C >> 7) + D per channel, clamped to 0-255.
func blend(a Alpha, src, dst Color) Color {
	pick := func(sel int, s, d uint8) int {
		switch sel {
		case 0:
			return int(s)
		case 1:
			return int(d)
		}
		return 0
	}
	var factor int
	switch a.C {
	case 0:
		factor = int(src.A)
	case 1:
		factor = int(dst.A)
	default:
		factor = int(a.Fix)
	}
	channel := func(s, d uint8) uint8 {
		v := ((pick(a.A, s, d)-pick(a.B, s, d))*factor)>>7 + pick(a.D, s, d)
		return uint8(min(max(v, 0), 255))
	}
	return Color{
		R: channel(src.R, dst.R),
		G: channel(src.G, dst.G),
		B: channel(src.B, dst.B),
		A: src.A,
	}
}
