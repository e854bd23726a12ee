package gs

func (h *Handler) resetVertexQueue() {
	prim := DecodePrim(h.regs[PRIM])
	h.vtxCount = initVertexCounts[prim.Type&7]
	h.vtxQueued = 0
	h.vtxBuffer = [3]Vertex{}
}

func (h *Handler) vertexKick(address uint8, value uint64) (DrawingKick, bool) {
	if h.vtxCount == 0 {
		return NoDrawingKick, false
	}

	var xyz XYZ
	if address == XYZF2 || address == XYZF3 {
		xyz = DecodeXYZF(value)
	} else {
		xyz = DecodeXYZ(value)
	}

	prim := h.CurrentPrim()
	offsetReg := XYOFFSET_1
	if prim.Context == 1 {
		offsetReg = XYOFFSET_2
	}
	offset := DecodeXYOffset(h.regs[offsetReg])

	vtx := Vertex{
		X:     (int(xyz.X) - int(offset.X)) >> 4,
		Y:     (int(xyz.Y) - int(offset.Y)) >> 4,
		Z:     xyz.Z,
		Color: DecodeRGBAQ(h.regs[RGBAQ]),
	}

	// oldest vertex falls off the front
	copy(h.vtxBuffer[:], h.vtxBuffer[1:])
	h.vtxBuffer[2] = vtx
	if h.vtxQueued < 3 {
		h.vtxQueued++
	}

	h.vtxCount--
	if h.vtxCount != 0 {
		return NoDrawingKick, false
	}

	primType := prim.Type & 7
	h.vtxCount = nextVertexCounts[primType]
	if !IsDrawingKick(address) {
		return NoDrawingKick, false
	}

	kick := DrawingKick{
		PrimType:    primType,
		Context:     prim.Context,
		VertexCount: vertexCountFor(primType),
	}
	n := kick.VertexCount
	copy(kick.Vertices[:n], h.vtxBuffer[3-n:])

	h.draw(kick, prim)
	return kick, true
}

func vertexCountFor(p PrimType) int {
	switch p {
	case PrimPoint:
		return 1
	case PrimLine, PrimLineStrip, PrimSprite:
		return 2
	case PrimReserved:
		return 0
	}
	return 3
}
