package dump

import (
	"io"

	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"

	"github.com/valerio/framedbg/framedbg/gs"
)

// Write encodes d in the format understood by Read.
func Write(w io.Writer, d *FrameDump) error {
	header := &fileHeader{Magic: Magic, Version: Version}
	if err := struc.PackWithOrder(w, header, order); err != nil {
		return errors.Wrap(err, "failed to pack header")
	}

	snapshot := d.Snapshot()
	ram := make([]byte, gs.RAMSize)
	copy(ram, snapshot.RAM)
	if _, err := w.Write(ram); err != nil {
		return errors.Wrap(err, "failed to write RAM image")
	}

	regs := &registerFile{Values: make([]uint64, gs.RegisterMax), SMODE2: snapshot.SMODE2}
	copy(regs.Values, snapshot.Registers)
	if err := struc.PackWithOrder(w, regs, order); err != nil {
		return errors.Wrap(err, "failed to pack register file")
	}

	for i, p := range d.Packets() {
		if err := writePacket(w, p); err != nil {
			return errors.Wrapf(err, "failed to write packet %d", i)
		}
	}
	return nil
}

func writePacket(w io.Writer, p Packet) error {
	header := &packetHeader{
		PathIndex: p.Metadata.PathIndex,
		Flags:     p.Metadata.Flags,
		Count:     uint32(len(p.Writes)),
	}
	if err := struc.PackWithOrder(w, header, order); err != nil {
		return err
	}

	buf := make([]byte, len(p.Writes)*writeRecordSize)
	for i, write := range p.Writes {
		rec := buf[i*writeRecordSize:]
		rec[0] = write.Address
		order.PutUint64(rec[1:], write.Value)
	}
	_, err := w.Write(buf)
	return err
}
