package dump

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/lunixbochs/struc"

	"github.com/valerio/framedbg/framedbg/gs"
)

const (
	// Magic identifies a frame dump stream.
	Magic = "GSDP"
	// Version is the only format version understood by Read.
	Version uint32 = 1

	// MaxPacketWrites bounds the write count of a single packet.
	MaxPacketWrites = 1 << 22

	writeRecordSize = 9
)

var order = binary.LittleEndian

type fileHeader struct {
	Magic   string `struc:"[4]byte"`
	Version uint32
}

type registerFile struct {
	Values []uint64 `struc:"[128]uint64"`
	SMODE2 uint64
}

type packetHeader struct {
	PathIndex uint32
	Flags     uint32
	Count     uint32
}

type countingReader struct {
	r *bufio.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// Read parses a frame dump. Either the whole dump is returned or an error;
// structural problems are reported as *MalformedDumpError.
func Read(r io.Reader) (*FrameDump, error) {
	size := int64(-1)
	if l, ok := r.(interface{ Len() int }); ok {
		size = int64(l.Len())
	}
	cr := &countingReader{r: bufio.NewReaderSize(r, 64*1024)}

	var header fileHeader
	if err := struc.UnpackWithOrder(cr, &header, order); err != nil {
		return nil, malformed(cr.n, err, "failed to unpack header")
	}
	if header.Magic != Magic {
		return nil, malformed(0, nil, "invalid magic %q", header.Magic)
	}
	if header.Version != Version {
		return nil, malformed(4, nil, "unsupported version %d", header.Version)
	}

	snapshot := NewInitialSnapshot()
	if _, err := io.ReadFull(cr, snapshot.RAM); err != nil {
		return nil, malformed(cr.n, err, "truncated RAM image")
	}

	var regs registerFile
	if err := struc.UnpackWithOrder(cr, &regs, order); err != nil {
		return nil, malformed(cr.n, err, "truncated register file")
	}
	copy(snapshot.Registers, regs.Values)
	snapshot.SMODE2 = regs.SMODE2

	var packets []Packet
	for {
		if _, err := cr.r.Peek(1); err == io.EOF {
			break
		} else if err != nil {
			return nil, malformed(cr.n, err, "failed to read packet %d", len(packets))
		}

		packet, err := readPacket(cr, size)
		if err != nil {
			return nil, err
		}
		packets = append(packets, packet)
	}

	return New(snapshot, packets), nil
}

func readPacket(cr *countingReader, size int64) (Packet, error) {
	start := cr.n

	var header packetHeader
	if err := struc.UnpackWithOrder(cr, &header, order); err != nil {
		return Packet{}, malformed(start, err, "truncated packet header")
	}

	count := int64(header.Count)
	if count > MaxPacketWrites {
		return Packet{}, malformed(start, nil, "packet declares %d writes, limit is %d", count, MaxPacketWrites)
	}
	if size >= 0 && count*writeRecordSize > size-cr.n {
		return Packet{}, malformed(start, nil, "packet declares %d writes but only %d bytes remain", count, size-cr.n)
	}

	buf := make([]byte, count*writeRecordSize)
	if _, err := io.ReadFull(cr, buf); err != nil {
		return Packet{}, malformed(cr.n, err, "truncated packet body, %d writes declared", count)
	}

	writes := make([]gs.RegisterWrite, count)
	for i := range writes {
		rec := buf[i*writeRecordSize:]
		writes[i] = gs.RegisterWrite{
			Address: rec[0],
			Value:   order.Uint64(rec[1:]),
		}
	}

	return Packet{
		Metadata: Metadata{PathIndex: header.PathIndex, Flags: header.Flags},
		Writes:   writes,
	}, nil
}
