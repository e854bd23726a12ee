package dump

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/framedbg/framedbg/gs"
)

const (
	headerSize   = 8
	ramEnd       = headerSize + gs.RAMSize
	registersEnd = ramEnd + gs.RegisterMax*8 + 8
)

// readerOnly hides the Len method of the wrapped reader.
type readerOnly struct {
	io.Reader
}

func testDump(sizes ...int) *FrameDump {
	snapshot := NewInitialSnapshot()
	snapshot.RAM[0] = 0xAA
	snapshot.RAM[gs.RAMSize-1] = 0x55
	snapshot.Registers[gs.FRAME_1] = 0x10000
	snapshot.Registers[gs.RegisterMax-1] = 0xDEADBEEF
	snapshot.SMODE2 = 1

	var packets []Packet
	cmd := 0
	for i, size := range sizes {
		p := Packet{Metadata: Metadata{PathIndex: uint32(i%3 + 1), Flags: uint32(i)}}
		for j := 0; j < size; j++ {
			p.Writes = append(p.Writes, gs.RegisterWrite{Address: gs.RGBAQ, Value: uint64(cmd)})
			cmd++
		}
		packets = append(packets, p)
	}
	return New(snapshot, packets)
}

func encode(t *testing.T, d *FrameDump) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, d))
	return buf.Bytes()
}

func TestWriteThenRead(t *testing.T) {
	original := testDump(2, 3, 0, 1)
	data := encode(t, original)
	assert.Equal(t, registersEnd+4*12+6*9, len(data))

	loaded, err := Read(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, 4, loaded.PacketCount())
	assert.Equal(t, 6, loaded.CommandCount())
	assert.True(t, bytes.Equal(original.Snapshot().RAM, loaded.Snapshot().RAM))
	if diff := cmp.Diff(original.Snapshot().Registers, loaded.Snapshot().Registers); diff != "" {
		t.Errorf("registers differ (-want +got):\n%s", diff)
	}
	assert.Equal(t, uint64(1), loaded.Snapshot().SMODE2)

	// packets with no writes decode with an empty slice
	want := original.Packets()
	want[2].Writes = []gs.RegisterWrite{}
	if diff := cmp.Diff(want, loaded.Packets()); diff != "" {
		t.Errorf("packets differ (-want +got):\n%s", diff)
	}
}

func TestReadEmptyCommandLog(t *testing.T) {
	d, err := Read(bytes.NewReader(encode(t, testDump())))
	require.NoError(t, err)
	assert.Zero(t, d.PacketCount())
	assert.Zero(t, d.CommandCount())
}

func TestReadWithUnknownSize(t *testing.T) {
	data := encode(t, testDump(2, 3))
	d, err := Read(readerOnly{bytes.NewReader(data)})
	require.NoError(t, err)
	assert.Equal(t, 5, d.CommandCount())

	_, err = Read(readerOnly{bytes.NewReader(data[:len(data)-1])})
	assert.True(t, IsMalformed(err))
}

func TestReadMalformed(t *testing.T) {
	valid := encode(t, testDump(2, 3))

	withHeader := func(magic string, version uint32) []byte {
		data := append([]byte(nil), valid...)
		copy(data, magic)
		binary.LittleEndian.PutUint32(data[4:], version)
		return data
	}
	withCount := func(count uint32) []byte {
		data := append([]byte(nil), valid...)
		binary.LittleEndian.PutUint32(data[registersEnd+8:], count)
		return data
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"empty stream", nil},
		{"short header", valid[:6]},
		{"bad magic", withHeader("NOPE", Version)},
		{"unknown version", withHeader(Magic, 2)},
		{"truncated RAM image", valid[:ramEnd-10]},
		{"truncated register file", valid[:registersEnd-1]},
		{"truncated packet header", valid[:registersEnd+5]},
		{"truncated packet body", valid[:len(valid)-4]},
		{"count larger than remaining bytes", withCount(50)},
		{"count above limit", withCount(MaxPacketWrites + 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Read(bytes.NewReader(tt.data))
			assert.Nil(t, d)
			require.Error(t, err)
			assert.True(t, IsMalformed(err), "error %v should be malformed", err)
		})
	}
}

func TestMalformedDumpError(t *testing.T) {
	err := malformed(12, io.ErrUnexpectedEOF, "truncated packet %d", 3)
	assert.Equal(t, "malformed frame dump at offset 12: truncated packet 3: unexpected EOF", err.Error())
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.False(t, IsMalformed(io.EOF))
}

func TestLocateAndCommand(t *testing.T) {
	d := testDump(2, 0, 3, 1, 0)

	tests := []struct {
		cmd    int
		packet int
		ok     bool
	}{
		{-1, -1, false},
		{0, 0, true},
		{1, 0, true},
		{2, 2, true},
		{4, 2, true},
		{5, 3, true},
		{6, -1, false},
	}
	for _, tt := range tests {
		p, ok := d.Locate(tt.cmd)
		assert.Equal(t, tt.ok, ok, "cmd %d", tt.cmd)
		assert.Equal(t, tt.packet, p, "cmd %d", tt.cmd)
	}

	c, ok := d.Command(3)
	require.True(t, ok)
	assert.Equal(t, Command{
		Index:    3,
		Packet:   2,
		Metadata: Metadata{PathIndex: 3, Flags: 2},
		Write:    gs.RegisterWrite{Address: gs.RGBAQ, Value: 3},
	}, c)
	assert.Equal(t, 2, d.PacketStart(2))
	assert.Equal(t, 6, d.PacketStart(4))
}

func TestLocateWithRunsOfEmptyPackets(t *testing.T) {
	d := testDump(0, 0, 2, 0, 0, 1, 0)

	tests := []struct {
		cmd    int
		packet int
	}{
		{0, 2},
		{1, 2},
		{2, 5},
	}
	for _, tt := range tests {
		p, ok := d.Locate(tt.cmd)
		require.True(t, ok, "cmd %d", tt.cmd)
		assert.Equal(t, tt.packet, p, "cmd %d", tt.cmd)
		assert.NotEmpty(t, d.Packets()[p].Writes, "cmd %d", tt.cmd)

		c, ok := d.Command(tt.cmd)
		require.True(t, ok)
		assert.Equal(t, uint64(tt.cmd), c.Write.Value)
	}

	_, ok := d.Locate(3)
	assert.False(t, ok)
}

func TestContainers(t *testing.T) {
	original := testDump(4, 4)

	for _, container := range []Container{ContainerRaw, ContainerSnappy, ContainerZip} {
		t.Run(container.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, original, container))
			assert.Equal(t, container, DetectContainer(buf.Bytes()))

			d, err := Decode(buf.Bytes())
			require.NoError(t, err)
			assert.Equal(t, 8, d.CommandCount())
			assert.Equal(t, byte(0x55), d.Snapshot().RAM[gs.RAMSize-1])
		})
	}
}

func TestCorruptContainer(t *testing.T) {
	_, err := Decode(append([]byte("PK\x03\x04"), make([]byte, 32)...))
	assert.True(t, IsMalformed(err))

	_, err = Decode(append(append([]byte(nil), snappyMagic...), 0x00, 0x10, 0x00, 0x00))
	assert.True(t, IsMalformed(err))
}

func TestContainerForPath(t *testing.T) {
	assert.Equal(t, ContainerZip, ContainerForPath("frame.dmp.zip"))
	assert.Equal(t, ContainerSnappy, ContainerForPath("frame.dmp.sz"))
	assert.Equal(t, ContainerRaw, ContainerForPath("frame.dmp"))
}

func TestSaveAndOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "frame.dmp.sz")
	require.NoError(t, Save(path, testDump(1, 2)))

	d, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 3, d.CommandCount())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ContainerSnappy, DetectContainer(data))

	broken := filepath.Join(dir, "broken.dmp")
	require.NoError(t, os.WriteFile(broken, encode(t, testDump(2))[:registersEnd+3], 0644))
	_, err = Open(broken)
	assert.True(t, IsMalformed(err))

	_, err = Open(filepath.Join(dir, "missing.dmp"))
	assert.Error(t, err)
	assert.False(t, IsMalformed(err))
}

func TestRegisterFileLayout(t *testing.T) {
	// the struc tag on registerFile.Values is a literal
	data := encode(t, testDump())
	assert.Equal(t, registersEnd, len(data))
	assert.Equal(t, uint64(0xDEADBEEF), binary.LittleEndian.Uint64(data[ramEnd+(gs.RegisterMax-1)*8:]))
}

type recordingTarget struct {
	calls []string
	ram   int
	regs  []uint64
	mode  uint64
}

func (r *recordingTarget) Reset() { r.calls = append(r.calls, "reset") }
func (r *recordingTarget) WriteRAMDirect(offset int, data []byte) {
	r.calls = append(r.calls, "ram")
	r.ram = len(data)
}
func (r *recordingTarget) WriteRegistersDirect(values []uint64) {
	r.calls = append(r.calls, "regs")
	r.regs = values
}
func (r *recordingTarget) SetSMODE2(value uint64) {
	r.calls = append(r.calls, "smode2")
	r.mode = value
}

func TestSnapshotRestore(t *testing.T) {
	d := testDump(1)
	target := &recordingTarget{}
	d.Snapshot().Restore(target)

	assert.Equal(t, []string{"reset", "ram", "regs", "smode2"}, target.calls)
	assert.Equal(t, gs.RAMSize, target.ram)
	assert.Equal(t, uint64(0x10000), target.regs[gs.FRAME_1])
	assert.Equal(t, uint64(1), target.mode)
}

func TestMetadataString(t *testing.T) {
	assert.Equal(t, "PATH1 flags=0x00000002", Metadata{PathIndex: PathVU1, Flags: 2}.String())
	assert.Equal(t, "PATH?9", Metadata{PathIndex: 9}.PathName())
}
