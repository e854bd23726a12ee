package dump

import (
	"archive/zip"
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
	"github.com/pkg/errors"
)

// Container is the outer encoding of a dump file.
type Container int

const (
	ContainerRaw Container = iota
	ContainerSnappy
	ContainerZip
)

func (c Container) String() string {
	switch c {
	case ContainerSnappy:
		return "snappy"
	case ContainerZip:
		return "zip"
	}
	return "raw"
}

var (
	snappyMagic = []byte("\xff\x06\x00\x00sNaPpY")
	zipMagic    = []byte("PK\x03\x04")
)

// DetectContainer identifies the container from the leading bytes of a file.
func DetectContainer(data []byte) Container {
	switch {
	case bytes.HasPrefix(data, snappyMagic):
		return ContainerSnappy
	case bytes.HasPrefix(data, zipMagic):
		return ContainerZip
	}
	return ContainerRaw
}

// ContainerForPath picks a container from a file name, for writers.
func ContainerForPath(path string) Container {
	switch {
	case strings.HasSuffix(path, ".zip"):
		return ContainerZip
	case strings.HasSuffix(path, ".sz"):
		return ContainerSnappy
	}
	return ContainerRaw
}

// Open reads the dump at path, unwrapping its container.
func Open(path string) (*FrameDump, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read dump")
	}
	d, err := Decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", filepath.Base(path))
	}
	return d, nil
}

// Decode parses a dump held in memory, unwrapping its container.
func Decode(data []byte) (*FrameDump, error) {
	container := DetectContainer(data)
	slog.Debug("Decoding frame dump", "container", container, "bytes", len(data))

	switch container {
	case ContainerSnappy:
		raw, err := io.ReadAll(snappy.NewReader(bytes.NewReader(data)))
		if err != nil {
			return nil, malformed(0, err, "corrupt snappy stream")
		}
		return Read(bytes.NewReader(raw))
	case ContainerZip:
		return decodeZip(data)
	}
	return Read(bytes.NewReader(data))
}

func decodeZip(data []byte) (*FrameDump, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, malformed(0, err, "corrupt zip archive")
	}

	var entry *zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if entry == nil || strings.HasSuffix(f.Name, ".dmp") {
			entry = f
		}
		if strings.HasSuffix(f.Name, ".dmp") {
			break
		}
	}
	if entry == nil {
		return nil, malformed(0, nil, "zip archive holds no dump")
	}

	rc, err := entry.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s in archive", entry.Name)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, malformed(0, err, "corrupt zip entry %s", entry.Name)
	}
	return Read(bytes.NewReader(raw))
}

// Save writes d to path using the container implied by its extension.
func Save(path string, d *FrameDump) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create dump")
	}
	if err := Encode(f, d, ContainerForPath(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Encode writes d to w wrapped in the given container.
func Encode(w io.Writer, d *FrameDump, container Container) error {
	switch container {
	case ContainerSnappy:
		zw := snappy.NewBufferedWriter(w)
		if err := Write(zw, d); err != nil {
			return err
		}
		return errors.Wrap(zw.Close(), "failed to flush snappy stream")
	case ContainerZip:
		zw := zip.NewWriter(w)
		entry, err := zw.Create("framedump.dmp")
		if err != nil {
			return errors.Wrap(err, "failed to create zip entry")
		}
		if err := Write(entry, d); err != nil {
			return err
		}
		return errors.Wrap(zw.Close(), "failed to finish zip archive")
	}
	return Write(w, d)
}
