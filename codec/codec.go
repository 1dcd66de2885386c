package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/hupe1980/tetgo/internal/conv"
	"github.com/hupe1980/tetgo/model"
)

const (
	// Magic identifies an encoded mesh.
	Magic = "TETG"
	// Version is the current format version.
	Version uint16 = 1

	headerSize = 32

	flagKeepInfinite = 1 << 0
)

var (
	// ErrInvalidMagic is returned when the input is not an encoded mesh.
	ErrInvalidMagic = errors.New("codec: invalid magic")
	// ErrUnsupportedVersion is returned for a newer format version.
	ErrUnsupportedVersion = errors.New("codec: unsupported version")
	// ErrChecksumMismatch is returned when the payload checksum does not match.
	ErrChecksumMismatch = errors.New("codec: checksum mismatch")
	// ErrCorrupt is returned for inconsistent headers or payloads.
	ErrCorrupt = errors.New("codec: corrupt data")
	// ErrUnknownCompression is returned for an unknown compression id.
	ErrUnknownCompression = errors.New("codec: unknown compression")
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

func checksum(b []byte) uint32 { return crc32.Checksum(b, castagnoli) }

type header struct {
	compression Compression
	flags       uint8
	numPoints   uint32
	numCells    uint32
	numFinite   uint32
	rawSize     uint32
	storedSize  uint32
	crc         uint32
}

func (h *header) marshal() []byte {
	b := make([]byte, headerSize)
	copy(b[0:4], Magic)
	binary.LittleEndian.PutUint16(b[4:6], Version)
	b[6] = uint8(h.compression)
	b[7] = h.flags
	binary.LittleEndian.PutUint32(b[8:12], h.numPoints)
	binary.LittleEndian.PutUint32(b[12:16], h.numCells)
	binary.LittleEndian.PutUint32(b[16:20], h.numFinite)
	binary.LittleEndian.PutUint32(b[20:24], h.rawSize)
	binary.LittleEndian.PutUint32(b[24:28], h.storedSize)
	binary.LittleEndian.PutUint32(b[28:32], h.crc)
	return b
}

func (h *header) unmarshal(b []byte) error {
	if string(b[0:4]) != Magic {
		return ErrInvalidMagic
	}
	if v := binary.LittleEndian.Uint16(b[4:6]); v != Version {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}
	h.compression = Compression(b[6])
	h.flags = b[7]
	h.numPoints = binary.LittleEndian.Uint32(b[8:12])
	h.numCells = binary.LittleEndian.Uint32(b[12:16])
	h.numFinite = binary.LittleEndian.Uint32(b[16:20])
	h.rawSize = binary.LittleEndian.Uint32(b[20:24])
	h.storedSize = binary.LittleEndian.Uint32(b[24:28])
	h.crc = binary.LittleEndian.Uint32(b[28:32])
	if h.numFinite > h.numCells {
		return fmt.Errorf("%w: %d finite cells of %d", ErrCorrupt, h.numFinite, h.numCells)
	}
	if uint64(h.rawSize) != uint64(h.numCells)*32 {
		return fmt.Errorf("%w: raw size %d for %d cells", ErrCorrupt, h.rawSize, h.numCells)
	}
	// Encode stores raw bytes whenever compression does not shrink them.
	if h.storedSize > h.rawSize {
		return fmt.Errorf("%w: stored size %d exceeds raw size %d", ErrCorrupt, h.storedSize, h.rawSize)
	}
	return nil
}

// Encode writes m to w using compression c.
// The mesh is validated first; an invalid mesh is not written.
func Encode(w io.Writer, m *model.Mesh, c Compression) error {
	if err := m.Validate(); err != nil {
		return err
	}

	var (
		h   header
		err error
	)
	if h.numPoints, err = conv.IntToUint32(m.NumPoints); err != nil {
		return err
	}
	if h.numCells, err = conv.IntToUint32(m.NumCells()); err != nil {
		return err
	}
	if h.numFinite, err = conv.IntToUint32(m.NumFinite); err != nil {
		return err
	}
	if m.KeepInfinite {
		h.flags |= flagKeepInfinite
	}

	raw := make([]byte, 4*(len(m.Vertices)+len(m.Neighbors)))
	off := 0
	for _, v := range m.Vertices {
		binary.LittleEndian.PutUint32(raw[off:], uint32(v))
		off += 4
	}
	for _, a := range m.Neighbors {
		binary.LittleEndian.PutUint32(raw[off:], uint32(a))
		off += 4
	}
	if h.rawSize, err = conv.IntToUint32(len(raw)); err != nil {
		return err
	}
	h.crc = checksum(raw)

	stored, used, err := compress(raw, c)
	if err != nil {
		return err
	}
	h.compression = used
	if h.storedSize, err = conv.IntToUint32(len(stored)); err != nil {
		return err
	}

	if _, err := w.Write(h.marshal()); err != nil {
		return err
	}
	_, err = w.Write(stored)
	return err
}

// Decode reads a mesh written by Encode from r.
// The decoded mesh is validated before it is returned.
func Decode(r io.Reader) (*model.Mesh, error) {
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: short header", ErrCorrupt)
		}
		return nil, err
	}

	var h header
	if err := h.unmarshal(buf); err != nil {
		return nil, err
	}

	storedSize, err := conv.Uint32ToInt(h.storedSize)
	if err != nil {
		return nil, err
	}
	rawSize, err := conv.Uint32ToInt(h.rawSize)
	if err != nil {
		return nil, err
	}

	// The header is untrusted, so the buffer grows with the bytes actually read.
	stored, err := io.ReadAll(io.LimitReader(r, int64(storedSize)))
	if err != nil {
		return nil, err
	}
	if len(stored) != storedSize {
		return nil, fmt.Errorf("%w: short payload", ErrCorrupt)
	}

	raw, err := decompress(stored, h.compression, rawSize)
	if err != nil {
		return nil, err
	}
	if checksum(raw) != h.crc {
		return nil, ErrChecksumMismatch
	}

	n := rawSize / 8
	m := &model.Mesh{
		Vertices:     make([]int32, n),
		Neighbors:    make([]int32, n),
		KeepInfinite: h.flags&flagKeepInfinite != 0,
	}
	if m.NumPoints, err = conv.Uint32ToInt(h.numPoints); err != nil {
		return nil, err
	}
	if m.NumFinite, err = conv.Uint32ToInt(h.numFinite); err != nil {
		return nil, err
	}
	for i := range m.Vertices {
		m.Vertices[i] = int32(binary.LittleEndian.Uint32(raw[4*i:]))
	}
	base := 4 * n
	for i := range m.Neighbors {
		m.Neighbors[i] = int32(binary.LittleEndian.Uint32(raw[base+4*i:]))
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return m, nil
}
