package png

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"unicode/utf8"

	pngerrors "github.com/javi11/pngme/internal/errors"
)

const (
	// chunkLengthSize is the size of the big-endian length prefix.
	chunkLengthSize = 4
	// chunkTypeSize is the size of the type tag.
	chunkTypeSize = 4
	// chunkCRCSize is the size of the trailing CRC-32.
	chunkCRCSize = 4
	// ChunkOverhead is the size of a chunk with an empty payload.
	ChunkOverhead = chunkLengthSize + chunkTypeSize + chunkCRCSize
)

// Chunk is one length-prefixed, CRC protected record of a PNG stream.
// A Chunk never changes after construction.
type Chunk struct {
	length    uint32
	chunkType ChunkType
	data      []byte
	crc       uint32
}

// NewChunk builds a chunk from a type and payload, computing its length
// and CRC. The payload is copied.
func NewChunk(chunkType ChunkType, data []byte) Chunk {
	payload := bytes.Clone(data)
	if payload == nil {
		payload = []byte{}
	}

	return Chunk{
		length:    uint32(len(payload)),
		chunkType: chunkType,
		data:      payload,
		crc:       checksum(chunkType, payload),
	}
}

// ParseChunk decodes a single serialized chunk from the start of b.
//
// The type tag is taken as-is: a chunk whose tag contains non-letter
// bytes still parses as long as its CRC matches, so private or
// non-standard chunks survive a load/save cycle untouched. Callers that
// care check Type().IsValid().
func ParseChunk(b []byte) (Chunk, error) {
	if len(b) < ChunkOverhead {
		return Chunk{}, pngerrors.NewFormatError("chunk too short: %d bytes, need at least %d", len(b), ChunkOverhead)
	}

	length := binary.BigEndian.Uint32(b[0:chunkLengthSize])

	// Compare in uint64 so a declared length near 4GiB cannot wrap.
	if uint64(len(b)) < uint64(ChunkOverhead)+uint64(length) {
		return Chunk{}, pngerrors.NewFormatError("chunk length exceeds available data: declared %d, have %d", length, len(b)-ChunkOverhead)
	}

	var chunkType ChunkType
	copy(chunkType[:], b[chunkLengthSize:chunkLengthSize+chunkTypeSize])

	dataStart := chunkLengthSize + chunkTypeSize
	dataEnd := dataStart + int(length)
	data := bytes.Clone(b[dataStart:dataEnd])

	stored := binary.BigEndian.Uint32(b[dataEnd : dataEnd+chunkCRCSize])
	computed := checksum(chunkType, data)
	if computed != stored {
		return Chunk{}, &pngerrors.ChecksumError{Expected: computed, Actual: stored}
	}

	return Chunk{
		length:    length,
		chunkType: chunkType,
		data:      data,
		crc:       stored,
	}, nil
}

// Length returns the payload length in bytes.
func (c Chunk) Length() uint32 {
	return c.length
}

// Type returns the chunk type tag.
func (c Chunk) Type() ChunkType {
	return c.chunkType
}

// Data returns a copy of the payload.
func (c Chunk) Data() []byte {
	return bytes.Clone(c.data)
}

// CRC returns the CRC-32 of the type and payload.
func (c Chunk) CRC() uint32 {
	return c.crc
}

// DataString returns the payload as text. It fails with an encoding error
// when the payload is not valid UTF-8.
func (c Chunk) DataString() (string, error) {
	if !utf8.Valid(c.data) {
		return "", pngerrors.NewEncodingError(fmt.Sprintf("chunk %s payload is not valid utf-8", c.chunkType), nil)
	}
	return string(c.data), nil
}

// Bytes serializes the chunk: length, type, payload, CRC.
func (c Chunk) Bytes() []byte {
	return c.appendTo(make([]byte, 0, ChunkOverhead+len(c.data)))
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (c Chunk) MarshalBinary() ([]byte, error) {
	return c.Bytes(), nil
}

// Equal reports whether two chunks have the same type, payload and CRC.
func (c Chunk) Equal(other Chunk) bool {
	return c.length == other.length &&
		c.chunkType == other.chunkType &&
		c.crc == other.crc &&
		bytes.Equal(c.data, other.data)
}

func (c Chunk) String() string {
	return fmt.Sprintf("%s len=%d crc=0x%08x", c.chunkType, c.length, c.crc)
}

func (c Chunk) appendTo(dst []byte) []byte {
	dst = binary.BigEndian.AppendUint32(dst, c.length)
	dst = append(dst, c.chunkType[:]...)
	dst = append(dst, c.data...)
	return binary.BigEndian.AppendUint32(dst, c.crc)
}

// checksum computes the CRC-32 (ISO-HDLC, as used by zlib and PNG) of the
// type tag followed by the payload.
func checksum(chunkType ChunkType, data []byte) uint32 {
	return crc32.Update(crc32.ChecksumIEEE(chunkType[:]), crc32.IEEETable, data)
}
