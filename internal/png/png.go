// Package png reads and writes the chunk structure of PNG files.
//
// Chunk payloads are opaque: nothing here decodes image data or checks
// chunk ordering rules. Any signature-prefixed sequence of well-formed
// chunks is accepted and written back byte for byte.
package png

import (
	"bytes"
	"encoding/binary"
	"strings"

	pngerrors "github.com/javi11/pngme/internal/errors"
)

// HeaderSize is the size of the PNG signature.
const HeaderSize = 8

var signature = [HeaderSize]byte{137, 80, 78, 71, 13, 10, 26, 10}

// StandardHeader returns the PNG signature "\x89PNG\r\n\x1a\n".
func StandardHeader() [HeaderSize]byte {
	return signature
}

// Png is an ordered list of chunks behind the PNG signature. It owns its
// chunks. The zero value is an empty Png ready to use. A Png is not safe
// for concurrent use while it is being mutated.
type Png struct {
	chunks []Chunk
}

// FromChunks builds a Png with the standard header and a copy of chunks.
func FromChunks(chunks []Chunk) *Png {
	owned := make([]Chunk, len(chunks))
	copy(owned, chunks)

	return &Png{chunks: owned}
}

// Parse decodes a whole PNG byte stream.
func Parse(b []byte) (*Png, error) {
	if len(b) < HeaderSize {
		return nil, pngerrors.NewFormatError("buffer too short for png header: %d bytes", len(b))
	}

	if !bytes.Equal(b[:HeaderSize], signature[:]) {
		return nil, pngerrors.NewFormatError("invalid png header % x", b[:HeaderSize])
	}

	var chunks []Chunk
	rest := b[HeaderSize:]
	offset := HeaderSize

	for len(rest) > 0 {
		if len(rest) < chunkLengthSize {
			return nil, pngerrors.NewFormatError("truncated chunk at offset %d: %d trailing bytes", offset, len(rest))
		}

		length := binary.BigEndian.Uint32(rest[:chunkLengthSize])
		span := uint64(ChunkOverhead) + uint64(length)
		if uint64(len(rest)) < span {
			return nil, pngerrors.NewFormatError("chunk at offset %d exceeds remaining data: needs %d bytes, have %d", offset, span, len(rest))
		}

		chunk, err := ParseChunk(rest[:span])
		if err != nil {
			return nil, err
		}

		chunks = append(chunks, chunk)
		rest = rest[span:]
		offset += int(span)
	}

	return &Png{chunks: chunks}, nil
}

// Header returns the signature. It is the same for every Png.
func (p *Png) Header() [HeaderSize]byte {
	return signature
}

// Chunks returns a copy of the chunk list in file order.
func (p *Png) Chunks() []Chunk {
	chunks := make([]Chunk, len(p.chunks))
	copy(chunks, p.chunks)
	return chunks
}

// Len returns the number of chunks.
func (p *Png) Len() int {
	return len(p.chunks)
}

// Append adds a chunk at the end. Several chunks may share a type.
func (p *Png) Append(chunk Chunk) {
	p.chunks = append(p.chunks, chunk)
}

// ChunkByType returns the first chunk with the given type.
func (p *Png) ChunkByType(chunkType ChunkType) (Chunk, bool) {
	i := p.indexOf(chunkType)
	if i < 0 {
		return Chunk{}, false
	}
	return p.chunks[i], true
}

// RemoveFirstByType removes and returns the first chunk with the given
// type. The Png is left untouched when no chunk matches.
func (p *Png) RemoveFirstByType(chunkType ChunkType) (Chunk, error) {
	i := p.indexOf(chunkType)
	if i < 0 {
		return Chunk{}, pngerrors.NewNotFoundError("chunk with type %s not found", chunkType)
	}

	removed := p.chunks[i]
	p.chunks = append(p.chunks[:i], p.chunks[i+1:]...)

	return removed, nil
}

// Bytes serializes the header followed by every chunk.
func (p *Png) Bytes() []byte {
	size := HeaderSize
	for _, c := range p.chunks {
		size += ChunkOverhead + len(c.data)
	}

	out := make([]byte, 0, size)
	out = append(out, signature[:]...)
	for _, c := range p.chunks {
		out = c.appendTo(out)
	}

	return out
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (p *Png) MarshalBinary() ([]byte, error) {
	return p.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. The receiver is
// only replaced when the whole buffer parses.
func (p *Png) UnmarshalBinary(b []byte) error {
	parsed, err := Parse(b)
	if err != nil {
		return err
	}

	*p = *parsed
	return nil
}

// Equal reports whether both hold the same chunk sequence. A nil Png is
// only equal to another nil Png.
func (p *Png) Equal(other *Png) bool {
	if p == nil || other == nil {
		return p == other
	}

	if len(p.chunks) != len(other.chunks) {
		return false
	}

	for i := range p.chunks {
		if !p.chunks[i].Equal(other.chunks[i]) {
			return false
		}
	}

	return true
}

func (p *Png) String() string {
	var sb strings.Builder
	sb.WriteString("png chunks:")
	for _, c := range p.chunks {
		sb.WriteString("\n  ")
		sb.WriteString(c.String())
	}
	return sb.String()
}

func (p *Png) indexOf(chunkType ChunkType) int {
	for i, c := range p.chunks {
		if c.chunkType == chunkType {
			return i
		}
	}
	return -1
}
