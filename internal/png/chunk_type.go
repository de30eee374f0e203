package png

import (
	"strings"

	pngerrors "github.com/javi11/pngme/internal/errors"
)

// caseBit is bit 5 of a type byte, the ASCII lower-case bit.
const caseBit = 0x20

// ChunkType is the 4-byte tag that names a chunk.
// Reference: https://www.w3.org/TR/png/#5Chunk-naming-conventions
type ChunkType [4]byte

// ParseChunkType builds a ChunkType from a 4-character tag such as "IHDR".
// The length is counted in bytes, not runes.
func ParseChunkType(s string) (ChunkType, error) {
	if len(s) != 4 {
		return ChunkType{}, pngerrors.NewFormatError("chunk type must be 4 bytes, got %d", len(s))
	}

	var b [4]byte
	copy(b[:], s)

	return ChunkTypeFromBytes(b)
}

// MustParseChunkType is like ParseChunkType but panics on an invalid tag.
func MustParseChunkType(s string) ChunkType {
	t, err := ParseChunkType(s)
	if err != nil {
		panic(err)
	}
	return t
}

// ChunkTypeFromBytes validates that every byte is an ASCII letter.
func ChunkTypeFromBytes(b [4]byte) (ChunkType, error) {
	for i, c := range b {
		if !isASCIIAlpha(c) {
			return ChunkType{}, pngerrors.NewFormatError("invalid chunk type byte 0x%02x at position %d", c, i)
		}
	}

	return ChunkType(b), nil
}

// Bytes returns the raw tag.
func (t ChunkType) Bytes() [4]byte {
	return t
}

// IsCritical reports whether decoders must understand the chunk.
func (t ChunkType) IsCritical() bool {
	return t[0]&caseBit == 0
}

// IsPublic reports whether the type is registered in the public namespace.
func (t ChunkType) IsPublic() bool {
	return t[1]&caseBit == 0
}

// IsReservedBitValid reports whether the reserved bit (byte 2) is clear.
func (t ChunkType) IsReservedBitValid() bool {
	return t[2]&caseBit == 0
}

// IsSafeToCopy reports whether editors may copy the chunk without
// understanding it.
func (t ChunkType) IsSafeToCopy() bool {
	return t[3]&caseBit != 0
}

// IsValid reports whether all bytes are letters and the reserved bit is clear.
func (t ChunkType) IsValid() bool {
	return isASCIIAlpha(t[0]) && isASCIIAlpha(t[1]) && isASCIIAlpha(t[2]) && isASCIIAlpha(t[3]) &&
		t.IsReservedBitValid()
}

func (t ChunkType) String() string {
	return strings.ToValidUTF8(string(t[:]), "�")
}

func isASCIIAlpha(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
