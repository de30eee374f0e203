package png

import (
	"testing"

	pngerrors "github.com/javi11/pngme/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChunkType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "mixed case", input: "RuSt"},
		{name: "critical public", input: "IHDR"},
		{name: "all lower", input: "rust"},
		{name: "digit", input: "ab1d", wantErr: true},
		{name: "too long", input: "toolong", wantErr: true},
		{name: "too short", input: "ab", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "space", input: "Ru t", wantErr: true},
		{name: "multibyte rune", input: "Ruß", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseChunkType(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, pngerrors.IsFormat(err))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestChunkTypeFromBytes(t *testing.T) {
	got, err := ChunkTypeFromBytes([4]byte{82, 117, 83, 116})
	require.NoError(t, err)
	assert.Equal(t, [4]byte{82, 117, 83, 116}, got.Bytes())
	assert.Equal(t, MustParseChunkType("RuSt"), got)

	_, err = ChunkTypeFromBytes([4]byte{'R', 'u', 0x00, 't'})
	require.Error(t, err)
	assert.True(t, pngerrors.IsFormat(err))
}

func TestChunkTypeFlags(t *testing.T) {
	rust := MustParseChunkType("RuSt")

	assert.True(t, rust.IsCritical())
	assert.False(t, rust.IsPublic())
	assert.True(t, rust.IsReservedBitValid())
	assert.True(t, rust.IsSafeToCopy())
	assert.True(t, rust.IsValid())

	lower := MustParseChunkType("ruSt")
	assert.False(t, lower.IsCritical())

	public := MustParseChunkType("RUSt")
	assert.True(t, public.IsPublic())

	unsafe := MustParseChunkType("RuST")
	assert.False(t, unsafe.IsSafeToCopy())
}

func TestChunkTypeReservedBit(t *testing.T) {
	rust := MustParseChunkType("Rust")
	assert.False(t, rust.IsReservedBitValid())
	assert.False(t, rust.IsValid())

	b := MustParseChunkType("RuSt").Bytes()
	b[2] |= caseBit
	flipped := ChunkType(b)
	assert.Equal(t, rust, flipped)
	assert.False(t, flipped.IsValid())
}

func TestChunkTypeIsValidRequiresLetters(t *testing.T) {
	// Built directly, bypassing validation, as ParseChunk does.
	raw := ChunkType{'R', '1', 'S', 't'}
	assert.True(t, raw.IsReservedBitValid())
	assert.False(t, raw.IsValid())
}

func TestChunkTypeString(t *testing.T) {
	assert.Equal(t, "IEND", MustParseChunkType("IEND").String())
	assert.Equal(t, "ab�", ChunkType{'a', 'b', 0xff, 0xfe}.String())
}

func TestChunkTypeEquality(t *testing.T) {
	assert.Equal(t, MustParseChunkType("RuSt"), MustParseChunkType("RuSt"))
	assert.NotEqual(t, MustParseChunkType("RuSt"), MustParseChunkType("Rust"))
}

func TestMustParseChunkTypePanics(t *testing.T) {
	assert.Panics(t, func() { MustParseChunkType("1234") })
}
