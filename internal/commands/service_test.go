package commands

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javi11/pngme/internal/config"
	pngerrors "github.com/javi11/pngme/internal/errors"
	"github.com/javi11/pngme/internal/payload"
	"github.com/javi11/pngme/internal/png"
	"github.com/javi11/pngme/internal/pngfile"
)

func newTestService(t *testing.T) (*Service, afero.Fs) {
	t.Helper()

	fs := afero.NewMemMapFs()
	base := png.FromChunks([]png.Chunk{
		png.NewChunk(png.MustParseChunkType("IHDR"), []byte{0, 0, 0, 1, 0, 0, 0, 1, 8, 2, 0, 0, 0}),
		png.NewChunk(png.MustParseChunkType("IEND"), nil),
	})
	require.NoError(t, afero.WriteFile(fs, "/img/a.png", base.Bytes(), 0644))

	opts := pngfile.DefaultOptions()
	opts.RetryDelay = 0
	store := pngfile.NewStore(fs, opts, nil)

	return NewService(store, config.DefaultConfig(), nil), fs
}

func TestService_EncodeDecode(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	chunk, err := svc.Encode(ctx, EncodeRequest{Path: "/img/a.png", ChunkType: "ruSt", Message: "hidden message"})
	require.NoError(t, err)
	assert.Equal(t, uint32(len("hidden message")), chunk.Length())

	msg, err := svc.Decode(ctx, DecodeRequest{Path: "/img/a.png", ChunkType: "ruSt"})
	require.NoError(t, err)
	assert.Equal(t, "hidden message", msg)
}

func TestService_EncodeAppendsAtEnd(t *testing.T) {
	svc, fs := newTestService(t)
	ctx := context.Background()

	_, err := svc.Encode(ctx, EncodeRequest{Path: "/img/a.png", ChunkType: "teSt", Message: "one"})
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, "/img/a.png")
	require.NoError(t, err)

	p, err := png.Parse(data)
	require.NoError(t, err)
	chunks := p.Chunks()
	require.Len(t, chunks, 3)
	assert.Equal(t, "teSt", chunks[2].Type().String())
}

func TestService_EncodeToOutput(t *testing.T) {
	svc, fs := newTestService(t)
	ctx := context.Background()

	before, err := afero.ReadFile(fs, "/img/a.png")
	require.NoError(t, err)

	_, err = svc.Encode(ctx, EncodeRequest{Path: "/img/a.png", ChunkType: "teSt", Message: "x", Output: "/img/b.png"})
	require.NoError(t, err)

	after, err := afero.ReadFile(fs, "/img/a.png")
	require.NoError(t, err)
	assert.Equal(t, before, after)

	msg, err := svc.Decode(ctx, DecodeRequest{Path: "/img/b.png", ChunkType: "teSt"})
	require.NoError(t, err)
	assert.Equal(t, "x", msg)
}

func TestService_EncodeCompressed(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	message := "a message that compresses well well well well well well well"
	chunk, err := svc.Encode(ctx, EncodeRequest{Path: "/img/a.png", ChunkType: "zeSt", Message: message, Compress: true})
	require.NoError(t, err)

	inflated, err := payload.Decompress(chunk.Data(), 0)
	require.NoError(t, err)
	assert.Equal(t, message, string(inflated))

	msg, err := svc.Decode(ctx, DecodeRequest{Path: "/img/a.png", ChunkType: "zeSt", Compressed: true})
	require.NoError(t, err)
	assert.Equal(t, message, msg)

	_, err = svc.Decode(ctx, DecodeRequest{Path: "/img/a.png", ChunkType: "IHDR", Compressed: true})
	require.Error(t, err)
	assert.True(t, pngerrors.IsEncoding(err))
}

func TestService_InvalidChunkType(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Encode(ctx, EncodeRequest{Path: "/img/a.png", ChunkType: "ab1d", Message: "x"})
	assert.True(t, pngerrors.IsFormat(err))

	_, err = svc.Decode(ctx, DecodeRequest{Path: "/img/a.png", ChunkType: "toolong"})
	assert.True(t, pngerrors.IsFormat(err))

	_, err = svc.Remove(ctx, RemoveRequest{Path: "/img/a.png", ChunkType: ""})
	assert.True(t, pngerrors.IsFormat(err))
}

func TestService_DecodeErrors(t *testing.T) {
	svc, fs := newTestService(t)
	ctx := context.Background()

	_, err := svc.Decode(ctx, DecodeRequest{Path: "/img/a.png", ChunkType: "miSS"})
	require.Error(t, err)
	assert.True(t, pngerrors.IsNotFound(err))

	p := png.FromChunks([]png.Chunk{png.NewChunk(png.MustParseChunkType("biNa"), []byte{0xff, 0xfe})})
	require.NoError(t, afero.WriteFile(fs, "/img/bin.png", p.Bytes(), 0644))

	_, err = svc.Decode(ctx, DecodeRequest{Path: "/img/bin.png", ChunkType: "biNa"})
	require.Error(t, err)
	assert.True(t, pngerrors.IsEncoding(err))
}

func TestService_Remove(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Encode(ctx, EncodeRequest{Path: "/img/a.png", ChunkType: "teSt", Message: "first"})
	require.NoError(t, err)
	_, err = svc.Encode(ctx, EncodeRequest{Path: "/img/a.png", ChunkType: "teSt", Message: "second"})
	require.NoError(t, err)

	removed, err := svc.Remove(ctx, RemoveRequest{Path: "/img/a.png", ChunkType: "teSt"})
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), removed.Data())

	msg, err := svc.Decode(ctx, DecodeRequest{Path: "/img/a.png", ChunkType: "teSt"})
	require.NoError(t, err)
	assert.Equal(t, "second", msg)

	_, err = svc.Remove(ctx, RemoveRequest{Path: "/img/a.png", ChunkType: "teSt"})
	require.NoError(t, err)

	_, err = svc.Remove(ctx, RemoveRequest{Path: "/img/a.png", ChunkType: "teSt"})
	require.Error(t, err)
	assert.True(t, pngerrors.IsNotFound(err))
}

func TestService_RemoveNotFoundLeavesFile(t *testing.T) {
	svc, fs := newTestService(t)

	before, err := afero.ReadFile(fs, "/img/a.png")
	require.NoError(t, err)

	_, err = svc.Remove(context.Background(), RemoveRequest{Path: "/img/a.png", ChunkType: "miSS"})
	require.Error(t, err)

	after, err := afero.ReadFile(fs, "/img/a.png")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestService_Print(t *testing.T) {
	svc, fs := newTestService(t)
	ctx := context.Background()

	_, err := svc.Encode(ctx, EncodeRequest{Path: "/img/a.png", ChunkType: "ruSt", Message: "a fairly long hidden message"})
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, "/img/broken.png", []byte("nope"), 0644))

	reports, err := svc.Print(ctx, PrintRequest{
		Paths:        []string{"/img/a.png", "/img/broken.png", "/img/missing.png"},
		PreviewWidth: 8,
	})
	require.Error(t, err)
	assert.True(t, pngerrors.IsFormat(err))

	require.Len(t, reports, 3)
	assert.Equal(t, "/img/a.png", reports[0].Path)
	assert.Equal(t, "/img/broken.png", reports[1].Path)
	assert.Equal(t, "/img/missing.png", reports[2].Path)

	assert.NoError(t, reports[0].Err())
	require.Len(t, reports[0].Chunks, 3)

	ihdr := reports[0].Chunks[0]
	assert.Equal(t, "IHDR", ihdr.Type)
	assert.True(t, ihdr.Critical)
	assert.True(t, ihdr.Public)
	assert.False(t, ihdr.SafeToCopy)
	assert.True(t, ihdr.Valid)
	assert.Equal(t, "0000000…", ihdr.Preview)

	hidden := reports[0].Chunks[2]
	assert.Equal(t, 2, hidden.Index)
	assert.Equal(t, "ruSt", hidden.Type)
	assert.False(t, hidden.Critical)
	assert.Equal(t, "a fairl…", hidden.Preview)

	assert.Error(t, reports[1].Err())
	assert.NotEmpty(t, reports[1].Error)
	assert.Error(t, reports[2].Err())
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name  string
		data  []byte
		width int
		want  string
	}{
		{name: "text untouched", data: []byte("hello"), width: 0, want: "hello"},
		{name: "text fits", data: []byte("hello"), width: 5, want: "hello"},
		{name: "text truncated", data: []byte("hello world"), width: 6, want: "hello…"},
		{name: "binary as hex", data: []byte{0x00, 0xff}, width: 0, want: "00ff"},
		{name: "width one", data: []byte("hello"), width: 1, want: "…"},
		{name: "multibyte", data: []byte("héllo wörld"), width: 4, want: "hél…"},
		{name: "empty", data: nil, width: 3, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, preview(tt.data, tt.width))
		})
	}
}
