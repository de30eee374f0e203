// Package commands maps CLI requests onto png container operations.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/javi11/pngme/internal/config"
	pngerrors "github.com/javi11/pngme/internal/errors"
	"github.com/javi11/pngme/internal/payload"
	"github.com/javi11/pngme/internal/png"
	"github.com/javi11/pngme/internal/slogutil"
)

// Store loads and saves whole png files.
type Store interface {
	Load(ctx context.Context, path string) (*png.Png, error)
	Save(ctx context.Context, path string, p *png.Png) error
}

// Service runs encode, decode, remove and print requests.
type Service struct {
	store Store
	cfg   *config.Config
	log   *slog.Logger
}

// NewService creates a service backed by store.
func NewService(store Store, cfg *config.Config, logger *slog.Logger) *Service {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		store: store,
		cfg:   cfg,
		log:   logger,
	}
}

// Encode appends a chunk holding the request message and writes the file.
func (s *Service) Encode(ctx context.Context, req EncodeRequest) (png.Chunk, error) {
	chunkType, err := png.ParseChunkType(req.ChunkType)
	if err != nil {
		return png.Chunk{}, err
	}

	ctx = slogutil.With(ctx, "path", req.Path, "chunk_type", chunkType.String())

	if !chunkType.IsValid() {
		s.log.WarnContext(ctx, "Chunk type has the reserved bit set, png decoders may reject the file")
	}

	p, err := s.store.Load(ctx, req.Path)
	if err != nil {
		return png.Chunk{}, err
	}

	data := []byte(req.Message)
	if req.Compress {
		data, err = payload.Compress(data, s.cfg.Payload.CompressionLevel)
		if err != nil {
			return png.Chunk{}, err
		}
	}

	chunk := png.NewChunk(chunkType, data)
	p.Append(chunk)

	out := outputPath(req.Path, req.Output)
	if err := s.store.Save(ctx, out, p); err != nil {
		return png.Chunk{}, err
	}

	s.log.InfoContext(ctx, "Encoded message",
		"output", out,
		"length", chunk.Length(),
		"compressed", req.Compress)

	return chunk, nil
}

// Decode returns the message stored in the first chunk of the requested type.
func (s *Service) Decode(ctx context.Context, req DecodeRequest) (string, error) {
	chunkType, err := png.ParseChunkType(req.ChunkType)
	if err != nil {
		return "", err
	}

	ctx = slogutil.With(ctx, "path", req.Path, "chunk_type", chunkType.String())

	p, err := s.store.Load(ctx, req.Path)
	if err != nil {
		return "", err
	}

	chunk, ok := p.ChunkByType(chunkType)
	if !ok {
		return "", pngerrors.NewNotFoundError("chunk with type %s not found in %s", chunkType, req.Path)
	}

	if !req.Compressed {
		return chunk.DataString()
	}

	data, err := payload.Decompress(chunk.Data(), s.cfg.GetMaxInflatedSize())
	if err != nil {
		return "", err
	}

	if !utf8.Valid(data) {
		return "", pngerrors.NewEncodingError(fmt.Sprintf("inflated chunk %s payload is not valid utf-8", chunkType), nil)
	}

	s.log.DebugContext(ctx, "Decoded compressed message", "stored", chunk.Length(), "inflated", len(data))

	return string(data), nil
}

// Remove drops the first chunk of the requested type and writes the file.
func (s *Service) Remove(ctx context.Context, req RemoveRequest) (png.Chunk, error) {
	chunkType, err := png.ParseChunkType(req.ChunkType)
	if err != nil {
		return png.Chunk{}, err
	}

	ctx = slogutil.With(ctx, "path", req.Path, "chunk_type", chunkType.String())

	p, err := s.store.Load(ctx, req.Path)
	if err != nil {
		return png.Chunk{}, err
	}

	removed, err := p.RemoveFirstByType(chunkType)
	if err != nil {
		return png.Chunk{}, fmt.Errorf("%s: %w", req.Path, err)
	}

	out := outputPath(req.Path, req.Output)
	if err := s.store.Save(ctx, out, p); err != nil {
		return png.Chunk{}, err
	}

	s.log.InfoContext(ctx, "Removed chunk", "output", out, "length", removed.Length())

	return removed, nil
}
