// Package payload packs message payloads before they are stored in a chunk.
// Compressed payloads use a plain zlib stream, the same framing PNG uses
// for zTXt and iCCP data.
package payload

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	pngerrors "github.com/javi11/pngme/internal/errors"
)

// DefaultMaxInflatedSize bounds Decompress output when no limit is given.
const DefaultMaxInflatedSize = 16 << 20

// Compress deflates data into a zlib stream at the given level.
func Compress(data []byte, level int) ([]byte, error) {
	var buf bytes.Buffer

	w, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("failed to create zlib writer: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("failed to compress payload: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish zlib stream: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress inflates a zlib stream. Output larger than limit bytes is
// rejected; limit <= 0 means DefaultMaxInflatedSize.
func Decompress(data []byte, limit int64) ([]byte, error) {
	if limit <= 0 {
		limit = DefaultMaxInflatedSize
	}

	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, pngerrors.NewEncodingError("payload is not a zlib stream", err)
	}
	defer r.Close()

	out, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, pngerrors.NewEncodingError("failed to inflate payload", err)
	}

	if int64(len(out)) > limit {
		return nil, pngerrors.NewEncodingError(fmt.Sprintf("inflated payload exceeds %d bytes", limit), nil)
	}

	return out, nil
}
