package commands

// EncodeRequest asks to store Message in a new chunk of type ChunkType.
type EncodeRequest struct {
	Path      string
	ChunkType string
	Message   string
	// Compress stores the message as a zlib stream.
	Compress bool
	// Output is where the result is written; empty means Path.
	Output string
}

// DecodeRequest asks for the message in the first chunk of type ChunkType.
type DecodeRequest struct {
	Path      string
	ChunkType string
	// Compressed inflates the payload before decoding it as text.
	Compressed bool
}

// RemoveRequest asks to drop the first chunk of type ChunkType.
type RemoveRequest struct {
	Path      string
	ChunkType string
	// Output is where the result is written; empty means Path.
	Output string
}

// PrintRequest asks for a listing of the chunks of every file in Paths.
type PrintRequest struct {
	Paths []string
	// PreviewWidth truncates payload previews to this many runes; 0 keeps
	// them whole.
	PreviewWidth int
}

func outputPath(path, output string) string {
	if output != "" {
		return output
	}
	return path
}
