package commands

import (
	"context"
	"encoding/hex"
	"errors"
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/sourcegraph/conc/pool"

	"github.com/javi11/pngme/internal/png"
)

// ChunkReport describes one chunk of a file.
type ChunkReport struct {
	Index      int    `json:"index"`
	Type       string `json:"type"`
	Length     uint32 `json:"length"`
	CRC        uint32 `json:"crc"`
	Critical   bool   `json:"critical"`
	Public     bool   `json:"public"`
	SafeToCopy bool   `json:"safe_to_copy"`
	Valid      bool   `json:"valid"`
	// Preview is the payload as text when it is printable UTF-8, hex otherwise.
	Preview string `json:"preview"`
}

// FileReport lists the chunks of one file, or the error that stopped it
// from loading.
type FileReport struct {
	Path   string        `json:"path"`
	Chunks []ChunkReport `json:"chunks,omitempty"`
	Error  string        `json:"error,omitempty"`

	index int
	err   error
}

// Err returns the load error, if any.
func (r FileReport) Err() error {
	return r.err
}

// Print inspects every requested file, at most print.workers at a time.
// Reports come back in request order. Files that fail to load still get a
// report; the returned error joins all such failures.
func (s *Service) Print(ctx context.Context, req PrintRequest) ([]FileReport, error) {
	p := pool.NewWithResults[FileReport]().WithMaxGoroutines(s.cfg.GetPrintWorkers())

	for i, path := range req.Paths {
		i, path := i, path
		p.Go(func() FileReport {
			report := FileReport{Path: path, index: i}

			container, err := s.store.Load(ctx, path)
			if err != nil {
				s.log.DebugContext(ctx, "Failed to load png for print", "path", path, "error", err)
				report.err = err
				report.Error = err.Error()
				return report
			}

			report.Chunks = chunkReports(container, req.PreviewWidth)
			return report
		})
	}

	reports := p.Wait()
	sort.Slice(reports, func(a, b int) bool {
		return reports[a].index < reports[b].index
	})

	var errs []error
	for _, r := range reports {
		if r.err != nil {
			errs = append(errs, r.err)
		}
	}

	return reports, errors.Join(errs...)
}

func chunkReports(p *png.Png, previewWidth int) []ChunkReport {
	chunks := p.Chunks()
	reports := make([]ChunkReport, 0, len(chunks))

	for i, c := range chunks {
		t := c.Type()
		reports = append(reports, ChunkReport{
			Index:      i,
			Type:       t.String(),
			Length:     c.Length(),
			CRC:        c.CRC(),
			Critical:   t.IsCritical(),
			Public:     t.IsPublic(),
			SafeToCopy: t.IsSafeToCopy(),
			Valid:      t.IsValid(),
			Preview:    preview(c.Data(), previewWidth),
		})
	}

	return reports
}

func preview(data []byte, width int) string {
	var text string
	if isPrintable(data) {
		text = string(data)
	} else {
		text = hex.EncodeToString(data)
	}

	if width <= 0 || utf8.RuneCountInString(text) <= width {
		return text
	}

	runes := []rune(text)
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}

func isPrintable(data []byte) bool {
	if !utf8.Valid(data) {
		return false
	}

	for _, r := range string(data) {
		if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
