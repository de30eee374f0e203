// Package pngfile loads whole png files into memory and writes them back.
package pngfile

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/javi11/pngme/internal/png"
)

// Options controls how Save writes files.
type Options struct {
	// Backup copies the previous file content to Path+BackupSuffix before
	// it is replaced.
	Backup       bool
	BackupSuffix string
	// Mode is used for newly created files. Existing files keep their mode.
	Mode os.FileMode
	// Attempts is the number of rename attempts, at least 1.
	Attempts uint
	// RetryDelay is the base backoff delay between rename attempts.
	RetryDelay time.Duration
}

// DefaultOptions returns options for a plain overwrite with a few retries.
func DefaultOptions() Options {
	return Options{
		BackupSuffix: ".bak",
		Mode:         0644,
		Attempts:     3,
		RetryDelay:   50 * time.Millisecond,
	}
}

// Store reads and writes png files on an afero filesystem.
type Store struct {
	fs   afero.Fs
	opts Options
	log  *slog.Logger
}

// NewStore creates a store over fs.
func NewStore(fs afero.Fs, opts Options, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Attempts == 0 {
		opts.Attempts = 1
	}
	if opts.Mode == 0 {
		opts.Mode = 0644
	}

	return &Store{
		fs:   fs,
		opts: opts,
		log:  logger,
	}
}

// Load reads path and parses it. Parse errors keep their kind and are
// wrapped with the path.
func (s *Store) Load(ctx context.Context, path string) (*png.Png, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	p, err := png.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	s.log.DebugContext(ctx, "Loaded png", "path", path, "size", len(data), "chunks", p.Len())

	return p, nil
}

// Save serializes p and replaces path with it. The data goes to a
// temporary file in the same directory which is then renamed over path,
// so readers never observe a half written file.
func (s *Store) Save(ctx context.Context, path string, p *png.Png) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data := p.Bytes()

	mode := s.opts.Mode
	info, statErr := s.fs.Stat(path)
	if statErr == nil {
		mode = info.Mode().Perm()

		if s.opts.Backup {
			if err := s.backup(ctx, path, mode); err != nil {
				return err
			}
		}
	}

	tmpPath := filepath.Join(filepath.Dir(path), fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))
	if err := afero.WriteFile(s.fs, tmpPath, data, mode); err != nil {
		_ = s.fs.Remove(tmpPath)
		return fmt.Errorf("failed to write temporary file for %s: %w", path, err)
	}

	err := retry.Do(
		func() error {
			return s.fs.Rename(tmpPath, path)
		},
		retry.Attempts(s.opts.Attempts),
		retry.Delay(s.opts.RetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			s.log.DebugContext(ctx, "Rename failed, retrying",
				"attempt", n+1,
				"path", path,
				"error", err)
		}),
		retry.Context(ctx),
	)
	if err != nil {
		_ = s.fs.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	s.log.DebugContext(ctx, "Saved png", "path", path, "size", len(data), "chunks", p.Len())

	return nil
}

func (s *Store) backup(ctx context.Context, path string, mode os.FileMode) error {
	previous, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return fmt.Errorf("failed to read %s for backup: %w", path, err)
	}

	backupPath := path + s.opts.BackupSuffix
	if err := afero.WriteFile(s.fs, backupPath, previous, mode); err != nil {
		return fmt.Errorf("failed to write backup %s: %w", backupPath, err)
	}

	s.log.InfoContext(ctx, "Backed up png", "path", path, "backup", backupPath)

	return nil
}
