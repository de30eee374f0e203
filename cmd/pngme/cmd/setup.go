package cmd

import (
	"io"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/javi11/pngme/internal/config"
	"github.com/javi11/pngme/internal/pngfile"
	"github.com/javi11/pngme/internal/slogutil"
)

// initializeLogger sets up logging from the config, honoring --verbose
func initializeLogger(console io.Writer, cfg *config.Config) *slog.Logger {
	logger, leveler := slogutil.SetupLogRotation(console, cfg.Log)
	if verbose {
		leveler.SetLevel(slog.LevelDebug)
	}

	logger.Debug("Logging configured",
		"log_file", cfg.Log.File,
		"log_level", leveler.Level().String(),
		"max_size_mb", cfg.Log.MaxSize,
		"max_age_days", cfg.Log.MaxAge,
		"max_backups", cfg.Log.MaxBackups)

	return logger
}

// initializeStore creates the png file store from the files config
func initializeStore(fs afero.Fs, cfg *config.Config, logger *slog.Logger) *pngfile.Store {
	opts := pngfile.DefaultOptions()
	opts.Backup = cfg.Files.Backup
	opts.BackupSuffix = cfg.Files.BackupSuffix
	opts.Mode = cfg.GetFileMode()
	opts.Attempts = cfg.GetWriteAttempts()

	return pngfile.NewStore(fs, opts, logger)
}
