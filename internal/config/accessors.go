package config

import (
	"fmt"
	"os"
	"strconv"
)

// File and print accessor methods with default fallbacks.

// GetFileMode returns the permission bits for newly written files.
func (c *Config) GetFileMode() os.FileMode {
	mode, err := parseFileMode(c.Files.Mode)
	if err != nil {
		return 0644
	}
	return mode
}

// GetWriteAttempts returns how many times a rename is attempted, at least 1.
func (c *Config) GetWriteAttempts() uint {
	if c.Files.WriteRetries <= 0 {
		return 1
	}
	return uint(c.Files.WriteRetries) + 1
}

// GetPrintWorkers returns the number of files inspected concurrently.
func (c *Config) GetPrintWorkers() int {
	if c.Print.Workers <= 0 {
		return 4 // Default: 4 workers
	}
	return c.Print.Workers
}

// GetPrintFormat returns the print output format.
func (c *Config) GetPrintFormat() string {
	if c.Print.Format == "" {
		return "text"
	}
	return c.Print.Format
}

// GetMaxInflatedSize returns the decompression limit in bytes.
func (c *Config) GetMaxInflatedSize() int64 {
	if c.Payload.MaxInflatedSize <= 0 {
		return 16 << 20 // Default: 16MB
	}
	return c.Payload.MaxInflatedSize
}

func parseFileMode(s string) (os.FileMode, error) {
	if s == "" {
		return 0644, nil
	}

	mode, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid octal mode %q", s)
	}

	if mode > 0777 {
		return 0, fmt.Errorf("mode %q has bits outside 0777", s)
	}

	return os.FileMode(mode), nil
}
