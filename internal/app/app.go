// Package app is the application layer between the CLI and the tidy
// service. It builds all dependencies from config and manages the log
// file lifecycle.
package app

import (
	"fmt"
	"os"
	"time"

	"github.com/justinmstuart/tidy/internal/config"
	"github.com/justinmstuart/tidy/internal/fs"
	"github.com/justinmstuart/tidy/internal/tidy"
)

// App wires config, filesystem access, logging, and the tidy service.
type App struct {
	cfg     *config.Config
	fsmgr   tidy.FilesystemManager
	service *tidy.Service
	logFile *os.File
}

// New creates a fully wired App from the given config.
// operation identifies the CLI command being run (e.g. "TrimFilenames").
// The caller must call Close when done.
func New(cfg *config.Config, operation string) (*App, error) {
	fsmgr := fs.NewOSFilesystemManager(cfg.Filesystem.Ignore)

	// The sample config documents log_dir with a ~ prefix.
	logDir, err := config.ExpandHome(cfg.LogDir)
	if err != nil {
		return nil, fmt.Errorf("resolving log directory: %w", err)
	}

	runID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(logDir, runID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	svc := tidy.NewService(fsmgr, &slogAdapter{l: logger.With("op", operation)}, tidy.RealClock{}, tidy.UUIDGenerator{})

	return &App{
		cfg:     cfg,
		fsmgr:   fsmgr,
		service: svc,
		logFile: logFile,
	}, nil
}

// TrimFilenames resolves the given path and removes the first chars
// characters from every filename beneath it.
func (a *App) TrimFilenames(rawPath string, chars int) (*tidy.RunStats, error) {
	p, err := a.fsmgr.Resolve(rawPath)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	return a.service.TrimFilenames(p, chars)
}

// StripMetadata resolves the given path and clears tags from every
// recognized audio file beneath it.
func (a *App) StripMetadata(rawPath string) (*tidy.RunStats, error) {
	p, err := a.fsmgr.Resolve(rawPath)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	return a.service.StripMetadata(p)
}

// OptimizeArchives resolves the given path and repacks every comic
// archive beneath it.
func (a *App) OptimizeArchives(rawPath string, opts tidy.ArchiveOptions) (*tidy.RunStats, error) {
	p, err := a.fsmgr.Resolve(rawPath)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	return a.service.OptimizeArchives(p, opts)
}

// Config returns the effective configuration.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Close releases the log file.
func (a *App) Close() error {
	if a.logFile != nil {
		return a.logFile.Close()
	}
	return nil
}
