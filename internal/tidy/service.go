// Package tidy implements the core directory-tree transformations:
// filename trimming, audio metadata stripping, and comic archive
// optimization. Each transform enumerates files under a root, applies a
// per-file rewrite, and collects success/skip/failure counts. Per-file
// errors never abort a run.
package tidy

import (
	"fmt"
)

// Service is the orchestration layer that coordinates filesystem access
// and the per-file transforms needed by the CLI.
type Service struct {
	fsmgr  FilesystemManager
	logger Logger
	clock  Clock
	idgen  IDGenerator
}

// NewService creates a new Service with the provided dependencies.
func NewService(fsmgr FilesystemManager, logger Logger, clock Clock, idgen IDGenerator) *Service {
	return &Service{
		fsmgr:  fsmgr,
		logger: logger,
		clock:  clock,
		idgen:  idgen,
	}
}

// discover validates the root and returns all regular files beneath it.
// A failure here is unrecoverable and aborts the run.
func (s *Service) discover(root *Path) ([]*Path, error) {
	if !root.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root.String())
	}
	files, err := s.fsmgr.FindFiles(root, true)
	if err != nil {
		return nil, fmt.Errorf("finding files: %w", err)
	}
	return files, nil
}
