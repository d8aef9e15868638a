package tidy

import "io/fs"

// FilesystemManager provides an interface for filesystem operations.
// It abstracts file access so the service layer stays independent of the
// real filesystem implementation.
type FilesystemManager interface {
	// Resolve validates a raw path and returns a Path object.
	// It resolves the path to an absolute path, stats it, and validates
	// it's a regular file or directory (not a symlink, device, etc.).
	Resolve(rawPath string) (*Path, error)

	// FindFiles discovers regular files under the given directory path,
	// honoring ignore patterns. When recursive is true, files in
	// subdirectories are included.
	FindFiles(path *Path, recursive bool) ([]*Path, error)

	// Stat returns fresh file info for a path string.
	Stat(path string) (fs.FileInfo, error)

	// Exists reports whether any entry exists at the given path.
	Exists(path string) (bool, error)

	// Rename moves a file from oldPath to newPath.
	// It must not overwrite silently; callers check Exists first.
	Rename(oldPath, newPath string) error

	// Copy duplicates the file at src to dst, preserving its mode.
	Copy(src, dst string) error

	// Replace atomically moves src over dst. Both paths must be on the
	// same filesystem for the rename to be atomic.
	Replace(src, dst string) error

	// Remove deletes the file at the given path.
	Remove(path string) error
}
