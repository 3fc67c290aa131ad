// Package fsutil holds the small filesystem helpers shared by the config
// store and the skills migrator.
package fsutil

import (
	"io"
	"os"
	"path/filepath"

	"github.com/andywolf/neovate-desk/internal/apperr"
)

// Exists reports whether path can be stat'ed.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// IsFile reports whether path exists and is a regular file.
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// CopyFile copies the contents of src to dst, creating dst's parent
// directories. Permission bits and timestamps are not carried over.
func CopyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return apperr.IO("failed to create directory", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return apperr.IO("failed to copy file", err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return apperr.IO("failed to copy file", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return apperr.IO("failed to copy file", err)
	}
	if err := out.Close(); err != nil {
		return apperr.IO("failed to copy file", err)
	}
	return nil
}

// CopyDir recursively copies the tree rooted at src into dst. Entries are
// copied by type as reported by the directory listing; symlinks are not
// followed as directories. A failure partway leaves what was already copied.
func CopyDir(src, dst string) error {
	if err := os.MkdirAll(dst, 0755); err != nil {
		return apperr.IO("failed to create directory", err)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return apperr.IO("failed to read directory", err)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		if entry.IsDir() {
			if err := CopyDir(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		if err := CopyFile(srcPath, dstPath); err != nil {
			return err
		}
	}
	return nil
}

// RemovePath deletes a file or a whole directory tree. A missing path is not an error.
func RemovePath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return apperr.IO("failed to read metadata", err)
	}

	if info.IsDir() {
		if err := os.RemoveAll(path); err != nil {
			return apperr.IO("failed to remove directory", err)
		}
		return nil
	}
	if err := os.Remove(path); err != nil {
		return apperr.IO("failed to remove file", err)
	}
	return nil
}
