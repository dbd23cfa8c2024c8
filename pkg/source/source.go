// Package source enumerates the package files of a split application from
// an archive or a folder.
package source

import (
	"io"
	"os"
	"path/filepath"

	"github.com/huanfeng/apkhub-split/internal/errors"
	"github.com/huanfeng/apkhub-split/pkg/apk"
	"github.com/huanfeng/apkhub-split/pkg/split"
)

// Kind distinguishes archive and folder sources
type Kind int

const (
	KindArchive Kind = iota
	KindFolder
)

// String returns the string representation of the kind
func (k Kind) String() string {
	if k == KindFolder {
		return "folder"
	}
	return "archive"
}

// Entry is a package file found in a source
type Entry struct {
	// Name is the file name without directories
	Name string
	// Path locates the file inside the source
	Path string
	Size int64
}

// Source is an enumerable collection of package files
type Source interface {
	Kind() Kind
	Location() string
	// Entries lists the .apk files
	Entries() ([]Entry, error)
	// Open opens any file of the source by its path
	Open(path string) (io.ReadCloser, error)
	// Files lists every file path, package or not
	Files() []string
	// Fingerprint changes whenever the package files or scan options change
	Fingerprint() (string, error)
	Close() error
}

// Options controls how sources are scanned
type Options struct {
	// Recursive descends into sub folders of folder sources
	Recursive bool
}

// Open picks an archive or folder source for location
func Open(location string, opts Options) (Source, error) {
	abs, err := filepath.Abs(location)
	if err != nil {
		return nil, errors.NewFileSystemError(errors.CodeSourceUnreadable, "invalid source path", err).
			WithContext("source", location)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.NewFileSystemError(errors.CodeSourceUnreadable, "cannot access source", err).
			WithContext("source", location)
	}

	if info.IsDir() {
		return newFolderSource(abs, opts), nil
	}

	if !apk.IsArchiveFile(abs) {
		return nil, errors.NewValidationError(errors.CodeSourceUnsupported, "unsupported source type").
			WithContext("source", location).
			WithSuggestion("Use an .apks, .xapk, .apkm or .zip archive, or a folder of .apk files")
	}

	return openArchiveSource(abs)
}

// RawEntries converts entries into classifier input
func RawEntries(entries []Entry) []split.RawEntry {
	raw := make([]split.RawEntry, len(entries))
	for i, e := range entries {
		raw[i] = split.RawEntry{Name: e.Name, Size: e.Size}
	}
	return raw
}
