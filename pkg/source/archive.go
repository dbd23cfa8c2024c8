package source

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/huanfeng/apkhub-split/internal/errors"
	"github.com/huanfeng/apkhub-split/pkg/apk"
)

// ArchiveSource reads split APKs stored in a zip based bundle
type ArchiveSource struct {
	location string
	reader   *zip.ReadCloser
	files    map[string]*zip.File
}

func openArchiveSource(location string) (*ArchiveSource, error) {
	reader, err := zip.OpenReader(location)
	if err != nil {
		return nil, errors.NewParsingError(errors.CodeSourceUnreadable, "failed to open archive (not a valid zip)", err).
			WithContext("source", location)
	}

	files := make(map[string]*zip.File, len(reader.File))
	for _, f := range reader.File {
		files[f.Name] = f
	}

	return &ArchiveSource{
		location: location,
		reader:   reader,
		files:    files,
	}, nil
}

// Kind returns KindArchive
func (s *ArchiveSource) Kind() Kind { return KindArchive }

// Location returns the archive path
func (s *ArchiveSource) Location() string { return s.location }

// Fingerprint identifies the archive by path, size and modification time
func (s *ArchiveSource) Fingerprint() (string, error) {
	info, err := os.Stat(s.location)
	if err != nil {
		return "", errors.NewFileSystemError(errors.CodeSourceUnreadable, "cannot access source", err).
			WithContext("source", s.location)
	}
	return fmt.Sprintf("archive|%s|%d|%d", s.location, info.Size(), info.ModTime().UnixNano()), nil
}

// Entries lists the APK entries of the archive in archive order
func (s *ArchiveSource) Entries() ([]Entry, error) {
	var entries []Entry
	for _, f := range s.reader.File {
		if f.FileInfo().IsDir() || !apk.IsAPKFile(f.Name) {
			continue
		}
		entries = append(entries, Entry{
			Name: path.Base(f.Name),
			Path: f.Name,
			Size: int64(f.UncompressedSize64),
		})
	}
	return entries, nil
}

// Files lists every entry path in the archive
func (s *ArchiveSource) Files() []string {
	names := make([]string, 0, len(s.reader.File))
	for _, f := range s.reader.File {
		names = append(names, f.Name)
	}
	return names
}

// Open opens an archive entry
func (s *ArchiveSource) Open(name string) (io.ReadCloser, error) {
	f, ok := s.files[name]
	if !ok {
		return nil, fmt.Errorf("entry not found in archive: %s", name)
	}
	return f.Open()
}

// Close releases the archive
func (s *ArchiveSource) Close() error {
	return s.reader.Close()
}
