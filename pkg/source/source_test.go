package source

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huanfeng/apkhub-split/internal/errors"
	"github.com/huanfeng/apkhub-split/pkg/split"
	"github.com/huanfeng/apkhub-split/pkg/utils"
)

func writeArchive(t *testing.T, name string, files map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	names := make([]string, 0, len(files))
	for entry := range files {
		names = append(names, entry)
	}
	sort.Strings(names)

	zw := zip.NewWriter(f)
	for _, entry := range names {
		w, err := zw.Create(entry)
		require.NoError(t, err)
		_, err = io.WriteString(w, files[entry])
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return path
}

func writeFolder(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	return root
}

func entryNames(entries []Entry) []string {
	var out []string
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

func TestArchiveSource(t *testing.T) {
	path := writeArchive(t, "app.apks", map[string]string{
		"splits/base.apk":             "base-content",
		"splits/split_config.en.apk":  "en",
		"splits/split_config.x86.apk": "x86",
		"toc.pb":                      "toc",
		"manifest.json":               `{"package_name": "com.example", "version_code": 3}`,
	})

	src, err := Open(path, Options{})
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, KindArchive, src.Kind())

	entries, err := src.Entries()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"base.apk", "split_config.en.apk", "split_config.x86.apk"}, entryNames(entries))
	for _, e := range entries {
		assert.Equal(t, "splits/"+e.Name, e.Path)
		assert.Positive(t, e.Size)
	}

	assert.Len(t, src.Files(), 5)

	manifest, err := ReadManifest(src)
	require.NoError(t, err)
	require.NotNil(t, manifest)
	assert.Equal(t, "com.example", manifest.PackageName)
	assert.Equal(t, int64(3), manifest.VersionCode)
}

func TestFolderSource(t *testing.T) {
	root := writeFolder(t, map[string]string{
		"base.apk":                   "base",
		"split_config.xxhdpi.apk":    "dpi",
		"notes.txt":                  "ignored",
		"nested/split_config.fr.apk": "fr",
	})

	t.Run("top level only by default", func(t *testing.T) {
		src, err := Open(root, Options{})
		require.NoError(t, err)
		assert.Equal(t, KindFolder, src.Kind())

		entries, err := src.Entries()
		require.NoError(t, err)
		assert.Equal(t, []string{"base.apk", "split_config.xxhdpi.apk"}, entryNames(entries))

		manifest, err := ReadManifest(src)
		require.NoError(t, err)
		assert.Nil(t, manifest)
	})

	t.Run("recursive", func(t *testing.T) {
		src, err := Open(root, Options{Recursive: true})
		require.NoError(t, err)

		entries, err := src.Entries()
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"base.apk", "split_config.xxhdpi.apk", "split_config.fr.apk"}, entryNames(entries))

		rc, err := src.Open("nested/split_config.fr.apk")
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		assert.Equal(t, "fr", string(data))
	})
}

func TestOpenErrors(t *testing.T) {
	t.Run("missing path", func(t *testing.T) {
		_, err := Open(filepath.Join(t.TempDir(), "missing.apks"), Options{})
		var splitErr *errors.SplitError
		require.True(t, errors.As(err, &splitErr))
		assert.Equal(t, errors.CodeSourceUnreadable, splitErr.Code)
	})

	t.Run("unsupported file", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "app.tar")
		require.NoError(t, os.WriteFile(p, []byte("x"), 0644))

		_, err := Open(p, Options{})
		var splitErr *errors.SplitError
		require.True(t, errors.As(err, &splitErr))
		assert.Equal(t, errors.CodeSourceUnsupported, splitErr.Code)
	})

	t.Run("corrupt archive", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "app.xapk")
		require.NoError(t, os.WriteFile(p, []byte("not a zip"), 0644))

		_, err := Open(p, Options{})
		assert.Error(t, err)
	})
}

func TestCatalog(t *testing.T) {
	path := writeArchive(t, "app.apkm", map[string]string{
		"base.apk":                   "base",
		"split_config.arm64_v8a.apk": "arm",
		"split_config.en.apk":        "en",
		"zz/split_config.en.apk":     "duplicate",
	})

	src, err := Open(path, Options{})
	require.NoError(t, err)
	defer src.Close()

	catalog, err := NewCatalog(4, utils.NopLogger())
	require.NoError(t, err)

	scan, err := catalog.Scan(src)
	require.NoError(t, err)
	require.Len(t, scan.Entries, 3)
	assert.True(t, scan.Entries[0].IsBase)
	assert.Equal(t, split.ABI{Value: "arm64_v8a"}, scan.Entries[1].Config)

	again, err := catalog.Scan(src)
	require.NoError(t, err)
	assert.Same(t, scan, again)
	assert.Equal(t, 1, catalog.Len())

	e, ok := scan.Lookup("split_config.en.apk")
	require.True(t, ok)
	assert.Equal(t, "split_config.en.apk", e.Path)
	assert.Equal(t, int64(2), e.Size)

	selected := split.SelectForDevice(scan.Entries, split.DeviceProfile{PrimaryABI: "arm64_v8a", DensityQualifier: "xhdpi", Language: "en"})
	assert.Len(t, scan.SourceEntries(selected), 3)
}

func TestCatalogFolderChanges(t *testing.T) {
	root := writeFolder(t, map[string]string{
		"base.apk":                "base",
		"sub/split_config.en.apk": "en",
	})

	catalog, err := NewCatalog(4, utils.NopLogger())
	require.NoError(t, err)

	flat, err := Open(root, Options{})
	require.NoError(t, err)
	scan, err := catalog.Scan(flat)
	require.NoError(t, err)
	assert.Len(t, scan.Entries, 1)

	t.Run("recursive scan is cached separately", func(t *testing.T) {
		deep, err := Open(root, Options{Recursive: true})
		require.NoError(t, err)

		scan, err := catalog.Scan(deep)
		require.NoError(t, err)
		assert.Len(t, scan.Entries, 2)
		assert.Equal(t, 2, catalog.Len())
	})

	t.Run("rewritten file is rescanned", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(root, "base.apk"), []byte("a larger base"), 0644))

		scan, err := catalog.Scan(flat)
		require.NoError(t, err)
		e, ok := scan.Lookup("base.apk")
		require.True(t, ok)
		assert.Equal(t, int64(13), e.Size)
	})
}

func TestCatalogNoPackages(t *testing.T) {
	root := writeFolder(t, map[string]string{"readme.md": "nothing here"})
	src, err := Open(root, Options{})
	require.NoError(t, err)

	catalog, err := NewCatalog(0, utils.NopLogger())
	require.NoError(t, err)

	_, err = catalog.Scan(src)
	assert.True(t, errors.Is(err, errors.ErrNoPackages))
}

func TestExtract(t *testing.T) {
	path := writeArchive(t, "app.xapk", map[string]string{
		"base.apk":            "0123456789",
		"split_config.en.apk": "abcde",
	})
	src, err := Open(path, Options{})
	require.NoError(t, err)
	defer src.Close()

	entries, err := src.Entries()
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "out")
	var lastDone, lastTotal int64
	written, err := Extract(context.Background(), src, entries, dest, func(done, total int64) {
		lastDone, lastTotal = done, total
	})
	require.NoError(t, err)
	require.Len(t, written, 2)
	assert.Equal(t, int64(15), lastTotal)
	assert.Equal(t, int64(15), lastDone)

	data, err := os.ReadFile(filepath.Join(dest, "base.apk"))
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(data))
}

func TestExtractCancelled(t *testing.T) {
	root := writeFolder(t, map[string]string{"base.apk": "base"})
	src, err := Open(root, Options{})
	require.NoError(t, err)

	entries, err := src.Entries()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	written, err := Extract(ctx, src, entries, t.TempDir(), nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, written)
}
