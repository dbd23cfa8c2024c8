package source

import (
	"github.com/huanfeng/apkhub-split/internal/errors"
	"github.com/huanfeng/apkhub-split/pkg/apk"
)

// ReadManifest returns the bundle manifest of src, or nil when it has none
func ReadManifest(src Source) (*apk.XAPKManifest, error) {
	for _, name := range src.Files() {
		if !apk.IsManifestName(name) {
			continue
		}

		rc, err := src.Open(name)
		if err != nil {
			return nil, errors.NewParsingError(errors.CodeManifestUnreadable, "failed to open bundle manifest", err).
				WithContext("manifest", name)
		}
		manifest, err := apk.ParseManifest(rc)
		rc.Close()
		if err != nil {
			return nil, errors.NewParsingError(errors.CodeManifestUnreadable, "failed to parse bundle manifest", err).
				WithContext("manifest", name)
		}
		return manifest, nil
	}
	return nil, nil
}

// InspectBase reads the manifest of the base APK entry
func InspectBase(src Source, base Entry) (*apk.BaseInfo, error) {
	rc, err := src.Open(base.Path)
	if err != nil {
		return nil, errors.NewFileSystemError(errors.CodeSourceUnreadable, "failed to open base APK", err).
			WithContext("entry", base.Path)
	}
	defer rc.Close()

	info, err := apk.Inspect(rc, base.Size)
	if err != nil {
		return nil, errors.NewParsingError(errors.CodeManifestUnreadable, "failed to inspect base APK", err).
			WithContext("entry", base.Path)
	}
	return info, nil
}
