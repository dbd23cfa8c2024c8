package source

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/huanfeng/apkhub-split/internal/errors"
	"github.com/huanfeng/apkhub-split/pkg/split"
	"github.com/huanfeng/apkhub-split/pkg/utils"
)

// Scan is the classified content of one source
type Scan struct {
	Location string
	Kind     Kind
	// Entries is sorted base first, then by name
	Entries []split.PackageEntry
	byName  map[string]Entry
}

// Lookup returns the source entry behind a classified name
func (s *Scan) Lookup(name string) (Entry, bool) {
	e, ok := s.byName[name]
	return e, ok
}

// SourceEntries maps classified entries back to source entries, keeping order
func (s *Scan) SourceEntries(pkgs []split.PackageEntry) []Entry {
	out := make([]Entry, 0, len(pkgs))
	for _, p := range pkgs {
		if e, ok := s.byName[p.Name]; ok {
			out = append(out, e)
		}
	}
	return out
}

// Catalog classifies sources and caches the result per source identity
type Catalog struct {
	cache  *lru.Cache[string, *Scan]
	logger utils.Logger
}

// NewCatalog creates a catalog holding up to size scans
func NewCatalog(size int, logger utils.Logger) (*Catalog, error) {
	if size <= 0 {
		size = 16
	}
	if logger == nil {
		logger = utils.GetGlobalLogger()
	}

	cache, err := lru.New[string, *Scan](size)
	if err != nil {
		return nil, err
	}
	return &Catalog{cache: cache, logger: logger}, nil
}

// Scan enumerates and classifies src. Results are reused while the source
// fingerprint stays the same.
func (c *Catalog) Scan(src Source) (*Scan, error) {
	key, err := src.Fingerprint()
	if err != nil {
		return nil, err
	}

	log := c.logger.WithField("source", src.Location())
	if scan, ok := c.cache.Get(key); ok {
		log.Debug("Using cached classification (%d entries)", len(scan.Entries))
		return scan, nil
	}

	found, err := src.Entries()
	if err != nil {
		return nil, err
	}

	byName := make(map[string]Entry, len(found))
	unique := make([]Entry, 0, len(found))
	for _, e := range found {
		if prev, dup := byName[e.Name]; dup {
			log.Warn("Ignoring %s, name already used by %s", e.Path, prev.Path)
			continue
		}
		byName[e.Name] = e
		unique = append(unique, e)
	}

	if len(unique) == 0 {
		return nil, errors.NewNotFoundError(errors.CodeNoPackages, "no package files found").
			WithContext("source", src.Location())
	}

	scan := &Scan{
		Location: src.Location(),
		Kind:     src.Kind(),
		Entries:  split.EnrichEntries(RawEntries(unique)),
		byName:   byName,
	}
	log.Debug("Classified %d entries", len(scan.Entries))

	c.cache.Add(key, scan)
	return scan, nil
}

// Len returns the number of cached scans
func (c *Catalog) Len() int {
	return c.cache.Len()
}
