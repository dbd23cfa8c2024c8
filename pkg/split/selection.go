package split

import (
	"errors"
	"fmt"
)

// ErrBaseRequired is returned when removing an entry would leave the
// selection without a base package.
var ErrBaseRequired = errors.New("base package must stay selected")

// ErrUnknownEntry is returned when toggling a name that is not part of the
// classified set.
var ErrUnknownEntry = errors.New("unknown package entry")

// Selection is the set of entries chosen for installation. It keeps the
// order of the classified entry list it was built from.
type Selection struct {
	all      []PackageEntry
	selected map[string]bool
}

// NewSelection creates a selection over all entries with initial selected
func NewSelection(all, initial []PackageEntry) *Selection {
	s := &Selection{
		all:      all,
		selected: make(map[string]bool, len(initial)),
	}
	for _, e := range initial {
		s.selected[e.Name] = true
	}
	return s
}

// Contains reports whether name is selected
func (s *Selection) Contains(name string) bool {
	return s.selected[name]
}

// Add selects name
func (s *Selection) Add(name string) error {
	if _, ok := s.lookup(name); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEntry, name)
	}
	s.selected[name] = true
	return nil
}

// Remove deselects name. The last selected base entry cannot be removed.
func (s *Selection) Remove(name string) error {
	entry, ok := s.lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEntry, name)
	}
	if !s.selected[name] {
		return nil
	}

	if entry.IsBase && s.selectedBaseCount() <= 1 {
		return fmt.Errorf("%w: %s", ErrBaseRequired, name)
	}

	delete(s.selected, name)
	return nil
}

// Toggle flips the membership of name
func (s *Selection) Toggle(name string) error {
	if s.selected[name] {
		return s.Remove(name)
	}
	return s.Add(name)
}

// Entries returns the selected entries in classification order
func (s *Selection) Entries() []PackageEntry {
	var out []PackageEntry
	for _, e := range s.all {
		if s.selected[e.Name] {
			out = append(out, e)
		}
	}
	return out
}

// TotalSize sums the sizes of the selected entries
func (s *Selection) TotalSize() int64 {
	var total int64
	for _, e := range s.Entries() {
		total += e.Size
	}
	return total
}

func (s *Selection) lookup(name string) (PackageEntry, bool) {
	for _, e := range s.all {
		if e.Name == name {
			return e, true
		}
	}
	return PackageEntry{}, false
}

func (s *Selection) selectedBaseCount() int {
	n := 0
	for _, e := range s.all {
		if e.IsBase && s.selected[e.Name] {
			n++
		}
	}
	return n
}
