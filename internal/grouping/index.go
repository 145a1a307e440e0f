package grouping

import (
	"github.com/mosaicops/mosaic-merger/internal/source"
)

// GroupSize is the required group cardinality for compositing: one image per
// quadrant of the 2x2 mosaic.
const GroupSize = 4

// Group is a named sequence of files sharing a group key. Files keep the
// order they arrived in; order keys are applied later, only when a complete
// group is composited.
type Group struct {
	Key   string
	Files []source.RawFile
}

// Complete reports whether the group has exactly GroupSize members. Groups
// with fewer or more members are retained for reporting but never composited.
func (g Group) Complete() bool {
	return len(g.Files) == GroupSize
}

// Index accumulates files into groups, preserving first-seen group order for
// deterministic downstream iteration.
type Index struct {
	keys   []string
	groups map[string][]source.RawFile
}

// NewIndex creates an empty group index.
func NewIndex() *Index {
	return &Index{
		groups: make(map[string][]source.RawFile),
	}
}

// Accumulate appends each file to its group in input order, creating groups
// on first sight. Input files are not mutated.
func (idx *Index) Accumulate(files []source.RawFile) {
	for _, f := range files {
		key := GroupKey(f.Name)
		if _, ok := idx.groups[key]; !ok {
			idx.keys = append(idx.keys, key)
		}
		idx.groups[key] = append(idx.groups[key], f)
	}
}

// Groups returns all groups in first-seen order.
func (idx *Index) Groups() []Group {
	out := make([]Group, 0, len(idx.keys))
	for _, key := range idx.keys {
		out = append(out, Group{Key: key, Files: idx.groups[key]})
	}
	return out
}

// ValidGroups returns the groups with exactly GroupSize members, in the same
// relative order as first encountered.
func (idx *Index) ValidGroups() []Group {
	var out []Group
	for _, g := range idx.Groups() {
		if g.Complete() {
			out = append(out, g)
		}
	}
	return out
}

// IncompleteCount returns the number of groups excluded from compositing.
func (idx *Index) IncompleteCount() int {
	n := 0
	for _, g := range idx.Groups() {
		if !g.Complete() {
			n++
		}
	}
	return n
}

// FileCount returns the total number of accumulated files.
func (idx *Index) FileCount() int {
	n := 0
	for _, files := range idx.groups {
		n += len(files)
	}
	return n
}
