package grouping

import (
	"fmt"
	"testing"

	"github.com/mosaicops/mosaic-merger/internal/source"
)

func namedFiles(names ...string) []source.RawFile {
	files := make([]source.RawFile, len(names))
	for i, n := range names {
		files[i] = source.RawFile{Name: n, Data: []byte(n), Seq: i}
	}
	return files
}

func TestIndexAccumulateConservation(t *testing.T) {
	files := namedFiles(
		"A1-1.png", "B2-1.png", "A1-2.png", "C3-1.png",
		"A1-3.png", "B2-2.png", "A1-4.png", "lonely.png",
	)

	idx := NewIndex()
	idx.Accumulate(files)

	// No file lost or duplicated.
	if idx.FileCount() != len(files) {
		t.Errorf("FileCount = %d, want %d", idx.FileCount(), len(files))
	}
	total := 0
	for _, g := range idx.Groups() {
		total += len(g.Files)
	}
	if total != len(files) {
		t.Errorf("sum of group sizes = %d, want %d", total, len(files))
	}
}

func TestIndexFirstSeenOrder(t *testing.T) {
	idx := NewIndex()
	idx.Accumulate(namedFiles("B2-1.png", "A1-1.png", "B2-2.png", "C3-1.png"))

	groups := idx.Groups()
	wantKeys := []string{"B2", "A1", "C3"}
	if len(groups) != len(wantKeys) {
		t.Fatalf("Groups returned %d groups, want %d", len(groups), len(wantKeys))
	}
	for i, g := range groups {
		if g.Key != wantKeys[i] {
			t.Errorf("groups[%d].Key = %s, want %s", i, g.Key, wantKeys[i])
		}
	}
}

func TestIndexPreservesArrivalOrderWithinGroup(t *testing.T) {
	idx := NewIndex()
	idx.Accumulate(namedFiles("A1-3.png", "A1-1.png", "A1-4.png", "A1-2.png"))

	groups := idx.Groups()
	if len(groups) != 1 {
		t.Fatalf("Groups returned %d groups, want 1", len(groups))
	}
	// Accumulation preserves input order; order keys apply only at composite.
	wantNames := []string{"A1-3.png", "A1-1.png", "A1-4.png", "A1-2.png"}
	for i, f := range groups[0].Files {
		if f.Name != wantNames[i] {
			t.Errorf("files[%d].Name = %s, want %s", i, f.Name, wantNames[i])
		}
	}
}

func TestValidGroupsCardinality(t *testing.T) {
	idx := NewIndex()
	var files []source.RawFile
	// sizes: G1=1, G2=2, G3=3, G4=4, G5=5
	for size := 1; size <= 5; size++ {
		for i := 1; i <= size; i++ {
			files = append(files, source.RawFile{
				Name: fmt.Sprintf("G%d-%d.png", size, i),
			})
		}
	}
	idx.Accumulate(files)

	valid := idx.ValidGroups()
	if len(valid) != 1 {
		t.Fatalf("ValidGroups returned %d groups, want 1", len(valid))
	}
	if valid[0].Key != "G4" {
		t.Errorf("valid group key = %s, want G4", valid[0].Key)
	}
	if idx.IncompleteCount() != 4 {
		t.Errorf("IncompleteCount = %d, want 4", idx.IncompleteCount())
	}
}

func TestValidGroupsEmptyIndex(t *testing.T) {
	idx := NewIndex()
	if got := idx.ValidGroups(); len(got) != 0 {
		t.Errorf("ValidGroups on empty index = %v, want empty", got)
	}
}
