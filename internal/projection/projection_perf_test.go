package projection

import (
	"testing"

	"github.com/jask/practicum/internal/testdata"
)

func BenchmarkProjectLargeDirectory(b *testing.B) {
	all := testdata.Centers(5000, 1)
	c := Criteria{Name: "ceip", Zone: "ch"}
	s := SortSpec{Key: SortName, Direction: Descending}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Project(all, c, s)
	}
}

func TestProjectLargeDirectoryMatchesPartition(t *testing.T) {
	all := testdata.Centers(2000, 9)
	c := Criteria{Zone: "usera"}
	matched, _ := Partition(all, c)
	got := Project(all, c, SortSpec{Key: SortCapacity})
	if len(got) != len(matched) {
		t.Fatalf("Project returned %d rows, Partition matched %d", len(got), len(matched))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Capacity > got[i].Capacity {
			t.Fatalf("rows %d and %d out of order", i-1, i)
		}
	}
}

func TestProjectorOverGeneratedDataset(t *testing.T) {
	ds, err := testdata.Dataset(1000, 3)
	if err != nil {
		t.Fatalf("Dataset: %v", err)
	}
	p := NewProjector(ds)
	c := Criteria{Name: "ies"}
	s := SortSpec{Key: SortZone}
	got := p.View(c, s)
	want := Project(ds.All(), c, s)
	if !sameIDs(ids(got), ids(want)) {
		t.Fatal("projector view differs from direct projection")
	}
	if p.Total() != 1000 {
		t.Fatalf("Total = %d, want 1000", p.Total())
	}
}
