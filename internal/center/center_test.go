package center

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuiltinDirectoryLoads(t *testing.T) {
	ds, err := Builtin()
	require.NoError(t, err)
	require.Greater(t, ds.Len(), 15, "builtin directory should allow a full selection")

	first, ok := ds.ByID("c-001")
	require.True(t, ok)
	require.Equal(t, "28010012", first.Code)
	require.Equal(t, "Centro", first.Zone)
}

func TestNewDatasetRejectsBadRecords(t *testing.T) {
	tests := []struct {
		name    string
		records []Center
		want    error
	}{
		{name: "empty id", records: []Center{{ID: " ", Name: "x"}}, want: ErrEmptyID},
		{name: "duplicate id", records: []Center{{ID: "a"}, {ID: "a"}}, want: ErrDuplicateID},
		{name: "negative capacity", records: []Center{{ID: "a", Capacity: -1}}, want: ErrCapacity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDataset(tt.records)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAllReturnsCopy(t *testing.T) {
	ds, err := NewDataset([]Center{{ID: "a", Name: "Alpha"}, {ID: "b", Name: "Beta"}})
	require.NoError(t, err)

	all := ds.All()
	all[0].Name = "mutated"

	again := ds.All()
	require.Equal(t, "Alpha", again[0].Name)
	require.Equal(t, []string{"a", "b"}, []string{again[0].ID, again[1].ID})
}

func TestZonesDistinctInFirstSeenOrder(t *testing.T) {
	ds, err := NewDataset([]Center{
		{ID: "1", Zone: "Usera"},
		{ID: "2", Zone: "Centro"},
		{ID: "3", Zone: "Usera"},
		{ID: "4", Zone: ""},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"Usera", "Centro"}, ds.Zones())
}

func TestLoadFileAcceptsYAMLAndJSON(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "centers.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
centers:
  - id: x1
    code: "001"
    name: Alpha
    zone: North
    status: Disponible
    capacity: 3
`), 0o644))
	jsonPath := filepath.Join(dir, "centers.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[
  {"id": "x1", "code": "001", "name": "Alpha", "zone": "North", "status": "Disponible", "capacity": 3},
  {"id": "x2", "code": "002", "name": "Beta", "zone": "South", "status": "Completo", "capacity": 0}
]`), 0o644))

	fromYAML, err := LoadFile(yamlPath)
	require.NoError(t, err)
	require.Equal(t, 1, fromYAML.Len())

	fromJSON, err := LoadFile(jsonPath)
	require.NoError(t, err)
	require.Equal(t, 2, fromJSON.Len())
	beta, ok := fromJSON.ByID("x2")
	require.True(t, ok)
	require.Equal(t, Center{ID: "x2", Code: "002", Name: "Beta", Zone: "South", Status: "Completo", Capacity: 0}, beta)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
