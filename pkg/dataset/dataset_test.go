package dataset

import (
	"os"
	"path/filepath"
	"testing"
)

func sampleTable() Table {
	return Table{
		Name:    "sales",
		Columns: []string{"region", "product", "amount"},
		Rows: [][]string{
			{"east", "widget", "100"},
			{"west", "widget", "250"},
			{"east", "gadget", "75"},
			{"north", "widget", "90"},
		},
	}
}

func TestDistinctValues(t *testing.T) {
	tbl := sampleTable()

	got, err := tbl.DistinctValues("region")
	if err != nil {
		t.Fatalf("DistinctValues failed: %v", err)
	}
	want := []string{"east", "north", "west"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("value %d = %q, want %q", i, got[i], want[i])
		}
	}

	if _, err := tbl.DistinctValues("missing"); err == nil {
		t.Error("expected error for unknown column")
	}
}

func TestApplySlicer(t *testing.T) {
	tbl := sampleTable()

	filtered, err := ApplySlicer(tbl, "region", []string{"east"})
	if err != nil {
		t.Fatalf("ApplySlicer failed: %v", err)
	}
	if len(filtered.Rows) != 2 {
		t.Errorf("expected 2 rows, got %d", len(filtered.Rows))
	}
	// Original table is untouched.
	if len(tbl.Rows) != 4 {
		t.Errorf("source table mutated: %d rows", len(tbl.Rows))
	}

	// Empty value set filters nothing.
	unfiltered, err := ApplySlicer(tbl, "region", nil)
	if err != nil {
		t.Fatalf("ApplySlicer with empty values failed: %v", err)
	}
	if len(unfiltered.Rows) != 4 {
		t.Errorf("empty slicer should keep all rows, got %d", len(unfiltered.Rows))
	}

	if _, err := ApplySlicer(tbl, "missing", []string{"x"}); err == nil {
		t.Error("expected error for unknown column")
	}
}

func TestCSVImport(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantErr  bool
		wantCols int
		wantRows int
	}{
		{
			name:     "well formed file",
			content:  "region,amount\neast,100\nwest,250\n",
			wantCols: 2,
			wantRows: 2,
		},
		{
			name:     "ragged rows are normalized",
			content:  "a,b,c\n1,2\n1,2,3,4\n",
			wantCols: 3,
			wantRows: 2,
		},
		{
			name:     "header only",
			content:  "a,b\n",
			wantCols: 2,
			wantRows: 0,
		},
		{
			name:    "empty file",
			content: "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data.csv")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("failed to write fixture: %v", err)
			}

			tbl, err := ImportFile(path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ImportFile failed: %v", err)
			}
			if tbl.Name != "data" {
				t.Errorf("table name = %q, want %q", tbl.Name, "data")
			}
			if len(tbl.Columns) != tt.wantCols {
				t.Errorf("columns = %d, want %d", len(tbl.Columns), tt.wantCols)
			}
			if len(tbl.Rows) != tt.wantRows {
				t.Errorf("rows = %d, want %d", len(tbl.Rows), tt.wantRows)
			}
			for i, row := range tbl.Rows {
				if len(row) != tt.wantCols {
					t.Errorf("row %d width = %d, want %d", i, len(row), tt.wantCols)
				}
			}
		})
	}
}

func TestCreateImporter(t *testing.T) {
	factory := NewFactory()

	for _, ext := range []string{"csv", ".CSV", "xlsx", ".XLSM"} {
		if _, err := factory.CreateImporter(ext); err != nil {
			t.Errorf("CreateImporter(%q) failed: %v", ext, err)
		}
	}

	if _, err := factory.CreateImporter("parquet"); err == nil {
		t.Error("expected error for unsupported format")
	}
}
