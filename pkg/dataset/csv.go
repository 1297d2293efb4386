package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// CSVImporter reads comma-separated files. The first record is the header;
// ragged records are padded or truncated to the header width rather than
// rejected.
type CSVImporter struct{}

// Import parses the CSV file at path.
func (i *CSVImporter) Import(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer f.Close()

	tbl, err := i.read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV %s: %w", path, err)
	}
	tbl.Name = tableName(path)
	return tbl, nil
}

func (i *CSVImporter) read(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	// Ragged rows are normalized afterwards instead of failing the import.
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("file contains no rows")
	}

	tbl := &Table{Columns: records[0]}
	tbl.Rows = normalizeRows(records[1:], len(tbl.Columns))
	return tbl, nil
}
