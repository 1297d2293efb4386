package dataset

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXImporter reads Excel workbooks via excelize. By default the first sheet
// is imported; set Sheet to pick another one.
type XLSXImporter struct {
	// Sheet selects a worksheet by name. Empty means the first sheet.
	Sheet string
}

// Import parses the workbook at path. The first row of the selected sheet is
// the header.
func (i *XLSXImporter) Import(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := i.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q contains no rows", sheet)
	}

	tbl := &Table{
		Name:    tableName(path),
		Columns: rows[0],
	}
	tbl.Rows = normalizeRows(rows[1:], len(tbl.Columns))
	return tbl, nil
}
