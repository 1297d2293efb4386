package dataset

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Importer reads a file into a Table.
type Importer interface {
	// Import parses the file at path. The returned table is named after
	// the file's base name unless the format carries its own name.
	Import(path string) (*Table, error)
}

// Factory creates importers keyed by file extension.
type Factory struct{}

// NewFactory creates an importer factory.
func NewFactory() *Factory {
	return &Factory{}
}

// CreateImporter returns the importer for the given file extension. The
// extension is case-insensitive and may include the leading dot.
func (f *Factory) CreateImporter(ext string) (Importer, error) {
	normalized := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))

	switch normalized {
	case "csv":
		return &CSVImporter{}, nil
	case "xlsx", "xlsm":
		return &XLSXImporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported dataset format: %s (supported: csv, xlsx, xlsm)", ext)
	}
}

// ImportFile is a convenience wrapper that picks the importer from the file's
// extension and runs it.
func ImportFile(path string) (*Table, error) {
	factory := NewFactory()
	importer, err := factory.CreateImporter(filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	return importer.Import(path)
}

// SupportedFormats returns the file extensions the factory understands.
func SupportedFormats() []string {
	return []string{"csv", "xlsx", "xlsm"}
}

// tableName derives a dataset name from a file path.
func tableName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
