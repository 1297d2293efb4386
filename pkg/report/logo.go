package report

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// logoMIMETypes maps supported logo file extensions to their MIME type.
var logoMIMETypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
}

// LoadLogo reads an image file and embeds it as a data URI so the logo
// travels with the project bundle instead of referencing a local path.
func LoadLogo(path string) (*Logo, error) {
	ext := strings.ToLower(filepath.Ext(path))
	mime, ok := logoMIMETypes[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported logo format %s (supported: png, jpg, gif)", ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read logo file: %w", err)
	}

	return &Logo{
		DataURI:  "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data),
		Filename: filepath.Base(path),
	}, nil
}
