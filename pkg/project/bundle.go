package project

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// BundleFilename is the canonical path of a project bundle inside a sync
// repository.
const BundleFilename = "dashforge-project.yaml"

// EncodeBundle serializes a project to the YAML bundle format used for
// remote sync.
func EncodeBundle(p *Project) ([]byte, error) {
	data, err := yaml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode project bundle: %w", err)
	}
	return data, nil
}

// DecodeBundle parses a YAML project bundle and validates it.
func DecodeBundle(data []byte) (*Project, error) {
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse project bundle: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid project bundle: %w", err)
	}
	return &p, nil
}
