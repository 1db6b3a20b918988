// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Export writes the entries matching f to path. The format follows the
// extension: .json writes indented JSON, anything else YAML.
func (s *Store) Export(ctx context.Context, path string, f Filter) (int, error) {
	entries, err := s.List(ctx, f)
	if err != nil {
		return 0, fmt.Errorf("querying for export: %w", err)
	}
	if entries == nil {
		entries = []Entry{}
	}

	var data []byte
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return 0, fmt.Errorf("marshaling JSON: %w", err)
		}
	} else {
		data, err = yaml.Marshal(entries)
		if err != nil {
			return 0, fmt.Errorf("marshaling YAML: %w", err)
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("creating export directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, fmt.Errorf("writing export: %w", err)
	}
	return len(entries), nil
}
